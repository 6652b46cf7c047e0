package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"shopauth/internal/session"
	"shopauth/pkg/shopify"
)

type fakeResponder struct {
	location string
	status   int
	body     any
	cookies  []*http.Cookie
	calls    int
}

func (f *fakeResponder) Redirect(location string, cookies ...*http.Cookie) {
	f.calls++
	f.location = location
	f.status = http.StatusFound
	f.cookies = cookies
}

func (f *fakeResponder) JSON(status int, body any, cookies ...*http.Cookie) {
	f.calls++
	f.status = status
	f.body = body
	f.cookies = cookies
}

func (f *fakeResponder) cookie(name string) *http.Cookie {
	for _, c := range f.cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

type fakeExchanger struct {
	mu    sync.Mutex
	grant *shopify.AccessTokenGrant
	calls int
	shop  string
	code  string
}

func (f *fakeExchanger) Exchange(_ context.Context, shop, code string) *shopify.AccessTokenGrant {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.shop, f.code = shop, code
	return f.grant
}

type createCall struct {
	sessionID string
	session   session.Session
}

// countingStore records Create calls and delegates to a MemoryStore.
type countingStore struct {
	*session.MemoryStore
	creates []createCall
	failErr error
}

func newCountingStore() *countingStore {
	return &countingStore{MemoryStore: session.NewMemoryStore()}
}

func (c *countingStore) Create(ctx context.Context, sessionID string, s session.Session) error {
	c.creates = append(c.creates, createCall{sessionID: sessionID, session: s})
	if c.failErr != nil {
		return c.failErr
	}
	return c.MemoryStore.Create(ctx, sessionID, s)
}

type fixedNonce string

func (n fixedNonce) Generate() string { return string(n) }

var errStoreDown = errors.New("store down")
