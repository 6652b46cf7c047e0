package auth

import "net/http"

type Kind string

const (
	KindInvalidRequest         Kind = "InvalidRequest"
	KindCsrfMismatch           Kind = "CsrfMismatch"
	KindHmacInvalid            Kind = "HmacInvalid"
	KindUpstreamExchangeFailed Kind = "UpstreamExchangeFailed"
	KindSessionPersistFailed   Kind = "SessionPersistFailed"
)

// Error ends a handshake request. Message is safe to show to the client.
type Error struct {
	Kind    Kind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Is matches on Kind, so errors.Is(ErrInvalidShop, ErrInvalidRequest) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidRequest = &Error{KindInvalidRequest, http.StatusBadRequest, "Required parameters missing"}
	ErrInvalidShop    = &Error{KindInvalidRequest, http.StatusBadRequest, "Invalid shop domain"}
	ErrCsrfMismatch   = &Error{KindCsrfMismatch, http.StatusBadRequest, "Request origin cannot be verified"}
	ErrHmacInvalid    = &Error{KindHmacInvalid, http.StatusBadRequest, "HMAC validation failed"}

	ErrUpstreamExchangeFailed = &Error{KindUpstreamExchangeFailed, http.StatusInternalServerError, "Error getting permanent access token from shopify"}
	ErrSessionPersistFailed   = &Error{KindSessionPersistFailed, http.StatusInternalServerError, "Error saving shopify session"}
)
