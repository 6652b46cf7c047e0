package auth

import (
	"net/http"

	"shopauth/internal/api"
)

// Responder is the part of an HTTP response the handshake writes to.
type Responder interface {
	// Redirect sends a 302 to location after setting cookies.
	Redirect(location string, cookies ...*http.Cookie)

	// JSON writes status and body after setting cookies. A nil body sends the
	// status with an empty body.
	JSON(status int, body any, cookies ...*http.Cookie)
}

type httpResponder struct {
	w http.ResponseWriter
	r *http.Request
}

func NewHTTPResponder(w http.ResponseWriter, r *http.Request) Responder {
	return httpResponder{w: w, r: r}
}

func (h httpResponder) Redirect(location string, cookies ...*http.Cookie) {
	h.setCookies(cookies)
	http.Redirect(h.w, h.r, location, http.StatusFound)
}

func (h httpResponder) JSON(status int, body any, cookies ...*http.Cookie) {
	h.setCookies(cookies)
	if body == nil {
		h.w.WriteHeader(status)
		return
	}
	api.WriteJSON(h.w, status, body)
}

func (h httpResponder) setCookies(cookies []*http.Cookie) {
	for _, c := range cookies {
		http.SetCookie(h.w, c)
	}
}
