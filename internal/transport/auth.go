package transport

import (
	"net/http"
)

// Authenticator applies an API key to an outgoing request.
type Authenticator interface {
	Apply(req *http.Request, apiKey string)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request, _ string) {}

// HeaderAuth sets Header to the key, optionally prefixed by Scheme.
type HeaderAuth struct {
	Header string // defaults to Authorization
	Scheme string // "Bearer", "Api-Key", or empty for the bare key
}

// Apply implements the Authenticator interface for HeaderAuth.
func (a *HeaderAuth) Apply(req *http.Request, apiKey string) {
	header := a.Header
	if header == "" {
		header = "Authorization"
	}
	value := apiKey
	if a.Scheme != "" {
		value = a.Scheme + " " + apiKey
	}
	req.Header.Set(header, value)
}

// QueryAuth implements API key as query parameter authentication.
type QueryAuth struct {
	Param string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request, apiKey string) {
	if req.URL == nil {
		return
	}
	query := req.URL.Query()
	query.Set(a.Param, apiKey)
	req.URL.RawQuery = query.Encode()
}
