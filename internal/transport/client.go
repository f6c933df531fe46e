// Package transport builds the HTTP client used for downloads. It attaches
// API keys to requests for the hosts they belong to and leaves every other
// request untouched.
package transport

import (
	"net/http"
	"strings"

	"github.com/asnmap/asnmap/pkg/constants"
)

// PeeringDBHost serves the curated network directory.
const PeeringDBHost = "www.peeringdb.com"

// Credential is an API key for one host.
type Credential struct {
	Host string
	Key  string
	Auth Authenticator
}

// PeeringDB returns the credential for a PeeringDB API key. Authenticated
// requests get a higher rate limit than anonymous ones.
func PeeringDB(apiKey string) Credential {
	return Credential{
		Host: PeeringDBHost,
		Key:  apiKey,
		Auth: &HeaderAuth{Header: "Authorization", Scheme: "Api-Key"},
	}
}

// New returns an HTTP client that applies creds to matching requests.
// Credentials with an empty key are ignored.
func New(creds ...Credential) *http.Client {
	active := make([]Credential, 0, len(creds))
	for _, c := range creds {
		if c.Key != "" && c.Auth != nil {
			active = append(active, c)
		}
	}
	return &http.Client{
		Timeout:   constants.DefaultHTTPTimeout,
		Transport: &roundTripper{base: http.DefaultTransport, creds: active},
	}
}

type roundTripper struct {
	base  http.RoundTripper
	creds []Credential
}

// RoundTrip implements http.RoundTripper. The request is cloned before a
// credential is applied.
func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	for _, c := range rt.creds {
		if strings.EqualFold(req.URL.Hostname(), c.Host) {
			req = req.Clone(req.Context())
			c.Auth.Apply(req, c.Key)
			break
		}
	}
	return rt.base.RoundTrip(req)
}
