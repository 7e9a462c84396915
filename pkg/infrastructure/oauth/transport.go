package oauth

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	httputil "github.com/pipesync/server/pkg/infrastructure/http"
)

// Transport authenticates every request with a token from Source.
type Transport struct {
	Source oauth2.TokenSource
	// Base defaults to http.DefaultTransport.
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	token, err := t.Source.Token()
	if err != nil {
		return nil, fmt.Errorf("oauth: token for %s: %w", req.URL.Host, err)
	}

	// RoundTrippers must not modify the caller's request
	authed := req.Clone(req.Context())
	token.SetAuthHeader(authed)
	if authed.Header.Get("Accept") == "" {
		authed.Header.Set("Accept", "application/json")
	}

	return base.RoundTrip(authed)
}

// NewBearerClient creates an HTTP client for APIs authenticated with a
// long-lived personal access token.
// Stack: Client -> Status -> Bearer -> Network
func NewBearerClient(accessToken string, timeout time.Duration) *http.Client {
	bearer := &Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: accessToken,
			TokenType:   "Bearer",
		}),
	}

	return &http.Client{
		Transport: &httputil.StatusTransport{Base: bearer},
		Timeout:   timeout,
	}
}
