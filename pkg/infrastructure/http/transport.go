package httputil

import "net/http"

// StatusTransport turns 4xx/5xx responses into *HTTPError so that callers
// which only decode bodies (GraphQL clients) still surface the status and body.
type StatusTransport struct {
	// Base is the underlying RoundTripper. If nil, http.DefaultTransport is used.
	Base http.RoundTripper
}

func (t *StatusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	resp, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if err := ParseErrorResponse(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}
