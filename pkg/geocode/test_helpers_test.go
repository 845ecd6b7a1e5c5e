package geocode

import (
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/time/rate"
)

func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

// newRewriteClient returns a client whose requests for URLs under prefix are
// served by the test server at srvURL, keeping path suffix and query.
func newRewriteClient(srvURL, prefix string) *http.Client {
	target, _ := url.Parse(srvURL)
	return &http.Client{Transport: redirectTransport{target: target, prefix: prefix}}
}

type redirectTransport struct {
	target *url.URL
	prefix string
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !strings.HasPrefix(req.URL.String(), rt.prefix) {
		return http.DefaultTransport.RoundTrip(req)
	}

	out := req.Clone(req.Context())
	out.URL.Scheme = rt.target.Scheme
	out.URL.Host = rt.target.Host
	out.URL.Path = rt.target.Path + strings.TrimPrefix(req.URL.Path, mustPath(rt.prefix))
	out.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

func mustPath(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Path
}
