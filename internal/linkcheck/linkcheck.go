// Package linkcheck verifies that venue websites still answer.
package linkcheck

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kidseatfree/venue-cli/internal/model"
	"github.com/kidseatfree/venue-cli/internal/resilience"
)

// Defaults for New.
const (
	DefaultConcurrency = 4
	DefaultTimeout     = 10 * time.Second
	DefaultUserAgent   = "venue-cli/1.0 (link check)"
)

// Target is one URL to check.
type Target struct {
	Region    string `json:"region"`
	VenueID   string `json:"venueId"`
	VenueName string `json:"venue"`
	URL       string `json:"url"`
}

// Result is the outcome of checking one Target.
type Result struct {
	Target
	OK         bool   `json:"ok"`
	Status     int    `json:"status,omitempty"`
	FinalURL   string `json:"finalUrl,omitempty"`
	Redirected bool   `json:"redirected"`
	Error      string `json:"error,omitempty"`
}

// Targets lists the websites of venues. Venues without a website are skipped.
func Targets(region string, venues []model.Venue) []Target {
	out := make([]Target, 0, len(venues))
	for _, v := range venues {
		if v.Website == "" {
			continue
		}
		out = append(out, Target{Region: region, VenueID: v.ID, VenueName: v.Name, URL: v.Website})
	}
	return out
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) { c.client = hc }
}

// WithConcurrency bounds the number of requests in flight.
func WithConcurrency(n int) Option {
	return func(c *Checker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithPolicy sets the retry policy for transient failures.
func WithPolicy(p resilience.Policy) Option {
	return func(c *Checker) { c.policy = p }
}

// Checker issues HEAD requests, following redirects.
type Checker struct {
	client      *http.Client
	concurrency int
	timeout     time.Duration
	policy      resilience.Policy
	log         *zap.Logger
}

// New creates a Checker.
func New(opts ...Option) *Checker {
	c := &Checker{
		client:      &http.Client{},
		concurrency: DefaultConcurrency,
		timeout:     DefaultTimeout,
		policy:      resilience.DefaultPolicy(),
		log:         zap.L().With(zap.String("component", "linkcheck")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check checks every target and returns results in target order. Individual
// failures are reported in the results; an error is returned only when ctx
// ends before all targets are checked.
func (c *Checker) Check(ctx context.Context, targets []Target) ([]Result, error) {
	results := make([]Result, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)

	for i, t := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = c.CheckOne(gctx, t)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, eris.Wrap(err, "linkcheck: check")
	}
	if err := ctx.Err(); err != nil {
		return results, eris.Wrap(err, "linkcheck: check")
	}
	return results, nil
}

type probe struct {
	status   int
	finalURL string
}

// CheckOne checks a single target, retrying transient failures.
func (c *Checker) CheckOne(ctx context.Context, t Target) Result {
	res := Result{Target: t}

	policy := c.policy
	if policy.OnRetry == nil {
		policy.OnRetry = resilience.LogRetry("linkcheck", t.URL)
	}

	p, err := resilience.Retry(ctx, policy, func(ctx context.Context) (probe, error) {
		p, err := c.probe(ctx, t.URL)
		if err != nil {
			return probe{}, err
		}
		if resilience.IsTransientStatus(p.status) {
			return probe{}, resilience.Transient(eris.Errorf("linkcheck: %s returned %d", t.URL, p.status), p.status)
		}
		return p, nil
	})
	if err != nil {
		var te *resilience.TransientError
		if errors.As(err, &te) {
			res.Status = te.StatusCode
		}
		res.Error = err.Error()
		c.log.Info("link failed", zap.String("venue", t.VenueID), zap.String("url", t.URL), zap.Error(err))
		return res
	}

	res.Status = p.status
	res.FinalURL = p.finalURL
	res.Redirected = p.finalURL != "" && p.finalURL != t.URL
	res.OK = p.status >= 200 && p.status < 400
	if !res.OK {
		res.Error = http.StatusText(p.status)
	}

	c.log.Debug("link checked",
		zap.String("venue", t.VenueID),
		zap.Int("status", p.status),
		zap.Bool("ok", res.OK),
	)
	return res
}

// probe sends HEAD, falling back to GET for servers that refuse HEAD.
func (c *Checker) probe(ctx context.Context, url string) (probe, error) {
	p, err := c.do(ctx, http.MethodHead, url)
	if err != nil {
		return probe{}, err
	}
	if p.status == http.StatusMethodNotAllowed || p.status == http.StatusNotImplemented {
		return c.do(ctx, http.MethodGet, url)
	}
	return p, nil
}

func (c *Checker) do(ctx context.Context, method, url string) (probe, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return probe{}, eris.Wrap(err, "linkcheck: build request")
	}
	req.Header.Set("User-Agent", DefaultUserAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return probe{}, err
	}
	_ = resp.Body.Close()

	return probe{status: resp.StatusCode, finalURL: resp.Request.URL.String()}, nil
}

// Summary counts check outcomes.
type Summary struct {
	Total  int `json:"total"`
	OK     int `json:"ok"`
	Failed int `json:"failed"`
}

// Summarize tallies results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.OK {
			s.OK++
		} else {
			s.Failed++
		}
	}
	return s
}

// Failures returns the results that did not succeed.
func Failures(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if !r.OK {
			out = append(out, r)
		}
	}
	return out
}
