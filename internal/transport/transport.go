// Package transport is the outbound HTTP layer shared by every API call:
// bearer injection, request correlation ids, a client-side rate limiter,
// retry on idempotent reads and request metrics.
package transport

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type routeKey struct{}

// WithRoute attaches the route template (e.g. "/wyzwania/{id}") to the
// request context so metrics are labelled by template instead of raw paths
// full of ids.
func WithRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFrom(ctx context.Context, fallback string) string {
	if route, ok := ctx.Value(routeKey{}).(string); ok {
		return route
	}
	return fallback
}

// TokenFunc supplies the current bearer token; ok is false when nobody is
// signed in.
type TokenFunc func(ctx context.Context) (token string, ok bool)

type RoundTripper struct {
	base    http.RoundTripper
	token   TokenFunc
	limiter *rate.Limiter
	log     *zap.Logger
}

func New(base http.RoundTripper, token TokenFunc, log *zap.Logger) *RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RoundTripper{
		base:    base,
		token:   token,
		limiter: rate.NewLimiter(5, 30),
		log:     log,
	}
}

func (rt *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()

	if err := rt.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req = req.Clone(ctx)
	if req.Header.Get("Authorization") == "" && rt.token != nil {
		if token, ok := rt.token(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := rt.send(req)
	duration := time.Since(start).Seconds()

	route := routeFrom(ctx, req.URL.Path)
	status := "transport_error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
		if resp.StatusCode == http.StatusForbidden {
			sessionExpiries.Inc()
		}
	}
	apiRequestsTotal.WithLabelValues(route, req.Method, status).Inc()
	apiRequestDuration.WithLabelValues(route, req.Method).Observe(duration)

	if err != nil {
		rt.log.Warn("request failed",
			zap.String("route", route),
			zap.String("method", req.Method),
			zap.Error(err))
		return nil, err
	}
	return resp, nil
}

// send retries GETs on transport errors and 5xx responses; everything else
// goes out exactly once so a flaky network can never double-apply a toggle.
func (rt *RoundTripper) send(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return rt.base.RoundTrip(req)
	}

	var resp *http.Response
	backoff := retry.WithMaxRetries(2, retry.NewExponential(200*time.Millisecond))
	err := retry.Do(req.Context(), backoff, func(ctx context.Context) error {
		var err error
		resp, err = rt.base.RoundTrip(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return retry.RetryableError(errStatus(resp.StatusCode))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

type errStatus int

func (e errStatus) Error() string {
	return "server returned " + strconv.Itoa(int(e))
}
