package provider

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// breakerProvider wraps another provider with a circuit breaker so a
// backend that keeps failing is cut off quickly instead of burning the
// remaining cells of a run against a dead endpoint. Calls rejected by an
// open breaker surface as ordinary provider errors, which the caller
// already degrades to pass-through.
type breakerProvider struct {
	inner Provider
	cb    *gobreaker.CircuitBreaker
}

// WithBreaker decorates p with a circuit breaker that opens after five
// consecutive failures and probes again after thirty seconds.
func WithBreaker(p Provider) Provider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})
	return &breakerProvider{inner: p, cb: cb}
}

func (b *breakerProvider) Name() string { return b.inner.Name() }

func (b *breakerProvider) Invoke(ctx context.Context, req Request) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.inner.Invoke(ctx, req)
	})
	if err != nil {
		return "", err
	}
	return out.(string), nil
}
