package music

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// TransportConfig tunes the guarded transport shared by both clients.
type TransportConfig struct {
	// Name labels the breaker in logs.
	Name string

	// RatePerSecond caps outgoing requests. Zero or less disables the limit.
	RatePerSecond float64
	Burst         int

	// The breaker opens when at least MinRequests were seen in Interval and
	// FailureRatio of them failed. It stays open for OpenTimeout.
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
	OpenTimeout  time.Duration
}

// DefaultTransportConfig matches the proxy's published limits.
func DefaultTransportConfig(name string) TransportConfig {
	return TransportConfig{
		Name:          name,
		RatePerSecond: 5,
		Burst:         5,
		MinRequests:   5,
		FailureRatio:  0.6,
		Interval:      30 * time.Second,
		OpenTimeout:   30 * time.Second,
	}
}

// errServerStatus marks a 5xx response as a failure for the breaker while
// the response itself is still handed back to the caller.
var errServerStatus = errors.New("music: server error status")

// guardedTransport waits on the limiter, then runs the request inside the
// circuit breaker. Transport errors and 5xx responses count as failures.
type guardedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewTransport wraps base (http.DefaultTransport when nil).
func NewTransport(base http.RoundTripper, cfg TransportConfig, logger *slog.Logger) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	if logger == nil {
		logger = slog.Default()
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    cfg.Interval,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("music circuit breaker state changed",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &guardedTransport{
		base:    base,
		limiter: rate.NewLimiter(limit, burst),
		breaker: breaker,
	}
}

func (t *guardedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("music: rate limiter: %w", err)
	}

	result, err := t.breaker.Execute(func() (interface{}, error) {
		resp, err := t.base.RoundTrip(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			return resp, errServerStatus
		}
		return resp, nil
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, errServerStatus):
		return result.(*http.Response), nil
	case err != nil:
		return nil, err
	}
	return result.(*http.Response), nil
}
