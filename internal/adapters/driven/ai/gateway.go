package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// Option customises a gateway adapter
type Option func(*gatewayOptions)

type gatewayOptions struct {
	timeout    time.Duration
	limiter    *RateLimiter
	dimensions int
}

func newGatewayOptions(opts []Option) gatewayOptions {
	o := gatewayOptions{timeout: domain.DefaultGatewayTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithTimeout bounds every outbound call. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(o *gatewayOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithRateLimiter throttles outbound calls through a shared limiter
func WithRateLimiter(l *RateLimiter) Option {
	return func(o *gatewayOptions) {
		o.limiter = l
	}
}

// WithDimensions overrides the vector length reported by an embedding adapter
func WithDimensions(n int) Option {
	return func(o *gatewayOptions) {
		if n > 0 {
			o.dimensions = n
		}
	}
}

// transportError classifies a failed call as a timeout or as kind
func transportError(kind error, err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return fmt.Errorf("%w: %w", kind, err)
}
