package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

// callWithTimeout runs a gateway call under a deadline. A deadline hit is
// reported as ErrTimeout even when the adapter did not classify it.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		timeout = domain.DefaultGatewayTimeout
	}
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	result, err := call(callCtx)
	if err != nil && !errors.Is(err, domain.ErrTimeout) && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		var zero T
		return zero, fmt.Errorf("%w: %w", domain.ErrTimeout, err)
	}
	return result, err
}
