package fetch

import (
	"log/slog"
	"time"
)

// Option configures a Query.
type Option[T any] func(*Query[T])

// WithInitialData sets Data before the first invocation succeeds.
func WithInitialData[T any](data T) Option[T] {
	return func(q *Query[T]) {
		q.state.Data = data
	}
}

// WithMaxRetries bounds the number of retries after the first attempt.
func WithMaxRetries[T any](n int) Option[T] {
	return func(q *Query[T]) {
		if n >= 0 {
			q.maxRetries = n
		}
	}
}

// WithRetryDelay sets the base backoff delay.
func WithRetryDelay[T any](d time.Duration) Option[T] {
	return func(q *Query[T]) {
		if d > 0 {
			q.retryDelay = d
		}
	}
}

func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(q *Query[T]) {
		if logger != nil {
			q.log = logger
		}
	}
}
