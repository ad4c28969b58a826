package fetch

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	platformerrors "github.com/jmgilman/go/errors"
	"github.com/sethvargo/go-retry"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// errStale aborts the retry loop of an invocation that lost its generation.
var errStale = errors.New("stale invocation")

// Func produces the data a Query tracks.
type Func[T any] func(ctx context.Context) (T, error)

// State is a point-in-time snapshot of a Query.
type State[T any] struct {
	Data       T
	IsLoading  bool
	Err        error
	RetryCount int
}

// Query runs a Func with exponential backoff and exposes its state.
// Every invocation has a generation; results of older generations are dropped
// before they can touch the state.
type Query[T any] struct {
	log        *slog.Logger
	maxRetries int
	retryDelay time.Duration
	parent     context.Context

	mu     sync.Mutex
	op     Func[T]
	state  State[T]
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	closed bool
	subs   []chan State[T]

	wg sync.WaitGroup
}

// New creates a query bound to ctx and starts the first invocation.
// Cancelling ctx has the same effect as Close.
func New[T any](ctx context.Context, op Func[T], opts ...Option[T]) *Query[T] {
	q := &Query[T]{
		log:        slog.Default(),
		maxRetries: DefaultMaxRetries,
		retryDelay: DefaultRetryDelay,
		parent:     ctx,
	}
	for _, opt := range opts {
		opt(q)
	}

	q.start(op)

	return q
}

// State returns the current snapshot.
func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.state
}

// Reset replaces the operation, cancels the running invocation including any
// scheduled retry, and starts over.
func (q *Query[T]) Reset(op Func[T]) {
	q.start(op)
}

// Refetch starts a fresh invocation of the current operation.
func (q *Query[T]) Refetch() {
	q.mu.Lock()
	op := q.op
	q.mu.Unlock()

	q.start(op)
}

// Wait blocks until the current invocation settles or ctx is done.
func (q *Query[T]) Wait(ctx context.Context) (State[T], error) {
	q.mu.Lock()
	done := q.done
	q.mu.Unlock()

	select {
	case <-done:
		return q.State(), nil
	case <-ctx.Done():
		return q.State(), ctx.Err()
	}
}

// Subscribe returns a channel that receives state transitions. Slow readers
// only see the latest state. The channel is closed by Close.
func (q *Query[T]) Subscribe() <-chan State[T] {
	ch := make(chan State[T], 1)

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		close(ch)
		return ch
	}
	q.subs = append(q.subs, ch)
	ch <- q.state

	return ch
}

// Close tears the query down. No state changes happen after Close returns.
func (q *Query[T]) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	if q.cancel != nil {
		q.cancel()
	}
	for _, ch := range q.subs {
		close(ch)
	}
	q.subs = nil
	q.mu.Unlock()

	q.wg.Wait()
}

func (q *Query[T]) start(op Func[T]) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	if q.cancel != nil {
		q.cancel()
	}

	q.gen++
	ctx, cancel := context.WithCancel(q.parent)
	done := make(chan struct{})
	q.op = op
	q.cancel = cancel
	q.done = done
	q.state.IsLoading = true
	q.state.RetryCount = 0
	q.publishLocked()

	q.wg.Add(1)
	go q.run(ctx, q.gen, op, done)
}

func (q *Query[T]) run(ctx context.Context, gen uint64, op Func[T], done chan struct{}) {
	defer q.wg.Done()
	defer close(done)

	attempt := 0
	err := retry.Do(ctx, Backoff(q.maxRetries, q.retryDelay), func(ctx context.Context) error {
		if attempt > 0 {
			retryCount := attempt
			if !q.apply(ctx, gen, func(s *State[T]) { s.RetryCount = retryCount }) {
				return errStale
			}
		}
		attempt++

		data, err := op(ctx)
		if err == nil {
			if !q.apply(ctx, gen, func(s *State[T]) {
				s.Data = data
				s.Err = nil
				s.RetryCount = 0
				s.IsLoading = false
			}) {
				return errStale
			}
			return nil
		}

		q.log.Debug("fetch attempt failed", "attempt", attempt, "error", err)
		if !q.apply(ctx, gen, func(s *State[T]) { s.Err = err }) {
			return errStale
		}
		if !Retryable(err) {
			return err
		}

		return retry.RetryableError(err)
	})
	if err == nil {
		return
	}

	if q.apply(ctx, gen, func(s *State[T]) { s.IsLoading = false }) {
		q.log.Warn("fetch failed", "attempts", attempt, "error", err)
	}
}

// apply mutates the state only while gen is still the live invocation.
func (q *Query[T]) apply(ctx context.Context, gen uint64, mutate func(*State[T])) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || gen != q.gen || ctx.Err() != nil {
		return false
	}
	mutate(&q.state)
	q.publishLocked()

	return true
}

func (q *Query[T]) publishLocked() {
	for _, ch := range q.subs {
		select {
		case <-ch:
		default:
		}
		ch <- q.state
	}
}

// Backoff returns the retry schedule: delay, 2×delay, 4×delay... stopping
// after maxRetries retries.
func Backoff(maxRetries int, delay time.Duration) retry.Backoff {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if delay <= 0 {
		delay = DefaultRetryDelay
	}

	return retry.WithMaxRetries(uint64(maxRetries), retry.NewExponential(delay))
}

// Retryable reports whether err is worth another attempt. Classified errors
// follow their classification, unclassified ones are treated as transient.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, errStale) {
		return false
	}

	var platformErr platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		return platformErr.Classification().IsRetryable()
	}

	return true
}
