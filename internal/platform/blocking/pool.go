// Package blocking runs blocking I/O (SMTP exchanges) on a bounded set of goroutines
// kept apart from request handling.
package blocking

import (
	"context"
	"errors"

	"golang.org/x/sync/semaphore"

	"github.com/Overland-East-Bay/newsletter-api/internal/platform/logger"
)

// ErrClosed is returned by Do after Close has been called.
var ErrClosed = errors.New("blocking pool closed")

// Pool bounds the number of concurrently running blocking jobs.
type Pool struct {
	size   int64
	sem    *semaphore.Weighted
	log    *logger.Logger
	closed chan struct{}
}

func NewPool(size int, log *logger.Logger) *Pool {
	if size < 1 {
		size = 1
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Pool{
		size:   int64(size),
		sem:    semaphore.NewWeighted(int64(size)),
		log:    log,
		closed: make(chan struct{}),
	}
}

// Do runs fn on a pool goroutine and waits for its result or for ctx to end.
//
// fn receives a context that is not canceled with ctx: once started, a job runs to
// completion even if the caller gives up. Its late result is logged.
func (p *Pool) Do(ctx context.Context, name string, fn func(context.Context) error) error {
	select {
	case <-p.closed:
		return ErrClosed
	default:
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	// Close may have started while this call waited for a slot.
	select {
	case <-p.closed:
		p.sem.Release(1)
		return ErrClosed
	default:
	}

	done := make(chan error, 1)
	jobCtx := context.WithoutCancel(ctx)
	go func() {
		defer p.sem.Release(1)
		done <- fn(jobCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		go func() {
			if err := <-done; err != nil {
				p.log.Warn("abandoned job failed", "job", name, "error", err)
				return
			}
			p.log.Debug("abandoned job finished", "job", name)
		}()
		return ctx.Err()
	}
}

// Close stops accepting jobs and waits for running jobs to finish or ctx to end.
func (p *Pool) Close(ctx context.Context) error {
	select {
	case <-p.closed:
	default:
		close(p.closed)
	}
	if err := p.sem.Acquire(ctx, p.size); err != nil {
		return err
	}
	p.sem.Release(p.size)
	return nil
}
