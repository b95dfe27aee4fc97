// Package pipeline provides a small lazy, pull-based stream abstraction
// used to shape event streams on their way to a transport: transform with
// Map, pace with Pace, consume with ForEach.
package pipeline

import (
	"context"
	"time"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
}

// Pipeline is a lazy stream; no work happens until values are pulled.
type Pipeline[T any] struct {
	create func(ctx context.Context) Iterator[T]
}

// FromChannel creates a pipeline that drains a channel until it closes.
func FromChannel[T any](ch <-chan T) *Pipeline[T] {
	return &Pipeline[T]{
		create: func(context.Context) Iterator[T] {
			return &channelIter[T]{ch: ch}
		},
	}
}

type channelIter[T any] struct {
	ch <-chan T
}

func (it *channelIter[T]) Next(ctx context.Context) (T, bool, error) {
	select {
	case v, open := <-it.ch:
		if !open {
			var zero T
			return zero, false, nil
		}
		return v, true, nil
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}
}

// Map transforms each value using fn.
func Map[I, O any](p *Pipeline[I], fn func(context.Context, I) (O, error)) *Pipeline[O] {
	return &Pipeline[O]{
		create: func(ctx context.Context) Iterator[O] {
			return &mapIter[I, O]{source: p.create(ctx), fn: fn}
		},
	}
}

type mapIter[I, O any] struct {
	source Iterator[I]
	fn     func(context.Context, I) (O, error)
}

func (it *mapIter[I, O]) Next(ctx context.Context) (O, bool, error) {
	v, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		var zero O
		return zero, ok, err
	}
	mapped, err := it.fn(ctx, v)
	if err != nil {
		var zero O
		return zero, false, err
	}
	return mapped, true, nil
}

// Pace delays successive values so at most one is emitted per interval.
// Unlike a throttle it never drops values; an interval of zero passes
// everything through untouched.
func Pace[T any](p *Pipeline[T], interval time.Duration) *Pipeline[T] {
	if interval <= 0 {
		return p
	}
	return &Pipeline[T]{
		create: func(ctx context.Context) Iterator[T] {
			return &paceIter[T]{source: p.create(ctx), interval: interval}
		},
	}
}

type paceIter[T any] struct {
	source   Iterator[T]
	interval time.Duration
	lastEmit time.Time
}

func (it *paceIter[T]) Next(ctx context.Context) (T, bool, error) {
	v, ok, err := it.source.Next(ctx)
	if err != nil || !ok {
		return v, ok, err
	}
	if !it.lastEmit.IsZero() {
		if wait := it.interval - time.Since(it.lastEmit); wait > 0 {
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				var zero T
				return zero, false, ctx.Err()
			}
		}
	}
	it.lastEmit = time.Now()
	return v, true, nil
}

// ForEach pulls the whole pipeline, calling fn per value. It stops on the
// first error or on context cancellation.
func (p *Pipeline[T]) ForEach(ctx context.Context, fn func(context.Context, T) error) error {
	iter := p.create(ctx)
	for {
		v, ok, err := iter.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, v); err != nil {
			return err
		}
	}
}
