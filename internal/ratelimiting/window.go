package ratelimiting

import (
	"context"
	"slices"
	"sync"
	"time"
)

// WindowLimiter lets at most limit operations finish within any window
//
// Used for outbound calls to APIs with a fixed quota per window.
type WindowLimiter struct {
	window    time.Duration
	nowFunc   func() time.Time
	afterFunc func(time.Duration) <-chan time.Time

	slots    chan struct{}
	finished []time.Time
	mutex    sync.Mutex
}

func NewWindowLimiter(
	limit int,
	window time.Duration,
	nowFunc func() time.Time,
	afterFunc func(time.Duration) <-chan time.Time,
) *WindowLimiter {
	slots := make(chan struct{}, limit)
	finished := make([]time.Time, limit)

	// Pretend all slots finished a full window ago so the first requests run immediately
	longAgo := nowFunc().Add(-window)
	for i := range limit {
		slots <- struct{}{}
		finished[i] = longAgo
	}

	return &WindowLimiter{
		window:    window,
		nowFunc:   nowFunc,
		afterFunc: afterFunc,

		slots:    slots,
		finished: finished,
	}
}

// Run operation once the window allows it
//
// Returns false without running the operation when the context is done, or when
// waiting for the window plus maxOperationTime would exceed the context deadline.
func (l *WindowLimiter) Limit(ctx context.Context, maxOperationTime time.Duration, operation func()) bool {
	select {
	case <-l.slots:
		defer func() {
			l.slots <- struct{}{}
		}()
	case <-ctx.Done():
		return false
	}

	oldest, ok := l.takeOldest(ctx, maxOperationTime)
	if !ok {
		return false
	}
	// Put back the one we took if we return early
	finishedAt := oldest
	defer func() {
		l.insert(finishedAt)
	}()

	if wait := l.waitFor(oldest); wait > 0 {
		select {
		case <-ctx.Done():
			return false
		case <-l.afterFunc(wait):
		}
	}

	operation()

	finishedAt = l.nowFunc()
	return true
}

func (l *WindowLimiter) waitFor(finishedAt time.Time) time.Duration {
	return l.window - l.nowFunc().Sub(finishedAt)
}

func (l *WindowLimiter) takeOldest(ctx context.Context, maxOperationTime time.Duration) (time.Time, bool) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	oldest := l.finished[0]
	if deadline, ok := ctx.Deadline(); ok {
		if l.waitFor(oldest)+maxOperationTime > deadline.Sub(l.nowFunc()) {
			return time.Time{}, false
		}
	}

	l.finished = l.finished[1:]
	return oldest, true
}

func (l *WindowLimiter) insert(finishedAt time.Time) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	i, _ := slices.BinarySearchFunc(l.finished, finishedAt, func(a, b time.Time) int {
		return a.Compare(b)
	})
	l.finished = slices.Insert(l.finished, i, finishedAt)
}
