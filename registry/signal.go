package registry

import (
	"context"
	"sync"
)

// onceSignal is a context-aware equivalent of asyncio.Event: fire may be
// called any number of times but only the first has an effect, and wait
// returns immediately for every caller once fired.
type onceSignal struct {
	mu     sync.Mutex
	ch     chan struct{}
	closed bool
}

func newOnceSignal() *onceSignal {
	return &onceSignal{ch: make(chan struct{})}
}

func (s *onceSignal) fire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.ch)
	}
}

func (s *onceSignal) wait(ctx context.Context) error {
	select {
	case <-s.ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// genSignal is a monotonically increasing generation counter with a
// broadcast-style waiter, the equivalent of an asyncio.Condition used
// purely for "something happened N more times" notification.
type genSignal struct {
	mu  sync.Mutex
	gen int
	ch  chan struct{}
}

func newGenSignal() *genSignal {
	return &genSignal{ch: make(chan struct{})}
}

// bump advances the generation and wakes all current waiters.
func (s *genSignal) bump() {
	s.mu.Lock()
	s.gen++
	old := s.ch
	s.ch = make(chan struct{})
	s.mu.Unlock()
	close(old)
}

// waitN blocks until the generation has advanced by at least n from the
// value observed at call time, or ctx is canceled.
func (s *genSignal) waitN(ctx context.Context, n int) error {
	s.mu.Lock()
	target := s.gen + n
	ch := s.ch
	s.mu.Unlock()

	for {
		select {
		case <-ch:
			s.mu.Lock()
			cur, curCh := s.gen, s.ch
			s.mu.Unlock()
			if cur >= target {
				return nil
			}
			ch = curCh
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
