// Copyright 2026 The Certpack Authors
// SPDX-License-Identifier: Apache-2.0

// Package broadcast fans values out to any number of subscribers.
//
// A [Broadcaster] remembers the most recently published value and
// replays it to every new subscriber before anything published later.
// Each subscriber has its own unbounded queue drained by a goroutine,
// so [Broadcaster.Publish] never blocks on a slow reader and never
// drops a value: every subscriber sees every value published after it
// subscribed, in publication order.
package broadcast

import "sync"

// Broadcaster is safe for concurrent use. The zero value is ready to
// use.
type Broadcaster[T any] struct {
	mutex       sync.Mutex
	latest      T
	hasLatest   bool
	closed      bool
	subscribers map[*subscriber[T]]struct{}
}

// Publish records value as the latest and queues it for every current
// subscriber. Publishing after Close is a no-op.
func (b *Broadcaster[T]) Publish(value T) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.closed {
		return
	}
	b.latest = value
	b.hasLatest = true
	// Queueing under the lock keeps concurrent publishers in a single
	// order that every subscriber observes identically.
	for sub := range b.subscribers {
		sub.push(value)
	}
}

// Subscribe returns a channel that first yields the latest value (if
// any) and then every value published afterwards. The cancel function
// ends the subscription and closes the channel; it is safe to call more
// than once. After [Broadcaster.Close] the channel yields the pending
// values and then closes.
func (b *Broadcaster[T]) Subscribe() (<-chan T, func()) {
	sub := newSubscriber[T]()

	b.mutex.Lock()
	if b.hasLatest {
		sub.push(b.latest)
	}
	if b.closed {
		sub.finish()
	} else {
		if b.subscribers == nil {
			b.subscribers = make(map[*subscriber[T]]struct{})
		}
		b.subscribers[sub] = struct{}{}
	}
	b.mutex.Unlock()

	go sub.run()

	cancel := func() {
		b.mutex.Lock()
		delete(b.subscribers, sub)
		b.mutex.Unlock()
		sub.stop()
	}
	return sub.out, cancel
}

// Latest returns the most recently published value.
func (b *Broadcaster[T]) Latest() (T, bool) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.latest, b.hasLatest
}

// Subscribers returns the number of active subscriptions.
func (b *Broadcaster[T]) Subscribers() int {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return len(b.subscribers)
}

// Close ends every subscription once its queued values are delivered.
// Later Publish calls are ignored and later subscribers receive only
// the latest value.
func (b *Broadcaster[T]) Close() {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subscribers {
		sub.finish()
	}
	b.subscribers = nil
}

type subscriber[T any] struct {
	out chan T

	mutex     sync.Mutex
	queue     []T
	finishing bool

	wake     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func newSubscriber[T any]() *subscriber[T] {
	return &subscriber[T]{
		out:  make(chan T),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

func (s *subscriber[T]) push(value T) {
	s.mutex.Lock()
	if s.finishing {
		s.mutex.Unlock()
		return
	}
	s.queue = append(s.queue, value)
	s.mutex.Unlock()
	s.signal()
}

// finish lets run deliver what is queued and then close out.
func (s *subscriber[T]) finish() {
	s.mutex.Lock()
	s.finishing = true
	s.mutex.Unlock()
	s.signal()
}

// stop makes run return without delivering the rest of the queue.
func (s *subscriber[T]) stop() {
	s.stopOnce.Do(func() { close(s.done) })
}

func (s *subscriber[T]) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber[T]) run() {
	defer close(s.out)
	for {
		s.mutex.Lock()
		if len(s.queue) == 0 {
			finishing := s.finishing
			s.mutex.Unlock()
			if finishing {
				return
			}
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}
		next := s.queue[0]
		var zero T
		s.queue[0] = zero
		s.queue = s.queue[1:]
		s.mutex.Unlock()

		select {
		case s.out <- next:
		case <-s.done:
			return
		}
	}
}
