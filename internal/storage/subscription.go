package storage

import (
	"context"
	"sync"

	"github.com/mcoot/gamenight/internal/model"
)

// Subscription is a live feed of collection snapshots. Only the latest
// undelivered snapshot is kept: a slow reader skips intermediate states
// rather than building a backlog.
type Subscription struct {
	collection model.Collection
	ch         chan Snapshot
	done       chan struct{}

	mu      sync.Mutex
	closed  bool
	onClose func()
}

// NewSubscription creates an open subscription. onClose runs once when the
// subscription is closed and may be nil.
func NewSubscription(collection model.Collection, onClose func()) *Subscription {
	return &Subscription{
		collection: collection,
		ch:         make(chan Snapshot, 1),
		done:       make(chan struct{}),
		onClose:    onClose,
	}
}

// Collection returns the subscribed collection
func (s *Subscription) Collection() model.Collection {
	return s.collection
}

// C returns the snapshot channel. It is closed when the subscription is.
func (s *Subscription) C() <-chan Snapshot {
	return s.ch
}

// Done is closed when the subscription is closed
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Deliver replaces any pending snapshot with snap. It never blocks.
func (s *Subscription) Deliver(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case <-s.ch:
	default:
	}
	s.ch <- snap
}

// Close stops delivery. Safe to call more than once.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.ch)
	close(s.done)
	onClose := s.onClose
	s.mu.Unlock()

	// Outside the lock: onClose typically takes the broker's lock, and the
	// broker holds its lock while calling Deliver
	if onClose != nil {
		onClose()
	}
}

// CloseWithContext closes the subscription once ctx is done
func (s *Subscription) CloseWithContext(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()
}

// Broker fans snapshots out to in-process subscribers
type Broker struct {
	mu   sync.Mutex
	subs map[model.Collection]map[*Subscription]struct{}
}

// NewBroker creates an empty Broker
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[model.Collection]map[*Subscription]struct{}),
	}
}

// Subscribe registers a new subscription for a collection
func (b *Broker) Subscribe(collection model.Collection) *Subscription {
	var sub *Subscription
	sub = NewSubscription(collection, func() {
		b.remove(collection, sub)
	})

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[collection] == nil {
		b.subs[collection] = make(map[*Subscription]struct{})
	}
	b.subs[collection][sub] = struct{}{}
	return sub
}

func (b *Broker) remove(collection model.Collection, sub *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs[collection], sub)
}

// Publish delivers a snapshot to every subscriber of its collection
func (b *Broker) Publish(snap Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[snap.Collection] {
		sub.Deliver(snap)
	}
}

// SubscriberCount returns the number of open subscriptions for a collection
func (b *Broker) SubscriberCount(collection model.Collection) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[collection])
}

// CloseAll closes every subscription
func (b *Broker) CloseAll() {
	b.mu.Lock()
	var all []*Subscription
	for _, subs := range b.subs {
		for sub := range subs {
			all = append(all, sub)
		}
	}
	b.mu.Unlock()

	for _, sub := range all {
		sub.Close()
	}
}
