// Package runtime handles notification fan-out and the timers behind simulated replies.
// It contains no conversation rules.
package runtime

import (
	"chat-local/domain"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

type MessagesCallback func(messages []domain.Message)

type DirectoryCallback func(chats []domain.ChatRoom)

type subscription[T any] struct {
	id     uuid.UUID
	fn     func(T)
	active atomic.Bool
}

// Registry keeps subscriber callbacks per conversation and for the directory.
//
// Notifications are queued in the order the state changed and delivered by a
// single drainer, so subscribers never see an older snapshot after a newer one.
// Callbacks run in registration order. A publish made from inside a callback
// is delivered once that callback returns, by the same drain.
type Registry struct {
	mu          sync.RWMutex
	messageSubs map[domain.ChatID][]*subscription[[]domain.Message]
	chatSubs    []*subscription[[]domain.ChatRoom]

	qmu      sync.Mutex
	queue    []func()
	draining bool
}

func NewRegistry() *Registry {
	return &Registry{
		messageSubs: make(map[domain.ChatID][]*subscription[[]domain.Message]),
	}
}

// SubscribeMessages registers cb for one conversation and returns its unsubscribe func.
func (r *Registry) SubscribeMessages(id domain.ChatID, cb MessagesCallback) func() {
	sub := newSubscription[[]domain.Message](cb)

	r.mu.Lock()
	r.messageSubs[id] = append(r.messageSubs[id], sub)
	r.mu.Unlock()

	return r.unsubscriber(sub, func() {
		subs := without(r.messageSubs[id], sub.id)
		if len(subs) == 0 {
			// No one is left, drop the entry to keep the map small
			delete(r.messageSubs, id)
			return
		}
		r.messageSubs[id] = subs
	})
}

// SubscribeDirectory registers cb for directory changes and returns its unsubscribe func.
func (r *Registry) SubscribeDirectory(cb DirectoryCallback) func() {
	sub := newSubscription[[]domain.ChatRoom](cb)

	r.mu.Lock()
	r.chatSubs = append(r.chatSubs, sub)
	r.mu.Unlock()

	return r.unsubscriber(sub, func() {
		r.chatSubs = without(r.chatSubs, sub.id)
	})
}

// PublishMessages hands the conversation snapshot to its subscribers.
func (r *Registry) PublishMessages(id domain.ChatID, messages []domain.Message) {
	r.QueueMessages(id, messages)
	r.Drain()
}

func (r *Registry) PublishDirectory(chats []domain.ChatRoom) {
	r.QueueDirectory(chats)
	r.Drain()
}

// QueueMessages enqueues a conversation snapshot without delivering it.
// Callers that hold their own state lock queue under it and Drain after
// releasing it, so queue order is state order.
func (r *Registry) QueueMessages(id domain.ChatID, messages []domain.Message) {
	r.enqueue(func() {
		// The subscriber list is copied first; a subscription cancelled during
		// the pass is skipped for the rest of it.
		r.mu.RLock()
		subs := append([]*subscription[[]domain.Message](nil), r.messageSubs[id]...)
		r.mu.RUnlock()
		dispatch(subs, messages)
	})
}

func (r *Registry) QueueDirectory(chats []domain.ChatRoom) {
	r.enqueue(func() {
		r.mu.RLock()
		subs := append([]*subscription[[]domain.ChatRoom](nil), r.chatSubs...)
		r.mu.RUnlock()
		dispatch(subs, chats)
	})
}

func (r *Registry) enqueue(notify func()) {
	r.qmu.Lock()
	r.queue = append(r.queue, notify)
	r.qmu.Unlock()
}

// Drain delivers queued notifications until the queue is empty. When another
// call is already draining, including an outer call further up the stack,
// it returns at once and that drain delivers what was queued.
func (r *Registry) Drain() {
	r.qmu.Lock()
	if r.draining {
		r.qmu.Unlock()
		return
	}
	r.draining = true
	r.qmu.Unlock()

	for {
		r.qmu.Lock()
		// Checked and released in one critical section: a publish racing the
		// end of the drain is either seen here or finds draining false.
		if len(r.queue) == 0 {
			r.draining = false
			r.qmu.Unlock()
			return
		}
		notify := r.queue[0]
		r.queue[0] = nil
		r.queue = r.queue[1:]
		r.qmu.Unlock()
		r.deliver(notify)
	}
}

// deliver runs one notification. A panicking callback releases the drain
// before the panic goes on up.
func (r *Registry) deliver(notify func()) {
	defer func() {
		if p := recover(); p != nil {
			r.qmu.Lock()
			r.draining = false
			r.qmu.Unlock()
			panic(p)
		}
	}()
	notify()
}

// Subscribers counts the live subscriptions of a conversation.
func (r *Registry) Subscribers(id domain.ChatID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messageSubs[id])
}

func (r *Registry) DirectorySubscribers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chatSubs)
}

func newSubscription[T any](fn func(T)) *subscription[T] {
	sub := &subscription[T]{id: uuid.New(), fn: fn}
	sub.active.Store(true)
	return sub
}

func (s *subscription[T]) deactivate() bool {
	return s.active.CompareAndSwap(true, false)
}

type deactivator interface {
	deactivate() bool
}

// unsubscriber returns an idempotent unsubscribe func.
func (r *Registry) unsubscriber(sub deactivator, remove func()) func() {
	return func() {
		if !sub.deactivate() {
			return
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		remove()
	}
}

func dispatch[T any](subs []*subscription[T], value T) {
	for _, sub := range subs {
		if !sub.active.Load() {
			continue
		}
		sub.fn(value)
	}
}

func without[T any](subs []*subscription[T], id uuid.UUID) []*subscription[T] {
	res := make([]*subscription[T], 0, len(subs))
	for _, s := range subs {
		if s.id != id {
			res = append(res, s)
		}
	}
	return res
}
