package runtime

import (
	"chat-local/contract"
	"chat-local/domain"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Deliver receives a synthetic incoming message once its delay has elapsed.
// It must call claim inside the critical section that records the message
// and drop the message when claim returns false: the reply was cancelled, or
// the responder stopped, after its timer fired.
type Deliver func(chatID domain.ChatID, message domain.Message, claim func() bool)

// Responder schedules simulated answers from the remote side of private
// conversations. Each scheduled reply is a timer owned by its conversation
// and can be cancelled until it fires.
type Responder struct {
	mu       sync.Mutex
	log      *slog.Logger
	clock    clockwork.Clock
	behavior contract.PeerBehavior
	deliver  Deliver
	pending  map[domain.ChatID]map[uint64]clockwork.Timer
	seq      uint64
	stopped  bool
}

func NewResponder(log *slog.Logger, clock clockwork.Clock, behavior contract.PeerBehavior, deliver Deliver) *Responder {
	return &Responder{
		log:      log,
		clock:    clock,
		behavior: behavior,
		deliver:  deliver,
		pending:  make(map[domain.ChatID]map[uint64]clockwork.Timer),
	}
}

// MaybeScheduleReply arms one reply timer when the message was sent locally
// to a private conversation and the peer behavior wants to answer.
func (r *Responder) MaybeScheduleReply(chatID domain.ChatID, wasLocallySent bool) bool {
	if !wasLocallySent || chatID.IsPublic() {
		return false
	}
	reply, ok := r.behavior.Reply(chatID)
	if !ok {
		return false
	}
	if reply.Delay < 0 {
		reply.Delay = 0
	}

	// The slot is reserved before the timer exists: a zero delay may fire at once.
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return false
	}
	r.seq++
	seq := r.seq
	if r.pending[chatID] == nil {
		r.pending[chatID] = make(map[uint64]clockwork.Timer)
	}
	r.pending[chatID][seq] = nil
	r.mu.Unlock()

	due := r.clock.Now().Add(reply.Delay)
	timer := r.clock.AfterFunc(reply.Delay, func() { r.fire(chatID, seq, reply.Text, due) })

	r.mu.Lock()
	defer r.mu.Unlock()
	if timers, ok := r.pending[chatID]; ok {
		if _, ok = timers[seq]; ok {
			timers[seq] = timer
			r.log.Debug("Reply scheduled", "chat", chatID, "delay", reply.Delay)
			return true
		}
	}
	// Cancelled, or already fired, while the timer was being armed
	timer.Stop()
	return true
}

func (r *Responder) fire(chatID domain.ChatID, seq uint64, text string, due time.Time) {
	r.mu.Lock()
	pending := r.has(chatID, seq)
	r.mu.Unlock()
	if !pending {
		return
	}

	// The slot is only released by claim, so a Cancel or Stop that returns
	// before the message is recorded still wins.
	claim := func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		if !r.has(chatID, seq) {
			r.log.Debug("Reply dropped, cancelled while firing", "chat", chatID)
			return false
		}
		r.forget(chatID, seq)
		return true
	}
	r.deliver(chatID, domain.Message{
		ID:        uuid.NewString(),
		SenderID:  string(chatID),
		Text:      text,
		Timestamp: due.UnixMilli(),
	}, claim)
}

func (r *Responder) has(chatID domain.ChatID, seq uint64) bool {
	_, ok := r.pending[chatID][seq]
	return ok
}

// Cancel drops every pending reply of the conversation and returns how many.
func (r *Responder) Cancel(chatID domain.ChatID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.cancel(chatID)
	if n > 0 {
		r.log.Debug("Replies cancelled", "chat", chatID, "count", n)
	}
	return n
}

func (r *Responder) Pending(chatID domain.ChatID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending[chatID])
}

// PendingTotal counts the pending replies of every conversation.
func (r *Responder) PendingTotal() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	total := 0
	for _, timers := range r.pending {
		total += len(timers)
	}
	return total
}

// Stop cancels everything pending and refuses new replies.
func (r *Responder) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	for chatID := range r.pending {
		r.cancel(chatID)
	}
}

func (r *Responder) cancel(chatID domain.ChatID) int {
	timers := r.pending[chatID]
	for _, timer := range timers {
		if timer != nil {
			timer.Stop()
		}
	}
	delete(r.pending, chatID)
	return len(timers)
}

func (r *Responder) forget(chatID domain.ChatID, seq uint64) {
	delete(r.pending[chatID], seq)
	if len(r.pending[chatID]) == 0 {
		delete(r.pending, chatID)
	}
}
