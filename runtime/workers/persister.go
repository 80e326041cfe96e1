package workers

import (
	"chat-local/contract"
	"chat-local/repositories"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Persister writes the chat state to the store in batches.
//
// The first MarkDirty after a write opens a window of FlushInterval; every
// mutation inside the window is covered by the single write that closes it.
// A change still pending when the context is cancelled is written before Run
// returns. Every mutation is therefore on disk at most FlushInterval after it
// happened, or at graceful shutdown.
type Persister struct {
	log           *slog.Logger
	clock         clockwork.Clock
	repository    repositories.ISnapshotRepository
	flushInterval time.Duration
	dirty         chan struct{}

	mu     sync.Mutex
	source contract.SnapshotSource
}

func NewPersister(log *slog.Logger, clock clockwork.Clock, repository repositories.ISnapshotRepository,
	flushInterval time.Duration) *Persister {
	return &Persister{
		log:           log,
		clock:         clock,
		repository:    repository,
		flushInterval: flushInterval,
		dirty:         make(chan struct{}, 1),
	}
}

// Attach sets where snapshots come from. The service attaches itself once built.
func (p *Persister) Attach(source contract.SnapshotSource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.source = source
}

// MarkDirty never blocks: marks made while one is pending coalesce.
func (p *Persister) MarkDirty() {
	select {
	case p.dirty <- struct{}{}:
	default:
	}
}

func (p *Persister) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return nil
		case <-p.dirty:
			if p.flushInterval > 0 {
				select {
				case <-p.clock.After(p.flushInterval):
				case <-ctx.Done():
					p.Flush()
					p.drain()
					return nil
				}
			}
			p.Flush()
		}
	}
}

// drain writes once more if a mark is still queued.
func (p *Persister) drain() {
	select {
	case <-p.dirty:
		p.Flush()
	default:
	}
}

// Flush writes the current snapshot now. A write failure is logged only:
// the in-memory state stays authoritative for the session.
func (p *Persister) Flush() {
	p.mu.Lock()
	source := p.source
	p.mu.Unlock()
	if source == nil {
		p.log.Warn("Flush requested before a snapshot source was attached")
		return
	}

	messages, chats := source.Snapshot()
	if err := p.repository.Persist(messages, chats); err != nil {
		p.log.Error("Persisting chat state failed", "error", err)
		return
	}
	p.log.Debug("Chat state persisted", "conversations", len(messages), "chats", len(chats))
}
