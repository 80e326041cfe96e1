//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"chat-local/domain"
	"context"
	"reflect"
	"time"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging during supervision.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Reply is what a simulated remote participant answers, and when.
type Reply struct {
	Text  string
	Delay time.Duration
}

// PeerBehavior decides how the remote side of a private conversation answers
// a locally sent message. ok=false means no answer.
type PeerBehavior interface {
	Reply(chatID domain.ChatID) (reply Reply, ok bool)
}

// MessageFilter rewrites outgoing text before it is stored.
type MessageFilter interface {
	Censor(text string) string
}

// IPersister is told about every mutation and decides when to write.
type IPersister interface {
	MarkDirty()
}

// SnapshotSource hands out a consistent copy of the chat state.
type SnapshotSource interface {
	Snapshot() (map[domain.ChatID][]domain.Message, []domain.ChatRoom)
}

// StatsSource reports a summary of the chat state.
type StatsSource interface {
	Stats() domain.ChatStats
}
