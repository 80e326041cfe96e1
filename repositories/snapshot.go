//go:generate go run go.uber.org/mock/mockgen -source=snapshot.go -destination=../mocks/mock_snapshot_repository.go -package=mocks
package repositories

import (
	"chat-local/domain"
	"chat-local/errors"
	"encoding/json"
	goerrors "errors"
	"fmt"
	"log/slog"
)

const (
	MessagesKey = "messages"
	ChatsKey    = "chats"
)

// ISnapshotRepository persists the whole chat state as two blobs.
type ISnapshotRepository interface {
	Persist(messages map[domain.ChatID][]domain.Message, chats []domain.ChatRoom) error
	Load() (map[domain.ChatID][]domain.Message, []domain.ChatRoom)
}

type SnapshotRepository struct {
	store IBlobStore
	log   *slog.Logger
}

func NewSnapshotRepository(store IBlobStore, log *slog.Logger) SnapshotRepository {
	return SnapshotRepository{store: store, log: log}
}

// Persist writes the message index and the chat index in a single store
// transaction, so the two never disagree on disk.
func (s SnapshotRepository) Persist(messages map[domain.ChatID][]domain.Message, chats []domain.ChatRoom) error {
	if messages == nil {
		messages = map[domain.ChatID][]domain.Message{}
	}
	if chats == nil {
		chats = []domain.ChatRoom{}
	}
	messagesBytes, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", MessagesKey, err)
	}
	chatsBytes, err := json.Marshal(chats)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", ChatsKey, err)
	}
	if err = s.store.SetMany(map[string][]byte{MessagesKey: messagesBytes, ChatsKey: chatsBytes}); err != nil {
		return fmt.Errorf("writing chat state: %w", err)
	}
	return nil
}

// Load reads both blobs. A missing or unreadable blob yields an empty
// structure for that key; the other one is still loaded.
func (s SnapshotRepository) Load() (map[domain.ChatID][]domain.Message, []domain.ChatRoom) {
	messages := map[domain.ChatID][]domain.Message{}
	if !s.read(MessagesKey, &messages) || messages == nil {
		messages = map[domain.ChatID][]domain.Message{}
	}
	var chats []domain.ChatRoom
	if !s.read(ChatsKey, &chats) || chats == nil {
		chats = []domain.ChatRoom{}
	}
	return messages, chats
}

func (s SnapshotRepository) read(key string, v any) bool {
	bytes, err := s.store.Get(key)
	if goerrors.Is(err, errors.ErrKeyNotFound) {
		s.log.Debug("No prior state", "key", key)
		return false
	}
	if err != nil {
		s.log.Warn("Store read failed, starting empty", "key", key, "error", err)
		return false
	}
	if err = json.Unmarshal(bytes, v); err != nil {
		s.log.Warn("Stored blob is malformed, starting empty", "key", key, "error", err)
		return false
	}
	return true
}
