package services

import (
	"chat-local/contract"
	"chat-local/domain"
	"chat-local/domain/chat"
	"chat-local/errors"
	"chat-local/repositories"
	"chat-local/runtime"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/samber/lo"
)

type IChatService interface {
	ListChats() []domain.ChatRoom
	GetChat(id domain.ChatID) (domain.ChatRoom, bool)
	GetMessages(id domain.ChatID) []domain.Message
	SendMessage(id domain.ChatID, message domain.Message) error
	ReceiveMessage(id domain.ChatID, message domain.Message) error
	CreateChat(room domain.ChatRoom) (bool, error)
	OpenChat(profile domain.Profile) (domain.ChatRoom, error)
	MarkRead(id domain.ChatID) bool
	SeedSpecializedRooms(rooms []domain.ChatRoom) int
	SubscribeToMessages(id domain.ChatID, cb runtime.MessagesCallback) func()
	SubscribeToChats(cb runtime.DirectoryCallback) func()
	CancelReplies(id domain.ChatID) int
	Close()
}

// ChatService is the single owner of the conversation state.
//
// Every mutation appends to the message log, updates the directory, marks
// the persister dirty and queues its notifications inside one critical
// section, so readers and snapshots never see the two out of sync and
// notifications follow the order of the changes. They are delivered after the
// lock is released, so callbacks may call back into the service.
type ChatService struct {
	mu          sync.RWMutex
	log         *slog.Logger
	localUserID string
	messages    *chat.MessageLog
	directory   *chat.Directory
	registry    *runtime.Registry
	responder   *runtime.Responder
	persister   contract.IPersister
	filter      contract.MessageFilter
}

type Option func(*ChatService)

// WithFilter moderates the text of locally sent messages.
func WithFilter(filter contract.MessageFilter) Option {
	return func(s *ChatService) { s.filter = filter }
}

// WithRegistry shares a notification registry with other components.
func WithRegistry(registry *runtime.Registry) Option {
	return func(s *ChatService) { s.registry = registry }
}

type noopPersister struct{}

func (noopPersister) MarkDirty() {}

// NewChatService restores the state found by repository and wires the reply
// scheduler to the given clock and peer behavior. persister may be nil.
func NewChatService(log *slog.Logger, localUserID string, repository repositories.ISnapshotRepository,
	persister contract.IPersister, clock clockwork.Clock, behavior contract.PeerBehavior, opts ...Option) *ChatService {
	s := &ChatService{
		log:         log,
		localUserID: localUserID,
		messages:    chat.NewMessageLog(),
		directory:   chat.NewDirectory(),
		registry:    runtime.NewRegistry(),
		persister:   persister,
	}
	if s.persister == nil {
		s.persister = noopPersister{}
	}
	for _, opt := range opts {
		opt(s)
	}

	messages, chats := repository.Load()
	s.messages.Restore(messages)
	s.directory.Restore(chats)
	log.Info("Chat state restored", "conversations", len(messages), "chats", s.directory.Len())

	s.responder = runtime.NewResponder(log, clock, behavior, s.deliverReply)
	return s
}

func (s *ChatService) ListChats() []domain.ChatRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.directory.List()
}

func (s *ChatService) GetChat(id domain.ChatID) (domain.ChatRoom, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.directory.Get(id)
}

// GetMessages returns the conversation in arrival order, empty when unknown.
func (s *ChatService) GetMessages(id domain.ChatID) []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messages.Read(id)
}

// SendMessage records a message. One authored by the local user resets the
// unread counter and may trigger a simulated answer; any other sender counts
// as incoming.
func (s *ChatService) SendMessage(id domain.ChatID, message domain.Message) error {
	local := message.SenderID == s.localUserID
	if err := s.record(id, message, local); err != nil {
		return err
	}
	s.responder.MaybeScheduleReply(id, local)
	return nil
}

// ReceiveMessage records a message coming from the remote side.
func (s *ChatService) ReceiveMessage(id domain.ChatID, message domain.Message) error {
	return s.record(id, message, false)
}

func (s *ChatService) deliverReply(id domain.ChatID, message domain.Message, claim func() bool) {
	if err := s.recordClaimed(id, message, false, claim); err != nil {
		s.log.Error("Simulated reply rejected", "chat", id, "error", err)
	}
}

func (s *ChatService) record(id domain.ChatID, message domain.Message, local bool) error {
	return s.recordClaimed(id, message, local, nil)
}

// recordClaimed drops the message, without error, when claim refuses it
// inside the critical section.
func (s *ChatService) recordClaimed(id domain.ChatID, message domain.Message, local bool, claim func() bool) error {
	if id == "" {
		return fmt.Errorf("%w: empty chat id", errors.ErrInvalidMessage)
	}
	if err := domain.ValidateMessage(message); err != nil {
		return err
	}
	if local && s.filter != nil && message.Text != "" {
		message.Text = s.filter.Censor(message.Text)
	}

	s.mu.Lock()
	if claim != nil && !claim() {
		s.mu.Unlock()
		return nil
	}
	s.messages.Append(id, message)
	s.directory.UpsertOnActivity(id, message.Preview(), local)
	s.persister.MarkDirty()
	s.registry.QueueMessages(id, s.messages.Read(id))
	s.registry.QueueDirectory(s.directory.List())
	s.mu.Unlock()

	s.registry.Drain()
	return nil
}

// CreateChat adds a room unless its id exists. A missing type means private
// and a missing avatar gets the placeholder.
func (s *ChatService) CreateChat(room domain.ChatRoom) (bool, error) {
	if err := domain.ValidateChatRoom(room); err != nil {
		return false, err
	}
	if room.Type == "" {
		room.Type = domain.Private
	}
	if room.Avatar == "" {
		room.Avatar = domain.PlaceholderAvatar(room.ID)
	}

	s.mu.Lock()
	created := s.directory.Create(room)
	if created {
		s.persister.MarkDirty()
		s.registry.QueueDirectory(s.directory.List())
	}
	s.mu.Unlock()

	s.registry.Drain()
	return created, nil
}

// OpenChat returns the private room with the member, creating it from the profile if needed.
func (s *ChatService) OpenChat(profile domain.Profile) (domain.ChatRoom, error) {
	if err := domain.ValidateProfile(profile); err != nil {
		return domain.ChatRoom{}, err
	}
	_, err := s.CreateChat(domain.ChatRoom{
		ID:           profile.ChatID(),
		Name:         profile.DisplayName,
		Type:         domain.Private,
		Participants: []string{s.localUserID, profile.ID},
		Avatar:       profile.Avatar,
	})
	if err != nil {
		return domain.ChatRoom{}, err
	}
	room, _ := s.GetChat(profile.ChatID())
	return room, nil
}

// MarkRead clears the unread counter. The room keeps its position.
func (s *ChatService) MarkRead(id domain.ChatID) bool {
	s.mu.Lock()
	changed := s.directory.MarkRead(id)
	if changed {
		s.persister.MarkDirty()
		s.registry.QueueDirectory(s.directory.List())
	}
	s.mu.Unlock()

	s.registry.Drain()
	return changed
}

// SeedSpecializedRooms can run at every startup: existing ids are never touched.
func (s *ChatService) SeedSpecializedRooms(rooms []domain.ChatRoom) int {
	s.mu.Lock()
	added := s.directory.SeedSpecializedRooms(rooms)
	if added > 0 {
		s.persister.MarkDirty()
		s.registry.QueueDirectory(s.directory.List())
	}
	s.mu.Unlock()

	s.registry.Drain()
	if added > 0 {
		s.log.Info("Specialized rooms seeded", "added", added)
	}
	return added
}

func (s *ChatService) SubscribeToMessages(id domain.ChatID, cb runtime.MessagesCallback) func() {
	return s.registry.SubscribeMessages(id, cb)
}

func (s *ChatService) SubscribeToChats(cb runtime.DirectoryCallback) func() {
	return s.registry.SubscribeDirectory(cb)
}

// CancelReplies drops the simulated answers still pending for the conversation.
func (s *ChatService) CancelReplies(id domain.ChatID) int {
	return s.responder.Cancel(id)
}

func (s *ChatService) PendingReplies(id domain.ChatID) int {
	return s.responder.Pending(id)
}

// Snapshot implements contract.SnapshotSource.
func (s *ChatService) Snapshot() (map[domain.ChatID][]domain.Message, []domain.ChatRoom) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.messages.Snapshot(), s.directory.List()
}

// Stats implements contract.StatsSource.
func (s *ChatService) Stats() domain.ChatStats {
	s.mu.RLock()
	chats := s.directory.List()
	conversations, messages := s.messages.Totals()
	s.mu.RUnlock()
	return domain.ChatStats{
		Chats:          len(chats),
		Unread:         lo.SumBy(chats, func(room domain.ChatRoom) int { return room.UnreadCount }),
		Conversations:  conversations,
		Messages:       messages,
		PendingReplies: s.responder.PendingTotal(),
	}
}

// Close stops every pending simulated reply. Persisting is left to the persister's shutdown.
func (s *ChatService) Close() {
	s.responder.Stop()
}
