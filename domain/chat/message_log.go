// Package chat holds the in-memory conversation state: the per-conversation
// message sequences and the ordered directory of chat rooms.
// Nothing here locks; the owning service serializes access.
package chat

import (
	"chat-local/domain"

	"github.com/samber/lo"
)

// MessageLog keeps one append-only sequence of messages per conversation.
type MessageLog struct {
	conversations map[domain.ChatID][]domain.Message
}

func NewMessageLog() *MessageLog {
	return &MessageLog{conversations: make(map[domain.ChatID][]domain.Message)}
}

// Append adds message at the tail of the conversation, creating it if needed.
// Duplicate message ids are kept as-is.
func (l *MessageLog) Append(id domain.ChatID, message domain.Message) {
	l.conversations[id] = append(l.conversations[id], message.Clone())
}

// Read returns a copy of the conversation in append order.
// An unknown conversation is an empty sequence.
func (l *MessageLog) Read(id domain.ChatID) []domain.Message {
	return cloneMessages(l.conversations[id])
}

func (l *MessageLog) Len(id domain.ChatID) int {
	return len(l.conversations[id])
}

// Snapshot deep-copies every conversation.
func (l *MessageLog) Snapshot() map[domain.ChatID][]domain.Message {
	return lo.MapValues(l.conversations, func(messages []domain.Message, _ domain.ChatID) []domain.Message {
		return cloneMessages(messages)
	})
}

// Totals counts conversations and messages without copying them.
func (l *MessageLog) Totals() (conversations, messages int) {
	for _, conversation := range l.conversations {
		messages += len(conversation)
	}
	return len(l.conversations), messages
}

// Restore replaces the whole log, typically with what the store loaded at startup.
func (l *MessageLog) Restore(conversations map[domain.ChatID][]domain.Message) {
	l.conversations = make(map[domain.ChatID][]domain.Message, len(conversations))
	for id, messages := range conversations {
		l.conversations[id] = cloneMessages(messages)
	}
}

func cloneMessages(messages []domain.Message) []domain.Message {
	res := make([]domain.Message, len(messages))
	for i, m := range messages {
		res[i] = m.Clone()
	}
	return res
}
