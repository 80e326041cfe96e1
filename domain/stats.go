package domain

// ChatStats is a point in time summary of the chat state.
type ChatStats struct {
	Chats          int
	Unread         int
	Conversations  int
	Messages       int
	PendingReplies int
}
