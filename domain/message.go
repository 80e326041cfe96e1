// Package domain contains core concepts of the chat system.
// This file defines Message records and their preview rules.
// Messages are immutable once appended to a conversation.
package domain

// Location is a shared map position.
type Location struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Label string  `json:"label,omitempty"`
}

// Transfer is an in-chat money transfer.
type Transfer struct {
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

// Message represents one chat event inside a conversation.
// Only the reaction counts may change after the message was appended.
type Message struct {
	ID          string         `json:"id" validate:"required"`
	SenderID    string         `json:"senderId"`
	Text        string         `json:"text,omitempty"`
	Image       string         `json:"image,omitempty"`
	Video       string         `json:"video,omitempty"`
	Audio       string         `json:"audio,omitempty"`
	Album       []string       `json:"album,omitempty"`
	Location    *Location      `json:"location,omitempty"`
	Transfer    *Transfer      `json:"transfer,omitempty"`
	ReplyTo     string         `json:"replyTo,omitempty"`
	Timestamp   int64          `json:"timestamp"` // unix milliseconds
	Reactions   map[string]int `json:"reactions,omitempty"`
	IsSystem    bool           `json:"isSystem,omitempty"`
	IsForwarded bool           `json:"isForwarded,omitempty"`
}

// Preview is the text shown as the conversation's last message.
func (m Message) Preview() string {
	switch {
	case m.Text != "":
		return m.Text
	case m.Image != "":
		return "[image]"
	case m.Video != "":
		return "[video]"
	case m.Audio != "":
		return "[audio]"
	case len(m.Album) > 0:
		return "[album]"
	case m.Location != nil:
		return "[location]"
	case m.Transfer != nil:
		return "[transfer]"
	default:
		return ""
	}
}

// Clone returns a copy that shares no slices, maps or pointers with m.
func (m Message) Clone() Message {
	c := m
	if m.Album != nil {
		c.Album = append([]string(nil), m.Album...)
	}
	if m.Location != nil {
		l := *m.Location
		c.Location = &l
	}
	if m.Transfer != nil {
		t := *m.Transfer
		c.Transfer = &t
	}
	if m.Reactions != nil {
		c.Reactions = make(map[string]int, len(m.Reactions))
		for k, v := range m.Reactions {
			c.Reactions[k] = v
		}
	}
	return c
}
