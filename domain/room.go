// Package domain contains core concepts of the chat system.
// This file defines ChatRoom summaries and the conversation identifier.
package domain

import (
	"fmt"
	"net/url"
	"strings"
)

// ChatID identifies a conversation. One ChatRoom and one message sequence share it.
type ChatID string

// PublicPrefix marks non-private rooms. Nobody answers automatically in those.
const PublicPrefix = "room_"

func (c ChatID) IsPublic() bool {
	return strings.HasPrefix(string(c), PublicPrefix)
}

type RoomType string

const (
	Private     RoomType = "private"
	Group       RoomType = "group"
	Specialized RoomType = "specialized"
	Public      RoomType = "public"
)

// PlaceholderName is given to rooms created on first send to an unknown id.
const PlaceholderName = "User"

const avatarPlaceholderURL = "https://i.pravatar.cc/150?u=%s"

// ChatRoom summarizes a conversation for the directory listing.
type ChatRoom struct {
	ID           ChatID   `json:"id" validate:"required"`
	Name         string   `json:"name"`
	Type         RoomType `json:"type" validate:"omitempty,oneof=private group specialized public"`
	Category     string   `json:"category,omitempty"`
	Participants []string `json:"participants,omitempty"`
	LastMessage  string   `json:"lastMessage"`
	UnreadCount  int      `json:"unreadCount" validate:"gte=0"`
	Avatar       string   `json:"avatar"`
}

func (r ChatRoom) Clone() ChatRoom {
	c := r
	if r.Participants != nil {
		c.Participants = append([]string(nil), r.Participants...)
	}
	return c
}

// PlaceholderAvatar derives a stable avatar reference from the chat id.
func PlaceholderAvatar(id ChatID) string {
	return fmt.Sprintf(avatarPlaceholderURL, url.QueryEscape(string(id)))
}

// NewPlaceholderRoom is the entry synthesized when activity hits an unknown conversation.
func NewPlaceholderRoom(id ChatID, preview string) ChatRoom {
	return ChatRoom{
		ID:          id,
		Name:        PlaceholderName,
		Type:        Private,
		LastMessage: preview,
		UnreadCount: 0,
		Avatar:      PlaceholderAvatar(id),
	}
}

// SpecializedRooms are the built-in topic rooms seeded at startup.
var SpecializedRooms = []ChatRoom{
	{ID: "room_travel", Name: "Travel Buddies", Category: "travel", LastMessage: "Where to next?"},
	{ID: "room_fitness", Name: "Gym & Fitness", Category: "fitness", LastMessage: "Leg day anyone?"},
	{ID: "room_foodies", Name: "Foodies", Category: "food", LastMessage: "Best ramen in town?"},
	{ID: "room_music", Name: "Live Music", Category: "music", LastMessage: "Who is going tonight?"},
	{ID: "room_pets", Name: "Pet Lovers", Category: "pets", LastMessage: "Show us your pets"},
}
