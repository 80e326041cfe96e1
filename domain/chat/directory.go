package chat

import (
	"chat-local/domain"

	"github.com/samber/lo"
)

// Directory is the ordered list of chat rooms, most recently active first.
// There is at most one room per id.
type Directory struct {
	rooms []domain.ChatRoom
}

func NewDirectory() *Directory {
	return &Directory{}
}

// List returns a copy of every room in display order.
func (d *Directory) List() []domain.ChatRoom {
	return lo.Map(d.rooms, func(r domain.ChatRoom, _ int) domain.ChatRoom {
		return r.Clone()
	})
}

func (d *Directory) Len() int {
	return len(d.rooms)
}

func (d *Directory) Get(id domain.ChatID) (domain.ChatRoom, bool) {
	idx := d.indexOf(id)
	if idx < 0 {
		return domain.ChatRoom{}, false
	}
	return d.rooms[idx].Clone(), true
}

// UpsertOnActivity records a send or a receive on the conversation.
// An existing room gets the new preview and either a reset or an incremented
// unread counter; an unknown id gets a placeholder private room.
// Either way the room ends up first.
func (d *Directory) UpsertOnActivity(id domain.ChatID, preview string, resetUnread bool) domain.ChatRoom {
	idx := d.indexOf(id)
	if idx < 0 {
		room := domain.NewPlaceholderRoom(id, preview)
		d.pushFront(room)
		return room.Clone()
	}

	room := d.rooms[idx]
	room.LastMessage = preview
	if resetUnread {
		room.UnreadCount = 0
	} else {
		room.UnreadCount++
	}
	d.remove(idx)
	d.pushFront(room)
	return room.Clone()
}

// Create inserts room at the front unless its id is already taken.
// Existing rooms keep their position.
func (d *Directory) Create(room domain.ChatRoom) bool {
	if d.indexOf(room.ID) >= 0 {
		return false
	}
	d.pushFront(room.Clone())
	return true
}

// SeedSpecializedRooms inserts each missing room tagged as specialized and
// returns how many were added. Rooms already present are left untouched.
func (d *Directory) SeedSpecializedRooms(rooms []domain.ChatRoom) int {
	added := 0
	for _, room := range rooms {
		room.Type = domain.Specialized
		if room.Avatar == "" {
			room.Avatar = domain.PlaceholderAvatar(room.ID)
		}
		if d.Create(room) {
			added++
		}
	}
	return added
}

// MarkRead clears the unread counter without moving the room.
func (d *Directory) MarkRead(id domain.ChatID) bool {
	idx := d.indexOf(id)
	if idx < 0 || d.rooms[idx].UnreadCount == 0 {
		return false
	}
	d.rooms[idx].UnreadCount = 0
	return true
}

// Restore replaces the directory. Later duplicates of an id are dropped.
func (d *Directory) Restore(rooms []domain.ChatRoom) {
	unique := lo.UniqBy(rooms, func(r domain.ChatRoom) domain.ChatID { return r.ID })
	d.rooms = lo.Map(unique, func(r domain.ChatRoom, _ int) domain.ChatRoom {
		if r.UnreadCount < 0 {
			r.UnreadCount = 0
		}
		return r.Clone()
	})
}

func (d *Directory) indexOf(id domain.ChatID) int {
	_, idx, ok := lo.FindIndexOf(d.rooms, func(r domain.ChatRoom) bool { return r.ID == id })
	if !ok {
		return -1
	}
	return idx
}

func (d *Directory) remove(idx int) {
	d.rooms = append(d.rooms[:idx], d.rooms[idx+1:]...)
}

func (d *Directory) pushFront(room domain.ChatRoom) {
	d.rooms = append([]domain.ChatRoom{room}, d.rooms...)
}
