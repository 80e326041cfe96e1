package main

import (
	"bufio"
	"chat-local/domain"
	"chat-local/errors"
	"chat-local/services"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

const helpText = `commands:
  /chats               list conversations, most recent first
  /open <id> [name]    open a conversation, creating it for a new member
  /open {json}         open with a member record, {"id","name","avatar"}
                       or {"userId","displayName","photos":[...]}
  /read                mark the open conversation as read
  /oink <id> [name]    oink a member
  /oinks               list the oinks you received and sent
  /quit                leave
plain text is sent to the open conversation`

// Console is a line oriented front end over the chat service.
type Console struct {
	service services.IChatService
	oinks   *services.OinkService
	me      domain.Profile
	clock   clockwork.Clock
	in      io.Reader

	mu          sync.Mutex
	out         io.Writer
	current     domain.ChatID
	unsubscribe func()
}

func NewConsole(service services.IChatService, oinks *services.OinkService, me domain.Profile,
	clock clockwork.Clock, in io.Reader, out io.Writer) *Console {
	return &Console{service: service, oinks: oinks, me: me, clock: clock, in: in, out: out}
}

// Run reads commands until /quit, end of input or cancellation.
func (c *Console) Run(ctx context.Context) error {
	defer c.closeConversation()
	scanner := bufio.NewScanner(c.in)
	c.printf("%s\n", helpText)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := c.handle(line); quit {
			return nil
		}
	}
	return scanner.Err()
}

func (c *Console) handle(line string) bool {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/quit":
		return true
	case "/help":
		c.printf("%s\n", helpText)
	case "/chats":
		c.listChats()
	case "/open":
		c.open(arg)
	case "/read":
		c.mu.Lock()
		current := c.current
		c.mu.Unlock()
		c.service.MarkRead(current)
	case "/oink":
		c.oink(arg)
	case "/oinks":
		c.listOinks()
	default:
		if strings.HasPrefix(cmd, "/") {
			c.printf("unknown command %s\n", cmd)
			return false
		}
		c.send(line)
	}
	return false
}

func (c *Console) listChats() {
	for _, room := range c.service.ListChats() {
		c.printf("[%d] %-16s %-18s %s\n", room.UnreadCount, room.ID, room.Name, room.LastMessage)
	}
}

// member turns a command argument into a profile: either a JSON member
// record or an id followed by an optional display name.
func member(arg string) (domain.Profile, error) {
	raw := map[string]any{}
	if strings.HasPrefix(arg, "{") {
		if err := json.Unmarshal([]byte(arg), &raw); err != nil {
			return domain.Profile{}, fmt.Errorf("%w: %v", errors.ErrInvalidProfile, err)
		}
	} else {
		id, name, _ := strings.Cut(arg, " ")
		name = strings.TrimSpace(name)
		if name == "" {
			name = id
		}
		raw["id"], raw["name"] = id, name
	}
	return domain.NormalizeProfile(raw)
}

func (c *Console) open(arg string) {
	if arg == "" {
		c.printf("usage: /open <id> [name]\n")
		return
	}
	id := domain.ChatID(arg)
	if _, known := c.service.GetChat(id); !known {
		profile, err := member(arg)
		if err != nil {
			c.printf("open failed: %v\n", err)
			return
		}
		room, err := c.service.OpenChat(profile)
		if err != nil {
			c.printf("open failed: %v\n", err)
			return
		}
		id = room.ID
	}
	c.closeConversation()

	unsubscribe := c.service.SubscribeToMessages(id, func(messages []domain.Message) {
		if len(messages) == 0 {
			return
		}
		if last := messages[len(messages)-1]; last.SenderID != c.me.ID {
			c.printf("%s: %s\n", last.SenderID, last.Preview())
		}
	})
	c.mu.Lock()
	c.current = id
	c.unsubscribe = unsubscribe
	c.mu.Unlock()

	c.service.MarkRead(id)
	for _, m := range c.service.GetMessages(id) {
		c.printf("%s: %s\n", m.SenderID, m.Preview())
	}
	c.printf("-- %s --\n", id)
}

func (c *Console) closeConversation() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.current = ""
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (c *Console) send(text string) {
	c.mu.Lock()
	current := c.current
	c.mu.Unlock()
	if current == "" {
		c.printf("no open conversation, use /open <id>\n")
		return
	}
	err := c.service.SendMessage(current, domain.Message{
		ID:        uuid.NewString(),
		SenderID:  c.me.ID,
		Text:      text,
		Timestamp: c.clock.Now().UnixMilli(),
	})
	if err != nil {
		c.printf("send failed: %v\n", err)
	}
}

func (c *Console) oink(arg string) {
	if arg == "" {
		c.printf("usage: /oink <id> [name]\n")
		return
	}
	target, err := member(arg)
	if err == nil {
		_, err = c.oinks.Send(c.me, target)
	}
	if err != nil {
		c.printf("oink failed: %v\n", err)
		return
	}
	c.printf("oinked %s\n", target.DisplayName)
}

// listOinks shows what came in, flagging and then marking the unseen ones,
// followed by what was sent.
func (c *Console) listOinks() {
	received := c.oinks.Received(c.me.ID)
	c.printf("%d new oink(s)\n", c.oinks.Unviewed(c.me.ID))
	for _, o := range received {
		flag := " "
		if !o.Viewed {
			flag = "*"
			if _, err := c.oinks.MarkViewed(o.ID); err != nil {
				c.printf("marking oink %s viewed failed: %v\n", o.ID, err)
			}
		}
		c.printf("%s %s oinked you at %s\n", flag, o.DisplayName, o.Time.Format("15:04"))
	}
	for _, o := range c.oinks.Sent(c.me.ID) {
		c.printf("  you oinked %s at %s\n", o.TargetID, o.Time.Format("15:04"))
	}
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.out, format, args...)
}
