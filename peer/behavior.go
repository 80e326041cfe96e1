// Package peer provides the behaviors that impersonate remote participants.
package peer

import (
	"chat-local/contract"
	"chat-local/domain"
	"math/rand/v2"
	"sync"
	"time"
)

// DefaultPhrases are the canned answers of a simulated member.
var DefaultPhrases = []string{
	"Haha, that's so true!",
	"What are you up to this weekend?",
	"I was just thinking about that 😄",
	"Tell me more!",
	"Sounds great, let's do it",
	"Sorry, I was at the gym. What's up?",
	"Do you like hiking?",
	"You have a great smile btw",
}

// RandomBehavior answers every private message after a delay drawn uniformly
// in [MinDelay, MaxDelay] with a phrase drawn uniformly from Phrases.
type RandomBehavior struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	minDelay time.Duration
	maxDelay time.Duration
	phrases  []string
}

func NewRandomBehavior(rnd *rand.Rand, minDelay, maxDelay time.Duration, phrases []string) *RandomBehavior {
	if maxDelay < minDelay {
		minDelay, maxDelay = maxDelay, minDelay
	}
	if len(phrases) == 0 {
		phrases = DefaultPhrases
	}
	return &RandomBehavior{rnd: rnd, minDelay: minDelay, maxDelay: maxDelay, phrases: phrases}
}

func (b *RandomBehavior) Reply(_ domain.ChatID) (contract.Reply, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delay := b.minDelay
	if span := b.maxDelay - b.minDelay; span > 0 {
		delay += time.Duration(b.rnd.Int64N(int64(span) + 1))
	}
	return contract.Reply{
		Text:  b.phrases[b.rnd.IntN(len(b.phrases))],
		Delay: delay,
	}, true
}

// Silent never answers.
type Silent struct{}

func (Silent) Reply(domain.ChatID) (contract.Reply, bool) {
	return contract.Reply{}, false
}

// Scripted answers with its phrases in order, cycling, after a fixed delay.
type Scripted struct {
	mu      sync.Mutex
	delay   time.Duration
	phrases []string
	next    int
}

func NewScripted(delay time.Duration, phrases ...string) *Scripted {
	return &Scripted{delay: delay, phrases: phrases}
}

func (s *Scripted) Reply(domain.ChatID) (contract.Reply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.phrases) == 0 {
		return contract.Reply{}, false
	}
	text := s.phrases[s.next%len(s.phrases)]
	s.next++
	return contract.Reply{Text: text, Delay: s.delay}, true
}
