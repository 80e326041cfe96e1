// Package moderation masks forbidden words in outgoing chat text.
package moderation

import (
	"chat-local/errors"
	"strings"
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// Moderator is built once and only read afterwards.
type Moderator struct {
	matcher      *goahocorasick.Machine
	censoredChar rune
}

// NewModerator folds the dictionary the same way messages are folded and
// builds one automaton over it. Words that fold to nothing are skipped.
func NewModerator(censoredWords []string, censoredChar rune) (*Moderator, error) {
	patterns := lo.FilterMap(censoredWords, func(word string, _ int) ([]rune, bool) {
		folded, _ := fold([]rune(word))
		return folded, len(folded) > 0
	})
	if len(patterns) == 0 {
		return nil, errors.ErrEmptyWords
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, censoredChar: censoredChar}, nil
}

// ParseWords splits a comma separated dictionary, dropping blanks.
func ParseWords(csv string) []string {
	words := lo.Map(strings.Split(csv, ","), func(w string, _ int) string {
		return strings.TrimSpace(w)
	})
	return lo.Uniq(lo.Compact(words))
}

// CharacterRune turns the configured replacement into a rune.
func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, errors.ErrInvalidReplacement
	}
	return r[0], nil
}

// Censor masks every dictionary word found in a chat message. Matching ignores
// case, punctuation and leet digits; inside a masked span only whitespace is kept.
func (m *Moderator) Censor(text string) string {
	folded, positions := fold([]rune(text))
	if len(folded) == 0 {
		return text
	}
	hits := m.matcher.MultiPatternSearch(folded, false)
	if len(hits) == 0 {
		return text
	}

	masked := []rune(text)
	for _, hit := range hits {
		last := hit.Pos + len(hit.Word) - 1
		if hit.Pos < 0 || last >= len(positions) {
			continue
		}
		for i := positions[hit.Pos]; i <= positions[last]; i++ {
			if !unicode.IsSpace(masked[i]) {
				masked[i] = m.censoredChar
			}
		}
	}
	return string(masked)
}

// fold lowercases runes, undoes leet speak and drops noise. positions[i] is
// the index in input of folded[i].
func fold(input []rune) (folded []rune, positions []int) {
	folded = make([]rune, 0, len(input))
	positions = make([]int, 0, len(input))
	for i, r := range input {
		letter := unleet(r)
		if isNoise(letter) {
			continue
		}
		folded = append(folded, unicode.ToLower(letter))
		positions = append(positions, i)
	}
	return folded, positions
}

// leet maps the digits and signs people type in place of letters.
var leet = map[rune]rune{
	'4': 'a', '@': 'a',
	'3': 'e', '€': 'e',
	'1': 'i', '!': 'i', '|': 'i',
	'0': 'o',
	'5': 's', '$': 's',
}

func unleet(r rune) rune {
	if letter, ok := leet[r]; ok {
		return letter
	}
	return r
}

func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
