package domain

import (
	"chat-local/errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeProfile_MemberCard(t *testing.T) {
	req := require.New(t)

	p, err := NormalizeProfile(map[string]any{"id": "u_alex", "name": "Alex", "avatar": "alex.png", "age": 29})

	req.NoError(err)
	req.Equal(Profile{ID: "u_alex", DisplayName: "Alex", Avatar: "alex.png"}, p)
}

func TestNormalizeProfile_ProfileDocument(t *testing.T) {
	req := require.New(t)

	p, err := NormalizeProfile(map[string]any{
		"userId":      "u_sam",
		"displayName": "Sam",
		"photos":      []any{"", "sam1.png", "sam2.png"},
	})

	req.NoError(err)
	req.Equal(Profile{ID: "u_sam", DisplayName: "Sam", Avatar: "sam1.png"}, p)
}

func TestNormalizeProfile_NumericIDAndPlaceholderAvatar(t *testing.T) {
	req := require.New(t)

	// Given a decoded JSON document with a numeric id and no photo
	p, err := NormalizeProfile(map[string]any{"userId": float64(42), "displayName": "Kim"})

	req.NoError(err)
	req.Equal("42", p.ID)
	req.Equal(PlaceholderAvatar("42"), p.Avatar)
}

func TestNormalizeProfile_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"no id", map[string]any{"name": "Alex"}},
		{"no name", map[string]any{"id": "u_alex"}},
		{"wrong id type", map[string]any{"id": []string{"u"}, "name": "Alex"}},
		{"empty", map[string]any{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NormalizeProfile(tt.raw)
			require.ErrorIs(t, err, errors.ErrInvalidProfile)
		})
	}
}
