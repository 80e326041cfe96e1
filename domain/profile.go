// Package domain contains core concepts of the chat system.
// This file defines the canonical Profile and the boundary normalization of
// external member records.
package domain

import (
	"chat-local/errors"
	"fmt"
	"strconv"
)

// Profile is the only member shape the chat core accepts.
type Profile struct {
	ID          string `json:"id" validate:"required"`
	DisplayName string `json:"displayName" validate:"required"`
	Avatar      string `json:"avatar"`
}

// ChatID of the private conversation with this member.
func (p Profile) ChatID() ChatID {
	return ChatID(p.ID)
}

// NormalizeProfile maps an external record into a Profile.
// Two shapes are recognised:
//
//	member cards      {"id", "name", "avatar"}
//	profile documents {"userId", "displayName", "photos": [...]}
//
// When both keys of a field exist the member card wins.
func NormalizeProfile(raw map[string]any) (Profile, error) {
	id, err := firstString(raw, "id", "userId")
	if err != nil {
		return Profile{}, err
	}
	name, err := firstString(raw, "name", "displayName")
	if err != nil {
		return Profile{}, err
	}
	avatar, err := firstString(raw, "avatar", "photo")
	if err != nil {
		return Profile{}, err
	}
	if avatar == "" {
		avatar = firstPhoto(raw["photos"])
	}
	p := Profile{ID: id, DisplayName: name, Avatar: avatar}
	if err = ValidateProfile(p); err != nil {
		return Profile{}, err
	}
	if p.Avatar == "" {
		p.Avatar = PlaceholderAvatar(p.ChatID())
	}
	return p, nil
}

func firstString(raw map[string]any, keys ...string) (string, error) {
	for _, k := range keys {
		v, ok := raw[k]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t, nil
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(t), nil
		case int64:
			return strconv.FormatInt(t, 10), nil
		default:
			return "", fmt.Errorf("%w: field %q has type %T", errors.ErrInvalidProfile, k, v)
		}
	}
	return "", nil
}

func firstPhoto(v any) string {
	switch photos := v.(type) {
	case []string:
		if len(photos) > 0 {
			return photos[0]
		}
	case []any:
		for _, p := range photos {
			if s, ok := p.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}
