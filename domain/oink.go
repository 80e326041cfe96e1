package domain

import "time"

// Oink is a lightweight "poke" notification. FromUserID is always the member
// who pressed the button, TargetID the member who received it.
type Oink struct {
	ID          string    `json:"id" validate:"required"`
	FromUserID  string    `json:"fromUserId" validate:"required"`
	TargetID    string    `json:"targetId" validate:"required,nefield=FromUserID"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
	Time        time.Time `json:"time"`
	Viewed      bool      `json:"viewed"`
}
