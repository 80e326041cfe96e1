package domain

import (
	"chat-local/errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func ValidateMessage(m Message) error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidMessage, err)
	}
	return nil
}

func ValidateChatRoom(r ChatRoom) error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidChatRoom, err)
	}
	return nil
}

func ValidateProfile(p Profile) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidProfile, err)
	}
	return nil
}

func ValidateOink(o Oink) error {
	return validate.Struct(o)
}
