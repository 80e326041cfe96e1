package errors

import "fmt"

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrKeyNotFound        = fmt.Errorf("key not found")
	ErrUnknownStoreDriver = fmt.Errorf("unknown store driver")
	ErrInvalidMessage     = fmt.Errorf("invalid message")
	ErrInvalidChatRoom    = fmt.Errorf("invalid chat room")
	ErrInvalidProfile     = fmt.Errorf("invalid profile")
	ErrInvalidOink        = fmt.Errorf("invalid oink")
	ErrEmptyWords         = fmt.Errorf("no words have been found")
	ErrInvalidReplacement = fmt.Errorf("replacement must be a single character")
)
