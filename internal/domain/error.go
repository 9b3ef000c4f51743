package domain

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrUserExists           = errors.New("user already exists")
	ErrIncorrectCredentials = errors.New("incorrect credentials")
	ErrForbidden            = errors.New("operation not allowed for this user")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrDeliveryNotFound     = errors.New("delivery not found")
	ErrOwnDelivery          = errors.New("delivery belongs to the same user")
	ErrNotParticipant       = errors.New("user is not a participant of the delivery")
	ErrDeliveryConflict     = errors.New("delivery is not in the expected status")
)
