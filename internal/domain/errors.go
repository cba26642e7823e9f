package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidSize        = errors.New("invalid package size")
	ErrInvalidStatus      = errors.New("invalid package status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrSameLocker         = errors.New("source and destination lockers must differ")
	ErrLockerNotFound     = errors.New("locker not found")
	ErrReceiverNotFound   = errors.New("receiver not registered")
	ErrInvalidPickup      = errors.New("invalid code or package not ready for pickup")
	ErrInvalidRequest     = errors.New("invalid request")
)
