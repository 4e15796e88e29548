package domain

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidIdentity    = errors.New("invalid identity")
	ErrForbidden          = errors.New("access forbidden")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInactiveUser       = errors.New("user is inactive")

	ErrNoSession      = errors.New("no stored session")
	ErrCorruptSession = errors.New("stored session is corrupt")
	ErrNoToken        = errors.New("no bearer token")

	ErrRoomNotFound    = errors.New("room not found")
	ErrInvalidRoom     = errors.New("invalid room update")
	ErrInvoiceNotFound = errors.New("invoice not found")
	ErrInvoiceExists   = errors.New("invoice already exists for idempotency key")
	ErrInvalidInvoice  = errors.New("invalid invoice")

	ErrInvalidActivity = errors.New("invalid activity")
)
