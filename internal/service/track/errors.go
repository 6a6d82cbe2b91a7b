package track

import "errors"

// Sentinel errors for the tracking service layer.
var (
	ErrNotFound         = errors.New("tracked email not found")
	ErrDuplicateToken   = errors.New("token already exists")
	ErrInvalidRecipient = errors.New("invalid recipient email")
)
