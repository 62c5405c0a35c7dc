package elfshelf

import "errors"

// Core error kinds. Operations wrap these with context so callers should
// match with errors.Is.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrAlreadyExists        = errors.New("already exists")
	ErrNotFound             = errors.New("not found")
	ErrRootRemovalForbidden = errors.New("root cannot be removed")
	ErrQuotaExceeded        = errors.New("quota exceeded")
)
