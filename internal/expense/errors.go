package expense

import "errors"

var (
	ErrNotFound  = errors.New("expense not found")
	ErrDuplicate = errors.New("expense already exists")
	ErrInvalid   = errors.New("invalid expense")
)
