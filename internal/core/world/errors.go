package world

import "errors"

var (
	ErrEntityNotFound = errors.New("entity not found")
	ErrInvalidConfig  = errors.New("invalid world configuration")
)
