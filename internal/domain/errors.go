package domain

import "errors"

var (
	ErrMissingSender      = errors.New("event has no sender")
	ErrMissingChat        = errors.New("event has no chat")
	ErrUnsupportedCommand = errors.New("unsupported command")
)
