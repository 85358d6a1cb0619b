package models

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrMissingIdentifier = errors.New("record has no id")
	ErrMissingVelocity   = errors.New("close approach has no kilometers_per_second velocity")
)
