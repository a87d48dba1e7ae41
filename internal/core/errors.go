// Package core defines sentinel errors shared across the engine.
package core

import "errors"

var (
	// Registry errors
	ErrUnknownProtocol   = errors.New("kestrel: unknown protocol")
	ErrDuplicateProtocol = errors.New("kestrel: protocol already registered")

	// Composition errors
	ErrInvalidConfig   = errors.New("kestrel: invalid configuration")
	ErrPayloadTooLarge = errors.New("kestrel: payload exceeds IPv4 maximum")
)
