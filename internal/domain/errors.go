package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound         = errors.New("not found")
	ErrSessionNotActive = errors.New("session is not active")
	ErrSessionPaused    = errors.New("session is paused")
	ErrRoundOver        = errors.New("round is over")
	ErrUnknownLevel     = errors.New("unknown level")
	ErrInvalidRecipe    = errors.New("invalid recipe")
	ErrUnknownAction    = errors.New("unknown action")
	ErrRefused          = errors.New("action refused")
	ErrInvalidLayout    = errors.New("invalid layout")
)
