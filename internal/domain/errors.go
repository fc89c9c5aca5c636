package domain

import "errors"

// Domain errors
var (
	ErrRoundComplete       = errors.New("round is already complete")
	ErrNoActiveRound       = errors.New("no round in progress")
	ErrInvalidChoice       = errors.New("choice must be like or pass")
	ErrInvalidTransition   = errors.New("invalid phase transition")
	ErrInvalidPartnerLikes = errors.New("invalid input")
	ErrOriginRequired      = errors.New("origin is not set")
	ErrNoPlacesFound       = errors.New("no places found in radius")
	ErrLookupInProgress    = errors.New("lookup already in progress")
	ErrLookupFailed        = errors.New("error fetching places")
	ErrLocationUnavailable = errors.New("location denied or unavailable")
)
