package service

import "errors"

// Sentinel errors for ledger and settlement operations. Handlers match these
// with errors.Is to turn them into user-facing messages.
var (
	// ErrDuplicateBet is returned when a user already holds a bet on a matchup
	ErrDuplicateBet = errors.New("bet already placed on this matchup")

	// ErrInsufficientBalance is returned when a stake exceeds the user's balance
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrInvalidStake is returned for non-positive or below-minimum stakes
	ErrInvalidStake = errors.New("invalid stake amount")

	// ErrInvalidSide is returned for sides outside the two matchup options
	ErrInvalidSide = errors.New("invalid side")

	// ErrNoBets is returned when resolving a matchup nobody bet on
	ErrNoBets = errors.New("no bets placed on this matchup")

	// ErrAlreadyResolved guards against double settlement
	ErrAlreadyResolved = errors.New("matchup already resolved")

	// ErrNotAuthorized is returned for privileged command misuse
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNotFound is returned for unknown matchups, users or records
	ErrNotFound = errors.New("not found")
)
