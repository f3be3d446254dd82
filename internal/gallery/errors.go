package gallery

import "github.com/pkg/errors"

var (
	// ErrInsufficientFunds is returned by Fire when the balance is below the stake.
	// Nothing is mutated; the collaborator receives an advisory event.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrInvalidAim marks a malformed or out-of-field aim point. Silently discarded by callers.
	ErrInvalidAim = errors.New("invalid aim input")
	ErrInvalidBet = errors.New("invalid bet size")
	// ErrPoolCorruption is fatal to the tick and halts the scheduler.
	ErrPoolCorruption = errors.New("entity pool corruption")
	ErrStopped        = errors.New("simulation stopped")
)
