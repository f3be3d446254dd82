package gallery

import "github.com/xtding233/shooting-gallery/internal/wager"

// Wallet is the shell-owned balance. The engine only ever applies deltas.
type Wallet interface {
	Balance() int64
	Apply(e wager.Entry) int64
}

// debiter is implemented by wallets that can check and deduct atomically.
type debiter interface {
	TryDebit(e wager.Entry) bool
}

type EventKind string

const (
	EventInsufficientFunds EventKind = "insufficient_funds"
	EventApexDefeated      EventKind = "apex_defeated"
)

// Event is a fire-and-forget notification for the shell's advisory features.
type Event struct {
	Kind        EventKind `json:"kind" msgpack:"kind"`
	Description string    `json:"description" msgpack:"description"`
	Amount      int64     `json:"amount,omitempty" msgpack:"amount,omitempty"`
	Tick        uint64    `json:"tick" msgpack:"tick"`
}

// Notifier receives game events. Implementations must not block.
type Notifier interface {
	Notify(ev Event)
}

type NotifierFunc func(Event)

func (f NotifierFunc) Notify(ev Event) { f(ev) }

type discard struct{}

func (discard) Notify(Event) {}
