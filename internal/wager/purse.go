package wager

import "sync"

// Kind labels why a balance changed.
type Kind string

const (
	KindWager   Kind = "wager"
	KindPayout  Kind = "payout"
	KindJackpot Kind = "jackpot"
	KindTopUp   Kind = "top_up"
)

// Entry is one balance delta. Amount is signed; Ref names the projectile or target.
type Entry struct {
	Kind   Kind   `json:"kind" msgpack:"kind"`
	Amount int64  `json:"amount" msgpack:"amount"`
	Ref    uint64 `json:"ref" msgpack:"ref"`
	Tick   uint64 `json:"tick" msgpack:"tick"`
}

// Purse is the in-memory balance. It only ever applies deltas, and it keeps
// every applied entry so the balance is start + sum(journal).
type Purse struct {
	mu      sync.Mutex
	start   int64
	balance int64
	journal []Entry
}

func NewPurse(start int64) *Purse {
	return &Purse{start: start, balance: start}
}

func (p *Purse) Balance() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.balance
}

// Apply adds e.Amount and returns the new balance.
func (p *Purse) Apply(e Entry) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.balance += e.Amount
	p.journal = append(p.journal, e)
	return p.balance
}

// TryDebit applies a negative entry only if the balance covers it.
// The check and the deduction happen under one lock.
func (p *Purse) TryDebit(e Entry) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e.Amount > 0 || p.balance+e.Amount < 0 {
		return false
	}
	p.balance += e.Amount
	p.journal = append(p.journal, e)
	return true
}

func (p *Purse) Start() int64 { return p.start }

// Journal returns a copy of the applied entries.
func (p *Purse) Journal() []Entry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Entry(nil), p.journal...)
}

// Totals sums the journal by kind.
func (p *Purse) Totals() map[Kind]int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[Kind]int64)
	for _, e := range p.journal {
		out[e.Kind] += e.Amount
	}
	return out
}
