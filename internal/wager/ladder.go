package wager

import "github.com/pkg/errors"

var ErrLadder = errors.New("stakes must be positive and strictly ascending")

// DefaultStakes are the allowed bet sizes, smallest first.
var DefaultStakes = []int64{10, 50, 100, 500, 1000}

// Ladder is the fixed ordered set of stakes. The current stake only moves one rung at a time.
type Ladder struct {
	stakes []int64
	idx    int
}

func NewLadder(stakes []int64) (*Ladder, error) {
	if len(stakes) == 0 {
		return nil, ErrLadder
	}
	for i, s := range stakes {
		if s <= 0 || (i > 0 && s <= stakes[i-1]) {
			return nil, errors.Wrapf(ErrLadder, "stake %d at rung %d", s, i)
		}
	}
	return &Ladder{stakes: append([]int64(nil), stakes...)}, nil
}

// Current returns the selected stake.
func (l *Ladder) Current() int64 { return l.stakes[l.idx] }

// Unit is the smallest stake, the reference for payout scaling.
func (l *Ladder) Unit() int64 { return l.stakes[0] }

// Up moves to the next larger stake, saturating at the top.
func (l *Ladder) Up() int64 {
	if l.idx < len(l.stakes)-1 {
		l.idx++
	}
	return l.Current()
}

// Down moves to the next smaller stake, saturating at the bottom.
func (l *Ladder) Down() int64 {
	if l.idx > 0 {
		l.idx--
	}
	return l.Current()
}

func (l *Ladder) Stakes() []int64 { return append([]int64(nil), l.stakes...) }

// CostFor returns the total stake of n shots at the current rung.
func (l *Ladder) CostFor(n int) int64 {
	if n <= 0 {
		return 0
	}
	return int64(n) * l.Current()
}
