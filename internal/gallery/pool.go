package gallery

import "github.com/pkg/errors"

type slot[T any] struct {
	id   uint64
	v    *T
	dead bool
}

// Pool is an arena keyed by identity. Removal only marks a slot; Compact drops
// marked slots once the pass is over, so iteration never skips or revisits entries.
// Insertion order is kept and is the iteration order.
type Pool[T any] struct {
	slots []slot[T]
	index map[uint64]int
	live  int
}

func NewPool[T any]() *Pool[T] {
	return &Pool[T]{index: make(map[uint64]int)}
}

// Add appends v under id. A duplicate identity is pool corruption.
func (p *Pool[T]) Add(id uint64, v *T) error {
	if _, ok := p.index[id]; ok {
		return errors.Wrapf(ErrPoolCorruption, "duplicate identity %d", id)
	}
	p.index[id] = len(p.slots)
	p.slots = append(p.slots, slot[T]{id: id, v: v})
	p.live++
	return nil
}

// Each visits live entries in insertion order until fn returns false.
// Entries added during the pass are not visited.
func (p *Pool[T]) Each(fn func(id uint64, v *T) bool) {
	n := len(p.slots)
	for i := 0; i < n; i++ {
		s := &p.slots[i]
		if s.dead {
			continue
		}
		if !fn(s.id, s.v) {
			return
		}
	}
}

// Remove marks id for removal. It reports whether a live entry was marked.
func (p *Pool[T]) Remove(id uint64) bool {
	i, ok := p.index[id]
	if !ok || p.slots[i].dead {
		return false
	}
	p.slots[i].dead = true
	p.live--
	return true
}

func (p *Pool[T]) Get(id uint64) (*T, bool) {
	i, ok := p.index[id]
	if !ok || p.slots[i].dead {
		return nil, false
	}
	return p.slots[i].v, true
}

// Compact drops removed slots, keeping the order of the rest.
func (p *Pool[T]) Compact() {
	alive := 0
	for i := range p.slots {
		s := p.slots[i]
		if s.dead {
			delete(p.index, s.id)
			continue
		}
		p.slots[alive] = s
		p.index[s.id] = alive
		alive++
	}
	clear(p.slots[alive:])
	p.slots = p.slots[:alive]
}

// Len counts live entries.
func (p *Pool[T]) Len() int { return p.live }

// Items returns the live entries in order.
func (p *Pool[T]) Items() []*T {
	out := make([]*T, 0, p.live)
	p.Each(func(_ uint64, v *T) bool {
		out = append(out, v)
		return true
	})
	return out
}

func (p *Pool[T]) Clear() {
	p.slots = nil
	p.index = make(map[uint64]int)
	p.live = 0
}
