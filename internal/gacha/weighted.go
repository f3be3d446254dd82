package gacha

import "github.com/pkg/errors"

var ErrEmptyTable = errors.New("weighted table has no entries")

// Weighted draws one item per call with P(item) = weight / total.
// Entries are scanned in insertion order, so the cumulative thresholds are
// fixed by the order the table was built in.
type Weighted[T any] struct {
	items   []T
	weights []float64
	total   float64
}

// NewWeighted builds a table from parallel slices.
func NewWeighted[T any](items []T, weights []float64) (*Weighted[T], error) {
	if len(items) == 0 {
		return nil, ErrEmptyTable
	}
	if len(items) != len(weights) {
		return nil, errors.Errorf("weighted table: %d items but %d weights", len(items), len(weights))
	}
	w := &Weighted[T]{
		items:   append([]T(nil), items...),
		weights: append([]float64(nil), weights...),
	}
	for i, v := range weights {
		if err := validateWeight(v); err != nil {
			return nil, errors.Wrapf(err, "weighted table entry %d", i)
		}
		w.total += v
	}
	return w, nil
}

// Pick consumes one uniform draw and scans buckets until the remainder falls inside one.
func (w *Weighted[T]) Pick(rng RandomSource) T {
	if rng == nil {
		rng = DefaultRNG()
	}
	r := rng.Float64() * w.total
	for i, wt := range w.weights {
		if r < wt {
			return w.items[i]
		}
		r -= wt
	}
	// float rounding on the last bucket
	return w.items[len(w.items)-1]
}

// Prob reports the configured probability of the i-th entry.
func (w *Weighted[T]) Prob(i int) float64 {
	if i < 0 || i >= len(w.weights) {
		return 0
	}
	return w.weights[i] / w.total
}

func (w *Weighted[T]) Len() int { return len(w.items) }

func (w *Weighted[T]) Item(i int) T { return w.items[i] }

// Without returns a table over every entry whose index differs from skip,
// renormalized over the remaining weight. It returns nil when nothing is left.
func (w *Weighted[T]) Without(skip int) *Weighted[T] {
	var items []T
	var weights []float64
	for i := range w.items {
		if i == skip {
			continue
		}
		items = append(items, w.items[i])
		weights = append(weights, w.weights[i])
	}
	out, err := NewWeighted(items, weights)
	if err != nil {
		return nil
	}
	return out
}
