package gacha

import (
	"math"
	"sort"
)

// Stats summarizes a batch of trial results.
type Stats struct {
	N      int
	Mean   float64
	Var    float64
	StdDev float64
	Min    float64
	Max    float64
	P50    float64
	P90    float64
	P99    float64
	// raw samples for histograms/exports
	Samples []float64 `json:"-"`
}

// Summarize computes population mean/variance and interpolated percentiles.
func Summarize(xs []float64) Stats {
	n := len(xs)
	if n == 0 {
		return Stats{}
	}
	var sum float64
	for _, v := range xs {
		sum += v
	}
	mean := sum / float64(n)

	var acc float64
	for _, v := range xs {
		d := v - mean
		acc += d * d
	}
	variance := acc / float64(n)

	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	percentile := func(p float64) float64 {
		if n == 1 || p <= 0 {
			return cp[0]
		}
		if p >= 1 {
			return cp[n-1]
		}
		pos := p * float64(n-1)
		i := int(math.Floor(pos))
		f := pos - float64(i)
		if i+1 >= n {
			return cp[i]
		}
		return cp[i]*(1-f) + cp[i+1]*f
	}

	return Stats{
		N:       n,
		Mean:    mean,
		Var:     variance,
		StdDev:  math.Sqrt(variance),
		Min:     cp[0],
		Max:     cp[n-1],
		P50:     percentile(0.50),
		P90:     percentile(0.90),
		P99:     percentile(0.99),
		Samples: xs,
	}
}

// RunMonteCarlo calls one for each trial index and summarizes the results.
func RunMonteCarlo(trials int, one func(trial int) (float64, error)) (Stats, error) {
	if trials <= 0 {
		return Stats{}, nil
	}
	samples := make([]float64, trials)
	for i := 0; i < trials; i++ {
		v, err := one(i)
		if err != nil {
			return Stats{}, err
		}
		samples[i] = v
	}
	return Summarize(samples), nil
}

// ChiSquare returns the Pearson statistic of observed counts against expected probabilities.
func ChiSquare(observed []int, probs []float64) float64 {
	total := 0
	for _, o := range observed {
		total += o
	}
	if total == 0 {
		return 0
	}
	var chi float64
	for i, o := range observed {
		if i >= len(probs) || probs[i] <= 0 {
			continue
		}
		e := probs[i] * float64(total)
		d := float64(o) - e
		chi += d * d / e
	}
	return chi
}

// chiCritical001 holds the 0.999 quantile of chi-square for df 1..10.
var chiCritical001 = []float64{10.828, 13.816, 16.266, 18.467, 20.515, 22.458, 24.322, 26.124, 27.877, 29.588}

// ChiSquareCritical returns the alpha=0.001 critical value for df degrees of freedom,
// or +Inf when df is outside the table.
func ChiSquareCritical(df int) float64 {
	if df < 1 || df > len(chiCritical001) {
		return math.Inf(1)
	}
	return chiCritical001[df-1]
}
