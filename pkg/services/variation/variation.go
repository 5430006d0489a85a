package variation

import (
	"math"
	"math/rand/v2"
)

// TrendPerPeriod is the fractional drift applied for each period of offset.
const TrendPerPeriod = 0.015

// Source yields uniformly distributed floats in [0, 1).
type Source interface {
	Float64() float64
}

// Perturber applies trend and noise to dashboard metrics. It owns its random
// stream, so two Perturbers with the same seed produce the same sequence.
type Perturber struct {
	src Source
}

// New returns a Perturber drawing from a PCG stream seeded with seed.
func New(seed uint64) *Perturber {
	return &Perturber{src: rand.New(rand.NewPCG(seed, seed))}
}

// NewWithSource returns a Perturber drawing from src.
func NewWithSource(src Source) *Perturber {
	return &Perturber{src: src}
}

// Uniform draws from [lo, hi).
func (p *Perturber) Uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*p.src.Float64()
}

// Chance reports true with the given probability.
func (p *Perturber) Chance(probability float64) bool {
	return p.src.Float64() < probability
}

// Value moves v by offset*1.5% in the configured direction plus symmetric
// noise of up to volatility, then clamps to [lo, hi]. A nil value stays nil.
func (p *Perturber) Value(v *float64, offset int, improves bool, volatility, lo, hi float64) *float64 {
	if v == nil {
		return nil
	}

	direction := -1.0
	if improves {
		direction = 1.0
	}
	trend := float64(offset) * TrendPerPeriod * direction
	noise := p.Uniform(-volatility, volatility)

	varied := max(lo, min(hi, *v*(1+trend+noise)))
	return &varied
}

// Count is Value for integer counts: nil and zero pass through untouched and
// the result is rounded half to even.
func (p *Perturber) Count(v *float64, offset int, improves bool, volatility, lo, hi float64) *float64 {
	if v == nil || *v == 0 {
		return v
	}

	varied := p.Value(v, offset, improves, volatility, lo, hi)
	rounded := math.RoundToEven(*varied)
	return &rounded
}
