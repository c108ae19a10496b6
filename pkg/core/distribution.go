package core

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// DiscreteDistribution represents a normalized probability mass function
// over a fixed set of indices, sampled by inverse CDF lookup
type DiscreteDistribution struct {
	pmf []float64
	cdf []float64
}

// NewDiscreteDistribution creates a discrete distribution from unnormalized
// weights. Weights must be non-negative; an all-zero weight vector falls
// back to a uniform distribution.
func NewDiscreteDistribution(weights []float64) *DiscreteDistribution {
	if len(weights) == 0 {
		panic("discrete distribution requires at least one weight")
	}

	pmf := make([]float64, len(weights))
	total := 0.0
	for i, w := range weights {
		if w < 0 {
			panic(fmt.Sprintf("weights must be non-negative, got %v at index %d", w, i))
		}
		pmf[i] = w
		total += w
	}

	if total == 0 {
		uniform := 1.0 / float64(len(pmf))
		for i := range pmf {
			pmf[i] = uniform
		}
	} else {
		floats.Scale(1/total, pmf)
	}

	cdf := make([]float64, len(pmf))
	floats.CumSum(cdf, pmf)
	cdf[len(cdf)-1] = 1.0 // Absorb rounding so lookups never run off the end

	return &DiscreteDistribution{pmf: pmf, cdf: cdf}
}

// Count returns the number of indices in the distribution
func (d *DiscreteDistribution) Count() int {
	return len(d.pmf)
}

// Prob returns the probability of the given index
func (d *DiscreteDistribution) Prob(index int) float64 {
	if index < 0 || index >= len(d.pmf) {
		return 0
	}
	return d.pmf[index]
}

// Sample draws an index from the distribution using a uniform sample in [0, 1)
func (d *DiscreteDistribution) Sample(u float64) int {
	index, _ := d.SampleReuse(u)
	return index
}

// SampleReuse draws an index and rescales the used sample back to a uniform
// value in [0, 1), so the caller can reuse the random dimension. The index
// draw consumes only the coarse position of u within the CDF; the fractional
// remainder within the selected bin stays uniformly distributed.
func (d *DiscreteDistribution) SampleReuse(u float64) (int, float64) {
	index := sort.SearchFloat64s(d.cdf, u)
	if index >= len(d.cdf) {
		index = len(d.cdf) - 1
	}
	// Skip zero-probability bins that u can land on at bin boundaries
	for index < len(d.pmf)-1 && d.pmf[index] == 0 {
		index++
	}

	lower := 0.0
	if index > 0 {
		lower = d.cdf[index-1]
	}
	remainder := u
	if d.pmf[index] > 0 {
		remainder = (u - lower) / d.pmf[index]
	}
	remainder = math.Max(0, math.Min(remainder, 1-1e-9))

	return index, remainder
}

// ContinuousDistribution represents a piecewise-linear probability density
// over a fixed interval, defined by density values at uniformly spaced nodes
type ContinuousDistribution struct {
	min, max float64
	step     float64
	pdf      []float64 // node densities, normalized to unit integral
	cdf      []float64 // cumulative integral up to each node
}

// NewContinuousDistribution creates a continuous distribution over
// [min, max] from unnormalized density values at uniformly spaced nodes.
// At least two nodes are required; values must be non-negative and not
// identically zero.
func NewContinuousDistribution(min, max float64, values []float64) *ContinuousDistribution {
	if len(values) < 2 {
		panic("continuous distribution requires at least two nodes")
	}
	if max <= min {
		panic("continuous distribution requires max > min")
	}

	pdf := make([]float64, len(values))
	for i, v := range values {
		if v < 0 || math.IsNaN(v) {
			panic(fmt.Sprintf("densities must be non-negative, got %v at node %d", v, i))
		}
		pdf[i] = v
	}

	step := (max - min) / float64(len(values)-1)
	cdf := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		cdf[i] = cdf[i-1] + 0.5*step*(pdf[i-1]+pdf[i])
	}

	integral := cdf[len(cdf)-1]
	if integral == 0 {
		panic("continuous distribution requires a non-zero integral")
	}
	floats.Scale(1/integral, pdf)
	floats.Scale(1/integral, cdf)
	cdf[len(cdf)-1] = 1.0

	return &ContinuousDistribution{min: min, max: max, step: step, pdf: pdf, cdf: cdf}
}

// Range returns the interval the distribution is defined over
func (d *ContinuousDistribution) Range() (min, max float64) {
	return d.min, d.max
}

// Pdf evaluates the normalized density at x, 0 outside the interval
func (d *ContinuousDistribution) Pdf(x float64) float64 {
	if x < d.min || x > d.max {
		return 0
	}
	pos := (x - d.min) / d.step
	i := int(pos)
	if i >= len(d.pdf)-1 {
		return d.pdf[len(d.pdf)-1]
	}
	t := pos - float64(i)
	return d.pdf[i] + (d.pdf[i+1]-d.pdf[i])*t
}

// SamplePdf draws a point from the distribution by inverting the CDF and
// returns it along with its density
func (d *ContinuousDistribution) SamplePdf(u float64) (x, pdf float64) {
	u = math.Max(0, math.Min(u, 1))
	i := sort.SearchFloat64s(d.cdf, u)
	if i > 0 {
		i--
	}
	if i >= len(d.cdf)-1 {
		i = len(d.cdf) - 2
	}

	// Invert the quadratic CDF segment: mass = v0*t + (v1-v0)*t^2/(2h)
	mass := u - d.cdf[i]
	v0, v1 := d.pdf[i], d.pdf[i+1]
	var t float64
	if math.Abs(v1-v0) < 1e-12*math.Max(v0, v1) || v1 == v0 {
		if v0 > 0 {
			t = mass / v0
		}
	} else {
		disc := v0*v0 + 2*mass*(v1-v0)/d.step
		t = 2 * mass / (v0 + math.Sqrt(math.Max(0, disc)))
	}
	t = math.Max(0, math.Min(t, d.step))

	x = d.min + float64(i)*d.step + t
	pdf = v0 + (v1-v0)*t/d.step
	return x, pdf
}
