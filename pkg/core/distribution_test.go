package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestDiscreteDistribution_Normalization(t *testing.T) {
	d := NewDiscreteDistribution([]float64{1, 3, 4, 2})

	total := 0.0
	for i := 0; i < d.Count(); i++ {
		total += d.Prob(i)
	}
	if math.Abs(total-1.0) > 1e-12 {
		t.Errorf("Probabilities should sum to 1, got %v", total)
	}
	if math.Abs(d.Prob(1)-0.3) > 1e-12 {
		t.Errorf("Expected Prob(1) = 0.3, got %v", d.Prob(1))
	}
}

func TestDiscreteDistribution_ZeroWeightsFallBackToUniform(t *testing.T) {
	d := NewDiscreteDistribution([]float64{0, 0, 0, 0})
	for i := 0; i < d.Count(); i++ {
		if math.Abs(d.Prob(i)-0.25) > 1e-12 {
			t.Errorf("Expected uniform probability 0.25 at %d, got %v", i, d.Prob(i))
		}
	}
}

func TestDiscreteDistribution_NegativeWeightPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for negative weight")
		}
	}()
	NewDiscreteDistribution([]float64{1, -0.5})
}

func TestDiscreteDistribution_SampleMatchesWeights(t *testing.T) {
	d := NewDiscreteDistribution([]float64{1, 2, 5, 2})
	random := rand.New(rand.NewSource(42))

	const n = 200000
	counts := make([]int, d.Count())
	for i := 0; i < n; i++ {
		counts[d.Sample(random.Float64())]++
	}

	for i := 0; i < d.Count(); i++ {
		got := float64(counts[i]) / n
		if math.Abs(got-d.Prob(i)) > 0.01 {
			t.Errorf("Index %d: sampled frequency %v, expected %v", i, got, d.Prob(i))
		}
	}
}

func TestDiscreteDistribution_SampleReuseRemainderIsUniform(t *testing.T) {
	d := NewDiscreteDistribution([]float64{3, 1, 4})
	random := rand.New(rand.NewSource(7))

	// The remainder should stay uniform in [0, 1): its mean converges to 0.5
	const n = 100000
	sum := 0.0
	for i := 0; i < n; i++ {
		_, remainder := d.SampleReuse(random.Float64())
		if remainder < 0 || remainder >= 1 {
			t.Fatalf("Remainder %v out of [0, 1)", remainder)
		}
		sum += remainder
	}
	mean := sum / n
	if math.Abs(mean-0.5) > 0.01 {
		t.Errorf("Remainder mean %v, expected ~0.5", mean)
	}
}

func TestDiscreteDistribution_SampleReuseSkipsZeroBins(t *testing.T) {
	d := NewDiscreteDistribution([]float64{1, 0, 1})

	idx, _ := d.SampleReuse(0.5)
	if idx == 1 {
		t.Error("Sampled a zero-probability index")
	}
}

func TestContinuousDistribution_UniformPdf(t *testing.T) {
	d := NewContinuousDistribution(360, 720, []float64{1, 1, 1, 1})

	wantPdf := 1.0 / 360
	for _, x := range []float64{360, 400, 550, 719, 720} {
		if math.Abs(d.Pdf(x)-wantPdf) > 1e-12 {
			t.Errorf("Pdf(%v) = %v, expected %v", x, d.Pdf(x), wantPdf)
		}
	}
	if d.Pdf(300) != 0 || d.Pdf(800) != 0 {
		t.Error("Pdf outside the interval should be 0")
	}
}

func TestContinuousDistribution_SamplePdfConsistent(t *testing.T) {
	d := NewContinuousDistribution(0, 1, []float64{0.2, 1.5, 0.7, 2.0, 0.4})
	random := rand.New(rand.NewSource(99))

	for i := 0; i < 10000; i++ {
		x, pdf := d.SamplePdf(random.Float64())
		if x < 0 || x > 1 {
			t.Fatalf("Sample %v outside the interval", x)
		}
		if math.Abs(pdf-d.Pdf(x)) > 1e-9 {
			t.Fatalf("Returned pdf %v disagrees with Pdf(%v) = %v", pdf, x, d.Pdf(x))
		}
	}
}

func TestContinuousDistribution_SampleDistribution(t *testing.T) {
	// Linear ramp: mass of [0.5, 1] is 3x the mass of [0, 0.5]
	d := NewContinuousDistribution(0, 1, []float64{0, 2})
	random := rand.New(rand.NewSource(3))

	const n = 100000
	upper := 0
	for i := 0; i < n; i++ {
		x, _ := d.SamplePdf(random.Float64())
		if x > 0.5 {
			upper++
		}
	}
	got := float64(upper) / n
	if math.Abs(got-0.75) > 0.01 {
		t.Errorf("Upper-half frequency %v, expected 0.75", got)
	}
}

func TestContinuousDistribution_InvertsCdfExactly(t *testing.T) {
	d := NewContinuousDistribution(0, 2, []float64{1, 1})

	x, pdf := d.SamplePdf(0.25)
	if math.Abs(x-0.5) > 1e-12 {
		t.Errorf("Expected median of first half at 0.5, got %v", x)
	}
	if math.Abs(pdf-0.5) > 1e-12 {
		t.Errorf("Expected pdf 0.5, got %v", pdf)
	}
}
