package sunsky

import (
	"math"
	"math/rand"
	"testing"

	"github.com/appearance-aware/sunsky/pkg/core"
)

func newTestModel(t *testing.T, mode Mode, cfg Config) *Model {
	t.Helper()
	model, err := New(newTestTables(mode.ChannelCount()), &testBasis{sunRadiance: 1}, mode, cfg, nil)
	if err != nil {
		t.Fatalf("building model: %v", err)
	}
	return model
}

func TestSampleSky_AboveHorizon(t *testing.T) {
	model := newTestModel(t, ModeRGB, testConfig(0.9, 2.0))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))

	for i := 0; i < 10000; i++ {
		dir := model.SampleSky(sampler.Get2D())

		if math.Abs(dir.Length()-1) > 1e-9 {
			t.Fatalf("sample %d: direction %v is not a unit vector", i, dir)
		}
		if dir.Z < 0 {
			t.Fatalf("sample %d: direction %v points below the horizon", i, dir)
		}
	}
}

func TestSampleSky_PositivePdf(t *testing.T) {
	model := newTestModel(t, ModeRGB, testConfig(0.9, 2.0))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(7)))

	const n = 10000
	positive := 0
	for i := 0; i < n; i++ {
		dir := model.SampleSky(sampler.Get2D())
		if model.SkyPdf(dir) > 0 {
			positive++
		}
	}

	if frac := float64(positive) / n; frac < 0.99 {
		t.Errorf("Only %.2f%% of sampled directions have positive density, expected at least 99%%", frac*100)
	}
}

func TestSampleSky_UnbiasedSolidAngle(t *testing.T) {
	model := newTestModel(t, ModeRGB, testConfig(1.1, 0.4))
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(1234)))

	// The Monte-Carlo estimate of the hemisphere's solid angle,
	// integrating 1 against the sampling density
	const n = 400000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir := model.SampleSky(sampler.Get2D())
		if pdf := model.SkyPdf(dir); pdf > 0 {
			sum += 1 / pdf
		}
	}

	estimate := sum / n
	if math.Abs(estimate-2*math.Pi)/(2*math.Pi) > 0.05 {
		t.Errorf("Solid angle estimate %v, expected %v within 5%%", estimate, 2*math.Pi)
	}
}

func TestSkyPdf_RejectsInvalidDirections(t *testing.T) {
	model := newTestModel(t, ModeRGB, testConfig(0.9, 2.0))

	tests := []struct {
		name string
		dir  core.Vec3
	}{
		{"Below horizon", core.NewVec3(0.3, 0.3, -0.5).Normalize()},
		{"Degenerate zenith", core.NewVec3(0, 0, 1)},
		{"Straight down", core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if pdf := model.SkyPdf(tt.dir); pdf != 0 {
				t.Errorf("Expected density 0, got %v", pdf)
			}
		})
	}
}

func TestSkyPdf_RotatesWithSunAzimuth(t *testing.T) {
	// The mixture is defined relative to the sun's azimuth, so rotating
	// both the sun and the query direction leaves the density unchanged
	modelA := newTestModel(t, ModeRGB, testConfig(0.9, 1.0))
	modelB := newTestModel(t, ModeRGB, testConfig(0.9, 1.0+0.7))

	dir := core.SphericalDirection(0.6, 2.0)
	rotated := core.SphericalDirection(0.6, 2.0+0.7)

	pdfA := modelA.SkyPdf(dir)
	pdfB := modelB.SkyPdf(rotated)
	if math.Abs(pdfA-pdfB) > 1e-9*math.Max(pdfA, 1) {
		t.Errorf("Density should rotate with the sun azimuth: got %v and %v", pdfA, pdfB)
	}
}
