package sunsky

import (
	"math"
	"math/rand"
	"testing"

	"github.com/appearance-aware/sunsky/pkg/core"
)

func TestSkyLight_SampleMatchesPDF(t *testing.T) {
	model := newTestModel(t, ModeRGB, testConfig(0.9, 2.0))
	light := NewSkyLight(model)

	random := rand.New(rand.NewSource(7))
	for i := 0; i < 1000; i++ {
		dir, pdf := light.Sample(core.Vec2{X: random.Float64(), Y: random.Float64()})
		if pdf <= 0 {
			continue
		}
		if got := light.PDF(dir); math.Abs(got-pdf) > 1e-9*pdf {
			t.Fatalf("PDF(%v) = %v, Sample reported %v", dir, got, pdf)
		}
	}
}

func TestSkyLight_EmitAboveHorizonOnly(t *testing.T) {
	model := newTestModel(t, ModeRGB, testConfig(0.9, 2.0))
	light := NewSkyLight(model)

	up := light.Emit(core.NewRay(core.Vec3{}, core.NewVec3(0.3, 0.2, 0.93).Normalize()))
	if len(up) != 3 {
		t.Fatalf("Expected 3 channels, got %d", len(up))
	}
	positive := false
	for _, v := range up {
		if v > 0 {
			positive = true
		}
	}
	if !positive {
		t.Error("Expected nonzero radiance above the horizon")
	}

	down := light.Emit(core.NewRay(core.Vec3{}, core.NewVec3(0, 0, -1)))
	for ch, v := range down {
		if v != 0 {
			t.Errorf("channel %d: expected 0 below the horizon, got %v", ch, v)
		}
	}
}

func TestSkyLight_SolidAngle(t *testing.T) {
	light := NewSkyLight(newTestModel(t, ModeRGB, testConfig(0.9, 2.0)))
	if got := light.SolidAngle(); got != 2*math.Pi {
		t.Errorf("Solid angle %v, expected %v", got, 2*math.Pi)
	}
}
