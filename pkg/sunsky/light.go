package sunsky

import (
	"math"

	"github.com/appearance-aware/sunsky/pkg/core"
)

// SkyLight adapts a model to the sample/pdf/emit shape renderers expect
// from an infinite light. It is a thin, stateless view over the model's
// published state and shares its concurrency guarantees.
type SkyLight struct {
	model *Model
}

// NewSkyLight creates a light view over the model
func NewSkyLight(model *Model) *SkyLight {
	return &SkyLight{model: model}
}

// Sample draws a direction toward the sky dome with its solid-angle PDF
func (l *SkyLight) Sample(sample core.Vec2) (direction core.Vec3, pdf float64) {
	direction = l.model.SampleSky(sample)
	return direction, l.model.SkyPdf(direction)
}

// PDF returns the solid-angle probability density of sampling the given
// direction
func (l *SkyLight) PDF(direction core.Vec3) float64 {
	return l.model.SkyPdf(direction)
}

// Emit evaluates the per-channel radiance arriving along the ray, zero for
// rays that do not reach the dome
func (l *SkyLight) Emit(ray core.Ray) []float64 {
	return l.model.Radiance(ray.Direction)
}

// SolidAngle returns the solid angle of the upper hemisphere the light
// covers
func (l *SkyLight) SolidAngle() float64 {
	return 2 * math.Pi
}
