package sunsky

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"

	"github.com/appearance-aware/sunsky/pkg/core"
)

// DefaultQuadratureOrder is the Gauss-Legendre order per axis used by the
// sky/sun ratio estimate
const DefaultQuadratureOrder = 200

// CIE 1931 standard-observer luminosity at the tabulated wavelengths,
// used to reduce a spectral radiance vector to luminance
var cieLuminosity = [WavelengthCount]float64{
	0, 0.000039, 0.000396, 0.023, 0.139, 0.710, 0.995, 0.631, 0.175, 0.017, 0.00249,
}

// estimateSkySunRatio integrates the sky radiance over the upper hemisphere
// and the sun radiance over the solar disc with a tensor-product
// Gauss-Legendre rule, reduces both spectra to luminance and returns the
// fraction of the total attributable to the sky, along with the spectral
// sampling distribution built from the combined spectra. In RGB mode the
// distribution is nil.
func (m *Model) estimateSkySunRatio() (float64, *core.ContinuousDistribution) {
	order := m.quadOrder
	nodes := make([]float64, order)
	weights := make([]float64, order)
	quad.Legendre{}.FixedLocations(nodes, weights, -1, 1)

	channels := m.mode.ChannelCount()
	skySpec := make([]float64, channels)
	sunSpec := make([]float64, channels)

	localSunDir := core.SphericalDirection(m.sunAngles.Y, m.sunAngles.X)

	// Sky term: product rule over phi in [0, 2pi] x cos(theta) in [0, 1]
	jacobianSky := 0.5 * math.Pi
	for i := 0; i < order; i++ {
		phi := math.Pi * (nodes[i] + 1)
		sinPhi, cosPhi := math.Sincos(phi)
		for j := 0; j < order; j++ {
			cosTheta := 0.5 * (nodes[j] + 1)
			sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))

			dir := core.Vec3{X: sinTheta * cosPhi, Y: sinTheta * sinPhi, Z: cosTheta}
			gamma := core.UnitAngle(localSunDir, dir)

			w := weights[i] * weights[j] * jacobianSky
			for ch := 0; ch < channels; ch++ {
				skySpec[ch] += w * m.basis.EvalSky(cosTheta, gamma, m.skyParams[ch], m.skyRadiance[ch])
			}
		}
	}

	// Sun term: product rule over phi in [0, 2pi] x cos(gamma) in
	// [cos(half aperture), 1], expressed in the sun's local frame
	cosCutoff := math.Cos(m.sunHalfAperture)
	jacobianSun := 0.5 * math.Pi * (1 - cosCutoff)
	for i := 0; i < order; i++ {
		phi := math.Pi * (nodes[i] + 1)
		sinPhi, cosPhi := math.Sincos(phi)
		for j := 0; j < order; j++ {
			cosGamma := 0.5 * ((1-cosCutoff)*nodes[j] + (1 + cosCutoff))
			sinGamma := math.Sqrt(math.Max(0, 1-cosGamma*cosGamma))
			gamma := math.Atan2(sinGamma, cosGamma)

			// View ray in the sun's frame, rotated into the emitter frame
			sunWo := core.Vec3{X: sinGamma * cosPhi, Y: sinGamma * sinPhi, Z: cosGamma}
			wo := core.ToWorld(localSunDir, sunWo)

			cosTheta := wo.CosTheta()
			if cosTheta < 0 {
				continue
			}

			w := weights[i] * weights[j] * jacobianSun
			for ch := 0; ch < channels; ch++ {
				radiance := m.basis.EvalSun(ch, cosTheta, gamma)
				if m.mode == ModeSpectral {
					radiance *= m.basis.SunLimbDarkening(ch, gamma)
				}
				sunSpec[ch] += w * radiance
			}
		}
	}

	skyLum := m.skyScale * m.luminance(skySpec)
	sunLum := m.sunScale * m.luminance(sunSpec) * sunApertureAreaRatio(m.sunHalfAperture)

	skyWeight := skyLum / (skyLum + sunLum)
	if math.IsNaN(skyWeight) {
		skyWeight = 0
	}

	if m.mode != ModeSpectral {
		return skyWeight, nil
	}

	// Spectral sampling distribution over the combined spectra. The lowest
	// wavelength channel is not supported downstream and stays excluded.
	values := make([]float64, channels-1)
	nonZero := false
	for ch := 1; ch < channels; ch++ {
		v := skySpec[ch] + sunSpec[ch]
		if v > 0 {
			values[ch-1] = v
			nonZero = true
		}
	}
	if !nonZero {
		for i := range values {
			values[i] = 1
		}
	}
	distr := core.NewContinuousDistribution(Wavelength(1), Wavelength(channels-1), values)

	return skyWeight, distr
}

// luminance reduces a per-channel radiance vector to a scalar using the
// mode's channel weighting
func (m *Model) luminance(spec []float64) float64 {
	if m.mode == ModeSpectral {
		lum := 0.0
		for ch, v := range spec {
			lum += cieLuminosity[ch] * v
		}
		return lum
	}
	// Standard RGB luminance weights
	return 0.299*spec[0] + 0.587*spec[1] + 0.114*spec[2]
}

// Half aperture of the physical solar disc the sun dataset was fitted for
const physicalSunHalfAperture = 0.5338 / 2 * math.Pi / 180

// sunApertureAreaRatio compensates the sun luminance for a non-physical
// disc size: the solid angle of the physical disc divided by that of the
// configured one
func sunApertureAreaRatio(halfAperture float64) float64 {
	return (1 - math.Cos(physicalSunHalfAperture)) / (1 - math.Cos(halfAperture))
}
