// Package sunsky evaluates and importance-samples the spectral radiance of a
// physically based sky dome and sun. It turns tabulated atmosphere datasets
// into per-channel radiance coefficients, builds a truncated Gaussian mixture
// for sky-direction sampling, and estimates the sky/sun luminance split used
// to balance the two as light sources.
package sunsky

// Mode selects the radiance representation the model operates in
type Mode int

const (
	// ModeRGB evaluates three color channels; wavelength sampling is unavailable
	ModeRGB Mode = iota
	// ModeSpectral evaluates one channel per tabulated wavelength
	ModeSpectral
)

// ChannelCount returns the number of radiance channels for the mode
func (m Mode) ChannelCount() int {
	if m == ModeSpectral {
		return WavelengthCount
	}
	return 3
}

func (m Mode) String() string {
	if m == ModeSpectral {
		return "spectral"
	}
	return "rgb"
}

// Tabulated wavelength grid of the spectral datasets, in nanometers
const (
	WavelengthCount = 11
	WavelengthMin   = 320.0
	WavelengthStep  = 40.0
)

// Wavelength returns the center wavelength of a spectral channel in nanometers
func Wavelength(channel int) float64 {
	return WavelengthMin + WavelengthStep*float64(channel)
}

// RadianceBasis is the closed-form radiance evaluator the host renderer
// supplies. The model produces coefficients and angles; the basis turns them
// into radiance per channel. Implementations must be pure functions of their
// arguments and safe for concurrent use.
type RadianceBasis interface {
	// EvalSky returns the sky radiance of one channel for a view direction
	// with the given cosine of the zenith angle and angle gamma to the sun,
	// using the channel's coefficient row and mean radiance produced by the
	// dataset interpolation.
	EvalSky(cosTheta, gamma float64, coefs []float64, meanRadiance float64) float64

	// EvalSun returns the sun-disc radiance of one channel for a view
	// direction with the given cosine of the zenith angle and angle gamma
	// to the sun-disc center.
	EvalSun(channel int, cosTheta, gamma float64) float64

	// SunLimbDarkening returns the radiance falloff factor toward the edge
	// of the solar disc for one channel. Only consulted in spectral mode;
	// RGB sun radiance is assumed pre-darkened.
	SunLimbDarkening(channel int, gamma float64) float64
}
