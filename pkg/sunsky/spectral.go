package sunsky

import (
	"github.com/pkg/errors"
)

// SampleWavelength draws a wavelength from the spectral sampling
// distribution using one uniform sample and returns it with its importance
// weight 1/pdf. The distribution covers the supported wavelength range and
// is proportional to the integrated sky+sun spectral power.
//
// Wavelength sampling has no meaning without a spectral representation, so
// calling this on a model in RGB mode is an error.
func (m *Model) SampleWavelength(u float64) (wavelength, weight float64, err error) {
	if m.mode != ModeSpectral {
		return 0, 0, errors.Errorf("sunsky: wavelength sampling requires spectral mode, model is in %s mode", m.mode)
	}

	wavelength, pdf := m.spectralDistr.SamplePdf(u)
	if pdf <= 0 {
		// Zero-density edge of the distribution; the sample carries no energy
		return wavelength, 0, nil
	}
	return wavelength, 1 / pdf, nil
}

// SpectralRange returns the wavelength interval the spectral sampling
// distribution covers, in nanometers. Only meaningful in spectral mode.
func (m *Model) SpectralRange() (min, max float64) {
	if m.spectralDistr == nil {
		return 0, 0
	}
	return m.spectralDistr.Range()
}
