package sunsky

import "testing"

func TestModeChannels(t *testing.T) {
	if got := ModeRGB.ChannelCount(); got != 3 {
		t.Errorf("RGB channel count %d, expected 3", got)
	}
	if got := ModeSpectral.ChannelCount(); got != WavelengthCount {
		t.Errorf("Spectral channel count %d, expected %d", got, WavelengthCount)
	}
	if ModeRGB.String() != "rgb" || ModeSpectral.String() != "spectral" {
		t.Errorf("Unexpected mode names %q, %q", ModeRGB, ModeSpectral)
	}
}

func TestWavelengthGrid(t *testing.T) {
	if got := Wavelength(0); got != 320 {
		t.Errorf("Wavelength(0) = %v, expected 320", got)
	}
	if got := Wavelength(WavelengthCount - 1); got != 720 {
		t.Errorf("Last wavelength = %v, expected 720", got)
	}
	for ch := 1; ch < WavelengthCount; ch++ {
		if Wavelength(ch)-Wavelength(ch-1) != WavelengthStep {
			t.Errorf("Uneven wavelength spacing at channel %d", ch)
		}
	}
}
