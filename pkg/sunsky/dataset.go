package sunsky

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// bilinearInterp interpolates a dataset over its (albedo, turbidity) axes,
// leaving the (control point, row) axes intact. The albedo is per channel.
// The result is one [ctrlPt][row] tensor per channel. Inputs are not clamped
// here; the model clamps the configuration before interpolating.
func bilinearInterp(d *Dataset, albedo []float64, turbidity float64) [][][]float64 {
	tPos := turbidity - 1 // tabulated levels cover turbidity 1..TurbidityLevels
	tLow := int(math.Floor(tPos))
	if tLow > d.TurbidityLevels-2 {
		tLow = d.TurbidityLevels - 2
	}
	if tLow < 0 {
		tLow = 0
	}
	tHigh := tLow + 1
	tRem := tPos - float64(tLow)

	result := make([][][]float64, d.Channels)
	for ch := 0; ch < d.Channels; ch++ {
		aPos := albedo[ch] * float64(d.AlbedoLevels-1)
		aLow := int(math.Floor(aPos))
		if aLow > d.AlbedoLevels-2 {
			aLow = d.AlbedoLevels - 2
		}
		if aLow < 0 {
			aLow = 0
		}
		aHigh := aLow + 1
		aRem := aPos - float64(aLow)

		rows := make([][]float64, d.CtrlPts)
		for c := 0; c < d.CtrlPts; c++ {
			row := make([]float64, d.RowLen)
			floats.AddScaled(row, (1-aRem)*(1-tRem), d.Row(ch, aLow, tLow, c))
			floats.AddScaled(row, (1-aRem)*tRem, d.Row(ch, aLow, tHigh, c))
			floats.AddScaled(row, aRem*(1-tRem), d.Row(ch, aHigh, tLow, c))
			floats.AddScaled(row, aRem*tRem, d.Row(ch, aHigh, tHigh, c))
			rows[c] = row
		}
		result[ch] = rows
	}
	return result
}

// Bernstein coefficients of the quintic elevation blend
var bezierCoefs = [SkyCtrlPts]float64{1, 5, 10, 10, 5, 1}

// bezierInterp blends the elevation control-point rows of each channel into
// a single coefficient row, using a Bezier curve over the reparameterized
// sun elevation x = cbrt(2*eta/pi). At eta=0 the blend reduces exactly to
// the first control row.
func bezierInterp(tensor [][][]float64, eta float64) [][]float64 {
	// Negative elevations (sun below the horizon) evaluate at the horizon row
	x := math.Cbrt(2 * math.Max(0, eta) / math.Pi)
	x = math.Min(x, 1-1e-9)

	result := make([][]float64, len(tensor))
	for ch, rows := range tensor {
		row := make([]float64, len(rows[0]))

		xPow := 1.0
		xPowInv := math.Pow(1-x, SkyCtrlPts-1)
		xPowInvScale := 1 / (1 - x)
		for c := 0; c < SkyCtrlPts; c++ {
			floats.AddScaled(row, bezierCoefs[c]*xPow*xPowInv, rows[c])
			xPow *= x
			xPowInv *= xPowInvScale
		}
		result[ch] = row
	}
	return result
}
