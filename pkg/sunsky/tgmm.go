package sunsky

import (
	"math"

	"github.com/appearance-aware/sunsky/pkg/core"
)

// Gaussian is one truncated component of the sky direction mixture, defined
// over (phi, theta) in the canonical frame where the sun sits at phi = pi/2
type Gaussian struct {
	MuPhi, MuTheta       float64
	SigmaPhi, SigmaTheta float64
	Weight               float64
}

// Grid spacing of the tabulated mixture fits: elevation control points every
// 3 degrees starting at 2, turbidity levels every 1 starting at 2
const (
	tgmmElevationStart   = 2.0
	tgmmElevationSpacing = 3.0
	tgmmTurbidityStart   = 2.0
)

// buildTGMM assembles the truncated Gaussian mixture for the given turbidity
// and sun elevation (radians). The four tabulated mixtures surrounding the
// (turbidity, elevation) cell cannot be interpolated parameter-wise, so only
// their component weights are scaled by the bilinear factors and the four
// scaled mixtures are concatenated. The returned selection distribution is
// built from the concatenated, renormalized weights.
func buildTGMM(table *TGMMTable, turbidity, eta float64) ([]Gaussian, *core.DiscreteDistribution) {
	etaDeg := eta * 180 / math.Pi

	etaIdxF := clamp((etaDeg-tgmmElevationStart)/tgmmElevationSpacing, 0, float64(table.ElevationCtrlPts-1))
	tIdxF := clamp(turbidity-tgmmTurbidityStart, 0, float64(table.TurbidityLevels-1)-1)

	etaIdxLow := int(etaIdxF)
	tIdxLow := int(tIdxF)
	etaIdxHigh := min(etaIdxLow+1, table.ElevationCtrlPts-1)
	tIdxHigh := min(tIdxLow+1, (table.TurbidityLevels-1)-1)

	etaRem := etaIdxF - float64(etaIdxLow)
	tRem := tIdxF - float64(tIdxLow)

	tBlockSize := table.turbidityBlockSize()
	mixtureSize := table.mixtureSize()

	offsets := [4]int{
		tIdxLow*tBlockSize + etaIdxLow*mixtureSize,
		tIdxLow*tBlockSize + etaIdxHigh*mixtureSize,
		tIdxHigh*tBlockSize + etaIdxLow*mixtureSize,
		tIdxHigh*tBlockSize + etaIdxHigh*mixtureSize,
	}
	lerpFactors := [4]float64{
		(1 - tRem) * (1 - etaRem),
		(1 - tRem) * etaRem,
		tRem * (1 - etaRem),
		tRem * etaRem,
	}

	mixture := make([]Gaussian, 0, 4*table.Components)
	for corner := 0; corner < 4; corner++ {
		for c := 0; c < table.Components; c++ {
			p := table.Data[offsets[corner]+c*TGMMGaussianParams:]
			mixture = append(mixture, Gaussian{
				MuPhi:      p[0],
				MuTheta:    p[1],
				SigmaPhi:   p[2],
				SigmaTheta: p[3],
				Weight:     p[4] * lerpFactors[corner],
			})
		}
	}

	weights := make([]float64, len(mixture))
	for i, g := range mixture {
		weights[i] = g.Weight
	}
	selection := core.NewDiscreteDistribution(weights)

	// Publish the renormalized weights so the mixture density matches the
	// selection probabilities exactly
	for i := range mixture {
		mixture[i].Weight = selection.Prob(i)
	}

	return mixture, selection
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}
