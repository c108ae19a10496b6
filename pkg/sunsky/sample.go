package sunsky

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/appearance-aware/sunsky/pkg/core"
)

// Domain of the truncated mixture: phi in [0, 2pi], theta in [0, pi/2]
const (
	tgmmPhiMax   = 2 * math.Pi
	tgmmThetaMax = 0.5 * math.Pi

	// cdfEpsilon keeps interpolated CDF values inside the open interval the
	// Gaussian quantile is defined on
	cdfEpsilon = 1e-9
)

// sampleSky draws a sky direction from the truncated Gaussian mixture.
// The 2D uniform sample selects a component (reusing the fractional
// remainder of its first dimension) and then inverts the component's
// per-axis truncated CDF. The resulting angles live in the canonical frame
// with the sun at phi = pi/2 and are rotated into the emitter frame using
// the sun's azimuth.
func sampleSky(mixture []Gaussian, selection *core.DiscreteDistribution, sample core.Vec2, sunAngles core.Vec2) core.Vec3 {
	idx, remainder := selection.SampleReuse(sample.X)
	g := mixture[idx]

	phiDist := distuv.Normal{Mu: g.MuPhi, Sigma: g.SigmaPhi}
	thetaDist := distuv.Normal{Mu: g.MuTheta, Sigma: g.SigmaTheta}

	// Interpolate between the CDF values at the truncation bounds, then
	// invert each axis independently
	phiCdf := lerp(phiDist.CDF(0), phiDist.CDF(tgmmPhiMax), remainder)
	thetaCdf := lerp(thetaDist.CDF(0), thetaDist.CDF(tgmmThetaMax), sample.Y)

	phi := phiDist.Quantile(clamp(phiCdf, cdfEpsilon, 1-cdfEpsilon))
	theta := thetaDist.Quantile(clamp(thetaCdf, cdfEpsilon, 1-cdfEpsilon))

	// Rotate from the canonical frame into the emitter frame and keep theta
	// strictly above the horizon so the direction never dips below z=0
	phi += sunAngles.X - 0.5*math.Pi
	theta = math.Min(theta, tgmmThetaMax-1e-9)

	return core.SphericalDirection(theta, phi)
}

// skyPdf evaluates the solid-angle density of a direction under the
// truncated Gaussian mixture, the inverse problem of sampleSky. Directions
// below the horizon or with a degenerate zenith sine have density zero.
func skyPdf(mixture []Gaussian, dir core.Vec3, sunAngles core.Vec2) float64 {
	sinTheta := dir.SinTheta()
	if dir.CosTheta() < 0 || sinTheta == 0 {
		return 0
	}
	sinTheta = math.Max(sinTheta, 1e-9)

	theta, phi := core.SphericalAngles(dir)

	// Rotate back into the canonical frame, wrapping phi to [0, 2pi]
	phi -= sunAngles.X - 0.5*math.Pi
	if phi < 0 {
		phi += tgmmPhiMax
	}
	if phi > tgmmPhiMax {
		phi -= tgmmPhiMax
	}
	if theta < 0 || theta > tgmmThetaMax {
		return 0
	}

	pdf := 0.0
	for _, g := range mixture {
		phiDist := distuv.Normal{Mu: g.MuPhi, Sigma: g.SigmaPhi}
		thetaDist := distuv.Normal{Mu: g.MuTheta, Sigma: g.SigmaTheta}

		// Mass of the component inside the truncation bounds
		volume := (phiDist.CDF(tgmmPhiMax) - phiDist.CDF(0)) *
			(thetaDist.CDF(tgmmThetaMax) - thetaDist.CDF(0)) *
			(g.SigmaPhi * g.SigmaTheta)
		if volume <= 0 {
			continue
		}

		xPhi := (phi - g.MuPhi) / g.SigmaPhi
		xTheta := (theta - g.MuTheta) / g.SigmaTheta
		density := distuv.UnitNormal.Prob(xPhi) * distuv.UnitNormal.Prob(xTheta)

		pdf += g.Weight * density / volume
	}

	// Change of variables from (phi, theta) to solid angle
	return pdf / sinTheta
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
