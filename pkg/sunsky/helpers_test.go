package sunsky

import (
	"math"
	"math/rand"

	"github.com/appearance-aware/sunsky/pkg/core"
)

// newTestTables builds deterministic synthetic tables with the real grid
// dimensions. The values are not physical, but they are positive, finite
// and fixed by the seed, which is all the numerics under test depend on.
func newTestTables(channels int) *Tables {
	random := rand.New(rand.NewSource(1))

	params := &Dataset{
		Channels:        channels,
		AlbedoLevels:    2,
		TurbidityLevels: 10,
		CtrlPts:         SkyCtrlPts,
		RowLen:          9,
	}
	params.Data = make([]float64, channels*2*10*SkyCtrlPts*9)
	for i := range params.Data {
		params.Data[i] = random.Float64()*2 - 0.5
	}

	radiance := &Dataset{
		Channels:        channels,
		AlbedoLevels:    2,
		TurbidityLevels: 10,
		CtrlPts:         SkyCtrlPts,
		RowLen:          1,
	}
	radiance.Data = make([]float64, channels*2*10*SkyCtrlPts)
	for i := range radiance.Data {
		radiance.Data[i] = 0.5 + random.Float64()
	}

	tgmm := &TGMMTable{
		TurbidityLevels:  TGMMTurbidityLevels,
		ElevationCtrlPts: TGMMElevationCtrlPts,
		Components:       TGMMComponents,
	}
	cells := (tgmm.TurbidityLevels - 1) * tgmm.ElevationCtrlPts * tgmm.Components
	tgmm.Data = make([]float64, 0, cells*TGMMGaussianParams)
	// Per component: mu_phi, mu_theta, sigma_phi, sigma_theta, weight
	for i := 0; i < cells; i++ {
		tgmm.Data = append(tgmm.Data,
			random.Float64()*2*math.Pi,
			random.Float64()*0.5*math.Pi,
			0.3+random.Float64(),
			0.3+random.Float64(),
			0.05+random.Float64(),
		)
	}

	return &Tables{SkyParams: params, SkyRadiance: radiance, TGMM: tgmm}
}

// testBasis is a smooth analytic stand-in for the host's radiance basis
type testBasis struct {
	sunRadiance float64
}

func (b *testBasis) EvalSky(cosTheta, gamma float64, coefs []float64, meanRadiance float64) float64 {
	return meanRadiance * (1 + cosTheta) * (1 + 0.1*math.Cos(gamma))
}

func (b *testBasis) EvalSun(channel int, cosTheta, gamma float64) float64 {
	return b.sunRadiance
}

func (b *testBasis) SunLimbDarkening(channel int, gamma float64) float64 {
	return 1
}

// testConfig returns a direction-mode configuration with a cheap quadrature
// order for fast tests
func testConfig(sunTheta, sunPhi float64) Config {
	cfg := DefaultConfig()
	cfg.SunDirection = sphericalPtr(sunTheta, sunPhi)
	cfg.QuadratureOrder = 16
	return cfg
}

func sphericalPtr(theta, phi float64) *core.Vec3 {
	v := core.SphericalDirection(theta, phi)
	return &v
}
