package sunsky

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/appearance-aware/sunsky/pkg/core"
)

// Parameter keys accepted by ParametersChanged. An empty key list means
// everything changed.
const (
	KeyTurbidity    = "turbidity"
	KeyAlbedo       = "albedo"
	KeySunDirection = "sun_direction"
	KeyLatitude     = "latitude"
	KeyLongitude    = "longitude"
	KeyTimezone     = "timezone"
	KeyYear         = "year"
	KeyMonth        = "month"
	KeyDay          = "day"
	KeyHour         = "hour"
	KeyMinute       = "minute"
	KeySecond       = "second"
	KeySunScale     = "sun_scale"
	KeySkyScale     = "sky_scale"
	KeySunAperture  = "sun_aperture"
)

var recordKeys = []string{
	KeyLatitude, KeyLongitude, KeyTimezone,
	KeyYear, KeyMonth, KeyDay, KeyHour, KeyMinute, KeySecond,
}

// Config holds the host-facing configuration of the model. Exactly one of
// SunDirection or a Location/Time record may be set; leaving all three nil
// selects record mode with the default place and time.
type Config struct {
	// Turbidity is the atmospheric haze level in [1, 10]
	Turbidity float64

	// Albedo is the spatially uniform ground albedo, either one value
	// broadcast to every channel or one value per channel, each in [0, 1]
	Albedo []float64

	// SunDirection selects direction mode with an explicit sun direction
	// in the emitter's local frame
	SunDirection *core.Vec3

	// Location and Time select record mode; nil fields use the defaults
	// (Tokyo, 2010-07-10 15:00:00)
	Location *LocationRecord
	Time     *DateTimeRecord

	// SunScale and SkyScale scale the two radiance terms; either may be 0
	// to disable that term
	SunScale float64
	SkyScale float64

	// SunApertureDeg is the full angular diameter of the solar disc in
	// degrees
	SunApertureDeg float64

	// QuadratureOrder is the Gauss-Legendre order per axis of the ratio
	// estimate; 0 uses DefaultQuadratureOrder
	QuadratureOrder int
}

// DefaultConfig returns the configuration matching the model's documented
// defaults
func DefaultConfig() Config {
	return Config{
		Turbidity:      3,
		Albedo:         []float64{0.3},
		SunScale:       1,
		SkyScale:       1,
		SunApertureDeg: 0.5338,
	}
}

// Model owns all state derived from the configuration: the interpolated sky
// coefficient tensors, the truncated Gaussian mixture, the sky/sun sampling
// weight and the spectral sampling distribution.
//
// All derived state is rebuilt in one pass on construction and on
// ParametersChanged, and is immutable in between. The sampling and query
// methods are pure functions of the published state and may be called
// concurrently from any number of goroutines; rebuilds must not overlap
// in-flight sampling calls.
type Model struct {
	tables *Tables
	basis  RadianceBasis
	mode   Mode
	log    *zap.Logger

	activeRecord bool
	location     LocationRecord
	datetime     DateTimeRecord

	turbidity       float64
	albedo          []float64
	skyScale        float64
	sunScale        float64
	sunHalfAperture float64
	quadOrder       int

	sunDir    core.Vec3 // unit direction in the local frame
	sunAngles core.Vec2 // {phi, theta}

	skyParams     [][]float64
	skyRadiance   []float64
	mixture       []Gaussian
	selection     *core.DiscreteDistribution
	skyWeight     float64
	spectralDistr *core.ContinuousDistribution
}

// New builds a model from the shared tables, the host's radiance basis and
// a configuration. The logger may be nil. The initialization mode (explicit
// direction vs. time/location record) is fixed for the model's lifetime.
func New(tables *Tables, basis RadianceBasis, mode Mode, cfg Config, log *zap.Logger) (*Model, error) {
	if tables == nil || tables.SkyParams == nil || tables.SkyRadiance == nil || tables.TGMM == nil {
		return nil, errors.New("sunsky: tables must be fully loaded")
	}
	if basis == nil {
		return nil, errors.New("sunsky: a radiance basis is required")
	}
	if log == nil {
		log = zap.NewNop()
	}

	m := &Model{
		tables: tables,
		basis:  basis,
		mode:   mode,
		log:    log,
	}
	if err := m.applyConfig(cfg, true); err != nil {
		return nil, err
	}
	m.rebuild()
	return m, nil
}

// ParametersChanged replaces the configuration and rebuilds the derived
// state, recomputing only the stages the named keys affect. Passing no keys
// rebuilds everything. The initialization mode cannot change.
func (m *Model) ParametersChanged(cfg Config, keys ...string) error {
	if err := m.applyConfig(cfg, false); err != nil {
		return err
	}
	m.rebuild(keys...)
	return nil
}

// applyConfig validates and resolves a configuration into the model fields.
// On error the model is left untouched when initial is false; on initial
// construction the caller discards the model anyway.
func (m *Model) applyConfig(cfg Config, initial bool) error {
	if cfg.SunDirection != nil && (cfg.Location != nil || cfg.Time != nil) {
		return errors.New("sunsky: both sun_direction and time/location parameters were provided, " +
			"the sun position can only be specified one way")
	}

	activeRecord := cfg.SunDirection == nil
	if !initial && activeRecord != m.activeRecord {
		return errors.New("sunsky: the initialization mode (direction vs. time/location) is fixed for the model's lifetime")
	}

	channels := m.mode.ChannelCount()
	albedo := make([]float64, channels)
	switch len(cfg.Albedo) {
	case 0:
		for i := range albedo {
			albedo[i] = 0.3
		}
	case 1:
		for i := range albedo {
			albedo[i] = clamp(cfg.Albedo[0], 0, 1)
		}
	case channels:
		for i, a := range cfg.Albedo {
			albedo[i] = clamp(a, 0, 1)
		}
	default:
		return errors.Errorf("sunsky: albedo must have 1 or %d values for %s mode, got %d",
			channels, m.mode, len(cfg.Albedo))
	}

	if cfg.SunScale < 0 || cfg.SkyScale < 0 {
		return errors.New("sunsky: sun_scale and sky_scale must be non-negative")
	}

	aperture := cfg.SunApertureDeg
	if aperture <= 0 {
		aperture = 0.5338
	}

	m.activeRecord = activeRecord
	if activeRecord {
		m.location = defaultLocation()
		m.datetime = defaultDateTime()
		if cfg.Location != nil {
			m.location = *cfg.Location
		}
		if cfg.Time != nil {
			m.datetime = *cfg.Time
		}
	} else {
		m.sunDir = cfg.SunDirection.Normalize()
	}

	m.turbidity = clamp(cfg.Turbidity, 1, 10)
	m.albedo = albedo
	m.skyScale = cfg.SkyScale
	m.sunScale = cfg.SunScale
	m.sunHalfAperture = aperture * math.Pi / 360
	m.quadOrder = cfg.QuadratureOrder
	if m.quadOrder <= 0 {
		m.quadOrder = DefaultQuadratureOrder
	}
	return nil
}

// rebuild recomputes the derived state in dependency order. Stages are
// skipped when none of the named keys affect them; the sky/sun ratio and
// spectral distribution always rebuild since they depend on everything else.
func (m *Model) rebuild(keys ...string) {
	changed := func(key string) bool {
		if len(keys) == 0 {
			return true
		}
		for _, k := range keys {
			if k == key {
				return true
			}
		}
		return false
	}

	changedAtmosphere := changed(KeyAlbedo) || changed(KeyTurbidity)
	changedRecord := false
	if m.activeRecord {
		for _, k := range recordKeys {
			if changed(k) {
				changedRecord = true
				break
			}
		}
	}
	changedSunDir := changedRecord || (!m.activeRecord && changed(KeySunDirection))

	if changedRecord {
		theta, phi := sunCoordinates(m.datetime, m.location)
		m.sunAngles = core.NewVec2(phi, theta)
		m.sunDir = core.SphericalDirection(theta, phi)
	} else if changedSunDir {
		theta, phi := core.SphericalAngles(m.sunDir)
		m.sunAngles = core.NewVec2(phi, theta)
	}
	if changedSunDir && m.sunDir.Z < 0 {
		m.log.Warn("sun is below the horizon for the configured parameters",
			zap.Float64("elevation_deg", (0.5*math.Pi-m.sunAngles.Y)*180/math.Pi))
	}

	eta := 0.5*math.Pi - m.sunAngles.Y

	if changedSunDir || changedAtmosphere {
		m.skyParams = bezierInterp(bilinearInterp(m.tables.SkyParams, m.albedo, m.turbidity), eta)

		radiance := bezierInterp(bilinearInterp(m.tables.SkyRadiance, m.albedo, m.turbidity), eta)
		m.skyRadiance = make([]float64, len(radiance))
		for ch, row := range radiance {
			m.skyRadiance[ch] = row[0]
		}
	}

	// The mixture does not depend on albedo
	if changedSunDir || changed(KeyTurbidity) {
		m.mixture, m.selection = buildTGMM(m.tables.TGMM, m.turbidity, eta)
	}

	m.skyWeight, m.spectralDistr = m.estimateSkySunRatio()
}

// Mode returns the radiance representation the model operates in
func (m *Model) Mode() Mode {
	return m.mode
}

// SunDirection returns the resolved unit sun direction in the local frame
func (m *Model) SunDirection() core.Vec3 {
	return m.sunDir
}

// SunAngles returns the sun's (phi, theta) spherical angles in the local
// frame
func (m *Model) SunAngles() core.Vec2 {
	return m.sunAngles
}

// SkyWeight returns the fraction of the total luminance attributable to the
// sky, in [0, 1]. Hosts use it to split sampling effort between the sky dome
// and a separate sun delta light.
func (m *Model) SkyWeight() float64 {
	return m.skyWeight
}

// SkyCoefficients returns the interpolated mean radiance and coefficient row
// of one channel. The slice aliases published state and must be treated as
// read-only.
func (m *Model) SkyCoefficients(channel int) (meanRadiance float64, coefs []float64) {
	return m.skyRadiance[channel], m.skyParams[channel]
}

// SampleSky draws a sky direction from the truncated Gaussian mixture using
// a 2D uniform sample
func (m *Model) SampleSky(sample core.Vec2) core.Vec3 {
	return sampleSky(m.mixture, m.selection, sample, m.sunAngles)
}

// SkyPdf evaluates the solid-angle density of a direction under the sampling
// mixture. Directions below the horizon have density zero.
func (m *Model) SkyPdf(dir core.Vec3) float64 {
	return skyPdf(m.mixture, dir, m.sunAngles)
}

// Radiance evaluates the combined sky and sun radiance for a direction
// through the host's radiance basis, one value per channel. Directions below
// the horizon are black.
func (m *Model) Radiance(dir core.Vec3) []float64 {
	channels := m.mode.ChannelCount()
	out := make([]float64, channels)

	dir = dir.Normalize()
	if dir.CosTheta() < 0 {
		return out
	}

	gamma := core.UnitAngle(m.sunDir, dir)
	inSunDisc := gamma < m.sunHalfAperture

	for ch := 0; ch < channels; ch++ {
		if m.skyScale > 0 {
			out[ch] = m.skyScale * m.basis.EvalSky(dir.CosTheta(), gamma, m.skyParams[ch], m.skyRadiance[ch])
		}
		if inSunDisc && m.sunScale > 0 {
			sun := m.basis.EvalSun(ch, dir.CosTheta(), gamma)
			if m.mode == ModeSpectral {
				sun *= m.basis.SunLimbDarkening(ch, gamma)
			}
			out[ch] += m.sunScale * sun
		}
	}
	return out
}

// String returns a readable summary for debugging
func (m *Model) String() string {
	position := fmt.Sprintf("direction=(%.3f, %.3f, %.3f)", m.sunDir.X, m.sunDir.Y, m.sunDir.Z)
	if m.activeRecord {
		position = fmt.Sprintf("location=(%.4f, %.4f, tz=%+.1f), time=%04d-%02d-%02d %02.0f:%02.0f:%02.0f",
			m.location.Latitude, m.location.Longitude, m.location.Timezone,
			m.datetime.Year, m.datetime.Month, m.datetime.Day,
			m.datetime.Hour, m.datetime.Minute, m.datetime.Second)
	}
	return fmt.Sprintf("SkyModel{mode=%s, turbidity=%.2f, %s, skyWeight=%.4f, components=%d}",
		m.mode, m.turbidity, position, m.skyWeight, len(m.mixture))
}
