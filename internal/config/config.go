// Package config handles the renderer CLI's configuration loading.
package config

// Config holds all CLI settings.
type Config struct {
	Tables  TablesConfig  `yaml:"tables"`
	Sky     SkyConfig     `yaml:"sky"`
	Render  RenderConfig  `yaml:"render"`
	Logging LoggingConfig `yaml:"logging"`
}

// TablesConfig holds the paths of the precomputed atmosphere tables.
type TablesConfig struct {
	SkyParams   string `yaml:"sky_params"`
	SkyRadiance string `yaml:"sky_radiance"`
	TGMM        string `yaml:"tgmm"`
}

// SkyConfig holds the sky model parameters. Direction and the time/location
// fields are mutually exclusive; leaving both empty uses the default time
// and location.
type SkyConfig struct {
	Mode           string     `yaml:"mode"` // "rgb" or "spectral"
	Turbidity      float64    `yaml:"turbidity"`
	Albedo         []float64  `yaml:"albedo"`
	SunDirection   []float64  `yaml:"sun_direction"` // optional unit vector, 3 values
	Latitude       *float64   `yaml:"latitude"`
	Longitude      *float64   `yaml:"longitude"`
	Timezone       *float64   `yaml:"timezone"`
	Date           *DateTime  `yaml:"date"`
	SunScale       float64    `yaml:"sun_scale"`
	SkyScale       float64    `yaml:"sky_scale"`
	SunApertureDeg float64    `yaml:"sun_aperture_deg"`
}

// DateTime holds a local date and time for record-mode sun positioning.
type DateTime struct {
	Year   int     `yaml:"year"`
	Month  int     `yaml:"month"`
	Day    int     `yaml:"day"`
	Hour   float64 `yaml:"hour"`
	Minute float64 `yaml:"minute"`
	Second float64 `yaml:"second"`
}

// RenderConfig holds output image settings.
type RenderConfig struct {
	Width  int    `yaml:"width"`
	Output string `yaml:"output"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Sky: SkyConfig{
			Mode:           "rgb",
			Turbidity:      3,
			Albedo:         []float64{0.3},
			SunScale:       1,
			SkyScale:       1,
			SunApertureDeg: 0.5338,
		},
		Render: RenderConfig{
			Width:  512,
			Output: "sky.png",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
