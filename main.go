package main

import (
	"flag"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/appearance-aware/sunsky/internal/config"
	"github.com/appearance-aware/sunsky/internal/logger"
	"github.com/appearance-aware/sunsky/pkg/core"
	"github.com/appearance-aware/sunsky/pkg/sunsky"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	output := flag.String("output", "", "Output PNG path (overrides config)")
	width := flag.Int("width", 0, "Output image width in pixels (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.New("info", "").Fatal("loading config", zap.Error(err))
	}
	if *output != "" {
		cfg.Render.Output = *output
	}
	if *width > 0 {
		cfg.Render.Width = *width
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.LogFile)
	defer log.Sync()

	tables, err := sunsky.LoadTables(cfg.Tables.SkyParams, cfg.Tables.SkyRadiance, cfg.Tables.TGMM)
	if err != nil {
		log.Fatal("loading atmosphere tables", zap.Error(err))
	}

	mode := sunsky.ModeRGB
	if cfg.Sky.Mode == "spectral" {
		mode = sunsky.ModeSpectral
	}

	model, err := sunsky.New(tables, &hosekBasis{mode: mode}, mode, skyConfig(cfg), log)
	if err != nil {
		log.Fatal("building sky model", zap.Error(err))
	}
	log.Info("sky model ready",
		zap.String("model", model.String()),
		zap.Float64("sky_weight", model.SkyWeight()))

	img := renderDome(model, cfg.Render.Width)
	if err := writePNG(cfg.Render.Output, img); err != nil {
		log.Fatal("writing output image", zap.Error(err))
	}
	log.Info("render complete", zap.String("output", cfg.Render.Output))
}

// skyConfig translates the CLI configuration into a model configuration
func skyConfig(cfg *config.Config) sunsky.Config {
	out := sunsky.Config{
		Turbidity:      cfg.Sky.Turbidity,
		Albedo:         cfg.Sky.Albedo,
		SunScale:       cfg.Sky.SunScale,
		SkyScale:       cfg.Sky.SkyScale,
		SunApertureDeg: cfg.Sky.SunApertureDeg,
	}

	if len(cfg.Sky.SunDirection) == 3 {
		dir := core.NewVec3(cfg.Sky.SunDirection[0], cfg.Sky.SunDirection[1], cfg.Sky.SunDirection[2])
		out.SunDirection = &dir
	}
	if cfg.Sky.Latitude != nil || cfg.Sky.Longitude != nil || cfg.Sky.Timezone != nil {
		loc := sunsky.LocationRecord{Latitude: 35.6894, Longitude: 139.6917, Timezone: 9}
		if cfg.Sky.Latitude != nil {
			loc.Latitude = *cfg.Sky.Latitude
		}
		if cfg.Sky.Longitude != nil {
			loc.Longitude = *cfg.Sky.Longitude
		}
		if cfg.Sky.Timezone != nil {
			loc.Timezone = *cfg.Sky.Timezone
		}
		out.Location = &loc
	}
	if cfg.Sky.Date != nil {
		out.Time = &sunsky.DateTimeRecord{
			Year:   cfg.Sky.Date.Year,
			Month:  cfg.Sky.Date.Month,
			Day:    cfg.Sky.Date.Day,
			Hour:   cfg.Sky.Date.Hour,
			Minute: cfg.Sky.Date.Minute,
			Second: cfg.Sky.Date.Second,
		}
	}
	return out
}

// renderDome draws an orthographic fisheye view of the upper hemisphere,
// with the zenith at the center of the image disc
func renderDome(model *sunsky.Model, width int) image.Image {
	light := sunsky.NewSkyLight(model)
	img := image.NewRGBA(image.Rect(0, 0, width, width))

	for y := 0; y < width; y++ {
		for x := 0; x < width; x++ {
			nx := (2*float64(x)+1)/float64(width) - 1
			ny := 1 - (2*float64(y)+1)/float64(width)
			r2 := nx*nx + ny*ny
			if r2 > 1 {
				img.Set(x, y, color.RGBA{A: 255})
				continue
			}

			dir := core.NewVec3(nx, ny, math.Sqrt(1-r2))
			radiance := light.Emit(core.NewRay(core.Vec3{}, dir))
			img.Set(x, y, tonemap(radiance, model.Mode()))
		}
	}
	return img
}

// tonemap reduces a radiance vector to a display color with Reinhard
// compression and gamma correction
func tonemap(radiance []float64, mode sunsky.Mode) color.RGBA {
	var r, g, b float64
	if mode == sunsky.ModeSpectral {
		// Grayscale preview of the spectral output
		total := 0.0
		for _, v := range radiance {
			total += v
		}
		total /= float64(len(radiance))
		r, g, b = total, total, total
	} else {
		r, g, b = radiance[0], radiance[1], radiance[2]
	}

	toByte := func(v float64) uint8 {
		v = math.Max(0, v)
		v = v / (1 + v)
		v = math.Pow(v, 1/2.2)
		return uint8(math.Min(255, v*256))
	}
	return color.RGBA{R: toByte(r), G: toByte(g), B: toByte(b), A: 255}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

// hosekBasis is a compact host-side radiance basis: the Hosek-Wilkie sky
// expansion over the nine interpolated coefficients and a blackbody sun
// with a quadratic limb-darkening profile
type hosekBasis struct {
	mode sunsky.Mode
}

// Representative wavelengths of the RGB channels, in nanometers
var rgbWavelengths = [3]float64{612, 549, 465}

func (hosekBasis) EvalSky(cosTheta, gamma float64, coefs []float64, meanRadiance float64) float64 {
	cosGamma := math.Cos(gamma)
	a, b, c, d, e := coefs[0], coefs[1], coefs[2], coefs[3], coefs[4]
	f, g, h, i := coefs[5], coefs[6], coefs[7], coefs[8]

	chi := (1 + cosGamma*cosGamma) / math.Pow(1+h*h-2*h*cosGamma, 1.5)
	value := (1 + a*math.Exp(b/(cosTheta+0.01))) *
		(c + d*math.Exp(e*gamma) + f*cosGamma*cosGamma + g*chi + i*math.Sqrt(math.Max(0, cosTheta)))
	return math.Max(0, meanRadiance*value)
}

func (hb hosekBasis) EvalSun(channel int, cosTheta, gamma float64) float64 {
	if cosTheta < 0 {
		return 0
	}
	// Relative blackbody emission at the solar surface temperature
	const temperature = 5778.0
	const h = 6.62607015e-34
	const c = 2.99792458e8
	const kb = 1.380649e-23
	wavelength := rgbWavelengths[channel%3] * 1e-9
	if hb.mode == sunsky.ModeSpectral {
		wavelength = sunsky.Wavelength(channel) * 1e-9
	}
	power := 2 * h * c * c / math.Pow(wavelength, 5) /
		(math.Exp(h*c/(wavelength*kb*temperature)) - 1)
	return power * 1e-12
}

func (hosekBasis) SunLimbDarkening(channel int, gamma float64) float64 {
	const half = 0.5338 / 2 * math.Pi / 180
	sinRatio := math.Sin(gamma) / math.Sin(half)
	mu := math.Sqrt(math.Max(0, 1-sinRatio*sinRatio))
	return 1 - 0.6*(1-mu)
}
