package sunsky

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// LocationRecord identifies a place on Earth for record-mode sun positioning.
// Latitude and longitude are in degrees (north and east positive), timezone
// is the UTC offset in hours.
type LocationRecord struct {
	Latitude  float64
	Longitude float64
	Timezone  float64
}

// DateTimeRecord identifies a local date and time for record-mode sun
// positioning. Hour, minute and second may be fractional.
type DateTimeRecord struct {
	Year   int
	Month  int
	Day    int
	Hour   float64
	Minute float64
	Second float64
}

// Default record configuration: Tokyo, 2010-07-10 15:00:00 local time
func defaultLocation() LocationRecord {
	return LocationRecord{Latitude: 35.6894, Longitude: 139.6917, Timezone: 9}
}

func defaultDateTime() DateTimeRecord {
	return DateTimeRecord{Year: 2010, Month: 7, Day: 10, Hour: 15}
}

// sunCoordinates resolves the sun's spherical angles in the emitter's local
// frame (Z up, X toward north, Y toward west) from a time and location.
// Theta is the zenith angle, phi the azimuth from +X toward +Y.
func sunCoordinates(dt DateTimeRecord, loc LocationRecord) (theta, phi float64) {
	zone := time.FixedZone("", int(loc.Timezone*3600))
	daySeconds := (dt.Hour*60+dt.Minute)*60 + dt.Second
	t := time.Date(dt.Year, time.Month(dt.Month), dt.Day, 0, 0, 0, 0, zone).
		Add(time.Duration(daySeconds * float64(time.Second)))

	pos := suncalc.GetPosition(t, loc.Latitude, loc.Longitude)

	// suncalc returns angles in radians and measures azimuth from south,
	// positive toward west, which maps directly onto the local frame above
	theta = 0.5*math.Pi - pos.Altitude
	phi = math.Pi - pos.Azimuth
	if phi < 0 {
		phi += 2 * math.Pi
	}
	if phi >= 2*math.Pi {
		phi -= 2 * math.Pi
	}
	return theta, phi
}
