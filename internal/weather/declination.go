package weather

import (
	"math"
	"time"

	"github.com/westphae/geomag/pkg/egm96"
	"github.com/westphae/geomag/pkg/wmm"
)

// MagneticDeclination calculates the magnetic declination for a position and
// time using the World Magnetic Model. Returns degrees, +East / -West.
// Report wind directions are degrees true; subtracting the declination gives
// the magnetic direction pilots compare against runway numbers.
func MagneticDeclination(lat, lon, elevFt float64, date time.Time) float64 {
	loc := egm96.NewLocationGeodetic(lat, lon, elevFt*0.3048)

	mag, err := wmm.CalculateWMMMagneticField(loc, date)
	if err != nil {
		// 0 keeps true and magnetic directions equal if the model fails
		return 0.0
	}
	return mag.D()
}

// TrueToMagnetic converts a true direction to magnetic, normalized 0-360.
func TrueToMagnetic(trueDeg int, declination float64) int {
	magnetic := int(math.Round(float64(trueDeg)-declination)) % 360
	if magnetic < 0 {
		magnetic += 360
	}
	return magnetic
}
