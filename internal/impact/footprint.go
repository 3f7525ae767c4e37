package impact

import (
	"fmt"
	"math"
)

const (
	earthRadiusM       = 6371000.0
	footprintVertices  = 36
	maxLatitudeDegrees = 90.0
	maxLongitudeDeg    = 180.0
)

// CraterRing approximates the crater rim as a closed ring of
// footprintVertices [lng, lat] points around (lat, lng) on a spherical
// Earth, starting due north. Terrain is ignored.
func CraterRing(lat, lng, craterDiameterM float64) ([][2]float64, error) {
	if math.IsNaN(lat) || lat < -maxLatitudeDegrees || lat > maxLatitudeDegrees {
		return nil, fmt.Errorf("%w: lat must be within [-90, 90]", ErrInvalidInput)
	}
	if math.IsNaN(lng) || lng < -maxLongitudeDeg || lng > maxLongitudeDeg {
		return nil, fmt.Errorf("%w: lng must be within [-180, 180]", ErrInvalidInput)
	}

	radius := craterDiameterM / 2
	cosLat := math.Cos(lat * math.Pi / 180)
	toDeg := 180 / math.Pi

	ring := make([][2]float64, 0, footprintVertices+1)
	for i := 0; i < footprintVertices; i++ {
		angle := 2 * math.Pi * float64(i) / footprintVertices
		dLat := radius * math.Cos(angle) / earthRadiusM * toDeg
		dLng := 0.0
		// Longitude offsets blow up at the poles.
		if cosLat > 1e-12 {
			dLng = radius * math.Sin(angle) / (earthRadiusM * cosLat) * toDeg
		}
		ring = append(ring, [2]float64{lng + dLng, lat + dLat})
	}
	return append(ring, ring[0]), nil
}
