package geo

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidCoordinate = errors.New("waw: invalid coordinate")

// latLngEps absorbs the floating-point error a coordinate picks up on a
// round trip through the projection.
const latLngEps = 1e-9

// LatLng is a geographic coordinate in degrees.
type LatLng struct {
	Lat float64
	Lng float64
}

// NewLatLng validates lat and lng and returns the coordinate. It fails
// with ErrInvalidCoordinate when either component is NaN or infinite;
// that is the only failure mode in this package.
func NewLatLng(lat, lng float64) (LatLng, error) {
	ll := LatLng{Lat: lat, Lng: lng}
	if !ll.Valid() {
		return LatLng{}, fmt.Errorf("%w: (%v, %v)", ErrInvalidCoordinate, lat, lng)
	}
	return ll, nil
}

// Valid reports whether both components are finite numbers.
func (ll LatLng) Valid() bool {
	return !math.IsNaN(ll.Lat) && !math.IsInf(ll.Lat, 0) &&
		!math.IsNaN(ll.Lng) && !math.IsInf(ll.Lng, 0)
}

// Equal reports approximate equality within 1e-9 degrees.
func (ll LatLng) Equal(other LatLng) bool {
	return math.Abs(ll.Lat-other.Lat) <= latLngEps &&
		math.Abs(ll.Lng-other.Lng) <= latLngEps
}

func (ll LatLng) String() string {
	return fmt.Sprintf("LatLng(%v, %v)", ll.Lat, ll.Lng)
}
