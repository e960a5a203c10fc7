package kernel

import (
	"errors"
	"fmt"

	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

const (
	// GeoMinLatitude is the minimum valid latitude in degrees.
	GeoMinLatitude float64 = -90
	// GeoMaxLatitude is the maximum valid latitude in degrees.
	GeoMaxLatitude float64 = 90
	// GeoMinLongitude is the minimum valid longitude in degrees.
	GeoMinLongitude float64 = -180
	// GeoMaxLongitude is the maximum valid longitude in degrees.
	GeoMaxLongitude float64 = 180
)

// ErrGeoPointIsNotConstructed is returned when attempting to use an improperly initialized GeoPoint.
var ErrGeoPointIsNotConstructed = errs.NewValueIsRequiredError(
	"geo point must be created via NewGeoPoint constructor")

// GeoPoint represents a WGS84 position reported by an agent's device.
// GeoPoint is an immutable value object; the zero value is invalid and fails
// validation - use NewGeoPoint to create instances.
//
// Example:
//
//	point, err := kernel.NewGeoPoint(41.0082, 28.9784)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Printf("Point: %s", point) // Output: GeoPoint(41.008200,28.978400)
type GeoPoint struct { //nolint:recvcheck //using for validation
	lat   float64
	lng   float64
	guard guard.ConstructorGuard
}

// NewGeoPoint creates a GeoPoint with the specified coordinates.
// Latitude must lie in [GeoMinLatitude..GeoMaxLatitude] and longitude in
// [GeoMinLongitude..GeoMaxLongitude]. Returns an error if either coordinate is
// outside its valid bounds.
func NewGeoPoint(lat float64, lng float64) (GeoPoint, error) {
	point := GeoPoint{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(point.setLat(lat), point.setLng(lng)); err != nil {
		return GeoPoint{}, err
	}

	return point, nil
}

// Validate checks that the GeoPoint was created via NewGeoPoint.
func (p GeoPoint) Validate() error {
	return p.guard.Validate(ErrGeoPointIsNotConstructed)
}

// Lat returns the latitude in degrees.
func (p GeoPoint) Lat() float64 {
	return p.lat
}

// Lng returns the longitude in degrees.
func (p GeoPoint) Lng() float64 {
	return p.lng
}

// IsEqual compares two points by coordinates.
func (p GeoPoint) IsEqual(other GeoPoint) bool {
	return p.lat == other.lat && p.lng == other.lng
}

// String implements fmt.Stringer.
func (p GeoPoint) String() string {
	return fmt.Sprintf("GeoPoint(%f,%f)", p.lat, p.lng)
}

func (p *GeoPoint) setLat(lat float64) error {
	if lat < GeoMinLatitude || lat > GeoMaxLatitude {
		return errs.NewValueIsOutOfRangeError("lat", lat, GeoMinLatitude, GeoMaxLatitude)
	}

	p.lat = lat
	return nil
}

func (p *GeoPoint) setLng(lng float64) error {
	if lng < GeoMinLongitude || lng > GeoMaxLongitude {
		return errs.NewValueIsOutOfRangeError("lng", lng, GeoMinLongitude, GeoMaxLongitude)
	}

	p.lng = lng
	return nil
}
