package reference

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0088

// Distance returns the great-circle distance in km between two known cities.
func (s *Store) Distance(from, to string) (float64, error) {
	a, err := s.Lookup(from)
	if err != nil {
		return 0, err
	}
	b, err := s.Lookup(to)
	if err != nil {
		return 0, err
	}
	return GreatCircleKm(a.Lat, a.Lng, b.Lat, b.Lng), nil
}

// GreatCircleKm returns the distance in km between two coordinates.
func GreatCircleKm(lat1, lng1, lat2, lng2 float64) float64 {
	p := s2.LatLngFromDegrees(lat1, lng1)
	q := s2.LatLngFromDegrees(lat2, lng2)
	return p.Distance(q).Radians() * EarthRadiusKm
}
