package geo

import "math"

// Coordinates is an immutable geographic point (latitude, longitude) in
// decimal degrees.
type Coordinates struct {
	Lat float64
	Lon float64
}

// LatLon returns the point as [lat, lon], the order map layers expect.
func (c Coordinates) LatLon() [2]float64 { return [2]float64{c.Lat, c.Lon} }

const earthRadiusKm = 6371.0

// Distance returns the great-circle distance between a and b in kilometers
// using the haversine formula. Distance(a, b) == Distance(b, a), and the
// distance between identical points is 0.
func Distance(a, b Coordinates) float64 {
	latA := radians(a.Lat)
	latB := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLon := radians(b.Lon - a.Lon)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Interpolate returns the point a fraction t along the straight line from a
// to b. t=0 yields a, t=1 yields b.
func Interpolate(a, b Coordinates, t float64) Coordinates {
	return Coordinates{
		Lat: a.Lat + (b.Lat-a.Lat)*t,
		Lon: a.Lon + (b.Lon-a.Lon)*t,
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
