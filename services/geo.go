package services

import "math"

// Radius of the earth in km
const earthRadiusKm = 6371

// Haversine returns the great-circle distance in kilometers between two
// lat/lng points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := deg2rad(lat2 - lat1)
	dLng := deg2rad(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// PathDistance sums the Haversine distances of consecutive segments along a
// path of [lat, lng] pairs, rounded to 1 decimal place.
func PathDistance(path [][2]float64) float64 {
	var distance float64
	for i := 1; i < len(path); i++ {
		distance += Haversine(path[i-1][0], path[i-1][1], path[i][0], path[i][1])
	}
	return round1(distance)
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
