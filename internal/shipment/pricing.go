package shipment

import "math"

// PricePerKM is the flat freight rate in Colombian pesos per kilometre.
const PricePerKM = 1500

const earthRadiusKm = 6371

// Price computes the offered price for a distance. Currency formatting is a
// presentation concern and lives with the clients.
func Price(distanceKm float64) int64 {
	return int64(math.Round(distanceKm * PricePerKM))
}

// HaversineKm returns the great-circle distance between two coordinate pairs.
func HaversineKm(from, to Coords) float64 {
	dLat := deg2rad(to.Lat - from.Lat)
	dLng := deg2rad(to.Lng - from.Lng)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(deg2rad(from.Lat))*math.Cos(deg2rad(to.Lat))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func deg2rad(deg float64) float64 {
	return deg * (math.Pi / 180)
}
