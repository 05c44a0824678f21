package matching

import "math"

// радиус Земли в милях
const earthRadiusMi = 3959

// Distance - расстояние по дуге большого круга (формула гаверсинуса) в милях.
// Чистая функция, NaN на входе даёт NaN на выходе.
func Distance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMi * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
