package airquality

// Location is a city marker on the climate map.
type Location struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
	AQI       int     `json:"aqi"`
	Category  string  `json:"category"`
	Color     string  `json:"color"`
}

var sampleCities = []Location{
	{ID: "1", Name: "Lagos", Country: "Nigeria", Latitude: 6.5244, Longitude: 3.3792, AQI: 87},
	{ID: "2", Name: "New York", Country: "USA", Latitude: 40.7128, Longitude: -74.0060, AQI: 45},
	{ID: "3", Name: "London", Country: "UK", Latitude: 51.5074, Longitude: -0.1278, AQI: 62},
	{ID: "4", Name: "Beijing", Country: "China", Latitude: 39.9042, Longitude: 116.4074, AQI: 156},
	{ID: "5", Name: "New Delhi", Country: "India", Latitude: 28.6139, Longitude: 77.2090, AQI: 201},
	{ID: "6", Name: "Tokyo", Country: "Japan", Latitude: 35.6762, Longitude: 139.6503, AQI: 38},
	{ID: "7", Name: "São Paulo", Country: "Brazil", Latitude: -23.5505, Longitude: -46.6333, AQI: 72},
	{ID: "8", Name: "Cairo", Country: "Egypt", Latitude: 30.0444, Longitude: 31.2357, AQI: 168},
	{ID: "9", Name: "Sydney", Country: "Australia", Latitude: -33.8688, Longitude: 151.2093, AQI: 28},
	{ID: "10", Name: "Paris", Country: "France", Latitude: 48.8566, Longitude: 2.3522, AQI: 54},
	{ID: "11", Name: "Mumbai", Country: "India", Latitude: 19.0760, Longitude: 72.8777, AQI: 178},
	{ID: "12", Name: "Los Angeles", Country: "USA", Latitude: 34.0522, Longitude: -118.2437, AQI: 89},
}

// SampleLocations returns the map's city markers with category and colour filled in.
func SampleLocations() []Location {
	out := make([]Location, len(sampleCities))
	for i, loc := range sampleCities {
		loc.Category = Category(loc.AQI)
		loc.Color = Color(loc.AQI)
		out[i] = loc
	}
	return out
}
