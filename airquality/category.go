// Package airquality derives AQI categories and fetches local readings from
// OpenWeatherMap, falling back to a fixed reading when the upstream fails.
package airquality

// Category labels, lowest to highest.
const (
	Good                        = "Good"
	Moderate                    = "Moderate"
	UnhealthyForSensitiveGroups = "Unhealthy for Sensitive Groups"
	Unhealthy                   = "Unhealthy"
	VeryUnhealthy               = "Very Unhealthy"
	Hazardous                   = "Hazardous"
)

type band struct {
	max      int
	category string
	color    string
}

// bands are checked in order; the last one catches everything above 300.
var bands = []band{
	{50, Good, "#10b981"},
	{100, Moderate, "#eab308"},
	{150, UnhealthyForSensitiveGroups, "#f97316"},
	{200, Unhealthy, "#ef4444"},
	{300, VeryUnhealthy, "#a855f7"},
}

var hazardous = band{category: Hazardous, color: "#7c2d12"}

func bandFor(aqi int) band {
	for _, b := range bands {
		if aqi <= b.max {
			return b
		}
	}
	return hazardous
}

// Category maps an AQI value to its label.
func Category(aqi int) string {
	return bandFor(aqi).category
}

// Color maps an AQI value to its display colour.
func Color(aqi int) string {
	return bandFor(aqi).color
}
