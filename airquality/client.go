package airquality

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const DefaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Default location used when the visitor does not share one (New York).
const (
	DefaultLatitude  = 40.7128
	DefaultLongitude = -74.0060
)

// Fallback values served when the upstream cannot be reached.
const (
	FallbackAQI         = 42
	FallbackTemperature = 24.0
	FallbackHumidity    = 65.0
	FallbackWindSpeed   = 12.0
	defaultPM25         = 10.0
)

// Reading is what the air-quality widget renders.
type Reading struct {
	AQI         int       `json:"aqi"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Pollutant   string    `json:"pollutant"`
	Timestamp   time.Time `json:"timestamp"`
	Category    string    `json:"category"`
	Color       string    `json:"color"`
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	WindSpeed   float64   `json:"windSpeed"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	Fallback    bool      `json:"fallback"`
	Error       string    `json:"error,omitempty"`
}

// Fetcher produces a reading for a coordinate. It never fails; upstream
// errors surface as a fallback reading.
type Fetcher interface {
	Fetch(ctx context.Context, lat, lon float64) Reading
}

// Client talks to the OpenWeatherMap REST API.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: DefaultBaseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type pollutionResponse struct {
	List []struct {
		Components struct {
			PM25 *float64 `json:"pm2_5"`
		} `json:"components"`
	} `json:"list"`
}

type weatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type weather struct {
	temperature, humidity, windSpeed float64
}

func (c *Client) Fetch(ctx context.Context, lat, lon float64) Reading {
	aqi, err := c.fetchAQI(ctx, lat, lon)
	if err != nil {
		return FallbackReading(lat, lon, err)
	}

	w := c.fetchWeather(ctx, lat, lon)
	return Reading{
		AQI:         aqi,
		City:        "Nearby Area",
		Country:     "Local",
		Pollutant:   "PM2.5",
		Timestamp:   time.Now().UTC(),
		Category:    Category(aqi),
		Color:       Color(aqi),
		Temperature: w.temperature,
		Humidity:    w.humidity,
		WindSpeed:   w.windSpeed,
		Latitude:    lat,
		Longitude:   lon,
	}
}

// FallbackReading is the simulated reading shown when the upstream fails.
func FallbackReading(lat, lon float64, cause error) Reading {
	r := Reading{
		AQI:         FallbackAQI,
		City:        "Your Location",
		Country:     "Local Area",
		Pollutant:   "PM2.5",
		Timestamp:   time.Now().UTC(),
		Category:    Category(FallbackAQI),
		Color:       Color(FallbackAQI),
		Temperature: FallbackTemperature,
		Humidity:    FallbackHumidity,
		WindSpeed:   FallbackWindSpeed,
		Latitude:    lat,
		Longitude:   lon,
		Fallback:    true,
	}
	if cause != nil {
		r.Error = cause.Error()
	}
	return r
}

// PM25ToAQI is the simplified conversion the widget uses: twice the PM2.5
// concentration, rounded.
func PM25ToAQI(pm25 float64) int {
	return int(math.Round(pm25 * 2))
}

func (c *Client) fetchAQI(ctx context.Context, lat, lon float64) (int, error) {
	if c.APIKey == "" {
		return 0, errors.New("air quality API key not configured")
	}

	var body pollutionResponse
	if err := c.getJSON(ctx, "/air_pollution", lat, lon, nil, &body); err != nil {
		return 0, fmt.Errorf("failed to fetch air quality data: %w", err)
	}
	if len(body.List) == 0 {
		return 0, errors.New("no AQI data available")
	}

	pm25 := defaultPM25
	if v := body.List[0].Components.PM25; v != nil && *v != 0 {
		pm25 = *v
	}
	return PM25ToAQI(pm25), nil
}

func (c *Client) fetchWeather(ctx context.Context, lat, lon float64) weather {
	var body weatherResponse
	if err := c.getJSON(ctx, "/weather", lat, lon, url.Values{"units": {"metric"}}, &body); err != nil {
		return weather{FallbackTemperature, FallbackHumidity, FallbackWindSpeed}
	}
	return weather{body.Main.Temp, body.Main.Humidity, body.Wind.Speed}
}

func (c *Client) getJSON(ctx context.Context, path string, lat, lon float64, extra url.Values, dst any) error {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("appid", c.APIKey)
	for k, v := range extra {
		q[k] = v
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
