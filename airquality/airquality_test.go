package airquality

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryBoundaries(t *testing.T) {
	cases := []struct {
		aqi      int
		category string
		color    string
	}{
		{0, Good, "#10b981"},
		{50, Good, "#10b981"},
		{51, Moderate, "#eab308"},
		{100, Moderate, "#eab308"},
		{101, UnhealthyForSensitiveGroups, "#f97316"},
		{150, UnhealthyForSensitiveGroups, "#f97316"},
		{151, Unhealthy, "#ef4444"},
		{200, Unhealthy, "#ef4444"},
		{201, VeryUnhealthy, "#a855f7"},
		{300, VeryUnhealthy, "#a855f7"},
		{301, Hazardous, "#7c2d12"},
		{999, Hazardous, "#7c2d12"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.category, Category(tc.aqi), "aqi %d", tc.aqi)
		assert.Equal(t, tc.color, Color(tc.aqi), "aqi %d", tc.aqi)
	}
}

func TestPM25ToAQI(t *testing.T) {
	assert.Equal(t, 25, PM25ToAQI(12.4))
	assert.Equal(t, 25, PM25ToAQI(12.5))
	assert.Equal(t, 20, PM25ToAQI(10))
}

func newUpstream(t *testing.T, pollution, weather string, weatherStatus int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("appid"))
		switch r.URL.Path {
		case "/air_pollution":
			_, _ = w.Write([]byte(pollution))
		case "/weather":
			assert.Equal(t, "metric", r.URL.Query().Get("units"))
			w.WriteHeader(weatherStatus)
			_, _ = w.Write([]byte(weather))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(baseURL string) *Client {
	c := NewClient("test-key")
	c.BaseURL = baseURL
	return c
}

func TestClientFetch(t *testing.T) {
	srv := newUpstream(t,
		`{"list":[{"main":{"aqi":2},"components":{"pm2_5":30.2}}]}`,
		`{"main":{"temp":18.5,"humidity":71},"wind":{"speed":4.2}}`,
		http.StatusOK)

	r := testClient(srv.URL).Fetch(context.Background(), 51.5, -0.12)

	assert.False(t, r.Fallback)
	assert.Equal(t, 60, r.AQI)
	assert.Equal(t, Moderate, r.Category)
	assert.Equal(t, "PM2.5", r.Pollutant)
	assert.Equal(t, 18.5, r.Temperature)
	assert.Equal(t, 71.0, r.Humidity)
	assert.Equal(t, 4.2, r.WindSpeed)
	assert.Empty(t, r.Error)
}

func TestClientFetch_MissingPM25UsesDefault(t *testing.T) {
	srv := newUpstream(t,
		`{"list":[{"components":{}}]}`,
		`{"main":{"temp":20,"humidity":50},"wind":{"speed":1}}`,
		http.StatusOK)

	r := testClient(srv.URL).Fetch(context.Background(), 1, 1)

	assert.Equal(t, 20, r.AQI)
	assert.Equal(t, Good, r.Category)
}

func TestClientFetch_WeatherFailureKeepsAQI(t *testing.T) {
	srv := newUpstream(t,
		`{"list":[{"components":{"pm2_5":5}}]}`,
		`oops`,
		http.StatusInternalServerError)

	r := testClient(srv.URL).Fetch(context.Background(), 1, 1)

	assert.False(t, r.Fallback)
	assert.Equal(t, 10, r.AQI)
	assert.Equal(t, FallbackTemperature, r.Temperature)
	assert.Equal(t, FallbackHumidity, r.Humidity)
	assert.Equal(t, FallbackWindSpeed, r.WindSpeed)
}

func TestClientFetch_FallbackOnEmptyList(t *testing.T) {
	srv := newUpstream(t, `{"list":[]}`, `{}`, http.StatusOK)

	r := testClient(srv.URL).Fetch(context.Background(), 1, 2)

	assert.True(t, r.Fallback)
	assert.Equal(t, FallbackAQI, r.AQI)
	assert.Equal(t, "Your Location", r.City)
	assert.Equal(t, "Local Area", r.Country)
	assert.Equal(t, Good, r.Category)
	assert.Equal(t, "no AQI data available", r.Error)
	assert.Equal(t, 1.0, r.Latitude)
	assert.Equal(t, 2.0, r.Longitude)
}

func TestClientFetch_FallbackWithoutKey(t *testing.T) {
	r := NewClient("").Fetch(context.Background(), 1, 2)
	assert.True(t, r.Fallback)
	assert.Contains(t, r.Error, "API key")
}

func TestSampleLocations(t *testing.T) {
	locs := SampleLocations()
	require.Len(t, locs, 12)
	for _, l := range locs {
		assert.Equal(t, Category(l.AQI), l.Category, l.Name)
		assert.NotEmpty(t, l.Color, l.Name)
	}
	assert.Equal(t, "New Delhi", locs[4].Name)
	assert.Equal(t, VeryUnhealthy, locs[4].Category)
}

type stubFetcher struct {
	calls   int
	reading Reading
}

func (s *stubFetcher) Fetch(_ context.Context, lat, lon float64) Reading {
	s.calls++
	r := s.reading
	r.Latitude, r.Longitude = lat, lon
	return r
}

type memCache struct {
	items map[string]Reading
	err   error
}

func (m *memCache) Get(_ context.Context, key string, dst any) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	r, ok := m.items[key]
	if ok {
		*(dst.(*Reading)) = r
	}
	return ok, nil
}

func (m *memCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.items[key] = value.(Reading)
	return nil
}

func TestServiceCurrent_CachesPerRoundedCoordinate(t *testing.T) {
	f := &stubFetcher{reading: Reading{AQI: 70}}
	c := &memCache{items: map[string]Reading{}}
	svc := NewService(f, c, time.Minute)

	first := svc.Current(context.Background(), 6.52441, 3.37921)
	second := svc.Current(context.Background(), 6.52449, 3.37919)

	assert.Equal(t, 1, f.calls)
	assert.Equal(t, first, second)
	assert.Contains(t, c.items, "6.52:3.38")
}

func TestServiceCurrent_FallbackNotCached(t *testing.T) {
	f := &stubFetcher{reading: FallbackReading(0, 0, errors.New("down"))}
	c := &memCache{items: map[string]Reading{}}
	svc := NewService(f, c, time.Minute)

	svc.Current(context.Background(), 1, 1)
	svc.Current(context.Background(), 1, 1)

	assert.Equal(t, 2, f.calls)
	assert.Empty(t, c.items)
}

func TestServiceCurrent_CacheErrorsIgnored(t *testing.T) {
	f := &stubFetcher{reading: Reading{AQI: 70}}
	svc := NewService(f, &memCache{err: errors.New("redis down")}, time.Minute)

	r := svc.Current(context.Background(), 1, 1)
	assert.Equal(t, 70, r.AQI)
}

func TestServiceRefresh_WithoutCache(t *testing.T) {
	f := &stubFetcher{reading: Reading{AQI: 12}}
	svc := NewService(f, nil, time.Minute)

	svc.Refresh(context.Background(), 1, 1)
	svc.Current(context.Background(), 1, 1)
	assert.Equal(t, 2, f.calls)
}
