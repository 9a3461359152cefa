// Package openweather is a thin client for the OpenWeatherMap geocoding and
// current-weather APIs.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org"

// Conditions is the subset of the weather payload the tools report.
type Conditions struct {
	Temperature float64
	FeelsLike   float64
	Description string
	Humidity    int
}

func (c Conditions) String() string {
	return fmt.Sprintf("%.1f°C (feels like %.1f°C), %s, humidity %d%%",
		c.Temperature, c.FeelsLike, c.Description, c.Humidity)
}

// Client calls the OpenWeatherMap API.
type Client struct {
	apiKey  string
	baseURL string
	hc      *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option { return func(c *Client) { c.baseURL = u } }

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// New creates a Client.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		hc:      &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geocode resolves a location name to coordinates via the direct geocoding API.
func (c *Client) Geocode(ctx context.Context, location string) (lat, lon float64, err error) {
	q := url.Values{}
	q.Set("q", location)
	q.Set("limit", "1")
	q.Set("appid", c.apiKey)

	var hits []struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	}
	if err := c.get(ctx, "/geo/1.0/direct", q, &hits); err != nil {
		return 0, 0, err
	}
	if len(hits) == 0 {
		return 0, 0, fmt.Errorf("no coordinates found for %q", location)
	}
	return hits[0].Lat, hits[0].Lon, nil
}

// Current fetches current conditions for the given coordinates, metric units.
func (c *Client) Current(ctx context.Context, lat, lon float64) (Conditions, error) {
	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%f", lat))
	q.Set("lon", fmt.Sprintf("%f", lon))
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	var payload struct {
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Main struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			Humidity  int     `json:"humidity"`
		} `json:"main"`
	}
	if err := c.get(ctx, "/data/2.5/weather", q, &payload); err != nil {
		return Conditions{}, err
	}
	cond := Conditions{
		Temperature: payload.Main.Temp,
		FeelsLike:   payload.Main.FeelsLike,
		Humidity:    payload.Main.Humidity,
	}
	if len(payload.Weather) > 0 {
		cond.Description = payload.Weather[0].Description
	}
	return cond, nil
}

// CurrentByLocation geocodes and fetches conditions in one step.
func (c *Client) CurrentByLocation(ctx context.Context, location string) (Conditions, error) {
	lat, lon, err := c.Geocode(ctx, location)
	if err != nil {
		return Conditions{}, err
	}
	return c.Current(ctx, lat, lon)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("openweather: %s returned %d", path, res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
