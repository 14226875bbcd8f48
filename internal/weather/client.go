// Package weather provides a client for OpenWeatherMap current conditions
// and multi-day forecasts.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	defaultBaseURL = "https://api.openweathermap.org/data/2.5"
	requestTimeout = 10 * time.Second
	maxBodySize    = 1 << 20 // 1 MB
	samplesPerDay  = 8       // forecast samples are 3 hours apart
	maxForecastDay = 5
)

var (
	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("weather: unauthorized (api key invalid)")
	// ErrCityUnknown indicates the provider does not know the city.
	ErrCityUnknown = errors.New("weather: city not found")
	// ErrRateLimited indicates the API rate limit was hit.
	ErrRateLimited = errors.New("weather: rate limited")
)

// Client fetches weather from OpenWeatherMap.
type Client struct {
	apiKey  string
	baseURL string
	units   string
	http    *http.Client
	cache   *cache.Cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithUnits sets metric, imperial or standard units.
func WithUnits(units string) Option {
	return func(c *Client) {
		if units != "" {
			c.units = units
		}
	}
}

// WithCacheTTL sets how long responses are reused. Zero disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = cache.New(ttl, 2*ttl)
	}
}

// NewClient creates a client for the given API key.
// Returns nil if the key is empty.
func NewClient(apiKey string, opts ...Option) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		units:   "metric",
		http:    &http.Client{},
		cache:   cache.New(10*time.Minute, 20*time.Minute),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Current returns the current weather for city.
func (c *Client) Current(ctx context.Context, city string) (*Current, error) {
	key := "current|" + c.units + "|" + strings.ToLower(city)
	if v, ok := c.cached(key); ok {
		return v.(*Current), nil
	}

	body, err := c.get(ctx, "/weather", url.Values{"q": {city}})
	if err != nil {
		return nil, err
	}

	var raw currentResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("weather: parsing current: %w", err)
	}

	cur := &Current{
		City:       raw.Name,
		Country:    raw.Sys.Country,
		Temp:       raw.Main.Temp,
		FeelsLike:  raw.Main.FeelsLike,
		Humidity:   raw.Main.Humidity,
		Pressure:   raw.Main.Pressure,
		WindSpeed:  raw.Wind.Speed,
		ObservedAt: unix(raw.Dt),
		Sunrise:    unix(raw.Sys.Sunrise),
		Sunset:     unix(raw.Sys.Sunset),
	}
	if len(raw.Weather) > 0 {
		cur.Description = raw.Weather[0].Description
		cur.Icon = raw.Weather[0].Icon
	}

	c.store(key, cur)
	return cur, nil
}

// Forecast returns one summary per calendar day for up to days days.
// days is clamped to 1..5.
func (c *Client) Forecast(ctx context.Context, city string, days int) ([]DailySummary, error) {
	if days < 1 {
		days = 1
	}
	if days > maxForecastDay {
		days = maxForecastDay
	}

	key := fmt.Sprintf("forecast|%s|%s|%d", c.units, strings.ToLower(city), days)
	if v, ok := c.cached(key); ok {
		return v.([]DailySummary), nil
	}

	body, err := c.get(ctx, "/forecast", url.Values{
		"q":   {city},
		"cnt": {strconv.Itoa(days * samplesPerDay)},
	})
	if err != nil {
		return nil, err
	}

	var raw forecastResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("weather: parsing forecast: %w", err)
	}

	summaries := summarize(raw)
	c.store(key, summaries)
	return summaries, nil
}

// summarize groups 3-hour samples by date. Each day keeps the lowest
// minimum, the highest maximum and its most frequent description; ties go
// to the description seen first.
func summarize(raw forecastResponse) []DailySummary {
	type acc struct {
		sum    DailySummary
		counts map[string]int
		order  []string
	}
	byDate := make(map[string]*acc)
	var dates []string

	for _, s := range raw.List {
		date := ""
		if len(s.DtTxt) >= 10 {
			date = s.DtTxt[:10]
		} else {
			date = unix(s.Dt).Format("2006-01-02")
		}

		a, ok := byDate[date]
		if !ok {
			a = &acc{
				sum:    DailySummary{Date: date, TempMin: s.Main.TempMin, TempMax: s.Main.TempMax},
				counts: make(map[string]int),
			}
			byDate[date] = a
			dates = append(dates, date)
		}
		a.sum.Samples++
		if s.Main.TempMin < a.sum.TempMin {
			a.sum.TempMin = s.Main.TempMin
		}
		if s.Main.TempMax > a.sum.TempMax {
			a.sum.TempMax = s.Main.TempMax
		}
		if len(s.Weather) > 0 {
			d := s.Weather[0].Description
			if a.counts[d] == 0 {
				a.order = append(a.order, d)
			}
			a.counts[d]++
		}
	}

	out := make([]DailySummary, 0, len(dates))
	for _, d := range dates {
		a := byDate[d]
		best := 0
		for _, desc := range a.order {
			if a.counts[desc] > best {
				best = a.counts[desc]
				a.sum.Description = desc
			}
		}
		out = append(out, a.sum)
	}
	return out
}

// get performs a keyed GET request and returns the response body.
func (c *Client) get(ctx context.Context, path string, q url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	q.Set("appid", c.apiKey)
	q.Set("units", c.units)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrCityUnknown, q.Get("q"))
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("weather: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("weather: reading response: %w", err)
	}
	return body, nil
}

func (c *Client) cached(key string) (interface{}, bool) {
	if c.cache == nil {
		return nil, false
	}
	return c.cache.Get(key)
}

func (c *Client) store(key string, v interface{}) {
	if c.cache != nil {
		c.cache.Set(key, v, cache.DefaultExpiration)
	}
}

func unix(sec int64) time.Time {
	if sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
