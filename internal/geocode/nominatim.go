package geocode

import (
	"context"
	"encoding/json"
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
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	requestTimeout      = 10 * time.Second
	maxBodySize         = 1 << 20
)

// Nominatim geocodes through an OpenStreetMap Nominatim instance.
type Nominatim struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cache     *cache.Cache
}

// NewNominatim creates a client. Nominatim's usage policy requires a
// descriptive User-Agent.
func NewNominatim(baseURL, userAgent string, ttl time.Duration) *Nominatim {
	if baseURL == "" {
		baseURL = defaultNominatimURL
	}
	if userAgent == "" {
		userAgent = "wander/1.0"
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Nominatim{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      &http.Client{},
		cache:     cache.New(ttl, 2*ttl),
	}
}

type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func (p nominatimPlace) location() (Location, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("geocode: bad latitude %q: %w", p.Lat, err)
	}
	lng, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("geocode: bad longitude %q: %w", p.Lon, err)
	}
	name := p.Name
	if name == "" {
		name, _, _ = strings.Cut(p.DisplayName, ",")
	}
	return Location{Name: name, Address: p.DisplayName, Lat: lat, Lng: lng, Source: "nominatim"}, nil
}

// Geocode implements Geocoder.
func (n *Nominatim) Geocode(ctx context.Context, query string) (Location, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Location{}, ErrNotFound
	}
	key := "search|" + strings.ToLower(query)
	if v, ok := n.cache.Get(key); ok {
		return v.(Location), nil
	}

	var res []nominatimPlace
	if err := n.get(ctx, "/search", url.Values{
		"q":      {query},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}, &res); err != nil {
		return Location{}, err
	}
	if len(res) == 0 {
		return Location{}, fmt.Errorf("%w: %q", ErrNotFound, query)
	}

	loc, err := res[0].location()
	if err != nil {
		return Location{}, err
	}
	n.cache.Set(key, loc, cache.DefaultExpiration)
	return loc, nil
}

// Reverse implements Geocoder.
func (n *Nominatim) Reverse(ctx context.Context, lat, lng float64) (Location, error) {
	key := fmt.Sprintf("reverse|%.5f|%.5f", lat, lng)
	if v, ok := n.cache.Get(key); ok {
		return v.(Location), nil
	}

	var res nominatimPlace
	if err := n.get(ctx, "/reverse", url.Values{
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lng, 'f', -1, 64)},
		"format": {"jsonv2"},
	}, &res); err != nil {
		return Location{}, err
	}
	if res.Error != "" || res.Lat == "" {
		return Location{}, fmt.Errorf("%w: %.4f,%.4f", ErrNotFound, lat, lng)
	}

	loc, err := res.location()
	if err != nil {
		return Location{}, err
	}
	n.cache.Set(key, loc, cache.DefaultExpiration)
	return loc, nil
}

func (n *Nominatim) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("geocode: creating request: %w", err)
	}
	req.Header.Set("User-Agent", n.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := n.http.Do(req)
	if err != nil {
		return fmt.Errorf("geocode: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("geocode: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("geocode: reading response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("geocode: parsing response: %w", err)
	}
	return nil
}
