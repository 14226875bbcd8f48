// Package places looks up points of interest through the Google Places API
// and OpenStreetMap, and turns what a traveller browses into category
// recommendations.
package places

import (
	"bytes"
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

	"github.com/theirongolddev/wander/internal/model"
)

const (
	defaultBaseURL = "https://places.googleapis.com/v1"
	requestTimeout = 10 * time.Second
	maxBodySize    = 2 << 20

	searchFieldMask = "places.id,places.displayName,places.formattedAddress,places.location," +
		"places.rating,places.userRatingCount,places.priceLevel,places.types,places.photos"
	detailsFieldMask = "id,displayName,formattedAddress,location,rating,userRatingCount,priceLevel," +
		"types,photos,reviews,websiteUri,nationalPhoneNumber,regularOpeningHours.weekdayDescriptions,editorialSummary"
)

var (
	ErrUnauthorized = errors.New("places: unauthorized (api key invalid)")
	ErrNotFound     = errors.New("places: place not found")
	ErrEmptyQuery   = errors.New("places: empty query")
)

// Price levels used by the Places API.
const (
	PriceFree          = "PRICE_LEVEL_FREE"
	PriceInexpensive   = "PRICE_LEVEL_INEXPENSIVE"
	PriceModerate      = "PRICE_LEVEL_MODERATE"
	PriceExpensive     = "PRICE_LEVEL_EXPENSIVE"
	PriceVeryExpensive = "PRICE_LEVEL_VERY_EXPENSIVE"
)

// PriceLevelsForTier maps a budget tier to the price levels that suit it.
// Unknown tiers yield nil (no filter).
func PriceLevelsForTier(tier model.Tier) []string {
	switch tier {
	case model.TierBudget:
		return []string{PriceInexpensive, PriceModerate}
	case model.TierLuxury:
		return []string{PriceExpensive, PriceVeryExpensive}
	}
	return nil
}

// PriceLabel renders a price level as a short symbol.
func PriceLabel(level string) string {
	switch level {
	case PriceFree:
		return "Free"
	case PriceInexpensive:
		return "₹"
	case PriceModerate:
		return "₹₹"
	case PriceExpensive:
		return "₹₹₹"
	case PriceVeryExpensive:
		return "₹₹₹₹"
	}
	return "N/A"
}

// SearchOptions narrows a text search.
type SearchOptions struct {
	MaxResults  int
	PriceLevels []string
	// Bias results to a circle around (Lat, Lng) when RadiusM > 0.
	Lat, Lng float64
	RadiusM  float64
}

// Client talks to the Places API v1.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a client. Returns nil if apiKey is empty.
func NewClient(apiKey, baseURL string) *Client {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
}

// Search runs a text search.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	req := searchRequest{
		TextQuery:      query,
		MaxResultCount: opts.MaxResults,
		PriceLevels:    opts.PriceLevels,
	}
	if opts.RadiusM > 0 {
		req.LocationBias = &locationBias{Circle: circle{
			Center: latLng{Latitude: opts.Lat, Longitude: opts.Lng},
			Radius: opts.RadiusM,
		}}
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("places: encoding search: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/places:searchText", searchFieldMask, payload)
	if err != nil {
		return nil, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("places: parsing search: %w", err)
	}

	out := make([]Place, 0, len(resp.Places))
	for _, p := range resp.Places {
		out = append(out, p.toPlace())
	}
	return out, nil
}

// Details fetches one place by ID, including reviews.
func (c *Client) Details(ctx context.Context, id string) (*Place, error) {
	id = strings.TrimPrefix(strings.TrimSpace(id), "places/")
	if id == "" {
		return nil, ErrNotFound
	}

	body, err := c.do(ctx, http.MethodGet, c.baseURL+"/places/"+url.PathEscape(id), detailsFieldMask, nil)
	if err != nil {
		return nil, err
	}

	var raw apiPlace
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("places: parsing details: %w", err)
	}
	p := raw.toPlace()
	return &p, nil
}

// PhotoURL returns a media URL for a photo resource name.
func (c *Client) PhotoURL(name string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = 400
	}
	q := url.Values{
		"key":        {c.apiKey},
		"maxWidthPx": {strconv.Itoa(maxWidth)},
	}
	return c.baseURL + "/" + strings.TrimPrefix(name, "/") + "/media?" + q.Encode()
}

func (c *Client) do(ctx context.Context, method, endpoint, fieldMask string, payload []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rd)
	if err != nil {
		return nil, fmt.Errorf("places: creating request: %w", err)
	}
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("places: request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("places: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("places: reading response: %w", err)
	}
	return body, nil
}
