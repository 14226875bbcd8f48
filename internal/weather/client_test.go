package weather

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const forecastBody = `{
  "city": {"name": "Madurai", "country": "IN"},
  "list": [
    {"dt_txt": "2026-10-19 00:00:00", "main": {"temp_min": 24.0, "temp_max": 27.0}, "weather": [{"description": "light rain"}]},
    {"dt_txt": "2026-10-19 03:00:00", "main": {"temp_min": 25.5, "temp_max": 31.0}, "weather": [{"description": "clear sky"}]},
    {"dt_txt": "2026-10-19 06:00:00", "main": {"temp_min": 26.0, "temp_max": 33.5}, "weather": [{"description": "clear sky"}]},
    {"dt_txt": "2026-10-20 00:00:00", "main": {"temp_min": 23.0, "temp_max": 26.0}, "weather": [{"description": "mist"}]},
    {"dt_txt": "2026-10-20 03:00:00", "main": {"temp_min": 24.0, "temp_max": 29.0}, "weather": [{"description": "haze"}]}
  ]
}`

func newTestServer(t *testing.T, hits *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(hits, 1)
		if r.URL.Query().Get("appid") != "k" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		switch r.URL.Path {
		case "/weather":
			if r.URL.Query().Get("q") == "Atlantis" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprint(w, `{"name":"Chennai","dt":1760850000,"main":{"temp":31.2,"feels_like":36.4,"humidity":70,"pressure":1008},
"weather":[{"main":"Clouds","description":"scattered clouds","icon":"03d"}],"wind":{"speed":4.1},"sys":{"country":"IN"}}`)
		case "/forecast":
			if got := r.URL.Query().Get("cnt"); got != "16" {
				t.Errorf("cnt = %q, want 16", got)
			}
			fmt.Fprint(w, forecastBody)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewClientEmptyKey(t *testing.T) {
	if c := NewClient("  "); c != nil {
		t.Fatal("NewClient with blank key should return nil")
	}
}

func TestCurrent(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	c := NewClient("k", WithBaseURL(srv.URL))

	cur, err := c.Current(context.Background(), "Chennai")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if cur.City != "Chennai" || cur.Country != "IN" {
		t.Fatalf("city = %s/%s, want Chennai/IN", cur.City, cur.Country)
	}
	if cur.Temp != 31.2 || cur.Description != "scattered clouds" {
		t.Fatalf("got temp=%.1f desc=%q", cur.Temp, cur.Description)
	}

	if _, err := c.Current(context.Background(), "chennai"); err != nil {
		t.Fatalf("Current (cached): %v", err)
	}
	if hits != 1 {
		t.Fatalf("server hits = %d, want 1 (second call cached)", hits)
	}
}

func TestCurrentErrors(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)

	c := NewClient("k", WithBaseURL(srv.URL))
	if _, err := c.Current(context.Background(), "Atlantis"); !errors.Is(err, ErrCityUnknown) {
		t.Fatalf("err = %v, want ErrCityUnknown", err)
	}

	bad := NewClient("wrong", WithBaseURL(srv.URL))
	if _, err := bad.Current(context.Background(), "Chennai"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestForecastGroupsByDate(t *testing.T) {
	var hits int32
	srv := newTestServer(t, &hits)
	c := NewClient("k", WithBaseURL(srv.URL), WithCacheTTL(0))

	days, err := c.Forecast(context.Background(), "Madurai", 2)
	if err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}

	d := days[0]
	if d.Date != "2026-10-19" || d.TempMin != 24.0 || d.TempMax != 33.5 {
		t.Fatalf("day 1 = %+v", d)
	}
	if d.Description != "clear sky" || d.Samples != 3 {
		t.Fatalf("day 1 description=%q samples=%d", d.Description, d.Samples)
	}
	// mist and haze tie; the first seen wins.
	if days[1].Description != "mist" {
		t.Fatalf("day 2 description = %q, want mist", days[1].Description)
	}
}

func TestForecastClampsDays(t *testing.T) {
	var gotCnt atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCnt.Store(r.URL.Query().Get("cnt"))
		fmt.Fprint(w, `{"list":[]}`)
	}))
	defer srv.Close()

	c := NewClient("k", WithBaseURL(srv.URL), WithCacheTTL(time.Minute))
	if _, err := c.Forecast(context.Background(), "Ooty", 9); err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if got := gotCnt.Load(); got != "40" {
		t.Fatalf("cnt = %v, want 40", got)
	}
	if _, err := c.Forecast(context.Background(), "Ooty", 0); err != nil {
		t.Fatalf("Forecast: %v", err)
	}
	if got := gotCnt.Load(); got != "8" {
		t.Fatalf("cnt = %v, want 8", got)
	}
}
