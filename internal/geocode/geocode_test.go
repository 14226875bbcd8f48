package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/theirongolddev/wander/internal/model"
	"github.com/theirongolddev/wander/internal/reference"
)

func testCities() *reference.Store {
	return reference.New([]model.CityRecord{
		{City: "Chennai", District: "Chennai", Lat: 13.08, Lng: 80.27},
		{City: "Madurai", District: "Madurai", Lat: 9.93, Lng: 78.12},
		{City: "Ooty", District: "Nilgiris", Lat: 11.41, Lng: 76.70},
	}, nil)
}

func TestReferenceGeocoder(t *testing.T) {
	g := NewReferenceGeocoder(testCities(), 100)
	ctx := context.Background()

	loc, err := g.Geocode(ctx, "ooty")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if loc.Name != "Ooty" || loc.Lat != 11.41 || loc.Address != "Ooty, Nilgiris" {
		t.Fatalf("loc = %+v", loc)
	}

	if _, err := g.Geocode(ctx, "Atlantis"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	near, err := g.Reverse(ctx, 9.95, 78.15)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if near.Name != "Madurai" {
		t.Fatalf("nearest = %s, want Madurai", near.Name)
	}

	if _, err := g.Reverse(ctx, 28.61, 77.21); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delhi reverse err = %v, want ErrNotFound (beyond MaxKm)", err)
	}
}

type stubGeocoder struct {
	loc Location
	err error
}

func (s stubGeocoder) Geocode(context.Context, string) (Location, error) { return s.loc, s.err }
func (s stubGeocoder) Reverse(context.Context, float64, float64) (Location, error) {
	return s.loc, s.err
}

func TestChain(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("network down")
	hit := Location{Name: "Hampi", Source: "stub"}

	tests := []struct {
		name    string
		chain   Chain
		want    string
		wantErr error
	}{
		{"first hit wins", Chain{stubGeocoder{loc: hit}, stubGeocoder{err: boom}}, "Hampi", nil},
		{"skips not found", Chain{stubGeocoder{err: ErrNotFound}, stubGeocoder{loc: hit}}, "Hampi", nil},
		{"skips failure", Chain{stubGeocoder{err: boom}, stubGeocoder{loc: hit}}, "Hampi", nil},
		{"reports failure", Chain{stubGeocoder{err: boom}, stubGeocoder{err: ErrNotFound}}, "", boom},
		{"all not found", Chain{stubGeocoder{err: ErrNotFound}, nil}, "", ErrNotFound},
		{"empty", Chain{}, "", ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := tt.chain.Geocode(ctx, "x")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil || loc.Name != tt.want {
				t.Fatalf("Geocode = %+v, %v; want %s", loc, err, tt.want)
			}
		})
	}
}

func TestNominatim(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		if r.Header.Get("User-Agent") != "wander-test" {
			t.Errorf("User-Agent = %q", r.Header.Get("User-Agent"))
		}
		switch r.URL.Path {
		case "/search":
			if r.URL.Query().Get("q") == "Nowhere" {
				fmt.Fprint(w, `[]`)
				return
			}
			fmt.Fprint(w, `[{"lat":"15.335","lon":"76.46","name":"Hampi","display_name":"Hampi, Vijayanagara, Karnataka, India"}]`)
		case "/reverse":
			if r.URL.Query().Get("lat") == "0" {
				fmt.Fprint(w, `{"error":"Unable to geocode"}`)
				return
			}
			fmt.Fprint(w, `{"lat":"12.97","lon":"77.59","display_name":"Bengaluru, Karnataka, India"}`)
		}
	}))
	defer srv.Close()

	n := NewNominatim(srv.URL, "wander-test", time.Minute)
	ctx := context.Background()

	loc, err := n.Geocode(ctx, "Hampi")
	if err != nil {
		t.Fatalf("Geocode: %v", err)
	}
	if loc.Name != "Hampi" || loc.Lat != 15.335 || loc.Lng != 76.46 {
		t.Fatalf("loc = %+v", loc)
	}
	if _, err := n.Geocode(ctx, "hampi"); err != nil {
		t.Fatalf("Geocode (cached): %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Fatalf("hits = %d, want 1", got)
	}

	if _, err := n.Geocode(ctx, "Nowhere"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	rev, err := n.Reverse(ctx, 12.97, 77.59)
	if err != nil {
		t.Fatalf("Reverse: %v", err)
	}
	if rev.Name != "Bengaluru" {
		t.Fatalf("reverse name = %q, want Bengaluru", rev.Name)
	}
	if _, err := n.Reverse(ctx, 0, 0); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
