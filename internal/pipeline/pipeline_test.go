package pipeline

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/wander/internal/config"
	"github.com/theirongolddev/wander/internal/estimator"
	"github.com/theirongolddev/wander/internal/model"
	"github.com/theirongolddev/wander/internal/reference"
)

func testPaths() Paths {
	return Paths{
		Cities: filepath.Join("testdata", "cities.csv"),
		Scaler: filepath.Join("testdata", "scaler.json"),
		Models: filepath.Join("testdata", "models.json"),
	}
}

func newTestPredictor(t *testing.T) *Predictor {
	t.Helper()
	rt, err := Load(testPaths(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewPredictor(rt, config.DefaultTariff(), nil)
}

func TestLoad(t *testing.T) {
	rt, err := Load(testPaths(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rt.Cities.Len() != 4 {
		t.Errorf("cities = %d, want 4", rt.Cities.Len())
	}
	if rt.Degraded {
		t.Error("Degraded = true with a valid scaler")
	}
	if !rt.UniverseDerived {
		t.Error("UniverseDerived = false, models carry no universe")
	}
	g, _ := rt.Universe.Group("season")
	if g.Reference != "offpeak" {
		t.Errorf("season reference = %q, want offpeak", g.Reference)
	}
}

func TestLoad_MissingData(t *testing.T) {
	p := testPaths()
	p.Cities = filepath.Join(t.TempDir(), "cities.csv")
	if _, err := Load(p, nil); !errors.Is(err, reference.ErrDataFileMissing) {
		t.Fatalf("err = %v, want ErrDataFileMissing", err)
	}
}

func TestLoad_ScalerUnavailableIsDegraded(t *testing.T) {
	p := testPaths()
	p.Scaler = filepath.Join(t.TempDir(), "scaler.json")
	rt, err := Load(p, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !rt.Degraded {
		t.Fatal("Degraded = false, want true")
	}

	pr := NewPredictor(rt, config.DefaultTariff(), nil)
	b, err := pr.PredictBudget("Chennai", "peak", model.TierBudget)
	if err != nil {
		t.Fatalf("PredictBudget: %v", err)
	}
	// Unscaled lat contributes 50 x 13.08.
	want := 1800 + 400 + 50*13.08
	if math.Abs(b.Hotel-want) > 1e-6 {
		t.Errorf("Hotel = %v, want %v", b.Hotel, want)
	}
}

func TestPredictBudget_Values(t *testing.T) {
	p := newTestPredictor(t)

	b, err := p.PredictBudget("Chennai", "Peak", "Budget")
	if err != nil {
		t.Fatalf("PredictBudget: %v", err)
	}

	wantHotel := 1800 + 400 + 50*(13.08-10.9)/1.5
	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"hotel", b.Hotel, wantHotel},
		{"food", b.Food, 700},
		{"local_transport_urban", b.LocalTransportUrban, 250 + 50*(300-225)/55.0},
		{"local_transport_rural", b.LocalTransportRural, 0}, // negative, clamped
	}
	for _, tt := range tests {
		if math.Abs(tt.got-tt.want) > 1e-6 {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
	if b.Tier != model.TierBudget || b.Season != "peak" || b.City != "Chennai" {
		t.Errorf("labels = %s/%s/%s", b.City, b.Season, b.Tier)
	}
}

func TestPredictBudget_ForestTier(t *testing.T) {
	p := newTestPredictor(t)

	tests := []struct {
		city, season string
		want         float64
	}{
		{"Chennai", "peak", 8500},    // flight available, peak
		{"Ooty", "offpeak", 6500},    // no flight, offpeak
		{"Madurai", "offpeak", 8000}, // flight available, offpeak
	}
	for _, tt := range tests {
		b, err := p.PredictBudget(tt.city, tt.season, model.TierLuxury)
		if err != nil {
			t.Fatalf("PredictBudget(%s): %v", tt.city, err)
		}
		if b.Hotel != tt.want {
			t.Errorf("luxury hotel %s/%s = %v, want %v", tt.city, tt.season, b.Hotel, tt.want)
		}
		if b.Food != 2500 {
			t.Errorf("luxury food = %v, want 2500", b.Food)
		}
	}
}

func TestPredictBudget_AllCitiesAllTiersNonNegative(t *testing.T) {
	p := newTestPredictor(t)
	for _, tier := range model.Tiers {
		for _, season := range model.Seasons {
			for _, res := range p.PredictAll(p.Runtime().Cities.Names(), season, tier, nil) {
				if res.Err != nil {
					t.Fatalf("%s/%s/%s: %v", res.City, season, tier, res.Err)
				}
				comps := res.Bundle.Components()
				if len(comps) != 4 {
					t.Fatalf("components = %d, want 4", len(comps))
				}
				for k, v := range comps {
					if v < 0 || math.IsNaN(v) {
						t.Errorf("%s/%s/%s %s = %v, want >= 0", res.City, season, tier, k, v)
					}
				}
			}
		}
	}
}

func TestPredictBudget_Errors(t *testing.T) {
	p := newTestPredictor(t)

	if _, err := p.PredictBudget("Chennai", "peak", "medium"); !errors.Is(err, estimator.ErrModelNotFound) {
		t.Errorf("medium tier err = %v, want ErrModelNotFound", err)
	}
	if _, err := p.PredictBudget("Atlantis", "peak", model.TierBudget); !errors.Is(err, reference.ErrCityNotFound) {
		t.Errorf("unknown city err = %v, want ErrCityNotFound", err)
	}
}

func TestPredictAll_ProgressAndOrder(t *testing.T) {
	p := newTestPredictor(t)
	cities := []string{"Ooty", "Atlantis", "Chennai"}

	var calls int
	var last int
	res := p.PredictAll(cities, "peak", model.TierBudget, func(current, total int) {
		calls++
		if total != 3 {
			t.Errorf("total = %d, want 3", total)
		}
		if current > last {
			last = current
		}
	})
	if calls != 3 || last != 3 {
		t.Errorf("progress calls = %d, last = %d, want 3, 3", calls, last)
	}
	for i, c := range cities {
		if res[i].City != c {
			t.Errorf("res[%d].City = %q, want %q", i, res[i].City, c)
		}
	}
	if !errors.Is(res[1].Err, reference.ErrCityNotFound) {
		t.Errorf("res[1].Err = %v, want ErrCityNotFound", res[1].Err)
	}
}

func TestTransportCost(t *testing.T) {
	p := newTestPredictor(t)

	tests := []struct {
		mode string
		km   float64
		want float64
	}{
		{"bus", 100, 2 * 100 * 2},
		{"train", 100, 1.5 * 100 * 2},
		{"flight", 100, 3500 + 100*8},
		{" BUS ", 50, 2 * 50 * 2},
		{"unknown_mode", 100, 0},
		{"bus", 0, 0},
	}
	for _, tt := range tests {
		got, err := p.TransportCost("Chennai", tt.mode, tt.km)
		if err != nil {
			t.Fatalf("TransportCost(%q): %v", tt.mode, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TransportCost(Chennai, %q, %v) = %v, want %v", tt.mode, tt.km, got, tt.want)
		}
	}

	if _, err := p.TransportCost("Atlantis", "bus", 10); !errors.Is(err, reference.ErrCityNotFound) {
		t.Errorf("unknown city err = %v, want ErrCityNotFound", err)
	}
}

func TestTransportCost_UnknownColumnIsZero(t *testing.T) {
	rt, err := Load(testPaths(), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	tariff := config.DefaultTariff()
	tariff.Modes = map[string]config.ModeTariff{
		"ferry": {Kind: config.KindPerKm, Column: "ferry_km_rate"},
		"auto":  {Kind: config.KindPerKm, Column: "local_transport_urban"},
	}
	p := NewPredictor(rt, tariff, nil)

	tests := []struct {
		mode string
		want float64
	}{
		{"ferry", 0},
		{"auto", 300 * 10 * 2},
	}
	for _, tt := range tests {
		got, err := p.TransportCost("Chennai", tt.mode, 10)
		if err != nil {
			t.Fatalf("TransportCost(%q): %v", tt.mode, err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("TransportCost(Chennai, %q, 10) = %v, want %v", tt.mode, got, tt.want)
		}
	}
}

func TestTransportCost_ChennaiMaduraiScenario(t *testing.T) {
	p := newTestPredictor(t)

	d, err := p.Distance("Chennai", "Madurai")
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if math.Abs(d-421.4) > 5 {
		t.Fatalf("Distance = %.1f, want about 421", d)
	}

	cost, err := p.TransportCost("Chennai", "bus", d)
	if err != nil {
		t.Fatalf("TransportCost: %v", err)
	}
	if math.Abs(cost-2*d*2) > 1e-9 {
		t.Errorf("cost = %v, want %v", cost, 2*d*2)
	}
}

func TestSummarize(t *testing.T) {
	it := model.Itinerary{
		People: 2,
		Plans: []model.DayPlan{
			{Day: 1, Request: model.DayRequest{Kind: model.DayTravel, From: "Chennai", To: "Madurai"}, DistanceKm: 420, Accommodation: 1000, Food: 500, Transport: 1680, LocalTransport: 500, Total: 6860},
			{Day: 2, Request: model.DayRequest{Kind: model.DayStay, Stay: "Madurai"}, Accommodation: 1000, Food: 500, LocalTransport: 300, Total: 3300},
			{Day: 3, Request: model.DayRequest{Kind: model.DayStay, Stay: "madurai"}, Accommodation: 1000, Food: 500, LocalTransport: 300, Total: 3300},
		},
		Total: 13460,
	}

	s := Summarize(it)
	if s.Days != 3 || s.TravelDays != 1 || s.StayDays != 2 {
		t.Errorf("days = %d/%d/%d, want 3/1/2", s.Days, s.TravelDays, s.StayDays)
	}
	if s.Total != 13460 {
		t.Errorf("Total = %v, want 13460", s.Total)
	}
	if s.PerPerson != 6730 {
		t.Errorf("PerPerson = %v, want 6730", s.PerPerson)
	}
	if s.PriciestDay != 1 {
		t.Errorf("PriciestDay = %d, want 1", s.PriciestDay)
	}
	if s.DistanceKm != 420 {
		t.Errorf("DistanceKm = %v, want 420", s.DistanceKm)
	}
	if len(s.ByCity) != 2 {
		t.Fatalf("ByCity = %+v, want 2 entries", s.ByCity)
	}
	if s.ByCity[0].City != "Chennai" || s.ByCity[1].Days != 2 {
		t.Errorf("ByCity = %+v", s.ByCity)
	}
}

func BenchmarkPredictBudget(b *testing.B) {
	rt, err := Load(testPaths(), nil)
	if err != nil {
		b.Fatal(err)
	}
	p := NewPredictor(rt, config.DefaultTariff(), nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.PredictBudget("Madurai", "offpeak", model.TierBudget); err != nil {
			b.Fatal(err)
		}
	}
}
