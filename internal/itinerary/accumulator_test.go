package itinerary

import (
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/wander/internal/config"
	"github.com/theirongolddev/wander/internal/estimator"
	"github.com/theirongolddev/wander/internal/model"
	"github.com/theirongolddev/wander/internal/pipeline"
	"github.com/theirongolddev/wander/internal/reference"
)

var errUnknownCity = errors.New("unknown city")

// fakePredictor prices every known city identically and records seasons.
type fakePredictor struct {
	bundle  model.Bundle
	dist    float64
	rate    float64
	cities  map[string]bool
	seasons []string
}

func newFake() *fakePredictor {
	return &fakePredictor{
		bundle: model.Bundle{Hotel: 1000, Food: 400, LocalTransportUrban: 250, LocalTransportRural: 120},
		dist:   100,
		rate:   2,
		cities: map[string]bool{"Chennai": true, "Madurai": true, "Ooty": true},
	}
}

func (f *fakePredictor) PredictBudget(city, season string, tier model.Tier) (model.Bundle, error) {
	if !f.cities[city] {
		return model.Bundle{}, errUnknownCity
	}
	if tier != model.TierBudget && tier != model.TierLuxury {
		return model.Bundle{}, estimator.ErrModelNotFound
	}
	f.seasons = append(f.seasons, season)
	return f.bundle, nil
}

func (f *fakePredictor) TransportCost(city, mode string, km float64) (float64, error) {
	if !f.cities[city] {
		return 0, errUnknownCity
	}
	if mode != "bus" {
		return 0, nil
	}
	return f.rate * km * 2, nil
}

func (f *fakePredictor) Distance(from, to string) (float64, error) {
	if !f.cities[from] || !f.cities[to] {
		return 0, errUnknownCity
	}
	return f.dist, nil
}

func TestApply_TravelAndStayTotals(t *testing.T) {
	fp := newFake()
	acc, err := New(fp, model.TierBudget, 2, 3, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	travel, err := acc.Apply(model.DayRequest{Kind: model.DayTravel, From: "Chennai", To: "Madurai", Season: "peak", Mode: "bus"})
	if err != nil {
		t.Fatalf("Apply travel: %v", err)
	}
	// (1000 + 400 + 400) x 2 + 500
	if travel.Total != 4100 {
		t.Errorf("travel total = %v, want 4100", travel.Total)
	}
	if travel.Transport != 400 || travel.LocalTransport != 500 || travel.DistanceKm != 100 {
		t.Errorf("travel breakdown = %+v", travel)
	}

	stay, err := acc.Apply(model.DayRequest{Kind: model.DayStay, Stay: "Madurai"})
	if err != nil {
		t.Fatalf("Apply stay: %v", err)
	}
	// (1000 + 400) x 2 + 250, local transport not multiplied.
	if stay.Total != 3050 {
		t.Errorf("stay total = %v, want 3050", stay.Total)
	}
	if stay.Transport != 0 {
		t.Errorf("stay transport = %v, want 0", stay.Transport)
	}
	if got := fp.seasons[len(fp.seasons)-1]; got != model.SeasonOffPeak {
		t.Errorf("stay season = %q, want offpeak", got)
	}
}

func TestBuild_ThreeDays(t *testing.T) {
	reqs := []model.DayRequest{
		{Kind: model.DayTravel, From: "Chennai", To: "Madurai", Season: "peak", Mode: "bus"},
		{Kind: model.DayStay, Stay: "Madurai"},
		{Kind: model.DayTravel, From: "Madurai", To: "Ooty", Season: "offpeak", Mode: "flight"},
	}
	it, err := Build(newFake(), reqs, model.TierBudget, 1, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(it.Plans) != 3 {
		t.Fatalf("plans = %d, want 3", len(it.Plans))
	}
	for i, p := range it.Plans {
		if p.Day != i+1 {
			t.Errorf("plan %d Day = %d", i, p.Day)
		}
	}
	if it.Total != it.SumDays() {
		t.Errorf("Total = %v, SumDays = %v", it.Total, it.SumDays())
	}
	// Re-summing is idempotent.
	if it.SumDays() != it.SumDays() {
		t.Error("SumDays not idempotent")
	}
}

func TestApply_StateMachine(t *testing.T) {
	acc, err := New(newFake(), model.TierBudget, 1, 2, DefaultOptions())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if st := acc.State(); st.Phase != AwaitingDayPlan || st.Day != 1 {
		t.Fatalf("State = %+v, want awaiting day 1", st)
	}
	if _, err := acc.Apply(model.DayRequest{Kind: model.DayStay, Stay: "Ooty"}); err != nil {
		t.Fatal(err)
	}
	if st := acc.State(); st.Day != 2 {
		t.Fatalf("State = %+v, want awaiting day 2", st)
	}
	if _, err := acc.Apply(model.DayRequest{Kind: model.DayStay, Stay: "Ooty"}); err != nil {
		t.Fatal(err)
	}
	if st := acc.State(); st.Phase != Done {
		t.Fatalf("State = %+v, want done", st)
	}
	if _, err := acc.Apply(model.DayRequest{Kind: model.DayStay, Stay: "Ooty"}); !errors.Is(err, ErrItineraryDone) {
		t.Fatalf("Apply after done err = %v, want ErrItineraryDone", err)
	}
}

func TestFinish_EarlyKeepsDays(t *testing.T) {
	acc, err := New(newFake(), model.TierBudget, 1, 5, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := acc.Apply(model.DayRequest{Kind: model.DayStay, Stay: "Ooty"}); err != nil {
		t.Fatal(err)
	}
	acc.Finish()

	it := acc.Itinerary()
	if len(it.Plans) != 1 || it.Days != 5 {
		t.Fatalf("plans = %d, days = %d, want 1, 5", len(it.Plans), it.Days)
	}
	if acc.State().Phase != Done {
		t.Fatal("State not done after Finish")
	}
}

func TestApply_FailureKeepsPriorDays(t *testing.T) {
	acc, err := New(newFake(), model.TierBudget, 1, 3, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := acc.Apply(model.DayRequest{Kind: model.DayStay, Stay: "Ooty"}); err != nil {
		t.Fatal(err)
	}
	before := acc.Itinerary()

	_, err = acc.Apply(model.DayRequest{Kind: model.DayTravel, From: "Atlantis", To: "Ooty", Season: "offpeak", Mode: "bus"})
	if !errors.Is(err, errUnknownCity) {
		t.Fatalf("err = %v, want unknown city", err)
	}
	var de *DayError
	if !errors.As(err, &de) {
		t.Fatalf("err %T is not a *DayError", err)
	}
	if de.Day != 2 || de.City != "Atlantis" || de.Tier != model.TierBudget {
		t.Errorf("DayError = %+v", de)
	}
	if !strings.Contains(err.Error(), "day 2") || !strings.Contains(err.Error(), "Atlantis") {
		t.Errorf("error message %q lacks day or city", err)
	}

	after := acc.Itinerary()
	if len(after.Plans) != 1 || after.Total != before.Total {
		t.Fatalf("failed day changed itinerary: %+v", after)
	}
	if st := acc.State(); st.Day != 2 {
		t.Fatalf("State.Day = %d, want 2 (retry same day)", st.Day)
	}
}

func TestBuild_ReturnsPartialOnError(t *testing.T) {
	reqs := []model.DayRequest{
		{Kind: model.DayStay, Stay: "Ooty"},
		{Kind: model.DayStay, Stay: "Nowhere"},
		{Kind: model.DayStay, Stay: "Ooty"},
	}
	it, err := Build(newFake(), reqs, model.TierBudget, 1, DefaultOptions())
	if err == nil {
		t.Fatal("expected error")
	}
	if len(it.Plans) != 1 {
		t.Fatalf("partial plans = %d, want 1", len(it.Plans))
	}
}

func TestNew_Bounds(t *testing.T) {
	tests := []struct {
		people, days int
	}{
		{0, 3}, {21, 3}, {2, 0}, {2, 32},
	}
	for _, tt := range tests {
		if _, err := New(newFake(), model.TierBudget, tt.people, tt.days, DefaultOptions()); !errors.Is(err, ErrInvalidTrip) {
			t.Errorf("New(people=%d, days=%d) err = %v, want ErrInvalidTrip", tt.people, tt.days, err)
		}
	}
}

func TestApply_InvalidPlans(t *testing.T) {
	acc, err := New(newFake(), model.TierBudget, 1, 3, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, req := range []model.DayRequest{
		{Kind: "cruise"},
		{Kind: model.DayTravel, From: "Chennai"},
		{Kind: model.DayTravel, From: "Chennai", To: "Ooty", Mode: "bus"},
		{Kind: model.DayTravel, From: "Chennai", To: "Ooty", Season: "  ", Mode: "bus"},
		{Kind: model.DayStay},
	} {
		if _, err := acc.Apply(req); !errors.Is(err, ErrInvalidPlan) {
			t.Errorf("Apply(%+v) err = %v, want ErrInvalidPlan", req, err)
		}
	}
}

func TestApply_MissingSeasonLeavesStateUnchanged(t *testing.T) {
	fp := newFake()
	acc, err := New(fp, model.TierBudget, 1, 3, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := acc.Apply(model.DayRequest{Kind: model.DayStay, Stay: "Ooty"}); err != nil {
		t.Fatal(err)
	}
	before := acc.Itinerary()
	calls := len(fp.seasons)

	_, err = acc.Apply(model.DayRequest{Kind: model.DayTravel, From: "Ooty", To: "Chennai", Mode: "bus"})
	if !errors.Is(err, ErrInvalidPlan) {
		t.Fatalf("err = %v, want ErrInvalidPlan", err)
	}
	after := acc.Itinerary()
	if len(after.Plans) != len(before.Plans) || after.Total != before.Total {
		t.Fatalf("Itinerary = %+v, want %+v", after, before)
	}
	if len(fp.seasons) != calls {
		t.Fatalf("predictions = %d, want %d", len(fp.seasons), calls)
	}
}

func TestApply_UnknownTier(t *testing.T) {
	acc, err := New(newFake(), "medium", 1, 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	_, err = acc.Apply(model.DayRequest{Kind: model.DayStay, Stay: "Ooty"})
	if !errors.Is(err, estimator.ErrModelNotFound) {
		t.Fatalf("err = %v, want ErrModelNotFound", err)
	}
	if !strings.Contains(err.Error(), "medium") {
		t.Errorf("error %q does not name the tier", err)
	}
}

func TestOptions_OverrideConstants(t *testing.T) {
	fp := newFake()
	opts := DefaultOptions()
	opts.StaySeason = "peak"
	opts.TravelLocalTransport = 0

	acc, err := New(fp, model.TierBudget, 1, 2, opts)
	if err != nil {
		t.Fatal(err)
	}
	travel, err := acc.Apply(model.DayRequest{Kind: model.DayTravel, From: "Chennai", To: "Ooty", Season: "offpeak", Mode: "bus"})
	if err != nil {
		t.Fatal(err)
	}
	if travel.Total != 1000+400+400 {
		t.Errorf("travel total = %v, want 1800 with no flat fee", travel.Total)
	}
	if _, err := acc.Apply(model.DayRequest{Kind: model.DayStay, Stay: "Ooty"}); err != nil {
		t.Fatal(err)
	}
	if got := fp.seasons[len(fp.seasons)-1]; got != "peak" {
		t.Errorf("stay season = %q, want peak", got)
	}
}

// The scenario below runs the real predictor over the pipeline test data.
func TestBuild_ChennaiMaduraiScenario(t *testing.T) {
	dir := filepath.Join("..", "pipeline", "testdata")
	rt, err := pipeline.Load(pipeline.Paths{
		Cities: filepath.Join(dir, "cities.csv"),
		Scaler: filepath.Join(dir, "scaler.json"),
		Models: filepath.Join(dir, "models.json"),
	}, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	pred := pipeline.NewPredictor(rt, config.DefaultTariff(), nil)

	reqs := []model.DayRequest{
		{Kind: model.DayTravel, From: "Chennai", To: "Madurai", Season: "peak", Mode: "bus"},
		{Kind: model.DayStay, Stay: "Madurai"},
		{Kind: model.DayTravel, From: "Madurai", To: "Rameswaram", Season: "offpeak", Mode: "train"},
	}
	it, err := Build(pred, reqs, model.TierBudget, 1, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	day1 := it.Plans[0]
	if math.Abs(day1.DistanceKm-421.4) > 5 {
		t.Errorf("distance = %.1f, want about 421", day1.DistanceKm)
	}
	if math.Abs(day1.Transport-2*day1.DistanceKm*2) > 1e-9 {
		t.Errorf("transport = %v, want %v", day1.Transport, 2*day1.DistanceKm*2)
	}
	want := day1.Accommodation + day1.Food + day1.Transport + 500
	if math.Abs(day1.Total-want) > 1e-9 {
		t.Errorf("day 1 total = %v, want %v", day1.Total, want)
	}
	if math.Abs(it.Total-it.SumDays()) > 1e-9 {
		t.Errorf("Total = %v, SumDays = %v", it.Total, it.SumDays())
	}

	if _, err := Build(pred, []model.DayRequest{{Kind: model.DayStay, Stay: "Atlantis"}}, model.TierBudget, 1, DefaultOptions()); !errors.Is(err, reference.ErrCityNotFound) {
		t.Errorf("unknown city err = %v, want ErrCityNotFound", err)
	}
}
