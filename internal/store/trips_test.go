package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/theirongolddev/wander/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("sqlite", filepath.Join(t.TempDir(), "db", "trips.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleTrip() model.Itinerary {
	return model.Itinerary{
		Name:   "Temple run",
		Tier:   model.TierBudget,
		People: 2,
		Days:   3,
		Plans: []model.DayPlan{
			{
				Day:        1,
				Request:    model.DayRequest{Kind: model.DayTravel, From: "Chennai", To: "Madurai", Season: "peak", Mode: "bus"},
				DistanceKm: 421.4, Accommodation: 1500, Food: 600, Transport: 1685.6, LocalTransport: 500, Total: 8071.2,
			},
			{
				Day:           2,
				Request:       model.DayRequest{Kind: model.DayStay, Stay: "Madurai"},
				Accommodation: 1400, Food: 550, LocalTransport: 260, Total: 4160,
			},
		},
		Total: 12231.2,
	}
}

func TestSaveAndGetTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveTrip(ctx, sampleTrip())
	if err != nil {
		t.Fatalf("SaveTrip: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("SaveTrip did not assign an ID")
	}
	if saved.CreatedAt.IsZero() {
		t.Fatal("SaveTrip did not set CreatedAt")
	}

	got, err := s.GetTrip(ctx, saved.ID)
	if err != nil {
		t.Fatalf("GetTrip: %v", err)
	}
	if got.Name != "Temple run" || got.People != 2 || got.Days != 3 || got.Tier != model.TierBudget {
		t.Errorf("trip = %+v", got)
	}
	if got.Total != 12231.2 {
		t.Errorf("Total = %v, want 12231.2", got.Total)
	}
	if !got.CreatedAt.Equal(saved.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, saved.CreatedAt)
	}
	if len(got.Plans) != 2 {
		t.Fatalf("plans = %d, want 2", len(got.Plans))
	}
	if got.Plans[0].Request.Mode != "bus" || got.Plans[0].DistanceKm != 421.4 {
		t.Errorf("day 1 = %+v", got.Plans[0])
	}
	if got.Plans[1].Request.Stay != "Madurai" || got.Plans[1].Request.Kind != model.DayStay {
		t.Errorf("day 2 = %+v", got.Plans[1])
	}
}

func TestSaveTrip_ReplacesExisting(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveTrip(ctx, sampleTrip())
	if err != nil {
		t.Fatal(err)
	}
	saved.Plans = saved.Plans[:1]
	saved.Total = saved.Plans[0].Total
	if _, err := s.SaveTrip(ctx, saved); err != nil {
		t.Fatalf("SaveTrip again: %v", err)
	}

	got, err := s.GetTrip(ctx, saved.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Plans) != 1 {
		t.Fatalf("plans = %d, want 1 after replace", len(got.Plans))
	}
	if n, _ := s.TripCount(ctx); n != 1 {
		t.Fatalf("TripCount = %d, want 1", n)
	}
}

func TestListTrips_NewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	older := sampleTrip()
	older.Name = "older"
	older.CreatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := sampleTrip()
	newer.Name = "newer"
	newer.CreatedAt = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for _, it := range []model.Itinerary{older, newer} {
		if _, err := s.SaveTrip(ctx, it); err != nil {
			t.Fatal(err)
		}
	}

	trips, err := s.ListTrips(ctx)
	if err != nil {
		t.Fatalf("ListTrips: %v", err)
	}
	if len(trips) != 2 {
		t.Fatalf("len = %d, want 2", len(trips))
	}
	if trips[0].Name != "newer" || trips[1].Name != "older" {
		t.Errorf("order = %s, %s", trips[0].Name, trips[1].Name)
	}
	if len(trips[0].Plans) != 0 {
		t.Error("ListTrips loaded days")
	}
}

func TestDeleteTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	saved, err := s.SaveTrip(ctx, sampleTrip())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteTrip(ctx, saved.ID); err != nil {
		t.Fatalf("DeleteTrip: %v", err)
	}
	if _, err := s.GetTrip(ctx, saved.ID); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("GetTrip after delete err = %v, want ErrTripNotFound", err)
	}
	if err := s.DeleteTrip(ctx, saved.ID); !errors.Is(err, ErrTripNotFound) {
		t.Fatalf("second DeleteTrip err = %v, want ErrTripNotFound", err)
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := Open("mysql", "x"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
