package estimator

import (
	"errors"
	"math"
	"testing"

	"github.com/theirongolddev/wander/internal/features"
)

func TestReindex_RoundTrip(t *testing.T) {
	v := features.NewVector(
		[]string{"lat", "lng", "city_Madurai", "season_peak", "extra"},
		[]float64{1.5, -0.5, 1, 0, 42},
	)
	s := Schema{Name: "hotel_budget", Version: "1", Features: []string{"season_peak", "lat", "missing_a", "city_Madurai", "missing_b"}}

	row, err := Reindex(v, s)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}

	want := []float64{0, 1.5, 0, 1, 0}
	if len(row.Values) != len(want) {
		t.Fatalf("width = %d, want %d", len(row.Values), len(want))
	}
	for i := range want {
		if row.Values[i] != want[i] {
			t.Errorf("Values[%d] (%s) = %v, want %v", i, s.Features[i], row.Values[i], want[i])
		}
	}
	if len(row.Filled) != 2 || row.Filled[0] != "missing_a" || row.Filled[1] != "missing_b" {
		t.Errorf("Filled = %v, want [missing_a missing_b]", row.Filled)
	}

	// Rebuilding a vector from the row and reindexing again is a fixed point.
	again, err := Reindex(features.NewVector(s.Features, row.Values), s)
	if err != nil {
		t.Fatalf("Reindex: %v", err)
	}
	for i := range row.Values {
		if again.Values[i] != row.Values[i] {
			t.Fatalf("round trip changed column %d: %v -> %v", i, row.Values[i], again.Values[i])
		}
	}
}

func TestReindex_DuplicateSchemaFails(t *testing.T) {
	s := Schema{Name: "x", Version: "1", Features: []string{"lat", "lat"}}
	if _, err := Reindex(features.Vector{}, s); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestLinear_Predict(t *testing.T) {
	s := Schema{Name: "food_budget", Version: "1", Features: []string{"a", "b"}}
	l, err := NewLinear("food_budget", s, 100, []float64{2, -3})
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}
	row, _ := Reindex(features.NewVector([]string{"b", "a"}, []float64{1, 10}), s)
	got, err := l.Predict(row)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 117 {
		t.Fatalf("Predict = %v, want 117", got)
	}
}

func TestPredict_SchemaMismatch(t *testing.T) {
	s := Schema{Name: "food_budget", Version: "1", Features: []string{"a", "b"}}
	other := Schema{Name: "hotel_budget", Version: "1", Features: []string{"a", "b"}}
	l, err := NewLinear("food_budget", s, 0, []float64{1, 1})
	if err != nil {
		t.Fatalf("NewLinear: %v", err)
	}

	tests := []struct {
		name string
		row  Row
	}{
		{"too narrow", Row{Schema: s.ID(), Values: []float64{1}}},
		{"too wide", Row{Schema: s.ID(), Values: []float64{1, 2, 3}}},
		{"other schema", func() Row { r, _ := Reindex(features.Vector{}, other); return r }()},
	}
	for _, tt := range tests {
		if _, err := l.Predict(tt.row); !errors.Is(err, ErrSchemaMismatch) {
			t.Errorf("%s: err = %v, want ErrSchemaMismatch", tt.name, err)
		}
	}
}

func TestNewLinear_WidthMismatch(t *testing.T) {
	s := Schema{Name: "x", Version: "1", Features: []string{"a", "b"}}
	if _, err := NewLinear("x", s, 0, []float64{1}); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("err = %v, want ErrSchemaMismatch", err)
	}
}

func TestForest_Predict(t *testing.T) {
	s := Schema{Name: "hotel_luxury", Version: "1", Features: []string{"lat", "season_peak"}}
	// Tree 1 splits on lat <= 0; tree 2 splits on season_peak <= 0.5.
	trees := []Tree{
		{
			ChildrenLeft:  []int{1, -1, -1},
			ChildrenRight: []int{2, -1, -1},
			Feature:       []int{0, -2, -2},
			Threshold:     []float64{0, -2, -2},
			Value:         []float64{0, 1000, 2000},
		},
		{
			ChildrenLeft:  []int{1, -1, -1},
			ChildrenRight: []int{2, -1, -1},
			Feature:       []int{1, -2, -2},
			Threshold:     []float64{0.5, -2, -2},
			Value:         []float64{0, 3000, 5000},
		},
	}
	f, err := NewForest("hotel_luxury", s, trees)
	if err != nil {
		t.Fatalf("NewForest: %v", err)
	}

	tests := []struct {
		lat, peak float64
		want      float64
	}{
		{-1, 0, 2000},
		{0, 1, 3000}, // lat <= threshold goes left
		{1, 1, 3500},
	}
	for _, tt := range tests {
		row, _ := Reindex(features.NewVector(s.Features, []float64{tt.lat, tt.peak}), s)
		got, err := f.Predict(row)
		if err != nil {
			t.Fatalf("Predict: %v", err)
		}
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Predict(lat=%v, peak=%v) = %v, want %v", tt.lat, tt.peak, got, tt.want)
		}
	}
}

func TestNewForest_RejectsBadTrees(t *testing.T) {
	s := Schema{Name: "x", Version: "1", Features: []string{"a"}}
	bad := []Tree{{
		ChildrenLeft:  []int{1, -1, -1},
		ChildrenRight: []int{2, -1, -1},
		Feature:       []int{3, -2, -2},
		Threshold:     []float64{0, 0, 0},
		Value:         []float64{0, 1, 2},
	}}
	if _, err := NewForest("x", s, bad); err == nil {
		t.Fatal("expected error for out-of-range feature index")
	}

	cyclic := []Tree{{
		ChildrenLeft:  []int{0},
		ChildrenRight: []int{0},
		Feature:       []int{0},
		Threshold:     []float64{0},
		Value:         []float64{0},
	}}
	if _, err := NewForest("x", s, cyclic); err == nil {
		t.Fatal("expected error for self-referencing node")
	}
}
