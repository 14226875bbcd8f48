package reference

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `city,district,category,season,lat,lng,bus_km_rate,train_km_rate,flight_base_rate,local_transport_urban,local_transport_rural,bus_available,train_available,flight_available
Chennai,Chennai,Beach,peak,13.08,80.27,2,1.5,3500,300,150,1,1,1
Chennai,Chennai,Beach,offpeak,13.08,80.27,9,9,9,9,9,0,0,0
Madurai,Madurai,Temple,offpeak,9.93,78.12,2,1.2,3000,250,120,1,1,1
Ooty,Nilgiris,Hill Station,peak,11.41,76.70,2.5,,,200,100,1,0,0
`

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cities.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FirstRowPerCityWins(t *testing.T) {
	s, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}

	c, err := s.Lookup("Chennai")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if c.BusKmRate != 2 {
		t.Errorf("BusKmRate = %v, want 2 (first row)", c.BusKmRate)
	}
	if !c.FlightAvailable {
		t.Error("FlightAvailable = false, want true")
	}
}

func TestLoad_EmptyCellsDefaultToZero(t *testing.T) {
	s, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ooty, err := s.Lookup("ooty")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ooty.TrainKmRate != 0 || ooty.FlightBaseRate != 0 {
		t.Errorf("TrainKmRate, FlightBaseRate = %v, %v, want 0, 0", ooty.TrainKmRate, ooty.FlightBaseRate)
	}
	if ooty.TrainAvailable {
		t.Error("TrainAvailable = true, want false")
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, ErrDataFileMissing) {
		t.Errorf("missing file err = %v, want ErrDataFileMissing", err)
	}

	_, err = Load(writeCSV(t, ""))
	if !errors.Is(err, ErrDataFileEmpty) {
		t.Errorf("empty file err = %v, want ErrDataFileEmpty", err)
	}

	header := strings.SplitN(sampleCSV, "\n", 2)[0] + "\n"
	_, err = Load(writeCSV(t, header))
	if !errors.Is(err, ErrDataFileEmpty) {
		t.Errorf("header-only err = %v, want ErrDataFileEmpty", err)
	}

	_, err = Load(writeCSV(t, "city,lat\nX,1\n"))
	if err == nil {
		t.Error("expected error for missing columns")
	}
}

func TestLoad_MissingRateColumn(t *testing.T) {
	header := strings.SplitN(sampleCSV, "\n", 2)[0]
	cols := strings.Split(header, ",")
	for i, drop := range cols {
		if drop == "season" {
			continue
		}
		kept := append(append([]string{}, cols[:i]...), cols[i+1:]...)
		row := make([]string, len(kept))
		for j := range row {
			row[j] = "1"
		}
		csv := strings.Join(kept, ",") + "\n" + strings.Join(row, ",") + "\n"

		_, err := Load(writeCSV(t, csv))
		if err == nil {
			t.Fatalf("Load without %s: err = nil, want missing column", drop)
		}
		if !strings.Contains(err.Error(), drop) {
			t.Fatalf("Load without %s: err = %v, want it named", drop, err)
		}
	}
}

func TestLoad_SeasonColumnOptional(t *testing.T) {
	var b strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(sampleCSV), "\n") {
		cols := strings.Split(line, ",")
		b.WriteString(strings.Join(append(cols[:3:3], cols[4:]...), ","))
		b.WriteString("\n")
	}
	s, err := Load(writeCSV(t, b.String()))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
}

func TestLookup_UnknownCity(t *testing.T) {
	s, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := s.Lookup("Atlantis"); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("err = %v, want ErrCityNotFound", err)
	}
	if _, err := s.Distance("Chennai", "Atlantis"); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("Distance err = %v, want ErrCityNotFound", err)
	}
}

func TestDistance_ChennaiMadurai(t *testing.T) {
	s, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	d, err := s.Distance("Chennai", "Madurai")
	if err != nil {
		t.Fatalf("Distance: %v", err)
	}
	if math.Abs(d-421.4) > 5 {
		t.Errorf("Distance = %.1f km, want 421.4 +/- 5", d)
	}

	back, _ := s.Distance("Madurai", "Chennai")
	if math.Abs(back-d) > 1e-9 {
		t.Errorf("Distance not symmetric: %v vs %v", d, back)
	}
	self, _ := s.Distance("Chennai", "Chennai")
	if self != 0 {
		t.Errorf("self distance = %v, want 0", self)
	}
}

func TestLevels(t *testing.T) {
	s, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		field string
		want  []string
	}{
		{"city", []string{"Chennai", "Madurai", "Ooty"}},
		{"category", []string{"Beach", "Hill Station", "Temple"}},
		{"season", []string{"offpeak", "peak"}},
	}
	for _, tt := range tests {
		got := s.Levels(tt.field)
		if strings.Join(got, ",") != strings.Join(tt.want, ",") {
			t.Errorf("Levels(%q) = %v, want %v", tt.field, got, tt.want)
		}
	}
}

func TestFilterByDistrict(t *testing.T) {
	s, err := Load(writeCSV(t, sampleCSV))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	got := s.FilterByDistrict("nilg")
	if len(got) != 1 || got[0].City != "Ooty" {
		t.Fatalf("FilterByDistrict = %+v, want [Ooty]", got)
	}
}
