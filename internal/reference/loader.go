package reference

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/theirongolddev/wander/internal/model"
)

var (
	// ErrDataFileMissing indicates the reference dataset does not exist.
	ErrDataFileMissing = errors.New("reference: data file missing")
	// ErrDataFileEmpty indicates the reference dataset has no usable rows.
	ErrDataFileEmpty = errors.New("reference: data file empty")
)

// requiredColumns must be present in the header. An empty cell in a rate or
// availability column reads as zero; a missing column is an error. Season is
// the only optional column.
var requiredColumns = []string{
	"city", "district", "category", "lat", "lng",
	"bus_km_rate", "train_km_rate", "flight_base_rate",
	"local_transport_urban", "local_transport_rural",
	"bus_available", "train_available", "flight_available",
}

// LoadResult holds the parsed dataset plus counters for reporting.
type LoadResult struct {
	Records   []model.CityRecord
	Seasons   []string
	Rows      int
	Skipped   int
	Duplicate int
}

// LoadFile reads the city dataset at path.
func LoadFile(path string) (*LoadResult, error) {
	f, err := os.Open(path) //nolint:gosec // path comes from config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDataFileMissing, path)
		}
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	res, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return res, nil
}

// Parse reads CSV rows into city records. The first row seen for a city
// wins; later rows only contribute season levels.
func Parse(r io.Reader) (*LoadResult, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrDataFileEmpty
		}
		return nil, fmt.Errorf("parsing header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return nil, fmt.Errorf("missing column %q", c)
		}
	}

	res := &LoadResult{}
	seen := make(map[string]struct{})
	seasons := make(map[string]struct{})

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing row %d: %w", res.Rows+2, err)
		}
		res.Rows++

		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		if s := strings.ToLower(get("season")); s != "" {
			seasons[s] = struct{}{}
		}

		city := get("city")
		if city == "" {
			res.Skipped++
			continue
		}
		key := normalize(city)
		if _, dup := seen[key]; dup {
			res.Duplicate++
			continue
		}

		rec, err := parseRecord(get)
		if err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", res.Rows+1, city, err)
		}
		seen[key] = struct{}{}
		res.Records = append(res.Records, rec)
	}

	if len(res.Records) == 0 {
		return nil, ErrDataFileEmpty
	}

	for s := range seasons {
		res.Seasons = append(res.Seasons, s)
	}
	return res, nil
}

func parseRecord(get func(string) string) (model.CityRecord, error) {
	rec := model.CityRecord{
		City:     get("city"),
		District: get("district"),
		Category: get("category"),
	}

	floats := []struct {
		col string
		dst *float64
	}{
		{"lat", &rec.Lat},
		{"lng", &rec.Lng},
		{"bus_km_rate", &rec.BusKmRate},
		{"train_km_rate", &rec.TrainKmRate},
		{"flight_base_rate", &rec.FlightBaseRate},
		{"local_transport_urban", &rec.LocalTransportUrban},
		{"local_transport_rural", &rec.LocalTransportRural},
	}
	for _, f := range floats {
		v, err := parseFloat(get(f.col))
		if err != nil {
			return rec, fmt.Errorf("column %s: %w", f.col, err)
		}
		*f.dst = v
	}

	rec.BusAvailable = parseFlag(get("bus_available"))
	rec.TrainAvailable = parseFlag(get("train_available"))
	rec.FlightAvailable = parseFlag(get("flight_available"))
	return rec, nil
}

func parseFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "1.0", "true", "yes", "y", "t":
		return true
	}
	return false
}
