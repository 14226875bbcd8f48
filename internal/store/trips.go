// Package store persists saved itineraries in sqlite or postgres.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/wander/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // register postgres driver
	_ "modernc.org/sqlite" // register sqlite driver
)

// ErrTripNotFound indicates no saved trip has the requested ID.
var ErrTripNotFound = errors.New("store: trip not found")

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// Store provides saved-trip persistence.
type Store struct {
	db *sqlx.DB
}

// Open opens or creates the trips database. driver is "sqlite" (dsn is a
// file path) or "postgres" (dsn is a connection URL).
func Open(driver, dsn string) (*Store, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch driver {
	case "", "sqlite":
		if err := os.MkdirAll(filepath.Dir(dsn), 0o750); err != nil {
			return nil, fmt.Errorf("creating store dir: %w", err)
		}
		db, err = sqlx.Open("sqlite", dsn+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	case "postgres":
		db, err = sqlx.Open("postgres", dsn)
	default:
		return nil, fmt.Errorf("unknown store driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

type tripRow struct {
	TripID        string  `db:"trip_id"`
	Name          string  `db:"name"`
	Tier          string  `db:"tier"`
	People        int     `db:"people"`
	DaysRequested int     `db:"days_requested"`
	Total         float64 `db:"total"`
	CreatedAt     string  `db:"created_at"`
}

type dayRow struct {
	TripID         string  `db:"trip_id"`
	Day            int     `db:"day"`
	Kind           string  `db:"kind"`
	FromCity       string  `db:"from_city"`
	ToCity         string  `db:"to_city"`
	StayCity       string  `db:"stay_city"`
	Season         string  `db:"season"`
	Mode           string  `db:"mode"`
	DistanceKm     float64 `db:"distance_km"`
	Accommodation  float64 `db:"accommodation"`
	Food           float64 `db:"food"`
	Transport      float64 `db:"transport"`
	LocalTransport float64 `db:"local_transport"`
	Total          float64 `db:"total"`
}

// SaveTrip stores an itinerary, assigning an ID and creation time when
// missing. Saving an existing ID replaces it.
func (s *Store) SaveTrip(ctx context.Context, it model.Itinerary) (model.Itinerary, error) {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	if it.CreatedAt.IsZero() {
		it.CreatedAt = time.Now().UTC().Truncate(time.Second)
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return it, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM trip_days WHERE trip_id = ?"), it.ID); err != nil {
		return it, err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM trips WHERE trip_id = ?"), it.ID); err != nil {
		return it, err
	}

	_, err = tx.NamedExecContext(ctx, `INSERT INTO trips
		(trip_id, name, tier, people, days_requested, total, created_at)
		VALUES (:trip_id, :name, :tier, :people, :days_requested, :total, :created_at)`,
		tripRow{
			TripID:        it.ID,
			Name:          it.Name,
			Tier:          string(it.Tier),
			People:        it.People,
			DaysRequested: it.Days,
			Total:         it.Total,
			CreatedAt:     it.CreatedAt.UTC().Format(time.RFC3339),
		})
	if err != nil {
		return it, err
	}

	for _, p := range it.Plans {
		_, err = tx.NamedExecContext(ctx, `INSERT INTO trip_days
			(trip_id, day, kind, from_city, to_city, stay_city, season, mode,
			 distance_km, accommodation, food, transport, local_transport, total)
			VALUES (:trip_id, :day, :kind, :from_city, :to_city, :stay_city, :season, :mode,
			 :distance_km, :accommodation, :food, :transport, :local_transport, :total)`,
			dayRow{
				TripID:         it.ID,
				Day:            p.Day,
				Kind:           string(p.Request.Kind),
				FromCity:       p.Request.From,
				ToCity:         p.Request.To,
				StayCity:       p.Request.Stay,
				Season:         p.Request.Season,
				Mode:           p.Request.Mode,
				DistanceKm:     p.DistanceKm,
				Accommodation:  p.Accommodation,
				Food:           p.Food,
				Transport:      p.Transport,
				LocalTransport: p.LocalTransport,
				Total:          p.Total,
			})
		if err != nil {
			return it, err
		}
	}

	return it, tx.Commit()
}

// GetTrip loads one itinerary with its days.
func (s *Store) GetTrip(ctx context.Context, id string) (model.Itinerary, error) {
	var tr tripRow
	err := s.db.GetContext(ctx, &tr, s.db.Rebind(`SELECT
		trip_id, name, tier, people, days_requested, total, created_at
		FROM trips WHERE trip_id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Itinerary{}, fmt.Errorf("%w: %s", ErrTripNotFound, id)
		}
		return model.Itinerary{}, err
	}

	var days []dayRow
	err = s.db.SelectContext(ctx, &days, s.db.Rebind(`SELECT
		trip_id, day, kind, from_city, to_city, stay_city, season, mode,
		distance_km, accommodation, food, transport, local_transport, total
		FROM trip_days WHERE trip_id = ? ORDER BY day`), id)
	if err != nil {
		return model.Itinerary{}, err
	}

	it := tr.itinerary()
	it.Plans = make([]model.DayPlan, 0, len(days))
	for _, d := range days {
		it.Plans = append(it.Plans, model.DayPlan{
			Day: d.Day,
			Request: model.DayRequest{
				Kind:   model.DayKind(d.Kind),
				From:   d.FromCity,
				To:     d.ToCity,
				Stay:   d.StayCity,
				Season: d.Season,
				Mode:   d.Mode,
			},
			DistanceKm:     d.DistanceKm,
			Accommodation:  d.Accommodation,
			Food:           d.Food,
			Transport:      d.Transport,
			LocalTransport: d.LocalTransport,
			Total:          d.Total,
		})
	}
	return it, nil
}

// ListTrips returns every saved trip without its days, newest first.
func (s *Store) ListTrips(ctx context.Context) ([]model.Itinerary, error) {
	var rows []tripRow
	err := s.db.SelectContext(ctx, &rows, `SELECT
		trip_id, name, tier, people, days_requested, total, created_at
		FROM trips ORDER BY created_at DESC, trip_id`)
	if err != nil {
		return nil, err
	}

	out := make([]model.Itinerary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.itinerary())
	}
	return out, nil
}

// DeleteTrip removes a trip and its days.
func (s *Store) DeleteTrip(ctx context.Context, id string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM trip_days WHERE trip_id = ?"), id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM trips WHERE trip_id = ?"), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrTripNotFound, id)
	}
	return tx.Commit()
}

// TripCount returns the number of saved trips.
func (s *Store) TripCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM trips")
	return count, err
}

func (r tripRow) itinerary() model.Itinerary {
	it := model.Itinerary{
		ID:     r.TripID,
		Name:   r.Name,
		Tier:   model.Tier(r.Tier),
		People: r.People,
		Days:   r.DaysRequested,
		Total:  r.Total,
	}
	if r.CreatedAt != "" {
		it.CreatedAt, _ = time.Parse(time.RFC3339, r.CreatedAt)
	}
	return it
}
