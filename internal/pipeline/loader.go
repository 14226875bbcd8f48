// Package pipeline wires the reference data, feature reconstruction and
// model registry into budget predictions and trip summaries.
package pipeline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/theirongolddev/wander/internal/estimator"
	"github.com/theirongolddev/wander/internal/features"
	"github.com/theirongolddev/wander/internal/reference"

	"go.uber.org/zap"
)

// Paths locates the three offline-produced data files.
type Paths struct {
	Cities string
	Scaler string
	Models string
}

// Runtime is the process-wide prediction state. It is built once at start
// and never mutated, so one Runtime may serve any number of sessions.
type Runtime struct {
	Cities   *reference.Store
	Scaler   *features.Scaler
	Registry *estimator.Registry
	Universe features.Universe

	// Degraded is set when the scaler could not be loaded and numeric
	// features are passed through unscaled.
	Degraded bool
	LoadedAt time.Time
	LoadTime time.Duration

	CityRows        int
	DuplicateRows   int
	UniverseDerived bool
}

// NewRuntime assembles a runtime from already-loaded parts. The category
// universe comes from the registry when it carries one, otherwise it is
// derived from the reference data.
func NewRuntime(cities *reference.Store, scaler *features.Scaler, registry *estimator.Registry) *Runtime {
	rt := &Runtime{
		Cities:   cities,
		Scaler:   scaler,
		Registry: registry,
		LoadedAt: time.Now(),
	}
	if u, ok := registry.Universe(); ok {
		rt.Universe = u
	} else {
		rt.Universe = features.DeriveUniverse(cities)
		rt.UniverseDerived = true
	}
	return rt
}

// Load reads the city dataset, scaler and models concurrently. A missing or
// empty dataset and an unreadable model file are fatal. An unreadable scaler
// puts the runtime in degraded mode and logs a warning.
func Load(paths Paths, log *zap.Logger) (*Runtime, error) {
	if log == nil {
		log = zap.NewNop()
	}
	start := time.Now()

	var (
		wg        sync.WaitGroup
		cityRes   *reference.LoadResult
		scaler    *features.Scaler
		registry  *estimator.Registry
		cityErr   error
		scalerErr error
		modelErr  error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		cityRes, cityErr = reference.LoadFile(paths.Cities)
	}()
	go func() {
		defer wg.Done()
		scaler, scalerErr = features.LoadScaler(paths.Scaler)
	}()
	go func() {
		defer wg.Done()
		registry, modelErr = estimator.Load(paths.Models)
	}()
	wg.Wait()

	if cityErr != nil {
		return nil, fmt.Errorf("loading city data: %w", cityErr)
	}
	if modelErr != nil {
		return nil, fmt.Errorf("loading models: %w", modelErr)
	}

	degraded := false
	if scalerErr != nil {
		if !errors.Is(scalerErr, features.ErrScalerUnavailable) {
			return nil, fmt.Errorf("loading scaler: %w", scalerErr)
		}
		log.Warn("scaler unavailable, numeric features will be unscaled",
			zap.String("path", paths.Scaler),
			zap.Error(scalerErr),
		)
		scaler = features.NewScaler(nil)
		degraded = true
	}

	rt := NewRuntime(reference.New(cityRes.Records, cityRes.Seasons), scaler, registry)
	rt.Degraded = degraded
	rt.CityRows = cityRes.Rows
	rt.DuplicateRows = cityRes.Duplicate
	rt.LoadTime = time.Since(start)

	log.Info("prediction runtime loaded",
		zap.Int("cities", rt.Cities.Len()),
		zap.Int("targets", len(registry.Targets())),
		zap.Int("scaled_features", scaler.Len()),
		zap.Bool("universe_derived", rt.UniverseDerived),
		zap.Bool("degraded", degraded),
		zap.Duration("took", rt.LoadTime),
	)
	return rt, nil
}
