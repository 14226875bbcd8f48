package pipeline

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/wander/internal/config"
	"github.com/theirongolddev/wander/internal/estimator"
	"github.com/theirongolddev/wander/internal/features"
	"github.com/theirongolddev/wander/internal/model"

	"go.uber.org/zap"
)

// Predictor produces budget bundles and transport costs from a Runtime.
// It is safe for concurrent use.
type Predictor struct {
	rt     *Runtime
	recon  *features.Reconstructor
	tariff config.TariffConfig
	log    *zap.Logger
}

// NewPredictor binds a predictor to rt.
func NewPredictor(rt *Runtime, tariff config.TariffConfig, log *zap.Logger) *Predictor {
	if log == nil {
		log = zap.NewNop()
	}
	return &Predictor{
		rt:     rt,
		recon:  features.NewReconstructor(rt.Cities, rt.Universe, rt.Scaler, log),
		tariff: tariff.Normalized(),
		log:    log,
	}
}

// Runtime returns the underlying runtime.
func (p *Predictor) Runtime() *Runtime { return p.rt }

// Tariff returns the transport tariff in use.
func (p *Predictor) Tariff() config.TariffConfig { return p.tariff }

// targets returns the four registry keys for a tier, in bundle order.
func targets(tier model.Tier) [4]string {
	return [4]string{
		estimator.TargetKey(estimator.Hotel, tier),
		estimator.TargetKey(estimator.Food, tier),
		estimator.LocalTransportUrban,
		estimator.LocalTransportRural,
	}
}

// PredictBudget returns the four cost components for (city, season, tier).
// Either every target succeeds or an error is returned.
func (p *Predictor) PredictBudget(city, season string, tier model.Tier) (model.Bundle, error) {
	tier = model.ParseTier(string(tier))

	// Resolve every estimator before doing any work so an unsupported tier
	// fails the same way regardless of the city.
	keys := targets(tier)
	var ests [4]estimator.Estimator
	for i, k := range keys {
		e, err := p.rt.Registry.Lookup(k)
		if err != nil {
			return model.Bundle{}, fmt.Errorf("tier %q: %w", tier, err)
		}
		ests[i] = e
	}

	vec, err := p.recon.Build(city, season)
	if err != nil {
		return model.Bundle{}, err
	}

	var out [4]float64
	for i, e := range ests {
		row, err := estimator.Reindex(vec, e.Schema())
		if err != nil {
			return model.Bundle{}, fmt.Errorf("reindexing for %s: %w", keys[i], err)
		}
		y, err := e.Predict(row)
		if err != nil {
			return model.Bundle{}, fmt.Errorf("predicting %s for %s: %w", keys[i], city, err)
		}
		if y < 0 {
			p.log.Warn("negative prediction clamped to zero",
				zap.String("target", keys[i]),
				zap.String("city", city),
				zap.Float64("raw", y),
			)
			y = 0
		}
		out[i] = y
	}

	rec, _ := p.rt.Cities.Lookup(city)
	return model.Bundle{
		City:                rec.City,
		Season:              normalizeSeason(season),
		Tier:                tier,
		Hotel:               out[0],
		Food:                out[1],
		LocalTransportUrban: out[2],
		LocalTransportRural: out[3],
	}, nil
}

// CityBundle pairs a city with its prediction or error.
type CityBundle struct {
	City   string
	Bundle model.Bundle
	Err    error
}

// ProgressFunc is called as predictions complete.
type ProgressFunc func(current, total int)

// PredictAll predicts every city in parallel with a bounded worker pool.
// Results keep the order of cities.
func (p *Predictor) PredictAll(cities []string, season string, tier model.Tier, progressFn ProgressFunc) []CityBundle {
	results := make([]CityBundle, len(cities))
	if len(cities) == 0 {
		return results
	}

	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(cities) {
		numWorkers = len(cities)
	}

	work := make(chan int, len(cities))
	for i := range cities {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	var processed atomic.Int64

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				b, err := p.PredictBudget(cities[idx], season, tier)
				results[idx] = CityBundle{City: cities[idx], Bundle: b, Err: err}
				n := processed.Add(1)
				if progressFn != nil {
					progressFn(int(n), len(cities))
				}
			}
		}()
	}
	wg.Wait()

	return results
}
