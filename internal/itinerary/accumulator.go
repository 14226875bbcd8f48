// Package itinerary folds per-day budget predictions into a trip.
package itinerary

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theirongolddev/wander/internal/model"
)

var (
	// ErrItineraryDone indicates Apply was called after the last day.
	ErrItineraryDone = errors.New("itinerary: already done")
	// ErrInvalidPlan indicates a day request is missing required fields.
	ErrInvalidPlan = errors.New("itinerary: invalid day plan")
	// ErrInvalidTrip indicates the trip parameters are out of bounds.
	ErrInvalidTrip = errors.New("itinerary: invalid trip")
)

// Predictor is the subset of the budget predictor an itinerary needs.
type Predictor interface {
	PredictBudget(city, season string, tier model.Tier) (model.Bundle, error)
	TransportCost(city, mode string, distanceKm float64) (float64, error)
	Distance(from, to string) (float64, error)
}

// Options holds the named cost constants and input bounds.
type Options struct {
	// StaySeason is the season used to price stay days.
	StaySeason string
	// TravelLocalTransport is the flat local transport fee added once per
	// travel day, not multiplied by headcount.
	TravelLocalTransport float64
	MaxPeople            int
	MaxDays              int
}

// DefaultOptions returns the standard constants.
func DefaultOptions() Options {
	return Options{
		StaySeason:           model.SeasonOffPeak,
		TravelLocalTransport: 500,
		MaxPeople:            20,
		MaxDays:              31,
	}
}

// Phase is the accumulator's state.
type Phase int

const (
	AwaitingDayPlan Phase = iota
	Done
)

func (p Phase) String() string {
	if p == Done {
		return "done"
	}
	return "awaiting_day_plan"
}

// State is the current phase and, while awaiting, the next day index.
type State struct {
	Phase Phase
	Day   int
}

// DayError reports a failed day with the city and tier involved.
type DayError struct {
	Day  int
	City string
	Tier model.Tier
	Err  error
}

func (e *DayError) Error() string {
	return fmt.Sprintf("day %d (%s, %s): %v", e.Day, e.City, e.Tier, e.Err)
}

func (e *DayError) Unwrap() error { return e.Err }

// Accumulator is the per-session itinerary state machine. It is not safe
// for concurrent use; give each session its own.
type Accumulator struct {
	pred   Predictor
	opts   Options
	tier   model.Tier
	people int
	days   int

	plans []model.DayPlan
	total float64
	done  bool
}

// New starts an itinerary of days days for people travellers.
func New(pred Predictor, tier model.Tier, people, days int, opts Options) (*Accumulator, error) {
	def := DefaultOptions()
	if opts.StaySeason == "" {
		opts.StaySeason = def.StaySeason
	}
	if opts.MaxPeople <= 0 {
		opts.MaxPeople = def.MaxPeople
	}
	if opts.MaxDays <= 0 {
		opts.MaxDays = def.MaxDays
	}

	if people < 1 || people > opts.MaxPeople {
		return nil, fmt.Errorf("%w: people must be 1..%d, got %d", ErrInvalidTrip, opts.MaxPeople, people)
	}
	if days < 1 || days > opts.MaxDays {
		return nil, fmt.Errorf("%w: days must be 1..%d, got %d", ErrInvalidTrip, opts.MaxDays, days)
	}

	return &Accumulator{
		pred:   pred,
		opts:   opts,
		tier:   model.ParseTier(string(tier)),
		people: people,
		days:   days,
	}, nil
}

// State returns the current state.
func (a *Accumulator) State() State {
	if a.done {
		return State{Phase: Done}
	}
	return State{Phase: AwaitingDayPlan, Day: len(a.plans) + 1}
}

// Apply prices the next day and appends it. On error nothing changes and
// the same day may be retried.
func (a *Accumulator) Apply(req model.DayRequest) (model.DayPlan, error) {
	st := a.State()
	if st.Phase == Done {
		return model.DayPlan{}, ErrItineraryDone
	}

	req = normalizeRequest(req)
	var (
		plan model.DayPlan
		err  error
	)
	switch req.Kind {
	case model.DayTravel:
		plan, err = a.travelDay(req)
	case model.DayStay:
		plan, err = a.stayDay(req)
	default:
		err = fmt.Errorf("%w: unknown kind %q", ErrInvalidPlan, req.Kind)
	}
	if err != nil {
		return model.DayPlan{}, &DayError{Day: st.Day, City: req.City(), Tier: a.tier, Err: err}
	}

	plan.Day = st.Day
	plan.Request = req
	a.plans = append(a.plans, plan)
	a.total += plan.Total
	if len(a.plans) == a.days {
		a.done = true
	}
	return plan, nil
}

func (a *Accumulator) travelDay(req model.DayRequest) (model.DayPlan, error) {
	if req.From == "" || req.To == "" {
		return model.DayPlan{}, fmt.Errorf("%w: travel day needs from and to", ErrInvalidPlan)
	}
	if req.Season == "" {
		return model.DayPlan{}, fmt.Errorf("%w: travel day needs a season", ErrInvalidPlan)
	}

	dist, err := a.pred.Distance(req.From, req.To)
	if err != nil {
		return model.DayPlan{}, err
	}
	b, err := a.pred.PredictBudget(req.From, req.Season, a.tier)
	if err != nil {
		return model.DayPlan{}, err
	}
	transport, err := a.pred.TransportCost(req.From, req.Mode, dist)
	if err != nil {
		return model.DayPlan{}, err
	}

	n := float64(a.people)
	return model.DayPlan{
		DistanceKm:     dist,
		Accommodation:  b.Hotel,
		Food:           b.Food,
		Transport:      transport,
		LocalTransport: a.opts.TravelLocalTransport,
		Total:          b.Hotel*n + b.Food*n + transport*n + a.opts.TravelLocalTransport,
	}, nil
}

func (a *Accumulator) stayDay(req model.DayRequest) (model.DayPlan, error) {
	if req.Stay == "" {
		return model.DayPlan{}, fmt.Errorf("%w: stay day needs a city", ErrInvalidPlan)
	}

	b, err := a.pred.PredictBudget(req.Stay, a.opts.StaySeason, a.tier)
	if err != nil {
		return model.DayPlan{}, err
	}

	n := float64(a.people)
	return model.DayPlan{
		Accommodation:  b.Hotel,
		Food:           b.Food,
		LocalTransport: b.LocalTransportUrban,
		Total:          b.Hotel*n + b.Food*n + b.LocalTransportUrban,
	}, nil
}

// Finish ends planning early. Days already applied are kept.
func (a *Accumulator) Finish() { a.done = true }

// Itinerary returns a snapshot of the trip so far.
func (a *Accumulator) Itinerary() model.Itinerary {
	plans := make([]model.DayPlan, len(a.plans))
	copy(plans, a.plans)
	return model.Itinerary{
		Tier:   a.tier,
		People: a.people,
		Days:   a.days,
		Plans:  plans,
		Total:  a.total,
	}
}

// Build prices every request in order. It stops at the first failing day
// and returns the partial itinerary alongside the error.
func Build(pred Predictor, reqs []model.DayRequest, tier model.Tier, people int, opts Options) (model.Itinerary, error) {
	acc, err := New(pred, tier, people, len(reqs), opts)
	if err != nil {
		return model.Itinerary{}, err
	}
	for _, r := range reqs {
		if _, err := acc.Apply(r); err != nil {
			return acc.Itinerary(), err
		}
	}
	return acc.Itinerary(), nil
}

func normalizeRequest(r model.DayRequest) model.DayRequest {
	r.Kind = model.DayKind(strings.ToLower(strings.TrimSpace(string(r.Kind))))
	r.From = strings.TrimSpace(r.From)
	r.To = strings.TrimSpace(r.To)
	r.Stay = strings.TrimSpace(r.Stay)
	r.Mode = strings.ToLower(strings.TrimSpace(r.Mode))
	r.Season = strings.ToLower(strings.TrimSpace(r.Season))
	return r
}
