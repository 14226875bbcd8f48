package tui

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/theirongolddev/wander/internal/cli"
	"github.com/theirongolddev/wander/internal/itinerary"
	"github.com/theirongolddev/wander/internal/model"

	"github.com/charmbracelet/huh"
)

// TripValues are the trip-level answers bound to the first form.
type TripValues struct {
	Name   string
	Tier   string
	People string
	Days   string
}

// Parse converts the answers into typed trip parameters.
func (v TripValues) Parse() (model.Tier, int, int, error) {
	people, err := strconv.Atoi(strings.TrimSpace(v.People))
	if err != nil {
		return "", 0, 0, fmt.Errorf("people: %w", err)
	}
	days, err := strconv.Atoi(strings.TrimSpace(v.Days))
	if err != nil {
		return "", 0, 0, fmt.Errorf("days: %w", err)
	}
	return model.ParseTier(v.Tier), people, days, nil
}

// DayValues are one day's answers.
type DayValues struct {
	Kind   string
	From   string
	To     string
	Season string
	Mode   string
	Stay   string
}

// Request converts the answers into a day request. Fields that do not
// apply to the chosen kind are dropped.
func (v DayValues) Request() model.DayRequest {
	if model.DayKind(v.Kind) == model.DayStay {
		return model.DayRequest{Kind: model.DayStay, Stay: v.Stay}
	}
	return model.DayRequest{
		Kind:   model.DayTravel,
		From:   v.From,
		To:     v.To,
		Season: v.Season,
		Mode:   v.Mode,
	}
}

// next seeds the following day: after travelling, the traveller is at the
// destination.
func (v DayValues) next() DayValues {
	n := v
	if model.DayKind(v.Kind) == model.DayTravel && v.To != "" {
		n.From, n.Stay, n.To = v.To, v.To, ""
	}
	return n
}

func intBetween(lo, hi int) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return errors.New("enter a whole number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("must be between %d and %d", lo, hi)
		}
		return nil
	}
}

// TripForm asks for the trip name, tier, headcount and length.
func TripForm(v *TripValues, maxPeople, maxDays int) *huh.Form {
	tiers := make([]huh.Option[string], len(model.Tiers))
	for i, t := range model.Tiers {
		tiers[i] = huh.NewOption(capitalize(string(t)), string(t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Trip name").
				Placeholder("optional").
				Value(&v.Name),
			huh.NewSelect[string]().
				Title("Budget tier").
				Options(tiers...).
				Value(&v.Tier),
			huh.NewInput().
				Title("Travellers").
				Validate(intBetween(1, maxPeople)).
				Value(&v.People),
			huh.NewInput().
				Title("Days").
				Validate(intBetween(1, maxDays)).
				Value(&v.Days),
		),
	)
}

// DayForm asks how day n of total is spent. Only the group matching the
// chosen kind is shown.
func DayForm(n, total int, v *DayValues, cities, seasons, modes []string) *huh.Form {
	isTravel := func() bool { return model.DayKind(v.Kind) == model.DayTravel }

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title(fmt.Sprintf("Day %d of %d", n, total)).
				Options(
					huh.NewOption("Travel to another city", string(model.DayTravel)),
					huh.NewOption("Stay and explore", string(model.DayStay)),
				).
				Value(&v.Kind),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("From").
				Options(huh.NewOptions(cities...)...).
				Height(8).
				Value(&v.From),
			huh.NewSelect[string]().
				Title("To").
				Options(huh.NewOptions(cities...)...).
				Height(8).
				Validate(func(s string) error {
					if strings.EqualFold(s, v.From) {
						return errors.New("destination must differ from origin")
					}
					return nil
				}).
				Value(&v.To),
			huh.NewSelect[string]().
				Title("Season").
				Options(huh.NewOptions(seasons...)...).
				Value(&v.Season),
			huh.NewSelect[string]().
				Title("Mode").
				Options(huh.NewOptions(modes...)...).
				Value(&v.Mode),
		).WithHideFunc(func() bool { return !isTravel() }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Staying in").
				Options(huh.NewOptions(cities...)...).
				Height(8).
				Value(&v.Stay),
		).WithHideFunc(isTravel),
	)
}

// ContinueForm asks whether to keep planning after day n.
func ContinueForm(n, total int, cont *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Continue planning?").
				Description(fmt.Sprintf("%d of %d days planned", n, total)).
				Affirmative("Next day").
				Negative("Finish").
				Value(cont),
		),
	)
}

// Planner drives the interactive trip planner.
type Planner struct {
	Pred    itinerary.Predictor
	Cities  []string
	Seasons []string
	Modes   []string
	Options itinerary.Options
	Theme   *huh.Theme
	Out     io.Writer

	// Defaults pre-fill the trip form.
	Defaults TripValues
}

// Run collects a trip and prices each day as it is entered. A rejected
// day is reported and asked again. If the user aborts, the days planned
// so far are returned with huh.ErrUserAborted.
func (p *Planner) Run() (model.Itinerary, error) {
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	tv := p.Defaults
	if tv.Tier == "" {
		tv.Tier = string(model.TierBudget)
	}
	if err := p.run(TripForm(&tv, p.Options.MaxPeople, p.Options.MaxDays)); err != nil {
		return model.Itinerary{}, err
	}
	tier, people, days, err := tv.Parse()
	if err != nil {
		return model.Itinerary{}, err
	}

	acc, err := itinerary.New(p.Pred, tier, people, days, p.Options)
	if err != nil {
		return model.Itinerary{}, err
	}

	dv := DayValues{Kind: string(model.DayTravel), Season: model.SeasonPeak}
	if len(p.Modes) > 0 {
		dv.Mode = p.Modes[0]
	}

	for acc.State().Phase == itinerary.AwaitingDayPlan {
		n := acc.State().Day
		if err := p.run(DayForm(n, days, &dv, p.Cities, p.Seasons, p.Modes)); err != nil {
			return p.finish(acc, tv.Name), err
		}

		plan, err := acc.Apply(dv.Request())
		if err != nil {
			fmt.Fprintf(out, "  %s\n", cli.RenderWarning(err.Error()))
			continue
		}
		fmt.Fprintf(out, "  %s\n", describeDay(plan))
		dv = dv.next()

		if acc.State().Phase == itinerary.Done {
			break
		}
		cont := true
		if err := p.run(ContinueForm(n, days, &cont)); err != nil {
			return p.finish(acc, tv.Name), err
		}
		if !cont {
			acc.Finish()
		}
	}

	return p.finish(acc, tv.Name), nil
}

func (p *Planner) run(f *huh.Form) error {
	if p.Theme != nil {
		f = f.WithTheme(p.Theme)
	}
	return f.Run()
}

func (p *Planner) finish(acc *itinerary.Accumulator, name string) model.Itinerary {
	it := acc.Itinerary()
	it.Name = strings.TrimSpace(name)
	return it
}

// describeDay renders a one-line summary of a priced day.
func describeDay(p model.DayPlan) string {
	r := p.Request
	if r.Kind == model.DayStay {
		return fmt.Sprintf("Day %d  stay in %s  %s", p.Day, r.Stay, cli.FormatCurrency(p.Total))
	}
	return fmt.Sprintf("Day %d  %s → %s by %s (%s)  %s",
		p.Day, r.From, r.To, r.Mode, cli.FormatKm(p.DistanceKm), cli.FormatCurrency(p.Total))
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
