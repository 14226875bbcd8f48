// Package tui provides the interactive trip planner and itinerary browser.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/theirongolddev/wander/internal/cli"
	"github.com/theirongolddev/wander/internal/model"
	"github.com/theirongolddev/wander/internal/pipeline"
	"github.com/theirongolddev/wander/internal/tui/components"
	"github.com/theirongolddev/wander/internal/tui/theme"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	minWidth      = 60
	defaultWidth  = 100
	defaultHeight = 30
)

// SaveFunc persists an itinerary and returns it with its assigned ID.
type SaveFunc func(model.Itinerary) (model.Itinerary, error)

// savedMsg reports the outcome of a save.
type savedMsg struct {
	it  model.Itinerary
	err error
}

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Detail key.Binding
	Save   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Detail, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Detail, k.Save}, {k.Help, k.Quit}}
}

func defaultKeys() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Detail: key.NewBinding(key.WithKeys("enter", "tab"), key.WithHelp("enter", "day/summary")),
		Save:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save trip")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// Browser is the Bubble Tea model that shows a priced itinerary.
type Browser struct {
	it      model.Itinerary
	summary model.TripSummary

	table      table.Model
	keys       keyMap
	help       help.Model
	showDetail bool

	width  int
	height int

	save      SaveFunc
	saving    bool
	status    string
	statusErr bool
}

// NewBrowser creates a browser for it. save may be nil, which disables
// saving.
func NewBrowser(it model.Itinerary, save SaveFunc) Browser {
	b := Browser{
		it:      it,
		summary: pipeline.Summarize(it),
		keys:    defaultKeys(),
		help:    help.New(),
		width:   defaultWidth,
		height:  defaultHeight,
		save:    save,
	}
	if save == nil {
		b.keys.Save.SetEnabled(false)
	}
	if it.ID != "" {
		b.status = "saved as " + shortID(it.ID)
	}

	b.table = table.New(
		table.WithColumns(columns(b.width)),
		table.WithRows(rows(it)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(b.height, len(it.Plans))),
	)
	b.table.SetStyles(tableStyles())
	return b
}

// Itinerary returns the itinerary, including its ID once saved.
func (b Browser) Itinerary() model.Itinerary { return b.it }

// Init implements tea.Model.
func (b Browser) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.width, b.height = msg.Width, msg.Height
		b.help.Width = msg.Width
		b.table.SetColumns(columns(b.contentWidth()))
		b.table.SetHeight(tableHeight(b.height, len(b.it.Plans)))
		return b, nil

	case savedMsg:
		b.saving = false
		if msg.err != nil {
			b.status, b.statusErr = "save failed: "+msg.err.Error(), true
			return b, nil
		}
		b.it = msg.it
		b.status, b.statusErr = "saved as "+shortID(msg.it.ID), false
		b.keys.Save.SetEnabled(false)
		return b, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keys.Quit):
			return b, tea.Quit
		case key.Matches(msg, b.keys.Help):
			b.help.ShowAll = !b.help.ShowAll
			return b, nil
		case key.Matches(msg, b.keys.Detail):
			b.showDetail = !b.showDetail
			return b, nil
		case key.Matches(msg, b.keys.Save):
			if b.saving {
				return b, nil
			}
			b.saving = true
			b.status, b.statusErr = "saving...", false
			return b, saveCmd(b.save, b.it)
		}
	}

	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

func saveCmd(save SaveFunc, it model.Itinerary) tea.Cmd {
	return func() tea.Msg {
		saved, err := save(it)
		return savedMsg{it: saved, err: err}
	}
}

func (b Browser) contentWidth() int {
	if b.width < minWidth {
		return minWidth
	}
	return b.width
}

// View implements tea.Model.
func (b Browser) View() string {
	t := theme.Active
	w := b.contentWidth()

	title := b.it.Name
	if title == "" {
		title = "Your trip"
	}
	header := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Render(" "+title) +
		lipgloss.NewStyle().Foreground(t.TextMuted).Render(fmt.Sprintf("  %s · %d traveller(s) · %d/%d days",
			b.it.Tier, b.it.People, len(b.it.Plans), b.it.Days))

	metrics := components.MetricRow([]components.Metric{
		{Label: "Total", Value: cli.FormatCurrency(b.summary.Total)},
		{Label: "Per person", Value: cli.FormatCurrency(b.summary.PerPerson)},
		{Label: "Per day", Value: cli.FormatCurrency(b.summary.PerDay)},
		{Label: "Distance", Value: cli.FormatKm(b.summary.DistanceKm),
			Note: fmt.Sprintf("%d travel · %d stay", b.summary.TravelDays, b.summary.StayDays)},
	}, w)

	var panel string
	if b.showDetail {
		panel = components.ContentCard("Day detail", b.dayDetail(), w)
	} else {
		panel = components.ContentCard("By city", b.breakdown(components.CardInnerWidth(w)), w)
	}

	status := components.RenderStatusBar(w, " "+b.help.View(b.keys), b.status+" ", b.statusErr)

	return lipgloss.JoinVertical(lipgloss.Left,
		header, metrics, b.table.View(), panel, status)
}

func (b Browser) dayDetail() string {
	idx := b.table.Cursor()
	if idx < 0 || idx >= len(b.it.Plans) {
		return "No day selected."
	}
	p := b.it.Plans[idx]
	pairs := [][2]string{
		{"Day", strconv.Itoa(p.Day)},
		{"Plan", describeDay(p)},
		{"Accommodation", cli.FormatCurrency(p.Accommodation) + " per person"},
		{"Food", cli.FormatCurrency(p.Food) + " per person"},
	}
	if p.Request.Kind == model.DayTravel {
		pairs = append(pairs,
			[2]string{"Season", p.Request.Season},
			[2]string{"Transport", cli.FormatCurrency(p.Transport) + " per person"})
	}
	pairs = append(pairs,
		[2]string{"Local transport", cli.FormatCurrency(p.LocalTransport)},
		[2]string{"Day total", cli.FormatCurrency(p.Total)})
	return strings.TrimRight(cli.RenderKeyValues(pairs), "\n")
}

func (b Browser) breakdown(width int) string {
	s := b.summary
	if s.Total <= 0 {
		return "Nothing planned yet."
	}
	bar := width - 30
	if bar < 10 {
		bar = 10
	}

	var lines []string
	for _, ct := range s.ByCity {
		label := fmt.Sprintf("%s (%dd)", ct.City, ct.Days)
		lines = append(lines, cli.RenderShareBar(label, ct.Share, bar))
	}
	lines = append(lines, "",
		fmt.Sprintf("  Per person: stay %s · food %s · transport %s",
			cli.FormatCurrency(s.Accommodation), cli.FormatCurrency(s.Food), cli.FormatCurrency(s.Transport)))
	if s.PriciestDay > 0 {
		lines = append(lines,
			fmt.Sprintf("  Priciest day: %d (%s)", s.PriciestDay, cli.FormatCurrency(s.PriciestTotal)))
	}
	return strings.Join(lines, "\n")
}

func columns(width int) []table.Column {
	fixed := 4 + 7 + 10 + 12 + 12
	route := width - fixed - 12 // cell padding and borders
	if route < 16 {
		route = 16
	}
	return []table.Column{
		{Title: "Day", Width: 4},
		{Title: "Kind", Width: 7},
		{Title: "Route", Width: route},
		{Title: "Distance", Width: 10},
		{Title: "Transport", Width: 12},
		{Title: "Total", Width: 12},
	}
}

func rows(it model.Itinerary) []table.Row {
	out := make([]table.Row, 0, len(it.Plans))
	for _, p := range it.Plans {
		route := p.Request.Stay
		if p.Request.Kind == model.DayTravel {
			route = fmt.Sprintf("%s → %s (%s)", p.Request.From, p.Request.To, p.Request.Mode)
		}
		out = append(out, table.Row{
			strconv.Itoa(p.Day),
			string(p.Request.Kind),
			route,
			cli.FormatKm(p.DistanceKm),
			cli.FormatCurrency(p.Transport),
			cli.FormatCurrency(p.Total),
		})
	}
	return out
}

// tableHeight leaves room for the header, cards, panel and status bar.
func tableHeight(height, n int) int {
	h := height - 20
	if h > n+1 {
		h = n + 1
	}
	if h < 3 {
		h = 3
	}
	return h
}

func tableStyles() table.Styles {
	t := theme.Active
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(t.Border).
		BorderBottom(true).
		Foreground(t.Accent).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(t.TextPrimary).
		Background(t.Surface).
		Bold(false)
	s.Cell = s.Cell.Foreground(t.TextPrimary)
	return s
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
