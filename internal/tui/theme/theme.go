// Package theme defines color themes for the wander planner and browser.
package theme

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color roles used throughout the TUI.
type Theme struct {
	Name         string
	Surface      lipgloss.Color // Selected table row background
	Border       lipgloss.Color // Card and table borders
	BorderAccent lipgloss.Color // Focused borders
	TextDim      lipgloss.Color // Hints, disabled
	TextMuted    lipgloss.Color // Labels
	TextPrimary  lipgloss.Color
	Accent       lipgloss.Color
	Travel       lipgloss.Color // Travel days
	Stay         lipgloss.Color // Stay days
	Money        lipgloss.Color
	Warn         lipgloss.Color
	Error        lipgloss.Color
}

// Active is the currently selected theme.
var Active = FlexokiDark

// FlexokiDark is the default theme - warm, paper-inspired dark theme.
var FlexokiDark = Theme{
	Name:         "flexoki-dark",
	Surface:      lipgloss.Color("#282726"),
	Border:       lipgloss.Color("#403E3C"),
	BorderAccent: lipgloss.Color("#3AA99F"),
	TextDim:      lipgloss.Color("#575653"),
	TextMuted:    lipgloss.Color("#878580"),
	TextPrimary:  lipgloss.Color("#FFFCF0"),
	Accent:       lipgloss.Color("#3AA99F"),
	Travel:       lipgloss.Color("#4385BE"),
	Stay:         lipgloss.Color("#879A39"),
	Money:        lipgloss.Color("#A3B859"),
	Warn:         lipgloss.Color("#DA702C"),
	Error:        lipgloss.Color("#D14D41"),
}

// CatppuccinMocha is a warm pastel theme with soft, soothing colors.
var CatppuccinMocha = Theme{
	Name:         "catppuccin-mocha",
	Surface:      lipgloss.Color("#45475A"),
	Border:       lipgloss.Color("#585B70"),
	BorderAccent: lipgloss.Color("#89B4FA"),
	TextDim:      lipgloss.Color("#6C7086"),
	TextMuted:    lipgloss.Color("#A6ADC8"),
	TextPrimary:  lipgloss.Color("#CDD6F4"),
	Accent:       lipgloss.Color("#89B4FA"),
	Travel:       lipgloss.Color("#74C7EC"),
	Stay:         lipgloss.Color("#A6E3A1"),
	Money:        lipgloss.Color("#C6F6C1"),
	Warn:         lipgloss.Color("#FAB387"),
	Error:        lipgloss.Color("#F38BA8"),
}

// TokyoNight is a cool blue/purple theme.
var TokyoNight = Theme{
	Name:         "tokyo-night",
	Surface:      lipgloss.Color("#343A52"),
	Border:       lipgloss.Color("#565F89"),
	BorderAccent: lipgloss.Color("#7AA2F7"),
	TextDim:      lipgloss.Color("#565F89"),
	TextMuted:    lipgloss.Color("#A9B1D6"),
	TextPrimary:  lipgloss.Color("#C0CAF5"),
	Accent:       lipgloss.Color("#7AA2F7"),
	Travel:       lipgloss.Color("#7DCFFF"),
	Stay:         lipgloss.Color("#9ECE6A"),
	Money:        lipgloss.Color("#B9E87A"),
	Warn:         lipgloss.Color("#FF9E64"),
	Error:        lipgloss.Color("#F7768E"),
}

// Terminal uses ANSI 16 colors only.
var Terminal = Theme{
	Name:         "terminal",
	Surface:      lipgloss.Color("8"),
	Border:       lipgloss.Color("8"),
	BorderAccent: lipgloss.Color("6"),
	TextDim:      lipgloss.Color("8"),
	TextMuted:    lipgloss.Color("7"),
	TextPrimary:  lipgloss.Color("15"),
	Accent:       lipgloss.Color("6"),
	Travel:       lipgloss.Color("4"),
	Stay:         lipgloss.Color("2"),
	Money:        lipgloss.Color("10"),
	Warn:         lipgloss.Color("3"),
	Error:        lipgloss.Color("1"),
}

// All available themes.
var All = []Theme{FlexokiDark, CatppuccinMocha, TokyoNight, Terminal}

// Names lists the theme names in display order.
func Names() []string {
	out := make([]string, len(All))
	for i, t := range All {
		out[i] = t.Name
	}
	return out
}

// ByName returns a theme by its name, defaulting to FlexokiDark.
func ByName(name string) Theme {
	for _, t := range All {
		if t.Name == name {
			return t
		}
	}
	return FlexokiDark
}

// SetActive sets the active theme by name.
func SetActive(name string) {
	Active = ByName(name)
}

// Huh returns a form theme matching t.
func (t Theme) Huh() *huh.Theme {
	h := huh.ThemeBase()

	h.Focused.Base = h.Focused.Base.BorderForeground(t.BorderAccent)
	h.Focused.Title = h.Focused.Title.Foreground(t.Accent).Bold(true)
	h.Focused.Description = h.Focused.Description.Foreground(t.TextMuted)
	h.Focused.ErrorIndicator = h.Focused.ErrorIndicator.Foreground(t.Error)
	h.Focused.ErrorMessage = h.Focused.ErrorMessage.Foreground(t.Error)
	h.Focused.SelectSelector = h.Focused.SelectSelector.Foreground(t.Accent)
	h.Focused.Option = h.Focused.Option.Foreground(t.TextPrimary)
	h.Focused.SelectedOption = h.Focused.SelectedOption.Foreground(t.Stay)
	h.Focused.FocusedButton = h.Focused.FocusedButton.Foreground(t.TextPrimary).Background(t.Accent)
	h.Focused.BlurredButton = h.Focused.BlurredButton.Foreground(t.TextMuted).Background(t.Surface)
	h.Focused.TextInput.Prompt = h.Focused.TextInput.Prompt.Foreground(t.Accent)
	h.Focused.TextInput.Placeholder = h.Focused.TextInput.Placeholder.Foreground(t.TextDim)

	h.Blurred = h.Focused
	h.Blurred.Base = h.Blurred.Base.BorderStyle(lipgloss.HiddenBorder())
	h.Blurred.Title = h.Blurred.Title.Foreground(t.TextMuted).Bold(false)
	return h
}
