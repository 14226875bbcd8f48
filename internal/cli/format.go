// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatCurrency formats a rupee amount with Indian digit grouping.
// e.g., 1234567.8 -> "₹12,34,568", 99.5 -> "₹99.50"
func FormatCurrency(amount float64) string {
	if amount < 0 {
		return "-" + FormatCurrency(-amount)
	}
	if amount < 100 {
		return fmt.Sprintf("₹%.2f", amount)
	}
	return "₹" + FormatIndian(int64(math.Round(amount)))
}

// FormatIndian groups digits the Indian way: the last three, then pairs.
// e.g., 1234567 -> "12,34,567"
func FormatIndian(n int64) string {
	if n < 0 {
		return "-" + FormatIndian(-n)
	}
	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	head, tail := s[:len(s)-3], s[len(s)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatKm formats a distance.
func FormatKm(km float64) string {
	switch {
	case km <= 0:
		return "-"
	case km >= 100:
		return FormatNumber(int64(math.Round(km))) + " km"
	default:
		return fmt.Sprintf("%.1f km", km)
	}
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatTemp formats a temperature for the given unit system.
func FormatTemp(t float64, units string) string {
	switch units {
	case "imperial":
		return fmt.Sprintf("%.1f°F", t)
	case "standard":
		return fmt.Sprintf("%.1fK", t)
	}
	return fmt.Sprintf("%.1f°C", t)
}

// FormatRating renders a 0-5 rating with its review count.
func FormatRating(rating float64, count int) string {
	if rating <= 0 {
		return "-"
	}
	if count <= 0 {
		return fmt.Sprintf("%.1f★", rating)
	}
	return fmt.Sprintf("%.1f★ (%s)", rating, FormatNumber(int64(count)))
}

// FormatDate renders t as a short local date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("02 Jan 2006 15:04")
}

// Truncate shortens s to at most n runes, adding an ellipsis.
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
