package ui

import (
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Title    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7ec850"))
	Header   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	Muted    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	Footer   = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	Error    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	Success  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	Selected = lipgloss.NewStyle().Background(lipgloss.Color("8")).Bold(true)
	Featured = lipgloss.NewStyle().Foreground(lipgloss.Color("#e8a33d")).Bold(true)
	Panel    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
)

// categoryPalette holds the colours categories are hashed onto.
var categoryPalette = []string{"#5fafd7", "#87af5f", "#d7875f", "#af87d7", "#d7af5f", "#5fd7af", "#d75f87", "#87afd7"}

// Colorize applies the given hex colour to the text using lipgloss.
func Colorize(text string, color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// CategoryColor picks a stable palette colour for a category name.
func CategoryColor(category string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(category)))
	return categoryPalette[h.Sum32()%uint32(len(categoryPalette))]
}

// Category renders a category label in its colour.
func Category(category string) string {
	return Colorize(category, CategoryColor(category))
}

// FormatRating rounds a percentage for display; nil renders as "N/A".
func FormatRating(rating *float64) string {
	if rating == nil {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", int(math.Round(*rating)))
}

// RatingColor grades a rating green/yellow/red.
func RatingColor(rating *float64) string {
	switch {
	case rating == nil:
		return "8"
	case *rating >= 80:
		return "10"
	case *rating >= 50:
		return "11"
	default:
		return "9"
	}
}

// Rating renders FormatRating in RatingColor.
func Rating(rating *float64) string {
	return Colorize(FormatRating(rating), RatingColor(rating))
}

// Truncate shortens s to maxLen runes, ending with "..." when cut.
func Truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// Count formats large counters compactly: 1234 -> 1.2k.
func Count(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}
