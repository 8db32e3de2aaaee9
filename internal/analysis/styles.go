package analysis

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/the-leaks-must-stop/internal/cli"
)

// Styles contains all styling definitions for leak report formatting.
type Styles struct {
	// Base styles from CLI package
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Subtle   lipgloss.Style
	Normal   lipgloss.Style
	Money    lipgloss.Style

	// Report-specific styles
	Box        lipgloss.Style
	LeakBox    lipgloss.Style
	WinBox     lipgloss.Style
	Disclaimer lipgloss.Style
	Increase   lipgloss.Style
	Decrease   lipgloss.Style
}

// NewStyles creates a new Styles instance with default styling.
func NewStyles() *Styles {
	s := &Styles{
		Title:    cli.TitleStyle,
		Subtitle: cli.SubtitleStyle,
		Success:  cli.SuccessStyle,
		Warning:  cli.WarningStyle,
		Error:    cli.ErrorStyle,
		Info:     cli.InfoStyle,
		Subtle:   cli.SubtleStyle,
		Normal:   lipgloss.NewStyle(),
		Money:    cli.MoneyStyle,
	}

	s.Box = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SubtleColor).
		Padding(0, 1)

	s.LeakBox = lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(cli.ErrorColor).
		Padding(0, 1)

	s.WinBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(cli.SuccessColor).
		Padding(0, 1).
		MarginTop(1)

	s.Disclaimer = lipgloss.NewStyle().
		Italic(true).
		Foreground(cli.SubtleColor)

	s.Increase = lipgloss.NewStyle().Foreground(cli.ErrorColor)
	s.Decrease = lipgloss.NewStyle().Foreground(cli.SuccessColor)

	return s
}

// WithWidth returns a new Styles instance adjusted for the given terminal width.
func (s *Styles) WithWidth(width int) *Styles {
	newStyles := *s

	if width > 0 && width < 100 {
		newStyles.Box = s.Box.Width(width - 4)
		newStyles.LeakBox = s.LeakBox.Width(width - 4)
		newStyles.WinBox = s.WinBox.Width(width - 4)
	}

	return &newStyles
}

// ForChange colors a month-over-month delta: spending more is bad.
func (s *Styles) ForChange(change float64) lipgloss.Style {
	switch {
	case change > 0:
		return s.Increase
	case change < 0:
		return s.Decrease
	default:
		return s.Normal
	}
}

// ForConfidence returns the style for a subscription confidence score.
func (s *Styles) ForConfidence(confidence float64) lipgloss.Style {
	switch {
	case confidence >= 0.8:
		return s.Error
	case confidence >= 0.6:
		return s.Warning
	default:
		return s.Subtle
	}
}

// RenderShareBar draws a category's share of spend as a fixed-width bar.
func (s *Styles) RenderShareBar(percent float64, width int) string {
	if width <= 0 {
		width = 20
	}

	filled := int(float64(width) * percent / 100)
	filled = max(0, min(filled, width))

	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// RenderBox renders content in a styled box with optional title.
func (s *Styles) RenderBox(content string, title string, style lipgloss.Style) string {
	if title != "" {
		titleStyled := s.Info.Bold(true).Render(" " + title + " ")
		return style.Render(titleStyled + "\n" + content)
	}
	return style.Render(content)
}
