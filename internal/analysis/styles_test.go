package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestRenderShareBar(t *testing.T) {
	s := NewStyles()

	tests := []struct {
		name       string
		percent    float64
		width      int
		wantFilled int
		wantWidth  int
	}{
		{name: "half", percent: 50, width: 20, wantFilled: 10, wantWidth: 20},
		{name: "empty", percent: 0, width: 10, wantFilled: 0, wantWidth: 10},
		{name: "full", percent: 100, width: 10, wantFilled: 10, wantWidth: 10},
		{name: "over 100 is clamped", percent: 180, width: 10, wantFilled: 10, wantWidth: 10},
		{name: "negative is clamped", percent: -5, width: 10, wantFilled: 0, wantWidth: 10},
		{name: "default width", percent: 25, width: 0, wantFilled: 5, wantWidth: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := s.RenderShareBar(tt.percent, tt.width)
			assert.Equal(t, tt.wantWidth, utf8.RuneCountInString(bar))
			assert.Equal(t, tt.wantFilled, strings.Count(bar, "█"))
		})
	}
}

func TestForChange(t *testing.T) {
	s := NewStyles()
	assert.Equal(t, s.Increase, s.ForChange(12))
	assert.Equal(t, s.Decrease, s.ForChange(-3))
	assert.Equal(t, s.Normal, s.ForChange(0))
}

func TestForConfidence(t *testing.T) {
	s := NewStyles()
	assert.Equal(t, s.Error, s.ForConfidence(0.9))
	assert.Equal(t, s.Warning, s.ForConfidence(0.7))
	assert.Equal(t, s.Subtle, s.ForConfidence(0.5))
}

func TestWithWidth(t *testing.T) {
	s := NewStyles()

	narrow := s.WithWidth(60)
	assert.Equal(t, 56, narrow.Box.GetWidth())
	assert.Equal(t, 56, narrow.LeakBox.GetWidth())
	assert.Equal(t, 0, s.Box.GetWidth(), "original must not change")

	wide := s.WithWidth(120)
	assert.Equal(t, 0, wide.Box.GetWidth())
}

func TestStylesRenderBox(t *testing.T) {
	s := NewStyles()

	withTitle := s.RenderBox("cancel it", "Easy win", s.WinBox)
	assert.Contains(t, withTitle, "Easy win")
	assert.Contains(t, withTitle, "cancel it")

	plain := s.RenderBox("just content", "", s.Box)
	assert.Contains(t, plain, "just content")
}
