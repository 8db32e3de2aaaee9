package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatHelpersKeepMessage(t *testing.T) {
	tests := []struct {
		format func(string) string
		name   string
		icon   string
	}{
		{name: "success", format: FormatSuccess, icon: SuccessIcon},
		{name: "error", format: FormatError, icon: ErrorIcon},
		{name: "warning", format: FormatWarning, icon: WarningIcon},
		{name: "info", format: FormatInfo, icon: InfoIcon},
		{name: "title", format: FormatTitle, icon: LeakIcon},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tt.format("report saved")
			assert.Contains(t, out, "report saved")
			assert.Contains(t, out, tt.icon)
		})
	}
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Monthly leak", "$42.00")
	assert.Contains(t, out, "Monthly leak")
	assert.Contains(t, out, "$42.00")
}

func TestNewFileProgress(t *testing.T) {
	var buf bytes.Buffer
	bar := NewFileProgress(&buf, 2)
	require.NotNil(t, bar)

	require.NoError(t, bar.Add(1))
	require.NoError(t, bar.Add(1))
	assert.True(t, bar.IsFinished())
}
