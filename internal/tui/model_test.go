package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/tui/themes"
)

func testReport() *model.Report {
	return &model.Report{
		ID:               "rep-1",
		TransactionCount: 12,
		MonthlyLeak:      31.98,
		AnnualSavings:    383.76,
		TopLeaks: []model.Leak{
			{Category: model.LeakSubscription, Merchant: "NETFLIX", Explanation: "Streams you may not watch", MonthlyCost: 15.99, YearlyCost: 191.88},
			{Category: model.LeakSubscription, Merchant: "SPOTIFY", Explanation: "Music every month", MonthlyCost: 15.99, YearlyCost: 191.88},
		},
		Subscriptions: []model.Subscription{
			{Merchant: "NETFLIX", MonthlyCost: 15.99, AnnualCost: 191.88, Confidence: 0.95, Occurrences: 3, Reason: "Known subscription service", LastDate: "2024-03-15"},
		},
		CategorySummary: []model.CategorySummary{
			{Category: model.CategorySubscriptions, Total: 47.97, Percent: 100, TopMerchants: []model.MerchantTotal{{Merchant: "NETFLIX", Total: 47.97}}},
		},
		EasyWins:     []model.EasyWin{{Title: "Cancel Netflix", Action: "Open account settings and cancel", EstimatedYearlySavings: 191.88}},
		RecoveryPlan: []string{"Week 1: Cancel Netflix"},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func update(t *testing.T, m ReportViewer, msg tea.Msg) (ReportViewer, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	viewer, ok := next.(ReportViewer)
	require.True(t, ok)
	return viewer, cmd
}

func TestNewReportViewer(t *testing.T) {
	m := NewReportViewer(testReport(), themes.Default)

	assert.Equal(t, SectionLeaks, m.Section())
	assert.Len(t, m.table.Rows(), 2)
	assert.Equal(t, "Netflix", m.table.Rows()[0][0])
	assert.Nil(t, m.Init())
}

func TestReportViewerTabs(t *testing.T) {
	m := NewReportViewer(testReport(), themes.Default)

	wantOrder := []Section{SectionSubscriptions, SectionCategories, SectionEasyWins, SectionPlan, SectionLeaks}
	for _, want := range wantOrder {
		m, _ = update(t, m, keyMsg("tab"))
		assert.Equal(t, want, m.Section())
	}

	m, _ = update(t, m, keyMsg("shift+tab"))
	assert.Equal(t, SectionPlan, m.Section())
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "Week 1: Cancel Netflix", m.table.Rows()[0][1])
}

func TestReportViewerDetail(t *testing.T) {
	m := NewReportViewer(testReport(), themes.Default)
	assert.Equal(t, "Streams you may not watch", m.detail())

	m, _ = update(t, m, keyMsg("down"))
	assert.Equal(t, "Music every month", m.detail())

	m, _ = update(t, m, keyMsg("tab"))
	assert.Equal(t, "3 charges. Known subscription service", m.detail())

	m, _ = update(t, m, keyMsg("tab"))
	assert.Empty(t, m.detail())
}

func TestReportViewerView(t *testing.T) {
	m := NewReportViewer(testReport(), themes.Default)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})

	view := m.View()
	assert.Contains(t, view, "Spending Leak Report")
	assert.Contains(t, view, "12 transactions analyzed")
	assert.Contains(t, view, "$31.98/month")
	assert.Contains(t, view, "Top Leaks")
	assert.Contains(t, view, "Netflix")
}

func TestReportViewerEmptySection(t *testing.T) {
	report := testReport()
	report.EasyWins = nil
	m := NewReportViewer(report, themes.Default)

	for m.Section() != SectionEasyWins {
		m, _ = update(t, m, keyMsg("tab"))
	}
	assert.Contains(t, m.View(), "Nothing to show here.")
}

func TestReportViewerQuit(t *testing.T) {
	for _, k := range []string{"q", "esc"} {
		t.Run(k, func(t *testing.T) {
			m := NewReportViewer(testReport(), themes.Default)
			msg := keyMsg(k)
			if k == "esc" {
				msg = tea.KeyMsg{Type: tea.KeyEsc}
			}
			_, cmd := update(t, m, msg)
			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestReportViewerHelpToggle(t *testing.T) {
	m := NewReportViewer(testReport(), themes.Default)
	assert.False(t, m.help.ShowAll)
	m, _ = update(t, m, keyMsg("?"))
	assert.True(t, m.help.ShowAll)
}

func TestRunNilReport(t *testing.T) {
	assert.Error(t, Run(context.Background(), nil, themes.Default))
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, themes.CatppuccinMocha.Primary, themes.ByName("catppuccin").Primary)
	assert.Equal(t, themes.Default.Primary, themes.ByName("").Primary)
}
