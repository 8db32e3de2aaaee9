// Package tui renders a saved or freshly computed leak report as an
// interactive terminal view.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/tui/themes"
)

// Section is one tab of the viewer.
type Section int

// Viewer sections, in tab order.
const (
	SectionLeaks Section = iota
	SectionSubscriptions
	SectionCategories
	SectionEasyWins
	SectionPlan
)

var sectionTitles = []string{"Top Leaks", "Subscriptions", "Categories", "Easy Wins", "Recovery Plan"}

func (s Section) String() string {
	if s < 0 || int(s) >= len(sectionTitles) {
		return "Unknown"
	}
	return sectionTitles[s]
}

// chrome is the number of lines used around the table.
const chrome = 10

// ReportViewer is the bubbletea model for browsing a report.
type ReportViewer struct {
	report  *model.Report
	theme   themes.Theme
	keys    KeyMap
	help    help.Model
	table   table.Model
	title   cases.Caser
	section Section
	width   int
	height  int
}

// NewReportViewer builds a viewer positioned on the leaks section.
func NewReportViewer(report *model.Report, theme themes.Theme) ReportViewer {
	t := table.New(
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = theme.Header
	s.Selected = theme.Selected
	t.SetStyles(s)

	m := ReportViewer{
		report: report,
		theme:  theme,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		table:  t,
		title:  cases.Title(language.English),
	}
	m.loadSection(SectionLeaks)
	return m
}

// Section returns the active tab.
func (m ReportViewer) Section() Section {
	return m.section
}

// Init implements tea.Model.
func (m ReportViewer) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReportViewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(3, msg.Height-chrome))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.NextTab):
			m.loadSection((m.section + 1) % Section(len(sectionTitles)))
			return m, nil
		case key.Matches(msg, m.keys.PrevTab):
			m.loadSection((m.section + Section(len(sectionTitles)) - 1) % Section(len(sectionTitles)))
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m ReportViewer) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("💧 Spending Leak Report"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(fmt.Sprintf("%d transactions analyzed · ", m.report.TransactionCount)))
	b.WriteString(m.theme.Money.Render(fmt.Sprintf("$%.2f/month · $%.2f/year", m.report.MonthlyLeak, m.report.AnnualSavings)))
	b.WriteString("\n\n")

	tabs := make([]string, len(sectionTitles))
	for i, title := range sectionTitles {
		if Section(i) == m.section {
			tabs[i] = m.theme.ActiveTab.Render(title)
		} else {
			tabs[i] = m.theme.InactiveTab.Render(title)
		}
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
	b.WriteString("\n\n")

	if len(m.table.Rows()) == 0 {
		b.WriteString(m.theme.Subtitle.Render("Nothing to show here."))
	} else {
		b.WriteString(m.table.View())
	}
	b.WriteString("\n")

	if detail := m.detail(); detail != "" {
		style := m.theme.Detail
		if m.width > 4 {
			style = style.Width(m.width - 4)
		}
		b.WriteString(style.Render(detail))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *ReportViewer) loadSection(s Section) {
	m.section = s
	columns, rows := m.sectionData(s)

	// Clear rows first so the old rows are never rendered against the new
	// column set.
	m.table.SetRows(nil)
	m.table.SetColumns(columns)
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func (m ReportViewer) sectionData(s Section) ([]table.Column, []table.Row) {
	r := m.report
	var rows []table.Row

	switch s {
	case SectionLeaks:
		for _, l := range r.TopLeaks {
			rows = append(rows, table.Row{m.merchant(l.Merchant), l.Category, money(l.MonthlyCost), money(l.YearlyCost)})
		}
		return []table.Column{
			{Title: "Merchant", Width: 24},
			{Title: "Type", Width: 26},
			{Title: "Monthly", Width: 10},
			{Title: "Yearly", Width: 10},
		}, rows

	case SectionSubscriptions:
		for _, sub := range r.Subscriptions {
			rows = append(rows, table.Row{
				m.merchant(sub.Merchant),
				money(sub.MonthlyCost),
				money(sub.AnnualCost),
				fmt.Sprintf("%.0f%%", sub.Confidence*100),
				sub.LastDate,
			})
		}
		return []table.Column{
			{Title: "Merchant", Width: 24},
			{Title: "Monthly", Width: 10},
			{Title: "Annual", Width: 10},
			{Title: "Confidence", Width: 10},
			{Title: "Last charged", Width: 12},
		}, rows

	case SectionCategories:
		for _, c := range r.CategorySummary {
			merchants := make([]string, 0, len(c.TopMerchants))
			for _, mt := range c.TopMerchants {
				merchants = append(merchants, m.merchant(mt.Merchant))
			}
			rows = append(rows, table.Row{
				string(c.Category),
				money(c.Total),
				fmt.Sprintf("%.1f%%", c.Percent),
				strings.Join(merchants, ", "),
			})
		}
		return []table.Column{
			{Title: "Category", Width: 20},
			{Title: "Total", Width: 12},
			{Title: "Share", Width: 8},
			{Title: "Top merchants", Width: 40},
		}, rows

	case SectionEasyWins:
		for _, win := range r.EasyWins {
			rows = append(rows, table.Row{win.Title, money(win.EstimatedYearlySavings)})
		}
		return []table.Column{
			{Title: "Win", Width: 48},
			{Title: "Saves/yr", Width: 12},
		}, rows

	default:
		for i, step := range r.RecoveryPlan {
			rows = append(rows, table.Row{fmt.Sprintf("%d", i+1), step})
		}
		return []table.Column{
			{Title: "#", Width: 3},
			{Title: "Step", Width: 72},
		}, rows
	}
}

// detail describes the selected row when the table can't show it all.
func (m ReportViewer) detail() string {
	i := m.table.Cursor()
	switch m.section {
	case SectionLeaks:
		if i >= 0 && i < len(m.report.TopLeaks) {
			return m.report.TopLeaks[i].Explanation
		}
	case SectionSubscriptions:
		if i >= 0 && i < len(m.report.Subscriptions) {
			sub := m.report.Subscriptions[i]
			return fmt.Sprintf("%d charges. %s", sub.Occurrences, sub.Reason)
		}
	case SectionEasyWins:
		if i >= 0 && i < len(m.report.EasyWins) {
			return m.report.EasyWins[i].Action
		}
	case SectionCategories, SectionPlan:
	}
	return ""
}

func (m ReportViewer) merchant(name string) string {
	if name == "" {
		return "Unknown"
	}
	return m.title.String(strings.ToLower(name))
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
