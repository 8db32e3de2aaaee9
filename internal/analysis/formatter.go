package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

// ReportFormatter renders a report for output.
type ReportFormatter interface {
	Format(report *model.Report) (string, error)
}

var (
	_ ReportFormatter = (*CLIFormatter)(nil)
	_ ReportFormatter = JSONFormatter{}
)

const (
	maxFormattedSubscriptions = 10
	maxFormattedCategories    = 8
	shareBarWidth             = 20
)

// NewFormatter returns the formatter for the --format flag value.
func NewFormatter(format string) (ReportFormatter, error) {
	switch format {
	case "", "cli":
		return NewCLIFormatter(), nil
	case "json":
		return JSONFormatter{Indent: true}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want cli or json)", format)
	}
}

// JSONFormatter renders the report as JSON.
type JSONFormatter struct {
	Indent bool
}

// Format implements ReportFormatter.
func (f JSONFormatter) Format(report *model.Report) (string, error) {
	if report == nil {
		return "", fmt.Errorf("no report to format")
	}

	var (
		data []byte
		err  error
	)
	if f.Indent {
		data, err = json.MarshalIndent(report, "", "  ")
	} else {
		data, err = json.Marshal(report)
	}
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return string(data), nil
}

// CLIFormatter renders a report for terminal display.
type CLIFormatter struct {
	styles *Styles
	title  cases.Caser
}

// NewCLIFormatter creates a new CLI formatter with default styles.
func NewCLIFormatter() *CLIFormatter {
	return &CLIFormatter{
		styles: NewStyles(),
		title:  cases.Title(language.English),
	}
}

// WithWidth adapts box widths to the terminal.
func (f *CLIFormatter) WithWidth(width int) *CLIFormatter {
	return &CLIFormatter{styles: f.styles.WithWidth(width), title: f.title}
}

// Format implements ReportFormatter.
func (f *CLIFormatter) Format(report *model.Report) (string, error) {
	if report == nil {
		return f.styles.Error.Render("No report available"), nil
	}

	sections := []string{f.formatHeader(report), f.formatLeakTotal(report)}

	if report.TransactionCount == 0 {
		sections = append(sections, f.formatPlan("Getting started", report.RecoveryPlan))
		sections = append(sections, f.styles.Disclaimer.Render(report.Disclaimer))
		return strings.Join(sections, "\n\n"), nil
	}

	if len(report.TopLeaks) > 0 {
		sections = append(sections, f.formatLeaks(report.TopLeaks))
	}
	if len(report.Subscriptions) > 0 {
		sections = append(sections, f.formatSubscriptions(report.Subscriptions))
	}
	if len(report.CategorySummary) > 0 {
		sections = append(sections, f.formatCategories(report.CategorySummary))
	}
	if report.Comparison != nil && report.Comparison.MonthsAnalyzed >= 2 {
		sections = append(sections, f.formatComparison(report.Comparison))
	}
	if len(report.PriceChanges) > 0 {
		sections = append(sections, f.formatPriceChanges(report.PriceChanges))
	}
	if len(report.DuplicateSubscriptions) > 0 {
		sections = append(sections, f.formatDuplicates(report.DuplicateSubscriptions))
	}
	if len(report.TopSpending) > 0 {
		sections = append(sections, f.formatTopSpending(report.TopSpending))
	}
	if len(report.EasyWins) > 0 {
		sections = append(sections, f.formatEasyWins(report.EasyWins))
	}
	if len(report.RecoveryPlan) > 0 {
		sections = append(sections, f.formatPlan("🗓️ Recovery Plan:", report.RecoveryPlan))
	}
	if report.ShareSummary != nil && report.ShareSummary.Tagline != "" {
		sections = append(sections, f.styles.Info.Render("📣 "+report.ShareSummary.Tagline))
	}

	sections = append(sections, f.styles.Disclaimer.Render(report.Disclaimer))
	return strings.Join(sections, "\n\n"), nil
}

func (f *CLIFormatter) formatHeader(report *model.Report) string {
	title := f.styles.Title.Render("💧 Spending Leak Report")

	meta := fmt.Sprintf("%d transactions analyzed", report.TransactionCount)
	if !report.GeneratedAt.IsZero() {
		meta += " · generated " + report.GeneratedAt.Format(time.RFC3339)
	}
	if report.Enriched {
		meta += " · AI-enhanced"
	}

	return title + "\n" + f.styles.Subtle.Render(meta)
}

func (f *CLIFormatter) formatLeakTotal(report *model.Report) string {
	content := fmt.Sprintf("%s per month\n%s per year you could keep",
		f.styles.Error.Bold(true).Render(money(report.MonthlyLeak)),
		f.styles.Money.Render(money(report.AnnualSavings)))
	return f.styles.RenderBox(content, "Hidden spending", f.styles.LeakBox)
}

func (f *CLIFormatter) formatLeaks(leaks []model.Leak) string {
	title := f.styles.Subtitle.Render("🚰 Top Leaks:")

	lines := make([]string, 0, len(leaks)*2)
	for i, leak := range leaks {
		line := fmt.Sprintf("%2d. %-28s %-26s %s/mo  %s/yr",
			i+1,
			truncate(f.merchant(leak.Merchant), 28),
			leak.Category,
			money(leak.MonthlyCost),
			money(leak.YearlyCost))
		lines = append(lines, line)
		if leak.Explanation != "" {
			lines = append(lines, f.styles.Subtle.Render("    "+leak.Explanation))
		}
	}

	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatSubscriptions(subs []model.Subscription) string {
	title := f.styles.Subtitle.Render(fmt.Sprintf("🔁 Subscriptions (%d):", len(subs)))

	shown := limit(subs, maxFormattedSubscriptions)
	lines := make([]string, 0, len(shown)+1)
	for _, sub := range shown {
		confidence := f.styles.ForConfidence(sub.Confidence).Render(fmt.Sprintf("%.0f%%", sub.Confidence*100))
		lines = append(lines, fmt.Sprintf("• %-28s %s/mo  last %s  %s",
			truncate(f.merchant(sub.Merchant), 28),
			money(sub.MonthlyCost),
			sub.LastDate,
			confidence))
	}
	if len(subs) > len(shown) {
		lines = append(lines, f.styles.Subtle.Render(fmt.Sprintf("... and %d more", len(subs)-len(shown))))
	}

	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatCategories(categories []model.CategorySummary) string {
	title := f.styles.Subtitle.Render("📊 Where the money went:")

	shown := limit(categories, maxFormattedCategories)
	lines := make([]string, 0, len(shown))
	for _, c := range shown {
		lines = append(lines, fmt.Sprintf("%-20s %s %5.1f%%  %s",
			truncate(string(c.Category), 20),
			f.styles.Info.Render(f.styles.RenderShareBar(c.Percent, shareBarWidth)),
			c.Percent,
			money(c.Total)))
	}

	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatComparison(cmp *model.MonthComparison) string {
	title := f.styles.Subtitle.Render(fmt.Sprintf("📅 %s vs %s:", cmp.CurrentMonth, cmp.PreviousMonth))

	total := f.styles.ForChange(cmp.TotalChange).Render(
		fmt.Sprintf("Total %s → %s (%s, %+.1f%%)",
			money(cmp.PreviousTotal), money(cmp.CurrentTotal),
			signedMoney(cmp.TotalChange), cmp.TotalChangePercent))

	lines := []string{total}
	for _, change := range cmp.TopChanges {
		lines = append(lines, fmt.Sprintf("• %-20s %s",
			change.Category,
			f.styles.ForChange(change.Change).Render(signedMoney(change.Change))))
	}
	for _, spike := range cmp.Spikes {
		lines = append(lines, f.styles.Warning.Render(
			fmt.Sprintf("⚠️ %s spiked %+.0f%%", spike.Category, spike.ChangePercent)))
	}

	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatPriceChanges(changes []model.PriceChange) string {
	title := f.styles.Subtitle.Render("📈 Price increases:")

	lines := make([]string, 0, len(changes))
	for _, c := range changes {
		lines = append(lines, fmt.Sprintf("• %s: %s → %s since %s (%s/yr)",
			f.merchant(c.Merchant),
			money(c.OldPrice), money(c.NewPrice),
			c.ChangeDate,
			f.styles.Increase.Render(signedMoney(c.YearlyImpact))))
	}

	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatDuplicates(groups []model.DuplicateGroup) string {
	title := f.styles.Subtitle.Render("👯 Overlapping subscriptions:")

	lines := make([]string, 0, len(groups)*2)
	for _, g := range groups {
		merchants := make([]string, 0, len(g.Merchants))
		for _, m := range g.Merchants {
			merchants = append(merchants, f.merchant(m))
		}
		lines = append(lines, fmt.Sprintf("• %d %s services: %s (%s/mo)",
			g.Count, g.ServiceType, strings.Join(merchants, ", "), money(g.MonthlyCost)))
		if g.Suggestion != "" {
			lines = append(lines, f.styles.Subtle.Render("  "+g.Suggestion))
		}
	}

	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatTopSpending(items []model.TopSpending) string {
	title := f.styles.Subtitle.Render("🧾 Largest purchases:")

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s  %-28s %10s  %s",
			item.Date,
			truncate(f.merchant(item.Merchant), 28),
			money(item.Amount),
			f.styles.Subtle.Render(string(item.Category))))
	}

	return title + "\n" + strings.Join(lines, "\n")
}

func (f *CLIFormatter) formatEasyWins(wins []model.EasyWin) string {
	lines := make([]string, 0, len(wins)*2)
	for _, win := range wins {
		lines = append(lines, fmt.Sprintf("%s %s (save %s/yr)",
			f.styles.Success.Render("✓"),
			f.styles.Normal.Bold(true).Render(win.Title),
			f.styles.Money.Render(money(win.EstimatedYearlySavings))))
		if win.Action != "" {
			lines = append(lines, "  "+win.Action)
		}
	}

	return f.styles.RenderBox(strings.Join(lines, "\n"), "Easy Wins", f.styles.WinBox)
}

func (f *CLIFormatter) formatPlan(heading string, steps []string) string {
	title := f.styles.Subtitle.Render(heading)

	lines := make([]string, 0, len(steps))
	for _, step := range steps {
		lines = append(lines, f.styles.Info.Render("•")+" "+step)
	}

	return title + "\n" + strings.Join(lines, "\n")
}

// merchant prettifies the uppercased grouping keys for display.
func (f *CLIFormatter) merchant(name string) string {
	if name == "" {
		return "Unknown"
	}
	return f.title.String(strings.ToLower(name))
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func signedMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("+$%.2f", v)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}
