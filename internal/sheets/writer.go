package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/service"
)

const reportSheetTitle = "Leak Report"

var _ service.ReportWriter = (*Writer)(nil)

// Writer implements service.ReportWriter for Google Sheets.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets report writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewWriterWithService(srv, config, logger), nil
}

// NewWriterWithService wraps an existing Sheets client.
func NewWriterWithService(srv *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	return &Writer{
		config:  config,
		service: srv,
		logger:  logger.With("component", "sheets"),
	}
}

// Write exports the report into the configured spreadsheet, replacing
// whatever the report tab held before.
func (w *Writer) Write(ctx context.Context, report *model.Report) error {
	if report == nil {
		return fmt.Errorf("no report to export")
	}

	w.logger.Info("starting report export",
		"report_id", report.ID,
		"leaks", len(report.TopLeaks))

	spreadsheetID, err := w.getOrCreateSpreadsheet(ctx)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	if clearErr := w.clearSheet(ctx, spreadsheetID); clearErr != nil {
		return fmt.Errorf("failed to clear sheet: %w", clearErr)
	}

	values, headers := prepareReportData(buildReportData(report))

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}

	err = common.WithRetry(ctx, func() error {
		return w.writeData(ctx, spreadsheetID, values)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write data: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return w.applyFormatting(ctx, spreadsheetID, headers)
		}, retryOpts)
		if err != nil {
			// Formatting is cosmetic; the data is already written.
			w.logger.Warn("failed to apply formatting", "error", err)
		}
	}

	w.logger.Info("report export completed",
		"spreadsheet_id", spreadsheetID,
		"rows_written", len(values))

	return nil
}

func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(oauth2.NewClient(ctx, tokenSource)))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}
	return srv, nil
}

func (w *Writer) getOrCreateSpreadsheet(ctx context.Context) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	name := w.config.SpreadsheetName
	if name == "" {
		name = DefaultSpreadsheetName
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    name,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: reportSheetTitle}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	return created.SpreadsheetId, nil
}

func (w *Writer) clearSheet(ctx context.Context, spreadsheetID string) error {
	_, err := w.service.Spreadsheets.Values.Clear(spreadsheetID, "A:Z", &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

// buildReportData converts a report into typed rows. Merchant keys are
// title-cased for display.
func buildReportData(report *model.Report) ReportData {
	title := cases.Title(language.English)
	pretty := func(s string) string {
		if s == "" {
			return "Unknown"
		}
		return title.String(strings.ToLower(s))
	}
	money := func(v float64) decimal.Decimal {
		return decimal.NewFromFloat(v).Round(2)
	}

	data := ReportData{
		ReportID:      report.ID,
		GeneratedAt:   report.GeneratedAt.UTC().Format(time.RFC3339),
		Disclaimer:    report.Disclaimer,
		MonthlyLeak:   money(report.MonthlyLeak),
		AnnualSavings: money(report.AnnualSavings),
		Transactions:  report.TransactionCount,
		RecoveryPlan:  append([]string(nil), report.RecoveryPlan...),
	}

	for _, l := range report.TopLeaks {
		data.Leaks = append(data.Leaks, LeakRow{
			Merchant:    pretty(l.Merchant),
			Category:    l.Category,
			Explanation: l.Explanation,
			Monthly:     money(l.MonthlyCost),
			Yearly:      money(l.YearlyCost),
		})
	}

	for _, s := range report.Subscriptions {
		data.Subscriptions = append(data.Subscriptions, SubscriptionRow{
			Merchant:    pretty(s.Merchant),
			LastDate:    s.LastDate,
			Monthly:     money(s.MonthlyCost),
			Annual:      money(s.AnnualCost),
			Confidence:  int(decimal.NewFromFloat(s.Confidence * 100).Round(0).IntPart()),
			Occurrences: s.Occurrences,
		})
	}

	for _, c := range report.CategorySummary {
		merchants := make([]string, 0, len(c.TopMerchants))
		for _, m := range c.TopMerchants {
			merchants = append(merchants, pretty(m.Merchant))
		}
		data.Categories = append(data.Categories, CategoryRow{
			Category:         string(c.Category),
			TopMerchants:     strings.Join(merchants, ", "),
			Total:            money(c.Total),
			Percent:          decimal.NewFromFloat(c.Percent).Round(1),
			TransactionCount: c.TransactionCount,
		})
	}

	for _, win := range report.EasyWins {
		data.EasyWins = append(data.EasyWins, WinRow{
			Title:   win.Title,
			Action:  win.Action,
			Savings: money(win.EstimatedYearlySavings),
		})
	}

	return data
}

// prepareReportData lays the report out as sheet rows and returns the
// indices of section header rows.
func prepareReportData(data ReportData) ([][]any, []int) {
	values := make([][]any, 0, 16+len(data.Leaks)+len(data.Subscriptions)+len(data.Categories)+len(data.EasyWins)+len(data.RecoveryPlan))
	var headers []int

	section := func(title string, columns ...any) {
		values = append(values, []any{})
		headers = append(headers, len(values))
		values = append(values, []any{title})
		if len(columns) > 0 {
			values = append(values, columns)
		}
	}

	values = append(values,
		[]any{"Spending Leak Report", data.GeneratedAt},
		[]any{"Report ID", data.ReportID},
		[]any{"Transactions analyzed", data.Transactions},
		[]any{"Monthly leak", data.MonthlyLeak.InexactFloat64()},
		[]any{"Annual savings", data.AnnualSavings.InexactFloat64()},
	)

	if len(data.Leaks) > 0 {
		section("Top Leaks", "Merchant", "Category", "Monthly", "Yearly", "Why")
		for _, l := range data.Leaks {
			values = append(values, []any{l.Merchant, l.Category, l.Monthly.InexactFloat64(), l.Yearly.InexactFloat64(), l.Explanation})
		}
	}

	if len(data.Subscriptions) > 0 {
		section("Subscriptions", "Merchant", "Last charged", "Monthly", "Annual", "Confidence %", "Charges")
		for _, s := range data.Subscriptions {
			values = append(values, []any{s.Merchant, s.LastDate, s.Monthly.InexactFloat64(), s.Annual.InexactFloat64(), s.Confidence, s.Occurrences})
		}
	}

	if len(data.Categories) > 0 {
		section("Spending by Category", "Category", "Top merchants", "Total", "Share %", "Transactions")
		for _, c := range data.Categories {
			values = append(values, []any{c.Category, c.TopMerchants, c.Total.InexactFloat64(), c.Percent.InexactFloat64(), c.TransactionCount})
		}
	}

	if len(data.EasyWins) > 0 {
		section("Easy Wins", "Title", "Action", "Yearly savings")
		for _, win := range data.EasyWins {
			values = append(values, []any{win.Title, win.Action, win.Savings.InexactFloat64()})
		}
	}

	if len(data.RecoveryPlan) > 0 {
		section("Recovery Plan")
		for _, step := range data.RecoveryPlan {
			values = append(values, []any{step})
		}
	}

	if data.Disclaimer != "" {
		values = append(values, []any{}, []any{data.Disclaimer})
	}

	return values, headers
}

func (w *Writer) writeData(ctx context.Context, spreadsheetID string, values [][]any) error {
	for i := 0; i < len(values); i += w.config.BatchSize {
		end := min(i+w.config.BatchSize, len(values))

		batch := values[i:end]
		rangeStr := fmt.Sprintf("A%d", i+1)
		_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, rangeStr, &sheets.ValueRange{Values: batch}).
			ValueInputOption("USER_ENTERED").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write batch starting at row %d: %w", i+1, err)
		}

		w.logger.Debug("wrote batch", "start_row", i+1, "rows", len(batch))
	}

	return nil
}

func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, headers []int) error {
	bold := func(row int64, size int64) *sheets.Request {
		return &sheets.Request{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          0,
					StartRowIndex:    row,
					EndRowIndex:      row + 1,
					StartColumnIndex: 0,
					EndColumnIndex:   1,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{Bold: true, FontSize: size},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		}
	}

	requests := []*sheets.Request{bold(0, 16)}
	for _, row := range headers {
		requests = append(requests, bold(int64(row), 12))
	}
	requests = append(requests,
		&sheets.Request{
			AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
				Dimensions: &sheets.DimensionRange{
					SheetId:    0,
					Dimension:  "COLUMNS",
					StartIndex: 0,
					EndIndex:   6,
				},
			},
		},
		&sheets.Request{
			UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{
					SheetId:        0,
					GridProperties: &sheets.GridProperties{FrozenRowCount: 1},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
	)

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}
