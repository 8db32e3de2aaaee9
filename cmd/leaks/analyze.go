package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-leaks-must-stop/internal/analysis"
	"github.com/Veraticus/the-leaks-must-stop/internal/classification"
	"github.com/Veraticus/the-leaks-must-stop/internal/cli"
	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/config"
	"github.com/Veraticus/the-leaks-must-stop/internal/llm"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/recurrence"
	"github.com/Veraticus/the-leaks-must-stop/internal/redact"
	"github.com/Veraticus/the-leaks-must-stop/internal/sheets"
	"github.com/Veraticus/the-leaks-must-stop/internal/tui"
	"github.com/Veraticus/the-leaks-must-stop/internal/tui/themes"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [files...]",
		Short: "Find spending leaks in bank statements",
		Long: `Analyze bank statements for spending leaks.

Statements may be PDF, CSV/TSV or OFX/QFX files. Transactions from every
file are merged and de-duplicated before analysis. The report shows:
- Subscriptions and what they cost per year
- Fees and charges
- Food delivery habits
- Small frequent purchases
- Easy wins and a four-week recovery plan

When an LLM provider is configured, an aggregate of your spending (never
individual transactions) is sent for better explanations. Use --no-llm to
skip that step.

Examples:
  # Analyze two statements
  leaks analyze january.pdf february.csv

  # JSON output for scripting
  leaks analyze statement.ofx --format json

  # Last 90 days from Plaid, saved to history
  leaks analyze --plaid-days 90 --save`,
		RunE: runAnalyze,
	}

	cmd.Flags().String("format", "cli", "Output format (cli, json)")
	cmd.Flags().Bool("no-llm", false, "Skip LLM enrichment")
	cmd.Flags().Bool("save", false, "Save the report and redacted transactions to history")
	cmd.Flags().Bool("interactive", false, "Browse the report in an interactive viewer")
	cmd.Flags().Int("plaid-days", 0, "Also fetch this many days of transactions from Plaid")
	cmd.Flags().Bool("export-sheets", false, "Export the report to Google Sheets")

	return cmd
}

func runAnalyze(cmd *cobra.Command, files []string) error {
	format, _ := cmd.Flags().GetString("format")
	noLLM, _ := cmd.Flags().GetBool("no-llm")
	save, _ := cmd.Flags().GetBool("save")
	interactive, _ := cmd.Flags().GetBool("interactive")
	plaidDays, _ := cmd.Flags().GetInt("plaid-days")
	exportSheets, _ := cmd.Flags().GetBool("export-sheets")

	formatter, err := analysis.NewFormatter(format)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Unknown format %q (valid options: cli, json)", format), err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	interruptHandler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = interruptHandler.HandleInterrupts(ctx, save)

	transactions, err := loadTransactions(ctx, sourceOptions{
		files:     files,
		plaidDays: plaidDays,
		progress:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return interruptedOr(interruptHandler, err)
	}

	report, err := newAnalyzer(noLLM).Analyze(ctx, transactions)
	if err != nil {
		return interruptedOr(interruptHandler, err)
	}

	if save {
		if err := saveReport(ctx, report, transactions); err != nil {
			return interruptedOr(interruptHandler, err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess(fmt.Sprintf("Report saved to history (%s)", report.ID)))
	}

	if exportSheets {
		if err := exportToSheets(ctx, report); err != nil {
			return interruptedOr(interruptHandler, err)
		}
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatSuccess("Report exported to Google Sheets"))
	}

	if interactive {
		return tui.Run(ctx, report, themes.ByName(viper.GetString("tui.theme")))
	}

	out, err := formatter.Format(report)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

// interruptedOr hides errors caused by a user interrupt; the handler has
// already told the user what happened.
func interruptedOr(h *cli.InterruptHandler, err error) error {
	if h.WasInterrupted() && errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// newAnalyzer wires the configured keyword tables and, unless disabled, the
// LLM enricher. A missing LLM configuration only disables enrichment.
func newAnalyzer(noLLM bool) *analysis.Analyzer {
	keywords := config.LoadKeywords()
	opts := []analysis.Option{
		analysis.WithKeywords(keywords.AnalysisKeywords()),
		analysis.WithDetector(recurrence.NewDetector(keywords.DetectorConfig(), nil)),
	}

	if noLLM {
		return analysis.NewAnalyzer(opts...)
	}

	llmConfig, err := config.LoadLLMConfig()
	if err != nil {
		slog.Info("LLM enrichment disabled", "reason", err)
		return analysis.NewAnalyzer(opts...)
	}

	enricher, err := llm.NewEnricher(llmConfig, slog.Default())
	if err != nil {
		slog.Warn("LLM enrichment disabled", "error", err)
		return analysis.NewAnalyzer(opts...)
	}

	opts = append(opts, analysis.WithEnricher(enricher, llmConfig.Timeout))
	return analysis.NewAnalyzer(opts...)
}

// redactedTransactions categorizes and strips personal details so only
// date, description, amount and category reach storage or output.
func redactedTransactions(transactions []model.Transaction) []model.RedactedTransaction {
	categorized := classification.NewDefaultCategorizer().CategorizeAll(transactions)
	return redact.New().RedactTransactions(categorized)
}

func saveReport(ctx context.Context, report *model.Report, transactions []model.Transaction) error {
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open report history: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close storage", "error", closeErr)
		}
	}()

	if err := store.SaveReport(ctx, report, redactedTransactions(transactions)); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func exportToSheets(ctx context.Context, report *model.Report) error {
	cfg, err := config.LoadSheetsConfig()
	if err != nil {
		return common.NewUserError("Google Sheets is not configured. Run 'leaks auth sheets' first", err)
	}

	writer, err := sheets.NewWriter(ctx, *cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to create sheets writer: %w", err)
	}

	return writer.Write(ctx, report)
}
