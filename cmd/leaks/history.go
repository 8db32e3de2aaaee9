package main

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/the-leaks-must-stop/internal/analysis"
	"github.com/Veraticus/the-leaks-must-stop/internal/cli"
	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/storage"
	"github.com/Veraticus/the-leaks-must-stop/internal/tui"
	"github.com/Veraticus/the-leaks-must-stop/internal/tui/themes"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse saved reports",
	}

	cmd.AddCommand(historyListCmd())
	cmd.AddCommand(historyShowCmd())
	cmd.AddCommand(historyDeleteCmd())

	return cmd
}

func withStorage(cmd *cobra.Command, fn func(store *storage.SQLiteStorage) error) error {
	store, err := initStorage(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to open report history: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close storage", "error", closeErr)
		}
	}()
	return fn(store)
}

func historyListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved reports, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")

			return withStorage(cmd, func(store *storage.SQLiteStorage) error {
				reports, err := store.ListReports(cmd.Context(), limit)
				if err != nil {
					return fmt.Errorf("failed to list reports: %w", err)
				}

				if len(reports) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("No saved reports yet. Run 'leaks analyze --save' to create one."))
					return nil
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tGENERATED\tTRANSACTIONS\tMONTHLY LEAK\tANNUAL SAVINGS")
				for _, r := range reports {
					fmt.Fprintf(tw, "%s\t%s\t%d\t$%.2f\t$%.2f\n",
						r.ID,
						r.GeneratedAt.Local().Format("2006-01-02 15:04"),
						r.TransactionCount,
						r.MonthlyLeak,
						r.AnnualSavings)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().Int("limit", storage.DefaultListLimit, "Maximum number of reports to list")
	return cmd
}

func historyShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <report-id>",
		Short: "Show a saved report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, _ := cmd.Flags().GetString("format")
			interactive, _ := cmd.Flags().GetBool("interactive")
			showTransactions, _ := cmd.Flags().GetBool("transactions")

			return withStorage(cmd, func(store *storage.SQLiteStorage) error {
				report, err := store.GetReport(cmd.Context(), args[0])
				if err != nil {
					return notFoundOr(args[0], err)
				}

				if interactive {
					return tui.Run(cmd.Context(), report, themes.ByName(viper.GetString("tui.theme")))
				}

				if showTransactions {
					transactions, err := store.GetReportTransactions(cmd.Context(), report.ID)
					if err != nil {
						return fmt.Errorf("failed to load report transactions: %w", err)
					}
					return writeRedacted(cmd.OutOrStdout(), transactions)
				}

				formatter, err := analysis.NewFormatter(format)
				if err != nil {
					return common.NewUserError(fmt.Sprintf("Unknown format %q (valid options: cli, json)", format), err)
				}
				out, err := formatter.Format(report)
				if err != nil {
					return fmt.Errorf("failed to format report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	cmd.Flags().String("format", "cli", "Output format (cli, json)")
	cmd.Flags().Bool("interactive", false, "Browse the report in an interactive viewer")
	cmd.Flags().Bool("transactions", false, "Print the report's redacted transactions as CSV")
	return cmd
}

func historyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <report-id>",
		Short: "Delete a saved report and its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, func(store *storage.SQLiteStorage) error {
				if err := store.DeleteReport(cmd.Context(), args[0]); err != nil {
					return notFoundOr(args[0], err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Deleted report %s", args[0])))
				return nil
			})
		},
	}
}
