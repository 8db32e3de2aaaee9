package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/Veraticus/the-leaks-must-stop/internal/classification"
	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [files...]",
		Short: "Extract and categorize transactions without analyzing them",
		Long: `Parse bank statements and print the normalized, categorized
transactions. Useful for checking what was read from a statement before
running an analysis.

Examples:
  leaks parse statement.pdf
  leaks parse *.csv --output json > transactions.json`,
		RunE: runParse,
	}

	cmd.Flags().String("output", "csv", "Output format (csv, json)")
	cmd.Flags().Int("plaid-days", 0, "Also fetch this many days of transactions from Plaid")

	return cmd
}

func runParse(cmd *cobra.Command, files []string) error {
	output, _ := cmd.Flags().GetString("output")
	plaidDays, _ := cmd.Flags().GetInt("plaid-days")

	if output != "csv" && output != "json" {
		return common.NewUserError(fmt.Sprintf("Unknown output %q (valid options: csv, json)", output), nil)
	}

	transactions, err := loadTransactions(cmd.Context(), sourceOptions{
		files:     files,
		plaidDays: plaidDays,
		progress:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	categorized := classification.NewDefaultCategorizer().CategorizeAll(transactions)
	return writeTransactions(cmd.OutOrStdout(), categorized, output)
}

func writeTransactions(w io.Writer, transactions []model.Transaction, output string) error {
	if output == "json" {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(transactions); err != nil {
			return fmt.Errorf("failed to encode transactions: %w", err)
		}
		return nil
	}

	if err := gocsv.Marshal(transactions, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

func redactCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "redact [files...]",
		Short: "Write a redacted CSV of statement transactions",
		Long: `Parse bank statements and write a CSV with only date, description,
amount and category. Names, account numbers, card numbers, emails, phone
numbers, addresses and references are replaced with [REDACTED].

Example:
  leaks redact statement.pdf > safe-to-share.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			transactions, err := loadTransactions(cmd.Context(), sourceOptions{
				files:    files,
				progress: cmd.ErrOrStderr(),
			})
			if err != nil {
				return err
			}
			return writeRedacted(cmd.OutOrStdout(), redactedTransactions(transactions))
		},
	}
}

func writeRedacted(w io.Writer, transactions []model.RedactedTransaction) error {
	if err := gocsv.Marshal(transactions, w); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
