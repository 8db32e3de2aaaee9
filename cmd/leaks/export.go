package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/the-leaks-must-stop/internal/cli"
	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/storage"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved reports",
	}
	cmd.AddCommand(exportSheetsCmd())
	return cmd
}

func exportSheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <report-id>",
		Short: "Export a saved report to Google Sheets",
		Long: `Write a saved report to Google Sheets. The spreadsheet is taken from
sheets.spreadsheet_id, or a new one named sheets.spreadsheet_name is created.

Run 'leaks auth sheets' first if you use OAuth2 credentials.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(cmd, func(store *storage.SQLiteStorage) error {
				report, err := store.GetReport(cmd.Context(), args[0])
				if err != nil {
					return notFoundOr(args[0], err)
				}

				if err := exportToSheets(cmd.Context(), report); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported report %s to Google Sheets", report.ID)))
				return nil
			})
		},
	}
}

func notFoundOr(id string, err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return common.NewUserError(fmt.Sprintf("No saved report with ID %s. Run 'leaks history list' to see saved reports", id), err)
	}
	return err
}
