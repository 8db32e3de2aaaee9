package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/Veraticus/the-leaks-must-stop/internal/cli"
	"github.com/Veraticus/the-leaks-must-stop/internal/common"
	"github.com/Veraticus/the-leaks-must-stop/internal/config"
	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/plaid"
	"github.com/Veraticus/the-leaks-must-stop/internal/statement"
	"github.com/Veraticus/the-leaks-must-stop/internal/storage"
)

// initStorage opens the report history and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(config.DatabasePath())
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// sourceOptions says where transactions come from.
type sourceOptions struct {
	progress  io.Writer
	files     []string
	plaidDays int
}

// loadTransactions parses the statement files and, when requested, pulls
// recent Plaid transactions, merging both with statement.Dedupe.
func loadTransactions(ctx context.Context, opts sourceOptions) ([]model.Transaction, error) {
	if len(opts.files) == 0 && opts.plaidDays <= 0 {
		return nil, common.NewUserError("Provide at least one statement file or use --plaid-days", nil)
	}

	var all []model.Transaction

	if len(opts.files) > 0 {
		parserOpts := []statement.Option{statement.WithLogger(slog.Default())}
		if opts.progress != nil {
			bar := cli.NewFileProgress(opts.progress, len(opts.files))
			parserOpts = append(parserOpts, statement.WithFileHook(func(string, int) {
				_ = bar.Add(1)
			}))
		}

		txns, err := statement.NewParser(parserOpts...).ParseFiles(ctx, opts.files)
		if err != nil {
			return nil, fmt.Errorf("failed to parse statements: %w", err)
		}
		all = append(all, txns...)
	}

	if opts.plaidDays > 0 {
		cfg, err := config.LoadPlaidConfig()
		if err != nil {
			return nil, common.NewUserError("Plaid is not configured", err)
		}
		client, err := plaid.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create Plaid client: %w", err)
		}

		end := time.Now()
		txns, err := client.GetTransactions(ctx, end.AddDate(0, 0, -opts.plaidDays), end)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch Plaid transactions: %w", err)
		}
		all = append(all, txns...)
	}

	return statement.Dedupe(all), nil
}
