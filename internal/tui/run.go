package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/the-leaks-must-stop/internal/model"
	"github.com/Veraticus/the-leaks-must-stop/internal/tui/themes"
)

// Run shows report full-screen until the user quits or ctx is canceled.
func Run(ctx context.Context, report *model.Report, theme themes.Theme) error {
	if report == nil {
		return fmt.Errorf("no report to display")
	}

	p := tea.NewProgram(
		NewReportViewer(report, theme),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("report viewer failed: %w", err)
	}
	return nil
}
