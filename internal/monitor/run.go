package monitor

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Lifecycle is the part of the controller Run starts and stops.
type Lifecycle interface {
	Initialize()
	Teardown()
}

// Run starts polling, runs the dashboard program until the user quits or ctx
// is cancelled, then tears the controller down. The bridge is closed before
// teardown so a controller blocked on a full event buffer can finish.
func Run(ctx context.Context, lc Lifecycle, model Model, opts ...tea.ProgramOption) error {
	lc.Initialize()
	defer func() {
		if model.bridge != nil {
			model.bridge.Close()
		}
		lc.Teardown()
	}()

	opts = append([]tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	}, opts...)

	_, err := tea.NewProgram(model, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
