package cli

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sysinsight/internal/config"
	"github.com/rileyhilliard/sysinsight/internal/dashboard"
	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/rileyhilliard/sysinsight/internal/logger"
	"github.com/rileyhilliard/sysinsight/internal/monitor"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// debugLogFile receives log output while the dashboard owns the terminal.
const debugLogFile = "sysinsight-debug.log"

// dashboardCommand starts the TUI dashboard.
func dashboardCommand(cmd *cobra.Command, flags DashboardFlags) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New(errors.ErrConfig,
			"The dashboard needs an interactive terminal",
			"Run it directly in a terminal, or query the API with: curl localhost:5000/api/metrics/all")
	}

	log := logger.Noop()
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(debugLogFile, "sysinsight")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to open "+debugLogFile,
				"Check write permissions in the current directory")
		}
		defer f.Close()
		log = logger.NewEnvLogger("[dashboard]")
	}

	cfg, _, err := loadConfig(log)
	if err != nil {
		return err
	}
	if err := flags.Apply(cmd, &cfg.Dashboard); err != nil {
		return err
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	ctrl, model, err := newDashboard(cfg.Dashboard, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return monitor.Run(ctx, ctrl, model)
}

// newDashboard wires a controller to a monitor model through a bridge.
func newDashboard(d config.DashboardConfig, log logger.Logger) (*dashboard.Controller, monitor.Model, error) {
	bridge := monitor.NewBridge(0)
	thresholds := dashboardThresholds(d.Thresholds)

	ctrl, err := dashboard.New(dashboard.Options{
		Server:       d.Server,
		APIBaseURL:   d.APIBaseURL,
		PollInterval: d.PollInterval,
		Timeout:      d.RequestTimeout,
		Capacity:     d.Capacity,
		Thresholds:   thresholds,
		AlertDismiss: d.AlertDismiss,
		Logger:       log,
		Sink:         bridge,
		Visibility:   bridge.Visibility(),
	})
	if err != nil {
		bridge.Close()
		return nil, monitor.Model{}, err
	}

	model := monitor.NewModel(ctrl, bridge, monitor.Options{
		Thresholds: thresholds,
		Interval:   d.PollInterval,
	})
	return ctrl, model, nil
}
