package cli

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/sysinsight/internal/config"
	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/spf13/cobra"
)

// DashboardFlags holds the flags of the dashboard command. They override the
// config file only when set on the command line.
type DashboardFlags struct {
	Server   string
	Interval string
	Capacity int
}

// AddDashboardFlags registers --server, --interval and --capacity.
func AddDashboardFlags(cmd *cobra.Command, flags *DashboardFlags) {
	cmd.Flags().StringVar(&flags.Server, "server", "", "metrics API origin or URL (e.g., http://localhost:5000)")
	cmd.Flags().StringVar(&flags.Interval, "interval", "", "poll interval (e.g., 2s, 5s, 1m)")
	cmd.Flags().IntVar(&flags.Capacity, "capacity", 0, "samples kept per metric")
}

// Apply copies the flags that were set onto d.
func (f DashboardFlags) Apply(cmd *cobra.Command, d *config.DashboardConfig) error {
	if cmd.Flags().Changed("server") {
		d.Server = f.Server
	}
	if cmd.Flags().Changed("interval") {
		interval, err := ParseInterval(f.Interval)
		if err != nil {
			return err
		}
		d.PollInterval = interval
	}
	if cmd.Flags().Changed("capacity") {
		d.Capacity = f.Capacity
	}
	return nil
}

// ServeFlags holds the flags of the serve command.
type ServeFlags struct {
	Listen string
	Alerts bool
}

// AddServeFlags registers --listen and --alerts.
func AddServeFlags(cmd *cobra.Command, flags *ServeFlags) {
	cmd.Flags().StringVar(&flags.Listen, "listen", "", "address to listen on (e.g., :5000)")
	cmd.Flags().BoolVar(&flags.Alerts, "alerts", true, "include threshold alerts in /api/metrics/all")
}

// Apply copies the flags that were set onto s.
func (f ServeFlags) Apply(cmd *cobra.Command, s *config.ServerConfig) {
	if cmd.Flags().Changed("listen") {
		s.Listen = f.Listen
	}
	if cmd.Flags().Changed("alerts") {
		s.EnableAlerts = f.Alerts
	}
}

// ParseInterval parses an interval flag value.
func ParseInterval(flag string) (time.Duration, error) {
	d, err := time.ParseDuration(flag)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid interval", flag),
			"Try something like 2s, 5s, or 1m.")
	}
	return d, nil
}
