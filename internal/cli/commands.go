package cli

import (
	"os"

	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/spf13/cobra"
)

// Command-specific flags
var (
	dashFlags  DashboardFlags
	serveFlags ServeFlags
	initOpts   InitOptions
)

// dashboardCmd starts the TUI dashboard
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash"},
	Short:   "Live CPU, memory and disk dashboard",
	Long: `Start an interactive TUI dashboard that polls the metrics API.

Shows the latest CPU, memory and disk usage with a rolling graph per metric,
color-coded by threshold. A banner appears when the server reports a critical
level. Polling pauses while the terminal is unfocused.

Keyboard shortcuts:
  q / Ctrl+C  Quit
  r           Fetch now
  p           Pause / resume polling
  x / Esc     Dismiss alert
  ?           Show help

Examples:
  sysinsight dashboard
  sysinsight dashboard --server http://mini:5000
  sysinsight dashboard --interval 2s --capacity 600`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboardCommand(cmd, dashFlags)
	},
}

// serveCmd runs the metrics API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve this machine's metrics over HTTP",
	Long: `Run the metrics API for this machine.

Endpoints:
  GET /api/metrics/all     CPU, memory and disk in one payload
  GET /api/metrics/cpu     CPU only (also /memory, /disk)
  GET /health, /ready      Liveness and readiness
  GET /metrics             Prometheus metrics

Examples:
  sysinsight serve
  sysinsight serve --listen :8080
  sysinsight serve --alerts=false`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCommand(cmd, serveFlags)
	},
}

// initCmd creates a new .sysinsight.yaml configuration
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create .sysinsight.yaml configuration",
	Long: `Create a .sysinsight.yaml file in the current directory.

Prompts for the API server and poll interval, then checks the server answers
before saving.

Examples:
  sysinsight init
  sysinsight init --server http://mini:5000
  sysinsight init --non-interactive --skip-check`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initOpts)
	},
}

// completionCmd generates shell completion scripts
var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion scripts for sysinsight.

Examples:
  # Bash
  sysinsight completion bash > /etc/bash_completion.d/sysinsight

  # Zsh
  sysinsight completion zsh > "${fpath[1]}/_sysinsight"

  # Fish
  sysinsight completion fish > ~/.config/fish/completions/sysinsight.fish`,
	ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return rootCmd.GenBashCompletion(os.Stdout)
		case "zsh":
			return rootCmd.GenZshCompletion(os.Stdout)
		case "fish":
			return rootCmd.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return rootCmd.GenPowerShellCompletion(os.Stdout)
		default:
			return errors.New(errors.ErrConfig,
				"Unknown shell: "+args[0],
				"Supported shells: bash, zsh, fish, powershell")
		}
	},
}

func init() {
	AddDashboardFlags(dashboardCmd, &dashFlags)
	AddServeFlags(serveCmd, &serveFlags)

	initCmd.Flags().StringVar(&initOpts.Server, "server", "", "metrics API origin (e.g., http://localhost:5000)")
	initCmd.Flags().StringVar(&initOpts.Interval, "interval", "", "poll interval (e.g., 5s)")
	initCmd.Flags().BoolVarP(&initOpts.Overwrite, "force", "f", false, "overwrite existing config")
	initCmd.Flags().BoolVar(&initOpts.NonInteractive, "non-interactive", false, "skip prompts and use defaults")
	initCmd.Flags().BoolVar(&initOpts.SkipProbe, "skip-check", false, "don't check the API before saving")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
}
