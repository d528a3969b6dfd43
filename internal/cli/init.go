package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/rileyhilliard/sysinsight/internal/config"
	"github.com/rileyhilliard/sysinsight/internal/errors"
	"github.com/rileyhilliard/sysinsight/internal/poller"
	"github.com/rileyhilliard/sysinsight/internal/ui"
	"golang.org/x/term"
)

// probeTimeout bounds the connection check run before saving.
const probeTimeout = 5 * time.Second

// InitOptions holds options for the init command.
type InitOptions struct {
	Server         string // Pre-specified API origin
	Interval       string // Pre-specified poll interval
	Overwrite      bool   // Overwrite existing config without asking
	NonInteractive bool   // Skip prompts, use defaults
	SkipProbe      bool   // Don't check the API before saving
}

// getInitDefaults reads init values from the environment. CI implies
// non-interactive.
func getInitDefaults() InitOptions {
	return InitOptions{
		Server:         os.Getenv(config.EnvPrefix + "_DASHBOARD_SERVER"),
		Interval:       os.Getenv(config.EnvPrefix + "_DASHBOARD_POLL_INTERVAL"),
		NonInteractive: isTruthy(os.Getenv(config.EnvPrefix+"_NON_INTERACTIVE")) || isTruthy(os.Getenv("CI")),
	}
}

// mergeInitOptions fills empty flag values from the environment.
func mergeInitOptions(opts InitOptions) InitOptions {
	env := getInitDefaults()
	if opts.Server == "" {
		opts.Server = env.Server
	}
	if opts.Interval == "" {
		opts.Interval = env.Interval
	}
	if env.NonInteractive {
		opts.NonInteractive = true
	}
	return opts
}

func isTruthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// Init creates a new .sysinsight.yaml configuration file.
func Init(opts InitOptions) error {
	opts = mergeInitOptions(opts)
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		opts.NonInteractive = true
	}
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !opts.Overwrite {
		if opts.NonInteractive {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Config file already exists: %s", configPath),
				"Use --force to overwrite")
		}

		var overwrite bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}
		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	server := opts.Server
	interval := opts.Interval

	if !opts.NonInteractive {
		if server == "" {
			server = cfg.Dashboard.Server
		}
		if interval == "" {
			interval = cfg.Dashboard.PollInterval.String()
		}
		apiBase := cfg.Dashboard.APIBaseURL

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Metrics API server").
					Description("Where 'sysinsight serve' is running").
					Placeholder("http://localhost:5000").
					Value(&server).
					Validate(func(s string) error {
						if _, err := poller.Endpoint(strings.TrimSpace(s), apiBase); err != nil {
							return fmt.Errorf("use a full URL like http://localhost:5000")
						}
						return nil
					}),
				huh.NewInput().
					Title("API base path").
					Description("Joined with the server; a full URL is used as-is").
					Placeholder("/api").
					Value(&apiBase),
				huh.NewInput().
					Title("Poll interval").
					Placeholder("5s").
					Value(&interval).
					Validate(func(s string) error {
						d, err := time.ParseDuration(strings.TrimSpace(s))
						if err != nil {
							return fmt.Errorf("use a duration like 2s, 5s, or 1m")
						}
						if d < config.MinPollInterval {
							return fmt.Errorf("use at least %s", config.MinPollInterval)
						}
						return nil
					}),
			),
		)
		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Check terminal compatibility or use --non-interactive flag")
		}
		cfg.Dashboard.APIBaseURL = strings.TrimSpace(apiBase)
	}

	if s := strings.TrimSpace(server); s != "" {
		cfg.Dashboard.Server = s
	}
	if s := strings.TrimSpace(interval); s != "" {
		d, err := ParseInterval(s)
		if err != nil {
			return err
		}
		cfg.Dashboard.PollInterval = d
	}

	if err := config.Validate(cfg); err != nil {
		return err
	}

	if !opts.SkipProbe {
		if err := probeServer(cfg.Dashboard, opts.NonInteractive); err != nil {
			return err
		}
	}

	if err := config.Write(configPath, cfg); err != nil {
		return err
	}

	fmt.Printf("%s Created %s\n\n", ui.SymbolSuccess, configPath)
	fmt.Println("Next steps:")
	fmt.Println("  sysinsight serve      - Serve this machine's metrics")
	fmt.Println("  sysinsight dashboard  - Watch them live")

	return nil
}

// probeServer fetches the all-metrics endpoint once. When it fails the user
// may still save; non-interactive runs fail.
func probeServer(d config.DashboardConfig, nonInteractive bool) error {
	endpoint, err := poller.Endpoint(d.Server, d.APIBaseURL)
	if err != nil {
		return err
	}

	fmt.Println()
	spinner := ui.NewSpinner("Checking " + endpoint)
	spinner.Start()

	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	_, err = poller.NewHTTPFetcher(endpoint, nil).Fetch(ctx)
	if err == nil {
		spinner.Success()
		fmt.Println()
		return nil
	}
	spinner.Fail()

	failure := errors.WrapWithCode(err, errors.ErrNetwork,
		fmt.Sprintf("Metrics API at '%s' didn't answer", endpoint),
		"Start it with 'sysinsight serve', or pass --skip-check")

	if nonInteractive {
		return failure
	}

	fmt.Printf("\n%s %s: %s\n\n", ui.SymbolFail, endpoint, errors.Summary(err))

	var saveAnyway bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Save config anyway? (You can start the server later)").
				Value(&saveAnyway),
		),
	)
	if formErr := form.Run(); formErr != nil || !saveAnyway {
		return failure
	}
	return nil
}

// initCommand is the implementation called by the cobra command.
func initCommand(opts InitOptions) error {
	return Init(opts)
}
