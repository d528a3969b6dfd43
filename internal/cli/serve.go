package cli

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rileyhilliard/sysinsight/internal/config"
	"github.com/rileyhilliard/sysinsight/internal/logger"
	"github.com/rileyhilliard/sysinsight/internal/server"
	"github.com/rileyhilliard/sysinsight/internal/ui"
	"github.com/spf13/cobra"
)

// serveCommand runs the metrics API until interrupted.
func serveCommand(cmd *cobra.Command, flags ServeFlags) error {
	log := logger.NewEnvLogger("[server]")
	if !logger.DebugEnabled() {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, path, err := loadConfig(log)
	if err != nil {
		return err
	}
	if path == "" {
		ui.PrintWarning("No %s found, using defaults", config.ConfigFileName)
	}
	flags.Apply(cmd, &cfg.Server)
	if err := config.Validate(cfg); err != nil {
		return err
	}

	srv := newServer(cfg.Server, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ui.PrintSuccess("Serving metrics on %s", ui.InfoStyle().Render(listenURL(cfg.Server.Listen)))
	return srv.Run(ctx, cfg.Server.Listen)
}

// newServer builds the API server from its config section.
func newServer(s config.ServerConfig, log logger.Logger) *server.Server {
	return server.New(server.Options{
		Collector:    server.NewSystemCollector(server.DefaultCPUSample, log),
		EnableAlerts: s.EnableAlerts,
		Thresholds:   serverThresholds(s.Thresholds),
		CORSOrigins:  s.CORSOrigins,
		ReadyLimit:   s.ReadyLimit,
		Version:      version,
		Logger:       log,
	})
}

// listenURL turns a listen address into a URL to show the user.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}
