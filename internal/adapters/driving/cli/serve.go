package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docqa/internal/config"
)

// ServeOptions carries the flags that affect server wiring
type ServeOptions struct {
	VerifyGateways bool
}

// ServeFunc runs the server until ctx is cancelled
type ServeFunc func(ctx context.Context, cfg *config.Config, opts ServeOptions, logger *slog.Logger) error

// serveFunc is the wiring installed by the binary
var serveFunc ServeFunc

// SetServeFunc installs the function that wires and runs the server
func SetServeFunc(fn ServeFunc) {
	serveFunc = fn
}

var (
	serveConfigPath     string
	serveEnvFile        string
	servePort           int
	serveVerifyGateways bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API serving /upload_pdfs, /process_pdfs and /query.

Configuration is read from the YAML file given by --config, then from a
.env file, then from environment variables. --port overrides them all.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "config.yaml", "path to the YAML config file")
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", ".env", "path to a .env file")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (overrides config)")
	serveCmd.Flags().BoolVar(&serveVerifyGateways, "verify-gateways", false, "ping the AI gateways before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveFunc == nil {
		return errors.New("serve is not available in this build")
	}

	config.LoadDotEnv(serveEnvFile)

	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.Log, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	if cfg.Session.Secret == config.DefaultSessionSecret {
		logger.Warn("using the development session secret; set SESSION_SECRET in production")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serveFunc(ctx, cfg, ServeOptions{VerifyGateways: serveVerifyGateways}, logger)
}

// newLogger builds the process logger from the log section
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
