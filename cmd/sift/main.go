package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/five82/sift/internal/app"
	"github.com/five82/sift/internal/config"
)

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, args); err != nil {
		fmt.Fprintf(os.Stderr, "sift: %v\n", err)
		return 1
	}
	return 0
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "sift",
		Usage: "Search and curate a local index from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default ~/.config/sift/config.toml)",
			},
			&cli.StringFlag{
				Name:  "prefs",
				Usage: "Preferences file path (default ~/.config/sift/prefs.toml)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Index server host, overrides the config file",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Index server port, overrides the config file",
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "Run this search on start",
			},
			&cli.StringFlag{
				Name:  "open",
				Usage: "Open the stored content of this item id on start",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Log file path, overrides the config file",
			},
		},
		Before: validateFlags,
		Action: runSift,
	}
}

func validateFlags(c *cli.Context) error {
	if _, err := parseLevel(c.String("log-level")); err != nil {
		return err
	}
	if port := c.Int("port"); port < 0 || port > 65535 {
		return fmt.Errorf("invalid port %d", port)
	}
	return nil
}

func runSift(c *cli.Context) error {
	opts := app.Options{
		ConfigPath: c.String("config"),
		PrefsPath:  c.String("prefs"),
		Host:       c.String("host"),
		Port:       c.Int("port"),
		Query:      c.String("query"),
		OpenID:     c.String("open"),
	}

	cfg, err := app.Resolve(opts)
	if err != nil {
		return err
	}

	logPath := cfg.LogPath()
	if override := strings.TrimSpace(c.String("log-file")); override != "" {
		if logPath, err = config.ExpandPath(override); err != nil {
			return fmt.Errorf("log file: %w", err)
		}
	}

	level, _ := parseLevel(c.String("log-level"))
	logger, closeLog, err := openLogger(logPath, level)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	cfg.LogFile = logPath
	opts.Logger = logger
	return app.Run(c.Context, cfg, opts)
}

func parseLevel(value string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", value)
	}
}

// openLogger creates a text logger appending to path. The terminal belongs to
// the UI, so nothing is written to stderr.
func openLogger(path string, level slog.Level) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return newLogger(file, level), func() { _ = file.Close() }, nil
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
