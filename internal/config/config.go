package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config captures the settings sift needs to reach the index server.
type Config struct {
	Host            string
	Port            int
	RequestTimeout  time.Duration
	PollInterval    time.Duration
	MutationWorkers int
	LogFile         string
}

const (
	defaultConfigPath      = "~/.config/sift/config.toml"
	defaultLogFile         = "~/.local/state/sift/sift.log"
	defaultHost            = "localhost"
	defaultPort            = 7172
	defaultRequestTimeout  = 10 * time.Second
	defaultPollInterval    = 5 * time.Second
	defaultMutationWorkers = 2
)

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Host:            defaultHost,
		Port:            defaultPort,
		RequestTimeout:  defaultRequestTimeout,
		PollInterval:    defaultPollInterval,
		MutationWorkers: defaultMutationWorkers,
		LogFile:         mustExpand(defaultLogFile),
	}
}

// Load locates and parses the sift config, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		Host            string `toml:"host"`
		Port            int    `toml:"port"`
		RequestTimeout  string `toml:"request_timeout"`
		PollInterval    string `toml:"poll_interval"`
		MutationWorkers int    `toml:"mutation_workers"`
		LogFile         string `toml:"log_file"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if host := strings.TrimSpace(raw.Host); host != "" {
		cfg.Host = host
	}
	if raw.Port != 0 {
		if raw.Port < 0 || raw.Port > 65535 {
			return Config{}, fmt.Errorf("parse config: port %d out of range", raw.Port)
		}
		cfg.Port = raw.Port
	}
	if cfg.RequestTimeout, err = parseDuration("request_timeout", raw.RequestTimeout, defaultRequestTimeout); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = parseDuration("poll_interval", raw.PollInterval, defaultPollInterval); err != nil {
		return Config{}, err
	}
	if raw.MutationWorkers > 0 {
		cfg.MutationWorkers = raw.MutationWorkers
	}
	if logFile := strings.TrimSpace(raw.LogFile); logFile != "" {
		cfg.LogFile = mustExpand(logFile)
	}

	return cfg, nil
}

// Address returns the host:port of the index server.
func (c Config) Address() string {
	host := strings.TrimSpace(c.Host)
	if host == "" {
		host = defaultHost
	}
	port := c.Port
	if port <= 0 {
		port = defaultPort
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// BaseURL returns the HTTP root of the index server.
func (c Config) BaseURL() string {
	return "http://" + c.Address()
}

// LogPath returns the diagnostic log file, defaulting when unset.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) == "" {
		return mustExpand(defaultLogFile)
	}
	return c.LogFile
}

func parseDuration(name, value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("parse config: %s: %w", name, err)
	}
	if d <= 0 {
		return fallback, nil
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return ExpandPath(defaultConfigPath)
	}
	return ExpandPath(path)
}

func mustExpand(path string) string {
	expanded, err := ExpandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves a leading ~ and returns an absolute path.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
