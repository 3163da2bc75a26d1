package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/lookout/internal/logtail"
)

// Config holds lookout's settings after defaults and overrides are applied.
type Config struct {
	Endpoint        string
	Character       string
	PollInterval    time.Duration
	FollowThreshold int
	DefaultLevel    logtail.Level
	LogFile         string
	ServeDir        string
	ServeAddr       string
	InitialLines    int
}

const (
	defaultConfigPath      = "~/.config/lookout/config.toml"
	defaultEnvFile         = ".env"
	defaultEndpoint        = "127.0.0.1:8087"
	defaultPollInterval    = time.Second
	defaultFollowThreshold = 2
	defaultLevel           = logtail.LevelDebug
	defaultLogFile         = "~/.local/state/lookout/lookout.log"
	defaultServeDir        = "~/.local/share/lookout/logs"
	defaultServeAddr       = "127.0.0.1:8087"
	defaultInitialLines    = 1000
)

// Environment variables that override the config file.
const (
	EnvEndpoint  = "LOOKOUT_ENDPOINT"
	EnvCharacter = "LOOKOUT_CHARACTER"
	EnvLogFile   = "LOOKOUT_LOG_FILE"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Endpoint:        defaultEndpoint,
		PollInterval:    defaultPollInterval,
		FollowThreshold: defaultFollowThreshold,
		DefaultLevel:    defaultLevel,
		LogFile:         mustExpand(defaultLogFile),
		ServeDir:        mustExpand(defaultServeDir),
		ServeAddr:       defaultServeAddr,
		InitialLines:    defaultInitialLines,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
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
		Endpoint        string `toml:"endpoint"`
		Character       string `toml:"character"`
		PollIntervalMS  int    `toml:"poll_interval_ms"`
		FollowThreshold int    `toml:"follow_threshold"`
		DefaultLevel    string `toml:"default_level"`
		LogFile         string `toml:"log_file"`
		ServeDir        string `toml:"serve_dir"`
		ServeAddr       string `toml:"serve_addr"`
		InitialLines    int    `toml:"initial_lines"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.Endpoint); v != "" {
		cfg.Endpoint = v
	}
	cfg.Character = strings.TrimSpace(raw.Character)
	if raw.PollIntervalMS > 0 {
		cfg.PollInterval = time.Duration(raw.PollIntervalMS) * time.Millisecond
	}
	if raw.FollowThreshold > 0 {
		cfg.FollowThreshold = raw.FollowThreshold
	}
	if v := strings.TrimSpace(raw.DefaultLevel); v != "" {
		level, err := logtail.ParseLevel(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse config: default_level: %w", err)
		}
		cfg.DefaultLevel = level
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ServeDir); v != "" {
		cfg.ServeDir = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.ServeAddr); v != "" {
		cfg.ServeAddr = v
	}
	if raw.InitialLines > 0 {
		cfg.InitialLines = raw.InitialLines
	}

	return cfg, nil
}

// ReadEnv returns the LOOKOUT_* overrides from the .env file at path merged
// with the process environment, which takes precedence. An empty path reads
// ./.env if present; an explicit path must exist.
func ReadEnv(path string) (map[string]string, error) {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = defaultEnvFile
	}

	env := map[string]string{}
	fileEnv, err := godotenv.Read(path)
	switch {
	case err == nil:
		for k, v := range fileEnv {
			env[k] = v
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no .env in the working directory
	default:
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}

	for _, key := range []string{EnvEndpoint, EnvCharacter, EnvLogFile} {
		if v, ok := os.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

// ApplyEnv overlays environment overrides. The character override only
// fills in a name the config file left empty.
func (c *Config) ApplyEnv(env map[string]string) {
	if v := strings.TrimSpace(env[EnvEndpoint]); v != "" {
		c.Endpoint = v
	}
	if v := strings.TrimSpace(env[EnvCharacter]); v != "" && c.Character == "" {
		c.Character = v
	}
	if v := strings.TrimSpace(env[EnvLogFile]); v != "" {
		c.LogFile = mustExpand(v)
	}
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

// ExpandPath resolves "~" and returns an absolute path.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
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
