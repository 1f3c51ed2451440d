package analysis

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// TraceEnv enables debug tracing of every pass when set to "1".
const TraceEnv = "GOKANIR_TRACE"

// Config configures a Coalescer.
type Config struct {
	// Workers bounds how many modules CoalesceAll processes at once.
	// Zero or negative means one worker per CPU.
	Workers int `yaml:"workers"`

	// Trace logs every constraint dispatch and merged class at debug level.
	// Ignored when Logger is set.
	Trace bool `yaml:"trace"`

	// Logger receives pass diagnostics. When nil, output is discarded unless
	// Trace is set or TraceEnv is "1", in which case a text handler on
	// stderr is used.
	Logger *slog.Logger `yaml:"-"`
}

// DefaultConfig returns the configuration used by the package-level
// functions.
func DefaultConfig() Config {
	return Config{
		Workers: 0,
		Trace:   os.Getenv(TraceEnv) == "1",
	}
}

// ParseConfig decodes a YAML configuration on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Workers < 0 {
		return Config{}, fmt.Errorf("parse config: workers must not be negative, got %d", cfg.Workers)
	}
	return cfg, nil
}

// LoadConfig reads and decodes a YAML configuration file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return ParseConfig(data)
}

func (c Config) logger() *slog.Logger {
	switch {
	case c.Logger != nil:
		return c.Logger
	case c.Trace:
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
