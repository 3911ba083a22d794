package nova

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/xirelogy/go-nova/internal/interpreter"
	"github.com/xirelogy/go-nova/internal/vm"
)

// Config tunes interpreter and VM limits. The zero value is not valid;
// start from DefaultConfig.
type Config struct {
	MaxCallDepth     int    `yaml:"max_call_depth"`
	StackSize        int    `yaml:"stack_size"`
	InstructionLimit int    `yaml:"instruction_limit"`
	IncludeRoot      string `yaml:"include_root"`
	LogLevel         string `yaml:"log_level"`
	Color            string `yaml:"color"`
}

// DefaultConfig returns the built-in limits.
func DefaultConfig() Config {
	return Config{
		MaxCallDepth: interpreter.DefaultMaxDepth,
		StackSize:    vm.DefaultStackSize,
		LogLevel:     "warn",
		Color:        "auto",
	}
}

// ConfigError lists every problem found while validating a Config.
type ConfigError struct {
	Issues []string
}

func (e *ConfigError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid"
	}
	var b strings.Builder
	b.WriteString("config: invalid")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadConfig decodes YAML from r over DefaultConfig. Unknown keys are
// rejected.
func LoadConfig(r io.Reader) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return Config{}, errors.Wrap(err, "config: parse")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads path from fs and decodes it with LoadConfig.
func LoadConfigFile(fs billy.Filesystem, path string) (Config, error) {
	f, err := fs.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config: open %s", path)
	}
	defer f.Close()
	cfg, err := LoadConfig(f)
	if err != nil {
		return Config{}, errors.WithMessage(err, path)
	}
	return cfg, nil
}

// Validate reports every out-of-range field at once.
func (c Config) Validate() error {
	var errs ConfigError
	if c.MaxCallDepth <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("max_call_depth must be positive, got %d", c.MaxCallDepth))
	}
	if c.StackSize <= 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("stack_size must be positive, got %d", c.StackSize))
	}
	if c.InstructionLimit < 0 {
		errs.Issues = append(errs.Issues, fmt.Sprintf("instruction_limit must not be negative, got %d", c.InstructionLimit))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs.Issues = append(errs.Issues, err.Error())
	}
	switch c.Color {
	case "auto", "always", "never":
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("color must be auto, always or never, got %q", c.Color))
	}
	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog.Level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level %q is not a known level", c.LogLevel)
	}
	return level, nil
}
