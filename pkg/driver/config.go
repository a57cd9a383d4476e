package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"dicexp/interpreter-go/pkg/interpreter"
	"dicexp/interpreter-go/pkg/restriction"
)

// Supported locales for error messages.
const (
	LocaleChinese = "zh"
	LocaleEnglish = "en"
)

// Config is a run configuration, usually read from dicexp.yml.
type Config struct {
	Path         string                   `yaml:"-"`
	Seed         uint64                   `yaml:"seed"`
	Locale       string                   `yaml:"locale"`
	Steps        bool                     `yaml:"steps"`
	Restrictions restriction.Restrictions `yaml:"restrictions"`
}

// ValidationError aggregates configuration validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "driver: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// DefaultConfig is used when no file is given.
func DefaultConfig() *Config {
	return &Config{Locale: LocaleChinese}
}

// LoadConfig parses and validates the configuration at path.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("driver: empty config path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("driver: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("driver: open %s: %w", absPath, err)
	}
	defer file.Close()

	cfg, err := ParseConfig(file, absPath)
	if err != nil {
		return nil, err
	}
	cfg.Path = absPath
	return cfg, nil
}

// ParseConfig reads a configuration document from r. Unknown fields are
// rejected; name is only used in error messages.
func ParseConfig(r io.Reader, name string) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	cfg := DefaultConfig()
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("driver: %s is empty", name)
		}
		return nil, fmt.Errorf("driver: parse %s: %w", name, err)
	}
	if cfg.Locale == "" {
		cfg.Locale = LocaleChinese
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs ValidationError
	switch c.Locale {
	case LocaleChinese, LocaleEnglish:
	default:
		errs.Issues = append(errs.Issues, fmt.Sprintf("locale %q is not supported (use %q or %q)", c.Locale, LocaleChinese, LocaleEnglish))
	}

	limits := c.Restrictions
	if limits.MaxCalls < 0 {
		errs.Issues = append(errs.Issues, "restrictions.maxCalls must not be negative")
	}
	if limits.MaxClosureCallDepth < 0 {
		errs.Issues = append(errs.Issues, "restrictions.maxClosureCallDepth must not be negative")
	}
	if st := limits.SoftTimeout; st != nil {
		if st.MS <= 0 {
			errs.Issues = append(errs.Issues, "restrictions.softTimeout.ms must be positive")
		}
		if st.IntervalPerCheck != nil && st.IntervalPerCheck.Calls <= 0 {
			errs.Issues = append(errs.Issues, "restrictions.softTimeout.intervalPerCheck.calls must be positive")
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

// Language maps the configured locale to a message tag.
func (c *Config) Language() language.Tag {
	if c.Locale == LocaleEnglish {
		return language.English
	}
	return language.Chinese
}

// Options converts the configuration into interpreter options.
func (c *Config) Options() interpreter.Options {
	return interpreter.Options{
		Seed:         c.Seed,
		Restrictions: c.Restrictions,
	}
}
