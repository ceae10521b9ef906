// Package config loads and saves the auditcheck configuration.
//
// Values come from ~/.auditcheck/config.json and may be overridden by
// AUDITCHECK_* environment variables (log.level becomes AUDITCHECK_LOG_LEVEL).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/example/auditcheck/internal/core/checklist"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "AUDITCHECK"

const fileName = "config.json"

// Config represents the auditcheck configuration.
type Config struct {
	CurrentChecklist string    `json:"current_checklist,omitempty"` // AUDIT-XXX
	DefaultAuditor   string    `json:"default_auditor,omitempty"`
	RequireAuditor   bool      `json:"require_auditor"`
	CategoryRule     string    `json:"category_rule"` // "all" or "critical_high"
	DBPath           string    `json:"db_path,omitempty"`
	Log              LogConfig `json:"log"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	File   string `json:"file,omitempty"`
}

// Keys lists every settable key.
var Keys = []string{
	"current_checklist",
	"default_auditor",
	"require_auditor",
	"category_rule",
	"db_path",
	"log.level",
	"log.format",
	"log.file",
}

// DefaultDir returns ~/.auditcheck.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".auditcheck"), nil
}

// Load reads config.json from dir, applies defaults and environment
// overrides, and validates the result. A missing file is not an error.
func Load(dir string) (*Config, error) {
	return load(dir, true)
}

// LoadFile reads config.json without environment overrides and without
// validation. Use it before Set and Save so that overrides are not written
// back to disk and an invalid file can still be repaired.
func LoadFile(dir string) (*Config, error) {
	return load(dir, false)
}

func load(dir string, withEnv bool) (*Config, error) {
	v := viper.New()
	setDefaults(v, dir)

	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()
	}

	v.SetConfigFile(filepath.Join(dir, fileName))
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		CurrentChecklist: v.GetString("current_checklist"),
		DefaultAuditor:   v.GetString("default_auditor"),
		RequireAuditor:   v.GetBool("require_auditor"),
		CategoryRule:     v.GetString("category_rule"),
		DBPath:           v.GetString("db_path"),
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			File:   v.GetString("log.file"),
		},
	}

	if !withEnv {
		return cfg, nil
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault("current_checklist", "")
	v.SetDefault("default_auditor", "")
	v.SetDefault("require_auditor", true)
	v.SetDefault("category_rule", string(checklist.CategoryRuleAll))
	v.SetDefault("db_path", filepath.Join(dir, "auditcheck.db"))
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
}

// Save writes config.json to dir.
func Save(dir string, cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(dir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks enumerated values.
func (c *Config) Validate() error {
	var problems []string

	if _, err := checklist.ParseCategoryRule(c.CategoryRule); err != nil {
		problems = append(problems, fmt.Sprintf("category_rule: %v", err))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level: %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format: %q is not one of console, json", c.Log.Format))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Policy returns the checklist validation policy described by the config.
func (c *Config) Policy() checklist.Policy {
	rule, err := checklist.ParseCategoryRule(c.CategoryRule)
	if err != nil {
		rule = checklist.CategoryRuleAll
	}
	return checklist.Policy{
		RequireAuditor: c.RequireAuditor,
		CategoryRule:   rule,
	}
}

// Set assigns a value by key and validates the result.
func (c *Config) Set(key, value string) error {
	switch key {
	case "current_checklist":
		c.CurrentChecklist = value
	case "default_auditor":
		c.DefaultAuditor = strings.TrimSpace(value)
	case "require_auditor":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("require_auditor: %q is not a boolean", value)
		}
		c.RequireAuditor = b
	case "category_rule":
		c.CategoryRule = strings.ToLower(value)
	case "db_path":
		c.DBPath = value
	case "log.level":
		c.Log.Level = strings.ToLower(value)
	case "log.format":
		c.Log.Format = strings.ToLower(value)
	case "log.file":
		c.Log.File = value
	default:
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(Keys, ", "))
	}
	return c.Validate()
}

// Values returns the configuration as key/value pairs sorted by key.
func (c *Config) Values() [][2]string {
	values := map[string]string{
		"current_checklist": c.CurrentChecklist,
		"default_auditor":   c.DefaultAuditor,
		"require_auditor":   strconv.FormatBool(c.RequireAuditor),
		"category_rule":     c.CategoryRule,
		"db_path":           c.DBPath,
		"log.level":         c.Log.Level,
		"log.format":        c.Log.Format,
		"log.file":          c.Log.File,
	}
	out := make([][2]string, 0, len(values))
	for k, v := range values {
		out = append(out, [2]string{k, v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
