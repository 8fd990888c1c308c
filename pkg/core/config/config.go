package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/msto63/arcanequest/foundation/arcane"
	"github.com/msto63/arcanequest/foundation/arcane/parser"
	"github.com/msto63/arcanequest/foundation/arcane/scanner"
	"github.com/msto63/arcanequest/foundation/arcane/semantic"
	mdwerror "github.com/msto63/arcanequest/foundation/core/error"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "ARCQ_"

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Frontend FrontendConfig `toml:"frontend" yaml:"frontend"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
	History  HistoryConfig  `toml:"history" yaml:"history"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// FrontendConfig holds the language pipeline settings
type FrontendConfig struct {
	TabWidth         int      `toml:"tab_width" yaml:"tab_width"`
	IndentMode       string   `toml:"indent_mode" yaml:"indent_mode"`
	Division         string   `toml:"division" yaml:"division"`
	ExpressionParser string   `toml:"expression_parser" yaml:"expression_parser"`
	SyncKeywords     []string `toml:"sync_keywords" yaml:"sync_keywords"`
}

// ServerConfig holds the language service settings
type ServerConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	MaxRecvMsgSize  int      `toml:"max_recv_msg_size" yaml:"max_recv_msg_size"`
	MaxSourceSize   int      `toml:"max_source_size" yaml:"max_source_size"`
	Keepalive       Duration `toml:"keepalive" yaml:"keepalive"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// HistoryConfig holds run history settings
type HistoryConfig struct {
	Enabled       bool   `toml:"enabled" yaml:"enabled"`
	Path          string `toml:"path" yaml:"path"`
	RetentionDays int    `toml:"retention_days" yaml:"retention_days"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file. The format follows
// the file extension; anything but .yaml and .yml is read as TOML.
// Environment overrides are applied after the file.
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, mdwerror.Newf("config file not found: %s", path).
				WithCode(mdwerror.CodeMissingConfig).
				WithOperation("config.load")
		}
		return nil, mdwerror.Wrap(err, "failed to read config").
			WithCode(mdwerror.CodeConfigError).
			WithOperation("config.load")
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	default:
		_, err = toml.Decode(string(data), &cfg)
	}
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the ARCQ_CONFIG environment
// variable or a default location. Without any file the defaults are used.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvPrefix + "CONFIG")
	if path == "" {
		defaultPaths := []string{
			"./arcq.toml",
			"./arcq.yaml",
			"./configs/arcq.toml",
			filepath.Join(os.Getenv("HOME"), ".config/arcq/config.toml"),
		}
		for _, p := range defaultPaths {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		cfg := Default()
		if err := cfg.applyEnv(); err != nil {
			return nil, err
		}
		return cfg, cfg.Validate()
	}

	return Load(path)
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "arcq"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Frontend
	if c.Frontend.TabWidth == 0 {
		c.Frontend.TabWidth = 4
	}
	if c.Frontend.IndentMode == "" {
		c.Frontend.IndentMode = scanner.IndentMultiple.String()
	}
	if c.Frontend.Division == "" {
		c.Frontend.Division = semantic.DivisionAlwaysFloat.String()
	}
	if c.Frontend.ExpressionParser == "" {
		c.Frontend.ExpressionParser = parser.ExprCascade.String()
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 9310
	}
	if c.Server.MaxRecvMsgSize == 0 {
		c.Server.MaxRecvMsgSize = 4 << 20
	}
	if c.Server.MaxSourceSize == 0 {
		c.Server.MaxSourceSize = 1 << 20
	}
	if c.Server.Keepalive.Duration == 0 {
		c.Server.Keepalive.Duration = 2 * time.Minute
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 10 * time.Second
	}

	// History
	if c.History.Path == "" {
		c.History.Path = "./data/arcq-history.db"
	}
	if c.History.RetentionDays == 0 {
		c.History.RetentionDays = 30
	}
}

// expandEnvVars expands environment variables in configuration values
func (c *Config) expandEnvVars() {
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// applyEnv applies ARCQ_* overrides
func (c *Config) applyEnv() error {
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return mdwerror.Wrap(err, "invalid "+EnvPrefix+name).
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.env")
		}
		*dst = n
		return nil
	}

	str("LOG_LEVEL", &c.General.LogLevel)
	str("LOG_FORMAT", &c.General.LogFormat)
	str("INDENT_MODE", &c.Frontend.IndentMode)
	str("DIVISION", &c.Frontend.Division)
	str("EXPRESSION_PARSER", &c.Frontend.ExpressionParser)
	str("SERVER_HOST", &c.Server.Host)
	str("HISTORY_PATH", &c.History.Path)

	for name, dst := range map[string]*int{
		"TAB_WIDTH":       &c.Frontend.TabWidth,
		"SERVER_PORT":     &c.Server.Port,
		"MAX_SOURCE_SIZE": &c.Server.MaxSourceSize,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}

	if v, ok := os.LookupEnv(EnvPrefix + "HISTORY_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return mdwerror.Wrap(err, "invalid "+EnvPrefix+"HISTORY_ENABLED").
				WithCode(mdwerror.CodeInvalidConfig).
				WithOperation("config.env")
		}
		c.History.Enabled = b
	}
	return nil
}

// Validate checks value ranges and enumerations
func (c *Config) Validate() error {
	invalid := func(field string, value interface{}, reason string) error {
		return mdwerror.Newf("invalid %s %v: %s", field, value, reason).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.validate").
			WithDetail("field", field)
	}

	switch strings.ToLower(c.General.LogFormat) {
	case "text", "json":
	default:
		return invalid("general.log_format", c.General.LogFormat, "must be text or json")
	}
	if c.Frontend.TabWidth < 1 || c.Frontend.TabWidth > 16 {
		return invalid("frontend.tab_width", c.Frontend.TabWidth, "must be between 1 and 16")
	}
	if _, err := scanner.ParseIndentMode(c.Frontend.IndentMode); err != nil {
		return invalid("frontend.indent_mode", c.Frontend.IndentMode, err.Error())
	}
	if _, err := semantic.ParseDivisionRule(c.Frontend.Division); err != nil {
		return invalid("frontend.division", c.Frontend.Division, err.Error())
	}
	if _, err := parser.ParseExprStrategy(c.Frontend.ExpressionParser); err != nil {
		return invalid("frontend.expression_parser", c.Frontend.ExpressionParser, err.Error())
	}
	for _, kw := range c.Frontend.SyncKeywords {
		if !scanner.IsKeyword(kw) {
			return invalid("frontend.sync_keywords", kw, "not a keyword")
		}
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return invalid("server.port", c.Server.Port, "must be between 1 and 65535")
	}
	if c.Server.MaxSourceSize < 1 {
		return invalid("server.max_source_size", c.Server.MaxSourceSize, "must be positive")
	}
	if c.Server.MaxRecvMsgSize < c.Server.MaxSourceSize {
		return invalid("server.max_recv_msg_size", c.Server.MaxRecvMsgSize, "must not be below max_source_size")
	}
	if c.History.Enabled && c.History.Path == "" {
		return invalid("history.path", c.History.Path, "required when history is enabled")
	}
	return nil
}

// FrontendOptions maps the frontend section onto pipeline options. The
// configuration must have passed Validate.
func (c *Config) FrontendOptions() arcane.Options {
	opts := arcane.DefaultOptions()
	opts.Scanner.TabWidth = c.Frontend.TabWidth
	opts.Scanner.IndentMode, _ = scanner.ParseIndentMode(c.Frontend.IndentMode)
	opts.Semantic.Division, _ = semantic.ParseDivisionRule(c.Frontend.Division)
	opts.Parser.Expression, _ = parser.ParseExprStrategy(c.Frontend.ExpressionParser)
	if len(c.Frontend.SyncKeywords) > 0 {
		opts.Parser.SyncKeywords = append([]string(nil), c.Frontend.SyncKeywords...)
	}
	return opts
}

// ServerAddress returns the host:port the language service listens on
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Retention returns the history retention period
func (c *Config) Retention() time.Duration {
	return time.Duration(c.History.RetentionDays) * 24 * time.Hour
}
