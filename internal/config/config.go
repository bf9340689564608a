// Package config loads alexa-ssml settings from defaults, the YAML config
// file (through viper) and ALEXA_SSML_* environment variables, in that
// order of increasing precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dgnsrekt/alexa-ssml/ssml"
)

// Supported dialect names.
const (
	DialectAlexa   = "alexa"
	DialectGeneric = "generic"
)

// Config contains all alexa-ssml configuration options.
type Config struct {
	// Dialect selects the rule set: alexa or generic.
	Dialect string `yaml:"dialect" env:"ALEXA_SSML_DIALECT"`

	// Copy also places rendered output on the system clipboard.
	Copy bool `yaml:"copy" env:"ALEXA_SSML_COPY"`

	// Pretty highlights output written to a terminal.
	Pretty bool `yaml:"pretty" env:"ALEXA_SSML_PRETTY"`

	Log      LogConfig      `yaml:"log"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Remote   RemoteConfig   `yaml:"remote"`
}

// LogConfig controls the debug log.
type LogConfig struct {
	Level string `yaml:"level" env:"ALEXA_SSML_LOG_LEVEL"`
	File  string `yaml:"file" env:"ALEXA_SSML_LOG_FILE"`
}

// MarkdownConfig controls the markdown converter.
type MarkdownConfig struct {
	IncludeCodeBlocks bool   `yaml:"include_code_blocks" env:"ALEXA_SSML_MARKDOWN_INCLUDE_CODE_BLOCKS"`
	ExpandLinks       bool   `yaml:"expand_links" env:"ALEXA_SSML_MARKDOWN_EXPAND_LINKS"`
	HeadingPause      string `yaml:"heading_pause" env:"ALEXA_SSML_MARKDOWN_HEADING_PAUSE"`
	SplitSentences    bool   `yaml:"split_sentences" env:"ALEXA_SSML_MARKDOWN_SPLIT_SENTENCES"`
}

// RemoteConfig controls how http(s) sources are fetched and cached.
type RemoteConfig struct {
	// CacheDir defaults to the user cache directory when empty.
	CacheDir string `yaml:"cache_dir" env:"ALEXA_SSML_REMOTE_CACHE_DIR"`
	// CacheSize is a human readable size such as "20MB". "0" disables the cache.
	CacheSize    string        `yaml:"cache_size" env:"ALEXA_SSML_REMOTE_CACHE_SIZE"`
	Timeout      time.Duration `yaml:"timeout" env:"ALEXA_SSML_REMOTE_TIMEOUT"`
	PollInterval time.Duration `yaml:"poll_interval" env:"ALEXA_SSML_REMOTE_POLL_INTERVAL"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Dialect: DialectAlexa,
		Copy:    false,
		Pretty:  true,
		Log: LogConfig{
			Level: "info",
		},
		Markdown: MarkdownConfig{
			IncludeCodeBlocks: false,
			ExpandLinks:       false,
			HeadingPause:      string(ssml.BreakStrong),
		},
		Remote: RemoteConfig{
			CacheSize:    "20MB",
			Timeout:      10 * time.Second,
			PollInterval: 5 * time.Second,
		},
	}
}

// DefaultFile is written when no configuration file exists yet.
const DefaultFile = `# rule set: "alexa" or "generic"
dialect: "alexa"
# also copy rendered output to the clipboard
copy: false
# highlight output written to a terminal
pretty: true

log:
  # debug, info, warn or error
  level: "info"
  # log file (default: user cache dir)
  # file: "~/.cache/alexa-ssml/alexa-ssml.log"

markdown:
  # speak fenced and indented code blocks
  include_code_blocks: false
  # read link targets after link text
  expand_links: false
  # break strength after headings
  heading_pause: "strong"
  # wrap each sentence of a paragraph in <s>
  split_sentences: false

remote:
  # cache for http(s) sources (default: user cache dir)
  # cache_dir: "~/.cache/alexa-ssml/sources"
  # maximum cache size, "0" disables the cache
  cache_size: "20MB"
  # request timeout
  timeout: "10s"
  # how often --watch polls a remote source
  poll_interval: "5s"
`

var (
	validDialects  = []string{DialectAlexa, DialectGeneric}
	validLogLevels = []string{"debug", "info", "warn", "error"}
)

// Validate checks if the configuration is valid. Names are normalized to
// lower case.
func (c *Config) Validate() error {
	dialect, ok := oneOf(c.Dialect, validDialects)
	if !ok {
		return fmt.Errorf("invalid dialect '%s': must be one of %v", c.Dialect, validDialects)
	}
	c.Dialect = dialect

	level, ok := oneOf(c.Log.Level, validLogLevels)
	if !ok {
		return fmt.Errorf("invalid log level '%s': must be one of %v", c.Log.Level, validLogLevels)
	}
	c.Log.Level = level

	if err := c.Markdown.Validate(); err != nil {
		return fmt.Errorf("markdown config: %w", err)
	}
	if err := c.Remote.Validate(); err != nil {
		return fmt.Errorf("remote config: %w", err)
	}
	return nil
}

// Validate checks if the markdown configuration is valid.
func (c *MarkdownConfig) Validate() error {
	pause := ssml.BreakStrength(strings.ToLower(c.HeadingPause))
	if !pause.IsValid() {
		return fmt.Errorf("invalid heading_pause '%s': must be one of %v", c.HeadingPause, ssml.BreakStrengths())
	}
	c.HeadingPause = string(pause)
	return nil
}

// minPollInterval keeps --watch from hammering remote hosts.
const minPollInterval = time.Second

// Validate checks if the remote configuration is valid.
func (c *RemoteConfig) Validate() error {
	if _, err := c.CacheBytes(); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout '%s': must be positive", c.Timeout)
	}
	if c.PollInterval < minPollInterval {
		return fmt.Errorf("invalid poll_interval '%s': must be at least %s", c.PollInterval, minPollInterval)
	}
	return nil
}

// CacheBytes parses CacheSize. An empty size means no cache.
func (c RemoteConfig) CacheBytes() (int64, error) {
	if c.CacheSize == "" {
		return 0, nil
	}
	n, err := humanize.ParseBytes(c.CacheSize)
	if err != nil {
		return 0, fmt.Errorf("invalid cache_size '%s': %w", c.CacheSize, err)
	}
	return int64(n), nil //nolint:gosec
}

func oneOf(value string, valid []string) (string, bool) {
	for _, v := range valid {
		if strings.EqualFold(value, v) {
			return v, true
		}
	}
	return value, false
}

// LoadConfigFromViper loads configuration from v, falling back to the
// global viper instance, then applies environment overrides and validates.
func LoadConfigFromViper(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.GetViper()
	}
	cfg := DefaultConfig()

	if v.IsSet("dialect") {
		cfg.Dialect = v.GetString("dialect")
	}
	if v.IsSet("copy") {
		cfg.Copy = v.GetBool("copy")
	}
	if v.IsSet("pretty") {
		cfg.Pretty = v.GetBool("pretty")
	}

	if v.IsSet("log.level") {
		cfg.Log.Level = v.GetString("log.level")
	}
	if v.IsSet("log.file") {
		cfg.Log.File = v.GetString("log.file")
	}

	if v.IsSet("markdown.include_code_blocks") {
		cfg.Markdown.IncludeCodeBlocks = v.GetBool("markdown.include_code_blocks")
	}
	if v.IsSet("markdown.expand_links") {
		cfg.Markdown.ExpandLinks = v.GetBool("markdown.expand_links")
	}
	if v.IsSet("markdown.heading_pause") {
		cfg.Markdown.HeadingPause = v.GetString("markdown.heading_pause")
	}
	if v.IsSet("markdown.split_sentences") {
		cfg.Markdown.SplitSentences = v.GetBool("markdown.split_sentences")
	}

	if v.IsSet("remote.cache_dir") {
		cfg.Remote.CacheDir = v.GetString("remote.cache_dir")
	}
	if v.IsSet("remote.cache_size") {
		cfg.Remote.CacheSize = v.GetString("remote.cache_size")
	}
	if v.IsSet("remote.timeout") {
		cfg.Remote.Timeout = v.GetDuration("remote.timeout")
	}
	if v.IsSet("remote.poll_interval") {
		cfg.Remote.PollInterval = v.GetDuration("remote.poll_interval")
	}

	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadFromEnv returns the defaults with environment overrides applied,
// for callers that do not use a config file.
func LoadFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := ApplyEnv(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields whose ALEXA_SSML_* variable is set. Fields
// without a variable keep their current value.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("error parsing environment: %w", err)
	}
	return nil
}

// YAML renders the effective configuration.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("unable to marshal config: %w", err)
	}
	return out, nil
}
