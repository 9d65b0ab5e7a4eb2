package internal

import (
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/todobuddy/internal/parser"
	"github.com/starford/todobuddy/internal/rollover"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Vault   VaultConfig       `yaml:"vault"`
	Journal JournalConfig     `yaml:"journal"`
	Parser  ParserConfig      `yaml:"parser"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Journal.Validate(); err != nil {
		return err
	}
	return c.Parser.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// VaultConfig holds the location of the notes directory.
type VaultConfig struct {
	Path      string `yaml:"path"`
	Extension string `yaml:"extension"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	c.Extension = strings.TrimPrefix(c.Extension, ".")
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.Extension, validation.Required, validation.Length(1, 16)),
	)
}

// JournalConfig controls daily rollover.
type JournalConfig struct {
	TitlePrefix  string `yaml:"title_prefix"`
	Tag          string `yaml:"tag"`
	LookbackDays int    `yaml:"lookback_days"`
}

// Validate validates the journal configuration.
func (c *JournalConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Tag, validation.Required),
		validation.Field(&c.LookbackDays, validation.Required, validation.Min(1), validation.Max(3650)),
	)
}

// ParserConfig tunes line parsing.
type ParserConfig struct {
	TabSize int `yaml:"tab_size"`
}

// Validate validates the parser configuration.
func (c *ParserConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.TabSize, validation.Required, validation.Min(1), validation.Max(16)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path:      ".",
			Extension: rollover.DefaultExtension,
		},
		Journal: JournalConfig{
			TitlePrefix:  rollover.DefaultTitlePrefix,
			Tag:          rollover.DefaultJournalTag,
			LookbackDays: rollover.DefaultLookbackDays,
		},
		Parser: ParserConfig{
			TabSize: parser.DefaultTabSize,
		},
	}
}
