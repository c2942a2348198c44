// Package config loads poresolver settings with Viper.
//
// Sources, lowest precedence first: built-in defaults, a .poresolver.{yaml,toml,json}
// file in the workspace root, POR_* environment variables, and command-line
// flags bound to the same keys.
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/dhamidi/poresolver/completion"
	"github.com/dhamidi/poresolver/pageobject"
)

const (
	FileName  = ".poresolver"
	EnvPrefix = "POR"
)

type Config struct {
	Objects  ObjectsConfig `mapstructure:"objects"`
	Resolver string        `mapstructure:"resolver"`
	Token    string        `mapstructure:"token"`
	Sort     string        `mapstructure:"sort"`
	LSP      LSPConfig     `mapstructure:"lsp"`
	Metrics  MetricsConfig `mapstructure:"metrics"`
	Check    CheckConfig   `mapstructure:"check"`
	Log      LogConfig     `mapstructure:"log"`
}

type ObjectsConfig struct {
	Dir             string `mapstructure:"dir"`
	Marker          string `mapstructure:"marker"`
	CompositeMarker string `mapstructure:"composite_marker"`
	Extension       string `mapstructure:"extension"`
}

type LSPConfig struct {
	Transport string `mapstructure:"transport"`
	Address   string `mapstructure:"address"`
	Watch     bool   `mapstructure:"watch"`
}

type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

type CheckConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type LogConfig struct {
	Verbosity int    `mapstructure:"verbosity"`
	File      string `mapstructure:"file"`
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("objects.dir", "objects")
	v.SetDefault("objects.marker", "objects/")
	v.SetDefault("objects.composite_marker", "composite")
	v.SetDefault("objects.extension", ".js")

	v.SetDefault("resolver", string(completion.StrategyImports))
	v.SetDefault("token", string(pageobject.TokenIdentifier))
	v.SetDefault("sort", string(completion.SortLabel))

	v.SetDefault("lsp.transport", "stdio")
	v.SetDefault("lsp.address", "127.0.0.1:7998")
	v.SetDefault("lsp.watch", true)

	v.SetDefault("metrics.address", "")
	v.SetDefault("check.concurrency", 8)

	v.SetDefault("log.verbosity", 0)
	v.SetDefault("log.file", "")
}

// New returns a Viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load merges the workspace config file under root, if any, into v and
// returns the validated result.
func Load(v *viper.Viper, root string) (*Config, error) {
	if root != "" {
		v.SetConfigName(FileName)
		v.AddConfigPath(root)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrapf(err, "read config in %s", root)
			}
		}
	}
	return LoadWithViper(v)
}

func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshal config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if _, err := completion.ParseStrategy(c.Resolver); err != nil {
		return err
	}
	if _, err := pageobject.ParseTokenMode(c.Token); err != nil {
		return err
	}
	if _, err := completion.ParseSortOrder(c.Sort); err != nil {
		return err
	}
	switch c.LSP.Transport {
	case "stdio", "tcp", "websocket":
	default:
		return errors.Newf("unknown lsp transport %q (want stdio, tcp or websocket)", c.LSP.Transport)
	}
	if c.Objects.Dir == "" || c.Objects.Marker == "" {
		return errors.New("objects.dir and objects.marker must not be empty")
	}
	if c.Check.Concurrency < 0 {
		return errors.Newf("check.concurrency must not be negative, got %d", c.Check.Concurrency)
	}
	return nil
}

// PageObjects returns the page object layout for the workspace at root.
func (c *Config) PageObjects(root string) pageobject.Options {
	return pageobject.Options{
		Root:            root,
		ObjectsDir:      c.Objects.Dir,
		Marker:          c.Objects.Marker,
		CompositeMarker: c.Objects.CompositeMarker,
		Extension:       c.Objects.Extension,
	}
}

// Engine returns completion options. Validate must have succeeded.
func (c *Config) Engine() completion.Options {
	return completion.Options{
		Objects:  c.PageObjects(""),
		Resolver: completion.Strategy(c.Resolver),
		Token:    pageobject.TokenMode(c.Token),
		Sort:     completion.SortOrder(c.Sort),
	}
}
