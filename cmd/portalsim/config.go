package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "PORTALSIM"

type Config struct {
	Level      string  `mapstructure:"level"`
	Ticks      int     `mapstructure:"ticks"`
	DT         float64 `mapstructure:"dt"`
	LogLevel   string  `mapstructure:"log-level"`
	LogConsole bool    `mapstructure:"log-console"`
	Trace      string  `mapstructure:"trace"`
}

// loadConfig resolves flags, PORTALSIM_* environment variables and an
// optional config file, in that order of precedence, over the defaults.
func loadConfig(args []string) (Config, error) {
	v := viper.New()
	v.SetDefault("level", "demo")
	v.SetDefault("ticks", 600)
	v.SetDefault("dt", 1.0/60.0)
	v.SetDefault("log-level", "info")
	v.SetDefault("log-console", true)
	v.SetDefault("trace", "")

	fs := pflag.NewFlagSet("portalsim", pflag.ContinueOnError)
	fs.String("config", "", "config file (yaml, json or toml)")
	fs.String("level", v.GetString("level"), "level name or path")
	fs.Int("ticks", v.GetInt("ticks"), "number of ticks to simulate")
	fs.Float64("dt", v.GetFloat64("dt"), "seconds per tick")
	fs.String("log-level", v.GetString("log-level"), "debug, info, warn or error")
	fs.Bool("log-console", v.GetBool("log-console"), "human readable logs instead of JSON")
	fs.String("trace", "", "write a zstd JSONL event trace to this path")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, fmt.Errorf("config: bind flags: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	var errs []error
	if strings.TrimSpace(c.Level) == "" {
		errs = append(errs, errors.New("config: level is empty"))
	}
	if c.Ticks < 0 {
		errs = append(errs, fmt.Errorf("config: ticks must be >= 0, got %d", c.Ticks))
	}
	if c.DT <= 0 {
		errs = append(errs, fmt.Errorf("config: dt must be > 0, got %g", c.DT))
	}
	return errors.Join(errs...)
}
