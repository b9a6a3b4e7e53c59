package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// IngestConfig holds configuration for the backfill and run commands.
type IngestConfig struct {
	MidgardURL     string
	PgDSN          string
	From           time.Time
	To             time.Time
	RateDelay      time.Duration
	RequestTimeout time.Duration
	Resume         bool
	LogLevel       string
}

// LoadIngest merges config file, environment variables, and flags into
// IngestConfig.
func LoadIngest(cfgFile string, flags *pflag.FlagSet) (IngestConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("midgard-url", "https://midgard.ninerealms.com/v2")
		v.SetDefault("rate-delay", 2*time.Second)
		v.SetDefault("request-timeout", 30*time.Second)
		v.SetDefault("resume", false)
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return IngestConfig{}, err
	}

	cfg := IngestConfig{
		MidgardURL:     v.GetString("midgard-url"),
		PgDSN:          v.GetString("pg-dsn"),
		RateDelay:      v.GetDuration("rate-delay"),
		RequestTimeout: v.GetDuration("request-timeout"),
		Resume:         v.GetBool("resume"),
		LogLevel:       v.GetString("log-level"),
	}

	if cfg.PgDSN == "" {
		return IngestConfig{}, fmt.Errorf("pg-dsn is required")
	}

	if raw := v.GetString("from"); raw != "" {
		if cfg.From, err = parseTimestamp(raw); err != nil {
			return IngestConfig{}, fmt.Errorf("parse from: %w", err)
		}
	}
	if raw := v.GetString("to"); raw != "" {
		if cfg.To, err = parseTimestamp(raw); err != nil {
			return IngestConfig{}, fmt.Errorf("parse to: %w", err)
		}
	}

	return cfg, nil
}

// ServeConfig holds configuration for the read service.
type ServeConfig struct {
	Listen   string
	PgDSN    string
	LogLevel string
}

// LoadServe merges config file, environment variables, and flags into
// ServeConfig.
func LoadServe(cfgFile string, flags *pflag.FlagSet) (ServeConfig, error) {
	v, err := newViper(cfgFile, flags, func(v *viper.Viper) {
		v.SetDefault("listen", ":8080")
		v.SetDefault("log-level", "info")
	})
	if err != nil {
		return ServeConfig{}, err
	}

	cfg := ServeConfig{
		Listen:   v.GetString("listen"),
		PgDSN:    v.GetString("pg-dsn"),
		LogLevel: v.GetString("log-level"),
	}

	if cfg.PgDSN == "" {
		return ServeConfig{}, fmt.Errorf("pg-dsn is required")
	}

	return cfg, nil
}

func newViper(cfgFile string, flags *pflag.FlagSet, defaults func(*viper.Viper)) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("RUNESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	defaults(v)

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	return v, nil
}

// parseTimestamp accepts unix seconds or RFC3339.
func parseTimestamp(raw string) (time.Time, error) {
	if secs, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected unix seconds or RFC3339: %q", raw)
	}
	return t.UTC(), nil
}
