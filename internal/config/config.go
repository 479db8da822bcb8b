// Package config loads postboard settings from defaults, an optional
// postboard.yaml and POSTBOARD_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/idilsaglam/postboard/internal/model"
)

type Config struct {
	Env           string
	BaseURL       string
	DefaultImage  string
	Timeout       time.Duration
	LenientStatus bool
	Theme         string
	LogFile       string
	Server        Server
}

type Server struct {
	Addr     string
	DataFile string
}

// Overrides carry root flag values; empty fields leave the loaded value alone.
type Overrides struct {
	ConfigFile string
	BaseURL    string
	Theme      string
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("env", "dev")
	v.SetDefault("base_url", "http://localhost:3000/posts")
	v.SetDefault("default_image", model.DefaultImage)
	v.SetDefault("timeout", 0)
	v.SetDefault("lenient_status", false)
	v.SetDefault("theme", "classic")
	v.SetDefault("log_file", "")
	v.SetDefault("server.addr", ":3000")
	v.SetDefault("server.data_file", "db.json")

	v.SetEnvPrefix("POSTBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the configuration. A missing default config file is fine;
// a missing explicit one is not.
func Load(o Overrides) (*Config, error) {
	v := newViper()
	if o.ConfigFile != "" {
		v.SetConfigFile(o.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", o.ConfigFile, err)
		}
	} else {
		v.SetConfigName("postboard")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.postboard")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	if o.BaseURL != "" {
		v.Set("base_url", o.BaseURL)
	}
	if o.Theme != "" {
		v.Set("theme", o.Theme)
	}

	timeout, err := parseTimeout(v.GetString("timeout"))
	if err != nil {
		return nil, err
	}
	cfg := &Config{
		Env:           v.GetString("env"),
		BaseURL:       v.GetString("base_url"),
		DefaultImage:  v.GetString("default_image"),
		Timeout:       timeout,
		LenientStatus: v.GetBool("lenient_status"),
		Theme:         v.GetString("theme"),
		LogFile:       v.GetString("log_file"),
		Server: Server{
			Addr:     v.GetString("server.addr"),
			DataFile: v.GetString("server.data_file"),
		},
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("base_url must not be empty")
	}
	if cfg.DefaultImage == "" {
		cfg.DefaultImage = model.DefaultImage
	}
	return cfg, nil
}

// parseTimeout wants a Go duration with a unit ("5s", "1m30s"). A bare number
// other than 0 is rejected rather than read as nanoseconds.
func parseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("timeout %q: want a duration with a unit such as 5s: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("timeout %q must not be negative", s)
	}
	return d, nil
}
