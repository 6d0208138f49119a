// Package config loads the runtime configuration of the ledger.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // the fixed zone must resolve in minimal containers

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"golang.org/x/exp/slices"
)

// Config holds all runtime settings. Business parameters that used to be
// constants (the budget, the payment type partition) live here.
type Config struct {
	Port        int    `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database_url"`
	UploadDir   string `mapstructure:"upload_dir"`

	Budget          decimal.Decimal `mapstructure:"-"`
	Zone            *time.Location  `mapstructure:"-"`
	Timezone        string          `mapstructure:"timezone"`
	CurrencySymbol  string          `mapstructure:"currency_symbol"`
	Locale          string          `mapstructure:"locale"`
	DefaultCategory string          `mapstructure:"default_category"`
	PaymentTypes    []string        `mapstructure:"-"`
	Allowed         []string        `mapstructure:"-"`

	SecretKey        string   `mapstructure:"secret_key"`
	CORSAllowOrigins []string `mapstructure:"-"`
	EnablePprof      bool     `mapstructure:"enable_pprof"`
}

var defaults = map[string]any{
	"port":                8080,
	"database_url":        "sqlite://instance/tracker.db",
	"upload_dir":          "instance/uploads",
	"budget_overall":      "1000000",
	"timezone":            "Asia/Kolkata",
	"currency_symbol":     "₹",
	"locale":              "en-IN",
	"default_category":    "Misc",
	"payment_types":       "Advance,Final,Other",
	"allowed_attachments": "*.png,*.jpg,*.jpeg,*.pdf",
	"secret_key":          "dev-secret",
	"cors_allow_origins":  "",
	"enable_pprof":        false,
}

// Load reads the configuration.
//
// Values come from, in increasing order of precedence: built-in defaults,
// an optional config file (config.yaml in the working directory if path is
// empty), a .env file and the process environment.
func Load(path string) (Config, error) {
	if LoadEnvFile() {
		log.Debug().Msg("loaded .env file")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	budget, err := decimal.NewFromString(strings.TrimSpace(v.GetString("budget_overall")))
	if err != nil {
		return Config{}, fmt.Errorf("budget_overall %q is not a number: %w", v.GetString("budget_overall"), err)
	}
	c.Budget = budget

	c.Zone, err = time.LoadLocation(c.Timezone)
	if err != nil {
		return Config{}, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}

	c.PaymentTypes = list(v.GetString("payment_types"), ",")
	c.Allowed = list(v.GetString("allowed_attachments"), ",")
	c.CORSAllowOrigins = strings.Fields(v.GetString("cors_allow_origins"))

	return c, nil
}

// list splits a separated value and drops empty and repeated elements.
func list(s, sep string) []string {
	var out []string
	for _, e := range strings.Split(s, sep) {
		if e = strings.TrimSpace(e); e != "" && !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}

// LoadEnvFile loads the .env file in the working directory into the process
// environment, if there is one. Variables that are already set are kept.
func LoadEnvFile() bool {
	return godotenv.Load() == nil
}
