// Package config reads application settings from viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"douvigia/internal/common"
	"douvigia/internal/model"
)

// InLabs holds the DOU portal settings.
type InLabs struct {
	BaseURL  string
	User     string
	Password string
	Timeout  time.Duration
}

// Telegram holds the bot delivery settings.
type Telegram struct {
	Token  string
	ChatID string
}

// GetInLabs reads the portal settings from viper. Credentials are
// required; the endpoint defaults to the public portal.
func GetInLabs() (InLabs, error) {
	cfg := InLabs{
		BaseURL:  viper.GetString("inlabs.base_url"),
		User:     viper.GetString("inlabs.user"),
		Password: viper.GetString("inlabs.password"),
		Timeout:  viper.GetDuration("inlabs.timeout"),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://inlabs.in.gov.br"
	}
	if cfg.User == "" || cfg.Password == "" {
		return InLabs{}, fmt.Errorf("%w: inlabs.user and inlabs.password", common.ErrMissingConfig)
	}
	return cfg, nil
}

// GetTelegram reads the bot settings from viper.
func GetTelegram() (Telegram, error) {
	cfg := Telegram{
		Token:  viper.GetString("telegram.token"),
		ChatID: viper.GetString("telegram.chat_id"),
	}
	if cfg.Token == "" || cfg.ChatID == "" {
		return Telegram{}, fmt.Errorf("%w: telegram.token and telegram.chat_id", common.ErrMissingConfig)
	}
	return cfg, nil
}

// DatabasePath returns the sqlite file location, expanded.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = "~/.local/share/douvigia/douvigia.db"
	}
	return ExpandPath(path)
}

// Units returns the configured budget-unit filter, or the default set
// when none is configured.
func Units() model.UnitFilter {
	codes := viper.GetStringSlice("units")
	if len(codes) == 0 {
		return model.DefaultUnits()
	}
	return model.NewUnitFilter(codes...)
}

// Sections returns the DOU sections to watch.
func Sections() []string {
	sections := viper.GetStringSlice("sections")
	if len(sections) == 0 {
		return []string{"DO1"}
	}
	return sections
}
