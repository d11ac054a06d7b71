package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App    AppConfig
	API    APIConfig
	Notify NotifyConfig
}

type AppConfig struct {
	Env      string
	LogLevel string
}

type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type NotifyConfig struct {
	VisibleDuration time.Duration
	// Optional booking form prefill.
	PatientName  string
	PatientEmail string
}

var ErrMissingBaseURL = errors.New("API_BASE_URL is not set")

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	// A missing .env is tolerated; the process environment alone may carry everything.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigParseError); ok {
			return nil, err
		}
	}

	baseURL := viper.GetString("API_BASE_URL")
	if baseURL == "" {
		return nil, ErrMissingBaseURL
	}

	timeout, err := time.ParseDuration(viper.GetString("HTTP_TIMEOUT"))
	if err != nil {
		timeout = 15 * time.Second
	}

	notifyMs := viper.GetInt("NOTIFY_DURATION_MS")
	if notifyMs <= 0 {
		notifyMs = 3000
	}

	config := &Config{
		App: AppConfig{
			Env:      viper.GetString("APP_ENV"),
			LogLevel: viper.GetString("LOG_LEVEL"),
		},
		API: APIConfig{
			BaseURL: baseURL,
			Timeout: timeout,
		},
		Notify: NotifyConfig{
			VisibleDuration: time.Duration(notifyMs) * time.Millisecond,
			PatientName:     viper.GetString("PATIENT_NAME"),
			PatientEmail:    viper.GetString("PATIENT_EMAIL"),
		},
	}

	return config, nil
}
