package config

import (
	logger "github.com/Bparsons0904/goLogger"

	"github.com/spf13/viper"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	AuthIssuerURL        string `mapstructure:"AUTH_ISSUER_URL"`
	AuthAudience         string `mapstructure:"AUTH_AUDIENCE"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
}

// InitConfig loads configuration from the environment, falling back to .env
// files for local development. Environment variables always win.
func InitConfig() (Config, error) {
	log := logger.New("config").Function("InitConfig")

	viper.AutomaticEnv()

	envVars := []string{
		"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
		"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD",
		"DB_CACHE_ADDRESS", "DB_CACHE_PORT",
		"CORS_ALLOW_ORIGINS",
		"AUTH_ISSUER_URL", "AUTH_AUDIENCE",
		"SCHEDULER_ENABLED",
	}

	for _, env := range envVars {
		if err := viper.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	if viper.IsSet("SERVER_PORT") && viper.IsSet("DB_HOST") {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		viper.SetConfigFile(".env")
		viper.SetConfigType("env")

		if err := viper.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		}

		viper.SetConfigFile(".env.local")
		if err := viper.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	return config, nil
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	if config.AuthIssuerURL != "" && config.AuthAudience == "" {
		return log.Err(
			"Fatal error: AUTH_AUDIENCE required when AUTH_ISSUER_URL is set",
			nil,
		)
	}

	return nil
}
