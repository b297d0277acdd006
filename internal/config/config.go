package config

import (
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort      int    `mapstructure:"APP_PORT"`
	Storage      string `mapstructure:"STORAGE"`
	DataDir      string `mapstructure:"DATA_DIR"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	ArtifactsDir string `mapstructure:"ARTIFACTS_DIR"`
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`
	LogLevel     string `mapstructure:"LOG_LEVEL"`
}

// Storage backend identifiers for the STORAGE setting.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
)

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8080)
	viper.SetDefault("STORAGE", StorageFile)
	viper.SetDefault("DATA_DIR", "./data/sessions")
	viper.SetDefault("DATABASE_PATH", "./data/glimpse.db")
	viper.SetDefault("ARTIFACTS_DIR", "./data/artifacts")
	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_MODEL", "gemini-2.0-flash-exp")
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
