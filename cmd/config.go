package cmd

import (
	"fmt"

	"github.com/spf13/viper"
)

// CLIConfig holds itsscat's runtime configuration, loadable from an
// itsscat-config.yaml file in the working directory, $HOME/.itsscat, or
// /etc/itsscat, in addition to the command-line flags that
// override it.
type CLIConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	CacheSize int    `mapstructure:"cache_size"`
}

// LoadCLIConfig reads itsscat-config.yaml if present, falling back to
// built-in defaults when no config file is found.
func LoadCLIConfig() (*CLIConfig, error) {
	viper.SetConfigName("itsscat-config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.itsscat")
	viper.AddConfigPath("/etc/itsscat")

	viper.SetDefault("log_level", "info")
	viper.SetDefault("cache_size", 5)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading itsscat-config.yaml: %w", err)
		}
	}

	cfg := &CLIConfig{}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding itsscat config: %w", err)
	}
	return cfg, nil
}
