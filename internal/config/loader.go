package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".repomate"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for repomate settings.
const envPrefix = "REPOMATE"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// legacyRepoPathEnv is honored for compatibility with deployments that
// configure the default repository through REPO_PATH.
const legacyRepoPathEnv = "REPO_PATH"

// Load reads configuration from file, env vars, and defaults. If configPath
// is non-empty it is used as the explicit config file path; otherwise the
// config file is searched in CWD and $HOME. A missing config file is not an
// error; defaults are used.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	viperCfg.SetDefault("repo_path", "")
	viperCfg.SetDefault("environment", "")
	viperCfg.SetDefault("log_json", false)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	bindErr := viperCfg.BindEnv("repo_path", envPrefix+"_REPO_PATH", legacyRepoPathEnv)
	if bindErr != nil {
		return nil, fmt.Errorf("bind repo_path env: %w", bindErr)
	}

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	return &cfg, nil
}
