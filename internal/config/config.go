// Package config reads the CLI configuration file.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the CLI configuration.
type Config struct {
	Verbosity string        `mapstructure:"verbosity"`
	Backend   BackendConfig `mapstructure:"backend"`
}

// BackendConfig selects and sizes the device backend.
type BackendConfig struct {
	Kind       string `mapstructure:"kind"`
	CapacityMB uint64 `mapstructure:"capacityMB"`
}

// CapacityBytes converts CapacityMB to bytes.
func (b BackendConfig) CapacityBytes() uint64 {
	return b.CapacityMB << 20
}

func parseConfigPath(configPath string) (string, string, string) {
	configFolder, configName := filepath.Split(configPath)
	configName = strings.TrimSuffix(configName, filepath.Ext(configName))
	configType := strings.ReplaceAll(filepath.Ext(configPath), ".", "")

	if configFolder == "" {
		configFolder = "./"
	}

	return configFolder, configName, configType
}

func newViper(configPath string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("verbosity", "info")
	v.SetDefault("backend.kind", "mock")
	v.SetDefault("backend.capacityMB", 0)

	v.SetEnvPrefix("LABELED")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath == "" {
		return v, nil
	}

	configFolder, configName, configType := parseConfigPath(configPath)
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(configFolder)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", configPath, err)
	}
	return v, nil
}

// Read loads the configuration. An empty path yields the defaults,
// overridden by LABELED_* environment variables.
func Read(configPath string) (Config, error) {
	v, err := newViper(configPath)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{}
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	switch strings.ToLower(cfg.Backend.Kind) {
	case "mock", "webgpu":
	default:
		return Config{}, fmt.Errorf("config: unsupported backend kind %q", cfg.Backend.Kind)
	}

	return cfg, nil
}
