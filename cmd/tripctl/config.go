package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mmynk/moneytravel/internal/ledger"
	"github.com/mmynk/moneytravel/pkg/logging"
)

// Config keys. Each can also be set as TRIPCTL_<KEY>.
const (
	keyServer     = "server"
	keyLogLevel   = "log_level"
	keyToken      = "token"
	keyUserID     = "user_id"
	keyActiveTrip = "active_trip"
	keyActiveTab  = "active_tab"

	keyAMQPURL      = "amqp_url"
	keyAMQPExchange = "amqp_exchange"
)

func initConfig(_ *cobra.Command, _ []string) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("TRIPCTL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	logging.SetupWith(logging.ParseLevel(viper.GetString(keyLogLevel)), logging.Text)
	return nil
}

func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tripctl", "config.yaml"), nil
}

// configStore persists CLI state (session token, active trip, last view)
// in a viper-backed YAML file.
type configStore struct {
	v    *viper.Viper
	path string
}

func defaultConfigStore() (*configStore, error) {
	path, err := configPath()
	if err != nil {
		return nil, err
	}
	return &configStore{v: viper.GetViper(), path: path}, nil
}

func (c *configStore) get(key string) string {
	return c.v.GetString(key)
}

func (c *configStore) set(values map[string]string) error {
	for k, v := range values {
		c.v.Set(k, v)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	if err := c.v.WriteConfigAs(c.path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

var _ ledger.Preferences = (*configStore)(nil)

func (c *configStore) ActiveTrip() string { return c.get(keyActiveTrip) }

func (c *configStore) SetActiveTrip(tripID string) error {
	return c.set(map[string]string{keyActiveTrip: tripID})
}

func (c *configStore) ActiveTab() string { return c.get(keyActiveTab) }

func (c *configStore) SetActiveTab(tab string) error {
	return c.set(map[string]string{keyActiveTab: tab})
}
