/*
Copyright 2016 The GoStor Authors All rights reserved.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gostor/scsitrace/pkg/capture"
	"github.com/gostor/scsitrace/pkg/homedir"
	"github.com/gostor/scsitrace/pkg/scsi"
	"github.com/spf13/viper"
)

const (
	// ConfigName is the name of the config file, without extension. Any
	// extension viper understands may be used.
	ConfigName = "config"
	// ConfigFileName is the name Save writes.
	ConfigFileName = ConfigName + ".json"
	EnvPrefix      = "SCSITRACE"
)

// Setting keys.
const (
	KeyDefaultDeviceClass = "default-device-class"
	KeyMaxTasks           = "max-tasks"
	KeyISCSIPorts         = "iscsi-ports"
	KeyLogLevel           = "log-level"
	KeyFormat             = "format"
)

var (
	configDir = os.Getenv("SCSITRACE_CONFIG")
)

type Config struct {
	DefaultDeviceClass string `mapstructure:"default-device-class" json:"default-device-class"`
	MaxTasks           int    `mapstructure:"max-tasks" json:"max-tasks"`
	ISCSIPorts         []int  `mapstructure:"iscsi-ports" json:"iscsi-ports"`
	LogLevel           string `mapstructure:"log-level" json:"log-level"`
	Format             string `mapstructure:"format" json:"format"`
}

func init() {
	if configDir == "" {
		configDir = filepath.Join(homedir.Get(), ".scsitrace")
	}
}

// ConfigDir returns the directory the configuration file is stored in
func ConfigDir() string {
	return configDir
}

// New returns a viper instance holding the defaults, reading its config
// file from configDir and its environment from SCSITRACE_* variables.
func New(configDir string) *viper.Viper {
	if configDir == "" {
		configDir = ConfigDir()
	}
	v := viper.New()
	v.SetDefault(KeyDefaultDeviceClass, "block")
	v.SetDefault(KeyMaxTasks, scsi.DefaultMaxTasks)
	v.SetDefault(KeyISCSIPorts, []int{capture.DefaultISCSIPort})
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyFormat, "text")

	v.SetConfigName(ConfigName)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the config file, if there is one, and returns the settings.
func Load(v *viper.Viper) (*Config, error) {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("%s - %v", v.ConfigFileUsed(), err)
		}
	}
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, err
	}
	return config, config.Validate()
}

func (config *Config) Validate() error {
	if _, err := scsi.ParseDefaultDeviceClass(config.DefaultDeviceClass); err != nil {
		return err
	}
	if config.MaxTasks < 0 {
		return fmt.Errorf("bad parameter: %s must not be negative", KeyMaxTasks)
	}
	for _, p := range config.ISCSIPorts {
		if p <= 0 || p > 0xffff {
			return fmt.Errorf("bad parameter: iSCSI port %d", p)
		}
	}
	switch config.Format {
	case "text", "json":
	default:
		return fmt.Errorf("bad parameter: unknown format %q", config.Format)
	}
	return nil
}

// SessionOptions returns the options of a decoding session.
func (config *Config) SessionOptions() scsi.Options {
	class, _ := scsi.ParseDefaultDeviceClass(config.DefaultDeviceClass)
	return scsi.Options{DefaultDeviceClass: class, MaxTasks: config.MaxTasks}
}

func (config *Config) CaptureOptions() capture.Options {
	opts := capture.Options{}
	for _, p := range config.ISCSIPorts {
		opts.ISCSIPorts = append(opts.ISCSIPorts, uint16(p))
	}
	return opts
}

// Save writes the settings as JSON to filename.
func (config *Config) Save(filename string) error {
	if filename == "" {
		return fmt.Errorf("Can't save config with empty filename")
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()
	data, err := json.MarshalIndent(config, "", "\t")
	if err != nil {
		return err
	}
	_, err = f.Write(data)
	return err
}
