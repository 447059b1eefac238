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

package cmd

import (
	"fmt"
	"strings"

	"github.com/gostor/scsitrace/pkg/api/client"
	"github.com/gostor/scsitrace/pkg/config"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags to the settings they override.
var flagKeys = map[string]string{
	"log":          config.KeyLogLevel,
	"format":       config.KeyFormat,
	"device-class": config.KeyDefaultDeviceClass,
	"max-tasks":    config.KeyMaxTasks,
	"iscsi-port":   config.KeyISCSIPorts,
}

// globalOptions holds the settings every command runs with, loaded before
// the command runs.
type globalOptions struct {
	configDir string
	v         *viper.Viper
	config    *config.Config
}

func (opts *globalOptions) load(cmd *cobra.Command) error {
	opts.v = config.New(opts.configDir)
	for name, key := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := opts.v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	cfg, err := config.Load(opts.v)
	if err != nil {
		return err
	}
	opts.config = cfg
	return setLogLevel(cfg.LogLevel)
}

func setLogLevel(level string) error {
	switch level {
	case "info":
		log.SetLevel(log.InfoLevel)
	case "warn":
		log.SetLevel(log.WarnLevel)
	case "debug":
		log.SetLevel(log.DebugLevel)
	case "panic", "fatal", "error":
		log.SetLevel(log.ErrorLevel)
	default:
		return fmt.Errorf("unknown log level: %v", level)
	}
	return nil
}

func NewCommand(cli *client.Client) *cobra.Command {
	opts := &globalOptions{}
	var cmd = &cobra.Command{
		Use:   "scsitrace",
		Short: "Scsitrace decodes the SCSI traffic of FCP and iSCSI captures",
		Long:  ``,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.UsageString())
		},
		SilenceUsage: true,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configDir, "config", config.ConfigDir(), "Location of the config directory")
	flags.String("log", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newDecodeCommand(opts),
		newDaemonCommand(opts),
		newSubmitCommand(cli, opts),
		newListCommand(),
		newConfigCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

// NoArgs validate args and returns an error if there are any args
func NoArgs(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return nil
	}

	if cmd.HasSubCommands() {
		return fmt.Errorf("\n" + strings.TrimRight(cmd.UsageString(), "\n"))
	}

	return fmt.Errorf(
		"\"%s\" accepts no argument(s).\n",
		cmd.CommandPath(),
	)
}

// addDecodeFlags adds the flags that override decoding settings.
func addDecodeFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.String("format", "text", "Output format (text, json)")
	flags.String("device-class", "block", "Command set of devices no Inquiry was seen for (block, sequential)")
	flags.Int("max-tasks", 0, "Maximum number of outstanding tasks")
	flags.IntSlice("iscsi-port", nil, "TCP ports carrying iSCSI")
}
