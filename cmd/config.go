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
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/gostor/scsitrace/pkg/config"
	"github.com/spf13/cobra"
)

func newConfigCommand(opts *globalOptions) *cobra.Command {
	var save bool
	var cmd = &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  `Print the settings after merging the config file, the SCSITRACE_* environment and the command line.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := NoArgs(cmd, args); err != nil {
				return err
			}
			if save {
				filename := filepath.Join(opts.configDir, config.ConfigFileName)
				if err := opts.config.Save(filename); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "saved %s\n", filename)
			}
			data, err := json.MarshalIndent(opts.config, "", "\t")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	flags := cmd.Flags()
	flags.BoolVar(&save, "save", false, "Write the configuration to the config directory")
	addDecodeFlags(cmd)
	return cmd
}
