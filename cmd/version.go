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

	"github.com/gostor/scsitrace/pkg/port"
	"github.com/gostor/scsitrace/pkg/version"
	"github.com/spf13/cobra"
)

func newVersionCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of scsitrace",
		Long:  `All software has versions. This is scsitrace's`,
		Run: func(cmd *cobra.Command, args []string) {
			commit := version.GitCommit
			if commit == "" {
				commit = "HEAD"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Scsitrace %s -- %s\n", version.VERSION, commit)
			fmt.Fprintf(cmd.OutOrStdout(), "Transports: %s\n", strings.Join(port.Transports(), ", "))
		},
	}
	return cmd
}
