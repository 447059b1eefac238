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
	"text/tabwriter"

	"github.com/gostor/scsitrace/pkg/port"
	"github.com/gostor/scsitrace/pkg/scsi"
	"github.com/spf13/cobra"
)

func newListCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "list",
		Short: "List object(s)",
		Long:  `List the commands and transports scsitrace decodes`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cmd.UsageString())
		},
	}
	cmd.AddCommand(
		newListCommandsCmd(),
		newListTransportsCmd(),
	)
	return cmd
}

func newListCommandsCmd() *cobra.Command {
	var class string
	var cmd = &cobra.Command{
		Use:   "commands",
		Short: "List the SCSI commands with structured decoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := NoArgs(cmd, args); err != nil {
				return err
			}
			return listCommands(cmd, class)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&class, "class", "", "Only list the commands of a device class (block, sequential)")
	return cmd
}

func listCommands(cmd *cobra.Command, class string) error {
	sets := []scsi.CommandSet{scsi.CommandSetSPC2, scsi.CommandSetSBC2, scsi.CommandSetSSC2}
	if class != "" {
		c, err := scsi.ParseDeviceClass(class)
		if err != nil {
			return err
		}
		switch c {
		case scsi.DeviceClassBlock:
			sets = []scsi.CommandSet{scsi.CommandSetSPC2, scsi.CommandSetSBC2}
		case scsi.DeviceClassSequential:
			sets = []scsi.CommandSet{scsi.CommandSetSPC2, scsi.CommandSetSSC2}
		default:
			sets = []scsi.CommandSet{scsi.CommandSetSPC2}
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 8, 1, 3, ' ', 0)
	fmt.Fprintln(w, "OPCODE\tSET\tNAME")
	for _, set := range sets {
		for _, c := range scsi.Commands(set) {
			fmt.Fprintf(w, "0x%02x\t%s\t%s\n", c.Opcode, c.Set, c.Name)
		}
	}
	return w.Flush()
}

func newListTransportsCmd() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "transports",
		Short: "List the registered transports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := NoArgs(cmd, args); err != nil {
				return err
			}
			for _, name := range port.Transports() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
	return cmd
}
