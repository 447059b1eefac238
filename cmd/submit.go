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
	"os"

	"github.com/gostor/scsitrace/pkg/api"
	"github.com/gostor/scsitrace/pkg/api/client"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"
)

func newSubmitCommand(cli *client.Client, opts *globalOptions) *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "submit CAPTURE",
		Short: "Decode a capture with a running daemon",
		Long:  `Submit posts the capture to the daemon and prints the records it decoded.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return submitCapture(cli, cmd, opts, args[0])
		},
	}
	addDecodeFlags(cmd)
	return cmd
}

// submitOptions returns the decode options set on the command line. Options
// left unset are chosen by the daemon.
func submitOptions(cmd *cobra.Command, opts *globalOptions) api.DecodeOptions {
	o := api.DecodeOptions{}
	flags := cmd.Flags()
	if flags.Changed("device-class") {
		o.DefaultDeviceClass = opts.config.DefaultDeviceClass
	}
	if flags.Changed("max-tasks") {
		o.MaxTasks = opts.config.MaxTasks
	}
	if flags.Changed("iscsi-port") {
		o.ISCSIPorts = opts.config.CaptureOptions().ISCSIPorts
	}
	return o
}

func submitCapture(cli *client.Client, cmd *cobra.Command, opts *globalOptions, path string) error {
	out, err := newRecordWriter(cmd.OutOrStdout(), opts.config.Format)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	resp, err := cli.CaptureDecode(context.Background(), f, submitOptions(cmd, opts))
	if err != nil {
		return err
	}
	for _, rec := range resp.Records {
		if err := out.Write(rec); err != nil {
			return err
		}
	}
	printSummary(cmd.ErrOrStderr(), path, &resp.Summary)
	return nil
}
