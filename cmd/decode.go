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
	"os/signal"
	"syscall"

	"github.com/gostor/scsitrace/pkg/capture"
	"github.com/gostor/scsitrace/pkg/scsi"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/net/context"
)

func newDecodeCommand(opts *globalOptions) *cobra.Command {
	var quiet bool
	var cmd = &cobra.Command{
		Use:   "decode CAPTURE [CAPTURE...]",
		Short: "Decode the SCSI traffic of pcap or pcapng captures",
		Long:  `Decode replays each capture through a new decoding session and prints one record per decoded payload.`,
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(stop)
			go func() {
				select {
				case <-stop:
					cancel()
				case <-ctx.Done():
				}
			}()
			return decodeCaptures(ctx, cmd, opts, args, quiet)
		},
	}
	addDecodeFlags(cmd)
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Only print the summary of each capture")
	return cmd
}

func decodeCaptures(ctx context.Context, cmd *cobra.Command, opts *globalOptions, paths []string, quiet bool) error {
	out, err := newRecordWriter(cmd.OutOrStdout(), opts.config.Format)
	if err != nil {
		return err
	}
	handler := func(rec *capture.Record) error {
		if quiet {
			return nil
		}
		return out.Write(rec)
	}
	for _, path := range paths {
		s := scsi.NewSession(opts.config.SessionOptions())
		log.Debugf("decoding %s in session %s", path, s.ID)
		sum, err := capture.ReplayFile(ctx, path, s, opts.config.CaptureOptions(), handler)
		s.Close()
		if err != nil {
			return err
		}
		printSummary(cmd.ErrOrStderr(), path, sum)
	}
	return nil
}
