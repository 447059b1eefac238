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
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gostor/scsitrace/pkg/apiserver"
	"github.com/gostor/scsitrace/pkg/apiserver/router/decode"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const DefaultHost = "tcp://127.0.0.1:23457"

func newDaemonCommand(opts *globalOptions) *cobra.Command {
	var hosts []string
	var maxCaptureSize int64
	var cmd = &cobra.Command{
		Use:   "daemon",
		Short: "Setup a daemon",
		Long:  `Setup the scsitrace daemon, which decodes captures posted to its REST API`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := NoArgs(cmd, args); err != nil {
				return err
			}
			return createDaemon(hosts, maxCaptureSize, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringSliceVarP(&hosts, "host", "H", []string{DefaultHost}, "Daemon socket(s) to listen on")
	flags.Int64Var(&maxCaptureSize, "max-capture-size", 1<<30, "Largest capture accepted for decoding, in bytes")
	addDecodeFlags(cmd)
	return cmd
}

func parseHosts(hosts []string) ([]apiserver.Addr, error) {
	addrs := []apiserver.Addr{}
	for _, protoAddr := range hosts {
		protoAddrParts := strings.SplitN(protoAddr, "://", 2)
		if len(protoAddrParts) != 2 {
			return nil, fmt.Errorf("bad format %s, expected PROTO://ADDR", protoAddr)
		}
		addrs = append(addrs, apiserver.Addr{Proto: protoAddrParts[0], Addr: protoAddrParts[1]})
	}
	return addrs, nil
}

func createDaemon(hosts []string, maxCaptureSize int64, opts *globalOptions) error {
	addrs, err := parseHosts(hosts)
	if err != nil {
		log.Error(err)
		return err
	}
	serverConfig := &apiserver.Config{
		Addrs:          addrs,
		MaxCaptureSize: maxCaptureSize,
		Decode: decode.Defaults{
			Session: opts.config.SessionOptions(),
			Capture: opts.config.CaptureOptions(),
		},
	}

	s, err := apiserver.New(serverConfig)
	if err != nil {
		log.Error(err)
		return err
	}
	s.InitRouters()
	// The serve API routine never exits unless an error occurs
	// We need to start it as a goroutine and wait on it so
	// daemon doesn't exit
	serveAPIWait := make(chan error)
	go s.Wait(serveAPIWait)

	stopAll := make(chan os.Signal, 1)
	signal.Notify(stopAll, syscall.SIGINT, syscall.SIGTERM)

	select {
	case errAPI := <-serveAPIWait:
		if errAPI != nil {
			log.Warnf("Shutting down due to ServeAPI error: %v", errAPI)
		}
	case <-stopAll:
		break
	}
	s.Close()
	return nil
}
