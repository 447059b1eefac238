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

package client

import (
	"io"
	"net/url"
	"strconv"

	"github.com/gostor/scsitrace/pkg/api"
	"golang.org/x/net/context"
)

// CaptureDecode posts a pcap or pcapng capture to the daemon and returns
// the decoded records.
func (cli *Client) CaptureDecode(ctx context.Context, capture io.Reader, options api.DecodeOptions) (*api.DecodeResponse, error) {
	query := url.Values{}
	if options.DefaultDeviceClass != "" {
		query.Set("device-class", options.DefaultDeviceClass)
	}
	if options.MaxTasks > 0 {
		query.Set("max-tasks", strconv.Itoa(options.MaxTasks))
	}
	for _, p := range options.ISCSIPorts {
		query.Add("iscsi-port", strconv.Itoa(int(p)))
	}
	headers := map[string]string{"Content-Type": api.MediaTypePcap}
	resp, err := cli.post(ctx, "/capture/decode", query, capture, headers)
	if err != nil {
		return nil, err
	}
	var result api.DecodeResponse
	if err := decodeBody(resp, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ServerVersion returns information of the daemon the client is connected to.
func (cli *Client) ServerVersion(ctx context.Context) (*api.Version, error) {
	resp, err := cli.get(ctx, "/version", nil)
	if err != nil {
		return nil, err
	}
	var v api.Version
	if err := decodeBody(resp, &v); err != nil {
		return nil, err
	}
	return &v, nil
}
