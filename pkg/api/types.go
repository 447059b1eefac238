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

// Package api holds the types of the scsitrace REST API.
package api

import (
	"github.com/gostor/scsitrace/pkg/capture"
)

// Media types a capture may be posted with.
const (
	MediaTypePcap   = "application/vnd.tcpdump.pcap"
	MediaTypeOctets = "application/octet-stream"
)

// DecodeOptions are the query parameters of POST /capture/decode. Zero
// values select the daemon's configured defaults.
type DecodeOptions struct {
	DefaultDeviceClass string
	MaxTasks           int
	ISCSIPorts         []uint16
}

// DecodeResponse is the body returned by POST /capture/decode.
type DecodeResponse struct {
	Session string            `json:"session"`
	Summary capture.Summary   `json:"summary"`
	Records []*capture.Record `json:"records"`
}

// Version is the body returned by GET /version.
type Version struct {
	Version    string   `json:"version"`
	GitCommit  string   `json:"git_commit,omitempty"`
	GoVersion  string   `json:"go_version"`
	Os         string   `json:"os"`
	Arch       string   `json:"arch"`
	Transports []string `json:"transports"`
}
