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

// Package metrics exposes decoder counters through prometheus.
package metrics

import (
	"net/http"

	gometrics "github.com/docker/go-metrics"
)

var (
	// Commands counts decoded CDBs by command name.
	Commands gometrics.LabeledCounter
	// Frames counts transport frames by transport name.
	Frames         gometrics.LabeledCounter
	TasksStarted   gometrics.Counter
	TasksCompleted gometrics.Counter
	TasksEvicted   gometrics.Counter
	// Unmatched counts payloads and responses with no task state.
	Unmatched gometrics.Counter
	// Truncated counts decodes that ran past the end of their buffer.
	Truncated gometrics.Counter

	// APIRequests counts REST API calls by method and route.
	APIRequests gometrics.LabeledCounter
)

func init() {
	ns := gometrics.NewNamespace("scsitrace", "decoder", nil)
	Commands = ns.NewLabeledCounter("commands", "The number of decoded SCSI commands", "command")
	Frames = ns.NewLabeledCounter("frames", "The number of transport frames handed to the decoder", "transport")
	TasksStarted = ns.NewCounter("tasks_started", "The number of tasks started")
	TasksCompleted = ns.NewCounter("tasks_completed", "The number of tasks ended by status or sense data")
	TasksEvicted = ns.NewCounter("tasks_evicted", "The number of tasks dropped because the task registry was full")
	Unmatched = ns.NewCounter("unmatched", "The number of data or status frames without a matching command")
	Truncated = ns.NewCounter("truncated", "The number of decodes cut short by the end of the captured bytes")
	gometrics.Register(ns)

	api := gometrics.NewNamespace("scsitrace", "api", nil)
	APIRequests = api.NewLabeledCounter("requests", "The number of REST API requests", "method", "path")
	gometrics.Register(api)
}

// Handler serves the registered metrics in the prometheus text format.
func Handler() http.Handler {
	return gometrics.Handler()
}
