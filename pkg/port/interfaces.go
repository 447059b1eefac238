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

package port

import (
	"time"

	"github.com/gostor/scsitrace/pkg/scsi"
)

// Frame is one unit of captured traffic handed to a transport.
type Frame struct {
	Number    int
	Timestamp time.Time
	// Src and Dst name the endpoints, "ip:port" for TCP transports. They
	// are empty when the transport finds its addresses in Payload.
	Src, Dst string
	// Gap is set when bytes of the stream were lost before Payload.
	Gap     bool
	Payload []byte
}

// Transport turns frames of one transport protocol into SCSI decode
// results. A Transport keeps per-connection state and is bound to one
// session.
type Transport interface {
	Name() string
	HandleFrame(f *Frame) ([]*scsi.Result, error)
}
