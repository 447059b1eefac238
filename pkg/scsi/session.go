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

package scsi

import (
	"fmt"

	"github.com/gostor/scsitrace/pkg/metrics"
	uuid "github.com/satori/go.uuid"
	log "github.com/sirupsen/logrus"
)

type Options struct {
	// DefaultDeviceClass is used for devices no Inquiry has been seen for.
	DefaultDeviceClass DeviceClass
	// MaxTasks bounds the number of outstanding tasks, DefaultMaxTasks if 0.
	MaxTasks int
}

// Phase is the part of a task a decoded payload belongs to.
type Phase int

const (
	PhaseCommand Phase = iota
	PhaseDataOut
	PhaseDataIn
	PhaseResponse
	PhaseSense
)

func (p Phase) String() string {
	switch p {
	case PhaseCommand:
		return "Command"
	case PhaseDataOut:
		return "Data-Out"
	case PhaseDataIn:
		return "Data-In"
	case PhaseResponse:
		return "Response"
	case PhaseSense:
		return "Sense Data"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(b []byte) error {
	for q := PhaseCommand; q <= PhaseSense; q++ {
		if q.String() == string(b) {
			*p = q
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", b)
}

// Result is the outcome of decoding one payload.
type Result struct {
	Phase      Phase      `json:"phase"`
	Key        TaskKey    `json:"-"`
	Task       string     `json:"task"`
	Device     DeviceAddr `json:"device,omitempty"`
	Opcode     byte       `json:"opcode"`
	Command    string     `json:"command,omitempty"`
	CommandSet string     `json:"command_set,omitempty"`
	Status     *byte      `json:"status,omitempty"`
	Fields     []Field    `json:"fields"`
	// Truncated is set when a read ran past the captured bytes.
	Truncated bool `json:"truncated,omitempty"`
	// Unmatched is set when no task state was found for the payload.
	Unmatched bool `json:"unmatched,omitempty"`
}

// Session holds the decoding state of one capture or one stream of frames.
// A Session is not safe for concurrent use.
type Session struct {
	ID      uuid.UUID
	Tasks   *TaskRegistry
	Devices *DeviceTypeRegistry
	log     *log.Entry
}

func NewSession(opts Options) *Session {
	id := uuid.NewV4()
	return &Session{
		ID:      id,
		Tasks:   NewTaskRegistry(opts.MaxTasks),
		Devices: NewDeviceTypeRegistry(opts.DefaultDeviceClass),
		log:     log.WithField("session", id.String()),
	}
}

// Close drops every outstanding task.
func (s *Session) Close() {
	if n := s.Tasks.Len(); n > 0 {
		s.log.Debugf("closing with %d outstanding tasks", n)
	}
	s.Tasks.Purge()
}

func (s *Session) newResult(phase Phase, key TaskKey, st *TaskState) *Result {
	r := &Result{Phase: phase, Key: key, Task: key.String()}
	if st == nil {
		return r
	}
	r.Device = st.Device
	r.Opcode = st.Opcode
	if c := commandOf(st); c != nil {
		r.Command = c.Name
		r.CommandSet = c.Set.String()
	}
	return r
}

func (s *Session) finish(r *Result, t *Tree) *Result {
	r.Fields = t.Fields()
	if t.Truncated() {
		r.Truncated = true
		metrics.Truncated.Inc()
	}
	return r
}

// DecodeCommand starts the task for key and decodes cdb. The command set is
// chosen from the class recorded for dev. expected is the transport's
// expected data transfer length.
func (s *Session) DecodeCommand(key TaskKey, dev DeviceAddr, cdb []byte, expected uint32) *Result {
	t := NewTree(cdb)
	if len(cdb) == 0 {
		t.Has(0, 1)
		return s.finish(s.newResult(PhaseCommand, key, nil), t)
	}

	class := s.Devices.Lookup(dev)
	st := s.Tasks.StartTask(key)
	st.Opcode = cdb[0]
	st.Class = class
	st.Device = dev
	st.ExpectedLength = expected

	c := LookupCommand(class, cdb[0])
	if c == nil {
		s.log.Debugf("task %v: unknown opcode 0x%02x for %v", key, cdb[0], class)
		t.Named("Unknown Opcode", 0, 1, fmt.Sprintf("0x%02x", cdb[0]))
		return s.finish(s.newResult(PhaseCommand, key, st), t)
	}
	st.CommandSet = c.Set
	metrics.Commands.WithValues(c.Name).Inc()

	t.Named("Opcode", 0, 1, c.Name)
	c.Decoder.DecodeCommand(t, st)
	return s.finish(s.newResult(PhaseCommand, key, st), t)
}

// DecodeData decodes a Data-In or Data-Out payload of the task for key.
// offset is the position of buf within the whole transfer.
func (s *Session) DecodeData(key TaskKey, phase Phase, buf []byte, offset uint32) *Result {
	t := NewTree(buf)
	st, ok := s.Tasks.FindTask(key)
	if !ok {
		metrics.Unmatched.Inc()
		r := s.newResult(phase, key, nil)
		r.Unmatched = true
		t.Rest("Data", 0)
		return s.finish(r, t)
	}
	r := s.newResult(phase, key, st)
	if offset != 0 {
		t.Rest("Data Fragment", 0)
		return s.finish(r, t)
	}
	if st.ExpectedLength > 0 {
		t.Clamp(int(st.ExpectedLength))
	}

	c := commandOf(st)
	switch {
	case c == nil:
		t.Rest("Data", 0)
	case phase == PhaseDataIn:
		c.Decoder.DecodeResponse(t, st)
		if st.Opcode == INQUIRY && st.CommandSet == CommandSetSPC2 &&
			!st.Has(TaskEVPD) && !st.Has(TaskCmdDt) && len(buf) > 0 {
			class := s.Devices.RecordInquiryResult(st.Device, buf[0])
			s.log.Debugf("device %s reports type 0x%02x (%v)", st.Device, buf[0]&0x1f, class)
		}
	default:
		if d, ok := c.Decoder.(DataOutDecoder); ok {
			d.DecodeDataOut(t, st)
		} else {
			t.Rest("Data", 0)
		}
	}
	return s.finish(r, t)
}

// DecodeResponse records the status of the task for key. The task ends
// unless the status is Check Condition, in which case it ends when its sense
// data is decoded.
func (s *Session) DecodeResponse(key TaskKey, status byte) *Result {
	st, ok := s.Tasks.FindTask(key)
	r := s.newResult(PhaseResponse, key, st)
	if !ok {
		metrics.Unmatched.Inc()
		r.Unmatched = true
	}
	r.Status = &status
	t := NewTree([]byte{status})
	t.Enum("Status", 0, 1, 0xff, statusNames)
	if status != SAM_STAT_CHECK_CONDITION {
		s.Tasks.EndTask(key)
	}
	return s.finish(r, t)
}

// DecodeSense ends the task for key and decodes buf as sense data.
func (s *Session) DecodeSense(key TaskKey, buf []byte) *Result {
	st, ok := s.Tasks.FindTask(key)
	r := s.newResult(PhaseSense, key, st)
	if !ok {
		r.Unmatched = true
	}
	s.Tasks.EndTask(key)
	t := NewTree(buf)
	decodeSense(t)
	return s.finish(r, t)
}
