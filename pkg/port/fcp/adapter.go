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

package fcp

import (
	"fmt"

	"github.com/gostor/scsitrace/pkg/metrics"
	"github.com/gostor/scsitrace/pkg/port"
	"github.com/gostor/scsitrace/pkg/scsi"
	"github.com/gostor/scsitrace/pkg/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const TransportName = "fcp"

func init() {
	port.RegisterTransport(TransportName, NewAdapter)
}

// Adapter decodes the SCSI traffic of FC-2 frames. Each Frame payload is
// one FC-2 frame starting at R_CTL, without delimiters or CRC.
type Adapter struct {
	session *scsi.Session
	log     *log.Entry
}

func NewAdapter(s *scsi.Session) (port.Transport, error) {
	return &Adapter{
		session: s,
		log:     log.WithFields(log.Fields{"session": s.ID.String(), "transport": TransportName}),
	}, nil
}

func (a *Adapter) Name() string {
	return TransportName
}

// PortID formats an FC port address the way device addresses carry it.
func PortID(id uint32) string {
	return fmt.Sprintf("%06x", id&0xffffff)
}

func (a *Adapter) HandleFrame(f *port.Frame) ([]*scsi.Result, error) {
	metrics.Frames.WithValues(TransportName).Inc()
	h, err := ParseHeader(f.Payload)
	if err != nil {
		return nil, errors.Wrapf(err, "frame %d", f.Number)
	}
	if h.Type != TypeFCP || !h.DeviceData() {
		a.log.Debugf("frame %d: skipping R_CTL 0x%02x TYPE 0x%02x", f.Number, h.RCtl, h.Type)
		return nil, nil
	}
	payload, err := h.Payload(f.Payload)
	if err != nil {
		return nil, errors.Wrapf(err, "frame %d", f.Number)
	}

	s := a.session
	sid, did := util.MarshalUint24(h.SID), util.MarshalUint24(h.DID)
	key := scsi.TaskKey{ConversationID: util.HashEndpoints(sid, did), TaskID: uint64(h.OXID)}

	switch h.Category() {
	case CategoryCmnd:
		c, err := ParseCommand(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", f.Number)
		}
		if c.TaskMgmt != 0 {
			a.log.Debugf("task %v: task management flags 0x%02x", key, c.TaskMgmt)
			return nil, nil
		}
		dev := scsi.FormatDeviceAddr(PortID(h.DID), c.LUN)
		return []*scsi.Result{s.DecodeCommand(key, dev, c.CDB, c.DataLen)}, nil
	case CategoryData:
		phase := scsi.PhaseDataOut
		if h.FromResponder() {
			phase = scsi.PhaseDataIn
		}
		var offset uint32
		if h.FCtl&FCtlRelativeOffset != 0 {
			offset = h.Parameter
		}
		return []*scsi.Result{s.DecodeData(key, phase, payload, offset)}, nil
	case CategoryXferRdy:
		x, err := ParseXferRdy(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", f.Number)
		}
		a.log.Debugf("task %v: transfer ready offset %d length %d", key, x.Offset, x.BurstLen)
		return nil, nil
	case CategoryRsp:
		r, err := ParseResponse(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "frame %d", f.Number)
		}
		rs := []*scsi.Result{s.DecodeResponse(key, r.Status)}
		if r.Status != scsi.SAM_STAT_CHECK_CONDITION {
			return rs, nil
		}
		if r.SenseLen == 0 {
			a.log.Debugf("task %v: check condition without sense data", key)
			s.Tasks.EndTask(key)
			return rs, nil
		}
		return append(rs, s.DecodeSense(key, scsi.SenseRegion(r.Sense, r.SenseLen))), nil
	}
	a.log.Debugf("frame %d: ignoring %v", f.Number, h.Category())
	return nil, nil
}
