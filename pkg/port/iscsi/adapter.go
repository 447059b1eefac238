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

package iscsi

import (
	"strconv"

	"github.com/gostor/scsitrace/pkg/metrics"
	"github.com/gostor/scsitrace/pkg/port"
	"github.com/gostor/scsitrace/pkg/scsi"
	"github.com/gostor/scsitrace/pkg/util"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const TransportName = "iscsi"

func init() {
	port.RegisterTransport(TransportName, NewAdapter)
}

type connection struct {
	id      uint64
	digests Digests
	// digests answered by the target, in effect once login completes
	pending Digests
	// largest data segment a header may announce
	maxData int
	streams map[string]*stream
}

// Adapter decodes the SCSI traffic of iSCSI connections. Frames carry TCP
// payload bytes; PDUs may span frames.
type Adapter struct {
	session *scsi.Session
	conns   map[uint64]*connection
	log     *log.Entry
}

func NewAdapter(s *scsi.Session) (port.Transport, error) {
	return &Adapter{
		session: s,
		conns:   make(map[uint64]*connection),
		log:     log.WithFields(log.Fields{"session": s.ID.String(), "transport": TransportName}),
	}, nil
}

func (a *Adapter) Name() string {
	return TransportName
}

func (a *Adapter) connection(src, dst string) *connection {
	id := util.HashEndpoints([]byte(src), []byte(dst))
	c, ok := a.conns[id]
	if !ok {
		c = &connection{id: id, maxData: DefaultMaxDataSegmentLen, streams: make(map[string]*stream)}
		a.conns[id] = c
	}
	return c
}

func (a *Adapter) HandleFrame(f *port.Frame) ([]*scsi.Result, error) {
	metrics.Frames.WithValues(TransportName).Inc()
	c := a.connection(f.Src, f.Dst)
	st, ok := c.streams[f.Src]
	if !ok {
		st = &stream{}
		c.streams[f.Src] = st
	}
	if f.Gap && (st.synced || len(st.buf) > 0) {
		a.log.Warnf("frame %d: bytes missing from %s -> %s, resynchronizing", f.Number, f.Src, f.Dst)
		st.reset()
	}
	if len(f.Payload) == 0 {
		return nil, nil
	}
	st.buf = append(st.buf, f.Payload...)

	var results []*scsi.Result
	var ferr error
	for {
		if !st.synced {
			off, ok := findHeader(st.buf, c.digests, c.maxData)
			if off > 0 {
				a.log.Debugf("frame %d: skipped %d bytes looking for a PDU header", f.Number, off)
			}
			st.buf = st.buf[off:]
			if !ok {
				break
			}
			st.synced = true
		}
		pdu, n, err := split(st.buf, c.digests, c.maxData)
		if err != nil {
			if ferr == nil {
				ferr = errors.Wrapf(err, "frame %d", f.Number)
			}
			st.synced = false
			st.buf = st.buf[1:]
			continue
		}
		if n == 0 {
			break
		}
		st.buf = st.buf[n:]
		m, err := ParsePDU(pdu)
		if err != nil {
			if ferr == nil {
				ferr = errors.Wrapf(err, "frame %d", f.Number)
			}
			continue
		}
		results = append(results, a.handlePDU(c, f, m)...)
	}
	if len(st.buf) == 0 {
		st.buf = nil
	}
	return results, ferr
}

func (a *Adapter) handlePDU(c *connection, f *port.Frame, m *Message) []*scsi.Result {
	s := a.session
	key := scsi.TaskKey{ConversationID: c.id, TaskID: uint64(m.TaskTag)}
	var rs []*scsi.Result

	switch m.OpCode {
	case OpSCSICmd:
		dev := scsi.FormatDeviceAddr(f.Dst, m.LUN)
		rs = append(rs, s.DecodeCommand(key, dev, m.CDB, m.ExpectedDataLen))
		// immediate data
		if len(m.RawData) > 0 {
			rs = append(rs, s.DecodeData(key, scsi.PhaseDataOut, m.RawData, 0))
		}
	case OpSCSIOut:
		rs = append(rs, s.DecodeData(key, scsi.PhaseDataOut, m.RawData, m.BufferOffset))
	case OpSCSIIn:
		if len(m.RawData) > 0 {
			rs = append(rs, s.DecodeData(key, scsi.PhaseDataIn, m.RawData, m.BufferOffset))
		}
		if m.HasStatus {
			rs = append(rs, s.DecodeResponse(key, m.Status))
		}
	case OpSCSIResp:
		rs = append(rs, s.DecodeResponse(key, m.Status))
		if m.Status != scsi.SAM_STAT_CHECK_CONDITION {
			break
		}
		if len(m.RawData) < 2 {
			a.log.Debugf("task %v: check condition without sense data", key)
			s.Tasks.EndTask(key)
			break
		}
		senseLen := int(util.GetUnalignedUint16(m.RawData[0:2]))
		rs = append(rs, s.DecodeSense(key, scsi.SenseRegion(m.RawData[2:], senseLen)))
	case OpReady:
		a.log.Debugf("task %v: R2T offset %d length %d", key, m.BufferOffset, m.DesiredLen)
	case OpTextReq, OpTextResp:
		a.log.Debugf("%v: %v", m.OpCode, util.ParseKVText(m.RawData))
	case OpLoginReq:
		keys := util.ParseKVText(m.RawData)
		a.log.Debugf("%v: %v", m.OpCode, keys)
		raiseMaxData(c, keys)
	case OpLoginResp:
		a.negotiate(c, m)
	default:
		a.log.Debugf("ignoring %v", m.OpCode)
	}
	return rs
}

func (a *Adapter) negotiate(c *connection, m *Message) {
	keys := util.ParseKVText(m.RawData)
	a.log.Debugf("%v: %v", m.OpCode, keys)
	if v, ok := keys["HeaderDigest"]; ok {
		c.pending.Header = v == "CRC32C"
	}
	if v, ok := keys["DataDigest"]; ok {
		c.pending.Data = v == "CRC32C"
	}
	raiseMaxData(c, keys)
	if m.Transit && m.NSG == FullFeaturePhase && m.StatusClass == 0 {
		c.digests = c.pending
		a.log.Debugf("login complete, header digest %v, data digest %v", c.digests.Header, c.digests.Data)
	}
}

func raiseMaxData(c *connection, keys map[string]string) {
	if v, err := strconv.Atoi(keys["MaxRecvDataSegmentLength"]); err == nil && v > c.maxData {
		c.maxData = v
	}
}
