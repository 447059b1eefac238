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
	"testing"

	"github.com/gostor/scsitrace/pkg/port"
	"github.com/gostor/scsitrace/pkg/scsi"
	"github.com/gostor/scsitrace/pkg/util"
	"gotest.tools/v3/assert"
)

const (
	initiator = "10.0.0.1:51000"
	target    = "10.0.0.2:3260"
)

// peer is one side of a connection.
type peer struct {
	src, dst string
	frames   int
}

func (p *peer) frame(payload []byte) *port.Frame {
	p.frames++
	return &port.Frame{Number: p.frames, Src: p.src, Dst: p.dst, Payload: payload}
}

func newPeers() (*peer, *peer) {
	return &peer{src: initiator, dst: target}, &peer{src: target, dst: initiator}
}

func newTestAdapter(t *testing.T) (*Adapter, *scsi.Session) {
	s := scsi.NewSession(scsi.Options{})
	tr, err := port.NewTransport(TransportName, s)
	assert.NilError(t, err)
	return tr.(*Adapter), s
}

func inquiryCommand(itt uint32) *Message {
	return &Message{
		OpCode:          OpSCSICmd,
		Final:           true,
		Read:            true,
		TaskTag:         itt,
		ExpectedDataLen: 36,
		CDB:             []byte{0x12, 0x00, 0x00, 0x00, 0x24, 0x00},
	}
}

func inquiryData() []byte {
	b := []byte{0x00, 0x00, 0x05, 0x02, 0x1f, 0x00, 0x00, 0x00}
	b = append(b, "GOSTOR  "...)
	b = append(b, "GOTGT           "...)
	b = append(b, "0.1 "...)
	return b
}

func findField(fields []scsi.Field, name string) (scsi.Field, bool) {
	for _, f := range fields {
		if f.Name == name {
			return f, true
		}
	}
	return scsi.Field{}, false
}

func handle(t *testing.T, a *Adapter, f *port.Frame) []*scsi.Result {
	t.Helper()
	rs, err := a.HandleFrame(f)
	assert.NilError(t, err)
	return rs
}

func TestInquiryOverISCSI(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, tg := newPeers()

	rs := handle(t, a, i.frame(inquiryCommand(7).Bytes()))
	assert.Equal(t, len(rs), 1)
	assert.Equal(t, rs[0].Phase, scsi.PhaseCommand)
	assert.Equal(t, rs[0].Command, "Inquiry")
	assert.Equal(t, rs[0].Device, scsi.DeviceAddr("10.0.0.2:3260/lun0"))

	in := &Message{OpCode: OpSCSIIn, Final: true, HasStatus: true, TaskTag: 7, RawData: inquiryData()}
	rs = handle(t, a, tg.frame(in.Bytes()))
	assert.Equal(t, len(rs), 2)
	assert.Equal(t, rs[0].Phase, scsi.PhaseDataIn)
	assert.Assert(t, !rs[0].Unmatched)
	f, ok := findField(rs[0].Fields, "Vendor Id")
	assert.Assert(t, ok)
	assert.Equal(t, f.Value, "GOSTOR")
	assert.Equal(t, rs[1].Phase, scsi.PhaseResponse)
	assert.Equal(t, *rs[1].Status, byte(scsi.SAM_STAT_GOOD))

	assert.Equal(t, s.Devices.Lookup("10.0.0.2:3260/lun0"), scsi.DeviceClassBlock)
	assert.Equal(t, s.Tasks.Len(), 0)
}

func TestTasksOnDifferentConnections(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, _ := newPeers()
	other := &peer{src: "10.0.0.3:51000", dst: target}

	handle(t, a, i.frame(inquiryCommand(7).Bytes()))
	handle(t, a, other.frame(inquiryCommand(7).Bytes()))
	assert.Equal(t, s.Tasks.Len(), 2)
}

func TestPDUSpanningFrames(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, _ := newPeers()

	pdu := inquiryCommand(1).Bytes()
	rs := handle(t, a, i.frame(pdu[:20]))
	assert.Equal(t, len(rs), 0)
	rs = handle(t, a, i.frame(pdu[20:]))
	assert.Equal(t, len(rs), 1)
	assert.Equal(t, rs[0].Command, "Inquiry")
}

func TestFramesCarryingSeveralPDUs(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, _ := newPeers()

	payload := append(inquiryCommand(1).Bytes(), inquiryCommand(2).Bytes()...)
	rs := handle(t, a, i.frame(payload))
	assert.Equal(t, len(rs), 2)
	assert.Equal(t, s.Tasks.Len(), 2)
}

func TestLostSegmentResynchronizes(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, _ := newPeers()

	first := inquiryCommand(1).Bytes()
	handle(t, a, i.frame(first[:20]))
	// the rest of the first PDU never arrives
	f := i.frame(inquiryCommand(2).Bytes())
	f.Gap = true
	rs := handle(t, a, f)
	assert.Equal(t, len(rs), 1)
	assert.Equal(t, rs[0].Key.TaskID, uint64(2))
	assert.Equal(t, s.Tasks.Len(), 1)
}

func TestStreamStartingInsidePDU(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, _ := newPeers()

	// the tail of a PDU announcing a 64KiB data segment
	payload := make([]byte, BHSLen)
	copy(payload[5:8], []byte{0x01, 0x00, 0x00})
	for itt := uint32(1); itt <= 5; itt++ {
		payload = append(payload, inquiryCommand(itt).Bytes()...)
	}
	rs := handle(t, a, i.frame(payload))
	assert.Equal(t, len(rs), 5)
	for n, r := range rs {
		assert.Equal(t, r.Command, "Inquiry")
		assert.Equal(t, r.Key.TaskID, uint64(n+1))
	}
	assert.Equal(t, s.Tasks.Len(), 5)
}

func TestCheckConditionResponse(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, tg := newPeers()

	tur := &Message{OpCode: OpSCSICmd, Final: true, TaskTag: 3, CDB: []byte{0x00, 0, 0, 0, 0, 0}}
	handle(t, a, i.frame(tur.Bytes()))

	sense := []byte{
		0x70, 0x00, 0x06, 0x00, 0x00, 0x00, 0x00, 0x0a,
		0x00, 0x00, 0x00, 0x00, 0x29, 0x00, 0x00, 0x00,
		0x00, 0x00,
	}
	data := append(util.MarshalUint16(uint16(len(sense))), sense...)
	resp := &Message{OpCode: OpSCSIResp, Final: true, TaskTag: 3, Status: scsi.SAM_STAT_CHECK_CONDITION, RawData: data}
	rs := handle(t, a, tg.frame(resp.Bytes()))
	assert.Equal(t, len(rs), 2)
	assert.Equal(t, rs[0].Phase, scsi.PhaseResponse)
	assert.Equal(t, rs[1].Phase, scsi.PhaseSense)
	assert.Equal(t, rs[1].Command, "Test Unit Ready")
	f, ok := findField(rs[1].Fields, "Sense Key")
	assert.Assert(t, ok)
	assert.Equal(t, f.Text, "Unit Attention")
	assert.Equal(t, s.Tasks.Len(), 0)
}

func TestCheckConditionWithoutSense(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, tg := newPeers()

	handle(t, a, i.frame(inquiryCommand(3).Bytes()))
	resp := &Message{OpCode: OpSCSIResp, Final: true, TaskTag: 3, Status: scsi.SAM_STAT_CHECK_CONDITION}
	rs := handle(t, a, tg.frame(resp.Bytes()))
	assert.Equal(t, len(rs), 1)
	assert.Equal(t, s.Tasks.Len(), 0)
}

func TestWriteWithImmediateAndSolicitedData(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, tg := newPeers()

	// MODE SELECT(6) with an 4 byte parameter list header
	cmd := &Message{
		OpCode:          OpSCSICmd,
		Final:           true,
		Write:           true,
		TaskTag:         9,
		ExpectedDataLen: 4,
		CDB:             []byte{0x15, 0x10, 0x00, 0x00, 0x04, 0x00},
		RawData:         []byte{0x00, 0x00, 0x00, 0x00},
	}
	rs := handle(t, a, i.frame(cmd.Bytes()))
	assert.Equal(t, len(rs), 2)
	assert.Equal(t, rs[1].Phase, scsi.PhaseDataOut)
	assert.Assert(t, !rs[1].Unmatched)

	r2t := &Message{OpCode: OpReady, Final: true, TaskTag: 9, DesiredLen: 4}
	assert.Equal(t, len(handle(t, a, tg.frame(r2t.Bytes()))), 0)

	out := &Message{OpCode: OpSCSIOut, Final: true, TaskTag: 9, BufferOffset: 4, RawData: []byte{1, 2, 3, 4}}
	rs = handle(t, a, i.frame(out.Bytes()))
	assert.Equal(t, len(rs), 1)
	_, ok := findField(rs[0].Fields, "Data Fragment")
	assert.Assert(t, ok)
}

func TestHeaderDigestAfterLogin(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, tg := newPeers()

	login := &Message{
		OpCode:  OpLoginResp,
		Final:   true,
		Transit: true,
		CSG:     LoginOperationalNegotiation,
		NSG:     FullFeaturePhase,
		RawData: util.MarshalKVText([]util.KeyValue{{Key: "HeaderDigest", Value: "CRC32C"}}),
	}
	b := login.Bytes()
	assert.Equal(t, b[1], byte(0x87))
	assert.Equal(t, len(handle(t, a, tg.frame(b))), 0)

	pdu := inquiryCommand(4).Bytes()
	withDigest := append(append([]byte{}, pdu[:BHSLen]...), 0xde, 0xad, 0xbe, 0xef)
	withDigest = append(withDigest, pdu[BHSLen:]...)
	rs := handle(t, a, i.frame(withDigest))
	assert.Equal(t, len(rs), 1)
	assert.Equal(t, rs[0].Command, "Inquiry")
}

func TestDigestsWaitForFullFeaturePhase(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	_, tg := newPeers()

	login := &Message{
		OpCode:  OpLoginResp,
		Cont:    true,
		CSG:     LoginOperationalNegotiation,
		NSG:     LoginOperationalNegotiation,
		RawData: util.MarshalKVText([]util.KeyValue{{Key: "DataDigest", Value: "CRC32C"}}),
	}
	handle(t, a, tg.frame(login.Bytes()))
	c := a.connection(initiator, target)
	assert.Equal(t, c.digests, Digests{})
	assert.Equal(t, c.pending, Digests{Data: true})
}

func TestGarbledHeader(t *testing.T) {
	a, s := newTestAdapter(t)
	defer s.Close()
	i, _ := newPeers()

	handle(t, a, i.frame(inquiryCommand(1).Bytes()))

	b := inquiryCommand(2).Bytes()
	b[0] = 0x1f
	b = append(b, inquiryCommand(3).Bytes()...)
	rs, err := a.HandleFrame(i.frame(b))
	assert.ErrorContains(t, err, "garbled header")
	assert.Equal(t, len(rs), 1)
	assert.Equal(t, rs[0].Key.TaskID, uint64(3))
}

func TestUnknownTransport(t *testing.T) {
	_, err := port.NewTransport("sas", scsi.NewSession(scsi.Options{}))
	assert.ErrorContains(t, err, "sas is not found")
	assert.Assert(t, len(port.Transports()) >= 1)
}
