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
	"testing"

	"github.com/google/go-cmp/cmp"
	"gotest.tools/v3/assert"
	"pgregory.net/rapid"
)

const testDevice = DeviceAddr("10.0.0.2:3260/lun0")

var testKey = TaskKey{ConversationID: 0x1234, TaskID: 1}

// standardInquiry is a 36 byte standard Inquiry response from an SPC-2
// direct access device.
func standardInquiry() []byte {
	b := []byte{0x00, 0x00, 0x04, 0x12, 0x1f, 0x00, 0x00, 0x02}
	b = append(b, "GOSTOR  "...)
	b = append(b, "GOTGT           "...)
	b = append(b, "0.1 "...)
	return b
}

func TestInquiryScenario(t *testing.T) {
	s := NewSession(Options{})
	defer s.Close()

	r := s.DecodeCommand(testKey, testDevice, []byte{0x12, 0x00, 0x00, 0x00, 0x24, 0x00}, 36)
	assert.Equal(t, r.Command, "Inquiry")
	assert.Equal(t, r.CommandSet, "SPC-2")
	assert.Equal(t, field(t, r.Fields, "Allocation Length").Value, uint64(0x24))
	assert.Equal(t, field(t, r.Fields, "EVPD").Value, false)

	r = s.DecodeData(testKey, PhaseDataIn, standardInquiry(), 0)
	assert.Assert(t, !r.Unmatched)
	assert.Assert(t, !r.Truncated)
	assert.Equal(t, field(t, r.Fields, "Peripheral Device Type").Text, "Direct Access Device")
	assert.Equal(t, field(t, r.Fields, "Version").Text, "Compliance to SPC-2")
	assert.Equal(t, field(t, r.Fields, "HiSup").Value, true)
	assert.Equal(t, field(t, r.Fields, "Response Data Format").Value, uint64(2))
	assert.Equal(t, field(t, r.Fields, "Vendor Id").Value, "GOSTOR")
	assert.Equal(t, field(t, r.Fields, "Product Revision Level").Value, "0.1")
	assert.Equal(t, s.Devices.Lookup(testDevice), DeviceClassBlock)

	r = s.DecodeResponse(testKey, SAM_STAT_GOOD)
	assert.Equal(t, field(t, r.Fields, "Status").Text, "Good")
	_, ok := s.Tasks.FindTask(testKey)
	assert.Assert(t, !ok)
}

func TestDeviceClassRoundTrip(t *testing.T) {
	s := NewSession(Options{})
	read10 := []byte{0x28, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x08, 0x00}

	r := s.DecodeCommand(testKey, testDevice, read10, 0)
	assert.Equal(t, len(r.Fields), 1)
	assert.Equal(t, r.Fields[0].Name, "Unknown Opcode")
	s.DecodeResponse(testKey, SAM_STAT_GOOD)

	s.DecodeCommand(testKey, testDevice, []byte{0x12, 0, 0, 0, 0x24, 0}, 0)
	s.DecodeData(testKey, PhaseDataIn, standardInquiry(), 0)
	s.DecodeResponse(testKey, SAM_STAT_GOOD)

	r = s.DecodeCommand(testKey, testDevice, read10, 0)
	assert.Equal(t, r.Command, "Read(10)")
	assert.Equal(t, r.CommandSet, "SBC-2")
	assert.Equal(t, field(t, r.Fields, "Logical Block Address").Value, uint64(0x1000))
	assert.Equal(t, field(t, r.Fields, "Transfer Length").Value, uint64(8))

	// other devices are unaffected
	r = s.DecodeCommand(TaskKey{TaskID: 2}, "10.0.0.2:3260/lun1", read10, 0)
	assert.Equal(t, r.Fields[0].Name, "Unknown Opcode")
}

func TestEVPDInquiryDoesNotRecordType(t *testing.T) {
	s := NewSession(Options{})
	s.DecodeCommand(testKey, testDevice, []byte{0x12, 0x01, 0x80, 0x00, 0xff, 0x00}, 0)
	r := s.DecodeData(testKey, PhaseDataIn, []byte{0x01, 0x80, 0x00, 0x04, 'S', 'N', '1', ' '}, 0)
	assert.Equal(t, field(t, r.Fields, "Product Serial Number").Value, "SN1")
	assert.Equal(t, s.Devices.Len(), 0)
}

func TestCheckConditionLifecycle(t *testing.T) {
	s := NewSession(Options{DefaultDeviceClass: DeviceClassBlock})
	s.DecodeCommand(testKey, testDevice, []byte{0x00, 0, 0, 0, 0, 0}, 0)

	r := s.DecodeResponse(testKey, SAM_STAT_CHECK_CONDITION)
	assert.Equal(t, r.Command, "Test Unit Ready")
	assert.Equal(t, *r.Status, SAM_STAT_CHECK_CONDITION)
	_, ok := s.Tasks.FindTask(testKey)
	assert.Assert(t, ok)

	sense := []byte{0x70, 0x00, 0x06, 0, 0, 0, 0, 0x0a, 0, 0, 0, 0, 0x29, 0x00, 0, 0, 0, 0}
	r = s.DecodeSense(testKey, sense)
	assert.Assert(t, !r.Unmatched)
	assert.Equal(t, r.Command, "Test Unit Ready")
	assert.Equal(t, field(t, r.Fields, "Sense Key").Text, "Unit Attention")
	_, ok = s.Tasks.FindTask(testKey)
	assert.Assert(t, !ok)
}

func TestUnmatchedData(t *testing.T) {
	s := NewSession(Options{})
	r := s.DecodeData(testKey, PhaseDataIn, []byte{1, 2, 3}, 0)
	assert.Assert(t, r.Unmatched)
	assert.Equal(t, len(r.Fields), 1)
	assert.Equal(t, r.Fields[0].Name, "Data")
	assert.Assert(t, r.Fields[0].Opaque)

	r = s.DecodeResponse(testKey, SAM_STAT_GOOD)
	assert.Assert(t, r.Unmatched)
}

func TestDataFragment(t *testing.T) {
	s := NewSession(Options{})
	s.DecodeCommand(testKey, testDevice, []byte{0x12, 0, 0, 0, 0x24, 0}, 0)
	r := s.DecodeData(testKey, PhaseDataIn, standardInquiry()[8:], 8)
	assert.Equal(t, len(r.Fields), 1)
	assert.Equal(t, r.Fields[0].Name, "Data Fragment")
	assert.Equal(t, s.Devices.Len(), 0)
}

func TestExpectedLengthClamp(t *testing.T) {
	s := NewSession(Options{})
	s.DecodeCommand(testKey, testDevice, []byte{0x12, 0, 0, 0, 0x24, 0}, 8)
	r := s.DecodeData(testKey, PhaseDataIn, standardInquiry(), 0)
	assert.Equal(t, len(fieldsNamed(r.Fields, "Vendor Id")), 0)
	assert.Equal(t, field(t, r.Fields, "CmdQue").Value, true)
	assert.Assert(t, !r.Truncated)
}

func TestPersistentReserveInReadKeys(t *testing.T) {
	s := NewSession(Options{})
	s.DecodeCommand(testKey, testDevice, []byte{0x5e, 0x00, 0, 0, 0, 0, 0, 0x00, 0x30, 0}, 0)

	buf := []byte{0, 0, 0, 1, 0, 0, 0, 24}
	for i := 1; i <= 3; i++ {
		buf = append(buf, 0, 0, 0, 0, 0, 0, 0, byte(i))
	}
	// bytes past the additional length are not keys
	buf = append(buf, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)

	r := s.DecodeData(testKey, PhaseDataIn, buf, 0)
	keys := fieldsNamed(r.Fields, "Reservation Key")
	assert.Equal(t, len(keys), 3)
	for i, k := range keys {
		assert.Equal(t, k.Offset, 8+8*i)
		assert.Equal(t, k.Value, uint64(i+1))
	}
}

func TestModeSenseOverrunningPage(t *testing.T) {
	s := NewSession(Options{DefaultDeviceClass: DeviceClassBlock})
	r := s.DecodeCommand(testKey, testDevice, []byte{0x1a, 0x08, 0x3f, 0x00, 0xff, 0x00}, 0)
	assert.Equal(t, field(t, r.Fields, "Page Code").Text, "All Pages")

	buf := []byte{27, 0x00, 0x00, 0x00}
	caching := make([]byte, 20)
	caching[0], caching[1], caching[2] = 0x08, 0x12, 0x04
	buf = append(buf, caching...)
	// a control page claiming more bytes than remain
	buf = append(buf, 0x0a, 0x30, 0x00, 0x00)

	r = s.DecodeData(testKey, PhaseDataIn, buf, 0)
	assert.Equal(t, len(fieldsNamed(r.Fields, "Page Code")), 1)
	assert.Equal(t, field(t, r.Fields, "Page Code").Text, "Caching")
	assert.Equal(t, field(t, r.Fields, "WCE").Value, true)
	assert.Assert(t, r.Truncated)
}

func decodeScript(s *Session) []*Result {
	var out []*Result
	k := TaskKey{ConversationID: 9, TaskID: 1}
	out = append(out, s.DecodeCommand(k, testDevice, []byte{0x12, 0, 0, 0, 0x24, 0}, 36))
	out = append(out, s.DecodeData(k, PhaseDataIn, standardInquiry(), 0))
	out = append(out, s.DecodeResponse(k, SAM_STAT_GOOD))
	k.TaskID = 2
	out = append(out, s.DecodeCommand(k, testDevice, []byte{0x25, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 8))
	out = append(out, s.DecodeData(k, PhaseDataIn, []byte{0, 0, 0xff, 0xff, 0, 0, 2, 0}, 0))
	out = append(out, s.DecodeResponse(k, SAM_STAT_GOOD))
	return out
}

func TestDecodeIsRepeatable(t *testing.T) {
	a := NewSession(Options{})
	b := NewSession(Options{})
	if diff := cmp.Diff(decodeScript(a), decodeScript(b)); diff != "" {
		t.Errorf("second decode differs (-first +second):\n%s", diff)
	}
	r := decodeScript(NewSession(Options{}))
	assert.Equal(t, field(t, r[4].Fields, "Block Length In Bytes").Value, uint64(512))
}

// prefixCases are command and payload pairs whose payloads are cut short
// below.
var prefixCases = []struct {
	class DeviceClass
	cdb   []byte
	phase Phase
	data  []byte
}{
	{DeviceClassBlock, []byte{0x12, 0, 0, 0, 0x24, 0}, PhaseDataIn, standardInquiry()},
	{DeviceClassBlock, []byte{0x12, 0x01, 0x83, 0, 0xff, 0}, PhaseDataIn, []byte{
		0x00, 0x83, 0x00, 0x18,
		0x01, 0x03, 0x00, 0x08, 0x60, 0x01, 0x40, 0x50, 0x00, 0x00, 0x00, 0x01,
		0x02, 0x01, 0x00, 0x08, 'G', 'O', 'S', 'T', 'O', 'R', ' ', ' '}},
	{DeviceClassBlock, []byte{0x5e, 0x00, 0, 0, 0, 0, 0, 0, 0x30, 0}, PhaseDataIn, []byte{
		0, 0, 0, 1, 0, 0, 0, 16, 0, 0, 0, 0, 0, 0, 0, 1, 0, 0, 0, 0, 0, 0, 0, 2}},
	{DeviceClassBlock, []byte{0x5a, 0x00, 0x3f, 0, 0, 0, 0, 0, 0xff, 0}, PhaseDataIn, []byte{
		0, 0x1e, 0, 0, 0, 0, 0, 8, 0, 0, 0x10, 0, 0, 0, 2, 0,
		0x08, 0x0a, 0x04, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x0a, 0x02, 0x02, 0x00}},
	{DeviceClassSequential, []byte{0x1a, 0x00, 0x0f, 0, 0xff, 0}, PhaseDataIn, []byte{
		0x0f, 0, 0x10, 8, 0x42, 0, 0, 0, 0, 0, 0x04, 0, 0x0f, 0x0e, 0xc0, 0x80,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}},
	{DeviceClassBlock, []byte{0x03, 0, 0, 0, 0xff, 0}, PhaseDataIn, []byte{
		0x70, 0, 0x05, 0, 0, 0, 0, 0x0a, 0, 0, 0, 0, 0x24, 0, 0, 0xc0, 0, 2}},
	{DeviceClassBlock, []byte{0x42, 0, 0, 0, 0, 0, 0, 0, 0x18, 0}, PhaseDataOut, []byte{
		0, 0x16, 0, 0x10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x10, 0, 0, 0, 0, 0x08, 0, 0, 0, 0}},
	{DeviceClassSequential, []byte{0x44, 0, 0, 0, 0, 0, 0, 0, 0xff, 0}, PhaseDataIn,
		append([]byte{0, 54, 0, 0, 0x42, 0x42, 0xa0}, make([]byte, 49)...)},
	{DeviceClassBlock, []byte{0x4d, 0, 0x42, 0, 0, 0, 0, 0, 0xff, 0}, PhaseDataIn, []byte{
		0x02, 0, 0, 0x10, 0, 0, 0x03, 0x04, 0, 0, 0, 9, 0, 1, 0x03, 0x04, 0, 0, 0, 1}},
}

func decodePrefix(class DeviceClass, cdb []byte, phase Phase, data []byte) *Result {
	s := NewSession(Options{DefaultDeviceClass: class})
	s.DecodeCommand(testKey, testDevice, cdb, 0)
	return s.DecodeData(testKey, phase, data, 0)
}

func TestTruncatedPayloadIsPrefix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := prefixCases[rapid.IntRange(0, len(prefixCases)-1).Draw(t, "case")]
		n := rapid.IntRange(0, len(c.data)).Draw(t, "n")
		full := decodePrefix(c.class, c.cdb, c.phase, c.data)
		short := decodePrefix(c.class, c.cdb, c.phase, c.data[:n])
		if !isFieldPrefix(short.Fields, full.Fields) {
			t.Fatalf("fields of %d bytes are not a prefix:\n%s", n, cmp.Diff(full.Fields, short.Fields))
		}
	})
}

func TestTruncatedCDBIsPrefix(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		class := DeviceClass(rapid.IntRange(0, 2).Draw(t, "class"))
		cdb := rapid.SliceOfN(rapid.Byte(), 1, 16).Draw(t, "cdb")
		n := rapid.IntRange(0, len(cdb)).Draw(t, "n")
		full := NewSession(Options{DefaultDeviceClass: class}).DecodeCommand(testKey, testDevice, cdb, 0)
		short := NewSession(Options{DefaultDeviceClass: class}).DecodeCommand(testKey, testDevice, cdb[:n], 0)
		if !isFieldPrefix(short.Fields, full.Fields) {
			t.Fatalf("fields of %d bytes are not a prefix:\n%s", n, cmp.Diff(full.Fields, short.Fields))
		}
	})
}

func TestArbitraryPayloads(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		class := DeviceClass(rapid.IntRange(0, 2).Draw(t, "class"))
		cdb := rapid.SliceOfN(rapid.Byte(), 1, 16).Draw(t, "cdb")
		phase := PhaseDataOut
		if rapid.Bool().Draw(t, "in") {
			phase = PhaseDataIn
		}
		data := rapid.SliceOfN(rapid.Byte(), 0, 300).Draw(t, "data")
		n := rapid.IntRange(0, len(data)).Draw(t, "n")

		full := decodePrefix(class, cdb, phase, data)
		short := decodePrefix(class, cdb, phase, data[:n])
		if !isFieldPrefix(short.Fields, full.Fields) {
			t.Fatalf("fields of %d bytes are not a prefix:\n%s", n, cmp.Diff(full.Fields, short.Fields))
		}

		s := NewSession(Options{DefaultDeviceClass: class})
		s.DecodeSense(testKey, data)
	})
}

func TestPhaseText(t *testing.T) {
	for p := PhaseCommand; p <= PhaseSense; p++ {
		b, err := p.MarshalText()
		assert.NilError(t, err)
		var got Phase
		assert.NilError(t, got.UnmarshalText(b))
		assert.Equal(t, got, p)
	}
	var p Phase
	assert.ErrorContains(t, p.UnmarshalText([]byte("Status")), "unknown phase")
}
