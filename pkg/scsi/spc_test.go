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

// SCSI primary command decoding test
package scsi

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestSPCReportLuns(t *testing.T) {
	cmd, r := decodeTask(DeviceClassUnknown, []byte{0xa0, 0, 0, 0, 0, 0, 0, 0, 0, 0x20, 0, 0}, PhaseDataIn, []byte{
		0, 0, 0, 0x10, 0, 0, 0, 0,
		0x00, 0x00, 0, 0, 0, 0, 0, 0,
		0x40, 0x05, 0, 0, 0, 0, 0, 0,
	})
	assert.Equal(t, cmd.Command, "Report LUNs")
	assert.Equal(t, field(t, cmd.Fields, "Allocation Length").Value, uint64(0x20))
	luns := fieldsNamed(r.Fields, "LUN")
	assert.Equal(t, len(luns), 2)
	assert.Equal(t, luns[1].Value, uint64(5))
	assert.Equal(t, fieldsNamed(r.Fields, "Address Method")[1].Text, "Flat space addressing")
}

func TestSPCTestUnit(t *testing.T) {
	r, _ := decodeTask(DeviceClassUnknown, []byte{0x00, 0, 0, 0, 0, 0x04}, 0, nil)
	assert.Equal(t, r.Command, "Test Unit Ready")
	assert.Equal(t, r.Fields[0].Name, "Opcode")
	assert.Equal(t, field(t, r.Fields, "NACA").Value, true)
	assert.Equal(t, field(t, r.Fields, "Link").Value, false)
}

func TestSPCPreventAllowMediaRemoval(t *testing.T) {
	r, _ := decodeTask(DeviceClassSequential, []byte{0x1e, 0, 0, 0, 0x01, 0}, 0, nil)
	assert.Equal(t, field(t, r.Fields, "Prevent").Text, "Medium removal prohibited")
}

func TestSPCDeviceIdentification(t *testing.T) {
	_, r := decodeTask(DeviceClassBlock, []byte{0x12, 0x01, 0x83, 0, 0xff, 0}, PhaseDataIn, []byte{
		0x00, 0x83, 0x00, 0x18,
		0x01, 0x03, 0x00, 0x08, 0x60, 0x01, 0x40, 0x50, 0x00, 0x00, 0x00, 0x01,
		0x02, 0x01, 0x00, 0x08, 'G', 'O', 'S', 'T', 'O', 'R', ' ', ' ',
	})
	types := fieldsNamed(r.Fields, "Designator Type")
	assert.Equal(t, len(types), 2)
	assert.Equal(t, types[0].Text, "NAA")
	assert.Equal(t, types[1].Text, "T10 Vendor Identification")
	ids := fieldsNamed(r.Fields, "Designator")
	assert.DeepEqual(t, ids[0].Value, []byte{0x60, 0x01, 0x40, 0x50, 0x00, 0x00, 0x00, 0x01})
	assert.Equal(t, ids[1].Value, "GOSTOR")
	assert.Equal(t, ids[1].Offset, 20)
}

func TestSPCSupportedVPDPages(t *testing.T) {
	_, r := decodeTask(DeviceClassBlock, []byte{0x12, 0x01, 0x00, 0, 0xff, 0}, PhaseDataIn,
		[]byte{0x00, 0x00, 0x00, 0x03, 0x00, 0x80, 0x83, 0xb0})
	pages := fieldsNamed(r.Fields, "Supported Page")
	assert.Equal(t, len(pages), 3)
	assert.Equal(t, pages[2].Text, "Device Identification")
}

func TestSPCModeSense10(t *testing.T) {
	cmd, r := decodeTask(DeviceClassBlock, []byte{0x5a, 0x10, 0x3f, 0, 0, 0, 0, 0, 0xff, 0}, PhaseDataIn, []byte{
		0x00, 0x1e, 0x00, 0x80, 0x01, 0x00, 0x00, 0x10,
		0, 0, 0, 0, 0, 0, 0, 0x40, 0, 0, 0, 0, 0, 0, 0x02, 0x00,
		0x0a, 0x06, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	})
	assert.Equal(t, field(t, cmd.Fields, "LLBAA").Value, true)
	assert.Equal(t, field(t, r.Fields, "WP").Value, true)
	assert.Equal(t, field(t, r.Fields, "LongLBA").Value, true)
	assert.Equal(t, field(t, r.Fields, "Number of Blocks").Value, uint64(0x40))
	assert.Equal(t, field(t, r.Fields, "Block Length").Value, uint64(512))
	assert.Equal(t, field(t, r.Fields, "Page Code").Text, "Control")
}

func TestSPCModeSelect(t *testing.T) {
	_, r := decodeTask(DeviceClassBlock, []byte{0x15, 0x10, 0, 0, 0x18, 0}, PhaseDataOut, []byte{
		0x00, 0x00, 0x00, 0x08,
		0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x02, 0x00,
		0x08, 0x0a, 0x04, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	})
	assert.Equal(t, field(t, r.Fields, "Number of Blocks").Value, uint64(0x1000))
	assert.Equal(t, field(t, r.Fields, "Block Length").Value, uint64(512))
	assert.Equal(t, field(t, r.Fields, "Page Code").Text, "Caching")
}

func TestSPCPersistentReserveOut(t *testing.T) {
	data := make([]byte, 24)
	data[7] = 0x11
	data[15] = 0x22
	data[20] = 0x01
	cmd, r := decodeTask(DeviceClassBlock, []byte{0x5f, 0x06, 0x01, 0, 0, 0, 0, 0, 0x18, 0}, PhaseDataOut, data)
	assert.Equal(t, field(t, cmd.Fields, "Service Action").Text, "Register & Ignore Existing Key")
	assert.Equal(t, field(t, cmd.Fields, "Type").Text, "Write Exclusive")
	assert.Equal(t, field(t, r.Fields, "Reservation Key").Value, uint64(0x11))
	assert.Equal(t, field(t, r.Fields, "Service Action Reservation Key").Value, uint64(0x22))
	assert.Equal(t, field(t, r.Fields, "APTPL").Value, true)
}

func TestSPCReserve10(t *testing.T) {
	_, r := decodeTask(DeviceClassBlock, []byte{0x56, 0x12, 0, 0, 0, 0, 0, 0, 0x08, 0}, PhaseDataOut,
		[]byte{0, 0, 0, 0, 0, 0, 0, 0x07})
	assert.Equal(t, field(t, r.Fields, "Third Party Device Id").Value, uint64(7))

	_, r = decodeTask(DeviceClassBlock, []byte{0x56, 0x00, 0, 0, 0, 0, 0, 0, 0x08, 0}, PhaseDataOut,
		[]byte{0, 0, 0, 0, 0, 0, 0, 0x07})
	assert.Equal(t, len(fieldsNamed(r.Fields, "Third Party Device Id")), 0)
	assert.Assert(t, field(t, r.Fields, "Extent Descriptors").Opaque)
}

func TestSPCLogSense(t *testing.T) {
	_, r := decodeTask(DeviceClassBlock, []byte{0x4d, 0, 0x42, 0, 0, 0, 0, 0, 0xff, 0}, PhaseDataIn, []byte{
		0x02, 0, 0, 0x10,
		0, 0, 0x03, 0x04, 0, 0, 0, 9,
		0, 1, 0x03, 0x04, 0, 0, 0, 1,
	})
	assert.Equal(t, field(t, r.Fields, "Page Code").Text, "Write Error Counters")
	values := fieldsNamed(r.Fields, "Parameter Value")
	assert.Equal(t, len(values), 2)
	assert.Equal(t, values[0].Value, uint64(9))
	assert.Equal(t, values[1].Offset, 16)
}

func TestSPCRequestSense(t *testing.T) {
	_, r := decodeTask(DeviceClassBlock, []byte{0x03, 0, 0, 0, 0x12, 0}, PhaseDataIn,
		[]byte{0x70, 0, 0x02, 0, 0, 0, 0, 0x0a, 0, 0, 0, 0, 0x04, 0x01, 0, 0, 0, 0})
	assert.Equal(t, field(t, r.Fields, "Sense Key").Text, "Not Ready")
	assert.Equal(t, field(t, r.Fields, "ASC/ASCQ").Text, ASCName(0x04, 0x01))
}
