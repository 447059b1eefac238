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

// SCSI block command decoding test
package scsi

import (
	"testing"

	"gotest.tools/v3/assert"
)

// decodeTask runs cdb and then, when data is not nil, one payload of phase
// through a fresh session.
func decodeTask(class DeviceClass, cdb []byte, phase Phase, data []byte) (*Result, *Result) {
	s := NewSession(Options{DefaultDeviceClass: class})
	cmd := s.DecodeCommand(testKey, testDevice, cdb, 0)
	if data == nil {
		return cmd, nil
	}
	return cmd, s.DecodeData(testKey, phase, data, 0)
}

func TestSBCReadWrite(t *testing.T) {
	var tests = []struct {
		cdb    []byte
		name   string
		lba    uint64
		length uint64
	}{
		{[]byte{0x08, 0xff, 0x12, 0x34, 0x10, 0x00}, "Read(6)", 0x0f1234, 0x10},
		{[]byte{0x0a, 0x01, 0x00, 0x01, 0x01, 0x00}, "Write(6)", 0x010001, 0x01},
		{[]byte{0x28, 0x08, 0x00, 0x00, 0x00, 0x20, 0x00, 0x00, 0x80, 0x00}, "Read(10)", 0x20, 0x80},
		{[]byte{0xaa, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00}, "Write(12)", 0x100, 0x10000},
		{[]byte{0x88, 0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x08, 0x00, 0x00}, "Read(16)", 0x100000000, 0x08},
	}
	for _, tt := range tests {
		r, _ := decodeTask(DeviceClassBlock, tt.cdb, 0, nil)
		assert.Equal(t, r.Command, tt.name)
		assert.Equal(t, field(t, r.Fields, "Logical Block Address").Value, tt.lba, tt.name)
		assert.Equal(t, field(t, r.Fields, "Transfer Length").Value, tt.length, tt.name)
	}

	r, _ := decodeTask(DeviceClassBlock, []byte{0x28, 0x08, 0, 0, 0, 0x20, 0, 0, 0x80, 0}, 0, nil)
	assert.Equal(t, field(t, r.Fields, "FUA").Value, true)
	assert.Equal(t, field(t, r.Fields, "DPO").Value, false)
}

func TestSBCReadCapacity(t *testing.T) {
	_, r := decodeTask(DeviceClassBlock, []byte{0x25, 0, 0, 0, 0, 0, 0, 0, 0, 0}, PhaseDataIn,
		[]byte{0x00, 0x3f, 0xff, 0xff, 0x00, 0x00, 0x10, 0x00})
	assert.Equal(t, field(t, r.Fields, "Returned Logical Block Address").Value, uint64(0x3fffff))
	assert.Equal(t, field(t, r.Fields, "Block Length In Bytes").Value, uint64(4096))
}

func TestSBCReadCapacity16(t *testing.T) {
	cdb := []byte{0x9e, 0x10, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x20, 0, 0}
	resp := []byte{
		0, 0, 0, 0, 0, 0, 0xff, 0xff, 0, 0, 0x02, 0x00, 0x01, 0x03, 0x80, 0x00,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
	}
	cmd, r := decodeTask(DeviceClassBlock, cdb, PhaseDataIn, resp)
	assert.Equal(t, field(t, cmd.Fields, "Service Action").Text, "Read Capacity(16)")
	assert.Equal(t, field(t, cmd.Fields, "Allocation Length").Value, uint64(0x20))
	assert.Equal(t, field(t, r.Fields, "Returned Logical Block Address").Value, uint64(0xffff))
	assert.Equal(t, field(t, r.Fields, "Block Length In Bytes").Value, uint64(512))
	assert.Equal(t, field(t, r.Fields, "PROT_EN").Value, true)
	assert.Equal(t, field(t, r.Fields, "Logical Blocks Per Physical Block Exponent").Value, uint64(3))
	assert.Equal(t, field(t, r.Fields, "TPE").Value, true)
}

func TestSBCGetLbaStatus(t *testing.T) {
	cdb := []byte{0x9e, 0x12, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x30, 0, 0}
	resp := []byte{
		0, 0, 0, 0x24, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0x10, 0, 0x00, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0x10, 0, 0, 0, 0x10, 0, 0x01, 0, 0, 0,
	}
	_, r := decodeTask(DeviceClassBlock, cdb, PhaseDataIn, resp)
	status := fieldsNamed(r.Fields, "Provisioning Status")
	assert.Equal(t, len(status), 2)
	assert.Equal(t, status[0].Text, "Mapped")
	assert.Equal(t, status[1].Text, "Deallocated")
}

func TestSBCFormatUnit(t *testing.T) {
	cmd, r := decodeTask(DeviceClassBlock, []byte{0x04, 0x10, 0, 0, 0, 0}, PhaseDataOut, []byte{
		0x00, 0x88, 0x00, 0x08,
		0x00, 0x01, 0x00, 0x00,
		0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x02, 0x00,
	})
	assert.Equal(t, field(t, cmd.Fields, "FMTDATA").Value, true)
	assert.Equal(t, field(t, cmd.Fields, "Defect List Format").Text, "Short block format")
	assert.Equal(t, field(t, r.Fields, "FOV").Value, true)
	assert.Equal(t, field(t, r.Fields, "IP").Value, true)
	assert.Equal(t, field(t, r.Fields, "Initialization Pattern Type").Value, uint64(1))
	defects := fieldsNamed(r.Fields, "Defect Descriptor")
	assert.Equal(t, len(defects), 2)
	assert.Equal(t, defects[1].Value, uint64(0x200))

	// LONGLIST moves the defect list length to bytes 4 to 7
	_, r = decodeTask(DeviceClassBlock, []byte{0x04, 0x30, 0, 0, 0, 0}, PhaseDataOut, []byte{
		0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x07,
	})
	assert.Equal(t, field(t, r.Fields, "Defect List Length").Value, uint64(4))
	assert.Equal(t, field(t, r.Fields, "Defect Descriptor").Value, uint64(7))
}

func TestSBCReassignBlocks(t *testing.T) {
	_, r := decodeTask(DeviceClassBlock, []byte{0x07, 0x02, 0, 0, 0, 0}, PhaseDataOut, []byte{
		0x00, 0x00, 0x00, 0x10,
		0, 0, 0, 0, 0, 0, 0, 1,
		0, 0, 0, 0, 0, 0, 0, 2,
	})
	lbas := fieldsNamed(r.Fields, "Defective LBA")
	assert.Equal(t, len(lbas), 2)
	assert.Equal(t, lbas[0].Length, 8)
	assert.Equal(t, lbas[1].Value, uint64(2))
}

func TestSBCUnmap(t *testing.T) {
	_, r := decodeTask(DeviceClassBlock, []byte{0x42, 0, 0, 0, 0, 0, 0, 0, 0x28, 0}, PhaseDataOut, []byte{
		0x00, 0x26, 0x00, 0x20, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0x10, 0x00, 0, 0, 0, 0x08, 0, 0, 0, 0,
		0, 0, 0, 0, 0, 0, 0x20, 0x00, 0, 0, 0, 0x10, 0, 0, 0, 0,
	})
	blocks := fieldsNamed(r.Fields, "Number of Blocks")
	assert.Equal(t, len(blocks), 2)
	assert.Equal(t, blocks[0].Value, uint64(8))
	assert.Equal(t, blocks[1].Value, uint64(16))
}

func TestSBCSyncCache(t *testing.T) {
	r, _ := decodeTask(DeviceClassBlock, []byte{0x35, 0x02, 0, 0, 0, 0, 0, 0, 0, 0}, 0, nil)
	assert.Equal(t, r.Command, "Synchronize Cache(10)")
	assert.Equal(t, field(t, r.Fields, "Immed").Value, true)
	assert.Equal(t, field(t, r.Fields, "Number of Blocks").Value, uint64(0))
}

func TestSBCReadDefectData(t *testing.T) {
	_, r := decodeTask(DeviceClassBlock, []byte{0x37, 0, 0x18, 0, 0, 0, 0, 0x01, 0, 0}, PhaseDataIn, []byte{
		0x00, 0x18, 0x00, 0x08,
		0, 0, 0, 9,
		0, 0, 0, 10,
	})
	assert.Equal(t, field(t, r.Fields, "GLISTV").Value, true)
	assert.Equal(t, len(fieldsNamed(r.Fields, "Defect Descriptor")), 2)
}

// opcodes that SBC and SSC both define resolve by device class
func TestSBCSharedOpcodes(t *testing.T) {
	r, _ := decodeTask(DeviceClassBlock, []byte{0x34, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0, nil)
	assert.Equal(t, r.Command, "Pre-Fetch(10)")
	r, _ = decodeTask(DeviceClassSequential, []byte{0x34, 0, 0, 0, 0, 0, 0, 0, 0, 0}, 0, nil)
	assert.Equal(t, r.Command, "Read Position")
	r, _ = decodeTask(DeviceClassBlock, []byte{0x1b, 0x00, 0, 0, 0x01, 0}, 0, nil)
	assert.Equal(t, r.Command, "Start Stop Unit")
	r, _ = decodeTask(DeviceClassSequential, []byte{0x1b, 0x00, 0, 0, 0x01, 0}, 0, nil)
	assert.Equal(t, r.Command, "Load Unload")
}
