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

	"gotest.tools/v3/assert"
)

func TestRecordInquiryResult(t *testing.T) {
	var tests = []struct {
		peripheral byte
		class      DeviceClass
	}{
		{0x00, DeviceClassBlock},
		{0x04, DeviceClassBlock},
		{0x07, DeviceClassBlock},
		{0x0e, DeviceClassBlock},
		{0x01, DeviceClassSequential},
		{0x05, DeviceClassUnknown},
		{0x1f, DeviceClassUnknown},
		// the qualifier bits are ignored
		{0x20, DeviceClassBlock},
		{0x61, DeviceClassSequential},
	}
	for _, tt := range tests {
		r := NewDeviceTypeRegistry(DeviceClassUnknown)
		addr := FormatDeviceAddr("10.0.0.2:3260", 0)
		got := r.RecordInquiryResult(addr, tt.peripheral)
		assert.Equal(t, got, tt.class, "peripheral 0x%02x", tt.peripheral)
		assert.Equal(t, r.Lookup(addr), tt.class, "peripheral 0x%02x", tt.peripheral)
		typ, ok := r.DeviceType(addr)
		assert.Assert(t, ok)
		assert.Equal(t, typ, SCSIDeviceType(tt.peripheral&0x1f))
	}
}

func TestDeviceTypeRegistryDefault(t *testing.T) {
	r := NewDeviceTypeRegistry(DeviceClassSequential)
	assert.Equal(t, r.Lookup("nowhere/lun0"), DeviceClassSequential)
	_, ok := r.DeviceType("nowhere/lun0")
	assert.Assert(t, !ok)
}

func TestDeviceTypeRegistryLastWriteWins(t *testing.T) {
	r := NewDeviceTypeRegistry(DeviceClassUnknown)
	a := FormatDeviceAddr("target", 1)
	b := FormatDeviceAddr("target", 2)
	assert.Equal(t, a, DeviceAddr("target/lun1"))

	r.RecordInquiryResult(a, 0x00)
	r.RecordInquiryResult(b, 0x01)
	r.RecordInquiryResult(a, 0x01)
	assert.Equal(t, r.Lookup(a), DeviceClassSequential)
	assert.Equal(t, r.Lookup(b), DeviceClassSequential)
	assert.Equal(t, r.Len(), 2)
}

func TestParseDeviceClass(t *testing.T) {
	for _, s := range []string{"block", "SBC", "disk"} {
		c, err := ParseDeviceClass(s)
		assert.NilError(t, err)
		assert.Equal(t, c, DeviceClassBlock)
	}
	c, err := ParseDeviceClass("tape")
	assert.NilError(t, err)
	assert.Equal(t, c, DeviceClassSequential)
	_, err = ParseDeviceClass("floppy")
	assert.ErrorContains(t, err, "floppy")

	c, err = ParseDefaultDeviceClass("ssc")
	assert.NilError(t, err)
	assert.Equal(t, c, DeviceClassSequential)
	for _, s := range []string{"unknown", ""} {
		_, err = ParseDefaultDeviceClass(s)
		assert.ErrorContains(t, err, "want block or sequential")
	}
}

func TestParseLUN(t *testing.T) {
	assert.Equal(t, ParseLUN([]byte{0x00, 0x05, 0, 0, 0, 0, 0, 0}), uint64(5))
	// flat space addressing
	assert.Equal(t, ParseLUN([]byte{0x41, 0x02, 0, 0, 0, 0, 0, 0}), uint64(0x102))
	assert.Equal(t, ParseLUN(nil), uint64(0))
}
