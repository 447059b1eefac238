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

func TestFixedSense(t *testing.T) {
	buf := []byte{
		0xf0, 0x00, 0x25, 0x00, 0x00, 0x10, 0x00, 0x0a,
		0x00, 0x00, 0x00, 0x00, 0x24, 0x00, 0x00, 0xc0,
		0x00, 0x02,
		// beyond the additional sense length
		0xde, 0xad,
	}
	tr := NewTree(buf)
	decodeSense(tr)
	fs := tr.Fields()

	assert.Equal(t, field(t, fs, "Valid").Value, true)
	assert.Equal(t, field(t, fs, "Response Code").Text, "Current Error, Fixed Format")
	assert.Equal(t, field(t, fs, "ILI").Value, true)
	assert.Equal(t, field(t, fs, "Sense Key").Text, "Illegal Request")
	assert.Equal(t, field(t, fs, "Information").Value, uint64(0x1000))
	assert.Equal(t, field(t, fs, "ASC/ASCQ").Text, "Invalid Field In CDB")
	assert.Equal(t, field(t, fs, "C/D").Value, true)
	assert.Equal(t, field(t, fs, "Field Pointer").Value, uint64(2))
	assert.Equal(t, len(fieldsNamed(fs, "Additional Sense Bytes")), 0)
	assert.Assert(t, tr.Ok())
}

func TestFixedSenseShortAdditionalLength(t *testing.T) {
	// the additional length stops the decode before ASC/ASCQ
	buf := []byte{0x70, 0x00, 0x02, 0, 0, 0, 0, 0x04, 0, 0, 0, 0, 0x04, 0x01, 0, 0, 0, 0}
	tr := NewTree(buf)
	decodeSense(tr)
	assert.Equal(t, len(fieldsNamed(tr.Fields(), "Additional Sense Code")), 0)
	assert.Equal(t, field(t, tr.Fields(), "Command-Specific Information").Value, uint64(0))
	assert.Assert(t, !tr.Truncated())
}

func TestDescriptorSense(t *testing.T) {
	buf := []byte{
		0x72, 0x03, 0x11, 0x00, 0, 0, 0, 0x0c,
		// information descriptor
		0x00, 0x0a, 0x80, 0x00, 0, 0, 0, 0, 0, 0, 0x12, 0x34,
	}
	tr := NewTree(buf)
	decodeSense(tr)
	fs := tr.Fields()
	assert.Equal(t, field(t, fs, "Response Code").Text, "Current Error, Descriptor Format")
	assert.Equal(t, field(t, fs, "Sense Key").Text, "Medium Error")
	assert.Equal(t, field(t, fs, "ASC/ASCQ").Text, ASCName(0x11, 0x00))
	assert.Equal(t, field(t, fs, "Descriptor Type").Text, "Information")
	info := field(t, fs, "Information")
	assert.Equal(t, info.Value, uint64(0x1234))
	assert.Equal(t, info.Offset, 12)
}

func TestEmptySense(t *testing.T) {
	tr := NewTree(nil)
	decodeSense(tr)
	assert.Equal(t, len(tr.Fields()), 0)
	assert.Assert(t, tr.Truncated())
}

func TestSenseRegion(t *testing.T) {
	buf := []byte{1, 2, 3, 4}
	assert.DeepEqual(t, SenseRegion(buf, 2), []byte{1, 2})
	assert.DeepEqual(t, SenseRegion(buf, 100), buf)
	assert.Equal(t, len(SenseRegion(buf, -1)), 0)
}

func TestASCName(t *testing.T) {
	assert.Equal(t, ASCName(0x24, 0x00), "Invalid Field In CDB")
	assert.Equal(t, ASCName(0x40, 0x81), "Vendor Specific")
}
