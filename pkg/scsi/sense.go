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

var senseResponseCodes = map[uint64]string{
	0x70: "Current Error, Fixed Format",
	0x71: "Deferred Error, Fixed Format",
	0x72: "Current Error, Descriptor Format",
	0x73: "Deferred Error, Descriptor Format",
	0x7f: "Vendor Specific",
}

var senseDescriptorNames = map[uint64]string{
	0x00: "Information",
	0x01: "Command Specific Information",
	0x02: "Sense Key Specific",
	0x03: "Field Replaceable Unit",
	0x04: "Stream Commands",
	0x05: "Block Commands",
	0x06: "OSD Object Identification",
	0x0a: "Progress Indication",
}

// SenseRegion returns the sense bytes of buf given the length declared by
// the transport. The declared length is never trusted beyond buf.
func SenseRegion(buf []byte, declared int) []byte {
	if declared < 0 {
		declared = 0
	}
	if declared > len(buf) {
		declared = len(buf)
	}
	return buf[:declared]
}

func decodeSense(t *Tree) {
	code := t.Peek(0, 1) & 0x7f
	if !t.Ok() {
		return
	}
	if code == 0x72 || code == 0x73 {
		decodeDescriptorSense(t)
		return
	}
	decodeFixedSense(t)
}

func decodeFixedSense(t *Tree) {
	t.Flag("Valid", 0, 0x80)
	t.Enum("Response Code", 0, 1, 0x7f, senseResponseCodes)
	t.Uint8("Segment Number", 1)
	t.Flag("Filemark", 2, 0x80)
	t.Flag("EOM", 2, 0x40)
	t.Flag("ILI", 2, 0x20)
	key := byte(t.Enum("Sense Key", 2, 1, 0x0f, senseKeyNames))
	t.Uint32("Information", 3)
	addlen := t.Uint8("Additional Sense Length", 7)
	if !t.Ok() {
		return
	}
	t.Clamp(8 + int(addlen))
	t.Uint32("Command-Specific Information", 8)
	decodeASC(t, 12)
	t.Uint8("Field Replaceable Unit Code", 14)
	if t.Flag("SKSV", 15, 0x80) {
		decodeSenseKeySpecific(t, key, 15)
	}
	t.Rest("Additional Sense Bytes", 18)
}

func decodeASC(t *Tree, off int) {
	asc := t.Uint8("Additional Sense Code", off)
	ascq := t.Uint8("Additional Sense Code Qualifier", off+1)
	if t.Ok() {
		t.Named("ASC/ASCQ", off, 2, ASCName(asc, ascq))
	}
}

func decodeSenseKeySpecific(t *Tree, key byte, off int) {
	switch key {
	case ILLEGAL_REQUEST:
		t.Flag("C/D", off, 0x40)
		if t.Flag("BPV", off, 0x08) {
			t.Bits("Bit Pointer", off, 1, 0x07)
		}
		t.Uint16("Field Pointer", off+1)
	case RECOVERED_ERROR, HARDWARE_ERROR, MEDIUM_ERROR:
		t.Uint16("Actual Retry Count", off+1)
	case NO_SENSE, NOT_READY:
		t.Uint16("Progress Indication", off+1)
	case COPY_ABORTED:
		t.Flag("SD", off, 0x20)
		if t.Flag("BPV", off, 0x08) {
			t.Bits("Bit Pointer", off, 1, 0x07)
		}
		t.Uint16("Field Pointer", off+1)
	case UNIT_ATTENTION:
		t.Flag("Overflow", off, 0x01)
	default:
		t.Bits("Sense Key Specific", off, 3, 0x7fffff)
	}
}

func decodeDescriptorSense(t *Tree) {
	t.Enum("Response Code", 0, 1, 0x7f, senseResponseCodes)
	t.Enum("Sense Key", 1, 1, 0x0f, senseKeyNames)
	decodeASC(t, 2)
	addlen := t.Uint8("Additional Sense Length", 7)
	if !t.Ok() {
		return
	}
	t.Clamp(8 + int(addlen))
	for off := 8; t.Ok() && off+2 <= t.Len(); {
		n := 2 + int(t.Peek(off+1, 1))
		t.Sub(off, n, decodeSenseDescriptor)
		off += n
	}
}

func decodeSenseDescriptor(t *Tree) {
	typ := t.Enum("Descriptor Type", 0, 1, 0xff, senseDescriptorNames)
	t.Uint8("Additional Length", 1)
	switch typ {
	case 0x00:
		t.Flag("Valid", 2, 0x80)
		t.Uint64("Information", 4)
	case 0x01:
		t.Uint64("Command-Specific Information", 4)
	case 0x02:
		t.Flag("SKSV", 4, 0x80)
		t.Bits("Sense Key Specific", 4, 3, 0x7fffff)
	case 0x03:
		t.Uint8("Field Replaceable Unit Code", 3)
	case 0x04:
		t.Flag("Filemark", 3, 0x80)
		t.Flag("EOM", 3, 0x40)
		t.Flag("ILI", 3, 0x20)
	case 0x05:
		t.Flag("ILI", 3, 0x20)
	case 0x0a:
		t.Enum("Sense Key", 2, 1, 0x0f, senseKeyNames)
		decodeASC(t, 3)
		t.Uint16("Progress Indication", 6)
	default:
		t.Rest("Descriptor Data", 2)
	}
}
