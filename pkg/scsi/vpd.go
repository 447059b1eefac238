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

const (
	VPD_SUPPORTED_PAGES       byte = 0x00
	VPD_UNIT_SERIAL_NUMBER    byte = 0x80
	VPD_DEVICE_IDENTIFICATION byte = 0x83
	VPD_BLOCK_LIMITS          byte = 0xb0
)

var vpdPageNames = map[uint64]string{
	0x00: "Supported Vital Product Data Pages",
	0x80: "Unit Serial Number",
	0x83: "Device Identification",
	0x84: "Software Interface Identification",
	0x85: "Management Network Addresses",
	0x86: "Extended INQUIRY Data",
	0x87: "Mode Page Policy",
	0x88: "SCSI Ports",
	0xb0: "Block Limits",
	0xb1: "Block Device Characteristics",
	0xb2: "Logical Block Provisioning",
}

var codeSetNames = map[uint64]string{
	1: "Binary",
	2: "ASCII",
	3: "UTF-8",
}

var associationNames = map[uint64]string{
	0: "Logical Unit",
	1: "Target Port",
	2: "Target Device",
}

var designatorTypeNames = map[uint64]string{
	0: "Vendor Specific",
	1: "T10 Vendor Identification",
	2: "EUI-64",
	3: "NAA",
	4: "Relative Target Port",
	5: "Target Port Group",
	6: "Logical Unit Group",
	7: "MD5 Logical Unit Identifier",
	8: "SCSI Name String",
}

func decodeVPD(t *Tree, page byte) {
	t.Enum("Peripheral Qualifier", 0, 1, 0xe0, qualifierNames)
	t.Enum("Peripheral Device Type", 0, 1, 0x1f, deviceTypeNames)
	t.Enum("Page Code", 1, 1, 0xff, vpdPageNames)
	l := t.Uint16("Page Length", 2)
	if !t.Ok() {
		return
	}
	t.Clamp(4 + int(l))
	switch page {
	case VPD_SUPPORTED_PAGES:
		for off := 4; off < t.Len(); off++ {
			t.Enum("Supported Page", off, 1, 0xff, vpdPageNames)
		}
	case VPD_UNIT_SERIAL_NUMBER:
		t.String("Product Serial Number", 4, int(l))
	case VPD_DEVICE_IDENTIFICATION:
		for off := 4; t.Ok() && off+4 <= t.Len(); {
			n := int(t.Peek(off+3, 1))
			t.Sub(off, 4+n, decodeDesignator)
			off += 4 + n
		}
	case VPD_BLOCK_LIMITS:
		t.Flag("WSNZ", 4, 0x01)
		t.Uint8("Maximum Compare And Write Length", 5)
		t.Uint16("Optimal Transfer Length Granularity", 6)
		t.Uint32("Maximum Transfer Length", 8)
		t.Uint32("Optimal Transfer Length", 12)
		t.Uint32("Maximum Prefetch Length", 16)
		t.Uint32("Maximum Unmap LBA Count", 20)
		t.Uint32("Maximum Unmap Block Descriptor Count", 24)
		t.Uint32("Optimal Unmap Granularity", 28)
		t.Flag("UGAVALID", 32, 0x80)
		t.Bits("Unmap Granularity Alignment", 32, 4, 0x7fffffff)
		t.Uint64("Maximum Write Same Length", 36)
	default:
		t.Rest("Page Data", 4)
	}
}

func decodeDesignator(t *Tree) {
	t.Bits("Protocol Identifier", 0, 1, 0xf0)
	codeSet := t.Enum("Code Set", 0, 1, 0x0f, codeSetNames)
	t.Flag("PIV", 1, 0x80)
	t.Enum("Association", 1, 1, 0x30, associationNames)
	t.Enum("Designator Type", 1, 1, 0x0f, designatorTypeNames)
	n := int(t.Uint8("Designator Length", 3))
	if codeSet == 2 || codeSet == 3 {
		t.String("Designator", 4, n)
		return
	}
	t.Bytes("Designator", 4, n)
}
