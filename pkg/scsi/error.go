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
	NO_SENSE        byte = 0x00
	RECOVERED_ERROR byte = 0x01
	NOT_READY       byte = 0x02
	MEDIUM_ERROR    byte = 0x03
	HARDWARE_ERROR  byte = 0x04
	ILLEGAL_REQUEST byte = 0x05
	UNIT_ATTENTION  byte = 0x06
	DATA_PROTECT    byte = 0x07
	BLANK_CHECK     byte = 0x08
	VENDOR_SPECIFIC byte = 0x09
	COPY_ABORTED    byte = 0x0a
	ABORTED_COMMAND byte = 0x0b
	VOLUME_OVERFLOW byte = 0x0d
	MISCOMPARE      byte = 0x0e
)

var senseKeyNames = map[uint64]string{
	uint64(NO_SENSE):        "No Sense",
	uint64(RECOVERED_ERROR): "Recovered Error",
	uint64(NOT_READY):       "Not Ready",
	uint64(MEDIUM_ERROR):    "Medium Error",
	uint64(HARDWARE_ERROR):  "Hardware Error",
	uint64(ILLEGAL_REQUEST): "Illegal Request",
	uint64(UNIT_ATTENTION):  "Unit Attention",
	uint64(DATA_PROTECT):    "Data Protect",
	uint64(BLANK_CHECK):     "Blank Check",
	uint64(VENDOR_SPECIFIC): "Vendor Specific",
	uint64(COPY_ABORTED):    "Copy Aborted",
	uint64(ABORTED_COMMAND): "Aborted Command",
	uint64(VOLUME_OVERFLOW): "Volume Overflow",
	uint64(MISCOMPARE):      "Miscompare",
}

// SenseKeyName returns the name of a sense key.
func SenseKeyName(key byte) string {
	return senseKeyNames[uint64(key&0x0f)]
}

type SCSISubError uint16

// A few of the additional sense codes referred to by name.
const (
	NO_ADDITIONAL_SENSE          SCSISubError = 0x0000
	ASC_MARK                     SCSISubError = 0x0001
	ASC_EOM                      SCSISubError = 0x0002
	ASC_BOM                      SCSISubError = 0x0004
	ASC_END_OF_DATA              SCSISubError = 0x0005
	ASC_CAUSE_NOT_REPORTABLE     SCSISubError = 0x0400
	ASC_BECOMING_READY           SCSISubError = 0x0401
	ASC_UNRECOVERED_READ         SCSISubError = 0x1100
	ASC_INVALID_OP_CODE          SCSISubError = 0x2000
	ASC_LBA_OUT_OF_RANGE         SCSISubError = 0x2100
	ASC_INVALID_FIELD_IN_CDB     SCSISubError = 0x2400
	ASC_LUN_NOT_SUPPORTED        SCSISubError = 0x2500
	ASC_INVALID_FIELD_IN_PARMS   SCSISubError = 0x2600
	ASC_WRITE_PROTECT            SCSISubError = 0x2700
	ASC_POWERON_RESET            SCSISubError = 0x2900
	ASC_MEDIUM_NOT_PRESENT       SCSISubError = 0x3a00
	ASC_INTERNAL_TGT_FAILURE     SCSISubError = 0x4400
	ASC_MEDIUM_REMOVAL_PREVENTED SCSISubError = 0x5302
)

// ASCName looks up an additional sense code and qualifier.
func ASCName(asc, ascq byte) string {
	if s, ok := ascNames[SCSISubError(uint16(asc)<<8|uint16(ascq))]; ok {
		return s
	}
	if ascq >= 0x80 {
		return "Vendor Specific"
	}
	return ""
}
