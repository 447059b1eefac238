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

// SPC-2 opcodes, shared by every device type.
const (
	TEST_UNIT_READY        byte = 0x00
	REQUEST_SENSE          byte = 0x03
	INQUIRY                byte = 0x12
	MODE_SELECT            byte = 0x15
	RESERVE                byte = 0x16
	RELEASE                byte = 0x17
	MODE_SENSE             byte = 0x1a
	RECEIVE_DIAGNOSTIC     byte = 0x1c
	SEND_DIAGNOSTIC        byte = 0x1d
	ALLOW_MEDIUM_REMOVAL   byte = 0x1e
	WRITE_BUFFER           byte = 0x3b
	READ_BUFFER            byte = 0x3c
	LOG_SELECT             byte = 0x4c
	LOG_SENSE              byte = 0x4d
	MODE_SELECT_10         byte = 0x55
	RESERVE_10             byte = 0x56
	RELEASE_10             byte = 0x57
	MODE_SENSE_10          byte = 0x5a
	PERSISTENT_RESERVE_IN  byte = 0x5e
	PERSISTENT_RESERVE_OUT byte = 0x5f
	REPORT_LUNS            byte = 0xa0
	MAINT_PROTOCOL_IN      byte = 0xa3
)

// SBC-2 opcodes.
const (
	REZERO_UNIT          byte = 0x01
	FORMAT_UNIT          byte = 0x04
	REASSIGN_BLOCKS      byte = 0x07
	READ_6               byte = 0x08
	WRITE_6              byte = 0x0a
	START_STOP           byte = 0x1b
	READ_CAPACITY        byte = 0x25
	READ_10              byte = 0x28
	WRITE_10             byte = 0x2a
	SEEK_10              byte = 0x2b
	WRITE_VERIFY         byte = 0x2e
	VERIFY_10            byte = 0x2f
	PRE_FETCH_10         byte = 0x34
	SYNCHRONIZE_CACHE    byte = 0x35
	READ_DEFECT_DATA     byte = 0x37
	READ_LONG            byte = 0x3e
	WRITE_LONG           byte = 0x3f
	WRITE_SAME           byte = 0x41
	UNMAP                byte = 0x42
	READ_16              byte = 0x88
	COMPARE_AND_WRITE    byte = 0x89
	WRITE_16             byte = 0x8a
	WRITE_VERIFY_16      byte = 0x8e
	VERIFY_16            byte = 0x8f
	PRE_FETCH_16         byte = 0x90
	SYNCHRONIZE_CACHE_16 byte = 0x91
	WRITE_SAME_16        byte = 0x93
	SERVICE_ACTION_IN    byte = 0x9e
	READ_12              byte = 0xa8
	WRITE_12             byte = 0xaa
	WRITE_VERIFY_12      byte = 0xae
	VERIFY_12            byte = 0xaf

	SAI_READ_CAPACITY_16 byte = 0x10
	SAI_GET_LBA_STATUS   byte = 0x12
)

// SSC-2 opcodes.
const (
	REWIND                 byte = 0x01
	FORMAT_MEDIUM          byte = 0x04
	READ_BLOCK_LIMITS      byte = 0x05
	SET_CAPACITY           byte = 0x0b
	WRITE_FILEMARKS        byte = 0x10
	SPACE                  byte = 0x11
	VERIFY_6               byte = 0x13
	ERASE                  byte = 0x19
	LOAD_UNLOAD            byte = 0x1b
	LOCATE_10              byte = 0x2b
	READ_POSITION          byte = 0x34
	REPORT_DENSITY_SUPPORT byte = 0x44
)

const (
	/* PERSISTENT_RESERVE_IN service action codes */
	PR_IN_READ_KEYS           byte = 0x00
	PR_IN_READ_RESERVATION    byte = 0x01
	PR_IN_REPORT_CAPABILITIES byte = 0x02
	PR_IN_READ_FULL_STATUS    byte = 0x03

	/* PERSISTENT_RESERVE_OUT service action codes */
	PR_OUT_REGISTER                         byte = 0x00
	PR_OUT_RESERVE                          byte = 0x01
	PR_OUT_RELEASE                          byte = 0x02
	PR_OUT_CLEAR                            byte = 0x03
	PR_OUT_PREEMPT                          byte = 0x04
	PR_OUT_PREEMPT_AND_ABORT                byte = 0x05
	PR_OUT_REGISTER_AND_IGNORE_EXISTING_KEY byte = 0x06
	PR_OUT_REGISTER_AND_MOVE                byte = 0x07
)

var prInServiceActions = map[uint64]string{
	uint64(PR_IN_READ_KEYS):           "Read Keys",
	uint64(PR_IN_READ_RESERVATION):    "Read Reservation",
	uint64(PR_IN_REPORT_CAPABILITIES): "Report Capabilities",
	uint64(PR_IN_READ_FULL_STATUS):    "Read Full Status",
}

var prOutServiceActions = map[uint64]string{
	uint64(PR_OUT_REGISTER):                         "Register",
	uint64(PR_OUT_RESERVE):                          "Reserve",
	uint64(PR_OUT_RELEASE):                          "Release",
	uint64(PR_OUT_CLEAR):                            "Clear",
	uint64(PR_OUT_PREEMPT):                          "Preempt",
	uint64(PR_OUT_PREEMPT_AND_ABORT):                "Preempt & Abort",
	uint64(PR_OUT_REGISTER_AND_IGNORE_EXISTING_KEY): "Register & Ignore Existing Key",
	uint64(PR_OUT_REGISTER_AND_MOVE):                "Register & Move",
}

var prTypeNames = map[uint64]string{
	0x01: "Write Exclusive",
	0x03: "Exclusive Access",
	0x05: "Write Exclusive, Registrants Only",
	0x06: "Exclusive Access, Registrants Only",
	0x07: "Write Exclusive, All Registrants",
	0x08: "Exclusive Access, All Registrants",
}

var prScopeNames = map[uint64]string{
	0x00: "LU Scope",
	0x01: "Extent Scope",
	0x02: "Element Scope",
}
