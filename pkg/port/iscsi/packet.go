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

// Package iscsi decodes the iSCSI PDU packet format as specified in
// rfc7143 section 11.
package iscsi

import (
	"fmt"
	"strings"

	"github.com/gostor/scsitrace/pkg/scsi"
	"github.com/gostor/scsitrace/pkg/util"
)

const BHSLen = 48

type OpCode int

const (
	// Defined on the initiator.
	OpNoopOut     OpCode = 0x00
	OpSCSICmd            = 0x01
	OpSCSITaskReq        = 0x02
	OpLoginReq           = 0x03
	OpTextReq            = 0x04
	OpSCSIOut            = 0x05
	OpLogoutReq          = 0x06
	OpSNACKReq           = 0x10
	// Defined on the target.
	OpNoopIn       OpCode = 0x20
	OpSCSIResp            = 0x21
	OpSCSITaskResp        = 0x22
	OpLoginResp           = 0x23
	OpTextResp            = 0x24
	OpSCSIIn              = 0x25
	OpLogoutResp          = 0x26
	OpReady               = 0x31
	OpAsync               = 0x32
	OpReject              = 0x3f
)

var opCodeMap = map[OpCode]string{
	OpNoopOut:      "NOP-Out",
	OpSCSICmd:      "SCSI Command",
	OpSCSITaskReq:  "SCSI Task Management FunctionRequest",
	OpLoginReq:     "Login Request",
	OpTextReq:      "Text Request",
	OpSCSIOut:      "SCSI Data-Out (write)",
	OpLogoutReq:    "Logout Request",
	OpSNACKReq:     "SNACK Request",
	OpNoopIn:       "NOP-In",
	OpSCSIResp:     "SCSI Response",
	OpSCSITaskResp: "SCSI Task Management Function Response",
	OpLoginResp:    "Login Response",
	OpTextResp:     "Text Response",
	OpSCSIIn:       "SCSI Data-In (read)",
	OpLogoutResp:   "Logout Response",
	OpReady:        "Ready To Transfer (R2T)",
	OpAsync:        "Asynchronous Message",
	OpReject:       "Reject",
}

func (c OpCode) String() string {
	s := opCodeMap[c]
	if s == "" {
		s = fmt.Sprintf("Unknown Code: %x", int(c))
	}
	return s
}

type Stage int

const (
	SecurityNegotiation         Stage = 0
	LoginOperationalNegotiation       = 1
	FullFeaturePhase                  = 3
)

func (s Stage) String() string {
	switch s {
	case SecurityNegotiation:
		return "Security Negotiation"
	case LoginOperationalNegotiation:
		return "Login Operational Negotiation"
	case FullFeaturePhase:
		return "Full Feature Phase"
	}
	return "Unknown Stage"
}

// AHS types, rfc7143 11.2.2.
const (
	AHSExtendedCDB       = 1
	AHSBidiReadDataLen   = 2
	extendedCDBHeaderLen = 4
)

type Message struct {
	OpCode    OpCode
	RawHeader []byte
	RawAHS    []byte
	DataLen   int
	RawData   []byte
	Final     bool
	Immediate bool
	TaskTag   uint32
	AHSLen    int

	// Login
	Transit, Cont bool
	CSG, NSG      Stage
	ISID          uint64
	TSIH          uint16
	StatusClass   uint8
	StatusDetail  uint8

	// SCSI command
	Read, Write     bool
	LUN             uint64
	ExpectedDataLen uint32
	CDB             []byte

	// SCSI response and Data-In
	Response     uint8
	Status       uint8
	HasStatus    bool
	Residual     uint32
	DataSN       uint32
	BufferOffset uint32

	// R2T
	DesiredLen uint32
}

func (m *Message) String() string {
	var s []string
	s = append(s, fmt.Sprintf("Op: %v", m.OpCode))
	s = append(s, fmt.Sprintf("Final = %v", m.Final))
	s = append(s, fmt.Sprintf("Immediate = %v", m.Immediate))
	s = append(s, fmt.Sprintf("Data Segment Length = %d", m.DataLen))
	s = append(s, fmt.Sprintf("Task Tag = %x", m.TaskTag))
	s = append(s, fmt.Sprintf("AHS Length = %d", m.AHSLen))
	switch m.OpCode {
	case OpLoginReq, OpLoginResp:
		s = append(s, fmt.Sprintf("ISID = %x", m.ISID))
		s = append(s, fmt.Sprintf("Transit = %v", m.Transit))
		s = append(s, fmt.Sprintf("Continue = %v", m.Cont))
		s = append(s, fmt.Sprintf("Current Stage = %v", m.CSG))
		s = append(s, fmt.Sprintf("Next Stage = %v", m.NSG))
		if m.OpCode == OpLoginResp {
			s = append(s, fmt.Sprintf("Status Class = %d", m.StatusClass))
			s = append(s, fmt.Sprintf("Status Detail = %d", m.StatusDetail))
		}
	case OpSCSICmd:
		s = append(s, fmt.Sprintf("LUN = %d", m.LUN))
		s = append(s, fmt.Sprintf("ExpectedDataLen = %d", m.ExpectedDataLen))
		s = append(s, fmt.Sprintf("Read = %v", m.Read))
		s = append(s, fmt.Sprintf("Write = %v", m.Write))
		s = append(s, fmt.Sprintf("CDB = %x", m.CDB))
	case OpSCSIResp:
		s = append(s, fmt.Sprintf("Response = %d", m.Response))
		s = append(s, fmt.Sprintf("Status = %d", m.Status))
	case OpSCSIIn, OpSCSIOut:
		s = append(s, fmt.Sprintf("DataSN = %d", m.DataSN))
		s = append(s, fmt.Sprintf("Buffer Offset = %d", m.BufferOffset))
	}
	return strings.Join(s, "\n")
}

// ParsePDU parses one PDU as cut by Split, without digests.
func ParsePDU(pdu []byte) (*Message, error) {
	m, err := parseHeader(pdu)
	if err != nil {
		return nil, err
	}
	if len(pdu) < BHSLen+m.AHSLen+m.DataLen {
		return nil, fmt.Errorf("short %v PDU: %d bytes", m.OpCode, len(pdu))
	}
	m.RawHeader = pdu[:BHSLen]
	m.RawAHS = pdu[BHSLen : BHSLen+m.AHSLen]
	m.RawData = pdu[BHSLen+m.AHSLen : BHSLen+m.AHSLen+m.DataLen]
	if m.OpCode == OpSCSICmd {
		m.CDB = appendExtendedCDB(m.CDB, m.RawAHS)
	}
	return m, nil
}

// appendExtendedCDB extends a command's 16 byte CDB with the bytes of an
// Extended CDB AHS.
func appendExtendedCDB(cdb, ahs []byte) []byte {
	for len(ahs) >= extendedCDBHeaderLen {
		l := int(util.GetUnalignedUint16(ahs[0:2]))
		typ := ahs[2]
		end := extendedCDBHeaderLen + l - 1
		if end > len(ahs) {
			end = len(ahs)
		}
		if end < extendedCDBHeaderLen {
			end = extendedCDBHeaderLen
		}
		if typ == AHSExtendedCDB {
			ext := make([]byte, 0, len(cdb)+end-extendedCDBHeaderLen)
			ext = append(ext, cdb...)
			return append(ext, ahs[extendedCDBHeaderLen:end]...)
		}
		// each AHS is padded to four bytes
		next := 3 + l
		for next%4 > 0 {
			next++
		}
		if next > len(ahs) {
			break
		}
		ahs = ahs[next:]
	}
	return cdb
}

func parseHeader(data []byte) (*Message, error) {
	if len(data) < BHSLen {
		return nil, fmt.Errorf("garbled header")
	}
	m := &Message{}
	m.Immediate = 0x40&data[0] == 0x40
	m.OpCode = OpCode(data[0] & 0x3f)
	if _, ok := opCodeMap[m.OpCode]; !ok {
		return nil, fmt.Errorf("garbled header: opcode 0x%02x", int(m.OpCode))
	}
	m.Final = 0x80&data[1] == 0x80
	m.AHSLen = int(data[4]) * 4
	m.DataLen = int(util.ParseUint(data[5:8]))
	m.TaskTag = uint32(util.ParseUint(data[16:20]))
	switch m.OpCode {
	case OpSCSICmd:
		m.LUN = scsi.ParseLUN(data[8:16])
		m.ExpectedDataLen = uint32(util.ParseUint(data[20:24]))
		m.Read = data[1]&0x40 == 0x40
		m.Write = data[1]&0x20 == 0x20
		m.CDB = data[32:48]
	case OpSCSIResp:
		m.Response = data[2]
		m.Status = data[3]
		m.HasStatus = true
		m.Residual = uint32(util.ParseUint(data[44:48]))
	case OpSCSIIn:
		m.HasStatus = data[1]&0x01 == 0x01
		m.Status = data[3]
		m.LUN = scsi.ParseLUN(data[8:16])
		m.DataSN = uint32(util.ParseUint(data[36:40]))
		m.BufferOffset = uint32(util.ParseUint(data[40:44]))
		m.Residual = uint32(util.ParseUint(data[44:48]))
	case OpSCSIOut:
		m.LUN = scsi.ParseLUN(data[8:16])
		m.DataSN = uint32(util.ParseUint(data[36:40]))
		m.BufferOffset = uint32(util.ParseUint(data[40:44]))
	case OpReady:
		m.LUN = scsi.ParseLUN(data[8:16])
		m.BufferOffset = uint32(util.ParseUint(data[40:44]))
		m.DesiredLen = uint32(util.ParseUint(data[44:48]))
	case OpLoginReq, OpLoginResp:
		m.Transit = m.Final
		m.Cont = data[1]&0x40 == 0x40
		if m.Cont && m.Transit {
			// rfc7143 11.12.2
			return nil, fmt.Errorf("transit and continue bits set in same login PDU")
		}
		m.CSG = Stage(data[1]&0xc) >> 2
		m.NSG = Stage(data[1] & 0x3)
		m.ISID = uint64(util.ParseUint(data[8:14]))
		m.TSIH = uint16(util.ParseUint(data[14:16]))
		if m.OpCode == OpLoginResp {
			m.StatusClass = uint8(data[36])
			m.StatusDetail = uint8(data[37])
		}
	}
	return m, nil
}
