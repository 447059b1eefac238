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

package iscsi

import (
	"bytes"

	"github.com/gostor/scsitrace/pkg/util"
)

// Bytes encodes m as a PDU without digests. A CDB longer than 16 bytes is
// carried in an Extended CDB AHS unless RawAHS is already set.
func (m *Message) Bytes() []byte {
	ahs := m.RawAHS
	if m.OpCode == OpSCSICmd && len(m.CDB) > 16 && ahs == nil {
		ahs = extendedCDBAHS(m.CDB[16:])
	}

	buf := &bytes.Buffer{}
	var hdr [BHSLen]byte
	hdr[0] = byte(m.OpCode)
	if m.Immediate {
		hdr[0] |= 0x40
	}
	if m.Final {
		hdr[1] |= 0x80
	}
	hdr[4] = byte(padded(len(ahs)) / 4)
	copy(hdr[5:8], util.MarshalUint24(uint32(len(m.RawData))))
	copy(hdr[16:20], util.MarshalUint32(m.TaskTag))
	lun := util.MarshalUint16(uint16(m.LUN & 0x3fff))

	switch m.OpCode {
	case OpSCSICmd:
		if m.Read {
			hdr[1] |= 0x40
		}
		if m.Write {
			hdr[1] |= 0x20
		}
		copy(hdr[8:10], lun)
		copy(hdr[20:24], util.MarshalUint32(m.ExpectedDataLen))
		copy(hdr[32:48], m.CDB)
	case OpSCSIResp:
		hdr[2] = m.Response
		hdr[3] = m.Status
		copy(hdr[44:48], util.MarshalUint32(m.Residual))
	case OpSCSIIn:
		if m.HasStatus {
			hdr[1] |= 0x01
			hdr[3] = m.Status
		}
		copy(hdr[8:10], lun)
		copy(hdr[36:40], util.MarshalUint32(m.DataSN))
		copy(hdr[40:44], util.MarshalUint32(m.BufferOffset))
		copy(hdr[44:48], util.MarshalUint32(m.Residual))
	case OpSCSIOut:
		copy(hdr[8:10], lun)
		copy(hdr[36:40], util.MarshalUint32(m.DataSN))
		copy(hdr[40:44], util.MarshalUint32(m.BufferOffset))
	case OpReady:
		copy(hdr[8:10], lun)
		copy(hdr[40:44], util.MarshalUint32(m.BufferOffset))
		copy(hdr[44:48], util.MarshalUint32(m.DesiredLen))
	case OpLoginReq, OpLoginResp:
		if m.Transit {
			hdr[1] |= 0x80
		}
		if m.Cont {
			hdr[1] |= 0x40
		}
		hdr[1] |= byte(m.CSG&0x3)<<2 | byte(m.NSG&0x3)
		copy(hdr[8:14], util.MarshalUint64(m.ISID)[2:])
		copy(hdr[14:16], util.MarshalUint16(m.TSIH))
		if m.OpCode == OpLoginResp {
			hdr[36] = m.StatusClass
			hdr[37] = m.StatusDetail
		}
	}
	buf.Write(hdr[:])
	buf.Write(ahs)
	for i := len(ahs); i%4 != 0; i++ {
		buf.WriteByte(0)
	}
	buf.Write(m.RawData)
	for i := len(m.RawData); i%4 != 0; i++ {
		buf.WriteByte(0)
	}
	return buf.Bytes()
}

func extendedCDBAHS(ext []byte) []byte {
	ahs := make([]byte, extendedCDBHeaderLen, extendedCDBHeaderLen+len(ext))
	copy(ahs[0:2], util.MarshalUint16(uint16(len(ext)+1)))
	ahs[2] = AHSExtendedCDB
	return append(ahs, ext...)
}
