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
	"fmt"

	"github.com/gostor/scsitrace/pkg/util"
)

const (
	digestLen = 4
	// DefaultMaxDataSegmentLen bounds the data segment a header may announce
	// until login negotiates a larger one.
	DefaultMaxDataSegmentLen = 1 << 20
)

// Digests records the digests a connection negotiated at login.
type Digests struct {
	Header bool
	Data   bool
}

func padded(n int) int {
	for n%4 > 0 {
		n++
	}
	return n
}

// checkHeader reports why the BHS at the front of b cannot start a PDU, or
// nil when it can. maxData bounds the data segment length.
func checkHeader(b []byte, maxData int) error {
	if b[0]&0x80 != 0 {
		return fmt.Errorf("garbled header: reserved bit set in byte 0x%02x", b[0])
	}
	op := OpCode(b[0] & 0x3f)
	if _, ok := opCodeMap[op]; !ok {
		return fmt.Errorf("garbled header: opcode 0x%02x", int(op))
	}
	dataLen := int(util.ParseUint(b[5:8]))
	if dataLen > maxData {
		return fmt.Errorf("garbled header: %v with %d data bytes", op, dataLen)
	}
	if b[4] != 0 {
		if op != OpSCSICmd {
			return fmt.Errorf("garbled header: %v with an AHS", op)
		}
		if len(b) >= BHSLen+extendedCDBHeaderLen {
			if t := b[BHSLen+2]; t != AHSExtendedCDB && t != AHSBidiReadDataLen {
				return fmt.Errorf("garbled header: AHS type 0x%02x", t)
			}
		}
	}

	flags := b[1]
	ok := true
	switch op {
	case OpNoopOut, OpNoopIn, OpSCSITaskResp, OpLogoutResp, OpReady, OpAsync, OpReject:
		ok = flags == 0x80
	case OpSCSICmd:
		ok = flags&0x18 == 0
	case OpSCSITaskReq, OpLogoutReq:
		ok = flags&0x80 != 0
	case OpSNACKReq:
		ok = flags&0xf0 == 0x80
	case OpLoginReq, OpLoginResp:
		ok = flags&0x30 == 0
	case OpTextReq, OpTextResp:
		// an empty text PDU is final or continued
		ok = flags&0x3f == 0 && (flags != 0 || dataLen > 0)
	case OpSCSIOut:
		ok = flags&0x7f == 0
	case OpSCSIResp:
		ok = flags&0xe1 == 0x80
	case OpSCSIIn:
		ok = flags&0x38 == 0
	}
	if !ok {
		return fmt.Errorf("garbled header: %v with flags 0x%02x", op, flags)
	}

	switch op {
	case OpNoopOut, OpNoopIn, OpSCSICmd, OpSCSIOut, OpReady, OpTextReq, OpTextResp:
		if b[2] != 0 || b[3] != 0 {
			return fmt.Errorf("garbled header: %v with reserved bytes 0x%02x%02x", op, b[2], b[3])
		}
	}
	return nil
}

// pduLen returns the number of bytes the PDU whose BHS starts b occupies on
// the wire, the length of its header and the offset of its data segment.
func pduLen(b []byte, d Digests) (n, hdr, dataStart, dataLen int) {
	dataLen = int(util.ParseUint(b[5:8]))
	hdr = BHSLen + int(b[4])*4
	n = hdr
	if d.Header {
		n += digestLen
	}
	dataStart = n
	n += padded(dataLen)
	if d.Data && dataLen > 0 {
		n += digestLen
	}
	return
}

// Split cuts the first PDU off the front of buf. The returned PDU is the
// BHS, the AHS and the unpadded data segment, with any digests removed. n is
// the number of bytes of buf the PDU occupied, or 0 when buf does not hold a
// complete PDU yet. Split fails when buf does not start with a plausible
// header.
func Split(buf []byte, d Digests) (pdu []byte, n int, err error) {
	return split(buf, d, DefaultMaxDataSegmentLen)
}

func split(buf []byte, d Digests, maxData int) (pdu []byte, n int, err error) {
	if len(buf) < BHSLen {
		return nil, 0, nil
	}
	if err := checkHeader(buf, maxData); err != nil {
		return nil, 0, err
	}
	n, hdr, dataStart, dataLen := pduLen(buf, d)
	if len(buf) < n {
		return nil, 0, nil
	}
	pdu = make([]byte, 0, hdr+dataLen)
	pdu = append(pdu, buf[:hdr]...)
	pdu = append(pdu, buf[dataStart:dataStart+dataLen]...)
	return pdu, n, nil
}

// findHeader looks for the first offset in buf where a PDU starts. A
// candidate header counts only when the PDU it announces ends at the end of
// buf or is followed by another plausible header. ok is false when no
// header was confirmed; off is then the number of leading bytes that can
// never start one.
func findHeader(buf []byte, d Digests, maxData int) (off int, ok bool) {
	for off = 0; off+BHSLen <= len(buf); off++ {
		if checkHeader(buf[off:], maxData) != nil {
			continue
		}
		n, _, _, _ := pduLen(buf[off:], d)
		next := off + n
		switch {
		case next == len(buf):
			return off, true
		case next+BHSLen <= len(buf):
			if checkHeader(buf[next:], maxData) == nil {
				return off, true
			}
		default:
			// wait for the bytes that confirm or refute this candidate
			return off, false
		}
	}
	return off, false
}

// stream holds the bytes one side of a TCP connection sent that do not form
// a complete PDU yet.
type stream struct {
	buf []byte
	// synced is set once a PDU boundary is known
	synced bool
}

func (s *stream) reset() {
	s.buf = nil
	s.synced = false
}
