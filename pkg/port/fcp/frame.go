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

// Package fcp decodes SCSI over Fibre Channel (FCP-4) information units
// carried in FC-2 frames.
package fcp

import (
	"fmt"
	"strings"

	"github.com/gostor/scsitrace/pkg/scsi"
	"github.com/gostor/scsitrace/pkg/util"
)

const HeaderLen = 24

// TypeFCP is the FC-2 TYPE of SCSI-FCP frames.
const TypeFCP = 0x08

// Information categories of Device_Data frames, the low nibble of R_CTL.
type Category uint8

const (
	CategoryData    Category = 0x01
	CategoryXferRdy Category = 0x05
	CategoryCmnd    Category = 0x06
	CategoryRsp     Category = 0x07
)

var categoryMap = map[Category]string{
	CategoryData:    "FCP_DATA",
	CategoryXferRdy: "FCP_XFER_RDY",
	CategoryCmnd:    "FCP_CMND",
	CategoryRsp:     "FCP_RSP",
}

func (c Category) String() string {
	s := categoryMap[c]
	if s == "" {
		s = fmt.Sprintf("Unknown Category: %x", uint8(c))
	}
	return s
}

// F_CTL bits.
const (
	FCtlExchangeContext = 0x800000
	FCtlSequenceContext = 0x400000
	FCtlLastSequence    = 0x100000
	FCtlEndSequence     = 0x080000
	FCtlRelativeOffset  = 0x000008
)

// DF_CTL optional header bits.
const (
	dfCtlESP         = 0x40
	dfCtlNetwork     = 0x20
	dfCtlAssociation = 0x10
	dfCtlDevice      = 0x03
)

// Header is the FC-2 frame header.
type Header struct {
	RCtl      uint8
	DID       uint32
	CSCtl     uint8
	SID       uint32
	Type      uint8
	FCtl      uint32
	SeqID     uint8
	DFCtl     uint8
	SeqCnt    uint16
	OXID      uint16
	RXID      uint16
	Parameter uint32
}

func (h *Header) String() string {
	var s []string
	s = append(s, fmt.Sprintf("R_CTL = 0x%02x", h.RCtl))
	s = append(s, fmt.Sprintf("D_ID = %06x", h.DID))
	s = append(s, fmt.Sprintf("S_ID = %06x", h.SID))
	s = append(s, fmt.Sprintf("TYPE = 0x%02x", h.Type))
	s = append(s, fmt.Sprintf("F_CTL = 0x%06x", h.FCtl))
	s = append(s, fmt.Sprintf("OX_ID = 0x%04x", h.OXID))
	s = append(s, fmt.Sprintf("RX_ID = 0x%04x", h.RXID))
	s = append(s, fmt.Sprintf("Parameter = 0x%08x", h.Parameter))
	return strings.Join(s, "\n")
}

// DeviceData reports whether the frame routing is Device_Data.
func (h *Header) DeviceData() bool {
	return h.RCtl&0xf0 == 0
}

func (h *Header) Category() Category {
	return Category(h.RCtl & 0x0f)
}

// FromResponder reports whether the frame was sent by the responder of
// the exchange, that is by the target.
func (h *Header) FromResponder() bool {
	return h.FCtl&FCtlExchangeContext != 0
}

// ParseHeader parses the FC-2 header at the start of b.
func ParseHeader(b []byte) (*Header, error) {
	if len(b) < HeaderLen {
		return nil, fmt.Errorf("short FC-2 header: %d bytes", len(b))
	}
	return &Header{
		RCtl:      b[0],
		DID:       uint32(util.ParseUint(b[1:4])),
		CSCtl:     b[4],
		SID:       uint32(util.ParseUint(b[5:8])),
		Type:      b[8],
		FCtl:      uint32(util.ParseUint(b[9:12])),
		SeqID:     b[12],
		DFCtl:     b[13],
		SeqCnt:    util.GetUnalignedUint16(b[14:16]),
		OXID:      util.GetUnalignedUint16(b[16:18]),
		RXID:      util.GetUnalignedUint16(b[18:20]),
		Parameter: util.GetUnalignedUint32(b[20:24]),
	}, nil
}

// Bytes encodes h as a 24 byte FC-2 header.
func (h *Header) Bytes() []byte {
	b := make([]byte, HeaderLen)
	b[0] = h.RCtl
	copy(b[1:4], util.MarshalUint24(h.DID))
	b[4] = h.CSCtl
	copy(b[5:8], util.MarshalUint24(h.SID))
	b[8] = h.Type
	copy(b[9:12], util.MarshalUint24(h.FCtl))
	b[12] = h.SeqID
	b[13] = h.DFCtl
	copy(b[14:16], util.MarshalUint16(h.SeqCnt))
	copy(b[16:18], util.MarshalUint16(h.OXID))
	copy(b[18:20], util.MarshalUint16(h.RXID))
	copy(b[20:24], util.MarshalUint32(h.Parameter))
	return b
}

// optionalHeaderLen returns the length of the optional headers DF_CTL
// announces between the frame header and the payload.
func optionalHeaderLen(dfctl uint8) (int, error) {
	if dfctl&dfCtlESP != 0 {
		return 0, fmt.Errorf("ESP protected frames are not supported")
	}
	n := 0
	if dfctl&dfCtlNetwork != 0 {
		n += 16
	}
	if dfctl&dfCtlAssociation != 0 {
		n += 32
	}
	switch dfctl & dfCtlDevice {
	case 1:
		n += 16
	case 2:
		n += 32
	case 3:
		n += 64
	}
	return n, nil
}

// Payload returns the bytes of frame following the header and any optional
// headers.
func (h *Header) Payload(frame []byte) ([]byte, error) {
	n, err := optionalHeaderLen(h.DFCtl)
	if err != nil {
		return nil, err
	}
	if len(frame) < HeaderLen+n {
		return nil, fmt.Errorf("short frame: %d bytes of optional headers missing", HeaderLen+n-len(frame))
	}
	return frame[HeaderLen+n:], nil
}

// Command is an FCP_CMND information unit.
type Command struct {
	LUN           uint64
	CRN           uint8
	TaskAttribute uint8
	TaskMgmt      uint8
	AddCDBLen     int
	Read, Write   bool
	CDB           []byte
	DataLen       uint32
	// BidiReadLen is only present when both Read and Write are set.
	BidiReadLen uint32
}

const cmndFixedLen = 12

// ParseCommand parses an FCP_CMND payload.
func ParseCommand(b []byte) (*Command, error) {
	if len(b) < cmndFixedLen {
		return nil, fmt.Errorf("short FCP_CMND: %d bytes", len(b))
	}
	c := &Command{
		LUN:           scsi.ParseLUN(b[0:8]),
		CRN:           b[8],
		TaskAttribute: b[9] & 0x07,
		TaskMgmt:      b[10],
		AddCDBLen:     int(b[11]>>2) * 4,
		Read:          b[11]&0x02 != 0,
		Write:         b[11]&0x01 != 0,
	}
	if c.TaskMgmt != 0 {
		return c, nil
	}
	end := cmndFixedLen + 16 + c.AddCDBLen
	if len(b) < end+4 {
		return nil, fmt.Errorf("short FCP_CMND: %d bytes, need %d", len(b), end+4)
	}
	c.CDB = b[cmndFixedLen:end]
	c.DataLen = util.GetUnalignedUint32(b[end : end+4])
	if c.Read && c.Write && len(b) >= end+8 {
		c.BidiReadLen = util.GetUnalignedUint32(b[end+4 : end+8])
	}
	return c, nil
}

// Bytes encodes c as an FCP_CMND payload. A CDB shorter than 16 bytes is
// zero padded.
func (c *Command) Bytes() []byte {
	add := 0
	if len(c.CDB) > 16 {
		add = (len(c.CDB) - 16 + 3) / 4 * 4
	}
	b := make([]byte, cmndFixedLen+16+add+4)
	copy(b[0:2], util.MarshalUint16(uint16(c.LUN&0x3fff)))
	b[8] = c.CRN
	b[9] = c.TaskAttribute & 0x07
	b[10] = c.TaskMgmt
	b[11] = byte(add/4) << 2
	if c.Read {
		b[11] |= 0x02
	}
	if c.Write {
		b[11] |= 0x01
	}
	copy(b[cmndFixedLen:], c.CDB)
	copy(b[cmndFixedLen+16+add:], util.MarshalUint32(c.DataLen))
	if c.Read && c.Write {
		b = append(b, util.MarshalUint32(c.BidiReadLen)...)
	}
	return b
}

// FCP_RSP flags.
const (
	RspLenValid = 0x01
	SnsLenValid = 0x02
	ResidOver   = 0x04
	ResidUnder  = 0x08
)

const rspFixedLen = 24

// Response is an FCP_RSP information unit.
type Response struct {
	Flags    uint8
	Status   uint8
	Residual uint32
	// RspInfo is the FCP_RSP_INFO field, SenseLen the declared sense length.
	RspInfo  []byte
	SenseLen int
	Sense    []byte
}

// ParseResponse parses an FCP_RSP payload. Lengths that are not flagged
// valid are ignored. Sense is the bytes after the response info; callers
// bound it by SenseLen.
func ParseResponse(b []byte) (*Response, error) {
	if len(b) < 12 {
		return nil, fmt.Errorf("short FCP_RSP: %d bytes", len(b))
	}
	r := &Response{Flags: b[10], Status: b[11]}
	if len(b) < rspFixedLen {
		return r, nil
	}
	if r.Flags&(ResidOver|ResidUnder) != 0 {
		r.Residual = util.GetUnalignedUint32(b[12:16])
	}
	rest := b[rspFixedLen:]
	if r.Flags&RspLenValid != 0 {
		n := int(util.GetUnalignedUint32(b[20:24]))
		if n > len(rest) {
			n = len(rest)
		}
		r.RspInfo = rest[:n]
		rest = rest[n:]
	}
	if r.Flags&SnsLenValid != 0 {
		r.SenseLen = int(util.GetUnalignedUint32(b[16:20]))
		r.Sense = rest
	}
	return r, nil
}

// Bytes encodes r as an FCP_RSP payload.
func (r *Response) Bytes() []byte {
	b := make([]byte, rspFixedLen)
	b[10] = r.Flags
	b[11] = r.Status
	copy(b[12:16], util.MarshalUint32(r.Residual))
	copy(b[16:20], util.MarshalUint32(uint32(len(r.Sense))))
	copy(b[20:24], util.MarshalUint32(uint32(len(r.RspInfo))))
	b = append(b, r.RspInfo...)
	return append(b, r.Sense...)
}

// XferRdy is an FCP_XFER_RDY information unit.
type XferRdy struct {
	Offset   uint32
	BurstLen uint32
}

func ParseXferRdy(b []byte) (*XferRdy, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("short FCP_XFER_RDY: %d bytes", len(b))
	}
	return &XferRdy{
		Offset:   util.GetUnalignedUint32(b[0:4]),
		BurstLen: util.GetUnalignedUint32(b[4:8]),
	}, nil
}
