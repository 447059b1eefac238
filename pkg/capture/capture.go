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

// Package capture replays pcap and pcapng captures through the SCSI
// transports.
package capture

import (
	"bufio"
	"bytes"
	"io"
	"net"
	"os"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
	"github.com/google/gopacket/tcpassembly"
	"github.com/gostor/scsitrace/pkg/port"
	"github.com/gostor/scsitrace/pkg/port/fcp"
	"github.com/gostor/scsitrace/pkg/port/iscsi"
	"github.com/gostor/scsitrace/pkg/scsi"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const (
	DefaultISCSIPort = 3260
	// DefaultReorderWindow is how long a segment after a hole in a TCP
	// stream waits for the missing bytes before they are given up.
	DefaultReorderWindow = time.Second
	// pages of about 1900 bytes
	maxBufferedPages = 1024
)

// Link types of FC-2 frames, with and without SOF/EOF delimiters.
const (
	LinkTypeFC2       layers.LinkType = 224
	LinkTypeFC2Framed layers.LinkType = 225
)

const (
	sofLen = 4
	// CRC and EOF
	trailerLen = 8
)

var pcapngMagic = []byte{0x0a, 0x0d, 0x0d, 0x0a}

type Options struct {
	// ISCSIPorts are the TCP ports carrying iSCSI, DefaultISCSIPort if empty.
	ISCSIPorts []uint16
	// ReorderWindow is DefaultReorderWindow if zero.
	ReorderWindow time.Duration
}

// Record is one decoded payload of a capture.
type Record struct {
	Frame     int          `json:"frame"`
	Timestamp time.Time    `json:"timestamp"`
	Transport string       `json:"transport"`
	Result    *scsi.Result `json:"result"`
}

// Handler receives the records of a replay in capture order. A non-nil
// error stops the replay.
type Handler func(*Record) error

// Summary counts what a replay saw.
type Summary struct {
	Packets int `json:"packets"`
	Frames  int `json:"frames"`
	Records int `json:"records"`
	Errors  int `json:"errors"`
}

type packetReader interface {
	ReadPacketData() ([]byte, gopacket.CaptureInfo, error)
	LinkType() layers.LinkType
}

func newPacketReader(r io.Reader) (packetReader, error) {
	br := bufio.NewReader(r)
	magic, err := br.Peek(len(pcapngMagic))
	if err != nil {
		return nil, errors.Wrap(err, "reading capture header")
	}
	if bytes.Equal(magic, pcapngMagic) {
		return pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
	}
	return pcapgo.NewReader(br)
}

type replayer struct {
	session    *scsi.Session
	ports      map[layers.TCPPort]bool
	transports map[string]port.Transport
	handler    Handler
	summary    Summary

	assembler *tcpassembly.Assembler
	// directions of TCP connections the assembler follows
	started   map[streamKey]bool
	window    time.Duration
	lastFlush time.Time
	// first handler error raised while reassembling
	err error
}

type streamKey struct {
	net, transport gopacket.Flow
}

// tcpStream hands the reassembled bytes of one direction of a TCP
// connection to the iSCSI transport.
type tcpStream struct {
	p        *replayer
	key      streamKey
	src, dst string
}

func (p *replayer) New(netFlow, tcpFlow gopacket.Flow) tcpassembly.Stream {
	return &tcpStream{
		p:   p,
		key: streamKey{netFlow, tcpFlow},
		src: net.JoinHostPort(netFlow.Src().String(), tcpFlow.Src().String()),
		dst: net.JoinHostPort(netFlow.Dst().String(), tcpFlow.Dst().String()),
	}
}

func (s *tcpStream) Reassembled(rs []tcpassembly.Reassembly) {
	for _, r := range rs {
		if s.p.err != nil {
			return
		}
		if len(r.Bytes) == 0 && r.Skip == 0 {
			continue
		}
		f := &port.Frame{
			Number:    s.p.summary.Packets,
			Timestamp: r.Seen,
			Src:       s.src,
			Dst:       s.dst,
			Gap:       r.Skip != 0,
			// the assembler reuses r.Bytes
			Payload: append([]byte(nil), r.Bytes...),
		}
		if err := s.p.frame(iscsi.TransportName, f); err != nil {
			s.p.err = err
		}
	}
}

func (s *tcpStream) ReassemblyComplete() {
	delete(s.p.started, s.key)
}

func (p *replayer) transport(name string) (port.Transport, error) {
	if t, ok := p.transports[name]; ok {
		return t, nil
	}
	t, err := port.NewTransport(name, p.session)
	if err != nil {
		return nil, err
	}
	p.transports[name] = t
	return t, nil
}

// ReplayFile replays the capture stored at path.
func ReplayFile(ctx context.Context, path string, s *scsi.Session, opts Options, h Handler) (*Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Replay(ctx, f, s, opts, h)
}

// Replay reads a capture from r and feeds its frames, in capture order, to
// the transport that carries them. TCP is reassembled per direction before
// it reaches the iSCSI transport. Frames that a transport cannot parse are
// logged and skipped.
func Replay(ctx context.Context, r io.Reader, s *scsi.Session, opts Options, h Handler) (*Summary, error) {
	pr, err := newPacketReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "unreadable capture")
	}
	p := &replayer{
		session:    s,
		ports:      make(map[layers.TCPPort]bool),
		transports: make(map[string]port.Transport),
		handler:    h,
		started:    make(map[streamKey]bool),
		window:     opts.ReorderWindow,
	}
	if p.window <= 0 {
		p.window = DefaultReorderWindow
	}
	p.assembler = tcpassembly.NewAssembler(tcpassembly.NewStreamPool(p))
	p.assembler.MaxBufferedPagesPerConnection = maxBufferedPages
	if len(opts.ISCSIPorts) == 0 {
		opts.ISCSIPorts = []uint16{DefaultISCSIPort}
	}
	for _, n := range opts.ISCSIPorts {
		p.ports[layers.TCPPort(n)] = true
	}
	linkType := pr.LinkType()
	log.Debugf("replaying capture with link type %v", linkType)

	for {
		select {
		case <-ctx.Done():
			return &p.summary, ctx.Err()
		default:
		}
		data, ci, err := pr.ReadPacketData()
		if err == io.EOF {
			break
		}
		if err == io.ErrUnexpectedEOF {
			log.Warnf("capture ends inside packet %d", p.summary.Packets+1)
			break
		}
		if err != nil {
			return &p.summary, errors.Wrapf(err, "reading packet %d", p.summary.Packets+1)
		}
		p.summary.Packets++
		if err := p.packet(linkType, data, ci); err != nil {
			return &p.summary, err
		}
	}
	p.assembler.FlushAll()
	return &p.summary, p.err
}

func (p *replayer) packet(linkType layers.LinkType, data []byte, ci gopacket.CaptureInfo) error {
	number := p.summary.Packets
	switch linkType {
	case LinkTypeFC2Framed:
		if len(data) < sofLen+trailerLen {
			log.Warnf("packet %d: short framed FC-2 frame", number)
			p.summary.Errors++
			return nil
		}
		data = data[sofLen : len(data)-trailerLen]
		fallthrough
	case LinkTypeFC2:
		return p.frame(fcp.TransportName, &port.Frame{Number: number, Timestamp: ci.Timestamp, Payload: data})
	}

	pkt := gopacket.NewPacket(data, linkType, gopacket.DecodeOptions{Lazy: true, NoCopy: true})
	tcpLayer := pkt.Layer(layers.LayerTypeTCP)
	if tcpLayer == nil {
		return nil
	}
	tcp, _ := tcpLayer.(*layers.TCP)
	if !p.ports[tcp.SrcPort] && !p.ports[tcp.DstPort] {
		return nil
	}
	netLayer := pkt.NetworkLayer()
	if netLayer == nil {
		return nil
	}
	netFlow := netLayer.NetworkFlow()
	key := streamKey{netFlow, tcp.TransportFlow()}
	switch {
	case tcp.SYN:
		p.started[key] = true
	case !p.started[key] && len(tcp.Payload) > 0:
		// The capture began after the handshake; start the stream at
		// this segment.
		syn := *tcp
		syn.SYN = true
		syn.Seq = tcp.Seq - 1
		syn.Payload = nil
		p.assembler.AssembleWithTimestamp(netFlow, &syn, ci.Timestamp)
		p.started[key] = true
	}
	p.assembler.AssembleWithTimestamp(netFlow, tcp, ci.Timestamp)
	if ci.Timestamp.Sub(p.lastFlush) >= p.window {
		p.assembler.FlushWithOptions(tcpassembly.FlushOptions{T: ci.Timestamp.Add(-p.window)})
		p.lastFlush = ci.Timestamp
	}
	return p.err
}

func (p *replayer) frame(name string, f *port.Frame) error {
	t, err := p.transport(name)
	if err != nil {
		return err
	}
	p.summary.Frames++
	results, err := t.HandleFrame(f)
	if err != nil {
		log.Warnf("%s: %v", name, err)
		p.summary.Errors++
	}
	for _, r := range results {
		p.summary.Records++
		if p.handler == nil {
			continue
		}
		if err := p.handler(&Record{Frame: f.Number, Timestamp: f.Timestamp, Transport: name, Result: r}); err != nil {
			return err
		}
	}
	return nil
}
