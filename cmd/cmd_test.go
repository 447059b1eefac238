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

package cmd

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/pcapgo"
	"github.com/gostor/scsitrace/pkg/capture"
	"github.com/gostor/scsitrace/pkg/config"
	"github.com/gostor/scsitrace/pkg/port/fcp"
	"github.com/gostor/scsitrace/pkg/scsi"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func writeCapture(t *testing.T, dir string) string {
	var buf bytes.Buffer
	w := pcapgo.NewWriter(&buf)
	assert.NilError(t, w.WriteFileHeader(65535, capture.LinkTypeFC2))

	write := func(h *fcp.Header, payload []byte) {
		frame := append(h.Bytes(), payload...)
		ci := gopacket.CaptureInfo{Timestamp: time.Unix(1451606400, 0), CaptureLength: len(frame), Length: len(frame)}
		assert.NilError(t, w.WritePacket(ci, frame))
	}
	read := &fcp.Command{Read: true, CDB: []byte{0x08, 0x00, 0x00, 0x10, 0x01, 0x00}, DataLen: 512}
	write(&fcp.Header{RCtl: uint8(fcp.CategoryCmnd), DID: 0x010300, SID: 0x010200, Type: fcp.TypeFCP, OXID: 1}, read.Bytes())
	rsp := &fcp.Response{Status: scsi.SAM_STAT_GOOD}
	write(&fcp.Header{RCtl: uint8(fcp.CategoryRsp), DID: 0x010200, SID: 0x010300, Type: fcp.TypeFCP, OXID: 1, FCtl: fcp.FCtlExchangeContext}, rsp.Bytes())

	path := filepath.Join(dir, "read.pcap")
	assert.NilError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand(nil)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDecodeText(t *testing.T) {
	dir := t.TempDir()
	path := writeCapture(t, dir)

	out, errOut, err := run(t, "decode", "--config", dir, "--device-class", "block", path)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "Read(6) (SBC-2)"))
	assert.Check(t, is.Contains(out, "010300/lun0"))
	assert.Check(t, is.Contains(out, "status Good"))
	assert.Check(t, is.Contains(errOut, "2 packets, 2 frames, 2 records, 0 errors"))
}

func TestDecodeDefaultDeviceClass(t *testing.T) {
	dir := t.TempDir()
	path := writeCapture(t, dir)

	out, _, err := run(t, "decode", "--config", dir, path)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "Read(6) (SBC-2)"))

	_, _, err = run(t, "decode", "--config", dir, "--device-class", "unknown", path)
	assert.ErrorContains(t, err, "want block or sequential")
}

func TestDecodeJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeCapture(t, dir)

	out, _, err := run(t, "decode", "--config", dir, "--format", "json", "--device-class", "tape", path)
	assert.NilError(t, err)

	var records []*capture.Record
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		rec := &capture.Record{}
		assert.NilError(t, json.Unmarshal(sc.Bytes(), rec))
		records = append(records, rec)
	}
	assert.Equal(t, len(records), 2)
	assert.Equal(t, records[0].Transport, fcp.TransportName)
	assert.Equal(t, records[0].Result.CommandSet, "SSC-2")
	assert.Equal(t, records[1].Result.Phase, scsi.PhaseResponse)
}

func TestDecodeQuiet(t *testing.T) {
	dir := t.TempDir()
	path := writeCapture(t, dir)

	out, errOut, err := run(t, "decode", "--config", dir, "-q", path)
	assert.NilError(t, err)
	assert.Equal(t, out, "")
	assert.Check(t, is.Contains(errOut, "2 records"))
}

func TestDecodeErrors(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, "decode", "--config", dir)
	assert.ErrorContains(t, err, "requires at least 1 arg")

	_, _, err = run(t, "decode", "--config", dir, filepath.Join(dir, "missing.pcap"))
	assert.ErrorContains(t, err, "missing.pcap")

	path := writeCapture(t, dir)
	_, _, err = run(t, "decode", "--config", dir, "--format", "xml", path)
	assert.ErrorContains(t, err, "unknown format")

	_, _, err = run(t, "decode", "--config", dir, "--log", "loud", path)
	assert.ErrorContains(t, err, "unknown log level")
}

func TestListCommands(t *testing.T) {
	dir := t.TempDir()

	out, _, err := run(t, "list", "commands", "--config", dir, "--class", "sequential")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "Read Block Limits"))
	assert.Check(t, is.Contains(out, "Inquiry"))
	assert.Check(t, !strings.Contains(out, "Read Capacity(10)"))

	out, _, err = run(t, "list", "commands", "--config", dir)
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "Read Capacity(10)"))
	assert.Check(t, is.Contains(out, "Read Block Limits"))

	_, _, err = run(t, "list", "commands", "--config", dir, "--class", "printer")
	assert.ErrorContains(t, err, "unknown device class")
}

func TestListTransports(t *testing.T) {
	out, _, err := run(t, "list", "transports", "--config", t.TempDir())
	assert.NilError(t, err)
	assert.Equal(t, out, "fcp\niscsi\n")
}

func TestConfigSave(t *testing.T) {
	dir := t.TempDir()

	out, _, err := run(t, "config", "--config", dir, "--save", "--max-tasks", "10", "--iscsi-port", "3260,3261")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, `"max-tasks": 10`))

	cfg, err := config.Load(config.New(dir))
	assert.NilError(t, err)
	assert.Equal(t, cfg.MaxTasks, 10)
	assert.DeepEqual(t, cfg.ISCSIPorts, []int{3260, 3261})
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version", "--config", t.TempDir())
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "Scsitrace "))
	assert.Check(t, is.Contains(out, "Transports: fcp, iscsi"))
}

func TestParseHosts(t *testing.T) {
	addrs, err := parseHosts([]string{DefaultHost, "unix:///var/run/scsitrace.sock"})
	assert.NilError(t, err)
	assert.Equal(t, len(addrs), 2)
	assert.Equal(t, addrs[0].Proto, "tcp")
	assert.Equal(t, addrs[0].Addr, "127.0.0.1:23457")
	assert.Equal(t, addrs[1].Proto, "unix")

	_, err = parseHosts([]string{"127.0.0.1:23457"})
	assert.ErrorContains(t, err, "expected PROTO://ADDR")
}
