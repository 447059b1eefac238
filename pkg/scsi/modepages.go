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

// Mode page codes
const (
	MODE_RW_ERROR_RECOVERY        byte = 0x01
	MODE_DISCONNECT_RECONNECT     byte = 0x02
	MODE_FORMAT_DEVICE            byte = 0x03
	MODE_RIGID_GEOMETRY           byte = 0x04
	MODE_CACHING                  byte = 0x08
	MODE_CONTROL                  byte = 0x0a
	MODE_DATA_COMPRESSION         byte = 0x0f
	MODE_DEVICE_CONFIGURATION     byte = 0x10
	MODE_MEDIUM_PARTITION         byte = 0x11
	MODE_POWER_CONDITION          byte = 0x1a
	MODE_INFORMATIONAL_EXCEPTIONS byte = 0x1c
	MODE_ALL_PAGES                byte = 0x3f
)

var commonModePageNames = map[uint64]string{
	0x01: "Read-Write Error Recovery",
	0x02: "Disconnect-Reconnect",
	0x09: "Peripheral Device",
	0x0a: "Control",
	0x18: "Protocol Specific Logical Unit",
	0x19: "Protocol Specific Port",
	0x1a: "Power Condition",
	0x1c: "Informational Exceptions Control",
	0x3f: "All Pages",
}

var sbcModePageNames = map[uint64]string{
	0x03: "Format Device",
	0x04: "Rigid Disk Geometry",
	0x05: "Flexible Disk",
	0x07: "Verify Error Recovery",
	0x08: "Caching",
	0x0c: "Notch and Partition",
	0x0d: "Power Condition",
}

var sscModePageNames = map[uint64]string{
	0x0f: "Data Compression",
	0x10: "Device Configuration",
	0x11: "Medium Partition (1)",
	0x12: "Medium Partition (2)",
	0x13: "Medium Partition (3)",
	0x14: "Medium Partition (4)",
}

var modePageNameTables = map[DeviceClass]map[uint64]string{}

func init() {
	for class, extra := range map[DeviceClass]map[uint64]string{
		DeviceClassUnknown:    nil,
		DeviceClassBlock:      sbcModePageNames,
		DeviceClassSequential: sscModePageNames,
	} {
		m := make(map[uint64]string, len(commonModePageNames)+len(extra))
		for k, v := range commonModePageNames {
			m[k] = v
		}
		for k, v := range extra {
			m[k] = v
		}
		modePageNameTables[class] = m
	}
}

func modePageNames(class DeviceClass) map[uint64]string {
	return modePageNameTables[class]
}

type modePageDecoder func(t *Tree)

var commonModePages = map[byte]modePageDecoder{
	MODE_RW_ERROR_RECOVERY:        decodeRWErrorRecoveryPage,
	MODE_DISCONNECT_RECONNECT:     decodeDisconnectReconnectPage,
	MODE_CONTROL:                  decodeControlPage,
	MODE_POWER_CONDITION:          decodePowerConditionPage,
	MODE_INFORMATIONAL_EXCEPTIONS: decodeInformationalExceptionsPage,
}

var sbcModePages = map[byte]modePageDecoder{
	MODE_FORMAT_DEVICE:  decodeFormatDevicePage,
	MODE_RIGID_GEOMETRY: decodeRigidGeometryPage,
	MODE_CACHING:        decodeCachingPage,
}

var sscModePages = map[byte]modePageDecoder{
	MODE_DATA_COMPRESSION:     decodeDataCompressionPage,
	MODE_DEVICE_CONFIGURATION: decodeDeviceConfigurationPage,
	MODE_MEDIUM_PARTITION:     decodeMediumPartitionPage,
}

func lookupModePage(class DeviceClass, code byte) modePageDecoder {
	if fn, ok := commonModePages[code]; ok {
		return fn
	}
	switch class {
	case DeviceClassBlock:
		return sbcModePages[code]
	case DeviceClassSequential:
		return sscModePages[code]
	}
	return nil
}

var mediumTypeNames = map[uint64]string{
	0x00: "Default",
}

// decodeModeData walks a mode parameter list: the header, the block
// descriptors and then the pages, until the pages run out or one does not
// fit. sense selects Mode Sense data, whose header carries the data length.
func decodeModeData(t *Tree, st *TaskState, sense bool) {
	var hdrLen, bdLen int
	var longLBA bool
	if st.Has(TaskCDB10) {
		l := t.Uint16("Mode Data Length", 0)
		if sense && t.Ok() {
			t.Clamp(2 + int(l))
		}
		t.Enum("Medium Type", 2, 1, 0xff, mediumTypeNames)
		decodeDeviceSpecific(t, st.Class, 3)
		longLBA = t.Flag("LongLBA", 4, 0x01)
		bdLen = int(t.Uint16("Block Descriptor Length", 6))
		hdrLen = 8
	} else {
		l := t.Uint8("Mode Data Length", 0)
		if sense && t.Ok() {
			t.Clamp(1 + int(l))
		}
		t.Enum("Medium Type", 1, 1, 0xff, mediumTypeNames)
		decodeDeviceSpecific(t, st.Class, 2)
		bdLen = int(t.Uint8("Block Descriptor Length", 3))
		hdrLen = 4
	}
	if !t.Ok() {
		return
	}

	size := 8
	if longLBA {
		size = 16
	}
	end := hdrLen + bdLen
	for off := hdrLen; off+size <= end; off += size {
		switch {
		case longLBA:
			t.Uint64("Number of Blocks", off)
			t.Uint32("Block Length", off+12)
		case st.Class == DeviceClassBlock:
			t.Uint32("Number of Blocks", off)
			t.Uint24("Block Length", off+5)
		default:
			t.Uint8("Density Code", off)
			t.Uint24("Number of Blocks", off+1)
			t.Uint24("Block Length", off+5)
		}
	}
	if !t.Ok() {
		return
	}

	for off := end; t.Ok() && off+2 <= t.Len(); {
		n := 2 + int(t.Peek(off+1, 1))
		if t.Peek(off, 1)&0x40 != 0 {
			n = 4 + int(t.Peek(off+2, 2))
		}
		if !t.Ok() {
			return
		}
		class := st.Class
		t.Sub(off, n, func(s *Tree) {
			decodeModePage(s, class)
		})
		off += n
	}
}

func decodeDeviceSpecific(t *Tree, class DeviceClass, off int) {
	switch class {
	case DeviceClassBlock:
		t.Flag("WP", off, 0x80)
		t.Flag("DPOFUA", off, 0x10)
	case DeviceClassSequential:
		t.Flag("WP", off, 0x80)
		t.Bits("Buffered Mode", off, 1, 0x70)
		t.Bits("Speed", off, 1, 0x0f)
	default:
		t.Uint8("Device-Specific Parameter", off)
	}
}

// decodeModePage decodes one page including its header.
func decodeModePage(t *Tree, class DeviceClass) {
	t.Flag("PS", 0, 0x80)
	spf := t.Flag("SPF", 0, 0x40)
	code := byte(t.Enum("Page Code", 0, 1, 0x3f, modePageNames(class)))
	if spf {
		t.Uint8("Subpage Code", 1)
		t.Uint16("Page Length", 2)
		t.Rest("Page Data", 4)
		return
	}
	t.Uint8("Page Length", 1)
	if fn := lookupModePage(class, code); fn != nil {
		fn(t)
		return
	}
	t.Rest("Page Data", 2)
}

func decodeRWErrorRecoveryPage(t *Tree) {
	t.Flag("AWRE", 2, 0x80)
	t.Flag("ARRE", 2, 0x40)
	t.Flag("TB", 2, 0x20)
	t.Flag("RC", 2, 0x10)
	t.Flag("EER", 2, 0x08)
	t.Flag("PER", 2, 0x04)
	t.Flag("DTE", 2, 0x02)
	t.Flag("DCR", 2, 0x01)
	t.Uint8("Read Retry Count", 3)
	t.Uint8("Correction Span", 4)
	t.Int("Head Offset Count", 5, 1)
	t.Int("Data Strobe Offset Count", 6, 1)
	t.Uint8("Write Retry Count", 8)
	t.Uint16("Recovery Time Limit", 10)
}

func decodeDisconnectReconnectPage(t *Tree) {
	t.Uint8("Buffer Full Ratio", 2)
	t.Uint8("Buffer Empty Ratio", 3)
	t.Uint16("Bus Inactivity Limit", 4)
	t.Uint16("Disconnect Time Limit", 6)
	t.Uint16("Connect Time Limit", 8)
	t.Uint16("Maximum Burst Size", 10)
	t.Flag("EMDP", 12, 0x80)
	t.Bits("Fair Arbitration", 12, 1, 0x70)
	t.Flag("DImm", 12, 0x08)
	t.Bits("DTDC", 12, 1, 0x07)
	t.Uint16("First Burst Size", 14)
}

func decodeFormatDevicePage(t *Tree) {
	t.Uint16("Tracks Per Zone", 2)
	t.Uint16("Alternate Sectors Per Zone", 4)
	t.Uint16("Alternate Tracks Per Zone", 6)
	t.Uint16("Alternate Tracks Per Logical Unit", 8)
	t.Uint16("Sectors Per Track", 10)
	t.Uint16("Data Bytes Per Physical Sector", 12)
	t.Uint16("Interleave", 14)
	t.Uint16("Track Skew Factor", 16)
	t.Uint16("Cylinder Skew Factor", 18)
	t.Flag("SSEC", 20, 0x80)
	t.Flag("HSEC", 20, 0x40)
	t.Flag("RMB", 20, 0x20)
	t.Flag("SURF", 20, 0x10)
}

var rplNames = map[uint64]string{
	0: "Spindle synchronization disabled",
	1: "Slave",
	2: "Master",
	3: "Master control",
}

func decodeRigidGeometryPage(t *Tree) {
	t.Uint24("Number of Cylinders", 2)
	t.Uint8("Number of Heads", 5)
	t.Uint24("Starting Cylinder-Write Precompensation", 6)
	t.Uint24("Starting Cylinder-Reduced Write Current", 9)
	t.Uint16("Drive Step Rate", 12)
	t.Uint24("Landing Zone Cylinder", 14)
	t.Enum("RPL", 17, 1, 0x03, rplNames)
	t.Uint8("Rotational Offset", 18)
	t.Uint16("Medium Rotation Rate", 20)
}

func decodeCachingPage(t *Tree) {
	t.Flag("IC", 2, 0x80)
	t.Flag("ABPF", 2, 0x40)
	t.Flag("CAP", 2, 0x20)
	t.Flag("DISC", 2, 0x10)
	t.Flag("SIZE", 2, 0x08)
	t.Flag("WCE", 2, 0x04)
	t.Flag("MF", 2, 0x02)
	t.Flag("RCD", 2, 0x01)
	t.Bits("Demand Read Retention Priority", 3, 1, 0xf0)
	t.Bits("Write Retention Priority", 3, 1, 0x0f)
	t.Uint16("Disable Pre-fetch Transfer Length", 4)
	t.Uint16("Minimum Pre-fetch", 6)
	t.Uint16("Maximum Pre-fetch", 8)
	t.Uint16("Maximum Pre-fetch Ceiling", 10)
	t.Flag("FSW", 12, 0x80)
	t.Flag("LBCSS", 12, 0x40)
	t.Flag("DRA", 12, 0x20)
	t.Uint8("Number of Cache Segments", 13)
	t.Uint16("Cache Segment Size", 14)
}

var tstNames = map[uint64]string{
	0: "Task set per logical unit for all initiators",
	1: "Task set per initiator per logical unit",
}

var queueAlgorithmNames = map[uint64]string{
	0: "Restricted reordering",
	1: "Unrestricted reordering allowed",
}

var qerrNames = map[uint64]string{
	0: "Blocked tasks resume after ACA/CA is cleared",
	1: "All blocked tasks are aborted when the error is cleared",
	3: "Blocked tasks of the faulted initiator are aborted",
}

func decodeControlPage(t *Tree) {
	t.Enum("TST", 2, 1, 0xe0, tstNames)
	t.Flag("TMF_ONLY", 2, 0x10)
	t.Flag("D_SENSE", 2, 0x04)
	t.Flag("GLTSD", 2, 0x02)
	t.Flag("RLEC", 2, 0x01)
	t.Enum("Queue Algorithm Modifier", 3, 1, 0xf0, queueAlgorithmNames)
	t.Enum("QErr", 3, 1, 0x06, qerrNames)
	t.Flag("DQue", 3, 0x01)
	t.Flag("RAC", 4, 0x40)
	t.Flag("SWP", 4, 0x08)
	t.Flag("RAERP", 4, 0x04)
	t.Flag("UAAERP", 4, 0x02)
	t.Flag("EAERP", 4, 0x01)
	t.Uint16("Ready AER Holdoff Period", 6)
	t.Uint16("Busy Timeout Period", 8)
	t.Uint16("Extended Self-Test Completion Time", 10)
}

func decodePowerConditionPage(t *Tree) {
	t.Flag("Idle", 3, 0x02)
	t.Flag("Standby", 3, 0x01)
	t.Uint32("Idle Condition Timer", 4)
	t.Uint32("Standby Condition Timer", 8)
}

var mrieNames = map[uint64]string{
	0: "No reporting of informational exception condition",
	1: "Asynchronous event reporting",
	2: "Generate unit attention",
	3: "Conditionally generate recovered error",
	4: "Unconditionally generate recovered error",
	5: "Generate no sense",
	6: "Only report informational exception condition on request",
}

func decodeInformationalExceptionsPage(t *Tree) {
	t.Flag("Perf", 2, 0x80)
	t.Flag("EBF", 2, 0x20)
	t.Flag("EWasc", 2, 0x10)
	t.Flag("DExcpt", 2, 0x08)
	t.Flag("Test", 2, 0x04)
	t.Flag("LogErr", 2, 0x01)
	t.Enum("MRIE", 3, 1, 0x0f, mrieNames)
	t.Uint32("Interval Timer", 4)
	t.Uint32("Report Count", 8)
}

func decodeDataCompressionPage(t *Tree) {
	t.Flag("DCE", 2, 0x80)
	t.Flag("DCC", 2, 0x40)
	t.Flag("DDE", 3, 0x80)
	t.Bits("RED", 3, 1, 0x60)
	t.Uint32("Compression Algorithm", 4)
	t.Uint32("Decompression Algorithm", 8)
}

func decodeDeviceConfigurationPage(t *Tree) {
	t.Flag("CAP", 2, 0x40)
	t.Flag("CAF", 2, 0x20)
	t.Bits("Active Format", 2, 1, 0x1f)
	t.Uint8("Active Partition", 3)
	t.Uint8("Write Buffer Full Ratio", 4)
	t.Uint8("Read Buffer Empty Ratio", 5)
	t.Uint16("Write Delay Time", 6)
	t.Flag("DBR", 8, 0x80)
	t.Flag("BIS", 8, 0x40)
	t.Flag("RSmk", 8, 0x20)
	t.Flag("AVC", 8, 0x10)
	t.Bits("SOCF", 8, 1, 0x0c)
	t.Flag("RBO", 8, 0x02)
	t.Flag("REW", 8, 0x01)
	t.Uint8("Gap Size", 9)
	t.Bits("EOD Defined", 10, 1, 0xe0)
	t.Flag("EEG", 10, 0x10)
	t.Flag("SEW", 10, 0x08)
	t.Flag("SWP", 10, 0x04)
	t.Uint24("Buffer Size at Early Warning", 11)
	t.Uint8("Select Data Compression Algorithm", 14)
}

var psumNames = map[uint64]string{
	0: "Bytes",
	1: "Kilobytes",
	2: "Megabytes",
	3: "Vendor specific",
}

func decodeMediumPartitionPage(t *Tree) {
	t.Uint8("Maximum Additional Partitions", 2)
	t.Uint8("Additional Partitions Defined", 3)
	t.Flag("FDP", 4, 0x80)
	t.Flag("SDP", 4, 0x40)
	t.Flag("IDP", 4, 0x20)
	t.Enum("PSUM", 4, 1, 0x18, psumNames)
	t.Uint8("Medium Format Recognition", 5)
	for off := 8; off+2 <= t.Len(); off += 2 {
		t.Uint16("Partition Size", off)
	}
}
