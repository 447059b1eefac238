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

// SCSI primary command decoding
package scsi

func init() {
	registerCommands(CommandSetSPC2, []*CommandDescriptor{
		{Opcode: TEST_UNIT_READY, Name: "Test Unit Ready", Decoder: cdbOnly(group6)},
		{Opcode: REQUEST_SENSE, Name: "Request Sense", Decoder: requestSense{}},
		{Opcode: INQUIRY, Name: "Inquiry", Decoder: inquiry{}},
		{Opcode: MODE_SELECT, Name: "Mode Select(6)", Decoder: modeSelect{}},
		{Opcode: RESERVE, Name: "Reserve(6)", Decoder: cdbOnly(reserve6)},
		{Opcode: RELEASE, Name: "Release(6)", Decoder: cdbOnly(reserve6)},
		{Opcode: MODE_SENSE, Name: "Mode Sense(6)", Decoder: modeSense{}},
		{Opcode: RECEIVE_DIAGNOSTIC, Name: "Receive Diagnostic Results", Decoder: receiveDiagnostic{}},
		{Opcode: SEND_DIAGNOSTIC, Name: "Send Diagnostic", Decoder: sendDiagnostic{}},
		{Opcode: ALLOW_MEDIUM_REMOVAL, Name: "Prevent/Allow Medium Removal", Decoder: cdbOnly(preventAllow)},
		{Opcode: WRITE_BUFFER, Name: "Write Buffer", Decoder: cdbOnly(writeBuffer)},
		{Opcode: READ_BUFFER, Name: "Read Buffer", Decoder: readBuffer{}},
		{Opcode: LOG_SELECT, Name: "Log Select", Decoder: logSelect{}},
		{Opcode: LOG_SENSE, Name: "Log Sense", Decoder: logSense{}},
		{Opcode: MODE_SELECT_10, Name: "Mode Select(10)", Decoder: modeSelect{ten: true}},
		{Opcode: RESERVE_10, Name: "Reserve(10)", Decoder: reserve10{}},
		{Opcode: RELEASE_10, Name: "Release(10)", Decoder: reserve10{}},
		{Opcode: MODE_SENSE_10, Name: "Mode Sense(10)", Decoder: modeSense{ten: true}},
		{Opcode: PERSISTENT_RESERVE_IN, Name: "Persistent Reserve In", Decoder: persistentReserveIn{}},
		{Opcode: PERSISTENT_RESERVE_OUT, Name: "Persistent Reserve Out", Decoder: persistentReserveOut{}},
		{Opcode: REPORT_LUNS, Name: "Report LUNs", Decoder: reportLuns{}},
		{Opcode: MAINT_PROTOCOL_IN, Name: "Maintenance In", Decoder: maintenanceIn{}},
	})
}

type requestSense struct{}

func (requestSense) DecodeCommand(t *Tree, st *TaskState) {
	t.Flag("DESC", 1, 0x01)
	t.Uint8("Allocation Length", 4)
	control(t, 5)
}

func (requestSense) DecodeResponse(t *Tree, st *TaskState) {
	decodeSense(t)
}

type inquiry struct{}

func (inquiry) DecodeCommand(t *Tree, st *TaskState) {
	cmddt := t.Flag("CmdDt", 1, 0x02)
	evpd := t.Flag("EVPD", 1, 0x01)
	st.set(TaskCmdDt, cmddt)
	st.set(TaskEVPD, evpd)
	switch {
	case evpd:
		st.PageCode = byte(t.Enum("Page Code", 2, 1, 0xff, vpdPageNames))
	case cmddt:
		st.PageCode = t.Uint8("Operation Code", 2)
	default:
		t.Uint8("Page Code", 2)
	}
	t.Uint8("Allocation Length", 4)
	control(t, 5)
}

func (inquiry) DecodeResponse(t *Tree, st *TaskState) {
	switch {
	case st.Has(TaskEVPD):
		decodeVPD(t, st.PageCode)
	case st.Has(TaskCmdDt):
		decodeCmdDt(t)
	default:
		decodeStandardInquiry(t)
	}
}

func decodeStandardInquiry(t *Tree) {
	t.Enum("Peripheral Qualifier", 0, 1, 0xe0, qualifierNames)
	t.Enum("Peripheral Device Type", 0, 1, 0x1f, deviceTypeNames)
	t.Flag("RMB", 1, 0x80)
	t.Enum("Version", 2, 1, 0xff, versionNames)
	t.Flag("AERC", 3, 0x80)
	t.Flag("TrmTsk", 3, 0x40)
	t.Flag("NormACA", 3, 0x20)
	t.Flag("HiSup", 3, 0x10)
	t.Bits("Response Data Format", 3, 1, 0x0f)
	addlen := t.Uint8("Additional Length", 4)
	if !t.Ok() {
		return
	}
	t.Clamp(5 + int(addlen))
	t.Flag("SCCS", 5, 0x80)
	t.Flag("ACC", 5, 0x40)
	t.Bits("TPGS", 5, 1, 0x30)
	t.Flag("3PC", 5, 0x08)
	t.Flag("Protect", 5, 0x01)
	t.Flag("BQue", 6, 0x80)
	t.Flag("EncServ", 6, 0x40)
	t.Flag("MultiP", 6, 0x10)
	t.Flag("MChngr", 6, 0x08)
	t.Flag("Addr16", 6, 0x01)
	t.Flag("RelAdr", 7, 0x80)
	t.Flag("WBus16", 7, 0x20)
	t.Flag("Sync", 7, 0x10)
	t.Flag("Linked", 7, 0x08)
	t.Flag("CmdQue", 7, 0x02)
	t.String("Vendor Id", 8, 8)
	t.String("Product Id", 16, 16)
	t.String("Product Revision Level", 32, 4)
	if t.Len() <= 36 {
		return
	}
	t.Bytes("Vendor Specific", 36, 20)
	t.Bits("Clocking", 56, 1, 0x0c)
	t.Flag("QAS", 56, 0x02)
	t.Flag("IUS", 56, 0x01)
	for off := 58; off+2 <= 74 && off+2 <= t.Len(); off += 2 {
		t.Uint16("Version Descriptor", off)
	}
}

func decodeCmdDt(t *Tree) {
	t.Enum("Peripheral Qualifier", 0, 1, 0xe0, qualifierNames)
	t.Enum("Peripheral Device Type", 0, 1, 0x1f, deviceTypeNames)
	t.Enum("Support", 1, 1, 0x07, cmdDtSupportNames)
	t.Enum("Version", 2, 1, 0xff, versionNames)
	size := t.Uint8("CDB Size", 5)
	t.Bytes("CDB Usage Data", 6, int(size))
}

var cmdDtSupportNames = map[uint64]string{
	0: "Data not currently available",
	1: "Command not supported",
	3: "Command supported in conformance with a SCSI standard",
	5: "Command supported in a vendor specific manner",
}

type modeSelect struct {
	ten bool
}

func (m modeSelect) DecodeCommand(t *Tree, st *TaskState) {
	st.set(TaskCDB10, m.ten)
	t.Flag("PF", 1, 0x10)
	t.Flag("SP", 1, 0x01)
	if m.ten {
		t.Uint16("Parameter List Length", 7)
		control(t, 9)
		return
	}
	t.Uint8("Parameter List Length", 4)
	control(t, 5)
}

func (m modeSelect) DecodeResponse(t *Tree, st *TaskState) {
	t.Rest("Data", 0)
}

func (m modeSelect) DecodeDataOut(t *Tree, st *TaskState) {
	decodeModeData(t, st, false)
}

var pageControlNames = map[uint64]string{
	0: "Current Values",
	1: "Changeable Values",
	2: "Default Values",
	3: "Saved Values",
}

type modeSense struct {
	ten bool
}

func (m modeSense) DecodeCommand(t *Tree, st *TaskState) {
	st.set(TaskCDB10, m.ten)
	if m.ten {
		st.set(TaskLLBAA, t.Flag("LLBAA", 1, 0x10))
	}
	st.set(TaskDBD, t.Flag("DBD", 1, 0x08))
	t.Enum("Page Control", 2, 1, 0xc0, pageControlNames)
	st.PageCode = byte(t.Enum("Page Code", 2, 1, 0x3f, modePageNames(st.Class)))
	t.Uint8("Subpage Code", 3)
	if m.ten {
		t.Uint16("Allocation Length", 7)
		control(t, 9)
		return
	}
	t.Uint8("Allocation Length", 4)
	control(t, 5)
}

func (m modeSense) DecodeResponse(t *Tree, st *TaskState) {
	decodeModeData(t, st, true)
}

func reserve6(t *Tree, st *TaskState) {
	t.Flag("3rdPty", 1, 0x10)
	t.Bits("Third Party Device Id", 1, 1, 0x0e)
	t.Flag("Extent", 1, 0x01)
	t.Uint8("Reservation Id", 2)
	t.Uint16("Extent List Length", 3)
	control(t, 5)
}

type reserve10 struct{}

func (reserve10) DecodeCommand(t *Tree, st *TaskState) {
	third := t.Flag("3rdPty", 1, 0x10)
	long := t.Flag("LongID", 1, 0x02)
	t.Flag("Extent", 1, 0x01)
	st.set(TaskLongID, long)
	t.Uint8("Reservation Id", 2)
	if third && !long {
		t.Uint8("Third Party Device Id", 3)
	}
	t.Uint16("Parameter List Length", 7)
	control(t, 9)
}

func (reserve10) DecodeResponse(t *Tree, st *TaskState) {
	t.Rest("Data", 0)
}

// The parameter list carries the eight byte third party device id only
// when LongID was set in the CDB.
func (reserve10) DecodeDataOut(t *Tree, st *TaskState) {
	if st.Has(TaskLongID) {
		t.Uint64("Third Party Device Id", 0)
		t.Rest("Extent Descriptors", 8)
		return
	}
	t.Rest("Extent Descriptors", 0)
}

type receiveDiagnostic struct{}

func (receiveDiagnostic) DecodeCommand(t *Tree, st *TaskState) {
	t.Flag("PCV", 1, 0x01)
	st.PageCode = t.Uint8("Page Code", 2)
	t.Uint16("Allocation Length", 3)
	control(t, 5)
}

func (receiveDiagnostic) DecodeResponse(t *Tree, st *TaskState) {
	decodeDiagnosticPage(t)
}

type sendDiagnostic struct{}

var selfTestCodeNames = map[uint64]string{
	0: "Default",
	1: "Background short self-test",
	2: "Background extended self-test",
	4: "Abort background self-test",
	5: "Foreground short self-test",
	6: "Foreground extended self-test",
}

func (sendDiagnostic) DecodeCommand(t *Tree, st *TaskState) {
	t.Enum("Self-Test Code", 1, 1, 0xe0, selfTestCodeNames)
	t.Flag("PF", 1, 0x10)
	t.Flag("SelfTest", 1, 0x04)
	t.Flag("DevOffL", 1, 0x02)
	t.Flag("UnitOffL", 1, 0x01)
	t.Uint16("Parameter List Length", 3)
	control(t, 5)
}

func (sendDiagnostic) DecodeResponse(t *Tree, st *TaskState) {
	t.Rest("Data", 0)
}

func (sendDiagnostic) DecodeDataOut(t *Tree, st *TaskState) {
	decodeDiagnosticPage(t)
}

func decodeDiagnosticPage(t *Tree) {
	t.Uint8("Page Code", 0)
	l := t.Uint16("Page Length", 2)
	if !t.Ok() {
		return
	}
	t.Clamp(4 + int(l))
	t.Rest("Parameters", 4)
}

var preventNames = map[uint64]string{
	0: "Medium removal allowed",
	1: "Medium removal prohibited",
	2: "Obsolete",
	3: "Obsolete",
}

func preventAllow(t *Tree, st *TaskState) {
	t.Enum("Prevent", 4, 1, 0x03, preventNames)
	control(t, 5)
}

var bufferModeNames = map[uint64]string{
	0x00: "Combined header and data",
	0x01: "Vendor specific",
	0x02: "Data",
	0x03: "Descriptor",
	0x04: "Download microcode",
	0x05: "Download microcode and save",
	0x0a: "Echo buffer",
	0x0b: "Echo buffer descriptor",
}

func writeBuffer(t *Tree, st *TaskState) {
	st.ServiceAction = byte(t.Enum("Mode", 1, 1, 0x1f, bufferModeNames))
	t.Uint8("Buffer Id", 2)
	t.Uint24("Buffer Offset", 3)
	t.Uint24("Parameter List Length", 6)
	control(t, 9)
}

type readBuffer struct{}

func (readBuffer) DecodeCommand(t *Tree, st *TaskState) {
	st.ServiceAction = byte(t.Enum("Mode", 1, 1, 0x1f, bufferModeNames))
	t.Uint8("Buffer Id", 2)
	t.Uint24("Buffer Offset", 3)
	t.Uint24("Allocation Length", 6)
	control(t, 9)
}

func (readBuffer) DecodeResponse(t *Tree, st *TaskState) {
	switch st.ServiceAction {
	case 0x03:
		t.Uint8("Offset Boundary", 0)
		t.Uint24("Buffer Capacity", 1)
	case 0x0b:
		t.Bits("Buffer Capacity", 2, 2, 0x1fff)
	default:
		t.Rest("Data", 0)
	}
}

var logPageControlNames = map[uint64]string{
	0: "Current Threshold Values",
	1: "Current Cumulative Values",
	2: "Default Threshold Values",
	3: "Default Cumulative Values",
}

var logPageNames = map[uint64]string{
	0x00: "Supported Log Pages",
	0x02: "Write Error Counters",
	0x03: "Read Error Counters",
	0x04: "Read Reverse Error Counters",
	0x05: "Verify Error Counters",
	0x06: "Non-Medium Error",
	0x07: "Last n Error Events",
	0x0b: "Last n Deferred Errors or Asynchronous Events",
	0x0c: "Sequential-Access Device",
	0x0d: "Temperature",
	0x0e: "Start-Stop Cycle Counter",
	0x0f: "Application Client",
	0x10: "Self-Test Results",
	0x2e: "Tape Alert",
	0x2f: "Informational Exceptions",
}

type logSelect struct{}

func (logSelect) DecodeCommand(t *Tree, st *TaskState) {
	t.Flag("PCR", 1, 0x02)
	t.Flag("SP", 1, 0x01)
	t.Enum("Page Control", 2, 1, 0xc0, logPageControlNames)
	t.Uint16("Parameter List Length", 7)
	control(t, 9)
}

func (logSelect) DecodeResponse(t *Tree, st *TaskState) {
	t.Rest("Data", 0)
}

func (logSelect) DecodeDataOut(t *Tree, st *TaskState) {
	decodeLogPage(t)
}

type logSense struct{}

func (logSense) DecodeCommand(t *Tree, st *TaskState) {
	t.Flag("PPC", 1, 0x02)
	t.Flag("SP", 1, 0x01)
	t.Enum("Page Control", 2, 1, 0xc0, logPageControlNames)
	st.PageCode = byte(t.Enum("Page Code", 2, 1, 0x3f, logPageNames))
	t.Uint16("Parameter Pointer", 5)
	t.Uint16("Allocation Length", 7)
	control(t, 9)
}

func (logSense) DecodeResponse(t *Tree, st *TaskState) {
	decodeLogPage(t)
}

func decodeLogPage(t *Tree) {
	code := t.Enum("Page Code", 0, 1, 0x3f, logPageNames)
	l := t.Uint16("Page Length", 2)
	if !t.Ok() {
		return
	}
	t.Clamp(4 + int(l))
	if code == 0x00 {
		for off := 4; off < t.Len(); off++ {
			t.Enum("Supported Page", off, 1, 0x3f, logPageNames)
		}
		return
	}
	for off := 4; t.Ok() && off+4 <= t.Len(); {
		plen := int(t.Peek(off+3, 1))
		t.Sub(off, 4+plen, decodeLogParameter)
		off += 4 + plen
	}
}

func decodeLogParameter(t *Tree) {
	t.Uint16("Parameter Code", 0)
	t.Flag("DU", 2, 0x80)
	t.Flag("DS", 2, 0x40)
	t.Flag("TSD", 2, 0x20)
	t.Flag("ETC", 2, 0x10)
	t.Bits("TMC", 2, 1, 0x0c)
	t.Flag("LBIN", 2, 0x02)
	t.Flag("LP", 2, 0x01)
	l := int(t.Uint8("Parameter Length", 3))
	switch {
	case l == 0:
	case l <= 8:
		t.Uint("Parameter Value", 4, l)
	default:
		t.Bytes("Parameter Value", 4, l)
	}
}

type persistentReserveIn struct{}

func (persistentReserveIn) DecodeCommand(t *Tree, st *TaskState) {
	st.ServiceAction = byte(t.Enum("Service Action", 1, 1, 0x1f, prInServiceActions))
	t.Uint16("Allocation Length", 7)
	control(t, 9)
}

func (persistentReserveIn) DecodeResponse(t *Tree, st *TaskState) {
	switch st.ServiceAction {
	case PR_IN_READ_KEYS:
		t.Uint32("Generation Number", 0)
		addlen := t.Uint32("Additional Length", 4)
		if !t.Ok() {
			return
		}
		t.Clamp(8 + int(addlen))
		n := (t.Len() - 8) / 8
		for i := 0; i < n; i++ {
			t.Uint64("Reservation Key", 8+8*i)
		}
	case PR_IN_READ_RESERVATION:
		t.Uint32("Generation Number", 0)
		addlen := t.Uint32("Additional Length", 4)
		if !t.Ok() || addlen == 0 {
			return
		}
		t.Clamp(8 + int(addlen))
		t.Uint64("Reservation Key", 8)
		t.Uint32("Scope-Specific Address", 16)
		t.Enum("Scope", 21, 1, 0xf0, prScopeNames)
		t.Enum("Type", 21, 1, 0x0f, prTypeNames)
		t.Uint16("Extent Length", 22)
	case PR_IN_REPORT_CAPABILITIES:
		l := t.Uint16("Length", 0)
		if !t.Ok() {
			return
		}
		t.Clamp(int(l))
		t.Flag("CRH", 2, 0x10)
		t.Flag("SIP_C", 2, 0x08)
		t.Flag("ATP_C", 2, 0x04)
		t.Flag("PTPL_C", 2, 0x01)
		t.Flag("TMV", 3, 0x80)
		t.Flag("PTPL_A", 3, 0x01)
		t.Uint16("Persistent Reservation Type Mask", 4)
	case PR_IN_READ_FULL_STATUS:
		t.Uint32("Generation Number", 0)
		addlen := t.Uint32("Additional Length", 4)
		if !t.Ok() {
			return
		}
		t.Clamp(8 + int(addlen))
		for off := 8; t.Ok() && off+24 <= t.Len(); {
			dlen := int(t.Peek(off+20, 4))
			if dlen > t.Len() {
				dlen = t.Len()
			}
			t.Sub(off, 24+dlen, decodeFullStatusDescriptor)
			off += 24 + dlen
		}
	default:
		t.Rest("Data", 0)
	}
}

func decodeFullStatusDescriptor(t *Tree) {
	t.Uint64("Reservation Key", 0)
	t.Flag("ALL_TG_PT", 12, 0x02)
	t.Flag("R_HOLDER", 12, 0x01)
	t.Enum("Scope", 13, 1, 0xf0, prScopeNames)
	t.Enum("Type", 13, 1, 0x0f, prTypeNames)
	t.Uint16("Relative Target Port Identifier", 18)
	l := t.Uint32("Additional Descriptor Length", 20)
	t.Bytes("Transport Id", 24, int(l))
}

type persistentReserveOut struct{}

func (persistentReserveOut) DecodeCommand(t *Tree, st *TaskState) {
	st.ServiceAction = byte(t.Enum("Service Action", 1, 1, 0x1f, prOutServiceActions))
	t.Enum("Scope", 2, 1, 0xf0, prScopeNames)
	t.Enum("Type", 2, 1, 0x0f, prTypeNames)
	t.Uint32("Parameter List Length", 5)
	control(t, 9)
}

func (persistentReserveOut) DecodeResponse(t *Tree, st *TaskState) {
	t.Rest("Data", 0)
}

func (persistentReserveOut) DecodeDataOut(t *Tree, st *TaskState) {
	t.Uint64("Reservation Key", 0)
	t.Uint64("Service Action Reservation Key", 8)
	if st.ServiceAction == PR_OUT_REGISTER_AND_MOVE {
		t.Flag("UNREG", 17, 0x02)
		t.Flag("APTPL", 17, 0x01)
		t.Uint16("Relative Target Port Identifier", 18)
		l := t.Uint32("Transport Id Length", 20)
		t.Bytes("Transport Id", 24, int(l))
		return
	}
	t.Uint32("Scope-Specific Address", 16)
	t.Flag("SPEC_I_PT", 20, 0x08)
	t.Flag("ALL_TG_PT", 20, 0x04)
	t.Flag("APTPL", 20, 0x01)
	t.Uint16("Extent Length", 22)
}

var selectReportNames = map[uint64]string{
	0x00: "Logical units with addressing",
	0x01: "Well known logical units",
	0x02: "All logical units",
}

type reportLuns struct{}

func (reportLuns) DecodeCommand(t *Tree, st *TaskState) {
	t.Enum("Select Report", 2, 1, 0xff, selectReportNames)
	t.Uint32("Allocation Length", 6)
	control(t, 11)
}

var lunAddressMethods = map[uint64]string{
	0: "Peripheral device addressing",
	1: "Flat space addressing",
	2: "Logical unit addressing",
	3: "Extended logical unit addressing",
}

func (reportLuns) DecodeResponse(t *Tree, st *TaskState) {
	l := t.Uint32("LUN List Length", 0)
	if !t.Ok() {
		return
	}
	t.Clamp(8 + int(l))
	for off := 8; off+8 <= t.Len(); off += 8 {
		t.Enum("Address Method", off, 1, 0xc0, lunAddressMethods)
		t.Bits("LUN", off, 2, 0x3fff)
	}
}

var maintInServiceActions = map[uint64]string{
	0x05: "Report Device Identifier",
	0x0a: "Report Target Port Groups",
	0x0b: "Report Aliases",
	0x0c: "Report Supported Operation Codes",
	0x0d: "Report Supported Task Management Functions",
	0x0e: "Report Priority",
	0x0f: "Report Timestamp",
}

var aluaStateNames = map[uint64]string{
	0x0: "Active/Optimized",
	0x1: "Active/Non-optimized",
	0x2: "Standby",
	0x3: "Unavailable",
	0xe: "Offline",
	0xf: "Transitioning",
}

type maintenanceIn struct{}

func (maintenanceIn) DecodeCommand(t *Tree, st *TaskState) {
	st.ServiceAction = byte(t.Enum("Service Action", 1, 1, 0x1f, maintInServiceActions))
	t.Uint32("Allocation Length", 6)
	control(t, 11)
}

func (maintenanceIn) DecodeResponse(t *Tree, st *TaskState) {
	if st.ServiceAction != 0x0a {
		t.Rest("Data", 0)
		return
	}
	l := t.Uint32("Return Data Length", 0)
	if !t.Ok() {
		return
	}
	t.Clamp(4 + int(l))
	for off := 4; t.Ok() && off+8 <= t.Len(); {
		n := int(t.Peek(off+7, 1))
		t.Sub(off, 8+4*n, decodeTargetPortGroup)
		off += 8 + 4*n
	}
}

func decodeTargetPortGroup(t *Tree) {
	t.Flag("PREF", 0, 0x80)
	t.Enum("Asymmetric Access State", 0, 1, 0x0f, aluaStateNames)
	t.Uint8("Supported States", 1)
	t.Uint16("Target Port Group", 2)
	t.Uint8("Status Code", 5)
	n := int(t.Uint8("Target Port Count", 7))
	for i := 0; i < n; i++ {
		t.Uint16("Relative Target Port Identifier", 8+4*i+2)
	}
}
