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

// SCSI block command decoding
package scsi

func init() {
	registerCommands(CommandSetSBC2, []*CommandDescriptor{
		{Opcode: REZERO_UNIT, Name: "Rezero Unit", Decoder: cdbOnly(group6)},
		{Opcode: FORMAT_UNIT, Name: "Format Unit", Decoder: formatUnit{}},
		{Opcode: REASSIGN_BLOCKS, Name: "Reassign Blocks", Decoder: reassignBlocks{}},
		{Opcode: READ_6, Name: "Read(6)", Decoder: cdbOnly(sbcReadWrite6)},
		{Opcode: WRITE_6, Name: "Write(6)", Decoder: cdbOnly(sbcReadWrite6)},
		{Opcode: START_STOP, Name: "Start Stop Unit", Decoder: cdbOnly(startStop)},
		{Opcode: READ_CAPACITY, Name: "Read Capacity(10)", Decoder: readCapacity{}},
		{Opcode: READ_10, Name: "Read(10)", Decoder: cdbOnly(readWrite10("RDPROTECT"))},
		{Opcode: WRITE_10, Name: "Write(10)", Decoder: cdbOnly(readWrite10("WRPROTECT"))},
		{Opcode: SEEK_10, Name: "Seek(10)", Decoder: cdbOnly(seek10)},
		{Opcode: WRITE_VERIFY, Name: "Write And Verify(10)", Decoder: cdbOnly(verify10("WRPROTECT"))},
		{Opcode: VERIFY_10, Name: "Verify(10)", Decoder: cdbOnly(verify10("VRPROTECT"))},
		{Opcode: PRE_FETCH_10, Name: "Pre-Fetch(10)", Decoder: cdbOnly(preFetch10)},
		{Opcode: SYNCHRONIZE_CACHE, Name: "Synchronize Cache(10)", Decoder: cdbOnly(syncCache10)},
		{Opcode: READ_DEFECT_DATA, Name: "Read Defect Data(10)", Decoder: readDefectData{}},
		{Opcode: READ_LONG, Name: "Read Long(10)", Decoder: cdbOnly(readWriteLong)},
		{Opcode: WRITE_LONG, Name: "Write Long(10)", Decoder: cdbOnly(readWriteLong)},
		{Opcode: WRITE_SAME, Name: "Write Same(10)", Decoder: cdbOnly(writeSame10)},
		{Opcode: UNMAP, Name: "Unmap", Decoder: unmap{}},
		{Opcode: READ_16, Name: "Read(16)", Decoder: cdbOnly(readWrite16("RDPROTECT"))},
		{Opcode: COMPARE_AND_WRITE, Name: "Compare And Write", Decoder: cdbOnly(compareAndWrite)},
		{Opcode: WRITE_16, Name: "Write(16)", Decoder: cdbOnly(readWrite16("WRPROTECT"))},
		{Opcode: WRITE_VERIFY_16, Name: "Write And Verify(16)", Decoder: cdbOnly(verify16("WRPROTECT"))},
		{Opcode: VERIFY_16, Name: "Verify(16)", Decoder: cdbOnly(verify16("VRPROTECT"))},
		{Opcode: PRE_FETCH_16, Name: "Pre-Fetch(16)", Decoder: cdbOnly(preFetch16)},
		{Opcode: SYNCHRONIZE_CACHE_16, Name: "Synchronize Cache(16)", Decoder: cdbOnly(syncCache16)},
		{Opcode: WRITE_SAME_16, Name: "Write Same(16)", Decoder: cdbOnly(writeSame16)},
		{Opcode: SERVICE_ACTION_IN, Name: "Service Action In(16)", Decoder: serviceActionIn{}},
		{Opcode: READ_12, Name: "Read(12)", Decoder: cdbOnly(readWrite12("RDPROTECT"))},
		{Opcode: WRITE_12, Name: "Write(12)", Decoder: cdbOnly(readWrite12("WRPROTECT"))},
		{Opcode: WRITE_VERIFY_12, Name: "Write And Verify(12)", Decoder: cdbOnly(verify12("WRPROTECT"))},
		{Opcode: VERIFY_12, Name: "Verify(12)", Decoder: cdbOnly(verify12("VRPROTECT"))},
	})
}

var defectListFormatNames = map[uint64]string{
	0: "Short block format",
	3: "Long block format",
	4: "Bytes from index format",
	5: "Physical sector format",
	6: "Vendor specific",
}

func defectDescriptorSize(format uint64) int {
	switch format {
	case 0:
		return 4
	case 3, 4, 5:
		return 8
	}
	return 0
}

type formatUnit struct{}

func (formatUnit) DecodeCommand(t *Tree, st *TaskState) {
	t.Bits("FMTPINFO", 1, 1, 0xc0)
	st.set(TaskLongList, t.Flag("LONGLIST", 1, 0x20))
	st.set(TaskFmtData, t.Flag("FMTDATA", 1, 0x10))
	t.Flag("CMPLIST", 1, 0x08)
	st.PageCode = byte(t.Enum("Defect List Format", 1, 1, 0x07, defectListFormatNames))
	t.Uint8("Vendor Specific", 2)
	t.Uint16("Interleave", 3)
	control(t, 5)
}

func (formatUnit) DecodeResponse(t *Tree, st *TaskState) {
	t.Rest("Data", 0)
}

// The parameter list header is four bytes, or eight when LONGLIST was set
// in the CDB.
func (formatUnit) DecodeDataOut(t *Tree, st *TaskState) {
	t.Flag("FOV", 1, 0x80)
	t.Flag("DPRY", 1, 0x40)
	t.Flag("DCRT", 1, 0x20)
	t.Flag("STPF", 1, 0x10)
	ip := t.Flag("IP", 1, 0x08)
	t.Flag("DSP", 1, 0x04)
	t.Flag("Immed", 1, 0x02)
	t.Flag("VS", 1, 0x01)
	var listLen uint64
	off := 4
	if st.Has(TaskLongList) {
		t.Bits("P_I_Information", 3, 1, 0xf0)
		t.Bits("Protection Interval Exponent", 3, 1, 0x0f)
		listLen = t.Uint("Defect List Length", 4, 4)
		off = 8
	} else {
		listLen = t.Uint("Defect List Length", 2, 2)
	}
	if !t.Ok() {
		return
	}
	if ip {
		t.Bits("IP Modifier", off, 1, 0xc0)
		t.Flag("SI", off, 0x20)
		t.Uint8("Initialization Pattern Type", off+1)
		plen := int(t.Uint16("Initialization Pattern Length", off+2))
		t.Bytes("Initialization Pattern", off+4, plen)
		off += 4 + plen
	}
	size := defectDescriptorSize(uint64(st.PageCode))
	if size == 0 || listLen == 0 {
		return
	}
	end := off + int(listLen)
	if end > t.Len() {
		end = t.Len()
	}
	for ; off+size <= end; off += size {
		t.Uint("Defect Descriptor", off, size)
	}
}

type reassignBlocks struct{}

func (reassignBlocks) DecodeCommand(t *Tree, st *TaskState) {
	st.set(TaskLongLBA, t.Flag("LONGLBA", 1, 0x02))
	st.set(TaskLongList, t.Flag("LONGLIST", 1, 0x01))
	control(t, 5)
}

func (reassignBlocks) DecodeResponse(t *Tree, st *TaskState) {
	t.Rest("Data", 0)
}

func (reassignBlocks) DecodeDataOut(t *Tree, st *TaskState) {
	var l uint64
	if st.Has(TaskLongList) {
		l = t.Uint("Defect List Length", 0, 4)
	} else {
		l = t.Uint("Defect List Length", 2, 2)
	}
	if !t.Ok() {
		return
	}
	t.Clamp(4 + int(l))
	size := 4
	if st.Has(TaskLongLBA) {
		size = 8
	}
	for off := 4; off+size <= t.Len(); off += size {
		t.Uint("Defective LBA", off, size)
	}
}

func sbcReadWrite6(t *Tree, st *TaskState) {
	t.Bits("Logical Block Address", 1, 3, 0x0FFFFF)
	t.Uint8("Transfer Length", 4)
	control(t, 5)
}

func readWrite10(protect string) func(t *Tree, st *TaskState) {
	return func(t *Tree, st *TaskState) {
		t.Bits(protect, 1, 1, 0xe0)
		t.Flag("DPO", 1, 0x10)
		t.Flag("FUA", 1, 0x08)
		t.Flag("FUA_NV", 1, 0x02)
		t.Uint32("Logical Block Address", 2)
		t.Bits("Group Number", 6, 1, 0x1f)
		t.Uint16("Transfer Length", 7)
		control(t, 9)
	}
}

func readWrite12(protect string) func(t *Tree, st *TaskState) {
	return func(t *Tree, st *TaskState) {
		t.Bits(protect, 1, 1, 0xe0)
		t.Flag("DPO", 1, 0x10)
		t.Flag("FUA", 1, 0x08)
		t.Flag("FUA_NV", 1, 0x02)
		t.Uint32("Logical Block Address", 2)
		t.Uint32("Transfer Length", 6)
		t.Bits("Group Number", 10, 1, 0x1f)
		control(t, 11)
	}
}

func readWrite16(protect string) func(t *Tree, st *TaskState) {
	return func(t *Tree, st *TaskState) {
		t.Bits(protect, 1, 1, 0xe0)
		t.Flag("DPO", 1, 0x10)
		t.Flag("FUA", 1, 0x08)
		t.Flag("FUA_NV", 1, 0x02)
		t.Uint64("Logical Block Address", 2)
		t.Uint32("Transfer Length", 10)
		t.Bits("Group Number", 14, 1, 0x1f)
		control(t, 15)
	}
}

func verify10(protect string) func(t *Tree, st *TaskState) {
	return func(t *Tree, st *TaskState) {
		t.Bits(protect, 1, 1, 0xe0)
		t.Flag("DPO", 1, 0x10)
		t.Flag("BYTCHK", 1, 0x02)
		t.Uint32("Logical Block Address", 2)
		t.Bits("Group Number", 6, 1, 0x1f)
		t.Uint16("Verification Length", 7)
		control(t, 9)
	}
}

func verify12(protect string) func(t *Tree, st *TaskState) {
	return func(t *Tree, st *TaskState) {
		t.Bits(protect, 1, 1, 0xe0)
		t.Flag("DPO", 1, 0x10)
		t.Flag("BYTCHK", 1, 0x02)
		t.Uint32("Logical Block Address", 2)
		t.Uint32("Verification Length", 6)
		t.Bits("Group Number", 10, 1, 0x1f)
		control(t, 11)
	}
}

func verify16(protect string) func(t *Tree, st *TaskState) {
	return func(t *Tree, st *TaskState) {
		t.Bits(protect, 1, 1, 0xe0)
		t.Flag("DPO", 1, 0x10)
		t.Flag("BYTCHK", 1, 0x02)
		t.Uint64("Logical Block Address", 2)
		t.Uint32("Verification Length", 10)
		t.Bits("Group Number", 14, 1, 0x1f)
		control(t, 15)
	}
}

var powerConditionNames = map[uint64]string{
	0x0: "Start Valid",
	0x1: "Active",
	0x2: "Idle",
	0x3: "Standby",
	0x7: "LU Control",
	0xa: "Force Idle 0",
	0xb: "Force Standby 0",
}

func startStop(t *Tree, st *TaskState) {
	t.Flag("Immed", 1, 0x01)
	t.Enum("Power Condition", 4, 1, 0xf0, powerConditionNames)
	t.Flag("LoEj", 4, 0x02)
	t.Flag("Start", 4, 0x01)
	control(t, 5)
}

func seek10(t *Tree, st *TaskState) {
	t.Uint32("Logical Block Address", 2)
	control(t, 9)
}

func preFetch10(t *Tree, st *TaskState) {
	t.Flag("Immed", 1, 0x02)
	t.Uint32("Logical Block Address", 2)
	t.Bits("Group Number", 6, 1, 0x1f)
	t.Uint16("Prefetch Length", 7)
	control(t, 9)
}

func preFetch16(t *Tree, st *TaskState) {
	t.Flag("Immed", 1, 0x02)
	t.Uint64("Logical Block Address", 2)
	t.Uint32("Prefetch Length", 10)
	t.Bits("Group Number", 14, 1, 0x1f)
	control(t, 15)
}

func syncCache10(t *Tree, st *TaskState) {
	t.Flag("SYNC_NV", 1, 0x04)
	t.Flag("Immed", 1, 0x02)
	t.Uint32("Logical Block Address", 2)
	t.Bits("Group Number", 6, 1, 0x1f)
	t.Uint16("Number of Blocks", 7)
	control(t, 9)
}

func syncCache16(t *Tree, st *TaskState) {
	t.Flag("SYNC_NV", 1, 0x04)
	t.Flag("Immed", 1, 0x02)
	t.Uint64("Logical Block Address", 2)
	t.Uint32("Number of Blocks", 10)
	t.Bits("Group Number", 14, 1, 0x1f)
	control(t, 15)
}

func readWriteLong(t *Tree, st *TaskState) {
	t.Flag("CORRCT", 1, 0x02)
	t.Uint32("Logical Block Address", 2)
	t.Uint16("Byte Transfer Length", 7)
	control(t, 9)
}

func writeSame10(t *Tree, st *TaskState) {
	t.Bits("WRPROTECT", 1, 1, 0xe0)
	t.Flag("ANCHOR", 1, 0x10)
	t.Flag("UNMAP", 1, 0x08)
	t.Flag("PBDATA", 1, 0x04)
	t.Flag("LBDATA", 1, 0x02)
	t.Uint32("Logical Block Address", 2)
	t.Bits("Group Number", 6, 1, 0x1f)
	t.Uint16("Number of Blocks", 7)
	control(t, 9)
}

func writeSame16(t *Tree, st *TaskState) {
	t.Bits("WRPROTECT", 1, 1, 0xe0)
	t.Flag("ANCHOR", 1, 0x10)
	t.Flag("UNMAP", 1, 0x08)
	t.Flag("NDOB", 1, 0x01)
	t.Uint64("Logical Block Address", 2)
	t.Uint32("Number of Blocks", 10)
	t.Bits("Group Number", 14, 1, 0x1f)
	control(t, 15)
}

func compareAndWrite(t *Tree, st *TaskState) {
	t.Bits("WRPROTECT", 1, 1, 0xe0)
	t.Flag("DPO", 1, 0x10)
	t.Flag("FUA", 1, 0x08)
	t.Uint64("Logical Block Address", 2)
	t.Uint8("Number of Blocks", 13)
	t.Bits("Group Number", 14, 1, 0x1f)
	control(t, 15)
}

type readCapacity struct{}

func (readCapacity) DecodeCommand(t *Tree, st *TaskState) {
	t.Uint32("Logical Block Address", 2)
	st.set(TaskPMI, t.Flag("PMI", 8, 0x01))
	control(t, 9)
}

func (readCapacity) DecodeResponse(t *Tree, st *TaskState) {
	t.Uint32("Returned Logical Block Address", 0)
	t.Uint32("Block Length In Bytes", 4)
}

var serviceActionInNames = map[uint64]string{
	uint64(SAI_READ_CAPACITY_16): "Read Capacity(16)",
	uint64(SAI_GET_LBA_STATUS):   "Get LBA Status",
}

type serviceActionIn struct{}

func (serviceActionIn) DecodeCommand(t *Tree, st *TaskState) {
	st.ServiceAction = byte(t.Enum("Service Action", 1, 1, 0x1f, serviceActionInNames))
	switch st.ServiceAction {
	case SAI_READ_CAPACITY_16:
		t.Uint64("Logical Block Address", 2)
		t.Uint32("Allocation Length", 10)
		st.set(TaskPMI, t.Flag("PMI", 14, 0x01))
	case SAI_GET_LBA_STATUS:
		t.Uint64("Starting Logical Block Address", 2)
		t.Uint32("Allocation Length", 10)
	default:
		t.Bytes("Service Action Parameters", 2, 13)
	}
	control(t, 15)
}

var provisioningStatusNames = map[uint64]string{
	0: "Mapped",
	1: "Deallocated",
	2: "Anchored",
}

func (serviceActionIn) DecodeResponse(t *Tree, st *TaskState) {
	switch st.ServiceAction {
	case SAI_READ_CAPACITY_16:
		t.Uint64("Returned Logical Block Address", 0)
		t.Uint32("Block Length In Bytes", 8)
		t.Bits("P_TYPE", 12, 1, 0x0e)
		t.Flag("PROT_EN", 12, 0x01)
		t.Bits("P_I_EXPONENT", 13, 1, 0xf0)
		t.Bits("Logical Blocks Per Physical Block Exponent", 13, 1, 0x0f)
		t.Flag("TPE", 14, 0x80)
		t.Flag("TPRZ", 14, 0x40)
		t.Bits("Lowest Aligned Logical Block Address", 14, 2, 0x3fff)
	case SAI_GET_LBA_STATUS:
		l := t.Uint32("Parameter Data Length", 0)
		if !t.Ok() {
			return
		}
		t.Clamp(4 + int(l))
		for off := 8; off+16 <= t.Len(); off += 16 {
			t.Uint64("Starting Logical Block Address", off)
			t.Uint32("Number of Blocks", off+8)
			t.Enum("Provisioning Status", off+12, 1, 0x0f, provisioningStatusNames)
		}
	default:
		t.Rest("Data", 0)
	}
}

type readDefectData struct{}

func (readDefectData) DecodeCommand(t *Tree, st *TaskState) {
	t.Flag("REQ_PLIST", 2, 0x10)
	t.Flag("REQ_GLIST", 2, 0x08)
	t.Enum("Defect List Format", 2, 1, 0x07, defectListFormatNames)
	t.Uint16("Allocation Length", 7)
	control(t, 9)
}

func (readDefectData) DecodeResponse(t *Tree, st *TaskState) {
	t.Flag("PLISTV", 1, 0x10)
	t.Flag("GLISTV", 1, 0x08)
	format := t.Enum("Defect List Format", 1, 1, 0x07, defectListFormatNames)
	l := t.Uint16("Defect List Length", 2)
	if !t.Ok() {
		return
	}
	t.Clamp(4 + int(l))
	size := defectDescriptorSize(format)
	if size == 0 {
		t.Rest("Defect List", 4)
		return
	}
	for off := 4; off+size <= t.Len(); off += size {
		t.Uint("Defect Descriptor", off, size)
	}
}

type unmap struct{}

func (unmap) DecodeCommand(t *Tree, st *TaskState) {
	t.Flag("ANCHOR", 1, 0x01)
	t.Bits("Group Number", 6, 1, 0x1f)
	t.Uint16("Parameter List Length", 7)
	control(t, 9)
}

func (unmap) DecodeResponse(t *Tree, st *TaskState) {
	t.Rest("Data", 0)
}

func (unmap) DecodeDataOut(t *Tree, st *TaskState) {
	l := t.Uint16("Unmap Data Length", 0)
	bd := t.Uint16("Unmap Block Descriptor Data Length", 2)
	if !t.Ok() {
		return
	}
	t.Clamp(2 + int(l))
	end := 8 + int(bd)
	if end > t.Len() {
		end = t.Len()
	}
	for off := 8; off+16 <= end; off += 16 {
		t.Uint64("Logical Block Address", off)
		t.Uint32("Number of Blocks", off+8)
	}
}
