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

// SCSI stream command decoding
package scsi

func init() {
	registerCommands(CommandSetSSC2, []*CommandDescriptor{
		{Opcode: REWIND, Name: "Rewind", Decoder: cdbOnly(rewind)},
		{Opcode: FORMAT_MEDIUM, Name: "Format Medium", Decoder: cdbOnly(formatMedium)},
		{Opcode: READ_BLOCK_LIMITS, Name: "Read Block Limits", Decoder: readBlockLimits{}},
		{Opcode: READ_6, Name: "Read(6)", Decoder: cdbOnly(sscReadWrite6("SILI"))},
		{Opcode: WRITE_6, Name: "Write(6)", Decoder: cdbOnly(sscReadWrite6(""))},
		{Opcode: SET_CAPACITY, Name: "Set Capacity", Decoder: cdbOnly(setCapacity)},
		{Opcode: WRITE_FILEMARKS, Name: "Write Filemarks(6)", Decoder: cdbOnly(writeFilemarks)},
		{Opcode: SPACE, Name: "Space(6)", Decoder: cdbOnly(space)},
		{Opcode: VERIFY_6, Name: "Verify(6)", Decoder: cdbOnly(verify6)},
		{Opcode: ERASE, Name: "Erase(6)", Decoder: cdbOnly(erase)},
		{Opcode: LOAD_UNLOAD, Name: "Load Unload", Decoder: cdbOnly(loadUnload)},
		{Opcode: LOCATE_10, Name: "Locate(10)", Decoder: cdbOnly(locate10)},
		{Opcode: READ_POSITION, Name: "Read Position", Decoder: readPosition{}},
		{Opcode: REPORT_DENSITY_SUPPORT, Name: "Report Density Support", Decoder: reportDensitySupport{}},
	})
}

func rewind(t *Tree, st *TaskState) {
	t.Flag("Immed", 1, 0x01)
	control(t, 5)
}

var formatNames = map[uint64]string{
	0: "Use default format",
	1: "Partition medium",
	2: "Default format then partition",
}

func formatMedium(t *Tree, st *TaskState) {
	t.Flag("Verify", 1, 0x02)
	t.Flag("Immed", 1, 0x01)
	t.Enum("Format", 2, 1, 0x0f, formatNames)
	t.Uint16("Transfer Length", 3)
	control(t, 5)
}

type readBlockLimits struct{}

func (readBlockLimits) DecodeCommand(t *Tree, st *TaskState) {
	control(t, 5)
}

func (readBlockLimits) DecodeResponse(t *Tree, st *TaskState) {
	t.Bits("Granularity", 0, 1, 0x1f)
	t.Uint24("Maximum Block Length Limit", 1)
	t.Uint16("Minimum Block Length Limit", 4)
}

// sscReadWrite6 decodes READ(6) and WRITE(6) for stream devices. Only READ
// carries the SILI bit.
func sscReadWrite6(sili string) func(t *Tree, st *TaskState) {
	return func(t *Tree, st *TaskState) {
		if sili != "" {
			t.Flag(sili, 1, 0x02)
		}
		t.Flag("FIXED", 1, 0x01)
		t.Uint24("Transfer Length", 2)
		control(t, 5)
	}
}

func setCapacity(t *Tree, st *TaskState) {
	t.Flag("Immed", 1, 0x01)
	t.Uint16("Capacity Proportion Value", 3)
	control(t, 5)
}

func writeFilemarks(t *Tree, st *TaskState) {
	t.Flag("WSmk", 1, 0x02)
	t.Flag("Immed", 1, 0x01)
	t.Uint24("Transfer Length", 2)
	control(t, 5)
}

var spaceCodeNames = map[uint64]string{
	0: "Logical blocks",
	1: "Filemarks",
	2: "Sequential filemarks",
	3: "End-of-data",
	4: "Setmarks",
	5: "Sequential setmarks",
}

func space(t *Tree, st *TaskState) {
	t.Enum("Code", 1, 1, 0x0f, spaceCodeNames)
	t.Int("Count", 2, 3)
	control(t, 5)
}

func verify6(t *Tree, st *TaskState) {
	t.Flag("Immed", 1, 0x04)
	t.Flag("BYTCMP", 1, 0x02)
	t.Flag("FIXED", 1, 0x01)
	t.Uint24("Verification Length", 2)
	control(t, 5)
}

func erase(t *Tree, st *TaskState) {
	t.Flag("Immed", 1, 0x02)
	t.Flag("Long", 1, 0x01)
	control(t, 5)
}

func loadUnload(t *Tree, st *TaskState) {
	t.Flag("Immed", 1, 0x01)
	t.Flag("Hold", 4, 0x08)
	t.Flag("EOT", 4, 0x04)
	t.Flag("Reten", 4, 0x02)
	t.Flag("Load", 4, 0x01)
	control(t, 5)
}

func locate10(t *Tree, st *TaskState) {
	t.Flag("BT", 1, 0x04)
	t.Flag("CP", 1, 0x02)
	t.Flag("Immed", 1, 0x01)
	t.Uint32("Logical Object Identifier", 3)
	t.Uint8("Partition", 8)
	control(t, 9)
}

var readPositionFormNames = map[uint64]string{
	0: "Short form, block ID",
	1: "Short form, vendor specific",
	6: "Long form",
	8: "Extended form",
}

type readPosition struct{}

const (
	readPositionLongForm     = 0x06
	readPositionExtendedForm = 0x08
)

// The service action selects the layout of the response.
func (readPosition) DecodeCommand(t *Tree, st *TaskState) {
	st.ServiceAction = byte(t.Enum("Service Action", 1, 1, 0x1f, readPositionFormNames))
	t.Uint16("Allocation Length", 7)
	control(t, 9)
}

func (readPosition) DecodeResponse(t *Tree, st *TaskState) {
	t.Flag("BOP", 0, 0x80)
	t.Flag("EOP", 0, 0x40)
	switch st.ServiceAction {
	case readPositionLongForm:
		t.Flag("MPU", 0, 0x08)
		t.Flag("LONU", 0, 0x04)
		t.Uint32("Partition Number", 4)
		t.Uint64("Logical Object Number", 8)
		t.Uint64("Logical File Identifier", 16)
		t.Uint64("Logical Set Identifier", 24)
	case readPositionExtendedForm:
		t.Flag("LOCU", 0, 0x20)
		t.Flag("BYCU", 0, 0x10)
		t.Flag("LOLU", 0, 0x04)
		t.Flag("PERR", 0, 0x02)
		t.Uint8("Partition Number", 1)
		t.Uint16("Additional Length", 2)
		t.Uint24("Logical Objects In Object Buffer", 5)
		t.Uint64("First Logical Object Location", 8)
		t.Uint64("Last Logical Object Location", 16)
		t.Uint64("Bytes In Object Buffer", 24)
	default:
		t.Flag("BCU", 0, 0x20)
		t.Flag("BYCU", 0, 0x10)
		t.Flag("BPU", 0, 0x04)
		t.Flag("PERR", 0, 0x02)
		t.Uint8("Partition Number", 1)
		t.Uint32("First Logical Object Location", 4)
		t.Uint32("Last Logical Object Location", 8)
		t.Uint24("Logical Objects In Object Buffer", 13)
		t.Uint32("Bytes In Object Buffer", 16)
	}
}

type reportDensitySupport struct{}

func (reportDensitySupport) DecodeCommand(t *Tree, st *TaskState) {
	t.Flag("MEDIUM_TYPE", 1, 0x02)
	t.Flag("Media", 1, 0x01)
	t.Uint16("Allocation Length", 7)
	control(t, 9)
}

func (reportDensitySupport) DecodeResponse(t *Tree, st *TaskState) {
	l := t.Uint16("Available Density Support Length", 0)
	if !t.Ok() {
		return
	}
	t.Clamp(2 + int(l))
	for off := 4; t.Ok() && off+52 <= t.Len(); off += 52 {
		t.Sub(off, 52, decodeDensityDescriptor)
	}
}

func decodeDensityDescriptor(t *Tree) {
	t.Uint8("Primary Density Code", 0)
	t.Uint8("Secondary Density Code", 1)
	t.Flag("WRTOK", 2, 0x80)
	t.Flag("DUP", 2, 0x40)
	t.Flag("DEFLT", 2, 0x20)
	t.Uint24("Bits Per mm", 5)
	t.Uint16("Media Width", 8)
	t.Uint16("Tracks", 10)
	t.Uint32("Capacity", 12)
	t.String("Assigning Organization", 16, 8)
	t.String("Density Name", 24, 8)
	t.String("Description", 32, 20)
}
