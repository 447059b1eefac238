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

import (
	"fmt"
	"sort"
)

// CommandDecoder decodes one command's CDB and the data it returns.
//
// DecodeCommand may record into st anything DecodeResponse will need,
// since the data phase carries no opcode of its own.
type CommandDecoder interface {
	DecodeCommand(t *Tree, st *TaskState)
	DecodeResponse(t *Tree, st *TaskState)
}

// DataOutDecoder is implemented by commands whose Data-Out has a layout.
type DataOutDecoder interface {
	DecodeDataOut(t *Tree, st *TaskState)
}

type CommandDescriptor struct {
	Set     CommandSet
	Opcode  byte
	Name    string
	Decoder CommandDecoder
}

type commandKey struct {
	set    CommandSet
	opcode byte
}

var commandTable = map[commandKey]*CommandDescriptor{}

func registerCommands(set CommandSet, cmds []*CommandDescriptor) {
	for _, c := range cmds {
		c.Set = set
		k := commandKey{set, c.Opcode}
		if _, ok := commandTable[k]; ok {
			panic(fmt.Sprintf("duplicate %v command 0x%02x", set, c.Opcode))
		}
		commandTable[k] = c
	}
}

// LookupCommand resolves opcode for a device of the given class. The SPC-2
// table is consulted first, then the table of the class.
func LookupCommand(class DeviceClass, opcode byte) *CommandDescriptor {
	if c, ok := commandTable[commandKey{CommandSetSPC2, opcode}]; ok {
		return c
	}
	if c, ok := commandTable[commandKey{commandSetOf(class), opcode}]; ok {
		return c
	}
	return nil
}

// Commands returns the commands registered for set, by opcode.
func Commands(set CommandSet) []*CommandDescriptor {
	var cmds []*CommandDescriptor
	for k, c := range commandTable {
		if k.set == set {
			cmds = append(cmds, c)
		}
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Opcode < cmds[j].Opcode })
	return cmds
}

// commandOf returns the descriptor a task was started with.
func commandOf(st *TaskState) *CommandDescriptor {
	return commandTable[commandKey{st.CommandSet, st.Opcode}]
}

// cdbOnly is a command whose data, if any, is not structured.
type cdbOnly func(t *Tree, st *TaskState)

func (f cdbOnly) DecodeCommand(t *Tree, st *TaskState) {
	f(t, st)
}

func (f cdbOnly) DecodeResponse(t *Tree, st *TaskState) {
	t.Rest("Data", 0)
}

func (f cdbOnly) DecodeDataOut(t *Tree, st *TaskState) {
	t.Rest("Data", 0)
}

func control(t *Tree, off int) {
	t.Bits("Vendor Unique", off, 1, 0xc0)
	t.Flag("NACA", off, 0x04)
	t.Flag("Link", off, 0x01)
}

// group6 decodes the common layout of a six byte CDB with only a control
// byte.
func group6(t *Tree, st *TaskState) {
	control(t, 5)
}
