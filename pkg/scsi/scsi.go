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

// Package scsi decodes SCSI command descriptor blocks, their data phases,
// status and sense data, and correlates them into tasks.
package scsi

import (
	"fmt"
	"strings"
)

type SCSIDeviceType byte

const (
	TYPE_DISK      SCSIDeviceType = 0x00
	TYPE_TAPE      SCSIDeviceType = 0x01
	TYPE_PRINTER   SCSIDeviceType = 0x02
	TYPE_PROCESSOR SCSIDeviceType = 0x03
	TYPE_WORM      SCSIDeviceType = 0x04
	TYPE_MMC       SCSIDeviceType = 0x05
	TYPE_SCANNER   SCSIDeviceType = 0x06
	TYPE_MOD       SCSIDeviceType = 0x07

	TYPE_MEDIUM_CHANGER SCSIDeviceType = 0x08
	TYPE_COMM           SCSIDeviceType = 0x09
	TYPE_RAID           SCSIDeviceType = 0x0c
	TYPE_ENCLOSURE      SCSIDeviceType = 0x0d
	TYPE_RBC            SCSIDeviceType = 0x0e
	TYPE_OCRW           SCSIDeviceType = 0x0f
	TYPE_BRIDGE         SCSIDeviceType = 0x10
	TYPE_OSD            SCSIDeviceType = 0x11
	TYPE_UNKNOWN        SCSIDeviceType = 0x1f
)

var deviceTypeNames = map[uint64]string{
	uint64(TYPE_DISK):           "Direct Access Device",
	uint64(TYPE_TAPE):           "Sequential Access Device",
	uint64(TYPE_PRINTER):        "Printer",
	uint64(TYPE_PROCESSOR):      "Processor",
	uint64(TYPE_WORM):           "WORM",
	uint64(TYPE_MMC):            "CD-ROM",
	uint64(TYPE_SCANNER):        "Scanner",
	uint64(TYPE_MOD):            "Optical Memory",
	uint64(TYPE_MEDIUM_CHANGER): "Medium Changer",
	uint64(TYPE_COMM):           "Communications",
	uint64(TYPE_RAID):           "Storage Array Controller",
	uint64(TYPE_ENCLOSURE):      "Enclosure Services",
	uint64(TYPE_RBC):            "Simplified Block Device",
	uint64(TYPE_OCRW):           "Optical Card Reader/Writer",
	uint64(TYPE_BRIDGE):         "Bridging Expander",
	uint64(TYPE_OSD):            "Object-based Storage Device",
	uint64(TYPE_UNKNOWN):        "Unknown Device Type",
}

func (t SCSIDeviceType) String() string {
	if s, ok := deviceTypeNames[uint64(t)]; ok {
		return s
	}
	return fmt.Sprintf("Device Type 0x%02x", byte(t))
}

const (
	SAM_STAT_GOOD                       byte = 0x00
	SAM_STAT_CHECK_CONDITION            byte = 0x02
	SAM_STAT_CONDITION_MET              byte = 0x04
	SAM_STAT_BUSY                       byte = 0x08
	SAM_STAT_INTERMEDIATE               byte = 0x10
	SAM_STAT_INTERMEDIATE_CONDITION_MET byte = 0x14
	SAM_STAT_RESERVATION_CONFLICT       byte = 0x18
	SAM_STAT_COMMAND_TERMINATED         byte = 0x22
	SAM_STAT_TASK_SET_FULL              byte = 0x28
	SAM_STAT_ACA_ACTIVE                 byte = 0x30
	SAM_STAT_TASK_ABORTED               byte = 0x40
)

var statusNames = map[uint64]string{
	uint64(SAM_STAT_GOOD):                       "Good",
	uint64(SAM_STAT_CHECK_CONDITION):            "Check Condition",
	uint64(SAM_STAT_CONDITION_MET):              "Condition Met",
	uint64(SAM_STAT_BUSY):                       "Busy",
	uint64(SAM_STAT_INTERMEDIATE):               "Intermediate",
	uint64(SAM_STAT_INTERMEDIATE_CONDITION_MET): "Intermediate Condition Met",
	uint64(SAM_STAT_RESERVATION_CONFLICT):       "Reservation Conflict",
	uint64(SAM_STAT_COMMAND_TERMINATED):         "Command Terminated",
	uint64(SAM_STAT_TASK_SET_FULL):              "Task Set Full",
	uint64(SAM_STAT_ACA_ACTIVE):                 "ACA Active",
	uint64(SAM_STAT_TASK_ABORTED):               "Task Aborted",
}

// StatusName returns the name of a SCSI status byte.
func StatusName(status byte) string {
	return statusNames[uint64(status)]
}

// DeviceClass is the command set family used to interpret opcodes that are
// not common to all devices.
type DeviceClass int

const (
	DeviceClassUnknown DeviceClass = iota
	DeviceClassBlock
	DeviceClassSequential
)

func (c DeviceClass) String() string {
	switch c {
	case DeviceClassBlock:
		return "block"
	case DeviceClassSequential:
		return "sequential"
	}
	return "unknown"
}

// ParseDeviceClass accepts the names printed by DeviceClass.String, plus
// the command set names sbc and ssc.
func ParseDeviceClass(s string) (DeviceClass, error) {
	switch strings.ToLower(s) {
	case "block", "sbc", "disk":
		return DeviceClassBlock, nil
	case "sequential", "ssc", "tape":
		return DeviceClassSequential, nil
	case "unknown", "":
		return DeviceClassUnknown, nil
	}
	return DeviceClassUnknown, fmt.Errorf("unknown device class %q", s)
}

// ParseDefaultDeviceClass parses the class assumed for devices no Inquiry
// was seen for, which is either block or sequential.
func ParseDefaultDeviceClass(s string) (DeviceClass, error) {
	c, err := ParseDeviceClass(s)
	if err == nil && c == DeviceClassUnknown {
		err = fmt.Errorf("unknown device class %q: want block or sequential", s)
	}
	return c, err
}

// ClassOfDeviceType maps a peripheral device type to its command set family.
func ClassOfDeviceType(t SCSIDeviceType) DeviceClass {
	switch t {
	case TYPE_DISK, TYPE_WORM, TYPE_MOD, TYPE_RBC:
		return DeviceClassBlock
	case TYPE_TAPE:
		return DeviceClassSequential
	}
	return DeviceClassUnknown
}

// CommandSet identifies the table an opcode was resolved in.
type CommandSet int

const (
	CommandSetUnknown CommandSet = iota
	CommandSetSPC2
	CommandSetSBC2
	CommandSetSSC2
)

func (c CommandSet) String() string {
	switch c {
	case CommandSetSPC2:
		return "SPC-2"
	case CommandSetSBC2:
		return "SBC-2"
	case CommandSetSSC2:
		return "SSC-2"
	}
	return "Unknown"
}

func commandSetOf(c DeviceClass) CommandSet {
	switch c {
	case DeviceClassBlock:
		return CommandSetSBC2
	case DeviceClassSequential:
		return CommandSetSSC2
	}
	return CommandSetUnknown
}

var versionNames = map[uint64]string{
	0x00: "No Compliance to any Standard",
	0x01: "Compliance to ANSI X3.131:1986",
	0x02: "Compliance to ANSI X3.131:1994",
	0x03: "Compliance to ANSI X3.301:1997",
	0x04: "Compliance to SPC-2",
	0x05: "Compliance to SPC-3",
	0x06: "Compliance to SPC-4",
	0x80: "Compliance to ISO/IEC 9316:1995",
	0x82: "Compliance to ISO/IEC 9316:1995 and to ANSI X3.131:1994",
	0x83: "Compliance to ISO/IEC 9316:1995 and to ANSI X3.301:1997",
	0x84: "Compliance to ISO/IEC 9316:1995 and SPC-2",
}

var qualifierNames = map[uint64]string{
	0: "Device type is connected to logical unit",
	1: "Device type is supported by server but is not connected to logical unit",
	3: "Device type is not supported by server",
}
