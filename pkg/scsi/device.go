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

import "fmt"

// DeviceAddr names a logical unit as seen by the transport, for example
// "10.0.0.2:3260/lun0".
type DeviceAddr string

// FormatDeviceAddr joins a target port address and a LUN.
func FormatDeviceAddr(target string, lun uint64) DeviceAddr {
	return DeviceAddr(fmt.Sprintf("%s/lun%d", target, lun))
}

// ParseLUN returns the LUN of a single level LUN structure, as used by
// peripheral and flat space addressing.
func ParseLUN(b []byte) uint64 {
	if len(b) < 2 {
		return 0
	}
	return uint64(b[0]&0x3f)<<8 | uint64(b[1])
}

type deviceEntry struct {
	deviceType SCSIDeviceType
	class      DeviceClass
}

// DeviceTypeRegistry caches the device type reported by Inquiry for each
// device address. Like the Session holding it, it is not safe for
// concurrent use.
type DeviceTypeRegistry struct {
	devices  map[DeviceAddr]deviceEntry
	defClass DeviceClass
}

func NewDeviceTypeRegistry(defClass DeviceClass) *DeviceTypeRegistry {
	return &DeviceTypeRegistry{
		devices:  make(map[DeviceAddr]deviceEntry),
		defClass: defClass,
	}
}

// RecordInquiryResult stores the class of the peripheral device type in the
// low five bits of b. A later call for the same address replaces it.
func (r *DeviceTypeRegistry) RecordInquiryResult(addr DeviceAddr, b byte) DeviceClass {
	t := SCSIDeviceType(b & 0x1f)
	c := ClassOfDeviceType(t)
	r.devices[addr] = deviceEntry{deviceType: t, class: c}
	return c
}

// Lookup returns the class recorded for addr, or the default class.
func (r *DeviceTypeRegistry) Lookup(addr DeviceAddr) DeviceClass {
	if e, ok := r.devices[addr]; ok {
		return e.class
	}
	return r.defClass
}

// DeviceType returns the raw device type recorded for addr.
func (r *DeviceTypeRegistry) DeviceType(addr DeviceAddr) (SCSIDeviceType, bool) {
	e, ok := r.devices[addr]
	return e.deviceType, ok
}

func (r *DeviceTypeRegistry) Len() int {
	return len(r.devices)
}
