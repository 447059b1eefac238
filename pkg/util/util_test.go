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

package util

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestParseKVText(t *testing.T) {
	txt := MarshalKVText([]KeyValue{
		{"HeaderDigest", "CRC32C"},
		{"DataDigest", "None"},
		{"TargetAlias", "a=b"},
	})
	m := ParseKVText(txt)
	assert.Equal(t, len(m), 3)
	assert.Equal(t, m["HeaderDigest"], "CRC32C")
	assert.Equal(t, m["DataDigest"], "None")
	assert.Equal(t, m["TargetAlias"], "a=b")
}

func TestParseUint(t *testing.T) {
	assert.Equal(t, ParseUint([]byte{0x01, 0x02, 0x03}), uint64(0x010203))
	assert.Equal(t, ParseUint(nil), uint64(0))
	assert.Equal(t, GetUnalignedUint24(MarshalUint24(0xabcdef)), uint32(0xabcdef))
	assert.Equal(t, GetUnalignedUint32(MarshalUint32(0xdeadbeef)), uint32(0xdeadbeef))
	assert.Equal(t, GetUnalignedUint64(MarshalUint64(1<<40)), uint64(1<<40))
	assert.Equal(t, GetUnalignedUint16(MarshalUint16(0x1234)), uint16(0x1234))
}

func TestHashEndpoints(t *testing.T) {
	a := []byte{10, 0, 0, 1, 0x0c, 0xbc}
	b := []byte{10, 0, 0, 2, 0xc3, 0x50}
	assert.Equal(t, HashEndpoints(a, b), HashEndpoints(b, a))
	assert.Assert(t, HashEndpoints(a, b) != HashEndpoints(a, a))
}
