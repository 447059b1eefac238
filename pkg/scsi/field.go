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
	"math/bits"
	"strings"

	"github.com/gostor/scsitrace/pkg/util"
)

// Field is one decoded item. Offset and Length locate it in the decoded
// buffer; several fields may share a byte when they are bit fields.
type Field struct {
	Name   string      `json:"name"`
	Offset int         `json:"offset"`
	Length int         `json:"length"`
	Value  interface{} `json:"value"`
	Text   string      `json:"text,omitempty"`
	Opaque bool        `json:"opaque,omitempty"`
}

// Tree collects the fields of one decode call.
//
// Reads are bounded by the buffer and by any limit set with Clamp. The first
// read that does not fit marks the tree as failed and every later read is
// dropped, so the fields of a short buffer are always a prefix of the
// fields of the full buffer.
type Tree struct {
	buf       []byte
	limit     int
	failed    bool
	truncated bool
	fields    []Field
}

func NewTree(buf []byte) *Tree {
	return &Tree{buf: buf, limit: len(buf)}
}

// Fields returns the fields emitted so far.
func (t *Tree) Fields() []Field {
	return t.fields
}

// Len returns the number of readable bytes.
func (t *Tree) Len() int {
	return t.limit
}

// Clamp lowers the readable length to n. It never raises it.
func (t *Tree) Clamp(n int) {
	if n >= 0 && n < t.limit {
		t.limit = n
	}
}

// Ok reports whether every read so far has succeeded.
func (t *Tree) Ok() bool {
	return !t.failed
}

// Truncated reports whether a read ran past the end of the buffer itself,
// as opposed to a declared length.
func (t *Tree) Truncated() bool {
	return t.truncated
}

// Has reports whether n bytes at off can be read. A false result fails the
// tree.
func (t *Tree) Has(off, n int) bool {
	if t.failed {
		return false
	}
	if off < 0 || n < 0 || off+n > t.limit {
		t.failed = true
		if off+n > len(t.buf) {
			t.truncated = true
		}
		return false
	}
	return true
}

func (t *Tree) add(f Field) {
	t.fields = append(t.fields, f)
}

// Peek reads a big-endian value without emitting a field.
func (t *Tree) Peek(off, n int) uint64 {
	if !t.Has(off, n) {
		return 0
	}
	return util.ParseUint(t.buf[off : off+n])
}

// Uint emits an n byte big-endian unsigned value.
func (t *Tree) Uint(name string, off, n int) uint64 {
	if !t.Has(off, n) {
		return 0
	}
	v := util.ParseUint(t.buf[off : off+n])
	t.add(Field{Name: name, Offset: off, Length: n, Value: v})
	return v
}

func (t *Tree) Uint8(name string, off int) uint8 {
	return uint8(t.Uint(name, off, 1))
}

func (t *Tree) Uint16(name string, off int) uint16 {
	return uint16(t.Uint(name, off, 2))
}

func (t *Tree) Uint24(name string, off int) uint32 {
	return uint32(t.Uint(name, off, 3))
}

func (t *Tree) Uint32(name string, off int) uint32 {
	return uint32(t.Uint(name, off, 4))
}

func (t *Tree) Uint64(name string, off int) uint64 {
	return t.Uint(name, off, 8)
}

// Int emits an n byte big-endian two's complement value.
func (t *Tree) Int(name string, off, n int) int64 {
	if !t.Has(off, n) {
		return 0
	}
	v := util.ParseUint(t.buf[off : off+n])
	shift := uint(64 - 8*n)
	s := int64(v<<shift) >> shift
	t.add(Field{Name: name, Offset: off, Length: n, Value: s})
	return s
}

// Bits emits the bits of an n byte value selected by mask, shifted down.
func (t *Tree) Bits(name string, off, n int, mask uint64) uint64 {
	if !t.Has(off, n) {
		return 0
	}
	v := (util.ParseUint(t.buf[off:off+n]) & mask) >> uint(bits.TrailingZeros64(mask))
	t.add(Field{Name: name, Offset: off, Length: n, Value: v})
	return v
}

// Flag emits a single bit of the byte at off.
func (t *Tree) Flag(name string, off int, mask byte) bool {
	if !t.Has(off, 1) {
		return false
	}
	v := t.buf[off]&mask != 0
	t.add(Field{Name: name, Offset: off, Length: 1, Value: v})
	return v
}

// Enum emits a masked value and its name from names.
func (t *Tree) Enum(name string, off, n int, mask uint64, names map[uint64]string) uint64 {
	if !t.Has(off, n) {
		return 0
	}
	v := (util.ParseUint(t.buf[off:off+n]) & mask) >> uint(bits.TrailingZeros64(mask))
	t.add(Field{Name: name, Offset: off, Length: n, Value: v, Text: names[v]})
	return v
}

// Named emits an n byte value with a caller supplied name for the value.
func (t *Tree) Named(name string, off, n int, text string) uint64 {
	if !t.Has(off, n) {
		return 0
	}
	v := util.ParseUint(t.buf[off : off+n])
	t.add(Field{Name: name, Offset: off, Length: n, Value: v, Text: text})
	return v
}

// Sub decodes the n bytes at off with fn in a tree of their own. Offsets
// seen by fn start at zero. A short read inside fn ends fn's fields without
// failing t.
func (t *Tree) Sub(off, n int, fn func(s *Tree)) {
	if !t.Has(off, n) {
		return
	}
	s := NewTree(t.buf[off : off+n])
	fn(s)
	for _, f := range s.fields {
		f.Offset += off
		t.add(f)
	}
}

// Bytes emits n raw bytes.
func (t *Tree) Bytes(name string, off, n int) []byte {
	if !t.Has(off, n) {
		return nil
	}
	b := make([]byte, n)
	copy(b, t.buf[off:off+n])
	t.add(Field{Name: name, Offset: off, Length: n, Value: b})
	return b
}

// String emits n bytes of space padded ASCII.
func (t *Tree) String(name string, off, n int) string {
	if !t.Has(off, n) {
		return ""
	}
	s := strings.TrimRight(string(t.buf[off:off+n]), " \x00")
	t.add(Field{Name: name, Offset: off, Length: n, Value: s})
	return s
}

// Rest emits everything from off up to the readable length as one opaque
// field. Nothing is emitted when the tree has failed or no bytes remain.
func (t *Tree) Rest(name string, off int) {
	if t.failed || off >= t.limit {
		return
	}
	b := make([]byte, t.limit-off)
	copy(b, t.buf[off:t.limit])
	t.add(Field{Name: name, Offset: off, Length: len(b), Value: b, Opaque: true})
}

// Note emits a marker field that carries no bytes.
func (t *Tree) Note(name string, off int, text string) {
	if t.failed {
		return
	}
	t.add(Field{Name: name, Offset: off, Length: 0, Text: text})
}
