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
	"testing"

	"gotest.tools/v3/assert"
)

func TestTaskLifecycle(t *testing.T) {
	r := NewTaskRegistry(0)
	k := TaskKey{ConversationID: 1, TaskID: 7}

	_, ok := r.FindTask(k)
	assert.Assert(t, !ok)

	st := r.StartTask(k)
	st.Opcode = INQUIRY
	got, ok := r.FindTask(k)
	assert.Assert(t, ok)
	assert.Equal(t, got, st)
	assert.Equal(t, got.Opcode, INQUIRY)

	r.EndTask(k)
	_, ok = r.FindTask(k)
	assert.Assert(t, !ok)

	// ending twice is harmless
	r.EndTask(k)
	assert.Equal(t, r.Len(), 0)
}

func TestTaskKeyReuse(t *testing.T) {
	r := NewTaskRegistry(0)
	k := TaskKey{ConversationID: 1, TaskID: 7}

	st := r.StartTask(k)
	st.Opcode = READ_10
	st.Flags = TaskLongLBA
	st2 := r.StartTask(k)
	assert.Equal(t, st2.Opcode, TEST_UNIT_READY)
	assert.Equal(t, st2.Flags, TaskFlag(0))
	assert.Equal(t, r.Len(), 1)
}

func TestTaskKeysIndependent(t *testing.T) {
	r := NewTaskRegistry(0)
	a := TaskKey{ConversationID: 1, TaskID: 7}
	b := TaskKey{ConversationID: 2, TaskID: 7}
	r.StartTask(a).Opcode = READ_10
	r.StartTask(b).Opcode = WRITE_10

	r.EndTask(a)
	st, ok := r.FindTask(b)
	assert.Assert(t, ok)
	assert.Equal(t, st.Opcode, WRITE_10)
}

func TestTaskRegistryBound(t *testing.T) {
	r := NewTaskRegistry(2)
	a := TaskKey{TaskID: 1}
	b := TaskKey{TaskID: 2}
	c := TaskKey{TaskID: 3}
	r.StartTask(a)
	r.StartTask(b)
	// a lookup does not protect a from eviction
	r.FindTask(a)
	r.StartTask(c)

	assert.Equal(t, r.Len(), 2)
	_, ok := r.FindTask(a)
	assert.Assert(t, !ok)
	_, ok = r.FindTask(c)
	assert.Assert(t, ok)

	r.Purge()
	assert.Equal(t, r.Len(), 0)
}
