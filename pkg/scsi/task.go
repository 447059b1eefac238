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

	"github.com/gostor/scsitrace/pkg/metrics"
	lru "github.com/hashicorp/golang-lru/v2"
	log "github.com/sirupsen/logrus"
)

// DefaultMaxTasks bounds a TaskRegistry when no capacity is configured.
const DefaultMaxTasks = 65536

// TaskKey identifies one outstanding command. The transport adapter derives
// ConversationID from its session endpoints and TaskID from its exchange or
// task tag.
type TaskKey struct {
	ConversationID uint64
	TaskID         uint64
}

func (k TaskKey) String() string {
	return fmt.Sprintf("%016x/%x", k.ConversationID, k.TaskID)
}

// TaskFlag records CDB bits that change the layout of later payloads.
type TaskFlag uint32

const (
	TaskEVPD TaskFlag = 1 << iota
	TaskCmdDt
	TaskLongList
	TaskLongLBA
	TaskLongID
	TaskDBD
	TaskLLBAA
	TaskCDB10
	TaskPMI
	TaskFmtData
)

// TaskState is what a CDB leaves behind for the data and status phases of
// the same task.
type TaskState struct {
	Opcode        byte
	CommandSet    CommandSet
	Class         DeviceClass
	Device        DeviceAddr
	ServiceAction byte
	PageCode      byte
	Flags         TaskFlag
	// ExpectedLength is the transport's expected data transfer length, 0
	// when the transport does not carry one.
	ExpectedLength uint32
}

func (st *TaskState) Has(f TaskFlag) bool {
	return st.Flags&f != 0
}

func (st *TaskState) set(f TaskFlag, on bool) {
	if on {
		st.Flags |= f
	}
}

// TaskRegistry maps task keys to task state. The registry is bounded; once
// full, starting a task drops the least recently started one.
type TaskRegistry struct {
	cache *lru.Cache[TaskKey, *TaskState]
}

func NewTaskRegistry(size int) *TaskRegistry {
	if size <= 0 {
		size = DefaultMaxTasks
	}
	cache, err := lru.New[TaskKey, *TaskState](size)
	if err != nil {
		// only returned for a non-positive size
		panic(err)
	}
	return &TaskRegistry{cache: cache}
}

// StartTask returns a zeroed state for key. A key that is already present
// is reset and reused.
func (r *TaskRegistry) StartTask(key TaskKey) *TaskState {
	if st, ok := r.cache.Get(key); ok {
		log.Debugf("task %v restarted before it ended", key)
		*st = TaskState{}
		return st
	}
	st := &TaskState{}
	if r.cache.Add(key, st) {
		log.Debugf("task registry full, dropped oldest task")
		metrics.TasksEvicted.Inc()
	}
	metrics.TasksStarted.Inc()
	return st
}

// FindTask looks key up without changing the registry.
func (r *TaskRegistry) FindTask(key TaskKey) (*TaskState, bool) {
	return r.cache.Peek(key)
}

// EndTask removes key. Ending an unknown task is a no-op.
func (r *TaskRegistry) EndTask(key TaskKey) {
	if r.cache.Remove(key) {
		metrics.TasksCompleted.Inc()
	}
}

func (r *TaskRegistry) Len() int {
	return r.cache.Len()
}

// Purge drops every task.
func (r *TaskRegistry) Purge() {
	r.cache.Purge()
}
