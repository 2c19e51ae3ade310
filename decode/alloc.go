// Copyright 2026 The LUCI Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package decode

import (
	"fmt"
	"sync"

	"github.com/apache/arrow/go/v15/arrow/memory"
)

// DefaultAllocSlack is added to the allocation limit of every payload.
const DefaultAllocSlack = 64 << 20

// DefaultAllocFactor is how many times larger than the payload its decoded
// buffers may be. Compressed bodies expand.
const DefaultAllocFactor = 64

// AllocLimitError is the panic value of an allocation past the limit.
type AllocLimitError struct {
	Size  int
	Used  int64
	Limit int64
}

// Error is part of error interface.
func (e *AllocLimitError) Error() string {
	return fmt.Sprintf("allocating %d bytes on top of %d exceeds the limit of %d", e.Size, e.Used, e.Limit)
}

// boundedAllocator refuses to hand out more than limit bytes in total.
//
// The IPC reader sizes buffers from lengths in the payload, so a corrupted
// length would otherwise allocate whatever it says. The reader has no way to
// fail an allocation other than panicking.
//
// It also remembers the buffers it handed out, so a failed decode can free
// what the reader leaked.
type boundedAllocator struct {
	mem   memory.Allocator
	limit int64

	m    sync.Mutex
	used int64
	live map[*byte][]byte
}

func newBoundedAllocator(mem memory.Allocator, limit int64) *boundedAllocator {
	return &boundedAllocator{
		mem:   mem,
		limit: limit,
		live:  map[*byte][]byte{},
	}
}

func (a *boundedAllocator) reserve(size int) {
	if size < 0 || a.used+int64(size) > a.limit {
		panic(&AllocLimitError{Size: size, Used: a.used, Limit: a.limit})
	}
	a.used += int64(size)
}

func (a *boundedAllocator) track(b []byte) {
	if len(b) != 0 {
		a.live[&b[0]] = b
	}
}

// Allocate implements memory.Allocator.
func (a *boundedAllocator) Allocate(size int) []byte {
	a.m.Lock()
	defer a.m.Unlock()
	a.reserve(size)
	b := a.mem.Allocate(size)
	a.track(b)
	return b
}

// Reallocate implements memory.Allocator.
func (a *boundedAllocator) Reallocate(size int, b []byte) []byte {
	a.m.Lock()
	defer a.m.Unlock()
	var old int
	if len(b) != 0 {
		if _, ok := a.live[&b[0]]; ok {
			old = len(b)
		}
	}
	if size > old {
		a.reserve(size - old)
	} else {
		a.used -= int64(old - size)
	}
	if old != 0 {
		delete(a.live, &b[0])
	}
	nb := a.mem.Reallocate(size, b)
	a.track(nb)
	return nb
}

// Free implements memory.Allocator.
//
// Buffers already freed by freeAll are ignored.
func (a *boundedAllocator) Free(b []byte) {
	a.m.Lock()
	defer a.m.Unlock()
	if len(b) == 0 {
		a.mem.Free(b)
		return
	}
	if _, ok := a.live[&b[0]]; !ok {
		return
	}
	delete(a.live, &b[0])
	a.used -= int64(len(b))
	a.mem.Free(b)
}

// freeAll frees every buffer still outstanding.
func (a *boundedAllocator) freeAll() {
	a.m.Lock()
	defer a.m.Unlock()
	for p, b := range a.live {
		a.mem.Free(b)
		delete(a.live, p)
	}
	a.used = 0
}
