// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package testutil adapts arrow/memory's checked-allocator pattern into a
// test helper: a memory.Allocator that records the call site of every
// allocation so a test can assert nothing it expected to be released was
// leaked. Grounded directly on arrow/memory/checked_allocator.go, since
// that file's CheckedAllocator is itself a test-only allocator, not
// production code a column/dictionary implementation would link against.
package testutil

import (
	"runtime"
	"sync"
	"unsafe"

	"github.com/apache/arrow/go/v17/arrow/memory"
)

const allocFrames = 4

type allocSite struct {
	pc   uintptr
	line int
	sz   int
}

// CheckedAllocator wraps another Allocator and tracks every Allocate call
// that has not yet been matched by a Free, so AssertNoLeaks can point at
// the call site of anything still outstanding.
type CheckedAllocator struct {
	mem memory.Allocator

	mu    sync.Mutex
	sz    int
	sites map[uintptr]allocSite
}

// NewCheckedAllocator wraps mem. Pass memory.NewGoAllocator() in tests that
// don't otherwise care which allocator backs their buffers.
func NewCheckedAllocator(mem memory.Allocator) *CheckedAllocator {
	return &CheckedAllocator{mem: mem, sites: make(map[uintptr]allocSite)}
}

func (a *CheckedAllocator) Allocate(size int) []byte {
	out := a.mem.Allocate(size)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sz += size
	if size > 0 {
		ptr := uintptr(unsafe.Pointer(&out[0]))
		if pc, _, line, ok := runtime.Caller(allocFrames); ok {
			a.sites[ptr] = allocSite{pc: pc, line: line, sz: size}
		}
	}
	return out
}

func (a *CheckedAllocator) Reallocate(size int, b []byte) []byte {
	var oldptr uintptr
	if len(b) > 0 {
		oldptr = uintptr(unsafe.Pointer(&b[0]))
	}
	out := a.mem.Reallocate(size, b)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.sz += size - len(b)
	delete(a.sites, oldptr)
	if size > 0 {
		newptr := uintptr(unsafe.Pointer(&out[0]))
		if pc, _, line, ok := runtime.Caller(3); ok {
			a.sites[newptr] = allocSite{pc: pc, line: line, sz: size}
		}
	}
	return out
}

func (a *CheckedAllocator) Free(b []byte) {
	defer a.mem.Free(b)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sz -= len(b)
	if len(b) > 0 {
		delete(a.sites, uintptr(unsafe.Pointer(&b[0])))
	}
}

// CurrentSize reports the net number of bytes allocated and not yet freed.
func (a *CheckedAllocator) CurrentSize() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sz
}

// T is the subset of *testing.T this package needs, so tests don't import
// testing into non-test code.
type T interface {
	Helper()
	Errorf(format string, args ...interface{})
}

// AssertNoLeaks fails t for every allocation that was never freed, naming
// its call site.
func (a *CheckedAllocator) AssertNoLeaks(t T) {
	t.Helper()
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, site := range a.sites {
		fn := runtime.FuncForPC(site.pc)
		name := "unknown"
		if fn != nil {
			name = fn.Name()
		}
		t.Errorf("leak of %d bytes from %s line %d", site.sz, name, site.line)
	}
}

var _ memory.Allocator = (*CheckedAllocator)(nil)
