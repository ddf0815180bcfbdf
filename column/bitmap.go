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

package column

import (
	"github.com/apache/arrow/go/v17/arrow/bitutil"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/vectorsql/colexec/internal/debug"
)

// Bitmap is a null-bitmap: bit i set means row i is NULL. Byte-level
// operations delegate to arrow/bitutil rather than hand-rolled shifting,
// the way functions/exec.go's nullPropagator does for validity bitmaps.
type Bitmap struct {
	bits []byte
	n    int
}

// NewBitmap returns an n-bit bitmap with every bit clear (no nulls).
func NewBitmap(n int) Bitmap {
	return Bitmap{bits: make([]byte, bitutil.BytesForBits(int64(n))), n: n}
}

func (b Bitmap) Len() int { return b.n }

func (b Bitmap) Get(i int) bool {
	return bitutil.BitIsSet(b.bits, i)
}

func (b Bitmap) Set(i int, v bool) {
	bitutil.SetBitTo(b.bits, i, v)
}

func (b Bitmap) Clone() Bitmap {
	cp := make([]byte, len(b.bits))
	copy(cp, b.bits)
	return Bitmap{bits: cp, n: b.n}
}

// OrInPlace ORs other into b bit by bit. b and other must have equal Len.
// This is the Null Wrapper's (C3) accumulation step: a row is NULL in the
// result if it is NULL in *any* nullable argument, the dual of the null
// propagator's AND-of-validity-bitmaps reduction in functions/exec.go.
func (b Bitmap) OrInPlace(other Bitmap) {
	debug.Assert(b.n == other.n, "column: bitmap length mismatch")
	for i := 0; i < b.n; i++ {
		if other.Get(i) {
			b.Set(i, true)
		}
	}
}

func (b Bitmap) PopCount() int {
	return bitutil.CountSetBits(b.bits, 0, b.n)
}

// NewBitmapAlloc allocates an n-bit bitmap's backing storage through alloc
// rather than Go's garbage collector; the caller frees it with Release.
// Bitmaps built elsewhere in this module (NewBitmap, and so every bitmap the
// peel layers and the dictionary result cache hold) use ordinary Go memory,
// and cache eviction releases nothing explicitly.
func NewBitmapAlloc(alloc memory.Allocator, n int) Bitmap {
	return Bitmap{bits: alloc.Allocate(int(bitutil.BytesForBits(int64(n)))), n: n}
}

// Release frees a bitmap allocated through NewBitmapAlloc.
func (b Bitmap) Release(alloc memory.Allocator) {
	if b.bits != nil {
		alloc.Free(b.bits)
	}
}

