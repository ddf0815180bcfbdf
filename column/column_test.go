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
	"testing"

	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/vectorsql/colexec/internal/testutil"
)

func TestTypePredicates(t *testing.T) {
	if !OnlyNullType().IsOnlyNull() {
		t.Fatal("OnlyNullType() should be only-null")
	}
	if NullableOf(Ground("String")).IsOnlyNull() {
		t.Fatal("Nullable(String) must not be only-null")
	}
	if !NullableOf(Ground("String")).IsNullable() {
		t.Fatal("Nullable(String) must be nullable")
	}
	if Ground("String").IsNullable() {
		t.Fatal("String must not be nullable")
	}
}

func TestStripDictionaryType(t *testing.T) {
	got := StripDictionaryType(ArrayOf(LowCardinalityOf(Ground("String"))))
	want := ArrayOf(Ground("String"))
	if !got.Equal(want) {
		t.Fatalf("got %s, want %s", got, want)
	}

	tuple := TupleOf([]Type{LowCardinalityOf(Ground("UInt64")), Ground("String")}, []string{"a", "b"})
	gotTuple := StripDictionaryType(tuple)
	wantTuple := TupleOf([]Type{Ground("UInt64"), Ground("String")}, []string{"a", "b"})
	if !gotTuple.Equal(wantTuple) {
		t.Fatalf("got %s, want %s", gotTuple, wantTuple)
	}
	if gotTuple.Names[0] != "a" || gotTuple.Names[1] != "b" {
		t.Fatalf("tuple field names not preserved: %v", gotTuple.Names)
	}
}

func TestMaterializeDictionary(t *testing.T) {
	values := NewPlain(Ground("String"), []any{"x", "y", "z"})
	dict := NewDict(NewDictionary(values), []uint32{2, 0, 0, 1}, false)

	got := Materialize(dict)
	if got.Kind != ColPlain {
		t.Fatalf("materialized dictionary should be Plain, got %v", got.Kind)
	}
	want := []any{"z", "x", "x", "y"}
	for i, v := range want {
		if got.Values[i] != v {
			t.Fatalf("row %d: got %v, want %v", i, got.Values[i], v)
		}
	}
}

func TestMaterializeConstOfDictionary(t *testing.T) {
	values := NewPlain(Ground("String"), []any{"a", "b"})
	dict := NewDict(NewDictionary(values), []uint32{1}, false)
	c := NewConst(dict, 3)

	got := Materialize(c)
	if got.Kind != ColConst {
		t.Fatalf("Const wrapper should survive materialization, got %v", got.Kind)
	}
	if got.Inner.Kind != ColPlain || got.Inner.Values[0] != "b" {
		t.Fatalf("unexpected inner: %+v", got.Inner)
	}
}

func TestBitmapOr(t *testing.T) {
	a := NewBitmap(4)
	a.Set(1, true)
	b := NewBitmap(4)
	b.Set(2, true)

	a.OrInPlace(b)
	for i, want := range []bool{false, true, true, false} {
		if a.Get(i) != want {
			t.Fatalf("bit %d: got %v, want %v", i, a.Get(i), want)
		}
	}
}

func TestBitmapAllocRelease(t *testing.T) {
	alloc := testutil.NewCheckedAllocator(memory.NewGoAllocator())

	b := NewBitmapAlloc(alloc, 100)
	b.Set(5, true)
	b.Set(99, true)
	if !b.Get(5) || !b.Get(99) {
		t.Fatal("bits set on an allocator-backed bitmap must read back set")
	}
	if alloc.CurrentSize() == 0 {
		t.Fatal("NewBitmapAlloc should have allocated through alloc")
	}

	b.Release(alloc)
	if alloc.CurrentSize() != 0 {
		t.Fatalf("Release should return the bitmap's bytes to alloc, got %d outstanding", alloc.CurrentSize())
	}
	alloc.AssertNoLeaks(t)
}

func TestDictionaryHashStableAndContentBased(t *testing.T) {
	v1 := NewPlain(Ground("String"), []any{"a", "b", "c"})
	v2 := NewPlain(Ground("String"), []any{"a", "b", "c"})
	v3 := NewPlain(Ground("String"), []any{"a", "b", "d"})

	d1 := NewDictionary(v1)
	d2 := NewDictionary(v2)
	d3 := NewDictionary(v3)

	if d1.Hash() != d2.Hash() {
		t.Fatal("equal dictionary contents must hash equally")
	}
	if d1.Hash() != d1.Hash() {
		t.Fatal("Hash must be stable across calls")
	}
	if d1.Hash() == d3.Hash() {
		t.Fatal("different dictionary contents should (almost always) hash differently")
	}
}
