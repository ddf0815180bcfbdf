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

// ColKind tags the closed sum type Column, mirroring Type's Kind and the
// teacher's DatumKind (compute/datum.go).
type ColKind int8

const (
	ColPlain ColKind = iota
	ColConst
	ColNullable
	ColArray
	ColTuple
	ColDict
)

// Column is a closed sum type. Exactly the fields relevant to Kind are
// populated; the rest are zero. Len is always the column's row count,
// regardless of Kind, so callers never need a type switch just to find it.
type Column struct {
	Kind ColKind
	Typ  Type
	Len  int

	// ColPlain: a vector of ground-type values, one per row.
	Values []any

	// ColConst: Inner has length 1; the column reads as Inner's single row
	// repeated Len times.
	Inner *Column

	// ColNullable: ValuesCol holds the (possibly meaningless) underlying
	// value for NULL rows; Nulls.Get(i) true means row i is NULL.
	ValuesCol *Column
	Nulls     Bitmap

	// ColArray: Offsets has Len+1 entries; row i spans
	// Elems[Offsets[i]:Offsets[i+1]].
	Offsets []int32
	Elems   *Column

	// ColTuple: one Column per field, each of length Len.
	FieldsCol []Column

	// ColDict: Indices has Len entries, each an index into Dict.Values.
	// Shared marks a dictionary that multiple columns reference and that
	// is therefore safe to look up in the dictionary result cache.
	Dict    *Dictionary
	Indices []uint32
	Shared  bool
}

func NewPlain(t Type, values []any) Column {
	return Column{Kind: ColPlain, Typ: t, Len: len(values), Values: values}
}

// NewConst repeats inner's single row count times. inner.Len must be 1.
// A Const wrapping another Const is flattened: both represent the same
// single physical row, just replicated a different number of times.
func NewConst(inner Column, count int) Column {
	for inner.Kind == ColConst {
		inner = *inner.Inner
	}
	return Column{Kind: ColConst, Typ: inner.Typ, Len: count, Inner: &inner}
}

// NewConstNull builds a constant column of declared type t (normally
// Nullable<X>) whose single row is NULL, repeated count times.
func NewConstNull(t Type, count int) Column {
	nulls := NewBitmap(1)
	nulls.Set(0, true)
	values := Column{Kind: ColPlain, Typ: StripNullable(t), Len: 1, Values: []any{nil}}
	nullable := Column{
		Kind:      ColNullable,
		Typ:       t,
		Len:       1,
		ValuesCol: &values,
		Nulls:     nulls,
	}
	return NewConst(nullable, count)
}

func NewNullable(values Column, nulls Bitmap) Column {
	return Column{
		Kind:      ColNullable,
		Typ:       NullableOf(values.Typ),
		Len:       values.Len,
		ValuesCol: &values,
		Nulls:     nulls,
	}
}

func NewArray(elems Column, offsets []int32) Column {
	return Column{
		Kind:    ColArray,
		Typ:     ArrayOf(elems.Typ),
		Len:     len(offsets) - 1,
		Offsets: offsets,
		Elems:   &elems,
	}
}

func NewTuple(fields []Column, names []string) Column {
	n := 0
	if len(fields) > 0 {
		n = fields[0].Len
	}
	types := make([]Type, len(fields))
	for i, f := range fields {
		types[i] = f.Typ
	}
	return Column{
		Kind:      ColTuple,
		Typ:       TupleOf(types, names),
		Len:       n,
		FieldsCol: fields,
	}
}

func NewDict(dict *Dictionary, indices []uint32, shared bool) Column {
	return Column{
		Kind:    ColDict,
		Typ:     LowCardinalityOf(dict.Values.Typ),
		Len:     len(indices),
		Dict:    dict,
		Indices: indices,
		Shared:  shared,
	}
}
