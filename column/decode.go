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

// IndexMapping is a remapping from one index space to another: given an
// index into the space IndexMapping was built for, IndexMapping[i] gives
// the corresponding index in the new space. dictpeel.go composes these to
// avoid re-running a function over duplicate dictionary values (spec.md
// §4.6, "unique_insert_range").
type IndexMapping []uint32

// IndexInto composes m with an older index vector: for each entry of old,
// look up where that old position landed under m.
func (m IndexMapping) IndexInto(old []uint32) []uint32 {
	out := make([]uint32, len(old))
	for i, idx := range old {
		out[i] = m[idx]
	}
	return out
}

// StripDictionaryType recursively removes LowCardinality wrappers from t,
// including underneath Array and Tuple, preserving Tuple field names (C2).
func StripDictionaryType(t Type) Type {
	switch t.Kind {
	case KindLowCardinality:
		return StripDictionaryType(*t.Inner)
	case KindNullable:
		return NullableOf(StripDictionaryType(*t.Inner))
	case KindArray:
		return ArrayOf(StripDictionaryType(*t.Inner))
	case KindTuple:
		fields := make([]Type, len(t.Fields))
		for i, f := range t.Fields {
			fields[i] = StripDictionaryType(f)
		}
		return TupleOf(fields, t.Names)
	default:
		return t
	}
}

// Materialize recursively removes dictionary encoding from c, including
// underneath Const, Array, and Tuple wrappers (C2). A dictionary-encoded
// column becomes a plain column of gathered dictionary values; a Const
// wrapper is preserved around its recursively-materialized inner.
func Materialize(c Column) Column {
	switch c.Kind {
	case ColDict:
		gathered := Take(c.Dict.Values, c.Indices)
		return Materialize(gathered)
	case ColConst:
		inner := Materialize(*c.Inner)
		return NewConst(inner, c.Len)
	case ColNullable:
		values := Materialize(*c.ValuesCol)
		return NewNullable(values, c.Nulls)
	case ColArray:
		elems := Materialize(*c.Elems)
		return NewArray(elems, c.Offsets)
	case ColTuple:
		fields := make([]Column, len(c.FieldsCol))
		for i, f := range c.FieldsCol {
			fields[i] = Materialize(f)
		}
		return NewTuple(fields, c.Typ.Names)
	default:
		return c
	}
}

// ExpandConst turns a Const column into a real Len-row column by
// replicating its single inner row. Non-Const columns are returned
// unchanged. This is distinct from Materialize (which only strips
// dictionary encoding): a Const column pairs a single physical row with a
// replication count, and some callers (C3's wrapInNullable, pairing a
// constant result with a row-varying null bitmap) need the physical rows
// to actually exist.
func ExpandConst(c Column) Column {
	if c.Kind != ColConst {
		return c
	}
	indices := make([]uint32, c.Len)
	return Take(*c.Inner, indices)
}

// Take gathers rows of col at the given indices, producing a new column of
// length len(indices). It is used both by C2's dictionary materialization
// and by C6's minimal-dictionary encoding.
func Take(col Column, indices []uint32) Column {
	switch col.Kind {
	case ColPlain:
		out := make([]any, len(indices))
		for i, idx := range indices {
			out[i] = col.Values[idx]
		}
		return NewPlain(col.Typ, out)
	case ColConst:
		return NewConst(*col.Inner, len(indices))
	case ColNullable:
		values := Take(*col.ValuesCol, indices)
		nulls := NewBitmap(len(indices))
		for i, idx := range indices {
			nulls.Set(i, col.Nulls.Get(int(idx)))
		}
		return NewNullable(values, nulls)
	case ColArray:
		var elemIdx []uint32
		offsets := make([]int32, len(indices)+1)
		for i, idx := range indices {
			start, end := col.Offsets[idx], col.Offsets[idx+1]
			offsets[i+1] = offsets[i] + (end - start)
			for j := start; j < end; j++ {
				elemIdx = append(elemIdx, uint32(j))
			}
		}
		elems := Take(*col.Elems, elemIdx)
		return NewArray(elems, offsets)
	case ColTuple:
		fields := make([]Column, len(col.FieldsCol))
		for i, f := range col.FieldsCol {
			fields[i] = Take(f, indices)
		}
		return NewTuple(fields, col.Typ.Names)
	case ColDict:
		return Take(Materialize(col), indices)
	}
	panic("column: Take on unknown ColKind")
}

// ValueAt returns row i's scalar value for columns built out of Plain
// leaves, descending through Const and Nullable wrappers. It is used by
// C6's unique_insert_range dedup, which only ever runs on the materialized
// function-result column (never an Array/Tuple/Dict).
func ValueAt(col Column, i int) any {
	switch col.Kind {
	case ColPlain:
		return col.Values[i]
	case ColConst:
		return ValueAt(*col.Inner, 0)
	case ColNullable:
		if col.Nulls.Get(i) {
			return nil
		}
		return ValueAt(*col.ValuesCol, i)
	}
	panic("column: ValueAt on non-scalar column kind")
}
