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

package exec

import (
	"github.com/vectorsql/colexec/column"
	"github.com/vectorsql/colexec/dictcache"
	"github.com/vectorsql/colexec/funcapi"
	"github.com/vectorsql/colexec/internal/debug"
)

// dictPeel is C6, dispatching on whether the declared result type itself
// is LowCardinality (Case A: dictionary-in, dictionary-out, eligible for
// the result cache) or not (Case B: any dictionary-encoded arguments are
// simply materialized before the call).
func (w *Wrapper) dictPeel(fn funcapi.Function, batch *funcapi.Batch, argSlots []int, resultSlot int) error {
	if !fn.UseDefaultImplForDictionary() {
		return execWithoutDict(fn, batch, argSlots, resultSlot, batch.Rows)
	}

	resultType := batch.Slots[resultSlot].Type
	if resultType.Kind == column.KindLowCardinality {
		return w.dictPeelCaseA(fn, batch, argSlots, resultSlot, resultType)
	}
	return dictPeelCaseB(fn, batch, argSlots, resultSlot)
}

// dictPeelCaseB materializes every dictionary-encoded argument (C2),
// including dictionaries nested under Const, Array, and Tuple wrappers, and
// runs the function as if none of them had ever been dictionary-encoded.
func dictPeelCaseB(fn funcapi.Function, batch *funcapi.Batch, argSlots []int, resultSlot int) error {
	work := &funcapi.Batch{Rows: batch.Rows, Slots: append([]funcapi.Slot(nil), batch.Slots...)}
	for _, s := range argSlots {
		slot := work.Slots[s]
		slot.Column = column.Materialize(slot.Column)
		slot.Type = column.StripDictionaryType(slot.Type)
		work.Slots[s] = slot
	}
	if err := execWithoutDict(fn, work, argSlots, resultSlot, work.Rows); err != nil {
		return err
	}
	batch.Slots[resultSlot].Column = work.Slots[resultSlot].Column
	return nil
}

// findDictionaryArg returns the position within argSlots of the single
// dictionary-encoded argument, if any. More than one is a logic error: the
// wrapper's contract promises the caller never constructs such a call.
func findDictionaryArg(batch *funcapi.Batch, argSlots []int) (pos int, found bool) {
	pos = -1
	for i, s := range argSlots {
		if batch.Slots[s].Column.Kind == column.ColDict {
			debug.Assert(!found, "dictPeel: more than one dictionary-encoded argument")
			pos, found = i, true
		}
	}
	return pos, found
}

// dictPeelCaseA is the dictionary-in, dictionary-out path. It locates the
// single dictionary argument (if any), runs the function once over the
// dictionary's distinct values (or a minimal per-call subset of them),
// deduplicates the result into a new dictionary, and remaps indices —
// consulting and, on a miss, populating the dictionary result cache (C7)
// when the function allows it.
func (w *Wrapper) dictPeelCaseA(fn funcapi.Function, batch *funcapi.Batch, argSlots []int, resultSlot int, resultType column.Type) error {
	dictPos, hasDict := findDictionaryArg(batch, argSlots)

	canDefault := fn.CanBeExecutedOnDefaultArguments()

	var dictArgCol column.Column
	var key dictcache.Key
	useCache := false
	if hasDict {
		dictArgCol = batch.Slots[argSlots[dictPos]].Column
		if w.cache != nil && canDefault && dictArgCol.Shared {
			key = dictcache.Key{Hash: dictArgCol.Dict.Hash(), Size: uint64(dictArgCol.Dict.Size())}
			if entry, ok := w.cache.Get(key); ok {
				finalIndices := entry.IndexMapping.IndexInto(dictArgCol.Indices)
				batch.Slots[resultSlot].Column = column.NewDict(column.NewDictionary(*entry.FunctionResult), finalIndices, true)
				return nil
			}
			useCache = true
		}
	}

	innerType := *resultType.Inner

	work := &funcapi.Batch{Slots: append([]funcapi.Slot(nil), batch.Slots...)}
	work.Slots[resultSlot] = funcapi.Slot{Type: innerType, Name: batch.Slots[resultSlot].Name}

	var outerIndices []uint32
	rows := batch.Rows

	if hasDict {
		if canDefault {
			rows = dictArgCol.Dict.Size()
			outerIndices = dictArgCol.Indices
			work.Slots[argSlots[dictPos]] = funcapi.Slot{
				Column: dictArgCol.Dict.Values,
				Type:   column.StripDictionaryType(batch.Slots[argSlots[dictPos]].Type),
				Name:   batch.Slots[argSlots[dictPos]].Name,
			}
		} else {
			minimal, outer := minimalEncode(dictArgCol)
			rows = minimal.Len
			outerIndices = outer
			work.Slots[argSlots[dictPos]] = funcapi.Slot{
				Column: minimal,
				Type:   column.StripDictionaryType(batch.Slots[argSlots[dictPos]].Type),
				Name:   batch.Slots[argSlots[dictPos]].Name,
			}
		}
	}

	for i, s := range argSlots {
		if hasDict && i == dictPos {
			continue
		}
		slot := work.Slots[s]
		if slot.Column.Kind == column.ColConst && slot.Column.Inner.Kind == column.ColDict {
			materialized := column.Materialize(*slot.Column.Inner)
			inner := materialized
			slot.Column = column.NewConst(inner, slot.Column.Len)
			slot.Type = column.StripDictionaryType(slot.Type)
			work.Slots[s] = slot
		} else if slot.Column.Kind == column.ColDict {
			// findDictionaryArg asserts there is only one dictionary-encoded
			// argument, so this branch runs only in builds with assertions
			// compiled out (-tags noassert), where a second dictionary
			// argument is materialized here instead.
			slot.Column = column.Materialize(slot.Column)
			slot.Type = column.StripDictionaryType(slot.Type)
			work.Slots[s] = slot
		}
	}
	work.Rows = rows

	if err := execWithoutDict(fn, work, argSlots, resultSlot, rows); err != nil {
		return err
	}

	resCol := work.Slots[resultSlot].Column
	if resCol.Kind == column.ColConst {
		resCol = column.ExpandConst(resCol)
	}

	resDict, resMapping := uniqueInsertRange(resCol)

	if !hasDict {
		batch.Slots[resultSlot].Column = column.NewDict(column.NewDictionary(resDict), []uint32(resMapping), false)
		return nil
	}

	if useCache {
		entry := dictcache.Entry{
			DictionaryHolder: dictArgCol.Dict,
			FunctionResult:   &resDict,
			IndexMapping:     resMapping,
		}
		winner := w.cache.GetOrSet(key, entry)
		resDict = *winner.FunctionResult
		resMapping = winner.IndexMapping
	}

	finalIndices := resMapping.IndexInto(outerIndices)
	batch.Slots[resultSlot].Column = column.NewDict(column.NewDictionary(resDict), finalIndices, useCache)
	return nil
}

// minimalEncode builds a dictionary containing only the distinct rows of
// dictArgCol's dictionary that are actually referenced by dictArgCol's
// indices, in order of first occurrence, plus the index vector mapping
// each original row to its position in that smaller dictionary. Used when
// the function cannot run over the dictionary's full set of distinct
// values (spec.md §4.6, minimal dictionary encoding, seed scenario S6).
func minimalEncode(dictArgCol column.Column) (minimal column.Column, outer []uint32) {
	seen := make(map[uint32]uint32, len(dictArgCol.Indices))
	order := make([]uint32, 0, len(dictArgCol.Indices))
	outer = make([]uint32, len(dictArgCol.Indices))
	for i, idx := range dictArgCol.Indices {
		newPos, ok := seen[idx]
		if !ok {
			newPos = uint32(len(order))
			seen[idx] = newPos
			order = append(order, idx)
		}
		outer[i] = newPos
	}
	minimal = column.Take(dictArgCol.Dict.Values, order)
	return minimal, outer
}

// uniqueInsertRange deduplicates col's rows into a distinct-values
// dictionary and the per-row mapping into it, the building block both the
// result cache's "function result dictionary" and the final dictionary-
// encoded result column are built from (spec.md §4.6, "unique_insert_range").
func uniqueInsertRange(col column.Column) (column.Column, column.IndexMapping) {
	n := col.Len
	values := make([]any, 0, n)
	seen := make(map[any]uint32, n)
	mapping := make(column.IndexMapping, n)
	for i := 0; i < n; i++ {
		v := column.ValueAt(col, i)
		pos, ok := seen[v]
		if !ok {
			pos = uint32(len(values))
			seen[v] = pos
			values = append(values, v)
		}
		mapping[i] = pos
	}
	return column.NewPlain(groundElemType(col.Typ), values), mapping
}

func groundElemType(t column.Type) column.Type {
	return column.StripNullable(t)
}
