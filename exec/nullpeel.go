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
	"github.com/vectorsql/colexec/funcapi"
)

// nullPeel is C5: strip Nullable wrappers from arguments before calling
// the function, then rewrap the result with wrapInNullable (C3). Short-
// circuits to a constant NULL when any argument's type is only-null.
func nullPeel(fn funcapi.Function, batch *funcapi.Batch, argSlots []int, resultSlot int, rowCount int) (handled bool, err error) {
	if !fn.UseDefaultImplForNulls() || len(argSlots) == 0 {
		return false, nil
	}

	argTypes := make([]column.Type, len(argSlots))
	for i, s := range argSlots {
		argTypes[i] = batch.Slots[s].Type
	}
	presence := nullPresence(argTypes)

	if presence.hasOnlyNull {
		batch.Slots[resultSlot].Column = column.NewConstNull(batch.Slots[resultSlot].Type, rowCount)
		return true, nil
	}
	if !presence.hasNullable {
		return false, nil
	}

	nested := &funcapi.Batch{Rows: batch.Rows}
	nestedArgSlots := make([]int, len(argSlots))
	originalArgs := make([]funcapi.Slot, len(argSlots))
	for i, s := range argSlots {
		slot := batch.Slots[s]
		originalArgs[i] = slot
		if slot.Column.Kind == column.ColNullable {
			nestedArgSlots[i] = nested.AppendSlot(funcapi.Slot{
				Column: *slot.Column.ValuesCol,
				Type:   column.StripNullable(slot.Type),
				Name:   slot.Name,
			})
		} else {
			nestedArgSlots[i] = nested.AppendSlot(slot)
		}
	}

	resultNestedSlot := nested.AppendSlot(funcapi.Slot{
		Type: column.StripNullable(batch.Slots[resultSlot].Type),
		Name: batch.Slots[resultSlot].Name,
	})
	if err := execWithoutDict(fn, nested, nestedArgSlots, resultNestedSlot, nested.Rows); err != nil {
		return false, err
	}

	wrapped, err := wrapInNullable(nested.Slots[resultNestedSlot].Column, originalArgs, batch.Slots[resultSlot].Type, rowCount)
	if err != nil {
		return false, err
	}
	batch.Slots[resultSlot].Column = wrapped
	return true, nil
}
