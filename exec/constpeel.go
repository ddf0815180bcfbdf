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
	"fmt"

	"github.com/vectorsql/colexec/column"
	"github.com/vectorsql/colexec/funcapi"
)

// constPeel is C4: when every argument is constant, run the function once
// over the unwrapped single-row arguments and rewrap the result as a
// constant of the original row count, instead of recomputing it rowCount
// times. Returns handled=false when the fast path does not apply, leaving
// batch untouched.
func constPeel(fn funcapi.Function, batch *funcapi.Batch, argSlots []int, resultSlot int, rowCount int) (handled bool, err error) {
	if !fn.UseDefaultImplForConstants() || len(argSlots) == 0 {
		return false, nil
	}

	alwaysConst := make(map[int]bool, len(fn.AlwaysConstantArgs()))
	for _, i := range fn.AlwaysConstantArgs() {
		alwaysConst[i] = true
	}

	for i, s := range argSlots {
		isConst := column.IsConstant(batch.Slots[s].Column)
		if alwaysConst[i] && !isConst {
			return false, fmt.Errorf("%w: argument %d of %q must be constant", funcapi.ErrIllegalColumn, i, fn.Name())
		}
	}
	for _, s := range argSlots {
		if !column.IsConstant(batch.Slots[s].Column) {
			return false, nil
		}
	}

	tmp := &funcapi.Batch{Rows: 1}
	tmpArgSlots := make([]int, len(argSlots))
	haveConverted := false
	for i, s := range argSlots {
		slot := batch.Slots[s]
		if alwaysConst[i] {
			tmpArgSlots[i] = tmp.AppendSlot(slot)
			continue
		}
		haveConverted = true
		tmpArgSlots[i] = tmp.AppendSlot(funcapi.Slot{
			Column: *slot.Column.Inner,
			Type:   slot.Type,
			Name:   slot.Name,
		})
	}
	if !haveConverted {
		return false, fmt.Errorf("%w: %s has no argument left to peel after excluding always-constant positions", funcapi.ErrArgumentCountMismatch, fn.Name())
	}

	resultTmpSlot := tmp.AppendSlot(funcapi.Slot{Type: batch.Slots[resultSlot].Type, Name: batch.Slots[resultSlot].Name})
	if err := execWithoutDict(fn, tmp, tmpArgSlots, resultTmpSlot, 1); err != nil {
		return false, err
	}

	wrapped := column.NewConst(tmp.Slots[resultTmpSlot].Column, rowCount)
	batch.Slots[resultSlot].Column = wrapped
	return true, nil
}
