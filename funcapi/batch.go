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

// Package funcapi defines the contract between the execution wrapper and
// the functions it runs: the Function interface, the Batch a function
// reads and writes through, and the wrapper's error taxonomy.
package funcapi

import "github.com/vectorsql/colexec/column"

// Slot is one named, typed column within a Batch.
type Slot struct {
	Column column.Column
	Type   column.Type
	Name   string
}

// Batch is the row group a Function executes over: a flat slice of named
// slots (arguments and result alike) plus the row count they all share.
// The wrapper builds intermediate batches as it peels encodings away, then
// writes the final result back into the caller's result slot.
type Batch struct {
	Slots []Slot
	Rows  int
}

// AppendSlot adds a slot to b and returns its index.
func (b *Batch) AppendSlot(s Slot) int {
	b.Slots = append(b.Slots, s)
	return len(b.Slots) - 1
}

// ArgDescr describes one call-site argument for return-type inference
// (C8), which needs to know constancy as well as type: a dictionary-
// encoded argument that happens to be constant does not count toward
// getReturnType's num_full_low_cardinality tally.
type ArgDescr struct {
	Type  column.Type
	Const bool
}
