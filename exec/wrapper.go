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
	"github.com/vectorsql/colexec/dictcache"
	"github.com/vectorsql/colexec/funcapi"
)

// Wrapper is the top-level entry point: it owns the dictionary result
// cache (C7) and drives the full peel order (dictionary, then constant,
// then null, then the function itself) for every call.
type Wrapper struct {
	cache *dictcache.Cache
}

// NewWrapper builds a Wrapper. cacheCapacity <= 0 disables the dictionary
// result cache entirely (dictionary peeling still runs, it just never
// consults or populates a cache), mirroring spec.md §6's create_cache(capacity).
func NewWrapper(cacheCapacity int) (*Wrapper, error) {
	if cacheCapacity <= 0 {
		return &Wrapper{}, nil
	}
	c, err := dictcache.New(cacheCapacity)
	if err != nil {
		return nil, err
	}
	return &Wrapper{cache: c}, nil
}

// Execute runs fn over batch.Slots[argSlots] and writes the result into
// batch.Slots[resultSlot], peeling every encoding the function opted into
// (C4–C6) and falling back to fn.ExecuteImpl for whatever remains.
func (w *Wrapper) Execute(fn funcapi.Function, batch *funcapi.Batch, argSlots []int, resultSlot int) error {
	if err := funcapi.CheckArity(fn, len(argSlots)); err != nil {
		return err
	}
	return w.dictPeel(fn, batch, argSlots, resultSlot)
}

// execWithoutDict runs the constant-then-null peel layers and, if neither
// handled the call, fn.ExecuteImpl itself. Dictionary peeling calls back
// into this (never into Execute) once it has stripped dictionary encoding
// from the batch, so a function's own arguments are never re-examined for
// dictionary encoding twice.
func execWithoutDict(fn funcapi.Function, batch *funcapi.Batch, argSlots []int, resultSlot int, rowCount int) error {
	if handled, err := constPeel(fn, batch, argSlots, resultSlot, rowCount); err != nil {
		return err
	} else if handled {
		return nil
	}
	if handled, err := nullPeel(fn, batch, argSlots, resultSlot, rowCount); err != nil {
		return err
	} else if handled {
		return nil
	}
	return fn.ExecuteImpl(batch, argSlots, resultSlot, rowCount)
}
