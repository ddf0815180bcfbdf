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

package funcapi

import (
	"fmt"

	"github.com/vectorsql/colexec/column"
)

// Function is the contract a scalar function implements against the
// execution wrapper, modeled on the teacher's Function interface
// (compute/exec/functions/functions.go) but carrying the opt-in flags
// spec.md §6 assigns to each default-implementation layer instead of a
// single FunctionKind.
type Function interface {
	Name() string

	// ArgCount reports the number of positional arguments this function
	// accepts. When variadic is true, argCount is the minimum.
	ArgCount() (argCount int, variadic bool)

	// AlwaysConstantArgs names argument positions (0-based) that constant
	// peeling (C4) must reject with ErrIllegalColumn if they ever arrive
	// non-constant, rather than silently falling through.
	AlwaysConstantArgs() []int

	// UseDefaultImplForConstants opts into constant peeling (C4).
	UseDefaultImplForConstants() bool
	// UseDefaultImplForNulls opts into null peeling (C5) and the matching
	// return-type path.
	UseDefaultImplForNulls() bool
	// UseDefaultImplForDictionary opts into dictionary peeling (C6) and the
	// matching return-type path (C8).
	UseDefaultImplForDictionary() bool
	// CanBeExecutedOnDefaultArguments, when true, lets C6 run this
	// function directly over a dictionary's full distinct-values column
	// instead of building a minimal per-call dictionary; it also gates
	// whether the dictionary result cache (C7) may be consulted.
	CanBeExecutedOnDefaultArguments() bool
	// CanBeExecutedOnLowCardinalityDictionary, when true, lets C8 infer a
	// LowCardinality result type instead of unconditionally unwrapping it.
	CanBeExecutedOnLowCardinalityDictionary() bool

	// ReturnTypeImpl computes the result type given argument types with
	// the Nullable and LowCardinality layers removed by whichever default
	// implementations the function opted into.
	ReturnTypeImpl(argTypes []column.Type) (column.Type, error)

	// ExecuteImpl runs the function's domain logic over the arguments left
	// after the peel layers the function opted into, writing rowCount rows
	// into batch.Slots[resultSlot]. Constant peeling applies only when every
	// argument is constant, so a Const argument mixed with non-constant
	// ones still arrives wrapped in Const.
	ExecuteImpl(batch *Batch, argSlots []int, resultSlot int, rowCount int) error
}

// CheckArity validates n against fn's arity, matching the original's
// FunctionBuilderImpl::checkNumberOfArguments: a check distinct from (and
// run earlier than) anything ExecuteImpl itself might assume.
func CheckArity(fn Function, n int) error {
	argCount, variadic := fn.ArgCount()
	if variadic {
		if n < argCount {
			return fmt.Errorf("%w: %s requires at least %d arguments, got %d", ErrArgumentCountMismatch, fn.Name(), argCount, n)
		}
		return nil
	}
	if n != argCount {
		return fmt.Errorf("%w: %s accepts %d arguments, got %d", ErrArgumentCountMismatch, fn.Name(), argCount, n)
	}
	return nil
}
