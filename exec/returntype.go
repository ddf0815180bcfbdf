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

// ReturnType is C8: it infers the declared result type a call to fn with
// the given arguments would produce, mirroring the peeling layers Execute
// applies at call time without ever touching a Batch. Constancy
// (funcapi.ArgDescr.Const) matters only for the dictionary-aware path: a
// constant dictionary-encoded argument does not count toward the limit of
// one full (non-constant) dictionary argument, though it still counts as a
// dictionary-encoded argument that lets the result stay LowCardinality.
func ReturnType(fn funcapi.Function, args []funcapi.ArgDescr) (column.Type, error) {
	argTypes := make([]column.Type, len(args))
	for i, a := range args {
		argTypes[i] = a.Type
	}
	if err := funcapi.CheckArity(fn, len(args)); err != nil {
		return column.Type{}, err
	}

	if !fn.UseDefaultImplForDictionary() {
		return returnTypeWithoutDictionary(fn, argTypes)
	}

	hasLowCardinality := false
	numFullLowCard := 0
	numFullOrdinary := 0
	stripped := make([]column.Type, len(args))

	for i, a := range args {
		t := a.Type
		if t.Kind == column.KindLowCardinality {
			hasLowCardinality = true
			if !a.Const {
				numFullLowCard++
			}
			t = *t.Inner
		} else if !a.Const {
			numFullOrdinary++
		}
		stripped[i] = column.StripDictionaryType(t)
	}

	base, err := returnTypeWithoutDictionary(fn, stripped)
	if err != nil {
		return column.Type{}, err
	}

	if fn.CanBeExecutedOnLowCardinalityDictionary() && hasLowCardinality &&
		numFullLowCard <= 1 && numFullOrdinary == 0 {
		return column.LowCardinalityOf(base), nil
	}
	return base, nil
}

// returnTypeWithoutDictionary is C8's null-aware path: strip Nullable
// before calling fn.ReturnTypeImpl, then rewrap, matching the layering
// nullPeel applies to columns at execution time.
//
// An only-null argument is still just a nullable argument for type
// inference: it determines the declared result type (Nullable<base>, the
// same as any other nullable argument would) even though nullPeel (C5)
// will skip ever calling ExecuteImpl for it, producing a constant NULL of
// that declared type instead (spec.md §8, S2).
func returnTypeWithoutDictionary(fn funcapi.Function, argTypes []column.Type) (column.Type, error) {
	if len(argTypes) > 0 && fn.UseDefaultImplForNulls() {
		presence := nullPresence(argTypes)
		if presence.hasNullable || presence.hasOnlyNull {
			nested := make([]column.Type, len(argTypes))
			for i, t := range argTypes {
				nested[i] = column.StripNullable(t)
			}
			base, err := fn.ReturnTypeImpl(nested)
			if err != nil {
				return column.Type{}, err
			}
			return column.NullableOf(base), nil
		}
	}
	return fn.ReturnTypeImpl(argTypes)
}
