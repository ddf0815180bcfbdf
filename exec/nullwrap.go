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

// wrapInNullable is C3, the Null Wrapper: given a function's result over
// denulled arguments, rebuild the Nullable wrapper the result needs so it
// reflects which rows were NULL in the *original*, not denulled, call.
//
// This adapts functions/exec.go's nullPropagator, which ANDs validity
// bitmaps across array arguments into one output validity bitmap; here the
// reduction is an OR across nullable arguments' null-bitmaps, because a
// result row is NULL if *any* contributing argument was NULL in that row
// (the two propagators are De Morgan duals of each other).
func wrapInNullable(result column.Column, args []funcapi.Slot, declaredType column.Type, rowCount int) (column.Column, error) {
	if result.Typ.IsOnlyNull() {
		return result, nil
	}

	srcNotNullable := result
	var resultNullMap *column.Bitmap
	if result.Kind == column.ColNullable {
		srcNotNullable = *result.ValuesCol
		nm := result.Nulls.Clone()
		resultNullMap = &nm
	}

	for _, arg := range args {
		if !arg.Type.IsNullable() {
			continue
		}
		if arg.Column.Typ.IsOnlyNull() {
			return column.NewConstNull(declaredType, rowCount), nil
		}
		if arg.Column.Kind == column.ColConst {
			// A constant argument's nullity is uniform across all rows.
			// If its single row is itself NULL (a constant Nullable(X)
			// whose value happens to be null, as opposed to OnlyNullType),
			// every row contributes NULL just the same as a varying
			// nullable argument would.
			inner := arg.Column.Inner
			if inner.Kind == column.ColNullable && inner.Nulls.Get(0) {
				return column.NewConstNull(declaredType, rowCount), nil
			}
			continue
		}
		if arg.Column.Kind == column.ColNullable {
			if resultNullMap == nil {
				nm := arg.Column.Nulls.Clone()
				resultNullMap = &nm
			} else {
				resultNullMap.OrInPlace(arg.Column.Nulls)
			}
		}
	}

	if resultNullMap == nil {
		return column.NewNullable(srcNotNullable, column.NewBitmap(srcNotNullable.Len)), nil
	}
	if srcNotNullable.Kind == column.ColConst {
		srcNotNullable = column.ExpandConst(srcNotNullable)
	}
	return column.NewNullable(srcNotNullable, *resultNullMap), nil
}
