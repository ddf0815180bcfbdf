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

// IsConstant reports whether c is a constant-wrapped column (C1).
func IsConstant(c Column) bool { return c.Kind == ColConst }

// IsNullableEncoded reports whether c is wrapped in the explicit Nullable
// encoding, as distinct from a column whose declared type merely permits
// nulls (C1).
func IsNullableEncoded(c Column) bool { return c.Kind == ColNullable }

// IsOnlyNull reports whether c's declared type is Nullable<Nothing>: every
// row is NULL and no execution can ever change that (C1).
func IsOnlyNull(c Column) bool { return c.Typ.IsOnlyNull() }

// IsDictionaryEncoded reports whether c carries the dictionary/
// low-cardinality encoding (C1).
func IsDictionaryEncoded(c Column) bool { return c.Kind == ColDict }
