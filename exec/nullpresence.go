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

// Package exec implements the scalar function execution wrapper: the
// layered peeling of constant, null, and dictionary encodings around a
// Function's ExecuteImpl (C3–C6), the matching return-type inference (C8),
// and the dictionary result cache glue (C7) that dictionary peeling
// consults.
package exec

import "github.com/vectorsql/colexec/column"

// nullPresenceResult is the original's NullPresence{has_nullable,
// has_null_constant}, shared unchanged between null peeling (C5) and
// return-type inference (C8) rather than duplicated per call site
// (spec.md §5, "supplemented features").
type nullPresenceResult struct {
	hasNullable bool
	hasOnlyNull bool
}

func nullPresence(types []column.Type) nullPresenceResult {
	var r nullPresenceResult
	for _, t := range types {
		if t.IsNullable() {
			r.hasNullable = true
		}
		if t.IsOnlyNull() {
			r.hasOnlyNull = true
		}
	}
	return r
}
