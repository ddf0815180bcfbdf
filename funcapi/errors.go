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

import "errors"

// Sentinel errors matching spec.md §7's error taxonomy. Call sites wrap
// these with fmt.Errorf("...: %w", ErrXxx) rather than returning them bare,
// so errors.Is still matches further up the call stack.
var (
	// ErrArgumentCountMismatch is returned when a function is called with a
	// number of arguments its Arity does not accept, or when constant
	// peeling finds nothing left to peel.
	ErrArgumentCountMismatch = errors.New("funcapi: argument count mismatch")

	// ErrIllegalColumn is returned when an argument the function declared
	// as always-constant (AlwaysConstantArgs) arrives non-constant.
	ErrIllegalColumn = errors.New("funcapi: illegal column")

	// ErrLogicError is the sentinel for conditions the wrapper itself should
	// have prevented. No code path in this module returns it: more than one
	// dictionary-encoded argument is caught by a debug assertion in
	// dictionary peeling, which panics instead of returning an error.
	ErrLogicError = errors.New("funcapi: logic error")
)
