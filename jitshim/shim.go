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

// Package jitshim implements C9, the null-propagation shim a JIT-compiled
// function wraps itself in. The actual native code emitter (an LLVM
// IRBuilder or equivalent) is an external collaborator supplied by the
// caller through the Builder interface; this package only sequences the
// null-check branches and PHI join around it, the same control flow
// IFunction.cpp's compile() builds around a compiled function's native
// expression.
package jitshim

import "github.com/vectorsql/colexec/column"

// Value is an opaque native-code value handle. This package never
// inspects it, only threads it through Builder calls.
type Value any

// Block is an opaque native-code basic block handle.
type Block any

// ValueThunk lazily produces one argument's native value and its null
// flag. When null checks are woven in, Compile calls the thunk of each
// nullable argument exactly once, in argument order, immediately before
// emitting that argument's null-check branch; thunks of non-nullable
// arguments are passed to CompileImpl uncalled.
type ValueThunk func() (value Value, isNull Value)

// Builder is the minimal native code emitter contract this shim needs.
// A real implementation wraps something like an LLVM IRBuilder; none is
// implemented in this module.
type Builder interface {
	NewBlock() Block
	CurrentBlock() Block
	SetInsertPoint(b Block)
	CondBranch(cond Value, then, els Block)
	Branch(to Block)

	// ZeroNullableResult returns a zero-valued {value, isNull=false}
	// aggregate of the result's native representation.
	ZeroNullableResult() Value
	// WithComputedValue returns zero with its value slot replaced by
	// computed; isNull stays false.
	WithComputedValue(zero, computed Value) Value
	// WithNullFlag returns zero with its isNull slot set to true.
	WithNullFlag(zero Value) Value
	// Phi joins values coming from each predecessor block into one value
	// in the current (join) block.
	Phi(incoming map[Block]Value) Value
}

// Compilable is the JIT opt-in half of a Function implementation,
// alongside funcapi.Function.
type Compilable interface {
	IsCompilableImpl(argTypes []column.Type) bool
	CompileImpl(b Builder, argTypes []column.Type, values []ValueThunk) (Value, error)
}

// IsCompilable is C9's compilability check: when useNulls is set (the
// function opted into null peeling), it checks compilability against the
// denulled argument types, matching how CompileImpl is always handed
// denulled types at native-codegen time regardless of the argument types
// the caller declared.
func IsCompilable(fn Compilable, useNulls bool, argTypes []column.Type) bool {
	if useNulls {
		if denulled, ok := removeNullables(argTypes); ok {
			return fn.IsCompilableImpl(denulled)
		}
	}
	return fn.IsCompilableImpl(argTypes)
}

// Compile is C9 itself. When useNulls is set and at least one argument
// type is Nullable, it wraps fn.CompileImpl with a null-check branch per
// nullable argument (each jumping to a shared fail block on NULL) and a
// PHI join between the computed-value path and the fail path. Otherwise
// it calls fn.CompileImpl directly.
func Compile(fn Compilable, b Builder, useNulls bool, argTypes []column.Type, values []ValueThunk) (Value, error) {
	if useNulls {
		if _, ok := removeNullables(argTypes); ok {
			return compileWithNullChecks(fn, b, argTypes, values)
		}
	}
	return fn.CompileImpl(b, argTypes, values)
}

func removeNullables(types []column.Type) ([]column.Type, bool) {
	hasNullable := false
	for _, t := range types {
		if t.IsNullable() {
			hasNullable = true
			break
		}
	}
	if !hasNullable {
		return nil, false
	}
	out := make([]column.Type, len(types))
	for i, t := range types {
		out[i] = column.StripNullable(t)
	}
	return out, true
}

func compileWithNullChecks(fn Compilable, b Builder, argTypes []column.Type, thunks []ValueThunk) (Value, error) {
	fail := b.NewBlock()
	join := b.NewBlock()
	zero := b.ZeroNullableResult()

	denulled := make([]column.Type, len(argTypes))
	plain := make([]ValueThunk, len(thunks))
	for i, thunk := range thunks {
		denulled[i] = column.StripNullable(argTypes[i])
		if !argTypes[i].IsNullable() {
			plain[i] = thunk
			continue
		}
		value, isNull := thunk()
		ok := b.NewBlock()
		b.CondBranch(isNull, fail, ok)
		b.SetInsertPoint(ok)
		captured := value
		plain[i] = func() (Value, Value) { return captured, nil }
	}

	computed, err := fn.CompileImpl(b, denulled, plain)
	if err != nil {
		return nil, err
	}
	result := b.WithComputedValue(zero, computed)
	resultBlock := b.CurrentBlock()
	b.Branch(join)

	b.SetInsertPoint(fail)
	null := b.WithNullFlag(zero)
	failBlock := b.CurrentBlock()
	b.Branch(join)

	b.SetInsertPoint(join)
	return b.Phi(map[Block]Value{resultBlock: result, failBlock: null}), nil
}
