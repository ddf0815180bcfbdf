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

// Package column defines the closed encoding sum types (Type, Column) that
// the scalar function execution wrapper peels and rewraps. These are the
// module's own concrete stand-in for the "concrete column and data-type
// implementations" spec.md treats as an external collaborator: something
// has to exist for the peeling logic to run against and for the property
// tests to exercise, without pretending to be a general-purpose array
// library.
package column

import "strings"

// Kind tags the closed sum type Type, mirroring the tagged-union style of
// the teacher's compute.ValueShape/DatumKind (compute/datum.go).
type Kind int8

const (
	KindGround Kind = iota
	KindNullable
	KindArray
	KindTuple
	KindLowCardinality
)

// NothingName is the ground type name used for the empty/only-null type,
// matching spec.md's Nullable<Nothing>.
const NothingName = "Nothing"

// Type is a closed sum type: exactly one of the fields below is meaningful,
// selected by Kind. Built by the constructors, never by literal.
type Type struct {
	Kind   Kind
	Ground string  // valid when Kind == KindGround
	Inner  *Type   // Nullable.Inner / Array.Elem / LowCardinality.Inner
	Fields []Type  // Tuple fields
	Names  []string // Tuple field names, parallel to Fields; entries may be ""
}

func Ground(name string) Type { return Type{Kind: KindGround, Ground: name} }

func NullableOf(inner Type) Type { return Type{Kind: KindNullable, Inner: &inner} }

func ArrayOf(elem Type) Type { return Type{Kind: KindArray, Inner: &elem} }

func TupleOf(fields []Type, names []string) Type {
	return Type{Kind: KindTuple, Fields: fields, Names: names}
}

func LowCardinalityOf(inner Type) Type { return Type{Kind: KindLowCardinality, Inner: &inner} }

// OnlyNullType is Nullable<Nothing>, the declared type of a column that is
// NULL in every row and always will be.
func OnlyNullType() Type { return NullableOf(Ground(NothingName)) }

func (t Type) IsNullable() bool { return t.Kind == KindNullable }

func (t Type) IsOnlyNull() bool {
	return t.Kind == KindNullable && t.Inner.Kind == KindGround && t.Inner.Ground == NothingName
}

func (t Type) Equal(o Type) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindGround:
		return t.Ground == o.Ground
	case KindNullable, KindArray, KindLowCardinality:
		return t.Inner.Equal(*o.Inner)
	case KindTuple:
		if len(t.Fields) != len(o.Fields) {
			return false
		}
		for i := range t.Fields {
			if !t.Fields[i].Equal(o.Fields[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func (t Type) String() string {
	switch t.Kind {
	case KindGround:
		return t.Ground
	case KindNullable:
		return "Nullable(" + t.Inner.String() + ")"
	case KindArray:
		return "Array(" + t.Inner.String() + ")"
	case KindLowCardinality:
		return "LowCardinality(" + t.Inner.String() + ")"
	case KindTuple:
		parts := make([]string, len(t.Fields))
		for i, f := range t.Fields {
			parts[i] = f.String()
		}
		return "Tuple(" + strings.Join(parts, ", ") + ")"
	}
	return "?"
}

// StripNullable returns t.Inner if t is Nullable, else t unchanged.
func StripNullable(t Type) Type {
	if t.Kind == KindNullable {
		return *t.Inner
	}
	return t
}
