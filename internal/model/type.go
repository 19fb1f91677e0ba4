package model

import (
	"fmt"
	"strings"
)

// TypeKind tags a Type graph node.
type TypeKind int

const (
	KindAny TypeKind = iota
	KindUnknown
	KindNever
	KindString
	KindNumber
	KindBoolean
	KindNull
	KindUndefined
	KindObjectKeyword // the `object` keyword
	KindLiteral       // literal type; Literal holds the source text
	KindUnion
	KindIntersection
	KindTuple
	KindKeyof
	KindIndexed
	KindConditional
	KindMapped
	KindObjectLit // structural object / callable shape
	KindRef       // nominal reference by name
	KindTypeParamRef
	KindTypeof
)

var kindNames = map[TypeKind]string{
	KindAny:           "any",
	KindUnknown:       "unknown",
	KindNever:         "never",
	KindString:        "string",
	KindNumber:        "number",
	KindBoolean:       "boolean",
	KindNull:          "null",
	KindUndefined:     "undefined",
	KindObjectKeyword: "object",
	KindLiteral:       "literal",
	KindUnion:         "union",
	KindIntersection:  "intersection",
	KindTuple:         "tuple",
	KindKeyof:         "keyof",
	KindIndexed:       "indexed",
	KindConditional:   "conditional",
	KindMapped:        "mapped",
	KindObjectLit:     "object literal",
	KindRef:           "reference",
	KindTypeParamRef:  "type parameter",
	KindTypeof:        "typeof",
}

// Type is one node of the (possibly cyclic) semantic type graph.
type Type struct {
	Kind    TypeKind
	Literal string  // KindLiteral: literal source text
	Name    string  // KindRef / KindTypeParamRef: referenced name
	Symbol  *Symbol // KindRef / KindTypeof target; nil for unresolved externals

	Members []*Type // union / intersection members, declared syntax order
	Args    []*Type // KindRef type arguments
	Elems   []*Type // KindTuple elements

	Operand *Type // KindKeyof
	Object  *Type // KindIndexed object
	Index   *Type // KindIndexed index

	Check, ExtendsType, True, False *Type // KindConditional operands

	Key    *Symbol // KindMapped key parameter
	Source *Type   // KindMapped `in` clause
	Value  *Type   // KindMapped value type

	// KindObjectLit members.
	Props      []*Symbol
	CallSigs   []*Signature
	NewSigs    []*Signature
	IndexKey   *Type
	IndexValue *Type
}

// String renders a short printable form for diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindLiteral:
		return t.Literal
	case KindRef, KindTypeParamRef:
		if len(t.Args) == 0 {
			return t.Name
		}
		args := make([]string, len(t.Args))
		for i, a := range t.Args {
			args[i] = a.String()
		}
		return fmt.Sprintf("%s<%s>", t.Name, strings.Join(args, ", "))
	case KindTypeof:
		if t.Symbol != nil {
			return "typeof " + t.Symbol.Name
		}
		return "typeof " + t.Name
	default:
		if name, ok := kindNames[t.Kind]; ok {
			return name
		}
		return fmt.Sprintf("kind(%d)", int(t.Kind))
	}
}
