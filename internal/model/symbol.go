package model

// Flags are the capability flags of a Symbol.
type Flags uint32

const (
	FlagClass Flags = 1 << iota
	FlagInterface
	FlagEnum
	FlagEnumMember
	FlagTypeAlias
	FlagFunction
	FlagVariable
	FlagProperty
	FlagMethod
	FlagGetAccessor
	FlagSetAccessor
	FlagTypeParameter
	FlagAlias // import/export indirection
	FlagStatic
	FlagAbstract
	FlagReadonly
	FlagOptional
	FlagRest
	FlagPublic // explicit `public` modifier
	FlagPrivate
	FlagProtected
)

func (f Flags) Has(mask Flags) bool { return f&mask != 0 }

// Symbol is a declaration-level name with capability flags.
type Symbol struct {
	Name  string
	Flags Flags
	Decls []*Declaration

	// Target is the alias indirection target for FlagAlias symbols.
	Target *Symbol

	// ValueType is the type of a value declaration (variable, property,
	// parameter, function). DeclaredType is the alias body for type aliases
	// and a fallback when ValueType is degenerate.
	ValueType    *Type
	DeclaredType *Type

	// Type parameter metadata (FlagTypeParameter symbols).
	Constraint  *Type
	Default     *Type
	DefaultText string // default-value source text (parameters, type parameters)

	// Container metadata: classes, interfaces, enums.
	TypeParams []*Symbol
	Members    []*Symbol // instance members / enum members, declared order
	Statics    []*Symbol
	Ctors      []*Signature
	Extends    *Type // first extends reference
	Implements []*Type
}

// Declaration returns the primary declaration site, or nil for ambient
// symbols without one.
func (s *Symbol) Declaration() *Declaration {
	if len(s.Decls) == 0 {
		return nil
	}
	return s.Decls[0]
}

// Signature is one call or construct signature.
type Signature struct {
	TypeParams []*Symbol
	Params     []*Symbol
	Return     *Type // nil when omitted
	Flags      Flags // visibility of the overload
	Decl       *Declaration
}
