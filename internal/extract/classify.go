package extract

import (
	"strings"

	"getdocs/internal/core/errors"
	"getdocs/internal/model"
)

// internalMarker in a description excludes the binding from output.
const internalMarker = "@internal"

// classification is the classifier's tagged result. Downstream code matches
// on kind exhaustively instead of re-testing capability flags.
type classification struct {
	kind     Kind
	sym      *model.Symbol // resolved symbol after alias following
	excluded bool          // private/internal: silently no item
}

// classify maps a symbol's capability flags to one binding kind. Alias
// indirection is checked first: a target outside the processed unit is a
// re-export; otherwise classification recurses transparently on the target.
func (cx Context) classify(sym *model.Symbol) (classification, error) {
	for sym.Flags.Has(model.FlagAlias) {
		target := sym.Target
		if target == nil {
			return classification{}, errors.New(errors.CodeMissingDeclaration, "alias has no target").
				WithContext(errors.CtxSymbol, sym.Name)
		}
		if !cx.declaredInUnit(target) {
			return classification{kind: KindReexport, sym: target}, nil
		}
		sym = target
	}

	var kind Kind
	switch {
	case sym.Flags.Has(model.FlagGetAccessor | model.FlagSetAccessor | model.FlagProperty):
		kind = KindProperty
	case sym.Flags.Has(model.FlagMethod):
		kind = KindMethod
	case sym.Flags.Has(model.FlagEnum):
		kind = KindEnum
	case sym.Flags.Has(model.FlagEnumMember):
		kind = KindEnumMember
	case sym.Flags.Has(model.FlagClass):
		kind = KindClass
	case sym.Flags.Has(model.FlagFunction):
		kind = KindFunction
	case sym.Flags.Has(model.FlagInterface):
		kind = KindInterface
	case sym.Flags.Has(model.FlagTypeAlias):
		kind = KindTypeAlias
	case sym.Flags.Has(model.FlagVariable):
		kind = KindVariable
	case sym.Flags.Has(model.FlagTypeParameter):
		kind = KindTypeParameter
	default:
		return classification{}, errors.New(errors.CodeClassification, "symbol matches no recognized kind").
			WithContext(errors.CtxSymbol, sym.Name).
			WithContext(errors.CtxFlags, uint32(sym.Flags))
	}

	if hidden(sym) {
		return classification{kind: kind, sym: sym, excluded: true}, nil
	}
	return classification{kind: kind, sym: sym}, nil
}

func (cx Context) declaredInUnit(sym *model.Symbol) bool {
	decl := sym.Declaration()
	return decl != nil && decl.File == cx.run.unit.Path
}

// hidden reports whether a symbol is excluded from output: a private
// modifier, or an internal-only marker in its documentation.
func hidden(sym *model.Symbol) bool {
	if sym.Flags.Has(model.FlagPrivate) {
		return true
	}
	return strings.Contains(Normalize(sym.Declaration()), internalMarker)
}

// isReadonly covers both the explicit modifier and a getter that lacks a
// matching setter.
func isReadonly(sym *model.Symbol) bool {
	if sym.Flags.Has(model.FlagReadonly) {
		return true
	}
	return sym.Flags.Has(model.FlagGetAccessor) && !sym.Flags.Has(model.FlagSetAccessor)
}
