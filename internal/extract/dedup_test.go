package extract

import (
	"testing"

	"getdocs/internal/model"
)

// genericClass builds an exported class C<T = number, V = T[]> and returns
// a context whose unit exports it.
func genericClass(t *testing.T) (Context, *model.Symbol) {
	t.Helper()
	tp := &model.Symbol{
		Name:    "T",
		Flags:   model.FlagTypeParameter,
		Default: prim(model.KindNumber),
	}
	vp := &model.Symbol{
		Name:    "V",
		Flags:   model.FlagTypeParameter,
		Default: &model.Type{Kind: model.KindRef, Name: "Array", Args: []*model.Type{{Kind: model.KindRef, Name: "T"}}},
	}
	class := &model.Symbol{
		Name:       "C",
		Flags:      model.FlagClass,
		Decls:      []*model.Declaration{declAt(1)},
		TypeParams: []*model.Symbol{tp, vp},
	}
	unit := emptyUnit()
	unit.Exports = []*model.Symbol{class}
	unit.Scope["C"] = class
	return testContext(unit), class
}

func array(elem *model.Type) *model.Type {
	return &model.Type{Kind: model.KindRef, Name: "Array", Args: []*model.Type{elem}}
}

func refTo(sym *model.Symbol, args ...*model.Type) *model.Type {
	return &model.Type{Kind: model.KindRef, Name: sym.Name, Symbol: sym, Args: args}
}

func TestDedupAllDefaults(t *testing.T) {
	cx, class := genericClass(t)
	got, err := cx.resolveType(refTo(class, prim(model.KindNumber), array(prim(model.KindNumber))), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TypeArgs) != 0 {
		t.Errorf("arguments matching defaults should vanish, got %+v", got.TypeArgs)
	}
}

func TestDedupDependentDefault(t *testing.T) {
	// V's default is T[], so C<string, string[]> elides only V.
	cx, class := genericClass(t)
	got, err := cx.resolveType(refTo(class, prim(model.KindString), array(prim(model.KindString))), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TypeArgs) != 1 || got.TypeArgs[0].Type != "string" {
		t.Errorf("TypeArgs = %+v, want [string]", got.TypeArgs)
	}
}

func TestDedupStopsAtMismatch(t *testing.T) {
	// C<number, string[]>: the trailing argument differs from its default,
	// so nothing is elided, including the matching one before it.
	cx, class := genericClass(t)
	got, err := cx.resolveType(refTo(class, prim(model.KindNumber), array(prim(model.KindString))), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TypeArgs) != 2 {
		t.Errorf("TypeArgs = %+v, want both kept", got.TypeArgs)
	}
}

func TestDedupStopsAtParamWithoutDefault(t *testing.T) {
	a := &model.Symbol{Name: "A", Flags: model.FlagTypeParameter}
	b := &model.Symbol{Name: "B", Flags: model.FlagTypeParameter, Default: prim(model.KindNumber)}
	class := &model.Symbol{
		Name:       "D",
		Flags:      model.FlagClass,
		Decls:      []*model.Declaration{declAt(1)},
		TypeParams: []*model.Symbol{a, b},
	}
	unit := emptyUnit()
	unit.Exports = []*model.Symbol{class}
	unit.Scope["D"] = class
	cx := testContext(unit)

	got, err := cx.resolveType(refTo(class, prim(model.KindString), prim(model.KindNumber)), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.TypeArgs) != 1 || got.TypeArgs[0].Type != "string" {
		t.Errorf("TypeArgs = %+v, want the defaultless argument kept", got.TypeArgs)
	}
}

func TestSameTypeStructural(t *testing.T) {
	a := &TypeDescription{Type: "union", TypeArgs: []*TypeDescription{{Type: "string"}, {Type: "null"}}}
	b := &TypeDescription{Type: "union", TypeArgs: []*TypeDescription{{Type: "string"}, {Type: "null"}}}
	if !sameType(a, b) {
		t.Error("identical trees should compare equal")
	}
	b.TypeArgs[1] = &TypeDescription{Type: "undefined"}
	if sameType(a, b) {
		t.Error("differing members should compare unequal")
	}
	if sameType(a, &TypeDescription{Type: "union"}) {
		t.Error("arity difference should compare unequal")
	}
}
