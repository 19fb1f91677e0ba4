package extract

import (
	"testing"

	"getdocs/internal/model"
)

func docDecl(line int, text string) *model.Declaration {
	d := declAt(line)
	d.Comments = []model.Comment{{Text: "/// " + text}}
	return d
}

func member(name string, flags model.Flags, decl *model.Declaration, valueType *model.Type) *model.Symbol {
	return &model.Symbol{
		Name:      name,
		Flags:     flags,
		Decls:     []*model.Declaration{decl},
		ValueType: valueType,
	}
}

func TestAssembleInheritedMembers(t *testing.T) {
	base := &model.Symbol{
		Name:  "Base",
		Flags: model.FlagClass,
		Decls: []*model.Declaration{declAt(1)},
		Members: []*model.Symbol{
			member("a", model.FlagProperty, declAt(2), prim(model.KindString)),
			member("b", model.FlagProperty, declAt(3), prim(model.KindString)),
			member("c", model.FlagProperty, declAt(4), prim(model.KindString)),
			member("d", model.FlagMethod, declAt(5), nil),
		},
	}
	sub := &model.Symbol{
		Name:    "Sub",
		Flags:   model.FlagClass,
		Decls:   []*model.Declaration{declAt(10)},
		Extends: refTo(base),
		Members: []*model.Symbol{
			member("a", model.FlagProperty, declAt(11), prim(model.KindString)),
			member("b", model.FlagProperty, declAt(12), prim(model.KindString)),
			member("d", model.FlagMethod, docDecl(13, "Narrower contract."), methodType(prim(model.KindNumber))),
		},
	}
	unit := emptyUnit()
	unit.Exports = []*model.Symbol{base, sub}
	unit.Scope["Base"], unit.Scope["Sub"] = base, sub

	cx := testContext(unit).Extend("Sub", sepMember)
	got, err := cx.assemble(sub, false)
	if err != nil {
		t.Fatal(err)
	}
	// Every redeclared member shows whether documented or not; the purely
	// inherited undocumented c is suppressed.
	keys := got.Properties.Keys()
	if len(keys) != 3 || keys[0] != "a" || keys[1] != "b" || keys[2] != "d" {
		t.Fatalf("property keys = %v, want [a b d]", keys)
	}
	d, _ := got.Properties.Get("d")
	if d.Description != "Narrower contract." {
		t.Errorf("documented override should keep its docs, got %q", d.Description)
	}
	if got.Extends == nil || got.Extends.Type != "Base" {
		t.Errorf("extends = %+v", got.Extends)
	}
}

func TestAssembleDocumentedInheritedMemberShown(t *testing.T) {
	base := &model.Symbol{
		Name:  "Base",
		Flags: model.FlagClass,
		Decls: []*model.Declaration{declAt(1)},
		Members: []*model.Symbol{
			member("plain", model.FlagProperty, declAt(2), prim(model.KindString)),
			member("noted", model.FlagProperty, docDecl(3, "Carried down."), prim(model.KindNumber)),
		},
	}
	sub := &model.Symbol{
		Name:    "Sub",
		Flags:   model.FlagClass,
		Decls:   []*model.Declaration{declAt(10)},
		Extends: refTo(base),
		Members: []*model.Symbol{
			member("own", model.FlagProperty, declAt(11), prim(model.KindBoolean)),
		},
	}
	unit := emptyUnit()
	unit.Exports = []*model.Symbol{base, sub}
	unit.Scope["Base"], unit.Scope["Sub"] = base, sub

	cx := testContext(unit).Extend("Sub", sepMember)
	got, err := cx.assemble(sub, false)
	if err != nil {
		t.Fatal(err)
	}
	keys := got.Properties.Keys()
	if len(keys) != 2 || keys[0] != "own" || keys[1] != "noted" {
		t.Fatalf("property keys = %v, want [own noted]", keys)
	}
	noted, _ := got.Properties.Get("noted")
	if noted.Description != "Carried down." {
		t.Errorf("inherited docs = %q", noted.Description)
	}
	if noted.ID != "Sub.noted" {
		t.Errorf("inherited member id = %q, want anchored at the subclass", noted.ID)
	}
}

func methodType(ret *model.Type) *model.Type {
	return &model.Type{Kind: model.KindObjectLit, CallSigs: []*model.Signature{{Return: ret}}}
}

func TestAssemblePrivateAndInternalExcluded(t *testing.T) {
	class := &model.Symbol{
		Name:  "Store",
		Flags: model.FlagClass,
		Decls: []*model.Declaration{declAt(1)},
		Members: []*model.Symbol{
			member("visible", model.FlagProperty, declAt(2), prim(model.KindString)),
			member("secret", model.FlagProperty|model.FlagPrivate, declAt(3), prim(model.KindString)),
			member("plumbing", model.FlagProperty, docDecl(4, "@internal wiring"), prim(model.KindString)),
		},
	}
	unit := emptyUnit()
	unit.Exports = []*model.Symbol{class}
	unit.Scope["Store"] = class

	cx := testContext(unit).Extend("Store", sepMember)
	got, err := cx.assemble(class, false)
	if err != nil {
		t.Fatal(err)
	}
	keys := got.Properties.Keys()
	if len(keys) != 1 || keys[0] != "visible" {
		t.Errorf("property keys = %v, want private and internal members excluded", keys)
	}
}

func TestAssembleConstructor(t *testing.T) {
	hiddenSig := &model.Signature{Flags: model.FlagPrivate, Decl: declAt(2)}
	canonical := &model.Signature{
		Decl: docDecl(3, "Creates a store."),
		Params: []*model.Symbol{
			{Name: "name", ValueType: prim(model.KindString)},
			{Name: "size", Flags: model.FlagReadonly, ValueType: prim(model.KindNumber)},
		},
	}
	class := &model.Symbol{
		Name:  "Store",
		Flags: model.FlagClass,
		Decls: []*model.Declaration{declAt(1)},
		Ctors: []*model.Signature{hiddenSig, canonical},
	}
	unit := emptyUnit()
	unit.Exports = []*model.Symbol{class}
	unit.Scope["Store"] = class

	cx := testContext(unit).Extend("Store", sepMember)
	got, err := cx.assemble(class, false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Construct == nil {
		t.Fatal("missing construct item")
	}
	if got.Construct.Kind != KindConstructor || got.Construct.ID != "Store.constructor" {
		t.Errorf("construct binding = %+v", got.Construct.Binding)
	}
	if got.Construct.Description != "Creates a store." {
		t.Errorf("canonical overload should supply docs, got %q", got.Construct.Description)
	}
	if len(got.Construct.Signatures) != 1 {
		t.Fatalf("signatures = %+v, want the private overload skipped", got.Construct.Signatures)
	}
	if got.Construct.Signatures[0].Returns != nil {
		t.Error("construct signatures should omit the return type")
	}
	size, ok := got.Properties.Get("size")
	if !ok {
		t.Fatal("readonly constructor parameter should become an instance property")
	}
	if !size.Readonly || size.Type != "number" || size.ID != "Store.size" {
		t.Errorf("promoted property = %+v", size)
	}
}

func TestAssembleStatics(t *testing.T) {
	class := &model.Symbol{
		Name:  "Registry",
		Flags: model.FlagClass,
		Decls: []*model.Declaration{declAt(1)},
		Statics: []*model.Symbol{
			member("shared", model.FlagProperty|model.FlagStatic, declAt(2), refTo(&model.Symbol{Name: "Registry", Flags: model.FlagClass})),
		},
	}
	unit := emptyUnit()
	unit.Exports = []*model.Symbol{class}
	unit.Scope["Registry"] = class

	cx := testContext(unit).Extend("Registry", sepMember)
	got, err := cx.assemble(class, false)
	if err != nil {
		t.Fatal(err)
	}
	shared, ok := got.StaticProperties.Get("shared")
	if !ok {
		t.Fatal("missing static property")
	}
	if shared.ID != "Registry^shared" {
		t.Errorf("static id = %q, want the caret separator", shared.ID)
	}
}

func TestAssembleGetterWithoutSetterIsReadonly(t *testing.T) {
	class := &model.Symbol{
		Name:  "Doc",
		Flags: model.FlagClass,
		Decls: []*model.Declaration{declAt(1)},
		Members: []*model.Symbol{
			member("length", model.FlagGetAccessor, declAt(2), prim(model.KindNumber)),
			member("title", model.FlagGetAccessor|model.FlagSetAccessor, declAt(3), prim(model.KindString)),
		},
	}
	unit := emptyUnit()
	unit.Exports = []*model.Symbol{class}
	unit.Scope["Doc"] = class

	cx := testContext(unit).Extend("Doc", sepMember)
	got, err := cx.assemble(class, false)
	if err != nil {
		t.Fatal(err)
	}
	length, _ := got.Properties.Get("length")
	if length == nil || !length.Readonly {
		t.Error("getter without setter should be readonly")
	}
	title, _ := got.Properties.Get("title")
	if title == nil || title.Readonly {
		t.Error("getter/setter pair should be writable")
	}
}

func TestAssembleEnum(t *testing.T) {
	enum := &model.Symbol{
		Name:  "Color",
		Flags: model.FlagEnum,
		Decls: []*model.Declaration{declAt(1)},
		Members: []*model.Symbol{
			member("Red", model.FlagEnumMember, declAt(2), lit("0")),
			member("Green", model.FlagEnumMember, declAt(3), lit("1")),
		},
	}
	unit := emptyUnit()
	unit.Exports = []*model.Symbol{enum}
	unit.Scope["Color"] = enum

	cx := testContext(unit).Extend("Color", sepMember)
	got, err := cx.assembleEnum(enum)
	if err != nil {
		t.Fatal(err)
	}
	if got.Type != "enum" {
		t.Fatalf("Type = %q", got.Type)
	}
	keys := got.Properties.Keys()
	if len(keys) != 2 || keys[0] != "Red" || keys[1] != "Green" {
		t.Fatalf("members = %v", keys)
	}
	red, _ := got.Properties.Get("Red")
	if red.Kind != KindEnumMember || red.Type != "0" {
		t.Errorf("member = %+v", red)
	}
}
