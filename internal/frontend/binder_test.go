package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"getdocs/internal/extract"
	"getdocs/internal/model"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBuildModelBindsTopLevel(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "a.ts", `
/// A person.
export class Person {
  /// Display name.
  name: string
  greet(loud: boolean): string { return "" }
}

export function makePerson(name: string): Person { return new Person() }

export const LIMIT = 10
`)
	m, err := BuildModel([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	unit := m.Unit(path)
	if unit == nil {
		t.Fatal("entry file missing from model")
	}
	if len(unit.Exports) != 3 {
		t.Fatalf("exports = %d, want 3", len(unit.Exports))
	}

	person := unit.Scope["Person"]
	if person == nil || !person.Flags.Has(model.FlagClass) {
		t.Fatalf("Person = %+v", person)
	}
	if got := extract.Normalize(person.Declaration()); got != "A person." {
		t.Errorf("class docs = %q", got)
	}
	if len(person.Members) != 2 {
		t.Fatalf("members = %d, want name and greet", len(person.Members))
	}
	name := person.Members[0]
	if name.Name != "name" || !name.Flags.Has(model.FlagProperty) {
		t.Errorf("first member = %+v", name)
	}
	if got := extract.Normalize(name.Declaration()); got != "Display name." {
		t.Errorf("member docs = %q", got)
	}
	greet := person.Members[1]
	if !greet.Flags.Has(model.FlagMethod) || greet.ValueType == nil || len(greet.ValueType.CallSigs) != 1 {
		t.Fatalf("greet = %+v", greet)
	}
	sig := greet.ValueType.CallSigs[0]
	if len(sig.Params) != 1 || sig.Params[0].Name != "loud" || sig.Params[0].ValueType.Kind != model.KindBoolean {
		t.Errorf("greet params = %+v", sig.Params)
	}
	if sig.Return == nil || sig.Return.Kind != model.KindString {
		t.Errorf("greet return = %+v", sig.Return)
	}

	fn := unit.Scope["makePerson"]
	if fn == nil || !fn.Flags.Has(model.FlagFunction) {
		t.Fatalf("makePerson = %+v", fn)
	}
	ret := fn.ValueType.CallSigs[0].Return
	if ret == nil || ret.Kind != model.KindRef || ret.Symbol != person {
		t.Errorf("return should reference the local class, got %+v", ret)
	}

	limit := unit.Scope["LIMIT"]
	if limit == nil || limit.ValueType == nil || limit.ValueType.Kind != model.KindLiteral || limit.ValueType.Literal != "10" {
		t.Errorf("LIMIT = %+v", limit)
	}
}

func TestBuildModelFollowsImports(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "thing.ts", `
export class Thing {
  id: number
}
`)
	entry := write(t, dir, "index.ts", `
import { Thing } from "./thing"

export { Thing }

export class Wrapper {
  inner: Thing
}
`)
	m, err := BuildModel([]string{entry})
	if err != nil {
		t.Fatal(err)
	}
	if m.Unit(filepath.Join(dir, "thing.ts")) == nil {
		t.Fatal("relative import was not followed")
	}
	unit := m.Unit(entry)
	alias := unit.Scope["Thing"]
	if alias == nil || !alias.Flags.Has(model.FlagAlias) {
		t.Fatalf("Thing binding = %+v", alias)
	}
	if alias.Target == nil || !alias.Target.Flags.Has(model.FlagClass) {
		t.Fatalf("alias target = %+v", alias.Target)
	}

	items, err := extract.Gather(m, extract.Request{SourcePath: entry, BaseDir: dir})
	if err != nil {
		t.Fatal(err)
	}
	thing, ok := items.Get("Thing")
	if !ok {
		t.Fatal("missing Thing item")
	}
	if thing.Kind != extract.KindReexport || thing.TypeSource != "thing.ts" {
		t.Errorf("re-export item = %+v", thing)
	}
	wrapper, ok := items.Get("Wrapper")
	if !ok {
		t.Fatal("missing Wrapper item")
	}
	inner, ok := wrapper.Properties.Get("inner")
	if !ok {
		t.Fatal("missing inner property")
	}
	if inner.Type != "Thing" || inner.TypeSource != "thing.ts" {
		t.Errorf("inner = %+v", inner.TypeDescription)
	}
}

func TestBuildModelOverloads(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "a.ts", `
export function pick(n: number): string;
export function pick(n: string): number;
export function pick(n: any): any { return n }
`)
	m, err := BuildModel([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	pick := m.Unit(path).Scope["pick"]
	if pick == nil {
		t.Fatal("missing pick")
	}
	if got := len(pick.ValueType.CallSigs); got != 2 {
		t.Errorf("call signatures = %d, want the implementation signature dropped", got)
	}
}

func TestBuildModelUnionAndOptional(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "a.ts", `
export type Flag = true | false | null

export function pad(s: string, len?: number): string { return s }
`)
	m, err := BuildModel([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	items, err := extract.Gather(m, extract.Request{SourcePath: path, BaseDir: dir})
	if err != nil {
		t.Fatal(err)
	}

	flag, ok := items.Get("Flag")
	if !ok {
		t.Fatal("missing Flag")
	}
	if flag.Type != "union" || len(flag.TypeArgs) != 2 {
		t.Fatalf("Flag = %+v", flag.TypeDescription)
	}
	if flag.TypeArgs[0].Type != "boolean" || flag.TypeArgs[1].Type != "null" {
		t.Errorf("Flag members = %+v, want boolean then trailing null", flag.TypeArgs)
	}

	pad, ok := items.Get("pad")
	if !ok {
		t.Fatal("missing pad")
	}
	params := pad.Signatures[0].Params
	if len(params) != 2 || params[1].Name != "len" || !params[1].Optional {
		t.Errorf("pad params = %+v", params)
	}
}

func TestBuildModelInterfaceAndEnum(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "a.ts", `
export interface Shape {
  readonly area: number
  scale(factor: number): Shape
}

export enum Dir { Up, Down = 5 }
`)
	m, err := BuildModel([]string{path})
	if err != nil {
		t.Fatal(err)
	}
	unit := m.Unit(path)

	shape := unit.Scope["Shape"]
	if shape == nil || !shape.Flags.Has(model.FlagInterface) || len(shape.Members) != 2 {
		t.Fatalf("Shape = %+v", shape)
	}
	if !shape.Members[0].Flags.Has(model.FlagReadonly) {
		t.Error("area should be readonly")
	}

	dirSym := unit.Scope["Dir"]
	if dirSym == nil || !dirSym.Flags.Has(model.FlagEnum) || len(dirSym.Members) != 2 {
		t.Fatalf("Dir = %+v", dirSym)
	}
	down := dirSym.Members[1]
	if down.ValueType.Kind != model.KindLiteral || down.ValueType.Literal != "5" {
		t.Errorf("Down = %+v", down.ValueType)
	}
}

func TestResolveSpecifier(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "util.ts", "export const x = 1\n")
	sub := filepath.Join(dir, "lib")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	write(t, sub, "index.ts", "export const y = 2\n")
	from := filepath.Join(dir, "main.ts")

	if got := resolveSpecifier(from, "./util"); got != filepath.Join(dir, "util.ts") {
		t.Errorf("./util resolved to %q", got)
	}
	if got := resolveSpecifier(from, "./lib"); got != filepath.Join(sub, "index.ts") {
		t.Errorf("./lib resolved to %q", got)
	}
	if got := resolveSpecifier(from, "lodash"); got != "" {
		t.Errorf("bare specifier resolved to %q", got)
	}
	if got := resolveSpecifier(from, "./missing"); got != "" {
		t.Errorf("missing module resolved to %q", got)
	}
}
