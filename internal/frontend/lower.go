package frontend

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"getdocs/internal/model"
)

// lowerer turns syntactic type nodes of one file into model type graphs.
// Name resolution only consults the file's top-level scope; generic
// parameter references stay name-only and are bound by the extraction
// engine's scope stack.
type lowerer struct {
	path   string
	source []byte
	scope  map[string]*model.Symbol
}

func (lw *lowerer) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(lw.source[n.StartByte():n.EndByte()])
}

func childOfKind(n *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c.Kind() == kind {
			return c
		}
	}
	return nil
}

func hasChildOfKind(n *sitter.Node, kind string) bool {
	return childOfKind(n, kind) != nil
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := uint(0); i < n.NamedChildCount(); i++ {
		out = append(out, n.NamedChild(i))
	}
	return out
}

func (lw *lowerer) ref(name string) *model.Type {
	return &model.Type{Kind: model.KindRef, Name: name, Symbol: lw.scope[name]}
}

func (lw *lowerer) lowerType(n *sitter.Node) *model.Type {
	if n == nil {
		return &model.Type{Kind: model.KindAny}
	}
	switch n.Kind() {
	case "predefined_type":
		return lw.lowerPredefined(lw.text(n))
	case "literal_type":
		text := lw.text(n)
		switch text {
		case "null":
			return &model.Type{Kind: model.KindNull}
		case "undefined":
			return &model.Type{Kind: model.KindUndefined}
		}
		return &model.Type{Kind: model.KindLiteral, Literal: text}
	case "type_identifier":
		name := lw.text(n)
		if name == "undefined" {
			return &model.Type{Kind: model.KindUndefined}
		}
		return lw.ref(name)
	case "nested_type_identifier":
		// Qualified name (namespace or enum member position); kept as an
		// opaque named reference.
		return &model.Type{Kind: model.KindRef, Name: lw.text(n)}
	case "generic_type":
		name := n.ChildByFieldName("name")
		t := lw.lowerType(name)
		if args := childOfKind(n, "type_arguments"); args != nil {
			for _, arg := range namedChildren(args) {
				t.Args = append(t.Args, lw.lowerType(arg))
			}
		}
		return t
	case "union_type":
		u := &model.Type{Kind: model.KindUnion}
		lw.collectVariants(n, "union_type", &u.Members)
		return u
	case "intersection_type":
		x := &model.Type{Kind: model.KindIntersection}
		lw.collectVariants(n, "intersection_type", &x.Members)
		return x
	case "tuple_type":
		t := &model.Type{Kind: model.KindTuple}
		for _, c := range namedChildren(n) {
			t.Elems = append(t.Elems, lw.lowerType(c))
		}
		return t
	case "array_type":
		elem := &model.Type{Kind: model.KindAny}
		if nc := n.NamedChild(0); nc != nil {
			elem = lw.lowerType(nc)
		}
		return &model.Type{Kind: model.KindRef, Name: "Array", Args: []*model.Type{elem}}
	case "readonly_type", "parenthesized_type", "optional_type", "rest_type":
		return lw.lowerType(n.NamedChild(0))
	case "index_type_query":
		return &model.Type{Kind: model.KindKeyof, Operand: lw.lowerType(n.NamedChild(0))}
	case "type_query":
		target := n.NamedChild(0)
		name := lw.text(target)
		return &model.Type{Kind: model.KindTypeof, Name: name, Symbol: lw.scope[name]}
	case "lookup_type":
		return &model.Type{
			Kind:   model.KindIndexed,
			Object: lw.lowerType(n.NamedChild(0)),
			Index:  lw.lowerType(n.NamedChild(1)),
		}
	case "conditional_type":
		return &model.Type{
			Kind:        model.KindConditional,
			Check:       lw.lowerType(n.ChildByFieldName("left")),
			ExtendsType: lw.lowerType(n.ChildByFieldName("right")),
			True:        lw.lowerType(n.ChildByFieldName("consequence")),
			False:       lw.lowerType(n.ChildByFieldName("alternative")),
		}
	case "object_type":
		return lw.lowerObjectType(n)
	case "function_type":
		return &model.Type{Kind: model.KindObjectLit, CallSigs: []*model.Signature{lw.lowerArrowSignature(n)}}
	case "constructor_type":
		return &model.Type{Kind: model.KindObjectLit, NewSigs: []*model.Signature{lw.lowerArrowSignature(n)}}
	case "template_literal_type":
		return &model.Type{Kind: model.KindString}
	case "infer_type":
		if nc := n.NamedChild(0); nc != nil {
			return lw.ref(lw.text(nc))
		}
		return &model.Type{Kind: model.KindAny}
	}
	return &model.Type{Kind: model.KindAny}
}

func (lw *lowerer) lowerPredefined(name string) *model.Type {
	switch name {
	case "string":
		return &model.Type{Kind: model.KindString}
	case "number":
		return &model.Type{Kind: model.KindNumber}
	case "boolean":
		return &model.Type{Kind: model.KindBoolean}
	case "any":
		return &model.Type{Kind: model.KindAny}
	case "unknown":
		return &model.Type{Kind: model.KindUnknown}
	case "never":
		return &model.Type{Kind: model.KindNever}
	case "void":
		return &model.Type{Kind: model.KindUndefined}
	case "object":
		return &model.Type{Kind: model.KindObjectKeyword}
	}
	// symbol, bigint and friends stay named builtins.
	return &model.Type{Kind: model.KindRef, Name: name}
}

// collectVariants flattens the grammar's binary union/intersection nodes
// into one member list, preserving source order.
func (lw *lowerer) collectVariants(n *sitter.Node, kind string, out *[]*model.Type) {
	for _, c := range namedChildren(n) {
		if c.Kind() == kind {
			lw.collectVariants(c, kind, out)
			continue
		}
		*out = append(*out, lw.lowerType(c))
	}
}

// lowerObjectType handles object type literals, including the mapped-type
// form hiding inside an index signature.
func (lw *lowerer) lowerObjectType(n *sitter.Node) *model.Type {
	obj := &model.Type{Kind: model.KindObjectLit}
	members := make(map[string]*model.Symbol)
	for _, m := range namedChildren(n) {
		switch m.Kind() {
		case "property_signature":
			lw.lowerPropertyMember(m, obj, members)
		case "method_signature":
			lw.lowerMethodMember(m, obj, members)
		case "call_signature":
			obj.CallSigs = append(obj.CallSigs, lw.lowerSignature(m))
		case "construct_signature":
			obj.NewSigs = append(obj.NewSigs, lw.lowerSignature(m))
		case "index_signature":
			if mapped := lw.lowerMappedType(m); mapped != nil {
				return mapped
			}
			lw.lowerIndexMember(m, obj)
		}
	}
	return obj
}

func (lw *lowerer) lowerPropertyMember(m *sitter.Node, obj *model.Type, members map[string]*model.Symbol) {
	name := lw.text(m.ChildByFieldName("name"))
	if name == "" {
		return
	}
	sym := &model.Symbol{
		Name:      name,
		Flags:     model.FlagProperty | memberModifiers(m),
		Decls:     []*model.Declaration{declarationOf(lw, m)},
		ValueType: lw.annotatedType(m),
	}
	if prev, ok := members[name]; ok {
		prev.Flags |= sym.Flags
		return
	}
	members[name] = sym
	obj.Props = append(obj.Props, sym)
}

func (lw *lowerer) lowerMethodMember(m *sitter.Node, obj *model.Type, members map[string]*model.Symbol) {
	name := lw.text(m.ChildByFieldName("name"))
	if name == "" {
		return
	}
	sig := lw.lowerSignature(m)
	if prev, ok := members[name]; ok && prev.ValueType != nil && prev.ValueType.Kind == model.KindObjectLit {
		prev.ValueType.CallSigs = append(prev.ValueType.CallSigs, sig)
		return
	}
	sym := &model.Symbol{
		Name:      name,
		Flags:     model.FlagMethod | memberModifiers(m),
		Decls:     []*model.Declaration{declarationOf(lw, m)},
		ValueType: &model.Type{Kind: model.KindObjectLit, CallSigs: []*model.Signature{sig}},
	}
	members[name] = sym
	obj.Props = append(obj.Props, sym)
}

func (lw *lowerer) lowerIndexMember(m *sitter.Node, obj *model.Type) {
	for _, c := range namedChildren(m) {
		switch c.Kind() {
		case "identifier":
			// index parameter name, not needed
		case "type_annotation":
			obj.IndexValue = lw.lowerType(c.NamedChild(0))
		default:
			if obj.IndexKey == nil {
				obj.IndexKey = lw.lowerType(c)
			}
		}
	}
}

// lowerMappedType recognizes `[K in Source]: Value` inside an index
// signature and returns the mapped type, or nil for a plain index.
func (lw *lowerer) lowerMappedType(m *sitter.Node) *model.Type {
	clause := childOfKind(m, "mapped_type_clause")
	if clause == nil {
		return nil
	}
	key := &model.Symbol{Name: lw.text(clause.ChildByFieldName("name")), Flags: model.FlagTypeParameter}
	if key.Name == "" {
		if nc := clause.NamedChild(0); nc != nil {
			key.Name = lw.text(nc)
		}
	}
	mapped := &model.Type{Kind: model.KindMapped, Key: key}
	if src := clause.ChildByFieldName("type"); src != nil {
		mapped.Source = lw.lowerType(src)
	} else if clause.NamedChildCount() > 1 {
		mapped.Source = lw.lowerType(clause.NamedChild(clause.NamedChildCount() - 1))
	}
	if ann := childOfKind(m, "type_annotation"); ann != nil {
		mapped.Value = lw.lowerType(ann.NamedChild(0))
	}
	return mapped
}

// lowerSignature handles the function-shaped nodes that carry their pieces
// as direct children: type_parameters, formal_parameters and an optional
// return type_annotation.
func (lw *lowerer) lowerSignature(n *sitter.Node) *model.Signature {
	sig := &model.Signature{Flags: memberModifiers(n), Decl: declarationOf(lw, n)}
	if tp := childOfKind(n, "type_parameters"); tp != nil {
		sig.TypeParams = lw.lowerTypeParams(tp)
	}
	if fp := childOfKind(n, "formal_parameters"); fp != nil {
		sig.Params = lw.lowerParams(fp)
	}
	if ann := childOfKind(n, "type_annotation"); ann != nil {
		sig.Return = lw.lowerReturn(ann)
	} else if ann := childOfKind(n, "asserts_annotation"); ann != nil {
		sig.Return = &model.Type{Kind: model.KindBoolean}
	}
	return sig
}

// lowerArrowSignature handles function_type / constructor_type, where the
// return type follows `=>` as the last named child.
func (lw *lowerer) lowerArrowSignature(n *sitter.Node) *model.Signature {
	sig := &model.Signature{}
	if tp := childOfKind(n, "type_parameters"); tp != nil {
		sig.TypeParams = lw.lowerTypeParams(tp)
	}
	if fp := childOfKind(n, "formal_parameters"); fp != nil {
		sig.Params = lw.lowerParams(fp)
	}
	if count := n.NamedChildCount(); count > 0 {
		last := n.NamedChild(count - 1)
		if last.Kind() != "formal_parameters" && last.Kind() != "type_parameters" {
			sig.Return = lw.lowerType(last)
		}
	}
	return sig
}

// lowerReturn unwraps a return annotation; type predicates document as
// boolean.
func (lw *lowerer) lowerReturn(ann *sitter.Node) *model.Type {
	inner := ann.NamedChild(0)
	if inner != nil && (inner.Kind() == "type_predicate" || inner.Kind() == "asserts") {
		return &model.Type{Kind: model.KindBoolean}
	}
	return lw.lowerType(inner)
}

func (lw *lowerer) lowerParams(fp *sitter.Node) []*model.Symbol {
	var out []*model.Symbol
	for _, p := range namedChildren(fp) {
		switch p.Kind() {
		case "required_parameter", "optional_parameter":
			out = append(out, lw.lowerParam(p))
		}
	}
	return out
}

func (lw *lowerer) lowerParam(p *sitter.Node) *model.Symbol {
	sym := &model.Symbol{
		Flags: paramModifiers(p),
		Decls: []*model.Declaration{declarationOf(lw, p)},
	}
	if p.Kind() == "optional_parameter" {
		sym.Flags |= model.FlagOptional
	}
	pattern := p.ChildByFieldName("pattern")
	name := lw.text(pattern)
	if pattern != nil && pattern.Kind() == "rest_pattern" {
		sym.Flags |= model.FlagRest
		name = strings.TrimPrefix(name, "...")
	}
	sym.Name = name
	if ann := childOfKind(p, "type_annotation"); ann != nil {
		sym.ValueType = lw.lowerType(ann.NamedChild(0))
	}
	if value := p.ChildByFieldName("value"); value != nil {
		sym.DefaultText = lw.text(value)
		sym.Flags |= model.FlagOptional
	}
	return sym
}

func (lw *lowerer) lowerTypeParams(tp *sitter.Node) []*model.Symbol {
	var out []*model.Symbol
	for _, p := range namedChildren(tp) {
		if p.Kind() != "type_parameter" {
			continue
		}
		sym := &model.Symbol{
			Name:  lw.text(p.ChildByFieldName("name")),
			Flags: model.FlagTypeParameter,
		}
		if con := childOfKind(p, "constraint"); con != nil {
			if nc := con.NamedChild(0); nc != nil {
				sym.Constraint = lw.lowerType(nc)
			}
		}
		if def := childOfKind(p, "default_type"); def != nil {
			if nc := def.NamedChild(0); nc != nil {
				sym.Default = lw.lowerType(nc)
				sym.DefaultText = lw.text(nc)
			}
		}
		out = append(out, sym)
	}
	return out
}

// annotatedType reads a member's declared type; absent annotations are any.
func (lw *lowerer) annotatedType(n *sitter.Node) *model.Type {
	if ann := childOfKind(n, "type_annotation"); ann != nil {
		return lw.lowerType(ann.NamedChild(0))
	}
	return &model.Type{Kind: model.KindAny}
}

// memberModifiers maps modifier tokens to capability flags.
func memberModifiers(n *sitter.Node) model.Flags {
	var flags model.Flags
	for i := uint(0); i < n.ChildCount(); i++ {
		switch n.Child(i).Kind() {
		case "accessibility_modifier":
			flags |= accessibilityFlag(n.Child(i))
		case "static":
			flags |= model.FlagStatic
		case "abstract":
			flags |= model.FlagAbstract
		case "readonly":
			flags |= model.FlagReadonly
		case "?":
			flags |= model.FlagOptional
		case "get":
			flags |= model.FlagGetAccessor
		case "set":
			flags |= model.FlagSetAccessor
		}
	}
	return flags
}

func paramModifiers(p *sitter.Node) model.Flags {
	var flags model.Flags
	for i := uint(0); i < p.ChildCount(); i++ {
		switch p.Child(i).Kind() {
		case "accessibility_modifier":
			flags |= accessibilityFlag(p.Child(i))
		case "readonly":
			flags |= model.FlagReadonly
		}
	}
	return flags
}

func accessibilityFlag(n *sitter.Node) model.Flags {
	switch {
	case hasChildOfKind(n, "private"):
		return model.FlagPrivate
	case hasChildOfKind(n, "protected"):
		return model.FlagProtected
	}
	return model.FlagPublic
}

func declarationOf(lw *lowerer, n *sitter.Node) *model.Declaration {
	return declaration(lw.path, lw.source, n)
}
