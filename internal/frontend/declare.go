package frontend

import (
	sitter "github.com/tree-sitter/go-tree-sitter"

	"getdocs/internal/model"
)

// lowerFile runs the third pass: now that every file's scope is complete,
// the recorded declaration nodes can be lowered into type graphs.
func (b *binder) lowerFile(st *fileState) {
	lw := &lowerer{path: st.path, source: st.source, scope: st.file.Scope}

	// When a function has separate overload signatures, the implementation
	// signature is not part of the public contract.
	overloaded := make(map[*model.Symbol]bool)
	for _, p := range st.pending {
		if p.node.Kind() == "function_signature" {
			overloaded[p.sym] = true
		}
	}

	for _, p := range st.pending {
		switch p.node.Kind() {
		case "class_declaration", "abstract_class_declaration":
			lw.lowerClass(p.sym, p.node)
		case "interface_declaration":
			lw.lowerInterface(p.sym, p.node)
		case "enum_declaration":
			lw.lowerEnum(p.sym, p.node)
		case "type_alias_declaration":
			lw.lowerAlias(p.sym, p.node)
		case "function_signature":
			lw.lowerFunctionOverload(p.sym, p.node)
		case "function_declaration":
			if !overloaded[p.sym] {
				lw.lowerFunctionOverload(p.sym, p.node)
			}
		case "variable_declarator":
			lw.lowerVariable(p.sym, p.node)
		default:
			// export default <expression>
			lw.lowerInitializer(p.sym, p.node)
		}
	}
}

func (lw *lowerer) lowerClass(sym *model.Symbol, node *sitter.Node) {
	if tp := childOfKind(node, "type_parameters"); tp != nil {
		sym.TypeParams = lw.lowerTypeParams(tp)
	}
	if heritage := childOfKind(node, "class_heritage"); heritage != nil {
		if ext := childOfKind(heritage, "extends_clause"); ext != nil {
			refs := lw.lowerHeritage(ext)
			if len(refs) > 0 {
				sym.Extends = refs[0]
				sym.Implements = append(sym.Implements, refs[1:]...)
			}
		}
		if impl := childOfKind(heritage, "implements_clause"); impl != nil {
			for _, c := range namedChildren(impl) {
				sym.Implements = append(sym.Implements, lw.lowerType(c))
			}
		}
	}
	lw.lowerClassBody(sym, node.ChildByFieldName("body"))
}

func (lw *lowerer) lowerClassBody(sym *model.Symbol, body *sitter.Node) {
	if body == nil {
		return
	}
	instance := make(map[string]*model.Symbol)
	statics := make(map[string]*model.Symbol)
	for _, m := range namedChildren(body) {
		switch m.Kind() {
		case "method_definition", "abstract_method_signature", "method_signature":
			lw.lowerClassMethod(sym, m, instance, statics)
		case "public_field_definition", "property_signature":
			lw.lowerClassField(sym, m, instance, statics)
		}
	}
}

func (lw *lowerer) lowerClassMethod(sym *model.Symbol, m *sitter.Node, instance, statics map[string]*model.Symbol) {
	name := lw.text(m.ChildByFieldName("name"))
	if name == "" {
		return
	}
	mods := memberModifiers(m)
	if name == "constructor" {
		sym.Ctors = append(sym.Ctors, lw.lowerSignature(m))
		return
	}

	bucket, list := instance, &sym.Members
	if mods.Has(model.FlagStatic) {
		bucket, list = statics, &sym.Statics
	}

	switch {
	case mods.Has(model.FlagGetAccessor):
		member := lw.mergeMember(bucket, list, name, mods, m)
		if ret := childOfKind(m, "type_annotation"); ret != nil {
			member.ValueType = lw.lowerReturn(ret)
		}
	case mods.Has(model.FlagSetAccessor):
		member := lw.mergeMember(bucket, list, name, mods, m)
		if member.ValueType == nil {
			if fp := childOfKind(m, "formal_parameters"); fp != nil {
				if params := lw.lowerParams(fp); len(params) > 0 {
					member.ValueType = params[0].ValueType
				}
			}
		}
	default:
		sig := lw.lowerSignature(m)
		if prev, ok := bucket[name]; ok && prev.Flags.Has(model.FlagMethod) {
			prev.ValueType.CallSigs = append(prev.ValueType.CallSigs, sig)
			return
		}
		member := &model.Symbol{
			Name:      name,
			Flags:     model.FlagMethod | mods,
			Decls:     []*model.Declaration{declarationOf(lw, m)},
			ValueType: &model.Type{Kind: model.KindObjectLit, CallSigs: []*model.Signature{sig}},
		}
		bucket[name] = member
		*list = append(*list, member)
	}
}

// mergeMember fuses get/set accessor declarations of one name into a single
// property-like symbol carrying both flags.
func (lw *lowerer) mergeMember(bucket map[string]*model.Symbol, list *[]*model.Symbol, name string, mods model.Flags, m *sitter.Node) *model.Symbol {
	if prev, ok := bucket[name]; ok {
		prev.Flags |= mods
		return prev
	}
	member := &model.Symbol{
		Name:  name,
		Flags: mods,
		Decls: []*model.Declaration{declarationOf(lw, m)},
	}
	bucket[name] = member
	*list = append(*list, member)
	return member
}

func (lw *lowerer) lowerClassField(sym *model.Symbol, m *sitter.Node, instance, statics map[string]*model.Symbol) {
	name := lw.text(m.ChildByFieldName("name"))
	if name == "" {
		return
	}
	mods := memberModifiers(m)
	member := &model.Symbol{
		Name:  name,
		Flags: model.FlagProperty | mods,
		Decls: []*model.Declaration{declarationOf(lw, m)},
	}
	if ann := childOfKind(m, "type_annotation"); ann != nil {
		member.ValueType = lw.lowerType(ann.NamedChild(0))
	} else if value := m.ChildByFieldName("value"); value != nil {
		member.ValueType = lw.lowerInitializerType(value)
	}
	if mods.Has(model.FlagStatic) {
		if _, ok := statics[name]; !ok {
			statics[name] = member
			sym.Statics = append(sym.Statics, member)
		}
		return
	}
	if _, ok := instance[name]; !ok {
		instance[name] = member
		sym.Members = append(sym.Members, member)
	}
}

// lowerHeritage reads the extends side of a class heritage clause, where the
// supertype appears as an expression, possibly followed by type arguments.
func (lw *lowerer) lowerHeritage(ext *sitter.Node) []*model.Type {
	var out []*model.Type
	for _, c := range namedChildren(ext) {
		switch c.Kind() {
		case "type_arguments":
			if len(out) == 0 {
				continue
			}
			last := out[len(out)-1]
			for _, a := range namedChildren(c) {
				last.Args = append(last.Args, lw.lowerType(a))
			}
		case "generic_type":
			out = append(out, lw.lowerType(c))
		case "identifier", "type_identifier":
			out = append(out, lw.ref(lw.text(c)))
		case "member_expression", "nested_type_identifier":
			out = append(out, &model.Type{Kind: model.KindRef, Name: lw.text(c)})
		}
	}
	return out
}

func (lw *lowerer) lowerInterface(sym *model.Symbol, node *sitter.Node) {
	if tp := childOfKind(node, "type_parameters"); tp != nil {
		sym.TypeParams = lw.lowerTypeParams(tp)
	}
	if ext := childOfKind(node, "extends_type_clause"); ext != nil {
		for i, c := range namedChildren(ext) {
			t := lw.lowerType(c)
			if i == 0 {
				sym.Extends = t
			} else {
				sym.Implements = append(sym.Implements, t)
			}
		}
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	obj := lw.lowerObjectType(body)
	sym.Members = obj.Props
	sym.Ctors = obj.NewSigs
}

func (lw *lowerer) lowerEnum(sym *model.Symbol, node *sitter.Node) {
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for _, m := range namedChildren(body) {
		switch m.Kind() {
		case "property_identifier":
			sym.Members = append(sym.Members, &model.Symbol{
				Name:      lw.text(m),
				Flags:     model.FlagEnumMember,
				Decls:     []*model.Declaration{declarationOf(lw, m)},
				ValueType: &model.Type{Kind: model.KindNumber},
			})
		case "enum_assignment":
			member := &model.Symbol{
				Name:  lw.text(m.ChildByFieldName("name")),
				Flags: model.FlagEnumMember,
				Decls: []*model.Declaration{declarationOf(lw, m)},
			}
			member.ValueType = &model.Type{Kind: model.KindNumber}
			if value := m.ChildByFieldName("value"); value != nil {
				switch value.Kind() {
				case "number", "string", "true", "false":
					member.ValueType = &model.Type{Kind: model.KindLiteral, Literal: lw.text(value)}
				}
			}
			sym.Members = append(sym.Members, member)
		}
	}
}

func (lw *lowerer) lowerAlias(sym *model.Symbol, node *sitter.Node) {
	if tp := childOfKind(node, "type_parameters"); tp != nil {
		sym.TypeParams = lw.lowerTypeParams(tp)
	}
	sym.DeclaredType = lw.lowerType(node.ChildByFieldName("value"))
}

func (lw *lowerer) lowerFunctionOverload(sym *model.Symbol, node *sitter.Node) {
	sig := lw.lowerSignature(node)
	if sym.ValueType == nil {
		sym.ValueType = &model.Type{Kind: model.KindObjectLit}
	}
	sym.ValueType.CallSigs = append(sym.ValueType.CallSigs, sig)
}

func (lw *lowerer) lowerVariable(sym *model.Symbol, d *sitter.Node) {
	if ann := childOfKind(d, "type_annotation"); ann != nil {
		sym.ValueType = lw.lowerType(ann.NamedChild(0))
		return
	}
	if value := d.ChildByFieldName("value"); value != nil {
		lw.lowerInitializer(sym, value)
	}
}

func (lw *lowerer) lowerInitializer(sym *model.Symbol, value *sitter.Node) {
	sym.ValueType = lw.lowerInitializerType(value)
}

// lowerInitializerType derives a type from an initializer expression; only
// the syntactically obvious cases are covered, anything else is any.
func (lw *lowerer) lowerInitializerType(value *sitter.Node) *model.Type {
	switch value.Kind() {
	case "arrow_function", "function_expression", "function", "generator_function":
		return &model.Type{Kind: model.KindObjectLit, CallSigs: []*model.Signature{lw.lowerSignature(value)}}
	case "number", "string", "true", "false":
		return &model.Type{Kind: model.KindLiteral, Literal: lw.text(value)}
	case "template_string":
		return &model.Type{Kind: model.KindString}
	case "new_expression":
		if ctor := value.ChildByFieldName("constructor"); ctor != nil {
			return lw.ref(lw.text(ctor))
		}
	case "as_expression":
		if count := value.NamedChildCount(); count > 1 {
			return lw.lowerType(value.NamedChild(count - 1))
		}
	}
	return &model.Type{Kind: model.KindAny}
}
