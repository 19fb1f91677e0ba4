package extract

import (
	"strings"

	"getdocs/internal/model"
)

// assemble builds the full structural description of a class or interface:
// type parameters, heritage, constructor, instance members, statics.
func (cx Context) assemble(sym *model.Symbol, isInterface bool) (*TypeDescription, error) {
	tag := "class"
	if isInterface {
		tag = "interface"
	}
	desc := &TypeDescription{Type: tag}

	scopes, tps, err := cx.typeParamScopes(sym.TypeParams)
	if err != nil {
		return nil, err
	}
	acx := cx.WithTypeParameters(scopes)
	desc.TypeParams = tps

	if sym.Extends != nil {
		extends, err := acx.resolveType(sym.Extends, nil)
		if err != nil {
			return nil, err
		}
		desc.Extends = extends
	}
	for _, imp := range sym.Implements {
		resolved, err := acx.resolveType(imp, nil)
		if err != nil {
			return nil, err
		}
		desc.Implements = append(desc.Implements, resolved)
	}
	var promoted []*model.Symbol
	if len(sym.Ctors) > 0 && !isInterface {
		ctor, params, err := acx.constructor(sym)
		if err != nil {
			return nil, err
		}
		desc.Construct = ctor
		promoted = params
	}

	props := NewItemMap()
	declared := make(map[string]bool, len(sym.Members))
	for _, m := range sym.Members {
		declared[m.Name] = true
		item, err := acx.member(m, sepMember)
		if err != nil {
			return nil, err
		}
		if item != nil {
			props.Set(m.Name, item)
		}
	}
	// A member that is only inherited, never redeclared, shows up when its
	// own declaration carries documentation.
	for _, m := range inheritedMembers(sym) {
		if declared[m.Name] || Normalize(m.Declaration()) == "" {
			continue
		}
		item, err := acx.member(m, sepMember)
		if err != nil {
			return nil, err
		}
		if item != nil {
			props.Set(m.Name, item)
		}
	}
	for _, p := range promoted {
		item, err := acx.paramProperty(p)
		if err != nil {
			return nil, err
		}
		if item != nil {
			props.Set(p.Name, item)
		}
	}
	if props.Len() > 0 {
		desc.Properties = props
	}

	statics := NewItemMap()
	for _, s := range sym.Statics {
		item, err := acx.member(s, sepStatic)
		if err != nil {
			return nil, err
		}
		if item != nil {
			statics.Set(s.Name, item)
		}
	}
	if statics.Len() > 0 {
		desc.StaticProperties = statics
	}
	return desc, nil
}

// constructor picks the first overload visible to consumers as canonical
// (its declaration supplies documentation and location) and renders all
// visible overloads as construct signatures. Return types are omitted, a
// constructor yields its class. Also reports the canonical overload's
// promoted parameter properties.
func (acx Context) constructor(sym *model.Symbol) (*Item, []*model.Symbol, error) {
	var kept []*model.Signature
	for _, sig := range sym.Ctors {
		if sig.Flags.Has(model.FlagPrivate | model.FlagProtected) {
			continue
		}
		if sig.Decl != nil && strings.Contains(Normalize(sig.Decl), internalMarker) {
			continue
		}
		kept = append(kept, sig)
	}
	if len(kept) == 0 {
		return nil, nil, nil
	}

	ccx := acx.Extend("constructor", sepMember)
	sigs := make([]*Signature, 0, len(kept))
	for _, sig := range kept {
		s, err := ccx.resolveSignature(sig, false)
		if err != nil {
			return nil, nil, err
		}
		sigs = append(sigs, s)
	}

	canonical := kept[0]
	binding := Binding{Kind: KindConstructor, ID: ccx.path}
	if canonical.Decl != nil {
		binding.Description = Normalize(canonical.Decl)
		loc := canonical.Decl.Loc
		binding.Loc = &loc
	}
	item := &Item{
		Binding:         binding,
		TypeDescription: TypeDescription{Type: "Function", Signatures: sigs},
	}

	var promoted []*model.Symbol
	for _, p := range canonical.Params {
		if p.Flags.Has(model.FlagPublic | model.FlagPrivate | model.FlagProtected | model.FlagReadonly) {
			promoted = append(promoted, p)
		}
	}
	return item, promoted, nil
}

// paramProperty turns a constructor parameter with an accessibility or
// readonly modifier into an instance property item.
func (acx Context) paramProperty(p *model.Symbol) (*Item, error) {
	if hidden(p) {
		return nil, nil
	}
	pcx := acx.Extend(p.Name, sepMember)
	binding := pcx.binding(KindProperty, p)
	desc, err := pcx.resolveType(p.ValueType, nil)
	if err != nil {
		return nil, err
	}
	return &Item{Binding: binding, TypeDescription: *desc}, nil
}

// inheritedMembers collects the members reachable through the heritage graph
// in nearest-ancestor order, one symbol per name, cycle-safe.
func inheritedMembers(sym *model.Symbol) []*model.Symbol {
	var out []*model.Symbol
	byName := make(map[string]bool)
	seen := map[*model.Symbol]bool{sym: true}
	var walk func(t *model.Type)
	walk = func(t *model.Type) {
		if t == nil || t.Symbol == nil {
			return
		}
		s := t.Symbol
		for s.Flags.Has(model.FlagAlias) && s.Target != nil {
			s = s.Target
		}
		if seen[s] {
			return
		}
		seen[s] = true
		for _, m := range s.Members {
			if !byName[m.Name] {
				byName[m.Name] = true
				out = append(out, m)
			}
		}
		walk(s.Extends)
		for _, imp := range s.Implements {
			walk(imp)
		}
	}
	walk(sym.Extends)
	for _, imp := range sym.Implements {
		walk(imp)
	}
	return out
}

// assembleEnum renders an enum as an object of enum-member items in
// declaration order.
func (cx Context) assembleEnum(sym *model.Symbol) (*TypeDescription, error) {
	desc := &TypeDescription{Type: "enum"}
	props := NewItemMap()
	for _, m := range sym.Members {
		item, err := cx.member(m, sepMember)
		if err != nil {
			return nil, err
		}
		if item != nil {
			props.Set(m.Name, item)
		}
	}
	if props.Len() > 0 {
		desc.Properties = props
	}
	return desc, nil
}
