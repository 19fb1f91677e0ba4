package extract

import (
	"getdocs/internal/core/errors"
	"getdocs/internal/model"
)

// resolveType converts a type value into a tagged description tree. forSym
// disambiguates a symbol's self-type from a structural use of the same type:
// at the alias's own declaration site the body is expanded, everywhere else
// an available alias stays a bare reference.
func (cx Context) resolveType(t *model.Type, forSym *model.Symbol) (*TypeDescription, error) {
	if t == nil {
		return &TypeDescription{Type: "any"}, nil
	}
	switch t.Kind {
	case model.KindAny:
		return &TypeDescription{Type: "any"}, nil
	case model.KindUnknown:
		return &TypeDescription{Type: "unknown"}, nil
	case model.KindNever:
		return &TypeDescription{Type: "never"}, nil
	case model.KindString:
		return &TypeDescription{Type: "string"}, nil
	case model.KindNumber:
		return &TypeDescription{Type: "number"}, nil
	case model.KindBoolean:
		return &TypeDescription{Type: "boolean"}, nil
	case model.KindNull:
		return &TypeDescription{Type: "null"}, nil
	case model.KindUndefined:
		return &TypeDescription{Type: "undefined"}, nil
	case model.KindObjectKeyword:
		return &TypeDescription{Type: "object"}, nil
	case model.KindLiteral:
		return &TypeDescription{Type: t.Literal}, nil
	case model.KindUnion:
		return cx.resolveUnion(t)
	case model.KindIntersection:
		members, err := cx.resolveMembers(t.Members)
		if err != nil {
			return nil, err
		}
		return &TypeDescription{Type: "intersection", TypeArgs: members}, nil
	case model.KindTypeParamRef:
		return cx.resolveTypeParam(t.Name)
	case model.KindKeyof:
		operand, err := cx.resolveType(t.Operand, nil)
		if err != nil {
			return nil, err
		}
		return &TypeDescription{Type: "keyof", TypeArgs: []*TypeDescription{operand}}, nil
	case model.KindIndexed:
		object, err := cx.resolveType(t.Object, nil)
		if err != nil {
			return nil, err
		}
		index, err := cx.resolveType(t.Index, nil)
		if err != nil {
			return nil, err
		}
		return &TypeDescription{Type: "indexed", TypeArgs: []*TypeDescription{object, index}}, nil
	case model.KindConditional:
		// Branches come from the syntactic node, so no branch has been
		// selected prematurely.
		operands := [4]*model.Type{t.Check, t.ExtendsType, t.True, t.False}
		resolved := make([]*TypeDescription, 0, 4)
		for _, op := range operands {
			d, err := cx.resolveType(op, nil)
			if err != nil {
				return nil, err
			}
			resolved = append(resolved, d)
		}
		return &TypeDescription{Type: "conditional", TypeArgs: resolved}, nil
	case model.KindTuple:
		elems, err := cx.resolveMembers(t.Elems)
		if err != nil {
			return nil, err
		}
		return &TypeDescription{Type: "tuple", TypeArgs: elems}, nil
	case model.KindMapped:
		return cx.resolveMapped(t)
	case model.KindTypeof:
		name := t.Name
		if t.Symbol != nil {
			name = t.Symbol.Name
		}
		inner := &TypeDescription{Type: name, TypeSource: cx.run.typeSource(t.Symbol)}
		return &TypeDescription{Type: "typeof", TypeArgs: []*TypeDescription{inner}}, nil
	case model.KindRef:
		return cx.resolveRef(t, forSym)
	case model.KindObjectLit:
		return cx.resolveObject(t)
	}
	return nil, errors.New(errors.CodeUnsupportedType, "type matches no resolver case").
		WithContext(errors.CtxType, t.String()).
		WithContext(errors.CtxFlags, int(t.Kind))
}

func (cx Context) resolveMembers(members []*model.Type) ([]*TypeDescription, error) {
	out := make([]*TypeDescription, 0, len(members))
	for _, m := range members {
		d, err := cx.resolveType(m, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// resolveUnion keeps the declared member order, collapses a true/false
// literal pair into one boolean member, and stable-moves null/undefined
// members to the end.
func (cx Context) resolveUnion(t *model.Type) (*TypeDescription, error) {
	members, err := cx.resolveMembers(t.Members)
	if err != nil {
		return nil, err
	}

	hasTrue, hasFalse := false, false
	for _, m := range members {
		if m.TypeSource != "" {
			continue
		}
		switch m.Type {
		case "true":
			hasTrue = true
		case "false":
			hasFalse = true
		}
	}
	if hasTrue && hasFalse {
		merged := make([]*TypeDescription, 0, len(members)-1)
		replaced := false
		for _, m := range members {
			if m.TypeSource == "" && (m.Type == "true" || m.Type == "false") {
				if !replaced {
					merged = append(merged, &TypeDescription{Type: "boolean"})
					replaced = true
				}
				continue
			}
			merged = append(merged, m)
		}
		members = merged
	}

	ordered := make([]*TypeDescription, 0, len(members))
	var trailing []*TypeDescription
	for _, m := range members {
		if m.TypeSource == "" && (m.Type == "null" || m.Type == "undefined") {
			trailing = append(trailing, m)
			continue
		}
		ordered = append(ordered, m)
	}
	ordered = append(ordered, trailing...)

	return &TypeDescription{Type: "union", TypeArgs: ordered}, nil
}

func (cx Context) resolveTypeParam(name string) (*TypeDescription, error) {
	scope, ok := cx.lookupParam(name)
	if !ok {
		return nil, errors.New(errors.CodeUnsupportedType, "type parameter escaped its scope").
			WithContext(errors.CtxType, name)
	}
	if scope.bound != nil {
		copied := *scope.bound
		return &copied, nil
	}
	return &TypeDescription{Type: name, TypeParamSource: scope.id}, nil
}

// resolveMapped resolves the declared key parameter, then the value type
// with the key in scope.
func (cx Context) resolveMapped(t *model.Type) (*TypeDescription, error) {
	if t.Key == nil {
		return nil, errors.New(errors.CodeMissingDeclaration, "mapped type has no key parameter")
	}
	keyID := cx.path + sepStatic + t.Key.Name
	source, err := cx.resolveType(t.Source, nil)
	if err != nil {
		return nil, err
	}
	key := &Parameter{TypeDescription: *source, Name: t.Key.Name, ID: keyID}
	vcx := cx.withOnlyTypeParameters([]typeParamScope{{name: t.Key.Name, id: keyID}})
	value, err := vcx.resolveType(t.Value, nil)
	if err != nil {
		return nil, err
	}
	return &TypeDescription{Type: "mapped", Key: key, TypeArgs: []*TypeDescription{value}}, nil
}

// resolveRef handles a nominal reference. An in-scope type parameter of the
// same name shadows the nominal meaning; an available target stays a bare
// reference with deduplicated arguments; a local unexported alias or nominal
// type is expanded instead.
func (cx Context) resolveRef(t *model.Type, forSym *model.Symbol) (*TypeDescription, error) {
	if len(t.Args) == 0 {
		if scope, ok := cx.lookupParam(t.Name); ok {
			if scope.bound != nil {
				copied := *scope.bound
				return &copied, nil
			}
			return &TypeDescription{Type: t.Name, TypeParamSource: scope.id}, nil
		}
	}

	sym := t.Symbol
	for sym != nil && sym.Flags.Has(model.FlagAlias) && sym.Target != nil {
		sym = sym.Target
	}
	if sym == nil {
		// Builtin or unresolved external: name only, no declaring source.
		args, err := cx.resolveMembers(t.Args)
		if err != nil {
			return nil, err
		}
		return &TypeDescription{Type: t.Name, TypeArgs: args}, nil
	}

	switch {
	case sym.Flags.Has(model.FlagTypeAlias):
		if cx.run.isAvailable(sym) && sym != forSym {
			return cx.reference(sym, t.Args)
		}
		return cx.expandAlias(sym, t.Args)
	case sym.Flags.Has(model.FlagClass | model.FlagInterface | model.FlagEnum):
		if cx.run.isAvailable(sym) {
			return cx.reference(sym, t.Args)
		}
		// A nominal body already being inlined higher up the stack collapses
		// to a bare Object, the same escape as a structural cycle.
		if cx.run.inlining(sym) {
			return &TypeDescription{Type: "Object"}, nil
		}
		pop := cx.run.pushInline(sym)
		defer pop()
		if sym.Flags.Has(model.FlagEnum) {
			return cx.assembleEnum(sym)
		}
		return cx.assemble(sym, sym.Flags.Has(model.FlagInterface))
	case sym.Flags.Has(model.FlagTypeParameter):
		return cx.resolveTypeParam(sym.Name)
	default:
		return cx.reference(sym, t.Args)
	}
}

// reference emits a bare reference with trailing default-equal type
// arguments elided.
func (cx Context) reference(sym *model.Symbol, args []*model.Type) (*TypeDescription, error) {
	deduped, err := cx.dedupArgs(sym.TypeParams, args)
	if err != nil {
		return nil, err
	}
	return &TypeDescription{
		Type:       sym.Name,
		TypeSource: cx.run.typeSource(sym),
		TypeArgs:   deduped,
	}, nil
}

// expandAlias inlines the body of an unavailable alias, binding its type
// parameters to the resolved arguments (or their defaults, evaluated left to
// right so later defaults can reference earlier parameters).
func (cx Context) expandAlias(sym *model.Symbol, args []*model.Type) (*TypeDescription, error) {
	if sym.DeclaredType == nil {
		return nil, errors.New(errors.CodeMissingDeclaration, "type alias has no declared type").
			WithContext(errors.CtxSymbol, sym.Name)
	}
	if cx.run.inlining(sym) {
		return &TypeDescription{Type: "Object"}, nil
	}
	pop := cx.run.pushInline(sym)
	defer pop()

	scopes := make([]typeParamScope, 0, len(sym.TypeParams))
	for i, tp := range sym.TypeParams {
		var bound *TypeDescription
		var err error
		switch {
		case i < len(args):
			bound, err = cx.resolveType(args[i], nil)
		case tp.Default != nil:
			bound, err = cx.WithTypeParameters(scopes).resolveType(tp.Default, nil)
		default:
			bound = &TypeDescription{Type: "any"}
		}
		if err != nil {
			return nil, err
		}
		scopes = append(scopes, typeParamScope{name: tp.Name, id: cx.path + sepStatic + tp.Name, bound: bound})
	}
	return cx.WithTypeParameters(scopes).resolveType(sym.DeclaredType, sym)
}

// resolveObject handles the structural category: callable shapes become
// Function nodes, everything else a generic Object guarded against
// structural self-reference.
func (cx Context) resolveObject(t *model.Type) (*TypeDescription, error) {
	if len(t.Props) == 0 && t.IndexValue == nil && len(t.CallSigs)+len(t.NewSigs) > 0 {
		sigs, err := cx.resolveSignatures(t.CallSigs, t.NewSigs, true)
		if err != nil {
			return nil, err
		}
		return &TypeDescription{Type: "Function", Signatures: sigs}, nil
	}

	// Re-entering a type already being resolved short-circuits to a bare
	// Object, breaking structural self-reference cycles.
	if cx.run.onStack(t) {
		return &TypeDescription{Type: "Object"}, nil
	}
	pop := cx.run.push(t)
	defer pop()

	desc := &TypeDescription{Type: "Object"}

	props := NewItemMap()
	for _, p := range t.Props {
		item, err := cx.member(p, sepMember)
		if err != nil {
			return nil, err
		}
		if item == nil {
			continue
		}
		props.Set(p.Name, item)
	}

	if t.IndexValue != nil {
		key, err := cx.resolveType(t.IndexKey, nil)
		if err != nil {
			return nil, err
		}
		value, err := cx.resolveType(t.IndexValue, nil)
		if err != nil {
			return nil, err
		}
		if props.Len() == 0 && len(t.CallSigs)+len(t.NewSigs) == 0 {
			// Index-only object: Object with the value type as its single
			// argument, not a property map.
			desc.TypeArgs = []*TypeDescription{value}
			return desc, nil
		}
		name := "[" + key.Type + "]"
		bcx := cx.Extend(name, sepMember)
		props.Set(name, &Item{
			Binding:         Binding{Kind: KindProperty, ID: bcx.path},
			TypeDescription: *value,
		})
	}

	if props.Len() > 0 {
		desc.Properties = props
	}
	if len(t.CallSigs)+len(t.NewSigs) > 0 {
		sigs, err := cx.resolveSignatures(t.CallSigs, t.NewSigs, true)
		if err != nil {
			return nil, err
		}
		desc.Signatures = sigs
	}
	return desc, nil
}

func (cx Context) resolveSignatures(calls, news []*model.Signature, includeReturn bool) ([]*Signature, error) {
	out := make([]*Signature, 0, len(calls)+len(news))
	for _, sig := range calls {
		s, err := cx.resolveSignature(sig, includeReturn)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	for _, sig := range news {
		s, err := cx.resolveSignature(sig, includeReturn)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// resolveSignature flattens one overload: per-signature type parameters,
// parameters, and (optionally) the return type.
func (cx Context) resolveSignature(sig *model.Signature, includeReturn bool) (*Signature, error) {
	scx := cx
	var tps []*Parameter
	if len(sig.TypeParams) > 0 {
		scopes, params, err := cx.typeParamScopes(sig.TypeParams)
		if err != nil {
			return nil, err
		}
		scx = cx.WithTypeParameters(scopes)
		tps = params
	}
	params := make([]*Parameter, 0, len(sig.Params))
	for _, p := range sig.Params {
		param, err := scx.parameter(p)
		if err != nil {
			return nil, err
		}
		params = append(params, param)
	}
	out := &Signature{TypeParams: tps, Params: params}
	if includeReturn && sig.Return != nil {
		ret, err := scx.resolveType(sig.Return, nil)
		if err != nil {
			return nil, err
		}
		out.Returns = ret
	}
	return out, nil
}

func (cx Context) parameter(p *model.Symbol) (*Parameter, error) {
	desc, err := cx.resolveType(p.ValueType, nil)
	if err != nil {
		return nil, err
	}
	return &Parameter{
		TypeDescription: *desc,
		Name:            p.Name,
		ID:              cx.path + sepStatic + p.Name,
		Optional:        p.Flags.Has(model.FlagOptional),
		Rest:            p.Flags.Has(model.FlagRest),
		Default:         p.DefaultText,
	}, nil
}

// typeParamScopes opens scopes for a parameter list and renders the
// parameter descriptions; constraints and defaults may reference sibling
// parameters, so they resolve under the extended scope.
func (cx Context) typeParamScopes(tps []*model.Symbol) ([]typeParamScope, []*Parameter, error) {
	if len(tps) == 0 {
		return nil, nil, nil
	}
	scopes := make([]typeParamScope, len(tps))
	for i, tp := range tps {
		scopes[i] = typeParamScope{name: tp.Name, id: cx.path + sepStatic + tp.Name}
	}
	ecx := cx.WithTypeParameters(scopes)
	params := make([]*Parameter, 0, len(tps))
	for _, tp := range tps {
		param := &Parameter{Name: tp.Name, ID: cx.path + sepStatic + tp.Name, Default: tp.DefaultText}
		if tp.Constraint != nil {
			constraint, err := ecx.resolveType(tp.Constraint, nil)
			if err != nil {
				return nil, nil, err
			}
			param.TypeDescription = *constraint
		}
		params = append(params, param)
	}
	return scopes, params, nil
}
