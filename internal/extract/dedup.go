package extract

import (
	"getdocs/internal/model"
)

// dedupArgs resolves a reference's type arguments and elides the trailing
// run that merely restates parameter defaults. Scanning right to left, a
// parameter without a default ends the scan; a resolved argument that is
// structurally equal to its parameter's default (evaluated with the earlier
// parameters bound to the supplied arguments) is dropped, a mismatch ends
// the scan.
func (cx Context) dedupArgs(params []*model.Symbol, args []*model.Type) ([]*TypeDescription, error) {
	if len(args) == 0 {
		return nil, nil
	}
	descs := make([]*TypeDescription, len(args))
	for i, arg := range args {
		d, err := cx.resolveType(arg, nil)
		if err != nil {
			return nil, err
		}
		descs[i] = d
	}

	keep := len(descs)
	for i := len(descs) - 1; i >= 0; i-- {
		if i >= len(params) || params[i].Default == nil {
			break
		}
		scopes := make([]typeParamScope, 0, i)
		for j := 0; j < i && j < len(descs); j++ {
			scopes = append(scopes, typeParamScope{
				name:  params[j].Name,
				id:    cx.path + sepStatic + params[j].Name,
				bound: descs[j],
			})
		}
		def, err := cx.WithTypeParameters(scopes).resolveType(params[i].Default, nil)
		if err != nil {
			return nil, err
		}
		if !sameType(descs[i], def) {
			break
		}
		keep = i
	}
	return descs[:keep], nil
}

// sameType is structural equality over description trees, deep enough to
// compare instantiated defaults: tag, sources, arguments, properties and
// signatures. Bindings (descriptions, locations) do not participate.
func sameType(a, b *TypeDescription) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Type != b.Type || a.TypeSource != b.TypeSource || a.TypeParamSource != b.TypeParamSource {
		return false
	}
	if !sameTypeList(a.TypeArgs, b.TypeArgs) {
		return false
	}
	if !sameItemMap(a.Properties, b.Properties) || !sameItemMap(a.StaticProperties, b.StaticProperties) {
		return false
	}
	if !sameSignatureList(a.Signatures, b.Signatures) {
		return false
	}
	return true
}

func sameTypeList(a, b []*TypeDescription) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameType(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameItemMap(a, b *ItemMap) bool {
	if a.Len() != b.Len() {
		return false
	}
	if a.Len() == 0 {
		return true
	}
	for i, key := range a.keys {
		if b.keys[i] != key {
			return false
		}
		ai, bi := a.items[key], b.items[key]
		if ai.Optional != bi.Optional || ai.Readonly != bi.Readonly {
			return false
		}
		if !sameType(&ai.TypeDescription, &bi.TypeDescription) {
			return false
		}
	}
	return true
}

func sameSignatureList(a, b []*Signature) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !sameSignature(a[i], b[i]) {
			return false
		}
	}
	return true
}

func sameSignature(a, b *Signature) bool {
	if len(a.Params) != len(b.Params) || len(a.TypeParams) != len(b.TypeParams) {
		return false
	}
	for i := range a.Params {
		if !sameParameter(a.Params[i], b.Params[i]) {
			return false
		}
	}
	for i := range a.TypeParams {
		if !sameParameter(a.TypeParams[i], b.TypeParams[i]) {
			return false
		}
	}
	return sameType(a.Returns, b.Returns)
}

func sameParameter(a, b *Parameter) bool {
	if a.Optional != b.Optional || a.Rest != b.Rest {
		return false
	}
	return sameType(&a.TypeDescription, &b.TypeDescription)
}
