package extract

import (
	"path/filepath"
	"sort"

	"getdocs/internal/core/errors"
	"getdocs/internal/model"
)

// Request names one source unit to process. BaseDir anchors typeSource paths
// and the availability boundary; empty means the unit's own directory.
type Request struct {
	SourcePath string
	BaseDir    string
}

// Gather produces the ordered item map for one source unit. Exports are
// visited in declaration order (file, then position), so the same model
// always serializes to the same bytes. Errors are fatal for the whole call.
func Gather(m *model.Model, req Request) (*ItemMap, error) {
	unit := m.Unit(req.SourcePath)
	if unit == nil {
		return nil, errors.New(errors.CodeUnitNotFound, "source unit not part of the model").
			WithContext(errors.CtxPath, req.SourcePath)
	}
	baseDir := req.BaseDir
	if baseDir == "" {
		baseDir = filepath.Dir(req.SourcePath)
	}
	r := &run{
		model:     m,
		unit:      unit,
		baseDir:   baseDir,
		available: availableClosure(unit),
	}
	cx := Context{run: r}

	exports := append([]*model.Symbol(nil), unit.Exports...)
	sort.SliceStable(exports, func(i, j int) bool {
		return declBefore(exports[i], exports[j])
	})

	items := NewItemMap()
	for _, sym := range exports {
		item, err := cx.Extend(sym.Name, sepMember).item(sym)
		if err != nil {
			return nil, errors.AddContext(err, errors.CtxPath, unit.Path)
		}
		if item != nil {
			items.Set(sym.Name, item)
		}
	}
	return items, nil
}

// GatherMany processes several units against one shared model, preserving
// request order. The recursion guard and availability closure are per call,
// so units do not leak state into each other.
func GatherMany(m *model.Model, reqs []Request) ([]*ItemMap, error) {
	out := make([]*ItemMap, 0, len(reqs))
	for _, req := range reqs {
		items, err := Gather(m, req)
		if err != nil {
			return nil, err
		}
		out = append(out, items)
	}
	return out, nil
}

// availableClosure marks every symbol reachable from the unit's export list,
// following alias targets, as referencable by name.
func availableClosure(unit *model.File) map[*model.Symbol]bool {
	available := make(map[*model.Symbol]bool)
	var add func(*model.Symbol)
	add = func(s *model.Symbol) {
		if s == nil || available[s] {
			return
		}
		available[s] = true
		if s.Flags.Has(model.FlagAlias) {
			add(s.Target)
		}
	}
	for _, s := range unit.Exports {
		add(s)
	}
	return available
}

func declBefore(a, b *model.Symbol) bool {
	da, db := a.Declaration(), b.Declaration()
	switch {
	case da == nil && db == nil:
		return a.Name < b.Name
	case da == nil:
		return false
	case db == nil:
		return true
	}
	if da.File != db.File {
		return da.File < db.File
	}
	if da.Loc.Line != db.Loc.Line {
		return da.Loc.Line < db.Loc.Line
	}
	return da.Loc.Column < db.Loc.Column
}

// item builds the output entry for one symbol at the context's current id
// path. Returns (nil, nil) for excluded symbols.
func (cx Context) item(sym *model.Symbol) (*Item, error) {
	cls, err := cx.classify(sym)
	if err != nil {
		return nil, err
	}
	if cls.excluded {
		return nil, nil
	}

	if cls.kind == KindReexport {
		// Location and documentation come from the exporting alias, the
		// type points at the original declaration.
		binding := cx.binding(KindReexport, sym)
		return &Item{
			Binding: binding,
			TypeDescription: TypeDescription{
				Type:       cls.sym.Name,
				TypeSource: cx.run.typeSource(cls.sym),
			},
		}, nil
	}

	resolved := cls.sym
	binding := cx.binding(cls.kind, resolved)

	var desc *TypeDescription
	switch cls.kind {
	case KindClass, KindInterface:
		desc, err = cx.assemble(resolved, cls.kind == KindInterface)
	case KindEnum:
		desc, err = cx.assembleEnum(resolved)
	case KindTypeAlias:
		desc, err = cx.aliasItem(resolved)
	default:
		t := resolved.ValueType
		if t == nil {
			t = resolved.DeclaredType
		}
		desc, err = cx.resolveType(t, resolved)
	}
	if err != nil {
		return nil, err
	}
	return &Item{Binding: binding, TypeDescription: *desc}, nil
}

// aliasItem renders an alias declaration itself: the body is expanded (a
// bare self-reference would say nothing) under the alias's own parameters.
func (cx Context) aliasItem(sym *model.Symbol) (*TypeDescription, error) {
	scopes, tps, err := cx.typeParamScopes(sym.TypeParams)
	if err != nil {
		return nil, err
	}
	body, err := cx.WithTypeParameters(scopes).resolveType(sym.DeclaredType, sym)
	if err != nil {
		return nil, err
	}
	if len(tps) > 0 {
		body.TypeParams = tps
	}
	return body, nil
}

// member builds the item for a member symbol one path segment below cx.
func (cx Context) member(sym *model.Symbol, sep string) (*Item, error) {
	return cx.Extend(sym.Name, sep).item(sym)
}

func (cx Context) binding(kind Kind, sym *model.Symbol) Binding {
	b := Binding{Kind: kind, ID: cx.path}
	if decl := sym.Declaration(); decl != nil {
		b.Description = Normalize(decl)
		loc := decl.Loc
		b.Loc = &loc
	}
	b.Abstract = sym.Flags.Has(model.FlagAbstract)
	b.Readonly = isReadonly(sym)
	b.Optional = sym.Flags.Has(model.FlagOptional)
	return b
}
