package frontend

import (
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"getdocs/internal/core/errors"
	"getdocs/internal/model"
)

// BuildModel parses the entry files plus everything they reach through
// relative imports and binds the whole set into one semantic model. Binding
// runs in three passes: register declarations and alias shells, wire import
// and export indirection, then lower type syntax. The third pass needs every
// file's scope, which is why lowering cannot happen during parsing.
func BuildModel(entries []string) (*model.Model, error) {
	b := &binder{
		grammars: newGrammarSet(),
		files:    make(map[string]*fileState),
		model:    model.NewModel(),
	}
	defer b.close()

	for _, entry := range entries {
		abs, err := filepath.Abs(entry)
		if err != nil {
			return nil, errors.AddContext(
				errors.Wrap(err, errors.CodeUnitNotFound, "cannot resolve entry path"),
				errors.CtxPath, entry)
		}
		if _, err := b.bindFile(abs); err != nil {
			return nil, err
		}
	}

	for _, path := range b.order {
		b.finalizeExports(b.files[path])
	}
	for _, path := range b.order {
		b.resolveImports(b.files[path])
	}
	for _, path := range b.order {
		b.lowerFile(b.files[path])
	}
	return b.model, nil
}

type binder struct {
	grammars *grammarSet
	files    map[string]*fileState
	order    []string
	model    *model.Model
}

type fileState struct {
	path    string
	source  []byte
	tree    *sitter.Tree
	file    *model.File
	imports []importDirective
	exports []exportEntry
	pending []pendingDecl

	exportsDone bool
	exportMap   map[string]*model.Symbol
}

// importDirective is one import statement; names carry the alias shells
// already registered in scope, targets get wired after all files are bound.
type importDirective struct {
	resolved string // "" for package imports
	names    []importName
}

type importName struct {
	alias    *model.Symbol
	imported string // name in the source module, "default", or "*"
}

// exportEntry is one exported name in source order.
type exportEntry struct {
	name     string // exported name; "" for star re-exports
	local    string // original name for clause exports
	resolved string // source module for re-exports; "" means local
	external bool   // re-export from a package specifier
	star     bool
	sym      *model.Symbol // direct declaration export
	decl     *model.Declaration
}

type pendingDecl struct {
	sym  *model.Symbol
	node *sitter.Node
}

func (b *binder) close() {
	for _, st := range b.files {
		if st.tree != nil {
			st.tree.Close()
		}
	}
}

// bindFile parses and registers one file, recursing into its relative
// imports. The state is registered before imports are followed so that
// import cycles terminate.
func (b *binder) bindFile(path string) (*fileState, error) {
	if st, ok := b.files[path]; ok {
		return st, nil
	}
	tree, source, err := b.grammars.parse(path)
	if err != nil {
		return nil, err
	}
	st := &fileState{
		path:   path,
		source: source,
		tree:   tree,
		file:   &model.File{Path: path, Scope: make(map[string]*model.Symbol)},
	}
	b.files[path] = st
	b.order = append(b.order, path)
	b.model.AddFile(st.file)

	root := tree.RootNode()
	for _, stmt := range namedChildren(root) {
		if err := b.bindStatement(st, stmt); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (b *binder) bindStatement(st *fileState, stmt *sitter.Node) error {
	switch stmt.Kind() {
	case "import_statement":
		return b.bindImport(st, stmt)
	case "export_statement":
		return b.bindExport(st, stmt)
	case "ambient_declaration":
		for _, inner := range namedChildren(stmt) {
			b.bindDeclaration(st, inner, stmt)
		}
	default:
		b.bindDeclaration(st, stmt, stmt)
	}
	return nil
}

// bindDeclaration registers the symbols a declaration statement introduces.
// outer supplies location and leading comments; for exported declarations it
// is the surrounding export statement.
func (b *binder) bindDeclaration(st *fileState, node, outer *sitter.Node) []*model.Symbol {
	switch node.Kind() {
	case "class_declaration":
		return b.declareNamed(st, node, outer, model.FlagClass)
	case "abstract_class_declaration":
		return b.declareNamed(st, node, outer, model.FlagClass|model.FlagAbstract)
	case "interface_declaration":
		return b.declareNamed(st, node, outer, model.FlagInterface)
	case "enum_declaration":
		return b.declareNamed(st, node, outer, model.FlagEnum)
	case "type_alias_declaration":
		return b.declareNamed(st, node, outer, model.FlagTypeAlias)
	case "function_declaration", "function_signature":
		return b.declareFunction(st, node, outer)
	case "lexical_declaration", "variable_declaration":
		return b.declareVariables(st, node, outer)
	case "ambient_declaration":
		var out []*model.Symbol
		for _, inner := range namedChildren(node) {
			out = append(out, b.bindDeclaration(st, inner, outer)...)
		}
		return out
	}
	return nil
}

func (b *binder) declareNamed(st *fileState, node, outer *sitter.Node, flags model.Flags) []*model.Symbol {
	name := textOf(st.source, node.ChildByFieldName("name"))
	if name == "" {
		name = "default"
	}
	sym := &model.Symbol{
		Name:  name,
		Flags: flags,
		Decls: []*model.Declaration{declaration(st.path, st.source, outer)},
	}
	st.file.Scope[name] = sym
	st.pending = append(st.pending, pendingDecl{sym: sym, node: node})
	return []*model.Symbol{sym}
}

// declareFunction merges overload declarations of the same name into one
// symbol; each signature is lowered later.
func (b *binder) declareFunction(st *fileState, node, outer *sitter.Node) []*model.Symbol {
	name := textOf(st.source, node.ChildByFieldName("name"))
	if name == "" {
		name = "default"
	}
	if existing, ok := st.file.Scope[name]; ok && existing.Flags.Has(model.FlagFunction) {
		existing.Decls = append(existing.Decls, declaration(st.path, st.source, outer))
		st.pending = append(st.pending, pendingDecl{sym: existing, node: node})
		return []*model.Symbol{existing}
	}
	sym := &model.Symbol{
		Name:  name,
		Flags: model.FlagFunction,
		Decls: []*model.Declaration{declaration(st.path, st.source, outer)},
	}
	st.file.Scope[name] = sym
	st.pending = append(st.pending, pendingDecl{sym: sym, node: node})
	return []*model.Symbol{sym}
}

func (b *binder) declareVariables(st *fileState, node, outer *sitter.Node) []*model.Symbol {
	var out []*model.Symbol
	for _, d := range namedChildren(node) {
		if d.Kind() != "variable_declarator" {
			continue
		}
		name := textOf(st.source, d.ChildByFieldName("name"))
		if name == "" {
			continue
		}
		sym := &model.Symbol{
			Name:  name,
			Flags: model.FlagVariable,
			Decls: []*model.Declaration{declaration(st.path, st.source, outer)},
		}
		st.file.Scope[name] = sym
		st.pending = append(st.pending, pendingDecl{sym: sym, node: d})
		out = append(out, sym)
	}
	return out
}

func (b *binder) bindImport(st *fileState, node *sitter.Node) error {
	spec := trimQuotes(textOf(st.source, node.ChildByFieldName("source")))
	if spec == "" {
		return nil
	}
	resolved := resolveSpecifier(st.path, spec)
	if resolved != "" {
		if _, err := b.bindFile(resolved); err != nil {
			return err
		}
	}
	dir := importDirective{resolved: resolved}
	decl := declaration(st.path, st.source, node)

	register := func(local, imported string) {
		if local == "" {
			return
		}
		alias := &model.Symbol{
			Name:   local,
			Flags:  model.FlagAlias,
			Decls:  []*model.Declaration{decl},
			Target: nil, // wired in the import pass
		}
		st.file.Scope[local] = alias
		dir.names = append(dir.names, importName{alias: alias, imported: imported})
	}

	clause := childOfKind(node, "import_clause")
	if clause != nil {
		for _, c := range namedChildren(clause) {
			switch c.Kind() {
			case "identifier":
				register(textOf(st.source, c), "default")
			case "namespace_import":
				if id := childOfKind(c, "identifier"); id != nil {
					register(textOf(st.source, id), "*")
				}
			case "named_imports":
				for _, spec := range namedChildren(c) {
					if spec.Kind() != "import_specifier" {
						continue
					}
					orig := textOf(st.source, spec.ChildByFieldName("name"))
					local := textOf(st.source, spec.ChildByFieldName("alias"))
					if local == "" {
						local = orig
					}
					register(local, orig)
				}
			}
		}
	}
	if len(dir.names) > 0 {
		st.imports = append(st.imports, dir)
	}
	return nil
}

func (b *binder) bindExport(st *fileState, node *sitter.Node) error {
	decl := declaration(st.path, st.source, node)

	if inner := node.ChildByFieldName("declaration"); inner != nil {
		syms := b.bindDeclaration(st, inner, node)
		isDefault := hasChildOfKind(node, "default")
		for _, sym := range syms {
			name := sym.Name
			if isDefault {
				name = "default"
			}
			st.exports = append(st.exports, exportEntry{name: name, sym: sym})
		}
		return nil
	}

	if hasChildOfKind(node, "default") {
		// export default <expression>
		sym := &model.Symbol{
			Name:  "default",
			Flags: model.FlagVariable,
			Decls: []*model.Declaration{decl},
		}
		st.file.Scope["default"] = sym
		if value := node.ChildByFieldName("value"); value != nil {
			st.pending = append(st.pending, pendingDecl{sym: sym, node: value})
		}
		st.exports = append(st.exports, exportEntry{name: "default", sym: sym})
		return nil
	}

	spec := trimQuotes(textOf(st.source, node.ChildByFieldName("source")))
	resolved := ""
	if spec != "" {
		resolved = resolveSpecifier(st.path, spec)
		if resolved != "" {
			if _, err := b.bindFile(resolved); err != nil {
				return err
			}
		}
	}

	if clause := childOfKind(node, "export_clause"); clause != nil {
		for _, s := range namedChildren(clause) {
			if s.Kind() != "export_specifier" {
				continue
			}
			orig := textOf(st.source, s.ChildByFieldName("name"))
			exported := textOf(st.source, s.ChildByFieldName("alias"))
			if exported == "" {
				exported = orig
			}
			st.exports = append(st.exports, exportEntry{
				name:     exported,
				local:    orig,
				resolved: resolved,
				external: spec != "" && resolved == "",
				decl:     decl,
			})
		}
		return nil
	}

	if spec != "" {
		// export * from "module"
		st.exports = append(st.exports, exportEntry{
			star:     true,
			resolved: resolved,
			external: resolved == "",
			decl:     decl,
		})
	}
	return nil
}

// finalizeExports turns the recorded entries into the file's export list and
// name map. Star re-exports splice in the target module's exports; explicit
// entries win over spliced ones. Cyclic re-export chains see the partial map
// and terminate.
func (b *binder) finalizeExports(st *fileState) {
	if st.exportsDone {
		return
	}
	st.exportsDone = true
	st.exportMap = make(map[string]*model.Symbol)

	add := func(sym *model.Symbol, explicit bool) {
		if prev, taken := st.exportMap[sym.Name]; taken {
			if !explicit {
				return
			}
			for i, e := range st.file.Exports {
				if e == prev {
					st.file.Exports[i] = sym
					break
				}
			}
			st.exportMap[sym.Name] = sym
			return
		}
		st.exportMap[sym.Name] = sym
		st.file.Exports = append(st.file.Exports, sym)
	}

	for _, e := range st.exports {
		switch {
		case e.star:
			other := b.files[e.resolved]
			if other == nil {
				continue
			}
			b.finalizeExports(other)
			for _, sym := range other.file.Exports {
				if sym.Name == "default" {
					continue
				}
				add(&model.Symbol{
					Name:   sym.Name,
					Flags:  model.FlagAlias,
					Target: sym,
					Decls:  declsOf(e.decl),
				}, false)
			}
		case e.sym != nil:
			add(e.sym, true)
		case e.resolved != "" || e.external:
			add(&model.Symbol{
				Name:   e.name,
				Flags:  model.FlagAlias,
				Target: b.exportTarget(e.resolved, e.local),
				Decls:  declsOf(e.decl),
			}, true)
		default:
			local := st.file.Scope[e.local]
			if local == nil {
				continue
			}
			if e.name == e.local {
				add(local, true)
				continue
			}
			add(&model.Symbol{
				Name:   e.name,
				Flags:  model.FlagAlias,
				Target: local,
				Decls:  declsOf(e.decl),
			}, true)
		}
	}
}

// exportTarget looks a name up in another module's finalized exports. An
// unresolvable module or name degrades to an ambient symbol, which the
// engine renders as an external reference.
func (b *binder) exportTarget(resolved, name string) *model.Symbol {
	st := b.files[resolved]
	if st == nil {
		return &model.Symbol{Name: name}
	}
	b.finalizeExports(st)
	if target := st.exportMap[name]; target != nil {
		return target
	}
	return &model.Symbol{Name: name}
}

// resolveImports wires the alias shells created during binding to their
// targets in the source modules.
func (b *binder) resolveImports(st *fileState) {
	for _, dir := range st.imports {
		for _, n := range dir.names {
			if dir.resolved == "" {
				n.alias.Target = &model.Symbol{Name: n.imported}
				continue
			}
			if n.imported == "*" {
				// Namespace object; opaque ambient value.
				n.alias.Target = &model.Symbol{Name: n.alias.Name}
				continue
			}
			n.alias.Target = b.exportTarget(dir.resolved, n.imported)
		}
	}
}

func textOf(source []byte, n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(source[n.StartByte():n.EndByte()])
}

func trimQuotes(s string) string {
	return strings.Trim(s, "\"'`")
}

func declsOf(decl *model.Declaration) []*model.Declaration {
	if decl == nil {
		return nil
	}
	return []*model.Declaration{decl}
}
