package extract

import (
	"path/filepath"
	"strings"

	"getdocs/internal/model"
)

// ID separators: member-of vs. static-of / type-parameter-of.
const (
	sepMember = "."
	sepStatic = "^"
)

// typeParamScope is one in-scope generic parameter. When bound is set the
// parameter has been instantiated (alias expansion) and references to it
// resolve to the bound description instead of a back-reference.
type typeParamScope struct {
	name  string
	id    string
	bound *TypeDescription
}

// run is the mutable state of one top-level gather call: the shared model,
// the available-symbol closure, and the structural recursion guard. Scoping
// the guard here keeps repeated or aborted calls from interfering.
type run struct {
	model     *model.Model
	unit      *model.File
	baseDir   string
	available map[*model.Symbol]bool
	resolving []*model.Type
	expanding []*model.Symbol // symbols whose bodies are being inlined
}

// push marks t as currently being resolved; the returned func pops it and
// must run on every exit path.
func (r *run) push(t *model.Type) func() {
	r.resolving = append(r.resolving, t)
	return func() { r.resolving = r.resolving[:len(r.resolving)-1] }
}

func (r *run) onStack(t *model.Type) bool {
	for _, active := range r.resolving {
		if active == t {
			return true
		}
	}
	return false
}

// pushInline marks sym as currently being inlined (alias expansion or the
// structural assembly of an unexported class/interface/enum).
func (r *run) pushInline(sym *model.Symbol) func() {
	r.expanding = append(r.expanding, sym)
	return func() { r.expanding = r.expanding[:len(r.expanding)-1] }
}

func (r *run) inlining(sym *model.Symbol) bool {
	for _, active := range r.expanding {
		if active == sym {
			return true
		}
	}
	return false
}

// isAvailable reports whether sym may be referenced by name rather than
// inlined: it is exported by the processed unit, ambient (no declaration
// site), or declared outside the base directory.
func (r *run) isAvailable(sym *model.Symbol) bool {
	if sym == nil {
		return false
	}
	if r.available[sym] {
		return true
	}
	decl := sym.Declaration()
	if decl == nil {
		return true
	}
	return !r.inBaseDir(decl.File)
}

func (r *run) inBaseDir(file string) bool {
	rel, err := filepath.Rel(r.baseDir, file)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// typeSource renders the declaring-source path of sym relative to the base
// directory, or "" for builtins without a declaration site.
func (r *run) typeSource(sym *model.Symbol) string {
	if sym == nil {
		return ""
	}
	decl := sym.Declaration()
	if decl == nil {
		return ""
	}
	if rel, err := filepath.Rel(r.baseDir, decl.File); err == nil {
		return filepath.ToSlash(rel)
	}
	return filepath.ToSlash(decl.File)
}

// Context is the immutable environment threaded through the recursion. Every
// extension returns a new value; a parent context is never mutated.
type Context struct {
	run    *run
	path   string
	params []typeParamScope // nearest first
}

// Extend returns a context whose id path appends name behind sep, or bare
// name at the root.
func (cx Context) Extend(name, sep string) Context {
	path := name
	if cx.path != "" {
		path = cx.path + sep + name
	}
	return Context{run: cx.run, path: path, params: cx.params}
}

// WithTypeParameters prepends params so that name lookup favors the nearer
// entry, enabling shadowing.
func (cx Context) WithTypeParameters(params []typeParamScope) Context {
	if len(params) == 0 {
		return cx
	}
	merged := make([]typeParamScope, 0, len(params)+len(cx.params))
	merged = append(merged, params...)
	merged = append(merged, cx.params...)
	return Context{run: cx.run, path: cx.path, params: merged}
}

// withOnlyTypeParameters replaces the whole scope stack (mapped-type keys
// resolve in a fresh scope containing only the key parameter).
func (cx Context) withOnlyTypeParameters(params []typeParamScope) Context {
	return Context{run: cx.run, path: cx.path, params: params}
}

func (cx Context) lookupParam(name string) (typeParamScope, bool) {
	for _, scope := range cx.params {
		if scope.name == name {
			return scope, true
		}
	}
	return typeParamScope{}, false
}
