// Package frontend parses TypeScript sources with tree-sitter and binds them
// into the semantic model consumed by internal/extract. Binding is purely
// syntax-directed: no type inference happens, unannotated declarations come
// out as `any`, and only literal initializers contribute value types.
package frontend

import (
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"getdocs/internal/core/errors"
)

// grammarSet holds both TypeScript grammar variants; .tsx files need the
// JSX-aware one.
type grammarSet struct {
	ts  *sitter.Language
	tsx *sitter.Language
}

func newGrammarSet() *grammarSet {
	return &grammarSet{
		ts:  sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		tsx: sitter.NewLanguage(tree_sitter_typescript.LanguageTSX()),
	}
}

func (g *grammarSet) forPath(path string) *sitter.Language {
	if strings.HasSuffix(path, ".tsx") {
		return g.tsx
	}
	return g.ts
}

func (g *grammarSet) parse(path string) (*sitter.Tree, []byte, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.AddContext(
			errors.Wrap(err, errors.CodeUnitNotFound, "cannot read source unit"),
			errors.CtxPath, path)
	}
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(g.forPath(path))
	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, nil, errors.New(errors.CodeInternal, "parse produced no tree").
			WithContext(errors.CtxPath, path)
	}
	return tree, content, nil
}

// resolveSpecifier maps an import specifier to an absolute source path,
// trying the extension and index candidates the TypeScript resolver would.
// Bare specifiers (packages) and unresolvable paths yield "".
func resolveSpecifier(fromFile, spec string) string {
	if !strings.HasPrefix(spec, "./") && !strings.HasPrefix(spec, "../") {
		return ""
	}
	base := filepath.Join(filepath.Dir(fromFile), filepath.FromSlash(spec))
	var candidates []string
	if strings.HasSuffix(base, ".ts") || strings.HasSuffix(base, ".tsx") {
		candidates = append(candidates, base)
	}
	candidates = append(candidates,
		base+".ts",
		base+".tsx",
		base+".d.ts",
		filepath.Join(base, "index.ts"),
		filepath.Join(base, "index.tsx"),
	)
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}
