// Package model holds the semantic model consumed by the extraction engine.
// A Model is built once per batch by a frontend (see internal/frontend) or by
// hand in tests, and is read-only afterwards. Type graphs may be cyclic; the
// engine's recursion guard is responsible for termination.
package model

import "sort"

// Location points at the first non-whitespace token of a declaration.
// Line is 1-based, Column is 0-based.
type Location struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Comment is one raw trivia block preceding a declaration, in source order.
type Comment struct {
	Text        string // raw source text, including the // or /* */ markers
	Block       bool
	BlankBefore bool // a blank source line separates this from what precedes it
}

// Declaration is one declaration site of a symbol.
type Declaration struct {
	File     string
	Loc      Location
	Comments []Comment
}

// Model is the shared semantic model for one extraction batch.
type Model struct {
	files map[string]*File
	order []string
}

// File is one bound source unit.
type File struct {
	Path    string
	Exports []*Symbol          // exported symbols in declared order
	Scope   map[string]*Symbol // top-level names
}

func NewModel() *Model {
	return &Model{files: make(map[string]*File)}
}

func (m *Model) AddFile(f *File) {
	if _, ok := m.files[f.Path]; !ok {
		m.order = append(m.order, f.Path)
	}
	m.files[f.Path] = f
}

// Unit returns the file bound for path, or nil.
func (m *Model) Unit(path string) *File {
	return m.files[path]
}

func (m *Model) Files() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	sort.Strings(out)
	return out
}
