package frontend

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"getdocs/internal/model"
)

// location points at the first token of the outermost declaration node.
// Line is 1-based, Column stays 0-based.
func location(path string, node *sitter.Node) model.Location {
	pos := node.StartPosition()
	return model.Location{File: path, Line: int(pos.Row) + 1, Column: int(pos.Column)}
}

// leadingComments collects the run of comment siblings directly before node,
// in source order. Each comment records whether a blank line separates it
// from whatever precedes it; the normalizer uses that to cut off detached
// paragraphs.
func leadingComments(source []byte, node *sitter.Node) []model.Comment {
	var rev []*sitter.Node
	for prev := node.PrevSibling(); prev != nil && prev.Kind() == "comment"; prev = prev.PrevSibling() {
		rev = append(rev, prev)
	}
	if len(rev) == 0 {
		return nil
	}
	out := make([]model.Comment, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		c := rev[i]
		text := string(source[c.StartByte():c.EndByte()])
		blank := false
		if prev := c.PrevSibling(); prev != nil {
			blank = c.StartPosition().Row >= prev.EndPosition().Row+2
		}
		out = append(out, model.Comment{
			Text:        text,
			Block:       strings.HasPrefix(text, "/*"),
			BlankBefore: blank,
		})
	}
	return out
}

func declaration(path string, source []byte, node *sitter.Node) *model.Declaration {
	return &model.Declaration{
		File:     path,
		Loc:      location(path, node),
		Comments: leadingComments(source, node),
	}
}
