// Package extract flattens a semantic type graph into a deduplicated,
// deterministic tree of tagged descriptions suitable for a documentation
// renderer. The input model comes from internal/frontend (or a hand-built
// graph in tests); the output is the JSON contract of this tool.
package extract

import (
	"bytes"
	"encoding/json"

	"getdocs/internal/model"
)

// Kind is the closed set of binding kinds.
type Kind string

const (
	KindClass         Kind = "class"
	KindEnum          Kind = "enum"
	KindEnumMember    Kind = "enum-member"
	KindInterface     Kind = "interface"
	KindVariable      Kind = "variable"
	KindProperty      Kind = "property"
	KindMethod        Kind = "method"
	KindTypeAlias     Kind = "type-alias"
	KindTypeParameter Kind = "type-parameter"
	KindConstructor   Kind = "constructor"
	KindFunction      Kind = "function"
	KindParameter     Kind = "parameter"
	KindReexport      Kind = "re-export"
)

// Binding is the declaration half of an Item.
type Binding struct {
	Kind        Kind            `json:"kind"`
	ID          string          `json:"id"`
	Description string          `json:"description,omitempty"`
	Loc         *model.Location `json:"loc,omitempty"`
	Abstract    bool            `json:"abstract,omitempty"`
	Readonly    bool            `json:"readonly,omitempty"`
	Optional    bool            `json:"optional,omitempty"`
}

// TypeDescription is one node of the serialized type tree. Type is a
// structural keyword, a generic parameter name, or a nominal name; an absent
// TypeSource marks a builtin.
type TypeDescription struct {
	Type             string             `json:"type,omitempty"`
	TypeSource       string             `json:"typeSource,omitempty"`
	TypeParamSource  string             `json:"typeParamSource,omitempty"`
	TypeArgs         []*TypeDescription `json:"typeArgs,omitempty"`
	TypeParams       []*Parameter       `json:"typeParams,omitempty"`
	Properties       *ItemMap           `json:"properties,omitempty"`
	StaticProperties *ItemMap           `json:"staticProperties,omitempty"`
	Signatures       []*Signature       `json:"signatures,omitempty"`
	Construct        *Item              `json:"construct,omitempty"`
	Extends          *TypeDescription   `json:"extends,omitempty"`
	Implements       []*TypeDescription `json:"implements,omitempty"`
	Key              *Parameter         `json:"key,omitempty"`
}

// Signature is one call or construct overload.
type Signature struct {
	TypeParams []*Parameter     `json:"typeParams,omitempty"`
	Params     []*Parameter     `json:"params,omitempty"`
	Returns    *TypeDescription `json:"returns,omitempty"`
}

// Parameter is a TypeDescription with a display name and parameter flags.
type Parameter struct {
	TypeDescription
	Name     string `json:"name,omitempty"`
	ID       string `json:"id,omitempty"`
	Optional bool   `json:"optional,omitempty"`
	Rest     bool   `json:"rest,omitempty"`
	Default  string `json:"default,omitempty"`
}

// Item is a Binding together with its TypeDescription, flattened in JSON.
type Item struct {
	Binding
	TypeDescription
}

// ItemMap is a name-to-Item map that preserves insertion order through JSON
// marshalling; plain Go maps would randomize it.
type ItemMap struct {
	keys  []string
	items map[string]*Item
}

func NewItemMap() *ItemMap {
	return &ItemMap{items: make(map[string]*Item)}
}

func (m *ItemMap) Set(name string, item *Item) {
	if _, ok := m.items[name]; !ok {
		m.keys = append(m.keys, name)
	}
	m.items[name] = item
}

func (m *ItemMap) Get(name string) (*Item, bool) {
	item, ok := m.items[name]
	return item, ok
}

func (m *ItemMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the insertion order.
func (m *ItemMap) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *ItemMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(m.items[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
