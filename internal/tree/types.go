// Package tree defines the raw API tree handed over by the doc-extraction
// step: a root module identifier plus a flat index mapping every item id to
// its kind-tagged description. The shape mirrors compiler doc JSON, but the
// translator depends only on this abstract form, not on any specific
// extractor.
package tree

// ID identifies one item inside a raw tree. Container kinds reference their
// children by ID rather than by direct containment, so the index forms an
// arena the translator walks once from the root.
type ID int

// RootID is the fixed identifier of the root module.
const RootID ID = 0

// Raw item kinds as emitted by the extractor. Anything outside this set is a
// malformed tree as far as the translator is concerned.
const (
	KindModule     = "module"
	KindFunction   = "function"
	KindMethod     = "method"
	KindStruct     = "struct"
	KindUnion      = "union"
	KindEnum       = "enum"
	KindVariant    = "variant"
	KindField      = "field"
	KindTypedef    = "typedef"
	KindTrait      = "trait"
	KindImpl       = "impl"
	KindAssocType  = "assoc_type"
	KindAssocConst = "assoc_const"
)

// Param is one declared parameter of a function-like raw item.
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// RawItem is the kind-tagged description of one item. Only the fields
// relevant to the declared kind are populated; the rest stay zero.
type RawItem struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Deprecated bool   `json:"deprecated,omitempty"`

	// Container edges (ids into the index).
	Children []ID `json:"children,omitempty"` // module children
	Fields   []ID `json:"fields,omitempty"`   // struct/union/variant fields
	Variants []ID `json:"variants,omitempty"` // enum variants
	Impls    []ID `json:"impls,omitempty"`    // impl blocks attached to a type
	Items    []ID `json:"items,omitempty"`    // impl/trait member items

	// Signature payload.
	Params    []Param  `json:"params,omitempty"`
	Returns   string   `json:"returns,omitempty"`
	Generics  []string `json:"generics,omitempty"`
	FieldType string   `json:"fieldType,omitempty"`
	Bounds    string   `json:"bounds,omitempty"`
	Default   string   `json:"default,omitempty"`
	Trait     string   `json:"trait,omitempty"` // impl: implemented trait, "" for inherent impls
	For       string   `json:"for,omitempty"`   // impl: target type
	Alias     string   `json:"alias,omitempty"` // typedef target
}

// Tree is one raw API snapshot before flattening.
type Tree struct {
	Root  ID             `json:"root"`
	Index map[ID]RawItem `json:"index"`
}

// Lookup resolves an id against the index.
func (t *Tree) Lookup(id ID) (RawItem, bool) {
	it, ok := t.Index[id]
	return it, ok
}
