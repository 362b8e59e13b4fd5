package api

import (
	"fmt"
	"slices"
	"sort"
)

// Param is one parameter of a function or method signature. The name is part
// of the signature on purpose: renaming a parameter is treated as a breaking
// change (a known over-approximation).
type Param struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// FnSig describes a function or method signature.
type FnSig struct {
	Params   []Param  `json:"params,omitempty"`
	Returns  string   `json:"returns,omitempty"`
	Generics []string `json:"generics,omitempty"`
	Receiver string   `json:"receiver,omitempty"` // owning type for methods, "" for free functions
}

// Equal reports exact signature identity, including parameter order and names.
func (s FnSig) Equal(o FnSig) bool {
	return slices.Equal(s.Params, o.Params) &&
		s.Returns == o.Returns &&
		slices.Equal(s.Generics, o.Generics) &&
		s.Receiver == o.Receiver
}

// FieldRef is the name+type summary of one field (or enum variant) kept on
// its owning TypeSig, so that field-set changes surface on the type itself.
type FieldRef struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// TypeSig describes a struct, union, enum or type alias.
type TypeSig struct {
	Shape    string     `json:"shape"` // "struct"|"union"|"enum"|"alias"
	Generics []string   `json:"generics,omitempty"`
	Fields   []FieldRef `json:"fields,omitempty"` // declared fields; variant names for enums
	Alias    string     `json:"alias,omitempty"`  // target for Shape "alias"
}

// Equal reports whether two type descriptions are structurally identical:
// same discriminant, generic-parameter list, field set and alias target.
func (s TypeSig) Equal(o TypeSig) bool {
	return s.Shape == o.Shape &&
		slices.Equal(s.Generics, o.Generics) &&
		slices.Equal(s.Fields, o.Fields) &&
		s.Alias == o.Alias
}

// FieldSig describes a single field bound to an owning type.
type FieldSig struct {
	Owner string `json:"owner"`
	Type  string `json:"type"`
}

// TraitSig describes a trait definition. Associated items are separate
// entries in the PublicApi; the definition keeps only its own signature.
type TraitSig struct {
	Generics []string `json:"generics,omitempty"`
	Bounds   string   `json:"bounds,omitempty"`
}

// Equal reports exact signature identity.
func (s TraitSig) Equal(o TraitSig) bool {
	return slices.Equal(s.Generics, o.Generics) && s.Bounds == o.Bounds
}

// ImplSig summarizes which trait is implemented for which type. This is what
// lets a report show "+ User: impl Debug".
type ImplSig struct {
	Trait string `json:"trait"`
	For   string `json:"for"`
}

// AssocSig describes an associated type or associated constant.
type AssocSig struct {
	Type     string   `json:"type,omitempty"`
	Default  string   `json:"default,omitempty"`
	Bounds   string   `json:"bounds,omitempty"`
	Generics []string `json:"generics,omitempty"`
}

// Equal reports exact signature identity.
func (s AssocSig) Equal(o AssocSig) bool {
	return s.Type == o.Type &&
		s.Default == o.Default &&
		s.Bounds == o.Bounds &&
		slices.Equal(s.Generics, o.Generics)
}

// Item is one public item in a snapshot: the identity, the deprecation flag,
// and exactly one kind-specific payload selected by ID.Kind. Modules are
// traversal scaffolding and never appear in a PublicApi.
type Item struct {
	ID         ItemID `json:"id"`
	Deprecated bool   `json:"deprecated,omitempty"`

	Fn        *FnSig    `json:"fn,omitempty"`        // KindFunction, KindMethod
	Type      *TypeSig  `json:"type,omitempty"`      // KindType
	Field     *FieldSig `json:"field,omitempty"`     // KindField
	TraitDef  *TraitSig `json:"traitDef,omitempty"`  // KindTraitDef
	TraitImpl *ImplSig  `json:"traitImpl,omitempty"` // KindTraitImpl
	Assoc     *AssocSig `json:"assoc,omitempty"`     // KindAssocType, KindAssocConst
}

// DisplayKind is the label shown after an item path in reports. Types show
// their discriminant ("struct", "enum", ...) instead of the generic "type".
func (it *Item) DisplayKind() string {
	if it.ID.Kind == KindType && it.Type != nil && it.Type.Shape != "" {
		if it.Type.Shape == "alias" {
			return "type alias"
		}
		return it.Type.Shape
	}
	return it.ID.Kind.String()
}

// EqualData reports whether two items of the same kind carry an identical
// structural description. Deprecation is intentionally excluded: it is
// diagnosed separately and never makes a change breaking.
func (it *Item) EqualData(other *Item) bool {
	if it.ID.Kind != other.ID.Kind {
		return false
	}
	switch it.ID.Kind {
	case KindFunction, KindMethod:
		return it.Fn.Equal(*other.Fn)
	case KindType:
		return it.Type.Equal(*other.Type)
	case KindField:
		return *it.Field == *other.Field
	case KindTraitDef:
		return it.TraitDef.Equal(*other.TraitDef)
	case KindTraitImpl:
		return *it.TraitImpl == *other.TraitImpl
	case KindAssocType, KindAssocConst:
		return it.Assoc.Equal(*other.Assoc)
	case KindModule:
		return true
	}
	return false
}

// PublicApi is the flat mapping from item identity to item description for
// one snapshot. It is built once by the translator, then read-only.
type PublicApi struct {
	items map[ItemID]Item
}

// NewPublicApi returns an empty mapping.
func NewPublicApi() *PublicApi {
	return &PublicApi{items: make(map[ItemID]Item)}
}

// Insert adds an item. Identities are unique within a snapshot; a duplicate
// indicates a translator bug or a malformed input tree.
func (p *PublicApi) Insert(it Item) error {
	if _, ok := p.items[it.ID]; ok {
		return fmt.Errorf("duplicate item id %s (%s)", it.ID, it.ID.Kind)
	}
	p.items[it.ID] = it
	return nil
}

// Get looks up an item by identity.
func (p *PublicApi) Get(id ItemID) (Item, bool) {
	it, ok := p.items[id]
	return it, ok
}

// Len returns the number of items in the snapshot.
func (p *PublicApi) Len() int {
	return len(p.items)
}

// IDs returns all identities sorted by ItemID, independent of map iteration
// order.
func (p *PublicApi) IDs() []ItemID {
	out := make([]ItemID, 0, len(p.items))
	for id := range p.items {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
