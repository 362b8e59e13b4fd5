// Package api defines the core vocabulary of the diff engine: the kinds of
// public items a library can expose, the stable identity of each item, and
// the flattened PublicApi mapping the comparator operates on.
package api

import "strings"

// PathSep joins the module segments of a fully-qualified item path.
const PathSep = "::"

// Kind discriminates the closed set of item kinds. Two same-named items of
// different kinds (say, a type and a function) get distinct identities.
//
// The set is closed on purpose: the comparator switches exhaustively on it,
// so a new kind cannot be added without updating every comparison site.
type Kind uint8

const (
	KindModule Kind = iota
	KindFunction
	KindMethod
	KindType
	KindField
	KindTraitDef
	KindTraitImpl
	KindAssocType
	KindAssocConst
)

// String returns the human-readable kind label used in reports.
func (k Kind) String() string {
	switch k {
	case KindModule:
		return "module"
	case KindFunction:
		return "function"
	case KindMethod:
		return "method"
	case KindType:
		return "type"
	case KindField:
		return "field"
	case KindTraitDef:
		return "trait"
	case KindTraitImpl:
		return "impl"
	case KindAssocType:
		return "associated type"
	case KindAssocConst:
		return "associated constant"
	}
	return "unknown"
}

// ItemID is the stable identity of a public item: the fully-qualified path
// (module segments joined by PathSep) plus the kind discriminator.
// No two live items share an ItemID within one snapshot.
type ItemID struct {
	Path string `json:"path"`
	Kind Kind   `json:"kind"`
}

// MakeID builds an ItemID from path segments.
func MakeID(segments []string, kind Kind) ItemID {
	return ItemID{Path: strings.Join(segments, PathSep), Kind: kind}
}

// Extend returns the ID of a child item one segment below id.
func (id ItemID) Extend(name string, kind Kind) ItemID {
	if id.Path == "" {
		return ItemID{Path: name, Kind: kind}
	}
	return ItemID{Path: id.Path + PathSep + name, Kind: kind}
}

// Parent returns the path one segment above id and whether one exists.
func (id ItemID) Parent() (string, bool) {
	i := strings.LastIndex(id.Path, PathSep)
	if i < 0 {
		return "", false
	}
	return id.Path[:i], true
}

// Less orders IDs lexicographically by path, then by kind. This is the
// ordering used to make a Diagnosis reproducible across runs.
func (id ItemID) Less(other ItemID) bool {
	if id.Path != other.Path {
		return id.Path < other.Path
	}
	return id.Kind < other.Kind
}

// String renders the ID the way reports name items: "a::b::c".
func (id ItemID) String() string {
	return id.Path
}
