package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apidelta/internal/api"
	"apidelta/internal/tree"
)

func buildTree(items ...tree.RawItem) *tree.Tree {
	t := &tree.Tree{Root: tree.RootID, Index: make(map[tree.ID]tree.RawItem, len(items))}
	for _, it := range items {
		t.Index[it.ID] = it
	}
	return t
}

func TestModulesScaffoldPathsButEmitNothing(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1}},
		tree.RawItem{ID: 1, Name: "net", Kind: tree.KindModule, Children: []tree.ID{2, 3}},
		tree.RawItem{ID: 2, Name: "http", Kind: tree.KindModule, Children: []tree.ID{4}},
		tree.RawItem{ID: 3, Name: "connect", Kind: tree.KindFunction, Returns: "Conn"},
		tree.RawItem{ID: 4, Name: "get", Kind: tree.KindFunction},
	)

	out, err := Translate(in)
	require.NoError(t, err)

	require.Equal(t, 2, out.Len())
	it, ok := out.Get(api.ItemID{Path: "net::connect", Kind: api.KindFunction})
	require.True(t, ok)
	assert.Equal(t, "Conn", it.Fn.Returns)
	_, ok = out.Get(api.ItemID{Path: "net::http::get", Kind: api.KindFunction})
	assert.True(t, ok)
}

func TestStructEmitsTypeAndFields(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1}},
		tree.RawItem{ID: 1, Name: "User", Kind: tree.KindStruct, Generics: []string{"T"}, Fields: []tree.ID{2, 3}},
		tree.RawItem{ID: 2, Name: "name", Kind: tree.KindField, FieldType: "String"},
		tree.RawItem{ID: 3, Name: "age", Kind: tree.KindField, FieldType: "u8"},
	)

	out, err := Translate(in)
	require.NoError(t, err)

	typ, ok := out.Get(api.ItemID{Path: "User", Kind: api.KindType})
	require.True(t, ok)
	assert.Equal(t, "struct", typ.Type.Shape)
	assert.Equal(t, []string{"T"}, typ.Type.Generics)
	assert.Equal(t, []api.FieldRef{{Name: "name", Type: "String"}, {Name: "age", Type: "u8"}}, typ.Type.Fields)

	f, ok := out.Get(api.ItemID{Path: "User::name", Kind: api.KindField})
	require.True(t, ok)
	assert.Equal(t, api.FieldSig{Owner: "User", Type: "String"}, *f.Field)
}

func TestEnumVariantsSummarizedOnTypeFieldsEmittedBelow(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1}},
		tree.RawItem{ID: 1, Name: "Shape", Kind: tree.KindEnum, Variants: []tree.ID{2, 3}},
		tree.RawItem{ID: 2, Name: "Dot", Kind: tree.KindVariant},
		tree.RawItem{ID: 3, Name: "Circle", Kind: tree.KindVariant, Fields: []tree.ID{4}},
		tree.RawItem{ID: 4, Name: "0", Kind: tree.KindField, FieldType: "f64"},
	)

	out, err := Translate(in)
	require.NoError(t, err)

	typ, ok := out.Get(api.ItemID{Path: "Shape", Kind: api.KindType})
	require.True(t, ok)
	assert.Equal(t, "enum", typ.Type.Shape)
	assert.Equal(t, []api.FieldRef{{Name: "Dot"}, {Name: "Circle"}}, typ.Type.Fields)

	// the variant itself has no entry, only its field does
	_, ok = out.Get(api.ItemID{Path: "Shape::Circle", Kind: api.KindType})
	assert.False(t, ok)
	f, ok := out.Get(api.ItemID{Path: "Shape::Circle::0", Kind: api.KindField})
	require.True(t, ok)
	assert.Equal(t, api.FieldSig{Owner: "Shape::Circle", Type: "f64"}, *f.Field)
}

func TestTypedefBecomesAlias(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1}},
		tree.RawItem{ID: 1, Name: "Bytes", Kind: tree.KindTypedef, Alias: "Vec<u8>"},
	)

	out, err := Translate(in)
	require.NoError(t, err)

	it, ok := out.Get(api.ItemID{Path: "Bytes", Kind: api.KindType})
	require.True(t, ok)
	assert.Equal(t, "alias", it.Type.Shape)
	assert.Equal(t, "Vec<u8>", it.Type.Alias)
}

func TestInherentImplMembersLandUnderTypePath(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1}},
		tree.RawItem{ID: 1, Name: "User", Kind: tree.KindStruct, Impls: []tree.ID{2}},
		tree.RawItem{ID: 2, Kind: tree.KindImpl, Items: []tree.ID{3, 4}},
		tree.RawItem{ID: 3, Name: "new", Kind: tree.KindMethod, Returns: "User"},
		tree.RawItem{ID: 4, Name: "MAX", Kind: tree.KindAssocConst, FieldType: "usize", Default: "64"},
	)

	out, err := Translate(in)
	require.NoError(t, err)

	m, ok := out.Get(api.ItemID{Path: "User::new", Kind: api.KindMethod})
	require.True(t, ok)
	assert.Equal(t, "User", m.Fn.Receiver)
	assert.Equal(t, "User", m.Fn.Returns)

	c, ok := out.Get(api.ItemID{Path: "User::MAX", Kind: api.KindAssocConst})
	require.True(t, ok)
	assert.Equal(t, api.AssocSig{Type: "usize", Default: "64"}, *c.Assoc)
}

func TestTraitImplEmitsImplEntryAndSkipsMethods(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1}},
		tree.RawItem{ID: 1, Name: "User", Kind: tree.KindStruct, Impls: []tree.ID{2}},
		tree.RawItem{ID: 2, Kind: tree.KindImpl, Trait: "Iterator", Items: []tree.ID{3, 4}},
		tree.RawItem{ID: 3, Name: "next", Kind: tree.KindMethod},
		tree.RawItem{ID: 4, Name: "Item", Kind: tree.KindAssocType, FieldType: "u8"},
	)

	out, err := Translate(in)
	require.NoError(t, err)

	impl, ok := out.Get(api.ItemID{Path: "User::[impl Iterator]", Kind: api.KindTraitImpl})
	require.True(t, ok)
	assert.Equal(t, api.ImplSig{Trait: "Iterator", For: "User"}, *impl.TraitImpl)

	// methods of a trait impl mirror the trait and are not re-emitted
	_, ok = out.Get(api.ItemID{Path: "User::[impl Iterator]::next", Kind: api.KindMethod})
	assert.False(t, ok)

	// the associated type binding is part of the impl surface
	at, ok := out.Get(api.ItemID{Path: "User::[impl Iterator]::Item", Kind: api.KindAssocType})
	require.True(t, ok)
	assert.Equal(t, "u8", at.Assoc.Type)
}

func TestTraitDeclarationEmitsDefinitionAndMembers(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1}},
		tree.RawItem{ID: 1, Name: "Animal", Kind: tree.KindTrait, Bounds: "Sized", Items: []tree.ID{2, 3}},
		tree.RawItem{ID: 2, Name: "name", Kind: tree.KindMethod, Returns: "String"},
		tree.RawItem{ID: 3, Name: "LEGS", Kind: tree.KindAssocConst, FieldType: "u8"},
	)

	out, err := Translate(in)
	require.NoError(t, err)

	def, ok := out.Get(api.ItemID{Path: "Animal", Kind: api.KindTraitDef})
	require.True(t, ok)
	assert.Equal(t, "Sized", def.TraitDef.Bounds)

	m, ok := out.Get(api.ItemID{Path: "Animal::name", Kind: api.KindMethod})
	require.True(t, ok)
	assert.Equal(t, "Animal", m.Fn.Receiver)
	_, ok = out.Get(api.ItemID{Path: "Animal::LEGS", Kind: api.KindAssocConst})
	assert.True(t, ok)
}

func TestReexportedItemEmittedOnceAtFirstReach(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1, 2}},
		tree.RawItem{ID: 1, Name: "shared", Kind: tree.KindFunction},
		tree.RawItem{ID: 2, Name: "inner", Kind: tree.KindModule, Children: []tree.ID{1}},
	)

	out, err := Translate(in)
	require.NoError(t, err)

	require.Equal(t, 1, out.Len())
	_, ok := out.Get(api.ItemID{Path: "shared", Kind: api.KindFunction})
	assert.True(t, ok)
	_, ok = out.Get(api.ItemID{Path: "inner::shared", Kind: api.KindFunction})
	assert.False(t, ok)
}

func TestUnreachableItemsDropped(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1}},
		tree.RawItem{ID: 1, Name: "public", Kind: tree.KindFunction},
		tree.RawItem{ID: 9, Name: "private", Kind: tree.KindFunction},
	)

	out, err := Translate(in)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Len())
}

func TestDeprecationCarriesThrough(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1}},
		tree.RawItem{ID: 1, Name: "old_fn", Kind: tree.KindFunction, Deprecated: true},
	)

	out, err := Translate(in)
	require.NoError(t, err)

	it, ok := out.Get(api.ItemID{Path: "old_fn", Kind: api.KindFunction})
	require.True(t, ok)
	assert.True(t, it.Deprecated)
}

func TestDanglingIDIsMalformed(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{7}},
	)

	_, err := Translate(in)
	require.ErrorIs(t, err, ErrMalformedTree)
}

func TestUnknownKindIsMalformed(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindModule, Children: []tree.ID{1}},
		tree.RawItem{ID: 1, Name: "weird", Kind: "macro"},
	)

	_, err := Translate(in)
	require.ErrorIs(t, err, ErrMalformedTree)
}

func TestNonModuleRootIsMalformed(t *testing.T) {
	in := buildTree(
		tree.RawItem{ID: 0, Name: "crate", Kind: tree.KindFunction},
	)

	_, err := Translate(in)
	require.ErrorIs(t, err, ErrMalformedTree)
}

func TestMissingRootIsMalformed(t *testing.T) {
	in := &tree.Tree{Root: 5, Index: map[tree.ID]tree.RawItem{}}

	_, err := Translate(in)
	require.ErrorIs(t, err, ErrMalformedTree)
}
