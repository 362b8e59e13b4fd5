// Package translate flattens a raw API tree into the PublicApi mapping the
// comparator consumes. It performs a single reachability walk from the root
// module, emitting each item exactly once the first time it is reached, and
// drops everything the walk never touches (private items, cross-crate ids).
package translate

import (
	"fmt"
	"strings"

	"apidelta/internal/api"
	"apidelta/internal/tree"
)

// ErrMalformedTree reports a structurally inconsistent input tree: a
// reachable id absent from the index, or an item kind outside the known set.
// It aborts the whole comparison; a partial Diagnosis would be misleading.
var ErrMalformedTree = fmt.Errorf("malformed api tree")

// Translate builds a PublicApi from a raw tree. The source tree can be
// discarded afterwards; the mapping is self-contained.
func Translate(t *tree.Tree) (*api.PublicApi, error) {
	tr := &translator{
		tree: t,
		out:  api.NewPublicApi(),
		seen: make(map[tree.ID]bool, len(t.Index)),
	}
	root, ok := t.Lookup(t.Root)
	if !ok {
		return nil, fmt.Errorf("%w: root id %d absent from index", ErrMalformedTree, t.Root)
	}
	if root.Kind != tree.KindModule {
		return nil, fmt.Errorf("%w: root id %d is %q, want %q", ErrMalformedTree, t.Root, root.Kind, tree.KindModule)
	}
	tr.seen[t.Root] = true
	if err := tr.module(root, nil); err != nil {
		return nil, err
	}
	return tr.out, nil
}

type translator struct {
	tree *tree.Tree
	out  *api.PublicApi
	seen map[tree.ID]bool
}

func (tr *translator) resolve(id tree.ID) (tree.RawItem, error) {
	it, ok := tr.tree.Lookup(id)
	if !ok {
		return tree.RawItem{}, fmt.Errorf("%w: reachable id %d absent from index", ErrMalformedTree, id)
	}
	return it, nil
}

// module translates a module's children. The module itself is traversal
// scaffolding and emits nothing.
func (tr *translator) module(m tree.RawItem, path []string) error {
	for _, id := range m.Children {
		child, err := tr.resolve(id)
		if err != nil {
			return err
		}
		if tr.seen[id] {
			continue
		}
		tr.seen[id] = true
		if err := tr.item(child, path); err != nil {
			return err
		}
	}
	return nil
}

// item dispatches one reachable item on its declared kind.
func (tr *translator) item(raw tree.RawItem, path []string) error {
	switch raw.Kind {
	case tree.KindModule:
		return tr.module(raw, append(path, raw.Name))
	case tree.KindFunction:
		return tr.emitFn(raw, path, api.KindFunction, "")
	case tree.KindMethod:
		return tr.emitFn(raw, path, api.KindMethod, strings.Join(path, api.PathSep))
	case tree.KindStruct, tree.KindUnion, tree.KindEnum:
		return tr.typeDecl(raw, path)
	case tree.KindTypedef:
		return tr.out.Insert(api.Item{
			ID:         api.MakeID(append(path, raw.Name), api.KindType),
			Deprecated: raw.Deprecated,
			Type:       &api.TypeSig{Shape: "alias", Generics: raw.Generics, Alias: raw.Alias},
		})
	case tree.KindTrait:
		return tr.traitDecl(raw, path)
	case tree.KindAssocType:
		return tr.emitAssoc(raw, path, api.KindAssocType)
	case tree.KindAssocConst:
		return tr.emitAssoc(raw, path, api.KindAssocConst)
	default:
		return fmt.Errorf("%w: item %d (%s) has unsupported kind %q", ErrMalformedTree, raw.ID, raw.Name, raw.Kind)
	}
}

func (tr *translator) emitFn(raw tree.RawItem, path []string, kind api.Kind, receiver string) error {
	params := make([]api.Param, 0, len(raw.Params))
	for _, p := range raw.Params {
		params = append(params, api.Param{Name: p.Name, Type: p.Type})
	}
	return tr.out.Insert(api.Item{
		ID:         api.MakeID(append(path, raw.Name), kind),
		Deprecated: raw.Deprecated,
		Fn: &api.FnSig{
			Params:   params,
			Returns:  raw.Returns,
			Generics: raw.Generics,
			Receiver: receiver,
		},
	})
}

func (tr *translator) emitAssoc(raw tree.RawItem, path []string, kind api.Kind) error {
	return tr.out.Insert(api.Item{
		ID:         api.MakeID(append(path, raw.Name), kind),
		Deprecated: raw.Deprecated,
		Assoc: &api.AssocSig{
			Type:     raw.FieldType,
			Default:  raw.Default,
			Bounds:   raw.Bounds,
			Generics: raw.Generics,
		},
	})
}

// typeDecl emits a struct/union/enum plus one Field item per declared field,
// then walks the impl blocks attached to the type. The field summary is also
// kept on the TypeSig itself so add/remove of a field surfaces as a
// modification of the type.
func (tr *translator) typeDecl(raw tree.RawItem, path []string) error {
	typePath := append(append([]string(nil), path...), raw.Name)
	sig := &api.TypeSig{Shape: raw.Kind, Generics: raw.Generics}

	if err := tr.fields(raw.Fields, typePath, sig); err != nil {
		return err
	}
	for _, vid := range raw.Variants {
		variant, err := tr.resolve(vid)
		if err != nil {
			return err
		}
		if variant.Kind != tree.KindVariant {
			return fmt.Errorf("%w: item %d inside enum %s has kind %q, want %q",
				ErrMalformedTree, vid, raw.Name, variant.Kind, tree.KindVariant)
		}
		tr.seen[vid] = true
		sig.Fields = append(sig.Fields, api.FieldRef{Name: variant.Name})
		variantPath := append(append([]string(nil), typePath...), variant.Name)
		if err := tr.fields(variant.Fields, variantPath, nil); err != nil {
			return err
		}
	}

	err := tr.out.Insert(api.Item{
		ID:         api.MakeID(typePath, api.KindType),
		Deprecated: raw.Deprecated,
		Type:       sig,
	})
	if err != nil {
		return err
	}

	for _, iid := range raw.Impls {
		impl, err := tr.resolve(iid)
		if err != nil {
			return err
		}
		if impl.Kind != tree.KindImpl {
			return fmt.Errorf("%w: item %d attached to %s has kind %q, want %q",
				ErrMalformedTree, iid, raw.Name, impl.Kind, tree.KindImpl)
		}
		if tr.seen[iid] {
			continue
		}
		tr.seen[iid] = true
		if err := tr.impl(impl, typePath); err != nil {
			return err
		}
	}
	return nil
}

// fields emits one Field item per declared field id. When sig is non-nil the
// name+type pair is also recorded on the owning type's summary.
func (tr *translator) fields(ids []tree.ID, ownerPath []string, sig *api.TypeSig) error {
	owner := strings.Join(ownerPath, api.PathSep)
	for _, fid := range ids {
		field, err := tr.resolve(fid)
		if err != nil {
			return err
		}
		if field.Kind != tree.KindField {
			return fmt.Errorf("%w: item %d inside %s has kind %q, want %q",
				ErrMalformedTree, fid, owner, field.Kind, tree.KindField)
		}
		tr.seen[fid] = true
		if sig != nil {
			sig.Fields = append(sig.Fields, api.FieldRef{Name: field.Name, Type: field.FieldType})
		}
		err = tr.out.Insert(api.Item{
			ID:         api.MakeID(append(append([]string(nil), ownerPath...), field.Name), api.KindField),
			Deprecated: field.Deprecated,
			Field:      &api.FieldSig{Owner: owner, Type: field.FieldType},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// impl translates one impl block attached to a type. A trait impl gets its
// own TraitImpl entry under "<type>::[impl <trait>]"; its methods mirror the
// trait definition and are not re-emitted. Inherent impl members land
// directly under the type's path.
func (tr *translator) impl(raw tree.RawItem, typePath []string) error {
	if raw.Trait != "" {
		implPath := append(append([]string(nil), typePath...), "[impl "+raw.Trait+"]")
		target := raw.For
		if target == "" {
			target = strings.Join(typePath, api.PathSep)
		}
		err := tr.out.Insert(api.Item{
			ID:         api.MakeID(implPath, api.KindTraitImpl),
			Deprecated: raw.Deprecated,
			TraitImpl:  &api.ImplSig{Trait: raw.Trait, For: target},
		})
		if err != nil {
			return err
		}
		return tr.members(raw.Items, implPath, true)
	}
	return tr.members(raw.Items, typePath, false)
}

// members translates impl/trait member items under the given base path.
func (tr *translator) members(ids []tree.ID, base []string, skipMethods bool) error {
	for _, id := range ids {
		member, err := tr.resolve(id)
		if err != nil {
			return err
		}
		if tr.seen[id] {
			continue
		}
		tr.seen[id] = true
		if skipMethods && member.Kind == tree.KindMethod {
			continue
		}
		switch member.Kind {
		case tree.KindMethod, tree.KindFunction:
			if err := tr.emitFn(member, base, api.KindMethod, strings.Join(base, api.PathSep)); err != nil {
				return err
			}
		case tree.KindAssocType:
			if err := tr.emitAssoc(member, base, api.KindAssocType); err != nil {
				return err
			}
		case tree.KindAssocConst:
			if err := tr.emitAssoc(member, base, api.KindAssocConst); err != nil {
				return err
			}
		case tree.KindTypedef:
			// a typedef inside an impl is an associated type
			if err := tr.emitAssoc(member, base, api.KindAssocType); err != nil {
				return err
			}
		default:
			return fmt.Errorf("%w: item %d (%s) has unsupported member kind %q",
				ErrMalformedTree, member.ID, member.Name, member.Kind)
		}
	}
	return nil
}

// traitDecl emits a trait definition plus its associated items under the
// trait's path.
func (tr *translator) traitDecl(raw tree.RawItem, path []string) error {
	traitPath := append(append([]string(nil), path...), raw.Name)
	err := tr.out.Insert(api.Item{
		ID:         api.MakeID(traitPath, api.KindTraitDef),
		Deprecated: raw.Deprecated,
		TraitDef:   &api.TraitSig{Generics: raw.Generics, Bounds: raw.Bounds},
	})
	if err != nil {
		return err
	}
	return tr.members(raw.Items, traitPath, false)
}
