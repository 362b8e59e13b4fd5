package compare

import (
	"sort"

	"apidelta/internal/api"
)

// Compare computes the ordered Diagnosis between two snapshots. It is total
// over well-formed PublicApi values: malformed input must be caught by the
// translator, never here.
func Compare(oldAPI, newAPI *api.PublicApi) *Diagnosis {
	changes := classifyRemoved(oldAPI, newAPI)
	changes = append(changes, classifyAdded(oldAPI, newAPI)...)
	changes = append(changes, classifyModified(oldAPI, newAPI)...)
	changes = foldFieldChanges(changes, oldAPI, newAPI)
	sortChanges(changes)
	return &Diagnosis{Changes: changes}
}

// classifyRemoved collects keys present in old but not in new. A removal is
// always breaking: consumer code referencing the item stops compiling.
func classifyRemoved(oldAPI, newAPI *api.PublicApi) []Change {
	out := make([]Change, 0)
	for _, id := range oldAPI.IDs() {
		if _, ok := newAPI.Get(id); ok {
			continue
		}
		it, _ := oldAPI.Get(id)
		out = append(out, Change{ID: id, Class: ClassRemoved, Old: &it, Breaking: true})
	}
	return out
}

// classifyAdded collects keys present in new but not in old. A genuinely
// additive entry is never breaking; in particular a new trait impl for an
// existing type stays non-breaking even though it can cause downstream
// coherence conflicts (out of scope here).
func classifyAdded(oldAPI, newAPI *api.PublicApi) []Change {
	out := make([]Change, 0)
	for _, id := range newAPI.IDs() {
		if _, ok := oldAPI.Get(id); ok {
			continue
		}
		it, _ := newAPI.Get(id)
		out = append(out, Change{ID: id, Class: ClassAdded, New: &it, Breaking: false})
	}
	return out
}

// classifyModified compares items present in both snapshots. Structural
// difference yields a Modified entry with the kind-specific breaking rule;
// a fresh deprecation yields a non-breaking notable entry even when the
// structure is untouched.
func classifyModified(oldAPI, newAPI *api.PublicApi) []Change {
	out := make([]Change, 0)
	for _, id := range oldAPI.IDs() {
		newIt, ok := newAPI.Get(id)
		if !ok {
			continue
		}
		oldIt, _ := oldAPI.Get(id)
		deprecated := !oldIt.Deprecated && newIt.Deprecated
		if oldIt.EqualData(&newIt) {
			if deprecated {
				out = append(out, Change{
					ID: id, Class: ClassModified,
					Old: &oldIt, New: &newIt,
					Breaking: false, Notable: true,
				})
			}
			continue
		}
		out = append(out, Change{
			ID: id, Class: ClassModified,
			Old: &oldIt, New: &newIt,
			Breaking: breakingModification(id.Kind),
			Notable:  deprecated,
		})
	}
	return out
}

// breakingModification is the per-kind breaking rule for a structural
// modification. The switch is exhaustive over the item vocabulary: adding a
// kind without deciding its rule is a compile-visible omission here.
func breakingModification(kind api.Kind) bool {
	switch kind {
	case api.KindField:
		// any change to the field's type signature
		return true
	case api.KindFunction, api.KindMethod:
		// parameter types, order, names, return type or generics changed
		return true
	case api.KindType:
		// field set, generic-parameter list or discriminant changed
		return true
	case api.KindTraitDef, api.KindTraitImpl, api.KindAssocType, api.KindAssocConst:
		// any signature change
		return true
	case api.KindModule:
		// modules are never diff subjects
		return false
	}
	return false
}

// foldFieldChanges re-buckets field additions/removals: when the owning type
// survives in both snapshots, the field-level Added/Removed entry is dropped
// and the change shows up only as the type's own breaking modification.
// One conceptual change, one entry. Fields of a wholly added or removed
// type keep their standalone entries so Added/Removed stays exactly the key
// set symmetric difference.
func foldFieldChanges(changes []Change, oldAPI, newAPI *api.PublicApi) []Change {
	// first pass: find field entries to fold and the owners they fold into
	fold := make(map[api.ItemID]bool)
	owners := make(map[api.ItemID]bool)
	for _, c := range changes {
		if c.ID.Kind != api.KindField || c.Class == ClassModified {
			continue
		}
		if owner, ok := survivingOwner(c.ID, oldAPI, newAPI); ok {
			fold[c.ID] = true
			owners[owner] = true
		}
	}
	if len(fold) == 0 {
		return changes
	}

	// second pass: drop folded entries, upgrade or synthesize owner entries
	out := make([]Change, 0, len(changes))
	for _, c := range changes {
		if fold[c.ID] && c.Class != ClassModified {
			continue
		}
		if c.Class == ClassModified && owners[c.ID] {
			c.Breaking = true
			delete(owners, c.ID)
		}
		out = append(out, c)
	}
	for owner := range owners {
		oldIt, _ := oldAPI.Get(owner)
		newIt, _ := newAPI.Get(owner)
		out = append(out, Change{
			ID: owner, Class: ClassModified,
			Old: &oldIt, New: &newIt,
			Breaking: true,
		})
	}
	return out
}

// survivingOwner walks the field's path upwards to the nearest enclosing
// Type and reports it only when it exists in both snapshots. Enum variant
// fields sit one level below their enum, hence the loop.
func survivingOwner(id api.ItemID, oldAPI, newAPI *api.PublicApi) (api.ItemID, bool) {
	cur := id
	for {
		parent, ok := cur.Parent()
		if !ok {
			return api.ItemID{}, false
		}
		tid := api.ItemID{Path: parent, Kind: api.KindType}
		_, inOld := oldAPI.Get(tid)
		_, inNew := newAPI.Get(tid)
		if inOld && inNew {
			return tid, true
		}
		if inOld || inNew {
			// owner itself was added or removed wholesale
			return api.ItemID{}, false
		}
		cur = api.ItemID{Path: parent, Kind: cur.Kind}
	}
}

// sortChanges fixes the report order: removals first, then modifications,
// then additions, and by ItemID within each class. The result is identical
// regardless of either input mapping's iteration order.
func sortChanges(changes []Change) {
	sort.Slice(changes, func(i, j int) bool {
		if changes[i].Class != changes[j].Class {
			return changes[i].Class < changes[j].Class
		}
		return changes[i].ID.Less(changes[j].ID)
	})
}
