package tree

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Validate performs structural checks on a raw tree before translation:
//
//   - The root id must resolve and must be a module.
//   - Every id stored on a container edge must resolve against the index.
//   - Every declared kind must belong to the known kind set.
//   - An entry's ID field, when set, must match its index key.
//
// Multiple issues are aggregated into a single error so one run surfaces
// everything wrong with an extraction, not just the first dangling id.
func Validate(t *Tree) error {
	var issues []string

	root, ok := t.Lookup(t.Root)
	if !ok {
		issues = append(issues, fmt.Sprintf("root id %d missing from index", t.Root))
	} else if root.Kind != KindModule {
		issues = append(issues, fmt.Sprintf("root id %d has kind %q, want %q", t.Root, root.Kind, KindModule))
	}

	for id, item := range t.Index {
		if item.ID != 0 && item.ID != id {
			issues = append(issues, fmt.Sprintf("item %d declares mismatched id %d", id, item.ID))
		}
		if !knownKind(item.Kind) {
			issues = append(issues, fmt.Sprintf("item %d (%s) has unknown kind %q", id, item.Name, item.Kind))
		}
		for _, edge := range [][]ID{item.Children, item.Fields, item.Variants, item.Impls, item.Items} {
			for _, ref := range edge {
				if _, ok := t.Lookup(ref); !ok {
					issues = append(issues, fmt.Sprintf("item %d (%s) references missing id %d", id, item.Name, ref))
				}
			}
		}
	}

	if len(issues) == 0 {
		return nil
	}
	sort.Strings(issues)
	return errors.New("invalid api tree:\n  - " + strings.Join(issues, "\n  - "))
}

func knownKind(k string) bool {
	switch k {
	case KindModule, KindFunction, KindMethod, KindStruct, KindUnion, KindEnum,
		KindVariant, KindField, KindTypedef, KindTrait, KindImpl,
		KindAssocType, KindAssocConst:
		return true
	}
	return false
}
