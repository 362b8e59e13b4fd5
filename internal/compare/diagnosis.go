// Package compare computes the classified delta between two PublicApi
// snapshots and aggregates it into a Diagnosis.
package compare

import "apidelta/internal/api"

// Class is the change class of one Diagnosis entry. The declared order
// (removals, then modifications, then additions) is the order entries are
// reported in.
type Class uint8

const (
	ClassRemoved Class = iota
	ClassModified
	ClassAdded
)

// String returns the class label.
func (c Class) String() string {
	switch c {
	case ClassRemoved:
		return "removed"
	case ClassModified:
		return "modified"
	case ClassAdded:
		return "added"
	}
	return "unknown"
}

// Change is one classified difference between the two snapshots.
//
//   - ClassAdded: New is set, Old is nil.
//   - ClassRemoved: Old is set, New is nil.
//   - ClassModified: both are set and differ structurally (or the item
//     became deprecated, which is modification-class but never breaking).
//
// Notable flags a non-breaking entry worth calling out, currently only a
// fresh deprecation.
type Change struct {
	ID       api.ItemID `json:"id"`
	Class    Class      `json:"class"`
	Old      *api.Item  `json:"old,omitempty"`
	New      *api.Item  `json:"new,omitempty"`
	Breaking bool       `json:"breaking"`
	Notable  bool       `json:"notable,omitempty"`
}

// Item returns whichever side of the change is populated, preferring the
// new description.
func (c Change) Item() *api.Item {
	if c.New != nil {
		return c.New
	}
	return c.Old
}

// Diagnosis is the complete, ordered set of classified differences between
// two snapshots. It is built once by Compare and then read-only.
type Diagnosis struct {
	Changes []Change `json:"changes"`
}

// IsBreaking reports whether any entry is breaking.
func (d *Diagnosis) IsBreaking() bool {
	for _, c := range d.Changes {
		if c.Breaking {
			return true
		}
	}
	return false
}

// HasChanges reports whether the change list is non-empty.
func (d *Diagnosis) HasChanges() bool {
	return len(d.Changes) > 0
}

// HasAdditions reports whether any entry is an addition.
func (d *Diagnosis) HasAdditions() bool {
	for _, c := range d.Changes {
		if c.Class == ClassAdded {
			return true
		}
	}
	return false
}
