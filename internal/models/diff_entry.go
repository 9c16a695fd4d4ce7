package models

import "fmt"

// DiffEntryKind classifies a single structural difference.
type DiffEntryKind string

const (
	// DiffAdded marks a key or keyed element present only on the new side.
	DiffAdded DiffEntryKind = "added"
	// DiffRemoved marks a key or keyed element present only on the old side.
	DiffRemoved DiffEntryKind = "removed"
	// DiffChanged marks a scalar whose value differs between sides.
	DiffChanged DiffEntryKind = "changed"
	// DiffTypeChanged marks a node whose JSON type differs between sides.
	DiffTypeChanged DiffEntryKind = "type-changed"
	// DiffLengthChanged marks an array whose element count differs.
	DiffLengthChanged DiffEntryKind = "length-changed"
)

// DiffEntry is one atomic difference between two snapshots. Path uses
// dotted/bracketed notation (`a.b[]`, `items[id=3]`); Old and New carry the
// display text of both sides where the kind has them.
type DiffEntry struct {
	Path string        `json:"path"`
	Kind DiffEntryKind `json:"kind"`
	Old  string        `json:"old,omitempty"`
	New  string        `json:"new,omitempty"`
}

// String renders the entry in the line format consumed by the classifier,
// headline generator and feed:
//
//	path: ADDED <new>
//	path: REMOVED
//	path: TYPE object -> string
//	path: LIST 1 -> 2
//	path: old -> new
func (e DiffEntry) String() string {
	switch e.Kind {
	case DiffAdded:
		if e.New != "" {
			return fmt.Sprintf("%s: ADDED %s", e.Path, e.New)
		}
		return fmt.Sprintf("%s: ADDED", e.Path)
	case DiffRemoved:
		return fmt.Sprintf("%s: REMOVED", e.Path)
	case DiffTypeChanged:
		return fmt.Sprintf("%s: TYPE %s -> %s", e.Path, e.Old, e.New)
	case DiffLengthChanged:
		return fmt.Sprintf("%s: LIST %s -> %s", e.Path, e.Old, e.New)
	default:
		return fmt.Sprintf("%s: %s -> %s", e.Path, e.Old, e.New)
	}
}

// Lines renders a slice of entries into their textual form, preserving order.
func Lines(entries []DiffEntry) []string {
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return lines
}
