// Package differ computes minimal, semantically filtered descriptions of
// what changed between two snapshots of a monitored payload.
package differ

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/aleister1102/futwatch/internal/jsontree"
	"github.com/aleister1102/futwatch/internal/models"
)

// StructuralDiffer compares two JSON trees and produces path-annotated
// diff entries. Output order is fully deterministic: objects iterate their
// sorted key union, keyed array entries sort by identity key.
type StructuralDiffer struct {
	config DiffConfig
}

// NewStructuralDiffer creates a StructuralDiffer with the given config.
func NewStructuralDiffer(cfg DiffConfig) *StructuralDiffer {
	if len(cfg.IdentityKeys) == 0 {
		cfg = DefaultDiffConfig()
	}
	return &StructuralDiffer{config: cfg}
}

// Diff compares the previous and current trees. Diff(x, x) is always empty;
// re-running on the same inputs yields the same ordered entries.
func (sd *StructuralDiffer) Diff(prev, curr jsontree.Value) []models.DiffEntry {
	return sd.diffValue(prev, curr, "")
}

func (sd *StructuralDiffer) diffValue(a, b jsontree.Value, path string) []models.DiffEntry {
	// A type mismatch short-circuits: one entry, no recursion below it.
	if a.Kind() != b.Kind() {
		return []models.DiffEntry{{
			Path: path,
			Kind: models.DiffTypeChanged,
			Old:  a.Kind().String(),
			New:  b.Kind().String(),
		}}
	}

	switch a.Kind() {
	case jsontree.KindObject:
		return sd.diffObjects(a, b, path)
	case jsontree.KindArray:
		return sd.diffArrays(a, b, path)
	default:
		if !a.Equal(b) {
			return []models.DiffEntry{{
				Path: path,
				Kind: models.DiffChanged,
				Old:  a.Canonical(),
				New:  b.Canonical(),
			}}
		}
		return nil
	}
}

func (sd *StructuralDiffer) diffObjects(a, b jsontree.Value, path string) []models.DiffEntry {
	var out []models.DiffEntry
	for _, key := range keyUnion(a, b) {
		childPath := key
		if path != "" {
			childPath = path + "." + key
		}
		oldField, inOld := a.Field(key)
		newField, inNew := b.Field(key)
		switch {
		case !inOld:
			out = append(out, models.DiffEntry{
				Path: childPath,
				Kind: models.DiffAdded,
				New:  newField.Canonical(),
			})
		case !inNew:
			out = append(out, models.DiffEntry{
				Path: childPath,
				Kind: models.DiffRemoved,
			})
		default:
			out = append(out, sd.diffValue(oldField, newField, childPath)...)
		}
	}
	return out
}

// diffArrays reports a length change plus keyed element additions and
// removals. Elements without a recognized identity field are excluded from
// the keyed comparison; that blind spot is deliberate (see package docs).
func (sd *StructuralDiffer) diffArrays(a, b jsontree.Value, path string) []models.DiffEntry {
	var out []models.DiffEntry
	if a.Len() != b.Len() {
		out = append(out, models.DiffEntry{
			Path: path,
			Kind: models.DiffLengthChanged,
			Old:  strconv.Itoa(a.Len()),
			New:  strconv.Itoa(b.Len()),
		})
	}

	oldKeyed := sd.keyElements(a.Elements())
	newKeyed := sd.keyElements(b.Elements())

	for _, key := range sortedKeyUnion(oldKeyed, newKeyed) {
		_, inOld := oldKeyed[key]
		_, inNew := newKeyed[key]
		keyedPath := fmt.Sprintf("%s[%s=%s]", path, key.field, key.text)
		switch {
		case !inOld:
			out = append(out, models.DiffEntry{Path: keyedPath, Kind: models.DiffAdded})
		case !inNew:
			out = append(out, models.DiffEntry{Path: keyedPath, Kind: models.DiffRemoved})
		}
	}
	return out
}

// elementKey identifies one array element by its first present identity field.
type elementKey struct {
	field string
	text  string
}

func (sd *StructuralDiffer) keyElements(elems []jsontree.Value) map[elementKey]string {
	keyed := make(map[elementKey]string)
	for _, el := range elems {
		if el.Kind() != jsontree.KindObject {
			continue
		}
		for _, field := range sd.config.IdentityKeys {
			v, ok := el.Field(field)
			if !ok {
				continue
			}
			keyed[elementKey{field: field, text: v.ScalarText()}] = el.Digest()
			break
		}
	}
	return keyed
}

func keyUnion(a, b jsontree.Value) []string {
	seen := make(map[string]struct{})
	for _, k := range a.Keys() {
		seen[k] = struct{}{}
	}
	for _, k := range b.Keys() {
		seen[k] = struct{}{}
	}
	union := make([]string, 0, len(seen))
	for k := range seen {
		union = append(union, k)
	}
	sort.Strings(union)
	return union
}

func sortedKeyUnion(a, b map[elementKey]string) []elementKey {
	seen := make(map[elementKey]struct{})
	for k := range a {
		seen[k] = struct{}{}
	}
	for k := range b {
		seen[k] = struct{}{}
	}
	union := make([]elementKey, 0, len(seen))
	for k := range seen {
		union = append(union, k)
	}
	sort.Slice(union, func(i, j int) bool {
		if union[i].field != union[j].field {
			return union[i].field < union[j].field
		}
		return union[i].text < union[j].text
	})
	return union
}
