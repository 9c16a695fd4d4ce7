// Package scrubber filters a JSON tree down to the subtree paths a target's
// tracking rule cares about, before the tree reaches the differ.
package scrubber

import (
	"strings"

	"github.com/aleister1102/futwatch/internal/jsontree"
	"github.com/aleister1102/futwatch/internal/models"
)

// Scrub returns a copy of v containing only the mapping keys whose full
// dotted/bracketed path passes the rule. Array elements are always walked
// (their path segment is `[]`), but their descendant keys are still subject
// to the rule. An empty rule returns v unchanged.
func Scrub(v jsontree.Value, rule models.TrackingRule) jsontree.Value {
	if rule.IsEmpty() {
		return v
	}
	return walk(v, "", rule)
}

func walk(v jsontree.Value, path string, rule models.TrackingRule) jsontree.Value {
	switch v.Kind() {
	case jsontree.KindObject:
		kept := make(map[string]jsontree.Value)
		for _, key := range v.Keys() {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}
			if !keep(childPath, rule) {
				continue
			}
			child, _ := v.Field(key)
			kept[key] = walk(child, childPath, rule)
		}
		return jsontree.Object(kept)
	case jsontree.KindArray:
		elems := v.Elements()
		out := make([]jsontree.Value, len(elems))
		for i, el := range elems {
			out[i] = walk(el, path+"[]", rule)
		}
		return jsontree.Array(out...)
	default:
		return v
	}
}

func keep(path string, rule models.TrackingRule) bool {
	includeOK := len(rule.Include) == 0
	for _, s := range rule.Include {
		if strings.Contains(path, s) {
			includeOK = true
			break
		}
	}
	if !includeOK {
		return false
	}
	for _, s := range rule.Exclude {
		if strings.Contains(path, s) {
			return false
		}
	}
	return true
}
