package loctree

// Merge combines an existing locale tree with freshly translated keys.
//
// The merge is shallow at the top level: a translated key fully replaces
// an existing key of the same name, and keys only present in existing are
// kept untouched. That is enough because the translator already rebuilt
// each missing subtree down to its leaves, rooted at the missing-key
// boundary.
//
// Key order: existing keys first in their original order (values swapped
// in from translated where present), then translated-only keys appended
// in the translated tree's order.
func Merge(existing, translated *Tree) *Tree {
	merged := NewTree()
	for _, key := range existing.Keys() {
		if v, ok := translated.Get(key); ok {
			merged.Set(key, v)
			continue
		}
		v, _ := existing.Get(key)
		merged.Set(key, v)
	}
	for _, key := range translated.Keys() {
		if _, ok := merged.Get(key); ok {
			continue
		}
		v, _ := translated.Get(key)
		merged.Set(key, v)
	}
	return merged
}
