package loctree

// Diff computes the subset of source that is missing from target: the
// keys whose value at the same path in target is absent or null.
//
// The walk is depth-first over source's keys only — keys that exist only
// in target are ignored. Leaves (strings, lists, scalars) are included
// verbatim when missing; lists are never diffed element-wise. A key that
// is present in target with any non-null leaf value is never included,
// even if its content differs from source: the diff is existence-based,
// not content-based.
//
// An empty result means the target is complete and the caller should
// skip translation and persistence entirely.
func Diff(source, target *Tree) *Tree {
	missing := NewTree()
	if source == nil {
		return missing
	}
	for _, key := range source.Keys() {
		srcVal, _ := source.Get(key)

		if srcSub, ok := srcVal.(*Tree); ok {
			// Recurse with the target's subtree; a target value of the
			// wrong shape (or absent) behaves as an empty tree.
			sub := Diff(srcSub, target.Subtree(key))
			if !sub.IsEmpty() {
				missing.Set(key, sub)
			}
			continue
		}

		tgtVal, ok := target.Get(key)
		if !ok || tgtVal == nil || IsNull(tgtVal) {
			missing.Set(key, srcVal)
		}
	}
	return missing
}
