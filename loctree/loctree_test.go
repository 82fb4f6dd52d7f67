// Package loctree contains tests for the tree model, diff, and merge.
package loctree

import (
	"reflect"
	"testing"
)

// ---------------------------------------------------------------------------
// Tree basics
// ---------------------------------------------------------------------------

func TestTree_KeyOrderPreserved(t *testing.T) {
	tr := NewTree()
	tr.Set("zulu", String("z"))
	tr.Set("alpha", String("a"))
	tr.Set("mike", String("m"))

	want := []string{"zulu", "alpha", "mike"}
	if !reflect.DeepEqual(tr.Keys(), want) {
		t.Errorf("keys = %v, want %v", tr.Keys(), want)
	}

	// Overwriting must not duplicate or reorder the key.
	tr.Set("alpha", String("a2"))
	if !reflect.DeepEqual(tr.Keys(), want) {
		t.Errorf("keys after overwrite = %v, want %v", tr.Keys(), want)
	}
	v, _ := tr.Get("alpha")
	if v != String("a2") {
		t.Errorf("alpha = %v, want a2", v)
	}
}

func TestTree_SubtreeShapeMismatch(t *testing.T) {
	tr := NewTree()
	tr.Set("s", String("leaf"))

	if sub := tr.Subtree("s"); sub != nil {
		t.Errorf("Subtree on a string leaf = %v, want nil", sub)
	}
	if sub := tr.Subtree("missing"); sub != nil {
		t.Errorf("Subtree on absent key = %v, want nil", sub)
	}
}

func TestTree_StringLeafCount(t *testing.T) {
	nested := NewTree()
	nested.Set("a", String("Yes"))

	tr := NewTree()
	tr.Set("greeting", String("Hello"))
	tr.Set("nums", List{Scalar("1"), Scalar("2"), Scalar("3")})
	tr.Set("mixed", List{String("one"), Scalar("2"), String("three")})
	tr.Set("nested", nested)

	if n := tr.StringLeafCount(); n != 4 {
		t.Errorf("StringLeafCount = %d, want 4", n)
	}
	if n := tr.LeafCount(); n != 4 {
		t.Errorf("LeafCount = %d, want 4", n)
	}
}

// ---------------------------------------------------------------------------
// Diff
// ---------------------------------------------------------------------------

func TestDiff_EmptyTarget(t *testing.T) {
	nested := NewTree()
	nested.Set("a", String("Yes"))

	source := NewTree()
	source.Set("greeting", String("Hello"))
	source.Set("nums", List{Scalar("1"), Scalar("2"), Scalar("3")})
	source.Set("nested", nested)

	missing := Diff(source, NewTree())

	if !reflect.DeepEqual(missing.Keys(), source.Keys()) {
		t.Fatalf("missing keys = %v, want %v", missing.Keys(), source.Keys())
	}
	// Leaves are copied verbatim, lists included.
	v, _ := missing.Get("nums")
	if !reflect.DeepEqual(v, List{Scalar("1"), Scalar("2"), Scalar("3")}) {
		t.Errorf("nums = %v, want the verbatim list", v)
	}
}

func TestDiff_PresentKeysNeverIncluded(t *testing.T) {
	source := NewTree()
	source.Set("a", String("X"))
	source.Set("b", String("Y"))

	target := NewTree()
	target.Set("a", String("translated-X"))

	missing := Diff(source, target)

	if _, ok := missing.Get("a"); ok {
		t.Error("diff included key 'a' although target has a non-null value")
	}
	v, ok := missing.Get("b")
	if !ok || v != String("Y") {
		t.Errorf("missing b = %v (present=%v), want Y", v, ok)
	}
}

func TestDiff_ContentChangeIsNotMissing(t *testing.T) {
	source := NewTree()
	source.Set("a", String("New source text"))

	target := NewTree()
	target.Set("a", String("old translation"))

	if missing := Diff(source, target); !missing.IsEmpty() {
		t.Errorf("diff = %v, want empty: diffing is existence-based", missing)
	}
}

func TestDiff_NullTargetValueIsMissing(t *testing.T) {
	source := NewTree()
	source.Set("a", String("X"))

	target := NewTree()
	target.Set("a", Null)

	missing := Diff(source, target)
	if _, ok := missing.Get("a"); !ok {
		t.Error("null target value should count as missing")
	}
}

func TestDiff_NestedPartial(t *testing.T) {
	srcNested := NewTree()
	srcNested.Set("done", String("Done"))
	srcNested.Set("todo", String("To do"))
	source := NewTree()
	source.Set("nav", srcNested)

	tgtNested := NewTree()
	tgtNested.Set("done", String("Hecho"))
	target := NewTree()
	target.Set("nav", tgtNested)

	missing := Diff(source, target)

	sub := missing.Subtree("nav")
	if sub == nil {
		t.Fatal("expected nav subtree in diff")
	}
	if !reflect.DeepEqual(sub.Keys(), []string{"todo"}) {
		t.Errorf("nav missing keys = %v, want [todo]", sub.Keys())
	}
}

func TestDiff_NestedComplete(t *testing.T) {
	srcNested := NewTree()
	srcNested.Set("done", String("Done"))
	source := NewTree()
	source.Set("nav", srcNested)

	tgtNested := NewTree()
	tgtNested.Set("done", String("Hecho"))
	target := NewTree()
	target.Set("nav", tgtNested)

	if missing := Diff(source, target); !missing.IsEmpty() {
		t.Errorf("diff = %v, want empty", missing)
	}
}

func TestDiff_TargetShapeMismatchRecursesAgainstEmpty(t *testing.T) {
	srcNested := NewTree()
	srcNested.Set("x", String("X"))
	source := NewTree()
	source.Set("nav", srcNested)

	// Target has a string where source has a subtree.
	target := NewTree()
	target.Set("nav", String("not a tree"))

	missing := Diff(source, target)
	sub := missing.Subtree("nav")
	if sub == nil || sub.Len() != 1 {
		t.Fatalf("diff = %v, want full nav subtree", missing)
	}
}

func TestDiff_TargetOnlyKeysIgnored(t *testing.T) {
	source := NewTree()
	source.Set("a", String("X"))

	target := NewTree()
	target.Set("a", String("ok"))
	target.Set("stale", String("gone from source"))

	if missing := Diff(source, target); !missing.IsEmpty() {
		t.Errorf("diff = %v, want empty (target-only keys are pruned)", missing)
	}
}

// ---------------------------------------------------------------------------
// Merge
// ---------------------------------------------------------------------------

func TestMerge_NonDestructive(t *testing.T) {
	existing := NewTree()
	existing.Set("a", String("translated-X"))
	existing.Set("c", String("translated-Z"))

	translated := NewTree()
	translated.Set("b", String("translated-Y"))

	merged := Merge(existing, translated)

	for _, k := range []string{"a", "c"} {
		got, _ := merged.Get(k)
		want, _ := existing.Get(k)
		if got != want {
			t.Errorf("merged[%s] = %v, want %v", k, got, want)
		}
	}
	if !reflect.DeepEqual(merged.Keys(), []string{"a", "c", "b"}) {
		t.Errorf("merged keys = %v, want existing order then new keys", merged.Keys())
	}
}

func TestMerge_TranslatedReplacesExisting(t *testing.T) {
	existing := NewTree()
	existing.Set("a", Null)

	translated := NewTree()
	translated.Set("a", String("filled"))

	merged := Merge(existing, translated)
	if v, _ := merged.Get("a"); v != String("filled") {
		t.Errorf("merged[a] = %v, want filled", v)
	}
}

func TestMerge_EmptyExisting(t *testing.T) {
	translated := NewTree()
	translated.Set("greeting", String("Hola"))

	merged := Merge(NewTree(), translated)
	if !reflect.DeepEqual(merged.Keys(), []string{"greeting"}) {
		t.Errorf("merged keys = %v, want [greeting]", merged.Keys())
	}
}
