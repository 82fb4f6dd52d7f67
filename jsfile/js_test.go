// Package jsfile contains tests for the JS module parser and writer.
package jsfile

import (
	"reflect"
	"strings"
	"testing"

	"github.com/loctools/locfill/loctree"
)

// ---------------------------------------------------------------------------
// Parse
// ---------------------------------------------------------------------------

func TestParse_ExportDefault(t *testing.T) {
	input := `export default {
    greeting: 'Hello',
    nav: {
        home: "Home",
        about: 'About',
    },
};
`
	tree, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if !reflect.DeepEqual(tree.Keys(), []string{"greeting", "nav"}) {
		t.Errorf("keys = %v", tree.Keys())
	}
	nav := tree.Subtree("nav")
	if nav == nil {
		t.Fatal("nav lost")
	}
	if v, _ := nav.Get("home"); v != loctree.String("Home") {
		t.Errorf("nav.home = %v", v)
	}
}

func TestParse_ModuleExports(t *testing.T) {
	input := `module.exports = { a: 'x' };`
	tree, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if v, _ := tree.Get("a"); v != loctree.String("x") {
		t.Errorf("a = %v", v)
	}
}

func TestParse_CommentsAndTrailingCommas(t *testing.T) {
	input := `// header comment
export default {
    /* block
       comment */
    a: 'x', // inline
    list: [
        'one',
        'two',
    ],
};
`
	tree, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	v, _ := tree.Get("list")
	want := loctree.List{loctree.String("one"), loctree.String("two")}
	if !reflect.DeepEqual(v, want) {
		t.Errorf("list = %v, want %v", v, want)
	}
}

func TestParse_StringStyles(t *testing.T) {
	input := "export default {\n" +
		"    single: 'it\\'s here',\n" +
		"    double: \"say \\\"hi\\\"\",\n" +
		"    template: `line one\nline two`,\n" +
		"    escaped: 'tab\\there',\n" +
		"};\n"
	tree, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	cases := map[string]string{
		"single":   "it's here",
		"double":   `say "hi"`,
		"template": "line one\nline two",
		"escaped":  "tab\there",
	}
	for key, want := range cases {
		if v, _ := tree.Get(key); v != loctree.String(want) {
			t.Errorf("%s = %v, want %q", key, v, want)
		}
	}
}

func TestParse_ScalarsAndQuotedKeys(t *testing.T) {
	input := `export default {
    count: 42,
    ratio: -1.5,
    on: true,
    off: false,
    nothing: null,
    'kebab-key': 'v',
};
`
	tree, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	for key, want := range map[string]loctree.Scalar{
		"count": "42", "ratio": "-1.5", "on": "true", "off": "false",
	} {
		if v, _ := tree.Get(key); v != want {
			t.Errorf("%s = %v, want %v", key, v, want)
		}
	}
	if v, _ := tree.Get("nothing"); !loctree.IsNull(v) {
		t.Errorf("nothing = %v, want null", v)
	}
	if v, _ := tree.Get("kebab-key"); v != loctree.String("v") {
		t.Errorf("kebab-key = %v", v)
	}
}

func TestParse_Errors(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"no export", `const x = 1;`},
		{"unterminated object", `export default { a: 'x'`},
		{"unterminated string", `export default { a: 'x`},
		{"missing colon", `export default { a 'x' };`},
		{"bad value", `export default { a: doStuff() };`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Parse([]byte(tc.input)); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Marshal
// ---------------------------------------------------------------------------

func TestMarshal_DelimiterSwitching(t *testing.T) {
	tree := loctree.NewTree()
	tree.Set("plain", loctree.String("Hello"))
	tree.Set("apostrophe", loctree.String("it's fine"))
	tree.Set("multiline", loctree.String("line one\nline two"))

	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	out := string(data)

	if !strings.Contains(out, "plain: 'Hello',") {
		t.Errorf("plain value not single-quoted:\n%s", out)
	}
	if !strings.Contains(out, `apostrophe: "it's fine",`) {
		t.Errorf("apostrophe value not double-quoted:\n%s", out)
	}
	if !strings.Contains(out, "multiline: `line one\nline two`,") {
		t.Errorf("multiline value not a template literal:\n%s", out)
	}
}

func TestMarshal_QuotedKeysOnlyWhenNeeded(t *testing.T) {
	tree := loctree.NewTree()
	tree.Set("simple", loctree.String("a"))
	tree.Set("kebab-key", loctree.String("b"))

	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "simple: 'a',") {
		t.Errorf("identifier key was quoted:\n%s", out)
	}
	if !strings.Contains(out, "'kebab-key': 'b',") {
		t.Errorf("non-identifier key not quoted:\n%s", out)
	}
}

func TestMarshal_StructuredValuesAsLiterals(t *testing.T) {
	cal := loctree.NewTree()
	cal.Set("months", loctree.List{loctree.String("enero"), loctree.String("febrero")})
	cal.Set("today", loctree.String("hoy"))
	tree := loctree.NewTree()
	tree.Set("calendar_locale", cal)

	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "calendar_locale: {") {
		t.Errorf("structured value not emitted as an object literal:\n%s", out)
	}
	if strings.Contains(out, `calendar_locale: '`) {
		t.Errorf("structured value emitted as a quoted string:\n%s", out)
	}
}

func TestRoundTrip(t *testing.T) {
	input := `export default {
    greeting: 'Hello',
    count: 3,
    tags: ['a', 'b'],
    nested: {
        deep: {
            leaf: "it's deep",
        },
    },
    note: ` + "`first\nsecond`" + `,
};
`
	tree, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	data, err := Marshal(tree)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatalf("reparse error: %v\noutput:\n%s", err, data)
	}
	if back.String() != tree.String() {
		t.Errorf("round-trip mismatch:\n got %s\nwant %s", back, tree)
	}
}
