package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRootCmd_Subcommands(t *testing.T) {
	root := newRootCmd()

	want := map[string]bool{
		"translate": false,
		"status":    false,
		"init":      false,
		"version":   false,
	}
	for _, cmd := range root.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("subcommand %s not registered", name)
		}
	}
}

func TestSetup_UnsupportedSourceFormat(t *testing.T) {
	dir := t.TempDir()
	content := `source: en.yaml
output_dir: .
locales: [es]
`
	if err := os.WriteFile(filepath.Join(dir, ".locfill.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	oldRoot := rootDir
	rootDir = dir
	t.Cleanup(func() { rootDir = oldRoot })

	if _, _, _, err := setup(); err == nil {
		t.Error("expected an unsupported-format error before any locale work")
	}
}

func TestSetup_MissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	content := `source: does-not-exist.json
output_dir: .
locales: [es]
`
	if err := os.WriteFile(filepath.Join(dir, ".locfill.yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	oldRoot := rootDir
	rootDir = dir
	t.Cleanup(func() { rootDir = oldRoot })

	if _, _, _, err := setup(); err == nil {
		t.Error("expected a fatal error for a missing source file")
	}
}

func TestSetup_EndToEndWithJSONSource(t *testing.T) {
	dir := t.TempDir()

	source := `{
    "greeting": "Hello",
    "nested": {"a": "Yes"}
}`
	if err := os.WriteFile(filepath.Join(dir, "en.json"), []byte(source), 0644); err != nil {
		t.Fatal(err)
	}
	cfgContent := `source: en.json
output_dir: .
locales: [es]
`
	if err := os.WriteFile(filepath.Join(dir, ".locfill.yaml"), []byte(cfgContent), 0644); err != nil {
		t.Fatal(err)
	}

	oldRoot := rootDir
	rootDir = dir
	t.Cleanup(func() { rootDir = oldRoot })

	cfg, codec, tree, err := setup()
	if err != nil {
		t.Fatalf("error: %v", err)
	}
	if codec.Name() != "json" {
		t.Errorf("codec = %s, want json", codec.Name())
	}
	if tree.StringLeafCount() != 2 {
		t.Errorf("source strings = %d, want 2", tree.StringLeafCount())
	}
	if got := cfg.TargetPath("es"); got != filepath.Join(dir, "es.json") {
		t.Errorf("target path = %q", got)
	}
}
