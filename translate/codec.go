package translate

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/loctools/locfill/jsfile"
	"github.com/loctools/locfill/jsonfile"
	"github.com/loctools/locfill/loctree"
)

// Codec reads and writes localization trees in one on-disk format. The
// codec is selected once at startup from the source file's extension and
// used for both the source and every target locale file, so output is
// always written in the source's format.
type Codec interface {
	// Name identifies the format in logs.
	Name() string
	// ParseFile reads a localization file into an ordered tree.
	ParseFile(path string) (*loctree.Tree, error)
	// WriteFile serializes a tree, fully rewriting the file at path.
	WriteFile(tree *loctree.Tree, path string) error
}

// CodecForPath selects a codec by file extension: .json for structured
// data, .js/.mjs/.ts for source modules. Any other extension is an
// unsupported format and fatal at startup.
func CodecForPath(path string) (Codec, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return jsonCodec{}, nil
	case ".js", ".mjs", ".ts":
		return jsCodec{}, nil
	default:
		return nil, fmt.Errorf("unsupported localization file format %q (want .json, .js, .mjs or .ts)", filepath.Ext(path))
	}
}

type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) ParseFile(path string) (*loctree.Tree, error) {
	return jsonfile.ParseFile(path)
}

func (jsonCodec) WriteFile(tree *loctree.Tree, path string) error {
	return jsonfile.WriteFile(tree, path)
}

type jsCodec struct{}

func (jsCodec) Name() string { return "js" }

func (jsCodec) ParseFile(path string) (*loctree.Tree, error) {
	return jsfile.ParseFile(path)
}

func (jsCodec) WriteFile(tree *loctree.Tree, path string) error {
	return jsfile.WriteFile(tree, path)
}
