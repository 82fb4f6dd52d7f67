// Package jsfile implements reading and writing of JavaScript module
// localization files: a single module whose default export is a nested
// object literal of strings.
//
//	export default {
//	    greeting: 'Hello',
//	    nav: {
//	        home: 'Home',
//	    },
//	};
//
// Both `export default {...}` and `module.exports = {...}` headers are
// accepted on input. Object and array literals, single-, double- and
// backtick-quoted strings, numbers, booleans, null, line and block
// comments, and trailing commas are supported. Comments are not
// preserved on round-trip; key order is.
//
// On output, string delimiters are chosen per value so that embedded
// newlines and quotes never corrupt the literal: values containing a
// newline become template literals, values containing a single quote are
// double-quoted, everything else is single-quoted.
package jsfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/loctools/locfill/loctree"
)

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a JS module localization file.
func ParseFile(path string) (*loctree.Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	tree, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// Parse parses JS module source into an ordered tree.
func Parse(data []byte) (*loctree.Tree, error) {
	p := &parser{src: []rune(string(data)), line: 1}

	p.skipSpace()
	if err := p.skipExportHeader(); err != nil {
		return nil, err
	}
	p.skipSpace()

	if !p.consume('{') {
		return nil, p.errorf("expected object literal after export header")
	}
	tree, err := p.parseObject()
	if err != nil {
		return nil, err
	}

	// Optional trailing semicolon and whitespace.
	p.skipSpace()
	p.consume(';')
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected trailing content %q", string(p.peek()))
	}
	return tree, nil
}

type parser struct {
	src  []rune
	pos  int
	line int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) peek() rune {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) next() rune {
	r := p.src[p.pos]
	p.pos++
	if r == '\n' {
		p.line++
	}
	return r
}

func (p *parser) consume(r rune) bool {
	if !p.eof() && p.src[p.pos] == r {
		p.next()
		return true
	}
	return false
}

func (p *parser) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d: %s", p.line, fmt.Sprintf(format, args...))
}

// skipSpace advances past whitespace and // and /* */ comments.
func (p *parser) skipSpace() {
	for !p.eof() {
		r := p.peek()
		switch {
		case unicode.IsSpace(r):
			p.next()
		case r == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/':
			for !p.eof() && p.peek() != '\n' {
				p.next()
			}
		case r == '/' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '*':
			p.next()
			p.next()
			for !p.eof() {
				if p.peek() == '*' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '/' {
					p.next()
					p.next()
					break
				}
				p.next()
			}
		default:
			return
		}
	}
}

// skipExportHeader consumes `export default` or `module.exports =`
// (`exports.default =` is also accepted).
func (p *parser) skipExportHeader() error {
	rest := string(p.src[p.pos:])
	for _, header := range []string{"export default", "module.exports", "exports.default"} {
		if strings.HasPrefix(rest, header) {
			for range header {
				p.next()
			}
			p.skipSpace()
			// module.exports / exports.default are assignments.
			p.consume('=')
			return nil
		}
	}
	// A bare object literal file is accepted too.
	if p.peek() == '{' {
		return nil
	}
	return p.errorf("file does not export a default object")
}

// parseObject consumes members after an opening '{' up to and including
// the matching '}'.
func (p *parser) parseObject() (*loctree.Tree, error) {
	tree := loctree.NewTree()
	for {
		p.skipSpace()
		if p.consume('}') {
			return tree, nil
		}
		if p.eof() {
			return nil, p.errorf("unterminated object literal")
		}

		key, err := p.parseKey()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume(':') {
			return nil, p.errorf("expected ':' after key %q", key)
		}
		p.skipSpace()
		val, err := p.parseValue()
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		tree.Set(key, val)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume('}') {
			return tree, nil
		}
		return nil, p.errorf("expected ',' or '}' after value of %q", key)
	}
}

func (p *parser) parseArray() (loctree.List, error) {
	list := loctree.List{}
	for {
		p.skipSpace()
		if p.consume(']') {
			return list, nil
		}
		if p.eof() {
			return nil, p.errorf("unterminated array literal")
		}

		val, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		list = append(list, val)

		p.skipSpace()
		if p.consume(',') {
			continue
		}
		if p.consume(']') {
			return list, nil
		}
		return nil, p.errorf("expected ',' or ']' in array")
	}
}

func (p *parser) parseValue() (loctree.Value, error) {
	switch r := p.peek(); {
	case r == '{':
		p.next()
		return p.parseObject()
	case r == '[':
		p.next()
		return p.parseArray()
	case r == '\'' || r == '"' || r == '`':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return loctree.String(s), nil
	default:
		return p.parseBareword()
	}
}

// parseKey parses an identifier key or a quoted key.
func (p *parser) parseKey() (string, error) {
	r := p.peek()
	if r == '\'' || r == '"' || r == '`' {
		return p.parseString()
	}
	if !isIdentStart(r) {
		return "", p.errorf("expected object key, got %q", string(r))
	}
	start := p.pos
	for !p.eof() && isIdentPart(p.peek()) {
		p.next()
	}
	return string(p.src[start:p.pos]), nil
}

// parseString consumes a quoted string in any of the three JS delimiter
// styles, resolving escape sequences.
func (p *parser) parseString() (string, error) {
	quote := p.next()
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf("unterminated string")
		}
		r := p.next()
		switch {
		case r == quote:
			return b.String(), nil
		case r == '\\':
			if p.eof() {
				return "", p.errorf("unterminated escape sequence")
			}
			e := p.next()
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '\n':
				// Line continuation: swallowed.
			default:
				// \', \", \`, \\, \$ and anything else: the character itself.
				b.WriteRune(e)
			}
		case r == '\n' && quote != '`':
			return "", p.errorf("newline in %c-quoted string", quote)
		default:
			b.WriteRune(r)
		}
	}
}

// parseBareword parses numbers, true, false, and null, all kept as raw
// scalar literals.
func (p *parser) parseBareword() (loctree.Value, error) {
	start := p.pos
	for !p.eof() {
		r := p.peek()
		if r == ',' || r == '}' || r == ']' || unicode.IsSpace(r) {
			break
		}
		p.next()
	}
	word := string(p.src[start:p.pos])
	if word == "" {
		return nil, p.errorf("expected a value")
	}
	switch word {
	case "true", "false", "null":
		return loctree.Scalar(word), nil
	}
	if isNumber(word) {
		return loctree.Scalar(word), nil
	}
	return nil, p.errorf("unsupported value %q", word)
}

func isNumber(s string) bool {
	i := 0
	if s[0] == '-' || s[0] == '+' {
		i = 1
	}
	digits := 0
	for ; i < len(s); i++ {
		c := s[i]
		if c >= '0' && c <= '9' {
			digits++
			continue
		}
		if c == '.' || c == 'e' || c == 'E' || c == '-' || c == '+' {
			continue
		}
		return false
	}
	return digits > 0
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

// ---------------------------------------------------------------------------
// Writing
// ---------------------------------------------------------------------------

// WriteFile serializes the tree and fully rewrites the file at path,
// creating parent directories as needed.
func WriteFile(tree *loctree.Tree, path string) error {
	data, err := Marshal(tree)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Marshal renders the tree as `export default {...};` with 4-space
// indentation and keys in tree order.
func Marshal(tree *loctree.Tree) ([]byte, error) {
	var b strings.Builder
	b.WriteString("export default ")
	writeObject(&b, tree, 0)
	b.WriteString(";\n")
	return []byte(b.String()), nil
}

const indentUnit = "    "

func writeObject(b *strings.Builder, tree *loctree.Tree, depth int) {
	if tree.IsEmpty() {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	for _, k := range tree.Keys() {
		v, _ := tree.Get(k)
		b.WriteString(strings.Repeat(indentUnit, depth+1))
		b.WriteString(keyLiteral(k))
		b.WriteString(": ")
		writeValue(b, v, depth+1)
		b.WriteString(",\n")
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteByte('}')
}

func writeArray(b *strings.Builder, list loctree.List, depth int) {
	if len(list) == 0 {
		b.WriteString("[]")
		return
	}
	b.WriteString("[\n")
	for _, el := range list {
		b.WriteString(strings.Repeat(indentUnit, depth+1))
		writeValue(b, el, depth+1)
		b.WriteString(",\n")
	}
	b.WriteString(strings.Repeat(indentUnit, depth))
	b.WriteByte(']')
}

func writeValue(b *strings.Builder, v loctree.Value, depth int) {
	switch val := v.(type) {
	case loctree.String:
		b.WriteString(stringLiteral(string(val)))
	case loctree.Scalar:
		b.WriteString(string(val))
	case loctree.List:
		writeArray(b, val, depth)
	case *loctree.Tree:
		writeObject(b, val, depth)
	}
}

// keyLiteral emits a bare identifier when the key allows it, otherwise a
// single-quoted string.
func keyLiteral(key string) string {
	if isIdentifier(key) {
		return key
	}
	return stringLiteral(key)
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if i > 0 && !isIdentPart(r) {
			return false
		}
	}
	return true
}

// stringLiteral picks the delimiter that needs the least escaping:
// template literal for multi-line values, double quotes when the value
// contains a single quote, single quotes otherwise. Only backslashes and
// the chosen delimiter (plus `${` inside templates) are escaped, so the
// output stays readable.
func stringLiteral(s string) string {
	switch {
	case strings.Contains(s, "\n"):
		escaped := strings.ReplaceAll(s, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, "`", "\\`")
		escaped = strings.ReplaceAll(escaped, "${", "\\${")
		return "`" + escaped + "`"
	case strings.Contains(s, "'"):
		escaped := strings.ReplaceAll(s, `\`, `\\`)
		escaped = strings.ReplaceAll(escaped, `"`, `\"`)
		return `"` + escaped + `"`
	default:
		escaped := strings.ReplaceAll(s, `\`, `\\`)
		return "'" + escaped + "'"
	}
}
