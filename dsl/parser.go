// Package dsl parses .folio manuscript files: a small declarative format
// describing a book's metadata, formatting and chapter structure.
//
//	book "Example" {
//	    meta { author: "J. Writer" }
//	    formatting { font-size: 12pt; line-height: 1.5 }
//	    front "Dedication" { "For ${author}." }
//	    part "Part One" {
//	        chapter "Beginnings" {
//	            start-on-right: true
//	            "First paragraph."
//	        }
//	    }
//	    back "Notes" { numbered: false }
//	}
package dsl

import (
	"fmt"
	"io"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	folioLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Whitespace", Pattern: `[ \t\r]+`},
		{Name: "Newline", Pattern: `\n+`},
		{Name: "BlockComment", Pattern: `/\*[^*]*\*+(?:[^/*][^*]*\*+)*/`},
		{Name: "LineComment", Pattern: `//[^\n]*`},
		{Name: "Number", Pattern: `(?:\d+\.\d+|\d+)(?:pt|mm|cm|in|em|%)?`},
		{Name: "String", Pattern: `"(?:\\.|[^"])*"`},
		{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_-]*`},
		{Name: "Punct", Pattern: `[{}:;,]`},
	})

	documentParser = participle.MustBuild[Document](
		participle.Lexer(folioLexer),
		participle.Elide("Whitespace", "LineComment", "BlockComment"),
	)
)

// Document is the root AST node for a .folio file.
type Document struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Title StringLiteral  `parser:"Newline* 'book' @String"`
	Items []*Item        `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}' Newline*"`
}

// Item is one top-level declaration inside the book block.
type Item struct {
	Meta       *KVBlock      `parser:"  'meta' @@"`
	Formatting *KVBlock      `parser:"| 'formatting' @@"`
	Part       *PartBlock    `parser:"| @@"`
	Front      *ChapterBlock `parser:"| 'front' @@"`
	Back       *ChapterBlock `parser:"| 'back' @@"`
	Chapter    *ChapterBlock `parser:"| 'chapter' @@"`
}

// KVBlock is a brace-delimited list of key: value assignments.
type KVBlock struct {
	Entries []*Assignment `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// PartBlock groups consecutive chapters under a shared title.
type PartBlock struct {
	Title    StringLiteral   `parser:"'part' @String"`
	Chapters []*ChapterBlock `parser:"'{' Newline* ( 'chapter' @@ ( ';' | Newline )* )* '}'"`
}

// ChapterBlock declares one chapter: settings and body paragraphs, in order.
type ChapterBlock struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Title StringLiteral  `parser:"@String"`
	Stmts []*ChapterStmt `parser:"'{' Newline* ( @@ ( ';' | Newline )* )* '}'"`
}

// ChapterStmt is either a setting assignment or a body paragraph literal.
type ChapterStmt struct {
	Setting   *Assignment    `parser:"  @@"`
	Paragraph *StringLiteral `parser:"| @String"`
}

// Assignment uses colon syntax (key: value).
type Assignment struct {
	Pos   lexer.Position `parser:"" json:"-"`
	Key   string         `parser:"@Ident ':'"`
	Value *Value         `parser:"@@"`
}

// Value is a scalar property value.
type Value struct {
	String *StringLiteral `parser:"  @String"`
	Bool   *Boolean       `parser:"| @('true' | 'false')"`
	Number *string        `parser:"| @Number"`
}

// StringLiteral unquotes Go-style strings on capture.
type StringLiteral string

// Capture implements participle.Capture.
func (s *StringLiteral) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("string literal capture requires value")
	}
	val, err := strconv.Unquote(values[0])
	if err != nil {
		return err
	}
	*s = StringLiteral(val)
	return nil
}

// Boolean captures true/false idents.
type Boolean bool

// Capture implements participle.Capture.
func (b *Boolean) Capture(values []string) error {
	if len(values) == 0 {
		return fmt.Errorf("boolean capture requires value")
	}
	v, err := strconv.ParseBool(values[0])
	if err != nil {
		return err
	}
	*b = Boolean(v)
	return nil
}

// Parse parses a .folio document from an io.Reader.
func Parse(r io.Reader) (*Document, error) {
	return documentParser.Parse("", r)
}

// ParseString parses a .folio document from a string.
func ParseString(input string) (*Document, error) {
	return documentParser.ParseString("", input)
}
