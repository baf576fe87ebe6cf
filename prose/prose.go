// Package prose splits chapter bodies into the paragraph units the layout
// engine paginates. Bodies are treated as lightweight Markdown: block
// structure decides paragraph boundaries, inline markup is kept verbatim.
package prose

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Paragraphs splits a chapter body into paragraph texts, in reading order.
// Empty and whitespace-only blocks are dropped; an empty body yields nil.
func Paragraphs(body string) []string {
	if strings.TrimSpace(body) == "" {
		return nil
	}

	src := []byte(body)
	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var out []string
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		t := blockText(n, src)
		if t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		// Degenerate bodies the parser produced no blocks for: fall back to
		// blank-line splitting so no text is ever silently dropped.
		for _, part := range strings.Split(body, "\n\n") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}

// blockText flattens a block node's raw lines, or its inline text children
// for container blocks, into a single paragraph string.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			if i > 0 {
				buf.WriteByte(' ')
			}
			seg := lines.At(i)
			buf.Write(bytes.TrimSpace(seg.Value(src)))
		}
	}
	if buf.Len() == 0 {
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if t, ok := c.(*ast.Text); ok {
				buf.Write(t.Value(src))
				if t.SoftLineBreak() || t.HardLineBreak() {
					buf.WriteByte(' ')
				}
			} else {
				buf.WriteString(blockText(c, src))
			}
		}
	}
	return strings.TrimSpace(buf.String())
}
