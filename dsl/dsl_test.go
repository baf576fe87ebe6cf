package dsl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillworks/folio/manuscript"
)

const demo = `
// A small but complete manuscript.
book "The Example" {
	meta {
		author: "J. Writer"
		year: 2026
	}
	formatting {
		font: "Garamond"
		font-size: 11pt
		line-height: 1.4
		margin: 1in
		indent: 1em
	}
	front "Dedication" {
		"For ${author}."
	}
	part "Part One" {
		chapter "Beginnings" {
			subtitle: "An opening"
			start-on-right: true
			"First paragraph."
			"Second paragraph."
		}
		chapter "Interlude" {
			numbered: false
			"Quiet text."
		}
	}
	chapter "Standalone" {
		"Tail text."
	}
	back "Notes" {
		"Endnotes."
	}
}
`

func TestParseAndBuildDemo(t *testing.T) {
	book, err := Load(strings.NewReader(demo))
	require.NoError(t, err)

	assert.Equal(t, "The Example", book.Title)
	assert.Equal(t, "J. Writer", book.Meta["author"])
	assert.Equal(t, 2026.0, book.Meta["year"])

	assert.Equal(t, "Garamond", book.Formatting.FontFamily)
	assert.InDelta(t, 11.0, book.Formatting.FontSizePt, 1e-9)
	assert.InDelta(t, 1.4, book.Formatting.LineHeight, 1e-9)
	assert.InDelta(t, 25.4, book.Formatting.Margin.Left, 1e-9)
	assert.InDelta(t, 1.0, book.Formatting.IndentEm, 1e-9)

	seq := book.Store.Sequence()
	require.Len(t, seq, 5)
	assert.Equal(t, "Dedication", seq[0].Title)
	assert.Equal(t, manuscript.TypeFrontMatter, seq[0].Type)
	assert.Equal(t, 0, seq[0].Number)

	assert.Equal(t, "Beginnings", seq[1].Title)
	assert.Equal(t, "An opening", seq[1].Subtitle)
	assert.True(t, seq[1].StartOnRightPage)
	assert.Equal(t, 1, seq[1].Number)
	assert.Equal(t, "First paragraph.\n\nSecond paragraph.", seq[1].Body)

	assert.Equal(t, "Interlude", seq[2].Title)
	assert.Equal(t, 0, seq[2].Number)

	assert.Equal(t, "Standalone", seq[3].Title)
	assert.Equal(t, 2, seq[3].Number)
	assert.Empty(t, seq[3].PartID)

	assert.Equal(t, manuscript.TypeBackMatter, seq[4].Type)

	m := book.Store.Manuscript()
	require.Len(t, m.Parts, 1)
	assert.Equal(t, "Part One", m.Parts[0].Title)
	assert.Len(t, m.Parts[0].ChapterIDs, 2)
}

func TestParseRejectsMalformedInput(t *testing.T) {
	_, err := ParseString(`book "Broken" { chapter }`)
	require.Error(t, err)
}

func TestBuildRejectsUnknownChapterSetting(t *testing.T) {
	_, err := Load(strings.NewReader(`book "B" { chapter "C" { colour: "red" } }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chapter setting")
}

func TestBuildRejectsUnknownFormattingKey(t *testing.T) {
	_, err := Load(strings.NewReader(`book "B" { formatting { kerning: 1 } }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown formatting key")
}

func TestBuildRejectsRelativeUnits(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"percentage line-height", `book "B" { formatting { line-height: 150% } }`},
		{"em font-size", `book "B" { formatting { font-size: 1em } }`},
		{"percentage margin", `book "B" { formatting { margin: 5% } }`},
		{"length line-height", `book "B" { formatting { line-height: 12pt } }`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tc.src))
			require.Error(t, err)
		})
	}
}

func TestCommentsAreIgnored(t *testing.T) {
	doc, err := ParseString("book \"C\" {\n/* block */\n// line\nchapter \"One\" { \"Text.\" }\n}")
	require.NoError(t, err)
	book, err := Build(doc)
	require.NoError(t, err)
	assert.Len(t, book.Store.Sequence(), 1)
}
