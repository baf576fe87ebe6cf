package layout

import (
	"math"
	"strings"
)

// The fallback estimator paginates by word count when no measurement backend
// is available. Reference constants: a 250-word page assumes 12pt text at
// 1.5 line height; this is a documented editorial rule of thumb, not derived
// from font metrics.
const (
	refWordsPerPage = 250.0
	refFontSizePt   = 12.0
	refLineHeight   = 1.5
	minWordsPerPage = 1
)

// WordsPerPage scales the reference capacity by font size and line height.
func WordsPerPage(fontSizePt, lineHeight float64) int {
	if fontSizePt <= 0 {
		fontSizePt = refFontSizePt
	}
	if lineHeight <= 0 {
		lineHeight = refLineHeight
	}
	n := int(math.Floor(refWordsPerPage * (refFontSizePt / fontSizePt) * (refLineHeight / lineHeight)))
	if n < minWordsPerPage {
		n = minWordsPerPage
	}
	return n
}

// EstimatePages greedily fills pages by word count. Paragraphs are never
// split mid-body; forced breaks are honoured; no page is emitted empty
// unless the input itself is empty (then exactly one empty page).
func EstimatePages(run []Paragraph, cfg FormattingConfig) []Page {
	if len(run) == 0 {
		return []Page{{Ordinal: 1}}
	}

	capacity := WordsPerPage(cfg.FontSizePt, cfg.LineHeight)
	pages := []Page{}
	var current Page
	words := 0

	closePage := func() {
		if len(current.Blocks) == 0 {
			return
		}
		current.Ordinal = len(pages) + 1
		pages = append(pages, current)
		current = Page{}
		words = 0
	}

	afterForcedBreak := false
	for _, para := range run {
		if para.BreakBefore {
			closePage()
			afterForcedBreak = true
		}
		w := len(strings.Fields(para.Text))
		if words+w > capacity && len(current.Blocks) > 0 {
			closePage()
		}
		if len(current.Blocks) == 0 && para.StartOnRight {
			current.startsRight = true
		}
		current.Blocks = append(current.Blocks, Block{
			Text:     para.Text,
			Kind:     para.Kind,
			IndentEm: blockIndent(cfg, para, afterForcedBreak && len(current.Blocks) == 0),
		})
		words += w
		afterForcedBreak = false
	}
	closePage()

	if len(pages) == 0 {
		pages = []Page{{Ordinal: 1}}
	}
	return pages
}

// blockIndent resolves the first-line indent for a placed paragraph. Title
// blocks and the first paragraph after a forced page break take no indent.
func blockIndent(cfg FormattingConfig, para Paragraph, firstAfterBreak bool) float64 {
	if para.Kind == KindTitle || para.Kind == KindSubtitle {
		return 0
	}
	if firstAfterBreak {
		return 0
	}
	return cfg.IndentEm
}
