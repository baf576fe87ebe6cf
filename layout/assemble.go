package layout

import (
	"fmt"

	"github.com/quillworks/folio/binding"
	"github.com/quillworks/folio/manuscript"
	"github.com/quillworks/folio/prose"
)

// AssembleRun flattens a reading sequence into the paragraph run fed to the
// pagination engine. Each chapter contributes a title block (numbered
// chapters carry their "Chapter N" designation), an optional subtitle block
// and its body paragraphs; the chapter's first paragraph forces a page break.
// Metadata placeholders are interpolated throughout.
func AssembleRun(seq []manuscript.Chapter, meta map[string]any) []Paragraph {
	var run []Paragraph
	for _, ch := range seq {
		paras := chapterParagraphs(ch, meta)
		if len(paras) == 0 {
			continue
		}
		paras[0].BreakBefore = true
		paras[0].StartOnRight = ch.StartOnRightPage
		run = append(run, paras...)
	}
	return run
}

func chapterParagraphs(ch manuscript.Chapter, meta map[string]any) []Paragraph {
	var paras []Paragraph
	if heading := chapterHeading(ch, meta); heading != "" {
		paras = append(paras, Paragraph{Text: heading, Kind: KindTitle})
	}
	if sub := binding.Interpolate(ch.Subtitle, meta); sub != "" {
		paras = append(paras, Paragraph{Text: sub, Kind: KindSubtitle})
	}
	for _, text := range prose.Paragraphs(binding.Interpolate(ch.Body, meta)) {
		paras = append(paras, Paragraph{Text: text, Kind: KindBody})
	}
	return paras
}

func chapterHeading(ch manuscript.Chapter, meta map[string]any) string {
	title := binding.Interpolate(ch.Title, meta)
	if ch.Number == 0 {
		return title
	}
	if title == "" {
		return fmt.Sprintf("Chapter %d", ch.Number)
	}
	return fmt.Sprintf("Chapter %d: %s", ch.Number, title)
}
