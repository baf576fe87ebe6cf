package layout

import (
	"testing"

	"github.com/quillworks/folio/manuscript"
)

func TestAssembleRunChapterStructure(t *testing.T) {
	seq := []manuscript.Chapter{
		{Type: manuscript.TypeFrontMatter, Title: "Dedication", Body: "For the reader."},
		{Type: manuscript.TypeChapter, Title: "Beginnings", Subtitle: "An opening", Number: 1, Numbered: true,
			Body: "First paragraph.\n\nSecond paragraph.", StartOnRightPage: true},
	}
	run := AssembleRun(seq, nil)

	want := []struct {
		text  string
		kind  BlockKind
		brk   bool
		right bool
	}{
		{"Dedication", KindTitle, true, false},
		{"For the reader.", KindBody, false, false},
		{"Chapter 1: Beginnings", KindTitle, true, true},
		{"An opening", KindSubtitle, false, false},
		{"First paragraph.", KindBody, false, false},
		{"Second paragraph.", KindBody, false, false},
	}
	if len(run) != len(want) {
		t.Fatalf("run length %d, want %d", len(run), len(want))
	}
	for i, w := range want {
		p := run[i]
		if p.Text != w.text || p.Kind != w.kind || p.BreakBefore != w.brk || p.StartOnRight != w.right {
			t.Errorf("run[%d] = %+v, want %+v", i, p, w)
		}
	}
}

func TestAssembleRunUnnumberedChapterKeepsBareTitle(t *testing.T) {
	seq := []manuscript.Chapter{
		{Type: manuscript.TypeChapter, Title: "Interlude", Numbered: false, Body: "Text."},
	}
	run := AssembleRun(seq, nil)
	if run[0].Text != "Interlude" {
		t.Fatalf("heading = %q, want bare title", run[0].Text)
	}
}

func TestAssembleRunUntitledNumberedChapter(t *testing.T) {
	seq := []manuscript.Chapter{
		{Type: manuscript.TypeChapter, Number: 3, Numbered: true, Body: "Text."},
	}
	run := AssembleRun(seq, nil)
	if run[0].Text != "Chapter 3" {
		t.Fatalf("heading = %q, want %q", run[0].Text, "Chapter 3")
	}
}

func TestAssembleRunInterpolatesMetadata(t *testing.T) {
	seq := []manuscript.Chapter{
		{Type: manuscript.TypeFrontMatter, Title: "Dedication", Body: "For ${dedicatee}."},
	}
	run := AssembleRun(seq, map[string]any{"dedicatee": "M."})
	if run[1].Text != "For M.." {
		t.Fatalf("interpolated body = %q", run[1].Text)
	}
}

func TestAssembleRunSkipsEmptyChapters(t *testing.T) {
	seq := []manuscript.Chapter{
		{Type: manuscript.TypeChapter, Numbered: false},
		{Type: manuscript.TypeChapter, Title: "Real", Numbered: false, Body: "Text."},
	}
	run := AssembleRun(seq, nil)
	if len(run) != 2 || run[0].Text != "Real" {
		t.Fatalf("run = %+v", run)
	}
}
