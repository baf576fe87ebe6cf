package layout

import (
	"context"
	"testing"
	"time"
)

// testConfig gives round numbers: content height 112mm, so the usable limit
// is 100mm after the 10mm footer reserve and 2mm overflow buffer.
func testConfig() (FormattingConfig, PageGeometry) {
	cfg := FormattingConfig{FontFamily: "Body", FontSizePt: 12, LineHeight: 1.5, IndentEm: 1}
	geom := PageGeometry{Width: 100, Height: 112}
	return cfg, geom
}

func bodyRun(texts ...string) []Paragraph {
	run := make([]Paragraph, 0, len(texts))
	for _, t := range texts {
		run = append(run, Paragraph{Text: t, Kind: KindBody})
	}
	return run
}

func pageTexts(pg Page) []string {
	out := make([]string, 0, len(pg.Blocks))
	for _, b := range pg.Blocks {
		out = append(out, b.Text)
	}
	return out
}

func TestPaginateFillsPagesByMeasuredHeight(t *testing.T) {
	cfg, geom := testConfig()
	// Each paragraph measures 40mm against a 100mm limit: two fit, a third
	// overflows onto the next page.
	engine := NewEngine(&ScriptedMeasurer{PerPara: 40}, EngineOptions{})

	pages, estimated, err := engine.Paginate(context.Background(), bodyRun("a", "b", "c"), cfg, geom)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if estimated {
		t.Fatal("expected measured pagination")
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	if got := pageTexts(pages[0]); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("page 1 blocks = %v", got)
	}
	if got := pageTexts(pages[1]); len(got) != 1 || got[0] != "c" {
		t.Fatalf("page 2 blocks = %v", got)
	}
	if pages[0].Ordinal != 1 || pages[1].Ordinal != 2 {
		t.Fatalf("ordinals = %d, %d", pages[0].Ordinal, pages[1].Ordinal)
	}
}

func TestPaginateNeverClosesEmptyPage(t *testing.T) {
	cfg, geom := testConfig()
	// A single paragraph taller than the page still gets placed.
	engine := NewEngine(&ScriptedMeasurer{PerPara: 500}, EngineOptions{})

	pages, _, err := engine.Paginate(context.Background(), bodyRun("giant"), cfg, geom)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(pages) != 1 || len(pages[0].Blocks) != 1 {
		t.Fatalf("expected one page with one block, got %+v", pages)
	}
}

func TestPaginateEmptyRunYieldsOneEmptyPage(t *testing.T) {
	cfg, geom := testConfig()
	engine := NewEngine(&ScriptedMeasurer{PerPara: 10}, EngineOptions{})

	pages, estimated, err := engine.Paginate(context.Background(), nil, cfg, geom)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if estimated {
		t.Fatal("empty input must not hit the estimator")
	}
	if len(pages) != 1 || len(pages[0].Blocks) != 0 || pages[0].Ordinal != 1 {
		t.Fatalf("expected exactly one empty page, got %+v", pages)
	}
}

func TestPaginateForcedBreakAndIndent(t *testing.T) {
	cfg, geom := testConfig()
	engine := NewEngine(&ScriptedMeasurer{PerPara: 10}, EngineOptions{})

	run := []Paragraph{
		{Text: "Chapter 1", Kind: KindTitle, BreakBefore: true},
		{Text: "first", Kind: KindBody},
		{Text: "second", Kind: KindBody},
		{Text: "Chapter 2", Kind: KindTitle, BreakBefore: true},
		{Text: "third", Kind: KindBody},
	}
	pages, _, err := engine.Paginate(context.Background(), run, cfg, geom)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	// Titles never indent; the first body paragraph after a forced break only
	// loses its indent when it opens the page itself.
	p1 := pages[0].Blocks
	if p1[0].IndentEm != 0 {
		t.Errorf("title indent = %g, want 0", p1[0].IndentEm)
	}
	if p1[1].IndentEm != cfg.IndentEm {
		t.Errorf("body indent = %g, want %g", p1[1].IndentEm, cfg.IndentEm)
	}
}

func TestPaginateBodyAfterForcedBreakHasNoIndent(t *testing.T) {
	cfg, geom := testConfig()
	engine := NewEngine(&ScriptedMeasurer{PerPara: 10}, EngineOptions{})

	run := []Paragraph{
		{Text: "intro", Kind: KindBody},
		{Text: "opener", Kind: KindBody, BreakBefore: true},
		{Text: "follow", Kind: KindBody},
	}
	pages, _, err := engine.Paginate(context.Background(), run, cfg, geom)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}
	p2 := pages[1].Blocks
	if p2[0].IndentEm != 0 {
		t.Errorf("first paragraph after forced break indent = %g, want 0", p2[0].IndentEm)
	}
	if p2[1].IndentEm != cfg.IndentEm {
		t.Errorf("following paragraph indent = %g, want %g", p2[1].IndentEm, cfg.IndentEm)
	}
}

func allBlockTexts(pages []Page) []string {
	var out []string
	for _, pg := range pages {
		out = append(out, pageTexts(pg)...)
	}
	return out
}

func TestPaginateKeepsRunOrderAcrossPages(t *testing.T) {
	cfg, geom := testConfig()
	// 35mm per paragraph against a 100mm limit: two per page, so the run
	// spills across several pages and forced breaks.
	engine := NewEngine(&ScriptedMeasurer{PerPara: 35}, EngineOptions{})

	run := []Paragraph{
		{Text: "Chapter 1", Kind: KindTitle, BreakBefore: true},
		{Text: "p1", Kind: KindBody},
		{Text: "p2", Kind: KindBody},
		{Text: "p3", Kind: KindBody},
		{Text: "Chapter 2", Kind: KindTitle, BreakBefore: true},
		{Text: "p4", Kind: KindBody},
		{Text: "p5", Kind: KindBody},
	}
	pages, estimated, err := engine.Paginate(context.Background(), run, cfg, geom)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if estimated {
		t.Fatal("expected measured pagination")
	}
	for i, pg := range pages {
		if len(pg.Blocks) == 0 {
			t.Fatalf("page %d is empty", i+1)
		}
	}
	// Concatenating every page's blocks must reproduce the input run, in
	// order, with nothing dropped or duplicated.
	got := allBlockTexts(pages)
	if len(got) != len(run) {
		t.Fatalf("paginated %d blocks from %d paragraphs: %v", len(got), len(run), got)
	}
	for i, para := range run {
		if got[i] != para.Text {
			t.Fatalf("block %d = %q, want %q (full order %v)", i, got[i], para.Text, got)
		}
	}
}

func TestPaginateMeasureErrorFallsBackToEstimator(t *testing.T) {
	cfg, geom := testConfig()
	engine := NewEngine(&ScriptedMeasurer{Err: ErrMetricsUnavailable}, EngineOptions{})

	pages, estimated, err := engine.Paginate(context.Background(), bodyRun("a", "b"), cfg, geom)
	if err != nil {
		t.Fatalf("Paginate must recover measurement failures, got %v", err)
	}
	if !estimated {
		t.Fatal("expected estimator fallback")
	}
	if len(pages) == 0 {
		t.Fatal("fallback produced no pages")
	}
}

func TestPaginateNilMeasurerUsesEstimator(t *testing.T) {
	cfg, geom := testConfig()
	engine := NewEngine(nil, EngineOptions{})

	_, estimated, err := engine.Paginate(context.Background(), bodyRun("a"), cfg, geom)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if !estimated {
		t.Fatal("expected estimator fallback")
	}
}

func TestPaginateTimeoutFallsBackToEstimator(t *testing.T) {
	cfg, geom := testConfig()
	engine := NewEngine(&ScriptedMeasurer{PerPara: 10}, EngineOptions{MeasureTimeout: time.Nanosecond})

	pages, estimated, err := engine.Paginate(context.Background(), bodyRun("a", "b", "c"), cfg, geom)
	if err != nil {
		t.Fatalf("Paginate: %v", err)
	}
	if !estimated {
		t.Fatal("expected estimator fallback after timeout")
	}
	if len(pages) == 0 {
		t.Fatal("fallback produced no pages")
	}
}

func TestPaginateCancelledContextReturnsError(t *testing.T) {
	cfg, geom := testConfig()
	engine := NewEngine(&ScriptedMeasurer{PerPara: 10}, EngineOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := engine.Paginate(ctx, bodyRun("a"), cfg, geom)
	if err == nil {
		t.Fatal("expected context error for a superseded run")
	}
}

func TestApplyRightPageStartsInsertsBlanks(t *testing.T) {
	pages := []Page{
		{Ordinal: 1, Blocks: []Block{{Text: "one"}}, startsRight: true},
		{Ordinal: 2, Blocks: []Block{{Text: "two"}}, startsRight: true},
		{Ordinal: 3, Blocks: []Block{{Text: "three"}}},
	}
	out := ApplyRightPageStarts(pages)
	if len(out) != 4 {
		t.Fatalf("expected 4 pages, got %d", len(out))
	}
	if !out[1].Blank {
		t.Error("expected a blank page before the second right-start chapter")
	}
	if out[2].Blocks[0].Text != "two" || out[2].Ordinal != 3 {
		t.Errorf("right-start page landed at ordinal %d", out[2].Ordinal)
	}
	for i, pg := range out {
		if pg.Ordinal != i+1 {
			t.Errorf("ordinal[%d] = %d", i, pg.Ordinal)
		}
	}
}
