package layout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// errMeasureTimeout aborts the measurement loop when the soft deadline has
// passed. It never escapes the engine.
var errMeasureTimeout = errors.New("layout: measurement deadline exceeded")

// Engine converts a paragraph run into geometry-bounded pages using a
// Measurer, degrading to the word-count estimator whenever measurement is
// unavailable, fails or times out.
type Engine struct {
	measurer Measurer
	opts     EngineOptions
}

// NewEngine builds an engine around a measurement backend. A nil measurer is
// allowed: every run then uses the estimator.
func NewEngine(m Measurer, opts EngineOptions) *Engine {
	return &Engine{measurer: m, opts: opts.withDefaults()}
}

// Paginate lays out the run into pages. The only error ever returned is the
// context's, signalling that the run was superseded and its result must be
// discarded; all measurement failures are recovered internally via the
// estimator, so callers otherwise always receive a valid page set.
func (e *Engine) Paginate(ctx context.Context, run []Paragraph, cfg FormattingConfig, geom PageGeometry) ([]Page, bool, error) {
	if len(run) == 0 {
		return []Page{{Ordinal: 1}}, false, nil
	}
	if e.measurer == nil {
		e.opts.Logger.Warn("no measurement backend, paginating by word count")
		return EstimatePages(run, cfg), true, nil
	}

	pages, err := e.measureRun(ctx, run, cfg, geom)
	if err == nil {
		return pages, false, nil
	}
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	// Partial page state from the failed loop is discarded wholesale: mixing
	// measured pages with estimated ones would produce inconsistent breaks.
	if errors.Is(err, errMeasureTimeout) {
		e.opts.Logger.Warn("measurement timed out, paginating by word count",
			"timeout", e.opts.MeasureTimeout)
	} else {
		e.opts.Logger.Warn("measurement failed, paginating by word count", "error", err)
	}
	return EstimatePages(run, cfg), true, nil
}

// measureRun is the measured pagination path. Heights accumulate per page:
// each step measures the whole current page content plus the candidate
// paragraph, so inter-paragraph reflow is captured the way a real typesetter
// would, not as isolated paragraph heights.
func (e *Engine) measureRun(ctx context.Context, run []Paragraph, cfg FormattingConfig, geom PageGeometry) ([]Page, error) {
	style := cfg.Style()
	width := cfg.ContentWidth(geom)
	limit := cfg.ContentHeight(geom) - e.opts.FooterReserveMM - e.opts.OverflowBufferMM
	deadline := time.Now().Add(e.opts.MeasureTimeout)

	var pages []Page
	var current Page
	var texts []string

	closePage := func() {
		if len(current.Blocks) == 0 {
			return
		}
		current.Ordinal = len(pages) + 1
		pages = append(pages, current)
		current = Page{}
		texts = texts[:0]
	}

	afterForcedBreak := false
	for _, para := range run {
		// Cooperative cancellation: stop issuing measurement calls once
		// superseded or past the soft deadline. Calls already in flight are
		// allowed to finish.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, errMeasureTimeout
		}

		if para.BreakBefore {
			closePage()
			afterForcedBreak = true
		}

		candidate := strings.Join(append(texts, para.Text), "\n\n")
		height, err := e.measurer.MeasureHeight(candidate, style, width)
		if err != nil {
			return nil, fmt.Errorf("%w: paragraph %d: %v", ErrMeasure, len(texts), err)
		}
		// Close only a non-empty page: an oversized single paragraph still
		// gets placed rather than looping forever.
		if height > limit && len(current.Blocks) > 0 {
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
		texts = append(texts, para.Text)
		afterForcedBreak = false
	}
	closePage()

	if len(pages) == 0 {
		pages = []Page{{Ordinal: 1}}
	}
	return pages, nil
}

// ApplyRightPageStarts inserts intentionally blank pages so chapters flagged
// startOnRightPage open on a recto (odd ordinal), renumbering ordinals.
func ApplyRightPageStarts(pages []Page) []Page {
	out := make([]Page, 0, len(pages))
	for _, pg := range pages {
		if pg.startsRight && len(out)%2 == 1 {
			out = append(out, Page{Ordinal: len(out) + 1, Blank: true})
		}
		pg.Ordinal = len(out) + 1
		out = append(out, pg)
	}
	return out
}
