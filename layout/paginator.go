package layout

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Paginator runs the engine asynchronously and publishes results by
// generation: every Trigger supersedes the previous run, cancels it, and only
// the newest generation is ever published or retained. Stale results are
// dropped silently, so a burst of edits converges on the layout of the final
// state.
type Paginator struct {
	engine *Engine
	log    *slog.Logger

	gen atomic.Uint64

	mu     sync.Mutex
	latest PageSet
	cancel context.CancelFunc
	subs   []func(PageSet)
}

// NewPaginator wraps an engine. The logger may be nil.
func NewPaginator(engine *Engine, log *slog.Logger) *Paginator {
	if log == nil {
		log = slog.Default()
	}
	return &Paginator{engine: engine, log: log}
}

// Subscribe registers a callback invoked after every published page set.
// Callbacks run on the pagination goroutine and must not block.
func (p *Paginator) Subscribe(fn func(PageSet)) {
	p.mu.Lock()
	p.subs = append(p.subs, fn)
	p.mu.Unlock()
}

// Latest returns the most recently published page set. The zero PageSet
// (generation 0) means nothing has been paginated yet.
func (p *Paginator) Latest() PageSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest
}

// Trigger starts a new pagination run over the given content and returns its
// generation token. Any in-flight run is cancelled; its result, and the
// result of any run that lost the race, is discarded.
func (p *Paginator) Trigger(run []Paragraph, cfg FormattingConfig, geom PageGeometry) uint64 {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	gen := p.gen.Add(1)
	p.mu.Unlock()

	go p.run(ctx, gen, run, cfg, geom)
	return gen
}

// Invalidate cancels any in-flight run without starting a new one. The last
// published page set stays available until the next Trigger replaces it.
func (p *Paginator) Invalidate() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()
}

func (p *Paginator) run(ctx context.Context, gen uint64, run []Paragraph, cfg FormattingConfig, geom PageGeometry) {
	pages, estimated, err := p.engine.Paginate(ctx, run, cfg, geom)
	if err != nil {
		p.log.Debug("pagination run superseded", "generation", gen)
		return
	}
	set := PageSet{Generation: gen, Pages: pages, Estimated: estimated}

	// The staleness check shares the mutex with Trigger's generation bump, so
	// a run superseded mid-publish can never slip its result in after the
	// newer Trigger has been observed.
	p.mu.Lock()
	if gen != p.gen.Load() {
		p.mu.Unlock()
		return
	}
	p.latest = set
	subs := make([]func(PageSet), len(p.subs))
	copy(subs, p.subs)
	p.mu.Unlock()

	p.log.Debug("pagination published",
		"generation", set.Generation, "pages", len(set.Pages), "estimated", set.Estimated)
	for _, fn := range subs {
		fn(set)
	}
}
