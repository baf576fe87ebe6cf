// Package canvasmeasure provides a layout.Measurer backed by real font
// metrics via github.com/tdewolff/canvas. Faces are created in mm so all
// width and height arithmetic stays in the engine's canonical unit.
package canvasmeasure

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"

	"github.com/quillworks/folio/layout"
)

// Provider loads TTF/OTF files on demand and measures wrapped text height.
// It is safe for concurrent use; loaded families are cached per family name.
type Provider struct {
	baseDir string
	paths   map[string]string // family name -> font file path

	mu       sync.Mutex
	families map[string]*canvas.FontFamily
}

var _ layout.Measurer = (*Provider)(nil)

// New creates a provider. paths maps family names to font files; relative
// paths are resolved against baseDir.
func New(baseDir string, paths map[string]string) *Provider {
	if paths == nil {
		paths = map[string]string{}
	}
	return &Provider{
		baseDir:  baseDir,
		paths:    paths,
		families: map[string]*canvas.FontFamily{},
	}
}

// MeasureHeight implements layout.Measurer. Paragraphs are separated by blank
// lines; each wraps greedily at the given width, with the style's first-line
// indent narrowing each paragraph's first line.
func (p *Provider) MeasureHeight(text string, style layout.TextStyle, width float64) (float64, error) {
	if width <= 0 {
		return 0, fmt.Errorf("canvasmeasure: non-positive width %g", width)
	}
	family, err := p.ensureFamily(style.FontFamily)
	if err != nil {
		return 0, err
	}
	face := family.Face(style.FontSizeMM(), canvas.Black, canvas.FontRegular, canvas.FontNormal)

	lineHeight := style.LineHeightMM()
	lines := 0
	for _, para := range strings.Split(text, "\n\n") {
		lines += wrapLineCount(face, para, width, style.IndentMM())
	}
	return float64(lines) * lineHeight, nil
}

// wrapLineCount counts greedy word-wrapped lines. Empty paragraphs still
// occupy one line.
func wrapLineCount(face *canvas.FontFace, text string, width, firstIndent float64) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 1
	}
	space := face.TextWidth(" ")
	lines := 1
	avail := width - firstIndent
	cur := 0.0
	for _, w := range words {
		ww := face.TextWidth(w)
		switch {
		case cur == 0:
			cur = ww
		case cur+space+ww > avail:
			lines++
			avail = width
			cur = ww
		default:
			cur += space + ww
		}
		// An oversized word overflows rather than splits; it still breaks the
		// line that follows it.
		if cur > avail {
			lines++
			avail = width
			cur = 0
		}
	}
	if cur == 0 && lines > 1 {
		lines--
	}
	return lines
}

func (p *Provider) ensureFamily(name string) (*canvas.FontFamily, error) {
	if name == "" {
		name = "Body"
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if fam, ok := p.families[name]; ok {
		return fam, nil
	}

	path, ok := p.paths[name]
	if !ok {
		// A single registered font serves as the fallback for every family.
		if len(p.paths) != 1 {
			return nil, fmt.Errorf("%w: no font registered for family %q", layout.ErrMetricsUnavailable, name)
		}
		for _, only := range p.paths {
			path = only
		}
	}
	if !filepath.IsAbs(path) && p.baseDir != "" {
		path = filepath.Join(p.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read font %q: %v", layout.ErrMetricsUnavailable, path, err)
	}
	fam := canvas.NewFontFamily(name)
	if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("%w: load font %q: %v", layout.ErrMetricsUnavailable, path, err)
	}
	p.families[name] = fam
	return fam, nil
}
