// Package fonttable provides a deterministic layout.Measurer driven by a
// built-in advance-width table. It needs no font files or host renderer,
// which makes it suitable for headless servers and reproducible tests while
// still tracking per-glyph widths instead of flat word counts.
package fonttable

import (
	"fmt"
	"strings"

	"github.com/quillworks/folio/layout"
)

// widths holds advance widths for printable ASCII (32..126) in thousandths
// of an em, matching the classic Times Roman metrics.
var widths = [95]int{
	250, 333, 408, 500, 500, 833, 778, 180, // space ! " # $ % & '
	333, 333, 500, 564, 250, 333, 250, 278, // ( ) * + , - . /
	500, 500, 500, 500, 500, 500, 500, 500, // 0..7
	500, 500, 278, 278, 564, 564, 564, 444, // 8 9 : ; < = > ?
	921, 722, 667, 667, 722, 611, 556, 722, // @ A..G
	722, 333, 389, 722, 611, 889, 722, 722, // H..O
	556, 722, 667, 556, 611, 722, 722, 944, // P..W
	722, 722, 611, 333, 278, 333, 469, 500, // X Y Z [ \ ] ^ _
	333, 444, 500, 444, 500, 444, 333, 500, // ` a..g
	500, 278, 278, 500, 278, 778, 500, 500, // h..o
	500, 500, 333, 389, 278, 500, 500, 722, // p..w
	500, 500, 444, 480, 200, 480, 541, // x y z { | } ~
}

const defaultWidth = 500

// Measurer implements layout.Measurer from the width table. The zero value
// is ready to use.
type Measurer struct{}

var _ layout.Measurer = Measurer{}

// MeasureHeight wraps each blank-line-separated paragraph greedily at the
// given width and returns total lines times the line advance.
func (Measurer) MeasureHeight(text string, style layout.TextStyle, width float64) (float64, error) {
	if width <= 0 {
		return 0, fmt.Errorf("fonttable: non-positive width %g", width)
	}
	em := style.FontSizeMM()
	lines := 0
	for _, para := range strings.Split(text, "\n\n") {
		lines += lineCount(para, em, width, style.IndentMM())
	}
	return float64(lines) * style.LineHeightMM(), nil
}

func lineCount(text string, em, width, firstIndent float64) int {
	words := strings.Fields(text)
	if len(words) == 0 {
		return 1
	}
	space := runeWidth(' ') * em
	lines := 1
	avail := width - firstIndent
	cur := 0.0
	for _, w := range words {
		ww := textWidth(w, em)
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
	}
	return lines
}

func textWidth(s string, em float64) float64 {
	total := 0.0
	for _, r := range s {
		total += runeWidth(r) * em
	}
	return total
}

func runeWidth(r rune) float64 {
	if r >= ' ' && r <= '~' {
		return float64(widths[r-' ']) / 1000
	}
	return float64(defaultWidth) / 1000
}
