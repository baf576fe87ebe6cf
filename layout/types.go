package layout

// This file defines the page geometry, formatting parameters and pagination
// result types shared by the engine, the estimator and the preview server.

// Margin is measured in millimetres.
type Margin struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// PageGeometry is the fixed physical page size in millimetres.
type PageGeometry struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// USLetter is the default trim size (8.5 x 11 in).
func USLetter() PageGeometry {
	return GeometryFromInches(8.5, 11)
}

// GeometryFromInches builds a PageGeometry from inch dimensions.
func GeometryFromInches(w, h float64) PageGeometry {
	return PageGeometry{Width: w * InToMm, Height: h * InToMm}
}

// FormattingConfig carries the author-facing typography parameters.
type FormattingConfig struct {
	FontFamily string  `json:"fontFamily"`
	FontSizePt float64 `json:"fontSizePt"`
	// LineHeight is a multiple of the font size (1.5 means 150%).
	LineHeight float64 `json:"lineHeight"`
	Margin     Margin  `json:"margin"`
	// IndentEm is the paragraph first-line indent in em.
	IndentEm float64 `json:"indentEm"`
}

// DefaultFormatting mirrors common trade-book defaults: 12pt body text at
// 1.5 line height, one-inch margins, 1em paragraph indent.
func DefaultFormatting() FormattingConfig {
	return FormattingConfig{
		FontFamily: "Body",
		FontSizePt: 12,
		LineHeight: 1.5,
		Margin:     Margin{Top: InToMm, Right: InToMm, Bottom: InToMm, Left: InToMm},
		IndentEm:   1,
	}
}

// Style derives the measurement style for body text.
func (f FormattingConfig) Style() TextStyle {
	return TextStyle{
		FontFamily: f.FontFamily,
		FontSizePt: f.FontSizePt,
		LineHeight: f.LineHeight,
		IndentEm:   f.IndentEm,
	}
}

// ContentWidth returns the usable line width in mm for the given geometry.
func (f FormattingConfig) ContentWidth(geom PageGeometry) float64 {
	return geom.Width - f.Margin.Left - f.Margin.Right
}

// ContentHeight returns the usable column height in mm for the given geometry.
func (f FormattingConfig) ContentHeight(geom PageGeometry) float64 {
	return geom.Height - f.Margin.Top - f.Margin.Bottom
}

// TextStyle is the style contract handed to a Measurer. Alignment and indent
// are part of the contract because both affect line breaks and thus height.
type TextStyle struct {
	FontFamily string  `json:"fontFamily"`
	FontSizePt float64 `json:"fontSizePt"`
	LineHeight float64 `json:"lineHeight"` // multiple of font size
	Align      string  `json:"align,omitempty"`
	IndentEm   float64 `json:"indentEm,omitempty"`
}

// FontSizeMM returns the font size in the engine's canonical unit.
func (s TextStyle) FontSizeMM() float64 { return s.FontSizePt * PtToMm }

// LineHeightMM returns the absolute line advance in mm.
func (s TextStyle) LineHeightMM() float64 {
	lh := s.LineHeight
	if lh <= 0 {
		lh = 1.5
	}
	return s.FontSizeMM() * lh
}

// IndentMM returns the first-line indent in mm (1em equals the font size).
func (s TextStyle) IndentMM() float64 { return s.IndentEm * s.FontSizeMM() }

// BlockKind tags the role a text block plays on the page.
type BlockKind string

const (
	KindBody     BlockKind = "body"
	KindTitle    BlockKind = "title"
	KindSubtitle BlockKind = "subtitle"
)

// Paragraph is one entry of the pagination input run.
type Paragraph struct {
	Text string    `json:"text"`
	Kind BlockKind `json:"kind,omitempty"`
	// BreakBefore forces a page break before this paragraph (chapter starts).
	BreakBefore bool `json:"breakBefore,omitempty"`
	// StartOnRight marks a forced break that should land on a recto page.
	StartOnRight bool `json:"startOnRight,omitempty"`
}

// Block is a paragraph as placed on a page, with its resolved indent.
type Block struct {
	Text     string    `json:"text"`
	Kind     BlockKind `json:"kind,omitempty"`
	IndentEm float64   `json:"indentEm"`
}

// Page is one laid-out page. Pages are ephemeral: they are regenerated on
// every pagination run and never persisted.
type Page struct {
	Ordinal int     `json:"ordinal"`
	Blocks  []Block `json:"blocks"`
	// Blank marks an intentionally empty page inserted so the next chapter
	// starts on a recto. Core pagination never produces blank pages itself.
	Blank bool `json:"blank,omitempty"`
	// startsRight records that the page opens a right-start chapter; used by
	// ApplyRightPageStarts.
	startsRight bool
}

// PageSet is a published pagination result stamped with its generation.
type PageSet struct {
	Generation uint64 `json:"generation"`
	Pages      []Page `json:"pages"`
	// Estimated reports that the set came from the word-count fallback
	// rather than real measurement.
	Estimated bool `json:"estimated,omitempty"`
}
