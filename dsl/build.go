package dsl

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/quillworks/folio/layout"
	"github.com/quillworks/folio/manuscript"
)

// Book is the built form of a parsed document: a populated manuscript store
// plus the formatting, geometry and metadata the layout engine needs.
type Book struct {
	Title      string
	Meta       map[string]any
	Formatting layout.FormattingConfig
	Geometry   layout.PageGeometry
	Store      *manuscript.Store
}

// Load parses and builds a book in one step.
func Load(r io.Reader) (*Book, error) {
	doc, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return Build(doc)
}

// Build materialises the AST into a Book. Declarations are applied in source
// order, so chapter numbering follows the file's reading sequence.
func Build(doc *Document) (*Book, error) {
	book := &Book{
		Title:      string(doc.Title),
		Meta:       map[string]any{},
		Formatting: layout.DefaultFormatting(),
		Geometry:   layout.USLetter(),
		Store:      manuscript.NewStore(),
	}

	for _, item := range doc.Items {
		switch {
		case item.Meta != nil:
			for _, a := range item.Meta.Entries {
				book.Meta[a.Key] = a.Value.scalar()
			}
		case item.Formatting != nil:
			for _, a := range item.Formatting.Entries {
				if err := book.applyFormatting(a); err != nil {
					return nil, err
				}
			}
		case item.Part != nil:
			partID := book.Store.AddPart(string(item.Part.Title))
			for _, ch := range item.Part.Chapters {
				id, err := book.addChapter(manuscript.TypeChapter, ch)
				if err != nil {
					return nil, err
				}
				if err := book.Store.MoveChapterToPart(id, partID); err != nil {
					return nil, err
				}
			}
		case item.Front != nil:
			if _, err := book.addChapter(manuscript.TypeFrontMatter, item.Front); err != nil {
				return nil, err
			}
		case item.Back != nil:
			if _, err := book.addChapter(manuscript.TypeBackMatter, item.Back); err != nil {
				return nil, err
			}
		case item.Chapter != nil:
			if _, err := book.addChapter(manuscript.TypeChapter, item.Chapter); err != nil {
				return nil, err
			}
		}
	}
	return book, nil
}

func (b *Book) addChapter(t manuscript.ChapterType, blk *ChapterBlock) (string, error) {
	fields := manuscript.ChapterFields{Title: string(blk.Title)}
	var paras []string
	for _, st := range blk.Stmts {
		if st.Paragraph != nil {
			paras = append(paras, string(*st.Paragraph))
			continue
		}
		a := st.Setting
		switch a.Key {
		case "subtitle":
			s, err := a.stringValue()
			if err != nil {
				return "", err
			}
			fields.Subtitle = s
		case "numbered":
			v, err := a.boolValue()
			if err != nil {
				return "", err
			}
			fields.Numbered = &v
		case "start-on-right":
			v, err := a.boolValue()
			if err != nil {
				return "", err
			}
			fields.StartOnRightPage = v
		default:
			return "", fmt.Errorf("dsl: %s: unknown chapter setting %q", a.Pos, a.Key)
		}
	}
	fields.Body = strings.Join(paras, "\n\n")
	return b.Store.AddChapter(t, fields), nil
}

func (b *Book) applyFormatting(a *Assignment) error {
	switch a.Key {
	case "font":
		s, err := a.stringValue()
		if err != nil {
			return err
		}
		b.Formatting.FontFamily = s
	case "font-size":
		v, err := a.lengthValue(layout.UnitPT)
		if err != nil {
			return err
		}
		b.Formatting.FontSizePt = v
	case "line-height":
		v, err := a.factorValue()
		if err != nil {
			return err
		}
		b.Formatting.LineHeight = v
	case "indent":
		v, err := a.factorValue()
		if err != nil {
			return err
		}
		b.Formatting.IndentEm = v
	case "margin":
		v, err := a.lengthValue(layout.UnitMM)
		if err != nil {
			return err
		}
		b.Formatting.Margin = layout.Margin{Top: v, Right: v, Bottom: v, Left: v}
	case "page-width":
		v, err := a.lengthValue(layout.UnitMM)
		if err != nil {
			return err
		}
		b.Geometry.Width = v
	case "page-height":
		v, err := a.lengthValue(layout.UnitMM)
		if err != nil {
			return err
		}
		b.Geometry.Height = v
	default:
		return fmt.Errorf("dsl: %s: unknown formatting key %q", a.Pos, a.Key)
	}
	return nil
}

// scalar returns the plain Go value of a parsed scalar, for metadata. Bare
// numbers become float64; numbers with a unit are kept as written.
func (v *Value) scalar() any {
	switch {
	case v == nil:
		return nil
	case v.String != nil:
		return string(*v.String)
	case v.Bool != nil:
		return bool(*v.Bool)
	case v.Number != nil:
		if f, err := strconv.ParseFloat(*v.Number, 64); err == nil {
			return f
		}
		return *v.Number
	}
	return nil
}

func (a *Assignment) stringValue() (string, error) {
	if a.Value == nil || a.Value.String == nil {
		return "", fmt.Errorf("dsl: %s: %s expects a string value", a.Pos, a.Key)
	}
	return string(*a.Value.String), nil
}

func (a *Assignment) boolValue() (bool, error) {
	if a.Value == nil || a.Value.Bool == nil {
		return false, fmt.Errorf("dsl: %s: %s expects true or false", a.Pos, a.Key)
	}
	return bool(*a.Value.Bool), nil
}

// lengthValue resolves a number-with-unit into the target unit. A bare number
// is taken to already be in the target unit. Relative units are rejected
// rather than silently dropped: the lexer admits "%" and "em" because other
// keys take them, but a length key has nothing to resolve them against.
func (a *Assignment) lengthValue(target layout.Unit) (float64, error) {
	if a.Value == nil || a.Value.Number == nil {
		return 0, fmt.Errorf("dsl: %s: %s expects a length value", a.Pos, a.Key)
	}
	raw := *a.Value.Number
	if strings.HasSuffix(raw, "%") || strings.HasSuffix(raw, "em") {
		return 0, fmt.Errorf("dsl: %s: %s takes an absolute length like 12pt, not %q", a.Pos, a.Key, raw)
	}
	l := layout.ParseLength(raw)
	if l.Unit == layout.UnitNone {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("dsl: %s: %s: cannot parse %q as a length", a.Pos, a.Key, raw)
		}
		return v, nil
	}
	return l.To(target), nil
}

// factorValue resolves a unit-less multiplier such as line-height or indent.
// An "em" suffix on indent is accepted and ignored (1em equals the font size);
// anything else that is not a bare number, percentages included, is rejected.
func (a *Assignment) factorValue() (float64, error) {
	if a.Value == nil || a.Value.Number == nil {
		return 0, fmt.Errorf("dsl: %s: %s expects a number", a.Pos, a.Key)
	}
	raw := strings.TrimSuffix(*a.Value.Number, "em")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("dsl: %s: %s takes a bare factor like 1.5, not %q", a.Pos, a.Key, *a.Value.Number)
	}
	return v, nil
}
