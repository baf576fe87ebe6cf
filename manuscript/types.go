package manuscript

// This file defines the document hierarchy shared by the store, the layout
// engine and the preview server.

// ChapterType distinguishes numbered body chapters from front and back matter.
type ChapterType string

const (
	TypeChapter     ChapterType = "chapter"
	TypeFrontMatter ChapterType = "frontMatter"
	TypeBackMatter  ChapterType = "backMatter"
)

// Chapter is a single manuscript section. Number and PartID are derived fields
// maintained exclusively by the store; callers must never set them directly.
type Chapter struct {
	ID       string      `json:"id"`
	Type     ChapterType `json:"type"`
	Title    string      `json:"title"`
	Subtitle string      `json:"subtitle,omitempty"`
	Body     string      `json:"body"`

	// Numbered controls participation in chapter numbering. Only body
	// chapters are ever numbered; Number is 0 when absent.
	Numbered bool `json:"isNumbered"`
	Number   int  `json:"chapterNumber,omitempty"`

	StartOnRightPage bool `json:"startOnRightPage,omitempty"`

	// PartID back-references the owning part, or is empty for standalone
	// chapters. The part's chapter-id list is the source of truth.
	PartID string `json:"partId,omitempty"`
}

// Part groups consecutive body chapters. Its ChapterIDs list owns membership
// and order; Chapter.PartID merely mirrors it.
type Part struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Subtitle   string   `json:"subtitle,omitempty"`
	ChapterIDs []string `json:"chapterIds"`
}

// Manuscript is a point-in-time snapshot of the full structure. Chapters
// contains every body chapter, both part members and standalone ones, in
// chapters-list order.
type Manuscript struct {
	FrontMatter []Chapter `json:"frontMatter"`
	Parts       []Part    `json:"parts"`
	Chapters    []Chapter `json:"chapters"`
	BackMatter  []Chapter `json:"backMatter"`
}

// ChapterFields carries the caller-settable fields when creating a chapter.
type ChapterFields struct {
	Title            string
	Subtitle         string
	Body             string
	StartOnRightPage bool
	// Numbered defaults to true for body chapters when nil; front and back
	// matter are never numbered regardless of this field.
	Numbered *bool
}

// ChapterPatch is a partial update; nil fields are left untouched.
type ChapterPatch struct {
	Title            *string
	Subtitle         *string
	Body             *string
	Numbered         *bool
	StartOnRightPage *bool
}

// PartPatch is a partial update for a part.
type PartPatch struct {
	Title    *string
	Subtitle *string
}
