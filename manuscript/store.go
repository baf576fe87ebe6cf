package manuscript

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// ErrInvalidReference is returned when an operation names a chapter or part
// id that does not exist. The structure is left unchanged in that case.
var ErrInvalidReference = errors.New("invalid reference")

// Store owns the ordered manuscript hierarchy. All mutations are synchronous,
// validate their references before touching any state, and renumber chapters
// before returning, so concurrent readers always observe a consistent,
// fully-numbered structure.
type Store struct {
	mu       sync.RWMutex
	chapters map[string]*Chapter
	front    []string // front matter ids, in order
	back     []string // back matter ids, in order
	parts    []*Part  // ordered parts
	body     []string // every body chapter id, in chapters-list order
}

// NewStore returns an empty manuscript store.
func NewStore() *Store {
	return &Store{chapters: map[string]*Chapter{}}
}

// AddChapter creates a chapter of the given type and returns its generated id.
// Body chapters are numbered by default; front and back matter never are.
func (s *Store) AddChapter(t ChapterType, fields ChapterFields) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := &Chapter{
		ID:               uuid.NewString(),
		Type:             t,
		Title:            fields.Title,
		Subtitle:         fields.Subtitle,
		Body:             fields.Body,
		StartOnRightPage: fields.StartOnRightPage,
	}
	if t == TypeChapter {
		ch.Numbered = fields.Numbered == nil || *fields.Numbered
	}
	s.chapters[ch.ID] = ch

	switch t {
	case TypeFrontMatter:
		s.front = append(s.front, ch.ID)
	case TypeBackMatter:
		s.back = append(s.back, ch.ID)
	default:
		s.body = append(s.body, ch.ID)
	}

	s.renumber()
	return ch.ID
}

// UpdateChapter merges the non-nil patch fields into the chapter.
func (s *Store) UpdateChapter(id string, patch ChapterPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.chapters[id]
	if !ok {
		return fmt.Errorf("manuscript: unknown chapter %s: %w", id, ErrInvalidReference)
	}
	if patch.Title != nil {
		ch.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		ch.Subtitle = *patch.Subtitle
	}
	if patch.Body != nil {
		ch.Body = *patch.Body
	}
	if patch.Numbered != nil && ch.Type == TypeChapter {
		ch.Numbered = *patch.Numbered
	}
	if patch.StartOnRightPage != nil {
		ch.StartOnRightPage = *patch.StartOnRightPage
	}

	s.renumber()
	return nil
}

// RemoveChapter deletes the chapter and strips it from its region list and
// from any part's chapter-id list.
func (s *Store) RemoveChapter(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.chapters[id]; !ok {
		return fmt.Errorf("manuscript: unknown chapter %s: %w", id, ErrInvalidReference)
	}
	delete(s.chapters, id)
	s.front = removeID(s.front, id)
	s.back = removeID(s.back, id)
	s.body = removeID(s.body, id)
	for _, p := range s.parts {
		p.ChapterIDs = removeID(p.ChapterIDs, id)
	}

	s.renumber()
	return nil
}

// AddPart creates an empty part and returns its generated id.
func (s *Store) AddPart(title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := &Part{ID: uuid.NewString(), Title: title}
	s.parts = append(s.parts, p)
	return p.ID
}

// UpdatePart merges the non-nil patch fields into the part.
func (s *Store) UpdatePart(id string, patch PartPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPart(id)
	if p == nil {
		return fmt.Errorf("manuscript: unknown part %s: %w", id, ErrInvalidReference)
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Subtitle != nil {
		p.Subtitle = *patch.Subtitle
	}
	return nil
}

// RemovePart deletes the part. Its chapters are un-assigned, never deleted:
// they stay in the chapters list and rejoin the standalone sequence.
func (s *Store) RemovePart(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.findPart(id)
	if p == nil {
		return fmt.Errorf("manuscript: unknown part %s: %w", id, ErrInvalidReference)
	}
	for _, cid := range p.ChapterIDs {
		if ch, ok := s.chapters[cid]; ok {
			ch.PartID = ""
		}
	}
	out := s.parts[:0]
	for _, q := range s.parts {
		if q.ID != id {
			out = append(out, q)
		}
	}
	s.parts = out

	s.renumber()
	return nil
}

// MoveChapterToPart assigns a body chapter to a part, appending it to the
// part's chapter list. An empty partID un-assigns the chapter instead.
func (s *Store) MoveChapterToPart(chapterID, partID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch, ok := s.chapters[chapterID]
	if !ok {
		return fmt.Errorf("manuscript: unknown chapter %s: %w", chapterID, ErrInvalidReference)
	}
	if ch.Type != TypeChapter {
		return fmt.Errorf("manuscript: chapter %s is %s, only body chapters can join a part: %w", chapterID, ch.Type, ErrInvalidReference)
	}
	var target *Part
	if partID != "" {
		if target = s.findPart(partID); target == nil {
			return fmt.Errorf("manuscript: unknown part %s: %w", partID, ErrInvalidReference)
		}
	}

	for _, p := range s.parts {
		p.ChapterIDs = removeID(p.ChapterIDs, chapterID)
	}
	ch.PartID = ""
	if target != nil {
		target.ChapterIDs = append(target.ChapterIDs, chapterID)
		ch.PartID = target.ID
	}

	s.renumber()
	return nil
}

// Reorder moves the entry at sourceIndex of the flattened logical reading
// sequence to destIndex. Front and back matter entries may only move within
// their own region. A body chapter adopts the part whose chapters surround
// its landing position: a boundary between two parts joins the preceding
// one, the head of the chapter's own part keeps membership, and only a
// position with no part neighbour leaves it standalone.
func (s *Store) Reorder(sourceIndex, destIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	refs := s.flattenIDs()
	if sourceIndex < 0 || sourceIndex >= len(refs) || destIndex < 0 || destIndex >= len(refs) {
		return fmt.Errorf("manuscript: reorder index out of range (%d -> %d of %d): %w", sourceIndex, destIndex, len(refs), ErrInvalidReference)
	}
	if sourceIndex == destIndex {
		return nil
	}

	moved := s.chapters[refs[sourceIndex]]
	next := splice(refs, sourceIndex, destIndex)

	// Region spans must stay contiguous: front matter first, body in the
	// middle, back matter last. A move that interleaves regions is rejected
	// wholesale before any state changes.
	region := func(id string) int {
		switch s.chapters[id].Type {
		case TypeFrontMatter:
			return 0
		case TypeBackMatter:
			return 2
		default:
			return 1
		}
	}
	for i := 1; i < len(next); i++ {
		if region(next[i]) < region(next[i-1]) {
			return fmt.Errorf("manuscript: cannot move %s entry across regions: %w", moved.Type, ErrInvalidReference)
		}
	}

	switch moved.Type {
	case TypeFrontMatter, TypeBackMatter:
		dst := &s.front
		if moved.Type == TypeBackMatter {
			dst = &s.back
		}
		order := make([]string, 0, len(*dst))
		for _, id := range next {
			if s.chapters[id].Type == moved.Type {
				order = append(order, id)
			}
		}
		*dst = order
	default:
		s.placeBodyChapter(moved, next)
	}

	s.renumber()
	return nil
}

// placeBodyChapter rebuilds part membership and the chapters-list order for
// a body chapter that just landed at a new flattened position.
func (s *Store) placeBodyChapter(moved *Chapter, next []string) {
	// New chapters-list order follows the flattened body order.
	body := make([]string, 0, len(s.body))
	for _, id := range next {
		if s.chapters[id].Type == TypeChapter {
			body = append(body, id)
		}
	}
	s.body = body

	// Decide the container from the new neighbours within the body span.
	var prevPart, nextPart string
	for i, id := range next {
		if id != moved.ID {
			continue
		}
		if i > 0 && s.chapters[next[i-1]].Type == TypeChapter {
			prevPart = s.chapters[next[i-1]].PartID
		}
		if i+1 < len(next) && s.chapters[next[i+1]].Type == TypeChapter {
			nextPart = s.chapters[next[i+1]].PartID
		}
		break
	}
	// Landing inside a part joins it. Landing on a boundary between two parts
	// joins the preceding one, except that the head of the chapter's own part
	// keeps membership. Only positions with no part neighbour at all resolve
	// to standalone, because the flattened order places every standalone
	// chapter after the last part.
	target := ""
	switch {
	case nextPart != "" && nextPart == moved.PartID:
		target = moved.PartID
	case prevPart != "":
		target = prevPart
	case nextPart != "":
		target = nextPart
	}

	for _, p := range s.parts {
		p.ChapterIDs = removeID(p.ChapterIDs, moved.ID)
	}
	moved.PartID = target
	if target == "" {
		return
	}
	p := s.findPart(target)
	// Insert at the position implied by the flattened order of the part's
	// surviving members.
	ids := make([]string, 0, len(p.ChapterIDs)+1)
	for _, id := range next {
		if id == moved.ID || containsID(p.ChapterIDs, id) {
			ids = append(ids, id)
		}
	}
	p.ChapterIDs = ids
}

// Manuscript returns a deep snapshot of the structure.
func (s *Store) Manuscript() Manuscript {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := Manuscript{
		FrontMatter: s.copyChapters(s.front),
		Chapters:    s.copyChapters(s.body),
		BackMatter:  s.copyChapters(s.back),
	}
	m.Parts = make([]Part, 0, len(s.parts))
	for _, p := range s.parts {
		cp := *p
		cp.ChapterIDs = append([]string(nil), p.ChapterIDs...)
		m.Parts = append(m.Parts, cp)
	}
	return m
}

// Sequence returns the logical reading sequence: front matter, then each
// part's chapters in order, then standalone chapters, then back matter, with
// chapter numbers resolved. This is the always-available ordered view used by
// continuous readers and exporters.
func (s *Store) Sequence() []Chapter {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.flattenIDs()
	out := make([]Chapter, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.chapters[id])
	}
	return out
}

// Chapter returns a copy of a single chapter.
func (s *Store) Chapter(id string) (Chapter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ch, ok := s.chapters[id]
	if !ok {
		return Chapter{}, fmt.Errorf("manuscript: unknown chapter %s: %w", id, ErrInvalidReference)
	}
	return *ch, nil
}

// flattenIDs computes the logical reading order. Callers must hold the lock.
func (s *Store) flattenIDs() []string {
	ids := make([]string, 0, len(s.chapters))
	ids = append(ids, s.front...)
	for _, p := range s.parts {
		ids = append(ids, p.ChapterIDs...)
	}
	for _, id := range s.body {
		if s.chapters[id].PartID == "" {
			ids = append(ids, id)
		}
	}
	ids = append(ids, s.back...)
	return ids
}

func (s *Store) renumber() {
	ids := s.flattenIDs()
	seq := make([]*Chapter, 0, len(ids))
	for _, id := range ids {
		seq = append(seq, s.chapters[id])
	}
	Renumber(seq)
}

func (s *Store) findPart(id string) *Part {
	for _, p := range s.parts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (s *Store) copyChapters(ids []string) []Chapter {
	out := make([]Chapter, 0, len(ids))
	for _, id := range ids {
		out = append(out, *s.chapters[id])
	}
	return out
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func containsID(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// splice removes the element at src and reinserts it at dst, matching the
// usual drag-and-drop convention.
func splice(ids []string, src, dst int) []string {
	out := make([]string, 0, len(ids))
	out = append(out, ids[:src]...)
	out = append(out, ids[src+1:]...)
	out = append(out[:dst], append([]string{ids[src]}, out[dst:]...)...)
	return out
}
