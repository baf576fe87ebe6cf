package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillworks/folio/layout"
	"github.com/quillworks/folio/manuscript"
)

func (s *Server) handleGetManuscript(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Manuscript())
}

func (s *Server) handleGetSequence(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"sequence": s.store.Sequence()})
}

func (s *Server) handleGetPages(w http.ResponseWriter, r *http.Request) {
	set := s.paginator.Latest()
	set.Pages = layout.ApplyRightPageStarts(set.Pages)
	writeJSON(w, http.StatusOK, set)
}

func (s *Server) handleGetFormatting(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"formatting": s.formatting,
		"geometry":   s.geometry,
	})
}

type addChapterRequest struct {
	Type             manuscript.ChapterType `json:"type"`
	Title            string                 `json:"title"`
	Subtitle         string                 `json:"subtitle"`
	Body             string                 `json:"body"`
	Numbered         *bool                  `json:"isNumbered"`
	StartOnRightPage bool                   `json:"startOnRightPage"`
}

func (s *Server) handleAddChapter(w http.ResponseWriter, r *http.Request) {
	var req addChapterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	t := req.Type
	if t == "" {
		t = manuscript.TypeChapter
	}
	switch t {
	case manuscript.TypeChapter, manuscript.TypeFrontMatter, manuscript.TypeBackMatter:
	default:
		writeError(w, http.StatusBadRequest, "unknown chapter type")
		return
	}
	id := s.store.AddChapter(t, manuscript.ChapterFields{
		Title:            req.Title,
		Subtitle:         req.Subtitle,
		Body:             req.Body,
		Numbered:         req.Numbered,
		StartOnRightPage: req.StartOnRightPage,
	})
	gen := s.Repaginate()
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "generation": gen})
}

func (s *Server) handleGetChapter(w http.ResponseWriter, r *http.Request) {
	ch, err := s.store.Chapter(chi.URLParam(r, "id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ch)
}

type chapterPatchRequest struct {
	Title            *string `json:"title"`
	Subtitle         *string `json:"subtitle"`
	Body             *string `json:"body"`
	Numbered         *bool   `json:"isNumbered"`
	StartOnRightPage *bool   `json:"startOnRightPage"`
}

func (s *Server) handleUpdateChapter(w http.ResponseWriter, r *http.Request) {
	var req chapterPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.store.UpdateChapter(chi.URLParam(r, "id"), manuscript.ChapterPatch{
		Title:            req.Title,
		Subtitle:         req.Subtitle,
		Body:             req.Body,
		Numbered:         req.Numbered,
		StartOnRightPage: req.StartOnRightPage,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	gen := s.Repaginate()
	writeJSON(w, http.StatusOK, map[string]any{"generation": gen})
}

func (s *Server) handleRemoveChapter(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemoveChapter(chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	gen := s.Repaginate()
	writeJSON(w, http.StatusOK, map[string]any{"generation": gen})
}

func (s *Server) handleMoveChapter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PartID string `json:"partId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.MoveChapterToPart(chi.URLParam(r, "id"), req.PartID); err != nil {
		s.writeStoreError(w, err)
		return
	}
	gen := s.Repaginate()
	writeJSON(w, http.StatusOK, map[string]any{"generation": gen})
}

func (s *Server) handleAddPart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := s.store.AddPart(req.Title)
	writeJSON(w, http.StatusCreated, map[string]any{"id": id})
}

func (s *Server) handleUpdatePart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title    *string `json:"title"`
		Subtitle *string `json:"subtitle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.store.UpdatePart(chi.URLParam(r, "id"), manuscript.PartPatch{
		Title:    req.Title,
		Subtitle: req.Subtitle,
	})
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleRemovePart(w http.ResponseWriter, r *http.Request) {
	if err := s.store.RemovePart(chi.URLParam(r, "id")); err != nil {
		s.writeStoreError(w, err)
		return
	}
	gen := s.Repaginate()
	writeJSON(w, http.StatusOK, map[string]any{"generation": gen})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceIndex int `json:"sourceIndex"`
		DestIndex   int `json:"destIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.Reorder(req.SourceIndex, req.DestIndex); err != nil {
		s.writeStoreError(w, err)
		return
	}
	gen := s.Repaginate()
	writeJSON(w, http.StatusOK, map[string]any{"generation": gen})
}

func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, manuscript.ErrInvalidReference) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.log.Error("store operation failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
