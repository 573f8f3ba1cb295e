package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"studymate/internal/domain"
	"studymate/internal/study"
)

type noteDTO struct {
	ID        string    `json:"id"`
	Lesson    string    `json:"lesson"`
	Mode      string    `json:"mode"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func toNoteDTO(n domain.Note) noteDTO {
	return noteDTO{ID: n.ID, Lesson: n.Lesson, Mode: n.Mode, Content: n.Content, CreatedAt: n.CreatedAt}
}

type noteGenerateRequest struct {
	Subject     string `json:"subject"`
	Mode        string `json:"mode"`
	Instruction string `json:"instruction"`
}

type noteImageRequest struct {
	ImageBase64 string `json:"image_base64"`
	Mode        string `json:"mode"`
}

type noteEditRequest struct {
	Content string `json:"content"`
}

func (a *App) NotesGenerate(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req noteGenerateRequest
	if !a.decode(w, r, &req) {
		return
	}
	note, err := a.Notes.Generate(r.Context(), u, study.NoteRequest{Subject: req.Subject, Mode: req.Mode, Instruction: req.Instruction})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, toNoteDTO(*note))
}

func (a *App) NotesFromImage(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req noteImageRequest
	if !a.decode(w, r, &req) {
		return
	}
	img, err := decodeBase64(req.ImageBase64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image_base64 required")
		return
	}
	note, err := a.Notes.FromImage(r.Context(), u, img, req.Mode)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusCreated, toNoteDTO(*note))
}

func (a *App) NotesList(w http.ResponseWriter, r *http.Request) {
	notes, err := a.Notes.List(r.Context(), a.currentUserID(r), r.URL.Query().Get("q"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": lo.Map(notes, func(n domain.Note, _ int) noteDTO { return toNoteDTO(n) })})
}

func (a *App) NotesView(w http.ResponseWriter, r *http.Request) {
	note, err := a.Notes.View(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toNoteDTO(*note))
}

func (a *App) NotesEdit(w http.ResponseWriter, r *http.Request) {
	var req noteEditRequest
	if !a.decode(w, r, &req) {
		return
	}
	if err := a.Notes.Edit(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"), req.Content); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) NotesDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Notes.Delete(r.Context(), a.currentUserID(r), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (a *App) NotesDownload(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	name, body, err := a.Notes.Download(r.Context(), u, chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.attachment(w, "text/plain; charset=utf-8", name, body)
}

func (a *App) NotesExport(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	archive, err := a.Notes.Export(r.Context(), u)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.attachment(w, "application/zip", "studymate-notes.zip", archive)
}

func (a *App) attachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
