package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"studymate/internal/domain"
)

type memoryStartRequest struct {
	NoteID string `json:"note_id"`
}

type memorySubmitRequest struct {
	Answers []string `json:"answers"`
}

type evaluateRequest struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type memoryTestDTO struct {
	ID         string    `json:"id"`
	NoteID     string    `json:"note_id"`
	Questions  []string  `json:"questions"`
	Scores     []float64 `json:"scores"`
	Score      float64   `json:"score"`
	Total      int       `json:"total"`
	Percentage float64   `json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
}

func toMemoryTestDTO(t domain.MemoryTest) memoryTestDTO {
	return memoryTestDTO{
		ID:         t.ID,
		NoteID:     t.NoteID,
		Questions:  t.Questions,
		Scores:     t.Scores,
		Score:      t.Score,
		Total:      t.Total,
		Percentage: t.Percentage,
		CreatedAt:  t.CreatedAt,
	}
}

func (a *App) MemoryStart(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req memoryStartRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.NoteID == "" {
		a.error(w, http.StatusBadRequest, "bad_request", "note_id required")
		return
	}
	questions, err := a.Memory.Start(r.Context(), u, req.NoteID)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"note_id": req.NoteID, "questions": questions})
}

func (a *App) MemorySubmit(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req memorySubmitRequest
	if !a.decode(w, r, &req) {
		return
	}
	res, err := a.Memory.Submit(r.Context(), u, req.Answers)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toMemoryTestDTO(*res))
}

func (a *App) MemoryResult(w http.ResponseWriter, r *http.Request) {
	res, err := a.Memory.Result(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, toMemoryTestDTO(*res))
}

func (a *App) Evaluate(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req evaluateRequest
	if !a.decode(w, r, &req) {
		return
	}
	report, err := a.Evaluator.Evaluate(r.Context(), u, req.Question, req.Answer)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"evaluation": report})
}
