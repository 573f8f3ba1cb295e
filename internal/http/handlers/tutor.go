package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/samber/lo"

	"studymate/internal/domain"
	"studymate/internal/learning"
	"studymate/internal/middleware"
	"studymate/internal/study"
)

type tutorAskRequest struct {
	Text     string `json:"text"`
	Type     string `json:"type"`
	Language string `json:"language"`
}

type tutorImageRequest struct {
	ImageBase64 string `json:"image_base64"`
}

type nicknameRequest struct {
	Nickname string `json:"nickname"`
}

type progressDTO struct {
	Topic        string    `json:"topic"`
	LastQuestion string    `json:"last_question"`
	Language     string    `json:"language"`
	Difficulty   string    `json:"difficulty"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
}

// TutorAsk runs one tutor turn. Without an explicit language the request
// locale decides.
func (a *App) TutorAsk(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req tutorAskRequest
	if !a.decode(w, r, &req) {
		return
	}
	lang := req.Language
	if lang == "" {
		lang = middleware.LocaleFromContext(r.Context())
	}
	in := learning.TutorInput{Text: req.Text, Type: learning.InputType(req.Type), Language: lang}
	if in.Type != "" && in.Type != learning.InputQuestion && in.Type != learning.InputLesson {
		a.error(w, http.StatusBadRequest, "bad_request", "type must be question or lesson")
		return
	}
	reply, err := a.Tutor.Ask(r.Context(), u, in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, reply)
}

func (a *App) TutorImage(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req tutorImageRequest
	if !a.decode(w, r, &req) {
		return
	}
	img, err := decodeBase64(req.ImageBase64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image_base64 required")
		return
	}
	reply, err := a.Tutor.Image(r.Context(), u, img)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, reply)
}

func (a *App) TutorPause(w http.ResponseWriter, r *http.Request) {
	a.tutorUpdate(w, r, a.Tutor.Pause)
}

func (a *App) TutorClear(w http.ResponseWriter, r *http.Request) {
	a.tutorUpdate(w, r, a.Tutor.Clear)
}

func (a *App) TutorReset(w http.ResponseWriter, r *http.Request) {
	a.tutorUpdate(w, r, a.Tutor.ResetTopic)
}

func (a *App) TutorState(w http.ResponseWriter, r *http.Request) {
	a.tutorUpdate(w, r, a.Tutor.State)
}

func (a *App) TutorNickname(w http.ResponseWriter, r *http.Request) {
	var req nicknameRequest
	if !a.decode(w, r, &req) {
		return
	}
	view, err := a.Tutor.SetNickname(r.Context(), a.currentUserID(r), req.Nickname)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, view)
}

func (a *App) TutorProgress(w http.ResponseWriter, r *http.Request) {
	items, err := a.Tutor.Progress(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": lo.Map(items, func(p domain.StudentProgress, _ int) progressDTO {
		return progressDTO{Topic: p.Topic, LastQuestion: p.LastQuestion, Language: p.Language, Difficulty: p.Difficulty, Notes: p.Notes, CreatedAt: p.CreatedAt}
	})})
}

func (a *App) tutorUpdate(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, userID string) (study.TutorView, error)) {
	view, err := fn(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, view)
}
