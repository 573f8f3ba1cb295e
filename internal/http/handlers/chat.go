package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"

	"studymate/internal/domain"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

type chatImageRequest struct {
	SessionID   string `json:"session_id"`
	ImageBase64 string `json:"image_base64"`
}

type chatSessionDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type chatMessageDTO struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

func toSessionDTO(s domain.ChatSession) chatSessionDTO {
	return chatSessionDTO{ID: s.ID, Title: s.Title, CreatedAt: s.CreatedAt}
}

func (a *App) ChatSend(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req chatRequest
	if !a.decode(w, r, &req) {
		return
	}
	reply, err := a.Chat.Send(r.Context(), u, req.SessionID, req.Question)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, reply)
}

func (a *App) ChatImage(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	var req chatImageRequest
	if !a.decode(w, r, &req) {
		return
	}
	img, err := decodeBase64(req.ImageBase64)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "image_base64 required")
		return
	}
	reply, err := a.Chat.SendImage(r.Context(), u, req.SessionID, img)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, reply)
}

func (a *App) ChatSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := a.Chat.Sessions(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": lo.Map(sessions, func(s domain.ChatSession, _ int) chatSessionDTO { return toSessionDTO(s) })})
}

func (a *App) ChatSessionMessages(w http.ResponseWriter, r *http.Request) {
	session, chats, err := a.Chat.Messages(r.Context(), a.currentUserID(r), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"session": toSessionDTO(*session),
		"messages": lo.Map(chats, func(c domain.Chat, _ int) chatMessageDTO {
			return chatMessageDTO{ID: c.ID, Question: c.Question, Answer: c.Answer, CreatedAt: c.CreatedAt}
		}),
	})
}

func (a *App) ChatDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := a.Chat.DeleteSession(r.Context(), a.currentUserID(r), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
