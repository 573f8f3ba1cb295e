package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultUserListLimit = 100
	maxUserListLimit     = 500
)

func (a *App) Progress(w http.ResponseWriter, r *http.Request) {
	summary, err := a.Dashboard.Progress(r.Context(), a.currentUserID(r))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, summary)
}

func (a *App) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Dashboard.AdminStats(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, stats)
}

func (a *App) AdminUsers(w http.ResponseWriter, r *http.Request) {
	limit := defaultUserListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			a.error(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
			return
		}
		limit = min(n, maxUserListLimit)
	}
	users, err := a.Dashboard.Users(r.Context(), limit)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]any{"items": users})
}

func (a *App) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == a.currentUserID(r) {
		a.error(w, http.StatusBadRequest, "bad_request", "use account deletion for your own account")
		return
	}
	if err := a.Dashboard.DeleteUser(r.Context(), id); err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("user_id", id).Str("admin_id", a.currentUserID(r)).Msg("user deleted by admin")
	w.WriteHeader(http.StatusNoContent)
}
