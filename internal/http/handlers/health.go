package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"
)

const healthTimeout = 2 * time.Second

// Health reports "ok" when every registered dependency answers. Failing
// dependencies are named in the body and turn the status into 503.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	if len(a.HealthChecks) == 0 {
		a.json(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(a.HealthChecks))
	for name := range a.HealthChecks {
		names = append(names, name)
	}
	sort.Strings(names)

	status, code := "ok", http.StatusOK
	checks := make(map[string]string, len(names))
	for _, name := range names {
		if err := a.HealthChecks[name](ctx); err != nil {
			a.Logger.Warn().Err(err).Str("check", name).Msg("health check failed")
			checks[name] = "down"
			status, code = "degraded", http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}
	a.json(w, code, map[string]any{"status": status, "checks": checks})
}
