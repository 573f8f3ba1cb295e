package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"studymate/internal/domain"
	"studymate/internal/http/handlers"
	"studymate/internal/middleware"
)

// Options configures the cross-cutting middleware.
type Options struct {
	JWTSecret       string
	CORSOrigins     []string
	RateLimitPerMin int
	DefaultLocale   string
	Region          middleware.RegionLookup
	Logger          zerolog.Logger
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		middleware.RequestID,
		chimw.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.CORSOrigins),
		middleware.I18N(opts.DefaultLocale, opts.Region),
	)

	limit := opts.RateLimitPerMin
	if limit <= 0 {
		limit = 30
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthz", app.Health)
		r.Get("/openapi.json", app.OpenAPIJSON)
		r.Get("/docs", app.OpenAPIDocs)

		// public
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(limit, time.Minute))
			r.Post("/auth/register", app.Register)
			r.Post("/auth/login", app.Login)
			r.Post("/auth/google", app.GoogleLogin)
		})
		r.Post("/payments/webhook", app.PaymentsWebhook)

		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthJWT(opts.JWTSecret), middleware.RequireCSRF)

			r.Get("/me", app.Me)
			r.Post("/me/password", app.ChangePassword)
			r.Delete("/me", app.DeleteAccount)

			r.Get("/notes", app.NotesList)
			r.Get("/notes/export", app.NotesExport)
			r.Get("/notes/{id}", app.NotesView)
			r.Put("/notes/{id}", app.NotesEdit)
			r.Delete("/notes/{id}", app.NotesDelete)
			r.Get("/notes/{id}/download", app.NotesDownload)

			r.Get("/chat/sessions", app.ChatSessions)
			r.Get("/chat/sessions/{id}", app.ChatSessionMessages)
			r.Delete("/chat/sessions/{id}", app.ChatDeleteSession)

			r.Post("/tutor/pause", app.TutorPause)
			r.Post("/tutor/clear", app.TutorClear)
			r.Post("/tutor/reset", app.TutorReset)
			r.Post("/tutor/nickname", app.TutorNickname)
			r.Get("/tutor/state", app.TutorState)
			r.Get("/tutor/progress", app.TutorProgress)

			r.Get("/memory/results/{id}", app.MemoryResult)

			r.Post("/payments/order", app.PaymentsOrder)
			r.Post("/payments/confirm", app.PaymentsConfirm)

			r.Get("/progress", app.Progress)

			// backend-bound routes share a per-user budget
			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(limit, time.Minute))
				r.Post("/notes/generate", app.NotesGenerate)
				r.Post("/notes/from-image", app.NotesFromImage)
				r.Post("/chat", app.ChatSend)
				r.Post("/chat/image", app.ChatImage)
				r.Post("/tutor/ask", app.TutorAsk)
				r.Post("/tutor/image", app.TutorImage)
				r.Post("/memory/start", app.MemoryStart)
				r.Post("/memory/submit", app.MemorySubmit)
				r.Post("/evaluate", app.Evaluate)
				r.Get("/voice", app.Speak)
				r.Post("/stt", app.Transcribe)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireRole(string(domain.UserRoleAdmin), storedRole(app.Users)))
				r.Get("/stats", app.AdminStats)
				r.Get("/users", app.AdminUsers)
				r.Delete("/users/{id}", app.AdminDeleteUser)
			})
		})
	})

	return r
}

// storedRole reads the role from the user table so admin access follows the
// current row rather than the token.
func storedRole(users domain.UserRepository) middleware.RoleLookup {
	return func(ctx context.Context, userID string) (string, error) {
		u, err := users.GetByID(ctx, userID)
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return string(u.Role), nil
	}
}
