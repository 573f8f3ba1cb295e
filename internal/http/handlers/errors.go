package handlers

import (
	"errors"
	"net/http"
	"strings"

	"studymate/internal/domain"
	"studymate/internal/learning"
	"studymate/internal/payments"
	"studymate/internal/providers/gcp"
	"studymate/internal/providers/generation"
	"studymate/internal/study"
)

var quotaMessages = map[learning.QuotaKind]string{
	learning.QuotaNotes: "Daily free limit reached. Upgrade to Pro.",
	learning.QuotaChat:  "Daily chat limit reached. Upgrade to Pro.",
	learning.QuotaTutor: "Daily free limit reached (10). Upgrade to Pro for unlimited Tutor access.",
}

// fail maps a service error onto the response. Details stay in the log.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		quota *learning.QuotaError
		pro   *learning.ProOnlyError
		gen   *generation.Error
		save  *study.SaveError
	)
	switch {
	case errors.As(err, &quota):
		msg, ok := quotaMessages[quota.Kind]
		if !ok {
			msg = "Daily free limit reached. Upgrade to Pro."
		}
		a.error(w, http.StatusForbidden, "quota_exceeded", msg)
	case errors.As(err, &pro):
		a.error(w, http.StatusForbidden, "pro_only", string(pro.Feature)+" is Pro only. Upgrade to unlock.")
	case errors.Is(err, learning.ErrInvalidMode):
		a.error(w, http.StatusBadRequest, "invalid_mode", "Invalid generation mode.")
	case errors.As(err, &gen):
		a.Logger.Error().Err(err).
			Str("provider", gen.Provider).
			Str("kind", string(gen.Kind)).
			Int("status", gen.Status).
			Str("path", r.URL.Path).
			Msg("generation failed")
		if gen.Kind == generation.KindMisconfigured {
			a.error(w, http.StatusServiceUnavailable, "misconfigured", "AI service is not configured. Contact administrator.")
			return
		}
		a.error(w, http.StatusBadGateway, "upstream", "Sorry, the AI service could not answer right now. Please try again.")
	case errors.As(err, &save):
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("persist after generation")
		a.error(w, http.StatusInternalServerError, "save_failed", "Failed to save "+save.Entity+".")
	case errors.Is(err, study.ErrOCRUnavailable), errors.Is(err, study.ErrVoiceUnavailable), errors.Is(err, payments.ErrNotConfigured):
		a.error(w, http.StatusServiceUnavailable, "unavailable", "This feature is not configured. Contact administrator.")
	case errors.Is(err, gcp.ErrNoText):
		a.error(w, http.StatusUnprocessableEntity, "no_text", "No readable text found in the image.")
	case errors.Is(err, gcp.ErrNoSpeech):
		a.error(w, http.StatusUnprocessableEntity, "no_speech", "No speech detected.")
	case errors.Is(err, learning.ErrNothingToResume):
		a.error(w, http.StatusConflict, "nothing_to_resume", "There is no lesson to continue. Ask a new question.")
	case errors.Is(err, study.ErrNoPendingTest):
		a.error(w, http.StatusConflict, "no_pending_test", "Start a memory test first.")
	case errors.Is(err, learning.ErrNoQuestions):
		a.Logger.Warn().Err(err).Msg("recall questions missing from reply")
		a.error(w, http.StatusBadGateway, "upstream", "Sorry, the AI service could not answer right now. Please try again.")
	case errors.Is(err, learning.ErrEmptyQuestion),
		errors.Is(err, learning.ErrEmptySubject),
		errors.Is(err, generation.ErrEmptyPrompt),
		errors.Is(err, gcp.ErrEmptyAudio),
		errors.Is(err, gcp.ErrEmptyText),
		errors.Is(err, domain.ErrInvalidInput):
		a.error(w, http.StatusBadRequest, "bad_request", clientMessage(err))
	case errors.Is(err, domain.ErrInvalidSignature):
		a.error(w, http.StatusBadRequest, "invalid_signature", "Payment verification failed.")
	case errors.Is(err, domain.ErrInvalidCredentials):
		a.error(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password.")
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", "Authentication failed.")
	case errors.Is(err, domain.ErrForbidden):
		a.error(w, http.StatusForbidden, "forbidden", "Not allowed.")
	case errors.Is(err, domain.ErrEmailTaken):
		a.error(w, http.StatusConflict, "conflict", "Username or email already registered.")
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", "Not found.")
	default:
		a.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		a.error(w, http.StatusInternalServerError, "internal", "Something went wrong.")
	}
}

// clientMessage returns the user-facing part of a validation failure.
func clientMessage(err error) string {
	switch {
	case errors.Is(err, gcp.ErrEmptyAudio):
		return "Audio is required."
	case errors.Is(err, gcp.ErrEmptyText):
		return "Text is required."
	case errors.Is(err, generation.ErrEmptyPrompt), errors.Is(err, learning.ErrEmptyQuestion):
		return "Please enter a question."
	}
	msg := strings.TrimSuffix(err.Error(), ": "+domain.ErrInvalidInput.Error())
	if msg == "" || msg == domain.ErrInvalidInput.Error() {
		return "Invalid request."
	}
	return msg
}
