package handlers

import (
	"errors"
	"io"
	"net/http"

	"studymate/internal/domain"
	"studymate/internal/payments"
)

// SignatureHeader carries the webhook body signature.
const SignatureHeader = "X-Razorpay-Signature"

const maxWebhookBytes = 1 << 20

func (a *App) PaymentsOrder(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	checkout, err := a.Payments.CreateOrder(r.Context(), userID)
	if err != nil {
		var apiErr *payments.APIError
		if errors.As(err, &apiErr) {
			a.Logger.Error().Err(err).Int("status", apiErr.Status).Msg("create order failed")
			a.error(w, http.StatusBadGateway, "upstream", "Could not start the payment. Please try again.")
			return
		}
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, checkout)
}

// PaymentsConfirm handles the checkout widget callback. A replayed callback
// reports success without a second upgrade.
func (a *App) PaymentsConfirm(w http.ResponseWriter, r *http.Request) {
	userID := a.currentUserID(r)
	var req payments.Confirmation
	if !a.decode(w, r, &req) {
		return
	}
	err := a.Payments.Confirm(r.Context(), userID, req)
	switch {
	case errors.Is(err, domain.ErrDuplicateOperation):
		a.json(w, http.StatusOK, map[string]any{"success": true, "plan": domain.UserPlanPro, "message": "Payment already processed."})
	case err != nil:
		a.fail(w, r, err)
	default:
		a.json(w, http.StatusOK, map[string]any{"success": true, "plan": domain.UserPlanPro})
	}
}

// PaymentsWebhook verifies the raw body before anything is parsed. Deliveries
// that cannot be applied are still acknowledged so the gateway stops retrying.
func (a *App) PaymentsWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}
	outcome, err := a.Payments.HandleWebhook(r.Context(), body, r.Header.Get(SignatureHeader))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidSignature) {
			a.Logger.Warn().Msg("webhook signature mismatch")
		}
		a.fail(w, r, err)
		return
	}
	a.json(w, http.StatusOK, map[string]string{"status": "ok", "outcome": string(outcome)})
}
