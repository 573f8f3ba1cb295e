package payments

import (
	"encoding/json"
	"fmt"
)

const (
	EventPaymentCaptured = "payment.captured"
	EventPaymentFailed   = "payment.failed"
)

// Event is the flattened view of a Razorpay webhook delivery.
type Event struct {
	Name      string
	OrderID   string
	PaymentID string
	Amount    int64
	Currency  string
	Notes     map[string]string
}

type webhookEntity struct {
	ID       string          `json:"id"`
	OrderID  string          `json:"order_id"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	Notes    json.RawMessage `json:"notes"`
}

type webhookBody struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity webhookEntity `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity webhookEntity `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// ParseWebhook flattens a webhook body. Payment fields win over order fields
// and payment notes override order notes key by key.
func ParseWebhook(body []byte) (Event, error) {
	var wb webhookBody
	if err := json.Unmarshal(body, &wb); err != nil {
		return Event{}, fmt.Errorf("decode webhook: %w", err)
	}
	var pay, ord webhookEntity
	if wb.Payload.Payment != nil {
		pay = wb.Payload.Payment.Entity
	}
	if wb.Payload.Order != nil {
		ord = wb.Payload.Order.Entity
	}
	ev := Event{
		Name:      wb.Event,
		OrderID:   firstNonEmpty(pay.OrderID, ord.ID),
		PaymentID: pay.ID,
		Amount:    pay.Amount,
		Currency:  firstNonEmpty(pay.Currency, ord.Currency),
		Notes:     map[string]string{},
	}
	if ev.Amount == 0 {
		ev.Amount = ord.Amount
	}
	// notes is an object when set and an empty array otherwise
	for _, raw := range []json.RawMessage{ord.Notes, pay.Notes} {
		var m map[string]any
		if len(raw) == 0 || json.Unmarshal(raw, &m) != nil {
			continue
		}
		for k, v := range m {
			ev.Notes[k] = fmt.Sprint(v)
		}
	}
	return ev, nil
}

// AmountToRupees converts a gateway amount in paise. Values below 100 are
// assumed to already be rupees.
func AmountToRupees(amount int64) int64 {
	if amount >= 100 {
		return amount / 100
	}
	return amount
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
