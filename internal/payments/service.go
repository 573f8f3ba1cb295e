package payments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"studymate/internal/domain"
)

// OrderCreator creates gateway orders. *Client satisfies it.
type OrderCreator interface {
	CreateOrder(ctx context.Context, in OrderRequest) (*Order, error)
	KeyID() string
}

// Checkout is what the browser needs to open the payment widget.
type Checkout struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key"`
}

// Confirmation is the checkout widget callback.
type Confirmation struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Outcome describes what a webhook delivery did.
type Outcome string

const (
	OutcomeUpgraded  Outcome = "upgraded"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeFailed    Outcome = "failure_recorded"
	OutcomeIgnored   Outcome = "ignored"
)

type Config struct {
	KeySecret     string
	WebhookSecret string
	PricePaise    int64
}

// Service upgrades users to the pro plan once a payment is verified. Both
// the checkout callback and the webhook are idempotent by order ID.
type Service struct {
	orders   OrderCreator
	payments domain.PaymentRepository
	users    domain.UserRepository
	cfg      Config
	log      zerolog.Logger
}

func NewService(orders OrderCreator, payments domain.PaymentRepository, users domain.UserRepository, cfg Config, log zerolog.Logger) *Service {
	return &Service{orders: orders, payments: payments, users: users, cfg: cfg, log: log}
}

// CreateOrder opens a gateway order for the pro plan. The user ID rides in
// the order notes so the webhook can find its owner.
func (s *Service) CreateOrder(ctx context.Context, userID string) (*Checkout, error) {
	if s.orders == nil {
		return nil, ErrNotConfigured
	}
	order, err := s.orders.CreateOrder(ctx, OrderRequest{
		Amount:         s.cfg.PricePaise,
		Currency:       CurrencyINR,
		Receipt:        "pro_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:20],
		PaymentCapture: 1,
		Notes:          map[string]string{"user_id": userID},
	})
	if err != nil {
		return nil, err
	}
	return &Checkout{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: firstNonEmpty(order.Currency, CurrencyINR),
		KeyID:    s.orders.KeyID(),
	}, nil
}

// Confirm verifies a checkout callback and upgrades userID. A replay returns
// domain.ErrDuplicateOperation without a second upgrade.
func (s *Service) Confirm(ctx context.Context, userID string, c Confirmation) error {
	if c.OrderID == "" || c.PaymentID == "" || c.Signature == "" {
		return fmt.Errorf("missing payment parameters: %w", domain.ErrInvalidInput)
	}
	if !VerifyCheckoutSignature(s.cfg.KeySecret, c.OrderID, c.PaymentID, c.Signature) {
		s.log.Warn().Str("order_id", c.OrderID).Msg("payment signature mismatch")
		return domain.ErrInvalidSignature
	}
	p := &domain.Payment{
		UserID:    userID,
		OrderID:   c.OrderID,
		PaymentID: c.PaymentID,
		Amount:    AmountToRupees(s.cfg.PricePaise),
		Currency:  CurrencyINR,
	}
	if err := s.payments.RecordSuccess(ctx, p); err != nil {
		if errors.Is(err, domain.ErrDuplicateOperation) {
			s.log.Info().Str("order_id", c.OrderID).Msg("duplicate payment callback ignored")
		}
		return err
	}
	s.log.Info().Str("user_id", userID).Str("order_id", c.OrderID).Msg("payment success")
	return nil
}

// HandleWebhook verifies and applies one webhook delivery. Deliveries the
// service cannot attribute to a user are acknowledged and ignored so the
// gateway stops retrying them.
func (s *Service) HandleWebhook(ctx context.Context, body []byte, signature string) (Outcome, error) {
	if !VerifyWebhookSignature(s.cfg.WebhookSecret, body, signature) {
		return "", domain.ErrInvalidSignature
	}
	ev, err := ParseWebhook(body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	logEv := func(e *zerolog.Event) *zerolog.Event {
		return e.Str("event", ev.Name).Str("order_id", ev.OrderID).Str("payment_id", ev.PaymentID)
	}
	if ev.Name != EventPaymentCaptured && ev.Name != EventPaymentFailed {
		logEv(s.log.Info()).Msg("webhook event ignored")
		return OutcomeIgnored, nil
	}
	if ev.OrderID == "" {
		logEv(s.log.Warn()).Msg("webhook without order id")
		return OutcomeIgnored, nil
	}
	userID, err := s.resolveUser(ctx, ev)
	if err != nil {
		return "", err
	}
	if userID == "" {
		logEv(s.log.Error()).Msg("webhook missing user")
		return OutcomeIgnored, nil
	}

	p := &domain.Payment{
		UserID:    userID,
		OrderID:   ev.OrderID,
		PaymentID: ev.PaymentID,
		Amount:    AmountToRupees(ev.Amount),
		Currency:  firstNonEmpty(ev.Currency, CurrencyINR),
	}
	if ev.Name == EventPaymentFailed {
		err := s.payments.RecordFailure(ctx, p)
		switch {
		case errors.Is(err, domain.ErrDuplicateOperation):
			return OutcomeDuplicate, nil
		case err != nil:
			return "", err
		}
		logEv(s.log.Info()).Str("user_id", userID).Msg("payment failed")
		return OutcomeFailed, nil
	}

	err = s.payments.RecordSuccess(ctx, p)
	switch {
	case errors.Is(err, domain.ErrDuplicateOperation):
		return OutcomeDuplicate, nil
	case errors.Is(err, domain.ErrNotFound):
		logEv(s.log.Warn()).Str("user_id", userID).Msg("payment captured for a deleted user")
		return OutcomeIgnored, nil
	case err != nil:
		return "", err
	}
	logEv(s.log.Info()).Str("user_id", userID).Msg("payment captured")
	return OutcomeUpgraded, nil
}

// resolveUser prefers the user ID from the order notes and falls back to the
// owner of an existing payment row for the order.
func (s *Service) resolveUser(ctx context.Context, ev Event) (string, error) {
	if raw := strings.TrimSpace(ev.Notes["user_id"]); raw != "" {
		if _, err := uuid.Parse(raw); err == nil {
			u, err := s.users.GetByID(ctx, raw)
			switch {
			case err == nil:
				return u.ID, nil
			case !errors.Is(err, domain.ErrNotFound):
				return "", err
			}
		} else {
			s.log.Warn().Str("user_id", raw).Msg("webhook user_id is not a uuid")
		}
	}
	existing, err := s.payments.GetByOrder(ctx, ev.OrderID)
	switch {
	case err == nil:
		return existing.UserID, nil
	case errors.Is(err, domain.ErrNotFound):
		return "", nil
	default:
		return "", err
	}
}
