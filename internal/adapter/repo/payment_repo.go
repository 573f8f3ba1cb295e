package repo

import (
	"context"

	"studymate/internal/domain"
	"studymate/internal/infra"
	"studymate/internal/sqlinline"
)

// PaymentRepositoryPG implements domain.PaymentRepository.
type PaymentRepositoryPG struct {
	sql infra.SQLExecutor
}

func NewPaymentRepository(sql infra.SQLExecutor) *PaymentRepositoryPG {
	return &PaymentRepositoryPG{sql: sql}
}

// RecordSuccess upserts the payment and upgrades its user atomically.
func (r *PaymentRepositoryPG) RecordSuccess(ctx context.Context, p *domain.Payment) error {
	var upgraded int
	err := r.sql.QueryRow(ctx, sqlinline.QRecordPaymentSuccess,
		p.UserID, p.OrderID, p.PaymentID, p.Amount, currencyOrDefault(p.Currency),
	).Scan(&p.ID, &upgraded)
	if err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrDuplicateOperation
		}
		return err
	}
	p.Status = domain.PaymentStatusSuccess
	if upgraded == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// RecordFailure stores a failed attempt; an existing row for the order wins.
func (r *PaymentRepositoryPG) RecordFailure(ctx context.Context, p *domain.Payment) error {
	err := r.sql.QueryRow(ctx, sqlinline.QRecordPaymentFailure,
		p.UserID, p.OrderID, p.PaymentID, p.Amount, currencyOrDefault(p.Currency),
	).Scan(&p.ID)
	if err != nil {
		if infra.IsNoRows(err) {
			return domain.ErrDuplicateOperation
		}
		return err
	}
	p.Status = domain.PaymentStatusFailed
	return nil
}

func (r *PaymentRepositoryPG) GetByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	var p domain.Payment
	var status string
	err := r.sql.QueryRow(ctx, sqlinline.QSelectPaymentByOrder, orderID).
		Scan(&p.ID, &p.UserID, &p.OrderID, &p.PaymentID, &p.Amount, &p.Currency, &status, &p.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	p.Status = domain.PaymentStatus(status)
	return &p, nil
}

func currencyOrDefault(c string) string {
	if c == "" {
		return "INR"
	}
	return c
}

var _ domain.PaymentRepository = (*PaymentRepositoryPG)(nil)
