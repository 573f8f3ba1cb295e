package domain

import "time"

// PaymentStatus enumerates stored payment states.
type PaymentStatus string

const (
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Payment is a subscription payment keyed by the gateway order identifier.
type Payment struct {
	ID        string
	UserID    string
	OrderID   string
	PaymentID string
	Amount    int64
	Currency  string
	Status    PaymentStatus
	CreatedAt time.Time
}
