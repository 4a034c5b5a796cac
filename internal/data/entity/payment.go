package entity

import (
	"time"

	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Payment is one matched bank transaction. ExternalRef is the bank's
// transaction reference and doubles as the webhook idempotency key.
// BookingID stays nil while the payment is unmatched.
type Payment struct {
	Base
	BookingID   *uuid.UUID    `db:"booking_id"`
	Amount      int64         `db:"amount"`
	Method      string        `db:"method"`
	Status      PaymentStatus `db:"status"`
	ExternalRef string        `db:"external_ref"`
	Description string        `db:"description"`
	PaidAt      *time.Time    `db:"paid_at"`
}
