package entity

import (
	"github.com/google/uuid"
)

type EarningStatus string

const (
	EarningStatusPending  EarningStatus = "pending"
	EarningStatusApproved EarningStatus = "approved"
	EarningStatusRejected EarningStatus = "rejected"
	EarningStatusPaid     EarningStatus = "paid"
)

// HostEarning is the host's revenue share derived from one confirmed
// payment. PayoutID is set when the earning is claimed by a payout batch
// and cleared again if that payout is cancelled.
type HostEarning struct {
	Base
	HostID      uuid.UUID     `db:"host_id"`
	BookingID   uuid.UUID     `db:"booking_id"`
	PaymentID   uuid.UUID     `db:"payment_id"`
	GrossAmount int64         `db:"gross_amount"`
	PlatformFee int64         `db:"platform_fee"`
	NetAmount   int64         `db:"net_amount"`
	Status      EarningStatus `db:"status"`
	PayoutID    *uuid.UUID    `db:"payout_id"`
}
