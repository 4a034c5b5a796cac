package entity

import (
	"time"

	"github.com/google/uuid"
)

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusCancelled  PayoutStatus = "cancelled"
)

// HostPayout batches approved earnings for one host within a period.
// Bank fields are snapshotted at creation time so a later change to the
// host's account does not rewrite history. Completed payouts are immutable.
type HostPayout struct {
	Base
	HostID          uuid.UUID    `db:"host_id"`
	PeriodStart     time.Time    `db:"period_start"`
	PeriodEnd       time.Time    `db:"period_end"`
	TotalAmount     int64        `db:"total_amount"`
	Status          PayoutStatus `db:"status"`
	TransactionRef  *string      `db:"transaction_ref"`
	BankCode        string       `db:"bank_code"`
	BankAccountNo   string       `db:"bank_account_no"`
	BankAccountName string       `db:"bank_account_name"`
	ProcessedBy     *uuid.UUID   `db:"processed_by"`
	CompletedAt     *time.Time   `db:"completed_at"`
}

// CanCancel reports whether the payout may still be cancelled.
func (p *HostPayout) CanCancel() bool {
	return p.Status == PayoutStatusPending || p.Status == PayoutStatusProcessing
}
