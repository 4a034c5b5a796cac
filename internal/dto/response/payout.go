package response

import (
	"time"

	"homestay-booking/internal/data/entity"
)

type PayoutResponse struct {
	ID              string            `json:"id"`
	HostID          string            `json:"host_id"`
	PeriodStart     string            `json:"period_start"`
	PeriodEnd       string            `json:"period_end"`
	TotalAmount     int64             `json:"total_amount"`
	Status          string            `json:"status"`
	TransactionRef  string            `json:"transaction_ref,omitempty"`
	BankCode        string            `json:"bank_code"`
	BankAccountNo   string            `json:"bank_account_no"`
	BankAccountName string            `json:"bank_account_name"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
	Earnings        []EarningResponse `json:"earnings,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

func PayoutToResponse(p *entity.HostPayout) PayoutResponse {
	resp := PayoutResponse{
		ID:              p.ID.String(),
		HostID:          p.HostID.String(),
		PeriodStart:     p.PeriodStart.Format("2006-01-02"),
		PeriodEnd:       p.PeriodEnd.Format("2006-01-02"),
		TotalAmount:     p.TotalAmount,
		Status:          string(p.Status),
		BankCode:        p.BankCode,
		BankAccountNo:   p.BankAccountNo,
		BankAccountName: p.BankAccountName,
		CompletedAt:     p.CompletedAt,
		CreatedAt:       p.CreatedAt,
	}

	if p.TransactionRef != nil {
		resp.TransactionRef = *p.TransactionRef
	}

	return resp
}

// PayoutStatisticsResponse is the admin-wide settlement overview.
type PayoutStatisticsResponse struct {
	TotalPayouts     int64 `json:"total_payouts"`
	PendingPayouts   int64 `json:"pending_payouts"`
	CompletedPayouts int64 `json:"completed_payouts"`
	CancelledPayouts int64 `json:"cancelled_payouts"`
	TotalPaidOut     int64 `json:"total_paid_out"`
}
