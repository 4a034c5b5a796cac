package response

import (
	"time"

	"homestay-booking/internal/data/entity"
)

type EarningResponse struct {
	ID          string    `json:"id"`
	HostID      string    `json:"host_id"`
	BookingID   string    `json:"booking_id"`
	BookingCode string    `json:"booking_code,omitempty"`
	GrossAmount int64     `json:"gross_amount"`
	PlatformFee int64     `json:"platform_fee"`
	NetAmount   int64     `json:"net_amount"`
	Status      string    `json:"status"`
	PayoutID    string    `json:"payout_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func EarningToResponse(e *entity.HostEarning) EarningResponse {
	resp := EarningResponse{
		ID:          e.ID.String(),
		HostID:      e.HostID.String(),
		BookingID:   e.BookingID.String(),
		GrossAmount: e.GrossAmount,
		PlatformFee: e.PlatformFee,
		NetAmount:   e.NetAmount,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
	}

	if e.PayoutID != nil {
		resp.PayoutID = e.PayoutID.String()
	}

	return resp
}

// EarningSummaryResponse is the host's balance view: amounts per status.
type EarningSummaryResponse struct {
	HostID         string `json:"host_id"`
	PendingAmount  int64  `json:"pending_amount"`
	ApprovedAmount int64  `json:"approved_amount"`
	PaidAmount     int64  `json:"paid_amount"`
	TotalEarnings  int64  `json:"total_earnings"`
}
