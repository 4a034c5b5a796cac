package response

import (
	"time"

	"homestay-booking/internal/data/entity"
)

type RefundTicketResponse struct {
	ID              string     `json:"id"`
	BookingID       string     `json:"booking_id"`
	BookingCode     string     `json:"booking_code,omitempty"`
	CustomerID      string     `json:"customer_id"`
	RequestedAmount int64      `json:"requested_amount"`
	Reason          string     `json:"reason"`
	Status          string     `json:"status"`
	ProcessedBy     string     `json:"processed_by,omitempty"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`

	// Refund is set once the ticket has been approved and the money
	// movement recorded.
	Refund *RefundResponse `json:"refund,omitempty"`
}

func RefundTicketToResponse(t *entity.RefundTicket) RefundTicketResponse {
	resp := RefundTicketResponse{
		ID:              t.ID.String(),
		BookingID:       t.BookingID.String(),
		CustomerID:      t.CustomerID.String(),
		RequestedAmount: t.RequestedAmount,
		Reason:          t.Reason,
		Status:          string(t.Status),
		ProcessedAt:     t.ProcessedAt,
		CreatedAt:       t.CreatedAt,
	}

	if t.ProcessedBy != nil {
		resp.ProcessedBy = t.ProcessedBy.String()
	}

	return resp
}

type RefundResponse struct {
	ID          string    `json:"id"`
	TicketID    string    `json:"ticket_id"`
	BookingID   string    `json:"booking_id"`
	Amount      int64     `json:"amount"`
	ApprovedBy  string    `json:"approved_by"`
	ProcessedAt time.Time `json:"processed_at"`
}

func RefundToResponse(r *entity.Refund) RefundResponse {
	return RefundResponse{
		ID:          r.ID.String(),
		TicketID:    r.TicketID.String(),
		BookingID:   r.BookingID.String(),
		Amount:      r.Amount,
		ApprovedBy:  r.ApprovedBy.String(),
		ProcessedAt: r.ProcessedAt,
	}
}

// RefundStatisticsResponse aggregates ticket counts and amounts by status.
type RefundStatisticsResponse struct {
	TotalTickets    int64 `json:"total_tickets"`
	PendingTickets  int64 `json:"pending_tickets"`
	ApprovedTickets int64 `json:"approved_tickets"`
	RejectedTickets int64 `json:"rejected_tickets"`
	TotalRefunded   int64 `json:"total_refunded"`
}
