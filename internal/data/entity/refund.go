package entity

import (
	"time"

	"github.com/google/uuid"
)

type RefundTicketStatus string

const (
	RefundTicketStatusPending   RefundTicketStatus = "pending"
	RefundTicketStatusApproved  RefundTicketStatus = "approved"
	RefundTicketStatusRejected  RefundTicketStatus = "rejected"
	RefundTicketStatusCancelled RefundTicketStatus = "cancelled"
)

// RefundTicket is the customer-initiated request. A Refund row is only
// created when an admin approves the ticket.
type RefundTicket struct {
	Base
	BookingID       uuid.UUID          `db:"booking_id"`
	CustomerID      uuid.UUID          `db:"customer_id"`
	RequestedAmount int64              `db:"requested_amount"`
	Reason          string             `db:"reason"`
	Status          RefundTicketStatus `db:"status"`
	ProcessedBy     *uuid.UUID         `db:"processed_by"`
	ProcessedAt     *time.Time         `db:"processed_at"`
}

// Refund is an append-only fact created exactly once per approved ticket.
type Refund struct {
	BaseSimple
	TicketID    uuid.UUID `db:"ticket_id"`
	BookingID   uuid.UUID `db:"booking_id"`
	Amount      int64     `db:"amount"`
	ApprovedBy  uuid.UUID `db:"approved_by"`
	ProcessedAt time.Time `db:"processed_at"`
}
