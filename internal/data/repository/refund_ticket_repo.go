package repository

import (
	"context"
	"fmt"
	"time"

	"homestay-booking/internal/data/entity"
	"homestay-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type RefundTicketStatistics struct {
	TotalTickets    int64
	PendingTickets  int64
	ApprovedTickets int64
	RejectedTickets int64
}

type RefundTicketRepository interface {
	Create(ctx context.Context, ticket *entity.RefundTicket) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.RefundTicket, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.RefundTicket, error)

	// TransitionFromPending moves a ticket out of pending. Returns false
	// when the ticket was not pending anymore, which callers surface as
	// a conflict. This is the approve-at-most-once gate.
	TransitionFromPending(ctx context.Context, id uuid.UUID, to entity.RefundTicketStatus, processedBy *uuid.UUID, processedAt time.Time) (bool, error)

	FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.RefundTicket, error)
	CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error)
	FindByHostID(ctx context.Context, hostID uuid.UUID, limit, offset int) ([]*entity.RefundTicket, error)
	CountByHostID(ctx context.Context, hostID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.RefundTicket, error)
	CountAll(ctx context.Context) (int64, error)

	Statistics(ctx context.Context) (*RefundTicketStatistics, error)
}

type refundTicketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRefundTicketRepository(db database.PgxIface, log *zap.Logger) RefundTicketRepository {
	return &refundTicketRepository{
		db:  db,
		log: log.With(zap.String("repository", "refund_ticket")),
	}
}

const ticketColumns = `id, booking_id, customer_id, requested_amount, reason, status, processed_by, processed_at, created_at, updated_at`

func scanTicket(row pgx.Row) (*entity.RefundTicket, error) {
	var ticket entity.RefundTicket
	err := row.Scan(
		&ticket.ID,
		&ticket.BookingID,
		&ticket.CustomerID,
		&ticket.RequestedAmount,
		&ticket.Reason,
		&ticket.Status,
		&ticket.ProcessedBy,
		&ticket.ProcessedAt,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *refundTicketRepository) Create(ctx context.Context, ticket *entity.RefundTicket) error {
	query := `
		INSERT INTO refund_tickets (` + ticketColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.BookingID,
		ticket.CustomerID,
		ticket.RequestedAmount,
		ticket.Reason,
		ticket.Status,
		ticket.ProcessedBy,
		ticket.ProcessedAt,
		ticket.CreatedAt,
		ticket.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create refund ticket",
			zap.Error(err),
			zap.String("booking_id", ticket.BookingID.String()),
		)
		return fmt.Errorf("create refund ticket for booking %s: %w", ticket.BookingID.String(), err)
	}

	return nil
}

func (r *refundTicketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.RefundTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM refund_tickets WHERE id = $1`

	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find refund ticket by ID",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return nil, fmt.Errorf("find refund ticket by ID %s: %w", id.String(), err)
	}

	return ticket, nil
}

func (r *refundTicketRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.RefundTicket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM refund_tickets
		WHERE booking_id = $1
		ORDER BY created_at
	`

	return r.queryTickets(ctx, query, bookingID)
}

func (r *refundTicketRepository) TransitionFromPending(ctx context.Context, id uuid.UUID, to entity.RefundTicketStatus, processedBy *uuid.UUID, processedAt time.Time) (bool, error) {
	query := `
		UPDATE refund_tickets
		SET status = $2, processed_by = $3, processed_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id, to, processedBy, processedAt)
	if err != nil {
		r.log.Error("Failed to transition refund ticket",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("transition refund ticket %s to %s: %w", id.String(), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *refundTicketRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.RefundTicket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM refund_tickets
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryTickets(ctx, query, customerID, limit, offset)
}

func (r *refundTicketRepository) CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM refund_tickets WHERE customer_id = $1`
	return r.countTickets(ctx, query, customerID)
}

// FindByHostID returns tickets for bookings at the host's properties.
func (r *refundTicketRepository) FindByHostID(ctx context.Context, hostID uuid.UUID, limit, offset int) ([]*entity.RefundTicket, error) {
	query := `
		SELECT t.id, t.booking_id, t.customer_id, t.requested_amount, t.reason, t.status, t.processed_by, t.processed_at, t.created_at, t.updated_at
		FROM refund_tickets t
		JOIN bookings b ON b.id = t.booking_id
		JOIN properties p ON p.id = b.property_id
		WHERE p.host_id = $1
		ORDER BY t.created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryTickets(ctx, query, hostID, limit, offset)
}

func (r *refundTicketRepository) CountByHostID(ctx context.Context, hostID uuid.UUID) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM refund_tickets t
		JOIN bookings b ON b.id = t.booking_id
		JOIN properties p ON p.id = b.property_id
		WHERE p.host_id = $1
	`
	return r.countTickets(ctx, query, hostID)
}

func (r *refundTicketRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.RefundTicket, error) {
	query := `
		SELECT ` + ticketColumns + `
		FROM refund_tickets
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.queryTickets(ctx, query, limit, offset)
}

func (r *refundTicketRepository) CountAll(ctx context.Context) (int64, error) {
	return r.countTickets(ctx, `SELECT COUNT(*) FROM refund_tickets`)
}

func (r *refundTicketRepository) Statistics(ctx context.Context) (*RefundTicketStatistics, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'rejected')
		FROM refund_tickets
	`

	var stats RefundTicketStatistics
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalTickets,
		&stats.PendingTickets,
		&stats.ApprovedTickets,
		&stats.RejectedTickets,
	)
	if err != nil {
		r.log.Error("Failed to compute refund ticket statistics", zap.Error(err))
		return nil, fmt.Errorf("refund ticket statistics: %w", err)
	}

	return &stats, nil
}

func (r *refundTicketRepository) queryTickets(ctx context.Context, query string, args ...any) ([]*entity.RefundTicket, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query refund tickets", zap.Error(err))
		return nil, fmt.Errorf("query refund tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.RefundTicket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan refund ticket row: %w", err)
		}
		tickets = append(tickets, ticket)
	}

	return tickets, nil
}

func (r *refundTicketRepository) countTickets(ctx context.Context, query string, args ...any) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count refund tickets", zap.Error(err))
		return 0, fmt.Errorf("count refund tickets: %w", err)
	}
	return count, nil
}
