package repository

import (
	"context"
	"fmt"

	"homestay-booking/internal/data/entity"
	"homestay-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// RefundRepository is append-only: refunds are immutable facts.
type RefundRepository interface {
	Create(ctx context.Context, refund *entity.Refund) error
	FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*entity.Refund, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Refund, error)
	SumByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error)
	SumAll(ctx context.Context) (int64, error)
}

type refundRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewRefundRepository(db database.PgxIface, log *zap.Logger) RefundRepository {
	return &refundRepository{
		db:  db,
		log: log.With(zap.String("repository", "refund")),
	}
}

const refundColumns = `id, ticket_id, booking_id, amount, approved_by, processed_at, created_at`

func scanRefund(row pgx.Row) (*entity.Refund, error) {
	var refund entity.Refund
	err := row.Scan(
		&refund.ID,
		&refund.TicketID,
		&refund.BookingID,
		&refund.Amount,
		&refund.ApprovedBy,
		&refund.ProcessedAt,
		&refund.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (r *refundRepository) Create(ctx context.Context, refund *entity.Refund) error {
	// ticket_id carries a unique constraint: one refund per ticket, ever.
	query := `
		INSERT INTO refunds (` + refundColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		refund.ID,
		refund.TicketID,
		refund.BookingID,
		refund.Amount,
		refund.ApprovedBy,
		refund.ProcessedAt,
		refund.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create refund",
			zap.Error(err),
			zap.String("ticket_id", refund.TicketID.String()),
		)
		return fmt.Errorf("create refund for ticket %s: %w", refund.TicketID.String(), err)
	}

	return nil
}

func (r *refundRepository) FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*entity.Refund, error) {
	query := `SELECT ` + refundColumns + ` FROM refunds WHERE ticket_id = $1`

	refund, err := scanRefund(r.db.QueryRow(ctx, query, ticketID))
	if err != nil {
		r.log.Error("Failed to find refund by ticket ID",
			zap.Error(err),
			zap.String("ticket_id", ticketID.String()),
		)
		return nil, fmt.Errorf("find refund by ticket ID %s: %w", ticketID.String(), err)
	}

	return refund, nil
}

func (r *refundRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Refund, error) {
	query := `
		SELECT ` + refundColumns + `
		FROM refunds
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find refunds by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find refunds by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var refunds []*entity.Refund
	for rows.Next() {
		refund, err := scanRefund(rows)
		if err != nil {
			return nil, fmt.Errorf("scan refund row: %w", err)
		}
		refunds = append(refunds, refund)
	}

	return refunds, nil
}

func (r *refundRepository) SumByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM refunds WHERE booking_id = $1`

	var sum int64
	err := r.db.QueryRow(ctx, query, bookingID).Scan(&sum)
	if err != nil {
		r.log.Error("Failed to sum refunds by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return 0, fmt.Errorf("sum refunds for booking %s: %w", bookingID.String(), err)
	}

	return sum, nil
}

func (r *refundRepository) SumAll(ctx context.Context) (int64, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM refunds`

	var sum int64
	err := r.db.QueryRow(ctx, query).Scan(&sum)
	if err != nil {
		r.log.Error("Failed to sum refunds", zap.Error(err))
		return 0, fmt.Errorf("sum refunds: %w", err)
	}

	return sum, nil
}
