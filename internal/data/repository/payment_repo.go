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

type PaymentRepository interface {
	// Create relies on the unique index on external_ref; callers treat a
	// unique violation as a concurrent duplicate delivery.
	Create(ctx context.Context, payment *entity.Payment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	FindByExternalRef(ctx context.Context, ref string) (*entity.Payment, error)
	FindCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error)
	SumCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error)

	// MarkMatched ties a pending payment to its booking and completes it.
	MarkMatched(ctx context.Context, id, bookingID uuid.UUID, paidAt time.Time) error
	// AttachBooking records the booking on a payment that stays pending
	// (underpaid transfers).
	AttachBooking(ctx context.Context, id, bookingID uuid.UUID) error

	FindUnmatched(ctx context.Context, limit, offset int) ([]*entity.Payment, error)
	CountUnmatched(ctx context.Context) (int64, error)
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

const paymentColumns = `id, booking_id, amount, method, status, external_ref, description, paid_at, created_at, updated_at`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var payment entity.Payment
	err := row.Scan(
		&payment.ID,
		&payment.BookingID,
		&payment.Amount,
		&payment.Method,
		&payment.Status,
		&payment.ExternalRef,
		&payment.Description,
		&payment.PaidAt,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (` + paymentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.Amount,
		payment.Method,
		payment.Status,
		payment.ExternalRef,
		payment.Description,
		payment.PaidAt,
		payment.CreatedAt,
		payment.UpdatedAt,
	)

	if err != nil {
		// Unique violations are an expected race under at-least-once
		// delivery; the caller decides, so no error-level log here.
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("create payment %s: %w", payment.ExternalRef, err)
		}
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("external_ref", payment.ExternalRef),
		)
		return fmt.Errorf("create payment %s: %w", payment.ExternalRef, err)
	}

	return nil
}

func (r *paymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find payment by ID",
			zap.Error(err),
			zap.String("payment_id", id.String()),
		)
		return nil, fmt.Errorf("find payment by ID %s: %w", id.String(), err)
	}

	return payment, nil
}

func (r *paymentRepository) FindByExternalRef(ctx context.Context, ref string) (*entity.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE external_ref = $1`

	payment, err := scanPayment(r.db.QueryRow(ctx, query, ref))
	if err != nil {
		r.log.Error("Failed to find payment by external ref",
			zap.Error(err),
			zap.String("external_ref", ref),
		)
		return nil, fmt.Errorf("find payment by external ref %s: %w", ref, err)
	}

	return payment, nil
}

func (r *paymentRepository) FindCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id = $1 AND status = 'completed'
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find completed payments by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find completed payments by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

func (r *paymentRepository) SumCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE booking_id = $1 AND status = 'completed'
	`

	var sum int64
	err := r.db.QueryRow(ctx, query, bookingID).Scan(&sum)
	if err != nil {
		r.log.Error("Failed to sum completed payments",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return 0, fmt.Errorf("sum completed payments for booking %s: %w", bookingID.String(), err)
	}

	return sum, nil
}

func (r *paymentRepository) MarkMatched(ctx context.Context, id, bookingID uuid.UUID, paidAt time.Time) error {
	query := `
		UPDATE payments
		SET booking_id = $2, status = 'completed', paid_at = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id, bookingID, paidAt)
	if err != nil {
		r.log.Error("Failed to mark payment matched",
			zap.Error(err),
			zap.String("payment_id", id.String()),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("mark payment %s matched: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not pending", id.String())
	}

	return nil
}

func (r *paymentRepository) AttachBooking(ctx context.Context, id, bookingID uuid.UUID) error {
	query := `
		UPDATE payments
		SET booking_id = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	result, err := r.db.Exec(ctx, query, id, bookingID)
	if err != nil {
		r.log.Error("Failed to attach booking to payment",
			zap.Error(err),
			zap.String("payment_id", id.String()),
			zap.String("booking_id", bookingID.String()),
		)
		return fmt.Errorf("attach booking to payment %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payment %s not pending", id.String())
	}

	return nil
}

func (r *paymentRepository) FindUnmatched(ctx context.Context, limit, offset int) ([]*entity.Payment, error) {
	query := `
		SELECT ` + paymentColumns + `
		FROM payments
		WHERE booking_id IS NULL AND status = 'pending'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find unmatched payments", zap.Error(err))
		return nil, fmt.Errorf("find unmatched payments: %w", err)
	}
	defer rows.Close()

	var payments []*entity.Payment
	for rows.Next() {
		payment, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		payments = append(payments, payment)
	}

	return payments, nil
}

func (r *paymentRepository) CountUnmatched(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM payments WHERE booking_id IS NULL AND status = 'pending'`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count unmatched payments", zap.Error(err))
		return 0, fmt.Errorf("count unmatched payments: %w", err)
	}

	return count, nil
}
