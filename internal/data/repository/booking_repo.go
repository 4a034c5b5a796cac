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

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	// LockByID reads the booking with a row lock, serializing concurrent
	// refund work on the same booking. Only meaningful inside a
	// transaction; the lock is held until commit or rollback.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)

	FindByCode(ctx context.Context, code string) (*entity.Booking, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error)

	// UpdateStatuses advances both lifecycle axes in one statement.
	// Returns false when the booking no longer satisfies the expected
	// current payment state, so callers can surface a conflict instead
	// of overwriting a concurrent transition.
	UpdateStatuses(ctx context.Context, id uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentState, expectedPayment entity.PaymentState) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error

	// TransitionStatus advances the lifecycle axis alone, gated on the
	// expected current status. False means the booking moved concurrently.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, booking_code, customer_id, property_id, room_type_id, check_in, check_out, rooms_count, total_amount, status, payment_status, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.BookingCode,
		&booking.CustomerID,
		&booking.PropertyID,
		&booking.RoomTypeID,
		&booking.CheckIn,
		&booking.CheckOut,
		&booking.RoomsCount,
		&booking.TotalAmount,
		&booking.Status,
		&booking.PaymentStatus,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.BookingCode,
		booking.CustomerID,
		booking.PropertyID,
		booking.RoomTypeID,
		booking.CheckIn,
		booking.CheckOut,
		booking.RoomsCount,
		booking.TotalAmount,
		booking.Status,
		booking.PaymentStatus,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_code", booking.BookingCode),
			zap.String("customer_id", booking.CustomerID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingCode, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1 FOR UPDATE`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to lock booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("lock booking %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByCode(ctx context.Context, code string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_code = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, code))
	if err != nil {
		r.log.Error("Failed to find booking by code",
			zap.Error(err),
			zap.String("booking_code", code),
		)
		return nil, fmt.Errorf("find booking by code %s: %w", code, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, customerID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by customer ID",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return nil, fmt.Errorf("find bookings by customer ID %s: %w", customerID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, nil
}

func (r *bookingRepository) CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE customer_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, customerID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by customer ID",
			zap.Error(err),
			zap.String("customer_id", customerID.String()),
		)
		return 0, fmt.Errorf("count bookings by customer ID %s: %w", customerID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) UpdateStatuses(ctx context.Context, id uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentState, expectedPayment entity.PaymentState) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, payment_status = $3, updated_at = NOW()
		WHERE id = $1 AND payment_status = $4
	`

	result, err := r.db.Exec(ctx, query, id, status, paymentStatus, expectedPayment)
	if err != nil {
		r.log.Error("Failed to update booking statuses",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
			zap.String("payment_status", string(paymentStatus)),
		)
		return false, fmt.Errorf("update booking %s statuses: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to transition booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("transition booking %s to %s: %w", id.String(), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}
