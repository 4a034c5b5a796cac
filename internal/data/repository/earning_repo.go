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

type EarningSummary struct {
	PendingAmount  int64
	ApprovedAmount int64
	PaidAmount     int64
	TotalEarnings  int64
}

type EarningRepository interface {
	Create(ctx context.Context, earning *entity.HostEarning) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.HostEarning, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.HostEarning, error)
	FindByPayoutID(ctx context.Context, payoutID uuid.UUID) ([]*entity.HostEarning, error)

	// UpdateNet rewrites the net amount after a refund is applied.
	UpdateNet(ctx context.Context, id uuid.UUID, netAmount int64) error
	// TransitionStatus gates on the expected current status; false means
	// a concurrent transition won.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.EarningStatus) (bool, error)

	// ClaimForPayout atomically attaches every approved, unclaimed
	// earning of the host in the period to the payout and returns the
	// claimed rows. A concurrent claim for the same host sees none of
	// them as available.
	ClaimForPayout(ctx context.Context, payoutID, hostID uuid.UUID, periodStart, periodEnd time.Time) ([]*entity.HostEarning, error)
	// ReleaseByPayout undoes the claim when a payout is cancelled.
	ReleaseByPayout(ctx context.Context, payoutID uuid.UUID) error
	// MarkPaidByPayout settles every earning attached to a completed payout.
	MarkPaidByPayout(ctx context.Context, payoutID uuid.UUID) error

	FindByHostID(ctx context.Context, hostID uuid.UUID, limit, offset int) ([]*entity.HostEarning, error)
	CountByHostID(ctx context.Context, hostID uuid.UUID) (int64, error)
	FindByStatus(ctx context.Context, status entity.EarningStatus, limit, offset int) ([]*entity.HostEarning, error)
	CountByStatus(ctx context.Context, status entity.EarningStatus) (int64, error)
	SummaryByHostID(ctx context.Context, hostID uuid.UUID) (*EarningSummary, error)
}

type earningRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEarningRepository(db database.PgxIface, log *zap.Logger) EarningRepository {
	return &earningRepository{
		db:  db,
		log: log.With(zap.String("repository", "earning")),
	}
}

const earningColumns = `id, host_id, booking_id, payment_id, gross_amount, platform_fee, net_amount, status, payout_id, created_at, updated_at`

func scanEarning(row pgx.Row) (*entity.HostEarning, error) {
	var earning entity.HostEarning
	err := row.Scan(
		&earning.ID,
		&earning.HostID,
		&earning.BookingID,
		&earning.PaymentID,
		&earning.GrossAmount,
		&earning.PlatformFee,
		&earning.NetAmount,
		&earning.Status,
		&earning.PayoutID,
		&earning.CreatedAt,
		&earning.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &earning, nil
}

func (r *earningRepository) Create(ctx context.Context, earning *entity.HostEarning) error {
	query := `
		INSERT INTO host_earnings (` + earningColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		earning.ID,
		earning.HostID,
		earning.BookingID,
		earning.PaymentID,
		earning.GrossAmount,
		earning.PlatformFee,
		earning.NetAmount,
		earning.Status,
		earning.PayoutID,
		earning.CreatedAt,
		earning.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create host earning",
			zap.Error(err),
			zap.String("booking_id", earning.BookingID.String()),
			zap.String("host_id", earning.HostID.String()),
		)
		return fmt.Errorf("create earning for booking %s: %w", earning.BookingID.String(), err)
	}

	return nil
}

func (r *earningRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.HostEarning, error) {
	query := `SELECT ` + earningColumns + ` FROM host_earnings WHERE id = $1`

	earning, err := scanEarning(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find earning by ID",
			zap.Error(err),
			zap.String("earning_id", id.String()),
		)
		return nil, fmt.Errorf("find earning by ID %s: %w", id.String(), err)
	}

	return earning, nil
}

func (r *earningRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.HostEarning, error) {
	query := `SELECT ` + earningColumns + ` FROM host_earnings WHERE booking_id = $1`

	earning, err := scanEarning(r.db.QueryRow(ctx, query, bookingID))
	if err != nil {
		r.log.Error("Failed to find earning by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find earning by booking ID %s: %w", bookingID.String(), err)
	}

	return earning, nil
}

func (r *earningRepository) FindByPayoutID(ctx context.Context, payoutID uuid.UUID) ([]*entity.HostEarning, error) {
	query := `
		SELECT ` + earningColumns + `
		FROM host_earnings
		WHERE payout_id = $1
		ORDER BY created_at
	`

	return r.queryEarnings(ctx, query, payoutID)
}

func (r *earningRepository) UpdateNet(ctx context.Context, id uuid.UUID, netAmount int64) error {
	query := `UPDATE host_earnings SET net_amount = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, netAmount)
	if err != nil {
		r.log.Error("Failed to update earning net amount",
			zap.Error(err),
			zap.String("earning_id", id.String()),
			zap.Int64("net_amount", netAmount),
		)
		return fmt.Errorf("update earning %s net amount: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("earning %s not found", id.String())
	}

	return nil
}

func (r *earningRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.EarningStatus) (bool, error) {
	query := `
		UPDATE host_earnings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to)
	if err != nil {
		r.log.Error("Failed to transition earning status",
			zap.Error(err),
			zap.String("earning_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("transition earning %s to %s: %w", id.String(), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *earningRepository) ClaimForPayout(ctx context.Context, payoutID, hostID uuid.UUID, periodStart, periodEnd time.Time) ([]*entity.HostEarning, error) {
	query := `
		UPDATE host_earnings
		SET payout_id = $1, updated_at = NOW()
		WHERE host_id = $2
		  AND status = 'approved'
		  AND payout_id IS NULL
		  AND created_at >= $3
		  AND created_at < $4
		RETURNING ` + earningColumns + `
	`

	rows, err := r.db.Query(ctx, query, payoutID, hostID, periodStart, periodEnd)
	if err != nil {
		r.log.Error("Failed to claim earnings for payout",
			zap.Error(err),
			zap.String("payout_id", payoutID.String()),
			zap.String("host_id", hostID.String()),
		)
		return nil, fmt.Errorf("claim earnings for payout %s: %w", payoutID.String(), err)
	}
	defer rows.Close()

	var earnings []*entity.HostEarning
	for rows.Next() {
		earning, err := scanEarning(rows)
		if err != nil {
			return nil, fmt.Errorf("scan claimed earning row: %w", err)
		}
		earnings = append(earnings, earning)
	}

	return earnings, nil
}

func (r *earningRepository) ReleaseByPayout(ctx context.Context, payoutID uuid.UUID) error {
	// Paid earnings stay attached; only unsettled claims are released.
	query := `
		UPDATE host_earnings
		SET payout_id = NULL, updated_at = NOW()
		WHERE payout_id = $1 AND status = 'approved'
	`

	_, err := r.db.Exec(ctx, query, payoutID)
	if err != nil {
		r.log.Error("Failed to release earnings from payout",
			zap.Error(err),
			zap.String("payout_id", payoutID.String()),
		)
		return fmt.Errorf("release earnings from payout %s: %w", payoutID.String(), err)
	}

	return nil
}

func (r *earningRepository) MarkPaidByPayout(ctx context.Context, payoutID uuid.UUID) error {
	query := `
		UPDATE host_earnings
		SET status = 'paid', updated_at = NOW()
		WHERE payout_id = $1 AND status = 'approved'
	`

	_, err := r.db.Exec(ctx, query, payoutID)
	if err != nil {
		r.log.Error("Failed to mark earnings paid",
			zap.Error(err),
			zap.String("payout_id", payoutID.String()),
		)
		return fmt.Errorf("mark earnings paid for payout %s: %w", payoutID.String(), err)
	}

	return nil
}

func (r *earningRepository) FindByHostID(ctx context.Context, hostID uuid.UUID, limit, offset int) ([]*entity.HostEarning, error) {
	query := `
		SELECT ` + earningColumns + `
		FROM host_earnings
		WHERE host_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryEarnings(ctx, query, hostID, limit, offset)
}

func (r *earningRepository) CountByHostID(ctx context.Context, hostID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM host_earnings WHERE host_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, hostID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count earnings by host ID",
			zap.Error(err),
			zap.String("host_id", hostID.String()),
		)
		return 0, fmt.Errorf("count earnings by host ID %s: %w", hostID.String(), err)
	}

	return count, nil
}

func (r *earningRepository) FindByStatus(ctx context.Context, status entity.EarningStatus, limit, offset int) ([]*entity.HostEarning, error) {
	query := `
		SELECT ` + earningColumns + `
		FROM host_earnings
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryEarnings(ctx, query, status, limit, offset)
}

func (r *earningRepository) CountByStatus(ctx context.Context, status entity.EarningStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM host_earnings WHERE status = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, status).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count earnings by status",
			zap.Error(err),
			zap.String("status", string(status)),
		)
		return 0, fmt.Errorf("count earnings by status %s: %w", string(status), err)
	}

	return count, nil
}

func (r *earningRepository) SummaryByHostID(ctx context.Context, hostID uuid.UUID) (*EarningSummary, error) {
	query := `
		SELECT
			COALESCE(SUM(net_amount) FILTER (WHERE status = 'pending'), 0),
			COALESCE(SUM(net_amount) FILTER (WHERE status = 'approved'), 0),
			COALESCE(SUM(net_amount) FILTER (WHERE status = 'paid'), 0),
			COALESCE(SUM(net_amount) FILTER (WHERE status <> 'rejected'), 0)
		FROM host_earnings
		WHERE host_id = $1
	`

	var summary EarningSummary
	err := r.db.QueryRow(ctx, query, hostID).Scan(
		&summary.PendingAmount,
		&summary.ApprovedAmount,
		&summary.PaidAmount,
		&summary.TotalEarnings,
	)
	if err != nil {
		r.log.Error("Failed to compute earning summary",
			zap.Error(err),
			zap.String("host_id", hostID.String()),
		)
		return nil, fmt.Errorf("earning summary for host %s: %w", hostID.String(), err)
	}

	return &summary, nil
}

func (r *earningRepository) queryEarnings(ctx context.Context, query string, args ...any) ([]*entity.HostEarning, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query earnings", zap.Error(err))
		return nil, fmt.Errorf("query earnings: %w", err)
	}
	defer rows.Close()

	var earnings []*entity.HostEarning
	for rows.Next() {
		earning, err := scanEarning(rows)
		if err != nil {
			return nil, fmt.Errorf("scan earning row: %w", err)
		}
		earnings = append(earnings, earning)
	}

	return earnings, nil
}
