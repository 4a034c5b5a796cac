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

type PayoutStatistics struct {
	TotalPayouts     int64
	PendingPayouts   int64
	CompletedPayouts int64
	CancelledPayouts int64
	TotalPaidOut     int64
}

type PayoutRepository interface {
	Create(ctx context.Context, payout *entity.HostPayout) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.HostPayout, error)

	// TransitionStatus gates on the expected current status; false means
	// the payout moved concurrently and the caller reports a conflict.
	TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.PayoutStatus, processedBy uuid.UUID) (bool, error)
	// Complete is terminal: records the bank reference and freezes the row.
	Complete(ctx context.Context, id uuid.UUID, transactionRef string, processedBy uuid.UUID, completedAt time.Time) (bool, error)
	// UpdateTotal rewrites the total after earnings are claimed, inside
	// the same transaction as the claim.
	UpdateTotal(ctx context.Context, id uuid.UUID, totalAmount int64) error

	FindByHostID(ctx context.Context, hostID uuid.UUID, limit, offset int) ([]*entity.HostPayout, error)
	CountByHostID(ctx context.Context, hostID uuid.UUID) (int64, error)
	FindAll(ctx context.Context, limit, offset int) ([]*entity.HostPayout, error)
	CountAll(ctx context.Context) (int64, error)
	Statistics(ctx context.Context) (*PayoutStatistics, error)
}

type payoutRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPayoutRepository(db database.PgxIface, log *zap.Logger) PayoutRepository {
	return &payoutRepository{
		db:  db,
		log: log.With(zap.String("repository", "payout")),
	}
}

const payoutColumns = `id, host_id, period_start, period_end, total_amount, status, transaction_ref, bank_code, bank_account_no, bank_account_name, processed_by, completed_at, created_at, updated_at`

func scanPayout(row pgx.Row) (*entity.HostPayout, error) {
	var payout entity.HostPayout
	err := row.Scan(
		&payout.ID,
		&payout.HostID,
		&payout.PeriodStart,
		&payout.PeriodEnd,
		&payout.TotalAmount,
		&payout.Status,
		&payout.TransactionRef,
		&payout.BankCode,
		&payout.BankAccountNo,
		&payout.BankAccountName,
		&payout.ProcessedBy,
		&payout.CompletedAt,
		&payout.CreatedAt,
		&payout.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *payoutRepository) Create(ctx context.Context, payout *entity.HostPayout) error {
	query := `
		INSERT INTO host_payouts (` + payoutColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		payout.ID,
		payout.HostID,
		payout.PeriodStart,
		payout.PeriodEnd,
		payout.TotalAmount,
		payout.Status,
		payout.TransactionRef,
		payout.BankCode,
		payout.BankAccountNo,
		payout.BankAccountName,
		payout.ProcessedBy,
		payout.CompletedAt,
		payout.CreatedAt,
		payout.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create payout",
			zap.Error(err),
			zap.String("host_id", payout.HostID.String()),
		)
		return fmt.Errorf("create payout for host %s: %w", payout.HostID.String(), err)
	}

	return nil
}

func (r *payoutRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.HostPayout, error) {
	query := `SELECT ` + payoutColumns + ` FROM host_payouts WHERE id = $1`

	payout, err := scanPayout(r.db.QueryRow(ctx, query, id))
	if err != nil {
		r.log.Error("Failed to find payout by ID",
			zap.Error(err),
			zap.String("payout_id", id.String()),
		)
		return nil, fmt.Errorf("find payout by ID %s: %w", id.String(), err)
	}

	return payout, nil
}

func (r *payoutRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.PayoutStatus, processedBy uuid.UUID) (bool, error) {
	query := `
		UPDATE host_payouts
		SET status = $3, processed_by = $4, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, from, to, processedBy)
	if err != nil {
		r.log.Error("Failed to transition payout status",
			zap.Error(err),
			zap.String("payout_id", id.String()),
			zap.String("from", string(from)),
			zap.String("to", string(to)),
		)
		return false, fmt.Errorf("transition payout %s to %s: %w", id.String(), string(to), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *payoutRepository) Complete(ctx context.Context, id uuid.UUID, transactionRef string, processedBy uuid.UUID, completedAt time.Time) (bool, error) {
	query := `
		UPDATE host_payouts
		SET status = 'completed', transaction_ref = $2, processed_by = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $1 AND status = 'processing'
	`

	result, err := r.db.Exec(ctx, query, id, transactionRef, processedBy, completedAt)
	if err != nil {
		r.log.Error("Failed to complete payout",
			zap.Error(err),
			zap.String("payout_id", id.String()),
		)
		return false, fmt.Errorf("complete payout %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *payoutRepository) UpdateTotal(ctx context.Context, id uuid.UUID, totalAmount int64) error {
	query := `UPDATE host_payouts SET total_amount = $2, updated_at = NOW() WHERE id = $1 AND status = 'pending'`

	result, err := r.db.Exec(ctx, query, id, totalAmount)
	if err != nil {
		r.log.Error("Failed to update payout total",
			zap.Error(err),
			zap.String("payout_id", id.String()),
		)
		return fmt.Errorf("update payout %s total: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("payout %s not pending", id.String())
	}

	return nil
}

func (r *payoutRepository) FindByHostID(ctx context.Context, hostID uuid.UUID, limit, offset int) ([]*entity.HostPayout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM host_payouts
		WHERE host_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	return r.queryPayouts(ctx, query, hostID, limit, offset)
}

func (r *payoutRepository) CountByHostID(ctx context.Context, hostID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM host_payouts WHERE host_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, hostID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count payouts by host ID",
			zap.Error(err),
			zap.String("host_id", hostID.String()),
		)
		return 0, fmt.Errorf("count payouts by host ID %s: %w", hostID.String(), err)
	}

	return count, nil
}

func (r *payoutRepository) FindAll(ctx context.Context, limit, offset int) ([]*entity.HostPayout, error) {
	query := `
		SELECT ` + payoutColumns + `
		FROM host_payouts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	return r.queryPayouts(ctx, query, limit, offset)
}

func (r *payoutRepository) CountAll(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM host_payouts`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count payouts", zap.Error(err))
		return 0, fmt.Errorf("count payouts: %w", err)
	}

	return count, nil
}

func (r *payoutRepository) Statistics(ctx context.Context) (*PayoutStatistics, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(total_amount) FILTER (WHERE status = 'completed'), 0)
		FROM host_payouts
	`

	var stats PayoutStatistics
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.TotalPayouts,
		&stats.PendingPayouts,
		&stats.CompletedPayouts,
		&stats.CancelledPayouts,
		&stats.TotalPaidOut,
	)
	if err != nil {
		r.log.Error("Failed to compute payout statistics", zap.Error(err))
		return nil, fmt.Errorf("payout statistics: %w", err)
	}

	return &stats, nil
}

func (r *payoutRepository) queryPayouts(ctx context.Context, query string, args ...any) ([]*entity.HostPayout, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query payouts", zap.Error(err))
		return nil, fmt.Errorf("query payouts: %w", err)
	}
	defer rows.Close()

	var payouts []*entity.HostPayout
	for rows.Next() {
		payout, err := scanPayout(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payout row: %w", err)
		}
		payouts = append(payouts, payout)
	}

	return payouts, nil
}
