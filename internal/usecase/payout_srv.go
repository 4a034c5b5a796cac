package usecase

import (
	"context"
	"time"

	"homestay-booking/internal/data/entity"
	"homestay-booking/internal/data/repository"
	"homestay-booking/internal/dto/request"
	"homestay-booking/internal/dto/response"
	"homestay-booking/pkg/apperr"
	"homestay-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PayoutService interface {
	// Create opens a payout batch for one host and period, claiming every
	// approved, unclaimed earning inside it. Concurrent batches for the
	// same host never claim the same earning twice.
	Create(ctx context.Context, adminID uuid.UUID, req *request.CreatePayoutRequest) (*response.PayoutResponse, error)

	// Process marks the batch as handed to the bank.
	Process(ctx context.Context, adminID, payoutID uuid.UUID) (*response.PayoutResponse, error)
	// Complete records the bank reference and settles every claimed
	// earning. Completed payouts are immutable.
	Complete(ctx context.Context, adminID, payoutID uuid.UUID, req *request.CompletePayoutRequest) (*response.PayoutResponse, error)
	// Cancel aborts the batch and releases its earnings back to the pool.
	Cancel(ctx context.Context, adminID, payoutID uuid.UUID) error

	GetByID(ctx context.Context, payoutID uuid.UUID) (*response.PayoutResponse, error)
	// GetHostPayout is the owner-scoped detail read.
	GetHostPayout(ctx context.Context, hostID, payoutID uuid.UUID) (*response.PayoutResponse, error)
	GetHostPayouts(ctx context.Context, hostID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.PayoutResponse], error)
	GetAll(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.PayoutResponse], error)
	Statistics(ctx context.Context) (*response.PayoutStatisticsResponse, error)
}

type payoutService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewPayoutService(repo *repository.Repository, log *zap.Logger) PayoutService {
	return &payoutService{
		repo: repo,
		log:  log.With(zap.String("service", "payout")),
	}
}

func (s *payoutService) Create(ctx context.Context, adminID uuid.UUID, req *request.CreatePayoutRequest) (*response.PayoutResponse, error) {
	hostID, err := utils.ParseUUID(req.HostID)
	if err != nil {
		return nil, apperr.Validation("invalid host_id")
	}

	periodStart, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return nil, apperr.Validation("invalid period_start date")
	}
	periodEnd, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return nil, apperr.Validation("invalid period_end date")
	}
	if !periodEnd.After(periodStart) {
		return nil, apperr.Validation("period_end must be after period_start")
	}

	host, err := s.repo.User.FindByID(ctx, hostID)
	if err != nil {
		return nil, apperr.Internal(err, "find host")
	}
	if host == nil || host.Role != entity.RoleHost {
		return nil, apperr.NotFound("host not found")
	}
	if host.BankCode == nil || host.BankAccountNo == nil || host.BankAccountName == nil {
		return nil, apperr.Validation("host has no payout bank account on file")
	}

	now := time.Now()
	payout := &entity.HostPayout{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HostID:      hostID,
		PeriodStart: periodStart,
		PeriodEnd:   periodEnd,
		Status:      entity.PayoutStatusPending,
		// Snapshot so a later account change does not rewrite history.
		BankCode:        *host.BankCode,
		BankAccountNo:   *host.BankAccountNo,
		BankAccountName: *host.BankAccountName,
	}

	var earnings []*entity.HostEarning
	err = s.repo.Atomic(ctx, func(ctx context.Context) error {
		if err := s.repo.Payout.Create(ctx, payout); err != nil {
			return apperr.Internal(err, "create payout")
		}

		claimed, err := s.repo.Earning.ClaimForPayout(ctx, payout.ID, hostID, periodStart, periodEnd)
		if err != nil {
			return apperr.Internal(err, "claim earnings")
		}
		if len(claimed) == 0 {
			return apperr.Conflict("no payable earnings for host in period")
		}

		var total int64
		for _, e := range claimed {
			total += e.NetAmount
		}

		if err := s.repo.Payout.UpdateTotal(ctx, payout.ID, total); err != nil {
			return apperr.Internal(err, "set payout total")
		}

		payout.TotalAmount = total
		earnings = claimed
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Payout batch created",
		zap.String("payout_id", payout.ID.String()),
		zap.String("host_id", hostID.String()),
		zap.Int("earnings", len(earnings)),
		zap.Int64("total", payout.TotalAmount),
	)

	resp := response.PayoutToResponse(payout)
	for _, e := range earnings {
		resp.Earnings = append(resp.Earnings, response.EarningToResponse(e))
	}
	return &resp, nil
}

func (s *payoutService) Process(ctx context.Context, adminID, payoutID uuid.UUID) (*response.PayoutResponse, error) {
	ok, err := s.repo.Payout.TransitionStatus(ctx, payoutID,
		entity.PayoutStatusPending, entity.PayoutStatusProcessing, adminID)
	if err != nil {
		return nil, apperr.Internal(err, "process payout")
	}
	if !ok {
		return nil, apperr.Conflict("payout is not pending")
	}

	s.log.Info("Payout processing",
		zap.String("payout_id", payoutID.String()),
		zap.String("admin_id", adminID.String()),
	)

	return s.GetByID(ctx, payoutID)
}

func (s *payoutService) Complete(ctx context.Context, adminID, payoutID uuid.UUID, req *request.CompletePayoutRequest) (*response.PayoutResponse, error) {
	err := s.repo.Atomic(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Payout.Complete(ctx, payoutID, req.TransactionRef, adminID, time.Now())
		if err != nil {
			return apperr.Internal(err, "complete payout")
		}
		if !ok {
			return apperr.Conflict("payout is not processing")
		}

		if err := s.repo.Earning.MarkPaidByPayout(ctx, payoutID); err != nil {
			return apperr.Internal(err, "settle payout earnings")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Payout completed",
		zap.String("payout_id", payoutID.String()),
		zap.String("transaction_ref", req.TransactionRef),
	)

	return s.GetByID(ctx, payoutID)
}

func (s *payoutService) Cancel(ctx context.Context, adminID, payoutID uuid.UUID) error {
	payout, err := s.repo.Payout.FindByID(ctx, payoutID)
	if err != nil {
		return apperr.Internal(err, "find payout")
	}
	if payout == nil {
		return apperr.NotFound("payout not found")
	}
	if !payout.CanCancel() {
		return apperr.Conflict("payout cannot be cancelled from status %s", payout.Status)
	}

	err = s.repo.Atomic(ctx, func(ctx context.Context) error {
		ok, err := s.repo.Payout.TransitionStatus(ctx, payoutID,
			payout.Status, entity.PayoutStatusCancelled, adminID)
		if err != nil {
			return apperr.Internal(err, "cancel payout")
		}
		if !ok {
			return apperr.Conflict("payout moved concurrently")
		}

		if err := s.repo.Earning.ReleaseByPayout(ctx, payoutID); err != nil {
			return apperr.Internal(err, "release payout earnings")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("Payout cancelled",
		zap.String("payout_id", payoutID.String()),
		zap.String("admin_id", adminID.String()),
	)

	return nil
}

func (s *payoutService) GetByID(ctx context.Context, payoutID uuid.UUID) (*response.PayoutResponse, error) {
	payout, err := s.repo.Payout.FindByID(ctx, payoutID)
	if err != nil {
		return nil, apperr.Internal(err, "find payout")
	}
	if payout == nil {
		return nil, apperr.NotFound("payout not found")
	}

	return s.detail(ctx, payout)
}

func (s *payoutService) GetHostPayout(ctx context.Context, hostID, payoutID uuid.UUID) (*response.PayoutResponse, error) {
	payout, err := s.repo.Payout.FindByID(ctx, payoutID)
	if err != nil {
		return nil, apperr.Internal(err, "find payout")
	}
	if payout == nil {
		return nil, apperr.NotFound("payout not found")
	}
	if payout.HostID != hostID {
		return nil, apperr.Forbidden("payout belongs to another host")
	}

	return s.detail(ctx, payout)
}

func (s *payoutService) detail(ctx context.Context, payout *entity.HostPayout) (*response.PayoutResponse, error) {
	resp := response.PayoutToResponse(payout)

	earnings, err := s.repo.Earning.FindByPayoutID(ctx, payout.ID)
	if err != nil {
		return nil, apperr.Internal(err, "find payout earnings")
	}
	for _, e := range earnings {
		resp.Earnings = append(resp.Earnings, response.EarningToResponse(e))
	}

	return &resp, nil
}

func (s *payoutService) GetHostPayouts(ctx context.Context, hostID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.PayoutResponse], error) {
	payouts, err := s.repo.Payout.FindByHostID(ctx, hostID, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Internal(err, "list host payouts")
	}
	total, err := s.repo.Payout.CountByHostID(ctx, hostID)
	if err != nil {
		return nil, apperr.Internal(err, "count host payouts")
	}
	return s.paginate(payouts, page, total), nil
}

func (s *payoutService) GetAll(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.PayoutResponse], error) {
	payouts, err := s.repo.Payout.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Internal(err, "list payouts")
	}
	total, err := s.repo.Payout.CountAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "count payouts")
	}
	return s.paginate(payouts, page, total), nil
}

func (s *payoutService) Statistics(ctx context.Context) (*response.PayoutStatisticsResponse, error) {
	stats, err := s.repo.Payout.Statistics(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "payout statistics")
	}

	return &response.PayoutStatisticsResponse{
		TotalPayouts:     stats.TotalPayouts,
		PendingPayouts:   stats.PendingPayouts,
		CompletedPayouts: stats.CompletedPayouts,
		CancelledPayouts: stats.CancelledPayouts,
		TotalPaidOut:     stats.TotalPaidOut,
	}, nil
}

func (s *payoutService) paginate(payouts []*entity.HostPayout, page request.PaginatedRequest, total int64) *response.PaginatedResponse[response.PayoutResponse] {
	items := make([]response.PayoutResponse, 0, len(payouts))
	for _, p := range payouts {
		items = append(items, response.PayoutToResponse(p))
	}
	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total)
}
