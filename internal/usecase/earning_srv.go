package usecase

import (
	"context"

	"homestay-booking/internal/data/entity"
	"homestay-booking/internal/data/repository"
	"homestay-booking/internal/dto/request"
	"homestay-booking/internal/dto/response"
	"homestay-booking/pkg/apperr"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EarningService interface {
	GetHostEarnings(ctx context.Context, hostID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.EarningResponse], error)
	GetHostSummary(ctx context.Context, hostID uuid.UUID) (*response.EarningSummaryResponse, error)
	GetByStatus(ctx context.Context, status string, page request.PaginatedRequest) (*response.PaginatedResponse[response.EarningResponse], error)

	// Approve moves a pending earning into the payable pool. At most one
	// of Approve and Reject wins per earning.
	Approve(ctx context.Context, earningID uuid.UUID) (*response.EarningResponse, error)
	Reject(ctx context.Context, earningID uuid.UUID) (*response.EarningResponse, error)
}

type earningService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewEarningService(repo *repository.Repository, log *zap.Logger) EarningService {
	return &earningService{
		repo: repo,
		log:  log.With(zap.String("service", "earning")),
	}
}

func (s *earningService) GetHostEarnings(ctx context.Context, hostID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.EarningResponse], error) {
	earnings, err := s.repo.Earning.FindByHostID(ctx, hostID, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Internal(err, "list host earnings")
	}
	total, err := s.repo.Earning.CountByHostID(ctx, hostID)
	if err != nil {
		return nil, apperr.Internal(err, "count host earnings")
	}
	return s.paginate(earnings, page, total), nil
}

func (s *earningService) GetHostSummary(ctx context.Context, hostID uuid.UUID) (*response.EarningSummaryResponse, error) {
	summary, err := s.repo.Earning.SummaryByHostID(ctx, hostID)
	if err != nil {
		return nil, apperr.Internal(err, "earning summary")
	}

	return &response.EarningSummaryResponse{
		HostID:         hostID.String(),
		PendingAmount:  summary.PendingAmount,
		ApprovedAmount: summary.ApprovedAmount,
		PaidAmount:     summary.PaidAmount,
		TotalEarnings:  summary.TotalEarnings,
	}, nil
}

func (s *earningService) GetByStatus(ctx context.Context, status string, page request.PaginatedRequest) (*response.PaginatedResponse[response.EarningResponse], error) {
	earningStatus := entity.EarningStatus(status)
	switch earningStatus {
	case entity.EarningStatusPending, entity.EarningStatusApproved,
		entity.EarningStatusRejected, entity.EarningStatusPaid:
	default:
		return nil, apperr.Validation("unknown earning status %q", status)
	}

	earnings, err := s.repo.Earning.FindByStatus(ctx, earningStatus, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Internal(err, "list earnings by status")
	}
	total, err := s.repo.Earning.CountByStatus(ctx, earningStatus)
	if err != nil {
		return nil, apperr.Internal(err, "count earnings by status")
	}
	return s.paginate(earnings, page, total), nil
}

func (s *earningService) Approve(ctx context.Context, earningID uuid.UUID) (*response.EarningResponse, error) {
	return s.transition(ctx, earningID, entity.EarningStatusApproved)
}

func (s *earningService) Reject(ctx context.Context, earningID uuid.UUID) (*response.EarningResponse, error) {
	return s.transition(ctx, earningID, entity.EarningStatusRejected)
}

func (s *earningService) transition(ctx context.Context, earningID uuid.UUID, to entity.EarningStatus) (*response.EarningResponse, error) {
	earning, err := s.repo.Earning.FindByID(ctx, earningID)
	if err != nil {
		return nil, apperr.Internal(err, "find earning")
	}
	if earning == nil {
		return nil, apperr.NotFound("earning not found")
	}

	ok, err := s.repo.Earning.TransitionStatus(ctx, earningID, entity.EarningStatusPending, to)
	if err != nil {
		return nil, apperr.Internal(err, "transition earning")
	}
	if !ok {
		return nil, apperr.Conflict("earning is no longer pending")
	}

	earning.Status = to
	s.log.Info("Earning reviewed",
		zap.String("earning_id", earningID.String()),
		zap.String("status", string(to)),
	)

	resp := response.EarningToResponse(earning)
	return &resp, nil
}

func (s *earningService) paginate(earnings []*entity.HostEarning, page request.PaginatedRequest, total int64) *response.PaginatedResponse[response.EarningResponse] {
	items := make([]response.EarningResponse, 0, len(earnings))
	for _, e := range earnings {
		items = append(items, response.EarningToResponse(e))
	}
	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total)
}
