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

type RefundService interface {
	CreateTicket(ctx context.Context, customerID uuid.UUID, req *request.CreateRefundTicketRequest) (*response.RefundTicketResponse, error)
	CancelTicket(ctx context.Context, customerID, ticketID uuid.UUID) error

	// ProcessTicket approves or rejects a pending ticket. Approval books
	// the refund, adjusts the booking and trims the host earning, all in
	// one transaction. A ticket is processed at most once.
	ProcessTicket(ctx context.Context, adminID, ticketID uuid.UUID, req *request.ProcessRefundTicketRequest) (*response.RefundTicketResponse, error)

	// GetTicket is the detail read, scoped to the requesting customer
	// unless the context carries the admin role.
	GetTicket(ctx context.Context, requesterID, ticketID uuid.UUID) (*response.RefundTicketResponse, error)

	GetCustomerTickets(ctx context.Context, customerID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.RefundTicketResponse], error)
	GetHostTickets(ctx context.Context, hostID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.RefundTicketResponse], error)
	GetAllTickets(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.RefundTicketResponse], error)
	Statistics(ctx context.Context) (*response.RefundStatisticsResponse, error)
}

type refundService struct {
	repo    *repository.Repository
	booking BookingService
	log     *zap.Logger
}

func NewRefundService(repo *repository.Repository, booking BookingService, log *zap.Logger) RefundService {
	return &refundService{
		repo:    repo,
		booking: booking,
		log:     log.With(zap.String("service", "refund")),
	}
}

func (s *refundService) CreateTicket(ctx context.Context, customerID uuid.UUID, req *request.CreateRefundTicketRequest) (*response.RefundTicketResponse, error) {
	bookingID, err := utils.ParseUUID(req.BookingID)
	if err != nil {
		return nil, apperr.Validation("invalid booking_id")
	}

	var booking *entity.Booking
	var ticket *entity.RefundTicket

	// The booking row lock orders ticket creation against concurrent
	// creations and approvals, so the pending-ticket and balance checks
	// cannot race past each other.
	err = s.repo.Atomic(ctx, func(ctx context.Context) error {
		booking, err = s.repo.Booking.LockByID(ctx, bookingID)
		if err != nil {
			return apperr.Internal(err, "lock booking")
		}
		if booking == nil {
			return apperr.NotFound("booking not found")
		}
		if booking.CustomerID != customerID {
			return apperr.Forbidden("booking belongs to another customer")
		}
		if !booking.CanRefund() {
			return apperr.Conflict("booking %s is not refundable from payment state %s",
				booking.BookingCode, booking.PaymentStatus)
		}

		paidTotal, err := s.repo.Payment.SumCompletedByBookingID(ctx, booking.ID)
		if err != nil {
			return apperr.Internal(err, "sum booking payments")
		}
		refundedTotal, err := s.repo.Refund.SumByBookingID(ctx, booking.ID)
		if err != nil {
			return apperr.Internal(err, "sum prior refunds")
		}
		if req.Amount > paidTotal-refundedTotal {
			return apperr.Validation("requested %d exceeds refundable balance %d",
				req.Amount, paidTotal-refundedTotal)
		}

		open, err := s.repo.RefundTicket.FindByBookingID(ctx, booking.ID)
		if err != nil {
			return apperr.Internal(err, "check open tickets")
		}
		for _, t := range open {
			if t.Status == entity.RefundTicketStatusPending {
				return apperr.Conflict("booking %s already has a pending refund request", booking.BookingCode)
			}
		}

		now := time.Now()
		ticket = &entity.RefundTicket{
			Base: entity.Base{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			BookingID:       booking.ID,
			CustomerID:      customerID,
			RequestedAmount: req.Amount,
			Reason:          req.Reason,
			Status:          entity.RefundTicketStatusPending,
		}

		if err := s.repo.RefundTicket.Create(ctx, ticket); err != nil {
			return apperr.Internal(err, "create refund ticket")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Refund ticket created",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.Int64("amount", req.Amount),
	)

	resp := response.RefundTicketToResponse(ticket)
	resp.BookingCode = booking.BookingCode
	return &resp, nil
}

func (s *refundService) CancelTicket(ctx context.Context, customerID, ticketID uuid.UUID) error {
	ticket, err := s.repo.RefundTicket.FindByID(ctx, ticketID)
	if err != nil {
		return apperr.Internal(err, "find refund ticket")
	}
	if ticket == nil {
		return apperr.NotFound("refund ticket not found")
	}
	if ticket.CustomerID != customerID {
		return apperr.Forbidden("ticket belongs to another customer")
	}

	ok, err := s.repo.RefundTicket.TransitionFromPending(ctx, ticketID,
		entity.RefundTicketStatusCancelled, nil, time.Now())
	if err != nil {
		return apperr.Internal(err, "cancel refund ticket")
	}
	if !ok {
		return apperr.Conflict("ticket is no longer pending")
	}

	s.log.Info("Refund ticket cancelled", zap.String("ticket_id", ticketID.String()))
	return nil
}

func (s *refundService) ProcessTicket(ctx context.Context, adminID, ticketID uuid.UUID, req *request.ProcessRefundTicketRequest) (*response.RefundTicketResponse, error) {
	ticket, err := s.repo.RefundTicket.FindByID(ctx, ticketID)
	if err != nil {
		return nil, apperr.Internal(err, "find refund ticket")
	}
	if ticket == nil {
		return nil, apperr.NotFound("refund ticket not found")
	}

	decision := entity.RefundTicketStatus(req.Decision)
	processedAt := time.Now()

	err = s.repo.Atomic(ctx, func(ctx context.Context) error {
		ok, err := s.repo.RefundTicket.TransitionFromPending(ctx, ticketID, decision, &adminID, processedAt)
		if err != nil {
			return apperr.Internal(err, "transition refund ticket")
		}
		if !ok {
			return apperr.Conflict("ticket was already processed")
		}

		if decision == entity.RefundTicketStatusApproved {
			if err := s.booking.ApplyRefund(ctx, ticket, adminID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ticket.Status = decision
	ticket.ProcessedBy = &adminID
	ticket.ProcessedAt = &processedAt

	s.log.Info("Refund ticket processed",
		zap.String("ticket_id", ticketID.String()),
		zap.String("decision", req.Decision),
		zap.String("admin_id", adminID.String()),
	)

	resp := response.RefundTicketToResponse(ticket)

	if decision == entity.RefundTicketStatusApproved {
		refund, err := s.repo.Refund.FindByTicketID(ctx, ticketID)
		if err != nil {
			return nil, apperr.Internal(err, "find booked refund")
		}
		if refund != nil {
			r := response.RefundToResponse(refund)
			resp.Refund = &r
		}
	}

	return &resp, nil
}

func (s *refundService) GetTicket(ctx context.Context, requesterID, ticketID uuid.UUID) (*response.RefundTicketResponse, error) {
	ticket, err := s.repo.RefundTicket.FindByID(ctx, ticketID)
	if err != nil {
		return nil, apperr.Internal(err, "find refund ticket")
	}
	if ticket == nil {
		return nil, apperr.NotFound("refund ticket not found")
	}

	role, _ := utils.GetRoleFromContext(ctx)
	if role != string(entity.RoleAdmin) && ticket.CustomerID != requesterID {
		return nil, apperr.Forbidden("ticket belongs to another customer")
	}

	resp := response.RefundTicketToResponse(ticket)

	if ticket.Status == entity.RefundTicketStatusApproved {
		refund, err := s.repo.Refund.FindByTicketID(ctx, ticketID)
		if err != nil {
			return nil, apperr.Internal(err, "find booked refund")
		}
		if refund != nil {
			r := response.RefundToResponse(refund)
			resp.Refund = &r
		}
	}

	return &resp, nil
}

func (s *refundService) GetCustomerTickets(ctx context.Context, customerID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.RefundTicketResponse], error) {
	tickets, err := s.repo.RefundTicket.FindByCustomerID(ctx, customerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Internal(err, "list customer refund tickets")
	}
	total, err := s.repo.RefundTicket.CountByCustomerID(ctx, customerID)
	if err != nil {
		return nil, apperr.Internal(err, "count customer refund tickets")
	}
	return s.paginate(tickets, page, total), nil
}

func (s *refundService) GetHostTickets(ctx context.Context, hostID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.RefundTicketResponse], error) {
	tickets, err := s.repo.RefundTicket.FindByHostID(ctx, hostID, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Internal(err, "list host refund tickets")
	}
	total, err := s.repo.RefundTicket.CountByHostID(ctx, hostID)
	if err != nil {
		return nil, apperr.Internal(err, "count host refund tickets")
	}
	return s.paginate(tickets, page, total), nil
}

func (s *refundService) GetAllTickets(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.RefundTicketResponse], error) {
	tickets, err := s.repo.RefundTicket.FindAll(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Internal(err, "list refund tickets")
	}
	total, err := s.repo.RefundTicket.CountAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "count refund tickets")
	}
	return s.paginate(tickets, page, total), nil
}

func (s *refundService) Statistics(ctx context.Context) (*response.RefundStatisticsResponse, error) {
	stats, err := s.repo.RefundTicket.Statistics(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "refund ticket statistics")
	}
	refunded, err := s.repo.Refund.SumAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "sum refunds")
	}

	return &response.RefundStatisticsResponse{
		TotalTickets:    stats.TotalTickets,
		PendingTickets:  stats.PendingTickets,
		ApprovedTickets: stats.ApprovedTickets,
		RejectedTickets: stats.RejectedTickets,
		TotalRefunded:   refunded,
	}, nil
}

func (s *refundService) paginate(tickets []*entity.RefundTicket, page request.PaginatedRequest, total int64) *response.PaginatedResponse[response.RefundTicketResponse] {
	items := make([]response.RefundTicketResponse, 0, len(tickets))
	for _, t := range tickets {
		items = append(items, response.RefundTicketToResponse(t))
	}
	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total)
}
