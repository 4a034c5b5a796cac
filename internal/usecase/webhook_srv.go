package usecase

import (
	"context"
	"regexp"
	"strings"
	"time"

	"homestay-booking/internal/data/entity"
	"homestay-booking/internal/data/repository"
	"homestay-booking/internal/dto/request"
	"homestay-booking/internal/dto/response"
	"homestay-booking/pkg/apperr"
	"homestay-booking/pkg/database"
	"homestay-booking/pkg/utils"

	"go.uber.org/zap"
)

const (
	OutcomeMatched   = "matched"
	OutcomeUnmatched = "unmatched"
	OutcomeUnderpaid = "underpaid"
	OutcomeReplayed  = "replayed"
)

// bookingCodeRe matches the code customers are told to put in the
// transfer description. Case-insensitive because banks love uppercasing.
var bookingCodeRe = regexp.MustCompile(`(?i)BK-\d{8}-\d{6}-\d{4}`)

type WebhookService interface {
	// Ingest processes one bank transfer event. Safe under at-least-once
	// delivery: a replayed reference returns the original outcome
	// without side effects.
	Ingest(ctx context.Context, req *request.BankTransferEvent) (*response.IngestResponse, error)

	ListUnmatched(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error)

	// ManualMatch lets an admin tie a pending unmatched payment to a
	// booking when the description carried no usable code.
	ManualMatch(ctx context.Context, req *request.ManualMatchRequest) (*response.IngestResponse, error)
}

type webhookService struct {
	repo    *repository.Repository
	booking BookingService
	log     *zap.Logger
}

func NewWebhookService(repo *repository.Repository, booking BookingService, log *zap.Logger) WebhookService {
	return &webhookService{
		repo:    repo,
		booking: booking,
		log:     log.With(zap.String("service", "webhook")),
	}
}

// ExtractBookingCode pulls the first booking code out of a transfer
// description, normalized to uppercase. Empty when none is present.
func ExtractBookingCode(description string) string {
	return strings.ToUpper(bookingCodeRe.FindString(description))
}

func (s *webhookService) Ingest(ctx context.Context, req *request.BankTransferEvent) (*response.IngestResponse, error) {
	if existing, err := s.repo.Payment.FindByExternalRef(ctx, req.Reference); err != nil {
		return nil, apperr.Internal(err, "check payment reference")
	} else if existing != nil {
		return s.replayed(existing), nil
	}

	paidAt, err := time.Parse(time.RFC3339, req.Timestamp)
	if err != nil {
		return nil, apperr.Validation("invalid timestamp, want RFC3339")
	}

	var result *response.IngestResponse
	err = s.repo.Atomic(ctx, func(ctx context.Context) error {
		now := time.Now()
		payment := &entity.Payment{
			Base: entity.Base{
				ID:        utils.GenerateUUID(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			Amount:      req.Amount,
			Method:      "bank_transfer",
			Status:      entity.PaymentStatusPending,
			ExternalRef: req.Reference,
			Description: req.Description,
			PaidAt:      &paidAt,
		}

		if err := s.repo.Payment.Create(ctx, payment); err != nil {
			return err
		}

		outcome, booking, err := s.match(ctx, payment)
		if err != nil {
			return err
		}

		result = &response.IngestResponse{
			Outcome: outcome,
			Payment: response.PaymentToResponse(payment),
		}
		if booking != nil {
			result.BookingCode = booking.BookingCode
		}
		return nil
	})

	if err != nil {
		// Two deliveries raced past the existence check; the unique
		// index on external_ref picked the winner.
		if database.IsUniqueViolation(err) {
			existing, ferr := s.repo.Payment.FindByExternalRef(ctx, req.Reference)
			if ferr != nil || existing == nil {
				return nil, apperr.Internal(err, "resolve replayed payment %s", req.Reference)
			}
			return s.replayed(existing), nil
		}
		return nil, err
	}

	s.log.Info("Transfer ingested",
		zap.String("reference", req.Reference),
		zap.Int64("amount", req.Amount),
		zap.String("outcome", result.Outcome),
	)

	return result, nil
}

// match runs inside the ingest transaction. The payment row is already
// inserted; matching mutates it and, on success, settles the booking.
func (s *webhookService) match(ctx context.Context, payment *entity.Payment) (string, *entity.Booking, error) {
	code := ExtractBookingCode(payment.Description)
	if code == "" {
		return OutcomeUnmatched, nil, nil
	}

	booking, err := s.repo.Booking.FindByCode(ctx, code)
	if err != nil {
		return "", nil, apperr.Internal(err, "find booking for matching")
	}
	if booking == nil {
		s.log.Warn("Transfer references unknown booking code",
			zap.String("reference", payment.ExternalRef),
			zap.String("booking_code", code),
		)
		return OutcomeUnmatched, nil, nil
	}

	if !booking.CanConfirmPayment() {
		// Already paid or cancelled. The payment stays in the manual
		// queue; an admin decides whether it is a duplicate transfer.
		s.log.Warn("Transfer for non-payable booking left unmatched",
			zap.String("reference", payment.ExternalRef),
			zap.String("booking_code", code),
			zap.String("payment_status", string(booking.PaymentStatus)),
		)
		return OutcomeUnmatched, booking, nil
	}

	if payment.Amount < booking.TotalAmount {
		if err := s.repo.Payment.AttachBooking(ctx, payment.ID, booking.ID); err != nil {
			return "", nil, apperr.Internal(err, "attach underpaid payment")
		}
		payment.BookingID = &booking.ID
		s.log.Warn("Underpaid transfer held for review",
			zap.String("reference", payment.ExternalRef),
			zap.String("booking_code", code),
			zap.Int64("amount", payment.Amount),
			zap.Int64("expected", booking.TotalAmount),
		)
		return OutcomeUnderpaid, booking, nil
	}

	if err := s.booking.ConfirmPayment(ctx, booking, payment); err != nil {
		return "", nil, err
	}
	payment.BookingID = &booking.ID
	payment.Status = entity.PaymentStatusCompleted

	return OutcomeMatched, booking, nil
}

func (s *webhookService) replayed(payment *entity.Payment) *response.IngestResponse {
	s.log.Info("Duplicate delivery replayed",
		zap.String("reference", payment.ExternalRef),
	)
	return &response.IngestResponse{
		Outcome: OutcomeReplayed,
		Payment: response.PaymentToResponse(payment),
	}
}

func (s *webhookService) ListUnmatched(ctx context.Context, page request.PaginatedRequest) (*response.PaginatedResponse[response.PaymentResponse], error) {
	payments, err := s.repo.Payment.FindUnmatched(ctx, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Internal(err, "list unmatched payments")
	}

	total, err := s.repo.Payment.CountUnmatched(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "count unmatched payments")
	}

	items := make([]response.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, response.PaymentToResponse(p))
	}

	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

func (s *webhookService) ManualMatch(ctx context.Context, req *request.ManualMatchRequest) (*response.IngestResponse, error) {
	paymentID, err := utils.ParseUUID(req.PaymentID)
	if err != nil {
		return nil, apperr.Validation("invalid payment_id")
	}

	var result *response.IngestResponse
	err = s.repo.Atomic(ctx, func(ctx context.Context) error {
		payment, err := s.repo.Payment.FindByID(ctx, paymentID)
		if err != nil {
			return apperr.Internal(err, "find payment")
		}
		if payment == nil {
			return apperr.NotFound("payment not found")
		}
		if payment.Status != entity.PaymentStatusPending || payment.BookingID != nil {
			return apperr.Conflict("payment %s is not awaiting a match", payment.ExternalRef)
		}

		booking, err := s.repo.Booking.FindByCode(ctx, strings.ToUpper(req.BookingCode))
		if err != nil {
			return apperr.Internal(err, "find booking")
		}
		if booking == nil {
			return apperr.NotFound("booking %s not found", req.BookingCode)
		}

		outcome := OutcomeUnderpaid
		if payment.Amount >= booking.TotalAmount {
			if err := s.booking.ConfirmPayment(ctx, booking, payment); err != nil {
				return err
			}
			payment.Status = entity.PaymentStatusCompleted
			outcome = OutcomeMatched
		} else {
			if !booking.CanConfirmPayment() {
				return apperr.Conflict("booking %s is not payable", booking.BookingCode)
			}
			if err := s.repo.Payment.AttachBooking(ctx, payment.ID, booking.ID); err != nil {
				return apperr.Internal(err, "attach payment")
			}
		}
		payment.BookingID = &booking.ID

		result = &response.IngestResponse{
			Outcome:     outcome,
			Payment:     response.PaymentToResponse(payment),
			BookingCode: booking.BookingCode,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Payment matched manually",
		zap.String("payment_id", req.PaymentID),
		zap.String("booking_code", result.BookingCode),
		zap.String("outcome", result.Outcome),
	)

	return result, nil
}
