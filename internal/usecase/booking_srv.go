package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"homestay-booking/internal/data/entity"
	"homestay-booking/internal/data/repository"
	"homestay-booking/internal/dto/request"
	"homestay-booking/internal/dto/response"
	"homestay-booking/pkg/apperr"
	"homestay-booking/pkg/cache"
	"homestay-booking/pkg/utils"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

type BookingService interface {
	CreateBooking(ctx context.Context, customerID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	GetUserBookings(ctx context.Context, customerID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	GetBookingByCode(ctx context.Context, code string) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, customerID, bookingID uuid.UUID) error
	GetPaymentQR(ctx context.Context, customerID, bookingID uuid.UUID) (*response.PaymentQRResponse, error)

	// CheckIn and CheckOut advance a paid stay through its forward-only
	// tail. Scoped to the host who owns the property.
	CheckIn(ctx context.Context, hostID, bookingID uuid.UUID) error
	CheckOut(ctx context.Context, hostID, bookingID uuid.UUID) error

	// ConfirmPayment settles a matched payment against its booking: the
	// booking flips to confirmed/paid, the payment completes, and the
	// host earning is recorded. Must run inside the caller's transaction.
	ConfirmPayment(ctx context.Context, booking *entity.Booking, payment *entity.Payment) error

	// ApplyRefund books an approved refund against the booking and trims
	// the host earning proportionally. Must run inside the caller's
	// transaction.
	ApplyRefund(ctx context.Context, ticket *entity.RefundTicket, approvedBy uuid.UUID) error
}

type bookingService struct {
	repo      *repository.Repository
	feePolicy FeePolicy
	refCache  *cache.ReferenceCache
	log       *zap.Logger
}

func NewBookingService(repo *repository.Repository, feePolicy FeePolicy, refCache *cache.ReferenceCache, log *zap.Logger) BookingService {
	return &bookingService{
		repo:      repo,
		feePolicy: feePolicy,
		refCache:  refCache,
		log:       log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, customerID uuid.UUID, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	propertyID, err := utils.ParseUUID(req.PropertyID)
	if err != nil {
		return nil, apperr.Validation("invalid property_id")
	}
	roomTypeID, err := utils.ParseUUID(req.RoomTypeID)
	if err != nil {
		return nil, apperr.Validation("invalid room_type_id")
	}

	checkIn, err := time.Parse("2006-01-02", req.CheckIn)
	if err != nil {
		return nil, apperr.Validation("invalid check_in date")
	}
	checkOut, err := time.Parse("2006-01-02", req.CheckOut)
	if err != nil {
		return nil, apperr.Validation("invalid check_out date")
	}
	if !checkOut.After(checkIn) {
		return nil, apperr.Validation("check_out must be after check_in")
	}

	property, err := s.repo.Property.FindByID(ctx, propertyID)
	if err != nil {
		return nil, apperr.Internal(err, "find property")
	}
	if property == nil {
		return nil, apperr.NotFound("property not found")
	}

	roomType, err := s.repo.Property.FindRoomTypeByID(ctx, roomTypeID)
	if err != nil {
		return nil, apperr.Internal(err, "find room type")
	}
	if roomType == nil || roomType.PropertyID != property.ID {
		return nil, apperr.NotFound("room type not found for this property")
	}
	if req.RoomsCount > roomType.TotalRooms {
		return nil, apperr.Validation("requested %d rooms, property only has %d", req.RoomsCount, roomType.TotalRooms)
	}

	nights := int64(checkOut.Sub(checkIn).Hours() / 24)
	total := nights * roomType.PricePerNight * int64(req.RoomsCount)

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingCode:   utils.GenerateBookingCode(),
		CustomerID:    customerID,
		PropertyID:    property.ID,
		RoomTypeID:    roomType.ID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		RoomsCount:    req.RoomsCount,
		TotalAmount:   total,
		Status:        entity.BookingStatusPending,
		PaymentStatus: entity.PaymentStateUnpaid,
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, apperr.Internal(err, "create booking")
	}

	s.log.Info("Booking created",
		zap.String("booking_code", booking.BookingCode),
		zap.String("customer_id", customerID.String()),
		zap.Int64("total_amount", total),
	)

	resp := response.BookingToResponse(booking)
	resp.PropertyName = property.Name
	resp.RoomTypeName = roomType.Name
	return &resp, nil
}

func (s *bookingService) GetUserBookings(ctx context.Context, customerID uuid.UUID, page request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	bookings, err := s.repo.Booking.FindByCustomerID(ctx, customerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, apperr.Internal(err, "list bookings")
	}

	total, err := s.repo.Booking.CountByCustomerID(ctx, customerID)
	if err != nil {
		return nil, apperr.Internal(err, "count bookings")
	}

	items := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		items = append(items, response.BookingToResponse(b))
	}

	return response.NewPaginatedResponse(items, page.Page, page.Limit(), total), nil
}

// GetBookingByCode serves the payment status lookup. Customers only see
// their own bookings; admins see any.
func (s *bookingService) GetBookingByCode(ctx context.Context, code string) (*response.BookingResponse, error) {
	booking, err := s.repo.Booking.FindByCode(ctx, code)
	if err != nil {
		return nil, apperr.Internal(err, "find booking")
	}
	if booking == nil {
		return nil, apperr.NotFound("booking %s not found", code)
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	role, _ := utils.GetRoleFromContext(ctx)
	if role != string(entity.RoleAdmin) && booking.CustomerID != userID {
		return nil, apperr.Forbidden("booking belongs to another customer")
	}

	resp := response.BookingToResponse(booking)

	payments, err := s.repo.Payment.FindCompletedByBookingID(ctx, booking.ID)
	if err != nil {
		return nil, apperr.Internal(err, "find booking payments")
	}
	if len(payments) > 0 {
		p := response.PaymentToResponse(payments[len(payments)-1])
		resp.Payment = &p
	}

	return &resp, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, customerID, bookingID uuid.UUID) error {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return apperr.Internal(err, "find booking")
	}
	if booking == nil {
		return apperr.NotFound("booking not found")
	}
	role, _ := utils.GetRoleFromContext(ctx)
	if role != string(entity.RoleAdmin) && booking.CustomerID != customerID {
		return apperr.Forbidden("booking belongs to another customer")
	}
	if !booking.CanCancel() {
		return apperr.Conflict("booking %s cannot be cancelled from status %s", booking.BookingCode, booking.Status)
	}
	if booking.PaymentStatus != entity.PaymentStateUnpaid {
		return apperr.Conflict("paid bookings are cancelled through a refund request")
	}

	if err := s.repo.Booking.UpdateStatus(ctx, bookingID, entity.BookingStatusCancelled); err != nil {
		return apperr.Internal(err, "cancel booking")
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_code", booking.BookingCode),
		zap.String("customer_id", customerID.String()),
	)

	return nil
}

func (s *bookingService) CheckIn(ctx context.Context, hostID, bookingID uuid.UUID) error {
	booking, err := s.hostBooking(ctx, hostID, bookingID)
	if err != nil {
		return err
	}
	if !booking.CanCheckIn() {
		return apperr.Conflict("booking %s cannot check in from %s/%s",
			booking.BookingCode, booking.Status, booking.PaymentStatus)
	}

	ok, err := s.repo.Booking.TransitionStatus(ctx, bookingID,
		entity.BookingStatusConfirmed, entity.BookingStatusCheckedIn)
	if err != nil {
		return apperr.Internal(err, "check in booking")
	}
	if !ok {
		return apperr.Conflict("booking %s changed concurrently", booking.BookingCode)
	}

	s.log.Info("Guest checked in", zap.String("booking_code", booking.BookingCode))
	return nil
}

func (s *bookingService) CheckOut(ctx context.Context, hostID, bookingID uuid.UUID) error {
	booking, err := s.hostBooking(ctx, hostID, bookingID)
	if err != nil {
		return err
	}
	if !booking.CanCheckOut() {
		return apperr.Conflict("booking %s cannot check out from status %s",
			booking.BookingCode, booking.Status)
	}

	ok, err := s.repo.Booking.TransitionStatus(ctx, bookingID,
		entity.BookingStatusCheckedIn, entity.BookingStatusCheckedOut)
	if err != nil {
		return apperr.Internal(err, "check out booking")
	}
	if !ok {
		return apperr.Conflict("booking %s changed concurrently", booking.BookingCode)
	}

	s.log.Info("Guest checked out", zap.String("booking_code", booking.BookingCode))
	return nil
}

// hostBooking loads a booking and verifies the caller hosts its property.
func (s *bookingService) hostBooking(ctx context.Context, hostID, bookingID uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Internal(err, "find booking")
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}

	property, err := s.repo.Property.FindByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, apperr.Internal(err, "find booking property")
	}
	if property == nil {
		return nil, apperr.Internal(nil, "booking %s references missing property", booking.BookingCode)
	}

	role, _ := utils.GetRoleFromContext(ctx)
	if role != string(entity.RoleAdmin) && property.HostID != hostID {
		return nil, apperr.Forbidden("booking belongs to another host's property")
	}

	return booking, nil
}

// GetPaymentQR renders transfer instructions for an unpaid booking:
// the active platform bank account plus a QR-encoded deep link carrying
// the amount and the booking code for the transfer description.
func (s *bookingService) GetPaymentQR(ctx context.Context, customerID, bookingID uuid.UUID) (*response.PaymentQRResponse, error) {
	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, apperr.Internal(err, "find booking")
	}
	if booking == nil {
		return nil, apperr.NotFound("booking not found")
	}
	if booking.CustomerID != customerID {
		return nil, apperr.Forbidden("booking belongs to another customer")
	}
	if booking.PaymentStatus != entity.PaymentStateUnpaid || booking.Status != entity.BookingStatusPending {
		return nil, apperr.Conflict("booking %s is not awaiting payment", booking.BookingCode)
	}

	account, err := s.activeBankAccount(ctx)
	if err != nil {
		return nil, err
	}

	deepLink := fmt.Sprintf("bank://%s/transfer?account=%s&amount=%d&message=%s",
		account.BankCode, account.AccountNo, booking.TotalAmount, booking.BookingCode)

	png, err := qrcode.Encode(deepLink, qrcode.Medium, 256)
	if err != nil {
		return nil, apperr.Internal(err, "encode payment QR")
	}

	return &response.PaymentQRResponse{
		BookingCode: booking.BookingCode,
		BankName:    account.BankName,
		AccountNo:   account.AccountNo,
		AccountName: account.AccountName,
		Amount:      booking.TotalAmount,
		DeepLink:    deepLink,
		QRCodePNG:   base64.StdEncoding.EncodeToString(png),
	}, nil
}

func (s *bookingService) activeBankAccount(ctx context.Context) (*entity.BankAccount, error) {
	var account entity.BankAccount
	if s.refCache.Get(ctx, cache.KeyActiveBankAccount, &account) {
		return &account, nil
	}

	found, err := s.repo.BankAccount.FindActive(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "find active bank account")
	}
	if found == nil {
		return nil, apperr.Internal(nil, "no active platform bank account configured")
	}

	s.refCache.Set(ctx, cache.KeyActiveBankAccount, found)
	return found, nil
}

func (s *bookingService) ConfirmPayment(ctx context.Context, booking *entity.Booking, payment *entity.Payment) error {
	if !booking.CanConfirmPayment() {
		return apperr.Conflict("booking %s is not payable from status %s/%s",
			booking.BookingCode, booking.Status, booking.PaymentStatus)
	}

	// The gate on the expected payment state makes the settlement
	// single-winner under concurrent deliveries.
	ok, err := s.repo.Booking.UpdateStatuses(ctx, booking.ID,
		entity.BookingStatusConfirmed, entity.PaymentStatePaid, entity.PaymentStateUnpaid)
	if err != nil {
		return apperr.Internal(err, "confirm booking")
	}
	if !ok {
		return apperr.Conflict("booking %s was paid concurrently", booking.BookingCode)
	}

	paidAt := time.Now()
	if payment.PaidAt != nil {
		paidAt = *payment.PaidAt
	}
	if err := s.repo.Payment.MarkMatched(ctx, payment.ID, booking.ID, paidAt); err != nil {
		return apperr.Internal(err, "complete payment")
	}

	property, err := s.repo.Property.FindByID(ctx, booking.PropertyID)
	if err != nil {
		return apperr.Internal(err, "find property for earning")
	}
	if property == nil {
		return apperr.Internal(nil, "booking %s references missing property", booking.BookingCode)
	}

	gross := payment.Amount
	fee := s.feePolicy(gross, property.HostID)
	now := time.Now()
	earning := &entity.HostEarning{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HostID:      property.HostID,
		BookingID:   booking.ID,
		PaymentID:   payment.ID,
		GrossAmount: gross,
		PlatformFee: fee,
		NetAmount:   gross - fee,
		Status:      entity.EarningStatusPending,
	}

	if err := s.repo.Earning.Create(ctx, earning); err != nil {
		return apperr.Internal(err, "record host earning")
	}

	s.log.Info("Payment confirmed",
		zap.String("booking_code", booking.BookingCode),
		zap.String("payment_id", payment.ID.String()),
		zap.Int64("gross", gross),
		zap.Int64("fee", fee),
	)

	return nil
}

func (s *bookingService) ApplyRefund(ctx context.Context, ticket *entity.RefundTicket, approvedBy uuid.UUID) error {
	// The row lock serializes concurrent approvals for the same booking,
	// so the refunded total below is never computed from a stale read.
	booking, err := s.repo.Booking.LockByID(ctx, ticket.BookingID)
	if err != nil {
		return apperr.Internal(err, "lock booking for refund")
	}
	if booking == nil {
		return apperr.Internal(nil, "refund ticket %s references missing booking", ticket.ID.String())
	}
	if !booking.CanRefund() {
		return apperr.Conflict("booking %s is not refundable from payment state %s",
			booking.BookingCode, booking.PaymentStatus)
	}

	paidTotal, err := s.repo.Payment.SumCompletedByBookingID(ctx, booking.ID)
	if err != nil {
		return apperr.Internal(err, "sum booking payments")
	}
	refundedBefore, err := s.repo.Refund.SumByBookingID(ctx, booking.ID)
	if err != nil {
		return apperr.Internal(err, "sum prior refunds")
	}
	if ticket.RequestedAmount > paidTotal-refundedBefore {
		return apperr.Conflict("refund of %d exceeds remaining balance %d",
			ticket.RequestedAmount, paidTotal-refundedBefore)
	}

	now := time.Now()
	refund := &entity.Refund{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		TicketID:    ticket.ID,
		BookingID:   booking.ID,
		Amount:      ticket.RequestedAmount,
		ApprovedBy:  approvedBy,
		ProcessedAt: now,
	}
	if err := s.repo.Refund.Create(ctx, refund); err != nil {
		return apperr.Internal(err, "record refund")
	}

	refundedTotal := refundedBefore + refund.Amount
	newPayment := entity.PaymentStatePartiallyRefunded
	newStatus := booking.Status
	if refundedTotal >= paidTotal {
		// A full refund also releases the rooms.
		newPayment = entity.PaymentStateRefunded
		newStatus = entity.BookingStatusCancelled
	}

	ok, err := s.repo.Booking.UpdateStatuses(ctx, booking.ID, newStatus, newPayment, booking.PaymentStatus)
	if err != nil {
		return apperr.Internal(err, "update booking after refund")
	}
	if !ok {
		return apperr.Conflict("booking %s changed concurrently during refund", booking.BookingCode)
	}

	if err := s.reduceEarning(ctx, booking, refund.Amount); err != nil {
		return err
	}

	s.log.Info("Refund applied",
		zap.String("booking_code", booking.BookingCode),
		zap.String("ticket_id", ticket.ID.String()),
		zap.Int64("amount", refund.Amount),
		zap.String("payment_state", string(newPayment)),
	)

	return nil
}

// reduceEarning trims the host's net by the refunded amount minus the
// platform fee share carried by that slice of the gross. Settled
// earnings stay untouched; the shortfall is a platform receivable.
func (s *bookingService) reduceEarning(ctx context.Context, booking *entity.Booking, refundAmount int64) error {
	earning, err := s.repo.Earning.FindByBookingID(ctx, booking.ID)
	if err != nil {
		return apperr.Internal(err, "find earning for refund")
	}
	if earning == nil {
		return nil
	}
	if earning.Status == entity.EarningStatusPaid || earning.Status == entity.EarningStatusRejected {
		s.log.Warn("Refund against settled earning, net left unchanged",
			zap.String("booking_code", booking.BookingCode),
			zap.String("earning_status", string(earning.Status)),
		)
		return nil
	}

	feeShare := int64(0)
	if earning.GrossAmount > 0 {
		feeShare = earning.PlatformFee * refundAmount / earning.GrossAmount
	}
	reduction := refundAmount - feeShare

	newNet := earning.NetAmount - reduction
	if newNet < 0 {
		newNet = 0
	}

	if err := s.repo.Earning.UpdateNet(ctx, earning.ID, newNet); err != nil {
		return apperr.Internal(err, "reduce earning net")
	}

	return nil
}
