package usecase

import (
	"context"
	"time"

	"homestay-booking/internal/data/entity"
	"homestay-booking/internal/data/repository"
	"homestay-booking/internal/dto/request"
	"homestay-booking/pkg/cache"
	"homestay-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type testEnv struct {
	repo    *repository.Repository
	booking BookingService
	webhook WebhookService
	refund  RefundService
	earning EarningService
	payout  PayoutService

	hostID     uuid.UUID
	customerID uuid.UUID
	adminID    uuid.UUID
	propertyID uuid.UUID
	roomTypeID uuid.UUID
}

func newTestEnv() *testEnv {
	repo := newTestRepository()
	log := zap.NewNop()
	refCache := cache.NewReferenceCache(nil, time.Minute, log)

	booking := NewBookingService(repo, PercentFeePolicy(10), refCache, log)

	env := &testEnv{
		repo:    repo,
		booking: booking,
		webhook: NewWebhookService(repo, booking, log),
		refund:  NewRefundService(repo, booking, log),
		earning: NewEarningService(repo, log),
		payout:  NewPayoutService(repo, log),

		hostID:     uuid.New(),
		customerID: uuid.New(),
		adminID:    uuid.New(),
		propertyID: uuid.New(),
		roomTypeID: uuid.New(),
	}

	env.seedWorld()
	return env
}

func (e *testEnv) seedWorld() {
	ctx := context.Background()
	now := time.Now()

	bankCode := "BCA"
	accountNo := "1234567890"
	accountName := "Host Payee"
	e.repo.User.Create(ctx, &entity.User{
		Base:            entity.Base{ID: e.hostID, CreatedAt: now, UpdatedAt: now},
		Name:            "Host",
		Email:           "host@example.com",
		Role:            entity.RoleHost,
		IsActive:        true,
		BankCode:        &bankCode,
		BankAccountNo:   &accountNo,
		BankAccountName: &accountName,
	})
	e.repo.User.Create(ctx, &entity.User{
		Base:     entity.Base{ID: e.customerID, CreatedAt: now, UpdatedAt: now},
		Name:     "Customer",
		Email:    "customer@example.com",
		Role:     entity.RoleCustomer,
		IsActive: true,
	})

	props := e.repo.Property.(*fakePropertyRepo)
	props.properties[e.propertyID] = &entity.Property{
		Base:   entity.Base{ID: e.propertyID, CreatedAt: now, UpdatedAt: now},
		HostID: e.hostID,
		Name:   "Bougenville Homestay",
		City:   "Yogyakarta",
	}
	props.roomTypes[e.roomTypeID] = &entity.RoomType{
		Base:          entity.Base{ID: e.roomTypeID, CreatedAt: now, UpdatedAt: now},
		PropertyID:    e.propertyID,
		Name:          "Deluxe",
		PricePerNight: 500_000,
		TotalRooms:    4,
	}

	e.repo.BankAccount.Replace(ctx, &entity.BankAccount{
		Base:        entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BankCode:    "BCA",
		BankName:    "Bank Central Asia",
		AccountNo:   "8881234567",
		AccountName: "PT Homestay Platform",
		IsActive:    true,
	})
}

// seedBooking inserts a booking ready to receive payment.
func (e *testEnv) seedBooking(code string, amount int64) *entity.Booking {
	now := time.Now()
	booking := &entity.Booking{
		Base:          entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
		BookingCode:   code,
		CustomerID:    e.customerID,
		PropertyID:    e.propertyID,
		RoomTypeID:    e.roomTypeID,
		CheckIn:       now.AddDate(0, 0, 7),
		CheckOut:      now.AddDate(0, 0, 9),
		RoomsCount:    1,
		TotalAmount:   amount,
		Status:        entity.BookingStatusPending,
		PaymentStatus: entity.PaymentStateUnpaid,
	}
	e.repo.Booking.Create(context.Background(), booking)
	return booking
}

// payBooking runs a matching transfer through the webhook path.
func (e *testEnv) payBooking(booking *entity.Booking, ref string) {
	e.webhook.Ingest(context.Background(), transferEvent(ref, booking.TotalAmount, "payment for "+booking.BookingCode))
}

func transferEvent(ref string, amount int64, description string) *request.BankTransferEvent {
	return &request.BankTransferEvent{
		Reference:   ref,
		Amount:      amount,
		Description: description,
		Timestamp:   time.Now().Format(time.RFC3339),
	}
}

// ctxWithUser builds a request context the way the auth middleware does.
func ctxWithUser(userID uuid.UUID, role entity.UserRole) context.Context {
	return utils.SetUserContext(context.Background(), userID, string(role))
}
