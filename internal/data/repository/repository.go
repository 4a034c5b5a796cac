package repository

import (
	"context"

	"homestay-booking/pkg/database"

	"go.uber.org/zap"
)

// Repository groups the per-aggregate stores. Cross-aggregate writes go
// through Atomic so they commit as one unit.
type Repository struct {
	DB database.PgxIface

	User         UserRepository
	Session      SessionRepository
	Property     PropertyRepository
	Booking      BookingRepository
	Payment      PaymentRepository
	RefundTicket RefundTicketRepository
	Refund       RefundRepository
	Earning      EarningRepository
	Payout       PayoutRepository
	BankAccount  BankAccountRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		DB:           db,
		User:         NewUserRepository(db, log),
		Session:      NewSessionRepository(db, log),
		Property:     NewPropertyRepository(db, log),
		Booking:      NewBookingRepository(db, log),
		Payment:      NewPaymentRepository(db, log),
		RefundTicket: NewRefundTicketRepository(db, log),
		Refund:       NewRefundRepository(db, log),
		Earning:      NewEarningRepository(db, log),
		Payout:       NewPayoutRepository(db, log),
		BankAccount:  NewBankAccountRepository(db, log),
	}
}

// Atomic runs fn inside a single database transaction. Repository calls
// made with the derived context join that transaction.
func (r *Repository) Atomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.DB.WithinTx(ctx, fn)
}
