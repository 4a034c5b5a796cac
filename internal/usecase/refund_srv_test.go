package usecase

import (
	"context"
	"testing"
	"time"

	"homestay-booking/internal/data/entity"
	"homestay-booking/internal/dto/request"
	"homestay-booking/pkg/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) openTicket(t *testing.T, booking *entity.Booking, amount int64) *entity.RefundTicket {
	t.Helper()
	resp, err := e.refund.CreateTicket(context.Background(), e.customerID, &request.CreateRefundTicketRequest{
		BookingID: booking.ID.String(),
		Amount:    amount,
		Reason:    "plans changed, cannot travel",
	})
	require.NoError(t, err)

	ticketID, err := uuid.Parse(resp.ID)
	require.NoError(t, err)
	ticket, err := e.repo.RefundTicket.FindByID(context.Background(), ticketID)
	require.NoError(t, err)
	return ticket
}

func TestCreateTicketRequiresPaidBooking(t *testing.T) {
	env := newTestEnv()
	booking := env.seedBooking("BK-20260301-110000-0001", 1_000_000)

	_, err := env.refund.CreateTicket(context.Background(), env.customerID, &request.CreateRefundTicketRequest{
		BookingID: booking.ID.String(),
		Amount:    500_000,
		Reason:    "changed my mind",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCreateTicketRejectsOverBalance(t *testing.T) {
	env := newTestEnv()
	booking := env.seedBooking("BK-20260301-110000-0002", 1_000_000)
	env.payBooking(booking, "TRX-RF-1")

	_, err := env.refund.CreateTicket(context.Background(), env.customerID, &request.CreateRefundTicketRequest{
		BookingID: booking.ID.String(),
		Amount:    1_500_000,
		Reason:    "refund everything and more",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestCreateTicketRejectsSecondPending(t *testing.T) {
	env := newTestEnv()
	booking := env.seedBooking("BK-20260301-110000-0003", 1_000_000)
	env.payBooking(booking, "TRX-RF-2")
	env.openTicket(t, booking, 300_000)

	_, err := env.refund.CreateTicket(context.Background(), env.customerID, &request.CreateRefundTicketRequest{
		BookingID: booking.ID.String(),
		Amount:    200_000,
		Reason:    "second thoughts about the first request",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestProcessTicketApprovePartial(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	booking := env.seedBooking("BK-20260301-110000-0004", 1_000_000)
	env.payBooking(booking, "TRX-RF-3")
	ticket := env.openTicket(t, booking, 400_000)

	resp, err := env.refund.ProcessTicket(ctx, env.adminID, ticket.ID, &request.ProcessRefundTicketRequest{Decision: "approved"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RefundTicketStatusApproved), resp.Status)

	updated, err := env.repo.Booking.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatePartiallyRefunded, updated.PaymentStatus)
	assert.Equal(t, entity.BookingStatusConfirmed, updated.Status)

	// Earning net drops by the refund minus its fee share:
	// 400k - 10% = 360k off a 900k net.
	earning, err := env.repo.Earning.FindByBookingID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(540_000), earning.NetAmount)

	refund, err := env.repo.Refund.FindByTicketID(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, refund)
	assert.Equal(t, int64(400_000), refund.Amount)
}

func TestProcessTicketApproveFullCancelsBooking(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	booking := env.seedBooking("BK-20260301-110000-0005", 1_000_000)
	env.payBooking(booking, "TRX-RF-4")
	ticket := env.openTicket(t, booking, 1_000_000)

	_, err := env.refund.ProcessTicket(ctx, env.adminID, ticket.ID, &request.ProcessRefundTicketRequest{Decision: "approved"})
	require.NoError(t, err)

	updated, err := env.repo.Booking.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStateRefunded, updated.PaymentStatus)
	assert.Equal(t, entity.BookingStatusCancelled, updated.Status)

	earning, err := env.repo.Earning.FindByBookingID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), earning.NetAmount)
}

func TestProcessTicketIsOneShot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	booking := env.seedBooking("BK-20260301-110000-0006", 1_000_000)
	env.payBooking(booking, "TRX-RF-5")
	ticket := env.openTicket(t, booking, 400_000)

	_, err := env.refund.ProcessTicket(ctx, env.adminID, ticket.ID, &request.ProcessRefundTicketRequest{Decision: "approved"})
	require.NoError(t, err)

	_, err = env.refund.ProcessTicket(ctx, env.adminID, ticket.ID, &request.ProcessRefundTicketRequest{Decision: "approved"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// Exactly one refund row exists.
	total, err := env.repo.Refund.SumByBookingID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(400_000), total)
}

func TestProcessTicketReject(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	booking := env.seedBooking("BK-20260301-110000-0007", 1_000_000)
	env.payBooking(booking, "TRX-RF-6")
	ticket := env.openTicket(t, booking, 400_000)

	resp, err := env.refund.ProcessTicket(ctx, env.adminID, ticket.ID, &request.ProcessRefundTicketRequest{Decision: "rejected"})
	require.NoError(t, err)
	assert.Equal(t, string(entity.RefundTicketStatusRejected), resp.Status)

	// Nothing was refunded and the booking is untouched.
	refund, err := env.repo.Refund.FindByTicketID(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Nil(t, refund)

	updated, err := env.repo.Booking.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatePaid, updated.PaymentStatus)
}

func TestCancelTicketOnlyWhilePending(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	booking := env.seedBooking("BK-20260301-110000-0008", 1_000_000)
	env.payBooking(booking, "TRX-RF-7")
	ticket := env.openTicket(t, booking, 400_000)

	t.Run("other customer forbidden", func(t *testing.T) {
		err := env.refund.CancelTicket(ctx, env.hostID, ticket.ID)
		require.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("owner cancels", func(t *testing.T) {
		require.NoError(t, env.refund.CancelTicket(ctx, env.customerID, ticket.ID))
	})

	t.Run("second cancel conflicts", func(t *testing.T) {
		err := env.refund.CancelTicket(ctx, env.customerID, ticket.ID)
		require.Error(t, err)
		assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	})
}

func TestSequentialRefundsExhaustBalance(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	booking := env.seedBooking("BK-20260301-110000-0009", 1_000_000)
	env.payBooking(booking, "TRX-RF-8")

	first := env.openTicket(t, booking, 600_000)
	_, err := env.refund.ProcessTicket(ctx, env.adminID, first.ID, &request.ProcessRefundTicketRequest{Decision: "approved"})
	require.NoError(t, err)

	// Remaining balance is 400k; asking for 500k fails.
	_, err = env.refund.CreateTicket(ctx, env.customerID, &request.CreateRefundTicketRequest{
		BookingID: booking.ID.String(),
		Amount:    500_000,
		Reason:    "want the rest back and then some",
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	second := env.openTicket(t, booking, 400_000)
	_, err = env.refund.ProcessTicket(ctx, env.adminID, second.ID, &request.ProcessRefundTicketRequest{Decision: "approved"})
	require.NoError(t, err)

	updated, err := env.repo.Booking.FindByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStateRefunded, updated.PaymentStatus)
}

// Two pending tickets can exist if creations raced before the booking
// row lock decided an order. Approvals still serialize on that lock, so
// the second one recomputes the balance and must not over-refund.
func TestCompetingApprovalsCannotOverRefund(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	booking := env.seedBooking("BK-20260301-110000-0010", 1_000_000)
	env.payBooking(booking, "TRX-RF-9")

	first := env.openTicket(t, booking, 300_000)
	_, err := env.refund.ProcessTicket(ctx, env.adminID, first.ID, &request.ProcessRefundTicketRequest{Decision: "approved"})
	require.NoError(t, err)

	// Plant two pending tickets directly, as racing creations would have.
	tickets := make([]*entity.RefundTicket, 2)
	for i := range tickets {
		now := time.Now()
		tickets[i] = &entity.RefundTicket{
			Base:            entity.Base{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
			BookingID:       booking.ID,
			CustomerID:      env.customerID,
			RequestedAmount: 400_000,
			Reason:          "duplicate request from a retry",
			Status:          entity.RefundTicketStatusPending,
		}
		require.NoError(t, env.repo.RefundTicket.Create(ctx, tickets[i]))
	}

	_, err = env.refund.ProcessTicket(ctx, env.adminID, tickets[0].ID, &request.ProcessRefundTicketRequest{Decision: "approved"})
	require.NoError(t, err)

	// 700k of 1M refunded; the second 400k approval exceeds the balance.
	_, err = env.refund.ProcessTicket(ctx, env.adminID, tickets[1].ID, &request.ProcessRefundTicketRequest{Decision: "approved"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	refunded, err := env.repo.Refund.SumByBookingID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(700_000), refunded)
}

func TestGetTicketScoping(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	booking := env.seedBooking("BK-20260301-110000-0011", 1_000_000)
	env.payBooking(booking, "TRX-RF-10")
	ticket := env.openTicket(t, booking, 250_000)

	t.Run("owner reads own ticket", func(t *testing.T) {
		resp, err := env.refund.GetTicket(ctx, env.customerID, ticket.ID)
		require.NoError(t, err)
		assert.Equal(t, ticket.ID.String(), resp.ID)
		assert.Nil(t, resp.Refund)
	})

	t.Run("stranger is forbidden", func(t *testing.T) {
		_, err := env.refund.GetTicket(ctx, uuid.New(), ticket.ID)
		require.Error(t, err)
		assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
	})

	t.Run("admin reads any ticket", func(t *testing.T) {
		adminCtx := ctxWithUser(env.adminID, entity.RoleAdmin)
		_, err := env.refund.GetTicket(adminCtx, env.adminID, ticket.ID)
		require.NoError(t, err)
	})

	t.Run("approved ticket carries the refund", func(t *testing.T) {
		_, err := env.refund.ProcessTicket(ctx, env.adminID, ticket.ID, &request.ProcessRefundTicketRequest{Decision: "approved"})
		require.NoError(t, err)

		resp, err := env.refund.GetTicket(ctx, env.customerID, ticket.ID)
		require.NoError(t, err)
		require.NotNil(t, resp.Refund)
		assert.Equal(t, int64(250_000), resp.Refund.Amount)
	})

	t.Run("unknown ticket is not found", func(t *testing.T) {
		_, err := env.refund.GetTicket(ctx, env.customerID, uuid.New())
		require.Error(t, err)
		assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	})
}
