package usecase

import (
	"context"
	"fmt"
	"testing"

	"homestay-booking/internal/data/entity"
	"homestay-booking/internal/dto/request"
	"homestay-booking/pkg/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEarningApproveIsOneShot(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	booking := env.seedBooking("BK-20260301-130000-0001", 1_000_000)
	env.payBooking(booking, "TRX-EA-1")

	earning, err := env.repo.Earning.FindByBookingID(ctx, booking.ID)
	require.NoError(t, err)
	require.NotNil(t, earning)

	resp, err := env.earning.Approve(ctx, earning.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.EarningStatusApproved), resp.Status)

	_, err = env.earning.Approve(ctx, earning.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = env.earning.Reject(ctx, earning.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestEarningRejectKeepsItOutOfSummaryTotal(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	kept := env.seedBooking("BK-20260301-130000-0002", 1_000_000)
	env.payBooking(kept, "TRX-EA-2")
	dropped := env.seedBooking("BK-20260301-130000-0003", 2_000_000)
	env.payBooking(dropped, "TRX-EA-3")

	droppedEarning, err := env.repo.Earning.FindByBookingID(ctx, dropped.ID)
	require.NoError(t, err)
	_, err = env.earning.Reject(ctx, droppedEarning.ID)
	require.NoError(t, err)

	summary, err := env.earning.GetHostSummary(ctx, env.hostID)
	require.NoError(t, err)
	assert.Equal(t, int64(900_000), summary.PendingAmount)
	assert.Equal(t, int64(900_000), summary.TotalEarnings)
}

func TestEarningListsByStatus(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	booking := env.seedBooking("BK-20260301-130000-0004", 1_000_000)
	env.payBooking(booking, "TRX-EA-4")

	page := request.PaginatedRequest{Page: 1, PerPage: 10}

	pending, err := env.earning.GetByStatus(ctx, "pending", page)
	require.NoError(t, err)
	assert.Len(t, pending.Data, 1)

	approved, err := env.earning.GetByStatus(ctx, "approved", page)
	require.NoError(t, err)
	assert.Empty(t, approved.Data)

	_, err = env.earning.GetByStatus(ctx, "imaginary", page)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestHostEarningsPagination(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		code := fmt.Sprintf("BK-20260301-130000-100%d", i)
		booking := env.seedBooking(code, 1_000_000)
		env.payBooking(booking, fmt.Sprintf("TRX-EA-P%d", i))
	}

	page, err := env.earning.GetHostEarnings(ctx, env.hostID, request.PaginatedRequest{Page: 1, PerPage: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}
