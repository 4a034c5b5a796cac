package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"homestay-booking/internal/data/entity"
	"homestay-booking/internal/data/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation mimics the postgres duplicate-key error the real
// repositories surface, so database.IsUniqueViolation matches it.
func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// fakeDB satisfies database.PgxIface for services built on fakes. Only
// WithinTx is reachable; the fakes mutate state directly, so a
// transaction is just the function call.
type fakeDB struct{}

func (fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not reachable from fakes")
}
func (fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not reachable from fakes")
}
func (fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	panic("not reachable from fakes")
}
func (fakeDB) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (fakeDB) Ping(ctx context.Context) error { return nil }
func (fakeDB) Close()                         {}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*entity.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

type fakeSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[uuid.UUID]*entity.Session{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *session
	f.sessions[session.Token] = &cp
	return nil
}

func (f *fakeSessionRepo) FindValidSession(ctx context.Context, token string) (*entity.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil, nil
	}
	s, ok := f.sessions[parsed]
	if !ok || s.RevokedAt != nil || !s.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionRepo) Revoke(ctx context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	parsed, err := uuid.Parse(token)
	if err != nil {
		return nil
	}
	if s, ok := f.sessions[parsed]; ok {
		now := time.Now()
		s.RevokedAt = &now
	}
	return nil
}

type fakePropertyRepo struct {
	mu         sync.Mutex
	properties map[uuid.UUID]*entity.Property
	roomTypes  map[uuid.UUID]*entity.RoomType
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{
		properties: map[uuid.UUID]*entity.Property{},
		roomTypes:  map[uuid.UUID]*entity.RoomType{},
	}
}

func (f *fakePropertyRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.properties[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePropertyRepo) FindByHostID(ctx context.Context, hostID uuid.UUID) ([]*entity.Property, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Property
	for _, p := range f.properties {
		if p.HostID == hostID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakePropertyRepo) FindRoomTypeByID(ctx context.Context, id uuid.UUID) (*entity.RoomType, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rt, ok := f.roomTypes[id]; ok {
		cp := *rt
		return &cp, nil
	}
	return nil, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*entity.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{bookings: map[uuid.UUID]*entity.Booking{}}
}

func (f *fakeBookingRepo) Create(ctx context.Context, booking *entity.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *booking
	f.bookings[booking.ID] = &cp
	return nil
}

func (f *fakeBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

// LockByID has no lock to take here; WithinTx runs callers one at a time.
func (f *fakeBookingRepo) LockByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	return f.FindByID(ctx, id)
}

func (f *fakeBookingRepo) FindByCode(ctx context.Context, code string) (*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.BookingCode == code {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeBookingRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Booking
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginateSlice(out, limit, offset), nil
}

func (f *fakeBookingRepo) CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, b := range f.bookings {
		if b.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeBookingRepo) UpdateStatuses(ctx context.Context, id uuid.UUID, status entity.BookingStatus, paymentStatus entity.PaymentState, expectedPayment entity.PaymentState) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.PaymentStatus != expectedPayment {
		return false, nil
	}
	b.Status = status
	b.PaymentStatus = paymentStatus
	b.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeBookingRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.BookingStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return true, nil
}

func (f *fakeBookingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.bookings[id]; ok {
		b.Status = status
		b.UpdatedAt = time.Now()
	}
	return nil
}

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]*entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: map[uuid.UUID]*entity.Payment{}}
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ExternalRef == payment.ExternalRef {
			return uniqueViolation("payments_external_ref_key")
		}
	}
	cp := *payment
	f.payments[payment.ID] = &cp
	return nil
}

func (f *fakePaymentRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindByExternalRef(ctx context.Context, ref string) (*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.payments {
		if p.ExternalRef == ref {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakePaymentRepo) FindCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Payment
	for _, p := range f.payments {
		if p.BookingID != nil && *p.BookingID == bookingID && p.Status == entity.PaymentStatusCompleted {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakePaymentRepo) SumCompletedByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, p := range f.payments {
		if p.BookingID != nil && *p.BookingID == bookingID && p.Status == entity.PaymentStatusCompleted {
			sum += p.Amount
		}
	}
	return sum, nil
}

func (f *fakePaymentRepo) MarkMatched(ctx context.Context, id, bookingID uuid.UUID, paidAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[id]
	if !ok || p.Status != entity.PaymentStatusPending {
		return fmt.Errorf("payment %s not pending", id.String())
	}
	p.BookingID = &bookingID
	p.Status = entity.PaymentStatusCompleted
	p.PaidAt = &paidAt
	return nil
}

func (f *fakePaymentRepo) AttachBooking(ctx context.Context, id, bookingID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[id]; ok && p.Status == entity.PaymentStatusPending {
		p.BookingID = &bookingID
	}
	return nil
}

func (f *fakePaymentRepo) FindUnmatched(ctx context.Context, limit, offset int) ([]*entity.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Payment
	for _, p := range f.payments {
		if p.BookingID == nil && p.Status == entity.PaymentStatusPending {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return paginateSlice(out, limit, offset), nil
}

func (f *fakePaymentRepo) CountUnmatched(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.payments {
		if p.BookingID == nil && p.Status == entity.PaymentStatusPending {
			n++
		}
	}
	return n, nil
}

type fakeRefundTicketRepo struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*entity.RefundTicket
}

func newFakeRefundTicketRepo() *fakeRefundTicketRepo {
	return &fakeRefundTicketRepo{tickets: map[uuid.UUID]*entity.RefundTicket{}}
}

func (f *fakeRefundTicketRepo) Create(ctx context.Context, ticket *entity.RefundTicket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *ticket
	f.tickets[ticket.ID] = &cp
	return nil
}

func (f *fakeRefundTicketRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.RefundTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tickets[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeRefundTicketRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.RefundTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.RefundTicket
	for _, t := range f.tickets {
		if t.BookingID == bookingID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRefundTicketRepo) TransitionFromPending(ctx context.Context, id uuid.UUID, to entity.RefundTicketStatus, processedBy *uuid.UUID, processedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tickets[id]
	if !ok || t.Status != entity.RefundTicketStatusPending {
		return false, nil
	}
	t.Status = to
	t.ProcessedBy = processedBy
	t.ProcessedAt = &processedAt
	return true, nil
}

func (f *fakeRefundTicketRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*entity.RefundTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.RefundTicket
	for _, t := range f.tickets {
		if t.CustomerID == customerID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return paginateSlice(out, limit, offset), nil
}

func (f *fakeRefundTicketRepo) CountByCustomerID(ctx context.Context, customerID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, t := range f.tickets {
		if t.CustomerID == customerID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRefundTicketRepo) FindByHostID(ctx context.Context, hostID uuid.UUID, limit, offset int) ([]*entity.RefundTicket, error) {
	return nil, nil
}

func (f *fakeRefundTicketRepo) CountByHostID(ctx context.Context, hostID uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeRefundTicketRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.RefundTicket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.RefundTicket
	for _, t := range f.tickets {
		cp := *t
		out = append(out, &cp)
	}
	return paginateSlice(out, limit, offset), nil
}

func (f *fakeRefundTicketRepo) CountAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.tickets)), nil
}

func (f *fakeRefundTicketRepo) Statistics(ctx context.Context) (*repository.RefundTicketStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &repository.RefundTicketStatistics{}
	for _, t := range f.tickets {
		stats.TotalTickets++
		switch t.Status {
		case entity.RefundTicketStatusPending:
			stats.PendingTickets++
		case entity.RefundTicketStatusApproved:
			stats.ApprovedTickets++
		case entity.RefundTicketStatusRejected:
			stats.RejectedTickets++
		}
	}
	return stats, nil
}

type fakeRefundRepo struct {
	mu      sync.Mutex
	refunds map[uuid.UUID]*entity.Refund
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{refunds: map[uuid.UUID]*entity.Refund{}}
}

func (f *fakeRefundRepo) Create(ctx context.Context, refund *entity.Refund) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.refunds {
		if r.TicketID == refund.TicketID {
			return uniqueViolation("refunds_ticket_id_key")
		}
	}
	cp := *refund
	f.refunds[refund.ID] = &cp
	return nil
}

func (f *fakeRefundRepo) FindByTicketID(ctx context.Context, ticketID uuid.UUID) (*entity.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.refunds {
		if r.TicketID == ticketID {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRefundRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Refund, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.Refund
	for _, r := range f.refunds {
		if r.BookingID == bookingID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRefundRepo) SumByBookingID(ctx context.Context, bookingID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, r := range f.refunds {
		if r.BookingID == bookingID {
			sum += r.Amount
		}
	}
	return sum, nil
}

func (f *fakeRefundRepo) SumAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum int64
	for _, r := range f.refunds {
		sum += r.Amount
	}
	return sum, nil
}

type fakeEarningRepo struct {
	mu       sync.Mutex
	earnings map[uuid.UUID]*entity.HostEarning
}

func newFakeEarningRepo() *fakeEarningRepo {
	return &fakeEarningRepo{earnings: map[uuid.UUID]*entity.HostEarning{}}
}

func (f *fakeEarningRepo) Create(ctx context.Context, earning *entity.HostEarning) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *earning
	f.earnings[earning.ID] = &cp
	return nil
}

func (f *fakeEarningRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.HostEarning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.earnings[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (f *fakeEarningRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*entity.HostEarning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.earnings {
		if e.BookingID == bookingID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeEarningRepo) FindByPayoutID(ctx context.Context, payoutID uuid.UUID) ([]*entity.HostEarning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.HostEarning
	for _, e := range f.earnings {
		if e.PayoutID != nil && *e.PayoutID == payoutID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEarningRepo) UpdateNet(ctx context.Context, id uuid.UUID, netAmount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.earnings[id]; ok {
		e.NetAmount = netAmount
	}
	return nil
}

func (f *fakeEarningRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.EarningStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.earnings[id]
	if !ok || e.Status != from {
		return false, nil
	}
	e.Status = to
	return true, nil
}

func (f *fakeEarningRepo) ClaimForPayout(ctx context.Context, payoutID, hostID uuid.UUID, periodStart, periodEnd time.Time) ([]*entity.HostEarning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.HostEarning
	for _, e := range f.earnings {
		if e.HostID == hostID && e.Status == entity.EarningStatusApproved && e.PayoutID == nil &&
			!e.CreatedAt.Before(periodStart) && e.CreatedAt.Before(periodEnd) {
			pid := payoutID
			e.PayoutID = &pid
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeEarningRepo) ReleaseByPayout(ctx context.Context, payoutID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.earnings {
		if e.PayoutID != nil && *e.PayoutID == payoutID && e.Status == entity.EarningStatusApproved {
			e.PayoutID = nil
		}
	}
	return nil
}

func (f *fakeEarningRepo) MarkPaidByPayout(ctx context.Context, payoutID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.earnings {
		if e.PayoutID != nil && *e.PayoutID == payoutID && e.Status == entity.EarningStatusApproved {
			e.Status = entity.EarningStatusPaid
		}
	}
	return nil
}

func (f *fakeEarningRepo) FindByHostID(ctx context.Context, hostID uuid.UUID, limit, offset int) ([]*entity.HostEarning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.HostEarning
	for _, e := range f.earnings {
		if e.HostID == hostID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return paginateSlice(out, limit, offset), nil
}

func (f *fakeEarningRepo) CountByHostID(ctx context.Context, hostID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.earnings {
		if e.HostID == hostID {
			n++
		}
	}
	return n, nil
}

func (f *fakeEarningRepo) FindByStatus(ctx context.Context, status entity.EarningStatus, limit, offset int) ([]*entity.HostEarning, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.HostEarning
	for _, e := range f.earnings {
		if e.Status == status {
			cp := *e
			out = append(out, &cp)
		}
	}
	return paginateSlice(out, limit, offset), nil
}

func (f *fakeEarningRepo) CountByStatus(ctx context.Context, status entity.EarningStatus) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, e := range f.earnings {
		if e.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeEarningRepo) SummaryByHostID(ctx context.Context, hostID uuid.UUID) (*repository.EarningSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	summary := &repository.EarningSummary{}
	for _, e := range f.earnings {
		if e.HostID != hostID {
			continue
		}
		switch e.Status {
		case entity.EarningStatusPending:
			summary.PendingAmount += e.NetAmount
		case entity.EarningStatusApproved:
			summary.ApprovedAmount += e.NetAmount
		case entity.EarningStatusPaid:
			summary.PaidAmount += e.NetAmount
		}
		if e.Status != entity.EarningStatusRejected {
			summary.TotalEarnings += e.NetAmount
		}
	}
	return summary, nil
}

type fakePayoutRepo struct {
	mu      sync.Mutex
	payouts map[uuid.UUID]*entity.HostPayout
}

func newFakePayoutRepo() *fakePayoutRepo {
	return &fakePayoutRepo{payouts: map[uuid.UUID]*entity.HostPayout{}}
}

func (f *fakePayoutRepo) Create(ctx context.Context, payout *entity.HostPayout) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *payout
	f.payouts[payout.ID] = &cp
	return nil
}

func (f *fakePayoutRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.HostPayout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payouts[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (f *fakePayoutRepo) TransitionStatus(ctx context.Context, id uuid.UUID, from, to entity.PayoutStatus, processedBy uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payouts[id]
	if !ok || p.Status != from {
		return false, nil
	}
	p.Status = to
	p.ProcessedBy = &processedBy
	return true, nil
}

func (f *fakePayoutRepo) Complete(ctx context.Context, id uuid.UUID, transactionRef string, processedBy uuid.UUID, completedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payouts[id]
	if !ok || p.Status != entity.PayoutStatusProcessing {
		return false, nil
	}
	p.Status = entity.PayoutStatusCompleted
	p.TransactionRef = &transactionRef
	p.ProcessedBy = &processedBy
	p.CompletedAt = &completedAt
	return true, nil
}

func (f *fakePayoutRepo) UpdateTotal(ctx context.Context, id uuid.UUID, totalAmount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payouts[id]; ok && p.Status == entity.PayoutStatusPending {
		p.TotalAmount = totalAmount
	}
	return nil
}

func (f *fakePayoutRepo) FindByHostID(ctx context.Context, hostID uuid.UUID, limit, offset int) ([]*entity.HostPayout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.HostPayout
	for _, p := range f.payouts {
		if p.HostID == hostID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return paginateSlice(out, limit, offset), nil
}

func (f *fakePayoutRepo) CountByHostID(ctx context.Context, hostID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, p := range f.payouts {
		if p.HostID == hostID {
			n++
		}
	}
	return n, nil
}

func (f *fakePayoutRepo) FindAll(ctx context.Context, limit, offset int) ([]*entity.HostPayout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.HostPayout
	for _, p := range f.payouts {
		cp := *p
		out = append(out, &cp)
	}
	return paginateSlice(out, limit, offset), nil
}

func (f *fakePayoutRepo) CountAll(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.payouts)), nil
}

func (f *fakePayoutRepo) Statistics(ctx context.Context) (*repository.PayoutStatistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &repository.PayoutStatistics{}
	for _, p := range f.payouts {
		stats.TotalPayouts++
		switch p.Status {
		case entity.PayoutStatusPending:
			stats.PendingPayouts++
		case entity.PayoutStatusCompleted:
			stats.CompletedPayouts++
			stats.TotalPaidOut += p.TotalAmount
		case entity.PayoutStatusCancelled:
			stats.CancelledPayouts++
		}
	}
	return stats, nil
}

type fakeBankAccountRepo struct {
	mu      sync.Mutex
	account *entity.BankAccount
}

func newFakeBankAccountRepo() *fakeBankAccountRepo {
	return &fakeBankAccountRepo{}
}

func (f *fakeBankAccountRepo) FindActive(ctx context.Context) (*entity.BankAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.account == nil {
		return nil, nil
	}
	cp := *f.account
	return &cp, nil
}

func (f *fakeBankAccountRepo) Replace(ctx context.Context, account *entity.BankAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *account
	f.account = &cp
	return nil
}

func paginateSlice[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// newTestRepository assembles a Repository backed entirely by fakes.
func newTestRepository() *repository.Repository {
	return &repository.Repository{
		DB:           fakeDB{},
		User:         newFakeUserRepo(),
		Session:      newFakeSessionRepo(),
		Property:     newFakePropertyRepo(),
		Booking:      newFakeBookingRepo(),
		Payment:      newFakePaymentRepo(),
		RefundTicket: newFakeRefundTicketRepo(),
		Refund:       newFakeRefundRepo(),
		Earning:      newFakeEarningRepo(),
		Payout:       newFakePayoutRepo(),
		BankAccount:  newFakeBankAccountRepo(),
	}
}
