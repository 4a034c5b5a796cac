package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

type PaymentState string

const (
	PaymentStateUnpaid            PaymentState = "unpaid"
	PaymentStatePaid              PaymentState = "paid"
	PaymentStatePartiallyRefunded PaymentState = "partially_refunded"
	PaymentStateRefunded          PaymentState = "refunded"
)

// Booking amounts are stored in currency minor units.
type Booking struct {
	Base
	BookingCode   string        `db:"booking_code"`
	CustomerID    uuid.UUID     `db:"customer_id"`
	PropertyID    uuid.UUID     `db:"property_id"`
	RoomTypeID    uuid.UUID     `db:"room_type_id"`
	CheckIn       time.Time     `db:"check_in"`
	CheckOut      time.Time     `db:"check_out"`
	RoomsCount    int           `db:"rooms_count"`
	TotalAmount   int64         `db:"total_amount"`
	Status        BookingStatus `db:"status"`
	PaymentStatus PaymentState  `db:"payment_status"`
}

// CanConfirmPayment reports whether a payment confirmation is legal
// from the booking's current state.
func (b *Booking) CanConfirmPayment() bool {
	inState := b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
	return inState && b.PaymentStatus == PaymentStateUnpaid
}

// CanRefund reports whether a refund may still be applied.
func (b *Booking) CanRefund() bool {
	return b.PaymentStatus == PaymentStatePaid || b.PaymentStatus == PaymentStatePartiallyRefunded
}

// CanCancel reports whether the booking may still be cancelled.
func (b *Booking) CanCancel() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// CanCheckIn reports whether the guest may be checked in. A partial
// refund leaves the stay itself valid.
func (b *Booking) CanCheckIn() bool {
	paid := b.PaymentStatus == PaymentStatePaid || b.PaymentStatus == PaymentStatePartiallyRefunded
	return b.Status == BookingStatusConfirmed && paid
}

// CanCheckOut reports whether the guest may be checked out.
func (b *Booking) CanCheckOut() bool {
	return b.Status == BookingStatusCheckedIn
}
