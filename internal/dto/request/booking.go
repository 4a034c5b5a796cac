package request

type CreateBookingRequest struct {
	PropertyID string `json:"property_id" validate:"required,uuid"`
	RoomTypeID string `json:"room_type_id" validate:"required,uuid"`
	CheckIn    string `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut   string `json:"check_out" validate:"required,datetime=2006-01-02"`
	RoomsCount int    `json:"rooms_count" validate:"required,min=1,max=10"`
}

// ManualMatchRequest ties a still-pending payment to a booking by hand
// when the transfer description carried no usable code.
type ManualMatchRequest struct {
	PaymentID   string `json:"payment_id" validate:"required,uuid"`
	BookingCode string `json:"booking_code" validate:"required"`
}
