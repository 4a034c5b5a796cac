package response

import (
	"time"

	"homestay-booking/internal/data/entity"
)

type BookingResponse struct {
	ID            string           `json:"id"`
	BookingCode   string           `json:"booking_code"`
	CustomerID    string           `json:"customer_id"`
	PropertyName  string           `json:"property_name,omitempty"`
	RoomTypeName  string           `json:"room_type_name,omitempty"`
	CheckIn       string           `json:"check_in"`
	CheckOut      string           `json:"check_out"`
	RoomsCount    int              `json:"rooms_count"`
	TotalAmount   int64            `json:"total_amount"`
	Status        string           `json:"status"`
	PaymentStatus string           `json:"payment_status"`
	Payment       *PaymentResponse `json:"payment,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:            b.ID.String(),
		BookingCode:   b.BookingCode,
		CustomerID:    b.CustomerID.String(),
		CheckIn:       b.CheckIn.Format("2006-01-02"),
		CheckOut:      b.CheckOut.Format("2006-01-02"),
		RoomsCount:    b.RoomsCount,
		TotalAmount:   b.TotalAmount,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		CreatedAt:     b.CreatedAt,
	}
}

// PaymentQRResponse carries the transfer deep link plus its QR rendering
// for customer display.
type PaymentQRResponse struct {
	BookingCode string `json:"booking_code"`
	BankName    string `json:"bank_name"`
	AccountNo   string `json:"account_no"`
	AccountName string `json:"account_name"`
	Amount      int64  `json:"amount"`
	DeepLink    string `json:"deep_link"`
	QRCodePNG   string `json:"qr_code_png"` // base64
}
