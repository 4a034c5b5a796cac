package request

type CreateRefundTicketRequest struct {
	BookingID string `json:"booking_id" validate:"required,uuid"`
	Amount    int64  `json:"amount" validate:"required,gt=0"`
	Reason    string `json:"reason" validate:"required,min=5,max=500"`
}

type ProcessRefundTicketRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}
