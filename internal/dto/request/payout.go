package request

type CreatePayoutRequest struct {
	HostID      string `json:"host_id" validate:"required,uuid"`
	PeriodStart string `json:"period_start" validate:"required,datetime=2006-01-02"`
	PeriodEnd   string `json:"period_end" validate:"required,datetime=2006-01-02"`
}

type CompletePayoutRequest struct {
	TransactionRef string `json:"transaction_ref" validate:"required,max=100"`
}
