package request

// BankTransferEvent is the payload the bank posts on every incoming
// transfer. Reference is the bank's transaction id and our idempotency
// key; Amount is in currency minor units.
type BankTransferEvent struct {
	Reference   string `json:"reference" validate:"required,max=100"`
	Amount      int64  `json:"amount" validate:"required,gt=0"`
	Description string `json:"description" validate:"required,max=500"`
	Timestamp   string `json:"timestamp" validate:"required"`
}
