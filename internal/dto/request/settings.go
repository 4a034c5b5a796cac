package request

type UpdateBankAccountRequest struct {
	BankCode    string `json:"bank_code" validate:"required,max=20"`
	BankName    string `json:"bank_name" validate:"required,max=100"`
	AccountNo   string `json:"account_no" validate:"required,max=50"`
	AccountName string `json:"account_name" validate:"required,max=100"`
}
