package entity

// BankAccount is the platform's receiving account, shown to customers in
// the payment QR deep link. Immutable reference data from the ledger's
// point of view; only admins edit it.
type BankAccount struct {
	Base
	BankCode    string `db:"bank_code"`
	BankName    string `db:"bank_name"`
	AccountNo   string `db:"account_no"`
	AccountName string `db:"account_name"`
	IsActive    bool   `db:"is_active"`
}
