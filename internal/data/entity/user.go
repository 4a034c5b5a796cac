package entity

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleHost     UserRole = "host"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	Base
	Name         string   `db:"name"`
	Email        string   `db:"email"`
	PasswordHash string   `db:"password"`
	Phone        *string  `db:"phone"`
	Role         UserRole `db:"role"`
	IsActive     bool     `db:"is_active"`

	// Payout destination, only meaningful for hosts.
	BankCode        *string `db:"bank_code"`
	BankAccountNo   *string `db:"bank_account_no"`
	BankAccountName *string `db:"bank_account_name"`
}
