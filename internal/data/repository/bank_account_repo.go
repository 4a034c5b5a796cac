package repository

import (
	"context"
	"fmt"

	"homestay-booking/internal/data/entity"
	"homestay-booking/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BankAccountRepository interface {
	FindActive(ctx context.Context) (*entity.BankAccount, error)
	// Replace deactivates the current account and inserts the new one.
	Replace(ctx context.Context, account *entity.BankAccount) error
}

type bankAccountRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBankAccountRepository(db database.PgxIface, log *zap.Logger) BankAccountRepository {
	return &bankAccountRepository{
		db:  db,
		log: log.With(zap.String("repository", "bank_account")),
	}
}

func (r *bankAccountRepository) FindActive(ctx context.Context) (*entity.BankAccount, error) {
	query := `
		SELECT id, bank_code, bank_name, account_no, account_name, is_active, created_at, updated_at
		FROM bank_accounts
		WHERE is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1
	`

	var account entity.BankAccount
	err := r.db.QueryRow(ctx, query).Scan(
		&account.ID,
		&account.BankCode,
		&account.BankName,
		&account.AccountNo,
		&account.AccountName,
		&account.IsActive,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find active bank account", zap.Error(err))
		return nil, fmt.Errorf("find active bank account: %w", err)
	}

	return &account, nil
}

func (r *bankAccountRepository) Replace(ctx context.Context, account *entity.BankAccount) error {
	deactivate := `UPDATE bank_accounts SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE`
	if _, err := r.db.Exec(ctx, deactivate); err != nil {
		r.log.Error("Failed to deactivate bank accounts", zap.Error(err))
		return fmt.Errorf("deactivate bank accounts: %w", err)
	}

	insert := `
		INSERT INTO bank_accounts (id, bank_code, bank_name, account_no, account_name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, insert,
		account.ID,
		account.BankCode,
		account.BankName,
		account.AccountNo,
		account.AccountName,
		account.IsActive,
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to insert bank account", zap.Error(err))
		return fmt.Errorf("insert bank account: %w", err)
	}

	return nil
}
