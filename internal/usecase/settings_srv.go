package usecase

import (
	"context"
	"time"

	"homestay-booking/internal/data/entity"
	"homestay-booking/internal/data/repository"
	"homestay-booking/internal/dto/request"
	"homestay-booking/pkg/apperr"
	"homestay-booking/pkg/cache"
	"homestay-booking/pkg/utils"

	"go.uber.org/zap"
)

type SettingsService interface {
	GetBankAccount(ctx context.Context) (*entity.BankAccount, error)
	UpdateBankAccount(ctx context.Context, req *request.UpdateBankAccountRequest) (*entity.BankAccount, error)
}

type settingsService struct {
	repo     *repository.Repository
	refCache *cache.ReferenceCache
	log      *zap.Logger
}

func NewSettingsService(repo *repository.Repository, refCache *cache.ReferenceCache, log *zap.Logger) SettingsService {
	return &settingsService{
		repo:     repo,
		refCache: refCache,
		log:      log.With(zap.String("service", "settings")),
	}
}

func (s *settingsService) GetBankAccount(ctx context.Context) (*entity.BankAccount, error) {
	var cached entity.BankAccount
	if s.refCache.Get(ctx, cache.KeyActiveBankAccount, &cached) {
		return &cached, nil
	}

	account, err := s.repo.BankAccount.FindActive(ctx)
	if err != nil {
		return nil, apperr.Internal(err, "find active bank account")
	}
	if account == nil {
		return nil, apperr.NotFound("no active bank account configured")
	}

	s.refCache.Set(ctx, cache.KeyActiveBankAccount, account)
	return account, nil
}

func (s *settingsService) UpdateBankAccount(ctx context.Context, req *request.UpdateBankAccountRequest) (*entity.BankAccount, error) {
	now := time.Now()
	account := &entity.BankAccount{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BankCode:    req.BankCode,
		BankName:    req.BankName,
		AccountNo:   req.AccountNo,
		AccountName: req.AccountName,
		IsActive:    true,
	}

	if err := s.repo.BankAccount.Replace(ctx, account); err != nil {
		return nil, apperr.Internal(err, "replace bank account")
	}

	s.refCache.Invalidate(ctx, cache.KeyActiveBankAccount)

	s.log.Info("Platform bank account replaced",
		zap.String("bank_code", account.BankCode),
		zap.String("account_no", account.AccountNo),
	)

	return account, nil
}
