package usecase

import (
	"context"
	"time"

	"homestay-booking/internal/data/entity"
	"homestay-booking/internal/data/repository"
	"homestay-booking/internal/dto/request"
	"homestay-booking/internal/dto/response"
	"homestay-booking/pkg/apperr"
	"homestay-booking/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Internal(err, "check existing email")
	}
	if existing != nil {
		return nil, apperr.Conflict("email %s is already registered", req.Email)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, apperr.Internal(err, "hash password")
	}

	role := entity.RoleCustomer
	if req.Role == string(entity.RoleHost) {
		role = entity.RoleHost
	}

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		return nil, apperr.Internal(err, "create user")
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return response.AuthToResponse(user, nil), nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperr.Internal(err, "find user by email")
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("invalid email or password")
	}
	if !user.IsActive {
		return nil, apperr.Forbidden("account is deactivated")
	}

	now := time.Now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        utils.GenerateUUID(),
			CreatedAt: now,
		},
		UserID:    user.ID,
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: now.Add(time.Duration(s.config.Session.ExpiryHours) * time.Hour),
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, apperr.Internal(err, "create session")
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))

	return response.AuthToResponse(user, session), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		return apperr.Internal(err, "revoke session")
	}
	return nil
}
