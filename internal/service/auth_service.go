package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"invoicegen/internal/config"
	"invoicegen/internal/dto"
	"invoicegen/internal/middleware"
	"invoicegen/internal/model"
	"invoicegen/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountExists      = errors.New("an account with this email already exists")
	ErrInvalidToken       = errors.New("refresh token invalid or expired")
)

const bcryptCost = 12

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.AccountResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error)
}

type authService struct {
	repo repository.AccountRepository
	cfg  *config.Config
}

func NewAuthService(repo repository.AccountRepository, cfg *config.Config) AuthService {
	return &authService{repo: repo, cfg: cfg}
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	acc, err := s.repo.FindByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("auth: find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(acc)
}

func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.AccountResponse, error) {
	_, err := s.repo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, ErrAccountExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("auth: find account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	acc := &model.Account{
		Email:        req.Email,
		PasswordHash: string(hash),
		CompanyName:  req.CompanyName,
	}
	if err := s.repo.Create(ctx, acc); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("auth: create account: %w", err)
	}
	resp := accountResponse(acc)
	return &resp, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.LoginResponse, error) {
	claims := &middleware.JWTClaims{}
	token, err := jwt.ParseWithClaims(refreshToken, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid || claims.TokenType != middleware.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	acc, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidToken
	}
	if err != nil {
		return nil, fmt.Errorf("auth: find account: %w", err)
	}
	return s.issue(acc)
}

func (s *authService) issue(acc *model.Account) (*dto.LoginResponse, error) {
	access, err := s.generateToken(acc, middleware.TokenTypeAccess, time.Duration(s.cfg.JWTExpirationHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	refresh, err := s.generateToken(acc, middleware.TokenTypeRefresh, time.Duration(s.cfg.JWTRefreshHours)*time.Hour)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresIn:    s.cfg.JWTExpirationHours * 3600,
		Account:      accountResponse(acc),
	}, nil
}

func (s *authService) generateToken(acc *model.Account, typ string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := middleware.JWTClaims{
		UserID:      acc.ID.String(),
		Email:       acc.Email,
		CompanyName: acc.CompanyName,
		TokenType:   typ,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

func accountResponse(acc *model.Account) dto.AccountResponse {
	return dto.AccountResponse{ID: acc.ID.String(), Email: acc.Email, CompanyName: acc.CompanyName}
}
