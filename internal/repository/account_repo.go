package repository

import (
	"context"
	"errors"
	"strings"

	"invoicegen/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrDuplicateEmail is returned by Create when the email is already taken.
	ErrDuplicateEmail = errors.New("repository: email already registered")
	ErrNotFound       = errors.New("repository: not found")
)

type AccountRepository interface {
	Create(ctx context.Context, a *model.Account) error
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
}

type accountRepo struct{ db *gorm.DB }

func NewAccountRepository(db *gorm.DB) AccountRepository { return &accountRepo{db: db} }

func (r *accountRepo) Create(ctx context.Context, a *model.Account) error {
	a.Email = normalizeEmail(a.Email)
	err := r.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *accountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *accountRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	var a model.Account
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
