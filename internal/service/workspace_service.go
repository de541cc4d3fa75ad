package service

import (
	"context"
	"fmt"
	"time"

	"invoicegen/internal/dto"
	"invoicegen/internal/invoice"
	"invoicegen/internal/numbering"
)

// WorkspaceService backs the form's lifecycle: the draft shown on load, the
// "new invoice" action and the saved biller profile. State is per account.
type WorkspaceService interface {
	Draft(ctx context.Context, accountID string) (*dto.WorkspaceResponse, error)
	NewInvoice(ctx context.Context, accountID string) (*dto.WorkspaceResponse, error)
	GetBiller(ctx context.Context, accountID string) (invoice.Company, error)
	SaveBiller(ctx context.Context, accountID string, c invoice.Company) (bool, error)
}

type workspaceService struct {
	store    numbering.Store
	prefix   string
	currency string
	now      func() time.Time
}

func NewWorkspaceService(store numbering.Store, prefix, currency string) WorkspaceService {
	return &workspaceService{store: store, prefix: prefix, currency: currency, now: time.Now}
}

func (s *workspaceService) policy(accountID string) *numbering.Policy {
	return numbering.NewPolicy(numbering.Scoped(s.store, accountID), s.prefix)
}

// Draft shows the current counter without consuming it.
func (s *workspaceService) Draft(ctx context.Context, accountID string) (*dto.WorkspaceResponse, error) {
	return s.start(ctx, accountID, (*numbering.Policy).Current)
}

// NewInvoice consumes the next number and resets the form, keeping the biller.
func (s *workspaceService) NewInvoice(ctx context.Context, accountID string) (*dto.WorkspaceResponse, error) {
	return s.start(ctx, accountID, (*numbering.Policy).Advance)
}

func (s *workspaceService) start(
	ctx context.Context,
	accountID string,
	number func(*numbering.Policy, context.Context, int) (string, int, error),
) (*dto.WorkspaceResponse, error) {
	p := s.policy(accountID)
	today := s.now()

	display, counter, err := number(p, ctx, today.Year())
	if err != nil {
		return nil, fmt.Errorf("workspace: number: %w", err)
	}
	biller, err := p.LoadBiller(ctx)
	if err != nil {
		return nil, fmt.Errorf("workspace: biller: %w", err)
	}

	inv := invoice.Blank(s.currency).
		WithNumber(display).
		WithDate(today.Format("2006-01-02")).
		WithYourCompany(biller)
	return &dto.WorkspaceResponse{Counter: counter, Invoice: dto.FromInvoice(inv)}, nil
}

func (s *workspaceService) GetBiller(ctx context.Context, accountID string) (invoice.Company, error) {
	c, err := s.policy(accountID).LoadBiller(ctx)
	if err != nil {
		return invoice.Company{}, fmt.Errorf("workspace: biller: %w", err)
	}
	return c, nil
}

func (s *workspaceService) SaveBiller(ctx context.Context, accountID string, c invoice.Company) (bool, error) {
	saved, err := s.policy(accountID).SaveBiller(ctx, c)
	if err != nil {
		return false, fmt.Errorf("workspace: save biller: %w", err)
	}
	return saved, nil
}
