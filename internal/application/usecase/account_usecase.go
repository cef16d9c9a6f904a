package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// AccountUseCase casos de uso CRUD para cuentas por pagar y por cobrar.
type AccountUseCase struct {
	repo repository.AccountRepository
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(repo repository.AccountRepository) *AccountUseCase {
	return &AccountUseCase{repo: repo}
}

// Create registra una cuenta por pagar o por cobrar.
func (uc *AccountUseCase) Create(ctx context.Context, companyID string, in dto.CreateAccountRequest) (*dto.AccountResponse, error) {
	if in.Kind != entity.AccountKindPayable && in.Kind != entity.AccountKindReceivable {
		return nil, domain.ErrInvalidInput
	}
	if in.Description == "" || in.Amount.IsNegative() || in.DueDate.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	account := &entity.Account{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Kind:        in.Kind,
		Description: in.Description,
		Counterpart: in.Counterpart,
		Amount:      in.Amount,
		DueDate:     in.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// GetByID obtiene una cuenta de la empresa.
func (uc *AccountUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.AccountResponse, error) {
	account, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// List lista cuentas de la empresa; kind vacío lista ambas.
func (uc *AccountUseCase) List(ctx context.Context, companyID, kind string, limit, offset int) (*dto.AccountListResponse, error) {
	if kind != "" && kind != entity.AccountKindPayable && kind != entity.AccountKindReceivable {
		return nil, domain.ErrInvalidInput
	}
	list, err := uc.repo.ListByCompany(ctx, companyID, kind, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		items = append(items, *toAccountResponse(a))
	}
	return &dto.AccountListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update actualiza campos de la cuenta, incluido el flag de pago.
func (uc *AccountUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateAccountRequest) (*dto.AccountResponse, error) {
	account, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	if in.Description != nil {
		account.Description = *in.Description
	}
	if in.Counterpart != nil {
		account.Counterpart = *in.Counterpart
	}
	if in.Amount != nil {
		if in.Amount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		account.Amount = *in.Amount
	}
	if in.DueDate != nil {
		account.DueDate = *in.DueDate
	}
	if in.Paid != nil {
		account.Paid = *in.Paid
	}
	account.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, account); err != nil {
		return nil, err
	}
	return toAccountResponse(account), nil
}

// Delete elimina una cuenta de la empresa.
func (uc *AccountUseCase) Delete(ctx context.Context, companyID, id string) error {
	account, err := uc.getOwned(ctx, companyID, id)
	if err != nil {
		return err
	}
	return uc.repo.Delete(ctx, account.ID)
}

func (uc *AccountUseCase) getOwned(ctx context.Context, companyID, id string) (*entity.Account, error) {
	account, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil || account.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return account, nil
}

func toAccountResponse(a *entity.Account) *dto.AccountResponse {
	return &dto.AccountResponse{
		ID:          a.ID,
		CompanyID:   a.CompanyID,
		Kind:        a.Kind,
		Description: a.Description,
		Counterpart: a.Counterpart,
		Amount:      a.Amount,
		DueDate:     a.DueDate,
		Paid:        a.Paid,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
