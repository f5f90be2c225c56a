package usecase

import (
	"context"
	"strings"

	crm "zapcrm/internal/pkg/crm/application/domain"
	repository "zapcrm/internal/pkg/crm/persistence/repository/port"
	"zapcrm/pkg/apperrors"
	"zapcrm/pkg/phone"
)

type SearchClientsInput struct {
	CompanyID int64  `json:"company_id"`
	Query     string `json:"query"`
	Limit     int    `json:"limit"`
}

// SearchClientsUseCase matches clients by phone fragment or name substring.
type SearchClientsUseCase struct {
	Repo repository.CrmRepository
}

func NewSearchClientsUseCase(repo repository.CrmRepository) *SearchClientsUseCase {
	return &SearchClientsUseCase{Repo: repo}
}

func (uc *SearchClientsUseCase) Execute(ctx context.Context, in SearchClientsInput) ([]crm.Client, error) {
	if in.CompanyID <= 0 {
		return nil, apperrors.InvalidArg("company_id is required")
	}
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, apperrors.InvalidArg("query is required")
	}
	// phone-looking queries are matched on digits so "+55 11..." finds "5511..."
	if digits := phone.Digits(query); digits != "" && len(digits) >= len(query)/2 {
		query = digits
	}

	out, err := uc.Repo.SearchClients(ctx, in.CompanyID, query, in.Limit)
	if err != nil {
		return nil, apperrors.Internal("client search failed", err)
	}
	if out == nil {
		out = []crm.Client{}
	}
	return out, nil
}

type CreateClientInput struct {
	CompanyID int64   `json:"company_id"`
	Phone     string  `json:"phone"`
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Notes     *string `json:"notes"`
}

// CreateClientUseCase creates or refreshes a client keyed by company+phone.
type CreateClientUseCase struct {
	Repo repository.CrmRepository
}

func NewCreateClientUseCase(repo repository.CrmRepository) *CreateClientUseCase {
	return &CreateClientUseCase{Repo: repo}
}

func (uc *CreateClientUseCase) Execute(ctx context.Context, in CreateClientInput) (*crm.Client, error) {
	if in.CompanyID <= 0 {
		return nil, apperrors.InvalidArg("company_id is required")
	}
	digits := phone.Digits(in.Phone)
	if !phone.Valid(digits) {
		return nil, apperrors.InvalidArg("phone is invalid")
	}

	out, err := uc.Repo.UpsertClient(ctx, crm.Client{
		CompanyID: in.CompanyID,
		Phone:     digits,
		Name:      in.Name,
		Email:     in.Email,
		Notes:     in.Notes,
	})
	if err != nil {
		return nil, apperrors.Internal("client upsert failed", err)
	}
	return out, nil
}
