package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	cacheport "zapcrm/internal/infrastructure/cache/port"
	crm "zapcrm/internal/pkg/crm/application/domain"
	repository "zapcrm/internal/pkg/crm/persistence/repository/port"
	"zapcrm/pkg/apperrors"
)

// productCacheTTL is short on purpose: the catalog is read on nearly every AI
// turn but must pick up price edits within a minute.
const productCacheTTL = time.Minute

type ListProductsInput struct {
	CompanyID  int64 `json:"company_id"`
	ActiveOnly bool  `json:"active_only"`
}

// ListProductsUseCase serves the catalog, fronted by the cache when one is
// wired. Cache failures fall through to the database.
type ListProductsUseCase struct {
	Repo  repository.CrmRepository
	Cache cacheport.Cache
}

func NewListProductsUseCase(repo repository.CrmRepository, cache cacheport.Cache) *ListProductsUseCase {
	return &ListProductsUseCase{Repo: repo, Cache: cache}
}

func (uc *ListProductsUseCase) Execute(ctx context.Context, in ListProductsInput) ([]crm.Product, error) {
	if in.CompanyID <= 0 {
		return nil, apperrors.InvalidArg("company_id is required")
	}

	key := fmt.Sprintf("crm:products:%d:%t", in.CompanyID, in.ActiveOnly)
	if uc.Cache != nil {
		if raw, err := uc.Cache.Get(ctx, key); err == nil {
			var cached []crm.Product
			if json.Unmarshal([]byte(raw), &cached) == nil {
				return cached, nil
			}
		}
	}

	out, err := uc.Repo.ListProducts(ctx, in.CompanyID, in.ActiveOnly)
	if err != nil {
		return nil, apperrors.Internal("product listing failed", err)
	}
	if out == nil {
		out = []crm.Product{}
	}

	if uc.Cache != nil {
		if raw, err := json.Marshal(out); err == nil {
			_ = uc.Cache.Set(ctx, key, string(raw), productCacheTTL)
		}
	}
	return out, nil
}
