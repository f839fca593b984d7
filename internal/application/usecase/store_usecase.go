package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockfifo-api/internal/application/dto"
	"github.com/jhoicas/stockfifo-api/internal/domain"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

// StoreUseCase casos de uso CRUD para tiendas. Las cantidades nunca se tocan
// aquí: el catálogo es referencia de solo lectura para el ledger.
type StoreUseCase struct {
	repo repository.StoreRepository
}

// NewStoreUseCase construye el caso de uso.
func NewStoreUseCase(repo repository.StoreRepository) *StoreUseCase {
	return &StoreUseCase{repo: repo}
}

// Create crea una nueva tienda.
func (uc *StoreUseCase) Create(ctx context.Context, in dto.CreateStoreRequest) (*dto.StoreResponse, error) {
	if !entity.ValidCapability(in.Capability) {
		return nil, fmt.Errorf("%w: capacidad %q desconocida", domain.ErrInvalidInput, in.Capability)
	}
	now := time.Now()
	store := &entity.Store{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Location:   in.Location,
		Capability: in.Capability,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// GetByID obtiene una tienda por ID. Nil si no existe.
func (uc *StoreUseCase) GetByID(ctx context.Context, id string) (*dto.StoreResponse, error) {
	store, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, nil
	}
	return toStoreResponse(store), nil
}

// Update actualiza una tienda.
func (uc *StoreUseCase) Update(ctx context.Context, id string, in dto.UpdateStoreRequest) (*dto.StoreResponse, error) {
	store, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, nil
	}
	if in.Name != nil {
		store.Name = *in.Name
	}
	if in.Location != nil {
		store.Location = *in.Location
	}
	if in.Capability != nil {
		if !entity.ValidCapability(*in.Capability) {
			return nil, fmt.Errorf("%w: capacidad %q desconocida", domain.ErrInvalidInput, *in.Capability)
		}
		store.Capability = *in.Capability
	}
	store.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, store); err != nil {
		return nil, err
	}
	return toStoreResponse(store), nil
}

// List lista tiendas con paginación.
func (uc *StoreUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.StoreListResponse, error) {
	page.DefaultPage()
	stores, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StoreResponse, 0, len(stores))
	for _, s := range stores {
		items = append(items, *toStoreResponse(s))
	}
	return &dto.StoreListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toStoreResponse(s *entity.Store) *dto.StoreResponse {
	return &dto.StoreResponse{
		ID:         s.ID,
		Name:       s.Name,
		Location:   s.Location,
		Capability: s.Capability,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
}
