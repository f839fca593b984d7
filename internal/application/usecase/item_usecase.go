package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockfifo-api/internal/application/dto"
	"github.com/jhoicas/stockfifo-api/internal/domain"
	"github.com/jhoicas/stockfifo-api/internal/domain/entity"
	"github.com/jhoicas/stockfifo-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para productos del catálogo.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// Create crea un producto. El barcode, si viene, debe ser único (índice en DB).
func (uc *ItemUseCase) Create(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if in.Barcode != "" {
		existing, err := uc.repo.GetByBarcode(ctx, in.Barcode)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	item := &entity.Item{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Brand:     in.Brand,
		Category:  in.Category,
		ColorCode: in.ColorCode,
		Barcode:   in.Barcode,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un producto por ID. Nil si no existe.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// GetByBarcode busca un producto por código de barras (lectura desde escáner).
func (uc *ItemUseCase) GetByBarcode(ctx context.Context, barcode string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// Update actualiza un producto.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Brand != nil {
		item.Brand = *in.Brand
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.ColorCode != nil {
		item.ColorCode = *in.ColorCode
	}
	if in.Barcode != nil {
		item.Barcode = *in.Barcode
	}
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// List lista productos con paginación.
func (uc *ItemUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	items, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: out,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toItemResponse(i *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:        i.ID,
		Name:      i.Name,
		Brand:     i.Brand,
		Category:  i.Category,
		ColorCode: i.ColorCode,
		Barcode:   i.Barcode,
		CreatedAt: i.CreatedAt,
		UpdatedAt: i.UpdatedAt,
	}
}
