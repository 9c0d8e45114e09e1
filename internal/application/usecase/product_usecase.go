package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/application/dto"
	"github.com/jhoicas/Facturacion-api/internal/application/stock"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// ProductUseCase gestiona el catálogo de productos y su historial de stock.
// El stock solo cambia por el alta, las reposiciones (Restock) y el motor de
// reservas; Update no lo toca.
type ProductUseCase struct {
	productRepo  repository.ProductRepository
	movementRepo repository.StockMovementRepository
	txRunner     stock.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	productRepo repository.ProductRepository,
	movementRepo repository.StockMovementRepository,
	txRunner stock.TxRunner,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo:  productRepo,
		movementRepo: movementRepo,
		txRunner:     txRunner,
	}
}

// Create da de alta un producto con su stock inicial.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.Quantity < 0 {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		Name:      in.Name,
		Quantity:  in.Quantity,
		Price:     in.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return productToResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) ([]*dto.ProductResponse, error) {
	page.DefaultPage()
	products, err := uc.productRepo.List(page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productToResponse(p))
	}
	return out, nil
}

// Update modifica nombre y precio. La cantidad no se toca por esta vía.
func (uc *ProductUseCase) Update(ctx context.Context, id int64, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	product.Name = in.Name
	product.Price = in.Price
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return productToResponse(product), nil
}

// Delete elimina un producto del catálogo.
func (uc *ProductUseCase) Delete(ctx context.Context, id int64) error {
	return uc.productRepo.Delete(id)
}

// Restock suma stock y registra el movimiento "restock" en una transacción,
// con la fila bloqueada igual que hace el motor de reservas.
func (uc *ProductUseCase) Restock(ctx context.Context, id int64, quantity int64) error {
	if quantity <= 0 {
		return domain.ErrInvalidInput
	}
	now := time.Now()
	return uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.StockMovementRepository,
	) error {
		product, err := productRepo.GetByIDForUpdate(id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := productRepo.IncrementQuantity(id, quantity); err != nil {
			return err
		}
		movement := &entity.StockMovement{
			ProductID: id,
			Type:      entity.MovementTypeRestock,
			Quantity:  quantity,
			Date:      now,
		}
		return movementRepo.Create(movement)
	})
}

// ListMovements lista el historial de stock de un producto (fecha descendente).
func (uc *ProductUseCase) ListMovements(ctx context.Context, productID int64, page dto.PageRequest) ([]*dto.StockMovementResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	page.DefaultPage()
	movements, err := uc.movementRepo.ListByProduct(productID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, &dto.StockMovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			Date:      m.Date.Format("2006-01-02 15:04:05"),
			CreatedAt: m.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

func productToResponse(p *entity.Product) *dto.ProductResponse {
	resp := &dto.ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Quantity: p.Quantity,
		Price:    p.Price,
	}
	if !p.CreatedAt.IsZero() {
		resp.CreatedAt = p.CreatedAt.Format(time.RFC3339)
	}
	if !p.UpdatedAt.IsZero() {
		resp.UpdatedAt = p.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}
