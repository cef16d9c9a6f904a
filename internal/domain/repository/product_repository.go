package repository

import "github.com/jhoicas/Gestion-api/internal/domain/entity"

// ProductRepository define el puerto de persistencia para Product (DIP).
// Stock NO se actualiza por aquí: eso es exclusivo de StockRepository.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByCompanyAndCode(companyID, code string) (*entity.Product, error)
	Update(product *entity.Product) error
	Deactivate(id string) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error)
	// ListActiveAtOrBelowStock lista productos activos con stock <= threshold
	// (para el disparador de alertas de stock bajo).
	ListActiveAtOrBelowStock(companyID string, threshold int64) ([]*entity.Product, error)
	Delete(id string) error
}
