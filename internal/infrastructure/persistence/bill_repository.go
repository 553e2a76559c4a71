package persistence

import (
	"context"
	"fmt"

	"github.com/aishop/storefront/internal/domain/gallery"
	"github.com/aishop/storefront/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBillRepository implements BillRepository using GORM
type GormBillRepository struct {
	db *gorm.DB
}

// NewGormBillRepository creates a new GormBillRepository
func NewGormBillRepository(db *gorm.DB) *GormBillRepository {
	return &GormBillRepository{db: db}
}

// FindAll returns bills oldest first
func (r *GormBillRepository) FindAll(ctx context.Context) ([]gallery.Bill, error) {
	var rows []models.BillModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}

	bills := make([]gallery.Bill, len(rows))
	for i := range rows {
		bills[i] = *rows[i].ToDomain()
	}
	return bills, nil
}

// Create inserts a new bill
func (r *GormBillRepository) Create(ctx context.Context, bill *gallery.Bill) error {
	if err := r.db.WithContext(ctx).Create(models.BillModelFromDomain(bill)).Error; err != nil {
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// Delete deletes a bill by ID
func (r *GormBillRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BillModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete bill %s: %w", id, err)
	}
	return nil
}

// Ensure GormBillRepository implements BillRepository
var _ gallery.BillRepository = (*GormBillRepository)(nil)
