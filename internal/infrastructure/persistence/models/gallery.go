package models

import (
	"time"

	"github.com/aishop/storefront/internal/domain/gallery"
)

// BillModel is the persistence model for the Bill domain entity.
type BillModel struct {
	ID          string    `gorm:"type:varchar(64);primaryKey"`
	ImageURL    string    `gorm:"type:text;not null"`
	Description *string   `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false;index:idx_bills_created_at"`
}

// TableName returns the table name for GORM
func (BillModel) TableName() string {
	return "bills"
}

// ToDomain converts the persistence model to a domain Bill entity.
func (m *BillModel) ToDomain() *gallery.Bill {
	b := &gallery.Bill{
		ID:        m.ID,
		ImageURL:  m.ImageURL,
		CreatedAt: m.CreatedAt.UTC(),
	}
	if m.Description != nil {
		b.Description = *m.Description
	}
	return b
}

// BillModelFromDomain creates a new persistence model from a domain Bill entity.
func BillModelFromDomain(b *gallery.Bill) *BillModel {
	return &BillModel{
		ID:          b.ID,
		ImageURL:    b.ImageURL,
		Description: nullableString(b.Description),
		CreatedAt:   b.CreatedAt,
	}
}
