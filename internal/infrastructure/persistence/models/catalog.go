package models

import (
	"time"

	"github.com/aishop/storefront/internal/domain/catalog"
)

// ProductModel is the persistence model for the Product domain entity.
// Timestamps are owned by the domain, so GORM's auto time tracking is off.
type ProductModel struct {
	ID           string                        `gorm:"type:varchar(64);primaryKey"`
	Name         string                        `gorm:"type:varchar(255);not null"`
	Description  string                        `gorm:"type:text;not null"`
	PricingTiers JSONList[catalog.PricingTier] `gorm:"type:text;not null"`
	Currency     string                        `gorm:"type:varchar(8);not null;default:'VND'"`
	Icon         string                        `gorm:"type:varchar(32);not null;default:'Brain'"`
	ImageURL     *string                       `gorm:"type:text"`
	Features     JSONList[string]              `gorm:"type:text;not null"`
	Tag          *string                       `gorm:"type:varchar(50)"`
	ContactLink  string                        `gorm:"type:text;not null"`
	SortOrder    int                           `gorm:"not null;default:0;index:idx_products_sort_order_created_at,priority:1"`
	CreatedAt    time.Time                     `gorm:"not null;autoCreateTime:false;index:idx_products_sort_order_created_at,priority:2"`
	UpdatedAt    time.Time                     `gorm:"not null;autoUpdateTime:false"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	p := &catalog.Product{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		PricingTiers: []catalog.PricingTier(m.PricingTiers),
		Currency:     catalog.Currency(m.Currency),
		Icon:         catalog.Icon(m.Icon),
		Features:     []string(m.Features),
		ContactLink:  m.ContactLink,
		SortOrder:    m.SortOrder,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
	if m.ImageURL != nil {
		p.ImageURL = *m.ImageURL
	}
	if m.Tag != nil {
		p.Tag = catalog.Tag(*m.Tag)
	}
	if p.PricingTiers == nil {
		p.PricingTiers = []catalog.PricingTier{}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	return p
}

// FromDomain populates the persistence model from a domain Product entity.
// Empty optional fields are stored as NULL.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.ID = p.ID
	m.Name = p.Name
	m.Description = p.Description
	m.PricingTiers = JSONList[catalog.PricingTier](p.PricingTiers)
	m.Currency = string(p.Currency)
	m.Icon = string(p.Icon)
	m.ImageURL = nullableString(p.ImageURL)
	m.Features = JSONList[string](p.Features)
	m.Tag = nullableString(string(p.Tag))
	m.ContactLink = p.ContactLink
	m.SortOrder = p.SortOrder
	m.CreatedAt = p.CreatedAt
	m.UpdatedAt = p.UpdatedAt
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
