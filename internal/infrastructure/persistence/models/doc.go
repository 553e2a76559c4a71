// Package models contains GORM-specific persistence models that map to database tables.
// Domain entities stay free of ORM tags; repositories convert through
// ToDomain/FromDomain.
//
//   - json_list.go: JSON-array-in-text column type
//   - catalog.go: products table
//   - gallery.go: bills table
package models
