package models

import (
	"slices"

	"github.com/lib/pq"
)

// Product represents a dish or drink in the catalog.
// Price is expressed in the smallest currency unit. Sizes is empty for
// products that are sold in a single size.
type Product struct {
	ID          uint           `gorm:"primaryKey"`
	Name        string         `gorm:"not null"`
	Description string         `gorm:"not null;default:''"`
	Price       int64          `gorm:"not null"`
	CategoryID  uint           `gorm:"not null"`
	Category    Category       `gorm:"foreignKey:CategoryID"`
	Sizes       pq.StringArray `gorm:"type:text[]"`
	IsNew       bool           `gorm:"not null;default:false"`
}

func (p *Product) TableName() string {
	return "products"
}

// HasSizes reports whether the product is sold in several sizes.
func (p *Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

// OffersSize reports whether size is a valid choice for the product.
// The empty size is valid only for products without sizes.
func (p *Product) OffersSize(size string) bool {
	if !p.HasSizes() {
		return size == ""
	}
	return slices.Contains(p.Sizes, size)
}

// FilterByCategory returns the products of the given category, preserving
// their order. CategoryAll returns every product. The result never shares
// its backing array with products.
func FilterByCategory(products []Product, category string) []Product {
	if category == CategoryAll {
		return slices.Clone(products)
	}

	filtered := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category.Code == category {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
