package models

// CategoryAll is the pseudo category that selects the whole catalog.
// It is never stored.
const CategoryAll = "all"

// Category represents a menu section such as pizza or rolls.
// It includes a unique code, a human-readable name and a display position.
type Category struct {
	ID       uint   `gorm:"primaryKey"`
	Code     string `gorm:"uniqueIndex;not null"`
	Name     string `gorm:"not null"`
	Position int    `gorm:"not null;default:0"`
}

func (c *Category) TableName() string {
	return "categories"
}
