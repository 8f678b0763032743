package cart

import "fmt"

// Key identifies a cart line. An empty Size means the product was added
// without a size.
type Key struct {
	ProductID uint
	Size      string
}

func (k Key) String() string {
	if k.Size == "" {
		return fmt.Sprintf("%d", k.ProductID)
	}
	return fmt.Sprintf("%d/%s", k.ProductID, k.Size)
}

// Line is a single entry of the cart. Name, Price and Category are copied
// from the product when the line is created.
type Line struct {
	ProductID uint   `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Category  string `json:"category"`
}

func (l Line) Key() Key {
	return Key{ProductID: l.ProductID, Size: l.Size}
}

// Subtotal is the line price multiplied by its quantity.
func (l Line) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}
