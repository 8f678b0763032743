package models

import "slices"

var staticCategories = []Category{
	{ID: 1, Code: "pizza", Name: "Пиццы", Position: 1},
	{ID: 2, Code: "rolls", Name: "Роллы", Position: 2},
	{ID: 3, Code: "drinks", Name: "Напитки", Position: 3},
	{ID: 4, Code: "desserts", Name: "Десерты", Position: 4},
}

var pizzaSizes = []string{"25см", "30см", "35см"}

func staticProduct(id uint, name, description string, price int64, category int, sizes []string, isNew bool) Product {
	cat := staticCategories[category]
	return Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		CategoryID:  cat.ID,
		Category:    cat,
		Sizes:       slices.Clone(sizes),
		IsNew:       isNew,
	}
}

var staticProducts = []Product{
	staticProduct(1, "Маргарита", "Классическая пицца с томатным соусом, моцареллой и базиликом", 449, 0, pizzaSizes, false),
	staticProduct(2, "Пепперони", "Пицца с острой пепперони, томатным соусом и моцареллой", 549, 0, pizzaSizes, true),
	staticProduct(3, "Четыре сыра", "Пицца с четырьмя видами сыра: моцарелла, пармезан, горгонзола, чеддер", 649, 0, pizzaSizes, false),
	staticProduct(4, "Мясная", "Пицца с говядиной, ветчиной, пепперони и курицей", 699, 0, pizzaSizes, false),
	staticProduct(5, "Калифорния", "Ролл с лососем, авокадо, огурцом и икрой масаго", 350, 1, nil, false),
	staticProduct(6, "Филадельфия", "Классический ролл с лососем и сливочным сыром", 420, 1, nil, true),
	staticProduct(7, "Дракон", "Ролл с угрем, авокадо и специальным соусом", 380, 1, nil, false),
	staticProduct(8, "Спайси лосось", "Острый ролл с лососем, огурцом и острым соусом", 390, 1, nil, true),
	staticProduct(9, "Кока-Кола", "Классическая кока-кола 0.5л", 120, 2, nil, false),
	staticProduct(10, "Сок апельсиновый", "Свежевыжатый апельсиновый сок 0.3л", 180, 2, nil, false),
	staticProduct(11, "Тирамису", "Классический итальянский десерт", 250, 3, nil, false),
	staticProduct(12, "Чизкейк", "Нежный чизкейк с ягодным соусом", 220, 3, nil, true),
}

// StaticCatalog serves the built-in menu from memory. It is read-only and
// safe for concurrent use.
type StaticCatalog struct {
	products   []Product
	categories []Category
}

func NewStaticCatalog() *StaticCatalog {
	return &StaticCatalog{
		products:   staticProducts,
		categories: staticCategories,
	}
}

// GetAllProducts returns a copy of the menu in catalog order.
func (c *StaticCatalog) GetAllProducts() ([]Product, error) {
	products := make([]Product, len(c.products))
	for i, p := range c.products {
		p.Sizes = slices.Clone(p.Sizes)
		products[i] = p
	}
	return products, nil
}

func (c *StaticCatalog) GetByID(id uint) (*Product, error) {
	for _, p := range c.products {
		if p.ID == id {
			product := p
			product.Sizes = slices.Clone(p.Sizes)
			return &product, nil
		}
	}
	return nil, ErrProductNotFound
}

func (c *StaticCatalog) GetAllCategories() ([]Category, error) {
	return slices.Clone(c.categories), nil
}
