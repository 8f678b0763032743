package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []Product) []uint {
	out := make([]uint, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilterByCategory(t *testing.T) {
	products := []Product{
		{ID: 3, Category: Category{Code: "pizza"}},
		{ID: 9, Category: Category{Code: "drinks"}},
		{ID: 1, Category: Category{Code: "pizza"}},
		{ID: 11, Category: Category{Code: "desserts"}},
	}

	testCases := []struct {
		name     string
		category string
		expected []uint
	}{
		{name: "All returns everything", category: CategoryAll, expected: []uint{3, 9, 1, 11}},
		{name: "Pizza keeps original order", category: "pizza", expected: []uint{3, 1}},
		{name: "Single match", category: "drinks", expected: []uint{9}},
		{name: "No match", category: "rolls", expected: []uint{}},
		{name: "Empty string is not all", category: "", expected: []uint{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ids(FilterByCategory(products, tc.category)))
		})
	}

	assert.Equal(t, []uint{3, 9, 1, 11}, ids(products), "input must not be modified")
}

func TestFilterByCategoryReturnsCopy(t *testing.T) {
	products := []Product{
		{ID: 1, Name: "Маргарита", Category: Category{Code: "pizza"}},
		{ID: 9, Name: "Кока-Кола", Category: Category{Code: "drinks"}},
	}

	for _, category := range []string{CategoryAll, "pizza"} {
		t.Run(category, func(t *testing.T) {
			filtered := FilterByCategory(products, category)
			filtered[0].Name = "changed"
			_ = append(filtered[:1], Product{ID: 42})

			assert.Equal(t, "Маргарита", products[0].Name)
			assert.Equal(t, uint(9), products[1].ID)
		})
	}
}

func TestOffersSize(t *testing.T) {
	pizza := Product{Sizes: []string{"25см", "30см"}}
	roll := Product{}

	assert.True(t, pizza.HasSizes())
	assert.True(t, pizza.OffersSize("25см"))
	assert.False(t, pizza.OffersSize("40см"))
	assert.False(t, pizza.OffersSize(""))

	assert.False(t, roll.HasSizes())
	assert.True(t, roll.OffersSize(""))
	assert.False(t, roll.OffersSize("25см"))
}

func TestStaticCatalog(t *testing.T) {
	c := NewStaticCatalog()

	products, err := c.GetAllProducts()
	require.NoError(t, err)
	assert.Len(t, products, 12)
	assert.Equal(t, []uint{1, 2, 3, 4}, ids(FilterByCategory(products, "pizza")))
	assert.Len(t, FilterByCategory(products, "rolls"), 4)
	assert.Len(t, FilterByCategory(products, "drinks"), 2)
	assert.Len(t, FilterByCategory(products, "desserts"), 2)

	t.Run("GetByID", func(t *testing.T) {
		p, err := c.GetByID(1)
		require.NoError(t, err)
		assert.Equal(t, "Маргарита", p.Name)
		assert.Equal(t, int64(449), p.Price)
		assert.Equal(t, "pizza", p.Category.Code)
		assert.Equal(t, []string{"25см", "30см", "35см"}, []string(p.Sizes))

		_, err = c.GetByID(99)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("Callers cannot modify the catalog", func(t *testing.T) {
		p, err := c.GetByID(2)
		require.NoError(t, err)
		p.Sizes[0] = "XL"
		p.Price = 1

		fresh, err := c.GetByID(2)
		require.NoError(t, err)
		assert.Equal(t, "25см", fresh.Sizes[0])
		assert.Equal(t, int64(549), fresh.Price)
	})

	t.Run("Categories in display order", func(t *testing.T) {
		cats, err := c.GetAllCategories()
		require.NoError(t, err)
		codes := make([]string, len(cats))
		for i, cat := range cats {
			codes[i] = cat.Code
		}
		assert.Equal(t, []string{"pizza", "rolls", "drinks", "desserts"}, codes)
	})
}
