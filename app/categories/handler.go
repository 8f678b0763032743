package categories

import (
	"net/http"

	"github.com/pizzeria/storefront/app/api"
	"github.com/pizzeria/storefront/models"
)

// AllCategoryName is the label of the pseudo category that shows the whole
// menu.
const AllCategoryName = "Все"

type CategoryResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type CategoryProvider interface {
	GetAllCategories() ([]models.Category, error)
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

// HandleGetAll lists the menu sections, the "all" filter first.
func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories()
	if err != nil {
		api.ErrorResponse(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, 0, len(categories)+1)
	response = append(response, CategoryResponse{Code: models.CategoryAll, Name: AllCategoryName})
	for _, c := range categories {
		response = append(response, CategoryResponse{
			Code: c.Code,
			Name: c.Name,
		})
	}

	api.OKResponse(w, response)
}
