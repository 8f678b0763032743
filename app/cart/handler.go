package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pizzeria/storefront/app/api"
	"github.com/pizzeria/storefront/cart"
	"github.com/pizzeria/storefront/models"
)

// SessionCookie carries the id of the visitor's cart.
const SessionCookie = "cart_session"

// maxBodyBytes bounds cart request bodies.
const maxBodyBytes = 4 << 10

type AddItemRequest struct {
	ProductID uint   `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"max=32"`
}

type SetQuantityRequest struct {
	Size     string `json:"size" validate:"max=32"`
	Quantity *int   `json:"quantity" validate:"required"`
}

type LineResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
	Size     string `json:"size,omitempty"`
	Category string `json:"category"`
	Subtotal int64  `json:"subtotal"`
}

type CartResponse struct {
	Lines      []LineResponse `json:"lines"`
	TotalPrice int64          `json:"total_price"`
	TotalItems int            `json:"total_items"`
	Bouncing   bool           `json:"bouncing"`
}

type QuantityResponse struct {
	Quantity int `json:"quantity"`
}

type CheckoutResponse struct {
	Status string       `json:"status"`
	Cart   CartResponse `json:"cart"`
}

type ProductProvider interface {
	GetByID(id uint) (*models.Product, error)
}

type SessionProvider interface {
	Get(ctx context.Context, id string) (*cart.Store, error)
	Save(ctx context.Context, id string, store *cart.Store) error
	Delete(ctx context.Context, id string) error
}

type CartHandler struct {
	products  ProductProvider
	sessions  SessionProvider
	validate  *validator.Validate
	logger    *slog.Logger
	cookieTTL time.Duration
}

func NewCartHandler(products ProductProvider, sessions SessionProvider, logger *slog.Logger, cookieTTL time.Duration) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{
		products:  products,
		sessions:  sessions,
		validate:  validator.New(),
		logger:    logger,
		cookieTTL: cookieTTL,
	}
}

// sessionID returns the visitor's cart session, issuing a new cookie when
// the request has none or carries a malformed one.
func (h *CartHandler) sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(h.cookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func (h *CartHandler) loadCart(w http.ResponseWriter, r *http.Request) (string, *cart.Store, bool) {
	id := h.sessionID(w, r)
	store, err := h.sessions.Get(r.Context(), id)
	if err != nil {
		h.logger.Error("load cart", slog.String("session", id), slog.Any("error", err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to load cart")
		return "", nil, false
	}
	return id, store, true
}

// persist writes the snapshot. The live cart already holds the change, so a
// failed write is logged and the request still succeeds.
func (h *CartHandler) persist(ctx context.Context, id string, store *cart.Store) {
	if err := h.sessions.Save(ctx, id, store); err != nil {
		h.logger.Error("save cart", slog.String("session", id), slog.Any("error", err))
	}
}

func toCartResponse(store *cart.Store) CartResponse {
	sum := store.Summary()
	lines := make([]LineResponse, len(sum.Lines))
	for i, l := range sum.Lines {
		lines[i] = LineResponse{
			ID:       l.ProductID,
			Name:     l.Name,
			Price:    l.Price,
			Quantity: l.Quantity,
			Size:     l.Size,
			Category: l.Category,
			Subtotal: l.Subtotal(),
		}
	}
	return CartResponse{
		Lines:      lines,
		TotalPrice: sum.TotalPrice,
		TotalItems: sum.TotalItems,
		Bouncing:   store.Bouncing(),
	}
}

// decodeBody reads a JSON request body of bounded size. On failure it has
// already written the error response.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	return true
}

func parseProductID(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func (h *CartHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	_, store, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	api.OKResponse(w, toCartResponse(store))
}

func (h *CartHandler) HandleAddItem(w http.ResponseWriter, r *http.Request) {
	var input AddItemRequest
	if !decodeBody(w, r, &input) {
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid cart item")
		return
	}

	product, err := h.products.GetByID(input.ProductID)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			api.ErrorResponse(w, http.StatusNotFound, "Product not found")
			return
		}
		h.logger.Error("lookup product", slog.Uint64("product_id", uint64(input.ProductID)), slog.Any("error", err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve product")
		return
	}
	if !product.OffersSize(input.Size) {
		api.ErrorResponse(w, http.StatusBadRequest, "Size is not available for this product")
		return
	}

	id, store, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	store.AddItem(*product, input.Size)
	h.persist(r.Context(), id, store)

	h.logger.Debug("item added",
		slog.String("session", id),
		slog.String("line", cart.Key{ProductID: product.ID, Size: input.Size}.String()),
	)
	api.OKResponse(w, toCartResponse(store))
}

func (h *CartHandler) HandleSetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, valid := parseProductID(r)
	if !valid {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	var input SetQuantityRequest
	if !decodeBody(w, r, &input) {
		return
	}
	if err := h.validate.Struct(input); err != nil {
		api.ErrorResponse(w, http.StatusBadRequest, "Missing quantity")
		return
	}

	id, store, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	store.SetQuantity(productID, input.Size, *input.Quantity)
	h.persist(r.Context(), id, store)

	api.OKResponse(w, toCartResponse(store))
}

func (h *CartHandler) HandleRemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, valid := parseProductID(r)
	if !valid {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	id, store, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	store.RemoveItem(productID, r.URL.Query().Get("size"))
	h.persist(r.Context(), id, store)

	api.OKResponse(w, toCartResponse(store))
}

func (h *CartHandler) HandleGetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, valid := parseProductID(r)
	if !valid {
		api.ErrorResponse(w, http.StatusBadRequest, "Invalid product id")
		return
	}

	_, store, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	api.OKResponse(w, QuantityResponse{
		Quantity: store.QuantityOf(productID, r.URL.Query().Get("size")),
	})
}

// HandleClear empties the visitor's cart and drops its snapshot.
func (h *CartHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	id := h.sessionID(w, r)
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.logger.Error("clear cart", slog.String("session", id), slog.Any("error", err))
		api.ErrorResponse(w, http.StatusInternalServerError, "Failed to clear cart")
		return
	}
	api.OKResponse(w, CartResponse{Lines: []LineResponse{}})
}

// HandleCheckout acknowledges the "place order" button. Orders are not
// submitted anywhere and the cart is left as it is.
func (h *CartHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	id, store, ok := h.loadCart(w, r)
	if !ok {
		return
	}
	if store.IsEmpty() {
		api.ErrorResponse(w, http.StatusConflict, "Cart is empty")
		return
	}

	resp := toCartResponse(store)
	h.logger.Info("order placed",
		slog.String("session", id),
		slog.Int("items", resp.TotalItems),
		slog.Int64("total", resp.TotalPrice),
	)
	api.JSONResponse(w, http.StatusAccepted, CheckoutResponse{
		Status: "accepted",
		Cart:   resp,
	})
}
