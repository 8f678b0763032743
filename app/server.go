// Package app wires the storefront handlers into an HTTP router.
package app

import (
	"log/slog"
	"net/http"
	"time"

	cartapp "github.com/pizzeria/storefront/app/cart"
	"github.com/pizzeria/storefront/app/catalog"
	"github.com/pizzeria/storefront/app/categories"
)

type Handlers struct {
	Catalog    *catalog.CatalogHandler
	Categories *categories.CategoryHandler
	Cart       *cartapp.CartHandler
}

func NewRouter(h Handlers, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /catalog", h.Catalog.HandleGet)
	mux.HandleFunc("GET /catalog/{id}", h.Catalog.HandleGetProduct)
	mux.HandleFunc("GET /categories", h.Categories.HandleGetAll)

	mux.HandleFunc("GET /cart", h.Cart.HandleGet)
	mux.HandleFunc("DELETE /cart", h.Cart.HandleClear)
	mux.HandleFunc("POST /cart/items", h.Cart.HandleAddItem)
	mux.HandleFunc("GET /cart/items/{id}", h.Cart.HandleGetQuantity)
	mux.HandleFunc("PUT /cart/items/{id}", h.Cart.HandleSetQuantity)
	mux.HandleFunc("DELETE /cart/items/{id}", h.Cart.HandleRemoveItem)
	mux.HandleFunc("POST /cart/checkout", h.Cart.HandleCheckout)

	return RequestLogger(logger)(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger logs one line per request with its status and latency.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			if rec.status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(r.Context(), level, "http_request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Float64("latency_ms", float64(time.Since(start).Microseconds())/1000),
				slog.String("client_ip", r.RemoteAddr),
			)
		})
	}
}
