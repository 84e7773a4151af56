package storefront

import (
	"net/http"

	"github.com/luminastore/lumina/internal/domain"
	"github.com/luminastore/lumina/internal/handler"
)

// ProductHandler serves the public product catalog.
type ProductHandler struct {
	catalog domain.CatalogService
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(catalog domain.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productPayload struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	PriceCents int32  `json:"priceCents"`
	Category   string `json:"category"`
	ImageURL   string `json:"imageUrl"`
}

func toProductPayload(p domain.Product) productPayload {
	return productPayload{
		ID:         p.ID.String(),
		Name:       p.Name,
		Price:      p.PriceDisplay(),
		PriceCents: p.PriceCents,
		Category:   p.Category,
		ImageURL:   p.ImageURL,
	}
}

// List handles GET /products.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.List(r.Context())
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	payload := make([]productPayload, 0, len(products))
	for _, p := range products {
		payload = append(payload, toProductPayload(p))
	}

	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": payload,
	})
}
