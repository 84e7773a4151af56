package storefront

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/luminastore/lumina/internal/domain"
	"github.com/luminastore/lumina/internal/handler"
)

// CartHandler serves the authenticated cart endpoints.
type CartHandler struct {
	carts domain.CartService
}

// NewCartHandler creates a CartHandler.
func NewCartHandler(carts domain.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type cartItemPayload struct {
	Product      productPayload `json:"product"`
	Quantity     int32          `json:"quantity"`
	LineSubtotal string         `json:"lineSubtotal"`
}

type cartMutationRequest struct {
	ProductID string `json:"productId" validate:"required,uuid4"`
	Quantity  int32  `json:"quantity,omitempty"`
}

func (req cartMutationRequest) productUUID() (uuid.UUID, error) {
	id, err := uuid.Parse(req.ProductID)
	if err != nil {
		return uuid.Nil, domain.Invalid("storefront.cart", "Invalid product id")
	}
	return id, nil
}

// View handles GET /cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserIDFromContext(r.Context())

	view, err := h.carts.ViewCart(r.Context(), userID)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	items := make([]cartItemPayload, 0, len(view.Items))
	for _, item := range view.Items {
		items = append(items, cartItemPayload{
			Product:      toProductPayload(item.Product),
			Quantity:     item.Quantity,
			LineSubtotal: domain.FormatCents(item.LineSubtotal),
		})
	}

	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"items":    items,
		"subtotal": domain.FormatCents(view.Subtotal),
	})
}

// Add handles POST /cart/add.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req cartMutationRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}
	productID, err := req.productUUID()
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	userID := domain.UserIDFromContext(r.Context())
	if err := h.carts.AddItem(r.Context(), userID, productID); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Update handles POST /cart/update.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req cartMutationRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}
	productID, err := req.productUUID()
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	userID := domain.UserIDFromContext(r.Context())
	if err := h.carts.SetQuantity(r.Context(), userID, productID, req.Quantity); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}

// Remove handles POST /cart/remove.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	var req cartMutationRequest
	if err := handler.DecodeAndValidate(r, &req); err != nil {
		handler.RespondError(w, r, err)
		return
	}
	productID, err := req.productUUID()
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	userID := domain.UserIDFromContext(r.Context())
	if err := h.carts.RemoveItem(r.Context(), userID, productID); err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]any{"success": true})
}
