package storefront

import (
	"net/http"

	"github.com/luminastore/lumina/internal/domain"
	"github.com/luminastore/lumina/internal/handler"
)

// CheckoutHandler serves the checkout endpoint.
type CheckoutHandler struct {
	checkout domain.CheckoutService
}

// NewCheckoutHandler creates a CheckoutHandler.
func NewCheckoutHandler(checkout domain.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

// Checkout handles POST /checkout. On success the cart has been
// converted into an order and cleared.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	userID := domain.UserIDFromContext(r.Context())

	order, err := h.checkout.Checkout(r.Context(), userID)
	if err != nil {
		handler.RespondError(w, r, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"orderNumber": order.OrderNumber,
		"total":       domain.FormatCents(order.TotalCents),
	})
}
