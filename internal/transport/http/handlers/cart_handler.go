package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/krjofficial/mern-ecomm/internal/domain/model"
	authsvc "github.com/krjofficial/mern-ecomm/internal/services/auth"
	"github.com/krjofficial/mern-ecomm/internal/services/cart"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/dto"
	httperrors "github.com/krjofficial/mern-ecomm/internal/transport/http/errors"
)

// CartHandler serves /api/cart. Every route expects the principal placed in
// the request context by the auth middleware.
type CartHandler struct {
	service *cart.Service
	log     *zap.Logger
}

func NewCartHandler(service *cart.Service, log *zap.Logger) *CartHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &CartHandler{service: service, log: log}
}

func (h *CartHandler) Products(w http.ResponseWriter, r *http.Request) {
	user, ok := h.principal(w, r)
	if !ok {
		return
	}
	lines, err := h.service.Products(r.Context(), user)
	if err != nil {
		h.handleCartError(w, "cart products", err)
		return
	}
	httperrors.Write(w, http.StatusOK, lines)
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req dto.AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	items, err := h.service.Add(r.Context(), user, req.ProductID)
	if err != nil {
		h.handleCartError(w, "add to cart", err)
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}

// RemoveAll accepts an empty body, which clears the whole cart.
func (h *CartHandler) RemoveAll(w http.ResponseWriter, r *http.Request) {
	user, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req dto.RemoveFromCartRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	items, err := h.service.Remove(r.Context(), user, req.ProductID)
	if err != nil {
		h.handleCartError(w, "remove from cart", err)
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	user, ok := h.principal(w, r)
	if !ok {
		return
	}

	var req dto.UpdateQuantityRequest
	if err := decodeJSON(r, &req); err != nil || req.Quantity == nil {
		writeBadRequest(w, "INVALID_REQUEST", "quantity is required")
		return
	}

	items, err := h.service.UpdateQuantity(r.Context(), user, strings.TrimSpace(chi.URLParam(r, "id")), *req.Quantity)
	if err != nil {
		h.handleCartError(w, "update cart quantity", err)
		return
	}
	httperrors.Write(w, http.StatusOK, items)
}

func (h *CartHandler) principal(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	if h.service == nil {
		writeInternal(w, "CART_UNAVAILABLE", "cart is unavailable")
		return model.User{}, false
	}
	user, ok := authsvc.PrincipalFromContext(r.Context())
	if !ok {
		WriteAuthError(w, authsvc.ErrUnauthenticated)
		return model.User{}, false
	}
	return user, true
}

func (h *CartHandler) handleCartError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidInput):
		writeBadRequest(w, "INVALID_REQUEST", err.Error())
	case errors.Is(err, cart.ErrProductNotFound):
		writeNotFound(w, "PRODUCT_NOT_FOUND", "Product not found")
	case errors.Is(err, cart.ErrItemNotFound):
		writeNotFound(w, "CART_ITEM_NOT_FOUND", "Product not found in cart")
	default:
		h.log.Error("cart request failed", zap.String("op", op), zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
