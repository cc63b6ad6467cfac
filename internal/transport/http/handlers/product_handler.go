package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/krjofficial/mern-ecomm/internal/services/catalog"
	"github.com/krjofficial/mern-ecomm/internal/transport/http/dto"
	httperrors "github.com/krjofficial/mern-ecomm/internal/transport/http/errors"
)

type ProductHandler struct {
	service *catalog.Service
	log     *zap.Logger
}

func NewProductHandler(service *catalog.Service, log *zap.Logger) *ProductHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductHandler{service: service, log: log}
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	products, err := h.service.ListAll(r.Context())
	if err != nil {
		h.handleCatalogError(w, "list products", err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.ProductListResponse{Products: products})
}

func (h *ProductHandler) Featured(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	products, err := h.service.Featured(r.Context())
	if err != nil {
		h.handleCatalogError(w, "featured products", err)
		return
	}
	httperrors.Write(w, http.StatusOK, products)
}

func (h *ProductHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	products, err := h.service.ByCategory(r.Context(), chi.URLParam(r, "category"))
	if err != nil {
		h.handleCatalogError(w, "products by category", err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.ProductListResponse{Products: products})
}

func (h *ProductHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	products, err := h.service.Recommended(r.Context())
	if err != nil {
		h.handleCatalogError(w, "recommended products", err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.NewRecommendedProducts(products))
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}

	var req dto.CreateProductRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	product, err := h.service.Create(r.Context(), catalog.CreateInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
	})
	if err != nil {
		h.handleCatalogError(w, "create product", err)
		return
	}
	httperrors.Write(w, http.StatusCreated, product)
}

func (h *ProductHandler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	product, err := h.service.ToggleFeatured(r.Context(), strings.TrimSpace(chi.URLParam(r, "id")))
	if err != nil {
		h.handleCatalogError(w, "toggle featured", err)
		return
	}
	httperrors.Write(w, http.StatusOK, product)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if !h.available(w) {
		return
	}
	if _, err := h.service.Delete(r.Context(), strings.TrimSpace(chi.URLParam(r, "id"))); err != nil {
		h.handleCatalogError(w, "delete product", err)
		return
	}
	httperrors.Write(w, http.StatusOK, dto.MessageResponse{Message: "Product deleted successfully"})
}

func (h *ProductHandler) available(w http.ResponseWriter) bool {
	if h.service == nil {
		writeInternal(w, "CATALOG_UNAVAILABLE", "product catalog is unavailable")
		return false
	}
	return true
}

func (h *ProductHandler) handleCatalogError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, catalog.ErrValidation):
		writeBadRequest(w, "INVALID_REQUEST", err.Error())
	case errors.Is(err, catalog.ErrNotFound):
		writeNotFound(w, "PRODUCT_NOT_FOUND", "Product not found")
	default:
		h.log.Error("catalog request failed", zap.String("op", op), zap.Error(err))
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
	}
}
