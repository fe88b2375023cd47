// Package handler provides HTTP handlers for inventory operations.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	perrors "github.com/abgdnv/inventory/internal/inventory/errors"
	"github.com/abgdnv/inventory/internal/inventory/service"
	"github.com/abgdnv/inventory/internal/platform/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// Handler serves the inventory REST API.
type Handler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler with the provided service.
func NewHandler(service service.ProductService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  service,
		validate: newValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// newValidator reports validation failures under the json field names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// RegisterRoutes registers the HTTP routes for the inventory service.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/produtos", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Replace)
			r.Patch("/", h.UpdatePrice)
			r.Delete("/", h.DeleteByID)
		})
	})

	r.Get("/quantidades", h.TotalQuantity)
	r.Get("/quantidades/{id}", h.QuantityOf)
	r.Get("/estoque", h.StockExtremes)
	r.Get("/total/estoque", h.TotalValue)
	r.Patch("/venda/{id}", h.Sell)
	r.Patch("/compra/{id}", h.Purchase)

	r.Get("/doc", h.Docs)
	r.Get("/doc/doc.json", h.Docs)
	r.Get("/healthz", h.HealthCheck)
}

// FindAll godoc
// @Summary  List products
// @Tags     produtos
// @Produce  json
// @Success  200 {array} service.ProductDto
// @Router   /produtos [get]
func (h *Handler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	mLogger.DebugContext(r.Context(), "Received request to find all products")
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID godoc
// @Summary  Get a product
// @Tags     produtos
// @Produce  json
// @Param    id  path     int true "product id"
// @Success  200 {object} service.ProductDto
// @Failure  404 {object} map[string]string
// @Router   /produtos/{id} [get]
func (h *Handler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	mLogger.DebugContext(r.Context(), "Received request to find product by ID", "ID", id)
	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, id, err, "Failed to retrieve product")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product", "ID", found.ID, "Name", found.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Create godoc
// @Summary  Create a product
// @Tags     produtos
// @Accept   json
// @Produce  json
// @Param    product body     service.ProductCreateDto true "new product"
// @Success  201     {object} service.ProductDto
// @Failure  400     {object} map[string]any
// @Router   /produtos [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	var productCreateDto service.ProductCreateDto
	if !h.decodeAndValidate(w, r, mLogger, &productCreateDto) {
		return
	}

	newProduct, err := h.service.Create(r.Context(), productCreateDto)
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", newProduct.ID, "Name", newProduct.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, newProduct)
}

// Replace godoc
// @Summary  Replace a product
// @Tags     produtos
// @Accept   json
// @Produce  json
// @Param    id      path     int                       true "product id"
// @Param    product body     service.ProductReplaceDto true "product"
// @Success  200     {object} service.ProductDto
// @Failure  400     {object} map[string]any
// @Failure  404     {object} map[string]string
// @Router   /produtos/{id} [put]
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to replace product", "ID", id)
	var productDTO service.ProductReplaceDto
	if !h.decodeAndValidate(w, r, mLogger, &productDTO) {
		return
	}

	updated, err := h.service.Replace(r.Context(), id, productDTO)
	if err != nil {
		h.respondServiceError(w, r, mLogger, id, err, "Failed to replace product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product replaced successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// UpdatePrice godoc
// @Summary  Change the price of a product
// @Tags     produtos
// @Accept   json
// @Produce  json
// @Param    id    path     int                    true "product id"
// @Param    price body     service.PriceUpdateDto true "new price"
// @Success  200   {object} service.ProductDto
// @Failure  404   {object} map[string]string
// @Router   /produtos/{id} [patch]
func (h *Handler) UpdatePrice(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var priceDTO service.PriceUpdateDto
	if !h.decodeAndValidate(w, r, mLogger, &priceDTO) {
		return
	}

	updated, err := h.service.UpdatePrice(r.Context(), id, *priceDTO.Price)
	if err != nil {
		h.respondServiceError(w, r, mLogger, id, err, "Failed to update price")
		return
	}
	mLogger.InfoContext(r.Context(), "Price updated successfully", "ID", updated.ID, "NewPrice", updated.Price)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID godoc
// @Summary  Delete a product
// @Tags     produtos
// @Param    id path int true "product id"
// @Success  204
// @Failure  404 {object} map[string]string
// @Router   /produtos/{id} [delete]
func (h *Handler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received request to delete product", "ID", id)
	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		h.respondServiceError(w, r, mLogger, id, err, "Failed to delete product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

// Sell godoc
// @Summary  Register a sale
// @Tags     estoque
// @Accept   json
// @Produce  json
// @Param    id   path     int                    true "product id"
// @Param    sale body     service.StockAdjustDto true "units sold"
// @Success  200  {object} service.ProductDto
// @Failure  404  {object} map[string]string
// @Failure  409  {object} map[string]string
// @Router   /venda/{id} [patch]
func (h *Handler) Sell(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, "sale", h.service.Sell)
}

// Purchase godoc
// @Summary  Register a purchase
// @Tags     estoque
// @Accept   json
// @Produce  json
// @Param    id       path     int                    true "product id"
// @Param    purchase body     service.StockAdjustDto true "units bought"
// @Success  200      {object} service.ProductDto
// @Failure  404      {object} map[string]string
// @Router   /compra/{id} [patch]
func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	h.adjustStock(w, r, "purchase", h.service.Purchase)
}

type adjustFunc func(ctx context.Context, id int, quantity int) (*service.ProductDto, error)

func (h *Handler) adjustStock(w http.ResponseWriter, r *http.Request, kind string, adjust adjustFunc) {
	mLogger := h.logger
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	mLogger.DebugContext(r.Context(), "Received stock adjustment", "ID", id, "kind", kind)
	var adjustDTO service.StockAdjustDto
	if !h.decodeAndValidate(w, r, mLogger, &adjustDTO) {
		return
	}

	updated, err := adjust(r.Context(), id, *adjustDTO.Quantity)
	if err != nil {
		h.respondServiceError(w, r, mLogger, id, err, "Failed to register "+kind)
		return
	}
	mLogger.InfoContext(r.Context(), "Stock adjusted successfully", "ID", updated.ID, "kind", kind, "NewQuantity", updated.Quantity)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// TotalQuantity godoc
// @Summary  Units in stock across all products
// @Tags     estoque
// @Produce  json
// @Success  200 {integer} int
// @Router   /quantidades [get]
func (h *Handler) TotalQuantity(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	total, err := h.service.TotalQuantity(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error computing total quantity", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to compute total quantity")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, total)
}

// QuantityOf godoc
// @Summary  Units in stock for one product
// @Tags     estoque
// @Produce  json
// @Param    id  path      int true "product id"
// @Success  200 {integer} int
// @Failure  404 {object}  map[string]string
// @Router   /quantidades/{id} [get]
func (h *Handler) QuantityOf(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	qty, err := h.service.QuantityOf(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, mLogger, id, err, "Failed to retrieve quantity")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, qty)
}

// StockExtremes godoc
// @Summary  Lowest and highest stock level
// @Tags     estoque
// @Produce  json
// @Success  200 {object} service.StockExtremesDto
// @Failure  404 {object} map[string]string
// @Router   /estoque [get]
func (h *Handler) StockExtremes(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	extremes, err := h.service.StockExtremes(r.Context())
	if err != nil {
		if errors.Is(err, perrors.ErrEmptyInventory) {
			mLogger.WarnContext(r.Context(), "Stock extremes requested on empty inventory")
			web.RespondError(w, mLogger, http.StatusNotFound, "Inventory is empty")
			return
		}
		mLogger.ErrorContext(r.Context(), "Error computing stock extremes", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to compute stock extremes")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, extremes)
}

// TotalValue godoc
// @Summary  Total inventory value
// @Tags     estoque
// @Produce  json
// @Success  200 {number} float64
// @Router   /total/estoque [get]
func (h *Handler) TotalValue(w http.ResponseWriter, r *http.Request) {
	mLogger := h.logger
	value, err := h.service.TotalValue(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error computing inventory value", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to compute inventory value")
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, value)
}

// HealthCheck is a simple health check endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeAndValidate reads the JSON body into dst and validates it.
// On failure it writes a 400 response and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		mLogger.WarnContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				// fieldErr.Tag() returns "required", "max", etc.
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			mLogger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, mLogger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondServiceError maps service errors for a single product to HTTP responses.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, mLogger *slog.Logger, id int, err error, failure string) {
	switch {
	case errors.Is(err, perrors.ErrProductNotFound):
		mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
		web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
	case errors.Is(err, perrors.ErrIDMismatch):
		mLogger.WarnContext(r.Context(), "Product id in body does not match path", "ID", id)
		web.RespondError(w, mLogger, http.StatusBadRequest, fmt.Sprintf("Product ID cannot be changed (path ID %d)", id))
	case errors.Is(err, perrors.ErrInsufficientStock):
		mLogger.WarnContext(r.Context(), "Insufficient stock", "ID", id)
		web.RespondError(w, mLogger, http.StatusConflict, fmt.Sprintf("Insufficient stock for product with ID %d", id))
	default:
		mLogger.ErrorContext(r.Context(), failure, "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("%s with ID %d", failure, id))
	}
}
