package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/storefront-go/storefront/internal/api/middleware"
	appErrors "github.com/storefront-go/storefront/internal/errors"
	"github.com/storefront-go/storefront/internal/models"
	service "github.com/storefront-go/storefront/internal/services"
	"github.com/storefront-go/storefront/internal/utils"
	"github.com/storefront-go/storefront/internal/utils/response"
)

type CartHandler struct {
	cartService    *service.CartService
	catalogService service.CatalogService
	validator      *validator.Validate
}

func NewCartHandler(cartService *service.CartService, catalogService service.CatalogService) *CartHandler {
	return &CartHandler{
		cartService:    cartService,
		catalogService: catalogService,
		validator:      validator.New(),
	}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		response.Success(w, http.StatusOK, h.cartService.Summary())

	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.AddItemRequest
		if err := utils.DecodeJSONBody(r, &req); err != nil {
			response.Error(w, appErrors.BadRequestError(err.Error()))

			return
		}

		if err := utils.ValidateStruct(h.validator, req); err != nil {

			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				response.ValidationError(w, validationErrs)

				return
			}

			response.Error(w, appErrors.BadRequestError("Invalid input data"))

			return
		}

		// The cart snapshots displayable fields, so the product must come
		// from the loaded catalog.
		product, err := h.catalogService.GetProduct(r.Context(), req.ProductID)
		if err != nil {
			logger.Warn("Add to cart rejected", slog.Int64("productId", req.ProductID), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		summary := h.cartService.AddItem(product)

		logger.Info("Product added to cart", slog.Int64("productId", product.ID))
		response.Success(w, http.StatusOK, summary)

	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, ok := parseCartItemID(w, r)
		if !ok {
			return
		}

		summary := h.cartService.RemoveItem(id)

		logger.Info("Cart line removed", slog.Int64("productId", id))
		response.Success(w, http.StatusOK, summary)

	}
}

func (h *CartHandler) IncreaseQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := parseCartItemID(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, h.cartService.IncreaseQuantity(id))

	}
}

func (h *CartHandler) DecreaseQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := parseCartItemID(w, r)
		if !ok {
			return
		}

		response.Success(w, http.StatusOK, h.cartService.DecreaseQuantity(id))

	}
}

func parseCartItemID(w http.ResponseWriter, r *http.Request) (int64, bool) {

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.Error(w, appErrors.BadRequestError("Invalid product id"))

		return 0, false
	}

	return id, true
}
