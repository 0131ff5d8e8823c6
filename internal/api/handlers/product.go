package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/storefront-go/storefront/internal/api/middleware"
	appErrors "github.com/storefront-go/storefront/internal/errors"
	"github.com/storefront-go/storefront/internal/models"
	service "github.com/storefront-go/storefront/internal/services"
	"github.com/storefront-go/storefront/internal/utils/response"
)

type ProductHandler struct {
	catalogService service.CatalogService
	validator      *validator.Validate
}

func NewProductHandler(catalogService service.CatalogService) *ProductHandler {
	return &ProductHandler{catalogService: catalogService, validator: validator.New()}
}

// for eg: GET /products?category=electronics&min_price=10&max_price=50&sort=desc&page=2
func (h *ProductHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		filter, err := parseProductFilter(r.URL.Query())
		if err != nil {
			logger.Warn("Invalid listing parameters", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		if err := h.validator.Struct(filter); err != nil {

			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				logger.Warn("Listing criteria rejected", slog.String("error", validationErrs.Error()))
				response.ValidationError(w, validationErrs)

				return
			}

			response.Error(w, appErrors.InternalError("Failed to validate listing criteria").WithError(err))

			return
		}

		page, err := h.catalogService.ListProducts(r.Context(), filter)
		if err != nil {
			logger.Error("Failed to list products", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, models.PaginatedResponse{
			Data:       page.Items,
			Total:      page.Total,
			Page:       filter.Page,
			PageSize:   service.PageSize,
			TotalPages: page.TotalPages,
		})

	}
}

func (h *ProductHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			response.Error(w, appErrors.BadRequestError("Invalid product id"))

			return
		}

		product, err := h.catalogService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to get product", slog.Int64("productId", id), slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		detail := struct {
			models.Product
			Stars *service.Stars `json:"stars,omitempty"`
		}{Product: *product}

		if product.Rating != nil {
			stars := service.StarRating(product.Rating.Rate)
			detail.Stars = &stars
		}

		response.Success(w, http.StatusOK, detail)

	}
}

func (h *ProductHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.catalogService.Categories(r.Context())
		if err != nil {
			logger.Error("Failed to list categories", slog.String("error", err.Error()))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, categories)

	}
}

// parseProductFilter fills a filter from the query string, applying the
// listing defaults for anything omitted.
func parseProductFilter(query url.Values) (*models.ProductFilter, error) {

	filter := &models.ProductFilter{
		Category:  query.Get("category"),
		MinPrice:  0,
		MaxPrice:  models.DefaultMaxPrice,
		MinRating: 0,
		SortOrder: models.SortAsc,
		Page:      1,
	}

	var err error

	if raw := query.Get("min_price"); raw != "" {
		if filter.MinPrice, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, appErrors.BadRequestError("Invalid min_price parameter")
		}
	}

	if raw := query.Get("max_price"); raw != "" {
		if filter.MaxPrice, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, appErrors.BadRequestError("Invalid max_price parameter")
		}
	}

	if raw := query.Get("min_rating"); raw != "" {
		if filter.MinRating, err = strconv.ParseFloat(raw, 64); err != nil {
			return nil, appErrors.BadRequestError("Invalid min_rating parameter")
		}
	}

	if raw := query.Get("sort"); raw != "" {
		filter.SortOrder = raw
	}

	if raw := query.Get("page"); raw != "" {
		if filter.Page, err = strconv.Atoi(raw); err != nil {
			return nil, appErrors.BadRequestError("Invalid page parameter")
		}
	}

	return filter, nil
}
