package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"product-catalog/internal/catalog"
	"product-catalog/internal/catalog/service"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidBody      = "Invalid request body"
	msgValidationFailed = "Validation failed"
	msgNotFound         = "Product not found"
)

type ProductService interface {
	ListProducts(ctx context.Context, q service.ListQuery) (service.ListResult, error)
	GetProduct(ctx context.Context, id string) (catalog.Product, error)
	CreateProduct(ctx context.Context, in catalog.Input) (catalog.Product, error)
	UpdateProduct(ctx context.Context, id string, in catalog.Input) (catalog.Product, error)
	DeleteProduct(ctx context.Context, id string) (catalog.Product, error)
}

type Handler struct {
	service ProductService
}

func NewHandler(svc ProductService) *Handler {
	return &Handler{service: svc}
}

type productResponse struct {
	Success bool            `json:"success" example:"true"`
	Message string          `json:"message,omitempty" example:"Product created successfully"`
	Data    catalog.Product `json:"data"`
}

type listProductsResponse struct {
	Success bool              `json:"success" example:"true"`
	Data    []catalog.Product `json:"data"`
	Total   int               `json:"total" example:"42"`
	Offset  int               `json:"offset" example:"0"`
	Limit   int               `json:"limit" example:"10"`
}

type errorResponse struct {
	Success bool     `json:"success" example:"false"`
	Message string   `json:"message" example:"Product not found"`
	Errors  []string `json:"errors,omitempty"`
}

// ListProducts godoc
// @Summary      List products with optional category filter and pagination
// @Tags         products
// @Produce      json
// @Param        category  query     string  false  "Category, matched case-insensitively"
// @Param        limit     query     int     false  "Page size; all remaining products when omitted"
// @Param        offset    query     int     false  "Index of the first product"  default(0)
// @Success      200       {object}  listProductsResponse
// @Failure      500       {object}  errorResponse
// @Router       /products [get]
func (h *Handler) ListProducts(c *gin.Context) {
	res, err := h.service.ListProducts(c.Request.Context(), service.ListQuery{
		Category: c.Query("category"),
		Offset:   parseQueryInt(c.Query("offset")),
		Limit:    parseQueryInt(c.Query("limit")),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Message: "Internal server error while fetching products"})
		return
	}

	c.JSON(http.StatusOK, listProductsResponse{
		Success: true,
		Data:    res.Items,
		Total:   res.Total,
		Offset:  res.Offset,
		Limit:   res.Limit,
	})
}

// GetProduct godoc
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{id} [get]
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Internal server error while fetching product")
		return
	}

	c.JSON(http.StatusOK, productResponse{Success: true, Data: product})
}

// CreateProduct godoc
// @Summary      Create a new product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body      catalog.Input  true  "Product data"
// @Success      201   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /products [post]
func (h *Handler) CreateProduct(c *gin.Context) {
	var in catalog.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: msgInvalidBody})
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, "Failed to save product")
		return
	}

	c.JSON(http.StatusCreated, productResponse{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// UpdateProduct godoc
// @Summary      Replace every editable field of a product
// @Description  All fields must be supplied; partial updates are rejected by validation.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path      string         true  "Product ID"
// @Param        body  body      catalog.Input  true  "Product data"
// @Success      200   {object}  productResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /products/{id} [put]
func (h *Handler) UpdateProduct(c *gin.Context) {
	var in catalog.Input
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: msgInvalidBody})
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		writeError(c, err, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, productResponse{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct godoc
// @Summary      Delete a product by ID
// @Tags         products
// @Produce      json
// @Param        id   path      string  true  "Product ID"
// @Success      200  {object}  productResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /products/{id} [delete]
func (h *Handler) DeleteProduct(c *gin.Context) {
	product, err := h.service.DeleteProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, productResponse{
		Success: true,
		Message: "Product deleted successfully",
		Data:    product,
	})
}

// writeError maps service errors to responses. Anything that is neither a
// validation nor a not-found error is reported with the generic message.
func writeError(c *gin.Context, err error, internalMsg string) {
	var vErr *catalog.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, errorResponse{Message: msgValidationFailed, Errors: vErr.Messages})
	case errors.Is(err, catalog.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Message: msgNotFound})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Message: internalMsg})
	}
}

// parseQueryInt returns 0 for absent or non-numeric values, which the
// service reads as "start at the beginning" and "no limit".
func parseQueryInt(raw string) int {
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}
