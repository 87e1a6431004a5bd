package handler

import (
	"net/http"

	"dscatalog/internal/dto"
	"dscatalog/internal/service"

	"github.com/gin-gonic/gin"
)

var productSortable = map[string]string{
	"id":    "id",
	"name":  "name",
	"price": "price",
	"date":  "date",
}

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// FindAll godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        categoryId query int false "Category filter, 0 for all"
// @Param        name query string false "Case-insensitive name fragment"
// @Param        page query int false "Zero-based page index (default 0)"
// @Param        size query int false "Page size (default 20, max 100)"
// @Param        sort query string false "Sort criterion prop[,asc|desc], repeatable"
// @Success      200 {object} dto.Page[dto.ProductDTO]
// @Failure      400 {object} apierror.StandardError
// @Router       /products [get]
func (h *ProductsHandler) FindAll(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil || filter.CategoryID < 0 {
		badRequest(c, "Parâmetro categoryId inválido: "+c.Query("categoryId"))
		return
	}
	page, ok := parsePageRequest(c, productSortable)
	if !ok {
		return
	}
	resp, err := h.svc.FindAllPaged(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, dscatalogWording, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FindByID godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path int true "Resource id"
// @Success      200 {object} dto.ProductDTO
// @Failure      404 {object} apierror.StandardError
// @Router       /products/{id} [get]
func (h *ProductsHandler) FindByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, dscatalogWording, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Insert godoc
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProductDTO true "Request body"
// @Success      201 {object} dto.ProductDTO
// @Failure      404 {object} apierror.StandardError
// @Failure      422 {object} apierror.ValidationError
// @Router       /products [post]
func (h *ProductsHandler) Insert(c *gin.Context) {
	var req dto.ProductDTO
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Insert(c.Request.Context(), req)
	if err != nil {
		respondError(c, dscatalogWording, err)
		return
	}
	created(c, resp.ID, resp)
}

// Update godoc
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Param        body body dto.ProductDTO true "Request body"
// @Success      200 {object} dto.ProductDTO
// @Failure      404 {object} apierror.StandardError
// @Failure      422 {object} apierror.ValidationError
// @Router       /products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ProductDTO
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, dscatalogWording, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Success      204
// @Failure      404 {object} apierror.StandardError
// @Router       /products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, dscatalogWording, err)
		return
	}
	c.Status(http.StatusNoContent)
}
