package handler

import (
	"net/http"

	"dscatalog/internal/dto"
	"dscatalog/internal/service"

	"github.com/gin-gonic/gin"
)

var categorySortable = map[string]string{
	"id":        "id",
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// FindAll godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Param        page query int false "Zero-based page index (default 0)"
// @Param        size query int false "Page size (default 20, max 100)"
// @Param        sort query string false "Sort criterion prop[,asc|desc], repeatable"
// @Success      200 {object} dto.Page[dto.CategoryDTO]
// @Failure      400 {object} apierror.StandardError
// @Router       /categories [get]
func (h *CategoriesHandler) FindAll(c *gin.Context) {
	page, ok := parsePageRequest(c, categorySortable)
	if !ok {
		return
	}
	resp, err := h.svc.FindAllPaged(c.Request.Context(), page)
	if err != nil {
		respondError(c, dscatalogWording, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// FindByID godoc
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id path int true "Resource id"
// @Success      200 {object} dto.CategoryDTO
// @Failure      404 {object} apierror.StandardError
// @Router       /categories/{id} [get]
func (h *CategoriesHandler) FindByID(c *gin.Context) {
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
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CategoryDTO true "Request body"
// @Success      201 {object} dto.CategoryDTO
// @Failure      422 {object} apierror.ValidationError
// @Router       /categories [post]
func (h *CategoriesHandler) Insert(c *gin.Context) {
	var req dto.CategoryDTO
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
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Param        body body dto.CategoryDTO true "Request body"
// @Success      200 {object} dto.CategoryDTO
// @Failure      404 {object} apierror.StandardError
// @Failure      422 {object} apierror.ValidationError
// @Router       /categories/{id} [put]
func (h *CategoriesHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CategoryDTO
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
// @Summary      Delete a category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Success      204
// @Failure      400 {object} apierror.StandardError
// @Failure      404 {object} apierror.StandardError
// @Router       /categories/{id} [delete]
func (h *CategoriesHandler) Delete(c *gin.Context) {
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
