package handler

import (
	"net/http"

	"dscatalog/internal/dto"
	"dscatalog/internal/service"

	"github.com/gin-gonic/gin"
)

var categoriaSortable = map[string]string{
	"id":   "id",
	"nome": "name",
}

// CategoriasHandler serves /categorias on top of the same CategoryService as
// /categories, translating to the catalogo field names and error wording.
type CategoriasHandler struct{ svc service.CategoryService }

func NewCategoriasHandler(svc service.CategoryService) *CategoriasHandler {
	return &CategoriasHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar categorias
// @Tags         categorias
// @Produce      json
// @Param        page query int false "Zero-based page index (default 0)"
// @Param        size query int false "Page size (default 20, max 100)"
// @Param        sort query string false "Sort criterion prop[,asc|desc], repeatable"
// @Success      200 {object} dto.Page[dto.CategoriaDTO]
// @Failure      400 {object} apierror.StandardError
// @Router       /categorias [get]
func (h *CategoriasHandler) Listar(c *gin.Context) {
	page, ok := parsePageRequest(c, categoriaSortable)
	if !ok {
		return
	}
	resp, err := h.svc.FindAllPaged(c.Request.Context(), page)
	if err != nil {
		respondError(c, catalogoWording, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapPage(resp, dto.CategoriaFromCategory))
}

// BuscarPorID godoc
// @Summary      Buscar categoria por id
// @Tags         categorias
// @Produce      json
// @Param        id path int true "Resource id"
// @Success      200 {object} dto.CategoriaDTO
// @Failure      404 {object} apierror.StandardError
// @Router       /categorias/{id} [get]
func (h *CategoriasHandler) BuscarPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, catalogoWording, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoriaFromCategory(resp))
}

// Criar godoc
// @Summary      Criar categoria
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CategoriaDTO true "Request body"
// @Success      201 {object} dto.CategoriaDTO
// @Failure      422 {object} apierror.ValidationError
// @Router       /categorias [post]
func (h *CategoriasHandler) Criar(c *gin.Context) {
	var req dto.CategoriaDTO
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Insert(c.Request.Context(), req.ToCategory())
	if err != nil {
		respondError(c, catalogoWording, err)
		return
	}
	created(c, resp.ID, dto.CategoriaFromCategory(resp))
}

// Atualizar godoc
// @Summary      Atualizar categoria
// @Tags         categorias
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Param        body body dto.CategoriaDTO true "Request body"
// @Success      200 {object} dto.CategoriaDTO
// @Failure      404 {object} apierror.StandardError
// @Failure      422 {object} apierror.ValidationError
// @Router       /categorias/{id} [put]
func (h *CategoriasHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CategoriaDTO
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req.ToCategory())
	if err != nil {
		respondError(c, catalogoWording, err)
		return
	}
	c.JSON(http.StatusOK, dto.CategoriaFromCategory(resp))
}

// Remover godoc
// @Summary      Remover categoria
// @Tags         categorias
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Success      204
// @Failure      400 {object} apierror.StandardError
// @Failure      404 {object} apierror.StandardError
// @Router       /categorias/{id} [delete]
func (h *CategoriasHandler) Remover(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, catalogoWording, err)
		return
	}
	c.Status(http.StatusNoContent)
}
