package handler

import (
	"net/http"

	"dscatalog/internal/dto"
	"dscatalog/internal/service"

	"github.com/gin-gonic/gin"
)

var produtoSortable = map[string]string{
	"id":    "id",
	"nome":  "name",
	"preco": "price",
	"data":  "date",
}

// ProdutosHandler serves /produtos. The listing takes no filters.
type ProdutosHandler struct{ svc service.ProductService }

func NewProdutosHandler(svc service.ProductService) *ProdutosHandler {
	return &ProdutosHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar produtos
// @Tags         produtos
// @Produce      json
// @Param        page query int false "Zero-based page index (default 0)"
// @Param        size query int false "Page size (default 20, max 100)"
// @Param        sort query string false "Sort criterion prop[,asc|desc], repeatable"
// @Success      200 {object} dto.Page[dto.ProdutoDTO]
// @Failure      400 {object} apierror.StandardError
// @Router       /produtos [get]
func (h *ProdutosHandler) Listar(c *gin.Context) {
	page, ok := parsePageRequest(c, produtoSortable)
	if !ok {
		return
	}
	resp, err := h.svc.FindAllPaged(c.Request.Context(), dto.ProductFilter{}, page)
	if err != nil {
		respondError(c, catalogoWording, err)
		return
	}
	c.JSON(http.StatusOK, dto.MapPage(resp, dto.ProdutoFromProduct))
}

// BuscarPorID godoc
// @Summary      Buscar produto por id
// @Tags         produtos
// @Produce      json
// @Param        id path int true "Resource id"
// @Success      200 {object} dto.ProdutoDTO
// @Failure      404 {object} apierror.StandardError
// @Router       /produtos/{id} [get]
func (h *ProdutosHandler) BuscarPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, catalogoWording, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProdutoFromProduct(resp))
}

// Criar godoc
// @Summary      Criar produto
// @Tags         produtos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.ProdutoDTO true "Request body"
// @Success      201 {object} dto.ProdutoDTO
// @Failure      404 {object} apierror.StandardError
// @Failure      422 {object} apierror.ValidationError
// @Router       /produtos [post]
func (h *ProdutosHandler) Criar(c *gin.Context) {
	var req dto.ProdutoDTO
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Insert(c.Request.Context(), req.ToProduct())
	if err != nil {
		respondError(c, catalogoWording, err)
		return
	}
	created(c, resp.ID, dto.ProdutoFromProduct(resp))
}

// Atualizar godoc
// @Summary      Atualizar produto
// @Tags         produtos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Param        body body dto.ProdutoDTO true "Request body"
// @Success      200 {object} dto.ProdutoDTO
// @Failure      404 {object} apierror.StandardError
// @Failure      422 {object} apierror.ValidationError
// @Router       /produtos/{id} [put]
func (h *ProdutosHandler) Atualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ProdutoDTO
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req.ToProduct())
	if err != nil {
		respondError(c, catalogoWording, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProdutoFromProduct(resp))
}

// Remover godoc
// @Summary      Remover produto
// @Tags         produtos
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Success      204
// @Failure      400 {object} apierror.StandardError
// @Failure      404 {object} apierror.StandardError
// @Router       /produtos/{id} [delete]
func (h *ProdutosHandler) Remover(c *gin.Context) {
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
