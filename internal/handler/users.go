package handler

import (
	"net/http"

	"dscatalog/internal/dto"
	"dscatalog/internal/service"

	"github.com/gin-gonic/gin"
)

var userSortable = map[string]string{
	"id":        "id",
	"firstName": "first_name",
	"lastName":  "last_name",
	"email":     "email",
}

type UsersHandler struct{ svc service.UserService }

func NewUsersHandler(svc service.UserService) *UsersHandler {
	return &UsersHandler{svc: svc}
}

// FindAll godoc
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "Zero-based page index (default 0)"
// @Param        size query int false "Page size (default 20, max 100)"
// @Param        sort query string false "Sort criterion prop[,asc|desc], repeatable"
// @Success      200 {object} dto.Page[dto.UserDTO]
// @Failure      400 {object} apierror.StandardError
// @Router       /users [get]
func (h *UsersHandler) FindAll(c *gin.Context) {
	page, ok := parsePageRequest(c, userSortable)
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
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Success      200 {object} dto.UserDTO
// @Failure      404 {object} apierror.StandardError
// @Router       /users/{id} [get]
func (h *UsersHandler) FindByID(c *gin.Context) {
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
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.UserInsertDTO true "Request body"
// @Success      201 {object} dto.UserDTO
// @Failure      404 {object} apierror.StandardError
// @Failure      422 {object} apierror.ValidationError
// @Router       /users [post]
func (h *UsersHandler) Insert(c *gin.Context) {
	var req dto.UserInsertDTO
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
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Param        body body dto.UserDTO true "Request body"
// @Success      200 {object} dto.UserDTO
// @Failure      404 {object} apierror.StandardError
// @Failure      422 {object} apierror.ValidationError
// @Router       /users/{id} [put]
func (h *UsersHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UserDTO
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
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Resource id"
// @Success      204
// @Failure      404 {object} apierror.StandardError
// @Router       /users/{id} [delete]
func (h *UsersHandler) Delete(c *gin.Context) {
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
