package handler

import (
	"errors"
	"net/http"

	"dscatalog/internal/apierror"
	"dscatalog/internal/dto"
	"dscatalog/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Issue a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Request body"
// @Success      200 {object} dto.LoginResponse
// @Failure      401 {object} apierror.StandardError
// @Failure      422 {object} apierror.ValidationError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, apierror.New(http.StatusUnauthorized,
			"Unauthorized", "Bad credentials", c.Request.URL.Path))
		return
	}
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
