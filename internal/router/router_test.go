package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dscatalog/internal/config"
	"dscatalog/internal/infra"
	"dscatalog/internal/model"
	"dscatalog/internal/router"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routerSecret = "router_test_secret"

func newEngine(t *testing.T, env string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := infra.NewDatabase("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	cfg := &config.Config{
		Env:                    env,
		JWTSecret:              routerSecret,
		JWTExpirationHours:     1,
		ProductCacheTTLMinutes: 5,
		CORSAllowedOrigins:     "*",
	}
	return router.New(cfg, db, nil)
}

func bearer(t *testing.T, authorities ...string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":         "alex@gmail.com",
		"user_id":     1,
		"authorities": authorities,
		"exp":         time.Now().Add(time.Hour).Unix(),
		"iat":         time.Now().Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(routerSecret))
	require.NoError(t, err)
	return s
}

func serve(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCatalogoWritesRequireCatalogRole(t *testing.T) {
	r := newEngine(t, "development")

	writes := []struct{ method, path string }{
		{http.MethodPost, "/categorias"},
		{http.MethodPut, "/categorias/1"},
		{http.MethodDelete, "/categorias/1"},
		{http.MethodPost, "/produtos"},
		{http.MethodPut, "/produtos/1"},
		{http.MethodDelete, "/produtos/1"},
	}
	for _, w := range writes {
		assert.Equal(t, http.StatusUnauthorized, serve(r, w.method, w.path, map[string]string{"nome": "Hack"}, "").Code,
			"%s %s", w.method, w.path)
	}

	stranger := bearer(t, "ROLE_CLIENT")
	assert.Equal(t, http.StatusForbidden,
		serve(r, http.MethodPost, "/categorias", map[string]string{"nome": "Hack"}, stranger).Code)

	// nothing was written through the unauthenticated routes
	w := serve(r, http.MethodGet, "/categories", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalElements":0`)
}

func TestCatalogoWritesWithOperatorToken(t *testing.T) {
	r := newEngine(t, "development")
	op := bearer(t, model.RoleOperator)

	w := serve(r, http.MethodPost, "/categorias", map[string]string{"nome": "Livros"}, op)
	require.Equal(t, http.StatusCreated, w.Code)

	var cat struct {
		ID   int64  `json:"id"`
		Nome string `json:"nome"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cat))
	assert.Equal(t, "Livros", cat.Nome)

	w = serve(r, http.MethodGet, fmt.Sprintf("/categorias/%d", cat.ID), nil, "")
	assert.Equal(t, http.StatusOK, w.Code, "reads stay public")
}

func TestSwaggerOutsideProductionOnly(t *testing.T) {
	w := serve(newEngine(t, "development"), http.MethodGet, "/swagger/doc.json", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/categorias/{id}"`)

	w = serve(newEngine(t, "production"), http.MethodGet, "/swagger/doc.json", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
