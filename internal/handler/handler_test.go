package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"dscatalog/internal/dto"
	"dscatalog/internal/handler"
	"dscatalog/internal/infra"
	"dscatalog/internal/middleware"
	"dscatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Stub services ────────────────────────────────────────────────────────────

type stubCategories struct {
	page    dto.PageRequest
	err     error
	content []dto.CategoryDTO
}

func (s *stubCategories) FindAllPaged(_ context.Context, page dto.PageRequest) (dto.Page[dto.CategoryDTO], error) {
	s.page = page
	return dto.NewPage(s.content, page, int64(len(s.content))), s.err
}

func (s *stubCategories) FindByID(_ context.Context, id int64) (dto.CategoryDTO, error) {
	return dto.CategoryDTO{ID: id, Name: "Books"}, s.err
}

func (s *stubCategories) Insert(_ context.Context, req dto.CategoryDTO) (dto.CategoryDTO, error) {
	req.ID = 5
	return req, s.err
}

func (s *stubCategories) Update(_ context.Context, id int64, req dto.CategoryDTO) (dto.CategoryDTO, error) {
	req.ID = id
	return req, s.err
}

func (s *stubCategories) Delete(context.Context, int64) error { return s.err }

type stubProducts struct {
	filter dto.ProductFilter
	page   dto.PageRequest
	err    error
}

func (s *stubProducts) FindAllPaged(_ context.Context, filter dto.ProductFilter, page dto.PageRequest) (dto.Page[dto.ProductDTO], error) {
	s.filter, s.page = filter, page
	return dto.NewPage[dto.ProductDTO](nil, page, 0), s.err
}

func (s *stubProducts) FindByID(_ context.Context, id int64) (dto.ProductDTO, error) {
	return dto.ProductDTO{ID: id}, s.err
}

func (s *stubProducts) Insert(_ context.Context, req dto.ProductDTO) (dto.ProductDTO, error) {
	req.ID = 11
	return req, s.err
}

func (s *stubProducts) Update(_ context.Context, id int64, req dto.ProductDTO) (dto.ProductDTO, error) {
	req.ID = id
	return req, s.err
}

func (s *stubProducts) Delete(context.Context, int64) error { return s.err }

type stubUsers struct{ err error }

func (s *stubUsers) FindAllPaged(_ context.Context, page dto.PageRequest) (dto.Page[dto.UserDTO], error) {
	return dto.NewPage[dto.UserDTO](nil, page, 0), s.err
}

func (s *stubUsers) FindByID(_ context.Context, id int64) (dto.UserDTO, error) {
	return dto.UserDTO{ID: id}, s.err
}

func (s *stubUsers) Insert(_ context.Context, req dto.UserInsertDTO) (dto.UserDTO, error) {
	req.ID = 3
	return req.UserDTO, s.err
}

func (s *stubUsers) Update(_ context.Context, id int64, req dto.UserDTO) (dto.UserDTO, error) {
	req.ID = id
	return req, s.err
}

func (s *stubUsers) Delete(context.Context, int64) error { return s.err }

type stubAuth struct{ err error }

func (s *stubAuth) Login(context.Context, dto.LoginRequest) (*dto.LoginResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &dto.LoginResponse{AccessToken: "token", TokenType: "bearer", ExpiresIn: 3600}, nil
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type services struct {
	categories *stubCategories
	products   *stubProducts
	users      *stubUsers
	auth       *stubAuth
}

func newTestRouter() (*gin.Engine, *services) {
	gin.SetMode(gin.TestMode)
	s := &services{&stubCategories{}, &stubProducts{}, &stubUsers{}, &stubAuth{}}

	r := gin.New()
	r.Use(middleware.ErrorHandler())

	cat := handler.NewCategoriesHandler(s.categories)
	r.GET("/categories", cat.FindAll)
	r.GET("/categories/:id", cat.FindByID)
	r.POST("/categories", cat.Insert)
	r.PUT("/categories/:id", cat.Update)
	r.DELETE("/categories/:id", cat.Delete)

	prod := handler.NewProductsHandler(s.products)
	r.GET("/products", prod.FindAll)
	r.GET("/products/:id", prod.FindByID)
	r.POST("/products", prod.Insert)
	r.PUT("/products/:id", prod.Update)
	r.DELETE("/products/:id", prod.Delete)

	users := handler.NewUsersHandler(s.users)
	r.POST("/users", users.Insert)
	r.PUT("/users/:id", users.Update)

	r.POST("/auth/login", handler.NewAuthHandler(s.auth).Login)

	categorias := handler.NewCategoriasHandler(s.categories)
	r.GET("/categorias", categorias.Listar)
	r.POST("/categorias", categorias.Criar)
	r.DELETE("/categorias/:id", categorias.Remover)

	produtos := handler.NewProdutosHandler(s.products)
	r.GET("/produtos", produtos.Listar)
	r.GET("/produtos/:id", produtos.BuscarPorID)
	r.POST("/produtos", produtos.Criar)

	return r, s
}

func do(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		raw, _ := json.Marshal(b)
		buf = bytes.NewBuffer(raw)
	}
	req := httptest.NewRequest(method, path, buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type errorBody struct {
	Timestamp string `json:"timestamp"`
	Status    int    `json:"status"`
	Error     string `json:"error"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Errors    []struct {
		FieldName string `json:"fieldName"`
		Message   string `json:"message"`
	} `json:"errors"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var e errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

func (e errorBody) fieldNames() []string {
	out := make([]string, 0, len(e.Errors))
	for _, f := range e.Errors {
		out = append(out, f.FieldName)
	}
	return out
}

func validProduct() map[string]any {
	return map[string]any{
		"name":        "Smart TV 50",
		"description": "4K television",
		"price":       2190.5,
		"imgUrl":      "https://img.example/tv.jpg",
		"date":        "2020-07-13T20:50:07Z",
		"categories":  []map[string]any{{"id": 2}},
	}
}

// ── Tests: paging parameters ─────────────────────────────────────────────────

func TestFindAll_DefaultPaging(t *testing.T) {
	r, s := newTestRouter()
	s.categories.content = []dto.CategoryDTO{{ID: 1, Name: "Books"}}

	w := do(r, http.MethodGet, "/categories", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.PageRequest{Page: 0, Size: dto.DefaultPageSize}, s.categories.page)

	var page dto.Page[dto.CategoryDTO]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, "Books", page.Content[0].Name)
	assert.True(t, page.First)
}

func TestFindAll_PagingParams(t *testing.T) {
	r, s := newTestRouter()

	w := do(r, http.MethodGet, "/categories?page=2&size=500&sort=name,desc&sort=id", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, s.categories.page.Page)
	assert.Equal(t, dto.MaxPageSize, s.categories.page.Size)
	assert.Equal(t, []dto.SortOrder{{Column: "name", Desc: true}, {Column: "id"}}, s.categories.page.Sort)
}

func TestFindAll_BadPagingParams(t *testing.T) {
	r, _ := newTestRouter()

	for _, q := range []string{
		"page=-1", "size=0", "size=x", "sort=password", "sort=name,sideways",
		"page=922337203685477580&size=20", "page=9223372036854775807",
	} {
		w := do(r, http.MethodGet, "/categories?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
		e := decodeError(t, w)
		assert.Equal(t, http.StatusBadRequest, e.Status, q)
		assert.Equal(t, "/categories", e.Path, q)
	}
}

func TestProducts_FindAll_Filters(t *testing.T) {
	r, s := newTestRouter()

	w := do(r, http.MethodGet, "/products?categoryId=2&name=tv&sort=price,asc", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ProductFilter{CategoryID: 2, Name: "tv"}, s.products.filter)
	assert.Equal(t, []dto.SortOrder{{Column: "price"}}, s.products.page.Sort)
}

func TestProducts_FindAll_DefaultsToAllCategories(t *testing.T) {
	r, s := newTestRouter()

	w := do(r, http.MethodGet, "/products", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ProductFilter{}, s.products.filter)
}

func TestProducts_FindAll_BadCategoryID(t *testing.T) {
	r, _ := newTestRouter()

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/products?categoryId=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/products?categoryId=-3", nil).Code)
}

// ── Tests: dscatalog CRUD ────────────────────────────────────────────────────

func TestCategories_Insert_Created(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodPost, "/categories", map[string]any{"name": "Garden"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/categories/5", w.Header().Get("Location"))
	assert.JSONEq(t, `{"id":5,"name":"Garden"}`, w.Body.String())
}

func TestCategories_Insert_BlankName(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodPost, "/categories", map[string]any{"name": "   "})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "Erro de validação", e.Error)
	assert.Equal(t, []string{"name"}, e.fieldNames())
	assert.Equal(t, "Campo requerido", e.Errors[0].Message)
}

func TestCategories_Insert_MalformedJSON(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodPost, "/categories", `{"name":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCategories_FindByID_BadID(t *testing.T) {
	r, _ := newTestRouter()

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/categories/abc", nil).Code)
}

func TestCategories_FindByID_NotFound(t *testing.T) {
	r, s := newTestRouter()
	s.categories.err = &service.NotFoundError{Resource: service.ResourceCategory, ID: 9}

	w := do(r, http.MethodGet, "/categories/9", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.Equal(t, "Recurso não encontrado", e.Error)
	assert.Equal(t, "Id não encontrado 9", e.Message)
	assert.Equal(t, "/categories/9", e.Path)
	assert.NotEmpty(t, e.Timestamp)
}

func TestCategories_FindByID_NonPositiveIsNotFound(t *testing.T) {
	r, s := newTestRouter()

	for _, id := range []int64{0, -3} {
		s.categories.err = &service.NotFoundError{Resource: service.ResourceCategory, ID: id}
		path := fmt.Sprintf("/categories/%d", id)

		w := do(r, http.MethodGet, path, nil)

		require.Equal(t, http.StatusNotFound, w.Code, path)
		assert.Equal(t, fmt.Sprintf("Id não encontrado %d", id), decodeError(t, w).Message)
	}
}

func TestCategories_Delete(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodDelete, "/categories/1", nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCategories_Delete_Integrity(t *testing.T) {
	r, s := newTestRouter()
	s.categories.err = &service.IntegrityError{Resource: service.ResourceCategory, ID: 1}

	w := do(r, http.MethodDelete, "/categories/1", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "Database exception", e.Error)
	assert.Equal(t, "Integridade violada", e.Message)
}

func TestCategories_UnexpectedError(t *testing.T) {
	r, s := newTestRouter()
	s.categories.err = errors.New("connection reset")

	w := do(r, http.MethodGet, "/categories/1", nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, http.StatusInternalServerError, e.Status)
	assert.NotContains(t, e.Message, "connection reset")
}

func TestProducts_Insert_Created(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodPost, "/products", validProduct())

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/products/11", w.Header().Get("Location"))
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 2190.5, got["price"], "price is a JSON number")
}

func TestProducts_Insert_Validation(t *testing.T) {
	r, _ := newTestRouter()
	body := validProduct()
	body["name"] = "TV"
	body["description"] = ""
	body["price"] = -1
	body["date"] = "2999-01-01T00:00:00Z"
	body["categories"] = []map[string]any{}

	w := do(r, http.MethodPost, "/products", body)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.ElementsMatch(t,
		[]string{"name", "description", "price", "date", "categories"},
		decodeError(t, w).fieldNames())
}

func TestProducts_Update_UnknownCategory(t *testing.T) {
	r, s := newTestRouter()
	s.products.err = &service.NotFoundError{Resource: service.ResourceCategory, ID: 2}

	w := do(r, http.MethodPut, "/products/4", validProduct())

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Id não encontrado 2", decodeError(t, w).Message)
}

func TestUsers_Insert_EmailTaken(t *testing.T) {
	r, s := newTestRouter()
	s.users.err = &service.FieldError{Field: "email", Message: "Email já existe"}

	w := do(r, http.MethodPost, "/users", map[string]any{
		"firstName": "Maria", "email": "maria@gmail.com", "password": "123456",
	})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, []string{"email"}, e.fieldNames())
	assert.Equal(t, "Email já existe", e.Errors[0].Message)
}

func TestUsers_Update_UnknownRole(t *testing.T) {
	r, s := newTestRouter()
	s.users.err = &service.NotFoundError{Resource: service.ResourceRole, ID: 404}

	w := do(r, http.MethodPut, "/users/2", map[string]any{
		"firstName": "Alex", "email": "alex@gmail.com", "roles": []map[string]any{{"id": 404}},
	})

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Id não encontrado 404", decodeError(t, w).Message)
}

func TestUsers_Insert_Validation(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodPost, "/users", map[string]any{"firstName": "", "email": "not-an-email", "password": "123"})

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.ElementsMatch(t, []string{"firstName", "email", "password"}, decodeError(t, w).fieldNames())
}

func TestLogin(t *testing.T) {
	r, s := newTestRouter()

	w := do(r, http.MethodPost, "/auth/login", map[string]any{"username": "maria@gmail.com", "password": "123456"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"access_token":"token","token_type":"bearer","expires_in":3600}`, w.Body.String())

	s.auth.err = service.ErrInvalidCredentials
	w = do(r, http.MethodPost, "/auth/login", map[string]any{"username": "maria@gmail.com", "password": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(r, http.MethodPost, "/auth/login", map[string]any{"username": "maria", "password": "bad"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// ── Tests: catalogo surface ──────────────────────────────────────────────────

func TestCategorias_Listar(t *testing.T) {
	r, s := newTestRouter()
	s.categories.content = []dto.CategoryDTO{{ID: 1, Name: "Livros"}}

	w := do(r, http.MethodGet, "/categorias?sort=nome", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []dto.SortOrder{{Column: "name"}}, s.categories.page.Sort)
	var page map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, []any{map[string]any{"id": float64(1), "nome": "Livros"}}, page["content"])
	assert.Equal(t, float64(1), page["totalElements"])
}

func TestCategorias_Criar(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodPost, "/categorias", map[string]any{"nome": "Jardim"})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/categorias/5", w.Header().Get("Location"))
	assert.JSONEq(t, `{"id":5,"nome":"Jardim"}`, w.Body.String())
}

func TestCategorias_Remover_Associada(t *testing.T) {
	r, s := newTestRouter()
	s.categories.err = &service.IntegrityError{Resource: service.ResourceCategory, ID: 3}

	w := do(r, http.MethodDelete, "/categorias/3", nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "Database exception", e.Error)
	assert.Equal(t, "Categoria com id 3 não pode ser removida, pois está associada a produtos.", e.Message)
}

func TestCategorias_Remover_NaoEncontrada(t *testing.T) {
	r, s := newTestRouter()
	s.categories.err = &service.NotFoundError{Resource: service.ResourceCategory, ID: 99}

	w := do(r, http.MethodDelete, "/categorias/99", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "Categoria não encontrada", e.Error)
	assert.Equal(t, "Categoria com id 99 não encontrada", e.Message)
}

func TestProdutos_BuscarPorID_NaoEncontrado(t *testing.T) {
	r, s := newTestRouter()
	s.products.err = &service.NotFoundError{Resource: service.ResourceProduct, ID: 9}

	w := do(r, http.MethodGet, "/produtos/9", nil)

	require.Equal(t, http.StatusNotFound, w.Code)
	e := decodeError(t, w)
	assert.Equal(t, "Produto não encontrado", e.Error)
	assert.Equal(t, "Produto com id 9 não encontrado", e.Message)
}

func TestProdutos_Criar(t *testing.T) {
	r, _ := newTestRouter()

	w := do(r, http.MethodPost, "/produtos", map[string]any{
		"nome":       "Smart TV 50",
		"descricao":  "Televisão 4K",
		"preco":      2190.5,
		"imagemUrl":  "https://img.example/tv.jpg",
		"data":       "2020-07-13T20:50:07Z",
		"categorias": []map[string]any{{"id": 2}},
	})

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/produtos/11", w.Header().Get("Location"))
	var got map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Smart TV 50", got["nome"])
	assert.Equal(t, []any{map[string]any{"id": float64(2), "nome": ""}}, got["categorias"])
}

func TestProdutos_Listar_IgnoresFilters(t *testing.T) {
	r, s := newTestRouter()

	w := do(r, http.MethodGet, "/produtos?categoryId=4&name=tv", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, dto.ProductFilter{}, s.products.filter)
}

func TestHealth_WithoutCache(t *testing.T) {
	db, err := infra.NewDatabase("sqlite", "file:health?mode=memory&cache=shared")
	require.NoError(t, err)

	r := gin.New()
	r.GET("/health", handler.Health(db, nil, nil))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "connected", body["db"])
	assert.Equal(t, "disabled", body["redis"])
	assert.NotContains(t, body, "cache_breaker")
}
