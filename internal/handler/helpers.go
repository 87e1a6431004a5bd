package handler

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"dscatalog/internal/apierror"
	"dscatalog/internal/dto"
	"dscatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// gt=0 work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	// Report JSON property names, not Go field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("notblank", validators.NotBlank)
	_ = validate.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		t, ok := fl.Field().Interface().(time.Time)
		return !ok || !t.After(time.Now())
	})
}

const validationTitle = "Erro de validação"

// fieldMessage renders one failed validation tag in the wording clients show
// next to the field.
func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "Campo requerido"
	case "email":
		return "Favor entrar um email válido"
	case "gt":
		return "Deve ser um valor positivo"
	case "notfuture":
		return "A data não pode ser futura"
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Deve conter ao menos %s item(ns)", fe.Param())
		}
		return fmt.Sprintf("Deve ter no mínimo %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("Deve ter no máximo %s caracteres", fe.Param())
	default:
		return "Valor inválido"
	}
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if binding or validation
// fails; the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, "JSON inválido: "+err.Error())
		return false
	}
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			_ = c.Error(err)
			return false
		}
		fields := make([]apierror.FieldMessage, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apierror.FieldMessage{FieldName: fe.Field(), Message: fieldMessage(fe)})
		}
		unprocessable(c, fields)
		return false
	}
	return true
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest,
		apierror.New(http.StatusBadRequest, "Requisição inválida", msg, c.Request.URL.Path))
}

func unprocessable(c *gin.Context, fields []apierror.FieldMessage) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity,
		apierror.NewValidation(http.StatusUnprocessableEntity, validationTitle,
			"Um ou mais campos estão inválidos", c.Request.URL.Path, fields))
}

// parseID reads the :id path parameter. It writes a 400 and returns false
// when the value is not an integer. Zero and negative ids go on to the service,
// which answers not found.
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		badRequest(c, "Id inválido: "+c.Param("id"))
		return 0, false
	}
	return id, true
}

// parsePageRequest reads page, size and the repeated sort=prop[,asc|desc]
// parameters. sortable maps each JSON property clients may sort by to its
// column. Sizes above dto.MaxPageSize are clamped, and a page whose offset
// would overflow int is rejected.
func parsePageRequest(c *gin.Context, sortable map[string]string) (dto.PageRequest, bool) {
	req := dto.PageRequest{Page: 0, Size: dto.DefaultPageSize}

	if v := c.Query("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(c, "Parâmetro page inválido: "+v)
			return req, false
		}
		req.Page = n
	}
	if v := c.Query("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(c, "Parâmetro size inválido: "+v)
			return req, false
		}
		req.Size = min(n, dto.MaxPageSize)
	}
	if req.Page > math.MaxInt/req.Size {
		badRequest(c, "Parâmetro page inválido: "+c.Query("page"))
		return req, false
	}

	for _, raw := range c.QueryArray("sort") {
		parts := strings.Split(raw, ",")
		column, ok := sortable[strings.TrimSpace(parts[0])]
		if !ok || len(parts) > 2 {
			badRequest(c, "Parâmetro sort inválido: "+raw)
			return req, false
		}
		order := dto.SortOrder{Column: column}
		if len(parts) == 2 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc":
			case "desc":
				order.Desc = true
			default:
				badRequest(c, "Parâmetro sort inválido: "+raw)
				return req, false
			}
		}
		req.Sort = append(req.Sort, order)
	}
	return req, true
}

// created answers 201 with a Location header pointing at the new resource.
func created(c *gin.Context, id int64, body any) {
	c.Header("Location", fmt.Sprintf("%s/%d", strings.TrimSuffix(c.Request.URL.Path, "/"), id))
	c.JSON(http.StatusCreated, body)
}

// wording holds the titles and messages one API surface uses for domain errors.
type wording struct {
	notFoundTitle    func(resource string) string
	notFoundMessage  func(resource string, id int64) string
	integrityTitle   string
	integrityMessage func(resource string, id int64) string
}

// respondError maps a service error onto the HTTP error envelope. Errors that
// are not domain errors are handed to the ErrorHandler middleware.
func respondError(c *gin.Context, w wording, err error) {
	var (
		notFound  *service.NotFoundError
		integrity *service.IntegrityError
		field     *service.FieldError
	)
	path := c.Request.URL.Path
	switch {
	case errors.As(err, &notFound):
		c.AbortWithStatusJSON(http.StatusNotFound, apierror.New(http.StatusNotFound,
			w.notFoundTitle(notFound.Resource), w.notFoundMessage(notFound.Resource, notFound.ID), path))
	case errors.As(err, &integrity):
		c.AbortWithStatusJSON(http.StatusBadRequest, apierror.New(http.StatusBadRequest,
			w.integrityTitle, w.integrityMessage(integrity.Resource, integrity.ID), path))
	case errors.As(err, &field):
		unprocessable(c, []apierror.FieldMessage{{FieldName: field.Field, Message: field.Message}})
	default:
		_ = c.Error(err)
	}
}

// dscatalogWording is used by /categories, /products and /users.
var dscatalogWording = wording{
	notFoundTitle: func(string) string { return "Recurso não encontrado" },
	notFoundMessage: func(_ string, id int64) string {
		return fmt.Sprintf("Id não encontrado %d", id)
	},
	integrityTitle:   "Database exception",
	integrityMessage: func(string, int64) string { return "Integridade violada" },
}

// catalogoWording is used by /categorias and /produtos.
var catalogoWording = wording{
	notFoundTitle: func(resource string) string {
		if resource == service.ResourceCategory {
			return "Categoria não encontrada"
		}
		return "Produto não encontrado"
	},
	notFoundMessage: func(resource string, id int64) string {
		if resource == service.ResourceCategory {
			return fmt.Sprintf("Categoria com id %d não encontrada", id)
		}
		return fmt.Sprintf("Produto com id %d não encontrado", id)
	},
	integrityTitle: "Database exception",
	integrityMessage: func(resource string, id int64) string {
		if resource == service.ResourceCategory {
			return fmt.Sprintf("Categoria com id %d não pode ser removida, pois está associada a produtos.", id)
		}
		return "Integridade violada"
	},
}
