package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ── Catalogo surface (/categorias, /produtos) ─────────────────────────────────
// Same resources as CategoryDTO / ProductDTO, with the field names the catalogo
// clients expect.

type CategoriaDTO struct {
	ID   int64  `json:"id"`
	Nome string `json:"nome" validate:"notblank"`
}

type ProdutoDTO struct {
	ID         int64           `json:"id"`
	Nome       string          `json:"nome"       validate:"notblank,min=5,max=60"`
	Descricao  string          `json:"descricao"  validate:"notblank"`
	Preco      decimal.Decimal `json:"preco"      validate:"gt=0" swaggertype:"number"`
	ImagemURL  string          `json:"imagemUrl"`
	Data       time.Time       `json:"data"       validate:"notfuture"`
	Categorias []CategoriaDTO  `json:"categorias" validate:"min=1"`
}

func CategoriaFromCategory(c CategoryDTO) CategoriaDTO {
	return CategoriaDTO{ID: c.ID, Nome: c.Name}
}

func (c CategoriaDTO) ToCategory() CategoryDTO {
	return CategoryDTO{ID: c.ID, Name: c.Nome}
}

func ProdutoFromProduct(p ProductDTO) ProdutoDTO {
	categorias := make([]CategoriaDTO, 0, len(p.Categories))
	for _, c := range p.Categories {
		categorias = append(categorias, CategoriaFromCategory(c))
	}
	return ProdutoDTO{
		ID:         p.ID,
		Nome:       p.Name,
		Descricao:  p.Description,
		Preco:      p.Price,
		ImagemURL:  p.ImgURL,
		Data:       p.Date,
		Categorias: categorias,
	}
}

func (p ProdutoDTO) ToProduct() ProductDTO {
	categories := make([]CategoryDTO, 0, len(p.Categorias))
	for _, c := range p.Categorias {
		categories = append(categories, c.ToCategory())
	}
	return ProductDTO{
		ID:          p.ID,
		Name:        p.Nome,
		Description: p.Descricao,
		Price:       p.Preco,
		ImgURL:      p.ImagemURL,
		Date:        p.Data,
		Categories:  categories,
	}
}
