package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"        validate:"notblank,min=5,max=60"`
	Description string          `json:"description" validate:"notblank"`
	Price       decimal.Decimal `json:"price"       validate:"gt=0" swaggertype:"number"`
	ImgURL      string          `json:"imgUrl"`
	Date        time.Time       `json:"date"        validate:"notfuture"`
	Categories  []CategoryDTO   `json:"categories"  validate:"min=1"`
}

// CategoryIDs lists the ids referenced by the DTO, in request order.
func (p ProductDTO) CategoryIDs() []int64 {
	ids := make([]int64, 0, len(p.Categories))
	for _, c := range p.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// ProductFilter carries the /products query filters. CategoryID 0 means
// "every category" and an empty Name means "any name".
type ProductFilter struct {
	CategoryID int64  `form:"categoryId,default=0"`
	Name       string `form:"name"`
}
