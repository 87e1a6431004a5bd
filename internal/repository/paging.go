package repository

import (
	"dscatalog/internal/dto"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// paginate applies ORDER BY / LIMIT / OFFSET. Sort columns are already
// whitelisted by the handler; they are qualified with table so joins and
// subqueries never make them ambiguous. The primary key is always the last
// criterion so pages are stable.
func paginate(q *gorm.DB, table string, page dto.PageRequest) *gorm.DB {
	for _, o := range page.Sort {
		q = q.Order(clause.OrderByColumn{
			Column: clause.Column{Table: table, Name: o.Column},
			Desc:   o.Desc,
		})
	}
	q = q.Order(clause.OrderByColumn{Column: clause.Column{Table: table, Name: "id"}})
	return q.Limit(page.Size).Offset(page.Offset())
}
