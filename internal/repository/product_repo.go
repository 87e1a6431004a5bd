package repository

import (
	"context"
	"strings"

	"dscatalog/internal/dto"
	"dscatalog/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProductRepository defines the data access contract for products.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type ProductRepository interface {
	// Search returns one page of products, without categories, whose name
	// contains name (case-insensitive) and, when categoryID != 0, that belong
	// to that category. Each product appears at most once.
	Search(ctx context.Context, categoryID int64, name string, page dto.PageRequest) ([]model.Product, int64, error)
	// LoadCategories fills Categories of every product with one query.
	LoadCategories(ctx context.Context, products []model.Product) error
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	Create(ctx context.Context, p *model.Product) error
	// Update overwrites the scalar columns and replaces the category set.
	Update(ctx context.Context, p *model.Product) error
	// Delete removes the product and its category links. It returns
	// gorm.ErrRecordNotFound when no row has that id.
	Delete(ctx context.Context, id int64) error
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func orderCategoriesByName(db *gorm.DB) *gorm.DB {
	return db.Order("categories.name ASC").Order("categories.id ASC")
}

func (r *productRepo) Search(ctx context.Context, categoryID int64, name string, page dto.PageRequest) ([]model.Product, int64, error) {
	var (
		products []model.Product
		total    int64
	)

	q := r.db.WithContext(ctx).Model(&model.Product{})

	if categoryID != 0 {
		// Membership through a subquery rather than a join: a join would emit
		// one row per matching link and LIMIT/OFFSET would page over links.
		members := r.db.Session(&gorm.Session{NewDB: true}).
			Table("product_categories").
			Select("product_id").
			Where("category_id = ?", categoryID)
		q = q.Where("products.id IN (?)", members)
	}
	if name != "" {
		q = q.Where(lowerFunc(r.db)+"(products.name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := paginate(q, "products", page).Find(&products).Error
	return products, total, err
}

// lowerFunc names a case-folding SQL function that handles non-ASCII letters
// on the current dialect (see infra.NewDatabase for unicode_lower).
func lowerFunc(db *gorm.DB) string {
	if db.Dialector.Name() == "sqlite" {
		return "unicode_lower"
	}
	return "LOWER"
}

// productCategoryRow is one (product, category) link with the category columns.
type productCategoryRow struct {
	ProductID int64
	model.Category
}

func (r *productRepo) LoadCategories(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
	}

	var rows []productCategoryRow
	err := orderCategoriesByName(r.db.WithContext(ctx).
		Table("categories").
		Select("product_categories.product_id, categories.*").
		Joins("JOIN product_categories ON product_categories.category_id = categories.id").
		Where("product_categories.product_id IN ?", ids)).
		Scan(&rows).Error
	if err != nil {
		return err
	}

	byProduct := make(map[int64][]model.Category, len(products))
	for _, row := range rows {
		byProduct[row.ProductID] = append(byProduct[row.ProductID], row.Category)
	}
	for i := range products {
		products[i].Categories = byProduct[products[i].ID]
	}
	return nil
}

func (r *productRepo) FindByID(ctx context.Context, id int64) (*model.Product, error) {
	if id <= 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var p model.Product
	err := r.db.WithContext(ctx).Preload("Categories", orderCategoriesByName).First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	// Categories already exist: write the links only, never the category rows.
	return r.db.WithContext(ctx).Omit("Categories.*").Create(p).Error
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(p).Error; err != nil {
		return err
	}
	return db.Model(p).Omit("Categories.*").Association("Categories").Replace(p.Categories)
}

func (r *productRepo) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).Select("Categories").Delete(&model.Product{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
