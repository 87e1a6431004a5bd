package repository

import (
	"context"

	"dscatalog/internal/dto"
	"dscatalog/internal/model"

	"gorm.io/gorm"
)

// CategoryRepository defines CRUD operations for Category.
type CategoryRepository interface {
	FindAll(ctx context.Context, page dto.PageRequest) ([]model.Category, int64, error)
	FindByID(ctx context.Context, id int64) (*model.Category, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error)
	Create(ctx context.Context, c *model.Category) error
	Update(ctx context.Context, c *model.Category) error
	// Delete returns gorm.ErrRecordNotFound when no row has that id.
	Delete(ctx context.Context, id int64) error
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) FindAll(ctx context.Context, page dto.PageRequest) ([]model.Category, int64, error) {
	var (
		list  []model.Category
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.Category{})
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(q, "categories", page).Find(&list).Error
	return list, total, err
}

func (r *categoryRepository) FindByID(ctx context.Context, id int64) (*model.Category, error) {
	if id <= 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var c model.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Category, error) {
	var list []model.Category
	if len(ids) == 0 {
		return list, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error
	return list, err
}

func (r *categoryRepository) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepository) Update(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).Delete(&model.Category{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
