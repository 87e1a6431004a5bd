package service

import (
	"context"

	"dscatalog/internal/dto"
	"dscatalog/internal/model"
	"dscatalog/internal/repository"
)

// CategoryService defines business operations for product categories.
type CategoryService interface {
	FindAllPaged(ctx context.Context, page dto.PageRequest) (dto.Page[dto.CategoryDTO], error)
	FindByID(ctx context.Context, id int64) (dto.CategoryDTO, error)
	Insert(ctx context.Context, req dto.CategoryDTO) (dto.CategoryDTO, error)
	Update(ctx context.Context, id int64, req dto.CategoryDTO) (dto.CategoryDTO, error)
	Delete(ctx context.Context, id int64) error
}

type categoryService struct {
	uow   repository.UnitOfWork
	cache ProductCache
}

func NewCategoryService(uow repository.UnitOfWork, cache ProductCache) CategoryService {
	return &categoryService{uow: uow, cache: cache}
}

func mapCategory(c model.Category) dto.CategoryDTO {
	return dto.CategoryDTO{ID: c.ID, Name: c.Name}
}

func (s *categoryService) FindAllPaged(ctx context.Context, page dto.PageRequest) (dto.Page[dto.CategoryDTO], error) {
	var (
		list  []model.Category
		total int64
	)
	err := s.uow.Read(ctx, func(r repository.Repositories) error {
		var err error
		list, total, err = r.Categories.FindAll(ctx, page)
		return err
	})
	if err != nil {
		return dto.Page[dto.CategoryDTO]{}, err
	}
	content := make([]dto.CategoryDTO, 0, len(list))
	for _, c := range list {
		content = append(content, mapCategory(c))
	}
	return dto.NewPage(content, page, total), nil
}

func (s *categoryService) FindByID(ctx context.Context, id int64) (dto.CategoryDTO, error) {
	var c *model.Category
	err := s.uow.Read(ctx, func(r repository.Repositories) error {
		var err error
		c, err = r.Categories.FindByID(ctx, id)
		return translate(err, ResourceCategory, id)
	})
	if err != nil {
		return dto.CategoryDTO{}, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) Insert(ctx context.Context, req dto.CategoryDTO) (dto.CategoryDTO, error) {
	c := &model.Category{Name: req.Name}
	err := s.uow.Write(ctx, func(r repository.Repositories) error {
		return r.Categories.Create(ctx, c)
	})
	if err != nil {
		return dto.CategoryDTO{}, err
	}
	return mapCategory(*c), nil
}

func (s *categoryService) Update(ctx context.Context, id int64, req dto.CategoryDTO) (dto.CategoryDTO, error) {
	var c *model.Category
	err := s.uow.Write(ctx, func(r repository.Repositories) error {
		var err error
		if c, err = r.Categories.FindByID(ctx, id); err != nil {
			return translate(err, ResourceCategory, id)
		}
		c.Name = req.Name
		return translate(r.Categories.Update(ctx, c), ResourceCategory, id)
	})
	if err != nil {
		return dto.CategoryDTO{}, err
	}
	// cached products embed the old name
	s.cache.InvalidateAll(ctx)
	return mapCategory(*c), nil
}

func (s *categoryService) Delete(ctx context.Context, id int64) error {
	// A category that products still reference is rejected by the join-table
	// foreign key, so a successful delete never touches a cached product.
	return s.uow.Write(ctx, func(r repository.Repositories) error {
		return translate(r.Categories.Delete(ctx, id), ResourceCategory, id)
	})
}
