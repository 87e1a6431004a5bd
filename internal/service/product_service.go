package service

import (
	"context"
	"sort"

	"dscatalog/internal/dto"
	"dscatalog/internal/model"
	"dscatalog/internal/repository"
)

// ProductCache caches product DTOs by id. *infra.ProductCache implements it.
// Generation is read before loading a product and passed to Set, which drops
// the entry if an invalidation for that id ran in between.
type ProductCache interface {
	Get(ctx context.Context, id int64) (*dto.ProductDTO, bool)
	Generation(id int64) uint64
	Set(ctx context.Context, p dto.ProductDTO, generation uint64)
	Invalidate(ctx context.Context, id int64)
	InvalidateAll(ctx context.Context)
}

// ProductService defines the business logic contract for products.
type ProductService interface {
	FindAllPaged(ctx context.Context, filter dto.ProductFilter, page dto.PageRequest) (dto.Page[dto.ProductDTO], error)
	FindByID(ctx context.Context, id int64) (dto.ProductDTO, error)
	Insert(ctx context.Context, req dto.ProductDTO) (dto.ProductDTO, error)
	Update(ctx context.Context, id int64, req dto.ProductDTO) (dto.ProductDTO, error)
	Delete(ctx context.Context, id int64) error
}

type productService struct {
	uow   repository.UnitOfWork
	cache ProductCache
}

func NewProductService(uow repository.UnitOfWork, cache ProductCache) ProductService {
	return &productService{uow: uow, cache: cache}
}

// mapProduct flattens a product and its categories, ordered by name then id.
func mapProduct(p model.Product) dto.ProductDTO {
	cats := make([]model.Category, len(p.Categories))
	copy(cats, p.Categories)
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].Name != cats[j].Name {
			return cats[i].Name < cats[j].Name
		}
		return cats[i].ID < cats[j].ID
	})
	categories := make([]dto.CategoryDTO, 0, len(cats))
	for _, c := range cats {
		categories = append(categories, mapCategory(c))
	}
	return dto.ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		ImgURL:      p.ImgURL,
		Date:        p.Date,
		Categories:  categories,
	}
}

// FindAllPaged pages over products first and loads their categories with a
// second query: paging a categories join directly would count links, not
// products.
func (s *productService) FindAllPaged(ctx context.Context, filter dto.ProductFilter, page dto.PageRequest) (dto.Page[dto.ProductDTO], error) {
	var (
		products []model.Product
		total    int64
	)
	err := s.uow.Read(ctx, func(r repository.Repositories) error {
		var err error
		products, total, err = r.Products.Search(ctx, filter.CategoryID, filter.Name, page)
		if err != nil {
			return err
		}
		return r.Products.LoadCategories(ctx, products)
	})
	if err != nil {
		return dto.Page[dto.ProductDTO]{}, err
	}
	content := make([]dto.ProductDTO, 0, len(products))
	for _, p := range products {
		content = append(content, mapProduct(p))
	}
	return dto.NewPage(content, page, total), nil
}

func (s *productService) FindByID(ctx context.Context, id int64) (dto.ProductDTO, error) {
	if cached, ok := s.cache.Get(ctx, id); ok {
		return *cached, nil
	}
	generation := s.cache.Generation(id)
	var p *model.Product
	err := s.uow.Read(ctx, func(r repository.Repositories) error {
		var err error
		p, err = r.Products.FindByID(ctx, id)
		return translate(err, ResourceProduct, id)
	})
	if err != nil {
		return dto.ProductDTO{}, err
	}
	resp := mapProduct(*p)
	s.cache.Set(ctx, resp, generation)
	return resp, nil
}

func (s *productService) Insert(ctx context.Context, req dto.ProductDTO) (dto.ProductDTO, error) {
	p := &model.Product{}
	err := s.uow.Write(ctx, func(r repository.Repositories) error {
		if err := copyDTOToProduct(ctx, r, req, p); err != nil {
			return err
		}
		return r.Products.Create(ctx, p)
	})
	if err != nil {
		return dto.ProductDTO{}, err
	}
	return mapProduct(*p), nil
}

func (s *productService) Update(ctx context.Context, id int64, req dto.ProductDTO) (dto.ProductDTO, error) {
	var p *model.Product
	err := s.uow.Write(ctx, func(r repository.Repositories) error {
		var err error
		if p, err = r.Products.FindByID(ctx, id); err != nil {
			return translate(err, ResourceProduct, id)
		}
		if err := copyDTOToProduct(ctx, r, req, p); err != nil {
			return err
		}
		return translate(r.Products.Update(ctx, p), ResourceProduct, id)
	})
	if err != nil {
		return dto.ProductDTO{}, err
	}
	s.cache.Invalidate(ctx, id)
	return mapProduct(*p), nil
}

func (s *productService) Delete(ctx context.Context, id int64) error {
	err := s.uow.Write(ctx, func(r repository.Repositories) error {
		return translate(r.Products.Delete(ctx, id), ResourceProduct, id)
	})
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, id)
	return nil
}

// copyDTOToProduct overwrites the scalar fields and rebuilds the category set
// from the DTO's category ids. Every id must name an existing category.
func copyDTOToProduct(ctx context.Context, r repository.Repositories, req dto.ProductDTO, p *model.Product) error {
	ids := uniqueIDs(req.CategoryIDs())
	found, err := r.Categories.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[int64]model.Category, len(found))
	have := make(map[int64]struct{}, len(found))
	for _, c := range found {
		byID[c.ID] = c
		have[c.ID] = struct{}{}
	}
	if missing, ok := firstMissing(ids, have); ok {
		return &NotFoundError{Resource: ResourceCategory, ID: missing}
	}

	p.Name = req.Name
	p.Description = req.Description
	p.Price = req.Price
	p.ImgURL = req.ImgURL
	p.Date = req.Date

	p.Categories = make([]model.Category, 0, len(ids))
	for _, id := range ids {
		p.Categories = append(p.Categories, byID[id])
	}
	return nil
}
