package service_test

import (
	"context"
	"sort"
	"strings"

	"dscatalog/internal/dto"
	"dscatalog/internal/model"
	"dscatalog/internal/repository"

	"gorm.io/gorm"
)

// ── In-memory store behind every stub repository ─────────────────────────────

type memStore struct {
	nextID     int64
	categories map[int64]model.Category
	products   map[int64]model.Product
	users      map[int64]model.User
	roles      map[int64]model.Role

	productUpdates int
	userUpdates    int
}

func newMemStore() *memStore {
	return &memStore{
		categories: make(map[int64]model.Category),
		products:   make(map[int64]model.Product),
		users:      make(map[int64]model.User),
		roles:      make(map[int64]model.Role),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) addCategory(name string) model.Category {
	c := model.Category{ID: s.id(), Name: name}
	s.categories[c.ID] = c
	return c
}

func (s *memStore) addProduct(name string, cats ...model.Category) model.Product {
	p := model.Product{ID: s.id(), Name: name, Categories: cats}
	s.products[p.ID] = p
	return p
}

func (s *memStore) addRole(authority string) model.Role {
	r := model.Role{ID: s.id(), Authority: authority}
	s.roles[r.ID] = r
	return r
}

func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func pageOf(ids []int64, page dto.PageRequest) []int64 {
	from := min(page.Offset(), len(ids))
	to := min(from+page.Size, len(ids))
	return ids[from:to]
}

// memUoW runs fn against the store; there is no rollback.
type memUoW struct{ s *memStore }

func (u memUoW) repos() repository.Repositories {
	return repository.Repositories{
		Categories: &stubCategoryRepo{u.s},
		Products:   &stubProductRepo{u.s},
		Users:      &stubUserRepo{u.s},
		Roles:      &stubRoleRepo{u.s},
	}
}

func (u memUoW) Read(_ context.Context, fn func(r repository.Repositories) error) error {
	return fn(u.repos())
}

func (u memUoW) Write(_ context.Context, fn func(r repository.Repositories) error) error {
	return fn(u.repos())
}

// ── Categories ───────────────────────────────────────────────────────────────

type stubCategoryRepo struct{ s *memStore }

func (r *stubCategoryRepo) FindAll(_ context.Context, page dto.PageRequest) ([]model.Category, int64, error) {
	ids := sortedIDs(r.s.categories)
	out := []model.Category{}
	for _, id := range pageOf(ids, page) {
		out = append(out, r.s.categories[id])
	}
	return out, int64(len(ids)), nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id int64) (*model.Category, error) {
	c, ok := r.s.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *stubCategoryRepo) FindByIDs(_ context.Context, ids []int64) ([]model.Category, error) {
	var out []model.Category
	for _, id := range ids {
		if c, ok := r.s.categories[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	c.ID = r.s.id()
	r.s.categories[c.ID] = *c
	return nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.s.categories[c.ID] = *c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.categories[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, p := range r.s.products {
		for _, c := range p.Categories {
			if c.ID == id {
				return gorm.ErrForeignKeyViolated
			}
		}
	}
	delete(r.s.categories, id)
	return nil
}

// ── Products ─────────────────────────────────────────────────────────────────

type stubProductRepo struct{ s *memStore }

func (r *stubProductRepo) Search(_ context.Context, categoryID int64, name string, page dto.PageRequest) ([]model.Product, int64, error) {
	var ids []int64
	for _, id := range sortedIDs(r.s.products) {
		p := r.s.products[id]
		if name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(name)) {
			continue
		}
		if categoryID != 0 && !hasCategory(p, categoryID) {
			continue
		}
		ids = append(ids, id)
	}
	out := []model.Product{}
	for _, id := range pageOf(ids, page) {
		p := r.s.products[id]
		p.Categories = nil
		out = append(out, p)
	}
	return out, int64(len(ids)), nil
}

func hasCategory(p model.Product, id int64) bool {
	for _, c := range p.Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func (r *stubProductRepo) LoadCategories(_ context.Context, products []model.Product) error {
	for i := range products {
		products[i].Categories = append([]model.Category(nil), r.s.products[products[i].ID].Categories...)
	}
	return nil
}

func (r *stubProductRepo) FindByID(_ context.Context, id int64) (*model.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	p.Categories = append([]model.Category(nil), p.Categories...)
	return &p, nil
}

func (r *stubProductRepo) Create(_ context.Context, p *model.Product) error {
	p.ID = r.s.id()
	r.s.products[p.ID] = *p
	return nil
}

func (r *stubProductRepo) Update(_ context.Context, p *model.Product) error {
	r.s.productUpdates++
	r.s.products[p.ID] = *p
	return nil
}

func (r *stubProductRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.products[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.products, id)
	return nil
}

// ── Users and roles ──────────────────────────────────────────────────────────

type stubUserRepo struct{ s *memStore }

func (r *stubUserRepo) FindAll(_ context.Context, page dto.PageRequest) ([]model.User, int64, error) {
	ids := sortedIDs(r.s.users)
	out := []model.User{}
	for _, id := range pageOf(ids, page) {
		out = append(out, r.s.users[id])
	}
	return out, int64(len(ids)), nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	u.ID = r.s.id()
	r.s.users[u.ID] = *u
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.s.userUpdates++
	r.s.users[u.ID] = *u
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.s.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.s.users, id)
	return nil
}

type stubRoleRepo struct{ s *memStore }

func (r *stubRoleRepo) FindByIDs(_ context.Context, ids []int64) ([]model.Role, error) {
	var out []model.Role
	for _, id := range ids {
		if role, ok := r.s.roles[id]; ok {
			out = append(out, role)
		}
	}
	return out, nil
}

func (r *stubRoleRepo) FindByAuthority(_ context.Context, authority string) (*model.Role, error) {
	for _, role := range r.s.roles {
		if role.Authority == authority {
			return &role, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubRoleRepo) Create(_ context.Context, role *model.Role) error {
	role.ID = r.s.id()
	r.s.roles[role.ID] = *role
	return nil
}

// ── Product cache ────────────────────────────────────────────────────────────

type stubCache struct {
	entries       map[int64]dto.ProductDTO
	invalidated   []int64
	invalidateAll int
	generation    uint64
	// onGeneration runs after Generation is read, standing in for a writer
	// that commits while the product is being loaded.
	onGeneration func()
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[int64]dto.ProductDTO)}
}

func (c *stubCache) Get(_ context.Context, id int64) (*dto.ProductDTO, bool) {
	p, ok := c.entries[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

func (c *stubCache) Generation(int64) uint64 {
	g := c.generation
	if c.onGeneration != nil {
		c.onGeneration()
	}
	return g
}

func (c *stubCache) Set(_ context.Context, p dto.ProductDTO, generation uint64) {
	if generation == c.generation {
		c.entries[p.ID] = p
	}
}

func (c *stubCache) Invalidate(_ context.Context, id int64) {
	c.generation++
	c.invalidated = append(c.invalidated, id)
	delete(c.entries, id)
}

func (c *stubCache) InvalidateAll(_ context.Context) {
	c.generation++
	c.invalidateAll++
	c.entries = make(map[int64]dto.ProductDTO)
}
