package repository

import (
	"context"

	"dscatalog/internal/dto"
	"dscatalog/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	FindAll(ctx context.Context, page dto.PageRequest) ([]model.User, int64, error)
	FindByID(ctx context.Context, id int64) (*model.User, error)
	// FindByEmail matches case-insensitively.
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	Update(ctx context.Context, u *model.User) error
	Delete(ctx context.Context, id int64) error
}

type userRepo struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepo{db: db} }

func (r *userRepo) FindAll(ctx context.Context, page dto.PageRequest) ([]model.User, int64, error) {
	var (
		users []model.User
		total int64
	)
	q := r.db.WithContext(ctx).Model(&model.User{})
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := paginate(q, "users", page).Preload("Roles").Find(&users).Error
	return users, total, err
}

func (r *userRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	if id <= 0 {
		return nil, gorm.ErrRecordNotFound
	}
	var u model.User
	if err := r.db.WithContext(ctx).Preload("Roles").First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	err := r.db.WithContext(ctx).Preload("Roles").
		Where("LOWER(email) = LOWER(?)", email).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) Create(ctx context.Context, u *model.User) error {
	return r.db.WithContext(ctx).Omit("Roles.*").Create(u).Error
}

func (r *userRepo) Update(ctx context.Context, u *model.User) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Save(u).Error; err != nil {
		return err
	}
	return db.Model(u).Omit("Roles.*").Association("Roles").Replace(u.Roles)
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return gorm.ErrRecordNotFound
	}
	res := r.db.WithContext(ctx).Select("Roles").Delete(&model.User{ID: id})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
