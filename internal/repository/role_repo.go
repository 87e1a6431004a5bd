package repository

import (
	"context"

	"dscatalog/internal/model"

	"gorm.io/gorm"
)

type RoleRepository interface {
	FindByIDs(ctx context.Context, ids []int64) ([]model.Role, error)
	FindByAuthority(ctx context.Context, authority string) (*model.Role, error)
	Create(ctx context.Context, role *model.Role) error
}

type roleRepo struct{ db *gorm.DB }

func NewRoleRepository(db *gorm.DB) RoleRepository { return &roleRepo{db: db} }

func (r *roleRepo) FindByIDs(ctx context.Context, ids []int64) ([]model.Role, error) {
	var roles []model.Role
	if len(ids) == 0 {
		return roles, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&roles).Error
	return roles, err
}

func (r *roleRepo) FindByAuthority(ctx context.Context, authority string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).Where("authority = ?", authority).First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

func (r *roleRepo) Create(ctx context.Context, role *model.Role) error {
	return r.db.WithContext(ctx).Create(role).Error
}
