package repository

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// Repositories groups every repository bound to the same *gorm.DB, which is
// either the root connection or an open transaction.
type Repositories struct {
	Categories CategoryRepository
	Products   ProductRepository
	Users      UserRepository
	Roles      RoleRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Categories: NewCategoryRepository(db),
		Products:   NewProductRepository(db),
		Users:      NewUserRepository(db),
		Roles:      NewRoleRepository(db),
	}
}

// UnitOfWork runs one request's data access inside a single transaction.
// Read opens a read-only transaction where the dialect supports it; Write a
// read-write one. Returning an error from fn rolls the transaction back.
type UnitOfWork interface {
	Read(ctx context.Context, fn func(r Repositories) error) error
	Write(ctx context.Context, fn func(r Repositories) error) error
}

type gormUnitOfWork struct{ db *gorm.DB }

func NewUnitOfWork(db *gorm.DB) UnitOfWork { return &gormUnitOfWork{db: db} }

func (u *gormUnitOfWork) Read(ctx context.Context, fn func(r Repositories) error) error {
	var opts []*sql.TxOptions
	// sqlite has no read-only transactions; postgres does
	if u.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{ReadOnly: true})
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	}, opts...)
}

func (u *gormUnitOfWork) Write(ctx context.Context, fn func(r Repositories) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepositories(tx))
	})
}
