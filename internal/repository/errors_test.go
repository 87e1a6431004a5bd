package repository_test

import (
	"errors"
	"fmt"
	"testing"

	"dscatalog/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestConstraintClassification(t *testing.T) {
	fkPG := fmt.Errorf("delete: %w", &pgconn.PgError{Code: "23503"})
	uniquePG := &pgconn.PgError{Code: "23505"}
	fkSQLite := errors.New("FOREIGN KEY constraint failed")
	uniqueSQLite := errors.New("UNIQUE constraint failed: users.email")

	tests := []struct {
		name       string
		err        error
		foreignKey bool
		unique     bool
	}{
		{"nil", nil, false, false},
		{"gorm translated fk", gorm.ErrForeignKeyViolated, true, false},
		{"gorm translated duplicate", gorm.ErrDuplicatedKey, false, true},
		{"postgres fk", fkPG, true, false},
		{"postgres unique", uniquePG, false, true},
		{"sqlite fk", fkSQLite, true, false},
		{"sqlite unique", uniqueSQLite, false, true},
		{"unrelated", errors.New("connection refused"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.foreignKey, repository.IsForeignKeyViolation(tt.err))
			assert.Equal(t, tt.unique, repository.IsUniqueViolation(tt.err))
		})
	}
}
