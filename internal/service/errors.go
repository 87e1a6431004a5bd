package service

import (
	"errors"
	"fmt"

	"dscatalog/internal/repository"
)

// Resource names carried by the domain errors.
const (
	ResourceCategory = "category"
	ResourceProduct  = "product"
	ResourceUser     = "user"
	ResourceRole     = "role"
)

// NotFoundError means no Resource with ID exists.
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// IntegrityError means the store refused the write because of a referential
// constraint, e.g. deleting a category that products still reference.
type IntegrityError struct {
	Resource string
	ID       int64
	Err      error
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%s %d: integrity violation", e.Resource, e.ID)
}

func (e *IntegrityError) Unwrap() error { return e.Err }

// FieldError rejects one request field for a reason only the store can tell,
// such as an email that is already taken.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

var ErrInvalidCredentials = errors.New("invalid credentials")

// translate converts a repository error about resource/id into a domain error.
// Errors that are not storage rejections are returned unchanged.
func translate(err error, resource string, id int64) error {
	switch {
	case err == nil:
		return nil
	case repository.IsNotFound(err):
		return &NotFoundError{Resource: resource, ID: id}
	case repository.IsForeignKeyViolation(err):
		return &IntegrityError{Resource: resource, ID: id, Err: err}
	default:
		return err
	}
}

// uniqueIDs drops repeated ids, keeping the first occurrence order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// firstMissing returns the first id of want absent from have.
func firstMissing(want []int64, have map[int64]struct{}) (int64, bool) {
	for _, id := range want {
		if _, ok := have[id]; !ok {
			return id, true
		}
	}
	return 0, false
}
