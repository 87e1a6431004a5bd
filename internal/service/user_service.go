package service

import (
	"context"

	"dscatalog/internal/dto"
	"dscatalog/internal/model"
	"dscatalog/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// UserService manages the accounts allowed to write to the catalog.
type UserService interface {
	FindAllPaged(ctx context.Context, page dto.PageRequest) (dto.Page[dto.UserDTO], error)
	FindByID(ctx context.Context, id int64) (dto.UserDTO, error)
	Insert(ctx context.Context, req dto.UserInsertDTO) (dto.UserDTO, error)
	Update(ctx context.Context, id int64, req dto.UserDTO) (dto.UserDTO, error)
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	uow repository.UnitOfWork
}

func NewUserService(uow repository.UnitOfWork) UserService {
	return &userService{uow: uow}
}

func mapUser(u model.User) dto.UserDTO {
	roles := make([]dto.RoleDTO, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, dto.RoleDTO{ID: r.ID, Authority: r.Authority})
	}
	return dto.UserDTO{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Roles:     roles,
	}
}

func (s *userService) FindAllPaged(ctx context.Context, page dto.PageRequest) (dto.Page[dto.UserDTO], error) {
	var (
		users []model.User
		total int64
	)
	err := s.uow.Read(ctx, func(r repository.Repositories) error {
		var err error
		users, total, err = r.Users.FindAll(ctx, page)
		return err
	})
	if err != nil {
		return dto.Page[dto.UserDTO]{}, err
	}
	content := make([]dto.UserDTO, 0, len(users))
	for _, u := range users {
		content = append(content, mapUser(u))
	}
	return dto.NewPage(content, page, total), nil
}

func (s *userService) FindByID(ctx context.Context, id int64) (dto.UserDTO, error) {
	var u *model.User
	err := s.uow.Read(ctx, func(r repository.Repositories) error {
		var err error
		u, err = r.Users.FindByID(ctx, id)
		return translate(err, ResourceUser, id)
	})
	if err != nil {
		return dto.UserDTO{}, err
	}
	return mapUser(*u), nil
}

func (s *userService) Insert(ctx context.Context, req dto.UserInsertDTO) (dto.UserDTO, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return dto.UserDTO{}, err
	}
	u := &model.User{PasswordHash: string(hash)}
	err = s.uow.Write(ctx, func(r repository.Repositories) error {
		if err := checkEmailFree(ctx, r, req.Email, 0); err != nil {
			return err
		}
		if err := copyDTOToUser(ctx, r, req.UserDTO, u); err != nil {
			return err
		}
		return emailTaken(r.Users.Create(ctx, u))
	})
	if err != nil {
		return dto.UserDTO{}, err
	}
	return mapUser(*u), nil
}

// Update rewrites names, email and roles. The password is left untouched.
func (s *userService) Update(ctx context.Context, id int64, req dto.UserDTO) (dto.UserDTO, error) {
	var u *model.User
	err := s.uow.Write(ctx, func(r repository.Repositories) error {
		var err error
		if u, err = r.Users.FindByID(ctx, id); err != nil {
			return translate(err, ResourceUser, id)
		}
		if err := checkEmailFree(ctx, r, req.Email, id); err != nil {
			return err
		}
		if err := copyDTOToUser(ctx, r, req, u); err != nil {
			return err
		}
		return emailTaken(r.Users.Update(ctx, u))
	})
	if err != nil {
		return dto.UserDTO{}, err
	}
	return mapUser(*u), nil
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.uow.Write(ctx, func(r repository.Repositories) error {
		return translate(r.Users.Delete(ctx, id), ResourceUser, id)
	})
}

// checkEmailFree fails with a FieldError when email belongs to a user other
// than ownerID. ownerID 0 means no user may own it.
func checkEmailFree(ctx context.Context, r repository.Repositories, email string, ownerID int64) error {
	existing, err := r.Users.FindByEmail(ctx, email)
	switch {
	case repository.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID != ownerID:
		return &FieldError{Field: "email", Message: "Email já existe"}
	}
	return nil
}

// emailTaken turns a unique violation that slipped past checkEmailFree, i.e.
// a concurrent insert of the same email, into the same FieldError.
func emailTaken(err error) error {
	if repository.IsUniqueViolation(err) {
		return &FieldError{Field: "email", Message: "Email já existe"}
	}
	return err
}

func copyDTOToUser(ctx context.Context, r repository.Repositories, req dto.UserDTO, u *model.User) error {
	ids := uniqueIDs(req.RoleIDs())
	roles, err := r.Roles.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[int64]model.Role, len(roles))
	have := make(map[int64]struct{}, len(roles))
	for _, role := range roles {
		byID[role.ID] = role
		have[role.ID] = struct{}{}
	}
	if missing, ok := firstMissing(ids, have); ok {
		return &NotFoundError{Resource: ResourceRole, ID: missing}
	}

	u.FirstName = req.FirstName
	u.LastName = req.LastName
	u.Email = req.Email
	u.Roles = make([]model.Role, 0, len(ids))
	for _, id := range ids {
		u.Roles = append(u.Roles, byID[id])
	}
	return nil
}
