package dto

type RoleDTO struct {
	ID        int64  `json:"id"`
	Authority string `json:"authority"`
}

// UserDTO is the response shape of /users and the body of PUT /users/:id.
type UserDTO struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName" validate:"notblank"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"     validate:"required,email"`
	Roles     []RoleDTO `json:"roles"`
}

func (u UserDTO) RoleIDs() []int64 {
	ids := make([]int64, 0, len(u.Roles))
	for _, r := range u.Roles {
		ids = append(ids, r.ID)
	}
	return ids
}

// UserInsertDTO is the body of POST /users.
type UserInsertDTO struct {
	UserDTO
	Password string `json:"password" validate:"required,min=6"`
}
