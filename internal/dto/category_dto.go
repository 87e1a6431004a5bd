package dto

// CategoryDTO is both the request body and the response of /categories, and
// the minimal category entry embedded in ProductDTO.
type CategoryDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"notblank"`
}
