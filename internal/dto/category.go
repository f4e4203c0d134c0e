package dto

// CategoryRequest creates or renames a category.
type CategoryRequest struct {
	Name string `json:"name" binding:"required,min=2,max=100"`
}
