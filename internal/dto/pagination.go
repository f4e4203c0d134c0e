package dto

// Pagination is bound from query parameters on list endpoints.
type Pagination struct {
	Page  int `form:"page" binding:"omitempty,gt=0"`
	Limit int `form:"limit" binding:"omitempty,gt=0,lte=100"`
}

// Normalize applies defaults for unset values.
func (p *Pagination) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 20
	}
}

// Offset returns the row offset for the current page.
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
