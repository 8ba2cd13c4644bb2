package store

// PageParams contains page-number pagination request parameters.
type PageParams struct {
	Page  int // 1-based page number (defaults to 1)
	Limit int // Items per page (defaults to 10, maximum 100)
}

// PaginatedResult contains one page of data and pagination metadata.
type PaginatedResult[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Normalize checks and corrects pagination parameters.
func (p *PageParams) Normalize() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = 10
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
}

// Paginate slices one page out of items and fills in the metadata.
// A page past the end yields an empty data slice, not an error.
func Paginate[T any](items []T, params PageParams) PaginatedResult[T] {
	params.Normalize()

	total := len(items)
	totalPages := (total + params.Limit - 1) / params.Limit

	start := (params.Page - 1) * params.Limit
	end := start + params.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	// Never return nil so the envelope serializes as [] rather than null.
	data := make([]T, end-start)
	copy(data, items[start:end])

	return PaginatedResult[T]{
		Data:       data,
		Total:      total,
		Page:       params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
	}
}
