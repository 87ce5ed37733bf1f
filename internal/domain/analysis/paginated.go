package analysis

// PaginatedResult represents a paginated response with data and metadata
type PaginatedResult struct {
	Data       []*Analysis `json:"data"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	Total      int64       `json:"totalItems"`
	TotalPages int         `json:"totalPages"`
}

// HasPrev reports whether a previous page exists.
func (p PaginatedResult) HasPrev() bool { return p.Page > 1 }

// HasNext reports whether a following page exists.
func (p PaginatedResult) HasNext() bool { return p.Page < p.TotalPages }
