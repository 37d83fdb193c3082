package shared

// Page is an offset/limit window over a listing.
type Page struct {
	Offset int
	Limit  int
}

// Normalize clamps the window to sane bounds. A non-positive limit falls back
// to def; limits above max are capped.
func (p Page) Normalize(def, max int) Page {
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit <= 0 {
		p.Limit = def
	}
	if p.Limit > max {
		p.Limit = max
	}
	return p
}

// PageInfo describes the window actually served.
type PageInfo struct {
	Offset  int   `json:"offset"`
	Limit   int   `json:"limit"`
	Total   int64 `json:"total"`
	HasMore bool  `json:"has_more"`
}

// PagedResult carries one page of items plus the window metadata.
type PagedResult[T any] struct {
	Items      []T      `json:"items"`
	Pagination PageInfo `json:"pagination"`
}

// NewPagedResult assembles a PagedResult, deriving HasMore from the window.
func NewPagedResult[T any](items []T, page Page, total int64) PagedResult[T] {
	return PagedResult[T]{
		Items: items,
		Pagination: PageInfo{
			Offset:  page.Offset,
			Limit:   page.Limit,
			Total:   total,
			HasMore: int64(page.Offset+len(items)) < total,
		},
	}
}
