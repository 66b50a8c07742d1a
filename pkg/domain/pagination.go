package domain

const (
	DefaultItemsPerPage = 20
	MaxItemsPerPage     = 100
)

// PageParams carries list pagination. Page is 1-indexed.
type PageParams struct {
	Page         int
	ItemsPerPage int
}

// Normalize clamps the parameters to valid values: page >= 1, items per page
// defaulted to DefaultItemsPerPage and capped at MaxItemsPerPage.
func (p PageParams) Normalize() PageParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.ItemsPerPage < 1 {
		p.ItemsPerPage = DefaultItemsPerPage
	}
	if p.ItemsPerPage > MaxItemsPerPage {
		p.ItemsPerPage = MaxItemsPerPage
	}
	return p
}

// Offset returns the number of records to skip.
func (p PageParams) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.ItemsPerPage
}

// Limit returns the number of records to take.
func (p PageParams) Limit() int {
	return p.Normalize().ItemsPerPage
}

// Bounds clips the page window to a collection of the given size, so
// in-memory stores can slice without bounds checks of their own.
func (p PageParams) Bounds(total int) (int, int) {
	lo := p.Offset()
	if lo > total {
		lo = total
	}
	hi := lo + p.Limit()
	if hi > total {
		hi = total
	}
	return lo, hi
}
