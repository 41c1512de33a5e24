// Package util holds small helpers shared by use cases.
package util

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageMeta describes one page of a listing. PrevPage and NextPage are nil
// when there is no such page.
type PageMeta struct {
	Total        int64
	CurrentPage  int
	TotalPerPage int
	LastPage     int
	PrevPage     *int
	NextPage     *int
}

// NormalizePage replaces non-positive page or size with the defaults and caps size.
func NormalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = DefaultPage
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	return page, size
}

// Offset is the number of rows skipped before page. Both arguments must be normalized
// and page must not lie past the end (see PastEnd), which keeps the product in range.
func Offset(page, size int) int {
	return (page - 1) * size
}

// NewPageMeta computes the navigation fields for page of a listing with total rows.
func NewPageMeta(total int64, page, size int) PageMeta {
	meta := PageMeta{
		Total:        total,
		CurrentPage:  page,
		TotalPerPage: size,
		LastPage:     lastPage(total, size),
	}

	if page > 1 {
		prev := page - 1
		meta.PrevPage = &prev
	}
	if page < meta.LastPage {
		next := page + 1
		meta.NextPage = &next
	}

	return meta
}

// PastEnd reports whether the page lies beyond the last page, where no rows exist.
// Page 1 of an empty listing is not past the end.
func (m PageMeta) PastEnd() bool {
	return m.CurrentPage > max(m.LastPage, 1)
}

func lastPage(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}

	return int((total + int64(size) - 1) / int64(size))
}
