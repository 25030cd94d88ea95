package pipeline

import "github.com/rebeliceyang/cotable/internal/models"

// PageCount returns the number of pages for total rows; never less than one
func PageCount(total, pageSize int) int {
	if pageSize <= 0 {
		pageSize = models.DefaultPageSize
	}
	if total <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}

// ClampPage keeps a page index inside [0, pageCount)
func ClampPage(pageIndex, pageCount int) int {
	if pageIndex < 0 {
		return 0
	}
	if pageCount > 0 && pageIndex >= pageCount {
		return pageCount - 1
	}
	return pageIndex
}

// Paginate returns the rows of the requested page.
// An out of range page yields an empty slice.
func Paginate(rows []models.KeyedRow, p models.Pagination) []models.KeyedRow {
	size := p.PageSize
	if size <= 0 {
		size = models.DefaultPageSize
	}
	if p.PageIndex < 0 || p.PageIndex >= PageCount(len(rows), size) {
		return []models.KeyedRow{}
	}

	start := p.PageIndex * size
	if start >= len(rows) {
		return []models.KeyedRow{}
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end:end]
}
