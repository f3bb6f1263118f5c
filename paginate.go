package storeradius

// Page is one slice of a ranked result list.
type Page[T any] struct {
	Items      []T
	Page       int
	PageSize   int
	TotalItems int
	TotalPages int
}

// Paginate slices items into the 1-indexed page of pageSize items. page and
// pageSize must be positive. A page past the end holds no items but still
// reports the totals.
func Paginate[T any](items []T, page, pageSize int) Page[T] {
	total := len(items)

	// Bounds are compared before multiplying so huge page values cannot overflow.
	start := total
	if page-1 <= total/pageSize {
		start = min((page-1)*pageSize, total)
	}
	end := total
	if pageSize < total-start {
		end = start + pageSize
	}

	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	return Page[T]{
		Items:      items[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalItems: total,
		TotalPages: totalPages,
	}
}
