package pager

// Page describes one page of a paginated list. Start and End are slice
// bounds into the full list and always satisfy 0 <= Start <= End <= total.
type Page struct {
	Number     int
	TotalPages int
	Size       int
	Start      int
	End        int
}

func (p Page) HasPrev() bool { return p.Number > 1 }
func (p Page) HasNext() bool { return p.Number < p.TotalPages }

// TotalPages is ceil(total/size), never less than 1.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Clamp keeps page within [1, totalPages].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate resolves page against a list of total items. Out-of-range pages
// are clamped rather than producing an empty or invalid slice.
func Paginate(total, page, size int) Page {
	if size <= 0 {
		size = total
	}
	if total < 0 {
		total = 0
	}
	pages := TotalPages(total, size)
	n := Clamp(page, pages)

	start := (n - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	if start > end {
		start = end
	}
	return Page{Number: n, TotalPages: pages, Size: size, Start: start, End: end}
}

// Slice returns the items on page along with the resolved Page.
func Slice[T any](items []T, page, size int) ([]T, Page) {
	p := Paginate(len(items), page, size)
	return items[p.Start:p.End], p
}
