package pager

// Item is one slot in a pagination control: a page number or an ellipsis.
type Item struct {
	Page     int
	Ellipsis bool
	Current  bool
}

// Window returns the controls for current of total pages: the first and
// last page, the pages next to current, and an ellipsis for each gap.
func Window(current, total int) []Item {
	if total < 1 {
		total = 1
	}
	current = Clamp(current, total)

	var items []Item
	last := 0
	for p := 1; p <= total; p++ {
		if p != 1 && p != total && (p < current-1 || p > current+1) {
			continue
		}
		if last != 0 && p-last > 1 {
			items = append(items, Item{Ellipsis: true})
		}
		items = append(items, Item{Page: p, Current: p == current})
		last = p
	}
	return items
}
