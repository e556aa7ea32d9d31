package pager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate_ClampsBeyondLastPage(t *testing.T) {
	items := []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"}

	got, p := Slice(items, 5, 4)
	assert.Equal(t, 3, p.Number)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, []string{"i", "j"}, got)
	assert.False(t, p.HasNext())
	assert.True(t, p.HasPrev())
}

func TestPaginate_Boundaries(t *testing.T) {
	cases := []struct {
		name              string
		total, page, size int
		want              Page
	}{
		{"empty list", 0, 1, 4, Page{Number: 1, TotalPages: 1, Size: 4, Start: 0, End: 0}},
		{"empty list high page", 0, 9, 4, Page{Number: 1, TotalPages: 1, Size: 4, Start: 0, End: 0}},
		{"page zero", 10, 0, 4, Page{Number: 1, TotalPages: 3, Size: 4, Start: 0, End: 4}},
		{"negative page", 10, -2, 4, Page{Number: 1, TotalPages: 3, Size: 4, Start: 0, End: 4}},
		{"exact multiple", 8, 2, 4, Page{Number: 2, TotalPages: 2, Size: 4, Start: 4, End: 8}},
		{"zero size shows all", 5, 3, 0, Page{Number: 1, TotalPages: 1, Size: 5, Start: 0, End: 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Paginate(tc.total, tc.page, tc.size))
		})
	}
}

func TestWindow_Ellipsis(t *testing.T) {
	render := func(items []Item) []any {
		var out []any
		for _, it := range items {
			if it.Ellipsis {
				out = append(out, "…")
				continue
			}
			out = append(out, it.Page)
		}
		return out
	}

	assert.Equal(t, []any{1}, render(Window(1, 1)))
	assert.Equal(t, []any{1, 2, 3}, render(Window(2, 3)))
	assert.Equal(t, []any{1, 2, "…", 10}, render(Window(1, 10)))
	assert.Equal(t, []any{1, "…", 4, 5, 6, "…", 10}, render(Window(5, 10)))
	assert.Equal(t, []any{1, "…", 9, 10}, render(Window(10, 10)))

	for _, it := range Window(5, 10) {
		if it.Page == 5 {
			assert.True(t, it.Current)
		}
	}
}

func TestDeferred_LatestRequestWins(t *testing.T) {
	var d Deferred

	first := d.Request(2)
	second := d.Request(3)

	_, ok := d.Settle(first)
	assert.False(t, ok, "superseded request must not apply")

	page, ok := d.Settle(second)
	require.True(t, ok)
	assert.Equal(t, 3, page)

	_, ok = d.Settle(second)
	assert.False(t, ok, "a token settles once")
}

func TestDeferred_Cancel(t *testing.T) {
	var d Deferred
	tok := d.Request(4)
	target, pending := d.Pending()
	assert.True(t, pending)
	assert.Equal(t, 4, target)

	d.Cancel()
	_, ok := d.Settle(tok)
	assert.False(t, ok)
}
