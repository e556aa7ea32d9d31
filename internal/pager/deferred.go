package pager

// Token identifies one deferred page request.
type Token uint64

// Deferred tracks a single pending page change. A new request supersedes
// any pending one, and only the most recent token can settle. The timer
// itself belongs to the caller (a tea.Tick in the dashboard view).
type Deferred struct {
	seq     Token
	page    int
	pending bool
}

// Request records page as the pending target and returns its token.
func (d *Deferred) Request(page int) Token {
	d.seq++
	d.page = page
	d.pending = true
	return d.seq
}

// Settle applies the request identified by t. Stale or already settled
// tokens return ok == false.
func (d *Deferred) Settle(t Token) (page int, ok bool) {
	if !d.pending || t != d.seq {
		return 0, false
	}
	d.pending = false
	return d.page, true
}

// Cancel drops the pending request, if any.
func (d *Deferred) Cancel() {
	d.pending = false
}

// Pending reports whether a request is waiting to settle, and its target.
func (d *Deferred) Pending() (int, bool) {
	return d.page, d.pending
}
