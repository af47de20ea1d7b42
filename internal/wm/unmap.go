package wm

// unmapLedger counts UnmapNotify events the manager caused itself and
// expects to see, per client. Counts never go below zero.
type unmapLedger map[Handle]int

func (l unmapLedger) expect(h Handle) {
	l[h]++
}

// consume spends one credit for h and reports whether there was one.
func (l unmapLedger) consume(h Handle) bool {
	n := l[h]
	if n <= 0 {
		delete(l, h)
		return false
	}
	if n == 1 {
		delete(l, h)
	} else {
		l[h] = n - 1
	}
	return true
}

func (l unmapLedger) pending(h Handle) int {
	return l[h]
}

func (l unmapLedger) forget(h Handle) {
	delete(l, h)
}

// ConsumeUnmap is called for every UnmapNotify on a managed window. It
// reports true when the event was caused by the manager hiding or
// reparenting c and must be ignored; false means the client withdrew itself.
func (m *Manager) ConsumeUnmap(c *Client) bool {
	if !m.live(c) {
		return true
	}
	return m.unmapped.consume(c.handle)
}

// PendingUnmaps returns the number of unmap events still expected for c.
func (m *Manager) PendingUnmaps(c *Client) int {
	if !m.live(c) {
		return 0
	}
	return m.unmapped.pending(c.handle)
}
