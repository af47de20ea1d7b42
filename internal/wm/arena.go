package wm

// Handle identifies a client slot in the registry arena. The generation
// changes every time a slot is released, so a Handle kept past its client's
// teardown no longer resolves. The zero Handle never resolves.
type Handle struct {
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool { return h.gen == 0 }

type slot struct {
	gen    uint32
	client *Client
}

type arena struct {
	slots []slot
	free  []uint32
}

func (a *arena) alloc(c *Client) Handle {
	var idx uint32
	if n := len(a.free); n > 0 {
		idx = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		idx = uint32(len(a.slots))
		a.slots = append(a.slots, slot{})
	}
	s := &a.slots[idx]
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	s.client = c
	h := Handle{index: idx, gen: s.gen}
	c.handle = h
	return h
}

func (a *arena) get(h Handle) (*Client, bool) {
	if h.IsZero() || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := a.slots[h.index]
	if s.gen != h.gen || s.client == nil {
		return nil, false
	}
	return s.client, true
}

// release frees the slot behind h. Releasing a stale handle is a no-op.
func (a *arena) release(h Handle) bool {
	if _, ok := a.get(h); !ok {
		return false
	}
	s := &a.slots[h.index]
	s.client = nil
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	a.free = append(a.free, h.index)
	return true
}

func (a *arena) len() int {
	return len(a.slots) - len(a.free)
}
