package wm

import "github.com/1broseidon/vdeskwm/internal/platform"

// Registry owns the managed clients and the three orderings over them:
// cycle order (insertion), mapping order (first mapped first) and stacking
// order (head is bottom, tail is top). Orderings hold handles only.
type Registry struct {
	arena    arena
	cycle    []Handle
	mapping  []Handle
	stacking []Handle
	current  Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Len returns the number of live clients.
func (r *Registry) Len() int { return r.arena.len() }

// Get resolves a handle. Stale handles resolve to nothing.
func (r *Registry) Get(h Handle) (*Client, bool) {
	return r.arena.get(h)
}

// Live reports whether c is still owned by the registry.
func (r *Registry) Live(c *Client) bool {
	if c == nil {
		return false
	}
	got, ok := r.arena.get(c.handle)
	return ok && got == c
}

// Find returns the client whose window or frame is w.
func (r *Registry) Find(w platform.WindowID) *Client {
	if w == platform.None {
		return nil
	}
	for _, h := range r.cycle {
		c, ok := r.arena.get(h)
		if !ok {
			continue
		}
		if c.Window == w || c.Parent == w {
			return c
		}
	}
	return nil
}

// Insert allocates a handle for c and appends it to all three orderings.
func (r *Registry) Insert(c *Client) Handle {
	h := r.arena.alloc(c)
	r.cycle = append(r.cycle, h)
	r.mapping = append(r.mapping, h)
	r.stacking = append(r.stacking, h)
	return h
}

// Remove drops h from all three orderings. Removing a non-member is a no-op.
// The arena slot stays allocated until release.
func (r *Registry) Remove(h Handle) {
	r.cycle = without(r.cycle, h)
	r.mapping = without(r.mapping, h)
	r.stacking = without(r.stacking, h)
}

// Contains reports whether h is a member of the orderings.
func (r *Registry) Contains(h Handle) bool {
	return indexOf(r.cycle, h) >= 0
}

// release frees the arena slot of h.
func (r *Registry) release(h Handle) {
	if r.current == h {
		r.current = Handle{}
	}
	r.arena.release(h)
}

// Raise moves h to the top of the stacking order.
func (r *Registry) Raise(h Handle) {
	if indexOf(r.stacking, h) >= 0 {
		r.stacking = append(without(r.stacking, h), h)
	}
}

// Lower moves h to the bottom of the stacking order.
func (r *Registry) Lower(h Handle) {
	if indexOf(r.stacking, h) >= 0 {
		rest := without(r.stacking, h)
		r.stacking = append([]Handle{h}, rest...)
	}
}

// Current returns the focused client, if any.
func (r *Registry) Current() *Client {
	c, ok := r.arena.get(r.current)
	if !ok {
		return nil
	}
	return c
}

func (r *Registry) setCurrent(c *Client) {
	if c == nil {
		r.current = Handle{}
		return
	}
	r.current = c.handle
}

// Cycle returns the clients in cycle order.
func (r *Registry) Cycle() []*Client { return r.resolve(r.cycle) }

// Mapping returns the clients in mapping order.
func (r *Registry) Mapping() []*Client { return r.resolve(r.mapping) }

// Stacking returns the clients bottom to top.
func (r *Registry) Stacking() []*Client { return r.resolve(r.stacking) }

func (r *Registry) resolve(hs []Handle) []*Client {
	out := make([]*Client, 0, len(hs))
	for _, h := range hs {
		if c, ok := r.arena.get(h); ok {
			out = append(out, c)
		}
	}
	return out
}

func indexOf(hs []Handle, h Handle) int {
	for i, x := range hs {
		if x == h {
			return i
		}
	}
	return -1
}

func without(hs []Handle, h Handle) []Handle {
	i := indexOf(hs, h)
	if i < 0 {
		return hs
	}
	out := make([]Handle, 0, len(hs)-1)
	out = append(out, hs[:i]...)
	return append(out, hs[i+1:]...)
}
