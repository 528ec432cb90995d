package identity

import "sync/atomic"

// Cache is the process-wide slot holding the most recently resolved identity
// with a non-empty user id. It is a personalization hint, not a session
// store: empty at process start, last-write-wins, never expired. Requests
// that arrive without identity fall back to it.
//
// Cache is injected into handlers rather than kept as a package global so
// tests can scope one per run. Safe for concurrent use; concurrent writers
// race harmlessly to "most recent wins".
type Cache struct {
	last atomic.Pointer[Identity]
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{}
}

// Put records id as the last known identity. Identities without a user id
// are ignored: a name alone must never evict a cached full identity.
func (c *Cache) Put(id Identity) {
	if !id.HasUserID() {
		return
	}
	c.last.Store(&id)
}

// Get returns the cached identity, or the zero Identity when nothing has
// been resolved on this process yet.
func (c *Cache) Get() Identity {
	if p := c.last.Load(); p != nil {
		return *p
	}
	return Identity{}
}

// Effective returns "the user for this turn": the request's own identity
// when it carries a user id, else the cached fallback, else zero.
func (c *Cache) Effective(req Identity) Identity {
	if req.HasUserID() {
		return req
	}
	cached := c.Get()
	if cached.HasUserID() {
		// A request-local name (e.g. from an utterance) still wins over the
		// cached one for this turn.
		if req.Name != "" {
			cached.Name = req.Name
		}
		return cached
	}
	return req
}
