// internal/app/system/rowlock/rowlock.go
package rowlock

import "sync"

// Guard allows at most one in-flight write per key. Keys are row ids or
// form tokens. The zero value is ready to use.
type Guard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// TryAcquire claims key. When ok is false another write already holds it
// and release is a no-op. release is safe to call more than once.
func (g *Guard) TryAcquire(key string) (release func(), ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.held == nil {
		g.held = make(map[string]struct{})
	}
	if _, busy := g.held[key]; busy {
		return func() {}, false
	}
	g.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.held, key)
			g.mu.Unlock()
		})
	}, true
}

// Held reports whether key is currently claimed.
func (g *Guard) Held(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.held[key]
	return ok
}
