package session

import "sync"

// Shared serializes access to a Session for callers on different goroutines,
// i.e. the FUSE view served alongside an interactive shell.
type Shared struct {
	mu   sync.Mutex
	sess *Session
}

func NewShared(sess *Session) *Shared {
	return &Shared{sess: sess}
}

// Do runs fn with exclusive access to the session
func (sh *Shared) Do(fn func(s *Session) error) error {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	return fn(sh.sess)
}

// Acquire locks the session and returns a Guard that must be closed to
// release it.
//
// Example:
//
//	g := shared.Acquire()
//	defer g.Close()
func (sh *Shared) Acquire() *Guard {
	sh.mu.Lock()
	g := &Guard{Session: sh.sess}
	g.AddClose(sh.mu.Unlock)
	return g
}

// Guard holds the session lock until Close.
//
// NOTE: Guard itself is not thread-safe; do not share it between goroutines.
type Guard struct {
	*Session
	closeFns []func()
}

// AddClose pushes a cleanup callback onto the end of the stack
func (g *Guard) AddClose(fn func()) {
	g.closeFns = append(g.closeFns, fn)
}

// Close unwinds all cleanup callbacks in reverse order. Calling it more than
// once, or on a nil Guard, is a no-op.
func (g *Guard) Close() {
	if g == nil {
		return
	}
	for i := len(g.closeFns) - 1; i >= 0; i-- {
		g.closeFns[i]()
	}
	g.closeFns = nil
	g.Session = nil
}
