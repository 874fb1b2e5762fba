package feynman

// Window is a bounded FIFO of recently used tokens. The most recently pushed
// token is always last; once the window is at capacity, pushing evicts from
// the front. A token may recur only after it has scrolled out.
type Window struct {
	tokens []string
	cap    int
}

// NewWindow creates a window with the given capacity.
func NewWindow(capacity int) Window {
	return Window{cap: capacity}
}

// windowOf restores a window from persisted tokens, trimming from the front
// if the stored slice exceeds capacity.
func windowOf(tokens []string, capacity int) Window {
	w := Window{cap: capacity}
	for _, t := range tokens {
		w.Push(t)
	}
	return w
}

// Push appends token, evicting the oldest entries until size fits capacity.
func (w *Window) Push(token string) {
	w.tokens = append(w.tokens, token)
	if over := len(w.tokens) - w.cap; over > 0 {
		w.tokens = append([]string(nil), w.tokens[over:]...)
	}
}

// Excludes returns the current contents, oldest first. The returned slice is
// a copy; mutating it does not affect the window.
func (w Window) Excludes() []string {
	return append([]string(nil), w.tokens...)
}

// Contains reports whether token is currently inside the window.
func (w Window) Contains(token string) bool {
	for _, t := range w.tokens {
		if t == token {
			return true
		}
	}
	return false
}

// Oldest returns the least recently pushed token still in the window.
// Used as the exhaustion fallback when every candidate is windowed.
func (w Window) Oldest() (string, bool) {
	if len(w.tokens) == 0 {
		return "", false
	}
	return w.tokens[0], true
}

// Len returns the number of tokens in the window.
func (w Window) Len() int { return len(w.tokens) }

// Cap returns the window's fixed capacity.
func (w Window) Cap() int { return w.cap }
