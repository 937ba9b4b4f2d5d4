package pawc

// FrameKind tells how a scope frame takes part in name lookup
type FrameKind int

const (
	// GlobalFrame is the bottom frame holding script-level declarations.
	GlobalFrame FrameKind = iota
	// FunctionFrame holds a function's parameters and stops lookup from
	// reaching the caller's locals.
	FunctionFrame
	// BlockFrame is a nested statement block.
	BlockFrame
)

type scopeFrame[T any] struct {
	kind  FrameKind
	names map[string]T
	order []string
}

func newScopeFrame[T any](kind FrameKind) *scopeFrame[T] {
	return &scopeFrame[T]{kind: kind, names: make(map[string]T)}
}

// ScopeStack is a layered name table. Analysis keeps declared types in it
// and the executor keeps runtime values; both push a frame per block and
// per function call.
type ScopeStack[T any] struct {
	frames []*scopeFrame[T]
}

// NewScopeStack returns a stack holding only an empty global frame.
func NewScopeStack[T any]() *ScopeStack[T] {
	s := &ScopeStack[T]{}
	s.Reset()
	return s
}

// Reset discards every frame, including globals, and starts over with an
// empty global frame.
func (s *ScopeStack[T]) Reset() {
	s.frames = []*scopeFrame[T]{newScopeFrame[T](GlobalFrame)}
}

// Push opens a frame of the given kind.
func (s *ScopeStack[T]) Push(kind FrameKind) {
	s.frames = append(s.frames, newScopeFrame[T](kind))
}

// keepsGlobalFrame is the rule that the global frame outlives the root
// body: popping it is a no-op, so functions analyzed or called after the
// root still resolve script-level names. Only Reset removes it.
func keepsGlobalFrame[T any](f *scopeFrame[T]) bool {
	return f.kind == GlobalFrame
}

// Pop closes the innermost frame.
func (s *ScopeStack[T]) Pop() {
	top := s.frames[len(s.frames)-1]
	if keepsGlobalFrame(top) {
		return
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Depth returns the number of open frames, the global frame included.
func (s *ScopeStack[T]) Depth() int {
	return len(s.frames)
}

// Add declares name in the innermost frame. It fails if that frame already
// has the name; outer frames may hold it and are shadowed.
func (s *ScopeStack[T]) Add(name string, entry T) bool {
	top := s.frames[len(s.frames)-1]
	if _, exists := top.names[name]; exists {
		return false
	}
	top.names[name] = entry
	top.order = append(top.order, name)
	return true
}

// Declare adds or replaces name in the innermost frame.
func (s *ScopeStack[T]) Declare(name string, entry T) {
	if !s.Add(name, entry) {
		s.frames[len(s.frames)-1].names[name] = entry
	}
}

// lookup finds the frame holding name: innermost first, down to the
// nearest function frame, then the global frame.
func (s *ScopeStack[T]) lookup(name string) *scopeFrame[T] {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if _, ok := f.names[name]; ok {
			return f
		}
		if f.kind == FunctionFrame {
			break
		}
	}
	if _, ok := s.frames[0].names[name]; ok {
		return s.frames[0]
	}
	return nil
}

// Get returns the entry visible under name.
func (s *ScopeStack[T]) Get(name string) (T, bool) {
	if f := s.lookup(name); f != nil {
		return f.names[name], true
	}
	var zero T
	return zero, false
}

// Set replaces the entry visible under name. It reports false when no
// visible frame has the name.
func (s *ScopeStack[T]) Set(name string, entry T) bool {
	f := s.lookup(name)
	if f == nil {
		return false
	}
	f.names[name] = entry
	return true
}

// Globals returns the global frame's names in declaration order and their
// entries.
func (s *ScopeStack[T]) Globals() ([]string, map[string]T) {
	g := s.frames[0]
	names := make([]string, len(g.order))
	copy(names, g.order)
	entries := make(map[string]T, len(g.names))
	for k, v := range g.names {
		entries[k] = v
	}
	return names, entries
}
