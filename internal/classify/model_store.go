package classify

import "sync/atomic"

// ModelStore publishes the current trained model. Readers get either the old or
// the new model, never a partially built one.
type ModelStore struct {
	current atomic.Pointer[Model]
	swaps   atomic.Uint64
}

// NewModelStore returns an empty store; the model signal abstains until Swap.
func NewModelStore() *ModelStore {
	return &ModelStore{}
}

// Load returns the current model or nil.
func (s *ModelStore) Load() *Model {
	return s.current.Load()
}

// Swap publishes m and returns the model it replaced.
func (s *ModelStore) Swap(m *Model) *Model {
	old := s.current.Swap(m)
	s.swaps.Add(1)
	return old
}

// Version counts the models published so far.
func (s *ModelStore) Version() uint64 {
	return s.swaps.Load()
}
