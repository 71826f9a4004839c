package theme

import "sync"

// MemoryPersister keeps the preference in memory. Fail makes every call
// return ErrPersistenceUnavailable, like storage disabled in a browser.
type MemoryPersister struct {
	mu    sync.Mutex
	value Theme
	Fail  bool
}

// Load returns the stored preference.
func (m *MemoryPersister) Load() (Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return Unset, ErrPersistenceUnavailable
	}
	return m.value, nil
}

// Save stores t.
func (m *MemoryPersister) Save(t Theme) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrPersistenceUnavailable
	}
	m.value = t
	return nil
}

// Clear removes the stored preference.
func (m *MemoryPersister) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail {
		return ErrPersistenceUnavailable
	}
	m.value = Unset
	return nil
}

// Static returns a SystemPreference that always reports t.
func Static(t Theme) SystemPreference {
	return func() Theme { return t }
}
