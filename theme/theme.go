// Package theme tracks the light/dark preference of a reader.
//
// The applied theme comes from an explicit, persisted choice when one exists
// and from the system preference otherwise. Only explicit choices are
// persisted; following the system never writes anything.
package theme

import (
	"errors"
	"fmt"
	"sync"
)

// Theme is a color scheme. The zero value means no preference.
type Theme string

const (
	Unset Theme = ""
	Light Theme = "light"
	Dark  Theme = "dark"
)

// StorageKey is the key explicit preferences are persisted under.
const StorageKey = "blog-theme"

var (
	// ErrInvalidTheme is returned by Set for anything but light or dark.
	ErrInvalidTheme = errors.New("theme: invalid theme")
	// ErrPersistenceUnavailable wraps persister failures.
	ErrPersistenceUnavailable = errors.New("theme: persistence unavailable")
)

// Valid reports whether t is light or dark.
func (t Theme) Valid() bool {
	return t == Light || t == Dark
}

// Opposite returns the other theme. Anything but dark toggles to dark.
func (t Theme) Opposite() Theme {
	if t == Dark {
		return Light
	}
	return Dark
}

// Parse returns the theme named by s, or Unset when s names none.
func Parse(s string) Theme {
	t := Theme(s)
	if t.Valid() {
		return t
	}
	return Unset
}

// Persister stores the explicit preference.
type Persister interface {
	Load() (Theme, error)
	Save(Theme) error
	Clear() error
}

// SystemPreference reports the scheme the system currently prefers.
type SystemPreference func() Theme

// Logger receives warnings about persistence failures.
type Logger interface {
	Warnf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Warnf(string, ...interface{}) {}

// Info describes the store's state.
type Info struct {
	Current Theme `json:"current"`
	IsDark  bool  `json:"isDark"`
	IsLight bool  `json:"isLight"`
	System  Theme `json:"systemTheme"`
	Stored  Theme `json:"storedTheme"`
}

// Store owns the applied theme. Persistence failures are logged and the store
// keeps working for the rest of the session.
type Store struct {
	mu        sync.Mutex
	persister Persister
	system    SystemPreference
	logger    Logger
	onApply   func(Theme)

	applied  Theme
	explicit bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger for persistence warnings.
func WithLogger(l Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// OnApply registers fn to be called with every applied theme.
func OnApply(fn func(Theme)) Option {
	return func(s *Store) {
		s.onApply = fn
	}
}

// New creates a store and applies the initial theme: the persisted
// preference if valid, the system preference otherwise.
func New(p Persister, system SystemPreference, opts ...Option) *Store {
	s := &Store{
		persister: p,
		system:    system,
		logger:    nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if stored := s.load(); stored != Unset {
		s.explicit = true
		s.apply(stored)
	} else {
		s.apply(s.systemTheme())
	}
	return s
}

// Applied returns the theme currently applied.
func (s *Store) Applied() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied
}

// Explicit reports whether the applied theme is a user choice.
func (s *Store) Explicit() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.explicit
}

// Toggle switches between light and dark and persists the result.
func (s *Store) Toggle() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := s.applied.Opposite()
	s.choose(next)
	return next
}

// Set applies and persists t, which must be light or dark.
func (s *Store) Set(t Theme) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, string(t))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.choose(t)
	return nil
}

// Reset forgets the explicit preference and applies the system theme
// without persisting it.
func (s *Store) Reset() Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persister.Clear(); err != nil {
		s.logger.Warnf("theme: clear preference: %v", err)
	}
	s.explicit = false
	t := s.systemTheme()
	s.apply(t)
	return t
}

// SystemChanged applies t when no explicit preference is persisted. It
// reports whether the applied theme followed the change.
func (s *Store) SystemChanged(t Theme) bool {
	if !t.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasExplicit() {
		return false
	}
	s.apply(t)
	return true
}

// Info returns a snapshot of the store's state.
func (s *Store) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		Current: s.applied,
		IsDark:  s.applied == Dark,
		IsLight: s.applied == Light,
		System:  s.systemTheme(),
		Stored:  s.load(),
	}
}

func (s *Store) choose(t Theme) {
	s.explicit = true
	s.apply(t)
	if err := s.persister.Save(t); err != nil {
		s.logger.Warnf("theme: save preference: %v", err)
	}
}

func (s *Store) apply(t Theme) {
	s.applied = t
	if s.onApply != nil {
		s.onApply(t)
	}
}

// hasExplicit prefers the persisted state and falls back to the in-memory
// flag when the persister cannot be read.
func (s *Store) hasExplicit() bool {
	stored, err := s.persister.Load()
	if err != nil {
		s.logger.Warnf("theme: load preference: %v", err)
		return s.explicit
	}
	return Parse(string(stored)) != Unset
}

func (s *Store) load() Theme {
	stored, err := s.persister.Load()
	if err != nil {
		s.logger.Warnf("theme: load preference: %v", err)
		return Unset
	}
	return Parse(string(stored))
}

func (s *Store) systemTheme() Theme {
	if s.system == nil {
		return Light
	}
	if t := s.system(); t.Valid() {
		return t
	}
	return Light
}
