package session

import (
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/xtding233/shooting-gallery/internal/config"
)

var ErrNotFound = errors.New("session not found")

// Manager owns the live sessions of a server, keyed by UUID.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	settings config.Settings
	opts     Options
}

func NewManager(settings config.Settings, opts Options) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		settings: settings,
		opts:     opts,
	}
}

// Update swaps the tuning used for sessions created from now on.
func (m *Manager) Update(settings config.Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = settings
}

func (m *Manager) Settings() config.Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// Create opens a session and runs it until ctx is done or it is closed.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	id := uuid.NewV4().String()
	s, err := New(id, m.Settings(), m.opts)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()

	go func() {
		_ = s.Run(ctx)
		m.Close(id)
	}()
	return s, nil
}

func (m *Manager) Get(id string) (*Session, error) {
	u, err := uuid.FromString(id)
	if err != nil {
		return nil, errors.Wrapf(ErrNotFound, "bad id %q", id)
	}
	m.mu.RLock()
	s, ok := m.sessions[u.String()]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.Wrapf(ErrNotFound, "id %s", id)
	}
	return s, nil
}

// Close tears the session down and forgets it.
func (m *Manager) Close(id string) error {
	u, err := uuid.FromString(id)
	if err != nil {
		return errors.Wrapf(ErrNotFound, "bad id %q", id)
	}
	key := u.String()
	m.mu.Lock()
	s, ok := m.sessions[key]
	delete(m.sessions, key)
	m.mu.Unlock()
	if !ok {
		return errors.Wrapf(ErrNotFound, "id %s", id)
	}
	s.Close()
	return nil
}

// List returns the live session ids in sorted order.
func (m *Manager) List() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CloseAll tears down every session.
func (m *Manager) CloseAll() {
	for _, id := range m.List() {
		_ = m.Close(id)
	}
}
