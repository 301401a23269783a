package live

import (
	"crypto/rand"
	"errors"
	"sync"
)

var ErrRoomNotFound = errors.New("room not found")

// Manager is the registry of live rooms, keyed by room code. Rooms are
// fully independent workers; the manager only creates, finds and
// retires them.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room
	deps  Deps
}

// NewManager creates an empty room registry.
func NewManager(deps Deps) *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
		deps:  deps,
	}
}

// Create spins up a new room under a fresh code.
func (m *Manager) Create(hostID string, totalCells int) (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	code, err := m.generateCode()
	if err != nil {
		return nil, err
	}
	room := NewRoom(code, hostID, totalCells, m.deps)
	m.rooms[code] = room
	return room, nil
}

// Get returns the live room for a code, or nil.
func (m *Manager) Get(code string) *Room {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rooms[code]
}

// Close stops a room's worker and removes it from the registry.
func (m *Manager) Close(code string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	room, ok := m.rooms[code]
	if !ok {
		return ErrRoomNotFound
	}
	room.Close()
	delete(m.rooms, code)
	return nil
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// generateCode creates a 6-char code unique among live rooms. Caller
// holds the write lock.
func (m *Manager) generateCode() (string, error) {
	const chars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	const codeLen = 6

	for attempts := 0; attempts < 10; attempts++ {
		b := make([]byte, codeLen)
		if _, err := rand.Read(b); err != nil {
			return "", err
		}
		code := make([]byte, codeLen)
		for i := range code {
			code[i] = chars[int(b[i])%len(chars)]
		}
		if _, taken := m.rooms[string(code)]; !taken {
			return string(code), nil
		}
	}
	return "", errors.New("failed to generate unique room code")
}
