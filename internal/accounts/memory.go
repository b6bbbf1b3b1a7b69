package accounts

import (
	"context"
	"strconv"
	"sync"
	"time"
)

type Memory struct {
	mu      sync.Mutex
	nextID  int
	byEmail map[string]Editor
}

func NewMemory() *Memory {
	return &Memory{byEmail: make(map[string]Editor)}
}

func (m *Memory) Create(_ context.Context, e Editor) (Editor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byEmail[e.Email]; ok {
		return Editor{}, ErrEmailTaken
	}
	m.nextID++
	e.ID = strconv.Itoa(m.nextID)
	e.CreatedAt = time.Now().UTC()
	m.byEmail[e.Email] = e
	return e, nil
}

func (m *Memory) FindByEmail(_ context.Context, email string) (Editor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byEmail[email]
	if !ok {
		return Editor{}, ErrEditorNotFound
	}
	return e, nil
}
