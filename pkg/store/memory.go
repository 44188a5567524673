package store

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/matzehuels/scenarioflow/pkg/scenario"
)

// Memory is an in-process Store. Values are copied on the way in and out.
type Memory struct {
	mu   sync.RWMutex
	docs map[string]map[string]*scenario.Scenario // userID -> filename -> doc
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string]map[string]*scenario.Scenario)}
}

func (m *Memory) List(ctx context.Context, userID string) ([]scenario.Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]scenario.Summary, 0, len(m.docs[userID]))
	for _, s := range m.docs[userID] {
		out = append(out, s.Summarize())
	}
	sortSummaries(out)
	return out, nil
}

func (m *Memory) Get(ctx context.Context, userID, filename string) (*scenario.Scenario, error) {
	if err := checkKey(userID, filename); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.docs[userID][filename]
	if !ok {
		return nil, notFound(filename)
	}
	return s.Clone(), nil
}

func (m *Memory) Create(ctx context.Context, s *scenario.Scenario) error {
	if err := checkKey(s.UserID, s.Filename); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	user := m.docs[s.UserID]
	if user == nil {
		user = make(map[string]*scenario.Scenario)
		m.docs[s.UserID] = user
	}
	if _, exists := user[s.Filename]; exists {
		return conflict(s.Filename)
	}

	s.ID = uuid.NewString()
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	user[s.Filename] = s.Clone()
	return nil
}

func (m *Memory) Update(ctx context.Context, s *scenario.Scenario) error {
	if err := checkKey(s.UserID, s.Filename); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.docs[s.UserID][s.Filename]
	if !ok {
		return notFound(s.Filename)
	}
	s.ID = old.ID
	s.CreatedAt = old.CreatedAt
	s.UpdatedAt = now()
	m.docs[s.UserID][s.Filename] = s.Clone()
	return nil
}

func (m *Memory) Delete(ctx context.Context, userID, filename string) error {
	if err := checkKey(userID, filename); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[userID][filename]; !ok {
		return notFound(filename)
	}
	delete(m.docs[userID], filename)
	return nil
}

func (m *Memory) Close() error { return nil }

// sortSummaries orders by UpdatedAt descending, then filename.
func sortSummaries(s []scenario.Summary) {
	sort.Slice(s, func(i, j int) bool {
		if !s[i].UpdatedAt.Equal(s[j].UpdatedAt) {
			return s[i].UpdatedAt.After(s[j].UpdatedAt)
		}
		return s[i].Filename < s[j].Filename
	})
}

var _ Store = (*Memory)(nil)
