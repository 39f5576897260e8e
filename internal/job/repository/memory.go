package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jobboard/jobs-api/internal/job"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("job not found")
)

// MemoryRepo is an in-memory repository used for unit tests and local runs
// without MongoDB. Ids are ObjectID hex strings so both repositories accept
// and reject the same identifiers.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*job.Job
	order []string
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*job.Job)}
}

func (m *MemoryRepo) Create(_ context.Context, j *job.Job) (*job.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := j.Clone()
	stored.ID = primitive.NewObjectID().Hex()
	stored.CreatedAt = job.Now()
	stored.UpdatedAt = stored.CreatedAt
	m.store[stored.ID] = stored
	m.order = append(m.order, stored.ID)
	return stored.Clone(), nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*job.Job, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if j, ok := m.store[id]; ok {
		return j.Clone(), nil
	}
	return nil, ErrNotFound
}

// List returns jobs in insertion order, which is what a plain Mongo find
// returns for an unsharded collection without deletes.
func (m *MemoryRepo) List(_ context.Context) ([]*job.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*job.Job, 0, len(m.store))
	for _, id := range m.order {
		out = append(out, m.store[id].Clone())
	}
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, j *job.Job) (*job.Job, error) {
	if err := checkID(j.ID); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[j.ID]
	if !ok {
		return nil, ErrNotFound
	}
	next := j.Clone()
	next.CreatedAt = cur.CreatedAt
	next.UpdatedAt = job.NextUpdatedAt(cur.UpdatedAt)
	m.store[j.ID] = next
	return next.Clone(), nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string) (*job.Job, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.store, id)
	for i, v := range m.order {
		if v == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return j, nil
}

func (m *MemoryRepo) Ping(context.Context) error { return nil }

func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return fmt.Errorf("invalid job id %q: %w", id, err)
	}
	return nil
}
