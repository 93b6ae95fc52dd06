package template

import (
	"context"
	"sort"
	"sync"
	"time"
)

// RepositoryStub is an in-memory Repository for tests.
type RepositoryStub struct {
	mu       sync.RWMutex
	versions map[int][]Template // userId -> versions, ascending
	nextId   int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		versions: make(map[int][]Template),
		nextId:   1,
	}
}

func (r *RepositoryStub) GetActive(ctx context.Context, userId int) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, tmpl := range r.versions[userId] {
		if tmpl.IsActive {
			return copyTemplate(tmpl), nil
		}
	}
	return Template{}, ErrTemplateNotFound
}

func (r *RepositoryStub) ListVersions(ctx context.Context, userId int) ([]Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	versions := make([]Template, 0, len(r.versions[userId]))
	for _, tmpl := range r.versions[userId] {
		versions = append(versions, copyTemplate(tmpl))
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i].Version > versions[j].Version })
	return versions, nil
}

func (r *RepositoryStub) CreateVersion(ctx context.Context, userId int, tmpl Template) (Template, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := r.versions[userId]
	for i := range existing {
		existing[i].IsActive = false
	}

	created := copyTemplate(tmpl)
	created.Id = r.nextId
	created.Version = len(existing) + 1
	created.IsActive = true
	created.CreatedAt = time.Now()
	r.nextId++
	r.versions[userId] = append(existing, created)
	return copyTemplate(created), nil
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions = make(map[int][]Template)
	r.nextId = 1
}

func copyTemplate(tmpl Template) Template {
	copied := tmpl
	copied.Categories = make(map[string]CategoryConfig, len(tmpl.Categories))
	for name, category := range tmpl.Categories {
		copied.Categories[name] = category
	}
	return copied
}
