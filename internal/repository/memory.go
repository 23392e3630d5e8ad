package repository

import (
	"context"
	"sync"
	"time"

	"smartnotes-server/internal/domain"
)

// MemoryNoteRepository keeps notes in process memory with the same owner
// scoping, search and ordering rules as the CouchDB store.
type MemoryNoteRepository struct {
	mu    sync.RWMutex
	notes map[string]*domain.Note
}

func NewMemoryNoteRepository() *MemoryNoteRepository {
	return &MemoryNoteRepository{
		notes: make(map[string]*domain.Note),
	}
}

func (r *MemoryNoteRepository) Create(_ context.Context, note *domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneNote(note)
	if stored.Tags == nil {
		stored.Tags = []string{}
	}
	r.notes[note.ID] = stored
	return nil
}

func (r *MemoryNoteRepository) FindByIDAndOwner(_ context.Context, id, ownerID string) (*domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return nil, domain.ErrNotFound
	}
	return cloneNote(n), nil
}

func (r *MemoryNoteRepository) ListByOwner(_ context.Context, ownerID string) ([]*domain.Note, error) {
	return r.filter(func(n *domain.Note) bool { return n.UserID == ownerID }), nil
}

func (r *MemoryNoteRepository) SearchByOwner(_ context.Context, ownerID, query string) ([]*domain.Note, error) {
	return r.filter(func(n *domain.Note) bool { return n.UserID == ownerID && n.Matches(query) }), nil
}

func (r *MemoryNoteRepository) UpdateByIDAndOwner(_ context.Context, id, ownerID string, in domain.NoteInput, updatedAt time.Time) (*domain.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return nil, domain.ErrNotFound
	}

	updated := cloneNote(n)
	updated.Title = in.Title
	updated.Content = in.Content
	updated.Tags = append([]string{}, in.Tags...)
	updated.UpdatedAt = updatedAt
	r.notes[id] = updated

	return cloneNote(updated), nil
}

func (r *MemoryNoteRepository) DeleteByIDAndOwner(_ context.Context, id, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notes[id]
	if !ok || n.UserID != ownerID {
		return domain.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

func (r *MemoryNoteRepository) filter(keep func(*domain.Note) bool) []*domain.Note {
	r.mu.RLock()
	defer r.mu.RUnlock()

	notes := []*domain.Note{}
	for _, n := range r.notes {
		if keep(n) {
			notes = append(notes, cloneNote(n))
		}
	}
	sortNewestFirst(notes)
	return notes
}

type MemoryUserRepository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryUserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return domain.ErrEmailTaken
	}

	stored := *user
	r.users[user.ID] = &stored
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *u
	return &c, nil
}
