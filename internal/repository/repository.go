package repository

import (
	"context"
	"slices"
	"time"

	"smartnotes-server/internal/domain"
)

// NoteRepository has no owner-unfiltered lookup: every method takes the
// caller's id and treats foreign notes as missing.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	FindByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error)
	SearchByOwner(ctx context.Context, ownerID, query string) ([]*domain.Note, error)
	UpdateByIDAndOwner(ctx context.Context, id, ownerID string, in domain.NoteInput, updatedAt time.Time) (*domain.Note, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error
}

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

func sortNewestFirst(notes []*domain.Note) {
	slices.SortStableFunc(notes, func(a, b *domain.Note) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
}

func cloneNote(n *domain.Note) *domain.Note {
	c := *n
	c.Tags = append([]string{}, n.Tags...)
	return &c
}
