package service

import (
	"context"
	"fmt"
	"time"

	"smartnotes-server/internal/domain"
	"smartnotes-server/internal/repository"

	"github.com/google/uuid"
)

// NoteNotifier receives note changes after they are persisted. Delivery is
// best-effort; implementations must not block.
type NoteNotifier interface {
	NoteCreated(ctx context.Context, note *domain.Note)
	NoteUpdated(ctx context.Context, note *domain.Note)
	NoteDeleted(ctx context.Context, ownerID, noteID string)
}

type NoteService struct {
	repo     repository.NoteRepository
	notifier NoteNotifier
	now      func() time.Time
}

// NewNoteService accepts a nil notifier when live events are disabled.
func NewNoteService(repo repository.NoteRepository, notifier NoteNotifier) *NoteService {
	return &NoteService{
		repo:     repo,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *NoteService) List(ctx context.Context, userID string) ([]*domain.Note, error) {
	notes, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) Search(ctx context.Context, userID, query string) ([]*domain.Note, error) {
	if query == "" {
		return nil, domain.NewValidationError("q", "Search query is required")
	}

	notes, err := s.repo.SearchByOwner(ctx, userID, query)
	if err != nil {
		return nil, fmt.Errorf("search notes: %w", err)
	}
	return notes, nil
}

func (s *NoteService) GetByID(ctx context.Context, userID, noteID string) (*domain.Note, error) {
	return s.repo.FindByIDAndOwner(ctx, noteID, userID)
}

func (s *NoteService) Create(ctx context.Context, userID string, in domain.NoteInput) (*domain.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	note := &domain.Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     in.Title,
		Content:   in.Content,
		Tags:      in.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NoteCreated(ctx, note)
	}

	return note, nil
}

func (s *NoteService) Update(ctx context.Context, userID, noteID string, in domain.NoteInput) (*domain.Note, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	note, err := s.repo.UpdateByIDAndOwner(ctx, noteID, userID, in, s.now())
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NoteUpdated(ctx, note)
	}

	return note, nil
}

func (s *NoteService) Delete(ctx context.Context, userID, noteID string) error {
	if err := s.repo.DeleteByIDAndOwner(ctx, noteID, userID); err != nil {
		return err
	}

	if s.notifier != nil {
		s.notifier.NoteDeleted(ctx, userID, noteID)
	}

	return nil
}
