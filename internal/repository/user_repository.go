package repository

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"smartnotes-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type userDocument struct {
	DocID     string    `json:"_id"`
	Rev       string    `json:"_rev,omitempty"`
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// emailClaimDocument reserves an email address. CouchDB rejects a second PUT
// of the same _id, which makes the claim the uniqueness check.
type emailClaimDocument struct {
	DocID  string `json:"_id"`
	Rev    string `json:"_rev,omitempty"`
	Type   string `json:"type"`
	UserID string `json:"userId"`
}

func (d *userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID,
		Name:         d.Name,
		Email:        d.Email,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type userRepository struct {
	db *kivik.DB
}

func NewUserRepository(client *kivik.Client, dbName string) UserRepository {
	return &userRepository{db: client.DB(dbName)}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	claim := &emailClaimDocument{
		DocID:  emailClaimDocID(user.Email),
		Type:   docTypeEmailClaim,
		UserID: user.ID,
	}
	claimRev, err := r.db.Put(ctx, claim.DocID, claim)
	if err != nil {
		if isStatus(err, http.StatusConflict) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to claim email: %w", err)
	}

	doc := &userDocument{
		DocID:     userDocID(user.ID),
		Type:      docTypeUser,
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.PasswordHash,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if _, err := r.db.Put(ctx, doc.DocID, doc); err != nil {
		// Release the claim so the address can be registered again.
		_, _ = r.db.Delete(ctx, claim.DocID, claimRev)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var claim emailClaimDocument
	if err := r.db.Get(ctx, emailClaimDocID(email)).ScanDoc(&claim); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}

	return r.FindByID(ctx, claim.UserID)
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}

	var doc userDocument
	if err := r.db.Get(ctx, userDocID(id)).ScanDoc(&doc); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	if doc.Type != docTypeUser {
		return nil, domain.ErrNotFound
	}

	return doc.toDomain(), nil
}
