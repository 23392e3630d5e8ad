package repository

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"smartnotes-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

const (
	findPageSize = 200

	// Concurrent writers race on the document revision. The loser re-reads
	// and re-applies so the last write still wins.
	maxWriteAttempts = 3
)

var errTooManyConflicts = errors.New("too many revision conflicts")

type noteDocument struct {
	DocID     string    `json:"_id"`
	Rev       string    `json:"_rev,omitempty"`
	Type      string    `json:"type"`
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newNoteDocument(n *domain.Note) *noteDocument {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return &noteDocument{
		DocID:     noteDocID(n.ID),
		Type:      docTypeNote,
		ID:        n.ID,
		UserID:    n.UserID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      tags,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func (d *noteDocument) toDomain() *domain.Note {
	tags := d.Tags
	if tags == nil {
		tags = []string{}
	}
	return &domain.Note{
		ID:        d.ID,
		UserID:    d.UserID,
		Title:     d.Title,
		Content:   d.Content,
		Tags:      tags,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type noteRepository struct {
	db *kivik.DB
}

func NewNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &noteRepository{db: client.DB(dbName)}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	doc := newNoteDocument(note)
	if _, err := r.db.Put(ctx, doc.DocID, doc); err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *noteRepository) FindByIDAndOwner(ctx context.Context, id, ownerID string) (*domain.Note, error) {
	doc, err := r.getOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *noteRepository) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Note, error) {
	notes, err := r.find(ctx, ownerSelector(ownerID))
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (r *noteRepository) SearchByOwner(ctx context.Context, ownerID, query string) ([]*domain.Note, error) {
	notes, err := r.find(ctx, searchSelector(ownerID, query))
	if err != nil {
		return nil, fmt.Errorf("failed to search notes: %w", err)
	}
	return notes, nil
}

func (r *noteRepository) UpdateByIDAndOwner(ctx context.Context, id, ownerID string, in domain.NoteInput, updatedAt time.Time) (*domain.Note, error) {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		doc, err := r.getOwned(ctx, id, ownerID)
		if err != nil {
			return nil, err
		}

		doc.Title = in.Title
		doc.Content = in.Content
		doc.Tags = in.Tags
		if doc.Tags == nil {
			doc.Tags = []string{}
		}
		doc.UpdatedAt = updatedAt

		rev, err := r.db.Put(ctx, doc.DocID, doc)
		if err == nil {
			doc.Rev = rev
			return doc.toDomain(), nil
		}
		if !isStatus(err, http.StatusConflict) {
			return nil, fmt.Errorf("failed to update note: %w", err)
		}
	}

	return nil, fmt.Errorf("failed to update note: %w", errTooManyConflicts)
}

func (r *noteRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID string) error {
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		doc, err := r.getOwned(ctx, id, ownerID)
		if err != nil {
			return err
		}

		_, err = r.db.Delete(ctx, doc.DocID, doc.Rev)
		if err == nil {
			return nil
		}
		if isStatus(err, http.StatusNotFound) {
			return domain.ErrNotFound
		}
		if !isStatus(err, http.StatusConflict) {
			return fmt.Errorf("failed to delete note: %w", err)
		}
	}

	return fmt.Errorf("failed to delete note: %w", errTooManyConflicts)
}

// getOwned loads the note document and hides it unless ownerID owns it.
func (r *noteRepository) getOwned(ctx context.Context, id, ownerID string) (*noteDocument, error) {
	if id == "" || ownerID == "" {
		return nil, domain.ErrNotFound
	}

	var doc noteDocument
	if err := r.db.Get(ctx, noteDocID(id)).ScanDoc(&doc); err != nil {
		if isStatus(err, http.StatusNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	if doc.Type != docTypeNote || doc.UserID != ownerID {
		return nil, domain.ErrNotFound
	}

	return &doc, nil
}

// find runs a Mango query, following bookmarks so results are not cut at
// CouchDB's default page size.
func (r *noteRepository) find(ctx context.Context, selector map[string]interface{}) ([]*domain.Note, error) {
	notes := []*domain.Note{}
	bookmark := ""

	for {
		query := map[string]interface{}{
			"selector": selector,
			"limit":    findPageSize,
		}
		if bookmark != "" {
			query["bookmark"] = bookmark
		}

		rows := r.db.Find(ctx, query)
		count := 0
		for rows.Next() {
			var doc noteDocument
			if err := rows.ScanDoc(&doc); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan note: %w", err)
			}
			notes = append(notes, doc.toDomain())
			count++
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, err
		}

		meta, err := rows.Metadata()
		_ = rows.Close()
		if err != nil {
			return nil, err
		}

		if count < findPageSize || meta.Bookmark == "" || meta.Bookmark == bookmark {
			break
		}
		bookmark = meta.Bookmark
	}

	sortNewestFirst(notes)
	return notes, nil
}

func ownerSelector(ownerID string) map[string]interface{} {
	return map[string]interface{}{
		"type":   docTypeNote,
		"userId": ownerID,
	}
}

// searchSelector matches query as a literal, case-insensitive substring of
// the title, the content, or any tag.
func searchSelector(ownerID, query string) map[string]interface{} {
	pattern := substringPattern(query)

	selector := ownerSelector(ownerID)
	selector["$or"] = []interface{}{
		map[string]interface{}{"title": map[string]interface{}{"$regex": pattern}},
		map[string]interface{}{"content": map[string]interface{}{"$regex": pattern}},
		map[string]interface{}{"tags": map[string]interface{}{
			"$elemMatch": map[string]interface{}{"$regex": pattern},
		}},
	}
	return selector
}

func substringPattern(query string) string {
	return "(?i)" + regexp.QuoteMeta(query)
}
