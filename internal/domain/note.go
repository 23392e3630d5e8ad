package domain

import (
	"strings"
	"time"
)

type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NoteInput is the full replacement body accepted by create and update. Owner
// and id never come from the client.
type NoteInput struct {
	Title   string   `json:"title" validate:"required,max=200"`
	Content string   `json:"content" validate:"required"`
	Tags    []string `json:"tags"`
}

// Normalize trims the title and defaults tags to an empty list.
func (in *NoteInput) Normalize() {
	in.Title = strings.TrimSpace(in.Title)
	if in.Tags == nil {
		in.Tags = []string{}
	}
}

// Validate normalizes the input then reports the first violated constraint.
func (in *NoteInput) Validate() error {
	in.Normalize()
	return Validate(in)
}

// Matches reports whether query occurs case-insensitively in the title, the
// content, or any tag.
func (n *Note) Matches(query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(n.Title), q) || strings.Contains(strings.ToLower(n.Content), q) {
		return true
	}
	for _, tag := range n.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

type NoteResponse struct {
	Note *Note `json:"note"`
}

type NoteListResponse struct {
	Notes []*Note `json:"notes"`
}
