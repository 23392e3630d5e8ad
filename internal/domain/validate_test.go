package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNoteInputValidate(t *testing.T) {
	tests := []struct {
		name      string
		input     NoteInput
		wantField string
		wantMsg   string
	}{
		{name: "valid", input: NoteInput{Title: "Groceries", Content: "milk"}},
		{name: "title at limit", input: NoteInput{Title: strings.Repeat("a", 200), Content: "x"}},
		{name: "multibyte title at limit", input: NoteInput{Title: strings.Repeat("é", 200), Content: "x"}},
		{name: "empty title", input: NoteInput{Title: "", Content: "x"}, wantField: "title", wantMsg: "Title is required"},
		{name: "whitespace title", input: NoteInput{Title: "   ", Content: "x"}, wantField: "title", wantMsg: "Title is required"},
		{name: "title too long", input: NoteInput{Title: strings.Repeat("a", 201), Content: "x"}, wantField: "title", wantMsg: "Title cannot be more than 200 characters"},
		{name: "empty content", input: NoteInput{Title: "t", Content: ""}, wantField: "content", wantMsg: "Content is required"},
		{name: "first failure wins", input: NoteInput{Title: "", Content: ""}, wantField: "title", wantMsg: "Title is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.input
			err := in.Validate()

			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error = %v, want *ValidationError", err)
			}
			if verr.Field != tt.wantField || verr.Message != tt.wantMsg {
				t.Errorf("Validate() = {%s %q}, want {%s %q}", verr.Field, verr.Message, tt.wantField, tt.wantMsg)
			}
		})
	}
}

func TestNoteInputNormalize(t *testing.T) {
	in := NoteInput{Title: "  padded  ", Content: "body"}
	if err := in.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if in.Title != "padded" {
		t.Errorf("Title = %q, want trimmed", in.Title)
	}
	if in.Tags == nil || len(in.Tags) != 0 {
		t.Errorf("Tags = %#v, want empty non-nil slice", in.Tags)
	}
}

func TestRegisterRequestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     RegisterRequest
		wantMsg string
	}{
		{name: "valid", req: RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "secret1"}},
		{name: "missing name", req: RegisterRequest{Email: "ada@example.com", Password: "secret1"}, wantMsg: "Please provide a name"},
		{name: "long name", req: RegisterRequest{Name: strings.Repeat("n", 61), Email: "ada@example.com", Password: "secret1"}, wantMsg: "Name cannot be more than 60 characters"},
		{name: "bad email", req: RegisterRequest{Name: "Ada", Email: "ada-at-example", Password: "secret1"}, wantMsg: "Please provide a valid email"},
		{name: "short password", req: RegisterRequest{Name: "Ada", Email: "ada@example.com", Password: "12345"}, wantMsg: "Password should be at least 6 characters long"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			err := req.Validate()
			if tt.wantMsg == "" {
				if err != nil {
					t.Fatalf("Validate() unexpected error = %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantMsg {
				t.Errorf("Validate() error = %v, want %q", err, tt.wantMsg)
			}
		})
	}
}

func TestRegisterRequestNormalizesEmail(t *testing.T) {
	req := RegisterRequest{Name: "Ada", Email: "  Ada@Example.COM ", Password: "secret1"}
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if req.Email != "ada@example.com" {
		t.Errorf("Email = %q", req.Email)
	}
}

func TestTextRequestValidate(t *testing.T) {
	short := TextRequest{Text: "too short"}
	if err := short.Validate(); err == nil || err.Error() != "Text must be at least 10 characters long" {
		t.Errorf("short text error = %v", err)
	}

	ok := TextRequest{Text: "long enough text"}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error = %v", err)
	}
}

func TestNoteMatches(t *testing.T) {
	n := &Note{Title: "Hello World", Content: "nothing", Tags: []string{"Work"}}

	for _, q := range []string{"hello", "HELLO", "lo wo", "work", "thing"} {
		if !n.Matches(q) {
			t.Errorf("Matches(%q) = false, want true", q)
		}
	}
	for _, q := range []string{"bye", "h.llo", "works"} {
		if n.Matches(q) {
			t.Errorf("Matches(%q) = true, want false", q)
		}
	}
}
