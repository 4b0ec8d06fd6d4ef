package core

import (
	"strings"
	"time"
)

const (
	// GuestUserID is the identity shared by every unauthenticated client.
	GuestUserID = "guest-user"

	// DefaultSpace is assigned to notes saved without a space.
	DefaultSpace = "General"

	// AllSpaces disables the space filter.
	AllSpaces = "All"
)

// DefaultSpaces is the initial set of spaces offered to a new session.
var DefaultSpaces = []string{"General", "Personal", "Work"}

// Note is the central entity of the domain.
// Content always holds raw markup, never rendered HTML.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	UserID    string    `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Title     string    `json:"title" yaml:"title"`
	Content   string    `json:"content" yaml:"content"`
	Tags      []string  `json:"tags" yaml:"tags"`
	Space     string    `json:"space" yaml:"space"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
}

// IsEmpty reports whether both title and content are blank.
func (n Note) IsEmpty() bool {
	return strings.TrimSpace(n.Title) == "" && strings.TrimSpace(n.Content) == ""
}

// Excerpt returns the content with markup characters removed, for previews.
func (n Note) Excerpt() string {
	return StripMarkup(n.Content)
}

// HasTag reports whether the note carries the given tag.
func (n Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Draft is the partial note handed to the editor save action.
// A zero ID means the note is new.
type Draft struct {
	ID        string
	Title     string
	Content   string
	Tags      []string
	Space     string
	CreatedAt time.Time
}

// IsEmpty reports whether the draft would produce an empty note.
func (d Draft) IsEmpty() bool {
	return strings.TrimSpace(d.Title) == "" && strings.TrimSpace(d.Content) == ""
}

// DraftOf returns a draft that edits an existing note.
func DraftOf(n Note) Draft {
	return Draft{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Tags:      append([]string(nil), n.Tags...),
		Space:     n.Space,
		CreatedAt: n.CreatedAt,
	}
}

// Filter narrows a note listing.
// An empty Space or AllSpaces matches every space; an empty UserID matches every owner.
type Filter struct {
	UserID string
	Space  string
}

// Match reports whether n passes the filter.
func (f Filter) Match(n Note) bool {
	if f.UserID != "" && n.UserID != f.UserID {
		return false
	}
	if f.HasSpace() && n.Space != f.Space {
		return false
	}
	return true
}

// HasSpace reports whether the filter restricts by space.
func (f Filter) HasSpace() bool {
	return f.Space != "" && f.Space != AllSpaces
}

// AddTag appends tag after trimming it. Blank and duplicate tags are ignored.
func AddTag(tags []string, tag string) []string {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return tags
	}
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}

// RemoveTag returns tags without any occurrence of tag.
func RemoveTag(tags []string, tag string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != tag {
			out = append(out, t)
		}
	}
	return out
}

// NormalizeTags trims tags and drops blanks and duplicates, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		out = AddTag(out, t)
	}
	return out
}

// StripMarkup removes the characters that carry markup meaning in previews.
func StripMarkup(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '#', '*', '_':
			return -1
		}
		return r
	}, s)
}

// Upsert replaces the note with the same ID or prepends it.
// The input slice is not modified.
func Upsert(notes []Note, n Note) []Note {
	for i := range notes {
		if notes[i].ID == n.ID {
			out := make([]Note, len(notes))
			copy(out, notes)
			out[i] = n
			return out
		}
	}
	out := make([]Note, 0, len(notes)+1)
	out = append(out, n)
	return append(out, notes...)
}
