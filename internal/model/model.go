// Package model defines the catalogue entities and the store contracts the
// backends implement.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors shared by every store.
var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidBook = errors.New("invalid book")
)

type (
	BookID   string
	AuthorID string
	FormatID string
	CoverID  string
)

// Author is a person credited on a book.
type Author struct {
	ID   AuthorID `json:"id"`
	Name string   `json:"name"`
}

// Identifier is a scheme-qualified book identifier such as isbn:0-06-051518-X.
type Identifier struct {
	Scheme string `json:"scheme"`
	Value  string `json:"value"`
}

// DefaultIdentifierScheme is used when an identifier has no scheme.
const DefaultIdentifierScheme = "id"

// ParseIdentifier splits "scheme:value" at the first colon. Text without a
// colon gets DefaultIdentifierScheme.
func ParseIdentifier(s string) Identifier {
	scheme, value, ok := strings.Cut(s, ":")
	if !ok || scheme == "" {
		return Identifier{Scheme: DefaultIdentifierScheme, Value: strings.TrimPrefix(s, ":")}
	}
	return Identifier{Scheme: scheme, Value: value}
}

func (i Identifier) String() string {
	return i.Scheme + ":" + i.Value
}

// SeriesEntry places a book in a series.
type SeriesEntry struct {
	Title  string `json:"title"`
	Volume int    `json:"volume"`
}

// Book is a catalogue entry. Title is mandatory; everything else is
// optional. Zero dates mean unknown.
type Book struct {
	ID              BookID       `json:"id"`
	Title           string       `json:"title"`
	Authors         []Author     `json:"authors,omitempty"`
	Identifiers     []Identifier `json:"identifiers,omitempty"`
	Languages       []string     `json:"languages,omitempty"`
	Tags            []string     `json:"tags,omitempty"`
	CreationDate    time.Time    `json:"creation_date,omitzero"`
	PublicationDate time.Time    `json:"publication_date,omitzero"`
	Publisher       string       `json:"publisher,omitempty"`
	Series          *SeriesEntry `json:"series,omitempty"`
	Description     string       `json:"description,omitempty"`
	Formats         []BookFormat `json:"formats,omitempty"`
}

// Validate checks the book invariants.
func (b Book) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidBook)
	}
	for _, a := range b.Authors {
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("%w: author name is required", ErrInvalidBook)
		}
	}
	if b.Series != nil && strings.TrimSpace(b.Series.Title) == "" {
		return fmt.Errorf("%w: series title is required", ErrInvalidBook)
	}
	return nil
}

// AuthorNames returns the names of the book's authors in order.
func (b Book) AuthorNames() []string {
	names := make([]string, len(b.Authors))
	for i, a := range b.Authors {
		names[i] = a.Name
	}
	return names
}

// BookFormat is one downloadable rendition of a book, e.g. an EPUB file.
type BookFormat struct {
	ID       FormatID `json:"id"`
	BookID   BookID   `json:"book_id"`
	Type     string   `json:"type"` // short format name, e.g. "epub"
	MimeType string   `json:"mime_type,omitempty"`
	Location string   `json:"location,omitempty"`
}

// BookCover is a book's cover image.
type BookCover struct {
	ID       CoverID `json:"id"`
	BookID   BookID  `json:"book_id"`
	MimeType string  `json:"mime_type"`
	Data     []byte  `json:"-"`
}
