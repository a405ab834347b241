// Package memstore provides an in-memory catalogue that evaluates filters
// as predicate trees. It backs the CLI's memory backend and serves as the
// reference the SQLite store is checked against.
package memstore

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/filter"
	"github.com/roach88/bookql/internal/ids"
	"github.com/roach88/bookql/internal/model"
	"github.com/roach88/bookql/internal/querytree"
)

// Store holds books in memory. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	ids    ids.Generator
	books  map[model.BookID]model.Book
	covers map[model.BookID]model.BookCover
}

var _ model.Catalog = (*Store)(nil)

// New creates an empty store. A nil generator defaults to UUIDv7.
func New(gen ids.Generator) *Store {
	if gen == nil {
		gen = ids.UUIDv7Generator{}
	}
	return &Store{
		ids:    gen,
		books:  make(map[model.BookID]model.Book),
		covers: make(map[model.BookID]model.BookCover),
	}
}

// AddBook stores a copy of book, generating missing IDs. Authors without an
// ID reuse the ID of a known author with the same name.
func (s *Store) AddBook(ctx context.Context, book model.Book) (model.BookID, error) {
	if err := book.Validate(); err != nil {
		return "", fmt.Errorf("add book: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if book.ID == "" {
		book.ID = model.BookID(s.ids.Generate())
	}
	if _, exists := s.books[book.ID]; exists {
		return "", fmt.Errorf("add book: book %q already exists", book.ID)
	}

	book = cloneBook(book)
	for i, a := range book.Authors {
		if a.ID == "" {
			book.Authors[i].ID = s.authorIDLocked(a.Name)
		}
	}
	for i, f := range book.Formats {
		book.Formats[i].BookID = book.ID
		if f.ID == "" {
			book.Formats[i].ID = model.FormatID(s.ids.Generate())
		}
	}

	s.books[book.ID] = book
	slog.Info("book added", "id", book.ID, "title", book.Title, "backend", "memory")
	return book.ID, nil
}

func (s *Store) authorIDLocked(name string) model.AuthorID {
	for _, a := range s.allAuthorsLocked() {
		if a.Name == name {
			return a.ID
		}
	}
	return model.AuthorID(s.ids.Generate())
}

// AddBookFormat attaches a format to an existing book.
func (s *Store) AddBookFormat(ctx context.Context, format model.BookFormat) (model.FormatID, error) {
	if format.Type == "" {
		return "", fmt.Errorf("add book format: %w: format type is required", model.ErrInvalidBook)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	book, ok := s.books[format.BookID]
	if !ok {
		return "", fmt.Errorf("add book format: book %q: %w", format.BookID, model.ErrNotFound)
	}
	if format.ID == "" {
		format.ID = model.FormatID(s.ids.Generate())
	}
	book.Formats = append(slices.Clone(book.Formats), format)
	s.books[book.ID] = book
	return format.ID, nil
}

// AddBookCover sets the cover of an existing book, replacing any previous
// one.
func (s *Store) AddBookCover(ctx context.Context, cover model.BookCover) (model.CoverID, error) {
	if len(cover.Data) == 0 {
		return "", fmt.Errorf("add book cover: %w: cover data is required", model.ErrInvalidBook)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.books[cover.BookID]; !ok {
		return "", fmt.Errorf("add book cover: book %q: %w", cover.BookID, model.ErrNotFound)
	}
	if cover.ID == "" {
		cover.ID = model.CoverID(s.ids.Generate())
	}
	cover.Data = slices.Clone(cover.Data)
	s.covers[cover.BookID] = cover
	return cover.ID, nil
}

// GetBookCover returns the cover of a book.
func (s *Store) GetBookCover(ctx context.Context, bookID model.BookID) (model.BookCover, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cover, ok := s.covers[bookID]
	if !ok {
		return model.BookCover{}, fmt.Errorf("cover of book %q: %w", bookID, model.ErrNotFound)
	}
	cover.Data = slices.Clone(cover.Data)
	return cover, nil
}

// GetBook returns a book by ID.
func (s *Store) GetBook(ctx context.Context, id model.BookID) (model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	book, ok := s.books[id]
	if !ok {
		return model.Book{}, fmt.Errorf("book %q: %w", id, model.ErrNotFound)
	}
	return cloneBook(book), nil
}

// GetAllBooks returns every book ordered by ID.
func (s *Store) GetAllBooks(ctx context.Context) ([]model.Book, error) {
	return s.Find(ctx, nil)
}

// FindBooks compiles filter text to a predicate tree and returns the
// matching books ordered by ID.
func (s *Store) FindBooks(ctx context.Context, text string) ([]model.Book, error) {
	node, err := filter.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	pred, err := querytree.Compile(node)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return s.Find(ctx, pred)
}

// FindByTitle returns the books whose title equals title, ignoring case.
func (s *Store) FindByTitle(ctx context.Context, title string) ([]model.Book, error) {
	return s.Find(ctx, querytree.Equal{Field: field.Title, Value: field.Lower(title)})
}

// FindByAuthor returns the books credited to the author.
func (s *Store) FindByAuthor(ctx context.Context, id model.AuthorID) ([]model.Book, error) {
	return s.Find(ctx, querytree.Equal{Field: field.AuthorID, Value: field.Lower(string(id))})
}

// Find returns the books satisfying pred ordered by ID. A nil predicate
// matches every book.
func (s *Store) Find(ctx context.Context, pred querytree.Predicate) ([]model.Book, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pred != nil {
		slog.Debug("evaluating book predicate", "predicate", pred.String())
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := []model.Book{}
	for _, id := range s.sortedIDsLocked() {
		book := s.books[id]
		if querytree.Eval(pred, book) {
			matched = append(matched, cloneBook(book))
		}
	}
	return matched, nil
}

// GetAllAuthors returns every distinct author ordered by name, then ID.
func (s *Store) GetAllAuthors(ctx context.Context) ([]model.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allAuthorsLocked(), nil
}

// GetAuthor returns an author by ID.
func (s *Store) GetAuthor(ctx context.Context, id model.AuthorID) (model.Author, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.allAuthorsLocked() {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Author{}, fmt.Errorf("author %q: %w", id, model.ErrNotFound)
}

func (s *Store) allAuthorsLocked() []model.Author {
	seen := make(map[model.Author]bool)
	authors := []model.Author{}
	for _, id := range s.sortedIDsLocked() {
		for _, a := range s.books[id].Authors {
			if !seen[a] {
				seen[a] = true
				authors = append(authors, a)
			}
		}
	}
	slices.SortFunc(authors, func(a, b model.Author) int {
		if c := strings.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return strings.Compare(string(a.ID), string(b.ID))
	})
	return authors
}

func (s *Store) sortedIDsLocked() []model.BookID {
	ids := make([]model.BookID, 0, len(s.books))
	for id := range s.books {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// cloneBook copies the slices of b so callers cannot alias stored state.
func cloneBook(b model.Book) model.Book {
	b.Authors = slices.Clone(b.Authors)
	b.Identifiers = slices.Clone(b.Identifiers)
	b.Languages = slices.Clone(b.Languages)
	b.Tags = slices.Clone(b.Tags)
	b.Formats = slices.Clone(b.Formats)
	if b.Series != nil {
		entry := *b.Series
		b.Series = &entry
	}
	return b
}
