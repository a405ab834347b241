package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/bookql/internal/ids"
	"github.com/roach88/bookql/internal/model"
)

// createTestStore opens a fresh store in a temp dir with sequential IDs.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	opts = append([]Option{WithIDGenerator(ids.NewSequenceGenerator("gen"))}, opts...)
	s, err := Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// seedCatalog adds a small catalogue covering every filterable field.
func seedCatalog(t *testing.T, s *Store) {
	t.Helper()
	books := []model.Book{
		{
			ID:              "b1",
			Title:           "Good Omens",
			Authors:         []model.Author{{ID: "gaiman", Name: "Neil Gaiman"}, {ID: "pratchett", Name: "Terry Pratchett"}},
			Identifiers:     []model.Identifier{{Scheme: "isbn", Value: "0-575-04800-X"}},
			Languages:       []string{"en"},
			Tags:            []string{"Fantasy", "Comedy"},
			Publisher:       "Gollancz",
			PublicationDate: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
			Formats:         []model.BookFormat{{ID: "f1", Type: "epub", MimeType: "application/epub+zip"}},
		},
		{
			ID:      "b2",
			Title:   "Guards! Guards!",
			Authors: []model.Author{{ID: "pratchett", Name: "Terry Pratchett"}},
			Tags:    []string{"Fantasy"},
			Series:  &model.SeriesEntry{Title: "Discworld", Volume: 8},
			Formats: []model.BookFormat{{ID: "f2", Type: "pdf"}},
		},
		{
			ID:        "b3",
			Title:     "Krew elfów",
			Authors:   []model.Author{{ID: "sapkowski", Name: "Andrzej Sapkowski"}},
			Languages: []string{"pl"},
			Tags:      []string{"Fantasy", "Ärger"},
			Series:    &model.SeriesEntry{Title: "The Witcher", Volume: 3},
		},
	}
	for _, b := range books {
		_, err := s.AddBook(context.Background(), b)
		require.NoError(t, err)
	}
}

func bookIDs(books []model.Book) []model.BookID {
	out := make([]model.BookID, len(books))
	for i, b := range books {
		out[i] = b.ID
	}
	return out
}
