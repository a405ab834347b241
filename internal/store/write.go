package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/bookql/internal/model"
)

// AddBook inserts a book with its authors, collections, series entry and
// formats in one transaction and returns its ID.
//
// Missing IDs are generated. An author without an ID reuses the ID of an
// existing author with the same name, so re-importing a catalogue does not
// split authors. Series are matched by title.
func (s *Store) AddBook(ctx context.Context, book model.Book) (model.BookID, error) {
	if err := book.Validate(); err != nil {
		return "", fmt.Errorf("add book: %w", err)
	}
	if book.ID == "" {
		book.ID = model.BookID(s.ids.Generate())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("add book: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seriesID, volume any
	if book.Series != nil {
		id, err := s.ensureSeries(ctx, tx, book.Series.Title)
		if err != nil {
			return "", fmt.Errorf("add book: %w", err)
		}
		seriesID, volume = id, book.Series.Volume
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO BOOKS
		(ID, TITLE, PUBLISHER, DESCRIPTION, CREATIONDATE, PUBLICATIONDATE, SERIES_ID, SERIESVOLUME)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		string(book.ID),
		book.Title,
		nullString(book.Publisher),
		nullString(book.Description),
		formatDate(book.CreationDate),
		formatDate(book.PublicationDate),
		seriesID,
		volume,
	)
	if err != nil {
		return "", fmt.Errorf("add book: insert: %w", err)
	}

	for i, a := range book.Authors {
		authorID := a.ID
		if authorID == "" {
			if authorID, err = s.resolveAuthor(ctx, tx, a.Name); err != nil {
				return "", fmt.Errorf("add book: %w", err)
			}
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO AUTHORS (BOOK_ID, AUTHOR_ID, NAME, POSITION) VALUES (?, ?, ?, ?)`,
			string(book.ID), string(authorID), a.Name, i,
		); err != nil {
			return "", fmt.Errorf("add book: insert author: %w", err)
		}
	}

	identifiers := make([]string, len(book.Identifiers))
	for i, id := range book.Identifiers {
		identifiers[i] = id.String()
	}
	collections := []struct {
		table  string
		values []string
	}{
		{"TAGS", book.Tags},
		{"LANGUAGES", book.Languages},
		{"IDENTIFIERS", identifiers},
	}
	for _, c := range collections {
		for _, v := range c.values {
			if _, err := tx.ExecContext(ctx,
				fmt.Sprintf(`INSERT INTO %s (BOOK_ID, NAME) VALUES (?, ?) ON CONFLICT DO NOTHING`, c.table),
				string(book.ID), v,
			); err != nil {
				return "", fmt.Errorf("add book: insert %s: %w", c.table, err)
			}
		}
	}

	for _, f := range book.Formats {
		f.BookID = book.ID
		if _, err := s.insertFormat(ctx, tx, f); err != nil {
			return "", fmt.Errorf("add book: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("add book: commit: %w", err)
	}

	slog.Info("book added", "id", book.ID, "title", book.Title, "authors", len(book.Authors))
	return book.ID, nil
}

// AddBookFormat attaches a format to an existing book.
// Returns model.ErrNotFound if the book does not exist.
func (s *Store) AddBookFormat(ctx context.Context, format model.BookFormat) (model.FormatID, error) {
	if format.Type == "" {
		return "", fmt.Errorf("add book format: %w: format type is required", model.ErrInvalidBook)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("add book format: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := bookExists(ctx, tx, format.BookID); err != nil {
		return "", fmt.Errorf("add book format: %w", err)
	}
	id, err := s.insertFormat(ctx, tx, format)
	if err != nil {
		return "", fmt.Errorf("add book format: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("add book format: commit: %w", err)
	}
	return id, nil
}

// AddBookCover sets the cover of an existing book, replacing any previous
// one. Returns model.ErrNotFound if the book does not exist.
func (s *Store) AddBookCover(ctx context.Context, cover model.BookCover) (model.CoverID, error) {
	if len(cover.Data) == 0 {
		return "", fmt.Errorf("add book cover: %w: cover data is required", model.ErrInvalidBook)
	}
	if cover.ID == "" {
		cover.ID = model.CoverID(s.ids.Generate())
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("add book cover: begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := bookExists(ctx, tx, cover.BookID); err != nil {
		return "", fmt.Errorf("add book cover: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM COVERS WHERE BOOK_ID = ?`, string(cover.BookID)); err != nil {
		return "", fmt.Errorf("add book cover: replace: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO COVERS (ID, BOOK_ID, MIME_TYPE, DATA) VALUES (?, ?, ?, ?)`,
		string(cover.ID), string(cover.BookID), cover.MimeType, cover.Data,
	); err != nil {
		return "", fmt.Errorf("add book cover: insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("add book cover: commit: %w", err)
	}
	return cover.ID, nil
}

func (s *Store) insertFormat(ctx context.Context, tx *sql.Tx, f model.BookFormat) (model.FormatID, error) {
	if f.ID == "" {
		f.ID = model.FormatID(s.ids.Generate())
	}
	_, err := tx.ExecContext(ctx,
		`INSERT INTO FORMATS (ID, BOOK_ID, TYPE, MIME_TYPE, LOCATION) VALUES (?, ?, ?, ?, ?)`,
		string(f.ID), string(f.BookID), f.Type, nullString(f.MimeType), nullString(f.Location),
	)
	if err != nil {
		return "", fmt.Errorf("insert format: %w", err)
	}
	return f.ID, nil
}

func (s *Store) ensureSeries(ctx context.Context, tx *sql.Tx, title string) (string, error) {
	var id string
	err := tx.QueryRowContext(ctx, `SELECT ID FROM SERIES WHERE TITLE = ?`, title).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("select series: %w", err)
	}

	id = s.ids.Generate()
	if _, err := tx.ExecContext(ctx, `INSERT INTO SERIES (ID, TITLE) VALUES (?, ?)`, id, title); err != nil {
		return "", fmt.Errorf("insert series: %w", err)
	}
	return id, nil
}

func (s *Store) resolveAuthor(ctx context.Context, tx *sql.Tx, name string) (model.AuthorID, error) {
	var id string
	err := tx.QueryRowContext(ctx,
		`SELECT AUTHOR_ID FROM AUTHORS WHERE NAME = ? ORDER BY AUTHOR_ID COLLATE BINARY LIMIT 1`, name,
	).Scan(&id)
	switch {
	case err == nil:
		return model.AuthorID(id), nil
	case errors.Is(err, sql.ErrNoRows):
		return model.AuthorID(s.ids.Generate()), nil
	default:
		return "", fmt.Errorf("select author: %w", err)
	}
}

func bookExists(ctx context.Context, tx *sql.Tx, id model.BookID) error {
	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM BOOKS WHERE ID = ?`, string(id)).Scan(&count); err != nil {
		return fmt.Errorf("check book: %w", err)
	}
	if count == 0 {
		return fmt.Errorf("book %q: %w", id, model.ErrNotFound)
	}
	return nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func formatDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.DateOnly), Valid: true}
}
