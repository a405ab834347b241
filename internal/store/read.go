package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/roach88/bookql/internal/filter"
	"github.com/roach88/bookql/internal/model"
	"github.com/roach88/bookql/internal/querysql"
)

// GetBook retrieves a single book by ID.
// Returns model.ErrNotFound if it does not exist.
func (s *Store) GetBook(ctx context.Context, id model.BookID) (model.Book, error) {
	return s.loadBook(ctx, id)
}

// GetAllBooks returns every book ordered by ID.
// Returns an empty slice (not nil) for an empty catalogue.
func (s *Store) GetAllBooks(ctx context.Context) ([]model.Book, error) {
	ids, err := s.queryIDs(ctx, `SELECT ID FROM BOOKS ORDER BY ID COLLATE BINARY ASC`)
	if err != nil {
		return nil, fmt.Errorf("get all books: %w", err)
	}
	return s.loadBooks(ctx, ids)
}

// FindBooks compiles filter text and returns the matching books ordered by
// ID.
func (s *Store) FindBooks(ctx context.Context, text string) ([]model.Book, error) {
	node, err := filter.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	q, err := querysql.Compile(node, querysql.WithStrictFields(s.strict))
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return s.Find(ctx, q)
}

// FindByTitle returns the books whose title equals title, ignoring case.
func (s *Store) FindByTitle(ctx context.Context, title string) ([]model.Book, error) {
	q, err := querysql.NewBuilder().WithTitle(filter.OpEqual, title).Build()
	if err != nil {
		return nil, fmt.Errorf("find by title: %w", err)
	}
	return s.Find(ctx, q)
}

// FindByAuthor returns the books credited to the author.
func (s *Store) FindByAuthor(ctx context.Context, id model.AuthorID) ([]model.Book, error) {
	q, err := querysql.NewBuilder().WithAuthorID(filter.OpEqual, string(id)).Build()
	if err != nil {
		return nil, fmt.Errorf("find by author: %w", err)
	}
	return s.Find(ctx, q)
}

// Find executes a compiled relational query.
func (s *Store) Find(ctx context.Context, q *querysql.BookQuery) ([]model.Book, error) {
	query, params, err := querysql.RenderParams(q, "DISTINCT BOOKS.ID", querysql.WithFoldFunc(FoldFunc))
	if err != nil {
		return nil, fmt.Errorf("render query: %w", err)
	}
	slog.Debug("executing book query", "sql", query, "params", len(params))

	ids, err := s.queryIDs(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("find books: %w", err)
	}
	return s.loadBooks(ctx, ids)
}

// GetBookCover returns the cover of a book.
// Returns model.ErrNotFound if the book has none.
func (s *Store) GetBookCover(ctx context.Context, bookID model.BookID) (model.BookCover, error) {
	var cover model.BookCover
	var id, book string
	err := s.db.QueryRowContext(ctx,
		`SELECT ID, BOOK_ID, MIME_TYPE, DATA FROM COVERS WHERE BOOK_ID = ?`, string(bookID),
	).Scan(&id, &book, &cover.MimeType, &cover.Data)
	if errors.Is(err, sql.ErrNoRows) {
		return model.BookCover{}, fmt.Errorf("cover of book %q: %w", bookID, model.ErrNotFound)
	}
	if err != nil {
		return model.BookCover{}, fmt.Errorf("get book cover: %w", err)
	}
	cover.ID, cover.BookID = model.CoverID(id), model.BookID(book)
	return cover, nil
}

// GetAllAuthors returns every distinct author ordered by name, then ID.
func (s *Store) GetAllAuthors(ctx context.Context) ([]model.Author, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT AUTHOR_ID, NAME FROM AUTHORS
		ORDER BY NAME COLLATE BINARY ASC, AUTHOR_ID COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query authors: %w", err)
	}
	defer rows.Close()

	authors := []model.Author{}
	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		authors = append(authors, model.Author{ID: model.AuthorID(id), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate authors: %w", err)
	}
	return authors, nil
}

// GetAuthor returns an author by ID.
// Returns model.ErrNotFound if no book credits the author.
func (s *Store) GetAuthor(ctx context.Context, id model.AuthorID) (model.Author, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT NAME FROM AUTHORS WHERE AUTHOR_ID = ? ORDER BY BOOK_ID COLLATE BINARY LIMIT 1`, string(id),
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Author{}, fmt.Errorf("author %q: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Author{}, fmt.Errorf("get author: %w", err)
	}
	return model.Author{ID: id, Name: name}, nil
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]model.BookID, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var ids []model.BookID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, model.BookID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ids: %w", err)
	}
	return ids, nil
}

func (s *Store) loadBooks(ctx context.Context, ids []model.BookID) ([]model.Book, error) {
	books := make([]model.Book, 0, len(ids))
	for _, id := range ids {
		b, err := s.loadBook(ctx, id)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, nil
}

func (s *Store) loadBook(ctx context.Context, id model.BookID) (model.Book, error) {
	var (
		book               = model.Book{ID: id}
		publisher, desc    sql.NullString
		created, published sql.NullString
		seriesTitle        sql.NullString
		seriesVolume       sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT BOOKS.TITLE, BOOKS.PUBLISHER, BOOKS.DESCRIPTION, BOOKS.CREATIONDATE,
		       BOOKS.PUBLICATIONDATE, SERIES.TITLE, BOOKS.SERIESVOLUME
		FROM BOOKS LEFT JOIN SERIES ON BOOKS.SERIES_ID=SERIES.ID
		WHERE BOOKS.ID = ?
	`, string(id)).Scan(&book.Title, &publisher, &desc, &created, &published, &seriesTitle, &seriesVolume)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Book{}, fmt.Errorf("book %q: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Book{}, fmt.Errorf("load book %q: %w", id, err)
	}

	book.Publisher = publisher.String
	book.Description = desc.String
	if book.CreationDate, err = parseDate(created); err != nil {
		return model.Book{}, fmt.Errorf("load book %q: %w", id, err)
	}
	if book.PublicationDate, err = parseDate(published); err != nil {
		return model.Book{}, fmt.Errorf("load book %q: %w", id, err)
	}
	if seriesTitle.Valid {
		book.Series = &model.SeriesEntry{Title: seriesTitle.String, Volume: int(seriesVolume.Int64)}
	}

	if book.Authors, err = s.loadAuthors(ctx, id); err != nil {
		return model.Book{}, err
	}
	if book.Tags, err = s.loadNames(ctx, "TAGS", id); err != nil {
		return model.Book{}, err
	}
	if book.Languages, err = s.loadNames(ctx, "LANGUAGES", id); err != nil {
		return model.Book{}, err
	}
	identifiers, err := s.loadNames(ctx, "IDENTIFIERS", id)
	if err != nil {
		return model.Book{}, err
	}
	for _, raw := range identifiers {
		book.Identifiers = append(book.Identifiers, model.ParseIdentifier(raw))
	}
	if book.Formats, err = s.loadFormats(ctx, id); err != nil {
		return model.Book{}, err
	}
	return book, nil
}

func (s *Store) loadAuthors(ctx context.Context, id model.BookID) ([]model.Author, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT AUTHOR_ID, NAME FROM AUTHORS WHERE BOOK_ID = ? ORDER BY POSITION ASC`, string(id))
	if err != nil {
		return nil, fmt.Errorf("query authors of %q: %w", id, err)
	}
	defer rows.Close()

	var authors []model.Author
	for rows.Next() {
		var a model.Author
		var authorID string
		if err := rows.Scan(&authorID, &a.Name); err != nil {
			return nil, fmt.Errorf("scan author: %w", err)
		}
		a.ID = model.AuthorID(authorID)
		authors = append(authors, a)
	}
	return authors, rows.Err()
}

// loadNames reads one of the NAME collection tables.
func (s *Store) loadNames(ctx context.Context, table string, id model.BookID) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		fmt.Sprintf(`SELECT NAME FROM %s WHERE BOOK_ID = ? ORDER BY NAME COLLATE BINARY ASC`, table), string(id))
	if err != nil {
		return nil, fmt.Errorf("query %s of %q: %w", table, id, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (s *Store) loadFormats(ctx context.Context, id model.BookID) ([]model.BookFormat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT ID, TYPE, MIME_TYPE, LOCATION FROM FORMATS
		WHERE BOOK_ID = ? ORDER BY ID COLLATE BINARY ASC
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("query formats of %q: %w", id, err)
	}
	defer rows.Close()

	var formats []model.BookFormat
	for rows.Next() {
		var formatID string
		var mime, location sql.NullString
		f := model.BookFormat{BookID: id}
		if err := rows.Scan(&formatID, &f.Type, &mime, &location); err != nil {
			return nil, fmt.Errorf("scan format: %w", err)
		}
		f.ID, f.MimeType, f.Location = model.FormatID(formatID), mime.String, location.String
		formats = append(formats, f)
	}
	return formats, rows.Err()
}

func parseDate(v sql.NullString) (time.Time, error) {
	if !v.Valid {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, v.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", v.String, err)
	}
	return t, nil
}
