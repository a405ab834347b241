package model

import "context"

// BookService is the contract every catalogue backend implements.
//
// FindBooks takes filter-language text (see package filter). Lookups that
// find nothing return ErrNotFound; searches return an empty slice.
type BookService interface {
	GetBook(ctx context.Context, id BookID) (Book, error)
	GetAllBooks(ctx context.Context) ([]Book, error)
	FindByTitle(ctx context.Context, title string) ([]Book, error)
	FindBooks(ctx context.Context, filter string) ([]Book, error)
	FindByAuthor(ctx context.Context, id AuthorID) ([]Book, error)

	AddBook(ctx context.Context, book Book) (BookID, error)
	AddBookCover(ctx context.Context, cover BookCover) (CoverID, error)
	GetBookCover(ctx context.Context, id BookID) (BookCover, error)
	AddBookFormat(ctx context.Context, format BookFormat) (FormatID, error)
}

// AuthorService lists the authors known to a backend.
type AuthorService interface {
	GetAllAuthors(ctx context.Context) ([]Author, error)
	GetAuthor(ctx context.Context, id AuthorID) (Author, error)
}

// Catalog is a backend serving both contracts.
type Catalog interface {
	BookService
	AuthorService
}
