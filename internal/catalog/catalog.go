// Package catalog loads catalogue seed files written in CUE.
//
// A seed directory holds one CUE package whose top-level "book" struct maps
// labels to books:
//
//	book: goodOmens: {
//		title: "Good Omens"
//		authors: [{name: "Neil Gaiman"}, {name: "Terry Pratchett"}]
//		tags: ["fantasy", "comedy"]
//		publication_date: "1990-05-01"
//	}
//
// Every book is unified with the #Book definition in schema.cue before it
// is converted, so unknown fields, empty titles and malformed dates are
// reported with their source position. The label is the book ID unless the
// book sets id explicitly.
package catalog

import (
	_ "embed"
	"fmt"
	"time"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/bookql/internal/model"
)

//go:embed schema.cue
var schemaCUE string

// CompileError is a seed validation error with its CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type bookSeed struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Authors         []authorSeed `json:"authors"`
	Identifiers     []string     `json:"identifiers"`
	Languages       []string     `json:"languages"`
	Tags            []string     `json:"tags"`
	Publisher       string       `json:"publisher"`
	Description     string       `json:"description"`
	CreationDate    string       `json:"creation_date"`
	PublicationDate string       `json:"publication_date"`
	Series          *seriesSeed  `json:"series"`
	Formats         []formatSeed `json:"formats"`
}

type authorSeed struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type seriesSeed struct {
	Title  string `json:"title"`
	Volume int    `json:"volume"`
}

type formatSeed struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	MimeType string `json:"mime_type"`
	Location string `json:"location"`
}

// CompileBook validates a CUE book value against #Book and converts it.
//
// The value should be the book struct itself, e.g.:
//
//	v := ctx.CompileString(`book: dune: { title: "Dune" }`)
//	book, err := CompileBook(v.LookupPath(cue.ParsePath("book.dune")))
func CompileBook(v cue.Value) (*model.Book, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := v.Context().CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("compile book schema: %w", err)
	}
	unified := schema.LookupPath(cue.ParsePath("#Book")).Unify(v)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	var seed bookSeed
	if err := unified.Decode(&seed); err != nil {
		return nil, formatCUEError(err)
	}

	book := &model.Book{
		ID:          model.BookID(seed.ID),
		Title:       seed.Title,
		Languages:   seed.Languages,
		Tags:        seed.Tags,
		Publisher:   seed.Publisher,
		Description: seed.Description,
	}
	if book.ID == "" {
		if labels := v.Path().Selectors(); len(labels) > 0 {
			book.ID = model.BookID(labels[len(labels)-1].Unquoted())
		}
	}
	for _, a := range seed.Authors {
		book.Authors = append(book.Authors, model.Author{ID: model.AuthorID(a.ID), Name: a.Name})
	}
	for _, raw := range seed.Identifiers {
		book.Identifiers = append(book.Identifiers, model.ParseIdentifier(raw))
	}
	if seed.Series != nil {
		book.Series = &model.SeriesEntry{Title: seed.Series.Title, Volume: seed.Series.Volume}
	}
	for _, f := range seed.Formats {
		book.Formats = append(book.Formats, model.BookFormat{
			ID:       model.FormatID(f.ID),
			BookID:   book.ID,
			Type:     f.Type,
			MimeType: f.MimeType,
			Location: f.Location,
		})
	}

	var err error
	if book.CreationDate, err = parseDate(v, "creation_date", seed.CreationDate); err != nil {
		return nil, err
	}
	if book.PublicationDate, err = parseDate(v, "publication_date", seed.PublicationDate); err != nil {
		return nil, err
	}

	if err := book.Validate(); err != nil {
		return nil, &CompileError{Field: "book", Message: err.Error(), Pos: v.Pos()}
	}
	return book, nil
}

// parseDate parses an optional YYYY-MM-DD field. The schema only checks the
// shape, so impossible dates such as 2001-02-30 are caught here.
func parseDate(v cue.Value, name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, &CompileError{
			Field:   name,
			Message: fmt.Sprintf("invalid date %q", raw),
			Pos:     v.LookupPath(cue.ParsePath(name)).Pos(),
		}
	}
	return t, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	path := "cue"
	if p := first.Path(); len(p) > 0 {
		path = p[len(p)-1]
	}
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   path,
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
