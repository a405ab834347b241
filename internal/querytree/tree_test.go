package querytree

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/filter"
	"github.com/roach88/bookql/internal/model"
)

func goodOmens() model.Book {
	return model.Book{
		ID:    "b1",
		Title: "Good Omens",
		Authors: []model.Author{
			{ID: "a1", Name: "Neil Gaiman"},
			{ID: "a2", Name: "Terry Pratchett"},
		},
		Identifiers:     []model.Identifier{{Scheme: "isbn", Value: "0-575-04800-X"}},
		Languages:       []string{"en"},
		Tags:            []string{"Fantasy", "Comedy"},
		Publisher:       "Gollancz",
		PublicationDate: time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC),
		Formats:         []model.BookFormat{{Type: "epub"}},
	}
}

func guardsGuards() model.Book {
	return model.Book{
		ID:      "b2",
		Title:   "Guards! Guards!",
		Authors: []model.Author{{ID: "a2", Name: "Terry Pratchett"}},
		Tags:    []string{"Fantasy"},
		Series:  &model.SeriesEntry{Title: "Discworld", Volume: 8},
		Formats: []model.BookFormat{{Type: "pdf"}, {Type: "epub"}},
	}
}

func mustCompile(t *testing.T, text string) Predicate {
	t.Helper()
	p, err := CompileString(text)
	require.NoError(t, err)
	return p
}

func TestCompile_Shape(t *testing.T) {
	tests := []struct {
		filter string
		want   string
	}{
		{"title==Dune", "lower(title) = 'dune'"},
		{"author!=Gaiman", "lower(authors) != 'gaiman'"},
		{"tag=in=(Fantasy,SciFi)", "lower(tags) in ('fantasy', 'scifi')"},
		{"lang=out=(de,fr)", "not(lower(languages) in ('de', 'fr'))"},
		{"title=like=Ring", "lower(title) like '%ring%'"},
		{"title=notlike=Ring", "not(lower(title) like '%ring%')"},
		{"series.title==Discworld", "lower(series) = 'discworld'"},
		{"tag==a;tag==b", "all(lower(tags) = 'a', lower(tags) = 'b')"},
		{"tag==a,tag==b", "any(lower(tags) = 'a', lower(tags) = 'b')"},
		{`title=="O'Brien"`, "lower(title) = 'o''brien'"},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			assert.Equal(t, tt.want, mustCompile(t, tt.filter).String())
		})
	}
}

func TestCompile_UnsupportedField(t *testing.T) {
	_, err := CompileString("isbn13==123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, field.ErrUnsupportedField))

	var fieldErr *field.UnsupportedFieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "isbn13", fieldErr.Field)
	assert.Equal(t, "tree", fieldErr.Target)
}

func TestCompile_InvalidTree(t *testing.T) {
	_, err := Compile(filter.And{})
	assert.True(t, errors.Is(err, filter.ErrInvalidNode))

	_, err = Compile(filter.Comparison{Selector: "title", Operator: filter.Operator(99), Arguments: []string{"x"}})
	assert.True(t, errors.Is(err, filter.ErrUnsupportedOperator))

	_, err = CompileString("title=~~=x")
	assert.True(t, errors.Is(err, filter.ErrParse))
}

func TestCompile_PointerNodes(t *testing.T) {
	cmp := filter.NewComparison("tag", filter.OpEqual, "fantasy")
	p, err := Compile(&filter.Or{Children: []filter.Node{&cmp}})
	require.NoError(t, err)
	assert.Equal(t, "any(lower(tags) = 'fantasy')", p.String())
}

func TestEval(t *testing.T) {
	omens, guards := goodOmens(), guardsGuards()

	tests := []struct {
		filter string
		omens  bool
		guards bool
	}{
		{"title==\"good omens\"", true, false},
		{"author==\"TERRY PRATCHETT\"", true, true},
		{"author!=\"neil gaiman\"", false, true},
		{"author=like=gaim", true, false},
		{"author=notlike=gaim", false, true},
		{"author.id==A1", true, false},
		{"tag=in=(comedy,horror)", true, false},
		{"tag=out=(comedy,horror)", false, true},
		{"series==discworld", false, true},
		{"series!=discworld", true, false},
		{"seriesVolume==8", false, true},
		{"format==pdf", false, true},
		{"format==epub", true, true},
		{"identifier==isbn:0-575-04800-x", true, false},
		{"publicationDate=like=1990", true, false},
		{"lang==en and tag==fantasy", true, false},
		{"lang==en or series==discworld", true, true},
		{"tag==fantasy and (author=like=gaiman or seriesVolume==8)", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.filter, func(t *testing.T) {
			p := mustCompile(t, tt.filter)
			assert.Equal(t, tt.omens, Eval(p, omens), "Good Omens")
			assert.Equal(t, tt.guards, Eval(p, guards), "Guards! Guards!")
		})
	}
}

func TestEval_Composites(t *testing.T) {
	book := goodOmens()

	assert.True(t, Eval(nil, book))
	assert.True(t, Eval(All{}, book))
	assert.False(t, Eval(Any{}, book))
	assert.False(t, Eval(Not{Child: All{}}, book))
}

func TestEval_UnicodeFolding(t *testing.T) {
	book := model.Book{Title: "Ärger im Paradies"}

	// decomposed A + combining diaeresis
	p := mustCompile(t, "title=like=\"a\u0308rger\"")
	assert.True(t, Eval(p, book))
}

func TestFilter(t *testing.T) {
	books := []model.Book{goodOmens(), guardsGuards()}

	matched := Filter(mustCompile(t, "author==\"terry pratchett\""), books)
	require.Len(t, matched, 2)
	assert.Equal(t, model.BookID("b1"), matched[0].ID)
	assert.Equal(t, model.BookID("b2"), matched[1].ID)

	assert.Empty(t, Filter(mustCompile(t, "tag==horror"), books))
}
