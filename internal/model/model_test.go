package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want Identifier
	}{
		{"isbn:0-06-051518-X", Identifier{Scheme: "isbn", Value: "0-06-051518-X"}},
		{"urn:isbn:123", Identifier{Scheme: "urn", Value: "isbn:123"}},
		{"12345", Identifier{Scheme: "id", Value: "12345"}},
		{":12345", Identifier{Scheme: "id", Value: "12345"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIdentifier(tt.in))
		})
	}
	assert.Equal(t, "isbn:123", ParseIdentifier("isbn:123").String())
}

func TestBook_Validate(t *testing.T) {
	assert.NoError(t, Book{Title: "Good Omens"}.Validate())

	tests := map[string]Book{
		"empty title":     {},
		"blank title":     {Title: "  "},
		"unnamed author":  {Title: "x", Authors: []Author{{ID: "a1"}}},
		"untitled series": {Title: "x", Series: &SeriesEntry{Volume: 2}},
	}
	for name, book := range tests {
		t.Run(name, func(t *testing.T) {
			assert.True(t, errors.Is(book.Validate(), ErrInvalidBook))
		})
	}
}

func TestBook_AuthorNames(t *testing.T) {
	b := Book{Authors: []Author{{ID: "1", Name: "Terry Pratchett"}, {ID: "2", Name: "Neil Gaiman"}}}
	assert.Equal(t, []string{"Terry Pratchett", "Neil Gaiman"}, b.AuthorNames())
}
