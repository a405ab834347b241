package field

import "strings"

// Canonical field names.
const (
	Title           = "title"
	Authors         = "authors"
	AuthorID        = "authors.id"
	Tags            = "tags"
	Languages       = "languages"
	Identifiers     = "identifiers"
	Publisher       = "publisher"
	Series          = "series"
	SeriesVolume    = "seriesVolume"
	Format          = "format"
	Description     = "description"
	CreationDate    = "creationDate"
	PublicationDate = "publicationDate"
)

var aliases = map[string]string{
	"author":     Authors,
	"author.id":  AuthorID,
	"tag":        Tags,
	"language":   Languages,
	"lang":       Languages,
	"identifier": Identifiers,
}

// Canonical applies the alias table. Names without an alias are returned
// unchanged.
func Canonical(selector string) string {
	if name, ok := aliases[selector]; ok {
		return name
	}
	return selector
}

// splitSeries reports whether name addresses the series relation and
// returns its sub-field ("" for bare "series").
func splitSeries(name string) (string, bool) {
	if name == Series {
		return "", true
	}
	if sub, ok := strings.CutPrefix(name, Series+"."); ok && sub != "" {
		return sub, true
	}
	return "", false
}
