package field

import "strings"

// BooksTable is the root relation every relational query selects from.
const BooksTable = "BOOKS"

// JoinSpec is an equi-join from one relation to another.
// Two specs with the same RightTable are the same join.
type JoinSpec struct {
	LeftTable  string
	RightTable string
	LeftKey    string
	RightKey   string
}

// Clause renders the join clause, e.g. "LEFT JOIN AUTHORS".
func (j JoinSpec) Clause() string {
	return "LEFT JOIN " + j.RightTable
}

// Condition renders the key equality, e.g. "BOOKS.ID=AUTHORS.BOOK_ID".
func (j JoinSpec) Condition() string {
	return j.LeftTable + "." + j.LeftKey + "=" + j.RightTable + "." + j.RightKey
}

// Joins of the catalogue schema.
var (
	AuthorsJoin     = JoinSpec{LeftTable: BooksTable, RightTable: "AUTHORS", LeftKey: "ID", RightKey: "BOOK_ID"}
	FormatsJoin     = JoinSpec{LeftTable: BooksTable, RightTable: "FORMATS", LeftKey: "ID", RightKey: "BOOK_ID"}
	IdentifiersJoin = JoinSpec{LeftTable: BooksTable, RightTable: "IDENTIFIERS", LeftKey: "ID", RightKey: "BOOK_ID"}
	LanguagesJoin   = JoinSpec{LeftTable: BooksTable, RightTable: "LANGUAGES", LeftKey: "ID", RightKey: "BOOK_ID"}
	SeriesJoin      = JoinSpec{LeftTable: BooksTable, RightTable: "SERIES", LeftKey: "SERIES_ID", RightKey: "ID"}
	TagsJoin        = JoinSpec{LeftTable: BooksTable, RightTable: "TAGS", LeftKey: "ID", RightKey: "BOOK_ID"}
)

// collectionJoins maps collection fields to the table holding their NAME.
var collectionJoins = map[string]JoinSpec{
	Tags:        TagsJoin,
	Languages:   LanguagesJoin,
	Identifiers: IdentifiersJoin,
}

// columns lists the queryable columns per table, used by Strict.
var columns = map[string][]string{
	BooksTable:    {"ID", "TITLE", "PUBLISHER", "DESCRIPTION", "CREATIONDATE", "PUBLICATIONDATE", "SERIESVOLUME"},
	"SERIES":      {"ID", "TITLE"},
	"AUTHORS":     {"NAME", "AUTHOR_ID"},
	"FORMATS":     {"TYPE"},
	"TAGS":        {"NAME"},
	"LANGUAGES":   {"NAME"},
	"IDENTIFIERS": {"NAME"},
}

// Resolved is a selector mapped onto the relational schema.
type Resolved struct {
	Path string    // qualified column, e.g. "TAGS.NAME"
	Join *JoinSpec // nil for BOOKS columns
}

// Resolver maps selectors onto the relational schema.
type Resolver struct {
	// Strict rejects columns the schema does not declare instead of
	// forwarding them.
	Strict bool
}

var (
	// Lenient forwards unknown selectors as BOOKS columns.
	Lenient = Resolver{}

	// Strict fails with UnsupportedFieldError for unknown columns.
	Strict = Resolver{Strict: true}
)

// Resolve maps a selector to its column path and required join.
//
// Rules, first match wins:
//  1. alias normalisation
//  2. series or series.<sub> -> SERIES.<SUB> (TITLE when bare) + SeriesJoin
//  3. format -> FORMATS.TYPE + FormatsJoin
//  4. authors -> AUTHORS.NAME, authors.id -> AUTHORS.AUTHOR_ID + AuthorsJoin
//  5. tags, languages, identifiers -> <TABLE>.NAME + join
//  6. anything else -> BOOKS.<UPPER>
//
// Selectors that are not plain identifiers (letters, digits, '_' and '.')
// are rejected in both modes since the path is embedded in query text.
func (r Resolver) Resolve(selector string) (Resolved, error) {
	if !isIdentifier(selector) {
		return Resolved{}, &UnsupportedFieldError{Field: selector, Target: "sql"}
	}
	name := Canonical(selector)

	var res Resolved
	switch {
	case name == Format:
		res = Resolved{Path: "FORMATS.TYPE", Join: joinRef(FormatsJoin)}
	case name == Authors:
		res = Resolved{Path: "AUTHORS.NAME", Join: joinRef(AuthorsJoin)}
	case name == AuthorID:
		res = Resolved{Path: "AUTHORS.AUTHOR_ID", Join: joinRef(AuthorsJoin)}
	default:
		if sub, ok := splitSeries(name); ok {
			if sub == "" {
				sub = "title"
			}
			res = Resolved{Path: "SERIES." + strings.ToUpper(sub), Join: joinRef(SeriesJoin)}
		} else if join, ok := collectionJoins[name]; ok {
			res = Resolved{Path: join.RightTable + ".NAME", Join: joinRef(join)}
		} else {
			res = Resolved{Path: BooksTable + "." + strings.ToUpper(name)}
		}
	}

	if r.Strict && !declared(res.Path) {
		return Resolved{}, &UnsupportedFieldError{Field: selector, Target: "sql"}
	}
	return res, nil
}

// Resolve resolves with the Lenient resolver.
func Resolve(selector string) (Resolved, error) {
	return Lenient.Resolve(selector)
}

func joinRef(j JoinSpec) *JoinSpec {
	return &j
}

func declared(path string) bool {
	table, column, ok := strings.Cut(path, ".")
	if !ok {
		return false
	}
	for _, c := range columns[table] {
		if c == column {
			return true
		}
	}
	return false
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}
