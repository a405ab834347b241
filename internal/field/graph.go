package field

// Namespace prefixes used by graph queries.
const (
	PrefixFOAF   = "foaf"
	PrefixSchema = "schema"
	PrefixBL     = "bl"
	PrefixRDF    = "rdf"
	PrefixRDFS   = "rdfs"
)

// Namespaces returns the prefix map every book graph query starts with.
// The map is freshly allocated on each call.
func Namespaces() map[string]string {
	return map[string]string{
		PrefixFOAF:   "http://xmlns.com/foaf/0.1/",
		PrefixSchema: "http://schema.org/",
		PrefixBL:     "http://booklibrary.org/",
		PrefixRDF:    "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
		PrefixRDFS:   "http://www.w3.org/2000/01/rdf-schema#",
	}
}

// Graph predicates.
const (
	PredicateType         = "rdf:type"
	PredicateTitle        = "schema:title"
	PredicateAuthor       = "schema:author"
	PredicateName         = "foaf:name"
	PredicateTag          = "bl:tag"
	PredicateLanguage     = "schema:language"
	PredicateIdentifier   = "bl:identifier"
	PredicatePublisher    = "schema:publishedBy"
	PredicatePartOfSeries = "schema:partOfSeries"
	PredicateVolumeNumber = "schema:volumeNumber"
	ClassBook             = "schema:Book"
)

// GraphField describes how a canonical field appears in a book graph.
type GraphField struct {
	Name      string // canonical field name
	Predicate string // predicate from ?book
	// Indirect fields link ?book to a generated resource via Predicate and
	// compare that resource's Via property instead.
	Indirect bool
	Via      string
	Integer  bool // arguments must parse as integers
}

var graphFields = map[string]GraphField{
	Title:          {Name: Title, Predicate: PredicateTitle},
	Authors:        {Name: Authors, Predicate: PredicateAuthor, Indirect: true, Via: PredicateName},
	Tags:           {Name: Tags, Predicate: PredicateTag},
	Languages:      {Name: Languages, Predicate: PredicateLanguage},
	Identifiers:    {Name: Identifiers, Predicate: PredicateIdentifier},
	Publisher:      {Name: Publisher, Predicate: PredicatePublisher},
	Series:         {Name: Series, Predicate: PredicatePartOfSeries},
	"series.title": {Name: Series, Predicate: PredicatePartOfSeries},
	SeriesVolume:   {Name: SeriesVolume, Predicate: PredicateVolumeNumber, Integer: true},
}

// LookupGraph maps a selector to its graph field. Unlike the relational
// Lenient resolver it never falls back: unknown names fail with
// UnsupportedFieldError.
func LookupGraph(selector string) (GraphField, error) {
	f, ok := graphFields[Canonical(selector)]
	if !ok {
		return GraphField{}, &UnsupportedFieldError{Field: selector, Target: "sparql"}
	}
	return f, nil
}
