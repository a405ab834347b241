package querytree

import (
	"strconv"
	"strings"
	"time"

	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/model"
)

const dateLayout = time.DateOnly

// Eval reports whether book satisfies p. A nil predicate matches every
// book.
func Eval(p Predicate, book model.Book) bool {
	switch pred := p.(type) {
	case nil:
		return true
	case All:
		for _, c := range pred.Children {
			if !Eval(c, book) {
				return false
			}
		}
		return true
	case Any:
		for _, c := range pred.Children {
			if Eval(c, book) {
				return true
			}
		}
		return false
	case Not:
		return !Eval(pred.Child, book)
	case Equal:
		return anyValue(book, pred.Field, func(v string) bool { return v == pred.Value })
	case NotEqual:
		return !anyValue(book, pred.Field, func(v string) bool { return v == pred.Value })
	case In:
		return anyValue(book, pred.Field, func(v string) bool {
			for _, want := range pred.Values {
				if v == want {
					return true
				}
			}
			return false
		})
	case Like:
		return anyValue(book, pred.Field, func(v string) bool { return strings.Contains(v, pred.Pattern) })
	default:
		return false
	}
}

// Filter returns the books satisfying p, preserving order.
func Filter(p Predicate, books []model.Book) []model.Book {
	var matched []model.Book
	for _, b := range books {
		if Eval(p, b) {
			matched = append(matched, b)
		}
	}
	return matched
}

func anyValue(book model.Book, name string, match func(string) bool) bool {
	for _, v := range values(book, name) {
		if match(field.Lower(v)) {
			return true
		}
	}
	return false
}

// values returns the raw values of a canonical field. Unset scalars yield
// no values, so Equal fails and NotEqual holds.
func values(book model.Book, name string) []string {
	switch name {
	case field.Title:
		return scalar(book.Title)
	case field.Authors:
		return book.AuthorNames()
	case field.AuthorID:
		out := make([]string, len(book.Authors))
		for i, a := range book.Authors {
			out[i] = string(a.ID)
		}
		return out
	case field.Tags:
		return book.Tags
	case field.Languages:
		return book.Languages
	case field.Identifiers:
		out := make([]string, len(book.Identifiers))
		for i, id := range book.Identifiers {
			out[i] = id.String()
		}
		return out
	case field.Publisher:
		return scalar(book.Publisher)
	case field.Description:
		return scalar(book.Description)
	case field.Series:
		if book.Series == nil {
			return nil
		}
		return scalar(book.Series.Title)
	case field.SeriesVolume:
		if book.Series == nil {
			return nil
		}
		return []string{strconv.Itoa(book.Series.Volume)}
	case field.Format:
		out := make([]string, len(book.Formats))
		for i, f := range book.Formats {
			out[i] = f.Type
		}
		return out
	case field.CreationDate:
		return date(book.CreationDate)
	case field.PublicationDate:
		return date(book.PublicationDate)
	default:
		return nil
	}
}

func scalar(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func date(t time.Time) []string {
	if t.IsZero() {
		return nil
	}
	return []string{t.Format(dateLayout)}
}
