package compose

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bookql/internal/field"
)

func TestMergeSelectors(t *testing.T) {
	got := MergeSelectors([]string{"book", "author0"}, []string{"book", "title"}, nil, []string{"author0"})
	assert.Equal(t, []string{"book", "author0", "title"}, got)
}

func TestMergePrefixes(t *testing.T) {
	left := map[string]string{"schema": "http://schema.org/", "foaf": "http://xmlns.com/foaf/0.1/"}
	right := map[string]string{"schema": "http://schema.org/", "bl": "http://booklibrary.org/"}

	merged, err := MergePrefixes(left, right)
	require.NoError(t, err)
	assert.Len(t, merged, 3)
	assert.Len(t, left, 2, "inputs must not be modified")

	_, err = MergePrefixes(left, map[string]string{"schema": "http://example.org/"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConsistency))

	var consErr *ConsistencyError
	require.True(t, errors.As(err, &consErr))
	assert.Equal(t, "schema", consErr.Key)
	assert.Contains(t, err.Error(), "http://example.org/")
}

func TestCollisions(t *testing.T) {
	tests := []struct {
		name        string
		left, right []string
		want        []string
	}{
		{"disjoint", []string{"?cond_value0"}, []string{"?cond_value1"}, nil},
		{"empty", nil, nil, nil},
		{"one", []string{"?author0", "?cond_value0"}, []string{"?cond_value0"}, []string{"?cond_value0"}},
		{"right_order", []string{"?author0", "?cond_value0"}, []string{"?cond_value0", "?x", "?author0"}, []string{"?cond_value0", "?author0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Collisions(tt.left, tt.right))
		})
	}
}

func TestJoinSet_UnionDeduplicates(t *testing.T) {
	a := NewJoinSet(field.TagsJoin, field.AuthorsJoin)
	b := NewJoinSet(field.AuthorsJoin, field.SeriesJoin)

	u := a.Union(b)
	assert.Equal(t, []string{"AUTHORS", "SERIES", "TAGS"}, u.Tables())
	assert.Len(t, a, 2, "union must not modify the receiver")

	assert.Equal(t, a.Union(b), b.Union(a))
	assert.Equal(t, []field.JoinSpec{field.AuthorsJoin, field.SeriesJoin, field.TagsJoin}, u.Sorted())
}

func TestJoinMode(t *testing.T) {
	assert.Equal(t, "UNION", JoinUnion.Keyword())
	assert.Equal(t, "", JoinNone.Keyword())
	assert.Equal(t, "", JoinAnd.Keyword())
	assert.Equal(t, "AND", JoinAnd.String())
	assert.Equal(t, "JoinMode(7)", JoinMode(7).String())
}
