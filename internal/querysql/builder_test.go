package querysql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bookql/internal/field"
	"github.com/roach88/bookql/internal/filter"
)

func TestBuilder_DeferredEqualsEager(t *testing.T) {
	tests := []struct {
		name     string
		deferred func() *Builder
		eager    func(t *testing.T) *BookQuery
	}{
		{
			name: "and",
			deferred: func() *Builder {
				return NewBuilder().WithTag(filter.OpEqual, "fantasy").And().WithAuthor(filter.OpLike, "Sap")
			},
			eager: func(t *testing.T) *BookQuery {
				return And(mustCompile(t, "tag==fantasy"), mustCompile(t, "author=like=Sap"))
			},
		},
		{
			name: "or",
			deferred: func() *Builder {
				return NewBuilder().WithTitle(filter.OpEqual, "Dune").Or().WithSeries(filter.OpEqual, "Dune")
			},
			eager: func(t *testing.T) *BookQuery {
				return Or(mustCompile(t, "title==Dune"), mustCompile(t, "series==Dune"))
			},
		},
		{
			name: "segment of two then or",
			deferred: func() *Builder {
				return NewBuilder().
					WithTag(filter.OpIn, "a", "b").
					WithLanguage(filter.OpEqual, "en").
					Or().
					WithAuthor(filter.OpNotEqual, "x")
			},
			eager: func(t *testing.T) *BookQuery {
				return Or(
					And(mustCompile(t, "tag=in=(a,b)"), mustCompile(t, "lang==en")),
					mustCompile(t, "author!=x"),
				)
			},
		},
		{
			name: "chained",
			deferred: func() *Builder {
				return NewBuilder().WithTag(filter.OpEqual, "a").And().WithTag(filter.OpEqual, "b").Or().WithTag(filter.OpEqual, "c")
			},
			eager: func(t *testing.T) *BookQuery {
				return Or(And(mustCompile(t, "tag==a"), mustCompile(t, "tag==b")), mustCompile(t, "tag==c"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.deferred().Build()
			require.NoError(t, err)
			assert.Equal(t, tt.eager(t), got)
		})
	}
}

func TestBuilder_MatchesCompiledFilter(t *testing.T) {
	built, err := NewBuilder().WithTag(filter.OpEqual, "fantasy").And().WithAuthor(filter.OpLike, "Sap").Build()
	require.NoError(t, err)

	assert.Equal(t, mustCompile(t, "tag==fantasy and author=like=Sap"), built)
}

func TestBuilder_SnapshotIsIndependent(t *testing.T) {
	base := NewBuilder().WithTag(filter.OpEqual, "a")
	_ = base.And().WithTag(filter.OpEqual, "b")

	q, err := base.Build()
	require.NoError(t, err)
	assert.Equal(t, "TAGS.NAME='A'", mustWhere(t, q))
}

func TestBuilder_Errors(t *testing.T) {
	_, err := NewBuilder().WithTitle(filter.OpEqual).And().WithTag(filter.OpEqual, "x").Build()
	assert.True(t, errors.Is(err, filter.ErrInvalidNode))

	_, err = NewBuilder(WithStrictFields(true)).Where("shoeSize", filter.OpEqual, "9").Build()
	assert.True(t, errors.Is(err, field.ErrUnsupportedField))

	_, err = NewBuilder().Where("title", filter.Operator(9), "x").Build()
	assert.True(t, errors.Is(err, filter.ErrUnsupportedOperator))
}
