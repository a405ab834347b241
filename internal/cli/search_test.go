package cli

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bookql/internal/model"
)

const seedDir = "testdata/seed"

// loadedDB loads the test seed into a fresh SQLite database.
func loadedDB(t *testing.T) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "library.db")
	_, err := execute(t, NewLoadCommand(&RootOptions{Format: "text"}), seedDir, "--db", dbPath)
	require.NoError(t, err)
	return dbPath
}

// backendArgs returns the flags selecting each backend over the test seed.
func backendArgs(t *testing.T) map[string][]string {
	return map[string][]string{
		"memory": {"--backend", "memory", "--seed", seedDir},
		"sqlite": {"--backend", "sqlite", "--db", loadedDB(t)},
	}
}

func TestSearch_Backends(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		expect string
	}{
		{
			name:   "shared_author",
			filter: `author=="terry pratchett"`,
			expect: "goodOmens\tGood Omens\tNeil Gaiman, Terry Pratchett\n" +
				"guardsGuards\tGuards! Guards!\tTerry Pratchett\n" +
				"2 book(s)\n",
		},
		{
			name:   "tag_and_author",
			filter: "tag==fantasy and author=like=Sap",
			expect: "krewElfow\tKrew elfów\tAndrzej Sapkowski\n1 book(s)\n",
		},
		{
			name:   "no_match",
			filter: "series==Dune",
			expect: "0 book(s)\n",
		},
	}

	for backend, args := range backendArgs(t) {
		for _, tt := range tests {
			t.Run(backend+"/"+tt.name, func(t *testing.T) {
				out, err := execute(t, NewSearchCommand(&RootOptions{Format: "text"}), append([]string{tt.filter}, args...)...)
				require.NoError(t, err)
				assert.Equal(t, tt.expect, out)
			})
		}
	}
}

func TestSearch_JSON(t *testing.T) {
	out, err := execute(t, NewSearchCommand(&RootOptions{Format: "json"}),
		"series==Discworld", "--backend", "memory", "--seed", seedDir)
	require.NoError(t, err)

	var resp struct {
		Status string       `json:"status"`
		Data   SearchResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Data.Count)
	require.Len(t, resp.Data.Books, 1)
	assert.Equal(t, model.BookID("guardsGuards"), resp.Data.Books[0].ID)
	assert.Equal(t, &model.SeriesEntry{Title: "Discworld", Volume: 8}, resp.Data.Books[0].Series)
}

func TestSearch_EmptyJSONList(t *testing.T) {
	out, err := execute(t, NewSearchCommand(&RootOptions{Format: "json"}),
		"tag==horror", "--backend", "memory", "--seed", seedDir)
	require.NoError(t, err)
	assert.Contains(t, out, `"books":[]`)
}

func TestSearch_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code string
	}{
		{"unknown_operator", []string{"title=~~=X", "--backend", "memory", "--seed", seedDir}, ErrCodeOperator},
		{"parse", []string{"(tag==x", "--backend", "memory", "--seed", seedDir}, ErrCodeParse},
		{"unknown_backend", []string{"tag==x", "--backend", "postgres"}, ErrCodeStore},
		{"missing_seed", []string{"tag==x", "--backend", "memory", "--seed", "testdata/none"}, ErrCodeStore},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, NewSearchCommand(&RootOptions{Format: "json"}), tt.args...)
			require.Error(t, err)
			assert.Equal(t, ExitCommandError, GetExitCode(err))

			var resp CLIResponse
			require.NoError(t, json.Unmarshal([]byte(out), &resp))
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
		})
	}
}

func TestShow(t *testing.T) {
	for backend, args := range backendArgs(t) {
		t.Run(backend, func(t *testing.T) {
			out, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}), append([]string{"guardsGuards"}, args...)...)
			require.NoError(t, err)

			assert.Contains(t, out, "ID:          guardsGuards\n")
			assert.Contains(t, out, "Title:       Guards! Guards!\n")
			assert.Contains(t, out, "Authors:     Terry Pratchett\n")
			assert.Contains(t, out, "Series:      Discworld #8\n")
			assert.Contains(t, out, "Formats:     pdf\n")
			assert.NotContains(t, out, "Publisher:")
		})
	}
}

func TestShow_NotFound(t *testing.T) {
	out, err := execute(t, NewShowCommand(&RootOptions{Format: "text"}),
		"dune", "--backend", "memory", "--seed", seedDir)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E302]")
}

func TestAuthors(t *testing.T) {
	for backend, args := range backendArgs(t) {
		t.Run(backend, func(t *testing.T) {
			out, err := execute(t, NewAuthorsCommand(&RootOptions{Format: "text"}), args...)
			require.NoError(t, err)
			assert.Equal(t,
				"sapkowski\tAndrzej Sapkowski\n"+
					"gaiman\tNeil Gaiman\n"+
					"pratchett\tTerry Pratchett\n", out)
		})
	}
}

func TestAuthors_WithBooks(t *testing.T) {
	for backend, args := range backendArgs(t) {
		t.Run(backend, func(t *testing.T) {
			out, err := execute(t, NewAuthorsCommand(&RootOptions{Format: "text"}), append([]string{"pratchett", "--books"}, args...)...)
			require.NoError(t, err)
			assert.Equal(t, "pratchett\tTerry Pratchett\t[goodOmens guardsGuards]\n", out)
		})
	}
}

func TestAuthors_JSON(t *testing.T) {
	out, err := execute(t, NewAuthorsCommand(&RootOptions{Format: "json"}),
		"gaiman", "--books", "--backend", "memory", "--seed", seedDir)
	require.NoError(t, err)

	var resp struct {
		Data AuthorsResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Authors, 1)
	assert.Equal(t, model.AuthorID("gaiman"), resp.Data.Authors[0].ID)
	assert.Equal(t, "Neil Gaiman", resp.Data.Authors[0].Name)
	assert.Equal(t, []model.BookID{"goodOmens"}, resp.Data.Authors[0].Books)
}

func TestAuthors_NotFound(t *testing.T) {
	out, err := execute(t, NewAuthorsCommand(&RootOptions{Format: "json"}),
		"tolkien", "--backend", "memory", "--seed", seedDir)
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
}
