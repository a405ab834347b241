package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewLoadCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{seedDir, "--db", dbPath})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Equal(t, "✓ Loaded 3 book(s) from 1 file(s) into "+dbPath+"\n", buf.String())
}

func TestLoadJSON(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	out, err := execute(t, NewLoadCommand(&RootOptions{Format: "json"}), seedDir, "--db", dbPath)
	require.NoError(t, err)

	var resp struct {
		Status string      `json:"status"`
		Data   LoadSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, LoadSummary{Database: dbPath, FileCount: 1, Books: 3}, resp.Data)
}

func TestLoadTwiceFails(t *testing.T) {
	dbPath := loadedDB(t)

	out, err := execute(t, NewLoadCommand(&RootOptions{Format: "text"}), seedDir, "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E301]")
	assert.Contains(t, out, "loaded 0 of 3 book(s)")
}

func TestLoadInvalidSeed(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	out, err := execute(t, NewLoadCommand(&RootOptions{Format: "text"}), "testdata/invalid", "--db", dbPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "✗ Load failed")
	assert.Contains(t, out, "E101")
	assert.Contains(t, out, "E103")
	assert.Contains(t, out, "bad.cue:")
	assert.NoFileExists(t, dbPath)
}

func TestLoadNonExistentDirectory(t *testing.T) {
	out, err := execute(t, NewLoadCommand(&RootOptions{Format: "text"}), "/nonexistent/seed",
		"--db", filepath.Join(t.TempDir(), "library.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, out, "not found")
}

func TestValidateValidSeed(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), seedDir)
	require.NoError(t, err)
	assert.Equal(t, "✓ 3 book(s) valid\n", out)
}

func TestValidateValidSeedJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), seedDir)
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   ValidationResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, ValidationResult{Valid: true, FileCount: 1, Books: 3}, resp.Data)
}

func TestValidateInvalidSeed(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "testdata/invalid")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, err.Error(), "3 seed error(s)")
}

func TestValidateInvalidSeedJSON(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "json"}), "testdata/invalid")
	require.Error(t, err)

	var resp struct {
		Status string     `json:"status"`
		Error  *CLIError  `json:"error"`
		Data   []CLIError `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Len(t, resp.Data, 3)
	assert.Equal(t, resp.Data[0], *resp.Error)
}

func TestValidateNonExistentDirectory(t *testing.T) {
	out, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), "/nonexistent/directory/path")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, out, "not found")
}

func TestValidateEmptyDirectory(t *testing.T) {
	_, err := execute(t, NewValidateCommand(&RootOptions{Format: "text"}), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E003")
}
