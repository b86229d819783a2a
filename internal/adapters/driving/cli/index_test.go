package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexCmd_Use(t *testing.T) {
	assert.Equal(t, "index [file...]", indexCmd.Use)
}

func TestIndexCmd_RequiresFilesOrDir(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to index")
}

func TestIndexCmd_IndexesFiles(t *testing.T) {
	agent, _, cleanup := setupTestServices()
	defer cleanup()

	path := filepath.Join(t.TempDir(), "budget.txt")
	require.NoError(t, os.WriteFile(path, []byte("The budget is fifty thousand."), 0600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", path})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed budget.txt (1 chunks)")
	assert.Equal(t, "default", agent.lastUserID)
}

func TestIndexCmd_MissingFile(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"index", filepath.Join(t.TempDir(), "nope.txt")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
}

func TestIndexCmd_IndexesDirectory(t *testing.T) {
	agent, _, cleanup := setupTestServices()
	defer cleanup()

	agent.docs = []string{"a.txt", "b.txt"}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("content"), 0600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"index", "--dir", dir})
	defer func() {
		rootCmd.SetArgs(nil)
		indexDir = ""
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "Indexed 2 documents from "+dir)
}
