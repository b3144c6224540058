package wordlist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadLinesSkipsBlank(t *testing.T) {
	path := writeTemp(t, "alice\n\n  bob  \n")
	lines, err := ReadLines(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, lines)
}

func TestReadComboSplitsOnFirstColon(t *testing.T) {
	path := writeTemp(t, "alice:pass:with:colons\nbob:hunter2\n")
	pairs, err := ReadCombo(path)
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, Pair{User: "alice", Password: "pass:with:colons"}, pairs[0])
	assert.Equal(t, Pair{User: "bob", Password: "hunter2"}, pairs[1])
}

func TestReadComboRejectsMissingSeparator(t *testing.T) {
	path := writeTemp(t, "alice\n")
	_, err := ReadCombo(path)
	assert.Error(t, err)
}

func TestCrossProduct(t *testing.T) {
	pairs := CrossProduct([]string{"a", "b"}, []string{"1", "2"})
	assert.Equal(t, []Pair{
		{User: "a", Password: "1"},
		{User: "a", Password: "2"},
		{User: "b", Password: "1"},
		{User: "b", Password: "2"},
	}, pairs)
}
