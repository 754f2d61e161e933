package archive

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestArchiver(t *testing.T) *Archiver {
	t.Helper()
	a, err := New(filepath.Join(t.TempDir(), "processed.tar"))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestArchiveAppendsAndDeletes(t *testing.T) {
	a := newTestArchiver(t)
	path := writeFile(t, "doc.md", "archived content")

	require.NoError(t, a.Archive(context.Background(), path))

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "source must be deleted after archival")

	entries, err := a.List()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "archived content", string(entries[0].Contents))
	assert.Contains(t, entries[0].Name, "doc.md")
}

func TestArchiveAccumulatesEntries(t *testing.T) {
	a := newTestArchiver(t)
	ctx := context.Background()

	first := writeFile(t, "a.md", "first")
	second := writeFile(t, "b.md", "second")
	third := writeFile(t, "a.md", "third, same base name")

	require.NoError(t, a.Archive(ctx, first))
	require.NoError(t, a.Archive(ctx, second))
	require.NoError(t, a.Archive(ctx, third))

	entries, err := a.List()
	require.NoError(t, err)
	require.Len(t, entries, 3, "appends must not clobber earlier entries")
	assert.Equal(t, "first", string(entries[0].Contents))
	assert.Equal(t, "second", string(entries[1].Contents))
	assert.Equal(t, "third, same base name", string(entries[2].Contents))
	assert.NotEqual(t, entries[0].Name, entries[2].Name,
		"equal base names must get distinct entry names")
}

func TestArchiveMissingSource(t *testing.T) {
	a := newTestArchiver(t)

	err := a.Archive(context.Background(), filepath.Join(t.TempDir(), "absent.md"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAppendFailed)

	entries, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewRequiresContainerPath(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrContainerPathRequired)
}

func TestListEmptyContainer(t *testing.T) {
	a := newTestArchiver(t)

	entries, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, entries)
}
