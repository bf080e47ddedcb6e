package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memorize-server/matcherrors"
)

func TestMemorySlot(t *testing.T) {
	ctx := context.Background()
	m := NewMemorySlot()

	_, err := m.Load(ctx, "k")
	assert.ErrorIs(t, err, matcherrors.ErrSlotEmpty)

	buf := []byte(`[1,2]`)
	require.NoError(t, m.Save(ctx, "k", buf))
	buf[0] = 'x' // caller mutation must not leak into the slot

	got, err := m.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))
	assert.Equal(t, 1, m.Writes("k"))
	assert.Equal(t, 0, m.Writes("other"))
}

func TestFileSlotRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested")
	f, err := NewFileSlot(dir)
	require.NoError(t, err)

	_, err = f.Load(ctx, "memorize.themes")
	assert.ErrorIs(t, err, matcherrors.ErrSlotEmpty)

	require.NoError(t, f.Save(ctx, "memorize.themes", []byte(`{"a":1}`)))
	require.NoError(t, f.Save(ctx, "memorize.themes", []byte(`{"a":2}`)))

	got, err := f.Load(ctx, "memorize.themes")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files should be cleaned up")
	assert.Equal(t, "memorize.themes.json", entries[0].Name())
}

func TestFileSlotSanitizesKey(t *testing.T) {
	f, err := NewFileSlot(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "a_b.json", filepath.Base(f.path("a/b")))
}

func TestNewStoreWithoutURL(t *testing.T) {
	s, err := NewStore(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, s)

	// A nil store behaves as an empty slot.
	_, err = s.Load(context.Background(), "k")
	assert.ErrorIs(t, err, matcherrors.ErrSlotEmpty)
	assert.NoError(t, s.Save(context.Background(), "k", nil))
	s.Close()
}

func TestOpenFallsBackToFiles(t *testing.T) {
	slot, err := Open(context.Background(), "", t.TempDir())
	require.NoError(t, err)
	_, ok := slot.(*FileSlot)
	assert.True(t, ok, "expected *FileSlot, got %T", slot)
}
