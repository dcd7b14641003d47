package manifest

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BaSui01/genesis/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleManifest(projectID string, generatedAt time.Time) *types.ProjectManifest {
	return &types.ProjectManifest{
		ProjectID:   projectID,
		Prompt:      "build a todo app",
		Backend:     "ollama",
		GeneratedAt: generatedAt,
		Files: []types.GeneratedFile{
			{Name: "README.md", Content: "# Todo", Language: "markdown"},
		},
		Output:      "Successfully generated 1 files",
		ProjectPath: "/tmp/genesis/todo-app",
	}
}

func TestFileStore_SaveAndGet(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := sampleManifest("20260828_101500", time.Now().UTC())
	require.NoError(t, store.Save(context.Background(), m))

	got, err := store.Get(context.Background(), "20260828_101500")
	require.NoError(t, err)
	assert.Equal(t, m.ProjectID, got.ProjectID)
	assert.Equal(t, m.Prompt, got.Prompt)
	require.Len(t, got.Files, 1)
	assert.Equal(t, "README.md", got.Files[0].Name)
}

func TestFileStore_SaveWritesManifestFile(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := sampleManifest("20260828_101501", time.Now().UTC())
	require.NoError(t, store.Save(context.Background(), m))

	path := filepath.Join(dir, "20260828_101501_manifest.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))

	// 没有残留的临时文件
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	m := sampleManifest("20260828_101502", time.Now().UTC())
	require.NoError(t, store.Save(context.Background(), m))

	m.Output = "updated output"
	require.NoError(t, store.Save(context.Background(), m))

	got, err := store.Get(context.Background(), "20260828_101502")
	require.NoError(t, err)
	assert.Equal(t, "updated output", got.Output)
}

func TestFileStore_GetNotFound(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	_, err = store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStore_List_SortedByGeneratedAt(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	require.NoError(t, store.Save(context.Background(), sampleManifest("b", base.Add(time.Hour))))
	require.NoError(t, store.Save(context.Background(), sampleManifest("a", base)))

	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ProjectID)
	assert.Equal(t, "b", got[1].ProjectID)
}

func TestFileStore_List_SkipsCorruptFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Save(context.Background(), sampleManifest("good", time.Now().UTC())))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad_manifest.json"), []byte("{not json"), 0644))

	got, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "good", got[0].ProjectID)
}

func TestFileStore_InvalidInput(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	assert.ErrorIs(t, store.Save(context.Background(), nil), ErrInvalidInput)
	assert.ErrorIs(t, store.Save(context.Background(), &types.ProjectManifest{}), ErrInvalidInput)

	_, err = store.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFileStore_ClosedStore(t *testing.T) {
	store, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Save(context.Background(), sampleManifest("x", time.Now())), ErrStoreClosed)
	_, err = store.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrStoreClosed)
	_, err = store.List(context.Background())
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Ping(context.Background()), ErrStoreClosed)

	// Close 幂等
	assert.NoError(t, store.Close())
}

func TestNewFileStore_EmptyDir(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}
