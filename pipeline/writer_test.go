package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BaSui01/genesis/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriter_Write(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, zap.NewNop())
	require.NoError(t, err)

	files := []types.GeneratedFile{
		{Name: "package.json", Content: "{}", Language: "json"},
		{Name: "src/components/App.tsx", Content: "export {}", Language: "typescript"},
	}

	path, err := w.Write("todo-app", files)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "todo-app"), path)

	data, err := os.ReadFile(filepath.Join(path, "package.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	data, err = os.ReadFile(filepath.Join(path, "src", "components", "App.tsx"))
	require.NoError(t, err)
	assert.Equal(t, "export {}", string(data))
}

func TestWriter_Write_PreservesContentVerbatim(t *testing.T) {
	w, err := NewWriter(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	content := "line1\n\tline2\r\nünïcode 中文 🎉\n"
	path, err := w.Write("proj", []types.GeneratedFile{
		{Name: "notes.txt", Content: content, Language: "text"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(path, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestWriter_Write_RejectsEscapingPaths(t *testing.T) {
	root := t.TempDir()
	w, err := NewWriter(root, zap.NewNop())
	require.NoError(t, err)

	for _, name := range []string{
		"../evil.txt",
		"../../etc/passwd",
		"a/../../evil.txt",
		"/etc/passwd",
		"",
	} {
		_, err := w.Write("proj", []types.GeneratedFile{
			{Name: name, Content: "x", Language: "text"},
		})
		require.Error(t, err, "name %q should be rejected", name)
		assert.Equal(t, types.ErrFilesystemError, types.GetErrorCode(err))
	}

	// 整组拒绝: 项目目录没有写入任何文件
	_, statErr := os.Stat(filepath.Join(root, "proj"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriter_Write_AllowsInternalDotDot(t *testing.T) {
	w, err := NewWriter(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	// "a/../b.txt" 规约后仍在项目目录内
	path, err := w.Write("proj", []types.GeneratedFile{
		{Name: "a/../b.txt", Content: "ok", Language: "text"},
	})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(path, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
}

func TestWriter_Write_EmptyProjectName(t *testing.T) {
	w, err := NewWriter(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	_, err = w.Write("", []types.GeneratedFile{{Name: "a.txt", Content: "x"}})
	require.Error(t, err)
	assert.Equal(t, types.ErrFilesystemError, types.GetErrorCode(err))
}

func TestNewWriter_EmptyRoot(t *testing.T) {
	_, err := NewWriter("", zap.NewNop())
	assert.Error(t, err)
}
