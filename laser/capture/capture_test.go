package capture

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCaptureName(t *testing.T) {
	name := GenerateCaptureName()
	parts := strings.Split(name, "-")
	require.Len(t, parts, 2)
	assert.Contains(t, adjectives, parts[0])
	assert.Contains(t, nouns, parts[1])
}

func TestGenerateCaptureID(t *testing.T) {
	parts := strings.Split(GenerateCaptureID(), "-")
	require.Len(t, parts, 4)
	assert.Len(t, parts[2], len("20060102"))
	assert.Len(t, parts[3], len("150405"))
}

func TestCreate(t *testing.T) {
	assert := assert.New(t)
	root := t.TempDir()

	dir, err := Create(root)
	require.NoError(t, err)
	assert.True(filepath.IsAbs(dir.Path))
	info, err := os.Stat(dir.Path)
	require.NoError(t, err)
	assert.True(info.IsDir())

	latest, err := os.Readlink(filepath.Join(root, LatestSymlink))
	require.NoError(t, err)
	assert.Equal(dir.ID, latest)

	assert.Equal(filepath.Join(dir.Path, "frame_000012.png"), dir.FramePath(12, "png"))
	assert.Equal(filepath.Join(dir.Path, "notes.txt"), dir.FilePath("notes.txt"))
}

func TestCopyConfigFile(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(t.TempDir(), "scene.yaml")
	require.NoError(t, os.WriteFile(src, []byte("trace: {}\n"), 0644))

	dir, err := Create(root)
	require.NoError(t, err)
	require.NoError(t, dir.CopyConfigFile(src))

	data, err := os.ReadFile(dir.FilePath("scene.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "trace: {}\n", string(data))

	assert.Error(t, dir.CopyConfigFile(filepath.Join(root, "missing.yaml")))
}
