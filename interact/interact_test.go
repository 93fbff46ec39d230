package interact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdginn/go-laser-mirrors/laser"
	"github.com/jdginn/go-laser-mirrors/laser/config"
)

func testModel(t *testing.T) model {
	t.Helper()
	cfg, err := config.LoadFromFile(filepath.Join("..", "laser", "config", "testdata", "scene.yaml"), config.LoadOptions{
		ValidateImmediately: true,
		ResolvePaths:        true,
		MergeFiles:          true,
	})
	require.NoError(t, err)
	setup, err := cfg.Build(nil)
	require.NoError(t, err)
	return newModel(setup, Options{CaptureRoot: t.TempDir()})
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(model)
	require.True(t, ok)
	return out, cmd
}

func TestTickStepsWorld(t *testing.T) {
	m := testModel(t)
	m, cmd := update(t, m, tickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, uint64(1), m.frame.Number)

	target, ok := m.setup.Scene.Surface("target")
	require.True(t, ok)
	assert.Equal(t, laser.Activated, target.Receiver.State())

	view := m.View()
	assert.Contains(t, view, "frame 1")
	assert.Contains(t, view, "bench")
	assert.Contains(t, view, "target activated")
}

func TestCameraKeys(t *testing.T) {
	m := testModel(t)
	start := m.setup.Camera.Position

	m, _ = update(t, m, runes("w"))
	assert.InDelta(t, start.Z+1, m.setup.Camera.Position.Z, 1e-9)
	m, _ = update(t, m, runes("d"))
	assert.InDelta(t, start.X+1, m.setup.Camera.Position.X, 1e-9)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.InDelta(t, 5, m.setup.Camera.Yaw(), 1e-9)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.InDelta(t, 5, m.setup.Camera.Pitch(), 1e-9)
}

func TestPlacementKeys(t *testing.T) {
	m := testModel(t)
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	// Look down at the floor just in front of the bench mirror
	m.setup.Camera.Look(0, -125)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	now = now.Add(100 * time.Millisecond)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.Len(t, m.setup.Placer.Mirrors(), 2)
	spawned := m.setup.Placer.Selected()
	require.NotNil(t, spawned)
	assert.Equal(t, "mirror_1", spawned.Surface.Name)
	assert.Contains(t, m.status, "mirror_1")

	m, _ = update(t, m, runes("["))
	assert.InDelta(t, -12.5, spawned.Yaw(), 1e-9)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Len(t, m.setup.Placer.Mirrors(), 1)
	assert.Nil(t, m.setup.Placer.Selected())

	m, _ = update(t, m, runes("]"))
	assert.Equal(t, laser.ErrNoSelection.Error(), m.status)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	assert.Equal(t, laser.ErrNoSelection.Error(), m.status)
}

func TestMirrorList(t *testing.T) {
	m := testModel(t)
	require.Len(t, m.mirrors.Items(), 1)
	assert.Contains(t, m.View(), "Mirrors")
	assert.Contains(t, m.View(), "bench_mirror")

	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }
	m.setup.Camera.Look(0, -125)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	now = now.Add(100 * time.Millisecond)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	items := m.mirrors.Items()
	require.Len(t, items, 2)
	assert.Equal(t, 1, m.mirrors.Index())
	spawned, ok := items[1].(mirrorItem)
	require.True(t, ok)
	assert.Equal(t, "mirror_1", spawned.Title())
	assert.Equal(t, "mirror_1", spawned.FilterValue())
	assert.True(t, strings.HasPrefix(spawned.Description(), "selected, at "), spawned.Description())
	assert.False(t, items[0].(mirrorItem).selected)
	assert.Contains(t, m.View(), "mirror_1")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Len(t, m.mirrors.Items(), 1)
	assert.NotContains(t, m.View(), "mirror_1")
}

func TestSnapshotKey(t *testing.T) {
	m := testModel(t)
	m, _ = update(t, m, tickMsg(time.Now()))
	m, _ = update(t, m, runes("p"))
	require.True(t, strings.HasPrefix(m.status, "saved "), m.status)

	png := strings.TrimPrefix(m.status, "saved ")
	_, err := os.Stat(png)
	assert.NoError(t, err)
	_, err = os.Stat(strings.TrimSuffix(png, ".png") + ".json")
	assert.NoError(t, err)
}

func TestQuitKey(t *testing.T) {
	m := testModel(t)
	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
