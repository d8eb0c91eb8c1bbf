package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TFMV/simplegraph/render"
	"github.com/TFMV/simplegraph/scene"
)

func execute(t *testing.T, args ...string) (stdout, logs string, err error) {
	t.Helper()
	var out, logBuf bytes.Buffer
	root := NewRootCommand(&logBuf)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err = root.ExecuteContext(context.Background())
	return out.String(), logBuf.String(), err
}

func TestSnapshotJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	_, logs, err := execute(t, "snapshot", "--nodes", "12", "--edges", "2", "--seed", "5",
		"--iterations", "8", "--labels", "-f", "json", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, logs, "layout finished")
	assert.Contains(t, logs, "snapshot written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var snap render.Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, "2d", snap.Mode)
	assert.NotEmpty(t, snap.Nodes)
	assert.Len(t, snap.Labels, len(snap.Nodes))
}

func TestSnapshotNoiseUsesSurrealPalette(t *testing.T) {
	out, _, err := execute(t, "snapshot", "--nodes", "6", "--seed", "2", "--ticks", "2", "--noise", "0.5", "-f", "json", "-o", "-")
	require.NoError(t, err)

	var snap render.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, scene.SurrealPalette().Background, snap.Background)
	for _, n := range snap.Nodes {
		assert.Equal(t, scene.SurrealPalette().NodeColor(n.Skin), n.Color)
	}
}

func TestSnapshotToStdout(t *testing.T) {
	out, _, err := execute(t, "snapshot", "--nodes", "6", "--seed", "2", "--ticks", "3", "-f", "svg", "-o", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<?xml"))
}

func TestSnapshotUnknownFormat(t *testing.T) {
	_, _, err := execute(t, "snapshot", "-f", "webgl", "-o", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestInvalidFlagValue(t *testing.T) {
	_, _, err := execute(t, "snapshot", "--layout", "4d", "-o", "-")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Config.Layout")
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "simplegraph.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("layout = \"3d\"\nshowLabels = true\nnumNodes = 9\nseed = 4\n"), 0o644))

	out, _, err := execute(t, "snapshot", "--config", cfgPath, "--labels=false", "--iterations", "4", "-f", "json", "-o", "-")
	require.NoError(t, err)

	var snap render.Snapshot
	require.NoError(t, json.Unmarshal([]byte(out), &snap))
	assert.Equal(t, "3d", snap.Mode, "file value kept")
	assert.Empty(t, snap.Labels, "flag overrides file")
	assert.NotEmpty(t, snap.Nodes)

	_, _, err = execute(t, "snapshot", "--config", filepath.Join(dir, "missing.toml"), "-o", "-")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	SetVersion("v1.2.3")
	defer SetVersion("dev")
	out, _, err := execute(t, "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "v1.2.3")
}

func TestLoggerFromContext(t *testing.T) {
	assert.Same(t, log.Default(), loggerFromContext(context.Background()))

	l := newLogger(&bytes.Buffer{}, log.DebugLevel)
	assert.Same(t, l, loggerFromContext(withLogger(context.Background(), l)))
}
