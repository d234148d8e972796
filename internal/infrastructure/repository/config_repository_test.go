package repository

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/OliveiraNt/maned-bridge/internal/config"
	"github.com/OliveiraNt/maned-bridge/internal/utils"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNewConfigRepository_Defaults(t *testing.T) {
	repo := NewConfigRepository(filepath.Join(t.TempDir(), "config.yml"))
	cfg := repo.Current()
	require.Equal(t, config.DefaultClusterName, cfg.ClusterName)
	require.Empty(t, cfg.Placement.Server)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, path, "cluster_name: c1\nplacement:\n  server: [\"p1:1228\", \"p2:1228\"]\n")
	repo := NewConfigRepository(path)

	require.NoError(t, repo.LoadFromFile())
	cfg := repo.Current()
	require.Equal(t, "c1", cfg.ClusterName)
	require.Equal(t, []string{"p1:1228", "p2:1228"}, cfg.Placement.Server)

	// snapshots do not alias
	cfg.Placement.Server[0] = "changed"
	require.Equal(t, "p1:1228", repo.Current().Placement.Server[0])
}

func TestLoadFromFile_InvalidKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, path, "cluster_name: c1\nplacement:\n  server: [\"p1:1228\"]\n")
	repo := NewConfigRepository(path)
	require.NoError(t, repo.LoadFromFile())

	writeFile(t, path, "cluster_name: c2\nplacement:\n  server: []\n")
	require.ErrorIs(t, repo.LoadFromFile(), config.ErrMissingPlacementServer)

	writeFile(t, path, "cluster_name: [")
	require.Error(t, repo.LoadFromFile())

	require.Equal(t, "c1", repo.Current().ClusterName)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	repo := NewConfigRepository(path)

	var calls atomic.Int32
	repo.OnChange(func(old, cur config.BrokerConfig) {
		require.Equal(t, config.DefaultClusterName, old.ClusterName)
		require.Equal(t, "c9", cur.ClusterName)
		calls.Add(1)
	})

	err := repo.Save(config.BrokerConfig{ClusterName: "c9", Placement: config.PlacementConfig{Server: []string{"p:1"}}})
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())

	loaded, err := config.ReadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "c9", loaded.ClusterName)

	require.Error(t, repo.Save(config.BrokerConfig{ClusterName: "c9"}))
}

func TestWatchReloads(t *testing.T) {
	utils.InitLogger()
	path := filepath.Join(t.TempDir(), "config.yml")
	writeFile(t, path, "cluster_name: c1\nplacement:\n  server: [\"p1:1228\"]\n")
	repo := NewConfigRepository(path)
	require.NoError(t, repo.LoadFromFile())
	require.NoError(t, repo.Watch())
	t.Cleanup(func() { _ = repo.Close() })

	changed := make(chan string, 4)
	repo.OnChange(func(_, cur config.BrokerConfig) { changed <- cur.ClusterName })

	writeFile(t, path, "cluster_name: c2\nplacement:\n  server: [\"p1:1228\"]\n")

	select {
	case name := <-changed:
		require.Equal(t, "c2", name)
	case <-time.After(5 * time.Second):
		t.Fatal("config change not observed")
	}
	require.Equal(t, "c2", repo.Current().ClusterName)
}

func TestClose_WithoutWatch(t *testing.T) {
	repo := NewConfigRepository("config.yml")
	require.NoError(t, repo.Close())
	require.Equal(t, "config.yml", repo.Path())
}

func TestLoadFromFile_MissingFileUsesEnv(t *testing.T) {
	t.Setenv("MANED_BRIDGE_CLUSTER_NAME", "prod")
	t.Setenv("MANED_BRIDGE_PLACEMENT_SERVER", "10.0.0.1:1228")
	repo := NewConfigRepository(filepath.Join(t.TempDir(), "missing.yml"))

	// overrides apply before any load
	require.Equal(t, "prod", repo.Current().ClusterName)

	require.NoError(t, repo.LoadFromFile())
	cfg := repo.Current()
	require.Equal(t, "prod", cfg.ClusterName)
	require.Equal(t, []string{"10.0.0.1:1228"}, cfg.Placement.Server)
}

func TestLoadFromFile_MissingFileWithoutEnv(t *testing.T) {
	repo := NewConfigRepository(filepath.Join(t.TempDir(), "missing.yml"))

	err := repo.LoadFromFile()
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Empty(t, repo.Current().Placement.Server)
}
