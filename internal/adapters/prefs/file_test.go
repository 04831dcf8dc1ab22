package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsEmptyStore(t *testing.T) {
	f, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	require.NoError(t, err)

	_, ok := f.Get("notificationSound")
	require.False(t, ok)
}

func TestFile_SetPersistsAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	f, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, f.Set("notificationSound", "false"))

	reloaded, err := Load(path)
	require.NoError(t, err)
	v, ok := reloaded.Get("notificationSound")
	require.True(t, ok)
	require.Equal(t, "false", v)
}

func TestLoad_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}
