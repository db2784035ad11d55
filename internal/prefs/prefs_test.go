package prefs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissing(t *testing.T) {
	t.Parallel()
	s := &Store{Dir: filepath.Join(t.TempDir(), "energylog")}
	p, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, Prefs{}, p)
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()
	s := &Store{Dir: t.TempDir()}
	require.NoError(t, s.Save(Prefs{LastKind: 3}))
	p, err := s.Load()
	require.NoError(t, err)
	require.Equal(t, 3, p.LastKind)

	_, err = os.Stat(filepath.Join(s.Dir, prefsFile+".tmp"))
	require.True(t, os.IsNotExist(err))
}

func TestLoadCorrupt(t *testing.T) {
	t.Parallel()
	s := &Store{Dir: t.TempDir()}
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir, prefsFile), []byte("{"), 0o600))
	_, err := s.Load()
	require.Error(t, err)
}
