package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")
	require.NoError(t, SafeWriteFile(path, []byte("x,y\n")))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(b))
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	require.NoError(t, SafeWriteFile(path, []byte("z\n")))
	b, _ = os.ReadFile(path)
	assert.Equal(t, "z\n", string(b))
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	got, err := ExpandHome("~/data/heart.csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "data", "heart.csv"), got)

	got, err = ExpandHome("heart.csv")
	require.NoError(t, err)
	assert.Equal(t, "heart.csv", got)
}
