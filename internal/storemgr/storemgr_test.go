package storemgr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidStoreName(t *testing.T) {
	assert.True(t, ValidStoreName("default"))
	assert.True(t, ValidStoreName("work-2026"))
	assert.False(t, ValidStoreName("-leading-dash"))
	assert.False(t, ValidStoreName(""))
	assert.False(t, ValidStoreName("has space"))
}

func TestActiveFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, DefaultStoreName, ReadActive(dir))

	require.NoError(t, WriteActive(dir, "work"))
	assert.Equal(t, "work", ReadActive(dir))
}

func TestListStoresEmptyWhenMissing(t *testing.T) {
	dir := t.TempDir()
	names, err := ListStores(dir)
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestListStoresSorted(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, os.MkdirAll(StoreDir(dir, name), 0o755))
	}
	names, err := ListStores(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestResolveStoreNamePrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, WriteActive(dir, "from-active-file"))

	assert.Equal(t, "from-flag", ResolveStoreName("from-flag", dir))

	t.Setenv("MNEMON_STORE", "from-env")
	assert.Equal(t, "from-env", ResolveStoreName("", dir))

	t.Setenv("MNEMON_STORE", "")
	assert.Equal(t, "from-active-file", ResolveStoreName("", dir))
}

func TestDBPathJoinsDataAndName(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, filepath.Join(dir, "data", "work", "mnemon.db"), DBPath(dir, "work"))
}
