package avatars

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n0000IHDR")

func TestPutAndServe(t *testing.T) {
	fs := afero.NewMemMapFs()
	store := NewStore(fs, "http://example.test/")

	url, err := store.Put("", pngHeader)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "http://example.test/avatars/"), url)
	require.True(t, strings.HasSuffix(url, ".png"), url)

	name := strings.TrimPrefix(url, "http://example.test/avatars/")
	stored, err := afero.ReadFile(fs, "/"+name)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, stored)

	srv := httptest.NewServer(store.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + URLPrefix + name)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(pngHeader, body))
}

func TestPutDistinctNames(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "http://example.test")
	a, err := store.Put("image/jpeg", []byte("a"))
	require.NoError(t, err)
	b, err := store.Put("image/jpeg", []byte("a"))
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".jpg"))
}

func TestPutRejects(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), "http://example.test")

	_, err := store.Put("image/png", nil)
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = store.Put("image/png", make([]byte, MaxSize+1))
	assert.ErrorIs(t, err, ErrTooLarge)

	_, err = store.Put("", []byte("plain words"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.Put("application/pdf", []byte("%PDF"))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestNewDiskStore(t *testing.T) {
	dir := t.TempDir() + "/nested/avatars"
	store, err := NewDiskStore(dir, "http://example.test")
	require.NoError(t, err)

	url, err := store.Put("image/gif", []byte("GIF89a"))
	require.NoError(t, err)
	name := strings.TrimPrefix(url, "http://example.test/avatars/")

	data, err := afero.ReadFile(afero.NewOsFs(), dir+"/"+name)
	require.NoError(t, err)
	assert.Equal(t, []byte("GIF89a"), data)
}
