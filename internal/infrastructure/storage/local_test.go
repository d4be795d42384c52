package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/zlog"
	"github.com/yokitheyo/mediacompressor/internal/config"
	"github.com/yokitheyo/mediacompressor/internal/domain"
)

func TestMain(m *testing.M) {
	zlog.Init()
	os.Exit(m.Run())
}

func newTestLocal(t *testing.T) *localStorage {
	t.Helper()
	s, err := NewLocalStorage(&config.StorageConfig{LocalPath: t.TempDir()})
	require.NoError(t, err)
	return s
}

func TestLocalStoragePutFetch(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()
	payload := []byte("compressed bytes")

	require.NoError(t, s.Put(ctx, "b2c1f9c4-compressed", bytes.NewReader(payload), int64(len(payload)), "image/jpeg"))

	rc, err := s.Fetch(ctx, "b2c1f9c4-compressed")
	require.NoError(t, err)
	defer rc.Close()

	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	ct, err := s.ContentType("b2c1f9c4-compressed")
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
}

func TestLocalStoragePutUnknownSize(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "stream", bytes.NewReader([]byte("abc")), -1, "image/png"))

	rc, err := s.Fetch(ctx, "stream")
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "abc", string(got))
}

func TestLocalStoragePutOverwrites(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k", bytes.NewReader([]byte("first")), 5, "image/png"))
	require.NoError(t, s.Put(ctx, "k", bytes.NewReader([]byte("second")), 6, "image/jpeg"))

	rc, err := s.Fetch(ctx, "k")
	require.NoError(t, err)
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(got))
}

func TestLocalStorageSizeMismatch(t *testing.T) {
	s := newTestLocal(t)
	err := s.Put(context.Background(), "k", bytes.NewReader([]byte("abc")), 10, "image/png")
	require.Error(t, err)

	_, err = s.Fetch(context.Background(), "k")
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestLocalStorageFetchMissing(t *testing.T) {
	s := newTestLocal(t)
	_, err := s.Fetch(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, ErrObjectNotFound)
	assert.ErrorIs(t, err, domain.ErrObjectNotFound)
}

func TestLocalStorageKeysStayInsideBase(t *testing.T) {
	s := newTestLocal(t)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "../../escape", bytes.NewReader([]byte("x")), 1, "image/png"))
	rc, err := s.Fetch(ctx, "escape")
	require.NoError(t, err)
	rc.Close()

	_, err = s.path("")
	assert.Error(t, err)
}

func TestNewRejectsUnknownType(t *testing.T) {
	_, err := New(&config.StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}
