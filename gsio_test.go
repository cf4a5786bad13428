package dicomanon

import (
	"context"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitGoogleStoragePath(t *testing.T) {
	bucket, object, err := SplitGoogleStoragePath("gs://my-bucket/some/dir/file.dcm")
	require.NoError(t, err)
	assert.Equal(t, "my-bucket", bucket)
	assert.Equal(t, "some/dir/file.dcm", object)

	for _, bad := range []string{"gs://only-bucket", "gs:///object", "gs://bucket/", "/local/file.dcm"} {
		_, _, err := SplitGoogleStoragePath(bad)
		assert.Error(t, err, bad)
	}
}

func TestNeedsGoogleStorage(t *testing.T) {
	assert.False(t, NeedsGoogleStorage())
	assert.False(t, NeedsGoogleStorage("a.dcm", "/tmp/b.dcm"))
	assert.True(t, NeedsGoogleStorage("a.dcm", "gs://bucket/b.dcm"))
}

func TestLocalRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "out.dcm")

	w, err := CreateMaybeGoogleStorage(ctx, path, nil)
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, size, err := OpenMaybeGoogleStorage(ctx, path, nil)
	require.NoError(t, err)
	defer r.Close()
	assert.Equal(t, int64(5), size)

	content, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))

	require.NoError(t, RemoveMaybeLocal(path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// Removing twice is fine
	assert.NoError(t, RemoveMaybeLocal(path))
}

func TestOpenRejectsDirectoriesAndMissingFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	_, _, err := OpenMaybeGoogleStorage(ctx, dir, nil)
	assert.Error(t, err)

	_, _, err = OpenMaybeGoogleStorage(ctx, filepath.Join(dir, "missing.dcm"), nil)
	assert.Error(t, err)
}

func TestGoogleStorageWithoutClient(t *testing.T) {
	ctx := context.Background()

	_, _, err := OpenMaybeGoogleStorage(ctx, "gs://bucket/in.dcm", nil)
	assert.Error(t, err)

	_, err = CreateMaybeGoogleStorage(ctx, "gs://bucket/out.dcm", nil)
	assert.Error(t, err)

	assert.NoError(t, RemoveMaybeLocal("gs://bucket/out.dcm"))
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/abs/file.dcm", ExpandHome("/abs/file.dcm"))
	assert.Equal(t, "rel/file.dcm", ExpandHome("rel/file.dcm"))

	usr, err := user.Current()
	if err != nil {
		t.Skip(err)
	}
	assert.Equal(t, filepath.Join(usr.HomeDir, "scans/a.dcm"), ExpandHome("~/scans/a.dcm"))
}
