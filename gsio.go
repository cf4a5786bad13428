package dicomanon

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/pfx"
)

const googleStoragePrefix = "gs://"

// IsGoogleStoragePath reports whether path points at a Google Storage object.
func IsGoogleStoragePath(path string) bool {
	return strings.HasPrefix(path, googleStoragePrefix)
}

// NeedsGoogleStorage reports whether any of the paths requires a storage
// client.
func NeedsGoogleStorage(paths ...string) bool {
	for _, path := range paths {
		if IsGoogleStoragePath(path) {
			return true
		}
	}

	return false
}

// SplitGoogleStoragePath detects the bucket and the path to the actual object
// within a gs://bucket/object path.
func SplitGoogleStoragePath(path string) (bucketName, objectName string, err error) {
	if !IsGoogleStoragePath(path) {
		return "", "", fmt.Errorf("%s is not a google storage path", path)
	}

	pathParts := strings.SplitN(strings.TrimPrefix(path, googleStoragePrefix), "/", 2)
	if len(pathParts) != 2 || pathParts[0] == "" || pathParts[1] == "" {
		return "", "", fmt.Errorf("Tried to split your google storage path into 2 parts, but got %d: %v", len(pathParts), pathParts)
	}

	return pathParts[0], pathParts[1], nil
}

// OpenMaybeGoogleStorage opens path for reading and reports its size in bytes,
// which the DICOM parser needs up front. Paths starting with gs:// are read
// through client; everything else is treated as a local file.
func OpenMaybeGoogleStorage(ctx context.Context, path string, client *storage.Client) (io.ReadCloser, int64, error) {
	if IsGoogleStoragePath(path) {
		if client == nil {
			return nil, 0, pfx.Err(fmt.Errorf("%s: no google storage client was configured", path))
		}

		bucketName, objectName, err := SplitGoogleStoragePath(path)
		if err != nil {
			return nil, 0, pfx.Err(err)
		}

		rdr, err := client.Bucket(bucketName).Object(objectName).NewReader(ctx)
		if err != nil {
			return nil, 0, pfx.Err(fmt.Errorf("%s: %s", path, err))
		}

		return rdr, rdr.Attrs.Size, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, pfx.Err(err)
	}
	fstat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, pfx.Err(err)
	}
	if fstat.IsDir() {
		f.Close()
		return nil, 0, pfx.Err(fmt.Errorf("%s is a directory", path))
	}

	return f, fstat.Size(), nil
}

// CreateMaybeGoogleStorage creates (or truncates) path for writing. For
// google storage objects, nothing is committed until Close returns without
// error, so callers must check the error from Close.
func CreateMaybeGoogleStorage(ctx context.Context, path string, client *storage.Client) (io.WriteCloser, error) {
	if IsGoogleStoragePath(path) {
		if client == nil {
			return nil, pfx.Err(fmt.Errorf("%s: no google storage client was configured", path))
		}

		bucketName, objectName, err := SplitGoogleStoragePath(path)
		if err != nil {
			return nil, pfx.Err(err)
		}

		w := client.Bucket(bucketName).Object(objectName).NewWriter(ctx)
		w.ContentType = "application/dicom"

		return w, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return f, nil
}

// RemoveMaybeLocal removes a partially written local file. Google storage
// objects are never created when their writer fails, so there is nothing to
// clean up for them.
func RemoveMaybeLocal(path string) error {
	if IsGoogleStoragePath(path) {
		return nil
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return pfx.Err(err)
	}

	return nil
}
