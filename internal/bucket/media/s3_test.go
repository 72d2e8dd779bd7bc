package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestUploader(t *testing.T, handler http.HandlerFunc) *S3Uploader {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	u, err := NewS3Uploader(context.Background(), S3Config{
		Endpoint:      srv.URL,
		Region:        "us-east-1",
		Bucket:        "openup-test",
		AccessKey:     "test",
		SecretKey:     "test",
		PublicBaseURL: "https://cdn.example.com/openup",
		KeyPrefix:     "bucketlist",
		Timeout:       5 * time.Second,
		UsePathStyle:  true,
	})
	require.NoError(t, err)
	return u
}

func TestIngestReturnsPermanentURL(t *testing.T) {
	t.Parallel()

	var putPath string
	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		putPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	})

	url, err := uploader.Ingest(context.Background(), []byte{0xff, 0xd8, 0xff}, "image/jpeg")
	require.NoError(t, err)

	// Path-style request: /{bucket}/{prefix}/{uuid}.jpg
	require.True(t, strings.HasPrefix(putPath, "/openup-test/bucketlist/"), "got %q", putPath)
	require.True(t, strings.HasSuffix(putPath, ".jpg"), "got %q", putPath)

	require.True(t, strings.HasPrefix(url, "https://cdn.example.com/openup/bucketlist/"), "got %q", url)
	require.True(t, strings.HasSuffix(url, ".jpg"), "got %q", url)
}

func TestIngestEmptyBuffer(t *testing.T) {
	t.Parallel()

	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request should reach the store for an empty buffer")
	})

	_, err := uploader.Ingest(context.Background(), nil, "image/png")
	require.ErrorIs(t, err, ErrEmptyBuffer)

	_, err = uploader.Ingest(context.Background(), []byte{}, "image/png")
	require.ErrorIs(t, err, ErrEmptyBuffer)
}

func TestIngestRemoteFailure(t *testing.T) {
	t.Parallel()

	uploader := newTestUploader(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := uploader.Ingest(context.Background(), []byte{1, 2, 3}, "image/png")
	require.ErrorIs(t, err, ErrUploadFailed)
}

func TestObjectKeyExtensions(t *testing.T) {
	t.Parallel()

	u := &S3Uploader{prefix: "bucketlist"}

	tests := []struct {
		mime string
		ext  string
	}{
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"application/octet-stream", ""},
	}

	for _, tt := range tests {
		key := u.objectKey(tt.mime)
		require.True(t, strings.HasPrefix(key, "bucketlist/"), "mime %s key %q", tt.mime, key)
		if tt.ext != "" {
			require.True(t, strings.HasSuffix(key, tt.ext), "mime %s key %q", tt.mime, key)
		}
	}
}

func TestObjectKeysAreUnique(t *testing.T) {
	t.Parallel()

	u := &S3Uploader{prefix: "bucketlist"}

	seen := map[string]bool{}
	for range 50 {
		key := u.objectKey("image/png")
		require.False(t, seen[key], "key %q generated twice", key)
		seen[key] = true
	}
}
