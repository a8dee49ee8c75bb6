package imagestore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStorageRoundTrip(t *testing.T) {
	store := NewMemoryStorage()
	ctx := context.Background()
	data := []byte("jpeg-bytes")

	obj, err := store.Put(ctx, "selfies/a.jpg", data, "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, int64(len(data)), obj.Size)
	require.Len(t, obj.ETag, 32)
	data[0] = 'X'

	rc, err := store.Get(ctx, "selfies/a.jpg")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "jpeg-bytes", string(got))

	require.NoError(t, store.Delete(ctx, "selfies/a.jpg"))
	_, err = store.Get(ctx, "selfies/a.jpg")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSanitizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"https://acct.r2.cloudflarestorage.com/bucket": "acct.r2.cloudflarestorage.com",
		"http://localhost:9000":                        "localhost:9000",
		" minio:9000 ":                                 "minio:9000",
	}
	for in, want := range cases {
		require.Equal(t, want, sanitizeEndpoint(in), in)
	}
}

func TestR2ConfigEnabled(t *testing.T) {
	require.False(t, R2Config{Endpoint: "x"}.Enabled())
	require.True(t, R2Config{Endpoint: "x", AccessKey: "a", SecretKey: "s", Bucket: "b"}.Enabled())
}
