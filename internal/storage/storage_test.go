package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/pilgrim-api/internal/config"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore("http://localhost:8080/files")

	_, err := m.URL(ctx, "photos/a.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	body := []byte{0xff, 0xd8, 0xff}
	require.NoError(t, m.Put(ctx, "photos/a.jpg", "image/jpeg", body))
	body[0] = 0

	u, err := m.URL(ctx, "photos/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/photos/a.jpg", u)

	ct, r, err := m.Open("photos/a.jpg")
	require.NoError(t, err)
	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff}, got)

	require.NoError(t, m.Delete(ctx, "photos/a.jpg"))
	_, _, err = m.Open("photos/a.jpg")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), &config.S3Config{})
	assert.Error(t, err)
}

func TestS3Store_URLIsPresigned(t *testing.T) {
	s, err := NewS3Store(context.Background(), &config.S3Config{
		Bucket:          "photos",
		Region:          "me-south-1",
		Endpoint:        "http://minio.local:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio-secret",
		PathStyle:       true,
		PresignTTL:      5 * time.Minute,
	})
	require.NoError(t, err)

	raw, err := s.URL(context.Background(), "pilgrims/42.jpg")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "minio.local:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/photos/pilgrims/42.jpg"), u.Path)
	assert.Equal(t, "300", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}
