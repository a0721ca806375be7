package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/petshop-scheduler/internal/config"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	_, err := s.Get(ctx, "pets/1.webp")
	assert.ErrorIs(t, err, ErrNotFound)

	data := []byte("RIFF....WEBP")
	require.NoError(t, s.Put(ctx, "pets/1.webp", Object{Data: data, ContentType: "image/webp"}))
	data[0] = 'X'

	obj, err := s.Get(ctx, "pets/1.webp")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", obj.ContentType)
	assert.Equal(t, byte('R'), obj.Data[0])

	require.NoError(t, s.Delete(ctx, "pets/1.webp"))
	_, err = s.Get(ctx, "pets/1.webp")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNewS3(t *testing.T) {
	_, err := NewS3(config.S3Config{})
	assert.Error(t, err)

	s, err := NewS3(config.S3Config{
		Bucket:          "pets",
		Endpoint:        "http://localhost:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
		PathStyle:       true,
	})
	require.NoError(t, err)
	assert.Equal(t, "pets", s.bucket)
}
