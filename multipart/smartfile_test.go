package multipart_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glotchimo/apodo/multipart"
)

func TestSmartFile_TextValue(t *testing.T) {
	ctx := context.Background()
	sf := multipart.NewSmartFile("")

	require.NoError(t, sf.Write(ctx, []byte("plain ")))
	require.NoError(t, sf.Write(ctx, []byte("value")))

	v, err := sf.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, multipart.KindText, v.Kind)
	assert.Equal(t, "plain value", v.Text)
	assert.Nil(t, v.File)
}

func TestSmartFile_InMemoryUpload(t *testing.T) {
	ctx := context.Background()
	sf := multipart.NewSmartFile("photo.jpg")

	require.NoError(t, sf.Write(ctx, []byte("jpegbytes")))
	assert.True(t, sf.InMemory())

	v, err := sf.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, multipart.KindFile, v.Kind)
	require.IsType(t, &multipart.MemoryFile{}, v.File)
	assert.Equal(t, "photo.jpg", v.File.Filename())

	data, err := v.File.Read(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpegbytes"), data)
}

func TestSmartFile_ThresholdBoundary(t *testing.T) {
	const limit = 64

	tests := []struct {
		name     string
		size     int
		inMemory bool
	}{
		{name: "one below threshold", size: limit - 1, inMemory: true},
		{name: "exactly at threshold", size: limit, inMemory: true},
		{name: "one above threshold", size: limit + 1, inMemory: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			sf := multipart.NewSmartFile("data.bin",
				multipart.WithMemoryLimit(limit),
				multipart.WithTempDir(t.TempDir()),
			)

			payload := bytes.Repeat([]byte{'x'}, tt.size)
			require.NoError(t, sf.Write(ctx, payload))
			assert.Equal(t, tt.inMemory, sf.InMemory())

			v, err := sf.Consume(ctx)
			require.NoError(t, err)
			require.Equal(t, multipart.KindFile, v.Kind)

			data, err := v.File.Read(ctx, -1)
			require.NoError(t, err)
			assert.Equal(t, payload, data)

			require.NoError(t, sf.Close())
		})
	}
}

func TestSmartFile_SpillWritesTriggeringChunk(t *testing.T) {
	ctx := context.Background()
	sf := multipart.NewSmartFile("spill.bin",
		multipart.WithMemoryLimit(10),
		multipart.WithTempDir(t.TempDir()),
	)

	require.NoError(t, sf.Write(ctx, []byte("123456")))
	require.True(t, sf.InMemory())

	// This write crosses the threshold: both the buffered bytes and the
	// triggering chunk must land on disk immediately.
	require.NoError(t, sf.Write(ctx, []byte("789abcde")))
	assert.False(t, sf.InMemory())
	assert.Equal(t, int64(14), sf.Size())

	v, err := sf.Consume(ctx)
	require.NoError(t, err)
	require.IsType(t, &multipart.DiskFile{}, v.File)

	data, err := v.File.Read(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("123456789abcde"), data)
}

func TestSmartFile_SpillIsOneWay(t *testing.T) {
	ctx := context.Background()
	sf := multipart.NewSmartFile("",
		multipart.WithMemoryLimit(4),
		multipart.WithTempDir(t.TempDir()),
	)

	require.NoError(t, sf.Write(ctx, []byte("12345")))
	require.False(t, sf.InMemory())

	// Small follow-up writes stay on disk
	require.NoError(t, sf.Write(ctx, []byte("6")))
	assert.False(t, sf.InMemory())
	assert.Equal(t, int64(6), sf.Size())
}

func TestSmartFile_CloseRemovesSpilledFile(t *testing.T) {
	ctx := context.Background()
	sf := multipart.NewSmartFile("big.bin",
		multipart.WithMemoryLimit(2),
		multipart.WithTempDir(t.TempDir()),
	)

	require.NoError(t, sf.Write(ctx, []byte("overflow")))
	require.False(t, sf.InMemory())

	v, err := sf.Consume(ctx)
	require.NoError(t, err)
	disk, ok := v.File.(*multipart.DiskFile)
	require.True(t, ok)

	require.NoError(t, sf.Close())
	assert.NoFileExists(t, disk.Path())
}
