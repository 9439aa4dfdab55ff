package multipart_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glotchimo/apodo/multipart"
)

func TestMemoryFile_WriteReadSeek(t *testing.T) {
	ctx := context.Background()
	f := multipart.NewMemoryFile("notes.txt", nil)

	require.NoError(t, f.Write(ctx, []byte("hello ")))
	require.NoError(t, f.Write(ctx, []byte("world")))
	assert.Equal(t, int64(11), f.Size())
	assert.Equal(t, "notes.txt", f.Filename())

	// Write advances the cursor, so reads start at the end until rewound
	b, err := f.Read(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, b)

	f.Seek(0)
	b, err = f.Read(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), b)

	b, err = f.Read(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte(" world"), b)

	f.Seek(6)
	b, err = f.Read(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, []byte("world"), b)
}

func TestMemoryFile_Save(t *testing.T) {
	ctx := context.Background()
	f := multipart.NewMemoryFile("a.bin", []byte("payload"))

	dest := filepath.Join(t.TempDir(), "saved.bin")
	require.NoError(t, f.Save(ctx, dest))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)

	require.NoError(t, f.Close())
}

func TestMemoryFile_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := multipart.NewMemoryFile("", []byte("x"))
	assert.ErrorIs(t, f.Write(ctx, []byte("y")), context.Canceled)

	_, err := f.Read(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiskFile_WriteRead(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()

	f := multipart.NewDiskFile("big.bin", tempDir)
	assert.Equal(t, "big.bin", f.Filename())
	assert.Equal(t, tempDir, filepath.Dir(f.Path()))

	require.NoError(t, f.Write(ctx, []byte("0123456789")))
	require.NoError(t, f.Write(ctx, []byte("abcdef")))
	assert.Equal(t, int64(16), f.Size())

	f.Seek(0)
	b, err := f.Read(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("0123456789"), b)

	b, err = f.Read(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcdef"), b)

	b, err = f.Read(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, b)

	require.NoError(t, f.Close())
	assert.NoFileExists(t, f.Path())
}

func TestDiskFile_ReadBeforeWrite(t *testing.T) {
	f := multipart.NewDiskFile("", t.TempDir())

	b, err := f.Read(context.Background(), -1)
	require.NoError(t, err)
	assert.Empty(t, b)
}

func TestDiskFile_Save(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()

	f := multipart.NewDiskFile("doc.pdf", tempDir)
	require.NoError(t, f.Write(ctx, []byte("%PDF-1.4")))

	tempPath := f.Path()
	dest := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, f.Save(ctx, dest))

	// Ownership transferred: temp file gone, destination holds the content
	assert.NoFileExists(t, tempPath)
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), data)

	// Close after Save must not touch the destination
	require.NoError(t, f.Close())
	assert.FileExists(t, dest)
}

func TestDiskFile_CloseIdempotent(t *testing.T) {
	ctx := context.Background()
	f := multipart.NewDiskFile("", t.TempDir())
	require.NoError(t, f.Write(ctx, []byte("x")))

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestDiskFile_CloseMissingTemp(t *testing.T) {
	ctx := context.Background()
	f := multipart.NewDiskFile("", t.TempDir())
	require.NoError(t, f.Write(ctx, []byte("x")))

	// Already-removed temp file is not an error
	require.NoError(t, os.Remove(f.Path()))
	require.NoError(t, f.Close())
}

func TestNewReader(t *testing.T) {
	ctx := context.Background()
	content := strings.Repeat("chunky", 100)

	f := multipart.NewMemoryFile("r.txt", []byte(content))
	data, err := io.ReadAll(multipart.NewReader(ctx, f))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}
