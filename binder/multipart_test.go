package binder_test

import (
	"bytes"
	"context"
	stdmultipart "mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glotchimo/apodo/binder"
	"github.com/glotchimo/apodo/multipart"
)

func buildRequest(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	var body bytes.Buffer
	w := stdmultipart.NewWriter(&body)

	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	for name, content := range files {
		fw, err := w.CreateFormFile(name, name+".bin")
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &body, w.FormDataContentType()
}

func TestParseRequest(t *testing.T) {
	ctx := context.Background()
	body, contentType := buildRequest(t,
		map[string]string{"title": "hello", "tag": "upload"},
		map[string][]byte{"payload": []byte("file content here")},
	)

	r := httptest.NewRequest("POST", "/upload", body)
	r.Header.Set("Content-Type", contentType)

	form, err := binder.ParseRequest(r)
	require.NoError(t, err)
	defer func() { require.NoError(t, form.Close()) }()

	assert.Equal(t, "hello", form.Text("title"))
	assert.Equal(t, "upload", form.Text("tag"))

	f := form.File("payload")
	require.NotNil(t, f)
	assert.Equal(t, "payload.bin", f.Filename())

	data, err := f.Read(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, []byte("file content here"), data)
}

func TestParseRequest_ContentTypeValidation(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		wantErr     error
	}{
		{
			name:        "missing content type",
			contentType: "",
			wantErr:     binder.ErrMissingContentType,
		},
		{
			name:        "not multipart",
			contentType: "application/json",
			wantErr:     binder.ErrUnsupportedMediaType,
		},
		{
			name:        "multipart without boundary",
			contentType: "multipart/form-data",
			wantErr:     binder.ErrMissingBoundary,
		},
		{
			name:        "unparsable content type",
			contentType: "multipart/form-data; boundary",
			wantErr:     binder.ErrInvalidContentType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/upload", bytes.NewReader(nil))
			if tt.contentType != "" {
				r.Header.Set("Content-Type", tt.contentType)
			}

			form, err := binder.ParseRequest(r)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, form)
		})
	}
}

func TestParseRequest_LargeFileSpillsToDisk(t *testing.T) {
	ctx := context.Background()
	tempDir := t.TempDir()

	payload := bytes.Repeat([]byte("0123456789abcdef"), 4096) // 64KB
	body, contentType := buildRequest(t, nil, map[string][]byte{"video": payload})

	r := httptest.NewRequest("POST", "/upload", body)
	r.Header.Set("Content-Type", contentType)

	form, err := binder.ParseRequest(r,
		binder.WithChunkSize(1024),
		binder.WithParserOptions(multipart.WithFileOptions(
			multipart.WithMemoryLimit(4096),
			multipart.WithTempDir(tempDir),
		)),
	)
	require.NoError(t, err)
	defer func() { require.NoError(t, form.Close()) }()

	f := form.File("video")
	require.NotNil(t, f)
	require.IsType(t, &multipart.DiskFile{}, f)

	data, err := f.Read(ctx, -1)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
}

func TestParseRequest_MalformedBody(t *testing.T) {
	body := bytes.NewReader([]byte("no boundary markers anywhere in this body at all, just noise"))
	r := httptest.NewRequest("POST", "/upload", body)
	r.Header.Set("Content-Type", "multipart/form-data; boundary=bnd123")

	form, err := binder.ParseRequest(r)
	assert.ErrorIs(t, err, multipart.ErrMalformedBody)
	assert.Nil(t, form)
}

func TestConfig_Options(t *testing.T) {
	t.Setenv("UPLOAD_TEMP_DIR", t.TempDir())
	t.Setenv("UPLOAD_MEMORY_LIMIT", "2048")
	t.Setenv("UPLOAD_CHUNK_SIZE", "512")

	cfg, err := binder.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(2048), cfg.MemoryLimit)
	assert.Equal(t, 512, cfg.ChunkSize)
	assert.NotEmpty(t, cfg.TempDir)
	assert.Len(t, cfg.Options(), 2)
}

func TestConfig_Defaults(t *testing.T) {
	cfg, err := binder.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), cfg.MemoryLimit)
	assert.Equal(t, 32*1024, cfg.ChunkSize)
}
