package binder

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/glotchimo/apodo/multipart"
)

// DefaultChunkSize is the read size used when streaming a request body into
// the multipart parser (32KB).
const DefaultChunkSize = 32 * 1024 // 32 KB

type options struct {
	chunkSize  int
	parserOpts []multipart.ParserOption
}

// Option configures multipart request parsing.
type Option func(*options)

// WithChunkSize sets the body read size. Non-positive values are ignored.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithParserOptions forwards options to the underlying multipart parser.
func WithParserOptions(opts ...multipart.ParserOption) Option {
	return func(o *options) {
		o.parserOpts = append(o.parserOpts, opts...)
	}
}

// ParseRequest decodes a multipart/form-data request body into a Form.
//
// The boundary token is extracted from the Content-Type header and the body
// is streamed into the parser chunk by chunk, so a large upload spills to a
// temporary file instead of accumulating in memory. The caller owns the
// returned form and should close it once the values are no longer needed.
//
// Example:
//
//	form, err := binder.ParseRequest(r)
//	if err != nil {
//		http.Error(w, err.Error(), http.StatusBadRequest)
//		return
//	}
//	defer form.Close()
//
//	title := form.Text("title")
//	if f := form.File("attachment"); f != nil {
//		// stream or save the upload
//	}
func ParseRequest(r *http.Request, opts ...Option) (multipart.Form, error) {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return nil, fmt.Errorf("%w: expected multipart/form-data", ErrMissingContentType)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContentType, err)
	}
	if mediaType != "multipart/form-data" {
		return nil, fmt.Errorf("%w: got %s, expected multipart/form-data", ErrUnsupportedMediaType, mediaType)
	}

	boundary := params["boundary"]
	if boundary == "" {
		return nil, ErrMissingBoundary
	}

	o := &options{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(o)
	}

	ctx := r.Context()
	parser := multipart.NewParser([]byte(boundary), o.parserOpts...)

	buf := make([]byte, o.chunkSize)
	for {
		n, readErr := r.Body.Read(buf)
		if n > 0 {
			if err := parser.Feed(ctx, buf[:n]); err != nil {
				_ = parser.Close()
				return nil, err
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			_ = parser.Close()
			return nil, fmt.Errorf("%w: %v", ErrFailedToReadBody, readErr)
		}
	}

	form, err := parser.Consume(ctx)
	if err != nil {
		_ = parser.Close()
		return nil, err
	}

	return form, nil
}
