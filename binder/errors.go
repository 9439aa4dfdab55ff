package binder

import "errors"

// Common binding errors
var (
	ErrMissingContentType   = errors.New("missing content type")
	ErrInvalidContentType   = errors.New("invalid content type")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingBoundary      = errors.New("missing multipart boundary")
	ErrFailedToReadBody     = errors.New("failed to read request body")
)
