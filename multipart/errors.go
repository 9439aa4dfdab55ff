package multipart

import "errors"

var (
	// ErrMalformedBody is returned when a boundary marker cannot be located
	// even though enough bytes are buffered to contain one
	ErrMalformedBody = errors.New("malformed multipart body: boundary marker not found")

	// ErrFailedToWriteFile is returned when the temporary file cannot be written
	ErrFailedToWriteFile = errors.New("failed to write temporary file")

	// ErrFailedToReadFile is returned when the temporary file cannot be read
	ErrFailedToReadFile = errors.New("failed to read temporary file")

	// ErrFailedToSaveFile is returned when an uploaded file cannot be persisted
	// to its destination
	ErrFailedToSaveFile = errors.New("failed to save uploaded file")

	// ErrFailedToRemoveFile is returned when a temporary file cannot be removed
	// on close
	ErrFailedToRemoveFile = errors.New("failed to remove temporary file")
)
