package file

import "errors"

var (
	// ErrNilFile is returned when a nil upload is provided
	ErrNilFile = errors.New("uploaded file is nil")

	// ErrInvalidConfig is returned when storage configuration is incomplete
	ErrInvalidConfig = errors.New("invalid storage configuration")

	// ErrInvalidPath is returned when the path contains invalid characters or traversal attempts
	ErrInvalidPath = errors.New("invalid path")

	// ErrFileNotFound is returned when a file does not exist
	ErrFileNotFound = errors.New("file not found")

	// ErrIsDirectory is returned when a path is expected to be a file but is a directory
	ErrIsDirectory = errors.New("path is a directory")

	// ErrFailedToReadFile is returned when an upload cannot be read
	ErrFailedToReadFile = errors.New("failed to read uploaded file")

	// ErrFailedToWriteFile is returned when a file cannot be written
	ErrFailedToWriteFile = errors.New("failed to write file")

	// ErrFailedToCreateFile is returned when a file cannot be created
	ErrFailedToCreateFile = errors.New("failed to create file")

	// ErrFailedToDeleteFile is returned when a file cannot be deleted
	ErrFailedToDeleteFile = errors.New("failed to delete file")

	// ErrFailedToCreateDirectory is returned when a directory cannot be created
	ErrFailedToCreateDirectory = errors.New("failed to create directory")

	// ErrFailedToStatPath is returned when file info cannot be obtained
	ErrFailedToStatPath = errors.New("failed to stat path")

	// ErrFailedToGetAbsolutePath is returned when absolute path cannot be determined
	ErrFailedToGetAbsolutePath = errors.New("failed to get absolute path")
)
