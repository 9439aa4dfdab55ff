package file

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/glotchimo/apodo/multipart"
)

// File represents stored file metadata.
type File struct {
	Filename     string
	Size         int64
	MIMEType     string
	Extension    string
	AbsolutePath string
	RelativePath string
}

// Storage persists completed uploads to a backend.
type Storage interface {
	// Save stores an uploaded file under path and returns metadata.
	Save(ctx context.Context, f multipart.UploadedFile, path string) (*File, error)
	// Delete removes a stored file.
	Delete(ctx context.Context, path string) error
	// Exists checks if a file exists.
	Exists(ctx context.Context, path string) bool
	// URL returns the public URL for a file.
	URL(path string) string
}

// DetectMIMEType sniffs the MIME type from the first 512 bytes of the
// upload's content. The cursor is rewound before and after detection.
func DetectMIMEType(ctx context.Context, f multipart.UploadedFile) (string, error) {
	if f == nil {
		return "", ErrNilFile
	}

	f.Seek(0)
	head, err := f.Read(ctx, 512)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	f.Seek(0)

	return http.DetectContentType(head), nil
}

// SanitizeFilename removes any path components and dangerous characters from a filename
// to prevent path traversal attacks and other security issues.
// Returns "unnamed" for empty or special directory references.
//
// Example:
//
//	safe := file.SanitizeFilename("../../../etc/passwd") // Returns "passwd"
//	safe = file.SanitizeFilename("C:\\Windows\\file.txt") // Returns "file.txt"
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "\\", "/")
	filename = filepath.Base(filename)
	filename = strings.ReplaceAll(filename, "\x00", "")

	if filename == "." || filename == ".." || filename == "" || filename == "/" {
		filename = "unnamed"
	}

	return filename
}
