package multipart

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// UploadedFile is the capability set shared by the two upload storage
// backends, MemoryFile and DiskFile. Callers hold this interface and never
// branch on the concrete type.
//
// Write, Read, and Save check the context so long transfers can be
// abandoned; Seek is a plain cursor move. Close releases any underlying
// resources and must be called on every exit path once a file is no longer
// needed.
type UploadedFile interface {
	// Filename returns the client-supplied filename, if any.
	Filename() string

	// Size returns the current content length in bytes.
	Size() int64

	// Write appends p at the end of the content and advances the cursor.
	Write(ctx context.Context, p []byte) error

	// Read returns up to count bytes starting at the cursor and advances it
	// by the number of bytes returned. A negative count reads everything
	// from the cursor to the end.
	Read(ctx context.Context, count int) ([]byte, error)

	// Seek moves the cursor to pos. No bounds checking is performed.
	Seek(pos int64)

	// Save persists the full content to destination.
	Save(ctx context.Context, destination string) error

	// Close releases underlying storage. Closing twice is safe.
	Close() error
}

// NewReader adapts an UploadedFile to io.Reader, reading from the file's
// current cursor position.
func NewReader(ctx context.Context, f UploadedFile) io.Reader {
	return &uploadReader{ctx: ctx, f: f}
}

type uploadReader struct {
	ctx context.Context
	f   UploadedFile
}

func (r *uploadReader) Read(p []byte) (int, error) {
	b, err := r.f.Read(r.ctx, len(p))
	if err != nil {
		return 0, err
	}
	if len(b) == 0 {
		return 0, io.EOF
	}
	return copy(p, b), nil
}

// MemoryFile is an uploaded file held entirely in a growable byte buffer.
type MemoryFile struct {
	filename string
	buf      []byte
	pos      int64
}

// NewMemoryFile creates an in-memory uploaded file with the given initial
// content. The cursor starts at 0.
func NewMemoryFile(filename string, content []byte) *MemoryFile {
	return &MemoryFile{filename: filename, buf: content}
}

func (f *MemoryFile) Filename() string { return f.filename }

func (f *MemoryFile) Size() int64 { return int64(len(f.buf)) }

func (f *MemoryFile) Write(ctx context.Context, p []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f.buf = append(f.buf, p...)
	f.pos += int64(len(p))
	return nil
}

func (f *MemoryFile) Read(ctx context.Context, count int) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if f.pos >= int64(len(f.buf)) {
		return nil, nil
	}

	rest := f.buf[f.pos:]
	if count >= 0 && count < len(rest) {
		rest = rest[:count]
	}

	out := make([]byte, len(rest))
	copy(out, rest)
	f.pos += int64(len(out))
	return out, nil
}

func (f *MemoryFile) Seek(pos int64) { f.pos = pos }

// Save writes the complete buffer to destination in one transfer.
func (f *MemoryFile) Save(ctx context.Context, destination string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := os.WriteFile(destination, f.buf, 0644); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSaveFile, err)
	}
	return nil
}

func (f *MemoryFile) Close() error { return nil }

// DiskFile is an uploaded file backed by a uniquely named temporary file.
// The temp file is owned by the DiskFile until Save transfers it to a
// permanent destination; Close removes it when still owned.
//
// Each Write is a discrete open/append/close cycle, so no file handle is
// held between calls.
type DiskFile struct {
	filename     string
	path         string
	pos          int64
	deleteOnExit bool
}

// NewDiskFile creates a disk-backed uploaded file. The temporary file path
// is generated under tempDir, or the system temp directory when tempDir is
// empty. The file itself is created lazily on first Write.
func NewDiskFile(filename, tempDir string) *DiskFile {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &DiskFile{
		filename:     filename,
		path:         filepath.Join(tempDir, "upload-"+uuid.NewString()),
		deleteOnExit: true,
	}
}

func (f *DiskFile) Filename() string { return f.filename }

// Path returns the temporary file path backing this upload.
func (f *DiskFile) Path() string { return f.path }

func (f *DiskFile) Size() int64 {
	info, err := os.Stat(f.path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func (f *DiskFile) Write(ctx context.Context, p []byte) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	n, err := file.Write(p)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToWriteFile, err)
	}

	f.pos += int64(n)
	return nil
}

func (f *DiskFile) Read(ctx context.Context, count int) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing written yet
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}
	defer func() { _ = file.Close() }()

	if _, err := file.Seek(f.pos, io.SeekStart); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
	}

	var out []byte
	if count < 0 {
		out, err = io.ReadAll(file)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
		}
	} else {
		out = make([]byte, count)
		n, err := io.ReadFull(file, out)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: %v", ErrFailedToReadFile, err)
		}
		out = out[:n]
	}

	f.pos += int64(len(out))
	return out, nil
}

func (f *DiskFile) Seek(pos int64) { f.pos = pos }

// Save moves the temporary file to destination. This is an ownership
// transfer, not a copy: after a successful Save the temp file no longer
// exists at its old path and Close will not remove anything. A plain rename
// is attempted first; when the destination is on a different filesystem the
// content is copied and the temp file removed.
func (f *DiskFile) Save(ctx context.Context, destination string) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := os.Rename(f.path, destination); err != nil {
		if err := f.copyTo(destination); err != nil {
			return err
		}
		_ = os.Remove(f.path)
	}

	f.deleteOnExit = false
	return nil
}

func (f *DiskFile) copyTo(destination string) error {
	src, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSaveFile, err)
	}
	defer func() { _ = src.Close() }()

	dst, err := os.OpenFile(destination, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSaveFile, err)
	}

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSaveFile, err)
	}
	return nil
}

// Close removes the temporary file unless ownership was transferred via
// Save. An already-removed temp file is not an error.
func (f *DiskFile) Close() error {
	if !f.deleteOnExit {
		return nil
	}

	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrFailedToRemoveFile, err)
	}

	f.deleteOnExit = false
	return nil
}
