package multipart

import "context"

// DefaultMemoryLimit is the in-memory threshold for a standalone SmartFile (10MB).
const DefaultMemoryLimit = 10 << 20 // 10 MB

// SmartFile buffers one field's content in memory and transparently spills
// to a DiskFile once the configured threshold is crossed. The transition is
// one-way: once a SmartFile has spilled it never returns to memory mode.
type SmartFile struct {
	filename string
	tempDir  string
	limit    int64
	inMemory bool
	buf      []byte
	pos      int64
	disk     *DiskFile
}

// SmartFileOption configures a SmartFile.
type SmartFileOption func(*SmartFile)

// WithMemoryLimit sets the byte threshold above which content spills to disk.
func WithMemoryLimit(limit int64) SmartFileOption {
	return func(s *SmartFile) {
		if limit > 0 {
			s.limit = limit
		}
	}
}

// WithTempDir sets the directory for spilled temporary files.
// If not set, the system temp directory is used.
func WithTempDir(dir string) SmartFileOption {
	return func(s *SmartFile) {
		s.tempDir = dir
	}
}

// NewSmartFile creates an adaptive file sink for one form field. filename is
// empty for plain value fields and carries the client-supplied name for file
// uploads.
func NewSmartFile(filename string, opts ...SmartFileOption) *SmartFile {
	s := &SmartFile{
		filename: filename,
		limit:    DefaultMemoryLimit,
		inMemory: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Filename returns the client-supplied filename, if any.
func (s *SmartFile) Filename() string { return s.filename }

// InMemory reports whether the content is still buffered in memory.
func (s *SmartFile) InMemory() bool { return s.inMemory }

// Size returns the current content length in bytes.
func (s *SmartFile) Size() int64 {
	if s.inMemory {
		return int64(len(s.buf))
	}
	return s.disk.Size()
}

// Write appends p to the field's content. When the write would push the
// in-memory buffer past the threshold, the buffered bytes are flushed into a
// new DiskFile followed immediately by p, and all subsequent writes go
// straight to disk.
func (s *SmartFile) Write(ctx context.Context, p []byte) error {
	if !s.inMemory {
		return s.disk.Write(ctx, p)
	}

	if int64(len(s.buf))+int64(len(p)) > s.limit {
		disk := NewDiskFile(s.filename, s.tempDir)
		if err := disk.Write(ctx, s.buf); err != nil {
			_ = disk.Close()
			return err
		}
		if err := disk.Write(ctx, p); err != nil {
			_ = disk.Close()
			return err
		}
		s.disk = disk
		s.inMemory = false
		s.buf = nil
		return nil
	}

	s.buf = append(s.buf, p...)
	s.pos += int64(len(p))
	return nil
}

// Consume finalizes the field once its body is complete and returns the
// terminal value:
//   - still in memory with a filename: a file upload kept in memory
//   - still in memory without a filename: a plain text value
//   - spilled: the disk-backed file, rewound to the start
func (s *SmartFile) Consume(ctx context.Context) (Value, error) {
	select {
	case <-ctx.Done():
		return Value{}, ctx.Err()
	default:
	}

	if !s.inMemory {
		s.disk.Seek(0)
		return Value{Kind: KindFile, File: s.disk}, nil
	}

	if s.filename != "" {
		return Value{Kind: KindFile, File: NewMemoryFile(s.filename, s.buf)}, nil
	}

	return Value{Kind: KindText, Text: string(s.buf)}, nil
}

// Close releases the underlying disk file, if any. Safe to call on every
// exit path, including after Consume handed the DiskFile to a caller that
// saved it elsewhere.
func (s *SmartFile) Close() error {
	if s.disk == nil {
		return nil
	}
	return s.disk.Close()
}
