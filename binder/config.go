package binder

import (
	"github.com/glotchimo/apodo/multipart"
	"github.com/glotchimo/apodo/pkg/config"
)

// Config holds upload decoding limits, loadable from the environment.
type Config struct {
	// TempDir is the directory for spilled upload files. Empty means the
	// system temp directory.
	TempDir string `env:"UPLOAD_TEMP_DIR"`

	// MemoryLimit is the per-field in-memory threshold in bytes.
	MemoryLimit int64 `env:"UPLOAD_MEMORY_LIMIT" envDefault:"1048576"`

	// ChunkSize is the body read size in bytes.
	ChunkSize int `env:"UPLOAD_CHUNK_SIZE" envDefault:"32768"`
}

// LoadConfig loads upload limits from environment variables.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Options converts the config into ParseRequest options.
//
// Example:
//
//	cfg, err := binder.LoadConfig()
//	if err != nil {
//		return err
//	}
//	form, err := binder.ParseRequest(r, cfg.Options()...)
func (c Config) Options() []Option {
	return []Option{
		WithChunkSize(c.ChunkSize),
		WithParserOptions(multipart.WithFileOptions(
			multipart.WithMemoryLimit(c.MemoryLimit),
			multipart.WithTempDir(c.TempDir),
		)),
	}
}
