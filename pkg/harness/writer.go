package harness

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/ssargent/wordpack/pkg/codec"
)

const defaultBufferSize = 64 * 1024

// WriterConfig configures a FileWriter.
type WriterConfig struct {
	FilePath   string
	BufferSize int
	// Sync fsyncs the file before Close returns.
	Sync bool
}

// FileWriter writes one encoded buffer to a fresh file.
type FileWriter struct {
	file   *os.File
	writer *bufio.Writer
	config WriterConfig
	size   int64
}

// NewFileWriter creates or truncates the output file, creating its directory
// if needed.
func NewFileWriter(config WriterConfig) (*FileWriter, error) {
	if config.BufferSize <= 0 {
		config.BufferSize = defaultBufferSize
	}
	if dir := filepath.Dir(config.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, codec.IOError(err, "mkdir", dir)
		}
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, codec.IOError(err, "create", config.FilePath)
	}

	return &FileWriter{
		file:   file,
		writer: bufio.NewWriterSize(file, config.BufferSize),
		config: config,
	}, nil
}

func (w *FileWriter) Write(p []byte) (int, error) {
	n, err := w.writer.Write(p)
	w.size += int64(n)
	if err != nil {
		return n, codec.IOError(err, "write", w.config.FilePath)
	}
	return n, nil
}

// Size returns the number of bytes written so far.
func (w *FileWriter) Size() int64 { return w.size }

// Close flushes, optionally fsyncs, and closes the file.
func (w *FileWriter) Close() error {
	if err := w.writer.Flush(); err != nil {
		w.file.Close()
		return codec.IOError(err, "flush", w.config.FilePath)
	}
	if w.config.Sync {
		if err := w.file.Sync(); err != nil {
			w.file.Close()
			return codec.IOError(err, "fsync", w.config.FilePath)
		}
	}
	return codec.IOError(w.file.Close(), "close", w.config.FilePath)
}
