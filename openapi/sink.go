package openapi

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// DefinitionFile is where FileSink writes the document.
const DefinitionFile = "API_definition.yml"

// Sink stores a serialized document. Every write replaces the previous content.
type Sink interface {
	Write(ctx context.Context, doc *Document) error
	String() string
}

// FileSink writes the document as YAML to a file, replacing it on each write.
type FileSink struct {
	path string
}

// NewFileSink returns a sink writing DefinitionFile inside dir ("" means the working directory).
func NewFileSink(dir string) *FileSink {
	return &FileSink{path: filepath.Join(dir, DefinitionFile)}
}

// Path returns the file the sink writes to.
func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) String() string {
	return "file:" + s.path
}

// Write serializes doc and replaces the file content through a temporary file.
func (s *FileSink) Write(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := doc.YAML()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".api-definition-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// MemorySink keeps the last serialized document in memory.
type MemorySink struct {
	mu     sync.Mutex
	data   []byte
	writes int
}

// Write stores the YAML encoding of doc.
func (s *MemorySink) Write(ctx context.Context, doc *Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := doc.YAML()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.writes++
	return nil
}

// Bytes returns the last written document.
func (s *MemorySink) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.data...)
}

// Writes returns how many documents were written.
func (s *MemorySink) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *MemorySink) String() string {
	return "memory"
}

// NopSink discards documents.
type NopSink struct{}

func (NopSink) Write(context.Context, *Document) error { return nil }

func (NopSink) String() string { return "nop" }
