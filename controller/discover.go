package controller

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// IsDefinitionFile reports whether name has a controller definition extension.
func IsDefinitionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// Discover reads every controller definition in dir. Files are parsed concurrently
// and returned in directory listing order; other files and subdirectories are ignored.
func Discover(ctx context.Context, dir string) ([]*Definition, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read controllers directory %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !IsDefinitionFile(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}

	defs := make([]*Definition, len(files))
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for i, path := range files {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read controller %s: %w", path, err)
			}
			def, err := ParseDefinition(path, data)
			if err != nil {
				return err
			}
			defs[i] = def
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return defs, nil
}
