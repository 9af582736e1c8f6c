package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

//go:embed data/job-skills-mapping.json
var embedded []byte

// ReadFunc returns the raw catalog document.
type ReadFunc func() ([]byte, error)

// Embedded reads the catalog bundled with the binary.
func Embedded() ReadFunc {
	return func() ([]byte, error) { return embedded, nil }
}

// File reads the catalog from path on every call.
func File(path string) ReadFunc {
	return func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading catalog %s: %w", path, err)
		}
		return data, nil
	}
}

// Loader parses the catalog once and serves the cached result afterwards.
// Concurrent first loads share a single read. A failed load is not cached.
type Loader struct {
	read  ReadFunc
	group singleflight.Group

	mu     sync.RWMutex
	cached *Catalog
}

// NewLoader returns a loader for the catalog at path, or for the embedded
// catalog when path is empty.
func NewLoader(path string) *Loader {
	if path == "" {
		return NewLoaderFunc(Embedded())
	}
	return NewLoaderFunc(File(path))
}

func NewLoaderFunc(read ReadFunc) *Loader {
	return &Loader{read: read}
}

// Load returns the parsed catalog, reading it on first use.
func (l *Loader) Load(ctx context.Context) (*Catalog, error) {
	l.mu.RLock()
	c := l.cached
	l.mu.RUnlock()
	if c != nil {
		return c, nil
	}

	ch := l.group.DoChan("catalog", func() (any, error) {
		l.mu.RLock()
		c := l.cached
		l.mu.RUnlock()
		if c != nil {
			return c, nil
		}

		data, err := l.read()
		if err != nil {
			return nil, err
		}
		c, err = Parse(data)
		if err != nil {
			return nil, err
		}

		l.mu.Lock()
		l.cached = c
		l.mu.Unlock()
		slog.Debug("job-skills catalog loaded", "jobs", c.Len())
		return c, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Catalog), nil
	}
}

// Raw returns the catalog document bytes, loading the catalog if needed.
func (l *Loader) Raw(ctx context.Context) ([]byte, error) {
	c, err := l.Load(ctx)
	if err != nil {
		return nil, err
	}
	return c.Raw(), nil
}
