// SPDX-License-Identifier: MPL-2.0

// Package compress batch-minifies the Rust sources of a directory tree.
//
// Unlike bundling, compression treats every file independently: a file that
// fails to tokenize is reported and skipped, and the batch only fails as a
// whole when not a single file could be processed. Results are cached by
// path and modification time so repeated runs over a mostly-unchanged tree
// stay cheap.
package compress

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/rustpack/rustpack/pkg/minify"
)

const (
	// DefaultWorkers bounds concurrent minification when Options.Workers is zero.
	DefaultWorkers = 8
	// DefaultCacheSize is the LRU entry count when Options.CacheSize is zero.
	DefaultCacheSize = 1024
)

type (
	// Options configures a Compressor.
	Options struct {
		// Minify is passed through to the token minifier.
		Minify minify.Options
		// Workers bounds how many files are minified concurrently.
		Workers int
		// CacheSize is the number of minified files kept in memory.
		CacheSize int
		// Logger receives per-file progress. Nil disables logging.
		Logger *log.Logger
	}

	// Result is the outcome for a single file of a batch.
	Result struct {
		// Path is the file's path relative to the batch root.
		Path string
		// Output is the minified text. Empty when Err is set.
		Output string
		// Err is the per-file failure, if any.
		Err error
	}

	// Compressor minifies files and directory trees with caching.
	Compressor struct {
		opts  Options
		cache *lru.Cache[string, string]
	}
)

// ErrNoFiles is returned by Dir when the tree contains no Rust sources or
// every single one failed.
var ErrNoFiles = fmt.Errorf("no files could be compressed")

// New creates a Compressor.
func New(opts Options) (*Compressor, error) {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, string](opts.CacheSize)
	if err != nil {
		return nil, err
	}
	return &Compressor{opts: opts, cache: cache}, nil
}

// File minifies a single file, consulting the cache first.
func (c *Compressor) File(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	key := cacheKey(path, info, c.opts.Minify)
	if out, ok := c.cache.Get(key); ok {
		if c.opts.Logger != nil {
			c.opts.Logger.Debug("cache hit", "path", path)
		}
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	out, err := minify.Minify(string(data), c.opts.Minify)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, out)
	return out, nil
}

// Dir minifies every .rs file under root, at most Options.Workers at a time.
// Results come back sorted by path. Per-file failures are recorded in their
// Result; Dir itself fails only on a walk error, a canceled context, or when
// no file at all succeeded.
func (c *Compressor) Dir(ctx context.Context, root string) ([]Result, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Skip build output; target/ holds generated sources that
			// would dwarf the crate's own code.
			if d.Name() == "target" && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".rs" {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(paths))
	sem := make(chan struct{}, c.opts.Workers)
	var wg sync.WaitGroup

	for i, path := range paths {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(i int, path string) {
			defer wg.Done()
			defer func() { <-sem }()

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				rel = path
			}
			out, err := c.File(path)
			if err != nil && c.opts.Logger != nil {
				c.opts.Logger.Warn("skipping file", "path", rel, "error", err)
			}
			results[i] = Result{Path: rel, Output: out, Err: err}
		}(i, path)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	succeeded := 0
	for _, r := range results {
		if r.Err == nil {
			succeeded++
		}
	}
	if succeeded == 0 {
		return results, ErrNoFiles
	}
	return results, nil
}

// Concat joins the successful results of a batch into one text, each file
// preceded by a banner naming its origin.
func Concat(results []Result) string {
	var sb strings.Builder
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		fmt.Fprintf(&sb, "// ===== %s =====\n", filepath.ToSlash(r.Path))
		sb.WriteString(r.Output)
		if !strings.HasSuffix(r.Output, "\n") {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// cacheKey derives a cache key that changes whenever the file or the
// minification settings do.
func cacheKey(path string, info fs.FileInfo, opts minify.Options) string {
	return fmt.Sprintf("%s|%d|%d|%t", path, info.ModTime().UnixNano(), info.Size(), opts.Aggressive)
}
