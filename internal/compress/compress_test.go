// SPDX-License-Identifier: MPL-2.0

package compress_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rustpack/rustpack/internal/compress"
	"github.com/rustpack/rustpack/pkg/minify"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCompressor_File(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "main.rs")
	writeFile(t, path, "// entry point\nfn main() {\n    println!(\"hi\");\n}\n")

	c, err := compress.New(compress.Options{})
	if err != nil {
		t.Fatal(err)
	}

	out, err := c.File(path)
	if err != nil {
		t.Fatalf("File() error: %v", err)
	}
	if strings.Contains(out, "entry point") {
		t.Error("comments should be removed")
	}
	if !strings.Contains(out, "fn main") {
		t.Errorf("output lost code: %q", out)
	}

	// Second call hits the cache and returns the same text.
	again, err := c.File(path)
	if err != nil {
		t.Fatalf("File() cached error: %v", err)
	}
	if again != out {
		t.Error("cached output should match the first result")
	}
}

func TestCompressor_Dir(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "src", "main.rs"), "fn main() {}\n")
	writeFile(t, filepath.Join(root, "src", "lib.rs"), "pub fn add(a: i32, b: i32) -> i32 { a + b }\n")
	writeFile(t, filepath.Join(root, "src", "broken.rs"), "fn broken() { let s = \"unterminated; }\n")
	writeFile(t, filepath.Join(root, "README.md"), "not rust\n")
	writeFile(t, filepath.Join(root, "target", "debug", "gen.rs"), "fn generated() {}\n")

	c, err := compress.New(compress.Options{Workers: 2})
	if err != nil {
		t.Fatal(err)
	}

	results, err := c.Dir(context.Background(), root)
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3 (target/ and non-.rs skipped)", len(results))
	}

	// Sorted by path
	for i := 1; i < len(results); i++ {
		if results[i-1].Path > results[i].Path {
			t.Errorf("results not sorted: %q before %q", results[i-1].Path, results[i].Path)
		}
	}

	byPath := make(map[string]compress.Result, len(results))
	for _, r := range results {
		byPath[filepath.ToSlash(r.Path)] = r
	}

	if r := byPath["src/broken.rs"]; r.Err == nil {
		t.Error("broken.rs should carry a per-file error")
	}
	if r := byPath["src/main.rs"]; r.Err != nil || !strings.Contains(r.Output, "fn main") {
		t.Errorf("main.rs result wrong: %+v", r)
	}
	if r := byPath["src/lib.rs"]; r.Err != nil {
		t.Errorf("lib.rs should succeed: %v", r.Err)
	}

	text := compress.Concat(results)
	if !strings.Contains(text, "// ===== src/main.rs =====") {
		t.Error("Concat() should banner each successful file")
	}
	if strings.Contains(text, "broken.rs") {
		t.Error("Concat() should omit failed files")
	}
}

func TestCompressor_Dir_AllFail(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "bad.rs"), "fn f() { let s = \"oops; }\n")

	c, err := compress.New(compress.Options{})
	if err != nil {
		t.Fatal(err)
	}

	results, err := c.Dir(context.Background(), root)
	if !errors.Is(err, compress.ErrNoFiles) {
		t.Fatalf("Dir() error = %v, want ErrNoFiles", err)
	}
	if len(results) != 1 || results[0].Err == nil {
		t.Errorf("results should still report the failure: %+v", results)
	}
}

func TestCompressor_Dir_Empty(t *testing.T) {
	t.Parallel()

	c, err := compress.New(compress.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Dir(context.Background(), t.TempDir()); !errors.Is(err, compress.ErrNoFiles) {
		t.Fatalf("Dir() on empty tree = %v, want ErrNoFiles", err)
	}
}

func TestCompressor_Dir_Canceled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.rs"), "fn a() {}\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c, err := compress.New(compress.Options{})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Dir(ctx, root); !errors.Is(err, context.Canceled) {
		t.Fatalf("Dir() = %v, want context.Canceled", err)
	}
}

func TestCompressor_Aggressive(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "m.rs")
	writeFile(t, path, "fn add(a: i32, b: i32) -> i32 { a + b }\n")

	plain, err := compress.New(compress.Options{})
	if err != nil {
		t.Fatal(err)
	}
	aggressive, err := compress.New(compress.Options{Minify: minify.Options{Aggressive: true}})
	if err != nil {
		t.Fatal(err)
	}

	p, err := plain.File(path)
	if err != nil {
		t.Fatal(err)
	}
	a, err := aggressive.File(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(a) > len(p) {
		t.Errorf("aggressive output (%d bytes) should not exceed plain (%d bytes)", len(a), len(p))
	}
}
