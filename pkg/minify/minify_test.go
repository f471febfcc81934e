// SPDX-License-Identifier: MPL-2.0

package minify_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/rustpack/rustpack/pkg/minify"
	"github.com/rustpack/rustpack/pkg/syntax"
)

func mustMinify(t *testing.T, src string, opts minify.Options) string {
	t.Helper()
	out, err := minify.Minify(src, opts)
	if err != nil {
		t.Fatalf("Minify(%q) error: %v", src, err)
	}
	return out
}

func TestMinify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "function",
			src:  "fn main() {\n    println!(\"hello\");\n}\n",
			want: `fn main(){println!("hello");}`,
		},
		{
			name: "keyword spacing survives",
			src:  "let x = 1 + 2;",
			want: "let x =1 +2;",
		},
		{
			name: "struct fields",
			src:  "struct P {\n    x: i32,\n    y: i32,\n}",
			want: "struct P{x:i32,y:i32}",
		},
		{
			name: "comments dropped",
			src:  "// leading\nfn f() { /* inner */ g(); }\n",
			want: "fn f(){g();}",
		},
		{
			name: "doc comments dropped",
			src:  "/// documented\nfn f() {}\n",
			want: "fn f(){}",
		},
		{
			name: "paths stay tight",
			src:  "use std::collections::HashMap;",
			want: "use std::collections::HashMap;",
		},
		{
			name: "comparison keeps code valid",
			src:  "if x > 0 { return x; }",
			want: "if x >0{return x;}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := mustMinify(t, tt.src, minify.Options{}); got != tt.want {
				t.Errorf("Minify(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestMinify_Aggressive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "operator spacing dropped",
			src:  "let x = 1 + 2;",
			want: "let x=1+2;",
		},
		{
			name: "return type",
			src:  "fn add(a: i32, b: i32) -> i32 { a + b }",
			want: "fn add(a:i32,b:i32)->i32{a+b}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := mustMinify(t, tt.src, minify.Options{Aggressive: true}); got != tt.want {
				t.Errorf("Minify(%q) = %q, want %q", tt.src, got, tt.want)
			}
		})
	}
}

func TestMinify_ReferencesNeverFuse(t *testing.T) {
	t.Parallel()

	// `& &x` fusing into `&&x` would change a double reference into a
	// logical-and token.
	out := mustMinify(t, "let y = & &x;", minify.Options{Aggressive: true})
	if strings.Contains(out, "&&") {
		t.Errorf("references fused into &&: %q", out)
	}
	if !strings.Contains(out, "& &") {
		t.Errorf("double reference lost its separating space: %q", out)
	}
}

func TestMinify_StringContentsVerbatim(t *testing.T) {
	t.Parallel()

	tests := []string{
		`let s = "two  spaces and a // comment";`,
		`let s = "#[doc = \"x\"]";`,
		`let r = r#"raw "quoted" text"#;`,
		`let c = '\'';`,
	}

	for _, src := range tests {
		toks, err := syntax.Lex(src)
		if err != nil {
			t.Fatal(err)
		}
		var lit string
		for _, tok := range toks {
			if tok.Kind == syntax.TokenString || tok.Kind == syntax.TokenChar {
				lit = tok.Text
			}
		}
		if lit == "" {
			t.Fatalf("no literal token in %q", src)
		}

		out := mustMinify(t, src, minify.Options{})
		if !strings.Contains(out, lit) {
			t.Errorf("literal %q not reproduced verbatim in %q", lit, out)
		}
	}
}

func TestMinify_DocAttrsStripped(t *testing.T) {
	t.Parallel()

	out := mustMinify(t, `#[doc = "module docs"] fn f() {}`, minify.Options{})
	if strings.Contains(out, "doc") {
		t.Errorf("#[doc = ...] should be stripped, got %q", out)
	}
	if !strings.Contains(out, "fn f(){}") {
		t.Errorf("code lost while stripping docs: %q", out)
	}

	out = mustMinify(t, `#![doc = "crate docs"] fn f() {}`, minify.Options{})
	if strings.Contains(out, "doc") {
		t.Errorf("#![doc = ...] should be stripped, got %q", out)
	}
}

func TestMinify_DocHiddenKept(t *testing.T) {
	t.Parallel()

	// doc(hidden) changes visibility behavior; only `doc =` text is
	// documentation.
	out := mustMinify(t, "#[doc(hidden)]\npub fn g() {}", minify.Options{})
	if !strings.Contains(out, "doc(hidden)") {
		t.Errorf("#[doc(hidden)] should survive, got %q", out)
	}
}

func TestMinify_Idempotent(t *testing.T) {
	t.Parallel()

	srcs := []string{
		"fn main() {\n    let v = vec![1, 2, 3];\n    for x in &v { println!(\"{}\", x); }\n}\n",
		"struct P { x: i32 }\nimpl P { fn get(&self) -> i32 { self.x } }",
	}
	for _, src := range srcs {
		once := mustMinify(t, src, minify.Options{})
		twice := mustMinify(t, once, minify.Options{})
		if once != twice {
			t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	}
}

func TestMinify_TokenizeError(t *testing.T) {
	t.Parallel()

	_, err := minify.Minify("let s = \"unterminated;", minify.Options{})
	var tokenErr *syntax.TokenizeError
	if !errors.As(err, &tokenErr) {
		t.Fatalf("Minify() error = %v, want *syntax.TokenizeError", err)
	}
}

func TestMinify_UnbalancedInputKeepsTokens(t *testing.T) {
	t.Parallel()

	// A stray closer must not swallow the rest of the stream.
	out := mustMinify(t, ") fn after() {}", minify.Options{})
	if !strings.Contains(out, "fn after") {
		t.Errorf("tokens after a stray closer were dropped: %q", out)
	}
}
