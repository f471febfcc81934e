// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"errors"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/rustpack/rustpack/internal/project"
	"github.com/rustpack/rustpack/pkg/syntax"
	"github.com/rustpack/rustpack/pkg/transform"
)

type Id int

const (
	IoErrorId Id = iota + 1
	TokenizeErrorId
	ParseErrorId
	ModuleNotFoundId
	LibraryRootUnavailableId
	ProjectStructureErrorId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	ioErrorIssue = &Issue{
		id: IoErrorId,
		mdMsg: `
# A source file could not be read!

The bundler tried to open a file on disk and the operating system refused.

## Things you can try:
- Check that the path exists and is readable by your user
- If the module file is a symlink, check that its target exists
- Run with verbose mode to see which step was reading the file:
~~~
$ rustpack --verbose bundle <path>
~~~`,
	}

	tokenizeErrorIssue = &Issue{
		id: TokenizeErrorId,
		mdMsg: `
# The source text could not be tokenized!

An unterminated string, character literal or block comment stops the lexer.

## Things you can try:
- The reported line and column point at where the offending token starts
- Check for a missing closing quote or ` + "`*/`" + ` near that position`,
	}

	parseErrorIssue = &Issue{
		id: ParseErrorId,
		mdMsg: `
# A source file could not be parsed!

rustpack parses files at the item level, so declarations must at least be
structurally well-formed.

## Things you can try:
- Run the Rust compiler over the crate; its diagnostics are far richer:
~~~
$ cargo check
~~~

- If only minification is needed, skip bundling entirely:
~~~
$ rustpack compress <dir>
~~~`,
	}

	moduleNotFoundIssue = &Issue{
		id: ModuleNotFoundId,
		mdMsg: `
# A module declaration has no source file!

For a declaration like ` + "`mod utils;`" + ` the bundler looks for, in order:
1. ` + "`utils.rs`" + ` next to the declaring file
2. ` + "`utils/mod.rs`" + `

## Things you can try:
- Check that the module file is named exactly like the declaration
- Check for a module that (directly or indirectly) declares itself;
  cyclic references are reported as not found
- Skip module expansion if the missing module is intentional:
~~~
$ rustpack bundle --no-expand-modules <path>
~~~`,
	}

	libraryRootUnavailableIssue = &Issue{
		id: LibraryRootUnavailableId,
		mdMsg: `
# Whole-library inlining needs a library root!

The entry file references the crate's own library, but no library root
could be read.

## Things you can try:
- Check that the crate has a ` + "`src/lib.rs`" + ` (or an explicit ` + "`[lib] path`" + `)
- Check that the ` + "`[package] name`" + ` in Cargo.toml matches the crate name
  referenced from the entry file (hyphens count as underscores)`,
	}

	projectStructureIssue = &Issue{
		id: ProjectStructureErrorId,
		mdMsg: `
# The project layout could not be understood!

rustpack needs exactly one binary entry point to bundle.

## Expected layouts:
- A crate directory with a Cargo.toml and ` + "`src/main.rs`" + `
- A Cargo.toml declaring exactly one ` + "`[[bin]]`" + ` target
- A direct path to a single ` + "`.rs`" + ` file

## Things you can try:
- Point rustpack at the ` + "`.rs`" + ` file of the binary you want:
~~~
$ rustpack bundle src/bin/solution.rs
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the rustpack configuration file.

## Configuration file locations:
- Linux: ~/.config/rustpack/config.toml
- macOS: ~/Library/Application Support/rustpack/config.toml
- Windows: %APPDATA%\rustpack\config.toml

## Things you can try:
- Check the TOML syntax of the file
- Remove the config file to fall back to defaults

## Example configuration:
~~~toml
[bundle]
expand_modules = true
remove_tests = true
remove_docs = true
minify = false

[ui]
verbose = false
~~~`,
	}

	issues = map[Id]*Issue{
		ioErrorIssue.Id():                ioErrorIssue,
		tokenizeErrorIssue.Id():          tokenizeErrorIssue,
		parseErrorIssue.Id():             parseErrorIssue,
		moduleNotFoundIssue.Id():         moduleNotFoundIssue,
		libraryRootUnavailableIssue.Id(): libraryRootUnavailableIssue,
		projectStructureIssue.Id():       projectStructureIssue,
		configLoadFailedIssue.Id():       configLoadFailedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}

// FromError classifies a pipeline error into its issue. Returns nil when the
// error belongs to no known class; callers fall back to the plain message.
func FromError(err error) *Issue {
	var (
		modErr    *transform.ModuleNotFoundError
		libErr    *transform.LibraryRootUnavailableError
		parseErr  *syntax.ParseError
		tokenErr  *syntax.TokenizeError
		structure *project.StructureError
		ioErr     *transform.IoError
	)
	switch {
	case errors.As(err, &modErr):
		return moduleNotFoundIssue
	case errors.As(err, &libErr):
		return libraryRootUnavailableIssue
	case errors.As(err, &parseErr):
		return parseErrorIssue
	case errors.As(err, &tokenErr):
		return tokenizeErrorIssue
	case errors.As(err, &structure):
		return projectStructureIssue
	case errors.As(err, &ioErr):
		return ioErrorIssue
	default:
		return nil
	}
}
