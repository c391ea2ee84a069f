// Package module implements the module loader: it resolves `mod name;`
// references to on-disk source files, parses them, caches the result by
// name, and detects circular dependencies.
package module

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dolthub/swiss"
	"github.com/mna/zero/lang/ast"
	"github.com/mna/zero/lang/parser"
)

// Module is a single loaded and parsed source file.
type Module struct {
	// Name is the module name as written in a `mod` statement, e.g. "math".
	Name string
	// Path is the resolved file path that was read and parsed.
	Path string
	Chunk *ast.Chunk
}

// NotFoundError reports that name could not be resolved against any search
// root.
type NotFoundError struct {
	Name  string
	Roots []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %q not found in search roots: %s", e.Name, strings.Join(e.Roots, ", "))
}

// CircularDependencyError reports a module-loading cycle. Cycle lists the
// module names in the order they were entered, with the repeated name
// appended last, e.g. ["a", "b", "a"].
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular module dependency: %s", strings.Join(e.Cycle, " -> "))
}

// Loader resolves, loads and caches modules by name. It is not safe for
// concurrent use; a compilation uses exactly one Loader.
type Loader struct {
	// Ext is the source file extension, without a leading dot (e.g. "zero").
	Ext string
	// Roots is the ordered list of search roots.
	Roots []string

	cache   *swiss.Map[string, *Module]
	loading []string
}

// NewLoader builds a Loader with the given search roots, tried in order.
// The current working directory and the entry file's directory are meant to
// always be included by the caller (see §6 of the module's design).
func NewLoader(ext string, roots ...string) *Loader {
	return &Loader{
		Ext:   ext,
		Roots: roots,
		cache: swiss.NewMap[string, *Module](8),
	}
}

// Load resolves name against the search roots, parses the file if not
// already cached, and returns the resulting Module. It fails with
// *CircularDependencyError if name is already being loaded somewhere up the
// current call stack, and with *NotFoundError if no search root has a
// matching file.
func (l *Loader) Load(name string) (*Module, error) {
	if m, ok := l.cache.Get(name); ok {
		return m, nil
	}

	for i, loading := range l.loading {
		if loading == name {
			cycle := append(append([]string{}, l.loading[i:]...), name)
			return nil, &CircularDependencyError{Cycle: cycle}
		}
	}

	path, err := l.resolve(name)
	if err != nil {
		return nil, err
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading module %q: %w", name, err)
	}

	l.loading = append(l.loading, name)
	defer func() { l.loading = l.loading[:len(l.loading)-1] }()

	ch, err := parser.ParseFile(path, src)
	if err != nil {
		return nil, err
	}
	if err := l.resolveReferences(ch); err != nil {
		return nil, err
	}

	m := &Module{Name: name, Path: path, Chunk: ch}
	l.cache.Put(name, m)
	return m, nil
}

// resolve finds the first search root containing either root/name.ext or
// root/name/mod.ext, in that order.
func (l *Loader) resolve(name string) (string, error) {
	for _, root := range l.Roots {
		direct := filepath.Join(root, name+"."+l.Ext)
		if fileExists(direct) {
			return direct, nil
		}
		nested := filepath.Join(root, name, "mod."+l.Ext)
		if fileExists(nested) {
			return nested, nil
		}
	}
	return "", &NotFoundError{Name: name, Roots: l.Roots}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// ResolveReferences walks ch's top-level statements and replaces every
// *ast.ModuleRefStmt with an *ast.ModuleDeclStmt holding the loaded module's
// statements, loading (and recursively resolving) each referenced module as
// needed. All other statements are preserved in order. Call this on an
// already-parsed entry chunk; Load uses the unexported resolveReferences to
// do the same for modules it loads, keeping one loading stack for cycle
// detection across the whole transitive graph.
func ResolveReferences(l *Loader, ch *ast.Chunk) error {
	return l.resolveReferences(ch)
}

func (l *Loader) resolveReferences(ch *ast.Chunk) error {
	for i, stmt := range ch.Block.Stmts {
		ref, ok := stmt.(*ast.ModuleRefStmt)
		if !ok {
			continue
		}

		m, err := l.Load(ref.Name)
		if err != nil {
			return err
		}

		ch.Block.Stmts[i] = &ast.ModuleDeclStmt{
			Start:      ref.Start,
			Name:       ref.Name,
			Body:       m.Chunk.Block,
			End_:       ref.End_,
			Visibility: ref.Visibility,
		}
	}
	return nil
}
