// Package snippets loads the text typed during snippet bursts. Snippets
// live in one directory per stack (html, js, go, ...); every regular file
// in a stack directory is one snippet.
package snippets

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"path"
	"sort"
	"sync"
	"sync/atomic"
)

//go:embed builtin
var builtin embed.FS

// ErrUnknownStack is returned for a stack with no directory.
var ErrUnknownStack = errors.New("unknown snippet stack")

// Library reads snippets from a directory tree and caches file lists per
// stack until Invalidate is called.
type Library struct {
	fsys fs.FS
	root string

	mu      sync.RWMutex
	files   map[string][]string
	version atomic.Uint64
}

// Open returns a Library over root, or over the built-in snippets when
// root is empty.
func Open(root string) (*Library, error) {
	if root == "" {
		sub, err := fs.Sub(builtin, "builtin")
		if err != nil {
			return nil, err
		}
		return New(sub, ""), nil
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("snippet root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("snippet root %s is not a directory", root)
	}
	return New(os.DirFS(root), root), nil
}

// New returns a Library over fsys. root is the on-disk path backing fsys,
// or empty when fsys is not a directory that can be watched.
func New(fsys fs.FS, root string) *Library {
	return &Library{fsys: fsys, root: root, files: make(map[string][]string)}
}

// Root is the watched directory, empty for embedded snippets.
func (l *Library) Root() string { return l.root }

// Version increases every time the cache is invalidated.
func (l *Library) Version() uint64 { return l.version.Load() }

// Invalidate drops cached file lists.
func (l *Library) Invalidate() {
	l.mu.Lock()
	l.files = make(map[string][]string)
	l.mu.Unlock()
	l.version.Add(1)
}

// Stacks lists the stack directories in name order.
func (l *Library) Stacks() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, ".")
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	return out, nil
}

// Files lists the snippet files of stack in name order.
func (l *Library) Files(stack string) ([]string, error) {
	if !fs.ValidPath(stack) || stack == "." {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStack, stack)
	}
	l.mu.RLock()
	cached, ok := l.files[stack]
	l.mu.RUnlock()
	if ok {
		return cached, nil
	}

	entries, err := fs.ReadDir(l.fsys, stack)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStack, stack)
		}
		return nil, err
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	l.mu.Lock()
	l.files[stack] = files
	l.mu.Unlock()
	return files, nil
}

// Load returns the content of one snippet file.
func (l *Library) Load(stack, name string) (string, error) {
	if _, err := l.Files(stack); err != nil {
		return "", err
	}
	b, err := fs.ReadFile(l.fsys, path.Join(stack, name))
	if err != nil {
		return "", fmt.Errorf("read snippet %s/%s: %w", stack, name, err)
	}
	return string(b), nil
}

// Random returns a random snippet of stack. Problems are reported as a
// comment line so the typing flow still has something to type.
func (l *Library) Random(rnd *rand.Rand, stack string) string {
	files, err := l.Files(stack)
	if err != nil {
		if errors.Is(err, ErrUnknownStack) {
			return fmt.Sprintf("// No snippets found for stack '%s'.\n", stack)
		}
		return fmt.Sprintf("// Failed to list snippets for %s: %v\n", stack, err)
	}
	if len(files) == 0 {
		return fmt.Sprintf("// No snippet files in %s\n", stack)
	}
	name := files[rnd.Intn(len(files))]
	text, err := l.Load(stack, name)
	if err != nil {
		return fmt.Sprintf("// Failed to read %s/%s: %v\n", stack, name, err)
	}
	return text
}
