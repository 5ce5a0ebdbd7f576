package sweeper

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// IgnoreFileName is the optional per-directory protection file an
// operator can drop at the data root. Paths it matches are never swept.
const IgnoreFileName = ".sweepignore"

// Exclusions decides which subtrees the sweeper must never touch.
// Plain entries are directory basenames matched at any depth; entries
// containing glob metacharacters are matched against the full
// slash-separated path relative to the data root.
type Exclusions struct {
	names   map[string]struct{}
	globs   []string
	matcher *ignore.GitIgnore
}

// NewExclusions builds an exclusion set from configured entries. Empty
// entries are dropped; leading and trailing slashes are ignored.
func NewExclusions(entries []string) *Exclusions {
	e := &Exclusions{names: make(map[string]struct{}, len(entries))}
	for _, entry := range entries {
		entry = strings.Trim(strings.TrimSpace(entry), "/")
		if entry == "" {
			continue
		}
		if strings.ContainsAny(entry, "*?[{") {
			e.globs = append(e.globs, entry)
			continue
		}
		e.names[entry] = struct{}{}
	}
	return e
}

// LoadIgnoreFile compiles <root>/.sweepignore when present. A missing
// file is not an error.
func (e *Exclusions) LoadIgnoreFile(root string) error {
	path := filepath.Join(root, IgnoreFileName)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}

	matcher, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return fmt.Errorf("compile %s: %w", path, err)
	}
	e.matcher = matcher
	return nil
}

// Match reports whether rel, a slash-separated path relative to the data
// root, falls inside an excluded subtree.
func (e *Exclusions) Match(rel string) bool {
	if rel == "" || rel == "." {
		return false
	}

	for _, segment := range strings.Split(rel, "/") {
		if _, ok := e.names[segment]; ok {
			return true
		}
	}

	for _, pattern := range e.globs {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}

	if e.matcher != nil && e.matcher.MatchesPath(rel) {
		return true
	}

	return false
}
