// Package sweeper walks the node data directory and deletes regular
// files that have aged out of the retention window selected for the
// current run.
//
// The hot subdirectory is swept first against its own window, then
// pruned from the general walk so its files are only ever judged by the
// hot policy. Excluded subtrees are pruned entirely. Directories are
// never deleted and the walk never follows symlinks, so the sweep cannot
// escape the data root.
package sweeper

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/opsdrift/retentiond/internal/policy"
)

// ErrRootMissing marks the one fatal precondition: the configured data
// root does not exist. No measurement or deletion happens in that case.
var ErrRootMissing = errors.New("data root does not exist")

// Archiver uploads a file to long-term storage before it is deleted.
// An archive failure keeps the file on disk for the next run.
type Archiver interface {
	Archive(ctx context.Context, key, localPath string) error
}

// Options configures a Sweeper.
type Options struct {
	// Root is the absolute path of the data directory. Required.
	Root string

	// HotSubdir is the slash-separated path, relative to Root, of the
	// high-churn subtree swept under its own retention window. Empty
	// disables the hot sweep.
	HotSubdir string

	// Exclusions are subtrees the sweep must never touch.
	Exclusions *Exclusions

	// Archiver, when set, receives every expired file before deletion.
	Archiver Archiver

	// DryRun evaluates and reports deletions without performing them.
	DryRun bool

	Logger *log.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Sweeper performs one retention pass per Sweep call. It holds no state
// between runs; repeated runs over an unchanged tree delete nothing new.
type Sweeper struct {
	opts Options
}

// New returns a Sweeper for the given options, filling in defaults.
func New(opts Options) *Sweeper {
	if opts.Exclusions == nil {
		opts.Exclusions = NewExclusions(nil)
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Sweeper{opts: opts}
}

// Sweep runs one full retention pass with the supplied policy. The
// returned error is ErrRootMissing when the data root is absent, or a
// context error when the run was cancelled mid-walk; partial progress is
// valid in the latter case. Per-file failures never abort the sweep.
func (s *Sweeper) Sweep(ctx context.Context, pol policy.Policy) (Report, error) {
	info, err := os.Stat(s.opts.Root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Report{}, fmt.Errorf("%w: %s", ErrRootMissing, s.opts.Root)
		}
		return Report{}, fmt.Errorf("stat data root %s: %w", s.opts.Root, err)
	}
	if !info.IsDir() {
		return Report{}, fmt.Errorf("data root %s is not a directory", s.opts.Root)
	}

	report := Report{}
	report.SizeBefore, report.FilesBefore = s.measure()

	now := s.opts.Now()

	hotPath := ""
	if s.opts.HotSubdir != "" {
		hotPath = filepath.Join(s.opts.Root, filepath.FromSlash(s.opts.HotSubdir))
		if err := s.sweepTree(ctx, hotPath, now.Add(-pol.Hot), "", &report); err != nil {
			return report, err
		}
	}

	if err := s.sweepTree(ctx, s.opts.Root, now.Add(-pol.General), hotPath, &report); err != nil {
		return report, err
	}

	report.SizeAfter, report.FilesAfter = s.measure()
	return report, nil
}

// sweepTree deletes expired regular files under base, pruning excluded
// subtrees and the prune path (the hot subdirectory during the general
// pass). A missing base is a no-op.
func (s *Sweeper) sweepTree(ctx context.Context, base string, cutoff time.Time, prune string, report *Report) error {
	if _, err := os.Stat(base); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		s.opts.Logger.Printf("WARN: stat %s: %v", base, err)
		report.SoftErrors++
		return nil
	}

	return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			// Unreadable or vanished entry. Skip it, keep sweeping.
			s.opts.Logger.Printf("WARN: walk %s: %v", path, err)
			report.SoftErrors++
			if d != nil && d.IsDir() && path != base {
				return filepath.SkipDir
			}
			return nil
		}
		if path == base {
			return nil
		}

		rel, relErr := filepath.Rel(s.opts.Root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if path == prune || s.opts.Exclusions.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		if s.opts.Exclusions.Match(rel) {
			return nil
		}
		// Symlinks and other non-regular entries are left alone.
		if !d.Type().IsRegular() {
			return nil
		}

		fi, infoErr := d.Info()
		if infoErr != nil {
			if !errors.Is(infoErr, fs.ErrNotExist) {
				s.opts.Logger.Printf("WARN: stat %s: %v", path, infoErr)
				report.SoftErrors++
			}
			return nil
		}

		// Strictly older than the window: a file exactly at the cutoff
		// is retained.
		if !fi.ModTime().Before(cutoff) {
			return nil
		}

		s.remove(ctx, path, rel, fi.Size(), report)
		return nil
	})
}

func (s *Sweeper) remove(ctx context.Context, path, rel string, size int64, report *Report) {
	if s.opts.DryRun {
		s.opts.Logger.Printf("dry-run: would delete %s", rel)
		report.FilesDeleted++
		report.BytesFreed += size
		return
	}

	if s.opts.Archiver != nil {
		if err := s.opts.Archiver.Archive(ctx, rel, path); err != nil {
			s.opts.Logger.Printf("WARN: archive %s failed, keeping file: %v", rel, err)
			report.SoftErrors++
			return
		}
	}

	if err := os.Remove(path); err != nil {
		// Vanished between listing and delete: a concurrent writer won
		// the race, which is fine.
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		s.opts.Logger.Printf("WARN: delete %s: %v", rel, err)
		report.SoftErrors++
		return
	}

	report.FilesDeleted++
	report.BytesFreed += size
}

// measure walks the data root summing regular file sizes and counts.
// The numbers are diagnostic and race-tolerant; a failed measurement is
// reported as unknown and never blocks the sweep.
func (s *Sweeper) measure() (size, files int64) {
	err := filepath.WalkDir(s.opts.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != s.opts.Root {
				return filepath.SkipDir
			}
			if path == s.opts.Root {
				return err
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		fi, infoErr := d.Info()
		if infoErr != nil {
			return nil
		}
		size += fi.Size()
		files++
		return nil
	})
	if err != nil {
		return MetricUnknown, MetricUnknown
	}
	return size, files
}
