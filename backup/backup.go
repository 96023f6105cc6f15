// Package backup archives superseded resource files by renaming them
// with a backup extension.
//
// A pre-existing backup means an earlier run was never cleaned up; the
// original must not be silently lost under it, so that case is fatal
// unless the caller explicitly opts into keeping existing backups.
// Every move is announced through a callback before it happens, which
// lets dry-run mode report the identical plan without touching the
// file system.
package backup

import (
	"fmt"
	"os"
)

// Move is one planned rename.
type Move struct {
	From string
	To   string
}

// Options controls how Apply performs the planned moves.
type Options struct {
	// DryRun reports the plan without renaming anything.
	DryRun bool
	// KeepExisting skips files whose backup already exists instead of
	// failing on them.
	KeepExisting bool

	// OnMove is called before each rename (and in dry-run mode).
	OnMove func(m Move)
	// OnSkip is called for moves skipped because the backup exists.
	OnSkip func(m Move)
}

// Plan computes the backup destination for every path by appending ext.
func Plan(paths []string, ext string) []Move {
	moves := make([]Move, 0, len(paths))
	for _, p := range paths {
		moves = append(moves, Move{From: p, To: p + ext})
	}
	return moves
}

// Apply renames the originals to their backup paths. An existing backup
// aborts the run unless Options.KeepExisting is set, in which case that
// file is treated as already archived.
func Apply(moves []Move, opts Options) error {
	for _, m := range moves {
		if _, err := os.Stat(m.To); err == nil {
			if opts.KeepExisting {
				if opts.OnSkip != nil {
					opts.OnSkip(m)
				}
				continue
			}
			return fmt.Errorf("backup already exists: %s", m.To)
		}

		if opts.OnMove != nil {
			opts.OnMove(m)
		}
		if opts.DryRun {
			continue
		}
		if err := os.Rename(m.From, m.To); err != nil {
			return fmt.Errorf("renaming %s: %w", m.From, err)
		}
	}
	return nil
}
