// Package scratch manages the temporary directory each clip request works in.
//
// A Dir is created fresh by Acquire and removed, with everything in it, by
// Release. Callers defer Release right after a successful Acquire.
//
// Directory names carry the owning process ID, so several instances can
// share one scratch root: Sweep only removes directories whose owner has
// exited, and ReleaseAll only touches directories this process acquired.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"video-cutter/internal/logging"
	"video-cutter/internal/metrics"

	"github.com/google/uuid"
)

// Prefix is prepended to every scratch directory name.
const Prefix = "video-cutter-"

// Dir is a per-request scratch directory.
type Dir struct {
	path string
	once sync.Once
	err  error
}

var (
	liveMu sync.Mutex
	live   = make(map[string]*Dir)
)

// dirName returns the base name for a directory owned by pid.
func dirName(pid int) string {
	return Prefix + strconv.Itoa(pid) + "-" + uuid.NewString()
}

// parseName returns the owning pid of a scratch directory name.
func parseName(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, Prefix)
	if !ok {
		return 0, false
	}
	pidPart, id, ok := strings.Cut(rest, "-")
	if !ok {
		return 0, false
	}
	pid, err := strconv.Atoi(pidPart)
	if err != nil || pid <= 0 {
		return 0, false
	}
	if _, err := uuid.Parse(id); err != nil {
		return 0, false
	}
	return pid, true
}

// Acquire creates a new, uniquely named directory under root.
// An empty root means os.TempDir().
func Acquire(root string) (*Dir, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch root %s: %w", root, err)
	}

	path := filepath.Join(root, dirName(os.Getpid()))
	if err := os.Mkdir(path, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory: %w", err)
	}

	d := &Dir{path: path}
	liveMu.Lock()
	live[path] = d
	liveMu.Unlock()

	metrics.ScratchDirsActive.Inc()
	logging.Debug("Scratch directory acquired: %s", path)
	return d, nil
}

// Path returns the absolute directory path.
func (d *Dir) Path() string {
	return d.path
}

// Join returns a path inside the scratch directory.
func (d *Dir) Join(elem ...string) string {
	return filepath.Join(append([]string{d.path}, elem...)...)
}

// Release removes the directory and its contents. It is safe to call more than once.
func (d *Dir) Release() error {
	d.once.Do(func() {
		liveMu.Lock()
		delete(live, d.path)
		liveMu.Unlock()

		if err := os.RemoveAll(d.path); err != nil {
			metrics.ScratchCleanupErrors.Inc()
			logging.Warn("failed to remove scratch directory %s: %v", d.path, err)
			d.err = err
			return
		}
		metrics.ScratchDirsActive.Dec()
		logging.Debug("Scratch directory released: %s", d.path)
	})
	return d.err
}

// ReleaseAll releases every directory this process still holds. It is used
// at shutdown, after in-flight requests have drained. It returns how many
// directories were released and the first error seen.
func ReleaseAll() (int, error) {
	liveMu.Lock()
	dirs := make([]*Dir, 0, len(live))
	for _, d := range live {
		dirs = append(dirs, d)
	}
	liveMu.Unlock()

	var first error
	released := 0
	for _, d := range dirs {
		if err := d.Release(); err != nil {
			if first == nil {
				first = err
			}
			continue
		}
		released++
	}
	return released, first
}

func tracked(path string) bool {
	liveMu.Lock()
	defer liveMu.Unlock()
	_, ok := live[path]
	return ok
}

// Sweep removes scratch directories left under root by processes that have
// exited, for example after a crash. Directories held by this process or by
// another running instance are kept. It returns how many were removed.
func Sweep(root string) (int, error) {
	if root == "" {
		root = os.TempDir()
	}
	matches, err := filepath.Glob(filepath.Join(root, Prefix+"*"))
	if err != nil {
		return 0, err
	}

	self := os.Getpid()
	removed := 0
	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}
		pid, ok := parseName(filepath.Base(m))
		if !ok {
			continue
		}
		if pid == self {
			if tracked(m) {
				continue
			}
		} else if processAlive(pid) {
			logging.Debug("Keeping scratch directory of running process %d: %s", pid, m)
			continue
		}
		if err := os.RemoveAll(m); err != nil {
			metrics.ScratchCleanupErrors.Inc()
			logging.Warn("failed to sweep stale scratch directory %s: %v", m, err)
			continue
		}
		removed++
	}
	return removed, nil
}
