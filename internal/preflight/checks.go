package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadable verifies that the directory exists and can be listed.
func CheckReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDirectory(name, path string, mode uint32, ok string) Result {
	if path == "" {
		return Result{Name: name, Detail: "(error: path not set)"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, ok)}
}

// CheckTarget verifies that <base>/<corpus> does not exist yet.
func CheckTarget(base, corpus string) Result {
	const name = "Corpus directory"
	dir := filepath.Join(base, corpus)
	_, err := os.Stat(dir)
	switch {
	case err == nil:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: already exists; a build needs a fresh path)", dir)}
	case errors.Is(err, fs.ErrNotExist):
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (fresh)", dir)}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", dir, err)}
	}
}

// CheckSpeakerCount verifies that root holds at least min speaker directories.
func CheckSpeakerCount(root string, count, min int) Result {
	const name = "Speaker directories"
	if count < min {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: found %d, need at least %d)", root, count, min)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d found)", root, count)}
}

// statfs is replaced in tests.
var statfs = func(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, err
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// CheckFreeSpace verifies that the filesystem holding path has room for need bytes.
func CheckFreeSpace(path string, need uint64) Result {
	const name = "Free space"
	free, err := statfs(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	if free < need {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s free, %s needed)", path, humanize.IBytes(free), humanize.IBytes(need))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s free, %s needed)", path, humanize.IBytes(free), humanize.IBytes(need))}
}
