// Package split discovers speaker directories under a source root and
// partitions them into train and test sets.
package split

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"setupam/internal/faults"
)

// MinSpeakers is the smallest population that yields two non-empty splits.
const MinSpeakers = 2

// DiscoverSpeakers returns the immediate subdirectories of root, sorted.
// Hidden directories are ignored.
func DiscoverSpeakers(root string) ([]string, error) {
	if strings.TrimSpace(root) == "" {
		return nil, faults.Wrap(faults.ErrConfiguration, "split", "discover speakers", "", fmt.Errorf("missing source root"))
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, faults.Wrap(faults.ErrNotFound, "split", "discover speakers", root, err)
	}
	dirs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(filepath.Join(root, entry.Name()))
			isDir = err == nil && info.IsDir()
		}
		if isDir {
			dirs = append(dirs, filepath.Join(root, entry.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// NewRand returns a shuffle source. Seed 0 derives one from the clock.
func NewRand(seed int64) (*rand.Rand, uint64) {
	s := uint64(seed)
	if seed == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15)), s
}

// TestCount is floor(ratio*n), raised to 1.
func TestCount(n int, ratio float64) int {
	count := int(math.Floor(ratio * float64(n)))
	if count < 1 {
		count = 1
	}
	return count
}

// Partition shuffles dirs with rng and returns the train and test slices.
// The input slice is not modified. Both results are non-empty.
func Partition(dirs []string, ratio float64, rng *rand.Rand) (train, test []string, err error) {
	if ratio < 0 || ratio >= 1 || math.IsNaN(ratio) {
		return nil, nil, faults.Wrap(faults.ErrConfiguration, "split", "partition", "", fmt.Errorf("ratio %v outside [0, 1)", ratio))
	}
	if len(dirs) < MinSpeakers {
		return nil, nil, faults.Wrap(faults.ErrConfiguration, "split", "partition", "",
			fmt.Errorf("need at least %d speakers, got %d", MinSpeakers, len(dirs)))
	}
	if rng == nil {
		rng, _ = NewRand(0)
	}
	shuffled := make([]string, len(dirs))
	copy(shuffled, dirs)
	rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	n := len(shuffled)
	testN := TestCount(n, ratio)
	if testN >= n {
		testN = n - 1
	}
	return shuffled[:n-testN], shuffled[n-testN:], nil
}
