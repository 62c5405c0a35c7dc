package filesystem

import (
	"cmp"
	"slices"

	"github.com/brettbedarf/elfshelf"
	"github.com/brettbedarf/elfshelf/internal/util"
)

// Usage is a snapshot taken right after an aggregation pass. It stays valid
// after the tree changes, it just describes the tree as it was.
type Usage struct {
	Capacity  uint64
	Used      uint64
	Available uint64
	Dirs      []elfshelf.NodeInfo // breadth-first from root, root first
	Files     []elfshelf.NodeInfo // breadth-first
}

// Recompute runs the disk usage pass: every directory's sizes are reset, then
// the tree is visited deepest first so each directory sees its children's
// final cumulative sizes. Running it twice without a mutation in between
// yields identical sizes.
func (fs *FileSystem) Recompute() *Usage {
	logger := util.GetLogger("FS.Recompute")

	fs.nodes.Range(func(_ string, n *Node) bool {
		switch n.Kind() {
		case elfshelf.DirNode:
			n.size, n.cumulative = 0, 0
		case elfshelf.FileNode:
		}
		return true
	})

	order := fs.bfs(fs.root)
	for i := len(order) - 1; i >= 0; i-- {
		dir := order[i]
		if !dir.IsDir() {
			continue
		}
		for _, ch := range dir.Children() {
			switch ch.Kind() {
			case elfshelf.DirNode:
				dir.cumulative += ch.cumulative
			case elfshelf.FileNode:
				dir.size += ch.size
				dir.cumulative += ch.size
			}
		}
	}
	fs.fresh = true

	usage := &Usage{
		Capacity:  fs.quota.Capacity(),
		Used:      fs.quota.Used(),
		Available: fs.quota.Available(),
	}
	for _, n := range order {
		switch n.Kind() {
		case elfshelf.DirNode:
			usage.Dirs = append(usage.Dirs, n.Info())
		case elfshelf.FileNode:
			usage.Files = append(usage.Files, n.Info())
		}
	}

	logger.Debug().
		Int("dirs", len(usage.Dirs)).
		Int("files", len(usage.Files)).
		Uint64("total", fs.root.cumulative).
		Msg("Recomputed disk usage")
	return usage
}

// Root returns the root directory's entry
func (u *Usage) Root() elfshelf.NodeInfo {
	if len(u.Dirs) == 0 {
		return elfshelf.NodeInfo{Path: Delimiter, Kind: elfshelf.DirNode}
	}
	return u.Dirs[0]
}

// Lookup finds the entry rendered as path
func (u *Usage) Lookup(path string) (elfshelf.NodeInfo, bool) {
	for _, list := range [][]elfshelf.NodeInfo{u.Dirs, u.Files} {
		if i := slices.IndexFunc(list, func(n elfshelf.NodeInfo) bool { return n.Path == path }); i >= 0 {
			return list[i], true
		}
	}
	return elfshelf.NodeInfo{}, false
}

// DirSizes returns the cumulative size of every directory, root included
func (u *Usage) DirSizes() []uint64 {
	sizes := make([]uint64, len(u.Dirs))
	for i, d := range u.Dirs {
		sizes[i] = d.Cumulative
	}
	return sizes
}

// SumBelow sums directory sizes strictly under threshold
func (u *Usage) SumBelow(threshold uint64) uint64 {
	return SumSmallDirectories(u.DirSizes(), threshold)
}

// Needed returns how many more bytes must be freed for targetFree bytes to be
// available; zero when enough is free already.
func (u *Usage) Needed(targetFree uint64) uint64 {
	if targetFree <= u.Available {
		return 0
	}
	return targetFree - u.Available
}

// SmallestToFree returns the smallest directory whose removal makes
// targetFree bytes available
func (u *Usage) SmallestToFree(targetFree uint64) (uint64, bool) {
	return SmallestDirectoryAtLeast(u.DirSizes(), u.Needed(targetFree))
}

// Entries returns directories and files together, largest first.
// Directories weigh their cumulative size and files their size. Equal sizes
// keep breadth-first order.
func (u *Usage) Entries() []elfshelf.NodeInfo {
	entries := make([]elfshelf.NodeInfo, 0, len(u.Dirs)+len(u.Files))
	entries = append(entries, u.Dirs...)
	entries = append(entries, u.Files...)
	slices.SortStableFunc(entries, func(a, b elfshelf.NodeInfo) int {
		return cmp.Compare(b.Cumulative, a.Cumulative)
	})
	return entries
}

// SumSmallDirectories sums the sizes strictly below threshold
func SumSmallDirectories(sizes []uint64, threshold uint64) uint64 {
	var sum uint64
	for _, s := range sizes {
		if s < threshold {
			sum += s
		}
	}
	return sum
}

// SmallestDirectoryAtLeast returns the minimum size that is >= needed, or
// false when no size qualifies
func SmallestDirectoryAtLeast(sizes []uint64, needed uint64) (uint64, bool) {
	var (
		best  uint64
		found bool
	)
	for _, s := range sizes {
		if s >= needed && (!found || s < best) {
			best, found = s, true
		}
	}
	return best, found
}
