package mount

import (
	"sync/atomic"
	"syscall"
	"time"

	"github.com/brettbedarf/elfshelf"
	"github.com/brettbedarf/elfshelf/filesystem"
	"github.com/hanwen/go-fuse/v2/fuse"
	"github.com/puzpuzpuz/xsync/v4"
)

// Read-only permission bits of the view
const (
	DirPerms  = 0o555
	FilePerms = 0o444
	blockSize = 4096
)

// rootIno is the FUSE node ID of the mount root
const rootIno = 1

// inodeTable hands out stable inode numbers per identity for the lifetime of
// a mount. Numbers are never reused, so a removed and recreated path gets a
// fresh one.
type inodeTable struct {
	inos *xsync.Map[string, uint64]
	next atomic.Uint64
}

func newInodeTable() *inodeTable {
	t := &inodeTable{inos: xsync.NewMap[string, uint64]()}
	t.next.Store(rootIno)
	t.inos.Store(filesystem.Root().Key(), rootIno)
	return t
}

// ino returns the inode number for id, assigning one on first use
func (t *inodeTable) ino(id filesystem.Identity) uint64 {
	if ino, ok := t.inos.Load(id.Key()); ok {
		return ino
	}
	ino, _ := t.inos.LoadOrStore(id.Key(), t.next.Add(1))
	return ino
}

// forget drops id's inode number
func (t *inodeTable) forget(id filesystem.Identity) {
	if id.IsRoot() {
		return
	}
	t.inos.Delete(id.Key())
}

// modeFor returns the file type and permission bits for a node kind
func modeFor(kind elfshelf.NodeKind) uint32 {
	switch kind {
	case elfshelf.FileNode:
		return syscall.S_IFREG | FilePerms
	default:
		return syscall.S_IFDIR | DirPerms
	}
}

// fillAttr copies a node snapshot into FUSE attributes. Directories report
// their size as of the last disk usage pass.
func fillAttr(info elfshelf.NodeInfo, ino uint64, mounted time.Time, out *fuse.Attr) {
	out.Ino = ino
	out.Mode = modeFor(info.Kind)
	out.Size = info.Cumulative
	out.Blksize = blockSize
	out.Blocks = (info.Cumulative + 511) / 512
	switch info.Kind {
	case elfshelf.FileNode:
		out.Nlink = 1
	case elfshelf.DirNode:
		out.Nlink = 2
	}
	out.SetTimes(&mounted, &mounted, &mounted)
}

// zeroRead returns how many zero bytes a read of length want at off yields
// for a file of size bytes
func zeroRead(size uint64, off int64, want int) int {
	if off < 0 || uint64(off) >= size {
		return 0
	}
	return int(min(uint64(want), size-uint64(off)))
}
