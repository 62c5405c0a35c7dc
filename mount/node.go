package mount

import (
	"context"
	"syscall"
	"time"

	"github.com/brettbedarf/elfshelf"
	"github.com/brettbedarf/elfshelf/filesystem"
	"github.com/brettbedarf/elfshelf/internal/util"
	"github.com/brettbedarf/elfshelf/session"
	"github.com/hanwen/go-fuse/v2/fs"
	"github.com/hanwen/go-fuse/v2/fuse"
)

// view is the state shared by every node of one mount
type view struct {
	shared  *session.Shared
	inodes  *inodeTable
	mounted time.Time
}

// Node exposes one tree node to the kernel. Every callback reads the tree
// under the session lock, so the view follows changes made in the shell.
type Node struct {
	fs.Inode
	view *view
	id   filesystem.Identity
}

var (
	_ = fs.NodeLookuper(&Node{})
	_ = fs.NodeReaddirer(&Node{})
	_ = fs.NodeGetattrer(&Node{})
	_ = fs.NodeOpener(&Node{})
	_ = fs.NodeReader(&Node{})
)

func newRoot(shared *session.Shared) *Node {
	return &Node{
		view: &view{
			shared:  shared,
			inodes:  newInodeTable(),
			mounted: time.Now(),
		},
		id: filesystem.Root(),
	}
}

// info snapshots this node; false when it has been removed from the tree
func (n *Node) info() (elfshelf.NodeInfo, bool) {
	var (
		info elfshelf.NodeInfo
		ok   bool
	)
	_ = n.view.shared.Do(func(s *session.Session) error {
		info, ok = s.FS().Lookup(n.id)
		return nil
	})
	if !ok {
		n.view.inodes.forget(n.id)
	}
	return info, ok
}

// Lookup resolves a child by name, directories first
func (n *Node) Lookup(ctx context.Context, name string, out *fuse.EntryOut) (*fs.Inode, syscall.Errno) {
	logger := util.GetLogger("Mount.Lookup")

	var (
		child filesystem.Identity
		info  elfshelf.NodeInfo
		found bool
	)
	_ = n.view.shared.Do(func(s *session.Session) error {
		for _, kind := range []elfshelf.NodeKind{elfshelf.DirNode, elfshelf.FileNode} {
			id, err := n.id.Child(name, kind)
			if err != nil {
				return err
			}
			if info, found = s.FS().Lookup(id); found {
				child = id
				return nil
			}
		}
		return nil
	})
	if !found {
		logger.Trace().Str("parent", n.id.String()).Str("name", name).Msg("No such child")
		return nil, syscall.ENOENT
	}

	ino := n.view.inodes.ino(child)
	fillAttr(info, ino, n.view.mounted, &out.Attr)
	node := &Node{view: n.view, id: child}
	return n.NewInode(ctx, node, fs.StableAttr{Mode: modeFor(info.Kind), Ino: ino}), fs.OK
}

// Readdir lists children in name order
func (n *Node) Readdir(ctx context.Context) (fs.DirStream, syscall.Errno) {
	g := n.view.shared.Acquire()
	defer g.Close()

	children, err := g.FS().ChildrenOf(n.id)
	if err != nil {
		return nil, syscall.ENOENT
	}

	entries := make([]fuse.DirEntry, 0, len(children))
	for _, ch := range children {
		id, err := n.id.Child(ch.Name, ch.Kind)
		if err != nil {
			continue
		}
		entries = append(entries, fuse.DirEntry{
			Name: ch.Name,
			Mode: modeFor(ch.Kind),
			Ino:  n.view.inodes.ino(id),
		})
	}
	return fs.NewListDirStream(entries), fs.OK
}

func (n *Node) Getattr(ctx context.Context, f fs.FileHandle, out *fuse.AttrOut) syscall.Errno {
	info, ok := n.info()
	if !ok {
		return syscall.ENOENT
	}
	fillAttr(info, n.view.inodes.ino(n.id), n.view.mounted, &out.Attr)
	return fs.OK
}

// Open allows read-only access to files
func (n *Node) Open(ctx context.Context, flags uint32) (fs.FileHandle, uint32, syscall.Errno) {
	if flags&(syscall.O_WRONLY|syscall.O_RDWR|syscall.O_TRUNC|syscall.O_APPEND) != 0 {
		return nil, 0, syscall.EROFS
	}
	if _, ok := n.info(); !ok {
		return nil, 0, syscall.ENOENT
	}
	return nil, fuse.FOPEN_KEEP_CACHE, fs.OK
}

// Read yields zeros up to the file's size
func (n *Node) Read(ctx context.Context, f fs.FileHandle, dest []byte, off int64) (fuse.ReadResult, syscall.Errno) {
	info, ok := n.info()
	if !ok {
		return nil, syscall.ENOENT
	}
	cnt := zeroRead(info.Size, off, len(dest))
	clear(dest[:cnt])
	return fuse.ReadResultData(dest[:cnt]), fs.OK
}
