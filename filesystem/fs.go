package filesystem

import (
	"errors"
	"fmt"

	"github.com/brettbedarf/elfshelf"
	"github.com/brettbedarf/elfshelf/internal/util"
	"github.com/puzpuzpuz/xsync/v4"
)

// FileSystem is an in-memory rooted tree of directories and files with quota
// accounting. Nodes live in an arena keyed by [Identity.Key]; parent/child
// links only ever connect a directory to nodes whose identity extends its own
// by one segment.
//
// NOTE: FileSystem is not safe for concurrent mutation. Wrap it (see
// session.Shared) when more than one goroutine needs access.
type FileSystem struct {
	root  *Node                     // Root of node tree
	nodes *xsync.Map[string, *Node] // arena of every live node by identity key
	quota *Quota
	index *pathIndex
	fresh bool // directory sizes match the tree; cleared by every mutation
}

// Removal describes a completed subtree removal
type Removal struct {
	Removed []Identity // deepest first; the removed target is last
	Freed   uint64     // total bytes of removed files
}

// Stats is a summary of the tree's contents
type Stats struct {
	Files   int
	Dirs    int
	Largest *elfshelf.NodeInfo // nil when there are no files
}

func NewFS(capacity uint64) *FileSystem {
	rootNode := newDirNode(Root())

	fs := FileSystem{
		root:  rootNode,
		nodes: xsync.NewMap[string, *Node](),
		quota: NewQuota(capacity),
		index: newPathIndex(),
		fresh: true,
	}
	fs.nodes.Store(rootNode.id.Key(), rootNode)
	fs.index.insert(rootNode.id)
	return &fs
}

// Root returns the root directory identity
func (fs *FileSystem) Root() Identity {
	return fs.root.id
}

func (fs *FileSystem) Capacity() uint64 {
	return fs.quota.Capacity()
}

func (fs *FileSystem) Used() uint64 {
	return fs.quota.Used()
}

func (fs *FileSystem) Available() uint64 {
	return fs.quota.Available()
}

// Len returns the number of nodes including the root
func (fs *FileSystem) Len() int {
	return fs.nodes.Size()
}

// Fresh reports whether directory sizes reflect the current tree
func (fs *FileSystem) Fresh() bool {
	return fs.fresh
}

// CreateDirectory adds an empty directory named name under parent.
// Fails with [elfshelf.ErrAlreadyExists] if a directory or file already
// occupies the resulting path and with [elfshelf.ErrNotFound] if parent is
// not an existing directory.
func (fs *FileSystem) CreateDirectory(parent Identity, name string) (Identity, error) {
	logger := util.GetLogger("FS.CreateDirectory")

	p, err := fs.parentDir(parent)
	if err != nil {
		return Identity{}, err
	}
	id, err := p.id.Child(name, elfshelf.DirNode)
	if err != nil {
		return Identity{}, err
	}
	if err := fs.checkVacant(id); err != nil {
		logger.Debug().Err(err).Str("path", id.String()).Msg("Refused to create directory")
		return Identity{}, err
	}

	fs.link(p, newDirNode(id))
	logger.Debug().Str("path", id.String()).Msg("Created directory")
	return id, nil
}

// CreateFile adds a file of size bytes named name under parent, charging the
// quota. All checks run before any mutation so a failure leaves the tree and
// quota untouched.
func (fs *FileSystem) CreateFile(parent Identity, name string, size uint64) (Identity, error) {
	logger := util.GetLogger("FS.CreateFile")

	p, err := fs.parentDir(parent)
	if err != nil {
		return Identity{}, err
	}
	id, err := p.id.Child(name, elfshelf.FileNode)
	if err != nil {
		return Identity{}, err
	}
	if err := fs.checkVacant(id); err != nil {
		logger.Debug().Err(err).Str("path", id.String()).Msg("Refused to create file")
		return Identity{}, err
	}
	if err := fs.quota.Reserve(size); err != nil {
		logger.Info().Err(err).Str("path", id.String()).Uint64("size", size).Msg("Refused to create file")
		return Identity{}, fmt.Errorf("create %s: %w", id, err)
	}

	fs.link(p, newFileNode(id, size))
	logger.Debug().Str("path", id.String()).Uint64("size", size).Msg("Created file")
	return id, nil
}

// Lookup returns a snapshot of the node with exactly this identity (kind included)
func (fs *FileSystem) Lookup(id Identity) (elfshelf.NodeInfo, bool) {
	if n, ok := fs.nodes.Load(id.Key()); ok {
		return n.Info(), true
	}
	return elfshelf.NodeInfo{}, false
}

// Exists reports whether a node with this identity is in the tree
func (fs *FileSystem) Exists(id Identity) bool {
	_, ok := fs.nodes.Load(id.Key())
	return ok
}

// Find looks up the directory at id's segments, then the file.
// Returns the identity that exists.
func (fs *FileSystem) Find(id Identity) (Identity, bool) {
	for _, candidate := range []Identity{id.AsDir(), id.AsFile()} {
		if fs.Exists(candidate) {
			return candidate, true
		}
	}
	return Identity{}, false
}

// ChildrenOf lists the direct children of a directory
func (fs *FileSystem) ChildrenOf(id Identity) ([]elfshelf.NodeInfo, error) {
	n, ok := fs.nodes.Load(id.AsDir().Key())
	if !ok {
		return nil, fmt.Errorf("directory %s: %w", id.AsDir(), elfshelf.ErrNotFound)
	}
	children := n.Children()
	infos := make([]elfshelf.NodeInfo, 0, len(children))
	for _, ch := range children {
		infos = append(infos, ch.Info())
	}
	return infos, nil
}

// RemoveSubtree removes the node with this identity and everything below it.
// The subtree is detached from its parent first, then torn down deepest
// first, releasing every file's bytes from the quota.
func (fs *FileSystem) RemoveSubtree(id Identity) (*Removal, error) {
	logger := util.GetLogger("FS.RemoveSubtree")

	if id.Depth() == 0 {
		return nil, fmt.Errorf("remove %s: %w", id, elfshelf.ErrRootRemovalForbidden)
	}
	target, ok := fs.nodes.Load(id.Key())
	if !ok {
		return nil, fmt.Errorf("remove %s: %w", id, elfshelf.ErrNotFound)
	}

	order := fs.bfs(target)
	target.parent.RemoveChild(target.Name())

	removal := &Removal{Removed: make([]Identity, 0, len(order))}
	for i := len(order) - 1; i >= 0; i-- {
		n := order[i]
		switch n.Kind() {
		case elfshelf.DirNode:
			for _, ch := range n.Children() {
				n.RemoveChild(ch.Name())
			}
		case elfshelf.FileNode:
			fs.quota.Release(n.size)
			removal.Freed += n.size
		}
		fs.nodes.Delete(n.id.Key())
		fs.index.remove(n.id)
		removal.Removed = append(removal.Removed, n.id)
	}
	fs.fresh = false

	logger.Debug().
		Str("path", id.String()).
		Int("nodes", len(removal.Removed)).
		Uint64("freed", removal.Freed).
		Msg("Removed subtree")
	return removal, nil
}

// Walk visits the subtree at from in pre-order (children sorted by name),
// passing each node's depth relative to from. Returning an error from fn
// stops the walk.
func (fs *FileSystem) Walk(from Identity, fn func(info elfshelf.NodeInfo, depth int) error) error {
	start, ok := fs.nodes.Load(from.Key())
	if !ok {
		return fmt.Errorf("walk %s: %w", from, elfshelf.ErrNotFound)
	}
	var visit func(n *Node, depth int) error
	visit = func(n *Node, depth int) error {
		if err := fn(n.Info(), depth); err != nil {
			return err
		}
		for _, ch := range n.Children() {
			if err := visit(ch, depth+1); err != nil {
				return err
			}
		}
		return nil
	}
	return visit(start, 0)
}

// Stats counts files and directories (root included) and finds the largest
// file; the first one in breadth-first order wins a tie.
func (fs *FileSystem) Stats() Stats {
	var st Stats
	for _, n := range fs.bfs(fs.root) {
		switch n.Kind() {
		case elfshelf.DirNode:
			st.Dirs++
		case elfshelf.FileNode:
			st.Files++
			if st.Largest == nil || n.size > st.Largest.Size {
				info := n.Info()
				st.Largest = &info
			}
		}
	}
	return st
}

// Complete returns up to limit rendered paths that start with prefix
func (fs *FileSystem) Complete(prefix string, limit int) []string {
	return fs.index.complete(prefix, limit)
}

// CheckInvariants verifies the structural and quota invariants of the tree
// and returns every violation found.
func (fs *FileSystem) CheckInvariants() error {
	var errs []error
	if fs.root.parent != nil || !fs.root.id.IsRoot() {
		errs = append(errs, errors.New("root is not a parentless directory with no segments"))
	}

	reachable := fs.bfs(fs.root)
	var fileBytes uint64
	for _, n := range reachable {
		if arena, ok := fs.nodes.Load(n.id.Key()); !ok || arena != n {
			errs = append(errs, fmt.Errorf("%s reachable but not in arena", n.id))
		}
		if n != fs.root {
			want, err := n.parent.id.Child(n.Name(), n.Kind())
			if err != nil || !want.Equal(n.id) {
				errs = append(errs, fmt.Errorf("%s does not extend parent %s", n.id, n.parent.id))
			}
		}
		switch n.Kind() {
		case elfshelf.DirNode:
			if _, clash := fs.nodes.Load(n.id.AsFile().Key()); clash {
				errs = append(errs, fmt.Errorf("%s shared by a directory and a file", n.id))
			}
		case elfshelf.FileNode:
			fileBytes += n.size
		}
	}
	if len(reachable) != fs.nodes.Size() {
		errs = append(errs, fmt.Errorf("%d nodes reachable, %d in arena", len(reachable), fs.nodes.Size()))
	}
	if fileBytes != fs.quota.Used() {
		errs = append(errs, fmt.Errorf("files hold %d bytes, quota used %d", fileBytes, fs.quota.Used()))
	}
	if fs.quota.Used()+fs.quota.Available() != fs.quota.Capacity() {
		errs = append(errs, errors.New("used + available != capacity"))
	}
	return errors.Join(errs...)
}

// parentDir resolves parent to a live directory node
func (fs *FileSystem) parentDir(parent Identity) (*Node, error) {
	p, ok := fs.nodes.Load(parent.AsDir().Key())
	if !ok {
		return nil, fmt.Errorf("parent %s: %w", parent.AsDir(), elfshelf.ErrNotFound)
	}
	return p, nil
}

// checkVacant fails if any node, of either kind, occupies id's segments
func (fs *FileSystem) checkVacant(id Identity) error {
	if existing, ok := fs.Find(id); ok {
		return fmt.Errorf("%s: %w", existing, elfshelf.ErrAlreadyExists)
	}
	return nil
}

func (fs *FileSystem) link(parent, child *Node) {
	parent.AddChild(child)
	fs.nodes.Store(child.id.Key(), child)
	fs.index.insert(child.id)
	fs.fresh = false
}

// bfs returns the subtree at from in breadth-first order, children sorted
func (fs *FileSystem) bfs(from *Node) []*Node {
	order := []*Node{from}
	for i := 0; i < len(order); i++ {
		order = append(order, order[i].Children()...)
	}
	return order
}
