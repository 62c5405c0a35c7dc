package filesystem

import (
	"cmp"
	"slices"

	"github.com/brettbedarf/elfshelf"
	"github.com/puzpuzpuz/xsync/v4"
)

// Node is a tagged variant over directories and files; id.Kind() is the tag.
// Directories use children, size (direct) and cumulative. Files use size only.
//
// NOTE: size fields of directories are owned by the aggregation pass
// ([FileSystem.Recompute]) and are stale after any mutation.
type Node struct {
	id         Identity
	parent     *Node                     // nil only for the root and detached nodes
	children   *xsync.Map[string, *Node] // child nodes by name; nil for files
	size       uint64                    // file size, or a directory's direct size
	cumulative uint64                    // directory subtree size
}

func newDirNode(id Identity) *Node {
	return &Node{
		id:       id.AsDir(),
		children: xsync.NewMap[string, *Node](),
	}
}

func newFileNode(id Identity, size uint64) *Node {
	return &Node{id: id.AsFile(), size: size}
}

// Identity returns the node's identity
func (n *Node) Identity() Identity {
	return n.id
}

func (n *Node) Kind() elfshelf.NodeKind {
	return n.id.Kind()
}

func (n *Node) Name() string {
	return n.id.Name()
}

func (n *Node) IsDir() bool {
	return n.Kind() == elfshelf.DirNode
}

// AddChild adds a child node to the node's children map
// and sets the child's parent to this node
func (n *Node) AddChild(child *Node) {
	n.children.Store(child.Name(), child)
	child.parent = n
}

// GetChild returns a direct child by name
func (n *Node) GetChild(name string) (child *Node, ok bool) {
	if n.children == nil {
		return nil, false
	}
	return n.children.Load(name)
}

// RemoveChild unlinks a direct child and clears its parent reference
func (n *Node) RemoveChild(name string) bool {
	if n.children == nil {
		return false
	}
	if child, exists := n.children.LoadAndDelete(name); exists {
		child.parent = nil
		return true
	}
	return false
}

// Children returns direct children sorted by name, directories first on a tie.
// Files have none.
func (n *Node) Children() []*Node {
	if n.children == nil {
		return nil
	}
	children := make([]*Node, 0, n.children.Size())
	n.children.Range(func(_ string, ch *Node) bool {
		children = append(children, ch)
		return true
	})
	slices.SortFunc(children, func(a, b *Node) int {
		return cmp.Or(cmp.Compare(a.Name(), b.Name()), cmp.Compare(a.Kind(), b.Kind()))
	})
	return children
}

// Info returns a read-only snapshot of the node
func (n *Node) Info() elfshelf.NodeInfo {
	info := elfshelf.NodeInfo{
		Path: n.id.String(),
		Name: n.Name(),
		Kind: n.Kind(),
		Size: n.size,
	}
	switch n.Kind() {
	case elfshelf.DirNode:
		info.Cumulative = n.cumulative
	case elfshelf.FileNode:
		info.Cumulative = n.size
	}
	return info
}
