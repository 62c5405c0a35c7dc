// Package elfshelf contains the core domain types shared by the in-memory
// filesystem, the session contract and the command surface built on top of it.
package elfshelf

// NodeKind valid kinds are DirNode "dir", FileNode "file"
type NodeKind string

const (
	DirNode  NodeKind = "dir"
	FileNode NodeKind = "file"
)

// NodeInfo is a read-only snapshot of a single tree node handed to presentation
// layers. Cumulative is only meaningful for directories and only as fresh as
// the last disk usage pass.
type NodeInfo struct {
	Path       string   // Rendered identity i.e. "/a/b/" for dirs, "/a/b" for files
	Name       string   // Last path segment; "" for the root
	Kind       NodeKind // DirNode or FileNode
	Size       uint64   // File size, or a directory's direct size (immediate files only)
	Cumulative uint64   // Directory subtree size; equals Size for files
}

// IsDir reports whether the node is a directory
func (n NodeInfo) IsDir() bool {
	return n.Kind == DirNode
}
