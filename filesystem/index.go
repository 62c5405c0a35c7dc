package filesystem

import (
	radix "github.com/armon/go-radix"
)

// pathIndex keeps every rendered path in a radix tree for prefix completion
type pathIndex struct {
	tree *radix.Tree
}

func newPathIndex() *pathIndex {
	return &pathIndex{tree: radix.New()}
}

func (ix *pathIndex) insert(id Identity) {
	ix.tree.Insert(id.String(), id.Kind())
}

func (ix *pathIndex) remove(id Identity) {
	ix.tree.Delete(id.String())
}

// complete returns up to limit rendered paths starting with prefix in
// lexical order. A limit <= 0 means no limit.
func (ix *pathIndex) complete(prefix string, limit int) []string {
	var out []string
	ix.tree.WalkPrefix(prefix, func(path string, _ interface{}) bool {
		out = append(out, path)
		return limit > 0 && len(out) >= limit
	})
	return out
}

func (ix *pathIndex) len() int {
	return ix.tree.Len()
}
