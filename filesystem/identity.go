package filesystem

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/brettbedarf/elfshelf"
)

// Delimiter separates segments in rendered paths
const Delimiter = "/"

// segmentPattern matches a single name segment. Anything else in free text
// (delimiters, whitespace, punctuation) splits segments.
var segmentPattern = regexp.MustCompile(`[.\w]+`)

// Identity is the canonical key of a tree node: the ordered name segments from
// root to the node plus its kind. Two identities are equal only when both the
// segments and the kind match, so a directory and a file with the same
// segments are distinct keys.
//
// The zero value is the root directory.
type Identity struct {
	segments []string
	kind     elfshelf.NodeKind
}

// Root returns the identity of the root directory
func Root() Identity {
	return Identity{kind: elfshelf.DirNode}
}

// NewIdentity builds an identity from already split segments, validating each name
func NewIdentity(kind elfshelf.NodeKind, segments ...string) (Identity, error) {
	for _, s := range segments {
		if err := validName(s); err != nil {
			return Identity{}, err
		}
	}
	return Identity{segments: slices.Clone(segments), kind: kind}, nil
}

// Parse extracts name segments from free text and returns a directory
// identity. Parsing is lenient: empty text or text without any segment
// characters yields the root. "." segments are dropped; any other run of
// segment characters, ".." included, is an ordinary name.
func Parse(text string) (Identity, error) {
	matches := segmentPattern.FindAllString(text, -1)
	segments := make([]string, 0, len(matches))
	for _, m := range matches {
		if m == "." {
			continue
		}
		if err := validName(m); err != nil {
			return Identity{}, fmt.Errorf("parse %q: %w", text, err)
		}
		segments = append(segments, m)
	}
	return Identity{segments: segments, kind: elfshelf.DirNode}, nil
}

// Join appends rel's segments to base. The result takes rel's kind.
func Join(base, rel Identity) Identity {
	segments := make([]string, 0, len(base.segments)+len(rel.segments))
	segments = append(segments, base.segments...)
	segments = append(segments, rel.segments...)
	return Identity{segments: segments, kind: rel.Kind()}
}

// Child returns the identity of a direct child named name
func (id Identity) Child(name string, kind elfshelf.NodeKind) (Identity, error) {
	if err := validName(name); err != nil {
		return Identity{}, err
	}
	segments := make([]string, len(id.segments), len(id.segments)+1)
	copy(segments, id.segments)
	return Identity{segments: append(segments, name), kind: kind}, nil
}

// Parent returns the containing directory. The root is its own parent.
func (id Identity) Parent() Identity {
	if len(id.segments) == 0 {
		return Root()
	}
	return Identity{segments: id.segments[:len(id.segments)-1:len(id.segments)-1], kind: elfshelf.DirNode}
}

// Name returns the last segment; "" for the root
func (id Identity) Name() string {
	if len(id.segments) == 0 {
		return ""
	}
	return id.segments[len(id.segments)-1]
}

// Segments returns a copy of the name segments
func (id Identity) Segments() []string {
	return slices.Clone(id.segments)
}

func (id Identity) Depth() int {
	return len(id.segments)
}

// Kind returns the identity's kind; the zero value is a directory
func (id Identity) Kind() elfshelf.NodeKind {
	if id.kind == "" {
		return elfshelf.DirNode
	}
	return id.kind
}

func (id Identity) IsRoot() bool {
	return len(id.segments) == 0 && id.Kind() == elfshelf.DirNode
}

// AsFile returns the file identity with the same segments
func (id Identity) AsFile() Identity {
	return Identity{segments: id.segments, kind: elfshelf.FileNode}
}

// AsDir returns the directory identity with the same segments
func (id Identity) AsDir() Identity {
	return Identity{segments: id.segments, kind: elfshelf.DirNode}
}

// Equal reports whether both segments and kind match
func (id Identity) Equal(other Identity) bool {
	return id.Kind() == other.Kind() && slices.Equal(id.segments, other.segments)
}

// Within reports whether id's segments equal or extend ancestor's segments
func (id Identity) Within(ancestor Identity) bool {
	if len(ancestor.segments) > len(id.segments) {
		return false
	}
	return slices.Equal(id.segments[:len(ancestor.segments)], ancestor.segments)
}

// Key is the arena map key for the identity
func (id Identity) Key() string {
	return string(id.Kind()) + ":" + id.String()
}

// String renders the root as "/", directories with a trailing delimiter
// ("/a/b/") and files without one ("/a/b").
func (id Identity) String() string {
	if len(id.segments) == 0 {
		return Delimiter
	}
	path := Delimiter + strings.Join(id.segments, Delimiter)
	if id.Kind() == elfshelf.DirNode {
		path += Delimiter
	}
	return path
}

func validName(name string) error {
	switch {
	case name == "", name == ".":
		return fmt.Errorf("name %q: %w", name, elfshelf.ErrInvalidPath)
	case segmentPattern.FindString(name) != name:
		return fmt.Errorf("name %q contains separators: %w", name, elfshelf.ErrInvalidPath)
	}
	return nil
}
