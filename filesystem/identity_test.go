package filesystem

import (
	"testing"

	"github.com/brettbedarf/elfshelf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		text     string
		segments []string
	}{
		{"empty", "", nil},
		{"root", "/", nil},
		{"only separators", " // - ", nil},
		{"absolute", "/a/b", []string{"a", "b"}},
		{"trailing delimiter", "/a/b/", []string{"a", "b"}},
		{"relative", "a/b", []string{"a", "b"}},
		{"doubled delimiters", "//a///b", []string{"a", "b"}},
		{"dotted names", "/x.txt/.hidden", []string{"x.txt", ".hidden"}},
		{"dot dropped", "/a/./b", []string{"a", "b"}},
		{"punctuation splits", "a,b c", []string{"a", "b", "c"}},
		{"leading dots kept", "..foo", []string{"..foo"}},
		{"parent token is a name", "/a/../b", []string{"a", "..", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, err := Parse(tt.text)
			require.NoError(t, err)
			assert.Equal(t, elfshelf.DirNode, id.Kind())
			assert.Equal(t, len(tt.segments), id.Depth())
			if tt.segments != nil {
				assert.Equal(t, tt.segments, id.Segments())
			}
		})
	}
}

func TestIdentity_ParentTokenName(t *testing.T) {
	t.Parallel()

	id, err := Root().Child("..", elfshelf.DirNode)
	require.NoError(t, err)
	assert.Equal(t, "/../", id.String())
}

func TestIdentity_String(t *testing.T) {
	t.Parallel()

	dir, err := NewIdentity(elfshelf.DirNode, "a", "b")
	require.NoError(t, err)
	file := dir.AsFile()

	assert.Equal(t, "/", Root().String())
	assert.Equal(t, "/", Identity{}.String(), "zero value is the root")
	assert.Equal(t, "/a/b/", dir.String())
	assert.Equal(t, "/a/b", file.String())
}

func TestIdentity_Equality(t *testing.T) {
	t.Parallel()

	dir, err := NewIdentity(elfshelf.DirNode, "a")
	require.NoError(t, err)

	t.Run("kind distinguishes", func(t *testing.T) {
		assert.False(t, dir.Equal(dir.AsFile()))
		assert.NotEqual(t, dir.Key(), dir.AsFile().Key())
	})

	t.Run("same segments and kind", func(t *testing.T) {
		other := mustParse(t, "/a/")
		assert.True(t, dir.Equal(other))
		assert.Equal(t, dir.Key(), other.Key())
	})

	t.Run("root file key differs from root", func(t *testing.T) {
		assert.NotEqual(t, Root().Key(), Root().AsFile().Key())
		assert.False(t, Root().AsFile().IsRoot())
	})
}

func TestIdentity_ChildAndParent(t *testing.T) {
	t.Parallel()

	a, err := Root().Child("a", elfshelf.DirNode)
	require.NoError(t, err)
	f, err := a.Child("f", elfshelf.FileNode)
	require.NoError(t, err)

	assert.Equal(t, "/a/f", f.String())
	assert.Equal(t, "f", f.Name())
	assert.True(t, f.Parent().Equal(a))
	assert.True(t, a.Parent().IsRoot())
	assert.True(t, Root().Parent().IsRoot())
	assert.Equal(t, "", Root().Name())

	// Child must not alias the parent's segments
	b, err := a.Child("b", elfshelf.DirNode)
	require.NoError(t, err)
	c, err := a.Child("c", elfshelf.DirNode)
	require.NoError(t, err)
	assert.Equal(t, "/a/b/", b.String())
	assert.Equal(t, "/a/c/", c.String())
}

func TestIdentity_InvalidNames(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"", ".", "a/b", "a b"} {
		t.Run(name, func(t *testing.T) {
			_, err := Root().Child(name, elfshelf.FileNode)
			assert.ErrorIs(t, err, elfshelf.ErrInvalidPath)

			_, err = NewIdentity(elfshelf.DirNode, "ok", name)
			assert.ErrorIs(t, err, elfshelf.ErrInvalidPath)
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	base := mustParse(t, "/a/b")
	rel := mustParse(t, "c").AsFile()

	joined := Join(base, rel)
	assert.Equal(t, "/a/b/c", joined.String())
	assert.Equal(t, elfshelf.FileNode, joined.Kind())
	assert.True(t, Join(Root(), Root()).IsRoot())
}

func TestIdentity_Within(t *testing.T) {
	t.Parallel()

	a := mustParse(t, "/a")
	assert.True(t, mustParse(t, "/a/b/c").Within(a))
	assert.True(t, a.Within(a))
	assert.True(t, a.Within(Root()))
	assert.False(t, mustParse(t, "/ab").Within(a))
	assert.False(t, Root().Within(a))
}
