package filesystem

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const testCapacity = 70_000_000

// mustParse parses an absolute path into a directory identity
func mustParse(t *testing.T, path string) Identity {
	t.Helper()
	id, err := Parse(path)
	require.NoError(t, err)
	return id
}

func createDir(t *testing.T, fs *FileSystem, parent, name string) Identity {
	t.Helper()
	id, err := fs.CreateDirectory(mustParse(t, parent), name)
	require.NoError(t, err)
	return id
}

func createFile(t *testing.T, fs *FileSystem, parent, name string, size uint64) Identity {
	t.Helper()
	id, err := fs.CreateFile(mustParse(t, parent), name, size)
	require.NoError(t, err)
	return id
}

// createSampleTree builds the puzzle sample:
//
//	/ a/ e/ i
//	     f g h.lst
//	  b.txt c.dat
//	  d/ j d.log d.ext k
func createSampleTree(t *testing.T) *FileSystem {
	t.Helper()
	fs := NewFS(testCapacity)
	createDir(t, fs, "/", "a")
	createFile(t, fs, "/", "b.txt", 14848514)
	createFile(t, fs, "/", "c.dat", 8504156)
	createDir(t, fs, "/", "d")
	createDir(t, fs, "/a", "e")
	createFile(t, fs, "/a", "f", 29116)
	createFile(t, fs, "/a", "g", 2557)
	createFile(t, fs, "/a", "h.lst", 62596)
	createFile(t, fs, "/a/e", "i", 584)
	createFile(t, fs, "/d", "j", 4060174)
	createFile(t, fs, "/d", "d.log", 8033020)
	createFile(t, fs, "/d", "d.ext", 5626152)
	createFile(t, fs, "/d", "k", 7214296)
	require.NoError(t, fs.CheckInvariants())
	return fs
}
