package filesystem

import (
	"strings"
)

const parentRef = ".."

// Resolve turns user supplied path text into a directory identity relative
// to cwd. It never consults the tree, so the result may not exist.
//
//   - empty or blank text resolves to cwd
//   - "/" resolves to the root
//   - absolute text is parsed as is
//   - text starting with ".." is cwd's parent; the root is its own parent.
//     Whatever follows the ".." is ignored.
//   - anything else is joined onto cwd
//
// Callers wanting a file use [Identity.AsFile] on the result.
func Resolve(text string, cwd Identity) (Identity, error) {
	text = strings.TrimSpace(text)
	cwd = cwd.AsDir()

	switch {
	case text == "":
		return cwd, nil
	case text == Delimiter:
		return Root(), nil
	case strings.HasPrefix(text, Delimiter):
		return Parse(text)
	case strings.HasPrefix(text, parentRef):
		return cwd.Parent(), nil
	}

	rel, err := Parse(text)
	if err != nil {
		return Identity{}, err
	}
	return Join(cwd, rel), nil
}
