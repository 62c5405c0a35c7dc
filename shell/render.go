package shell

import (
	"fmt"
	"strings"

	"github.com/brettbedarf/elfshelf"
	"github.com/brettbedarf/elfshelf/filesystem"
	"github.com/brettbedarf/elfshelf/session"
)

// Renderer turns command results into text. The session never formats
// anything itself.
type Renderer interface {
	Path(id filesystem.Identity) string
	Abort(msg string) string
	Created(id filesystem.Identity) string
	Listing(l *session.Listing) string
	Removal(r *filesystem.Removal, available uint64) string
	Usage(u *filesystem.Usage) string
	UsageTree(rows []TreeRow) string
	Help(o *session.Overview, cmds []Command) string
	Analysis(a *session.Analysis) string
}

// TreeRow is one node of a pre-order walk with its depth below the root
type TreeRow struct {
	Info  elfshelf.NodeInfo
	Depth int
}

// PlainRenderer renders unstyled text for scripts, pipes and tests
type PlainRenderer struct{}

var _ Renderer = PlainRenderer{}

func (PlainRenderer) Path(id filesystem.Identity) string {
	return id.String()
}

func (PlainRenderer) Abort(msg string) string {
	return "Abort: " + msg
}

func (PlainRenderer) Created(id filesystem.Identity) string {
	return createdMessage(id, id.String())
}

func (PlainRenderer) Listing(l *session.Listing) string {
	names := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		names[i] = entryName(e)
	}
	return strings.Join(names, "  ")
}

func (PlainRenderer) Removal(r *filesystem.Removal, available uint64) string {
	var b strings.Builder
	for _, id := range r.Removed {
		fmt.Fprintf(&b, "Removed %s\n", id)
	}
	b.WriteString(freedMessage(r.Freed, available))
	return b.String()
}

func (PlainRenderer) Usage(u *filesystem.Usage) string {
	entries := u.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%d\t%s", e.Cumulative, e.Path)
	}
	return strings.Join(lines, "\n")
}

func (PlainRenderer) UsageTree(rows []TreeRow) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		name := entryName(row.Info)
		if row.Depth == 0 {
			name = row.Info.Path
		}
		lines[i] = fmt.Sprintf("%s%d\t%s", strings.Repeat("  ", row.Depth), row.Info.Cumulative, name)
	}
	return strings.Join(lines, "\n")
}

func (PlainRenderer) Help(o *session.Overview, cmds []Command) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s\n", o.ID)
	fmt.Fprintf(&b, "Current path: %s\n", o.Cwd)
	fmt.Fprintf(&b, "Paths: %d  Files: %d\n", o.Dirs, o.Files)
	if o.Largest != nil {
		fmt.Fprintf(&b, "Largest file: %s (%d bytes)\n", o.Largest.Path, o.Largest.Size)
	}
	fmt.Fprintf(&b, "Disk: %d used, %d available of %d\n", o.Used, o.Available, o.Capacity)
	b.WriteString("Commands:\n")
	for _, c := range cmds {
		fmt.Fprintf(&b, "  %-30s %s\n", c.Usage, c.Summary)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (PlainRenderer) Analysis(a *session.Analysis) string {
	lines := []string{
		fmt.Sprintf("Directories under %d bytes total %d bytes", a.Threshold, a.SmallTotal),
		fmt.Sprintf("%d bytes available, %d wanted, %d more needed", a.Usage.Available, a.TargetFree, a.Needed),
	}
	if a.SmallestExists {
		lines = append(lines, fmt.Sprintf("Smallest directory to delete frees %d bytes", a.Smallest))
	} else {
		lines = append(lines, "No single directory frees enough space")
	}
	return strings.Join(lines, "\n")
}

func createdMessage(id filesystem.Identity, rendered string) string {
	switch id.Kind() {
	case elfshelf.FileNode:
		return "New file created: " + rendered
	default:
		return "New path created: " + rendered
	}
}

func freedMessage(freed, available uint64) string {
	return fmt.Sprintf("Freed %d bytes of space. %d bytes remaining.", freed, available)
}

// entryName is the display name; directories keep a trailing delimiter
func entryName(info elfshelf.NodeInfo) string {
	if info.IsDir() {
		return info.Name + filesystem.Delimiter
	}
	return info.Name
}
