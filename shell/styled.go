package shell

import (
	"fmt"
	"strings"

	"github.com/brettbedarf/elfshelf"
	"github.com/brettbedarf/elfshelf/filesystem"
	"github.com/brettbedarf/elfshelf/session"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/lipgloss/tree"
	"github.com/dustin/go-humanize"
)

// Color palette
var (
	ColorDir   = lipgloss.Color("39")  // Blue
	ColorFile  = lipgloss.Color("196") // Red
	ColorOK    = lipgloss.Color("34")  // Green
	ColorMuted = lipgloss.Color("240") // Dark gray
	ColorTitle = lipgloss.Color("214") // Orange
)

// StyledRenderer renders colored output for a terminal: directories blue,
// files red, du -t as a tree and help as a table.
type StyledRenderer struct {
	Dir   lipgloss.Style
	File  lipgloss.Style
	Err   lipgloss.Style
	OK    lipgloss.Style
	Muted lipgloss.Style
	Title lipgloss.Style
}

var _ Renderer = (*StyledRenderer)(nil)

func NewStyledRenderer() *StyledRenderer {
	return &StyledRenderer{
		Dir:   lipgloss.NewStyle().Foreground(ColorDir),
		File:  lipgloss.NewStyle().Foreground(ColorFile),
		Err:   lipgloss.NewStyle().Foreground(ColorFile).Bold(true),
		OK:    lipgloss.NewStyle().Foreground(ColorOK),
		Muted: lipgloss.NewStyle().Foreground(ColorMuted),
		Title: lipgloss.NewStyle().Foreground(ColorTitle).Bold(true),
	}
}

func (s *StyledRenderer) Path(id filesystem.Identity) string {
	return s.styleFor(id.Kind()).Render(id.String())
}

func (s *StyledRenderer) Abort(msg string) string {
	return s.Err.Render("Abort:") + " " + msg
}

func (s *StyledRenderer) Created(id filesystem.Identity) string {
	return s.OK.Render(createdMessage(id, "")) + s.Path(id)
}

func (s *StyledRenderer) Listing(l *session.Listing) string {
	names := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		names[i] = s.styleFor(e.Kind).Render(entryName(e))
	}
	return strings.Join(names, "  ")
}

func (s *StyledRenderer) Removal(r *filesystem.Removal, available uint64) string {
	var b strings.Builder
	for _, id := range r.Removed {
		b.WriteString(s.Muted.Render("Removed ") + s.Path(id) + "\n")
	}
	b.WriteString(s.OK.Render(freedMessage(r.Freed, available)))
	return b.String()
}

func (s *StyledRenderer) Usage(u *filesystem.Usage) string {
	entries := u.Entries()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = fmt.Sprintf("%d\t%s", e.Cumulative, s.styleFor(e.Kind).Render(e.Path))
	}
	return strings.Join(lines, "\n")
}

// UsageTree nests pre-order rows into a lipgloss tree
func (s *StyledRenderer) UsageTree(rows []TreeRow) string {
	if len(rows) == 0 {
		return ""
	}

	var (
		root  *tree.Tree
		stack []*tree.Tree // open directories by depth
	)
	for _, row := range rows {
		name := entryName(row.Info)
		if row.Depth == 0 {
			name = row.Info.Path
		}
		label := fmt.Sprintf("%d\t%s", row.Info.Cumulative, s.styleFor(row.Info.Kind).Render(name))

		switch row.Info.Kind {
		case elfshelf.DirNode:
			node := tree.Root(label)
			if row.Depth == 0 {
				root = node
			} else {
				stack[row.Depth-1].Child(node)
			}
			stack = append(stack[:row.Depth], node)
		case elfshelf.FileNode:
			if row.Depth == 0 {
				continue
			}
			stack[row.Depth-1].Child(label)
		}
	}
	if root == nil {
		return ""
	}
	return root.Enumerator(tree.RoundedEnumerator).EnumeratorStyle(s.Dir).String()
}

func (s *StyledRenderer) Help(o *session.Overview, cmds []Command) string {
	var b strings.Builder
	b.WriteString(s.Title.Render("Welcome to the elves' shelf") + "\n")
	b.WriteString(s.Muted.Render("session "+o.ID.String()) + "\n\n")

	summary := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Muted).
		Rows(
			[]string{"Current path", s.Dir.Render(o.Cwd)},
			[]string{"Paths", humanize.Comma(int64(o.Dirs))},
			[]string{"Files", humanize.Comma(int64(o.Files))},
			[]string{"Largest file", s.largest(o.Largest)},
			[]string{"Used", humanize.Bytes(o.Used)},
			[]string{"Available", humanize.Bytes(o.Available)},
			[]string{"Capacity", humanize.Bytes(o.Capacity)},
		)
	b.WriteString(summary.String() + "\n")

	if len(o.Children) > 0 {
		cwd := tree.Root(s.Dir.Render(o.Cwd))
		for _, ch := range o.Children {
			cwd.Child(s.styleFor(ch.Kind).Render(entryName(ch)))
		}
		b.WriteString(cwd.EnumeratorStyle(s.Dir).String() + "\n")
	}

	rows := make([][]string, len(cmds))
	for i, c := range cmds {
		rows[i] = []string{c.Usage, c.Summary}
	}
	commands := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Muted).
		Headers("Command", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.Title.Padding(0, 1)
			case col == 0:
				return s.Dir.Padding(0, 1)
			default:
				return lipgloss.NewStyle().Padding(0, 1)
			}
		})
	b.WriteString(commands.String())
	return b.String()
}

func (s *StyledRenderer) Analysis(a *session.Analysis) string {
	smallest := s.Err.Render("none")
	if a.SmallestExists {
		smallest = fmt.Sprintf("%d (%s)", a.Smallest, humanize.Bytes(a.Smallest))
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Muted).
		Headers("Analysis", "Bytes").
		Rows(
			[]string{fmt.Sprintf("Directories under %s", humanize.Bytes(a.Threshold)), fmt.Sprintf("%d", a.SmallTotal)},
			[]string{"Available", fmt.Sprintf("%d", a.Usage.Available)},
			[]string{fmt.Sprintf("Needed for %s free", humanize.Bytes(a.TargetFree)), fmt.Sprintf("%d", a.Needed)},
			[]string{"Smallest directory to delete", smallest},
		).
		String()
}

func (s *StyledRenderer) largest(info *elfshelf.NodeInfo) string {
	if info == nil {
		return s.Muted.Render("none")
	}
	return fmt.Sprintf("%s (%s)", s.File.Render(info.Path), humanize.Bytes(info.Size))
}

func (s *StyledRenderer) styleFor(kind elfshelf.NodeKind) lipgloss.Style {
	switch kind {
	case elfshelf.FileNode:
		return s.File
	default:
		return s.Dir
	}
}
