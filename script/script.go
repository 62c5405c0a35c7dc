// Package script parses bulk-load scripts: plain text with one shell command
// per line.
package script

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/brettbedarf/elfshelf/internal/util"
)

// CommentPrefix marks a line that is skipped
const CommentPrefix = "#"

// tokenPattern matches command names, paths, sizes and flags like "-t"
var tokenPattern = regexp.MustCompile(`[./\w-]+`)

// Command is one parsed script line
type Command struct {
	Line int      // 1-based line number in the source
	Name string   // i.e. "mkdir"
	Args []string // remaining tokens
}

// String renders the command back into a single shell line
func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// ParseLine tokenizes a single line. ok is false for blank lines and comments.
func ParseLine(line string) (cmd Command, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, CommentPrefix) {
		return Command{}, false
	}
	tokens := tokenPattern.FindAllString(trimmed, -1)
	if len(tokens) == 0 {
		return Command{}, false
	}
	return Command{Name: tokens[0], Args: tokens[1:]}, true
}

// Parse reads every command from r
func Parse(r io.Reader) ([]Command, error) {
	logger := util.GetLogger("Script.Parse")

	var cmds []Command
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		cmd, ok := ParseLine(scanner.Text())
		if !ok {
			continue
		}
		cmd.Line = lineNo
		cmds = append(cmds, cmd)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script line %d: %w", lineNo+1, err)
	}

	logger.Debug().Int("lines", lineNo).Int("commands", len(cmds)).Msg("Parsed script")
	return cmds, nil
}

// ParseFile opens and parses the script at path
func ParseFile(path string) ([]Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open script file %s: %w", path, err)
	}
	defer f.Close()

	cmds, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cmds, nil
}
