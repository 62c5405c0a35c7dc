// Package tui runs the interactive shell as a bubbletea program with path
// completion.
package tui

import (
	"strings"
	"time"

	"github.com/brettbedarf/elfshelf/internal/util"
	"github.com/brettbedarf/elfshelf/shell"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// maxSuggestions bounds path completions offered per keystroke
const maxSuggestions = 50

// Model is the bubbletea model of the interactive shell. Command output is
// printed above the prompt so it stays in the terminal's scrollback.
type Model struct {
	sh       *shell.Shell
	input    textinput.Model
	keys     KeyMap
	last     shell.Output // most recent command output
	quitting bool
	now      func() time.Time
}

// NewModel creates a focused prompt over sh
func NewModel(sh *shell.Shell) Model {
	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 80
	ti.ShowSuggestions = true
	ti.CompletionStyle = SuggestionStyle
	ti.Focus()

	m := Model{
		sh:    sh,
		input: ti,
		keys:  DefaultKeyMap(),
		now:   time.Now,
	}
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Sequence(tea.Println(welcome()), textinput.Blink)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Clear):
			m.input.Reset()
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.refresh()
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	return m.input.View() + "\n" + HelpStyle.Render("tab complete • enter run • ctrl+c quit")
}

// Last returns the output of the most recent command
func (m Model) Last() shell.Output {
	return m.last
}

// Quitting reports whether the program is shutting down
func (m Model) Quitting() bool {
	return m.quitting
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	logger := util.GetLogger("TUI.Submit")

	line := m.input.Value()
	echo := m.input.Prompt + line
	m.input.Reset()

	out, err := m.sh.Exec(line)
	if err != nil {
		logger.Debug().Err(err).Str("line", line).Msg("Command failed")
	}
	m.last = out
	m.refresh()

	printed := []tea.Cmd{tea.Println(echo)}
	if out.Text != "" {
		printed = append(printed, tea.Println(out.Text))
	}
	if out.Signal == shell.SignalExit {
		m.quitting = true
		printed = append(printed, tea.Quit)
	}
	return m, tea.Sequence(printed...)
}

// refresh updates the prompt and completions for the current input
func (m *Model) refresh() {
	m.input.Prompt = strings.Join([]string{
		SuggestionStyle.Render(m.now().Format(time.DateOnly)),
		PromptStyle.Render(m.sh.Prompt()),
	}, " ")
	m.input.SetSuggestions(suggestions(m.sh, m.input.Value()))
}

// suggestions completes the command name, or the path argument once a
// command has been typed
func suggestions(sh *shell.Shell, value string) []string {
	name, arg, hasArg := strings.Cut(value, " ")
	if !hasArg {
		return shell.Names()
	}
	if _, ok := shell.Lookup(name); !ok || strings.Contains(arg, " ") {
		return nil
	}
	completions := sh.Session().Complete(arg, maxSuggestions)
	out := make([]string, len(completions))
	for i, c := range completions {
		out[i] = name + " " + c
	}
	return out
}

func welcome() string {
	return TitleStyle.Render(SymbolTree+" Welcome to the elves' shelf "+SymbolTree) + "\n" +
		SubtitleStyle.Render("Type help to get started.")
}

// Run starts the interactive program and blocks until the user quits
func Run(sh *shell.Shell) error {
	_, err := tea.NewProgram(NewModel(sh)).Run()
	return err
}
