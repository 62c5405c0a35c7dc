package tui

import (
	"testing"
	"time"

	"github.com/brettbedarf/elfshelf/config"
	"github.com/brettbedarf/elfshelf/session"
	"github.com/brettbedarf/elfshelf/shell"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(shell.New(session.New(config.NewConfig(nil)), nil))
	m.now = func() time.Time { return time.Date(2022, 12, 7, 0, 0, 0, 0, time.UTC) }
	m.refresh()
	return m
}

// typeLine sends text followed by enter
func typeLine(t *testing.T, m Model, text string) (Model, tea.Cmd) {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func TestModel_Submit(t *testing.T) {
	t.Parallel()

	m := createTestModel(t)

	m, cmd := typeLine(t, m, "mkdir a")
	assert.NotNil(t, cmd)
	assert.Equal(t, "New path created: /a/", m.Last().Text)
	assert.Empty(t, m.input.Value(), "input is cleared after submit")

	m, _ = typeLine(t, m, "cd a")
	assert.Equal(t, "/a/", m.sh.Session().WorkingDirectory().String())
	assert.Contains(t, m.input.Prompt, "2022-12-07")
	assert.Contains(t, m.input.Prompt, "/a/ →")
	assert.False(t, m.Quitting())
}

func TestModel_Exit(t *testing.T) {
	t.Parallel()

	m, cmd := typeLine(t, createTestModel(t), "exit")
	assert.True(t, m.Quitting())
	assert.NotNil(t, cmd)
	assert.Empty(t, m.View())
}

func TestModel_QuitKey(t *testing.T) {
	t.Parallel()

	next, cmd := createTestModel(t).Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, next.(Model).Quitting())
}

func TestModel_ClearKey(t *testing.T) {
	t.Parallel()

	next, _ := createTestModel(t).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("mkd")})
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Empty(t, next.(Model).input.Value())
}

func TestSuggestions(t *testing.T) {
	t.Parallel()

	m := createTestModel(t)
	m, _ = typeLine(t, m, "mkdir alpha")
	m, _ = typeLine(t, m, "mkdir beta")
	m, _ = typeLine(t, m, "fallocate alpha/f 1")

	assert.Equal(t, shell.Names(), suggestions(m.sh, "mk"), "command names before the first space")
	assert.Equal(t, []string{"cd alpha/", "cd alpha/f"}, suggestions(m.sh, "cd al"))
	assert.Equal(t, []string{"ls /beta/"}, suggestions(m.sh, "ls /b"))
	assert.Nil(t, suggestions(m.sh, "bogus /"))
	assert.Nil(t, suggestions(m.sh, "fallocate alpha/g 1"), "only the first argument completes")
}
