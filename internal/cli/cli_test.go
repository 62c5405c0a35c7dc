package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brettbedarf/elfshelf/config"
	"github.com/brettbedarf/elfshelf/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScript = `mkdir a
fallocate b.txt 14848514
fallocate c.dat 8504156
mkdir d
cd a
mkdir e
fallocate f 29116
fallocate g 2557
fallocate h.lst 62596
cd e
fallocate i 584
cd /d
fallocate j 4060174
fallocate d.log 8033020
fallocate d.ext 5626152
fallocate k 7214296
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// execute runs the command line with args, returning stdout
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ELFSHELF_NON_INTERACTIVE", "1")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func TestRunCmd(t *testing.T) {
	path := writeFile(t, "sample.txt", sampleScript+"du\nrm /d\nexit\nmkdir never\n")

	out, err := execute(t, "", "run", path)
	require.NoError(t, err)

	assert.Contains(t, out, "New path created: /a/\n")
	assert.Contains(t, out, "Changing path to /d/\n")
	assert.Contains(t, out, "48381165\t/\n")
	assert.Contains(t, out, "Freed 24933642 bytes of space. 46552477 bytes remaining.\n")
	assert.NotContains(t, out, "/never")
}

func TestRunCmd_MissingScript(t *testing.T) {
	_, err := execute(t, "", "run", filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunCmd_Args(t *testing.T) {
	_, err := execute(t, "", "run")
	assert.Error(t, err)
}

func TestAnalyzeCmd(t *testing.T) {
	path := writeFile(t, "sample.txt", sampleScript)

	out, err := execute(t, "", "analyze", path)
	require.NoError(t, err)
	assert.Equal(t,
		"Directories under 100000 bytes total 95437 bytes\n"+
			"21618835 bytes available, 30000000 wanted, 8381165 more needed\n"+
			"Smallest directory to delete frees 24933642 bytes\n",
		out)

	out, err = execute(t, "", "--seed", path, "analyze", "--threshold", "1000")
	require.NoError(t, err)
	assert.Contains(t, out, "under 1000 bytes total 584 bytes")

	out, err = execute(t, "", "analyze", path, "--target", "0")
	require.NoError(t, err)
	assert.Contains(t, out, "under 100000 bytes total 95437 bytes")
	assert.Contains(t, out, "0 wanted, 0 more needed")
}

func TestAnalyzeCmd_NothingToAnalyze(t *testing.T) {
	_, err := execute(t, "", "analyze")
	assert.ErrorContains(t, err, "nothing to analyze")
}

func TestShellCmd_Piped(t *testing.T) {
	path := writeFile(t, "sample.txt", sampleScript)

	out, err := execute(t, "pwd\nls\n", "-s", path)
	require.NoError(t, err)
	assert.Equal(t, "/\na/  b.txt  c.dat  d/\n", out, "seeding prints nothing and ends at the root")

	out, err = execute(t, "mkdir x\n", "shell")
	require.NoError(t, err)
	assert.Equal(t, "New path created: /x/\n", out)
}

func TestConfigFile(t *testing.T) {
	path := writeFile(t, "config.yaml", "capacity: 1000\nsmall_threshold: 10\ntarget_free: 500\n")

	out, err := execute(t, "fallocate f 2000\n", "-c", path)
	require.NoError(t, err)
	assert.Equal(t, "Abort: Not enough space for /f: 2000 bytes needed, 1000 bytes available\n", out)

	out, err = execute(t, "fallocate f 2000\n", "-c", path, "--capacity", "5000")
	require.NoError(t, err)
	assert.Equal(t, "New file created: /f\n", out, "flags win over the file")
}

func TestConfigFile_Invalid(t *testing.T) {
	_, err := execute(t, "", "-c", writeFile(t, "config.toml", "capacity = 1"))
	assert.ErrorContains(t, err, "unknown config file extension")

	_, err = execute(t, "", "--capacity", "0")
	assert.ErrorContains(t, err, "capacity must be greater than zero")
}

func TestOptions_Renderer(t *testing.T) {
	opts := &options{cfg: config.NewConfig(nil)}
	var buf bytes.Buffer
	assert.IsType(t, shell.PlainRenderer{}, opts.renderer(&buf), "buffers are not terminals")

	opts.cfg.NoColor = true
	assert.IsType(t, shell.PlainRenderer{}, opts.renderer(os.Stdout))
}

func TestMountCmd_Args(t *testing.T) {
	_, err := execute(t, "", "mount")
	assert.Error(t, err)
}
