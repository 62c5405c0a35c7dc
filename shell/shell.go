// Package shell is the command surface over a session: it parses command
// lines, dispatches them to the session and renders the results.
package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/brettbedarf/elfshelf/internal/util"
	"github.com/brettbedarf/elfshelf/script"
	"github.com/brettbedarf/elfshelf/session"
)

// Signal tells the loop owner what to do after a command
type Signal int

const (
	SignalNone Signal = iota
	SignalExit        // the user asked to leave; the loop owner decides how
)

// Shell-level errors. Core refusals come wrapped from the session.
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUsage          = errors.New("bad usage")
)

// Output is the rendered result of one command
type Output struct {
	Text   string
	Signal Signal
}

// Shell runs command lines against a session.
//
// NOTE: Shell is not safe for concurrent use; it mutates the session directly.
type Shell struct {
	sess *session.Session
	r    Renderer
}

func New(sess *session.Session, r Renderer) *Shell {
	if r == nil {
		r = PlainRenderer{}
	}
	return &Shell{sess: sess, r: r}
}

// Session returns the session commands run against
func (sh *Shell) Session() *session.Session {
	return sh.sess
}

// Prompt returns the prompt for the next line
func (sh *Shell) Prompt() string {
	return sh.r.Path(sh.sess.WorkingDirectory()) + " → "
}

// Exec runs one command line. A failed command still returns an Output
// carrying the message for the user alongside the error.
func (sh *Shell) Exec(line string) (Output, error) {
	cmd, ok := script.ParseLine(line)
	if !ok {
		return Output{}, nil
	}
	return sh.dispatch(cmd)
}

// Load replays parsed script commands through the same path as interactive
// input, then returns to the root. Failing commands are logged and skipped;
// the shell-level ones are returned joined.
func (sh *Shell) Load(cmds []script.Command) error {
	logger := util.GetLogger("Shell.Load")

	var errs []error
	for _, cmd := range cmds {
		out, err := sh.dispatch(cmd)
		switch {
		case err == nil:
		case session.IsUserError(err):
			logger.Info().Int("line", cmd.Line).Str("command", cmd.String()).Err(err).Msg("Command refused")
		default:
			logger.Warn().Int("line", cmd.Line).Str("command", cmd.String()).Err(err).Msg("Command failed")
			errs = append(errs, fmt.Errorf("line %d: %w", cmd.Line, err))
		}
		if out.Signal == SignalExit {
			logger.Debug().Int("line", cmd.Line).Msg("Exit in script; stopping")
			break
		}
	}
	if _, err := sh.sess.ChangeDirectory("/"); err != nil {
		errs = append(errs, err)
	}

	logger.Debug().Int("commands", len(cmds)).Int("errors", len(errs)).Msg("Script loaded")
	return errors.Join(errs...)
}

// Run reads lines from r until EOF or exit, writing each command's output
// to w. Errors are reported to the user and never stop the loop.
func (sh *Shell) Run(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out, _ := sh.Exec(scanner.Text())
		if out.Text != "" {
			if _, err := fmt.Fprintln(w, out.Text); err != nil {
				return err
			}
		}
		if out.Signal == SignalExit {
			return nil
		}
	}
	return scanner.Err()
}

func (sh *Shell) dispatch(cmd script.Command) (Output, error) {
	logger := util.GetLogger("Shell.Exec")
	logger.Debug().Str("command", cmd.Name).Strs("args", cmd.Args).Msg("Dispatching")

	c, ok := Lookup(cmd.Name)
	if !ok {
		err := fmt.Errorf("%q: %w", cmd.Name, ErrUnknownCommand)
		return sh.abort(fmt.Sprintf("Unknown command '%s'. Type help for a list of commands.", cmd.Name)), err
	}
	if len(cmd.Args) < c.MinArgs || len(cmd.Args) > c.MaxArgs {
		err := fmt.Errorf("%s takes %s: %w", c.Name, argRange(c), ErrUsage)
		return sh.abort("Usage: " + c.Usage), err
	}
	return c.Run(sh, cmd.Args)
}

func (sh *Shell) abort(msg string) Output {
	return Output{Text: sh.r.Abort(msg)}
}

func (sh *Shell) text(msg string) Output {
	return Output{Text: msg}
}

func argRange(c Command) string {
	switch {
	case c.MinArgs == c.MaxArgs:
		return fmt.Sprintf("%d argument(s)", c.MinArgs)
	default:
		return fmt.Sprintf("%d to %d arguments", c.MinArgs, c.MaxArgs)
	}
}
