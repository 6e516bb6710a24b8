package shell

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/QuangTung97/zkcli"
)

// Context carries the state threaded through the dispatch loop: the
// current working path and the previous one, used by "cd -". Commands
// receive it and hand back a possibly-updated copy.
type Context struct {
	Dir  zkcli.Path
	Last zkcli.Path
}

// NewContext starts at the given absolute path, defaulting to the root.
func NewContext(dir string) Context {
	p := zkcli.NewPath(dir).Normalize()
	if !p.IsAbsolute() {
		p = zkcli.NewPath("/").Resolve(p).Normalize()
	}
	return Context{Dir: p, Last: p}
}

// Resolve interprets arg against the current working path.
func (c Context) Resolve(arg string) zkcli.Path {
	return c.Dir.Resolve(zkcli.NewPath(arg)).Normalize()
}

type handlerFunc func(s *Shell, ctx Context, args []string) (Context, error)

type command struct {
	name     string
	aliases  []string
	synopsis string
	usage    string
	run      handlerFunc
}

// usageError wraps an argument-parsing failure with the command's usage
// line. Detected before any network call and aborts just that command.
type usageError struct {
	cmd *command
	err error
}

func (e *usageError) Error() string {
	return fmt.Sprintf("%v\nusage: %s", e.err, e.cmd.usage)
}

func (e *usageError) Unwrap() error {
	return e.err
}

func (c *command) usageErr(err error) error {
	return &usageError{cmd: c, err: err}
}

func (c *command) usageErrf(format string, args ...any) error {
	return c.usageErr(fmt.Errorf(format, args...))
}

// fatal reports cross-cutting failures that must abort the whole
// command instead of being printed as a per-node line.
func fatal(err error) bool {
	return zkcli.IsSessionExpired(err) ||
		zkcli.IsConnectionLoss(err) ||
		zkcli.IsNoAuth(err)
}

// newFlags builds the per-command option grammar. Errors are reported
// through the dispatch loop, not printed by pflag itself.
func newFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	return fs
}
