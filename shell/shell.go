package shell

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/chzyer/readline"

	"github.com/QuangTung97/zkcli"
)

// errQuit terminates the loop without a message.
var errQuit = errors.New("quit")

// Shell dispatches lines against the verb registry. It is
// single-threaded: one command runs to completion before the next line
// is read.
type Shell struct {
	client *zkcli.Client

	out    io.Writer
	errOut io.Writer

	commands map[string]*command
	order    []string
}

// Option configures a Shell.
type Option func(s *Shell)

// WithOutput redirects normal command output.
func WithOutput(w io.Writer) Option {
	return func(s *Shell) {
		s.out = w
	}
}

// WithErrOutput redirects error lines.
func WithErrOutput(w io.Writer) Option {
	return func(s *Shell) {
		s.errOut = w
	}
}

// New builds a shell over the given client.
func New(client *zkcli.Client, options ...Option) *Shell {
	s := &Shell{
		client:   client,
		out:      os.Stdout,
		errOut:   os.Stderr,
		commands: map[string]*command{},
	}
	for _, option := range options {
		option(s)
	}

	for _, cmd := range []*command{
		cmdCD(), cmdPWD(), cmdLS(), cmdGet(), cmdSet(), cmdStat(),
		cmdGetACL(), cmdSetACL(), cmdMK(), cmdRM(), cmdFind(),
		cmdConfig(), cmdHelp(), cmdQuit(),
	} {
		s.register(cmd)
	}
	return s
}

func (s *Shell) register(cmd *command) {
	s.commands[cmd.name] = cmd
	for _, alias := range cmd.aliases {
		s.commands[alias] = cmd
	}
	s.order = append(s.order, cmd.name)
	sort.Strings(s.order)
}

// Eval tokenizes and dispatches a single line. Unknown commands leave the
// context unchanged. The returned error is the command's own failure; the
// caller decides whether it ends the loop.
func (s *Shell) Eval(ctx Context, line string) (Context, error) {
	tokens, err := Tokenize(line)
	if err != nil {
		return ctx, err
	}
	if len(tokens) == 0 {
		return ctx, nil
	}

	cmd, ok := s.commands[tokens[0]]
	if !ok {
		return ctx, fmt.Errorf("command not found: %s", tokens[0])
	}
	return cmd.run(s, ctx, tokens[1:])
}

// report prints err and decides whether the loop must stop. Connection
// loss and per-command failures keep the shell alive; session expiry is
// terminal since ephemeral state tied to the session is gone.
func (s *Shell) report(err error) (stop bool) {
	if err == nil {
		return false
	}
	if errors.Is(err, errQuit) {
		return true
	}
	if zkcli.IsSessionExpired(err) {
		fmt.Fprintln(s.errOut, "session has expired; restart the program to reconnect")
		return true
	}
	fmt.Fprintln(s.errOut, zkcli.Render(err))
	return false
}

// RunScript evaluates lines from r until EOF or a terminal condition.
func (s *Shell) RunScript(ctx Context, r io.Reader) (Context, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		next, err := s.Eval(ctx, scanner.Text())
		ctx = next
		if s.report(err) {
			return ctx, nil
		}
	}
	return ctx, scanner.Err()
}

// RunLine evaluates one command line, as given by --command.
func (s *Shell) RunLine(ctx Context, line string) (Context, error) {
	next, err := s.Eval(ctx, line)
	ctx = next
	if err != nil && !errors.Is(err, errQuit) {
		return ctx, err
	}
	return ctx, nil
}

func prompt(ctx Context) string {
	return fmt.Sprintf("zk:%s> ", ctx.Dir.String())
}

// RunInteractive reads lines with editing, history and tab completion
// until EOF or a terminal condition.
func (s *Shell) RunInteractive(ctx Context) (Context, error) {
	cur := &ctx

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt(ctx),
		AutoComplete:    &completer{shell: s, ctx: cur},
		InterruptPrompt: "^C",
		EOFPrompt:       "",
	})
	if err != nil {
		return ctx, err
	}
	defer func() {
		_ = rl.Close()
	}()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			// EOF
			return *cur, nil
		}

		next, evalErr := s.Eval(*cur, line)
		*cur = next
		if s.report(evalErr) {
			return *cur, nil
		}
		rl.SetPrompt(prompt(*cur))
	}
}
