package shell

import (
	"fmt"
	"strings"
)

func cmdHelp() *command {
	cmd := &command{
		name:     "help",
		synopsis: "list commands or show one command's usage",
		usage:    "help [CMD]",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("help")
		if err := fs.Parse(args); err != nil {
			return ctx, cmd.usageErr(err)
		}
		rest := fs.Args()
		if len(rest) > 1 {
			return ctx, cmd.usageErrf("expected at most one command name, got %d", len(rest))
		}

		if len(rest) == 1 {
			target, ok := s.commands[rest[0]]
			if !ok {
				return ctx, fmt.Errorf("command not found: %s", rest[0])
			}
			fmt.Fprintf(s.out, "usage: %s\n", target.usage)
			if len(target.aliases) > 0 {
				fmt.Fprintf(s.out, "aliases: %s\n", strings.Join(target.aliases, ", "))
			}
			return ctx, nil
		}

		width := 0
		for _, name := range s.order {
			if len(name) > width {
				width = len(name)
			}
		}
		for _, name := range s.order {
			fmt.Fprintf(s.out, "%-*s  %s\n", width, name, s.commands[name].synopsis)
		}
		return ctx, nil
	}
	return cmd
}

func cmdQuit() *command {
	cmd := &command{
		name:     "quit",
		aliases:  []string{"exit"},
		synopsis: "leave the shell",
		usage:    "quit",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		return ctx, errQuit
	}
	return cmd
}
