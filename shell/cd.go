package shell

import "fmt"

func cmdCD() *command {
	cmd := &command{
		name:     "cd",
		synopsis: "change the working path",
		usage:    "cd [--check] [PATH|-]",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("cd")
		check := fs.Bool("check", false, "fail unless the target exists")
		if err := fs.Parse(args); err != nil {
			return ctx, cmd.usageErr(err)
		}
		rest := fs.Args()
		if len(rest) > 1 {
			return ctx, cmd.usageErrf("expected at most one path, got %d", len(rest))
		}

		dir := ctx.Dir
		switch {
		case len(rest) == 0:
			dir = ctx.Resolve("/")
		case rest[0] == "-":
			dir = ctx.Last
		default:
			dir = ctx.Resolve(rest[0])
		}

		if *check {
			_, found, err := s.client.Exists(dir.String())
			if err != nil {
				return ctx, err
			}
			if !found {
				return ctx, fmt.Errorf("%s: no such node", dir.String())
			}
		}
		return Context{Dir: dir, Last: ctx.Dir}, nil
	}
	return cmd
}
