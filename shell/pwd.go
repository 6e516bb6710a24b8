package shell

import "fmt"

func cmdPWD() *command {
	cmd := &command{
		name:     "pwd",
		synopsis: "print the working path",
		usage:    "pwd [--check]",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("pwd")
		check := fs.Bool("check", false, "fail unless the working path exists")
		if err := fs.Parse(args); err != nil {
			return ctx, cmd.usageErr(err)
		}
		if len(fs.Args()) != 0 {
			return ctx, cmd.usageErrf("unexpected argument: %s", fs.Args()[0])
		}

		if *check {
			_, found, err := s.client.Exists(ctx.Dir.String())
			if err != nil {
				return ctx, err
			}
			if !found {
				return ctx, fmt.Errorf("%s: no such node", ctx.Dir.String())
			}
		}
		fmt.Fprintln(s.out, ctx.Dir.String())
		return ctx, nil
	}
	return cmd
}
