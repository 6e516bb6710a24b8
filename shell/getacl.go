package shell

import (
	"fmt"

	"github.com/QuangTung97/zkcli"
)

func cmdGetACL() *command {
	cmd := &command{
		name:     "getacl",
		synopsis: "print node ACL entries",
		usage:    "getacl [PATH...]",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("getacl")
		if err := fs.Parse(args); err != nil {
			return ctx, cmd.usageErr(err)
		}

		paths := fs.Args()
		if len(paths) == 0 {
			paths = []string{"."}
		}
		multi := len(paths) > 1
		for _, arg := range paths {
			p := ctx.Resolve(arg)
			if multi {
				fmt.Fprintf(s.out, "%s:\n", p.String())
			}
			if err := getACLOne(s, p); err != nil {
				if fatal(err) {
					return ctx, err
				}
				fmt.Fprintf(s.errOut, "%s: %s\n", p.String(), zkcli.Render(err))
			}
		}
		return ctx, nil
	}
	return cmd
}

func getACLOne(s *Shell, p zkcli.Path) error {
	acl, _, err := s.client.GetACL(p.String())
	if err != nil {
		return err
	}
	for _, entry := range acl {
		fmt.Fprintln(s.out, entry.String())
	}
	return nil
}
