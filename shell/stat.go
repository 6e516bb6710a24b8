package shell

import (
	"fmt"
	"time"

	"github.com/QuangTung97/zkcli"
)

func cmdStat() *command {
	cmd := &command{
		name:     "stat",
		aliases:  []string{"info"},
		synopsis: "print node metadata",
		usage:    "stat [--compact] [PATH...]",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("stat")
		compact := fs.BoolP("compact", "c", false, "single line per node")
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
			if multi && !*compact {
				fmt.Fprintf(s.out, "%s:\n", p.String())
			}
			if err := statOne(s, p, *compact); err != nil {
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

func statOne(s *Shell, p zkcli.Path, compact bool) error {
	status, found, err := s.client.Exists(p.String())
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no such node")
	}

	if compact {
		fmt.Fprintf(s.out, "%s v=%d cv=%d av=%d len=%d children=%d ephemeral=%t\n",
			p.String(), status.Version, status.ChildVersion, status.ACLVersion,
			status.DataLength, status.NumChildren, status.IsEphemeral())
		return nil
	}

	const stamp = time.RFC3339
	fmt.Fprintf(s.out, "czxid          = %d\n", status.Czxid)
	fmt.Fprintf(s.out, "mzxid          = %d\n", status.Mzxid)
	fmt.Fprintf(s.out, "pzxid          = %d\n", status.Pzxid)
	fmt.Fprintf(s.out, "ctime          = %s\n", status.Ctime.Format(stamp))
	fmt.Fprintf(s.out, "mtime          = %s\n", status.Mtime.Format(stamp))
	fmt.Fprintf(s.out, "version        = %d\n", status.Version)
	fmt.Fprintf(s.out, "child version  = %d\n", status.ChildVersion)
	fmt.Fprintf(s.out, "acl version    = %d\n", status.ACLVersion)
	fmt.Fprintf(s.out, "ephemeral owner= %d\n", status.EphemeralOwner)
	fmt.Fprintf(s.out, "data length    = %d\n", status.DataLength)
	fmt.Fprintf(s.out, "num children   = %d\n", status.NumChildren)
	return nil
}
