package shell

import (
	"fmt"
	"sort"

	"github.com/QuangTung97/zkcli"
)

func cmdLS() *command {
	cmd := &command{
		name:     "ls",
		aliases:  []string{"dir"},
		synopsis: "list child nodes",
		usage:    "ls [--recursive] [--long] [PATH...]",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("ls")
		recursive := fs.BoolP("recursive", "r", false, "descend into child nodes")
		long := fs.BoolP("long", "l", false, "show node metadata")
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
			if err := lsOne(s, p, *long, *recursive); err != nil {
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

// lsOne lists the children of a single node. Recursive listings print
// paths relative to the starting node, depth first.
func lsOne(s *Shell, p zkcli.Path, long bool, recursive bool) error {
	return lsWalk(s, p, zkcli.Path{}, long, recursive)
}

func lsWalk(s *Shell, base zkcli.Path, rel zkcli.Path, long bool, recursive bool) error {
	full := base.Resolve(rel).Normalize()
	names, _, err := s.client.Children(full.String())
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		label := rel.Child(name).String()
		if long {
			if err := printLong(s, full.Child(name), label); err != nil {
				fmt.Fprintf(s.errOut, "%s: %s\n", label, zkcli.Render(err))
			}
		} else {
			fmt.Fprintln(s.out, label)
		}
	}
	if !recursive {
		return nil
	}
	for _, name := range names {
		if err := lsWalk(s, base, rel.Child(name), long, recursive); err != nil {
			if zkcli.IsNoNode(err) {
				continue
			}
			return err
		}
	}
	return nil
}

func printLong(s *Shell, p zkcli.Path, label string) error {
	status, found, err := s.client.Exists(p.String())
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no such node")
	}
	kind := "-"
	if status.IsEphemeral() {
		kind = "e"
	}
	fmt.Fprintf(s.out, "%s v=%d c=%d len=%d %s\n",
		kind, status.Version, status.NumChildren, status.DataLength, label)
	return nil
}
