package shell

import "github.com/QuangTung97/zkcli"

func cmdRM() *command {
	cmd := &command{
		name:     "rm",
		aliases:  []string{"del"},
		synopsis: "delete a node",
		usage:    "rm [--recursive] [--version N|--force] PATH",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("rm")
		recursive := fs.BoolP("recursive", "r", false, "delete the whole subtree")
		version := fs.Int32P("version", "v", -1, "expected node version")
		force := fs.BoolP("force", "f", false, "skip the version check")
		if err := fs.Parse(args); err != nil {
			return ctx, cmd.usageErr(err)
		}
		rest := fs.Args()
		if len(rest) != 1 {
			return ctx, cmd.usageErrf("expected exactly one path, got %d", len(rest))
		}
		ver, err := parseVersion(cmd, fs, *version, *force)
		if err != nil {
			return ctx, err
		}

		p := ctx.Resolve(rest[0])
		return ctx, rmOne(s, p, *recursive, ver)
	}
	return cmd
}

// rmOne deletes p, children first when recursive. The version check
// applies only to the target node itself; descendants are deleted
// unconditionally. Nodes that vanish mid-walk are fine.
func rmOne(s *Shell, p zkcli.Path, recursive bool, version int32) error {
	if recursive {
		if err := rmChildren(s, p); err != nil {
			return err
		}
	}
	return s.client.Delete(p.String(), version)
}

func rmChildren(s *Shell, p zkcli.Path) error {
	names, _, err := s.client.Children(p.String())
	if err != nil {
		if zkcli.IsNoNode(err) {
			return nil
		}
		return err
	}
	for _, name := range names {
		child := p.Child(name)
		if err := rmChildren(s, child); err != nil {
			return err
		}
		if err := s.client.Delete(child.String(), -1); err != nil && !zkcli.IsNoNode(err) {
			return err
		}
	}
	return nil
}
