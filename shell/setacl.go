package shell

import "github.com/QuangTung97/zkcli"

func cmdSetACL() *command {
	cmd := &command{
		name:     "setacl",
		synopsis: "replace or edit node ACL entries",
		usage:    "setacl [--add|--remove|--set] [--version N|--force] PATH ACL...",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("setacl")
		add := fs.BoolP("add", "a", false, "merge entries by identity")
		remove := fs.BoolP("remove", "r", false, "drop entries by identity")
		set := fs.Bool("set", false, "replace the whole list (default)")
		version := fs.Int32P("version", "v", -1, "expected ACL version")
		force := fs.BoolP("force", "f", false, "skip the version check")
		if err := fs.Parse(args); err != nil {
			return ctx, cmd.usageErr(err)
		}
		if err := exclusive(cmd, map[string]bool{
			"--add": *add, "--remove": *remove, "--set": *set,
		}); err != nil {
			return ctx, err
		}
		rest := fs.Args()
		if len(rest) < 2 {
			return ctx, cmd.usageErrf("expected PATH ACL..., got %d arguments", len(rest))
		}
		ver, err := parseVersion(cmd, fs, *version, *force)
		if err != nil {
			return ctx, err
		}

		entries, err := zkcli.ParseACLList(rest[1:])
		if err != nil {
			return ctx, cmd.usageErr(err)
		}

		p := ctx.Resolve(rest[0])
		return ctx, setACLOne(s, p, entries, *add, *remove, ver)
	}
	return cmd
}

// setACLOne applies the edit. Add and remove need the current list and
// are keyed by identity, not by permission bits; plain set replaces.
func setACLOne(s *Shell, p zkcli.Path, entries []zkcli.ACL, add bool, remove bool, version int32) error {
	edit := zkcli.ReplaceACL
	var current []zkcli.ACL
	if add || remove {
		edit = zkcli.MergeACL
		if remove {
			edit = zkcli.RemoveACL
		}
		got, _, err := s.client.GetACL(p.String())
		if err != nil {
			return err
		}
		current = got
	}
	next := edit(current, entries)
	if len(next) == 0 {
		return zkcli.ErrEmptyACL
	}
	_, err := s.client.SetACL(p.String(), next, version)
	return err
}
