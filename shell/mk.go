package shell

import (
	"fmt"
	"time"

	"github.com/QuangTung97/zkcli"
)

func cmdMK() *command {
	cmd := &command{
		name:     "mk",
		aliases:  []string{"create"},
		synopsis: "create a node",
		usage: "mk [--recursive] [--encoding CS] [--sequential] [--ephemeral]" +
			" [--ttl MS] [--container] [--acl ACL]... PATH [DATA|@FILE]",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("mk")
		recursive := fs.BoolP("recursive", "r", false, "create missing ancestors")
		charset := fs.StringP("encoding", "e", "", "charset for literal data")
		sequential := fs.BoolP("sequential", "s", false, "append a sequence number")
		ephemeral := fs.Bool("ephemeral", false, "tie the node to this session")
		ttl := fs.Int64("ttl", 0, "expiry in milliseconds once childless")
		container := fs.Bool("container", false, "remove automatically once childless")
		aclArgs := fs.StringArray("acl", nil, "ACL entry, repeatable")
		if err := fs.Parse(args); err != nil {
			return ctx, cmd.usageErr(err)
		}
		rest := fs.Args()
		if len(rest) < 1 || len(rest) > 2 {
			return ctx, cmd.usageErrf("expected PATH [DATA], got %d arguments", len(rest))
		}

		disposition, err := pickDisposition(cmd, *sequential, *ephemeral, *ttl, *container)
		if err != nil {
			return ctx, err
		}

		var acl []zkcli.ACL
		if len(*aclArgs) > 0 {
			acl, err = zkcli.ParseACLList(*aclArgs)
			if err != nil {
				return ctx, cmd.usageErr(err)
			}
		}

		data, err := resolveData(rest[1:], *charset)
		if err != nil {
			return ctx, err
		}

		p := ctx.Resolve(rest[0])
		if *recursive {
			if err := createAncestors(s, p); err != nil {
				return ctx, err
			}
		}

		created, err := s.client.Create(
			p.String(), data, disposition,
			time.Duration(*ttl)*time.Millisecond, acl,
		)
		if err != nil {
			return ctx, err
		}
		fmt.Fprintln(s.out, created)
		return ctx, nil
	}
	return cmd
}

func pickDisposition(
	cmd *command, sequential bool, ephemeral bool, ttl int64, container bool,
) (zkcli.Disposition, error) {
	switch {
	case container:
		if sequential || ephemeral || ttl > 0 {
			return 0, cmd.usageErrf("--container excludes the other node kinds")
		}
		return zkcli.Container, nil

	case ttl > 0:
		if ephemeral {
			return 0, cmd.usageErrf("--ttl applies to persistent nodes only")
		}
		if sequential {
			return zkcli.PersistentSequentialTTL, nil
		}
		return zkcli.PersistentTTL, nil

	case ephemeral:
		if sequential {
			return zkcli.EphemeralSequential, nil
		}
		return zkcli.Ephemeral, nil

	case sequential:
		return zkcli.PersistentSequential, nil

	default:
		return zkcli.Persistent, nil
	}
}

// createAncestors makes every missing node above p, persistent with
// empty data. Another client may win the race for any of them, so an
// already-existing node is fine.
func createAncestors(s *Shell, p zkcli.Path) error {
	parent, ok := p.ParentOption()
	if !ok || parent.String() == "/" {
		return nil
	}
	if err := createAncestors(s, parent); err != nil {
		return err
	}
	_, err := s.client.Create(parent.String(), nil, zkcli.Persistent, 0, nil)
	if err != nil && !zkcli.IsNodeExists(err) {
		return err
	}
	return nil
}
