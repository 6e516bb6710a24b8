package shell

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/QuangTung97/zkcli"
)

func cmdFind() *command {
	cmd := &command{
		name:     "find",
		synopsis: "match child names and run a sub-command on each",
		usage:    "find [--recursive] [--quiet] [--halt] PATTERN [PATH] [--exec SUBCOMMAND ...]",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		own, sub := splitExec(args)

		fs := newFlags("find")
		recursive := fs.BoolP("recursive", "r", false, "descend into child nodes")
		quiet := fs.BoolP("quiet", "q", false, "do not echo matched paths")
		halt := fs.Bool("halt", false, "stop at the first failing node")
		if err := fs.Parse(own); err != nil {
			return ctx, cmd.usageErr(err)
		}
		rest := fs.Args()
		if len(rest) < 1 || len(rest) > 2 {
			return ctx, cmd.usageErrf("expected PATTERN [PATH], got %d arguments", len(rest))
		}

		pattern, err := regexp.Compile(rest[0])
		if err != nil {
			return ctx, cmd.usageErrf("bad pattern: %v", err)
		}

		action, err := parseAction(cmd, sub)
		if err != nil {
			return ctx, err
		}

		base := ctx.Dir
		if len(rest) == 2 {
			base = ctx.Resolve(rest[1])
		}

		// Enumerate first, then act. The tree may change in between, so
		// actions have to tolerate nodes that are already gone.
		matches, err := enumerate(s, base, pattern, *recursive)
		if err != nil {
			return ctx, err
		}

		for _, p := range matches {
			if !*quiet {
				fmt.Fprintln(s.out, p.String())
			}
			if err := action(s, p); err != nil {
				if *halt || fatal(err) {
					return ctx, err
				}
				fmt.Fprintf(s.errOut, "%s: %s\n", p.String(), zkcli.Render(err))
			}
		}
		return ctx, nil
	}
	return cmd
}

// splitExec cuts the argument list at the first "--exec" so the
// sub-command's own options are not parsed as find options.
func splitExec(args []string) (own []string, sub []string) {
	for i, arg := range args {
		if arg == "--exec" {
			return args[:i], args[i+1:]
		}
	}
	return args, nil
}

// enumerate walks the tree under base, depth first, and returns the
// paths whose node name matches the pattern. The result is a snapshot:
// nothing is mutated during the walk.
func enumerate(s *Shell, base zkcli.Path, pattern *regexp.Regexp, recursive bool) ([]zkcli.Path, error) {
	names, _, err := s.client.Children(base.String())
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var matches []zkcli.Path
	for _, name := range names {
		child := base.Child(name)
		if pattern.MatchString(name) {
			matches = append(matches, child)
		}
		if recursive {
			sub, err := enumerate(s, child, pattern, recursive)
			if err != nil {
				if zkcli.IsNoNode(err) {
					continue
				}
				return nil, err
			}
			matches = append(matches, sub...)
		}
	}
	return matches, nil
}

// findAction runs one sub-command against a matched node.
type findAction func(s *Shell, p zkcli.Path) error

// parseAction builds the delegated action up front so option errors
// surface before any node is touched. No sub-command means just echoing
// the matches.
func parseAction(cmd *command, sub []string) (findAction, error) {
	if len(sub) == 0 {
		return func(s *Shell, p zkcli.Path) error { return nil }, nil
	}

	verb := sub[0]
	args := sub[1:]
	switch verb {
	case "print":
		return parsePrintAction(cmd, args)
	case "ls", "dir":
		return parseLSAction(cmd, args)
	case "stat", "info":
		return parseStatAction(cmd, args)
	case "get":
		return parseGetAction(cmd, args)
	case "getacl":
		return parseGetACLAction(cmd, args)
	case "set":
		return parseSetAction(cmd, args)
	case "setacl":
		return parseSetACLAction(cmd, args)
	case "mk", "create":
		return parseMKAction(cmd, args)
	case "rm", "del":
		return parseRMAction(cmd, args)
	default:
		return nil, cmd.usageErrf("unknown sub-command: %s", verb)
	}
}

func parsePrintAction(cmd *command, args []string) (findAction, error) {
	if len(args) != 0 {
		return nil, cmd.usageErrf("print takes no arguments")
	}
	return func(s *Shell, p zkcli.Path) error {
		fmt.Fprintln(s.out, p.String())
		return nil
	}, nil
}

func parseLSAction(cmd *command, args []string) (findAction, error) {
	fs := newFlags("ls")
	long := fs.BoolP("long", "l", false, "show node metadata")
	if err := fs.Parse(args); err != nil {
		return nil, cmd.usageErr(err)
	}
	if len(fs.Args()) != 0 {
		return nil, cmd.usageErrf("ls sub-command takes no paths")
	}
	return func(s *Shell, p zkcli.Path) error {
		return lsOne(s, p, *long, false)
	}, nil
}

func parseStatAction(cmd *command, args []string) (findAction, error) {
	fs := newFlags("stat")
	compact := fs.BoolP("compact", "c", false, "single line per node")
	if err := fs.Parse(args); err != nil {
		return nil, cmd.usageErr(err)
	}
	if len(fs.Args()) != 0 {
		return nil, cmd.usageErrf("stat sub-command takes no paths")
	}
	return func(s *Shell, p zkcli.Path) error {
		return statOne(s, p, *compact)
	}, nil
}

func parseGetAction(cmd *command, args []string) (findAction, error) {
	fs := newFlags("get")
	asHex := fs.BoolP("hex", "x", false, "hex dump (default)")
	asString := fs.BoolP("string", "s", false, "decode as text")
	asBinary := fs.BoolP("binary", "b", false, "raw bytes")
	charset := fs.StringP("encoding", "e", "", "charset for --string")
	if err := fs.Parse(args); err != nil {
		return nil, cmd.usageErr(err)
	}
	if len(fs.Args()) != 0 {
		return nil, cmd.usageErrf("get sub-command takes no paths")
	}
	if err := exclusive(cmd, map[string]bool{
		"--hex": *asHex, "--string": *asString, "--binary": *asBinary,
	}); err != nil {
		return nil, err
	}
	mode := getHex
	if *asString {
		mode = getString
	}
	if *asBinary {
		mode = getBinary
	}
	return func(s *Shell, p zkcli.Path) error {
		return getOne(s, p, mode, *charset)
	}, nil
}

func parseGetACLAction(cmd *command, args []string) (findAction, error) {
	if len(args) != 0 {
		return nil, cmd.usageErrf("getacl sub-command takes no arguments")
	}
	return getACLOne, nil
}

func parseSetAction(cmd *command, args []string) (findAction, error) {
	fs := newFlags("set")
	charset := fs.StringP("encoding", "e", "", "charset for literal data")
	if err := fs.Parse(args); err != nil {
		return nil, cmd.usageErr(err)
	}
	rest := fs.Args()
	if len(rest) > 1 {
		return nil, cmd.usageErrf("set sub-command takes [DATA], got %d arguments", len(rest))
	}
	data, err := resolveData(rest, *charset)
	if err != nil {
		return nil, err
	}
	return func(s *Shell, p zkcli.Path) error {
		_, err := s.client.Set(p.String(), data, -1)
		return err
	}, nil
}

func parseSetACLAction(cmd *command, args []string) (findAction, error) {
	fs := newFlags("setacl")
	add := fs.BoolP("add", "a", false, "merge entries by identity")
	remove := fs.BoolP("remove", "r", false, "drop entries by identity")
	set := fs.Bool("set", false, "replace the whole list (default)")
	if err := fs.Parse(args); err != nil {
		return nil, cmd.usageErr(err)
	}
	if err := exclusive(cmd, map[string]bool{
		"--add": *add, "--remove": *remove, "--set": *set,
	}); err != nil {
		return nil, err
	}
	rest := fs.Args()
	if len(rest) == 0 {
		return nil, cmd.usageErrf("setacl sub-command needs ACL entries")
	}
	entries, err := zkcli.ParseACLList(rest)
	if err != nil {
		return nil, cmd.usageErr(err)
	}
	addFlag, removeFlag := *add, *remove
	return func(s *Shell, p zkcli.Path) error {
		return setACLOne(s, p, entries, addFlag, removeFlag, -1)
	}, nil
}

func parseMKAction(cmd *command, args []string) (findAction, error) {
	fs := newFlags("mk")
	charset := fs.StringP("encoding", "e", "", "charset for literal data")
	if err := fs.Parse(args); err != nil {
		return nil, cmd.usageErr(err)
	}
	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		return nil, cmd.usageErrf("mk sub-command takes NAME [DATA], got %d arguments", len(rest))
	}
	name := rest[0]
	data, err := resolveData(rest[1:], *charset)
	if err != nil {
		return nil, err
	}
	return func(s *Shell, p zkcli.Path) error {
		created, err := s.client.Create(
			p.Child(name).String(), data, zkcli.Persistent, 0, nil)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, created)
		return nil
	}, nil
}

func parseRMAction(cmd *command, args []string) (findAction, error) {
	fs := newFlags("rm")
	recursive := fs.BoolP("recursive", "r", false, "delete the whole subtree")
	if err := fs.Parse(args); err != nil {
		return nil, cmd.usageErr(err)
	}
	if len(fs.Args()) != 0 {
		return nil, cmd.usageErrf("rm sub-command takes no paths")
	}
	return func(s *Shell, p zkcli.Path) error {
		// A match deleted between the enumerate and act phases, or as
		// part of an earlier match's subtree, is already what we wanted.
		err := rmOne(s, p, *recursive, -1)
		if zkcli.IsNoNode(err) {
			return nil
		}
		return err
	}, nil
}
