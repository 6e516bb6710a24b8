package shell

import (
	"encoding/hex"
	"fmt"

	"github.com/QuangTung97/zkcli"
)

func cmdGet() *command {
	cmd := &command{
		name:     "get",
		synopsis: "print node data",
		usage:    "get [--hex|--string|--binary] [--encoding CS] [PATH...]",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("get")
		asHex := fs.BoolP("hex", "x", false, "hex dump (default)")
		asString := fs.BoolP("string", "s", false, "decode as text")
		asBinary := fs.BoolP("binary", "b", false, "raw bytes")
		charset := fs.StringP("encoding", "e", "", "charset for --string")
		if err := fs.Parse(args); err != nil {
			return ctx, cmd.usageErr(err)
		}
		if err := exclusive(cmd, map[string]bool{
			"--hex": *asHex, "--string": *asString, "--binary": *asBinary,
		}); err != nil {
			return ctx, err
		}

		mode := getHex
		if *asString {
			mode = getString
		}
		if *asBinary {
			mode = getBinary
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
			if err := getOne(s, p, mode, *charset); err != nil {
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

type getMode int

const (
	getHex getMode = iota
	getString
	getBinary
)

func getOne(s *Shell, p zkcli.Path, mode getMode, charset string) error {
	data, _, err := s.client.Get(p.String())
	if err != nil {
		return err
	}
	switch mode {
	case getString:
		text, err := decodeBytes(data, charset)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, text)
	case getBinary:
		_, err := s.out.Write(data)
		return err
	default:
		fmt.Fprint(s.out, hex.Dump(data))
	}
	return nil
}

// exclusive fails when more than one of the named flags is set.
func exclusive(cmd *command, flags map[string]bool) error {
	var set []string
	for name, on := range flags {
		if on {
			set = append(set, name)
		}
	}
	if len(set) > 1 {
		return cmd.usageErrf("options %v are mutually exclusive", set)
	}
	return nil
}
