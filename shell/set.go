package shell

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

// parseVersion handles the shared --version/--force pair. Force and an
// explicit version contradict each other; neither means unconditional.
func parseVersion(cmd *command, fs *pflag.FlagSet, version int32, force bool) (int32, error) {
	if force && fs.Changed("version") {
		return 0, cmd.usageErr(fmt.Errorf("--version and --force are mutually exclusive"))
	}
	if force || !fs.Changed("version") {
		return -1, nil
	}
	return version, nil
}

func cmdSet() *command {
	cmd := &command{
		name:     "set",
		synopsis: "replace node data",
		usage:    "set [--encoding CS] [--version N|--force] PATH [DATA|@FILE]",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("set")
		charset := fs.StringP("encoding", "e", "", "charset for literal data")
		version := fs.Int32P("version", "v", -1, "expected node version")
		force := fs.BoolP("force", "f", false, "skip the version check")
		if err := fs.Parse(args); err != nil {
			return ctx, cmd.usageErr(err)
		}
		rest := fs.Args()
		if len(rest) < 1 || len(rest) > 2 {
			return ctx, cmd.usageErrf("expected PATH [DATA], got %d arguments", len(rest))
		}
		ver, err := parseVersion(cmd, fs, *version, *force)
		if err != nil {
			return ctx, err
		}

		data, err := resolveData(rest[1:], *charset)
		if err != nil {
			return ctx, err
		}

		p := ctx.Resolve(rest[0])
		if _, err := s.client.Set(p.String(), data, ver); err != nil {
			return ctx, err
		}
		return ctx, nil
	}
	return cmd
}

// resolveData turns an optional DATA argument into the payload bytes.
// No argument means empty data; '@FILE' bytes bypass charset conversion.
func resolveData(rest []string, charset string) ([]byte, error) {
	if len(rest) == 0 {
		return nil, nil
	}
	arg := rest[0]
	if strings.HasPrefix(arg, "@") {
		return readDataArg(arg)
	}
	return encodeString(arg, charset)
}
