package shell

import (
	"fmt"
	"strings"
)

func cmdConfig() *command {
	cmd := &command{
		name:     "config",
		synopsis: "print connection settings and session state",
		usage:    "config",
	}
	cmd.run = func(s *Shell, ctx Context, args []string) (Context, error) {
		fs := newFlags("config")
		if err := fs.Parse(args); err != nil {
			return ctx, cmd.usageErr(err)
		}
		if len(fs.Args()) != 0 {
			return ctx, cmd.usageErrf("unexpected argument: %s", fs.Args()[0])
		}

		session := s.client.Session()
		fmt.Fprintf(s.out, "servers  = %s\n", strings.Join(s.client.Servers(), ","))
		fmt.Fprintf(s.out, "timeout  = %s\n", session.Timeout)
		fmt.Fprintf(s.out, "session  = %#x\n", session.ID)
		fmt.Fprintf(s.out, "state    = %s\n", session.State)
		fmt.Fprintf(s.out, "readonly = %t\n", s.client.ReadOnly())
		if event, ok := s.client.LastEvent(); ok {
			fmt.Fprintf(s.out, "last event = %s state=%s\n", event.Type, event.State)
		}
		return ctx, nil
	}
	return cmd
}
