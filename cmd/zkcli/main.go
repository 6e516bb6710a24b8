package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/QuangTung97/zkcli"
	"github.com/QuangTung97/zkcli/shell"
)

func main() {
	viper.SetEnvPrefix("zkcli")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	root := &cobra.Command{
		Use:   "zkcli [flags] SERVER[:PORT]...",
		Short: "interactive shell for a coordination service namespace",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.Flags()
	flags.String("path", "/", "starting working path")
	flags.Int("timeout", 10, "session timeout in seconds")
	flags.Bool("readonly", false, "reject mutating commands client-side")
	flags.String("command", "", "run a single command and exit")
	flags.String("file", "", "run commands from a script file and exit")
	flags.String("encoding", "", "charset of the script file")

	if err := root.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// bind pflags to viper so they are settable by env variables
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = viper.BindPFlag(f.Name, f)
	})

	command := viper.GetString("command")
	file := viper.GetString("file")
	if command != "" && file != "" {
		return fmt.Errorf("--command and --file are mutually exclusive")
	}

	options := []zkcli.Option{
		zkcli.WithLogger(zkcli.NewLogrusLogger(log.StandardLogger())),
	}
	if viper.GetBool("readonly") {
		options = append(options, zkcli.WithReadOnly())
	}

	client, err := zkcli.Dial(
		args,
		time.Duration(viper.GetInt("timeout"))*time.Second,
		options...,
	)
	if err != nil {
		return err
	}
	defer client.Close()

	s := shell.New(client)
	ctx := shell.NewContext(viper.GetString("path"))

	switch {
	case command != "":
		_, err = s.RunLine(ctx, command)
	case file != "":
		err = runFile(s, ctx, file, viper.GetString("encoding"))
	default:
		_, err = s.RunInteractive(ctx)
	}
	return err
}

func runFile(s *shell.Shell, ctx shell.Context, name string, charset string) error {
	data, err := os.ReadFile(name)
	if err != nil {
		return err
	}
	text, err := shell.DecodeScript(data, charset)
	if err != nil {
		return err
	}
	_, err = s.RunScript(ctx, strings.NewReader(text))
	return err
}
