package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/runtipios/firstboot/internal/common"
	"github.com/runtipios/firstboot/internal/config"
)

var newLogger = common.NewLogger

// globalOptions are the flags shared by every subcommand.
type globalOptions struct {
	configFile string
	envFile    string
	debug      bool

	getenv func(string) string
}

func (o *globalOptions) logger(service string) *logrus.Logger {
	return newLogger(service, o.debug, o.getenv)
}

// loadConfig reads the configuration file with the environment file layered
// under the process environment.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	getenv, err := config.EnvLookup(o.envFile, o.getenv)
	if err != nil {
		return nil, err
	}
	return config.Parse(o.configFile, getenv)
}

func newRootCmd(getenv func(string) string, stdin io.Reader, stdout io.Writer) *cobra.Command {
	opts := &globalOptions{getenv: getenv}

	root := &cobra.Command{
		Use:           "runtipios-firstboot",
		Short:         "First boot provisioning for RuntipiOS",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)

	root.PersistentFlags().StringVar(&opts.configFile, "config", config.DefaultFile, "configuration file")
	root.PersistentFlags().StringVar(&opts.envFile, "env-file", config.DefaultEnvFile, "environment file with variable overrides")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newPortalCmd(opts),
		newStatusCmd(opts),
		newConfigureCmd(opts),
		newStateCmd(opts),
		newBuildConfigCmd(),
	)

	return root
}

func run(ctx context.Context, args []string, getenv func(string) string, stdin io.Reader, stdout io.Writer) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	root := newRootCmd(getenv, stdin, stdout)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Getenv, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", err)
		os.Exit(1)
	}
}
